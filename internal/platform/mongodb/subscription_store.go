package mongodb

import (
	"context"
	"time"

	"github.com/stockpile/stockpile-api/internal/domain"
	"github.com/stockpile/stockpile-api/internal/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type subscriptionDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Email     string             `bson:"email"`
	CreatedAt time.Time          `bson:"createdAt"`
}

// InsertSubscription implements store.SubscriptionStore.
func (s *Store) InsertSubscription(ctx context.Context, sub *domain.Subscription) (*store.InsertResult, error) {
	doc := subscriptionDocument{
		ID:        primitive.NewObjectID(),
		Email:     sub.Email,
		CreatedAt: sub.CreatedAt,
	}

	if _, err := s.subscriptions.InsertOne(ctx, doc); err != nil {
		return nil, store.NewStoreError("subscription", "insert", "insert failed", MapError(err))
	}

	sub.ID = doc.ID.Hex()
	return &store.InsertResult{Acknowledged: true, InsertedID: sub.ID}, nil
}
