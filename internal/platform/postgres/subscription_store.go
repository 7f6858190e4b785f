package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/stockpile/stockpile-api/internal/domain"
	"github.com/stockpile/stockpile-api/internal/store"
)

// InsertSubscription implements store.SubscriptionStore.
func (s *Store) InsertSubscription(ctx context.Context, sub *domain.Subscription) (*store.InsertResult, error) {
	id := uuid.New()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO subscriptions (id, email, created_at) VALUES ($1, $2, $3)",
		id, sub.Email, sub.CreatedAt)
	if err != nil {
		return nil, store.NewStoreError("subscription", "insert", "insert failed", MapError(err))
	}

	sub.ID = id.String()
	return &store.InsertResult{Acknowledged: true, InsertedID: sub.ID}, nil
}
