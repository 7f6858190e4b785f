package mocks

import (
	"context"

	"github.com/stockpile/stockpile-api/internal/domain"
	"github.com/stockpile/stockpile-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// TestifyMockSubscriptionStore is a mock of store.SubscriptionStore for use with testify/mock
type TestifyMockSubscriptionStore struct {
	mock.Mock
}

var _ store.SubscriptionStore = (*TestifyMockSubscriptionStore)(nil)

// InsertSubscription is a mock implementation of store.SubscriptionStore.InsertSubscription
func (m *TestifyMockSubscriptionStore) InsertSubscription(
	ctx context.Context,
	sub *domain.Subscription,
) (*store.InsertResult, error) {
	args := m.Called(ctx, sub)
	if res, ok := args.Get(0).(*store.InsertResult); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}
