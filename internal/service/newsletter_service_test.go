package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stockpile/stockpile-api/internal/domain"
	"github.com/stockpile/stockpile-api/internal/mocks"
	"github.com/stockpile/stockpile-api/internal/service"
	"github.com/stockpile/stockpile-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewsletterService_Subscribe(t *testing.T) {
	t.Parallel()

	subs := &mocks.TestifyMockSubscriptionStore{}
	subs.On("InsertSubscription", mock.Anything, mock.MatchedBy(func(s *domain.Subscription) bool {
		return s.Email == "n@x.io" && !s.CreatedAt.IsZero()
	})).Return(&store.InsertResult{Acknowledged: true, InsertedID: "sub-1"}, nil).Once()

	svc, err := service.NewNewsletterService(subs, 0, nil)
	require.NoError(t, err)

	res, err := svc.Subscribe(context.Background(), "  n@x.io ")
	require.NoError(t, err)
	assert.Equal(t, "sub-1", res.InsertedID)
	subs.AssertExpectations(t)
}

func TestNewsletterService_InvalidEmail(t *testing.T) {
	t.Parallel()

	subs := &mocks.TestifyMockSubscriptionStore{}
	svc, err := service.NewNewsletterService(subs, 0, nil)
	require.NoError(t, err)

	for _, email := range []string{"", "nope", "a@"} {
		_, err := svc.Subscribe(context.Background(), email)
		assert.ErrorIs(t, err, domain.ErrValidation, "email %q", email)
	}
	subs.AssertNotCalled(t, "InsertSubscription", mock.Anything, mock.Anything)
}

func TestNewsletterService_StoreFailure(t *testing.T) {
	t.Parallel()

	subs := &mocks.TestifyMockSubscriptionStore{}
	subs.On("InsertSubscription", mock.Anything, mock.Anything).
		Return(nil, errors.Join(store.ErrStoreUnavailable, errors.New("no primary"))).Once()

	svc, err := service.NewNewsletterService(subs, 0, nil)
	require.NoError(t, err)

	_, err = svc.Subscribe(context.Background(), "n@x.io")
	assert.ErrorIs(t, err, store.ErrStoreUnavailable)

	var svcErr *service.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "newsletter", svcErr.Service)
}

func TestNewNewsletterService_NilStore(t *testing.T) {
	t.Parallel()

	_, err := service.NewNewsletterService(nil, 0, nil)
	assert.Error(t, err)
}
