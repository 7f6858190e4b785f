package api

import (
	"net/http"
	"testing"

	"github.com/stockpile/stockpile-api/internal/domain"
	"github.com/stockpile/stockpile-api/internal/mocks"
	"github.com/stockpile/stockpile-api/internal/service"
	"github.com/stockpile/stockpile-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewsletterHandler_Subscribe(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectInsert   bool
		storeErr       error
		expectedStatus int
	}{
		{
			name:           "valid email",
			body:           `{"email":"reader@example.com"}`,
			expectInsert:   true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing email",
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid email",
			body:           `{"email":"reader"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "store down",
			body:           `{"email":"reader@example.com"}`,
			expectInsert:   true,
			storeErr:       store.ErrStoreUnavailable,
			expectedStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subs := &mocks.TestifyMockSubscriptionStore{}
			if tt.expectInsert {
				var res *store.InsertResult
				if tt.storeErr == nil {
					res = &store.InsertResult{Acknowledged: true, InsertedID: "sub-1"}
				}
				subs.On("InsertSubscription", mock.Anything, mock.MatchedBy(func(s *domain.Subscription) bool {
					return s.Email == "reader@example.com" && !s.CreatedAt.IsZero()
				})).Return(res, tt.storeErr).Once()
			}

			svc, err := service.NewNewsletterService(subs, 0, nil)
			require.NoError(t, err)
			h := NewNewsletterHandler(svc)

			rr := serve(http.HandlerFunc(h.Subscribe), http.MethodPost, "/newsletterEmails", tt.body)
			assert.Equal(t, tt.expectedStatus, rr.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.JSONEq(t, `{"acknowledged":true,"insertedId":"sub-1"}`, rr.Body.String())
			}

			subs.AssertExpectations(t)
		})
	}
}
