package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stockpile/stockpile-api/internal/mocks"
	"github.com/stockpile/stockpile-api/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenHandler_GetToken(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		jwtErr         error
		expectedStatus int
		expectedToken  string
	}{
		{
			name:           "claims object",
			body:           `{"email":"a@x.com"}`,
			expectedStatus: http.StatusOK,
			expectedToken:  "signed-token",
		},
		{
			name:           "empty object",
			body:           `{}`,
			expectedStatus: http.StatusOK,
			expectedToken:  "signed-token",
		},
		{
			name:           "null body",
			body:           `null`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "not an object",
			body:           `"a@x.com"`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "signing failure",
			body:           `{"email":"a@x.com"}`,
			jwtErr:         errors.New("signing failed"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotClaims map[string]any
			jwtSvc := &mocks.MockJWTService{
				GenerateTokenFn: func(ctx context.Context, claims map[string]any) (string, error) {
					gotClaims = claims
					if tt.jwtErr != nil {
						return "", tt.jwtErr
					}
					return "signed-token", nil
				},
			}
			h := NewTokenHandler(jwtSvc, nil)

			rr := serve(http.HandlerFunc(h.GetToken), http.MethodPost, "/gettoken", tt.body)
			assert.Equal(t, tt.expectedStatus, rr.Code)

			if tt.expectedToken == "" {
				return
			}
			var resp TokenResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tt.expectedToken, resp.JWTToken)
			assert.NotNil(t, gotClaims)
		})
	}
}

func TestTokenHandler_IssuedTokenValidates(t *testing.T) {
	jwtSvc := testutils.NewTestJWTService(t)

	h := NewTokenHandler(jwtSvc, nil)
	rr := serve(http.HandlerFunc(h.GetToken), http.MethodPost, "/gettoken", `{"email":"a@x.com","exp":1}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp TokenResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	claims, err := jwtSvc.ValidateToken(context.Background(), resp.JWTToken)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Email)
}
