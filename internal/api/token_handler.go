package api

import (
	"log/slog"
	"net/http"

	"github.com/stockpile/stockpile-api/internal/api/shared"
	"github.com/stockpile/stockpile-api/internal/platform/logger"
	"github.com/stockpile/stockpile-api/internal/service/auth"
)

// TokenHandler issues signed bearer tokens.
type TokenHandler struct {
	jwtService auth.JWTService
	logger     *slog.Logger
}

// NewTokenHandler creates a new TokenHandler.
func NewTokenHandler(jwtService auth.JWTService, logger *slog.Logger) *TokenHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TokenHandler{
		jwtService: jwtService,
		logger:     logger.With("component", "token_handler"),
	}
}

// GetToken handles POST /gettoken. The request body is a JSON object whose
// members become the token claims; iat and exp are always set by the server.
func (h *TokenHandler) GetToken(w http.ResponseWriter, r *http.Request) {
	claims, err := shared.DecodeJSONObject(r)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	token, err := h.jwtService.GenerateToken(r.Context(), claims)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to generate token", err)
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("token issued",
		slog.Int("claim_count", len(claims)))
	shared.RespondWithJSON(w, r, http.StatusOK, TokenResponse{JWTToken: token})
}
