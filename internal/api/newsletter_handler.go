package api

import (
	"net/http"

	"github.com/stockpile/stockpile-api/internal/api/shared"
	"github.com/stockpile/stockpile-api/internal/service"
)

// NewsletterHandler handles newsletter sign-up requests.
type NewsletterHandler struct {
	newsletter service.NewsletterService
}

// NewNewsletterHandler creates a new NewsletterHandler.
func NewNewsletterHandler(newsletter service.NewsletterService) *NewsletterHandler {
	return &NewsletterHandler{newsletter: newsletter}
}

// Subscribe handles POST /newsletterEmails.
func (h *NewsletterHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req NewsletterRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	res, err := h.newsletter.Subscribe(r.Context(), req.Email)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, res)
}
