package api

import (
	"context"
	"net/http"
	"time"

	"github.com/stockpile/stockpile-api/internal/api/shared"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// healthCheckTimeout bounds the dependency ping behind /health.
const healthCheckTimeout = 2 * time.Second

// SystemHandler serves the liveness endpoints.
type SystemHandler struct {
	pinger Pinger
}

// NewSystemHandler creates a new SystemHandler. pinger may be nil, in which
// case /health only reports that the process is up.
func NewSystemHandler(pinger Pinger) *SystemHandler {
	return &SystemHandler{pinger: pinger}
}

// Root handles GET /.
func (h *SystemHandler) Root(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithText(w, r, http.StatusOK, "server running")
}

// Health handles GET /health.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		if err := h.pinger.Ping(ctx); err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable, "Service unavailable", err)
			return
		}
	}
	shared.RespondWithText(w, r, http.StatusOK, "OK")
}
