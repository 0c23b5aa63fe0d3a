package httpx

import (
	"net/http"

	"github.com/trustgigs/ledger/internal/service"
)

// StatsHandlers provides HTTP handlers for stats queries.
type StatsHandlers struct {
	Svc *service.LedgerService
}

// Platform handles GET /api/stats/platform.
func (h *StatsHandlers) Platform(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, h.Svc.GetPlatformStats())
}

// User handles GET /api/stats/users/{id}.
func (h *StatsHandlers) User(w http.ResponseWriter, r *http.Request) {
	actor := r.PathValue("id")
	WriteJSON(w, http.StatusOK, h.Svc.GetUserStats(actor))
}
