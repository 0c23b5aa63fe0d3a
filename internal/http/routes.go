package httpx

import (
	"log/slog"
	"net/http"

	"github.com/trustgigs/ledger/internal/service"
)

// RouterOptions groups dependencies for NewRouter.
type RouterOptions struct {
	Ledger *service.LedgerService // Required: ledger service
	Logger *slog.Logger           // Required: structured logger
}

// NewRouter builds the API handler with middleware applied.
func NewRouter(opts RouterOptions) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	jobs := &JobHandlers{Svc: opts.Ledger}
	mux.HandleFunc("POST /api/jobs", jobs.CreateJob)
	mux.HandleFunc("GET /api/jobs", jobs.ListJobs)
	mux.HandleFunc("GET /api/jobs/{id}", jobs.GetJob)
	mux.HandleFunc("POST /api/jobs/{id}/cancel", jobs.CancelJob)
	mux.HandleFunc("POST /api/jobs/{id}/expire", jobs.ExpireJob)
	mux.HandleFunc("POST /api/jobs/{id}/winner", jobs.SelectWinner)
	mux.HandleFunc("POST /api/jobs/{id}/views", jobs.RecordView)
	mux.HandleFunc("GET /api/jobs/{id}/escrow", jobs.GetEscrow)
	mux.HandleFunc("GET /api/employers/{id}/jobs", jobs.ListEmployerJobs)

	apps := &ApplicationHandlers{Svc: opts.Ledger}
	mux.HandleFunc("POST /api/jobs/{id}/applications", apps.Apply)
	mux.HandleFunc("GET /api/jobs/{id}/applications", apps.ListByJob)
	mux.HandleFunc("GET /api/applicants/{id}/applications", apps.ListByApplicant)
	mux.HandleFunc("POST /api/applications/{id}/withdraw", apps.Withdraw)
	mux.HandleFunc("POST /api/applications/{id}/reject", apps.Reject)

	stats := &StatsHandlers{Svc: opts.Ledger}
	mux.HandleFunc("GET /api/stats/platform", stats.Platform)
	mux.HandleFunc("GET /api/stats/users/{id}", stats.User)

	events := &EventHandlers{Svc: opts.Ledger}
	mux.HandleFunc("GET /api/events", events.List)

	var handler http.Handler = mux
	handler = Logging(opts.Logger)(handler)
	handler = RequestID()(handler)
	handler = Recover(opts.Logger)(handler)
	return handler
}
