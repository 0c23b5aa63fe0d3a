package httpx

import (
	"net/http"
	"strconv"

	"github.com/trustgigs/ledger/internal/domain/model"
	"github.com/trustgigs/ledger/internal/service"
)

// EventHandlers provides HTTP handlers for the event feed.
type EventHandlers struct {
	Svc *service.LedgerService
}

const (
	defaultEventBatch = 100
	maxEventBatch     = 1000
)

// List handles GET /api/events?from=N&limit=M. The feed is restartable from
// any offset: callers page by passing the last sequence they saw.
func (h *EventHandlers) List(w http.ResponseWriter, r *http.Request) {
	var fromSeq uint64
	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			WriteError(w, invalidFromParam(raw))
			return
		}
		fromSeq = parsed
	}
	limit, _ := parseLimitOffset(r, defaultEventBatch, maxEventBatch)

	events := make([]model.Event, 0, limit)
	err := h.Svc.Events(r.Context(), fromSeq, func(ev model.Event) error {
		events = append(events, ev)
		if len(events) >= limit {
			return errStopReplay
		}
		return nil
	})
	if err != nil && err != errStopReplay { //nolint:errorlint // sentinel is never wrapped
		WriteError(w, err)
		return
	}

	next := fromSeq
	if len(events) > 0 {
		next = events[len(events)-1].Sequence
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"events": events,
		"next":   next,
	})
}
