package httpx

import (
	"net/http"

	"github.com/trustgigs/ledger/internal/domain/model"
	"github.com/trustgigs/ledger/internal/service"
)

// ApplicationHandlers provides HTTP handlers for application operations.
type ApplicationHandlers struct {
	Svc *service.LedgerService
}

// applyRequest is the body of an application submission; the job id comes
// from the path.
type applyRequest struct {
	Applicant   string `json:"applicant"`
	Note        string `json:"note,omitempty"`
	AccessLevel *int   `json:"access_level,omitempty"`
}

// Apply handles POST /api/jobs/{id}/applications.
func (h *ApplicationHandlers) Apply(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathID(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	var req applyRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	appID, err := h.Svc.ApplyToJob(r.Context(), model.ApplyRequest{
		JobID:       jobID,
		Applicant:   req.Applicant,
		Note:        req.Note,
		AccessLevel: req.AccessLevel,
	})
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]uint64{"application_id": appID})
}

// ListByJob handles GET /api/jobs/{id}/applications.
func (h *ApplicationHandlers) ListByJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	apps, err := h.Svc.ListApplications(jobID)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"applications": apps})
}

// ListByApplicant handles GET /api/applicants/{id}/applications.
func (h *ApplicationHandlers) ListByApplicant(w http.ResponseWriter, r *http.Request) {
	applicant := r.PathValue("id")
	WriteJSON(w, http.StatusOK, map[string]any{
		"applications": h.Svc.ListApplicationsByApplicant(applicant),
	})
}

// Withdraw handles POST /api/applications/{id}/withdraw.
func (h *ApplicationHandlers) Withdraw(w http.ResponseWriter, r *http.Request) {
	appID, err := pathID(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	var req callerRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	if err := h.Svc.WithdrawApplication(r.Context(), appID, req.Caller); err != nil {
		WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Reject handles POST /api/applications/{id}/reject.
func (h *ApplicationHandlers) Reject(w http.ResponseWriter, r *http.Request) {
	appID, err := pathID(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	var req callerRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	if err := h.Svc.RejectApplication(r.Context(), appID, req.Caller); err != nil {
		WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
