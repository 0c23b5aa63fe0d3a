package httpx

import (
	"net/http"

	"github.com/trustgigs/ledger/internal/domain/model"
	"github.com/trustgigs/ledger/internal/service"
)

// JobHandlers provides HTTP handlers for job operations.
type JobHandlers struct {
	Svc *service.LedgerService
}

// CreateJob handles POST /api/jobs.
func (h *JobHandlers) CreateJob(w http.ResponseWriter, r *http.Request) {
	var req model.CreateJobRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	jobID, err := h.Svc.CreateJob(r.Context(), req)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]uint64{"job_id": jobID})
}

// GetJob handles GET /api/jobs/{id}.
func (h *JobHandlers) GetJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	job, err := h.Svc.GetJob(jobID)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, job)
}

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// ListJobs handles GET /api/jobs with status/reward/search filters.
func (h *JobHandlers) ListJobs(w http.ResponseWriter, r *http.Request) {
	filter, err := jobFilterFromQuery(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"jobs": h.Svc.ListJobs(filter)})
}

func jobFilterFromQuery(r *http.Request) (model.JobFilter, error) {
	var filter model.JobFilter
	if raw := r.URL.Query().Get("status"); raw != "" && raw != "all" {
		status := model.JobStatus(raw)
		if !status.Valid() {
			return filter, invalidStatusParam(raw)
		}
		filter.Status = &status
	}
	filter.MinReward = parseUintQuery(r, "min_reward")
	filter.MaxReward = parseUintQuery(r, "max_reward")
	filter.Search = r.URL.Query().Get("search")
	filter.Limit, filter.Offset = parseLimitOffset(r, defaultListLimit, maxListLimit)
	return filter, nil
}

// ListEmployerJobs handles GET /api/employers/{id}/jobs.
func (h *JobHandlers) ListEmployerJobs(w http.ResponseWriter, r *http.Request) {
	employer := r.PathValue("id")
	WriteJSON(w, http.StatusOK, map[string]any{"jobs": h.Svc.ListJobsByEmployer(employer)})
}

// callerRequest carries the acting actor id for employer/applicant actions.
// Actor identity is supplied by the wallet layer in front of this service.
type callerRequest struct {
	Caller string `json:"caller"`
}

// CancelJob handles POST /api/jobs/{id}/cancel.
func (h *JobHandlers) CancelJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathID(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	var req callerRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	if err := h.Svc.CancelJob(r.Context(), jobID, req.Caller); err != nil {
		WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExpireJob handles POST /api/jobs/{id}/expire. The transition is purely
// time-gated, so no caller identity is required.
func (h *JobHandlers) ExpireJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.Svc.ExpireJob(r.Context(), jobID); err != nil {
		WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// selectWinnerRequest carries the winner choice.
type selectWinnerRequest struct {
	ApplicationID uint64 `json:"application_id"`
	Caller        string `json:"caller"`
}

// SelectWinner handles POST /api/jobs/{id}/winner.
func (h *JobHandlers) SelectWinner(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathID(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	var req selectWinnerRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	if err := h.Svc.SelectWinner(r.Context(), jobID, req.ApplicationID, req.Caller); err != nil {
		WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// viewRequest carries the optional viewer id for view counting.
type viewRequest struct {
	Viewer string `json:"viewer,omitempty"`
}

// RecordView handles POST /api/jobs/{id}/views.
func (h *JobHandlers) RecordView(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathID(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	var req viewRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	if err := h.Svc.RecordView(r.Context(), jobID, req.Viewer); err != nil {
		WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetEscrow handles GET /api/jobs/{id}/escrow.
func (h *JobHandlers) GetEscrow(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	entry, err := h.Svc.GetEscrow(jobID)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, entry)
}
