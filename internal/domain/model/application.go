package model

import (
	"strings"

	apperrors "github.com/trustgigs/ledger/internal/errors"
)

// Application represents an applicant's submission against an open job.
// Applications are never deleted; withdrawal and rejection are status flags.
type Application struct {
	ID          uint64 `json:"id"`
	JobID       uint64 `json:"job_id"`
	Applicant   string `json:"applicant"`
	Note        string `json:"note,omitempty"`
	SubmittedAt uint64 `json:"submitted_at"`
	IsWinner    bool   `json:"is_winner"`
	Withdrawn   bool   `json:"withdrawn"`
	Rejected    bool   `json:"rejected"`
}

// Live reports whether the application is still a candidate: not withdrawn.
// Rejection is informational and does not remove candidacy.
func (a *Application) Live() bool {
	return !a.Withdrawn
}

// ApplyRequest represents a request to apply to a job.
type ApplyRequest struct {
	JobID       uint64 `json:"job_id"`
	Applicant   string `json:"applicant"`
	Note        string `json:"note,omitempty"`
	AccessLevel *int   `json:"access_level,omitempty"`
}

// Validate checks the ApplyRequest fields.
func (r *ApplyRequest) Validate() error {
	if strings.TrimSpace(r.Applicant) == "" {
		return apperrors.InvalidInputField("applicant", "applicant is required")
	}
	if len(r.Note) > MaxNoteLen {
		return apperrors.InvalidInputField("note", "note cannot exceed 256 characters")
	}
	return nil
}
