// Package model defines the core data types for the TrustGigs job-escrow ledger.
package model

import (
	"strings"

	apperrors "github.com/trustgigs/ledger/internal/errors"
)

// JobStatus represents the lifecycle state of a job.
type JobStatus string

const (
	// JobStatusOpen indicates a job is accepting applications.
	JobStatusOpen JobStatus = "open"
	// JobStatusClosed indicates a winner was selected and the reward paid out.
	JobStatusClosed JobStatus = "closed"
	// JobStatusCancelled indicates the employer cancelled before any application.
	JobStatusCancelled JobStatus = "cancelled"
	// JobStatusExpired indicates the job passed its expiry without a winner.
	JobStatusExpired JobStatus = "expired"
)

// Valid returns true if the JobStatus is valid.
func (s JobStatus) Valid() bool {
	return s == JobStatusOpen || s == JobStatusClosed || s == JobStatusCancelled ||
		s == JobStatusExpired
}

// Terminal returns true for statuses that admit no further transition.
func (s JobStatus) Terminal() bool {
	return s == JobStatusClosed || s == JobStatusCancelled || s == JobStatusExpired
}

// Input bounds for job and application submissions.
const (
	MaxTitleLen       = 96
	MaxDescriptionLen = 256
	MaxNoteLen        = 256
	MaxTags           = 10
)

// Job represents a bounty posting with a reward locked in escrow.
// Timestamps are logical (caller-supplied); the ledger never reads a wall clock.
type Job struct {
	ID                  uint64    `json:"id"`
	Employer            string    `json:"employer"`
	Reward              uint64    `json:"reward"`
	Title               string    `json:"title"`
	Description         string    `json:"description"`
	Tags                []string  `json:"tags,omitempty"`
	Status              JobStatus `json:"status"`
	CreatedAt           uint64    `json:"created_at"`
	ExpiresAt           *uint64   `json:"expires_at,omitempty"`
	RequiredAccessLevel *int      `json:"required_access_level,omitempty"`
	WinnerApplicationID *uint64   `json:"winner_application_id,omitempty"`
	ApplicationCount    int       `json:"application_count"`
	ViewCount           int       `json:"view_count"`
}

// IsEmployer reports whether caller is the job's employer.
func (j *Job) IsEmployer(caller string) bool {
	return caller != "" && caller == j.Employer
}

// AcceptingApplications reports whether the job can take a new application at
// the given logical time: it must be open and inside the expiry window.
func (j *Job) AcceptingApplications(now uint64) bool {
	if j.Status != JobStatusOpen {
		return false
	}
	return j.ExpiresAt == nil || now < *j.ExpiresAt
}

// Expirable reports whether the job is due for expiry at the given logical
// time. Jobs without an expiry never expire.
func (j *Job) Expirable(now uint64) bool {
	return j.Status == JobStatusOpen && j.ExpiresAt != nil && now >= *j.ExpiresAt
}

// CreateJobRequest represents a request to create a new job.
type CreateJobRequest struct {
	Employer            string   `json:"employer"`
	Title               string   `json:"title"`
	Description         string   `json:"description"`
	Reward              uint64   `json:"reward"`
	Tags                []string `json:"tags,omitempty"`
	ExpiresAt           *uint64  `json:"expires_at,omitempty"`
	RequiredAccessLevel *int     `json:"required_access_level,omitempty"`
}

// Validate checks the CreateJobRequest fields. Each violation names the
// offending field so callers can surface precise error kinds.
func (r *CreateJobRequest) Validate() error {
	if strings.TrimSpace(r.Employer) == "" {
		return apperrors.InvalidInputField("employer", "employer is required")
	}
	if strings.TrimSpace(r.Title) == "" {
		return apperrors.InvalidInputField("title", "title is required")
	}
	if len(r.Title) > MaxTitleLen {
		return apperrors.InvalidInputField("title", "title cannot exceed 96 characters")
	}
	if len(r.Description) > MaxDescriptionLen {
		return apperrors.InvalidInputField("description", "description cannot exceed 256 characters")
	}
	if r.Reward == 0 {
		return apperrors.InvalidInputField("reward", "reward must be positive")
	}
	if len(r.Tags) > MaxTags {
		return apperrors.InvalidInputField("tags", "at most 10 tags are allowed")
	}
	seen := make(map[string]bool, len(r.Tags))
	for _, tag := range r.Tags {
		if strings.TrimSpace(tag) == "" {
			return apperrors.InvalidInputField("tags", "tags cannot contain empty entries")
		}
		if seen[tag] {
			return apperrors.InvalidInputField("tags", "tags cannot contain duplicates")
		}
		seen[tag] = true
	}
	return nil
}
