package model

import (
	"encoding/json"
	"fmt"
)

// EventKind tags the variant of a ledger event.
type EventKind string

const (
	// EventJobCreated records a new job with its reward locked in escrow.
	EventJobCreated EventKind = "job_created"
	// EventApplicationSubmitted records a new application against an open job.
	EventApplicationSubmitted EventKind = "application_submitted"
	// EventWinnerSelected records the winner choice and the escrow payout.
	EventWinnerSelected EventKind = "winner_selected"
	// EventJobCancelled records an employer cancellation and escrow refund.
	EventJobCancelled EventKind = "job_cancelled"
	// EventJobExpired records a time-gated expiry and escrow refund.
	EventJobExpired EventKind = "job_expired"
	// EventApplicationWithdrawn records an applicant withdrawing an application.
	EventApplicationWithdrawn EventKind = "application_withdrawn"
	// EventApplicationRejected records an employer rejecting an application.
	EventApplicationRejected EventKind = "application_rejected"
	// EventJobViewed records a view against a job in any status.
	EventJobViewed EventKind = "job_viewed"
)

// Valid returns true if the EventKind is valid.
func (k EventKind) Valid() bool {
	switch k {
	case EventJobCreated, EventApplicationSubmitted, EventWinnerSelected,
		EventJobCancelled, EventJobExpired, EventApplicationWithdrawn,
		EventApplicationRejected, EventJobViewed:
		return true
	default:
		return false
	}
}

// Event is one entry of the append-only, totally ordered ledger log.
// Sequence is assigned by the ledger and is strictly monotonic. Payload holds
// the kind-specific payload, JSON-encoded for durable storage.
type Event struct {
	Sequence  uint64          `json:"sequence"`
	Kind      EventKind       `json:"kind"`
	Timestamp uint64          `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// JobCreatedPayload carries everything needed to recreate the job on replay.
type JobCreatedPayload struct {
	JobID               uint64   `json:"job_id"`
	Employer            string   `json:"employer"`
	Reward              uint64   `json:"reward"`
	Title               string   `json:"title"`
	Description         string   `json:"description"`
	Tags                []string `json:"tags,omitempty"`
	ExpiresAt           *uint64  `json:"expires_at,omitempty"`
	RequiredAccessLevel *int     `json:"required_access_level,omitempty"`
}

// ApplicationSubmittedPayload carries a new application.
type ApplicationSubmittedPayload struct {
	ApplicationID uint64 `json:"application_id"`
	JobID         uint64 `json:"job_id"`
	Applicant     string `json:"applicant"`
	Note          string `json:"note,omitempty"`
}

// WinnerSelectedPayload carries the winner choice and escrow payout.
type WinnerSelectedPayload struct {
	JobID         uint64 `json:"job_id"`
	ApplicationID uint64 `json:"application_id"`
	Applicant     string `json:"applicant"`
	Reward        uint64 `json:"reward"`
}

// JobCancelledPayload carries a cancellation and its escrow refund.
type JobCancelledPayload struct {
	JobID    uint64 `json:"job_id"`
	Employer string `json:"employer"`
	Reward   uint64 `json:"reward"`
}

// JobExpiredPayload carries an expiry and its escrow refund.
type JobExpiredPayload struct {
	JobID    uint64 `json:"job_id"`
	Employer string `json:"employer"`
	Reward   uint64 `json:"reward"`
}

// ApplicationWithdrawnPayload carries an application withdrawal.
type ApplicationWithdrawnPayload struct {
	ApplicationID uint64 `json:"application_id"`
	JobID         uint64 `json:"job_id"`
	Applicant     string `json:"applicant"`
}

// ApplicationRejectedPayload carries an employer-initiated rejection.
type ApplicationRejectedPayload struct {
	ApplicationID uint64 `json:"application_id"`
	JobID         uint64 `json:"job_id"`
	Applicant     string `json:"applicant"`
}

// JobViewedPayload carries a view against a job.
type JobViewedPayload struct {
	JobID  uint64 `json:"job_id"`
	Viewer string `json:"viewer,omitempty"`
}

// NewEvent builds an Event for the given kind and payload. The payload must
// be one of the *Payload structs above; marshaling them cannot fail.
func NewEvent(kind EventKind, timestamp uint64, payload any) Event {
	raw, err := json.Marshal(payload)
	if err != nil {
		// Payload structs contain only marshalable fields.
		panic(fmt.Sprintf("marshal %s payload: %v", kind, err))
	}
	return Event{Kind: kind, Timestamp: timestamp, Payload: raw}
}

// DecodePayload unmarshals the kind-specific payload of an event.
func DecodePayload(ev Event) (any, error) {
	var (
		payload any
		err     error
	)
	switch ev.Kind {
	case EventJobCreated:
		payload, err = decodeAs[JobCreatedPayload](ev)
	case EventApplicationSubmitted:
		payload, err = decodeAs[ApplicationSubmittedPayload](ev)
	case EventWinnerSelected:
		payload, err = decodeAs[WinnerSelectedPayload](ev)
	case EventJobCancelled:
		payload, err = decodeAs[JobCancelledPayload](ev)
	case EventJobExpired:
		payload, err = decodeAs[JobExpiredPayload](ev)
	case EventApplicationWithdrawn:
		payload, err = decodeAs[ApplicationWithdrawnPayload](ev)
	case EventApplicationRejected:
		payload, err = decodeAs[ApplicationRejectedPayload](ev)
	case EventJobViewed:
		payload, err = decodeAs[JobViewedPayload](ev)
	default:
		return nil, fmt.Errorf("unknown event kind %q at sequence %d", ev.Kind, ev.Sequence)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s payload at sequence %d: %w", ev.Kind, ev.Sequence, err)
	}
	return payload, nil
}

func decodeAs[T any](ev Event) (T, error) {
	var p T
	err := json.Unmarshal(ev.Payload, &p)
	return p, err
}
