package model

// EscrowEntry records the locked reward for a job, keyed by job id.
// LockedAmount is set once at job creation and never changed. Released flips
// true at most once: the amount is paid to the winner or refunded to the
// employer, never both.
type EscrowEntry struct {
	JobID        uint64  `json:"job_id"`
	LockedAmount uint64  `json:"locked_amount"`
	Released     bool    `json:"released"`
	ReleasedTo   *string `json:"released_to,omitempty"`
}
