package ledger

import (
	"github.com/trustgigs/ledger/internal/domain/model"
	apperrors "github.com/trustgigs/ledger/internal/errors"
)

// escrowTable owns the locked-funds ledger, keyed by job id. It is the only
// component permitted to change locked/released state, and it guards the
// exactly-once disposition independently of the job state machine.
type escrowTable struct {
	byJob map[uint64]*model.EscrowEntry
}

func newEscrowTable() escrowTable {
	return escrowTable{byJob: make(map[uint64]*model.EscrowEntry)}
}

// lock creates the escrow entry for a job. A job locks funds exactly once.
func (t *escrowTable) lock(jobID, amount uint64) error {
	if _, ok := t.byJob[jobID]; ok {
		return apperrors.AlreadyLocked("escrow already locked for job")
	}
	t.byJob[jobID] = &model.EscrowEntry{
		JobID:        jobID,
		LockedAmount: amount,
	}
	return nil
}

// release pays the locked amount to the given actor. Exactly one of
// release/refund may ever succeed per job.
func (t *escrowTable) release(jobID uint64, to string) (uint64, error) {
	entry, ok := t.byJob[jobID]
	if !ok {
		return 0, apperrors.NotFound("no escrow entry for job")
	}
	if entry.Released {
		return 0, apperrors.AlreadyReleased("escrow already released for job")
	}
	entry.Released = true
	entry.ReleasedTo = &to
	return entry.LockedAmount, nil
}

// refund returns the locked amount to the employer. Same exclusivity
// guarantee as release.
func (t *escrowTable) refund(jobID uint64, employer string) (uint64, error) {
	return t.release(jobID, employer)
}

// entry returns the escrow entry for a job, or nil if none exists.
func (t *escrowTable) entry(jobID uint64) *model.EscrowEntry {
	return t.byJob[jobID]
}
