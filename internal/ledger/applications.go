package ledger

import "github.com/trustgigs/ledger/internal/domain/model"

// appKey identifies the live-application uniqueness constraint:
// at most one non-withdrawn application per (job, applicant) pair.
type appKey struct {
	jobID     uint64
	applicant string
}

// appTable owns the application arena plus by-job, by-applicant, and
// live-uniqueness indexes. Applications are never deleted; withdrawal is a
// status flag, not an undo.
type appTable struct {
	byID        map[uint64]*model.Application
	byJob       map[uint64][]uint64
	byApplicant map[string][]uint64
	live        map[appKey]uint64
	counter     uint64
}

func newAppTable() appTable {
	return appTable{
		byID:        make(map[uint64]*model.Application),
		byJob:       make(map[uint64][]uint64),
		byApplicant: make(map[string][]uint64),
		live:        make(map[appKey]uint64),
	}
}

// nextID returns the id the next submitted application will receive.
func (t *appTable) nextID() uint64 {
	return t.counter + 1
}

// insert adds a newly submitted application and registers it in the indexes.
func (t *appTable) insert(a *model.Application) {
	t.byID[a.ID] = a
	t.byJob[a.JobID] = append(t.byJob[a.JobID], a.ID)
	t.byApplicant[a.Applicant] = append(t.byApplicant[a.Applicant], a.ID)
	t.live[appKey{a.JobID, a.Applicant}] = a.ID
	if a.ID > t.counter {
		t.counter = a.ID
	}
}

// get returns the application record, or nil if unknown.
func (t *appTable) get(id uint64) *model.Application {
	return t.byID[id]
}

// hasLive reports whether the applicant has a non-withdrawn application for
// the job.
func (t *appTable) hasLive(jobID uint64, applicant string) bool {
	_, ok := t.live[appKey{jobID, applicant}]
	return ok
}

// withdraw flags the application withdrawn and releases the live-uniqueness
// slot so the applicant may re-apply.
func (t *appTable) withdraw(id uint64) {
	a := t.byID[id]
	if a == nil {
		return
	}
	a.Withdrawn = true
	delete(t.live, appKey{a.JobID, a.Applicant})
}
