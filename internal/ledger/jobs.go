package ledger

import "github.com/trustgigs/ledger/internal/domain/model"

// jobTable owns the job arena: records addressed by monotonically assigned
// integer id, plus by-employer and open-status indexes. Jobs are never
// deleted; terminal states are retained for audit.
type jobTable struct {
	byID       map[uint64]*model.Job
	order      []uint64
	byEmployer map[string][]uint64
	open       map[uint64]struct{}
	counter    uint64
}

func newJobTable() jobTable {
	return jobTable{
		byID:       make(map[uint64]*model.Job),
		byEmployer: make(map[string][]uint64),
		open:       make(map[uint64]struct{}),
	}
}

// nextID returns the id the next created job will receive.
func (t *jobTable) nextID() uint64 {
	return t.counter + 1
}

// insert adds a newly created job and registers it in the indexes.
// The job id must be the one nextID promised.
func (t *jobTable) insert(j *model.Job) {
	t.byID[j.ID] = j
	t.order = append(t.order, j.ID)
	t.byEmployer[j.Employer] = append(t.byEmployer[j.Employer], j.ID)
	if j.Status == model.JobStatusOpen {
		t.open[j.ID] = struct{}{}
	}
	if j.ID > t.counter {
		t.counter = j.ID
	}
}

// get returns the job record, or nil if unknown.
func (t *jobTable) get(id uint64) *model.Job {
	return t.byID[id]
}

// setStatus records a terminal transition and maintains the open index.
// The caller validates the transition; terminal states never leave the table.
func (t *jobTable) setStatus(id uint64, status model.JobStatus) {
	j := t.byID[id]
	if j == nil {
		return
	}
	j.Status = status
	if status != model.JobStatusOpen {
		delete(t.open, id)
	}
}

// openDue returns open jobs whose expiry has passed at the given logical time,
// in insertion order.
func (t *jobTable) openDue(now uint64) []uint64 {
	var due []uint64
	for _, id := range t.order {
		if _, ok := t.open[id]; !ok {
			continue
		}
		if t.byID[id].Expirable(now) {
			due = append(due, id)
		}
	}
	return due
}
