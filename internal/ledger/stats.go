package ledger

import "github.com/trustgigs/ledger/internal/domain/model"

// statsTable accumulates per-user and platform counters. It is a pure fold
// over the event log: Apply is the only mutation, and applying the same event
// sequence to an empty table always reproduces the current state. The ledger
// relies on that equivalence for replay; the tests assert it directly.
type statsTable struct {
	users    map[string]*model.UserStats
	platform model.PlatformStats
}

func newStatsTable() statsTable {
	return statsTable{users: make(map[string]*model.UserStats)}
}

func (t *statsTable) user(actor string) *model.UserStats {
	u, ok := t.users[actor]
	if !ok {
		u = &model.UserStats{Actor: actor}
		t.users[actor] = u
	}
	return u
}

// Apply folds one decoded event into the counters. Events that do not affect
// stats (views, withdrawals, rejections) fall through untouched.
func (t *statsTable) Apply(payload any) {
	switch p := payload.(type) {
	case model.JobCreatedPayload:
		t.user(p.Employer).JobsCreated++
		t.platform.TotalJobs++
		t.platform.ActiveJobsCount++
	case model.ApplicationSubmittedPayload:
		t.user(p.Applicant).ApplicationsSubmitted++
		t.platform.TotalApplications++
	case model.WinnerSelectedPayload:
		winner := t.user(p.Applicant)
		winner.JobsWon++
		winner.TotalEarned += p.Reward
		t.platform.TotalRewardsDistributed += p.Reward
		t.platform.ActiveJobsCount--
	case model.JobCancelledPayload:
		t.platform.ActiveJobsCount--
	case model.JobExpiredPayload:
		t.platform.ActiveJobsCount--
	}
}

// userSnapshot returns a copy of the actor's counters; unknown actors get
// zero counters rather than an error.
func (t *statsTable) userSnapshot(actor string) model.UserStats {
	if u, ok := t.users[actor]; ok {
		return *u
	}
	return model.UserStats{Actor: actor}
}
