package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trustgigs/ledger/internal/data"
	"github.com/trustgigs/ledger/internal/domain/model"
	apperrors "github.com/trustgigs/ledger/internal/errors"
)

func newTestLedger(t *testing.T) (*Ledger, *data.MemEventStore) {
	t.Helper()
	store := data.NewMemEventStore()
	l, err := New(context.Background(), Options{Store: store})
	require.NoError(t, err)
	return l, store
}

func uptr(v uint64) *uint64 { return &v }
func iptr(v int) *int       { return &v }

func createJobReq(employer string, reward uint64) model.CreateJobRequest {
	return model.CreateJobRequest{
		Employer:    employer,
		Title:       "Fix login flow",
		Description: "OAuth redirect drops the session on Safari",
		Reward:      reward,
	}
}

func TestCreateJob(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	jobID, err := l.CreateJob(ctx, model.CreateJobRequest{
		Employer:    "alice",
		Title:       "Build landing page",
		Description: "Responsive, dark mode",
		Reward:      500,
		Tags:        []string{"frontend", "css"},
		ExpiresAt:   uptr(100),
	}, 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), jobID)

	job, err := l.GetJob(jobID)
	require.NoError(t, err)
	assert.Equal(t, "alice", job.Employer)
	assert.Equal(t, model.JobStatusOpen, job.Status)
	assert.Equal(t, uint64(10), job.CreatedAt)
	assert.Equal(t, []string{"frontend", "css"}, job.Tags)
	assert.Equal(t, 0, job.ApplicationCount)

	escrow, err := l.GetEscrow(jobID)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), escrow.LockedAmount)
	assert.False(t, escrow.Released)
	assert.Nil(t, escrow.ReleasedTo)

	stats := l.GetUserStats("alice")
	assert.Equal(t, 1, stats.JobsCreated)

	platform := l.GetPlatformStats()
	assert.Equal(t, 1, platform.TotalJobs)
	assert.Equal(t, 1, platform.ActiveJobsCount)

	// Ids are assigned sequentially.
	second, err := l.CreateJob(ctx, createJobReq("bob", 100), 11)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), second)
}

func TestCreateJob_Validation(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	longTitle := make([]byte, model.MaxTitleLen+1)
	for i := range longTitle {
		longTitle[i] = 'a'
	}

	tests := []struct {
		name      string
		req       model.CreateJobRequest
		now       uint64
		wantField string
	}{
		{
			name:      "missing employer",
			req:       model.CreateJobRequest{Title: "t", Reward: 1},
			wantField: "employer",
		},
		{
			name:      "missing title",
			req:       model.CreateJobRequest{Employer: "alice", Reward: 1},
			wantField: "title",
		},
		{
			name:      "title too long",
			req:       model.CreateJobRequest{Employer: "alice", Title: string(longTitle), Reward: 1},
			wantField: "title",
		},
		{
			name:      "zero reward",
			req:       model.CreateJobRequest{Employer: "alice", Title: "t"},
			wantField: "reward",
		},
		{
			name: "too many tags",
			req: model.CreateJobRequest{
				Employer: "alice", Title: "t", Reward: 1,
				Tags: []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k"},
			},
			wantField: "tags",
		},
		{
			name: "duplicate tags",
			req: model.CreateJobRequest{
				Employer: "alice", Title: "t", Reward: 1,
				Tags: []string{"go", "go"},
			},
			wantField: "tags",
		},
		{
			name: "expiry not in the future",
			req: model.CreateJobRequest{
				Employer: "alice", Title: "t", Reward: 1, ExpiresAt: uptr(50),
			},
			now:       50,
			wantField: "expires_at",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.CreateJob(ctx, tt.req, tt.now)
			require.Error(t, err)
			assert.True(t, apperrors.IsInvalidInput(err))
			assert.Equal(t, tt.wantField, apperrors.GetField(err))
		})
	}

	// Nothing was committed.
	assert.Equal(t, uint64(0), l.LastSequence())
}

func TestApplyToJob(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	jobID, err := l.CreateJob(ctx, createJobReq("alice", 100), 1)
	require.NoError(t, err)

	appID, err := l.ApplyToJob(ctx, model.ApplyRequest{
		JobID: jobID, Applicant: "bob", Note: "I can do this",
	}, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), appID)

	apps, err := l.ListApplications(jobID)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "bob", apps[0].Applicant)
	assert.Equal(t, uint64(2), apps[0].SubmittedAt)
	assert.False(t, apps[0].IsWinner)

	job, err := l.GetJob(jobID)
	require.NoError(t, err)
	assert.Equal(t, 1, job.ApplicationCount)

	assert.Equal(t, 1, l.GetUserStats("bob").ApplicationsSubmitted)
	assert.Equal(t, 1, l.GetPlatformStats().TotalApplications)
}

func TestApplyToJob_Rejections(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	openJob, err := l.CreateJob(ctx, createJobReq("alice", 100), 1)
	require.NoError(t, err)

	expiring, err := l.CreateJob(ctx, model.CreateJobRequest{
		Employer: "alice", Title: "t", Reward: 50, ExpiresAt: uptr(10),
	}, 1)
	require.NoError(t, err)

	gated, err := l.CreateJob(ctx, model.CreateJobRequest{
		Employer: "alice", Title: "t", Reward: 50, RequiredAccessLevel: iptr(3),
	}, 1)
	require.NoError(t, err)

	cancelled, err := l.CreateJob(ctx, createJobReq("alice", 100), 1)
	require.NoError(t, err)
	require.NoError(t, l.CancelJob(ctx, cancelled, "alice", 2))

	_, err = l.ApplyToJob(ctx, model.ApplyRequest{JobID: openJob, Applicant: "bob"}, 3)
	require.NoError(t, err)

	tests := []struct {
		name  string
		req   model.ApplyRequest
		now   uint64
		check func(error) bool
	}{
		{
			name:  "unknown job",
			req:   model.ApplyRequest{JobID: 999, Applicant: "bob"},
			now:   3,
			check: apperrors.IsNotFound,
		},
		{
			name:  "missing applicant",
			req:   model.ApplyRequest{JobID: openJob},
			now:   3,
			check: apperrors.IsInvalidInput,
		},
		{
			name:  "cancelled job",
			req:   model.ApplyRequest{JobID: cancelled, Applicant: "bob"},
			now:   3,
			check: apperrors.IsInvalidStatus,
		},
		{
			name:  "expiry window passed",
			req:   model.ApplyRequest{JobID: expiring, Applicant: "bob"},
			now:   10,
			check: apperrors.IsInvalidStatus,
		},
		{
			name:  "no access level against gated job",
			req:   model.ApplyRequest{JobID: gated, Applicant: "bob"},
			now:   3,
			check: apperrors.IsUnauthorized,
		},
		{
			name:  "access level below gate",
			req:   model.ApplyRequest{JobID: gated, Applicant: "bob", AccessLevel: iptr(2)},
			now:   3,
			check: apperrors.IsUnauthorized,
		},
		{
			name:  "duplicate live application",
			req:   model.ApplyRequest{JobID: openJob, Applicant: "bob"},
			now:   4,
			check: apperrors.IsAlreadyApplied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, applyErr := l.ApplyToJob(ctx, tt.req, tt.now)
			require.Error(t, applyErr)
			assert.True(t, tt.check(applyErr), "unexpected error: %v", applyErr)
		})
	}

	// Meeting the gate admits the applicant.
	_, err = l.ApplyToJob(ctx, model.ApplyRequest{
		JobID: gated, Applicant: "carol", AccessLevel: iptr(3),
	}, 3)
	require.NoError(t, err)
}

func TestApplyToJob_ReapplyAfterWithdraw(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	jobID, err := l.CreateJob(ctx, createJobReq("alice", 100), 1)
	require.NoError(t, err)

	first, err := l.ApplyToJob(ctx, model.ApplyRequest{JobID: jobID, Applicant: "bob"}, 2)
	require.NoError(t, err)
	require.NoError(t, l.WithdrawApplication(ctx, first, "bob", 3))

	second, err := l.ApplyToJob(ctx, model.ApplyRequest{JobID: jobID, Applicant: "bob"}, 4)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	// Both submissions remain on record; only one is live.
	apps, err := l.ListApplications(jobID)
	require.NoError(t, err)
	require.Len(t, apps, 2)
	assert.True(t, apps[0].Withdrawn)
	assert.False(t, apps[1].Withdrawn)

	// The historical application count includes the withdrawn one.
	job, err := l.GetJob(jobID)
	require.NoError(t, err)
	assert.Equal(t, 2, job.ApplicationCount)
}

func TestSelectWinner(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	jobID, err := l.CreateJob(ctx, createJobReq("alice", 500), 1)
	require.NoError(t, err)
	appID, err := l.ApplyToJob(ctx, model.ApplyRequest{JobID: jobID, Applicant: "bob"}, 2)
	require.NoError(t, err)
	loserID, err := l.ApplyToJob(ctx, model.ApplyRequest{JobID: jobID, Applicant: "carol"}, 2)
	require.NoError(t, err)

	require.NoError(t, l.SelectWinner(ctx, jobID, appID, "alice", 3))

	job, err := l.GetJob(jobID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusClosed, job.Status)
	require.NotNil(t, job.WinnerApplicationID)
	assert.Equal(t, appID, *job.WinnerApplicationID)

	escrow, err := l.GetEscrow(jobID)
	require.NoError(t, err)
	assert.True(t, escrow.Released)
	require.NotNil(t, escrow.ReleasedTo)
	assert.Equal(t, "bob", *escrow.ReleasedTo)

	winner := l.GetUserStats("bob")
	assert.Equal(t, 1, winner.JobsWon)
	assert.Equal(t, uint64(500), winner.TotalEarned)
	assert.Zero(t, l.GetUserStats("carol").JobsWon)

	platform := l.GetPlatformStats()
	assert.Equal(t, uint64(500), platform.TotalRewardsDistributed)
	assert.Equal(t, 0, platform.ActiveJobsCount)

	// Exactly one payout: every later settlement attempt fails.
	err = l.SelectWinner(ctx, jobID, loserID, "alice", 4)
	assert.True(t, apperrors.IsAlreadyWinner(err))
	err = l.CancelJob(ctx, jobID, "alice", 4)
	assert.True(t, apperrors.IsInvalidStatus(err))
	err = l.ExpireJob(ctx, jobID, 1000)
	assert.True(t, apperrors.IsInvalidStatus(err))
}

func TestSelectWinner_Rejections(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	jobID, err := l.CreateJob(ctx, createJobReq("alice", 500), 1)
	require.NoError(t, err)
	otherJob, err := l.CreateJob(ctx, createJobReq("alice", 100), 1)
	require.NoError(t, err)

	appID, err := l.ApplyToJob(ctx, model.ApplyRequest{JobID: jobID, Applicant: "bob"}, 2)
	require.NoError(t, err)
	otherApp, err := l.ApplyToJob(ctx, model.ApplyRequest{JobID: otherJob, Applicant: "bob"}, 2)
	require.NoError(t, err)

	withdrawn, err := l.ApplyToJob(ctx, model.ApplyRequest{JobID: jobID, Applicant: "carol"}, 2)
	require.NoError(t, err)
	require.NoError(t, l.WithdrawApplication(ctx, withdrawn, "carol", 3))

	tests := []struct {
		name   string
		jobID  uint64
		appID  uint64
		caller string
		check  func(error) bool
	}{
		{"unknown job", 999, appID, "alice", apperrors.IsNotFound},
		{"unknown application", jobID, 999, "alice", apperrors.IsNotFound},
		{"application of another job", jobID, otherApp, "alice", apperrors.IsNotFound},
		{"withdrawn application", jobID, withdrawn, "alice", apperrors.IsNotFound},
		{"caller is not the employer", jobID, appID, "mallory", apperrors.IsUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			selErr := l.SelectWinner(ctx, tt.jobID, tt.appID, tt.caller, 4)
			require.Error(t, selErr)
			assert.True(t, tt.check(selErr), "unexpected error: %v", selErr)
		})
	}

	// No rejection above settled anything.
	escrow, err := l.GetEscrow(jobID)
	require.NoError(t, err)
	assert.False(t, escrow.Released)
}

func TestCancelJob(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	jobID, err := l.CreateJob(ctx, createJobReq("alice", 300), 1)
	require.NoError(t, err)

	err = l.CancelJob(ctx, jobID, "mallory", 2)
	assert.True(t, apperrors.IsUnauthorized(err))

	require.NoError(t, l.CancelJob(ctx, jobID, "alice", 2))

	job, err := l.GetJob(jobID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusCancelled, job.Status)

	escrow, err := l.GetEscrow(jobID)
	require.NoError(t, err)
	assert.True(t, escrow.Released)
	require.NotNil(t, escrow.ReleasedTo)
	assert.Equal(t, "alice", *escrow.ReleasedTo)

	// Refunds do not count as distributed rewards.
	assert.Zero(t, l.GetPlatformStats().TotalRewardsDistributed)
	assert.Equal(t, 0, l.GetPlatformStats().ActiveJobsCount)

	err = l.CancelJob(ctx, jobID, "alice", 3)
	assert.True(t, apperrors.IsInvalidStatus(err))
}

func TestCancelJob_WithApplications(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	jobID, err := l.CreateJob(ctx, createJobReq("alice", 300), 1)
	require.NoError(t, err)
	_, err = l.ApplyToJob(ctx, model.ApplyRequest{JobID: jobID, Applicant: "bob"}, 2)
	require.NoError(t, err)

	err = l.CancelJob(ctx, jobID, "alice", 3)
	assert.True(t, apperrors.IsCannotCancel(err))

	// A withdrawal does not reopen the cancellation window: the count is
	// historical.
	apps, listErr := l.ListApplications(jobID)
	require.NoError(t, listErr)
	require.NoError(t, l.WithdrawApplication(ctx, apps[0].ID, "bob", 4))
	err = l.CancelJob(ctx, jobID, "alice", 5)
	assert.True(t, apperrors.IsCannotCancel(err))
}

func TestExpireJob(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	jobID, err := l.CreateJob(ctx, model.CreateJobRequest{
		Employer: "alice", Title: "t", Reward: 200, ExpiresAt: uptr(100),
	}, 1)
	require.NoError(t, err)
	forever, err := l.CreateJob(ctx, createJobReq("alice", 100), 1)
	require.NoError(t, err)

	err = l.ExpireJob(ctx, jobID, 99)
	assert.True(t, apperrors.IsNotExpired(err))
	err = l.ExpireJob(ctx, forever, 1000)
	assert.True(t, apperrors.IsNotExpired(err))

	// Expiry is time-gated, not caller-gated; exactly at the boundary is due.
	require.NoError(t, l.ExpireJob(ctx, jobID, 100))

	job, err := l.GetJob(jobID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusExpired, job.Status)

	escrow, err := l.GetEscrow(jobID)
	require.NoError(t, err)
	assert.True(t, escrow.Released)
	require.NotNil(t, escrow.ReleasedTo)
	assert.Equal(t, "alice", *escrow.ReleasedTo)

	err = l.ExpireJob(ctx, jobID, 101)
	assert.True(t, apperrors.IsInvalidStatus(err))
}

func TestDueJobs(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	early, err := l.CreateJob(ctx, model.CreateJobRequest{
		Employer: "alice", Title: "t", Reward: 10, ExpiresAt: uptr(50),
	}, 1)
	require.NoError(t, err)
	late, err := l.CreateJob(ctx, model.CreateJobRequest{
		Employer: "alice", Title: "t", Reward: 10, ExpiresAt: uptr(200),
	}, 1)
	require.NoError(t, err)
	_, err = l.CreateJob(ctx, createJobReq("alice", 10), 1)
	require.NoError(t, err)

	assert.Empty(t, l.DueJobs(49))
	assert.Equal(t, []uint64{early}, l.DueJobs(50))
	assert.Equal(t, []uint64{early, late}, l.DueJobs(500))

	require.NoError(t, l.ExpireJob(ctx, early, 60))
	assert.Equal(t, []uint64{late}, l.DueJobs(500))
}

func TestWithdrawApplication_Rejections(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	jobID, err := l.CreateJob(ctx, createJobReq("alice", 100), 1)
	require.NoError(t, err)
	appID, err := l.ApplyToJob(ctx, model.ApplyRequest{JobID: jobID, Applicant: "bob"}, 2)
	require.NoError(t, err)

	err = l.WithdrawApplication(ctx, 999, "bob", 3)
	assert.True(t, apperrors.IsNotFound(err))
	err = l.WithdrawApplication(ctx, appID, "mallory", 3)
	assert.True(t, apperrors.IsUnauthorized(err))

	require.NoError(t, l.SelectWinner(ctx, jobID, appID, "alice", 4))
	err = l.WithdrawApplication(ctx, appID, "bob", 5)
	assert.True(t, apperrors.IsAlreadyWinner(err))
}

func TestRejectApplication(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	jobID, err := l.CreateJob(ctx, createJobReq("alice", 100), 1)
	require.NoError(t, err)
	appID, err := l.ApplyToJob(ctx, model.ApplyRequest{JobID: jobID, Applicant: "bob"}, 2)
	require.NoError(t, err)

	err = l.RejectApplication(ctx, appID, "mallory", 3)
	assert.True(t, apperrors.IsUnauthorized(err))

	require.NoError(t, l.RejectApplication(ctx, appID, "alice", 3))

	apps, err := l.ListApplications(jobID)
	require.NoError(t, err)
	assert.True(t, apps[0].Rejected)

	err = l.RejectApplication(ctx, appID, "alice", 4)
	assert.True(t, apperrors.IsConflict(err))

	// Rejection is informational: the application can still win.
	require.NoError(t, l.SelectWinner(ctx, jobID, appID, "alice", 5))
}

func TestRecordView(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	jobID, err := l.CreateJob(ctx, createJobReq("alice", 100), 1)
	require.NoError(t, err)

	err = l.RecordView(ctx, 999, "bob", 2)
	assert.True(t, apperrors.IsNotFound(err))

	require.NoError(t, l.RecordView(ctx, jobID, "bob", 2))
	require.NoError(t, l.RecordView(ctx, jobID, "carol", 3))

	// Views keep accruing after the job settles.
	require.NoError(t, l.CancelJob(ctx, jobID, "alice", 4))
	require.NoError(t, l.RecordView(ctx, jobID, "dave", 5))

	job, err := l.GetJob(jobID)
	require.NoError(t, err)
	assert.Equal(t, 3, job.ViewCount)
}

func TestListJobs_Filter(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	_, err := l.CreateJob(ctx, model.CreateJobRequest{
		Employer: "alice", Title: "Build API gateway", Description: "Go service", Reward: 100,
	}, 1)
	require.NoError(t, err)
	second, err := l.CreateJob(ctx, model.CreateJobRequest{
		Employer: "bob", Title: "Design logo", Description: "Vector art", Reward: 300,
	}, 1)
	require.NoError(t, err)
	_, err = l.CreateJob(ctx, model.CreateJobRequest{
		Employer: "alice", Title: "Write docs", Description: "API reference", Reward: 50,
	}, 1)
	require.NoError(t, err)
	require.NoError(t, l.CancelJob(ctx, second, "bob", 2))

	open := model.JobStatusOpen
	tests := []struct {
		name   string
		filter model.JobFilter
		want   int
	}{
		{"all", model.JobFilter{}, 3},
		{"open only", model.JobFilter{Status: &open}, 2},
		{"min reward", model.JobFilter{MinReward: uptr(100)}, 2},
		{"max reward", model.JobFilter{MaxReward: uptr(99)}, 1},
		{"search title", model.JobFilter{Search: "logo"}, 1},
		{"search description", model.JobFilter{Search: "api"}, 2},
		{"limit", model.JobFilter{Limit: 2}, 2},
		{"offset past end", model.JobFilter{Offset: 5}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, l.ListJobs(tt.filter), tt.want)
		})
	}

	byAlice := l.ListJobsByEmployer("alice")
	require.Len(t, byAlice, 2)
	assert.Equal(t, "Build API gateway", byAlice[0].Title)
	assert.Empty(t, l.ListJobsByEmployer("nobody"))
}

func TestListApplicationsByApplicant(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	first, err := l.CreateJob(ctx, createJobReq("alice", 100), 1)
	require.NoError(t, err)
	second, err := l.CreateJob(ctx, createJobReq("carol", 200), 1)
	require.NoError(t, err)

	_, err = l.ApplyToJob(ctx, model.ApplyRequest{JobID: first, Applicant: "bob"}, 2)
	require.NoError(t, err)
	_, err = l.ApplyToJob(ctx, model.ApplyRequest{JobID: second, Applicant: "bob"}, 3)
	require.NoError(t, err)

	apps := l.ListApplicationsByApplicant("bob")
	require.Len(t, apps, 2)
	assert.Equal(t, first, apps[0].JobID)
	assert.Equal(t, second, apps[1].JobID)

	assert.Empty(t, l.ListApplicationsByApplicant("nobody"))

	_, err = l.ListApplications(999)
	assert.True(t, apperrors.IsNotFound(err))
}

// failingStore wraps a working store and fails every Append.
type failingStore struct {
	data.EventStore
}

func (f *failingStore) Append(context.Context, model.Event) error {
	return errors.New("disk full")
}

func TestAppendFailureLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	mem := data.NewMemEventStore()
	l, err := New(ctx, Options{Store: mem})
	require.NoError(t, err)

	jobID, err := l.CreateJob(ctx, createJobReq("alice", 100), 1)
	require.NoError(t, err)

	l.store = &failingStore{EventStore: mem}

	_, err = l.ApplyToJob(ctx, model.ApplyRequest{JobID: jobID, Applicant: "bob"}, 2)
	require.Error(t, err)

	// No partial fold: the job and stats are as before the failed append.
	job, getErr := l.GetJob(jobID)
	require.NoError(t, getErr)
	assert.Equal(t, 0, job.ApplicationCount)
	assert.Zero(t, l.GetPlatformStats().TotalApplications)
	assert.Equal(t, uint64(1), l.LastSequence())

	// Recovery: restoring the store lets the next commit proceed with the
	// sequence the failed attempt would have used.
	l.store = mem
	_, err = l.ApplyToJob(ctx, model.ApplyRequest{JobID: jobID, Applicant: "bob"}, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), l.LastSequence())
}

// runScenario drives a representative mixed workload against the ledger.
func runScenario(t *testing.T, l *Ledger) {
	t.Helper()
	ctx := context.Background()

	jobA, err := l.CreateJob(ctx, model.CreateJobRequest{
		Employer: "alice", Title: "Backend refactor", Reward: 500, Tags: []string{"go"},
	}, 1)
	require.NoError(t, err)
	jobB, err := l.CreateJob(ctx, model.CreateJobRequest{
		Employer: "bob", Title: "Logo design", Reward: 200, ExpiresAt: uptr(100),
	}, 2)
	require.NoError(t, err)
	jobC, err := l.CreateJob(ctx, createJobReq("alice", 50), 3)
	require.NoError(t, err)

	appA1, err := l.ApplyToJob(ctx, model.ApplyRequest{JobID: jobA, Applicant: "carol"}, 4)
	require.NoError(t, err)
	appA2, err := l.ApplyToJob(ctx, model.ApplyRequest{JobID: jobA, Applicant: "dave", Note: "portfolio attached"}, 5)
	require.NoError(t, err)
	_, err = l.ApplyToJob(ctx, model.ApplyRequest{JobID: jobB, Applicant: "carol"}, 6)
	require.NoError(t, err)

	require.NoError(t, l.RecordView(ctx, jobA, "dave", 7))
	require.NoError(t, l.RejectApplication(ctx, appA1, "alice", 8))
	require.NoError(t, l.WithdrawApplication(ctx, appA1, "carol", 9))
	require.NoError(t, l.SelectWinner(ctx, jobA, appA2, "alice", 10))
	require.NoError(t, l.CancelJob(ctx, jobC, "alice", 11))
	require.NoError(t, l.ExpireJob(ctx, jobB, 100))
}

func TestReplayRebuildsState(t *testing.T) {
	ctx := context.Background()
	l, store := newTestLedger(t)
	runScenario(t, l)

	rebuilt, err := New(ctx, Options{Store: store})
	require.NoError(t, err)

	assert.Equal(t, l.LastSequence(), rebuilt.LastSequence())
	assert.Equal(t, l.GetPlatformStats(), rebuilt.GetPlatformStats())
	for _, actor := range []string{"alice", "bob", "carol", "dave"} {
		assert.Equal(t, l.GetUserStats(actor), rebuilt.GetUserStats(actor), actor)
	}
	assert.Equal(t, l.ListJobs(model.JobFilter{}), rebuilt.ListJobs(model.JobFilter{}))

	for _, jobID := range []uint64{1, 2, 3} {
		want, wantErr := l.GetEscrow(jobID)
		got, gotErr := rebuilt.GetEscrow(jobID)
		require.NoError(t, wantErr)
		require.NoError(t, gotErr)
		assert.Equal(t, want, got)

		wantApps, _ := l.ListApplications(jobID)
		gotApps, _ := rebuilt.ListApplications(jobID)
		assert.Equal(t, wantApps, gotApps)
	}

	// New ids continue where the log left off in both instances.
	next, err := l.CreateJob(ctx, createJobReq("erin", 10), 200)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), next)
}

func TestStatsMatchEventLog(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)
	runScenario(t, l)

	// Recompute the platform counters straight off the log and compare with
	// the live fold.
	var fromLog model.PlatformStats
	active := make(map[uint64]bool)
	err := l.Events(ctx, 0, func(ev model.Event) error {
		payload, decodeErr := model.DecodePayload(ev)
		if decodeErr != nil {
			return decodeErr
		}
		switch p := payload.(type) {
		case model.JobCreatedPayload:
			fromLog.TotalJobs++
			active[p.JobID] = true
		case model.ApplicationSubmittedPayload:
			fromLog.TotalApplications++
		case model.WinnerSelectedPayload:
			fromLog.TotalRewardsDistributed += p.Reward
			delete(active, p.JobID)
		case model.JobCancelledPayload:
			delete(active, p.JobID)
		case model.JobExpiredPayload:
			delete(active, p.JobID)
		}
		return nil
	})
	require.NoError(t, err)
	fromLog.ActiveJobsCount = len(active)

	assert.Equal(t, fromLog, l.GetPlatformStats())
}

func TestEventLogOrdering(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)
	runScenario(t, l)

	var (
		prevSeq uint64
		prevTS  uint64
		kinds   []model.EventKind
	)
	err := l.Events(ctx, 0, func(ev model.Event) error {
		assert.Equal(t, prevSeq+1, ev.Sequence)
		assert.GreaterOrEqual(t, ev.Timestamp, prevTS)
		prevSeq = ev.Sequence
		prevTS = ev.Timestamp
		kinds = append(kinds, ev.Kind)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []model.EventKind{
		model.EventJobCreated,
		model.EventJobCreated,
		model.EventJobCreated,
		model.EventApplicationSubmitted,
		model.EventApplicationSubmitted,
		model.EventApplicationSubmitted,
		model.EventJobViewed,
		model.EventApplicationRejected,
		model.EventApplicationWithdrawn,
		model.EventWinnerSelected,
		model.EventJobCancelled,
		model.EventJobExpired,
	}, kinds)
}
