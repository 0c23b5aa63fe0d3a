// Package ledger implements the authoritative job-escrow ledger: job and
// application records, the locked-funds escrow, derived statistics, and the
// append-only event log that makes all of it replayable.
//
// The ledger is a single-writer, strictly serializable state machine. Every
// mutating operation validates its inputs, durably appends exactly one event,
// and then folds that event into the in-memory state. Failure at any step
// leaves no observable change. Time enters the ledger only as explicit
// logical timestamps supplied by the caller.
package ledger

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/trustgigs/ledger/internal/data"
	"github.com/trustgigs/ledger/internal/domain/model"
	apperrors "github.com/trustgigs/ledger/internal/errors"
)

// Options groups dependencies for the Ledger.
type Options struct {
	Store    data.EventStore   // Required: durable append-only event store
	Observer func(model.Event) // Optional: invoked after each committed event
}

// Ledger is the single entry point for all mutating operations and reads.
type Ledger struct {
	mu       sync.RWMutex
	store    data.EventStore
	observer func(model.Event)

	jobs    jobTable
	apps    appTable
	escrow  escrowTable
	stats   statsTable
	lastSeq uint64
}

// New constructs a Ledger and rebuilds its state by replaying the store.
func New(ctx context.Context, opts Options) (*Ledger, error) {
	if opts.Store == nil {
		return nil, errors.New("EventStore is required")
	}

	l := &Ledger{
		store:    opts.Store,
		observer: opts.Observer,
		jobs:     newJobTable(),
		apps:     newAppTable(),
		escrow:   newEscrowTable(),
		stats:    newStatsTable(),
	}
	if err := l.store.Replay(ctx, 0, l.apply); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "replay event log")
	}
	return l, nil
}

// commit durably appends the event and folds it into state. Called with the
// write lock held. The append happens before any mutation, so a store failure
// leaves the ledger untouched.
func (l *Ledger) commit(ctx context.Context, ev model.Event) error {
	ev.Sequence = l.lastSeq + 1
	if err := l.store.Append(ctx, ev); err != nil {
		return err
	}
	if err := l.apply(ev); err != nil {
		// The event was validated before the append; a failure here means the
		// fold and the validation disagree, which is a bug, not caller input.
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "apply committed event")
	}
	if l.observer != nil {
		l.observer(ev)
	}
	return nil
}

// CreateJob validates the request, locks the reward in escrow, and opens the
// job. Returns the assigned job id.
func (l *Ledger) CreateJob(ctx context.Context, req model.CreateJobRequest, now uint64) (uint64, error) {
	if err := req.Validate(); err != nil {
		return 0, err
	}
	if req.ExpiresAt != nil && *req.ExpiresAt <= now {
		return 0, apperrors.InvalidInputField("expires_at", "expiry must be in the future")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	jobID := l.jobs.nextID()
	ev := model.NewEvent(model.EventJobCreated, now, model.JobCreatedPayload{
		JobID:               jobID,
		Employer:            req.Employer,
		Reward:              req.Reward,
		Title:               req.Title,
		Description:         req.Description,
		Tags:                req.Tags,
		ExpiresAt:           req.ExpiresAt,
		RequiredAccessLevel: req.RequiredAccessLevel,
	})
	if err := l.commit(ctx, ev); err != nil {
		return 0, err
	}
	return jobID, nil
}

// ApplyToJob validates the application window, the access gate, and the
// one-live-application rule, then records the application. Returns the
// assigned application id.
func (l *Ledger) ApplyToJob(ctx context.Context, req model.ApplyRequest, now uint64) (uint64, error) {
	if err := req.Validate(); err != nil {
		return 0, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	job := l.jobs.get(req.JobID)
	if job == nil {
		return 0, apperrors.NotFoundf("job %d not found", req.JobID)
	}
	if !job.AcceptingApplications(now) {
		return 0, apperrors.InvalidStatus("job is not accepting applications")
	}
	if job.RequiredAccessLevel != nil {
		if req.AccessLevel == nil || *req.AccessLevel < *job.RequiredAccessLevel {
			return 0, apperrors.Unauthorized("applicant does not meet the required access level")
		}
	}
	if l.apps.hasLive(req.JobID, req.Applicant) {
		return 0, apperrors.AlreadyApplied("applicant already has a live application for this job")
	}

	appID := l.apps.nextID()
	ev := model.NewEvent(model.EventApplicationSubmitted, now, model.ApplicationSubmittedPayload{
		ApplicationID: appID,
		JobID:         req.JobID,
		Applicant:     req.Applicant,
		Note:          req.Note,
	})
	if err := l.commit(ctx, ev); err != nil {
		return 0, err
	}
	return appID, nil
}

// SelectWinner closes the job, marks the chosen application the winner, and
// pays the escrowed reward to its applicant. Employer-only.
func (l *Ledger) SelectWinner(ctx context.Context, jobID, applicationID uint64, caller string, now uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	job := l.jobs.get(jobID)
	if job == nil {
		return apperrors.NotFoundf("job %d not found", jobID)
	}
	if job.Status != model.JobStatusOpen {
		return apperrors.AlreadyWinner("job already has a winner or is no longer open")
	}
	if !job.IsEmployer(caller) {
		return apperrors.Unauthorized("only the employer may select a winner")
	}
	app := l.apps.get(applicationID)
	if app == nil || app.JobID != jobID {
		return apperrors.NotFoundf("application %d not found for job %d", applicationID, jobID)
	}
	if app.Withdrawn {
		return apperrors.NotFound("application has been withdrawn")
	}
	if app.IsWinner {
		return apperrors.AlreadyWinner("application is already the winner")
	}
	if entry := l.escrow.entry(jobID); entry == nil || entry.Released {
		// Unreachable while the state machine holds; guarded independently.
		return apperrors.AlreadyReleased("escrow is not available for payout")
	}

	ev := model.NewEvent(model.EventWinnerSelected, now, model.WinnerSelectedPayload{
		JobID:         jobID,
		ApplicationID: applicationID,
		Applicant:     app.Applicant,
		Reward:        job.Reward,
	})
	return l.commit(ctx, ev)
}

// CancelJob cancels an open job with no applications and refunds the escrow
// to the employer. Employer-only.
func (l *Ledger) CancelJob(ctx context.Context, jobID uint64, caller string, now uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	job := l.jobs.get(jobID)
	if job == nil {
		return apperrors.NotFoundf("job %d not found", jobID)
	}
	if job.Status != model.JobStatusOpen {
		return apperrors.InvalidStatus("job is not open")
	}
	if !job.IsEmployer(caller) {
		return apperrors.Unauthorized("only the employer may cancel a job")
	}
	if job.ApplicationCount > 0 {
		return apperrors.CannotCancel("job already has applications")
	}

	ev := model.NewEvent(model.EventJobCancelled, now, model.JobCancelledPayload{
		JobID:    jobID,
		Employer: job.Employer,
		Reward:   job.Reward,
	})
	return l.commit(ctx, ev)
}

// ExpireJob expires an open job whose expiry has passed and refunds the
// escrow to the employer. Purely time-gated: callable by anyone.
func (l *Ledger) ExpireJob(ctx context.Context, jobID uint64, now uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	job := l.jobs.get(jobID)
	if job == nil {
		return apperrors.NotFoundf("job %d not found", jobID)
	}
	if job.Status != model.JobStatusOpen {
		return apperrors.InvalidStatus("job is not open")
	}
	if !job.Expirable(now) {
		return apperrors.NotExpired("job has not reached its expiry")
	}

	ev := model.NewEvent(model.EventJobExpired, now, model.JobExpiredPayload{
		JobID:    jobID,
		Employer: job.Employer,
		Reward:   job.Reward,
	})
	return l.commit(ctx, ev)
}

// WithdrawApplication withdraws a live application. Applicant-only. The job's
// application count is historical and does not decrease.
func (l *Ledger) WithdrawApplication(ctx context.Context, applicationID uint64, caller string, now uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	app := l.apps.get(applicationID)
	if app == nil {
		return apperrors.NotFoundf("application %d not found", applicationID)
	}
	if app.Applicant != caller {
		return apperrors.Unauthorized("only the applicant may withdraw an application")
	}
	if app.Withdrawn {
		return apperrors.InvalidStatus("application is already withdrawn")
	}
	if app.IsWinner {
		return apperrors.AlreadyWinner("winning application cannot be withdrawn")
	}
	if job := l.jobs.get(app.JobID); job == nil || job.Status != model.JobStatusOpen {
		return apperrors.InvalidStatus("job is no longer open")
	}

	ev := model.NewEvent(model.EventApplicationWithdrawn, now, model.ApplicationWithdrawnPayload{
		ApplicationID: applicationID,
		JobID:         app.JobID,
		Applicant:     app.Applicant,
	})
	return l.commit(ctx, ev)
}

// RejectApplication flags an application rejected. Employer-only and
// informational: rejection never touches escrow and does not block the
// application from later being selected as winner.
func (l *Ledger) RejectApplication(ctx context.Context, applicationID uint64, caller string, now uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	app := l.apps.get(applicationID)
	if app == nil {
		return apperrors.NotFoundf("application %d not found", applicationID)
	}
	job := l.jobs.get(app.JobID)
	if job == nil || job.Status != model.JobStatusOpen {
		return apperrors.InvalidStatus("job is not open")
	}
	if !job.IsEmployer(caller) {
		return apperrors.Unauthorized("only the employer may reject an application")
	}
	if app.Withdrawn {
		return apperrors.InvalidStatus("application is withdrawn")
	}
	if app.IsWinner {
		return apperrors.AlreadyWinner("application is already the winner")
	}
	if app.Rejected {
		return apperrors.Conflict("application is already rejected")
	}

	ev := model.NewEvent(model.EventApplicationRejected, now, model.ApplicationRejectedPayload{
		ApplicationID: applicationID,
		JobID:         app.JobID,
		Applicant:     app.Applicant,
	})
	return l.commit(ctx, ev)
}

// RecordView increments a job's view counter. Allowed in any status; views
// are an audit of interest, not an access grant.
func (l *Ledger) RecordView(ctx context.Context, jobID uint64, viewer string, now uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.jobs.get(jobID) == nil {
		return apperrors.NotFoundf("job %d not found", jobID)
	}

	ev := model.NewEvent(model.EventJobViewed, now, model.JobViewedPayload{
		JobID:  jobID,
		Viewer: viewer,
	})
	return l.commit(ctx, ev)
}

// DueJobs returns the ids of open jobs whose expiry has passed at the given
// logical time, in insertion order. Used by the expiry sweeper.
func (l *Ledger) DueJobs(now uint64) []uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.jobs.openDue(now)
}

// GetJob returns a snapshot of the job.
func (l *Ledger) GetJob(jobID uint64) (model.Job, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	job := l.jobs.get(jobID)
	if job == nil {
		return model.Job{}, apperrors.NotFoundf("job %d not found", jobID)
	}
	return snapshotJob(job), nil
}

// ListJobs returns snapshots of jobs matching the filter, ordered by
// insertion.
func (l *Ledger) ListJobs(filter model.JobFilter) []model.Job {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []model.Job
	skipped := 0
	for _, id := range l.jobs.order {
		job := l.jobs.get(id)
		if !filter.Matches(job) {
			continue
		}
		if skipped < filter.Offset {
			skipped++
			continue
		}
		out = append(out, snapshotJob(job))
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
	}
	return out
}

// ListJobsByEmployer returns snapshots of the employer's jobs, ordered by
// insertion.
func (l *Ledger) ListJobsByEmployer(employer string) []model.Job {
	l.mu.RLock()
	defer l.mu.RUnlock()

	ids := l.jobs.byEmployer[employer]
	out := make([]model.Job, 0, len(ids))
	for _, id := range ids {
		out = append(out, snapshotJob(l.jobs.get(id)))
	}
	return out
}

// ListApplications returns snapshots of a job's applications, ordered by
// insertion.
func (l *Ledger) ListApplications(jobID uint64) ([]model.Application, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.jobs.get(jobID) == nil {
		return nil, apperrors.NotFoundf("job %d not found", jobID)
	}
	ids := l.apps.byJob[jobID]
	out := make([]model.Application, 0, len(ids))
	for _, id := range ids {
		out = append(out, *l.apps.get(id))
	}
	return out, nil
}

// ListApplicationsByApplicant returns snapshots of the applicant's
// applications across all jobs, ordered by insertion.
func (l *Ledger) ListApplicationsByApplicant(applicant string) []model.Application {
	l.mu.RLock()
	defer l.mu.RUnlock()

	ids := l.apps.byApplicant[applicant]
	out := make([]model.Application, 0, len(ids))
	for _, id := range ids {
		out = append(out, *l.apps.get(id))
	}
	return out
}

// GetEscrow returns a snapshot of a job's escrow entry.
func (l *Ledger) GetEscrow(jobID uint64) (model.EscrowEntry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	entry := l.escrow.entry(jobID)
	if entry == nil {
		return model.EscrowEntry{}, apperrors.NotFoundf("no escrow entry for job %d", jobID)
	}
	return *entry, nil
}

// GetUserStats returns the actor's counters; unknown actors get zero counters.
func (l *Ledger) GetUserStats(actor string) model.UserStats {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.stats.userSnapshot(actor)
}

// GetPlatformStats returns the platform-wide counters.
func (l *Ledger) GetPlatformStats() model.PlatformStats {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.stats.platform
}

// Events streams committed events with sequence > fromSeq from the durable
// log, in order.
func (l *Ledger) Events(ctx context.Context, fromSeq uint64, fn func(model.Event) error) error {
	return l.store.Replay(ctx, fromSeq, fn)
}

// LastSequence returns the sequence of the most recently committed event.
func (l *Ledger) LastSequence() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lastSeq
}

func snapshotJob(j *model.Job) model.Job {
	out := *j
	out.Tags = slices.Clone(j.Tags)
	return out
}
