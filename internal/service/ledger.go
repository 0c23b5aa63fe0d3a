// Package service provides the application services around the ledger core:
// logging, event fan-out, and the expiry sweeper.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/trustgigs/ledger/internal/data"
	"github.com/trustgigs/ledger/internal/domain/model"
	"github.com/trustgigs/ledger/internal/ledger"
)

// EventPublisher fans committed ledger events out to external observers
// (UI, indexers). Publishing is best-effort: the ledger is authoritative and
// observers can always catch up from the event log.
type EventPublisher interface {
	Publish(ctx context.Context, ev model.Event) error
}

// LedgerServiceOptions groups dependencies for LedgerService.
type LedgerServiceOptions struct {
	Store     data.EventStore   // Required: durable event store
	Clock     data.TimeProvider // Optional: defaults to real time
	Logger    *slog.Logger      // Optional: structured logger
	Publisher EventPublisher    // Optional: committed-event fan-out
}

// LedgerService wraps the ledger core with logging and event fan-out. It is
// the boundary where wall-clock time becomes the explicit logical timestamps
// the core requires.
type LedgerService struct {
	core      *ledger.Ledger
	clock     data.TimeProvider
	logger    *slog.Logger
	publisher EventPublisher
}

const publishTimeout = 5 * time.Second

// NewLedgerService constructs a LedgerService, rebuilding ledger state from
// the store.
func NewLedgerService(ctx context.Context, opts LedgerServiceOptions) (*LedgerService, error) {
	if opts.Store == nil {
		return nil, errors.New("EventStore is required")
	}

	clock := opts.Clock
	if clock == nil {
		clock = &data.RealTimeProvider{}
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "ledger_service")
	}

	svc := &LedgerService{
		clock:     clock,
		logger:    logger,
		publisher: opts.Publisher,
	}

	core, err := ledger.New(ctx, ledger.Options{
		Store:    opts.Store,
		Observer: svc.fanOut,
	})
	if err != nil {
		return nil, fmt.Errorf("create ledger: %w", err)
	}
	svc.core = core

	if logger != nil {
		logger.InfoContext(ctx, "ledger state rebuilt", "last_sequence", core.LastSequence())
	}
	return svc, nil
}

// MustNewLedgerService constructs a LedgerService and panics on error.
// Use this when the options are known valid (e.g., in main.go).
func MustNewLedgerService(ctx context.Context, opts LedgerServiceOptions) *LedgerService {
	svc, err := NewLedgerService(ctx, opts)
	if err != nil {
		panic(fmt.Sprintf("failed to create LedgerService: %v", err))
	}
	return svc
}

// fanOut publishes a committed event without blocking the writer.
func (s *LedgerService) fanOut(ev model.Event) {
	if s.publisher == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := s.publisher.Publish(ctx, ev); err != nil && s.logger != nil {
			s.logger.Warn("publish event failed",
				"sequence", ev.Sequence,
				"kind", ev.Kind,
				"error", err,
			)
		}
	}()
}

// CreateJob creates a job with its reward locked in escrow.
func (s *LedgerService) CreateJob(ctx context.Context, req model.CreateJobRequest) (uint64, error) {
	jobID, err := s.core.CreateJob(ctx, req, s.clock.LogicalNow())
	if err != nil {
		return 0, err
	}
	if s.logger != nil {
		s.logger.DebugContext(ctx, "job created",
			"job_id", jobID,
			"employer", req.Employer,
			"reward", req.Reward,
		)
	}
	return jobID, nil
}

// ApplyToJob submits an application against an open job.
func (s *LedgerService) ApplyToJob(ctx context.Context, req model.ApplyRequest) (uint64, error) {
	appID, err := s.core.ApplyToJob(ctx, req, s.clock.LogicalNow())
	if err != nil {
		return 0, err
	}
	if s.logger != nil {
		s.logger.DebugContext(ctx, "application submitted",
			"application_id", appID,
			"job_id", req.JobID,
			"applicant", req.Applicant,
		)
	}
	return appID, nil
}

// SelectWinner closes a job and pays the escrowed reward to the winner.
func (s *LedgerService) SelectWinner(ctx context.Context, jobID, applicationID uint64, caller string) error {
	if err := s.core.SelectWinner(ctx, jobID, applicationID, caller, s.clock.LogicalNow()); err != nil {
		return err
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "winner selected",
			"job_id", jobID,
			"application_id", applicationID,
		)
	}
	return nil
}

// CancelJob cancels an application-free open job and refunds the employer.
func (s *LedgerService) CancelJob(ctx context.Context, jobID uint64, caller string) error {
	if err := s.core.CancelJob(ctx, jobID, caller, s.clock.LogicalNow()); err != nil {
		return err
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "job cancelled", "job_id", jobID)
	}
	return nil
}

// ExpireJob expires a due job and refunds the employer.
func (s *LedgerService) ExpireJob(ctx context.Context, jobID uint64) error {
	if err := s.core.ExpireJob(ctx, jobID, s.clock.LogicalNow()); err != nil {
		return err
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "job expired", "job_id", jobID)
	}
	return nil
}

// WithdrawApplication withdraws a live application.
func (s *LedgerService) WithdrawApplication(ctx context.Context, applicationID uint64, caller string) error {
	return s.core.WithdrawApplication(ctx, applicationID, caller, s.clock.LogicalNow())
}

// RejectApplication flags an application rejected (informational).
func (s *LedgerService) RejectApplication(ctx context.Context, applicationID uint64, caller string) error {
	return s.core.RejectApplication(ctx, applicationID, caller, s.clock.LogicalNow())
}

// RecordView increments a job's view counter.
func (s *LedgerService) RecordView(ctx context.Context, jobID uint64, viewer string) error {
	return s.core.RecordView(ctx, jobID, viewer, s.clock.LogicalNow())
}

// GetJob returns a snapshot of the job.
func (s *LedgerService) GetJob(jobID uint64) (model.Job, error) {
	return s.core.GetJob(jobID)
}

// ListJobs returns jobs matching the filter, ordered by insertion.
func (s *LedgerService) ListJobs(filter model.JobFilter) []model.Job {
	return s.core.ListJobs(filter)
}

// ListJobsByEmployer returns the employer's jobs.
func (s *LedgerService) ListJobsByEmployer(employer string) []model.Job {
	return s.core.ListJobsByEmployer(employer)
}

// ListApplications returns a job's applications.
func (s *LedgerService) ListApplications(jobID uint64) ([]model.Application, error) {
	return s.core.ListApplications(jobID)
}

// ListApplicationsByApplicant returns the applicant's applications.
func (s *LedgerService) ListApplicationsByApplicant(applicant string) []model.Application {
	return s.core.ListApplicationsByApplicant(applicant)
}

// GetEscrow returns a job's escrow entry.
func (s *LedgerService) GetEscrow(jobID uint64) (model.EscrowEntry, error) {
	return s.core.GetEscrow(jobID)
}

// GetUserStats returns the actor's counters.
func (s *LedgerService) GetUserStats(actor string) model.UserStats {
	return s.core.GetUserStats(actor)
}

// GetPlatformStats returns the platform-wide counters.
func (s *LedgerService) GetPlatformStats() model.PlatformStats {
	return s.core.GetPlatformStats()
}

// Events streams committed events with sequence > fromSeq.
func (s *LedgerService) Events(ctx context.Context, fromSeq uint64, fn func(model.Event) error) error {
	return s.core.Events(ctx, fromSeq, fn)
}

// DueJobs returns open jobs whose expiry has passed.
func (s *LedgerService) DueJobs() []uint64 {
	return s.core.DueJobs(s.clock.LogicalNow())
}
