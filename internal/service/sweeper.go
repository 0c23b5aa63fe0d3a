package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	apperrors "github.com/trustgigs/ledger/internal/errors"
)

// SweeperServiceOptions groups dependencies for SweeperService.
type SweeperServiceOptions struct {
	Ledger   *LedgerService // Required: ledger service
	Interval time.Duration  // Required: sweep interval
	Logger   *slog.Logger   // Optional: structured logger
}

// SweeperService expires due jobs on an interval. Expiry is purely
// time-gated, so the sweep needs no credentials; it simply drives the same
// ExpireJob transition any caller could.
type SweeperService struct {
	ledger   *LedgerService
	interval time.Duration
	logger   *slog.Logger
}

// NewSweeperService constructs a SweeperService.
func NewSweeperService(opts SweeperServiceOptions) (*SweeperService, error) {
	if opts.Ledger == nil {
		return nil, errors.New("LedgerService is required")
	}
	if opts.Interval <= 0 {
		return nil, errors.New("Interval must be positive")
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "sweeper")
		logger.Debug("SweeperService initialized", "interval", opts.Interval)
	}

	return &SweeperService{
		ledger:   opts.Ledger,
		interval: opts.Interval,
		logger:   logger,
	}, nil
}

// Run sweeps until the context is canceled.
func (s *SweeperService) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce expires every currently due job. Races with concurrent writers
// are benign: a job closed between listing and expiry fails with
// InvalidStatus or NotExpired and is skipped.
func (s *SweeperService) SweepOnce(ctx context.Context) int {
	expired := 0
	for _, jobID := range s.ledger.DueJobs() {
		err := s.ledger.ExpireJob(ctx, jobID)
		switch {
		case err == nil:
			expired++
		case apperrors.IsInvalidStatus(err) || apperrors.IsNotExpired(err):
			// lost the race to another transition
		default:
			if s.logger != nil {
				s.logger.ErrorContext(ctx, "expire job failed", "job_id", jobID, "error", err)
			}
		}
	}
	if expired > 0 && s.logger != nil {
		s.logger.InfoContext(ctx, "expiry sweep completed", "expired", expired)
	}
	return expired
}
