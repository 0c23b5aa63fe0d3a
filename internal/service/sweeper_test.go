package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trustgigs/ledger/internal/domain/model"
)

func TestNewSweeperService_Validation(t *testing.T) {
	_, err := NewSweeperService(SweeperServiceOptions{Interval: time.Second})
	require.Error(t, err)

	svc := newTestService(t, LedgerServiceOptions{})
	_, err = NewSweeperService(SweeperServiceOptions{Ledger: svc})
	require.Error(t, err)
}

func TestSweepOnce(t *testing.T) {
	ctx := context.Background()
	clock := fixedClock()
	svc := newTestService(t, LedgerServiceOptions{Clock: clock})

	expiry := clock.LogicalNow() + 3600
	for range 3 {
		_, err := svc.CreateJob(ctx, model.CreateJobRequest{
			Employer: "alice", Title: "t", Reward: 10, ExpiresAt: &expiry,
		})
		require.NoError(t, err)
	}
	forever, err := svc.CreateJob(ctx, model.CreateJobRequest{
		Employer: "alice", Title: "t", Reward: 10,
	})
	require.NoError(t, err)

	sweeper, err := NewSweeperService(SweeperServiceOptions{
		Ledger:   svc,
		Interval: time.Minute,
	})
	require.NoError(t, err)

	// Nothing due yet.
	assert.Zero(t, sweeper.SweepOnce(ctx))

	clock.AdvanceTime(2 * time.Hour)
	assert.Equal(t, 3, sweeper.SweepOnce(ctx))

	// Idempotent: the expired jobs are gone from the due list.
	assert.Zero(t, sweeper.SweepOnce(ctx))

	job, err := svc.GetJob(forever)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusOpen, job.Status)
}

func TestSweeperRun_StopsOnCancel(t *testing.T) {
	svc := newTestService(t, LedgerServiceOptions{})
	sweeper, err := NewSweeperService(SweeperServiceOptions{
		Ledger:   svc,
		Interval: 5 * time.Millisecond,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sweeper.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case runErr := <-done:
		assert.ErrorIs(t, runErr, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
