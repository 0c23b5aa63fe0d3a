package data

import (
	"context"
	"sync"

	"github.com/trustgigs/ledger/internal/domain/model"
	apperrors "github.com/trustgigs/ledger/internal/errors"
)

// MemEventStore is an in-memory EventStore used by tests and dev mode. It
// enforces the same append-only contiguity contract as the Postgres store.
type MemEventStore struct {
	mu     sync.RWMutex
	events []model.Event
}

// NewMemEventStore creates an empty in-memory event store.
func NewMemEventStore() *MemEventStore {
	return &MemEventStore{}
}

// Append persists one event, rejecting sequence gaps and duplicates.
func (s *MemEventStore) Append(_ context.Context, ev model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	want := uint64(len(s.events)) + 1
	if ev.Sequence != want {
		return apperrors.Conflict("event sequence out of order")
	}
	s.events = append(s.events, ev)
	return nil
}

// Replay streams events with sequence > fromSeq in order.
func (s *MemEventStore) Replay(ctx context.Context, fromSeq uint64, fn func(model.Event) error) error {
	s.mu.RLock()
	// Copy the tail so fn can call back into the store without deadlocking.
	var tail []model.Event
	if fromSeq < uint64(len(s.events)) {
		tail = append(tail, s.events[fromSeq:]...)
	}
	s.mu.RUnlock()

	for _, ev := range tail {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(ev); err != nil {
			return err
		}
	}
	return nil
}

// LastSequence returns the highest stored sequence, or 0 when empty.
func (s *MemEventStore) LastSequence(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return uint64(len(s.events)), nil
}

var _ EventStore = (*MemEventStore)(nil)
