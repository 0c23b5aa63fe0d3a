// Package data provides durable storage for the ledger's append-only event log.
package data

import (
	"context"

	"github.com/trustgigs/ledger/internal/domain/model"
)

// EventStore is the durable, append-only record of committed ledger events.
// The ledger assigns sequences; the store persists them and guards
// append-only ordering. Append is the only write the ledger ever performs
// against storage: entity state is rebuilt by replay.
type EventStore interface {
	// Append persists one event. The event's sequence must be exactly
	// LastSequence+1; stores reject gaps and duplicates.
	Append(ctx context.Context, ev model.Event) error
	// Replay streams events with sequence > fromSeq in order, invoking fn for
	// each. Replay stops and returns fn's error if it is non-nil.
	Replay(ctx context.Context, fromSeq uint64, fn func(model.Event) error) error
	// LastSequence returns the highest persisted sequence, or 0 when empty.
	LastSequence(ctx context.Context) (uint64, error)
}
