package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/trustgigs/ledger/internal/data/pgxutil"
	"github.com/trustgigs/ledger/internal/domain/model"
	apperrors "github.com/trustgigs/ledger/internal/errors"
)

// PGEventStore persists ledger events in PostgreSQL. The sequence column is
// the primary key, so a gap-free append contract is enforced by the unique
// constraint plus the in-transaction last-sequence check.
type PGEventStore struct {
	DB *sql.DB
}

// NewPGEventStore creates a PGEventStore over an open database handle.
func NewPGEventStore(db *sql.DB) *PGEventStore {
	return &PGEventStore{DB: db}
}

// Append persists one event inside a transaction, verifying contiguity
// against the stored tail before inserting.
func (s *PGEventStore) Append(ctx context.Context, ev model.Event) error {
	err := pgxutil.WithPgxTx(ctx, s.DB, pgxutil.TxConfig{
		Opts: &sql.TxOptions{Isolation: sql.LevelSerializable},
		Fn: func(tx pgx.Tx) error {
			var last uint64
			row := tx.QueryRow(ctx, `SELECT COALESCE(MAX(sequence), 0) FROM ledger_events`)
			if scanErr := row.Scan(&last); scanErr != nil {
				return fmt.Errorf("read last sequence: %w", scanErr)
			}
			if ev.Sequence != last+1 {
				return apperrors.Conflict("event sequence out of order")
			}

			_, execErr := tx.Exec(ctx, `
				INSERT INTO ledger_events (sequence, kind, logical_ts, payload)
				VALUES ($1, $2, $3, $4)
			`, ev.Sequence, string(ev.Kind), ev.Timestamp, []byte(ev.Payload))
			if execErr != nil {
				return fmt.Errorf("insert event: %w", execErr)
			}
			return nil
		},
	})
	if err != nil {
		if apperrors.IsConflict(err) {
			return err
		}
		return apperrors.MapDBError(err)
	}
	return nil
}

// Replay streams events with sequence > fromSeq in sequence order.
func (s *PGEventStore) Replay(ctx context.Context, fromSeq uint64, fn func(model.Event) error) error {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT sequence, kind, logical_ts, payload
		FROM ledger_events
		WHERE sequence > $1
		ORDER BY sequence ASC
	`, fromSeq)
	if err != nil {
		return apperrors.MapDBError(err)
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var (
			ev      model.Event
			kind    string
			payload []byte
		)
		if scanErr := rows.Scan(&ev.Sequence, &kind, &ev.Timestamp, &payload); scanErr != nil {
			return apperrors.MapDBError(scanErr)
		}
		ev.Kind = model.EventKind(kind)
		ev.Payload = payload
		if fnErr := fn(ev); fnErr != nil {
			return fnErr
		}
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return apperrors.MapDBError(rowsErr)
	}
	return nil
}

// LastSequence returns the highest persisted sequence, or 0 when empty.
func (s *PGEventStore) LastSequence(ctx context.Context) (uint64, error) {
	var last uint64
	row := s.DB.QueryRowContext(ctx, `SELECT COALESCE(MAX(sequence), 0) FROM ledger_events`)
	if err := row.Scan(&last); err != nil {
		return 0, apperrors.MapDBError(err)
	}
	return last, nil
}

var _ EventStore = (*PGEventStore)(nil)
