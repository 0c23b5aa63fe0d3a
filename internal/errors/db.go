package errors

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// MapDBError maps database errors from the event store to AppError instances:
//   - pgx.ErrNoRows → NotFound
//   - unique violations (duplicate sequence) → Conflict
//   - check constraint violations → InvalidInput
//   - context deadline/cancellation → Timeout/Canceled
//
// Unrecognized errors are wrapped as Internal so callers never see raw driver
// errors.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &AppError{Code: ErrCodeTimeout, Message: "database operation timed out", Cause: err}
	}
	if errors.Is(err, context.Canceled) {
		return &AppError{Code: ErrCodeCanceled, Message: "database operation canceled", Cause: err}
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return &AppError{Code: ErrCodeNotFound, Message: "record not found", Cause: err}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return &AppError{
				Code:    ErrCodeConflict,
				Message: "event sequence already recorded",
				Cause:   err,
			}
		case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
			return &AppError{
				Code:    ErrCodeInvalidInput,
				Message: "event rejected by schema constraint",
				Cause:   err,
			}
		}
	}

	return &AppError{Code: ErrCodeInternal, Message: "database error", Cause: err}
}
