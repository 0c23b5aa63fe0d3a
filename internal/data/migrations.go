package data

import (
	"context"
	"database/sql"

	"github.com/trustgigs/ledger/internal/migrate"
)

// RunMigrations sets up the event store schema by delegating to the migrate package.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrate.Run(ctx, db)
}
