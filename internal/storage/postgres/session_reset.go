package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// sessionTables lists every table the demo reset wipes, dependents first.
var sessionTables = []string{"events", "customers", "partners", "users"}

// ResetSession truncates all application tables and restarts their id
// sequences. A single TRUNCATE over the whole list with CASCADE replaces the
// disable-check/truncate/re-enable dance some engines need, and keeps the
// operation idempotent. Destructive and unconditional; callers gate it.
func ResetSession(ctx context.Context, pool *pgxpool.Pool) error {
	stmt := "TRUNCATE TABLE "
	for i, table := range sessionTables {
		if i > 0 {
			stmt += ", "
		}
		stmt += table
	}
	stmt += " RESTART IDENTITY CASCADE"

	if _, err := pool.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("reset session data: %w", err)
	}
	return nil
}
