// Package migrations holds Go migrations for the sqlite storage backend.
// SQL migrations live next to this file and are embedded by the parent
// package.
package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/agentstation/utc"
	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upAddUpdatedAt, downAddUpdatedAt)
}

// upAddUpdatedAt adds a unix-seconds modification stamp and backfills
// existing rows with the migration time.
func upAddUpdatedAt(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, `ALTER TABLE kv ADD COLUMN updated_at INTEGER NOT NULL DEFAULT 0`); err != nil {
		return fmt.Errorf("adding updated_at column: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE kv SET updated_at = ?`, utc.Now().Unix()); err != nil {
		return fmt.Errorf("backfilling updated_at: %w", err)
	}
	return nil
}

func downAddUpdatedAt(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, `ALTER TABLE kv DROP COLUMN updated_at`); err != nil {
		return fmt.Errorf("dropping updated_at column: %w", err)
	}
	return nil
}
