package database

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect/sql"
)

// CreateClaimIndexes creates PostgreSQL partial indexes that Ent/Atlas
// cannot express. Workers claim the oldest pending search request with
// FOR UPDATE SKIP LOCKED; the partial index keeps that scan cheap no
// matter how many finished rows accumulate.
func CreateClaimIndexes(ctx context.Context, driver *sql.Driver) error {
	db := driver.DB()

	_, err := db.ExecContext(ctx,
		`CREATE INDEX IF NOT EXISTS search_requests_pending_created_at
		ON search_requests (created_at)
		WHERE status = 'pending'`)
	if err != nil {
		return fmt.Errorf("failed to create pending claim index: %w", err)
	}

	return nil
}
