package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// EnsurePublishSchema creates the publishing tables if they are missing.
// Safe to call at startup.
func EnsurePublishSchema(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS contents (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			body TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS content_variants (
			id BIGSERIAL PRIMARY KEY,
			content_id BIGINT NOT NULL REFERENCES contents(id) ON DELETE CASCADE,
			platform TEXT NOT NULL,
			adapted_text TEXT NOT NULL,
			hashtags TEXT NOT NULL DEFAULT '[]',
			media_url TEXT,
			state TEXT NOT NULL DEFAULT 'draft',
			external_id TEXT,
			published_url TEXT,
			retry_count INT NOT NULL DEFAULT 0,
			error_log TEXT,
			last_error TEXT,
			published_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_content_variants_content_id ON content_variants (content_id)`,
		`CREATE TABLE IF NOT EXISTS platform_credentials (
			id BIGSERIAL PRIMARY KEY,
			platform TEXT NOT NULL UNIQUE,
			access_token TEXT NOT NULL,
			refresh_token TEXT,
			expires_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("ensuring publish schema failed: %w", err)
		}
	}

	// Columns added after the first release; conditional ALTER keeps older
	// databases usable.
	checks := []struct {
		table  string
		column string
		ddl    string
	}{
		{"content_variants", "published_url", "ALTER TABLE content_variants ADD COLUMN published_url TEXT"},
		{"content_variants", "retry_count", "ALTER TABLE content_variants ADD COLUMN retry_count INT NOT NULL DEFAULT 0"},
		{"content_variants", "last_error", "ALTER TABLE content_variants ADD COLUMN last_error TEXT"},
	}
	for _, c := range checks {
		exists, err := columnExists(ctx, db, c.table, c.column)
		if err != nil {
			return err
		}
		if !exists {
			if _, err := db.ExecContext(ctx, c.ddl); err != nil {
				return fmt.Errorf("adding column %s.%s failed: %w", c.table, c.column, err)
			}
		}
	}
	return nil
}

func columnExists(ctx context.Context, db *sql.DB, table, column string) (bool, error) {
	row := db.QueryRowContext(ctx, `SELECT 1 FROM information_schema.columns WHERE table_name=$1 AND column_name=$2`, table, column)
	var one int
	if err := row.Scan(&one); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
