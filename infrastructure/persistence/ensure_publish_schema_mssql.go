package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// EnsurePublishSchemaMSSQL creates the publishing tables on SQL Server/Azure
// SQL if they are missing.
func EnsurePublishSchemaMSSQL(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stmts := []string{
		`IF OBJECT_ID('dbo.contents', 'U') IS NULL
		CREATE TABLE dbo.contents (
			id BIGINT IDENTITY(1,1) PRIMARY KEY,
			title NVARCHAR(400) NOT NULL,
			body NVARCHAR(MAX) NOT NULL,
			created_at DATETIMEOFFSET NOT NULL DEFAULT SYSUTCDATETIME()
		)`,
		`IF OBJECT_ID('dbo.content_variants', 'U') IS NULL
		CREATE TABLE dbo.content_variants (
			id BIGINT IDENTITY(1,1) PRIMARY KEY,
			content_id BIGINT NOT NULL REFERENCES dbo.contents(id) ON DELETE CASCADE,
			platform NVARCHAR(20) NOT NULL,
			adapted_text NVARCHAR(MAX) NOT NULL,
			hashtags NVARCHAR(MAX) NOT NULL DEFAULT '[]',
			media_url NVARCHAR(2000) NULL,
			state NVARCHAR(20) NOT NULL DEFAULT 'draft',
			external_id NVARCHAR(200) NULL,
			published_url NVARCHAR(2000) NULL,
			retry_count INT NOT NULL DEFAULT 0,
			error_log NVARCHAR(MAX) NULL,
			last_error NVARCHAR(MAX) NULL,
			published_at DATETIMEOFFSET NULL,
			created_at DATETIMEOFFSET NOT NULL DEFAULT SYSUTCDATETIME(),
			updated_at DATETIMEOFFSET NOT NULL DEFAULT SYSUTCDATETIME()
		)`,
		`IF OBJECT_ID('dbo.platform_credentials', 'U') IS NULL
		CREATE TABLE dbo.platform_credentials (
			id BIGINT IDENTITY(1,1) PRIMARY KEY,
			platform NVARCHAR(20) NOT NULL UNIQUE,
			access_token NVARCHAR(MAX) NOT NULL,
			refresh_token NVARCHAR(MAX) NULL,
			expires_at DATETIMEOFFSET NULL,
			created_at DATETIMEOFFSET NOT NULL DEFAULT SYSUTCDATETIME(),
			updated_at DATETIMEOFFSET NOT NULL DEFAULT SYSUTCDATETIME()
		)`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("ensuring publish schema (mssql) failed: %w", err)
		}
	}
	return nil
}
