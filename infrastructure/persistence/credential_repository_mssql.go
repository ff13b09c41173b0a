package persistence

import (
	"context"
	"database/sql"
	"time"

	"social-publisher/domain/model"
)

// CredentialRepositoryMSSQL stores one token pair per platform (SQL Server/Azure SQL).
type CredentialRepositoryMSSQL struct{ db *sql.DB }

func NewCredentialRepositoryMSSQL(db *sql.DB) *CredentialRepositoryMSSQL {
	return &CredentialRepositoryMSSQL{db: db}
}

func (r *CredentialRepositoryMSSQL) Upsert(ctx context.Context, cred *model.PlatformCredential) error {
	now := time.Now().UTC()
	if cred.CreatedAt.IsZero() {
		cred.CreatedAt = now
	}
	cred.UpdatedAt = now
	q := `MERGE dbo.platform_credentials AS target
USING (VALUES (@p1)) AS src(platform)
ON target.platform = src.platform
WHEN MATCHED THEN UPDATE SET
  access_token = @p2,
  refresh_token = @p3,
  expires_at = @p4,
  updated_at = @p6
WHEN NOT MATCHED THEN
  INSERT (platform, access_token, refresh_token, expires_at, created_at, updated_at)
  VALUES (src.platform, @p2, @p3, @p4, @p5, @p6);`
	_, err := r.db.ExecContext(ctx, q, cred.Platform, cred.AccessToken, cred.RefreshToken, cred.ExpiresAt, cred.CreatedAt, cred.UpdatedAt)
	return err
}

func (r *CredentialRepositoryMSSQL) GetByPlatform(ctx context.Context, platform model.Platform) (*model.PlatformCredential, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT TOP (1) id, platform, access_token, refresh_token, expires_at, created_at, updated_at FROM dbo.platform_credentials WHERE platform=@p1`,
		platform)
	cred := &model.PlatformCredential{}
	var refresh sql.NullString
	var expires sql.NullTime
	if err := row.Scan(&cred.ID, &cred.Platform, &cred.AccessToken, &refresh, &expires, &cred.CreatedAt, &cred.UpdatedAt); err != nil {
		return nil, err
	}
	if refresh.Valid {
		s := refresh.String
		cred.RefreshToken = &s
	}
	if expires.Valid {
		t := expires.Time
		cred.ExpiresAt = &t
	}
	return cred, nil
}
