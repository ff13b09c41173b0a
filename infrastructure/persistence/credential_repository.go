package persistence

import (
	"context"
	"database/sql"
	"time"

	"social-publisher/domain/model"
)

// CredentialRepository stores one token pair per platform (PostgreSQL).
type CredentialRepository struct {
	db *sql.DB
}

func NewCredentialRepository(db *sql.DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

func (r *CredentialRepository) Upsert(ctx context.Context, cred *model.PlatformCredential) error {
	now := time.Now().UTC()
	if cred.CreatedAt.IsZero() {
		cred.CreatedAt = now
	}
	cred.UpdatedAt = now
	q := `INSERT INTO platform_credentials (platform, access_token, refresh_token, expires_at, created_at, updated_at)
		  VALUES ($1,$2,$3,$4,$5,$6)
		  ON CONFLICT (platform) DO UPDATE SET
			access_token=EXCLUDED.access_token,
			refresh_token=EXCLUDED.refresh_token,
			expires_at=EXCLUDED.expires_at,
			updated_at=EXCLUDED.updated_at`
	_, err := r.db.ExecContext(ctx, q, cred.Platform, cred.AccessToken, cred.RefreshToken, cred.ExpiresAt, cred.CreatedAt, cred.UpdatedAt)
	return err
}

func (r *CredentialRepository) GetByPlatform(ctx context.Context, platform model.Platform) (*model.PlatformCredential, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, platform, access_token, refresh_token, expires_at, created_at, updated_at FROM platform_credentials WHERE platform=$1`,
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
