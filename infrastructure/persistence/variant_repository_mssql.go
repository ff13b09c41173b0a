package persistence

import (
	"context"
	"database/sql"
	"time"

	"social-publisher/domain/model"
)

// VariantRepositoryMSSQL implements variant persistence for SQL Server/Azure SQL.
type VariantRepositoryMSSQL struct{ db *sql.DB }

func NewVariantRepositoryMSSQL(db *sql.DB) *VariantRepositoryMSSQL {
	return &VariantRepositoryMSSQL{db: db}
}

func (r *VariantRepositoryMSSQL) Create(ctx context.Context, v *model.ContentVariant) error {
	now := time.Now().UTC()
	if v.CreatedAt.IsZero() {
		v.CreatedAt = now
	}
	v.UpdatedAt = now
	if v.State == "" {
		v.State = model.StateDraft
	}
	tags, err := marshalHashtags(v.Hashtags)
	if err != nil {
		return err
	}
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO dbo.content_variants (content_id, platform, adapted_text, hashtags, media_url, state, retry_count, created_at, updated_at)
		 OUTPUT INSERTED.id
		 VALUES (@p1,@p2,@p3,@p4,@p5,@p6,@p7,@p8,@p9)`,
		v.ContentID, v.Platform, v.AdaptedText, tags, v.MediaURL, v.State, v.RetryCount, v.CreatedAt, v.UpdatedAt)
	return row.Scan(&v.ID)
}

func (r *VariantRepositoryMSSQL) GetByID(ctx context.Context, id int64) (*model.ContentVariant, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+variantColumns+` FROM dbo.content_variants WHERE id=@p1`, id)
	return scanVariant(row)
}

func (r *VariantRepositoryMSSQL) ListByContent(ctx context.Context, contentID int64) ([]*model.ContentVariant, error) {
	return listVariants(ctx, r.db, `SELECT `+variantColumns+` FROM dbo.content_variants WHERE content_id=@p1 ORDER BY id`, contentID)
}

func (r *VariantRepositoryMSSQL) IncrementRetry(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE dbo.content_variants SET retry_count = retry_count + 1, updated_at=@p2 WHERE id=@p1`,
		id, time.Now().UTC())
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *VariantRepositoryMSSQL) Update(ctx context.Context, v *model.ContentVariant) error {
	v.UpdatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`UPDATE dbo.content_variants SET state=@p2, external_id=@p3, published_url=@p4, error_log=@p5, last_error=@p6, published_at=@p7, updated_at=@p8 WHERE id=@p1`,
		v.ID, v.State, v.ExternalID, v.PublishedURL, v.ErrorLog, v.LastError, v.PublishedAt, v.UpdatedAt)
	return err
}
