package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"social-publisher/domain/model"
)

const variantColumns = `id, content_id, platform, adapted_text, hashtags, media_url, state, external_id, published_url, retry_count, error_log, last_error, published_at, created_at, updated_at`

// VariantRepository persists content variants using PostgreSQL (native sql.DB).
type VariantRepository struct {
	db *sql.DB
}

func NewVariantRepository(db *sql.DB) *VariantRepository { return &VariantRepository{db: db} }

func (r *VariantRepository) Create(ctx context.Context, v *model.ContentVariant) error {
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
		`INSERT INTO content_variants (content_id, platform, adapted_text, hashtags, media_url, state, retry_count, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9) RETURNING id`,
		v.ContentID, v.Platform, v.AdaptedText, tags, v.MediaURL, v.State, v.RetryCount, v.CreatedAt, v.UpdatedAt)
	return row.Scan(&v.ID)
}

func (r *VariantRepository) GetByID(ctx context.Context, id int64) (*model.ContentVariant, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+variantColumns+` FROM content_variants WHERE id=$1`, id)
	return scanVariant(row)
}

func (r *VariantRepository) ListByContent(ctx context.Context, contentID int64) ([]*model.ContentVariant, error) {
	return listVariants(ctx, r.db, `SELECT `+variantColumns+` FROM content_variants WHERE content_id=$1 ORDER BY id`, contentID)
}

func (r *VariantRepository) IncrementRetry(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE content_variants SET retry_count = retry_count + 1, updated_at=$2 WHERE id=$1`,
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

func (r *VariantRepository) Update(ctx context.Context, v *model.ContentVariant) error {
	v.UpdatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`UPDATE content_variants SET state=$2, external_id=$3, published_url=$4, error_log=$5, last_error=$6, published_at=$7, updated_at=$8 WHERE id=$1`,
		v.ID, v.State, v.ExternalID, v.PublishedURL, v.ErrorLog, v.LastError, v.PublishedAt, v.UpdatedAt)
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanVariant(row rowScanner) (*model.ContentVariant, error) {
	v := &model.ContentVariant{}
	var tags string
	var mediaURL, externalID, publishedURL, errorLog, lastError sql.NullString
	var publishedAt sql.NullTime
	if err := row.Scan(&v.ID, &v.ContentID, &v.Platform, &v.AdaptedText, &tags, &mediaURL, &v.State,
		&externalID, &publishedURL, &v.RetryCount, &errorLog, &lastError, &publishedAt, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tags), &v.Hashtags); err != nil {
		return nil, err
	}
	if mediaURL.Valid {
		s := mediaURL.String
		v.MediaURL = &s
	}
	if externalID.Valid {
		s := externalID.String
		v.ExternalID = &s
	}
	if publishedURL.Valid {
		s := publishedURL.String
		v.PublishedURL = &s
	}
	if errorLog.Valid {
		s := errorLog.String
		v.ErrorLog = &s
	}
	if lastError.Valid {
		s := lastError.String
		v.LastError = &s
	}
	if publishedAt.Valid {
		t := publishedAt.Time
		v.PublishedAt = &t
	}
	return v, nil
}

func listVariants(ctx context.Context, db *sql.DB, query string, args ...interface{}) ([]*model.ContentVariant, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*model.ContentVariant
	for rows.Next() {
		v, err := scanVariant(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

func marshalHashtags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
