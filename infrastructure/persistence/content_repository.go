package persistence

import (
	"context"
	"database/sql"
	"time"

	"social-publisher/domain/model"
)

// ContentRepository persists source contents using PostgreSQL (native sql.DB).
type ContentRepository struct {
	db *sql.DB
}

func NewContentRepository(db *sql.DB) *ContentRepository { return &ContentRepository{db: db} }

func (r *ContentRepository) Create(ctx context.Context, content *model.SourceContent) error {
	if content.CreatedAt.IsZero() {
		content.CreatedAt = time.Now().UTC()
	}
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO contents (title, body, created_at) VALUES ($1,$2,$3) RETURNING id`,
		content.Title, content.Body, content.CreatedAt)
	return row.Scan(&content.ID)
}

func (r *ContentRepository) GetByID(ctx context.Context, id int64) (*model.SourceContent, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, title, body, created_at FROM contents WHERE id=$1`, id)
	content := &model.SourceContent{}
	if err := row.Scan(&content.ID, &content.Title, &content.Body, &content.CreatedAt); err != nil {
		return nil, err
	}
	variants, err := listVariants(ctx, r.db, `SELECT `+variantColumns+` FROM content_variants WHERE content_id=$1 ORDER BY id`, id)
	if err != nil {
		return nil, err
	}
	content.Variants = variants
	return content, nil
}

func (r *ContentRepository) List(ctx context.Context) ([]*model.SourceContent, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, title, body, created_at FROM contents ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*model.SourceContent
	for rows.Next() {
		content := &model.SourceContent{}
		if err := rows.Scan(&content.ID, &content.Title, &content.Body, &content.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, content)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, content := range list {
		variants, err := listVariants(ctx, r.db, `SELECT `+variantColumns+` FROM content_variants WHERE content_id=$1 ORDER BY id`, content.ID)
		if err != nil {
			return nil, err
		}
		content.Variants = variants
	}
	return list, nil
}

// Delete removes the content; variants go with it via ON DELETE CASCADE.
func (r *ContentRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contents WHERE id=$1`, id)
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
