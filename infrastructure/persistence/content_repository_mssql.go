package persistence

import (
	"context"
	"database/sql"
	"time"

	"social-publisher/domain/model"
)

// ContentRepositoryMSSQL implements content persistence for SQL Server/Azure SQL.
type ContentRepositoryMSSQL struct{ db *sql.DB }

func NewContentRepositoryMSSQL(db *sql.DB) *ContentRepositoryMSSQL {
	return &ContentRepositoryMSSQL{db: db}
}

func (r *ContentRepositoryMSSQL) Create(ctx context.Context, content *model.SourceContent) error {
	if content.CreatedAt.IsZero() {
		content.CreatedAt = time.Now().UTC()
	}
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO dbo.contents (title, body, created_at) OUTPUT INSERTED.id VALUES (@p1, @p2, @p3)`,
		content.Title, content.Body, content.CreatedAt)
	return row.Scan(&content.ID)
}

func (r *ContentRepositoryMSSQL) GetByID(ctx context.Context, id int64) (*model.SourceContent, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, title, body, created_at FROM dbo.contents WHERE id=@p1`, id)
	content := &model.SourceContent{}
	if err := row.Scan(&content.ID, &content.Title, &content.Body, &content.CreatedAt); err != nil {
		return nil, err
	}
	variants, err := listVariants(ctx, r.db, `SELECT `+variantColumns+` FROM dbo.content_variants WHERE content_id=@p1 ORDER BY id`, id)
	if err != nil {
		return nil, err
	}
	content.Variants = variants
	return content, nil
}

func (r *ContentRepositoryMSSQL) List(ctx context.Context) ([]*model.SourceContent, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, title, body, created_at FROM dbo.contents ORDER BY created_at DESC`)
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
		variants, err := listVariants(ctx, r.db, `SELECT `+variantColumns+` FROM dbo.content_variants WHERE content_id=@p1 ORDER BY id`, content.ID)
		if err != nil {
			return nil, err
		}
		content.Variants = variants
	}
	return list, nil
}

func (r *ContentRepositoryMSSQL) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM dbo.contents WHERE id=@p1`, id)
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
