package repository

import (
	"context"

	"social-publisher/domain/model"
)

// IContent persists source contents. Deleting a content cascades to its
// variants.
type IContent interface {
	Create(ctx context.Context, content *model.SourceContent) error
	GetByID(ctx context.Context, id int64) (*model.SourceContent, error)
	List(ctx context.Context) ([]*model.SourceContent, error)
	Delete(ctx context.Context, id int64) error
}

// IVariant persists per-platform content variants.
type IVariant interface {
	Create(ctx context.Context, variant *model.ContentVariant) error
	GetByID(ctx context.Context, id int64) (*model.ContentVariant, error)
	ListByContent(ctx context.Context, contentID int64) ([]*model.ContentVariant, error)
	// IncrementRetry bumps the cumulative attempt counter and persists it
	// immediately, before the outcome of the attempt is known.
	IncrementRetry(ctx context.Context, id int64) error
	Update(ctx context.Context, variant *model.ContentVariant) error
}
