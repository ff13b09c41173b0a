package repository

import (
	"context"

	"social-publisher/domain/model"
)

// IContentAdapter turns a source title/body into per-platform adaptations.
type IContentAdapter interface {
	Adapt(ctx context.Context, title, body string) (map[model.Platform]*model.Adaptation, error)
}
