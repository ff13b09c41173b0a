package usecase

import (
	"context"
	"errors"
	"fmt"

	"social-publisher/domain/model"
	"social-publisher/domain/repository"
	"social-publisher/infrastructure/logger"
)

// ErrContentNotFound maps to 404 at the HTTP boundary.
var ErrContentNotFound = errors.New("content not found")

type IContentUsecase interface {
	Adapt(ctx context.Context, title, body string) (*model.SourceContent, error)
	List(ctx context.Context) ([]*model.SourceContent, error)
	Get(ctx context.Context, id int64) (*model.SourceContent, error)
	Delete(ctx context.Context, id int64) error
}

type contentUsecase struct {
	contents repository.IContent
	variants repository.IVariant
	adapter  repository.IContentAdapter
}

func NewContentUsecase(contents repository.IContent, variants repository.IVariant, adapter repository.IContentAdapter) IContentUsecase {
	return &contentUsecase{contents: contents, variants: variants, adapter: adapter}
}

// Adapt stores the source content, asks the generative service for one
// adaptation per platform and stores each as a draft variant. The source row
// survives an adaptation failure so the operator can retry without retyping.
func (u *contentUsecase) Adapt(ctx context.Context, title, body string) (*model.SourceContent, error) {
	content := &model.SourceContent{Title: title, Body: body}
	if err := u.contents.Create(ctx, content); err != nil {
		return nil, fmt.Errorf("store content: %w", err)
	}

	adaptations, err := u.adapter.Adapt(ctx, title, body)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Content adaptation failed")
		return nil, err
	}

	for _, platform := range model.AllPlatforms() {
		adaptation, ok := adaptations[platform]
		if !ok {
			continue
		}
		variant := &model.ContentVariant{
			ContentID:   content.ID,
			Platform:    platform,
			AdaptedText: adaptation.Text,
			Hashtags:    adaptation.Hashtags,
			State:       model.StateDraft,
		}
		if adaptation.GeneratedImageURL != "" {
			imageURL := adaptation.GeneratedImageURL
			variant.MediaURL = &imageURL
		}
		if err := u.variants.Create(ctx, variant); err != nil {
			return nil, fmt.Errorf("store %s variant: %w", platform, err)
		}
		content.Variants = append(content.Variants, variant)
	}
	return content, nil
}

func (u *contentUsecase) List(ctx context.Context) ([]*model.SourceContent, error) {
	return u.contents.List(ctx)
}

func (u *contentUsecase) Get(ctx context.Context, id int64) (*model.SourceContent, error) {
	content, err := u.contents.GetByID(ctx, id)
	if err != nil {
		return nil, ErrContentNotFound
	}
	return content, nil
}

func (u *contentUsecase) Delete(ctx context.Context, id int64) error {
	if err := u.contents.Delete(ctx, id); err != nil {
		return ErrContentNotFound
	}
	return nil
}
