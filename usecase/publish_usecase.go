package usecase

import (
	"context"
	"errors"
	"fmt"

	"social-publisher/domain/model"
	"social-publisher/domain/repository"
	"social-publisher/infrastructure/configuration"
	"social-publisher/infrastructure/logger"
	"social-publisher/infrastructure/utils"
)

var (
	// ErrVariantNotFound maps to 404 at the HTTP boundary.
	ErrVariantNotFound = errors.New("content variant not found")
	// ErrMissingRecipient rejects a WhatsApp publish without a destination
	// number before the variant is touched.
	ErrMissingRecipient = errors.New("whatsapp_number es requerido para WhatsApp")
	// ErrMissingMedia rejects a TikTok publish without a video source before
	// the variant is touched.
	ErrMissingMedia = errors.New("video_url es requerido para TikTok")
)

type IPublishUsecase interface {
	AttemptPublish(ctx context.Context, variantID int64, media model.PublishMedia) (model.PublishResult, error)
}

type publishUsecase struct {
	variants repository.IVariant
	adapters map[model.Platform]repository.IPublisher
	policies map[model.Platform]RetryPolicy
	retrier  *Retrier
	notifier repository.INotifier
}

func NewPublishUsecase(
	variants repository.IVariant,
	adapters map[model.Platform]repository.IPublisher,
	policies map[model.Platform]RetryPolicy,
	retrier *Retrier,
	notifier repository.INotifier,
) IPublishUsecase {
	return &publishUsecase{
		variants: variants,
		adapters: adapters,
		policies: policies,
		retrier:  retrier,
		notifier: notifier,
	}
}

// PoliciesFromConfig maps the per-platform retry configuration into retrier
// policies.
func PoliciesFromConfig(p configuration.Platforms) map[model.Platform]RetryPolicy {
	return map[model.Platform]RetryPolicy{
		model.PlatformFacebook:  {MaxAttempts: p.Facebook.Retry.MaxAttempts, InitialDelay: p.Facebook.Retry.InitialDelay(), BackoffFactor: p.Facebook.Retry.BackoffFactor},
		model.PlatformInstagram: {MaxAttempts: p.Instagram.Retry.MaxAttempts, InitialDelay: p.Instagram.Retry.InitialDelay(), BackoffFactor: p.Instagram.Retry.BackoffFactor},
		model.PlatformLinkedIn:  {MaxAttempts: p.LinkedIn.Retry.MaxAttempts, InitialDelay: p.LinkedIn.Retry.InitialDelay(), BackoffFactor: p.LinkedIn.Retry.BackoffFactor},
		model.PlatformWhatsApp:  {MaxAttempts: p.WhatsApp.Retry.MaxAttempts, InitialDelay: p.WhatsApp.Retry.InitialDelay(), BackoffFactor: p.WhatsApp.Retry.BackoffFactor},
		model.PlatformTikTok:    {MaxAttempts: p.TikTok.Retry.MaxAttempts, InitialDelay: p.TikTok.Retry.InitialDelay(), BackoffFactor: p.TikTok.Retry.BackoffFactor},
	}
}

// AttemptPublish drives one variant through validation, dispatch and the
// durable state transition. Parameter violations return before any mutation;
// once the attempt is accepted the retry counter always advances, whatever
// the outcome.
func (u *publishUsecase) AttemptPublish(ctx context.Context, variantID int64, media model.PublishMedia) (model.PublishResult, error) {
	variant, err := u.variants.GetByID(ctx, variantID)
	if err != nil {
		return model.PublishResult{}, ErrVariantNotFound
	}

	if err := validateMedia(variant, media); err != nil {
		return model.PublishResult{}, err
	}

	adapter, ok := u.adapters[variant.Platform]
	if !ok {
		return model.PublishResult{}, fmt.Errorf("no publisher registered for platform %s", variant.Platform)
	}

	if err := u.variants.IncrementRetry(ctx, variant.ID); err != nil {
		return model.PublishResult{}, err
	}
	variant.RetryCount++

	result := u.retrier.Do(variant.Platform, u.policies[variant.Platform], func() (model.PublishResult, error) {
		return adapter.Publish(ctx, variant, media), nil
	})

	u.applyTransition(variant, result)
	if err := u.variants.Update(ctx, variant); err != nil {
		logger.GetLogger().WithField("error", err).Error("Error persisting variant state")
		return result, err
	}

	u.notify(variant, result)
	return result, nil
}

func validateMedia(variant *model.ContentVariant, media model.PublishMedia) error {
	switch variant.Platform {
	case model.PlatformWhatsApp:
		if media.Recipient == "" {
			return ErrMissingRecipient
		}
	case model.PlatformTikTok:
		if media.VideoURL == "" && (variant.MediaURL == nil || *variant.MediaURL == "") {
			return ErrMissingMedia
		}
	}
	return nil
}

func (u *publishUsecase) applyTransition(variant *model.ContentVariant, result model.PublishResult) {
	now := utils.GetCurrentTime()
	switch result.Status {
	case model.PublishSuccess:
		variant.State = model.StatePublished
		variant.PublishedAt = &now
		variant.LastError = nil
		variant.ErrorLog = nil
		if result.ExternalID != "" {
			externalID := result.ExternalID
			variant.ExternalID = &externalID
		}
		if result.URL != "" {
			publishedURL := result.URL
			variant.PublishedURL = &publishedURL
		}
	case model.PublishManual:
		variant.State = model.StateManual
	default:
		variant.State = model.StateFailed
		message := result.Message
		variant.ErrorLog = &message
		variant.LastError = &message
	}
}

func (u *publishUsecase) notify(variant *model.ContentVariant, result model.PublishResult) {
	switch result.Status {
	case model.PublishSuccess:
		u.notifier.Success(variant.Platform, variant.ContentID, result.ExternalID)
	case model.PublishManual:
		u.notifier.ManualAction(variant.Platform, variant.ContentID)
	default:
		u.notifier.Error(variant.Platform, variant.ContentID, result.Message)
	}
}
