package social

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"social-publisher/domain/model"
	"social-publisher/domain/repository"
	"social-publisher/infrastructure/configuration"
)

// InstagramClient publishes an image post to an Instagram Business account.
// The Graph API flow is two phases: create a media container, then publish it
// by id. Meta processes the container asynchronously, so a fixed wait sits
// between the phases.
type InstagramClient struct {
	cfg      configuration.Instagram
	baseURL  string
	http     *http.Client
	notifier repository.INotifier
	sleep    func(time.Duration)
}

func NewInstagramClient(cfg configuration.Instagram, notifier repository.INotifier) *InstagramClient {
	return &InstagramClient{
		cfg:      cfg,
		baseURL:  graphAPIBaseURL,
		http:     defaultHTTPClient(),
		notifier: notifier,
		sleep:    time.Sleep,
	}
}

func (c *InstagramClient) Publish(ctx context.Context, variant *model.ContentVariant, media model.PublishMedia) model.PublishResult {
	if c.cfg.AccountID == "" || c.cfg.AccessToken == "" {
		return model.ManualResult(model.PlatformInstagram, "Falta ID de Instagram. Accion manual requerida.")
	}

	imageURL := media.ImageURL
	if imageURL == "" && variant.MediaURL != nil {
		imageURL = *variant.MediaURL
	}
	if imageURL == "" {
		return model.ErrorResult(model.PlatformInstagram, "Instagram requiere una URL de imagen")
	}

	// Phase 1: create the media container.
	containerURL := fmt.Sprintf("%s/%s/media", c.baseURL, c.cfg.AccountID)
	values := url.Values{}
	values.Set("image_url", imageURL)
	values.Set("caption", variant.FullText())
	values.Set("access_token", c.cfg.AccessToken)

	status, body, err := postForm(ctx, c.http, containerURL, values)
	if err != nil {
		return model.ErrorResult(model.PlatformInstagram, err.Error())
	}
	c.notifier.APICall(model.PlatformInstagram, containerURL, status, body)

	var container struct {
		ID string `json:"id"`
	}
	if unmarshalErr := json.Unmarshal(body, &container); unmarshalErr != nil {
		container.ID = ""
	}
	if status != http.StatusOK || container.ID == "" {
		return model.StepErrorResult(model.PlatformInstagram, "1", string(body))
	}

	// Meta needs time to process the image before the container can be
	// published; publishing too early fails with a transient error.
	c.sleep(time.Duration(c.cfg.ProcessingWaitSeconds) * time.Second)

	// Phase 2: publish the container.
	publishURL := fmt.Sprintf("%s/%s/media_publish", c.baseURL, c.cfg.AccountID)
	values = url.Values{}
	values.Set("creation_id", container.ID)
	values.Set("access_token", c.cfg.AccessToken)

	status, body, err = postForm(ctx, c.http, publishURL, values)
	if err != nil {
		return model.ErrorResult(model.PlatformInstagram, err.Error())
	}
	c.notifier.APICall(model.PlatformInstagram, publishURL, status, body)

	if status != http.StatusOK {
		return model.StepErrorResult(model.PlatformInstagram, "2", string(body))
	}
	var published struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &published); err != nil {
		return model.ErrorResult(model.PlatformInstagram, err.Error())
	}
	return model.SuccessResult(model.PlatformInstagram, published.ID,
		fmt.Sprintf("https://www.instagram.com/p/%s/", published.ID))
}
