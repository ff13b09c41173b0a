package social

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"social-publisher/domain/model"
	"social-publisher/domain/repository"
	"social-publisher/infrastructure/configuration"
)

// FacebookClient publishes to a Facebook Page through the Graph API.
// Plain text goes to /feed; posts with an image go to /photos, either as a
// remote URL Facebook downloads itself or as a multipart upload when the
// image lives in local media storage.
type FacebookClient struct {
	cfg      configuration.Facebook
	baseURL  string
	http     *http.Client
	notifier repository.INotifier
	media    LocalMediaResolver
}

func NewFacebookClient(cfg configuration.Facebook, notifier repository.INotifier, media LocalMediaResolver) *FacebookClient {
	return &FacebookClient{
		cfg:      cfg,
		baseURL:  graphAPIBaseURL,
		http:     defaultHTTPClient(),
		notifier: notifier,
		media:    media,
	}
}

func (c *FacebookClient) Publish(ctx context.Context, variant *model.ContentVariant, media model.PublishMedia) model.PublishResult {
	if c.cfg.PageID == "" || c.cfg.AccessToken == "" {
		return model.ErrorResult(model.PlatformFacebook, "Faltan credenciales")
	}

	text := variant.FullText()
	imageURL := media.ImageURL
	if imageURL == "" && variant.MediaURL != nil {
		imageURL = *variant.MediaURL
	}

	var (
		status int
		body   []byte
		err    error
		target string
	)
	switch {
	case imageURL == "":
		target = fmt.Sprintf("%s/%s/feed", c.baseURL, c.cfg.PageID)
		values := url.Values{}
		values.Set("message", text)
		values.Set("access_token", c.cfg.AccessToken)
		status, body, err = postForm(ctx, c.http, target, values)
	default:
		target = fmt.Sprintf("%s/%s/photos", c.baseURL, c.cfg.PageID)
		if localPath, ok := c.resolveLocal(imageURL); ok {
			status, body, err = c.uploadPhoto(ctx, target, localPath, text)
		} else {
			values := url.Values{}
			values.Set("url", imageURL)
			values.Set("caption", text)
			values.Set("access_token", c.cfg.AccessToken)
			status, body, err = postForm(ctx, c.http, target, values)
		}
	}
	if err != nil {
		return model.ErrorResult(model.PlatformFacebook, err.Error())
	}

	c.notifier.APICall(model.PlatformFacebook, target, status, body)

	var payload struct {
		ID     string `json:"id"`
		PostID string `json:"post_id"`
	}
	if status == http.StatusOK {
		if err := json.Unmarshal(body, &payload); err != nil {
			return model.ErrorResult(model.PlatformFacebook, err.Error())
		}
		postID := payload.ID
		if payload.PostID != "" {
			postID = payload.PostID
		}
		return model.SuccessResult(model.PlatformFacebook, postID, fmt.Sprintf("https://www.facebook.com/%s", postID))
	}
	return model.ErrorResult(model.PlatformFacebook, string(body))
}

func (c *FacebookClient) resolveLocal(imageURL string) (string, bool) {
	if c.media == nil {
		return "", false
	}
	return c.media.ResolveLocal(imageURL)
}

// uploadPhoto sends the image bytes as multipart form data in the Graph API
// "source" field.
func (c *FacebookClient) uploadPhoto(ctx context.Context, target, localPath, caption string) (int, []byte, error) {
	file, err := os.Open(localPath)
	if err != nil {
		return 0, nil, err
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("source", filepath.Base(localPath))
	if err != nil {
		return 0, nil, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return 0, nil, err
	}
	if err := writer.WriteField("caption", caption); err != nil {
		return 0, nil, err
	}
	if err := writer.WriteField("access_token", c.cfg.AccessToken); err != nil {
		return 0, nil, err
	}
	if err := writer.Close(); err != nil {
		return 0, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, &buf)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return do(c.http, req)
}
