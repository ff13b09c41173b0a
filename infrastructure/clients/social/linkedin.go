package social

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"social-publisher/domain/model"
	"social-publisher/domain/repository"
	"social-publisher/infrastructure/configuration"
)

const linkedInBaseURL = "https://api.linkedin.com"

// LinkedInClient publishes a UGC post on behalf of the authenticated member.
// The member id is resolved dynamically from /v2/userinfo on every publish so
// the token is the only configuration needed.
type LinkedInClient struct {
	cfg      configuration.LinkedIn
	baseURL  string
	http     *http.Client
	notifier repository.INotifier
}

func NewLinkedInClient(cfg configuration.LinkedIn, notifier repository.INotifier) *LinkedInClient {
	return &LinkedInClient{
		cfg:      cfg,
		baseURL:  linkedInBaseURL,
		http:     defaultHTTPClient(),
		notifier: notifier,
	}
}

type ugcPost struct {
	Author          string                    `json:"author"`
	LifecycleState  string                    `json:"lifecycleState"`
	SpecificContent map[string]ugcShareDetail `json:"specificContent"`
	Visibility      map[string]string         `json:"visibility"`
}

type ugcShareDetail struct {
	ShareCommentary    ugcText `json:"shareCommentary"`
	ShareMediaCategory string  `json:"shareMediaCategory"`
}

type ugcText struct {
	Text string `json:"text"`
}

func (c *LinkedInClient) Publish(ctx context.Context, variant *model.ContentVariant, _ model.PublishMedia) model.PublishResult {
	if c.cfg.AccessToken == "" {
		return model.ErrorResult(model.PlatformLinkedIn, "Falta LINKEDIN_ACCESS_TOKEN")
	}

	// Phase 1: resolve the member id.
	userInfoURL := c.baseURL + "/v2/userinfo"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, userInfoURL, nil)
	if err != nil {
		return model.ErrorResult(model.PlatformLinkedIn, err.Error())
	}
	c.setHeaders(req)

	status, body, err := do(c.http, req)
	if err != nil {
		return model.ErrorResult(model.PlatformLinkedIn, err.Error())
	}
	c.notifier.APICall(model.PlatformLinkedIn, userInfoURL, status, body)
	if status != http.StatusOK {
		return model.StepErrorResult(model.PlatformLinkedIn, "1_user_info", string(body))
	}

	var userInfo struct {
		Sub string `json:"sub"`
	}
	if err := json.Unmarshal(body, &userInfo); err != nil {
		return model.StepErrorResult(model.PlatformLinkedIn, "1_user_info", err.Error())
	}

	// Phase 2: create the UGC post.
	post := ugcPost{
		Author:         "urn:li:person:" + userInfo.Sub,
		LifecycleState: "PUBLISHED",
		SpecificContent: map[string]ugcShareDetail{
			"com.linkedin.ugc.ShareContent": {
				ShareCommentary:    ugcText{Text: variant.FullText()},
				ShareMediaCategory: "NONE",
			},
		},
		Visibility: map[string]string{
			"com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC",
		},
	}
	payload, err := json.Marshal(post)
	if err != nil {
		return model.ErrorResult(model.PlatformLinkedIn, err.Error())
	}

	postURL := c.baseURL + "/v2/ugcPosts"
	req, err = http.NewRequestWithContext(ctx, http.MethodPost, postURL, bytes.NewReader(payload))
	if err != nil {
		return model.ErrorResult(model.PlatformLinkedIn, err.Error())
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	status, body, err = do(c.http, req)
	if err != nil {
		return model.ErrorResult(model.PlatformLinkedIn, err.Error())
	}
	c.notifier.APICall(model.PlatformLinkedIn, postURL, status, body)
	if status != http.StatusCreated {
		return model.StepErrorResult(model.PlatformLinkedIn, "2_publish", string(body))
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		return model.ErrorResult(model.PlatformLinkedIn, err.Error())
	}
	// The response carries no canonical post URL; the feed is the closest
	// stable destination.
	return model.SuccessResult(model.PlatformLinkedIn, created.ID, "https://www.linkedin.com/feed/")
}

func (c *LinkedInClient) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.cfg.AccessToken)
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")
}
