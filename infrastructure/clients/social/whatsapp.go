package social

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"social-publisher/domain/model"
	"social-publisher/domain/repository"
	"social-publisher/infrastructure/configuration"
)

const twilioBaseURL = "https://api.twilio.com"

// WhatsAppClient sends the variant text as a WhatsApp message through the
// Twilio messages API. The recipient number arrives per request; the caller
// validates its presence before dispatch.
type WhatsAppClient struct {
	cfg      configuration.WhatsApp
	baseURL  string
	http     *http.Client
	notifier repository.INotifier
}

func NewWhatsAppClient(cfg configuration.WhatsApp, notifier repository.INotifier) *WhatsAppClient {
	return &WhatsAppClient{
		cfg:      cfg,
		baseURL:  twilioBaseURL,
		http:     defaultHTTPClient(),
		notifier: notifier,
	}
}

func (c *WhatsAppClient) Publish(ctx context.Context, variant *model.ContentVariant, media model.PublishMedia) model.PublishResult {
	if c.cfg.AccountSID == "" || c.cfg.AuthToken == "" {
		return model.ErrorResult(model.PlatformWhatsApp, "Faltan credenciales")
	}

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.baseURL, c.cfg.AccountSID)
	values := url.Values{}
	values.Set("From", c.cfg.FromNumber)
	values.Set("To", "whatsapp:"+media.Recipient)
	values.Set("Body", variant.FullText())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(values.Encode()))
	if err != nil {
		return model.ErrorResult(model.PlatformWhatsApp, err.Error())
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.cfg.AccountSID, c.cfg.AuthToken)

	status, body, err := do(c.http, req)
	if err != nil {
		return model.ErrorResult(model.PlatformWhatsApp, err.Error())
	}
	c.notifier.APICall(model.PlatformWhatsApp, endpoint, status, body)

	if status == http.StatusOK || status == http.StatusCreated {
		var message struct {
			SID string `json:"sid"`
		}
		if err := json.Unmarshal(body, &message); err != nil {
			return model.ErrorResult(model.PlatformWhatsApp, err.Error())
		}
		// Twilio exposes no public URL for a delivered message.
		return model.SuccessResult(model.PlatformWhatsApp, message.SID, "")
	}
	return model.ErrorResult(model.PlatformWhatsApp, string(body))
}
