package social

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-querystring/query"

	"social-publisher/domain/model"
	"social-publisher/infrastructure/configuration"
)

const (
	tiktokAuthorizeURL = "https://www.tiktok.com/v2/auth/authorize/"
	tiktokTokenURL     = "https://open.tiktokapis.com/v2/oauth/token/"
)

// TikTokOAuthClient drives the authorization-code-with-PKCE exchange against
// TikTok. TikTok renames the standard OAuth parameters (client_key instead of
// client_id), so the flow is implemented directly rather than through a
// generic OAuth library.
type TikTokOAuthClient struct {
	cfg          configuration.TikTok
	authorizeURL string
	tokenURL     string
	http         *http.Client
}

func NewTikTokOAuthClient(cfg configuration.TikTok) *TikTokOAuthClient {
	return &TikTokOAuthClient{
		cfg:          cfg,
		authorizeURL: tiktokAuthorizeURL,
		tokenURL:     tiktokTokenURL,
		http:         defaultHTTPClient(),
	}
}

type authorizeParams struct {
	ClientKey           string `url:"client_key"`
	Scope               string `url:"scope"`
	ResponseType        string `url:"response_type"`
	RedirectURI         string `url:"redirect_uri"`
	State               string `url:"state"`
	CodeChallenge       string `url:"code_challenge"`
	CodeChallengeMethod string `url:"code_challenge_method"`
}

// AuthorizeURL builds the browser redirect URL for the given state token and
// code challenge.
func (c *TikTokOAuthClient) AuthorizeURL(state, challenge string) (string, error) {
	if c.cfg.ClientKey == "" || c.cfg.RedirectURI == "" {
		return "", fmt.Errorf("tiktok oauth not configured: client key and redirect URI are required")
	}
	values, err := query.Values(authorizeParams{
		ClientKey:           c.cfg.ClientKey,
		Scope:               c.cfg.Scopes,
		ResponseType:        "code",
		RedirectURI:         c.cfg.RedirectURI,
		State:               state,
		CodeChallenge:       challenge,
		CodeChallengeMethod: "S256",
	})
	if err != nil {
		return "", err
	}
	return c.authorizeURL + "?" + values.Encode(), nil
}

// tokenResponse is the raw token endpoint payload. TikTok reports rejections
// in the error fields, sometimes with HTTP 200.
type tokenResponse struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	ExpiresIn        int64  `json:"expires_in"`
	OpenID           string `json:"open_id"`
	Scope            string `json:"scope"`
	TokenType        string `json:"token_type"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// ExchangeCode trades the authorization code plus the PKCE verifier for an
// access token.
func (c *TikTokOAuthClient) ExchangeCode(ctx context.Context, code, verifier string) (*model.OAuthToken, error) {
	values := url.Values{}
	values.Set("client_key", c.cfg.ClientKey)
	values.Set("client_secret", c.cfg.ClientSecret)
	values.Set("code", code)
	values.Set("grant_type", "authorization_code")
	values.Set("redirect_uri", c.cfg.RedirectURI)
	values.Set("code_verifier", verifier)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(values.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	status, body, err := do(c.http, req)
	if err != nil {
		return nil, err
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	if status != http.StatusOK || token.Error != "" || token.AccessToken == "" {
		if token.Error != "" {
			return nil, fmt.Errorf("tiktok token exchange rejected: %s: %s", token.Error, token.ErrorDescription)
		}
		return nil, fmt.Errorf("tiktok token exchange failed: %s", string(body))
	}
	return &model.OAuthToken{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresIn:    token.ExpiresIn,
		OpenID:       token.OpenID,
		Scope:        token.Scope,
	}, nil
}
