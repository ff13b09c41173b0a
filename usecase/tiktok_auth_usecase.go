package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"social-publisher/domain/model"
	"social-publisher/domain/repository"
	"social-publisher/infrastructure/logger"
	"social-publisher/infrastructure/utils"
)

// ErrUnknownState rejects a callback whose state token has no stored
// verifier: either forged, already used, or expired.
var ErrUnknownState = errors.New("unknown or expired authorization state")

// ITikTokOAuth is the provider-side half of the PKCE flow.
type ITikTokOAuth interface {
	AuthorizeURL(state, challenge string) (string, error)
	ExchangeCode(ctx context.Context, code, verifier string) (*model.OAuthToken, error)
}

// IVerifierStore holds PKCE verifiers between redirect and callback.
type IVerifierStore interface {
	Put(ctx context.Context, state, verifier string) error
	Take(ctx context.Context, state string) (string, bool)
}

// PKCEGenerator returns a fresh verifier/challenge pair.
type PKCEGenerator func() (verifier, challenge string, err error)

// StateGenerator returns a fresh anti-forgery state token.
type StateGenerator func() (string, error)

type ITikTokAuthUsecase interface {
	GenerateAuthorization(ctx context.Context) (string, error)
	ExchangeCode(ctx context.Context, state, code string) (*model.PlatformCredential, error)
	GetCredential(ctx context.Context) (*model.PlatformCredential, error)
}

type tiktokAuthUsecase struct {
	oauth       ITikTokOAuth
	verifiers   IVerifierStore
	credentials repository.ICredential
	newPKCE     PKCEGenerator
	newState    StateGenerator
}

func NewTikTokAuthUsecase(
	oauth ITikTokOAuth,
	verifiers IVerifierStore,
	credentials repository.ICredential,
	newPKCE PKCEGenerator,
	newState StateGenerator,
) ITikTokAuthUsecase {
	return &tiktokAuthUsecase{
		oauth:       oauth,
		verifiers:   verifiers,
		credentials: credentials,
		newPKCE:     newPKCE,
		newState:    newState,
	}
}

// GenerateAuthorization builds the browser redirect URL and stashes the PKCE
// verifier under the state token for the callback.
func (u *tiktokAuthUsecase) GenerateAuthorization(ctx context.Context) (string, error) {
	state, err := u.newState()
	if err != nil {
		return "", err
	}
	verifier, challenge, err := u.newPKCE()
	if err != nil {
		return "", err
	}

	authURL, err := u.oauth.AuthorizeURL(state, challenge)
	if err != nil {
		return "", err
	}
	if err := u.verifiers.Put(ctx, state, verifier); err != nil {
		return "", fmt.Errorf("store verifier: %w", err)
	}
	return authURL, nil
}

// ExchangeCode completes the flow: the verifier must still be present for
// the state or the exchange is rejected before any network call. On success
// the single TikTok credential row is replaced.
func (u *tiktokAuthUsecase) ExchangeCode(ctx context.Context, state, code string) (*model.PlatformCredential, error) {
	verifier, ok := u.verifiers.Take(ctx, state)
	if !ok {
		return nil, ErrUnknownState
	}

	token, err := u.oauth.ExchangeCode(ctx, code, verifier)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("TikTok token exchange failed")
		return nil, err
	}

	cred := &model.PlatformCredential{
		Platform:    model.PlatformTikTok,
		AccessToken: token.AccessToken,
	}
	if token.RefreshToken != "" {
		refresh := token.RefreshToken
		cred.RefreshToken = &refresh
	}
	if token.ExpiresIn > 0 {
		expires := utils.GetCurrentTime().Add(time.Duration(token.ExpiresIn) * time.Second)
		cred.ExpiresAt = &expires
	}
	if err := u.credentials.Upsert(ctx, cred); err != nil {
		return nil, fmt.Errorf("store credential: %w", err)
	}
	return cred, nil
}

func (u *tiktokAuthUsecase) GetCredential(ctx context.Context) (*model.PlatformCredential, error) {
	return u.credentials.GetByPlatform(ctx, model.PlatformTikTok)
}
