package model

import "time"

// PlatformCredential stores the token pair for one platform.
// At most one row per platform; written only by the OAuth flow.
type PlatformCredential struct {
	ID           int64      `json:"id"`
	Platform     Platform   `json:"platform"`
	AccessToken  string     `json:"access_token"`
	RefreshToken *string    `json:"refresh_token,omitempty"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
