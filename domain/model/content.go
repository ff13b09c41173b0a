package model

import (
	"strings"
	"time"
)

// Platform identifies a supported social network.
type Platform string

const (
	PlatformFacebook  Platform = "facebook"
	PlatformInstagram Platform = "instagram"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformTikTok    Platform = "tiktok"
	PlatformWhatsApp  Platform = "whatsapp"
)

// AllPlatforms returns the fixed set of supported platforms.
func AllPlatforms() []Platform {
	return []Platform{PlatformFacebook, PlatformInstagram, PlatformLinkedIn, PlatformTikTok, PlatformWhatsApp}
}

// Valid reports whether p belongs to the supported set.
func (p Platform) Valid() bool {
	switch p {
	case PlatformFacebook, PlatformInstagram, PlatformLinkedIn, PlatformTikTok, PlatformWhatsApp:
		return true
	}
	return false
}

// VariantState is the lifecycle state of a ContentVariant.
type VariantState string

const (
	StateDraft     VariantState = "draft"     // adapted but not yet published
	StatePublished VariantState = "published" // accepted by the platform API
	StateFailed    VariantState = "failed"    // last attempt failed
	StateManual    VariantState = "manual"    // operator must finish by hand
)

// SourceContent is the original title/body submitted by the operator.
// Immutable once created; deletion cascades to its variants.
type SourceContent struct {
	ID        int64             `json:"id"`
	Title     string            `json:"title"`
	Body      string            `json:"body"`
	CreatedAt time.Time         `json:"created_at"`
	Variants  []*ContentVariant `json:"variants,omitempty"`
}

// ContentVariant is one platform-specific adaptation of a SourceContent.
// Mutated only by the publication state machine.
type ContentVariant struct {
	ID           int64        `json:"id"`
	ContentID    int64        `json:"content_id"`
	Platform     Platform     `json:"platform"`
	AdaptedText  string       `json:"adapted_text"`
	Hashtags     []string     `json:"hashtags"`
	MediaURL     *string      `json:"media_url,omitempty"`
	State        VariantState `json:"state"`
	ExternalID   *string      `json:"external_id,omitempty"`
	PublishedURL *string      `json:"published_url,omitempty"`
	RetryCount   int          `json:"retry_count"`
	ErrorLog     *string      `json:"error_log,omitempty"`
	LastError    *string      `json:"last_error,omitempty"`
	PublishedAt  *time.Time   `json:"published_at,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// FullText is the text sent to the platform: the adapted body followed by the
// hashtag block.
func (v *ContentVariant) FullText() string {
	if len(v.Hashtags) == 0 {
		return v.AdaptedText
	}
	return v.AdaptedText + "\n\n" + strings.Join(v.Hashtags, " ")
}
