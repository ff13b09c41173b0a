package repository

import (
	"context"

	"social-publisher/domain/model"
)

// ICredential stores one token pair per platform.
type ICredential interface {
	// Upsert replaces the credential for the platform (idempotent replace,
	// never an append).
	Upsert(ctx context.Context, cred *model.PlatformCredential) error
	GetByPlatform(ctx context.Context, platform model.Platform) (*model.PlatformCredential, error)
}
