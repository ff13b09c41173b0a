package repository

import (
	"context"

	"social-publisher/domain/model"
)

// IPublisher pushes one content variant to one external platform and
// normalizes the outcome. Implementations catch every internal failure and
// convert it into an error result; no error crosses this boundary.
type IPublisher interface {
	Publish(ctx context.Context, variant *model.ContentVariant, media model.PublishMedia) model.PublishResult
}

// INotifier records publish outcomes and external API calls.
type INotifier interface {
	Success(platform model.Platform, contentID int64, externalID string)
	Error(platform model.Platform, contentID int64, message string)
	ManualAction(platform model.Platform, contentID int64)
	APICall(platform model.Platform, endpoint string, statusCode int, body []byte)
}
