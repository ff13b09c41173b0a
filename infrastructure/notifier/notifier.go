package notifier

import (
	"github.com/sirupsen/logrus"

	"social-publisher/domain/model"
	"social-publisher/infrastructure/logger"
)

// LogNotifier reports publication outcomes through the application logger.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Success(platform model.Platform, contentID int64, externalID string) {
	logger.GetLogger().WithFields(logrus.Fields{
		"platform":    platform,
		"content_id":  contentID,
		"external_id": externalID,
	}).Info("Publicacion exitosa")
}

func (n *LogNotifier) Error(platform model.Platform, contentID int64, message string) {
	logger.GetLogger().WithFields(logrus.Fields{
		"platform":   platform,
		"content_id": contentID,
		"message":    message,
	}).Error("Error de publicacion")
}

func (n *LogNotifier) ManualAction(platform model.Platform, contentID int64) {
	logger.GetLogger().WithFields(logrus.Fields{
		"platform":   platform,
		"content_id": contentID,
	}).Warn("Se requiere accion manual")
}

// APICall records the outcome of an outbound platform request. Bodies are
// truncated so a large HTML error page does not flood the log.
func (n *LogNotifier) APICall(platform model.Platform, endpoint string, statusCode int, body []byte) {
	if len(body) > 200 {
		body = body[:200]
	}
	entry := logger.GetLogger().WithFields(logrus.Fields{
		"platform":    platform,
		"endpoint":    endpoint,
		"status_code": statusCode,
		"body":        string(body),
	})
	if statusCode >= 400 {
		entry.Error("Llamada a API externa fallida")
		return
	}
	entry.Info("Llamada a API externa")
}
