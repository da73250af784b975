package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/auth-gateway/internal/service"
)

// StartNotificationWorker attaches the notification subscribers to the event
// dispatcher. Delivery is synchronous within Publish, so there is no goroutine
// to supervise; this exists to keep side-effect wiring out of main.
func StartNotificationWorker(notifications *service.NotificationService, logger *zap.Logger) {
	if notifications == nil {
		return
	}
	notifications.RegisterHandlers()
	logger.Info("notification handlers registered")
}
