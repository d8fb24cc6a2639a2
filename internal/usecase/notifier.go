package usecase

import (
	"goodloop/pkg/logger"
)

// NotificationPublisher is satisfied by queue.Client. Publishing is
// fire-and-forget: no lifecycle operation waits on or retries it.
type NotificationPublisher interface {
	PublishNotificationTask(task map[string]interface{}) error
}

func publishNotification(publisher NotificationPublisher, log *logger.Logger, userID, notificationType, title, message string, data map[string]interface{}) {
	if publisher == nil {
		return
	}
	task := map[string]interface{}{
		"user_id": userID,
		"type":    notificationType,
		"title":   title,
		"message": message,
		"data":    data,
	}
	if err := publisher.PublishNotificationTask(task); err != nil {
		log.Warn("Failed to publish %s notification for %s: %v", notificationType, userID, err)
	}
}
