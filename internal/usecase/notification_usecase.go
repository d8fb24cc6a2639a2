package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"goodloop/internal/entity"
	"goodloop/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const (
	notificationTTL     = 30 * 24 * time.Hour
	notificationMaxKeep = 200
)

type NotificationUseCase interface {
	GetNotifications(userID string, limit, offset int) ([]entity.Notification, int64, error)
	HandleTask(task map[string]interface{}) error
}

type notificationUseCase struct {
	redisClient *redis.Client
	logger      *logger.Logger
}

func NewNotificationUseCase(redisClient *redis.Client, logger *logger.Logger) NotificationUseCase {
	return &notificationUseCase{
		redisClient: redisClient,
		logger:      logger,
	}
}

func notificationsKey(userID string) string {
	return fmt.Sprintf("notifications:%s", userID)
}

func (uc *notificationUseCase) GetNotifications(userID string, limit, offset int) ([]entity.Notification, int64, error) {
	ctx := context.Background()
	key := notificationsKey(userID)

	raw, err := uc.redisClient.LRange(ctx, key, int64(offset), int64(offset+limit-1)).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get notifications: %w", err)
	}

	var notifications []entity.Notification
	for _, item := range raw {
		var notification entity.Notification
		if err := json.Unmarshal([]byte(item), &notification); err == nil {
			notifications = append(notifications, notification)
		}
	}

	totalCount, _ := uc.redisClient.LLen(ctx, key).Result()

	return notifications, totalCount, nil
}

// HandleTask consumes one queued lifecycle event and stores it for the
// target user. Tasks without a user are dropped, not retried.
func (uc *notificationUseCase) HandleTask(task map[string]interface{}) error {
	userID, _ := task["user_id"].(string)
	if userID == "" {
		uc.logger.Warn("Dropping notification task without user_id")
		return nil
	}

	notification := entity.Notification{
		UserID:    userID,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	notification.Type, _ = task["type"].(string)
	notification.Title, _ = task["title"].(string)
	notification.Message, _ = task["message"].(string)
	if data, ok := task["data"].(map[string]interface{}); ok {
		notification.Data = data
	}

	payload, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	ctx := context.Background()
	key := notificationsKey(userID)

	if err := uc.redisClient.LPush(ctx, key, payload).Err(); err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}
	uc.redisClient.LTrim(ctx, key, 0, notificationMaxKeep-1)
	uc.redisClient.Expire(ctx, key, notificationTTL)

	uc.logger.Info("Stored %s notification for user %s", notification.Type, userID)
	return nil
}
