package http

import (
	"net/http"

	"goodloop/internal/usecase"
	"goodloop/pkg/logger"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationUseCase usecase.NotificationUseCase
	logger              *logger.Logger
}

func NewNotificationHandler(notificationUseCase usecase.NotificationUseCase, logger *logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationUseCase: notificationUseCase,
		logger:              logger,
	}
}

// GetNotifications godoc
// @Summary      Get my notifications
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Number of notifications"
// @Param        offset query int false "Offset"
// @Success      200  {object}  map[string]interface{}
// @Router       /notifications [get]
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	userID := c.GetString("user_id")
	limit, offset := paging(c)

	notifications, total, err := h.notificationUseCase.GetNotifications(userID, limit, offset)
	if err != nil {
		h.logger.Error("Failed to get notifications: %v", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"total":         total,
	})
}
