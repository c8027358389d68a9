package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/AiMagic5000/508-ministry-dashboard/internal/services"
	appErrors "github.com/AiMagic5000/508-ministry-dashboard/pkg/errors"
	"github.com/AiMagic5000/508-ministry-dashboard/pkg/response"
)

type NotificationHandler struct {
	svc *services.NotificationService
}

func NewNotificationHandler(db *gorm.DB) (*NotificationHandler, error) {
	svc, err := services.NewNotificationService(db)
	if err != nil {
		return nil, err
	}
	return &NotificationHandler{svc: svc}, nil
}

type createNotificationRequest struct {
	NotificationType string `json:"notification_type" validate:"omitempty,oneof=reminder alert update achievement"`
	Title            string `json:"title" validate:"required,min=1,max=256"`
	Message          string `json:"message" validate:"omitempty,max=1024"`
	ActionURL        string `json:"action_url" validate:"omitempty,max=512"`
	Priority         string `json:"priority" validate:"omitempty,oneof=low medium high"`
}

// GET /api/notifications
func (h *NotificationHandler) List(c *gin.Context) {
	unreadOnly := c.Query("unread") == "true"
	notifications, err := h.svc.List(requestContext(c), tenantID(c), unreadOnly)
	if err != nil {
		response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
		return
	}
	response.Success(c, http.StatusOK, notifications)
}

// POST /api/notifications
func (h *NotificationHandler) Create(c *gin.Context) {
	var body createNotificationRequest
	if !bindAndValidate(c, &body) {
		return
	}

	notification, err := h.svc.Create(requestContext(c), tenantID(c), services.CreateNotificationInput{
		NotificationType: body.NotificationType,
		Title:            body.Title,
		Message:          body.Message,
		ActionURL:        body.ActionURL,
		Priority:         body.Priority,
	})
	if err != nil {
		response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
		return
	}
	response.Success(c, http.StatusCreated, notification)
}

// POST /api/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.svc.MarkRead(requestContext(c), tenantID(c), c.Param("id")); err != nil {
		if errors.Is(err, services.ErrNotificationNotFound) {
			response.Error(c, appErrors.ErrNotFound)
			return
		}
		response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
		return
	}
	response.Success(c, http.StatusOK, gin.H{"read": true})
}

// POST /api/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	count, err := h.svc.MarkAllRead(requestContext(c), tenantID(c))
	if err != nil {
		response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
		return
	}
	response.Success(c, http.StatusOK, gin.H{"marked_read": count})
}
