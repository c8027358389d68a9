package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/AiMagic5000/508-ministry-dashboard/internal/models"
)

// ErrNotificationNotFound indicates the requested notification does not exist in the tenant.
var ErrNotificationNotFound = errors.New("notification service: notification not found")

// CreateNotificationInput captures the attributes of an in-app message.
type CreateNotificationInput struct {
	NotificationType string
	Title            string
	Message          string
	ActionURL        string
	Priority         string
}

// NotificationService manages the in-app notification feed for each tenant.
type NotificationService struct {
	db *gorm.DB
}

// NewNotificationService constructs a NotificationService instance.
func NewNotificationService(db *gorm.DB) (*NotificationService, error) {
	if db == nil {
		return nil, errors.New("notification service: db is required")
	}
	return &NotificationService{db: db}, nil
}

// List returns notifications for an organization, newest first. When
// unreadOnly is set, read notifications are excluded.
func (s *NotificationService) List(ctx context.Context, organizationID string, unreadOnly bool) ([]models.Notification, error) {
	ctx = ensureContext(ctx)

	query := s.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("created_at DESC")
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var notifications []models.Notification
	if err := query.Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("notification service: list notifications: %w", err)
	}
	return notifications, nil
}

// Create publishes a notification to an organization's feed.
func (s *NotificationService) Create(ctx context.Context, organizationID string, input CreateNotificationInput) (*models.Notification, error) {
	ctx = ensureContext(ctx)

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, errors.New("notification service: title is required")
	}

	notificationType := strings.TrimSpace(input.NotificationType)
	if notificationType == "" {
		notificationType = models.NotificationTypeUpdate
	}
	priority := strings.TrimSpace(input.Priority)
	if priority == "" {
		priority = "medium"
	}

	notification := &models.Notification{
		OrganizationID:   organizationID,
		NotificationType: notificationType,
		Title:            title,
		Message:          input.Message,
		ActionURL:        strings.TrimSpace(input.ActionURL),
		Priority:         priority,
	}

	if err := s.db.WithContext(ctx).Create(notification).Error; err != nil {
		return nil, fmt.Errorf("notification service: create notification: %w", err)
	}
	return notification, nil
}

// MarkRead flags a single notification as read.
func (s *NotificationService) MarkRead(ctx context.Context, organizationID, id string) error {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND organization_id = ?", id, organizationID).
		Update("is_read", true)
	if result.Error != nil {
		return fmt.Errorf("notification service: mark read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead flags every unread notification in the organization as read.
func (s *NotificationService) MarkAllRead(ctx context.Context, organizationID string) (int64, error) {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("organization_id = ? AND is_read = ?", organizationID, false).
		Update("is_read", true)
	if result.Error != nil {
		return 0, fmt.Errorf("notification service: mark all read: %w", result.Error)
	}
	return result.RowsAffected, nil
}
