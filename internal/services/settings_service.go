package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/AiMagic5000/508-ministry-dashboard/internal/models"
)

// Settings lookup failures.
var (
	ErrNotificationSettingsNotFound = errors.New("settings service: notification settings not found")
	ErrDashboardConfigNotFound      = errors.New("settings service: dashboard config not found")
)

// UpdateNotificationSettingsInput toggles per-user delivery preferences.
type UpdateNotificationSettingsInput struct {
	EmailNotifications  *bool
	ComplianceReminders *bool
	DonationReceipts    *bool
	WeeklyDigest        *bool
}

// UpdateDashboardConfigInput changes the tenant's dashboard header text.
type UpdateDashboardConfigInput struct {
	HeaderTitle    *string
	HeaderSubtitle *string
}

// SettingsService manages notification preferences and dashboard configuration.
// Both records are seeded by the provisioning workflow; this service only reads
// and updates them.
type SettingsService struct {
	db *gorm.DB
}

// NewSettingsService constructs a SettingsService instance.
func NewSettingsService(db *gorm.DB) (*SettingsService, error) {
	if db == nil {
		return nil, errors.New("settings service: db is required")
	}
	return &SettingsService{db: db}, nil
}

// NotificationSettings loads a user's delivery preferences.
func (s *SettingsService) NotificationSettings(ctx context.Context, userID string) (*models.NotificationSettings, error) {
	ctx = ensureContext(ctx)

	var settings models.NotificationSettings
	err := s.db.WithContext(ctx).First(&settings, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotificationSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("settings service: get notification settings: %w", err)
	}
	return &settings, nil
}

// UpdateNotificationSettings toggles the supplied preference flags.
func (s *SettingsService) UpdateNotificationSettings(ctx context.Context, userID string, input UpdateNotificationSettingsInput) (*models.NotificationSettings, error) {
	ctx = ensureContext(ctx)

	settings, err := s.NotificationSettings(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.EmailNotifications != nil {
		updates["email_notifications"] = *input.EmailNotifications
	}
	if input.ComplianceReminders != nil {
		updates["compliance_reminders"] = *input.ComplianceReminders
	}
	if input.DonationReceipts != nil {
		updates["donation_receipts"] = *input.DonationReceipts
	}
	if input.WeeklyDigest != nil {
		updates["weekly_digest"] = *input.WeeklyDigest
	}

	if len(updates) == 0 {
		return settings, nil
	}

	if err := s.db.WithContext(ctx).Model(settings).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("settings service: update notification settings: %w", err)
	}
	return settings, nil
}

// DashboardConfig loads the tenant's dashboard header configuration.
func (s *SettingsService) DashboardConfig(ctx context.Context, organizationID string) (*models.DashboardConfig, error) {
	ctx = ensureContext(ctx)

	var config models.DashboardConfig
	err := s.db.WithContext(ctx).First(&config, "organization_id = ?", organizationID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDashboardConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("settings service: get dashboard config: %w", err)
	}
	return &config, nil
}

// UpdateDashboardConfig changes the tenant's header text.
func (s *SettingsService) UpdateDashboardConfig(ctx context.Context, organizationID string, input UpdateDashboardConfigInput) (*models.DashboardConfig, error) {
	ctx = ensureContext(ctx)

	config, err := s.DashboardConfig(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.HeaderTitle != nil {
		if v := strings.TrimSpace(*input.HeaderTitle); v != "" {
			updates["header_title"] = v
		}
	}
	if input.HeaderSubtitle != nil {
		updates["header_subtitle"] = strings.TrimSpace(*input.HeaderSubtitle)
	}

	if len(updates) == 0 {
		return config, nil
	}

	if err := s.db.WithContext(ctx).Model(config).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("settings service: update dashboard config: %w", err)
	}
	return config, nil
}
