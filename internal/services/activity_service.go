package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/AiMagic5000/508-ministry-dashboard/internal/models"
)

// ActivityEntry captures a single tenant-scoped activity record to persist.
type ActivityEntry struct {
	OrganizationID string
	UserID         *string
	Action         string
	ResourceType   string
	ResourceID     string
	Details        map[string]any
}

// ActivityService appends and reads the per-tenant activity log.
type ActivityService struct {
	db *gorm.DB
}

// NewActivityService constructs an ActivityService using the provided database handle.
func NewActivityService(db *gorm.DB) (*ActivityService, error) {
	if db == nil {
		return nil, errors.New("activity service: db is required")
	}
	return &ActivityService{db: db}, nil
}

// Record stores an activity entry, marshalling details into JSON form.
func (s *ActivityService) Record(ctx context.Context, entry ActivityEntry) error {
	ctx = ensureContext(ctx)

	if strings.TrimSpace(entry.OrganizationID) == "" {
		return errors.New("activity service: organization id is required")
	}
	if strings.TrimSpace(entry.Action) == "" {
		return errors.New("activity service: action is required")
	}

	row := models.ActivityLogEntry{
		OrganizationID: entry.OrganizationID,
		Action:         strings.TrimSpace(entry.Action),
		ResourceType:   strings.TrimSpace(entry.ResourceType),
		ResourceID:     strings.TrimSpace(entry.ResourceID),
	}

	if entry.UserID != nil && strings.TrimSpace(*entry.UserID) != "" {
		id := strings.TrimSpace(*entry.UserID)
		row.UserID = &id
	}

	if entry.Details != nil {
		encoded, err := json.Marshal(entry.Details)
		if err != nil {
			return fmt.Errorf("activity service: marshal details: %w", err)
		}
		row.Details = datatypes.JSON(encoded)
	}

	return s.db.WithContext(ctx).Create(&row).Error
}

// List returns the most recent activity for an organization, newest first.
func (s *ActivityService) List(ctx context.Context, organizationID string, limit int) ([]models.ActivityLogEntry, error) {
	ctx = ensureContext(ctx)

	if limit <= 0 || limit > 200 {
		limit = 10
	}

	var entries []models.ActivityLogEntry
	if err := s.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("activity service: list entries: %w", err)
	}

	return entries, nil
}

// CleanupOlderThan removes activity entries older than the supplied retention window (in days).
func (s *ActivityService) CleanupOlderThan(ctx context.Context, retentionDays int) (int64, error) {
	ctx = ensureContext(ctx)

	if retentionDays <= 0 {
		return 0, errors.New("activity service: retentionDays must be positive")
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	result := s.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&models.ActivityLogEntry{})
	if result.Error != nil {
		return 0, fmt.Errorf("activity service: cleanup entries: %w", result.Error)
	}

	return result.RowsAffected, nil
}

// recordActivity appends the supplied entry while tolerating logging failures.
func recordActivity(activity *ActivityService, ctx context.Context, entry ActivityEntry) {
	if activity == nil {
		return
	}
	_ = activity.Record(ctx, entry)
}
