package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/AiMagic5000/508-ministry-dashboard/internal/models"
)

// ErrComplianceItemNotFound indicates the requested item does not exist in the tenant.
var ErrComplianceItemNotFound = errors.New("compliance service: item not found")

// CreateComplianceItemInput captures the attributes required to track an obligation.
type CreateComplianceItemInput struct {
	Title       string
	Description string
	Category    string
	Priority    string
	DueDate     *time.Time
	PointsValue int
}

// UpdateComplianceItemInput represents mutable compliance item fields.
type UpdateComplianceItemInput struct {
	Title       *string
	Description *string
	Category    *string
	Status      *string
	Priority    *string
	DueDate     *time.Time
	PointsValue *int
}

// ComplianceScore summarises checklist progress for one organization.
type ComplianceScore struct {
	EarnedPoints    int `json:"earned_points"`
	AvailablePoints int `json:"available_points"`
	CompletedItems  int `json:"completed_items"`
	TotalItems      int `json:"total_items"`
	OverdueItems    int `json:"overdue_items"`
}

// ComplianceService manages the per-tenant compliance checklist.
type ComplianceService struct {
	db       *gorm.DB
	activity *ActivityService
	now      func() time.Time
}

// NewComplianceService constructs a ComplianceService instance.
func NewComplianceService(db *gorm.DB, activity *ActivityService) (*ComplianceService, error) {
	if db == nil {
		return nil, errors.New("compliance service: db is required")
	}
	return &ComplianceService{db: db, activity: activity, now: time.Now}, nil
}

// List returns compliance items for an organization, optionally filtered by status.
func (s *ComplianceService) List(ctx context.Context, organizationID, status string) ([]models.ComplianceItem, error) {
	ctx = ensureContext(ctx)

	query := s.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("due_date ASC")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var items []models.ComplianceItem
	if err := query.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("compliance service: list items: %w", err)
	}
	return items, nil
}

// Create tracks a new compliance obligation.
func (s *ComplianceService) Create(ctx context.Context, organizationID string, input CreateComplianceItemInput) (*models.ComplianceItem, error) {
	ctx = ensureContext(ctx)

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, errors.New("compliance service: title is required")
	}

	item := &models.ComplianceItem{
		OrganizationID: organizationID,
		Title:          title,
		Description:    input.Description,
		Category:       strings.TrimSpace(input.Category),
		Status:         models.ComplianceStatusPending,
		Priority:       models.CompliancePriorityMedium,
		DueDate:        input.DueDate,
		PointsValue:    input.PointsValue,
	}
	if p := strings.TrimSpace(input.Priority); p != "" {
		item.Priority = p
	}

	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, fmt.Errorf("compliance service: create item: %w", err)
	}

	recordActivity(s.activity, ctx, ActivityEntry{
		OrganizationID: organizationID,
		Action:         "created",
		ResourceType:   "compliance_item",
		ResourceID:     item.ID,
		Details:        map[string]any{"title": title},
	})

	return item, nil
}

// Update modifies an existing compliance item. Setting the status to completed
// stamps the completion date; moving it back clears the stamp.
func (s *ComplianceService) Update(ctx context.Context, organizationID, id string, input UpdateComplianceItemInput) (*models.ComplianceItem, error) {
	ctx = ensureContext(ctx)

	item, err := s.getScoped(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Title != nil {
		if v := strings.TrimSpace(*input.Title); v != "" {
			updates["title"] = v
		}
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Category != nil {
		updates["category"] = strings.TrimSpace(*input.Category)
	}
	if input.Priority != nil {
		updates["priority"] = strings.TrimSpace(*input.Priority)
	}
	if input.DueDate != nil {
		updates["due_date"] = *input.DueDate
	}
	if input.PointsValue != nil {
		updates["points_value"] = *input.PointsValue
	}
	if input.Status != nil {
		status := strings.TrimSpace(*input.Status)
		switch status {
		case models.ComplianceStatusPending, models.ComplianceStatusInProgress,
			models.ComplianceStatusCompleted, models.ComplianceStatusOverdue:
		default:
			return nil, fmt.Errorf("compliance service: invalid status %q", status)
		}
		updates["status"] = status
		if status == models.ComplianceStatusCompleted {
			updates["completed_date"] = s.now()
		} else {
			updates["completed_date"] = nil
		}
	}

	if len(updates) == 0 {
		return item, nil
	}

	if err := s.db.WithContext(ctx).Model(item).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("compliance service: update item: %w", err)
	}

	if status, ok := updates["status"].(string); ok && status == models.ComplianceStatusCompleted {
		recordActivity(s.activity, ctx, ActivityEntry{
			OrganizationID: organizationID,
			Action:         "completed",
			ResourceType:   "compliance_item",
			ResourceID:     item.ID,
			Details:        map[string]any{"title": item.Title, "points_value": item.PointsValue},
		})
	}

	return item, nil
}

// Delete removes a compliance item from the tenant.
func (s *ComplianceService) Delete(ctx context.Context, organizationID, id string) error {
	ctx = ensureContext(ctx)

	item, err := s.getScoped(ctx, organizationID, id)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(item).Error; err != nil {
		return fmt.Errorf("compliance service: delete item: %w", err)
	}

	recordActivity(s.activity, ctx, ActivityEntry{
		OrganizationID: organizationID,
		Action:         "deleted",
		ResourceType:   "compliance_item",
		ResourceID:     id,
	})
	return nil
}

// Score tallies earned versus available points for an organization's checklist.
func (s *ComplianceService) Score(ctx context.Context, organizationID string) (*ComplianceScore, error) {
	ctx = ensureContext(ctx)

	items, err := s.List(ctx, organizationID, "")
	if err != nil {
		return nil, err
	}

	score := &ComplianceScore{TotalItems: len(items)}
	for _, item := range items {
		score.AvailablePoints += item.PointsValue
		switch item.Status {
		case models.ComplianceStatusCompleted:
			score.EarnedPoints += item.PointsValue
			score.CompletedItems++
		case models.ComplianceStatusOverdue:
			score.OverdueItems++
		}
	}
	return score, nil
}

// MarkOverdue flips pending and in-progress items whose due date has passed to
// overdue, across all tenants. Returns the number of rows changed.
func (s *ComplianceService) MarkOverdue(ctx context.Context) (int64, error) {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).
		Model(&models.ComplianceItem{}).
		Where("status IN ?", []string{models.ComplianceStatusPending, models.ComplianceStatusInProgress}).
		Where("due_date IS NOT NULL AND due_date < ?", s.now()).
		Update("status", models.ComplianceStatusOverdue)
	if result.Error != nil {
		return 0, fmt.Errorf("compliance service: mark overdue: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// DueForReminder returns items approaching their due date that have not had a
// reminder sent yet.
func (s *ComplianceService) DueForReminder(ctx context.Context, within time.Duration) ([]models.ComplianceItem, error) {
	ctx = ensureContext(ctx)

	deadline := s.now().Add(within)

	var items []models.ComplianceItem
	if err := s.db.WithContext(ctx).
		Where("status IN ?", []string{models.ComplianceStatusPending, models.ComplianceStatusInProgress}).
		Where("reminder_sent = ?", false).
		Where("due_date IS NOT NULL AND due_date <= ?", deadline).
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("compliance service: items due for reminder: %w", err)
	}
	return items, nil
}

// MarkReminderSent records that a reminder went out for the supplied item.
func (s *ComplianceService) MarkReminderSent(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)

	if err := s.db.WithContext(ctx).
		Model(&models.ComplianceItem{}).
		Where("id = ?", id).
		Update("reminder_sent", true).Error; err != nil {
		return fmt.Errorf("compliance service: mark reminder sent: %w", err)
	}
	return nil
}

func (s *ComplianceService) getScoped(ctx context.Context, organizationID, id string) (*models.ComplianceItem, error) {
	var item models.ComplianceItem
	err := s.db.WithContext(ctx).First(&item, "id = ? AND organization_id = ?", id, organizationID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrComplianceItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("compliance service: load item: %w", err)
	}
	return &item, nil
}
