package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/AiMagic5000/508-ministry-dashboard/internal/models"
)

// ErrVolunteerNotFound indicates the requested volunteer does not exist in the tenant.
var ErrVolunteerNotFound = errors.New("volunteer service: volunteer not found")

// CreateVolunteerInput captures the attributes required to register a volunteer.
type CreateVolunteerInput struct {
	Name   string
	Email  string
	Phone  string
	Skills []string
}

// UpdateVolunteerInput represents mutable volunteer fields.
type UpdateVolunteerInput struct {
	Name   *string
	Email  *string
	Phone  *string
	Skills []string
	Status *string
}

// VolunteerService manages volunteer records within one tenant.
type VolunteerService struct {
	db       *gorm.DB
	activity *ActivityService
}

// NewVolunteerService constructs a VolunteerService instance.
func NewVolunteerService(db *gorm.DB, activity *ActivityService) (*VolunteerService, error) {
	if db == nil {
		return nil, errors.New("volunteer service: db is required")
	}
	return &VolunteerService{db: db, activity: activity}, nil
}

// List returns volunteers for an organization, optionally filtered by status.
func (s *VolunteerService) List(ctx context.Context, organizationID, status string) ([]models.Volunteer, error) {
	ctx = ensureContext(ctx)

	query := s.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("name ASC")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var volunteers []models.Volunteer
	if err := query.Find(&volunteers).Error; err != nil {
		return nil, fmt.Errorf("volunteer service: list volunteers: %w", err)
	}
	return volunteers, nil
}

// Create registers a new volunteer.
func (s *VolunteerService) Create(ctx context.Context, organizationID string, input CreateVolunteerInput) (*models.Volunteer, error) {
	ctx = ensureContext(ctx)

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errors.New("volunteer service: name is required")
	}

	skills, err := marshalSkills(input.Skills)
	if err != nil {
		return nil, err
	}

	volunteer := &models.Volunteer{
		OrganizationID: organizationID,
		Name:           name,
		Email:          strings.TrimSpace(input.Email),
		Phone:          strings.TrimSpace(input.Phone),
		Skills:         skills,
		Status:         models.VolunteerStatusActive,
	}

	if err := s.db.WithContext(ctx).Create(volunteer).Error; err != nil {
		return nil, fmt.Errorf("volunteer service: create volunteer: %w", err)
	}

	recordActivity(s.activity, ctx, ActivityEntry{
		OrganizationID: organizationID,
		Action:         "created",
		ResourceType:   "volunteer",
		ResourceID:     volunteer.ID,
		Details:        map[string]any{"name": name},
	})

	return volunteer, nil
}

// Update modifies an existing volunteer within the tenant.
func (s *VolunteerService) Update(ctx context.Context, organizationID, id string, input UpdateVolunteerInput) (*models.Volunteer, error) {
	ctx = ensureContext(ctx)

	volunteer, err := s.getScoped(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		if v := strings.TrimSpace(*input.Name); v != "" {
			updates["name"] = v
		}
	}
	if input.Email != nil {
		updates["email"] = strings.TrimSpace(*input.Email)
	}
	if input.Phone != nil {
		updates["phone"] = strings.TrimSpace(*input.Phone)
	}
	if input.Skills != nil {
		skills, err := marshalSkills(input.Skills)
		if err != nil {
			return nil, err
		}
		updates["skills"] = skills
	}
	if input.Status != nil {
		switch *input.Status {
		case models.VolunteerStatusActive, models.VolunteerStatusInactive:
			updates["status"] = *input.Status
		default:
			return nil, fmt.Errorf("volunteer service: invalid status %q", *input.Status)
		}
	}

	if len(updates) == 0 {
		return volunteer, nil
	}

	if err := s.db.WithContext(ctx).Model(volunteer).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("volunteer service: update volunteer: %w", err)
	}
	return volunteer, nil
}

// LogHours adds volunteered time to a volunteer's running total.
func (s *VolunteerService) LogHours(ctx context.Context, organizationID, id string, hours float64) (*models.Volunteer, error) {
	ctx = ensureContext(ctx)

	if hours <= 0 {
		return nil, errors.New("volunteer service: hours must be positive")
	}

	volunteer, err := s.getScoped(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(volunteer).
		Update("total_hours", gorm.Expr("total_hours + ?", hours)).Error; err != nil {
		return nil, fmt.Errorf("volunteer service: log hours: %w", err)
	}
	volunteer.TotalHours += hours

	recordActivity(s.activity, ctx, ActivityEntry{
		OrganizationID: organizationID,
		Action:         "logged_hours",
		ResourceType:   "volunteer",
		ResourceID:     id,
		Details:        map[string]any{"hours": hours},
	})

	return volunteer, nil
}

// Delete removes a volunteer from the tenant.
func (s *VolunteerService) Delete(ctx context.Context, organizationID, id string) error {
	ctx = ensureContext(ctx)

	volunteer, err := s.getScoped(ctx, organizationID, id)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(volunteer).Error; err != nil {
		return fmt.Errorf("volunteer service: delete volunteer: %w", err)
	}

	recordActivity(s.activity, ctx, ActivityEntry{
		OrganizationID: organizationID,
		Action:         "deleted",
		ResourceType:   "volunteer",
		ResourceID:     id,
	})
	return nil
}

func (s *VolunteerService) getScoped(ctx context.Context, organizationID, id string) (*models.Volunteer, error) {
	var volunteer models.Volunteer
	err := s.db.WithContext(ctx).First(&volunteer, "id = ? AND organization_id = ?", id, organizationID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrVolunteerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("volunteer service: load volunteer: %w", err)
	}
	return &volunteer, nil
}

func marshalSkills(skills []string) (datatypes.JSON, error) {
	if skills == nil {
		skills = []string{}
	}
	encoded, err := json.Marshal(skills)
	if err != nil {
		return nil, fmt.Errorf("volunteer service: marshal skills: %w", err)
	}
	return datatypes.JSON(encoded), nil
}
