package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/AiMagic5000/508-ministry-dashboard/internal/models"
)

// ErrOrganizationNotFound indicates the requested organization does not exist.
var ErrOrganizationNotFound = errors.New("organization service: organization not found")

// UpdateOrganizationInput represents mutable organization profile fields.
type UpdateOrganizationInput struct {
	Name  *string
	Email *string
}

// OrganizationService reads and updates tenant records. Creation is owned by
// the provisioning workflow exclusively.
type OrganizationService struct {
	db       *gorm.DB
	activity *ActivityService
}

// NewOrganizationService constructs an OrganizationService instance.
func NewOrganizationService(db *gorm.DB, activity *ActivityService) (*OrganizationService, error) {
	if db == nil {
		return nil, errors.New("organization service: db is required")
	}
	return &OrganizationService{db: db, activity: activity}, nil
}

// GetByID loads an organization by primary key.
func (s *OrganizationService) GetByID(ctx context.Context, id string) (*models.Organization, error) {
	ctx = ensureContext(ctx)

	var org models.Organization
	err := s.db.WithContext(ctx).First(&org, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrganizationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("organization service: get organization: %w", err)
	}
	return &org, nil
}

// Update modifies profile fields for an organization.
func (s *OrganizationService) Update(ctx context.Context, id string, input UpdateOrganizationInput) (*models.Organization, error) {
	ctx = ensureContext(ctx)

	org, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}

	if input.Name != nil {
		if name := strings.TrimSpace(*input.Name); name != "" && name != org.Name {
			updates["name"] = name
		}
	}
	if input.Email != nil {
		updates["email"] = strings.TrimSpace(*input.Email)
	}

	if len(updates) == 0 {
		return org, nil
	}

	if err := s.db.WithContext(ctx).Model(org).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("organization service: update organization: %w", err)
	}

	recordActivity(s.activity, ctx, ActivityEntry{
		OrganizationID: org.ID,
		Action:         "updated",
		ResourceType:   "organization",
		ResourceID:     org.ID,
		Details:        updates,
	})

	return org, nil
}
