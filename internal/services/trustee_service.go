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

// ErrTrusteeNotFound indicates the requested trustee does not exist in the tenant.
var ErrTrusteeNotFound = errors.New("trustee service: trustee not found")

// CreateTrusteeInput captures the attributes required to add a board member.
type CreateTrusteeInput struct {
	FirstName     string
	LastName      string
	Role          string
	Email         string
	Phone         string
	DateAppointed *time.Time
	TermExpires   *time.Time
	Credentials   string
}

// UpdateTrusteeInput represents mutable trustee fields.
type UpdateTrusteeInput struct {
	FirstName       *string
	LastName        *string
	Role            *string
	Email           *string
	Phone           *string
	TermExpires     *time.Time
	IsActive        *bool
	SignatureOnFile *bool
	Credentials     *string
}

// TrusteeService manages board member records within one tenant.
type TrusteeService struct {
	db       *gorm.DB
	activity *ActivityService
}

// NewTrusteeService constructs a TrusteeService instance.
func NewTrusteeService(db *gorm.DB, activity *ActivityService) (*TrusteeService, error) {
	if db == nil {
		return nil, errors.New("trustee service: db is required")
	}
	return &TrusteeService{db: db, activity: activity}, nil
}

// List returns trustees for an organization, active members first.
func (s *TrusteeService) List(ctx context.Context, organizationID string) ([]models.Trustee, error) {
	ctx = ensureContext(ctx)

	var trustees []models.Trustee
	if err := s.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("is_active DESC, last_name ASC").
		Find(&trustees).Error; err != nil {
		return nil, fmt.Errorf("trustee service: list trustees: %w", err)
	}
	return trustees, nil
}

// Create adds a new trustee to the board.
func (s *TrusteeService) Create(ctx context.Context, organizationID string, input CreateTrusteeInput) (*models.Trustee, error) {
	ctx = ensureContext(ctx)

	first := strings.TrimSpace(input.FirstName)
	last := strings.TrimSpace(input.LastName)
	if first == "" || last == "" {
		return nil, errors.New("trustee service: first and last name are required")
	}

	trustee := &models.Trustee{
		OrganizationID: organizationID,
		FirstName:      first,
		LastName:       last,
		Role:           strings.TrimSpace(input.Role),
		Email:          strings.TrimSpace(input.Email),
		Phone:          strings.TrimSpace(input.Phone),
		DateAppointed:  input.DateAppointed,
		TermExpires:    input.TermExpires,
		IsActive:       true,
		Credentials:    input.Credentials,
	}

	if err := s.db.WithContext(ctx).Create(trustee).Error; err != nil {
		return nil, fmt.Errorf("trustee service: create trustee: %w", err)
	}

	recordActivity(s.activity, ctx, ActivityEntry{
		OrganizationID: organizationID,
		Action:         "created",
		ResourceType:   "trustee",
		ResourceID:     trustee.ID,
		Details:        map[string]any{"name": first + " " + last, "role": trustee.Role},
	})

	return trustee, nil
}

// Update modifies an existing trustee within the tenant.
func (s *TrusteeService) Update(ctx context.Context, organizationID, id string, input UpdateTrusteeInput) (*models.Trustee, error) {
	ctx = ensureContext(ctx)

	trustee, err := s.getScoped(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.FirstName != nil {
		if v := strings.TrimSpace(*input.FirstName); v != "" {
			updates["first_name"] = v
		}
	}
	if input.LastName != nil {
		if v := strings.TrimSpace(*input.LastName); v != "" {
			updates["last_name"] = v
		}
	}
	if input.Role != nil {
		updates["role"] = strings.TrimSpace(*input.Role)
	}
	if input.Email != nil {
		updates["email"] = strings.TrimSpace(*input.Email)
	}
	if input.Phone != nil {
		updates["phone"] = strings.TrimSpace(*input.Phone)
	}
	if input.TermExpires != nil {
		updates["term_expires"] = *input.TermExpires
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if input.SignatureOnFile != nil {
		updates["signature_on_file"] = *input.SignatureOnFile
	}
	if input.Credentials != nil {
		updates["credentials"] = *input.Credentials
	}

	if len(updates) == 0 {
		return trustee, nil
	}

	if err := s.db.WithContext(ctx).Model(trustee).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("trustee service: update trustee: %w", err)
	}
	return trustee, nil
}

// Delete removes a trustee from the board.
func (s *TrusteeService) Delete(ctx context.Context, organizationID, id string) error {
	ctx = ensureContext(ctx)

	trustee, err := s.getScoped(ctx, organizationID, id)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(trustee).Error; err != nil {
		return fmt.Errorf("trustee service: delete trustee: %w", err)
	}

	recordActivity(s.activity, ctx, ActivityEntry{
		OrganizationID: organizationID,
		Action:         "deleted",
		ResourceType:   "trustee",
		ResourceID:     id,
	})
	return nil
}

func (s *TrusteeService) getScoped(ctx context.Context, organizationID, id string) (*models.Trustee, error) {
	var trustee models.Trustee
	err := s.db.WithContext(ctx).First(&trustee, "id = ? AND organization_id = ?", id, organizationID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTrusteeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("trustee service: load trustee: %w", err)
	}
	return &trustee, nil
}
