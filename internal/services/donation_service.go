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

// ErrDonationNotFound indicates the requested donation does not exist in the tenant.
var ErrDonationNotFound = errors.New("donation service: donation not found")

// CreateDonationInput captures the attributes required to record a donation.
type CreateDonationInput struct {
	DonorName     string
	DonorEmail    string
	Amount        float64
	DateReceived  *time.Time
	Method        string
	Purpose       string
	TaxDeductible bool
	Notes         string
}

// UpdateDonationInput represents mutable donation fields.
type UpdateDonationInput struct {
	DonorName     *string
	DonorEmail    *string
	Amount        *float64
	Method        *string
	Purpose       *string
	ReceiptIssued *bool
	Notes         *string
}

// DonationListFilters narrows donation queries by received date.
type DonationListFilters struct {
	From *time.Time
	To   *time.Time
}

// DonationService manages donation records within one tenant.
type DonationService struct {
	db       *gorm.DB
	activity *ActivityService
}

// NewDonationService constructs a DonationService instance.
func NewDonationService(db *gorm.DB, activity *ActivityService) (*DonationService, error) {
	if db == nil {
		return nil, errors.New("donation service: db is required")
	}
	return &DonationService{db: db, activity: activity}, nil
}

// List returns donations for an organization, newest received first.
func (s *DonationService) List(ctx context.Context, organizationID string, filters DonationListFilters) ([]models.Donation, error) {
	ctx = ensureContext(ctx)

	query := s.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("date_received DESC")

	if filters.From != nil {
		query = query.Where("date_received >= ?", *filters.From)
	}
	if filters.To != nil {
		query = query.Where("date_received <= ?", *filters.To)
	}

	var donations []models.Donation
	if err := query.Find(&donations).Error; err != nil {
		return nil, fmt.Errorf("donation service: list donations: %w", err)
	}
	return donations, nil
}

// Create records a new donation.
func (s *DonationService) Create(ctx context.Context, organizationID string, input CreateDonationInput) (*models.Donation, error) {
	ctx = ensureContext(ctx)

	name := strings.TrimSpace(input.DonorName)
	if name == "" {
		return nil, errors.New("donation service: donor name is required")
	}
	if input.Amount <= 0 {
		return nil, errors.New("donation service: amount must be positive")
	}

	received := input.DateReceived
	if received == nil {
		now := time.Now()
		received = &now
	}

	donation := &models.Donation{
		OrganizationID: organizationID,
		DonorName:      name,
		DonorEmail:     strings.TrimSpace(input.DonorEmail),
		Amount:         input.Amount,
		DateReceived:   received,
		Method:         strings.TrimSpace(input.Method),
		Purpose:        strings.TrimSpace(input.Purpose),
		TaxDeductible:  input.TaxDeductible,
		Notes:          input.Notes,
	}

	if err := s.db.WithContext(ctx).Create(donation).Error; err != nil {
		return nil, fmt.Errorf("donation service: create donation: %w", err)
	}

	recordActivity(s.activity, ctx, ActivityEntry{
		OrganizationID: organizationID,
		Action:         "created",
		ResourceType:   "donation",
		ResourceID:     donation.ID,
		Details:        map[string]any{"donor_name": name, "amount": input.Amount},
	})

	return donation, nil
}

// Update modifies an existing donation within the tenant.
func (s *DonationService) Update(ctx context.Context, organizationID, id string, input UpdateDonationInput) (*models.Donation, error) {
	ctx = ensureContext(ctx)

	donation, err := s.getScoped(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.DonorName != nil {
		if name := strings.TrimSpace(*input.DonorName); name != "" {
			updates["donor_name"] = name
		}
	}
	if input.DonorEmail != nil {
		updates["donor_email"] = strings.TrimSpace(*input.DonorEmail)
	}
	if input.Amount != nil && *input.Amount > 0 {
		updates["amount"] = *input.Amount
	}
	if input.Method != nil {
		updates["method"] = strings.TrimSpace(*input.Method)
	}
	if input.Purpose != nil {
		updates["purpose"] = strings.TrimSpace(*input.Purpose)
	}
	if input.ReceiptIssued != nil {
		updates["receipt_issued"] = *input.ReceiptIssued
		if *input.ReceiptIssued {
			updates["receipt_date"] = time.Now()
		}
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}

	if len(updates) == 0 {
		return donation, nil
	}

	if err := s.db.WithContext(ctx).Model(donation).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("donation service: update donation: %w", err)
	}
	return donation, nil
}

// Delete removes a donation from the tenant.
func (s *DonationService) Delete(ctx context.Context, organizationID, id string) error {
	ctx = ensureContext(ctx)

	donation, err := s.getScoped(ctx, organizationID, id)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(donation).Error; err != nil {
		return fmt.Errorf("donation service: delete donation: %w", err)
	}

	recordActivity(s.activity, ctx, ActivityEntry{
		OrganizationID: organizationID,
		Action:         "deleted",
		ResourceType:   "donation",
		ResourceID:     id,
	})
	return nil
}

// Total sums completed donation amounts for an organization.
func (s *DonationService) Total(ctx context.Context, organizationID string) (float64, error) {
	ctx = ensureContext(ctx)

	var total float64
	if err := s.db.WithContext(ctx).
		Model(&models.Donation{}).
		Where("organization_id = ?", organizationID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error; err != nil {
		return 0, fmt.Errorf("donation service: total donations: %w", err)
	}
	return total, nil
}

func (s *DonationService) getScoped(ctx context.Context, organizationID, id string) (*models.Donation, error) {
	var donation models.Donation
	err := s.db.WithContext(ctx).First(&donation, "id = ? AND organization_id = ?", id, organizationID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDonationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("donation service: load donation: %w", err)
	}
	return &donation, nil
}
