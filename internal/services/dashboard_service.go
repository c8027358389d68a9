package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/AiMagic5000/508-ministry-dashboard/internal/models"
)

// DashboardStats aggregates the headline figures shown on the dashboard.
type DashboardStats struct {
	TotalDonations   float64                   `json:"total_donations"`
	DonationCount    int64                     `json:"donation_count"`
	ActiveTrustees   int64                     `json:"active_trustees"`
	ActiveVolunteers int64                     `json:"active_volunteers"`
	VolunteerHours   float64                   `json:"volunteer_hours"`
	DocumentCount    int64                     `json:"document_count"`
	MeetingCount     int64                     `json:"meeting_count"`
	Compliance       ComplianceScore           `json:"compliance"`
	RecentActivity   []models.ActivityLogEntry `json:"recent_activity"`
}

// DashboardService assembles the tenant overview from the other services.
type DashboardService struct {
	db         *gorm.DB
	compliance *ComplianceService
	activity   *ActivityService
}

// NewDashboardService constructs a DashboardService instance.
func NewDashboardService(db *gorm.DB, compliance *ComplianceService, activity *ActivityService) (*DashboardService, error) {
	if db == nil {
		return nil, errors.New("dashboard service: db is required")
	}
	if compliance == nil || activity == nil {
		return nil, errors.New("dashboard service: compliance and activity services are required")
	}
	return &DashboardService{db: db, compliance: compliance, activity: activity}, nil
}

// Stats computes the dashboard overview for one organization.
func (s *DashboardService) Stats(ctx context.Context, organizationID string) (*DashboardStats, error) {
	ctx = ensureContext(ctx)

	stats := &DashboardStats{}

	row := s.db.WithContext(ctx).
		Model(&models.Donation{}).
		Where("organization_id = ?", organizationID).
		Select("COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Row()
	if err := row.Scan(&stats.TotalDonations, &stats.DonationCount); err != nil {
		return nil, fmt.Errorf("dashboard service: donation totals: %w", err)
	}

	if err := s.db.WithContext(ctx).
		Model(&models.Trustee{}).
		Where("organization_id = ? AND is_active = ?", organizationID, true).
		Count(&stats.ActiveTrustees).Error; err != nil {
		return nil, fmt.Errorf("dashboard service: count trustees: %w", err)
	}

	if err := s.db.WithContext(ctx).
		Model(&models.Volunteer{}).
		Where("organization_id = ? AND status = ?", organizationID, models.VolunteerStatusActive).
		Count(&stats.ActiveVolunteers).Error; err != nil {
		return nil, fmt.Errorf("dashboard service: count volunteers: %w", err)
	}

	if err := s.db.WithContext(ctx).
		Model(&models.Volunteer{}).
		Where("organization_id = ?", organizationID).
		Select("COALESCE(SUM(total_hours), 0)").
		Scan(&stats.VolunteerHours).Error; err != nil {
		return nil, fmt.Errorf("dashboard service: sum volunteer hours: %w", err)
	}

	if err := s.db.WithContext(ctx).
		Model(&models.Document{}).
		Where("organization_id = ?", organizationID).
		Count(&stats.DocumentCount).Error; err != nil {
		return nil, fmt.Errorf("dashboard service: count documents: %w", err)
	}

	if err := s.db.WithContext(ctx).
		Model(&models.Meeting{}).
		Where("organization_id = ?", organizationID).
		Count(&stats.MeetingCount).Error; err != nil {
		return nil, fmt.Errorf("dashboard service: count meetings: %w", err)
	}

	score, err := s.compliance.Score(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	stats.Compliance = *score

	recent, err := s.activity.List(ctx, organizationID, 10)
	if err != nil {
		return nil, err
	}
	stats.RecentActivity = recent

	return stats, nil
}
