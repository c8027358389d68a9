package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/AiMagic5000/508-ministry-dashboard/internal/database/testutil"
	"github.com/AiMagic5000/508-ministry-dashboard/internal/models"
)

func TestDashboardStats(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	ctx := context.Background()

	activity, err := NewActivityService(db)
	require.NoError(t, err)
	compliance, err := NewComplianceService(db, activity)
	require.NoError(t, err)
	svc, err := NewDashboardService(db, compliance, activity)
	require.NoError(t, err)

	org := &models.Organization{ClerkOrgID: "org_dash", Name: "Dashboard Ministry"}
	require.NoError(t, db.Create(org).Error)
	other := &models.Organization{ClerkOrgID: "org_noise", Name: "Noise"}
	require.NoError(t, db.Create(other).Error)

	now := time.Now()
	require.NoError(t, db.Create(&models.Donation{OrganizationID: org.ID, DonorName: "A", Amount: 100, DateReceived: &now}).Error)
	require.NoError(t, db.Create(&models.Donation{OrganizationID: org.ID, DonorName: "B", Amount: 50, DateReceived: &now}).Error)
	// Data in another tenant must not leak into the stats.
	require.NoError(t, db.Create(&models.Donation{OrganizationID: other.ID, DonorName: "X", Amount: 999, DateReceived: &now}).Error)

	require.NoError(t, db.Create(&models.Trustee{OrganizationID: org.ID, FirstName: "T", LastName: "One", IsActive: true}).Error)
	require.NoError(t, db.Create(&models.Trustee{OrganizationID: org.ID, FirstName: "T", LastName: "Two", IsActive: false}).Error)

	require.NoError(t, db.Create(&models.Volunteer{OrganizationID: org.ID, Name: "V", Status: models.VolunteerStatusActive, TotalHours: 12.5}).Error)

	require.NoError(t, db.Create(&models.ComplianceItem{
		OrganizationID: org.ID, Title: "done", Status: models.ComplianceStatusCompleted, PointsValue: 25,
	}).Error)
	require.NoError(t, db.Create(&models.ComplianceItem{
		OrganizationID: org.ID, Title: "open", Status: models.ComplianceStatusPending, PointsValue: 15,
	}).Error)

	require.NoError(t, activity.Record(ctx, ActivityEntry{OrganizationID: org.ID, Action: "created", ResourceType: "donation"}))

	stats, err := svc.Stats(ctx, org.ID)
	require.NoError(t, err)

	require.InDelta(t, 150.0, stats.TotalDonations, 0.001)
	require.EqualValues(t, 2, stats.DonationCount)
	require.EqualValues(t, 1, stats.ActiveTrustees)
	require.EqualValues(t, 1, stats.ActiveVolunteers)
	require.InDelta(t, 12.5, stats.VolunteerHours, 0.001)
	require.Equal(t, 25, stats.Compliance.EarnedPoints)
	require.Equal(t, 40, stats.Compliance.AvailablePoints)
	require.Len(t, stats.RecentActivity, 1)
}
