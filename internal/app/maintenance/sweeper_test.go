package maintenance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/AiMagic5000/508-ministry-dashboard/internal/database/testutil"
	"github.com/AiMagic5000/508-ministry-dashboard/internal/models"
)

func seedTenant(t *testing.T, db *gorm.DB) *models.Organization {
	t.Helper()
	org := &models.Organization{ClerkOrgID: "org_sweep", Name: "Sweep Ministry"}
	require.NoError(t, db.Create(org).Error)
	return org
}

func TestSweeperMarksOverdueAndSendsReminders(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	org := seedTenant(t, db)

	past := time.Now().Add(-24 * time.Hour)
	soon := time.Now().Add(24 * time.Hour)
	far := time.Now().Add(30 * 24 * time.Hour)

	require.NoError(t, db.Create(&models.ComplianceItem{
		OrganizationID: org.ID, Title: "expired", Status: models.ComplianceStatusPending, DueDate: &past,
	}).Error)
	require.NoError(t, db.Create(&models.ComplianceItem{
		OrganizationID: org.ID, Title: "due soon", Status: models.ComplianceStatusPending,
		Priority: models.CompliancePriorityHigh, DueDate: &soon,
	}).Error)
	require.NoError(t, db.Create(&models.ComplianceItem{
		OrganizationID: org.ID, Title: "distant", Status: models.ComplianceStatusPending, DueDate: &far,
	}).Error)

	sweeper, err := NewSweeper(db, WithReminderWindow(3*24*time.Hour))
	require.NoError(t, err)

	require.NoError(t, sweeper.RunOnce(context.Background()))

	var overdue models.ComplianceItem
	require.NoError(t, db.First(&overdue, "title = ?", "expired").Error)
	require.Equal(t, models.ComplianceStatusOverdue, overdue.Status)

	// The overdue item itself is inside the reminder window too, but once it
	// flips to overdue it is no longer pending; only "due soon" gets a note.
	var notifications []models.Notification
	require.NoError(t, db.Where("organization_id = ?", org.ID).Find(&notifications).Error)
	require.Len(t, notifications, 1)
	require.Equal(t, models.NotificationTypeReminder, notifications[0].NotificationType)
	require.Contains(t, notifications[0].Title, "due soon")

	var reminded models.ComplianceItem
	require.NoError(t, db.First(&reminded, "title = ?", "due soon").Error)
	require.True(t, reminded.ReminderSent)
}

func TestSweeperDoesNotRemindTwice(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	org := seedTenant(t, db)

	soon := time.Now().Add(24 * time.Hour)
	require.NoError(t, db.Create(&models.ComplianceItem{
		OrganizationID: org.ID, Title: "due soon", Status: models.ComplianceStatusPending, DueDate: &soon,
	}).Error)

	sweeper, err := NewSweeper(db, WithReminderWindow(3*24*time.Hour))
	require.NoError(t, err)

	require.NoError(t, sweeper.RunOnce(context.Background()))
	require.NoError(t, sweeper.RunOnce(context.Background()))

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestSweeperPrunesOldActivity(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	org := seedTenant(t, db)

	old := models.ActivityLogEntry{OrganizationID: org.ID, Action: "created", ResourceType: "donation"}
	require.NoError(t, db.Create(&old).Error)
	require.NoError(t, db.Model(&models.ActivityLogEntry{}).
		Where("id = ?", old.ID).
		Update("created_at", time.Now().AddDate(0, 0, -400)).Error)

	recent := models.ActivityLogEntry{OrganizationID: org.ID, Action: "created", ResourceType: "meeting"}
	require.NoError(t, db.Create(&recent).Error)

	sweeper, err := NewSweeper(db, WithActivityRetentionDays(365))
	require.NoError(t, err)
	require.NoError(t, sweeper.RunOnce(context.Background()))

	var count int64
	require.NoError(t, db.Model(&models.ActivityLogEntry{}).Count(&count).Error)
	require.EqualValues(t, 1, count)

	var survivor models.ActivityLogEntry
	require.NoError(t, db.First(&survivor).Error)
	require.Equal(t, recent.ID, survivor.ID)
}
