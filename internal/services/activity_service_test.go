package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/AiMagic5000/508-ministry-dashboard/internal/database/testutil"
	"github.com/AiMagic5000/508-ministry-dashboard/internal/models"
)

func TestActivityRecordAndList(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc, err := NewActivityService(db)
	require.NoError(t, err)
	ctx := context.Background()

	org := &models.Organization{ClerkOrgID: "org_act", Name: "Active Ministry"}
	require.NoError(t, db.Create(org).Error)

	require.NoError(t, svc.Record(ctx, ActivityEntry{
		OrganizationID: org.ID,
		Action:         "created",
		ResourceType:   "donation",
		ResourceID:     "don_1",
		Details:        map[string]any{"amount": 100.0},
	}))

	entries, err := svc.List(ctx, org.ID, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "created", entries[0].Action)

	var details map[string]any
	require.NoError(t, json.Unmarshal(entries[0].Details, &details))
	require.InDelta(t, 100.0, details["amount"], 0.001)
}

func TestActivityRecordValidation(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc, err := NewActivityService(db)
	require.NoError(t, err)
	ctx := context.Background()

	require.Error(t, svc.Record(ctx, ActivityEntry{Action: "created"}))
	require.Error(t, svc.Record(ctx, ActivityEntry{OrganizationID: "org"}))
}

func TestActivityCleanupOlderThan(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc, err := NewActivityService(db)
	require.NoError(t, err)
	ctx := context.Background()

	org := &models.Organization{ClerkOrgID: "org_act2", Name: "Old Ministry"}
	require.NoError(t, db.Create(org).Error)

	stale := models.ActivityLogEntry{OrganizationID: org.ID, Action: "created"}
	require.NoError(t, db.Create(&stale).Error)
	require.NoError(t, db.Model(&models.ActivityLogEntry{}).
		Where("id = ?", stale.ID).
		Update("created_at", time.Now().AddDate(0, 0, -100)).Error)

	require.NoError(t, svc.Record(ctx, ActivityEntry{OrganizationID: org.ID, Action: "updated"}))

	removed, err := svc.CleanupOlderThan(ctx, 90)
	require.NoError(t, err)
	require.EqualValues(t, 1, removed)

	_, err = svc.CleanupOlderThan(ctx, 0)
	require.Error(t, err)
}
