package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/AiMagic5000/508-ministry-dashboard/internal/clerk"
	"github.com/AiMagic5000/508-ministry-dashboard/internal/database/testutil"
	"github.com/AiMagic5000/508-ministry-dashboard/internal/models"
)

func newProvisioningService(t *testing.T, now func() time.Time) (*ProvisioningService, *gorm.DB) {
	t.Helper()

	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	activity, err := NewActivityService(db)
	require.NoError(t, err)

	opts := []ProvisioningOption{}
	if now != nil {
		opts = append(opts, WithClock(now))
	}
	svc, err := NewProvisioningService(db, activity, opts...)
	require.NoError(t, err)
	return svc, db
}

func soloSignupEvent(userID, firstName, lastName, email string) clerk.Event {
	return clerk.Event{
		Type: clerk.EventUserCreated,
		User: &clerk.UserData{
			ID:                    userID,
			FirstName:             firstName,
			LastName:              lastName,
			PrimaryEmailAddressID: "idn_1",
			EmailAddresses: []clerk.EmailAddress{
				{ID: "idn_1", EmailAddress: email},
			},
		},
	}
}

func TestHandleUserCreatedSoloSignup(t *testing.T) {
	frozen := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, db := newProvisioningService(t, func() time.Time { return frozen })
	ctx := context.Background()

	require.NoError(t, svc.HandleEvent(ctx, soloSignupEvent("user_123", "Jane", "Doe", "jane@example.com")))

	var org models.Organization
	require.NoError(t, db.First(&org, "clerk_org_id = ?", "org_user_123").Error)
	require.Equal(t, "Jane Doe's Ministry", org.Name)
	require.Equal(t, "jane@example.com", org.Email)
	require.Equal(t, models.SubscriptionTierTrial, org.SubscriptionTier)
	require.Equal(t, models.SubscriptionStatusActive, org.SubscriptionStatus)
	require.NotNil(t, org.TrialEndsAt)
	require.WithinDuration(t, frozen.Add(14*24*time.Hour), *org.TrialEndsAt, time.Second)

	var user models.User
	require.NoError(t, db.First(&user, "clerk_user_id = ?", "user_123").Error)
	require.Equal(t, org.ID, user.OrganizationID)
	require.Equal(t, models.RoleOwner, user.Role)
	require.True(t, user.IsActive)
	require.Equal(t, "jane@example.com", user.Email)
	require.Equal(t, "Jane Doe", user.FullName)

	var cfg models.DashboardConfig
	require.NoError(t, db.First(&cfg, "organization_id = ?", org.ID).Error)
	require.Equal(t, "Welcome to Jane's Ministry Dashboard", cfg.HeaderTitle)
	require.Equal(t, "Managing your 508(c)(1)(A) ministry with transparency", cfg.HeaderSubtitle)

	var settings models.NotificationSettings
	require.NoError(t, db.First(&settings, "user_id = ?", user.ID).Error)
	require.True(t, settings.EmailNotifications)
	require.True(t, settings.ComplianceReminders)
	require.True(t, settings.DonationReceipts)
	require.True(t, settings.WeeklyDigest)

	var items []models.ComplianceItem
	require.NoError(t, db.Where("organization_id = ?", org.ID).Order("points_value DESC").Find(&items).Error)
	require.Len(t, items, 3)
	require.Equal(t, []int{25, 20, 15}, []int{items[0].PointsValue, items[1].PointsValue, items[2].PointsValue})
	require.Equal(t, "Set up Board of Trustees", items[0].Title)
	require.NotNil(t, items[0].DueDate)
	require.WithinDuration(t, frozen.Add(7*24*time.Hour), *items[0].DueDate, time.Second)
	for _, item := range items {
		require.Equal(t, models.ComplianceStatusPending, item.Status)
		require.False(t, item.ReminderSent)
	}

	var entries []models.ActivityLogEntry
	require.NoError(t, db.Where("organization_id = ?", org.ID).Find(&entries).Error)
	require.Len(t, entries, 1)
	require.Equal(t, "created", entries[0].Action)
	require.Equal(t, "user", entries[0].ResourceType)
}

func TestHandleUserCreatedRedeliveryIsIdempotent(t *testing.T) {
	svc, db := newProvisioningService(t, nil)
	ctx := context.Background()

	evt := soloSignupEvent("user_dup", "Sam", "Lee", "sam@example.com")
	require.NoError(t, svc.HandleEvent(ctx, evt))
	require.NoError(t, svc.HandleEvent(ctx, evt))

	var orgCount, userCount, itemCount, entryCount int64
	require.NoError(t, db.Model(&models.Organization{}).Count(&orgCount).Error)
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	require.NoError(t, db.Model(&models.ComplianceItem{}).Count(&itemCount).Error)
	require.NoError(t, db.Model(&models.ActivityLogEntry{}).Count(&entryCount).Error)

	require.EqualValues(t, 1, orgCount)
	require.EqualValues(t, 1, userCount)
	require.EqualValues(t, 3, itemCount)
	// The activity log is append-only; every delivery leaves a record.
	require.EqualValues(t, 2, entryCount)
}

func TestHandleUserCreatedInvitedIntoExistingOrganization(t *testing.T) {
	svc, db := newProvisioningService(t, nil)
	ctx := context.Background()

	org := models.Organization{
		ClerkOrgID:         "org_abc",
		Name:               "Grace Chapel",
		SubscriptionTier:   models.SubscriptionTierTrial,
		SubscriptionStatus: models.SubscriptionStatusActive,
	}
	require.NoError(t, db.Create(&org).Error)

	evt := clerk.Event{
		Type: clerk.EventUserCreated,
		User: &clerk.UserData{
			ID:                    "user_inv",
			FirstName:             "Alex",
			LastName:              "Kim",
			PrimaryEmailAddressID: "idn_1",
			EmailAddresses:        []clerk.EmailAddress{{ID: "idn_1", EmailAddress: "alex@example.com"}},
			OrganizationMemberships: []clerk.OrganizationMembership{
				{Organization: clerk.OrganizationRef{ID: "org_abc"}},
			},
		},
	}
	require.NoError(t, svc.HandleEvent(ctx, evt))

	var user models.User
	require.NoError(t, db.First(&user, "clerk_user_id = ?", "user_inv").Error)
	require.Equal(t, org.ID, user.OrganizationID)
	require.Equal(t, models.RoleMember, user.Role)

	// Joining an existing tenant must not seed another checklist.
	var itemCount int64
	require.NoError(t, db.Model(&models.ComplianceItem{}).Count(&itemCount).Error)
	require.Zero(t, itemCount)
}

func TestHandleUserCreatedUnknownOrganizationFails(t *testing.T) {
	svc, _ := newProvisioningService(t, nil)

	evt := clerk.Event{
		Type: clerk.EventUserCreated,
		User: &clerk.UserData{
			ID: "user_orphan",
			OrganizationMemberships: []clerk.OrganizationMembership{
				{Organization: clerk.OrganizationRef{ID: "org_missing"}},
			},
		},
	}
	err := svc.HandleEvent(context.Background(), evt)
	require.ErrorIs(t, err, ErrOrganizationNotProvisioned)
}

func TestHandleOrganizationCreated(t *testing.T) {
	svc, db := newProvisioningService(t, nil)
	ctx := context.Background()

	evt := clerk.Event{
		Type:         clerk.EventOrganizationCreated,
		Organization: &clerk.OrganizationData{ID: "org_team", Name: "Hope Ministry"},
	}
	require.NoError(t, svc.HandleEvent(ctx, evt))

	var org models.Organization
	require.NoError(t, db.First(&org, "clerk_org_id = ?", "org_team").Error)
	require.Equal(t, "Hope Ministry", org.Name)
	require.Equal(t, models.SubscriptionTierTrial, org.SubscriptionTier)

	var cfg models.DashboardConfig
	require.NoError(t, db.First(&cfg, "organization_id = ?", org.ID).Error)
	require.Equal(t, "Welcome to Hope Ministry Dashboard", cfg.HeaderTitle)

	// Organization events seed the dashboard config only.
	var itemCount int64
	require.NoError(t, db.Model(&models.ComplianceItem{}).Count(&itemCount).Error)
	require.Zero(t, itemCount)

	// Redelivery converges on the same tenant.
	require.NoError(t, svc.HandleEvent(ctx, evt))
	var orgCount int64
	require.NoError(t, db.Model(&models.Organization{}).Count(&orgCount).Error)
	require.EqualValues(t, 1, orgCount)
}

func TestHandleMembershipCreatedNewMember(t *testing.T) {
	svc, db := newProvisioningService(t, nil)
	ctx := context.Background()

	org := models.Organization{ClerkOrgID: "org_m", Name: "Faith House"}
	require.NoError(t, db.Create(&org).Error)

	evt := clerk.Event{
		Type: clerk.EventMembershipCreated,
		Membership: &clerk.MembershipData{
			Organization: clerk.OrganizationRef{ID: "org_m"},
			PublicUserData: clerk.PublicUserData{
				UserID:     "user_member",
				Identifier: "pat@example.com",
				FirstName:  "Pat",
				LastName:   "Ng",
			},
		},
	}
	require.NoError(t, svc.HandleEvent(ctx, evt))

	var user models.User
	require.NoError(t, db.First(&user, "clerk_user_id = ?", "user_member").Error)
	require.Equal(t, org.ID, user.OrganizationID)
	require.Equal(t, models.RoleMember, user.Role)
	require.Equal(t, "pat@example.com", user.Email)

	var settings models.NotificationSettings
	require.NoError(t, db.First(&settings, "user_id = ?", user.ID).Error)
	require.True(t, settings.WeeklyDigest)
}

func TestHandleMembershipCreatedRelinksExistingUser(t *testing.T) {
	svc, db := newProvisioningService(t, nil)
	ctx := context.Background()

	// A solo signup creates the user under a synthesized tenant.
	require.NoError(t, svc.HandleEvent(ctx, soloSignupEvent("user_move", "Ria", "Cruz", "ria@example.com")))

	org := models.Organization{ClerkOrgID: "org_target", Name: "New Home"}
	require.NoError(t, db.Create(&org).Error)

	evt := clerk.Event{
		Type: clerk.EventMembershipCreated,
		Membership: &clerk.MembershipData{
			Organization:   clerk.OrganizationRef{ID: "org_target"},
			PublicUserData: clerk.PublicUserData{UserID: "user_move", Identifier: "ria@example.com"},
		},
	}
	require.NoError(t, svc.HandleEvent(ctx, evt))

	var user models.User
	require.NoError(t, db.First(&user, "clerk_user_id = ?", "user_move").Error)
	require.Equal(t, org.ID, user.OrganizationID)
	// Role and settings are untouched by a relink.
	require.Equal(t, models.RoleOwner, user.Role)

	var settingsCount int64
	require.NoError(t, db.Model(&models.NotificationSettings{}).Count(&settingsCount).Error)
	require.EqualValues(t, 1, settingsCount)
}

func TestHandleMembershipCreatedUnknownOrganizationFails(t *testing.T) {
	svc, _ := newProvisioningService(t, nil)

	evt := clerk.Event{
		Type: clerk.EventMembershipCreated,
		Membership: &clerk.MembershipData{
			Organization:   clerk.OrganizationRef{ID: "org_nowhere"},
			PublicUserData: clerk.PublicUserData{UserID: "user_x"},
		},
	}
	err := svc.HandleEvent(context.Background(), evt)
	require.ErrorIs(t, err, ErrOrganizationNotProvisioned)
}

func TestHandleUserUpdated(t *testing.T) {
	svc, db := newProvisioningService(t, nil)
	ctx := context.Background()

	require.NoError(t, svc.HandleEvent(ctx, soloSignupEvent("user_upd", "Old", "Name", "old@example.com")))

	evt := clerk.Event{
		Type: clerk.EventUserUpdated,
		User: &clerk.UserData{
			ID:                    "user_upd",
			FirstName:             "New",
			LastName:              "Name",
			PrimaryEmailAddressID: "idn_2",
			EmailAddresses:        []clerk.EmailAddress{{ID: "idn_2", EmailAddress: "new@example.com"}},
		},
	}
	require.NoError(t, svc.HandleEvent(ctx, evt))

	var user models.User
	require.NoError(t, db.First(&user, "clerk_user_id = ?", "user_upd").Error)
	require.Equal(t, "new@example.com", user.Email)
	require.Equal(t, "New Name", user.FullName)
}

func TestHandleUserUpdatedMissingUserIsNoop(t *testing.T) {
	svc, db := newProvisioningService(t, nil)

	evt := clerk.Event{
		Type: clerk.EventUserUpdated,
		User: &clerk.UserData{ID: "user_ghost"},
	}
	require.NoError(t, svc.HandleEvent(context.Background(), evt))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestHandleUserDeletedDeactivates(t *testing.T) {
	svc, db := newProvisioningService(t, nil)
	ctx := context.Background()

	require.NoError(t, svc.HandleEvent(ctx, soloSignupEvent("user_del", "Gone", "Soon", "gone@example.com")))

	evt := clerk.Event{
		Type: clerk.EventUserDeleted,
		User: &clerk.UserData{ID: "user_del"},
	}
	require.NoError(t, svc.HandleEvent(ctx, evt))
	// Deletion is repeatable.
	require.NoError(t, svc.HandleEvent(ctx, evt))

	var user models.User
	require.NoError(t, db.First(&user, "clerk_user_id = ?", "user_del").Error)
	require.False(t, user.IsActive)

	// The organization and its data survive.
	var orgCount int64
	require.NoError(t, db.Model(&models.Organization{}).Count(&orgCount).Error)
	require.EqualValues(t, 1, orgCount)
}

func TestHandleEventIgnoresUnknownType(t *testing.T) {
	svc, db := newProvisioningService(t, nil)

	require.NoError(t, svc.HandleEvent(context.Background(), clerk.Event{Type: "session.created"}))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	require.Zero(t, count)
}
