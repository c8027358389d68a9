package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/AiMagic5000/508-ministry-dashboard/internal/clerk"
	"github.com/AiMagic5000/508-ministry-dashboard/internal/models"
	"github.com/AiMagic5000/508-ministry-dashboard/pkg/logger"
	"github.com/AiMagic5000/508-ministry-dashboard/pkg/metrics"
)

const trialPeriod = 14 * 24 * time.Hour

var (
	// ErrOrganizationNotProvisioned indicates the provider referenced a tenant
	// this system has never seen. The provider is authoritative, so this is a
	// server-side failure and the delivery should be retried.
	ErrOrganizationNotProvisioned = errors.New("provisioning: organization not provisioned")
)

// ProvisioningService applies identity-provider webhook events to tenant
// state: organization resolution or creation, user upserts, and the one-time
// bootstrap of per-tenant defaults.
//
// Every insert is individually committed; there is no cross-step transaction.
// Duplicate deliveries are absorbed by the unique keys on clerk_org_id and
// clerk_user_id (insert, catch conflict, re-read).
type ProvisioningService struct {
	db       *gorm.DB
	activity *ActivityService
	now      func() time.Time
	log      *zap.Logger
}

// ProvisioningOption customises the ProvisioningService.
type ProvisioningOption func(*ProvisioningService)

// WithClock overrides the clock used for trial windows, due dates, and login
// stamps. Primarily for testing.
func WithClock(now func() time.Time) ProvisioningOption {
	return func(s *ProvisioningService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewProvisioningService constructs a ProvisioningService instance.
func NewProvisioningService(db *gorm.DB, activity *ActivityService, opts ...ProvisioningOption) (*ProvisioningService, error) {
	if db == nil {
		return nil, errors.New("provisioning: db is required")
	}

	svc := &ProvisioningService{
		db:       db,
		activity: activity,
		now:      time.Now,
		log:      logger.WithModule("provisioning"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// HandleEvent routes a verified event to its handler. Unrecognised event
// types are acknowledged without side effects so the provider never retries
// events this system does not care about.
func (s *ProvisioningService) HandleEvent(ctx context.Context, evt clerk.Event) error {
	ctx = ensureContext(ctx)

	switch evt.Type {
	case clerk.EventUserCreated:
		return s.handleUserCreated(ctx, *evt.User)
	case clerk.EventOrganizationCreated:
		return s.handleOrganizationCreated(ctx, *evt.Organization)
	case clerk.EventMembershipCreated:
		return s.handleMembershipCreated(ctx, *evt.Membership)
	case clerk.EventUserUpdated:
		return s.handleUserUpdated(ctx, *evt.User)
	case clerk.EventUserDeleted:
		return s.handleUserDeleted(ctx, *evt.User)
	default:
		s.log.Debug("ignoring unhandled event type", zap.String("type", string(evt.Type)))
		return nil
	}
}

func (s *ProvisioningService) handleUserCreated(ctx context.Context, data clerk.UserData) error {
	if data.ID == "" {
		return errors.New("provisioning: user id is required")
	}

	// Tenant identifier: the provider's organization when the user was
	// invited into one, otherwise a synthesized id marking a solo signup.
	clerkOrgID := ""
	if len(data.OrganizationMemberships) > 0 {
		clerkOrgID = data.OrganizationMemberships[0].Organization.ID
	}
	newTenant := clerkOrgID == ""
	if newTenant {
		clerkOrgID = "org_" + data.ID
	}

	email := data.PrimaryEmail()

	var (
		org *models.Organization
		err error
	)
	if newTenant {
		org, err = s.resolveOrCreateOrganization(ctx, clerkOrgID, tenantName(data), email)
		if err != nil {
			return err
		}
	} else {
		org, err = s.organizationByClerkID(ctx, clerkOrgID)
		if err != nil {
			return err
		}
	}

	now := s.now()
	user := &models.User{
		ClerkUserID:    data.ID,
		OrganizationID: org.ID,
		Email:          email,
		FullName:       data.FullName(),
		Role:           models.RoleMember,
		IsActive:       true,
		LastLoginAt:    &now,
	}
	if newTenant {
		user.Role = models.RoleOwner
	}

	created, err := s.insertOrReloadUser(ctx, user)
	if err != nil {
		return err
	}

	// Bootstrap defaults only once, alongside the first insert of a brand-new
	// tenant. Failures here are logged and tolerated: the user row already
	// exists durably and the provider must not redeliver.
	if newTenant && created {
		s.bootstrapTenantDefaults(ctx, org, user, data.FirstName)
	}

	recordActivity(s.activity, ctx, ActivityEntry{
		OrganizationID: org.ID,
		UserID:         &user.ID,
		Action:         "created",
		ResourceType:   "user",
		ResourceID:     user.ID,
		Details: map[string]any{
			"event":               "user_signup",
			"email":               email,
			"is_new_organization": newTenant,
		},
	})

	s.log.Info("provisioned user",
		zap.String("clerk_user_id", data.ID),
		zap.String("organization_id", org.ID),
		zap.Bool("new_tenant", newTenant),
	)
	return nil
}

func (s *ProvisioningService) handleOrganizationCreated(ctx context.Context, data clerk.OrganizationData) error {
	if data.ID == "" {
		return errors.New("provisioning: organization id is required")
	}

	name := data.Name
	if name == "" {
		name = "New Ministry"
	}

	org, err := s.resolveOrCreateOrganization(ctx, data.ID, name, "")
	if err != nil {
		return err
	}

	// Dashboard config only; compliance items and notification settings are
	// created later, when the first member joins.
	title := "Welcome to Your Ministry Dashboard"
	if data.Name != "" {
		title = fmt.Sprintf("Welcome to %s Dashboard", data.Name)
	}
	s.createDashboardConfig(ctx, org.ID, title)

	s.log.Info("provisioned organization", zap.String("clerk_org_id", data.ID), zap.String("organization_id", org.ID))
	return nil
}

func (s *ProvisioningService) handleMembershipCreated(ctx context.Context, data clerk.MembershipData) error {
	if data.PublicUserData.UserID == "" {
		return errors.New("provisioning: membership user id is required")
	}

	org, err := s.organizationByClerkID(ctx, data.Organization.ID)
	if err != nil {
		return err
	}

	var existing models.User
	err = s.db.WithContext(ctx).First(&existing, "clerk_user_id = ?", data.PublicUserData.UserID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user := &models.User{
			ClerkUserID:    data.PublicUserData.UserID,
			OrganizationID: org.ID,
			Email:          data.PublicUserData.Identifier,
			FullName:       data.PublicUserData.FullName(),
			Role:           models.RoleMember,
			IsActive:       true,
		}
		if _, err := s.insertOrReloadUser(ctx, user); err != nil {
			return err
		}
		if err := s.db.WithContext(ctx).Create(&models.NotificationSettings{UserID: user.ID}).Error; err != nil {
			s.log.Warn("create notification settings failed", zap.String("user_id", user.ID), zap.Error(err))
		}
	case err != nil:
		return fmt.Errorf("provisioning: lookup user: %w", err)
	default:
		// Repoint the tenant only; the user may have moved organizations or
		// been created by an earlier flow.
		if err := s.db.WithContext(ctx).
			Model(&models.User{}).
			Where("clerk_user_id = ?", data.PublicUserData.UserID).
			Update("organization_id", org.ID).Error; err != nil {
			return fmt.Errorf("provisioning: relink user organization: %w", err)
		}
	}

	s.log.Info("processed membership",
		zap.String("clerk_user_id", data.PublicUserData.UserID),
		zap.String("organization_id", org.ID),
	)
	return nil
}

func (s *ProvisioningService) handleUserUpdated(ctx context.Context, data clerk.UserData) error {
	if data.ID == "" {
		return errors.New("provisioning: user id is required")
	}

	// No-op success when the row does not exist; updates never create.
	if err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("clerk_user_id = ?", data.ID).
		Updates(map[string]any{
			"email":     data.PrimaryEmail(),
			"full_name": data.FullName(),
		}).Error; err != nil {
		return fmt.Errorf("provisioning: update user: %w", err)
	}
	return nil
}

func (s *ProvisioningService) handleUserDeleted(ctx context.Context, data clerk.UserData) error {
	if data.ID == "" {
		return errors.New("provisioning: user id is required")
	}

	// Soft delete only; tenant data is never cascaded.
	if err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("clerk_user_id = ?", data.ID).
		Update("is_active", false).Error; err != nil {
		return fmt.Errorf("provisioning: deactivate user: %w", err)
	}
	return nil
}

// resolveOrCreateOrganization inserts an Organization with trial defaults,
// treating a duplicate-key conflict as "already exists": the row is re-read
// and returned so that concurrent or redelivered events converge on one
// tenant per identifier.
func (s *ProvisioningService) resolveOrCreateOrganization(ctx context.Context, clerkOrgID, name, email string) (*models.Organization, error) {
	trialEnd := s.now().Add(trialPeriod)
	org := &models.Organization{
		ClerkOrgID:         clerkOrgID,
		Name:               name,
		Email:              email,
		SubscriptionTier:   models.SubscriptionTierTrial,
		SubscriptionStatus: models.SubscriptionStatusActive,
		TrialEndsAt:        &trialEnd,
	}

	err := s.db.WithContext(ctx).Create(org).Error
	switch {
	case err == nil:
		metrics.TenantsProvisioned.Inc()
		return org, nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return s.organizationByClerkID(ctx, clerkOrgID)
	default:
		return nil, fmt.Errorf("provisioning: create organization: %w", err)
	}
}

func (s *ProvisioningService) organizationByClerkID(ctx context.Context, clerkOrgID string) (*models.Organization, error) {
	var org models.Organization
	err := s.db.WithContext(ctx).First(&org, "clerk_org_id = ?", clerkOrgID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrOrganizationNotProvisioned, clerkOrgID)
	}
	if err != nil {
		return nil, fmt.Errorf("provisioning: lookup organization: %w", err)
	}
	return &org, nil
}

// insertOrReloadUser inserts the user row, reloading the existing row on a
// duplicate clerk_user_id. Returns whether this call performed the insert.
func (s *ProvisioningService) insertOrReloadUser(ctx context.Context, user *models.User) (bool, error) {
	err := s.db.WithContext(ctx).Create(user).Error
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		if err := s.db.WithContext(ctx).First(user, "clerk_user_id = ?", user.ClerkUserID).Error; err != nil {
			return false, fmt.Errorf("provisioning: reload user: %w", err)
		}
		return false, nil
	default:
		return false, fmt.Errorf("provisioning: create user: %w", err)
	}
}

func (s *ProvisioningService) bootstrapTenantDefaults(ctx context.Context, org *models.Organization, user *models.User, firstName string) {
	greeting := "Your"
	if firstName != "" {
		greeting = firstName
	}
	s.createDashboardConfig(ctx, org.ID, fmt.Sprintf("Welcome to %s's Ministry Dashboard", greeting))

	if err := s.db.WithContext(ctx).Create(&models.NotificationSettings{
		UserID:              user.ID,
		EmailNotifications:  true,
		ComplianceReminders: true,
		DonationReceipts:    true,
		WeeklyDigest:        true,
	}).Error; err != nil {
		s.log.Warn("create notification settings failed", zap.String("user_id", user.ID), zap.Error(err))
	}

	if err := s.db.WithContext(ctx).Create(starterComplianceItems(org.ID, s.now())).Error; err != nil {
		s.log.Warn("seed compliance items failed", zap.String("organization_id", org.ID), zap.Error(err))
	}
}

func (s *ProvisioningService) createDashboardConfig(ctx context.Context, organizationID, headerTitle string) {
	cfg := &models.DashboardConfig{
		OrganizationID: organizationID,
		HeaderTitle:    headerTitle,
		HeaderSubtitle: "Managing your 508(c)(1)(A) ministry with transparency",
	}
	if err := s.db.WithContext(ctx).Create(cfg).Error; err != nil {
		s.log.Warn("create dashboard config failed", zap.String("organization_id", organizationID), zap.Error(err))
	}
}

// starterComplianceItems is the fixed checklist seeded for every new tenant.
func starterComplianceItems(organizationID string, now time.Time) []models.ComplianceItem {
	week := now.Add(7 * 24 * time.Hour)
	fortnight := now.Add(14 * 24 * time.Hour)

	return []models.ComplianceItem{
		{
			OrganizationID: organizationID,
			Title:          "Set up Board of Trustees",
			Description:    "Establish a board with at least 3 trustees as required for 508(c)(1)(A) status",
			Category:       models.ComplianceCategoryGovernance,
			Status:         models.ComplianceStatusPending,
			Priority:       models.CompliancePriorityUrgent,
			DueDate:        &week,
			PointsValue:    25,
			ReminderSent:   false,
		},
		{
			OrganizationID: organizationID,
			Title:          "Document Mission Statement",
			Description:    "Create and document your ministry mission statement and statement of faith",
			Category:       models.ComplianceCategoryGovernance,
			Status:         models.ComplianceStatusPending,
			Priority:       models.CompliancePriorityHigh,
			DueDate:        &fortnight,
			PointsValue:    15,
			ReminderSent:   false,
		},
		{
			OrganizationID: organizationID,
			Title:          "Set up Donation Tracking",
			Description:    "Implement system for tracking donations and issuing receipts",
			Category:       models.ComplianceCategoryFinancial,
			Status:         models.ComplianceStatusPending,
			Priority:       models.CompliancePriorityHigh,
			DueDate:        &fortnight,
			PointsValue:    20,
			ReminderSent:   false,
		},
	}
}

// tenantName derives a display name for a solo signup's organization.
func tenantName(data clerk.UserData) string {
	full := data.FullName()
	if full == "" {
		return "New Ministry"
	}
	return full + "'s Ministry"
}
