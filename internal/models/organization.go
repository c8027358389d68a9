package models

import "time"

// Subscription tiers and statuses assigned during provisioning.
const (
	SubscriptionTierTrial = "trial"

	SubscriptionStatusActive    = "active"
	SubscriptionStatusCancelled = "cancelled"
	SubscriptionStatusExpired   = "expired"
)

// Organization is one ministry tenant. Existence is keyed by the identity
// provider's organization identifier; for solo signups a synthesized
// identifier is stored instead.
type Organization struct {
	BaseModel

	ClerkOrgID string `gorm:"uniqueIndex;not null" json:"clerk_org_id"`
	Name       string `gorm:"not null" json:"name"`
	Email      string `json:"email"`

	SubscriptionTier   string     `gorm:"default:trial" json:"subscription_tier"`
	SubscriptionStatus string     `gorm:"default:active" json:"subscription_status"`
	TrialEndsAt        *time.Time `json:"trial_ends_at"`

	Users []User `gorm:"foreignKey:OrganizationID" json:"users,omitempty"`
}
