package models

import "time"

// User roles within an organization. Owner is assigned only to the first
// user of a newly created organization.
const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

// User mirrors an identity-provider account inside a tenant. Users are never
// hard-deleted by the provisioning workflow; account deletion deactivates.
type User struct {
	BaseModel

	ClerkUserID    string        `gorm:"uniqueIndex;not null" json:"clerk_user_id"`
	OrganizationID string        `gorm:"type:uuid;not null;index" json:"organization_id"`
	Organization   *Organization `json:"organization,omitempty"`

	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `gorm:"default:member" json:"role"`

	IsActive    bool       `gorm:"default:true" json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at"`
}
