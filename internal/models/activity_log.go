package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ActivityLogEntry is an append-only audit record scoped to a tenant.
type ActivityLogEntry struct {
	ID             string        `gorm:"primaryKey;type:uuid" json:"id"`
	OrganizationID string        `gorm:"type:uuid;not null;index" json:"organization_id"`
	Organization   *Organization `json:"-"`
	UserID         *string       `gorm:"type:uuid;index" json:"user_id"`
	User           *User         `json:"user,omitempty"`

	Action       string         `gorm:"not null;index" json:"action"`
	ResourceType string         `gorm:"index" json:"resource_type"`
	ResourceID   string         `json:"resource_id"`
	Details      datatypes.JSON `json:"details"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (a *ActivityLogEntry) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
