package models

import "gorm.io/datatypes"

// Volunteer statuses.
const (
	VolunteerStatusActive   = "active"
	VolunteerStatusInactive = "inactive"
)

// Volunteer tracks a ministry volunteer and their accumulated hours.
type Volunteer struct {
	BaseModel

	OrganizationID string        `gorm:"type:uuid;not null;index" json:"organization_id"`
	Organization   *Organization `json:"-"`

	Name       string         `gorm:"not null" json:"name"`
	Email      string         `json:"email"`
	Phone      string         `json:"phone"`
	Skills     datatypes.JSON `json:"skills"`
	Status     string         `gorm:"default:active;index" json:"status"`
	TotalHours float64        `gorm:"default:0" json:"total_hours"`
}
