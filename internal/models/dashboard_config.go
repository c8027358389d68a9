package models

// DashboardConfig holds per-organization dashboard header text. Created once,
// at organization-creation time.
type DashboardConfig struct {
	BaseModel

	OrganizationID string        `gorm:"type:uuid;uniqueIndex;not null" json:"organization_id"`
	Organization   *Organization `json:"-"`

	HeaderTitle    string `json:"header_title"`
	HeaderSubtitle string `json:"header_subtitle"`
}
