package models

// Notification kinds surfaced on the dashboard feed.
const (
	NotificationTypeReminder    = "reminder"
	NotificationTypeAlert       = "alert"
	NotificationTypeUpdate      = "update"
	NotificationTypeAchievement = "achievement"
)

// Notification is an in-app message for everyone in an organization.
type Notification struct {
	BaseModel

	OrganizationID string        `gorm:"type:uuid;not null;index" json:"organization_id"`
	Organization   *Organization `json:"-"`

	NotificationType string `gorm:"default:update" json:"notification_type"`
	Title            string `gorm:"not null" json:"title"`
	Message          string `json:"message"`
	IsRead           bool   `gorm:"default:false;index" json:"is_read"`
	ActionURL        string `json:"action_url"`
	Priority         string `gorm:"default:medium" json:"priority"`
}
