package models

// NotificationSettings stores per-user delivery preferences. Created once, at
// user-creation time, with every flag defaulted on.
type NotificationSettings struct {
	BaseModel

	UserID string `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	User   *User  `json:"-"`

	EmailNotifications  bool `gorm:"default:true" json:"email_notifications"`
	ComplianceReminders bool `gorm:"default:true" json:"compliance_reminders"`
	DonationReceipts    bool `gorm:"default:true" json:"donation_receipts"`
	WeeklyDigest        bool `gorm:"default:true" json:"weekly_digest"`
}
