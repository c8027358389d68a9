package models

import "time"

// Compliance item lifecycle states and priorities.
const (
	ComplianceStatusPending    = "pending"
	ComplianceStatusInProgress = "in_progress"
	ComplianceStatusCompleted  = "completed"
	ComplianceStatusOverdue    = "overdue"

	CompliancePriorityLow    = "low"
	CompliancePriorityMedium = "medium"
	CompliancePriorityHigh   = "high"
	CompliancePriorityUrgent = "urgent"

	ComplianceCategoryGovernance  = "governance"
	ComplianceCategoryFinancial   = "financial"
	ComplianceCategoryOperational = "operational"
	ComplianceCategoryLegal       = "legal"
)

// ComplianceItem is a tracked 508(c)(1)(A) obligation for one organization.
// New tenants are seeded with a fixed starter checklist.
type ComplianceItem struct {
	BaseModel

	OrganizationID string        `gorm:"type:uuid;not null;index" json:"organization_id"`
	Organization   *Organization `json:"-"`

	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`
	Category    string `gorm:"index" json:"category"`
	Status      string `gorm:"default:pending;index" json:"status"`
	Priority    string `gorm:"default:medium" json:"priority"`

	DueDate       *time.Time `json:"due_date"`
	PointsValue   int        `json:"points_value"`
	CompletedDate *time.Time `json:"completed_date"`
	ReminderSent  bool       `gorm:"default:false" json:"reminder_sent"`
}
