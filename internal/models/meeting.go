package models

import (
	"time"

	"gorm.io/datatypes"
)

// Meeting types recognised by the minutes tracker.
const (
	MeetingTypeBoard        = "board"
	MeetingTypeCongregation = "congregation"
	MeetingTypeSpecial      = "special"
	MeetingTypeCommittee    = "committee"
)

// Meeting records a board or congregation gathering and its minutes.
type Meeting struct {
	BaseModel

	OrganizationID string        `gorm:"type:uuid;not null;index" json:"organization_id"`
	Organization   *Organization `json:"-"`

	MeetingType string         `gorm:"default:board" json:"meeting_type"`
	Title       string         `gorm:"not null" json:"title"`
	Date        time.Time      `gorm:"not null;index" json:"date"`
	Location    string         `json:"location"`
	Attendees   datatypes.JSON `json:"attendees"`
	Agenda      string         `json:"agenda"`
	QuorumMet   *bool          `json:"quorum_met"`
	Notes       string         `json:"notes"`
}
