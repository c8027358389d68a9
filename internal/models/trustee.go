package models

import "time"

// Trustee is a board member of a ministry. 508(c)(1)(A) status requires an
// established board, which the starter compliance checklist tracks.
type Trustee struct {
	BaseModel

	OrganizationID string        `gorm:"type:uuid;not null;index" json:"organization_id"`
	Organization   *Organization `json:"-"`

	FirstName string `gorm:"not null" json:"first_name"`
	LastName  string `gorm:"not null" json:"last_name"`
	Role      string `json:"role"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`

	DateAppointed   *time.Time `json:"date_appointed"`
	TermExpires     *time.Time `json:"term_expires"`
	IsActive        bool       `gorm:"default:true" json:"is_active"`
	SignatureOnFile bool       `gorm:"default:false" json:"signature_on_file"`
	Credentials     string     `json:"credentials"`
}
