package models

import "time"

// Donation records a single gift received by a ministry.
type Donation struct {
	BaseModel

	OrganizationID string        `gorm:"type:uuid;not null;index" json:"organization_id"`
	Organization   *Organization `json:"-"`

	DonorName  string  `gorm:"not null" json:"donor_name"`
	DonorEmail string  `json:"donor_email"`
	Amount     float64 `gorm:"not null" json:"amount"`

	DateReceived  *time.Time `gorm:"index" json:"date_received"`
	Method        string     `json:"method"`
	Purpose       string     `json:"purpose"`
	ReceiptIssued bool       `gorm:"default:false" json:"receipt_issued"`
	ReceiptDate   *time.Time `json:"receipt_date"`
	TaxDeductible bool       `gorm:"default:true" json:"tax_deductible"`
	Notes         string     `json:"notes"`
}
