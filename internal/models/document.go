package models

import "time"

// Document is a stored governance or financial file reference. The binary
// itself lives in external storage; only metadata is tracked here.
type Document struct {
	BaseModel

	OrganizationID string        `gorm:"type:uuid;not null;index" json:"organization_id"`
	Organization   *Organization `json:"-"`

	Name     string `gorm:"not null" json:"name"`
	Type     string `json:"type"`
	FileURL  string `gorm:"not null" json:"file_url"`
	FileSize int64  `json:"file_size"`
	Category string `gorm:"index" json:"category"`

	RequiresSignature   bool   `gorm:"default:false" json:"requires_signature"`
	SignaturesRequired  int    `gorm:"default:0" json:"signatures_required"`
	SignaturesCollected int    `gorm:"default:0" json:"signatures_collected"`
	Status              string `gorm:"default:active" json:"status"`

	ExpirationDate *time.Time `json:"expiration_date"`
	Version        int        `gorm:"default:1" json:"version"`
	UploadedBy     string     `json:"uploaded_by"`
}
