package database

import (
	"gorm.io/gorm"

	"github.com/AiMagic5000/508-ministry-dashboard/internal/models"
)

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Organization{},
		&models.User{},
		&models.DashboardConfig{},
		&models.NotificationSettings{},
		&models.ComplianceItem{},
		&models.ActivityLogEntry{},
		&models.Donation{},
		&models.Trustee{},
		&models.Volunteer{},
		&models.Document{},
		&models.Meeting{},
		&models.Notification{},
	)
}
