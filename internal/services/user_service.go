package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/AiMagic5000/508-ministry-dashboard/internal/models"
)

// ErrUserNotFound indicates the requested user does not exist.
var ErrUserNotFound = errors.New("user service: user not found")

// UserService reads user records. Creation and lifecycle changes are owned by
// the provisioning workflow.
type UserService struct {
	db *gorm.DB
}

// NewUserService constructs a UserService instance.
func NewUserService(db *gorm.DB) (*UserService, error) {
	if db == nil {
		return nil, errors.New("user service: db is required")
	}
	return &UserService{db: db}, nil
}

// GetByClerkID loads a user by their identity-provider identifier.
func (s *UserService) GetByClerkID(ctx context.Context, clerkUserID string) (*models.User, error) {
	ctx = ensureContext(ctx)

	var user models.User
	err := s.db.WithContext(ctx).First(&user, "clerk_user_id = ?", clerkUserID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("user service: get user: %w", err)
	}
	return &user, nil
}

// ListByOrganization returns all users belonging to an organization.
func (s *UserService) ListByOrganization(ctx context.Context, organizationID string) ([]models.User, error) {
	ctx = ensureContext(ctx)

	var users []models.User
	if err := s.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("created_at ASC").
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("user service: list users: %w", err)
	}
	return users, nil
}
