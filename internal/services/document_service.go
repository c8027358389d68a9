package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/AiMagic5000/508-ministry-dashboard/internal/models"
)

// ErrDocumentNotFound indicates the requested document does not exist in the tenant.
var ErrDocumentNotFound = errors.New("document service: document not found")

// CreateDocumentInput captures the metadata for a newly stored file.
type CreateDocumentInput struct {
	Name               string
	Type               string
	FileURL            string
	FileSize           int64
	Category           string
	RequiresSignature  bool
	SignaturesRequired int
	ExpirationDate     *time.Time
	UploadedBy         string
}

// UpdateDocumentInput represents mutable document metadata.
type UpdateDocumentInput struct {
	Name                *string
	Category            *string
	Status              *string
	SignaturesCollected *int
	ExpirationDate      *time.Time
}

// DocumentService manages document metadata within one tenant.
type DocumentService struct {
	db       *gorm.DB
	activity *ActivityService
}

// NewDocumentService constructs a DocumentService instance.
func NewDocumentService(db *gorm.DB, activity *ActivityService) (*DocumentService, error) {
	if db == nil {
		return nil, errors.New("document service: db is required")
	}
	return &DocumentService{db: db, activity: activity}, nil
}

// List returns documents for an organization, optionally filtered by category.
func (s *DocumentService) List(ctx context.Context, organizationID, category string) ([]models.Document, error) {
	ctx = ensureContext(ctx)

	query := s.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("created_at DESC")
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var documents []models.Document
	if err := query.Find(&documents).Error; err != nil {
		return nil, fmt.Errorf("document service: list documents: %w", err)
	}
	return documents, nil
}

// Create records metadata for a stored file.
func (s *DocumentService) Create(ctx context.Context, organizationID string, input CreateDocumentInput) (*models.Document, error) {
	ctx = ensureContext(ctx)

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errors.New("document service: name is required")
	}
	if strings.TrimSpace(input.FileURL) == "" {
		return nil, errors.New("document service: file url is required")
	}

	document := &models.Document{
		OrganizationID:     organizationID,
		Name:               name,
		Type:               strings.TrimSpace(input.Type),
		FileURL:            strings.TrimSpace(input.FileURL),
		FileSize:           input.FileSize,
		Category:           strings.TrimSpace(input.Category),
		RequiresSignature:  input.RequiresSignature,
		SignaturesRequired: input.SignaturesRequired,
		Status:             "active",
		ExpirationDate:     input.ExpirationDate,
		Version:            1,
		UploadedBy:         strings.TrimSpace(input.UploadedBy),
	}

	if err := s.db.WithContext(ctx).Create(document).Error; err != nil {
		return nil, fmt.Errorf("document service: create document: %w", err)
	}

	recordActivity(s.activity, ctx, ActivityEntry{
		OrganizationID: organizationID,
		Action:         "uploaded",
		ResourceType:   "document",
		ResourceID:     document.ID,
		Details:        map[string]any{"name": name, "category": document.Category},
	})

	return document, nil
}

// Update modifies document metadata within the tenant.
func (s *DocumentService) Update(ctx context.Context, organizationID, id string, input UpdateDocumentInput) (*models.Document, error) {
	ctx = ensureContext(ctx)

	document, err := s.getScoped(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		if v := strings.TrimSpace(*input.Name); v != "" {
			updates["name"] = v
		}
	}
	if input.Category != nil {
		updates["category"] = strings.TrimSpace(*input.Category)
	}
	if input.Status != nil {
		updates["status"] = strings.TrimSpace(*input.Status)
	}
	if input.SignaturesCollected != nil {
		if *input.SignaturesCollected < 0 {
			return nil, errors.New("document service: signatures collected cannot be negative")
		}
		updates["signatures_collected"] = *input.SignaturesCollected
	}
	if input.ExpirationDate != nil {
		updates["expiration_date"] = *input.ExpirationDate
	}

	if len(updates) == 0 {
		return document, nil
	}

	if err := s.db.WithContext(ctx).Model(document).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("document service: update document: %w", err)
	}
	return document, nil
}

// Delete removes document metadata from the tenant.
func (s *DocumentService) Delete(ctx context.Context, organizationID, id string) error {
	ctx = ensureContext(ctx)

	document, err := s.getScoped(ctx, organizationID, id)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(document).Error; err != nil {
		return fmt.Errorf("document service: delete document: %w", err)
	}

	recordActivity(s.activity, ctx, ActivityEntry{
		OrganizationID: organizationID,
		Action:         "deleted",
		ResourceType:   "document",
		ResourceID:     id,
	})
	return nil
}

func (s *DocumentService) getScoped(ctx context.Context, organizationID, id string) (*models.Document, error) {
	var document models.Document
	err := s.db.WithContext(ctx).First(&document, "id = ? AND organization_id = ?", id, organizationID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("document service: load document: %w", err)
	}
	return &document, nil
}
