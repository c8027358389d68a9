package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/AiMagic5000/508-ministry-dashboard/internal/services"
	appErrors "github.com/AiMagic5000/508-ministry-dashboard/pkg/errors"
	"github.com/AiMagic5000/508-ministry-dashboard/pkg/response"
)

type DocumentHandler struct {
	svc *services.DocumentService
}

func NewDocumentHandler(db *gorm.DB) (*DocumentHandler, error) {
	activity, err := services.NewActivityService(db)
	if err != nil {
		return nil, err
	}
	svc, err := services.NewDocumentService(db, activity)
	if err != nil {
		return nil, err
	}
	return &DocumentHandler{svc: svc}, nil
}

type createDocumentRequest struct {
	Name               string     `json:"name" validate:"required,min=1,max=256"`
	Type               string     `json:"type" validate:"omitempty,max=64"`
	FileURL            string     `json:"file_url" validate:"required,url"`
	FileSize           int64      `json:"file_size" validate:"omitempty,min=0"`
	Category           string     `json:"category" validate:"omitempty,max=64"`
	RequiresSignature  bool       `json:"requires_signature"`
	SignaturesRequired int        `json:"signatures_required" validate:"omitempty,min=0"`
	ExpirationDate     *time.Time `json:"expiration_date"`
}

type updateDocumentRequest struct {
	Name                *string    `json:"name" validate:"omitempty,min=1,max=256"`
	Category            *string    `json:"category" validate:"omitempty,max=64"`
	Status              *string    `json:"status" validate:"omitempty,max=32"`
	SignaturesCollected *int       `json:"signatures_collected" validate:"omitempty,min=0"`
	ExpirationDate      *time.Time `json:"expiration_date"`
}

// GET /api/documents
func (h *DocumentHandler) List(c *gin.Context) {
	documents, err := h.svc.List(requestContext(c), tenantID(c), c.Query("category"))
	if err != nil {
		response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
		return
	}
	response.Success(c, http.StatusOK, documents)
}

// POST /api/documents
func (h *DocumentHandler) Create(c *gin.Context) {
	var body createDocumentRequest
	if !bindAndValidate(c, &body) {
		return
	}

	document, err := h.svc.Create(requestContext(c), tenantID(c), services.CreateDocumentInput{
		Name:               body.Name,
		Type:               body.Type,
		FileURL:            body.FileURL,
		FileSize:           body.FileSize,
		Category:           body.Category,
		RequiresSignature:  body.RequiresSignature,
		SignaturesRequired: body.SignaturesRequired,
		ExpirationDate:     body.ExpirationDate,
		UploadedBy:         currentUserID(c),
	})
	if err != nil {
		response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
		return
	}
	response.Success(c, http.StatusCreated, document)
}

// PATCH /api/documents/:id
func (h *DocumentHandler) Update(c *gin.Context) {
	var body updateDocumentRequest
	if !bindAndValidate(c, &body) {
		return
	}

	document, err := h.svc.Update(requestContext(c), tenantID(c), c.Param("id"), services.UpdateDocumentInput{
		Name:                body.Name,
		Category:            body.Category,
		Status:              body.Status,
		SignaturesCollected: body.SignaturesCollected,
		ExpirationDate:      body.ExpirationDate,
	})
	if err != nil {
		if errors.Is(err, services.ErrDocumentNotFound) {
			response.Error(c, appErrors.ErrNotFound)
			return
		}
		response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
		return
	}
	response.Success(c, http.StatusOK, document)
}

// DELETE /api/documents/:id
func (h *DocumentHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(requestContext(c), tenantID(c), c.Param("id")); err != nil {
		if errors.Is(err, services.ErrDocumentNotFound) {
			response.Error(c, appErrors.ErrNotFound)
			return
		}
		response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
