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

type ComplianceHandler struct {
	svc *services.ComplianceService
}

func NewComplianceHandler(db *gorm.DB) (*ComplianceHandler, error) {
	activity, err := services.NewActivityService(db)
	if err != nil {
		return nil, err
	}
	svc, err := services.NewComplianceService(db, activity)
	if err != nil {
		return nil, err
	}
	return &ComplianceHandler{svc: svc}, nil
}

type createComplianceItemRequest struct {
	Title       string     `json:"title" validate:"required,min=1,max=256"`
	Description string     `json:"description" validate:"omitempty,max=1024"`
	Category    string     `json:"category" validate:"omitempty,oneof=governance financial operational legal"`
	Priority    string     `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	DueDate     *time.Time `json:"due_date"`
	PointsValue int        `json:"points_value" validate:"omitempty,min=0,max=100"`
}

type updateComplianceItemRequest struct {
	Title       *string    `json:"title" validate:"omitempty,min=1,max=256"`
	Description *string    `json:"description" validate:"omitempty,max=1024"`
	Category    *string    `json:"category" validate:"omitempty,oneof=governance financial operational legal"`
	Status      *string    `json:"status" validate:"omitempty,oneof=pending in_progress completed overdue"`
	Priority    *string    `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	DueDate     *time.Time `json:"due_date"`
	PointsValue *int       `json:"points_value" validate:"omitempty,min=0,max=100"`
}

// GET /api/compliance
func (h *ComplianceHandler) List(c *gin.Context) {
	items, err := h.svc.List(requestContext(c), tenantID(c), c.Query("status"))
	if err != nil {
		response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
		return
	}
	response.Success(c, http.StatusOK, items)
}

// GET /api/compliance/score
func (h *ComplianceHandler) Score(c *gin.Context) {
	score, err := h.svc.Score(requestContext(c), tenantID(c))
	if err != nil {
		response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
		return
	}
	response.Success(c, http.StatusOK, score)
}

// POST /api/compliance
func (h *ComplianceHandler) Create(c *gin.Context) {
	var body createComplianceItemRequest
	if !bindAndValidate(c, &body) {
		return
	}

	item, err := h.svc.Create(requestContext(c), tenantID(c), services.CreateComplianceItemInput{
		Title:       body.Title,
		Description: body.Description,
		Category:    body.Category,
		Priority:    body.Priority,
		DueDate:     body.DueDate,
		PointsValue: body.PointsValue,
	})
	if err != nil {
		response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
		return
	}
	response.Success(c, http.StatusCreated, item)
}

// PATCH /api/compliance/:id
func (h *ComplianceHandler) Update(c *gin.Context) {
	var body updateComplianceItemRequest
	if !bindAndValidate(c, &body) {
		return
	}

	item, err := h.svc.Update(requestContext(c), tenantID(c), c.Param("id"), services.UpdateComplianceItemInput{
		Title:       body.Title,
		Description: body.Description,
		Category:    body.Category,
		Status:      body.Status,
		Priority:    body.Priority,
		DueDate:     body.DueDate,
		PointsValue: body.PointsValue,
	})
	if err != nil {
		if errors.Is(err, services.ErrComplianceItemNotFound) {
			response.Error(c, appErrors.ErrNotFound)
			return
		}
		response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
		return
	}
	response.Success(c, http.StatusOK, item)
}

// DELETE /api/compliance/:id
func (h *ComplianceHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(requestContext(c), tenantID(c), c.Param("id")); err != nil {
		if errors.Is(err, services.ErrComplianceItemNotFound) {
			response.Error(c, appErrors.ErrNotFound)
			return
		}
		response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
