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

type TrusteeHandler struct {
	svc *services.TrusteeService
}

func NewTrusteeHandler(db *gorm.DB) (*TrusteeHandler, error) {
	activity, err := services.NewActivityService(db)
	if err != nil {
		return nil, err
	}
	svc, err := services.NewTrusteeService(db, activity)
	if err != nil {
		return nil, err
	}
	return &TrusteeHandler{svc: svc}, nil
}

type createTrusteeRequest struct {
	FirstName     string     `json:"first_name" validate:"required,min=1,max=64"`
	LastName      string     `json:"last_name" validate:"required,min=1,max=64"`
	Role          string     `json:"role" validate:"omitempty,max=64"`
	Email         string     `json:"email" validate:"omitempty,email"`
	Phone         string     `json:"phone" validate:"omitempty,max=32"`
	DateAppointed *time.Time `json:"date_appointed"`
	TermExpires   *time.Time `json:"term_expires"`
	Credentials   string     `json:"credentials" validate:"omitempty,max=512"`
}

type updateTrusteeRequest struct {
	FirstName       *string    `json:"first_name" validate:"omitempty,min=1,max=64"`
	LastName        *string    `json:"last_name" validate:"omitempty,min=1,max=64"`
	Role            *string    `json:"role" validate:"omitempty,max=64"`
	Email           *string    `json:"email" validate:"omitempty,email"`
	Phone           *string    `json:"phone" validate:"omitempty,max=32"`
	TermExpires     *time.Time `json:"term_expires"`
	IsActive        *bool      `json:"is_active"`
	SignatureOnFile *bool      `json:"signature_on_file"`
	Credentials     *string    `json:"credentials" validate:"omitempty,max=512"`
}

// GET /api/trustees
func (h *TrusteeHandler) List(c *gin.Context) {
	trustees, err := h.svc.List(requestContext(c), tenantID(c))
	if err != nil {
		response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
		return
	}
	response.Success(c, http.StatusOK, trustees)
}

// POST /api/trustees
func (h *TrusteeHandler) Create(c *gin.Context) {
	var body createTrusteeRequest
	if !bindAndValidate(c, &body) {
		return
	}

	trustee, err := h.svc.Create(requestContext(c), tenantID(c), services.CreateTrusteeInput{
		FirstName:     body.FirstName,
		LastName:      body.LastName,
		Role:          body.Role,
		Email:         body.Email,
		Phone:         body.Phone,
		DateAppointed: body.DateAppointed,
		TermExpires:   body.TermExpires,
		Credentials:   body.Credentials,
	})
	if err != nil {
		response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
		return
	}
	response.Success(c, http.StatusCreated, trustee)
}

// PATCH /api/trustees/:id
func (h *TrusteeHandler) Update(c *gin.Context) {
	var body updateTrusteeRequest
	if !bindAndValidate(c, &body) {
		return
	}

	trustee, err := h.svc.Update(requestContext(c), tenantID(c), c.Param("id"), services.UpdateTrusteeInput{
		FirstName:       body.FirstName,
		LastName:        body.LastName,
		Role:            body.Role,
		Email:           body.Email,
		Phone:           body.Phone,
		TermExpires:     body.TermExpires,
		IsActive:        body.IsActive,
		SignatureOnFile: body.SignatureOnFile,
		Credentials:     body.Credentials,
	})
	if err != nil {
		if errors.Is(err, services.ErrTrusteeNotFound) {
			response.Error(c, appErrors.ErrNotFound)
			return
		}
		response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
		return
	}
	response.Success(c, http.StatusOK, trustee)
}

// DELETE /api/trustees/:id
func (h *TrusteeHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(requestContext(c), tenantID(c), c.Param("id")); err != nil {
		if errors.Is(err, services.ErrTrusteeNotFound) {
			response.Error(c, appErrors.ErrNotFound)
			return
		}
		response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
