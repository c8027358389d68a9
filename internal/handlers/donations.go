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

type DonationHandler struct {
	svc *services.DonationService
}

func NewDonationHandler(db *gorm.DB) (*DonationHandler, error) {
	activity, err := services.NewActivityService(db)
	if err != nil {
		return nil, err
	}
	svc, err := services.NewDonationService(db, activity)
	if err != nil {
		return nil, err
	}
	return &DonationHandler{svc: svc}, nil
}

type createDonationRequest struct {
	DonorName     string     `json:"donor_name" validate:"required,min=1,max=128"`
	DonorEmail    string     `json:"donor_email" validate:"omitempty,email"`
	Amount        float64    `json:"amount" validate:"required,gt=0"`
	DateReceived  *time.Time `json:"date_received"`
	Method        string     `json:"method" validate:"omitempty,max=64"`
	Purpose       string     `json:"purpose" validate:"omitempty,max=256"`
	TaxDeductible bool       `json:"tax_deductible"`
	Notes         string     `json:"notes" validate:"omitempty,max=1024"`
}

type updateDonationRequest struct {
	DonorName     *string  `json:"donor_name" validate:"omitempty,min=1,max=128"`
	DonorEmail    *string  `json:"donor_email" validate:"omitempty,email"`
	Amount        *float64 `json:"amount" validate:"omitempty,gt=0"`
	Method        *string  `json:"method" validate:"omitempty,max=64"`
	Purpose       *string  `json:"purpose" validate:"omitempty,max=256"`
	ReceiptIssued *bool    `json:"receipt_issued"`
	Notes         *string  `json:"notes" validate:"omitempty,max=1024"`
}

// GET /api/donations
func (h *DonationHandler) List(c *gin.Context) {
	var filters services.DonationListFilters
	if raw := c.Query("from"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			filters.From = &t
		}
	}
	if raw := c.Query("to"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			filters.To = &t
		}
	}

	donations, err := h.svc.List(requestContext(c), tenantID(c), filters)
	if err != nil {
		response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
		return
	}
	response.Success(c, http.StatusOK, donations)
}

// POST /api/donations
func (h *DonationHandler) Create(c *gin.Context) {
	var body createDonationRequest
	if !bindAndValidate(c, &body) {
		return
	}

	donation, err := h.svc.Create(requestContext(c), tenantID(c), services.CreateDonationInput{
		DonorName:     body.DonorName,
		DonorEmail:    body.DonorEmail,
		Amount:        body.Amount,
		DateReceived:  body.DateReceived,
		Method:        body.Method,
		Purpose:       body.Purpose,
		TaxDeductible: body.TaxDeductible,
		Notes:         body.Notes,
	})
	if err != nil {
		response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
		return
	}
	response.Success(c, http.StatusCreated, donation)
}

// PATCH /api/donations/:id
func (h *DonationHandler) Update(c *gin.Context) {
	var body updateDonationRequest
	if !bindAndValidate(c, &body) {
		return
	}

	donation, err := h.svc.Update(requestContext(c), tenantID(c), c.Param("id"), services.UpdateDonationInput{
		DonorName:     body.DonorName,
		DonorEmail:    body.DonorEmail,
		Amount:        body.Amount,
		Method:        body.Method,
		Purpose:       body.Purpose,
		ReceiptIssued: body.ReceiptIssued,
		Notes:         body.Notes,
	})
	if err != nil {
		if errors.Is(err, services.ErrDonationNotFound) {
			response.Error(c, appErrors.ErrNotFound)
			return
		}
		response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
		return
	}
	response.Success(c, http.StatusOK, donation)
}

// DELETE /api/donations/:id
func (h *DonationHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(requestContext(c), tenantID(c), c.Param("id")); err != nil {
		if errors.Is(err, services.ErrDonationNotFound) {
			response.Error(c, appErrors.ErrNotFound)
			return
		}
		response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
