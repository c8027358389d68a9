package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/AiMagic5000/508-ministry-dashboard/internal/services"
	appErrors "github.com/AiMagic5000/508-ministry-dashboard/pkg/errors"
	"github.com/AiMagic5000/508-ministry-dashboard/pkg/response"
)

type VolunteerHandler struct {
	svc *services.VolunteerService
}

func NewVolunteerHandler(db *gorm.DB) (*VolunteerHandler, error) {
	activity, err := services.NewActivityService(db)
	if err != nil {
		return nil, err
	}
	svc, err := services.NewVolunteerService(db, activity)
	if err != nil {
		return nil, err
	}
	return &VolunteerHandler{svc: svc}, nil
}

type createVolunteerRequest struct {
	Name   string   `json:"name" validate:"required,min=1,max=128"`
	Email  string   `json:"email" validate:"omitempty,email"`
	Phone  string   `json:"phone" validate:"omitempty,max=32"`
	Skills []string `json:"skills"`
}

type updateVolunteerRequest struct {
	Name   *string  `json:"name" validate:"omitempty,min=1,max=128"`
	Email  *string  `json:"email" validate:"omitempty,email"`
	Phone  *string  `json:"phone" validate:"omitempty,max=32"`
	Skills []string `json:"skills"`
	Status *string  `json:"status" validate:"omitempty,oneof=active inactive"`
}

type logHoursRequest struct {
	Hours float64 `json:"hours" validate:"required,gt=0"`
}

// GET /api/volunteers
func (h *VolunteerHandler) List(c *gin.Context) {
	volunteers, err := h.svc.List(requestContext(c), tenantID(c), c.Query("status"))
	if err != nil {
		response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
		return
	}
	response.Success(c, http.StatusOK, volunteers)
}

// POST /api/volunteers
func (h *VolunteerHandler) Create(c *gin.Context) {
	var body createVolunteerRequest
	if !bindAndValidate(c, &body) {
		return
	}

	volunteer, err := h.svc.Create(requestContext(c), tenantID(c), services.CreateVolunteerInput{
		Name:   body.Name,
		Email:  body.Email,
		Phone:  body.Phone,
		Skills: body.Skills,
	})
	if err != nil {
		response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
		return
	}
	response.Success(c, http.StatusCreated, volunteer)
}

// PATCH /api/volunteers/:id
func (h *VolunteerHandler) Update(c *gin.Context) {
	var body updateVolunteerRequest
	if !bindAndValidate(c, &body) {
		return
	}

	volunteer, err := h.svc.Update(requestContext(c), tenantID(c), c.Param("id"), services.UpdateVolunteerInput{
		Name:   body.Name,
		Email:  body.Email,
		Phone:  body.Phone,
		Skills: body.Skills,
		Status: body.Status,
	})
	if err != nil {
		if errors.Is(err, services.ErrVolunteerNotFound) {
			response.Error(c, appErrors.ErrNotFound)
			return
		}
		response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
		return
	}
	response.Success(c, http.StatusOK, volunteer)
}

// POST /api/volunteers/:id/hours
func (h *VolunteerHandler) LogHours(c *gin.Context) {
	var body logHoursRequest
	if !bindAndValidate(c, &body) {
		return
	}

	volunteer, err := h.svc.LogHours(requestContext(c), tenantID(c), c.Param("id"), body.Hours)
	if err != nil {
		if errors.Is(err, services.ErrVolunteerNotFound) {
			response.Error(c, appErrors.ErrNotFound)
			return
		}
		response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
		return
	}
	response.Success(c, http.StatusOK, volunteer)
}

// DELETE /api/volunteers/:id
func (h *VolunteerHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(requestContext(c), tenantID(c), c.Param("id")); err != nil {
		if errors.Is(err, services.ErrVolunteerNotFound) {
			response.Error(c, appErrors.ErrNotFound)
			return
		}
		response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
