package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/AiMagic5000/508-ministry-dashboard/internal/services"
	appErrors "github.com/AiMagic5000/508-ministry-dashboard/pkg/errors"
	"github.com/AiMagic5000/508-ministry-dashboard/pkg/response"
)

type OrganizationHandler struct {
	svc *services.OrganizationService
}

func NewOrganizationHandler(db *gorm.DB) (*OrganizationHandler, error) {
	activity, err := services.NewActivityService(db)
	if err != nil {
		return nil, err
	}
	svc, err := services.NewOrganizationService(db, activity)
	if err != nil {
		return nil, err
	}
	return &OrganizationHandler{svc: svc}, nil
}

type updateOrganizationRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=2,max=128"`
	Email *string `json:"email" validate:"omitempty,email"`
}

// GET /api/organization
func (h *OrganizationHandler) Get(c *gin.Context) {
	org, err := h.svc.GetByID(requestContext(c), tenantID(c))
	if err != nil {
		if errors.Is(err, services.ErrOrganizationNotFound) {
			response.Error(c, appErrors.ErrNotFound)
			return
		}
		response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
		return
	}
	response.Success(c, http.StatusOK, org)
}

// PATCH /api/organization
func (h *OrganizationHandler) Update(c *gin.Context) {
	var body updateOrganizationRequest
	if !bindAndValidate(c, &body) {
		return
	}

	if body.Name == nil && body.Email == nil {
		response.Error(c, appErrors.NewBadRequest("no fields provided for update"))
		return
	}

	var namePtr *string
	if body.Name != nil {
		trimmed := strings.TrimSpace(*body.Name)
		if trimmed == "" {
			response.Error(c, appErrors.NewBadRequest("name must not be empty"))
			return
		}
		namePtr = &trimmed
	}

	org, err := h.svc.Update(requestContext(c), tenantID(c), services.UpdateOrganizationInput{
		Name:  namePtr,
		Email: body.Email,
	})
	if err != nil {
		if errors.Is(err, services.ErrOrganizationNotFound) {
			response.Error(c, appErrors.ErrNotFound)
			return
		}
		response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
		return
	}
	response.Success(c, http.StatusOK, org)
}
