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

type SettingsHandler struct {
	svc *services.SettingsService
}

func NewSettingsHandler(db *gorm.DB) (*SettingsHandler, error) {
	svc, err := services.NewSettingsService(db)
	if err != nil {
		return nil, err
	}
	return &SettingsHandler{svc: svc}, nil
}

type updateNotificationSettingsRequest struct {
	EmailNotifications  *bool `json:"email_notifications"`
	ComplianceReminders *bool `json:"compliance_reminders"`
	DonationReceipts    *bool `json:"donation_receipts"`
	WeeklyDigest        *bool `json:"weekly_digest"`
}

type updateDashboardConfigRequest struct {
	HeaderTitle    *string `json:"header_title" validate:"omitempty,min=1,max=256"`
	HeaderSubtitle *string `json:"header_subtitle" validate:"omitempty,max=256"`
}

// GET /api/settings/notifications
func (h *SettingsHandler) GetNotificationSettings(c *gin.Context) {
	settings, err := h.svc.NotificationSettings(requestContext(c), currentUserID(c))
	if err != nil {
		if errors.Is(err, services.ErrNotificationSettingsNotFound) {
			response.Error(c, appErrors.ErrNotFound)
			return
		}
		response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
		return
	}
	response.Success(c, http.StatusOK, settings)
}

// PATCH /api/settings/notifications
func (h *SettingsHandler) UpdateNotificationSettings(c *gin.Context) {
	var body updateNotificationSettingsRequest
	if !bindAndValidate(c, &body) {
		return
	}

	settings, err := h.svc.UpdateNotificationSettings(requestContext(c), currentUserID(c), services.UpdateNotificationSettingsInput{
		EmailNotifications:  body.EmailNotifications,
		ComplianceReminders: body.ComplianceReminders,
		DonationReceipts:    body.DonationReceipts,
		WeeklyDigest:        body.WeeklyDigest,
	})
	if err != nil {
		if errors.Is(err, services.ErrNotificationSettingsNotFound) {
			response.Error(c, appErrors.ErrNotFound)
			return
		}
		response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
		return
	}
	response.Success(c, http.StatusOK, settings)
}

// GET /api/settings/dashboard
func (h *SettingsHandler) GetDashboardConfig(c *gin.Context) {
	config, err := h.svc.DashboardConfig(requestContext(c), tenantID(c))
	if err != nil {
		if errors.Is(err, services.ErrDashboardConfigNotFound) {
			response.Error(c, appErrors.ErrNotFound)
			return
		}
		response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
		return
	}
	response.Success(c, http.StatusOK, config)
}

// PATCH /api/settings/dashboard
func (h *SettingsHandler) UpdateDashboardConfig(c *gin.Context) {
	var body updateDashboardConfigRequest
	if !bindAndValidate(c, &body) {
		return
	}

	config, err := h.svc.UpdateDashboardConfig(requestContext(c), tenantID(c), services.UpdateDashboardConfigInput{
		HeaderTitle:    body.HeaderTitle,
		HeaderSubtitle: body.HeaderSubtitle,
	})
	if err != nil {
		if errors.Is(err, services.ErrDashboardConfigNotFound) {
			response.Error(c, appErrors.ErrNotFound)
			return
		}
		response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
		return
	}
	response.Success(c, http.StatusOK, config)
}
