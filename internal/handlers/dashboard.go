package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/AiMagic5000/508-ministry-dashboard/internal/services"
	appErrors "github.com/AiMagic5000/508-ministry-dashboard/pkg/errors"
	"github.com/AiMagic5000/508-ministry-dashboard/pkg/response"
)

type DashboardHandler struct {
	svc      *services.DashboardService
	activity *services.ActivityService
}

func NewDashboardHandler(db *gorm.DB) (*DashboardHandler, error) {
	activity, err := services.NewActivityService(db)
	if err != nil {
		return nil, err
	}
	compliance, err := services.NewComplianceService(db, activity)
	if err != nil {
		return nil, err
	}
	svc, err := services.NewDashboardService(db, compliance, activity)
	if err != nil {
		return nil, err
	}
	return &DashboardHandler{svc: svc, activity: activity}, nil
}

// GET /api/dashboard/stats
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(requestContext(c), tenantID(c))
	if err != nil {
		response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
		return
	}
	response.Success(c, http.StatusOK, stats)
}

// GET /api/dashboard/activity
func (h *DashboardHandler) Activity(c *gin.Context) {
	limit := parseIntQuery(c, "limit", 20)
	entries, err := h.activity.List(requestContext(c), tenantID(c), limit)
	if err != nil {
		response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
		return
	}
	response.Success(c, http.StatusOK, entries)
}
