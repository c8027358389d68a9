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

type MeetingHandler struct {
	svc *services.MeetingService
}

func NewMeetingHandler(db *gorm.DB) (*MeetingHandler, error) {
	activity, err := services.NewActivityService(db)
	if err != nil {
		return nil, err
	}
	svc, err := services.NewMeetingService(db, activity)
	if err != nil {
		return nil, err
	}
	return &MeetingHandler{svc: svc}, nil
}

type createMeetingRequest struct {
	MeetingType string    `json:"meeting_type" validate:"omitempty,oneof=board congregation special committee"`
	Title       string    `json:"title" validate:"required,min=1,max=256"`
	Date        time.Time `json:"date" validate:"required"`
	Location    string    `json:"location" validate:"omitempty,max=256"`
	Attendees   []string  `json:"attendees"`
	Agenda      string    `json:"agenda" validate:"omitempty,max=4096"`
	QuorumMet   *bool     `json:"quorum_met"`
	Notes       string    `json:"notes" validate:"omitempty,max=8192"`
}

type updateMeetingRequest struct {
	Title     *string    `json:"title" validate:"omitempty,min=1,max=256"`
	Date      *time.Time `json:"date"`
	Location  *string    `json:"location" validate:"omitempty,max=256"`
	Attendees []string   `json:"attendees"`
	Agenda    *string    `json:"agenda" validate:"omitempty,max=4096"`
	QuorumMet *bool      `json:"quorum_met"`
	Notes     *string    `json:"notes" validate:"omitempty,max=8192"`
}

// GET /api/meetings
func (h *MeetingHandler) List(c *gin.Context) {
	meetings, err := h.svc.List(requestContext(c), tenantID(c), c.Query("type"))
	if err != nil {
		response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
		return
	}
	response.Success(c, http.StatusOK, meetings)
}

// POST /api/meetings
func (h *MeetingHandler) Create(c *gin.Context) {
	var body createMeetingRequest
	if !bindAndValidate(c, &body) {
		return
	}

	meeting, err := h.svc.Create(requestContext(c), tenantID(c), services.CreateMeetingInput{
		MeetingType: body.MeetingType,
		Title:       body.Title,
		Date:        body.Date,
		Location:    body.Location,
		Attendees:   body.Attendees,
		Agenda:      body.Agenda,
		QuorumMet:   body.QuorumMet,
		Notes:       body.Notes,
	})
	if err != nil {
		response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
		return
	}
	response.Success(c, http.StatusCreated, meeting)
}

// PATCH /api/meetings/:id
func (h *MeetingHandler) Update(c *gin.Context) {
	var body updateMeetingRequest
	if !bindAndValidate(c, &body) {
		return
	}

	meeting, err := h.svc.Update(requestContext(c), tenantID(c), c.Param("id"), services.UpdateMeetingInput{
		Title:     body.Title,
		Date:      body.Date,
		Location:  body.Location,
		Attendees: body.Attendees,
		Agenda:    body.Agenda,
		QuorumMet: body.QuorumMet,
		Notes:     body.Notes,
	})
	if err != nil {
		if errors.Is(err, services.ErrMeetingNotFound) {
			response.Error(c, appErrors.ErrNotFound)
			return
		}
		response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
		return
	}
	response.Success(c, http.StatusOK, meeting)
}

// DELETE /api/meetings/:id
func (h *MeetingHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(requestContext(c), tenantID(c), c.Param("id")); err != nil {
		if errors.Is(err, services.ErrMeetingNotFound) {
			response.Error(c, appErrors.ErrNotFound)
			return
		}
		response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
