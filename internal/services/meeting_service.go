package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/AiMagic5000/508-ministry-dashboard/internal/models"
)

// ErrMeetingNotFound indicates the requested meeting does not exist in the tenant.
var ErrMeetingNotFound = errors.New("meeting service: meeting not found")

// CreateMeetingInput captures the attributes required to record a meeting.
type CreateMeetingInput struct {
	MeetingType string
	Title       string
	Date        time.Time
	Location    string
	Attendees   []string
	Agenda      string
	QuorumMet   *bool
	Notes       string
}

// UpdateMeetingInput represents mutable meeting fields.
type UpdateMeetingInput struct {
	Title     *string
	Date      *time.Time
	Location  *string
	Attendees []string
	Agenda    *string
	QuorumMet *bool
	Notes     *string
}

// MeetingService manages meeting minutes within one tenant.
type MeetingService struct {
	db       *gorm.DB
	activity *ActivityService
}

// NewMeetingService constructs a MeetingService instance.
func NewMeetingService(db *gorm.DB, activity *ActivityService) (*MeetingService, error) {
	if db == nil {
		return nil, errors.New("meeting service: db is required")
	}
	return &MeetingService{db: db, activity: activity}, nil
}

// List returns meetings for an organization, most recent first.
func (s *MeetingService) List(ctx context.Context, organizationID, meetingType string) ([]models.Meeting, error) {
	ctx = ensureContext(ctx)

	query := s.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("date DESC")
	if meetingType != "" {
		query = query.Where("meeting_type = ?", meetingType)
	}

	var meetings []models.Meeting
	if err := query.Find(&meetings).Error; err != nil {
		return nil, fmt.Errorf("meeting service: list meetings: %w", err)
	}
	return meetings, nil
}

// Create records a new meeting with its minutes.
func (s *MeetingService) Create(ctx context.Context, organizationID string, input CreateMeetingInput) (*models.Meeting, error) {
	ctx = ensureContext(ctx)

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, errors.New("meeting service: title is required")
	}
	if input.Date.IsZero() {
		return nil, errors.New("meeting service: date is required")
	}

	meetingType := strings.TrimSpace(input.MeetingType)
	if meetingType == "" {
		meetingType = models.MeetingTypeBoard
	}

	attendees, err := marshalAttendees(input.Attendees)
	if err != nil {
		return nil, err
	}

	meeting := &models.Meeting{
		OrganizationID: organizationID,
		MeetingType:    meetingType,
		Title:          title,
		Date:           input.Date,
		Location:       strings.TrimSpace(input.Location),
		Attendees:      attendees,
		Agenda:         input.Agenda,
		QuorumMet:      input.QuorumMet,
		Notes:          input.Notes,
	}

	if err := s.db.WithContext(ctx).Create(meeting).Error; err != nil {
		return nil, fmt.Errorf("meeting service: create meeting: %w", err)
	}

	recordActivity(s.activity, ctx, ActivityEntry{
		OrganizationID: organizationID,
		Action:         "created",
		ResourceType:   "meeting",
		ResourceID:     meeting.ID,
		Details:        map[string]any{"title": title, "meeting_type": meetingType},
	})

	return meeting, nil
}

// Update modifies an existing meeting within the tenant.
func (s *MeetingService) Update(ctx context.Context, organizationID, id string, input UpdateMeetingInput) (*models.Meeting, error) {
	ctx = ensureContext(ctx)

	meeting, err := s.getScoped(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Title != nil {
		if v := strings.TrimSpace(*input.Title); v != "" {
			updates["title"] = v
		}
	}
	if input.Date != nil && !input.Date.IsZero() {
		updates["date"] = *input.Date
	}
	if input.Location != nil {
		updates["location"] = strings.TrimSpace(*input.Location)
	}
	if input.Attendees != nil {
		attendees, err := marshalAttendees(input.Attendees)
		if err != nil {
			return nil, err
		}
		updates["attendees"] = attendees
	}
	if input.Agenda != nil {
		updates["agenda"] = *input.Agenda
	}
	if input.QuorumMet != nil {
		updates["quorum_met"] = *input.QuorumMet
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}

	if len(updates) == 0 {
		return meeting, nil
	}

	if err := s.db.WithContext(ctx).Model(meeting).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("meeting service: update meeting: %w", err)
	}
	return meeting, nil
}

// Delete removes a meeting from the tenant.
func (s *MeetingService) Delete(ctx context.Context, organizationID, id string) error {
	ctx = ensureContext(ctx)

	meeting, err := s.getScoped(ctx, organizationID, id)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(meeting).Error; err != nil {
		return fmt.Errorf("meeting service: delete meeting: %w", err)
	}

	recordActivity(s.activity, ctx, ActivityEntry{
		OrganizationID: organizationID,
		Action:         "deleted",
		ResourceType:   "meeting",
		ResourceID:     id,
	})
	return nil
}

func (s *MeetingService) getScoped(ctx context.Context, organizationID, id string) (*models.Meeting, error) {
	var meeting models.Meeting
	err := s.db.WithContext(ctx).First(&meeting, "id = ? AND organization_id = ?", id, organizationID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMeetingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("meeting service: load meeting: %w", err)
	}
	return &meeting, nil
}

func marshalAttendees(attendees []string) (datatypes.JSON, error) {
	if attendees == nil {
		attendees = []string{}
	}
	encoded, err := json.Marshal(attendees)
	if err != nil {
		return nil, fmt.Errorf("meeting service: marshal attendees: %w", err)
	}
	return datatypes.JSON(encoded), nil
}
