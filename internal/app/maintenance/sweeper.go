package maintenance

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/AiMagic5000/508-ministry-dashboard/internal/models"
	"github.com/AiMagic5000/508-ministry-dashboard/internal/services"
	"github.com/AiMagic5000/508-ministry-dashboard/pkg/logger"
)

const (
	defaultSchedule              = "@daily"
	defaultReminderWindow        = 3 * 24 * time.Hour
	defaultActivityRetentionDays = 365
)

// Sweeper coordinates background maintenance: flipping overdue compliance
// items, publishing due-date reminders to each tenant's notification feed,
// and pruning old activity log entries.
type Sweeper struct {
	db            *gorm.DB
	compliance    *services.ComplianceService
	notifications *services.NotificationService
	activity      *services.ActivityService
	cron          *cron.Cron
	log           *zap.Logger

	schedule       string
	reminderWindow time.Duration
	retentionDays  int
}

// Option customises the Sweeper.
type Option func(*Sweeper)

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) Option {
	return func(s *Sweeper) {
		if c != nil {
			s.cron = c
		}
	}
}

// WithSchedule overrides the cron specification for the sweep.
func WithSchedule(spec string) Option {
	return func(s *Sweeper) {
		if spec != "" {
			s.schedule = spec
		}
	}
}

// WithReminderWindow adjusts how far ahead of a due date reminders go out.
func WithReminderWindow(window time.Duration) Option {
	return func(s *Sweeper) {
		if window > 0 {
			s.reminderWindow = window
		}
	}
}

// WithActivityRetentionDays adjusts how long activity log entries are retained.
func WithActivityRetentionDays(days int) Option {
	return func(s *Sweeper) {
		if days > 0 {
			s.retentionDays = days
		}
	}
}

// NewSweeper constructs a Sweeper with sensible defaults.
func NewSweeper(db *gorm.DB, opts ...Option) (*Sweeper, error) {
	activity, err := services.NewActivityService(db)
	if err != nil {
		return nil, err
	}
	compliance, err := services.NewComplianceService(db, activity)
	if err != nil {
		return nil, err
	}
	notifications, err := services.NewNotificationService(db)
	if err != nil {
		return nil, err
	}

	s := &Sweeper{
		db:             db,
		compliance:     compliance,
		notifications:  notifications,
		activity:       activity,
		log:            logger.WithModule("maintenance"),
		schedule:       defaultSchedule,
		reminderWindow: defaultReminderWindow,
		retentionDays:  defaultActivityRetentionDays,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.cron == nil {
		s.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}

	return s, nil
}

// Start registers the sweep with the cron scheduler and launches it.
func (s *Sweeper) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, func() {
		if err := s.RunOnce(context.Background()); err != nil {
			s.log.Warn("maintenance sweep failed", zap.Error(err))
		}
	}); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop halts the underlying scheduler, waiting for any running jobs to complete.
func (s *Sweeper) Stop() context.Context {
	if s.cron == nil {
		return context.Background()
	}
	return s.cron.Stop()
}

// RunOnce executes all maintenance routines sequentially. Primarily used in
// tests and during graceful shutdown.
func (s *Sweeper) RunOnce(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var errs error

	if flipped, err := s.compliance.MarkOverdue(ctx); err != nil {
		errs = multierr.Append(errs, err)
	} else if flipped > 0 {
		s.log.Info("compliance items marked overdue", zap.Int64("count", flipped))
	}

	if err := s.sendReminders(ctx); err != nil {
		errs = multierr.Append(errs, err)
	}

	if s.retentionDays > 0 {
		if _, err := s.activity.CleanupOlderThan(ctx, s.retentionDays); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	return errs
}

// sendReminders publishes one notification per compliance item approaching its
// due date. Each item is reminded about at most once.
func (s *Sweeper) sendReminders(ctx context.Context) error {
	items, err := s.compliance.DueForReminder(ctx, s.reminderWindow)
	if err != nil {
		return err
	}

	var errs error
	for _, item := range items {
		_, err := s.notifications.Create(ctx, item.OrganizationID, services.CreateNotificationInput{
			NotificationType: models.NotificationTypeReminder,
			Title:            fmt.Sprintf("Compliance task due soon: %s", item.Title),
			Message:          reminderMessage(item),
			ActionURL:        "/compliance",
			Priority:         item.Priority,
		})
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if err := s.compliance.MarkReminderSent(ctx, item.ID); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

func reminderMessage(item models.ComplianceItem) string {
	if item.DueDate == nil {
		return fmt.Sprintf("%q needs attention.", item.Title)
	}
	return fmt.Sprintf("%q is due on %s.", item.Title, item.DueDate.Format("January 2, 2006"))
}
