package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const reminderTimeout = 5 * time.Minute

// TomorrowReminder is the job run once a day.
type TomorrowReminder interface {
	SendTomorrowReminder(ctx context.Context, now time.Time) (int, error)
}

type ReminderScheduler struct {
	cronEngine *cron.Cron
	reminder   TomorrowReminder
	logger     *logrus.Entry
	cronSpec   string
	location   *time.Location
}

func NewReminderScheduler(
	reminder TomorrowReminder,
	logger *logrus.Entry,
	cronSpec string, // e.g., "0 15 * * *" (3 PM daily)
	location *time.Location,
) *ReminderScheduler {
	if location == nil {
		location = time.Local
	}
	return &ReminderScheduler{
		cronEngine: cron.New(cron.WithLocation(location)),
		reminder:   reminder,
		logger:     logger,
		cronSpec:   cronSpec,
		location:   location,
	}
}

// Start registers the daily reminder and starts the cron engine. Missed
// firings while the process is down are not replayed.
func (s *ReminderScheduler) Start() error {
	s.logger.Info("Starting reminder scheduler...")

	if _, err := s.cronEngine.AddFunc(s.cronSpec, s.RunOnce); err != nil {
		return fmt.Errorf("could not add daily reminder cron job %q: %w", s.cronSpec, err)
	}

	s.cronEngine.Start()
	s.logger.WithField("cron_spec", s.cronSpec).Info("Reminder scheduler started.")
	return nil
}

// RunOnce fires the reminder immediately.
func (s *ReminderScheduler) RunOnce() {
	s.logger.Info("Cron job triggered for tomorrow's homework reminder.")
	ctx, cancel := context.WithTimeout(context.Background(), reminderTimeout)
	defer cancel()

	delivered, err := s.reminder.SendTomorrowReminder(ctx, time.Now().In(s.location))
	if err != nil {
		s.logger.WithError(err).Error("Error during reminder processing")
		return
	}
	s.logger.WithField("delivered", delivered).Info("Reminder job finished.")
}

func (s *ReminderScheduler) Stop() {
	s.logger.Info("Stopping reminder scheduler...")
	ctx := s.cronEngine.Stop() // Stops the scheduler from adding new jobs, waits for running jobs.
	<-ctx.Done()
	s.logger.Info("Reminder scheduler gracefully stopped.")
}
