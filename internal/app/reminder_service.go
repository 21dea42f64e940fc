package app

import (
	"context"
	"fmt"
	"time"

	"homework_bot/internal/domain/homework"

	"github.com/sirupsen/logrus"
)

// ReminderService nudges every chat the day before homework is due.
type ReminderService struct {
	homeworkRepo homework.Repository
	broadcaster  Broadcaster
	logger       *logrus.Entry
}

func NewReminderService(hr homework.Repository, b Broadcaster, logger *logrus.Entry) *ReminderService {
	return &ReminderService{homeworkRepo: hr, broadcaster: b, logger: logger}
}

// SendTomorrowReminder broadcasts a reminder if anything is due the day after
// now. It returns the number of chats reached, zero when nothing is due.
func (s *ReminderService) SendTomorrowReminder(ctx context.Context, now time.Time) (int, error) {
	tomorrow := homework.Truncate(now).AddDate(0, 0, 1)
	logger := s.logger.WithField("date", homework.DateKey(tomorrow))

	subjects, err := s.homeworkRepo.ListSubjectsForDate(ctx, tomorrow)
	if err != nil {
		return 0, fmt.Errorf("failed to check homework for %s: %w", homework.DateKey(tomorrow), err)
	}
	if len(subjects) == 0 {
		logger.Info("No homework due tomorrow, reminder skipped")
		return 0, nil
	}

	msg := Message{Text: fmt.Sprintf("🔔 Напоминание!\nНе забудьте сделать ДЗ на завтра (%s).\nВведите /%s, чтобы посмотреть.",
		displayDate(tomorrow), CmdHomework)}
	delivered, err := s.broadcaster.Broadcast(ctx, msg)
	if err != nil {
		return delivered, fmt.Errorf("failed to broadcast reminder: %w", err)
	}
	logger.WithFields(logrus.Fields{"subjects": len(subjects), "delivered": delivered}).Info("Reminder sent")
	return delivered, nil
}
