package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"homework_bot/internal/domain/homework"
	"homework_bot/internal/domain/schedule"
)

// SubjectService reconciles the weekly schedule with stored homework.
type SubjectService struct {
	homeworkRepo homework.Repository
	scheduleRepo schedule.Repository
}

func NewSubjectService(hr homework.Repository, sr schedule.Repository) *SubjectService {
	return &SubjectService{homeworkRepo: hr, scheduleRepo: sr}
}

// Scheduled returns the lessons of date's weekday, or nil for Sundays and
// days without a schedule.
func (s *SubjectService) Scheduled(ctx context.Context, date time.Time) ([]string, error) {
	day, ok := schedule.DayOf(date)
	if !ok {
		return nil, nil
	}
	text, err := s.scheduleRepo.Get(ctx, day)
	if err != nil {
		if errors.Is(err, schedule.ErrScheduleNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get schedule for %s: %w", day.Name(), err)
	}
	return schedule.ParseSubjects(text), nil
}

// WithHomework lists subjects that have homework on date.
func (s *SubjectService) WithHomework(ctx context.Context, date time.Time) ([]string, error) {
	subjects, err := s.homeworkRepo.ListSubjectsForDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list homework subjects for %s: %w", homework.DateKey(date), err)
	}
	return subjects, nil
}

// Menu is the schedule for date followed by any extra subjects that only
// appear in homework.
func (s *SubjectService) Menu(ctx context.Context, date time.Time) ([]string, error) {
	scheduled, err := s.Scheduled(ctx, date)
	if err != nil {
		return nil, err
	}
	withHomework, err := s.WithHomework(ctx, date)
	if err != nil {
		return nil, err
	}
	return schedule.MergeSubjects(scheduled, withHomework), nil
}

// ResolveTyped maps a subject typed by hand, possibly cut short, to a stored
// homework subject for date.
func (s *SubjectService) ResolveTyped(ctx context.Context, date time.Time, typed string) (string, error) {
	withHomework, err := s.WithHomework(ctx, date)
	if err != nil {
		return "", err
	}
	return schedule.ResolveTruncated(typed, withHomework), nil
}
