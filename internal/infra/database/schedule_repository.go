package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"homework_bot/internal/domain/schedule"

	"github.com/jmoiron/sqlx"
)

// ScheduleRepository keys rows by the Russian day name.
type ScheduleRepository struct {
	db *sqlx.DB
}

func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

func (r *ScheduleRepository) Upsert(ctx context.Context, day schedule.Day, lessons string) error {
	query := r.db.Rebind(`INSERT INTO schedule (day_name, lessons) VALUES (?, ?)
               ON CONFLICT (day_name) DO UPDATE SET lessons = excluded.lessons`)
	if _, err := r.db.ExecContext(ctx, query, day.Name(), lessons); err != nil {
		return fmt.Errorf("error saving schedule for %s: %w", day.Name(), err)
	}
	return nil
}

func (r *ScheduleRepository) Get(ctx context.Context, day schedule.Day) (string, error) {
	var lessons string
	err := r.db.GetContext(ctx, &lessons, r.db.Rebind(`SELECT lessons FROM schedule WHERE day_name = ?`), day.Name())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", schedule.ErrScheduleNotFound
		}
		return "", fmt.Errorf("error getting schedule for %s: %w", day.Name(), err)
	}
	return lessons, nil
}
