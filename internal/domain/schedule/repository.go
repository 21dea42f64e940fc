package schedule

import (
	"context"
	"fmt"
)

var ErrScheduleNotFound = fmt.Errorf("schedule for day not found")

// Repository stores one lesson list per school day.
type Repository interface {
	// Upsert creates or replaces the lessons text for the day.
	Upsert(ctx context.Context, day Day, lessons string) error
	// Get returns ErrScheduleNotFound when nothing is stored for the day.
	Get(ctx context.Context, day Day) (string, error)
}
