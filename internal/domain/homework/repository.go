package homework

import (
	"context"
	"time"
)

// Repository defines the operations for persisting homework entries.
type Repository interface {
	// Insert stores the entry with its attachments atomically and sets entry.ID.
	Insert(ctx context.Context, entry *Entry) (int64, error)
	// ListSubjectsForDate returns distinct subjects in first-insert order.
	ListSubjectsForDate(ctx context.Context, date time.Time) ([]string, error)
	ListBySubject(ctx context.Context, date time.Time, subject string) ([]*Entry, error)
	// DeleteBySubject removes every entry (and attachment) for the date and subject.
	DeleteBySubject(ctx context.Context, date time.Time, subject string) (int64, error)
}
