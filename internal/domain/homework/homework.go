package homework

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire and storage format of homework dates.
const DateLayout = "2006-01-02"

// AttachmentKind tells the transport how to resend an attachment.
type AttachmentKind string

const (
	KindPhoto    AttachmentKind = "photo"
	KindDocument AttachmentKind = "document"
)

// Attachment is a file already uploaded to Telegram, referenced by its file id.
// Corresponds to the 'homework_attachments' table.
type Attachment struct {
	FileID string         `db:"file_id"`
	Kind   AttachmentKind `db:"file_type"`
}

// Entry is one homework assignment for a subject on a date.
// Corresponds to the 'homework' table.
type Entry struct {
	ID          int64
	Subject     string
	Date        time.Time // date part only
	Description string
	Attachments []Attachment
}

var ErrInvalidEntry = fmt.Errorf("homework entry is missing subject or date")

// Validate rejects entries that must never reach storage.
func (e *Entry) Validate() error {
	if e.Date.IsZero() || strings.TrimSpace(e.Subject) == "" {
		return ErrInvalidEntry
	}
	return nil
}

// DateKey formats a date the way it is stored and sent in callback payloads.
func DateKey(d time.Time) string {
	return d.Format(DateLayout)
}

// ParseDate parses an ISO calendar date.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	d, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return d, nil
}

// Truncate returns midnight of t's calendar day in t's location.
func Truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
