package conversation

import (
	"time"

	"homework_bot/internal/domain/homework"
	"homework_bot/internal/domain/schedule"
)

// Key identifies a dialog: the same operator may run separate dialogs in separate chats.
type Key struct {
	UserID int64
	ChatID int64
}

// Fields accumulates the answers collected across turns.
type Fields struct {
	Date        time.Time
	Subject     string
	Description string
	Attachments []homework.Attachment
	Day         schedule.Day
	// MenuMessageID is the bot message holding the current inline menu. It is
	// retired when the dialog ends without that menu being pressed.
	MenuMessageID int
}

// Session is the per-dialog state. The zero value is idle.
type Session struct {
	State  State
	Fields Fields
}

func (s *Session) Active() bool {
	return s != nil && s.State != StateIdle
}

// Store keeps sessions between turns. Implementations must be safe for
// concurrent use by different keys.
type Store interface {
	// Get returns a copy of the session, or nil when the key is idle.
	Get(key Key) *Session
	Put(key Key, s *Session)
	Clear(key Key)
}
