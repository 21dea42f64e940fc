package app

import (
	"time"

	"gopkg.in/telebot.v3"
)

// ExpiryCategory selects how long a transient message stays visible.
type ExpiryCategory int

const (
	ExpireDefault ExpiryCategory = iota
	ExpireWelcome
	ExpireSchedule
	ExpireContent
)

// Expirer arranges deletion of bot messages that should not clutter a chat.
type Expirer interface {
	Expire(msg *telebot.Message, category ExpiryCategory)
}

// DeletionScheduler deletes a message after a delay. Failures are its own concern.
type DeletionScheduler interface {
	Schedule(chatID int64, messageID int, delay time.Duration)
}

type ExpiryDelays struct {
	Default  time.Duration
	Welcome  time.Duration
	Schedule time.Duration
	Content  time.Duration
}

func DefaultExpiryDelays() ExpiryDelays {
	return ExpiryDelays{
		Default:  30 * time.Second,
		Welcome:  60 * time.Second,
		Schedule: 60 * time.Second,
		Content:  120 * time.Second,
	}
}

// MessageExpirer maps categories to delays and hands messages to a scheduler.
type MessageExpirer struct {
	scheduler DeletionScheduler
	delays    ExpiryDelays
}

func NewMessageExpirer(scheduler DeletionScheduler, delays ExpiryDelays) *MessageExpirer {
	return &MessageExpirer{scheduler: scheduler, delays: delays}
}

func (e *MessageExpirer) Expire(msg *telebot.Message, category ExpiryCategory) {
	if msg == nil || msg.Chat == nil {
		return
	}
	e.scheduler.Schedule(msg.Chat.ID, msg.ID, e.delay(category))
}

func (e *MessageExpirer) delay(category ExpiryCategory) time.Duration {
	var d time.Duration
	switch category {
	case ExpireWelcome:
		d = e.delays.Welcome
	case ExpireSchedule:
		d = e.delays.Schedule
	case ExpireContent:
		d = e.delays.Content
	}
	if d <= 0 {
		d = e.delays.Default
	}
	return d
}
