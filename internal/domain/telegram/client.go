package telegram

import (
	"homework_bot/internal/domain/homework"

	"gopkg.in/telebot.v3"
)

// Client defines the outbound operations the bot needs from Telegram.
// This keeps application logic independent from the bot library's Bot type.
type Client interface {
	SendMessage(chatID int64, text string, options *telebot.SendOptions) (*telebot.Message, error)
	// SendMedia resends an already uploaded file, optionally with a caption.
	SendMedia(chatID int64, attachment homework.Attachment, caption string) (*telebot.Message, error)
	EditMessage(chatID int64, messageID int, text string, options *telebot.SendOptions) error
	DeleteMessage(chatID int64, messageID int) error
	RespondCallback(callbackID string, text string, alert bool) error
}
