// internal/infra/telegram/client.go
package telegram

import (
	"fmt"
	"strconv"

	"homework_bot/internal/domain/homework"

	"gopkg.in/telebot.v3"
)

// TelebotAdapter implements the Client interface using the gopkg.in/telebot.v3 library.
type TelebotAdapter struct {
	bot *telebot.Bot
}

func NewTelebotAdapter(b *telebot.Bot) *TelebotAdapter {
	return &TelebotAdapter{bot: b}
}

// SendMessage sends a text message to a private chat or group.
func (tba *TelebotAdapter) SendMessage(chatID int64, text string, options *telebot.SendOptions) (*telebot.Message, error) {
	if options == nil {
		options = &telebot.SendOptions{}
	}
	return tba.bot.Send(telebot.ChatID(chatID), text, options)
}

// SendMedia resends a stored file by its Telegram file id.
func (tba *TelebotAdapter) SendMedia(chatID int64, a homework.Attachment, caption string) (*telebot.Message, error) {
	var what telebot.Sendable
	switch a.Kind {
	case homework.KindPhoto:
		what = &telebot.Photo{File: telebot.File{FileID: a.FileID}, Caption: caption}
	case homework.KindDocument:
		what = &telebot.Document{File: telebot.File{FileID: a.FileID}, Caption: caption}
	default:
		return nil, fmt.Errorf("unsupported attachment kind %q", a.Kind)
	}
	return tba.bot.Send(telebot.ChatID(chatID), what)
}

func (tba *TelebotAdapter) EditMessage(chatID int64, messageID int, text string, options *telebot.SendOptions) error {
	msg := telebot.StoredMessage{MessageID: strconv.Itoa(messageID), ChatID: chatID}
	var err error
	if options != nil {
		_, err = tba.bot.Edit(msg, text, options)
	} else {
		_, err = tba.bot.Edit(msg, text)
	}
	return err
}

func (tba *TelebotAdapter) DeleteMessage(chatID int64, messageID int) error {
	return tba.bot.Delete(telebot.StoredMessage{MessageID: strconv.Itoa(messageID), ChatID: chatID})
}

func (tba *TelebotAdapter) RespondCallback(callbackID string, text string, alert bool) error {
	return tba.bot.Respond(&telebot.Callback{ID: callbackID}, &telebot.CallbackResponse{Text: text, ShowAlert: alert})
}
