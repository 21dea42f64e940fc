package telegram

import (
	"context"

	"homework_bot/internal/app"
	"homework_bot/internal/domain/homework"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// EventHandler consumes transport-neutral events.
type EventHandler interface {
	HandleEvent(ctx context.Context, ev app.Event) error
}

var commands = []string{
	app.CmdStart, app.CmdHelp, app.CmdCancel, app.CmdDone, app.CmdAdmin,
	app.CmdHomework, app.CmdSchedule, app.CmdScheduleRS,
}

// RegisterHandlers routes every update the bot cares about to h.
func RegisterHandlers(ctx context.Context, b *telebot.Bot, h EventHandler, baseLogger *logrus.Entry) {
	dispatch := func(name string, build func(c telebot.Context) (app.Event, bool)) telebot.HandlerFunc {
		return func(c telebot.Context) error {
			ev, ok := build(c)
			if !ok {
				return nil
			}
			logCtx := baseLogger.WithFields(logrus.Fields{
				"handler":   name,
				"sender_id": ev.UserID,
				"chat_id":   ev.ChatID,
			})
			logCtx.Debug("Update received")
			if err := h.HandleEvent(ctx, ev); err != nil {
				logCtx.WithError(err).Error("Failed to handle update")
			}
			return nil
		}
	}

	for _, cmd := range commands {
		cmd := cmd
		b.Handle("/"+cmd, dispatch("/"+cmd, func(c telebot.Context) (app.Event, bool) {
			ev := baseEvent(c, app.EventCommand)
			ev.Text = cmd
			return ev, true
		}))
	}

	for _, action := range app.CallbackActions() {
		b.Handle(&telebot.Btn{Unique: action}, dispatch("callback:"+action, callbackEvent))
	}

	b.Handle(telebot.OnText, dispatch("text", func(c telebot.Context) (app.Event, bool) {
		ev := baseEvent(c, app.EventText)
		ev.Text = c.Text()
		return ev, true
	}))
	b.Handle(telebot.OnPhoto, dispatch("photo", attachmentEvent))
	b.Handle(telebot.OnDocument, dispatch("document", attachmentEvent))

	b.Handle(telebot.OnAddedToGroup, dispatch("added_to_group", func(c telebot.Context) (app.Event, bool) {
		ev := baseEvent(c, app.EventJoined)
		ev.Greet = true
		return ev, true
	}))
	b.Handle(telebot.OnMyChatMember, dispatch("my_chat_member", memberEvent))
}

func baseEvent(c telebot.Context, kind app.EventKind) app.Event {
	ev := app.Event{Kind: kind}
	if s := c.Sender(); s != nil {
		ev.UserID = s.ID
		ev.FirstName = s.FirstName
	}
	if chat := c.Chat(); chat != nil {
		ev.ChatID = chat.ID
		ev.Private = chat.Type == telebot.ChatPrivate
	}
	return ev
}

func callbackEvent(c telebot.Context) (app.Event, bool) {
	cb := c.Callback()
	if cb == nil {
		return app.Event{}, false
	}
	ev := baseEvent(c, app.EventCallback)
	ev.Action = cb.Unique
	ev.Payload = cb.Data
	ev.CallbackID = cb.ID
	if cb.Message != nil {
		ev.MessageID = cb.Message.ID
	}
	return ev, true
}

func attachmentEvent(c telebot.Context) (app.Event, bool) {
	msg := c.Message()
	if msg == nil {
		return app.Event{}, false
	}
	ev := baseEvent(c, app.EventAttachment)
	ev.Text = msg.Caption
	switch {
	case msg.Photo != nil:
		ev.Attachment = &homework.Attachment{FileID: msg.Photo.FileID, Kind: homework.KindPhoto}
	case msg.Document != nil:
		ev.Attachment = &homework.Attachment{FileID: msg.Document.FileID, Kind: homework.KindDocument}
	default:
		return app.Event{}, false
	}
	return ev, true
}

// memberEvent registers chats where the bot became a member or admin again.
func memberEvent(c telebot.Context) (app.Event, bool) {
	upd := c.ChatMember()
	if upd == nil || upd.NewChatMember == nil {
		return app.Event{}, false
	}
	switch upd.NewChatMember.Role {
	case telebot.Member, telebot.Administrator:
	default:
		return app.Event{}, false
	}
	ev := app.Event{Kind: app.EventJoined}
	if upd.Chat != nil {
		ev.ChatID = upd.Chat.ID
		ev.Private = upd.Chat.Type == telebot.ChatPrivate
	}
	if upd.Sender != nil {
		ev.UserID = upd.Sender.ID
	}
	return ev, ev.ChatID != 0
}
