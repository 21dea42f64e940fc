package app

import (
	"strings"

	"homework_bot/internal/domain/conversation"
	"homework_bot/internal/domain/homework"
)

type EventKind int

const (
	EventText EventKind = iota
	EventCommand
	EventCallback
	EventAttachment
	// EventJoined means the bot became a member of a chat.
	EventJoined
)

// Event is one inbound turn, already stripped of transport details.
type Event struct {
	Kind      EventKind
	UserID    int64
	ChatID    int64
	Private   bool
	FirstName string

	// Text holds message text, a media caption, or a command name without the slash.
	Text string

	// Callback fields.
	Action     string
	Payload    string
	CallbackID string
	MessageID  int

	Attachment *homework.Attachment

	// Greet is set on EventJoined when the chat should get a hello message.
	Greet bool
}

func (e Event) Key() conversation.Key {
	return conversation.Key{UserID: e.UserID, ChatID: e.ChatID}
}

// PayloadParts splits a multi-value callback payload.
func (e Event) PayloadParts() []string {
	if e.Payload == "" {
		return nil
	}
	return strings.Split(e.Payload, "|")
}

// Command names, without the leading slash.
const (
	CmdStart      = "start"
	CmdHelp       = "help"
	CmdCancel     = "cancel"
	CmdDone       = "done"
	CmdAdmin      = "admin"
	CmdHomework   = "dzd"
	CmdSchedule   = "raspisanie"
	CmdScheduleRS = "rs"
)

// Callback actions. They travel as telebot button uniques.
const (
	ActionCancel        = "cancel_action"
	ActionAddDate       = "add_date"
	ActionSelectSubject = "sel_subj"
	ActionDeleteDate    = "del_date"
	ActionDeleteSubject = "del_subj"
	ActionScheduleDay   = "sched_day"
	ActionViewDate      = "dzd_date"
	ActionViewHomework  = "hw"
	ActionViewSchedule  = "view_sched"
)

// CallbackActions lists every action the transport must route to the dispatcher.
func CallbackActions() []string {
	return []string{
		ActionCancel, ActionAddDate, ActionSelectSubject, ActionDeleteDate, ActionDeleteSubject,
		ActionScheduleDay, ActionViewDate, ActionViewHomework, ActionViewSchedule,
	}
}

// CallbackReply is the short notice shown on a pressed button.
type CallbackReply struct {
	Text  string
	Alert bool
}
