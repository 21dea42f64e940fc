package app

import (
	"context"

	"homework_bot/internal/domain/conversation"
	domainTelegram "homework_bot/internal/domain/telegram"

	"github.com/sirupsen/logrus"
)

// BotService routes inbound events to the viewer and operator services.
type BotService struct {
	conversation *ConversationService
	viewer       *ViewerService
	client       domainTelegram.Client
	logger       *logrus.Entry
}

func NewBotService(cs *ConversationService, vs *ViewerService, tc domainTelegram.Client, logger *logrus.Entry) *BotService {
	return &BotService{
		conversation: cs,
		viewer:       vs,
		client:       tc,
		logger:       logger,
	}
}

// entryLabels maps operator panel buttons to the workflow they open.
var entryLabels = map[string]conversation.Workflow{
	LabelAddHomework:    conversation.WorkflowAddHomework,
	LabelDeleteHomework: conversation.WorkflowDeleteHomework,
	LabelEditSchedule:   conversation.WorkflowEditSchedule,
	LabelBroadcast:      conversation.WorkflowBroadcast,
}

// panelLabels drive the operator panel itself and never count as dialog input.
var panelLabels = map[string]bool{
	LabelAdminPanel: true,
	LabelBack:       true,
}

// HandleEvent processes one turn. Cancel wins over everything, then workflow
// entries and panel buttons, then the active dialog, then menus. Anything
// left is ignored.
func (s *BotService) HandleEvent(ctx context.Context, ev Event) error {
	logger := s.logger.WithFields(logrus.Fields{
		"sender_id": ev.UserID,
		"chat_id":   ev.ChatID,
		"kind":      ev.Kind,
	})

	if ev.Kind == EventCallback {
		reply, err := s.handleCallback(ctx, ev)
		if respErr := s.client.RespondCallback(ev.CallbackID, reply.Text, reply.Alert); respErr != nil {
			logger.WithError(respErr).Warn("Failed to answer callback")
		}
		return err
	}

	switch {
	case ev.Kind == EventJoined:
		return s.viewerDone(ev, s.viewer.Joined(ctx, ev))
	case s.isCancel(ev):
		s.conversation.Cancel(ev)
		return nil
	}

	if ev.Kind == EventText {
		if wf, ok := entryLabels[ev.Text]; ok && s.conversation.authorized(ev) {
			return s.conversation.Start(ctx, ev, wf)
		}
		if panelLabels[ev.Text] {
			return s.handleLabel(ctx, ev)
		}
	}

	if s.conversation.Active(ev) {
		done := ev.Kind == EventCommand && ev.Text == CmdDone
		if ev.Kind != EventCommand || done {
			_, err := s.conversation.HandleInput(ctx, ev, done)
			return err
		}
	}

	switch ev.Kind {
	case EventCommand:
		return s.handleCommand(ctx, ev)
	case EventText:
		return s.handleLabel(ctx, ev)
	}
	return nil
}

func (s *BotService) isCancel(ev Event) bool {
	switch ev.Kind {
	case EventCommand:
		return ev.Text == CmdCancel
	case EventText:
		return ev.Text == LabelCancel
	}
	return false
}

func (s *BotService) handleCommand(ctx context.Context, ev Event) error {
	switch ev.Text {
	case CmdStart:
		return s.viewerDone(ev, s.viewer.Start(ctx, ev))
	case CmdHelp:
		s.viewer.Help(ev)
	case CmdHomework:
		s.viewer.DateMenu(ev)
	case CmdSchedule, CmdScheduleRS:
		s.viewer.WeekMenu(ev)
	case CmdAdmin:
		s.conversation.OpenPanel(ev)
	}
	return nil
}

func (s *BotService) handleLabel(ctx context.Context, ev Event) error {
	switch ev.Text {
	case LabelHelp:
		s.viewer.Help(ev)
	case LabelHomeworkByDate:
		s.viewer.DateMenu(ev)
	case LabelSchedule, LabelWeekSchedule:
		s.viewer.WeekMenu(ev)
	case LabelAdminPanel:
		s.conversation.OpenPanel(ev)
	case LabelBack:
		s.conversation.ClosePanel(ev)
	}
	return nil
}

func (s *BotService) handleCallback(ctx context.Context, ev Event) (CallbackReply, error) {
	switch ev.Action {
	case ActionCancel:
		return s.conversation.Cancel(ev), nil
	case ActionViewDate:
		return viewerAnswer(s.viewer.ShowSubjects(ctx, ev))
	case ActionViewHomework:
		return viewerAnswer(s.viewer.ShowHomework(ctx, ev))
	case ActionViewSchedule:
		return viewerAnswer(s.viewer.ShowSchedule(ctx, ev))
	default:
		return s.conversation.HandleCallback(ctx, ev)
	}
}

// viewerDone apologizes to the chat when a viewer request failed in storage.
// Operator dialogs do this themselves when they abort.
func (s *BotService) viewerDone(ev Event, err error) error {
	if err != nil {
		s.viewer.Apologize(ev)
	}
	return err
}

// viewerAnswer turns a failed viewer button into an apology on the button.
func viewerAnswer(reply CallbackReply, err error) (CallbackReply, error) {
	if err != nil {
		return CallbackReply{Text: msgGenericFailure, Alert: true}, err
	}
	return reply, nil
}
