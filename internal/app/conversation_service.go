package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"homework_bot/internal/domain/conversation"
	"homework_bot/internal/domain/homework"
	"homework_bot/internal/domain/schedule"
	domainTelegram "homework_bot/internal/domain/telegram"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

const (
	msgGenericFailure = "Произошла ошибка. Попробуйте позже."
	msgStaleAction    = "Это действие устарело."
	msgNoPermission   = "У вас нет прав администратора."
)

// ConversationService runs the operator dialogs: add homework, delete
// homework, edit the schedule and broadcast an announcement.
type ConversationService struct {
	sessions     conversation.Store
	access       Authorizer
	homeworkRepo homework.Repository
	scheduleRepo schedule.Repository
	subjects     *SubjectService
	broadcaster  Broadcaster
	client       domainTelegram.Client
	expirer      Expirer
	logger       *logrus.Entry
	now          func() time.Time
}

func NewConversationService(
	sessions conversation.Store,
	access Authorizer,
	hr homework.Repository,
	sr schedule.Repository,
	subjects *SubjectService,
	broadcaster Broadcaster,
	tc domainTelegram.Client,
	expirer Expirer,
	logger *logrus.Entry,
) *ConversationService {
	return &ConversationService{
		sessions:     sessions,
		access:       access,
		homeworkRepo: hr,
		scheduleRepo: sr,
		subjects:     subjects,
		broadcaster:  broadcaster,
		client:       tc,
		expirer:      expirer,
		logger:       logger,
		now:          time.Now,
	}
}

// WithLocation makes date menus follow loc instead of the process timezone.
func (s *ConversationService) WithLocation(loc *time.Location) *ConversationService {
	s.now = func() time.Time { return time.Now().In(loc) }
	return s
}

// authorized reports whether ev may open an operator dialog: an operator
// writing in a private chat.
func (s *ConversationService) authorized(ev Event) bool {
	return ev.Private && s.access.IsOperator(ev.UserID)
}

// Active reports whether ev's author has a dialog in progress in ev's chat.
func (s *ConversationService) Active(ev Event) bool {
	return s.sessions.Get(ev.Key()).Active()
}

// --- Panel ---

func (s *ConversationService) OpenPanel(ev Event) {
	if !s.authorized(ev) {
		s.reply(ev.ChatID, msgNoPermission, nil)
		return
	}
	s.reply(ev.ChatID, "Добро пожаловать в админ-панель!", adminPanelMarkup())
}

func (s *ConversationService) ClosePanel(ev Event) {
	if !s.authorized(ev) {
		return
	}
	s.reply(ev.ChatID, "Выход из админ-панели.", removeKeyboard())
}

// --- Entry points ---

// Start opens workflow wf for ev's author, replacing any dialog already in
// progress. Callers without rights are ignored.
func (s *ConversationService) Start(ctx context.Context, ev Event, wf conversation.Workflow) error {
	logger := s.logger.WithFields(logrus.Fields{"workflow": wf, "sender_id": ev.UserID, "chat_id": ev.ChatID})
	if !s.authorized(ev) {
		logger.Warn("Workflow entry denied")
		return nil
	}
	if prev := s.sessions.Get(ev.Key()); prev.Active() {
		logger.WithFields(logrus.Fields{
			"previous_workflow": prev.State.Workflow(),
			"previous_state":    prev.State,
		}).Info("Replacing unfinished dialog")
		s.retireMenu(ev.ChatID, prev, 0)
	}

	session := &conversation.Session{}
	switch wf {
	case conversation.WorkflowAddHomework:
		session.State = conversation.StateAwaitingDate
		session.Fields.MenuMessageID = s.reply(ev.ChatID, "📅 Выберите дату для добавления ДЗ:", s.dateMenu(ActionAddDate))
	case conversation.WorkflowDeleteHomework:
		session.State = conversation.StateAwaitingDeleteDate
		session.Fields.MenuMessageID = s.reply(ev.ChatID, "📅 Выберите дату, за которую нужно удалить ДЗ:", s.dateMenu(ActionDeleteDate))
	case conversation.WorkflowEditSchedule:
		session.State = conversation.StateAwaitingScheduleDay
		session.Fields.MenuMessageID = s.reply(ev.ChatID, "Выберите день недели:", daysMarkup(ActionScheduleDay, true))
	case conversation.WorkflowBroadcast:
		session.State = conversation.StateAwaitingBroadcastContent
		s.reply(ev.ChatID, "Напишите текст объявления (можно с картинкой):", cancelMarkup())
	default:
		return fmt.Errorf("unknown workflow %q", wf)
	}
	s.sessions.Put(ev.Key(), session)
	logger.Info("Workflow started")
	return nil
}

// Cancel clears whatever dialog is active, from any step of any workflow.
func (s *ConversationService) Cancel(ev Event) CallbackReply {
	prev := s.sessions.Get(ev.Key())
	had := prev.Active()
	s.sessions.Clear(ev.Key())
	if had {
		s.logger.WithFields(logrus.Fields{
			"sender_id": ev.UserID,
			"chat_id":   ev.ChatID,
			"workflow":  prev.State.Workflow(),
		}).Info("Dialog cancelled")
		s.retireMenu(ev.ChatID, prev, ev.MessageID)
	}

	if ev.Kind == EventCallback {
		s.edit(ev.ChatID, ev.MessageID, "❌ Действие отменено.", nil)
		if s.authorized(ev) {
			s.reply(ev.ChatID, "Главное меню:", adminPanelMarkup())
		}
		return CallbackReply{}
	}

	text := "Действие отменено."
	if !had {
		text = "Нет активных действий для отмены."
	}
	if s.authorized(ev) {
		s.reply(ev.ChatID, text, adminPanelMarkup())
		return CallbackReply{}
	}
	msg, err := s.client.SendMessage(ev.ChatID, text, withMarkup(mainMenuMarkup()))
	if err != nil {
		s.logger.WithError(err).WithField("chat_id", ev.ChatID).Warn("Failed to send reply")
		return CallbackReply{}
	}
	s.expirer.Expire(msg, ExpireDefault)
	return CallbackReply{}
}

// --- Callbacks ---

// HandleCallback routes a workflow button. A button whose dialog is gone, or
// that belongs to another step, is reported as stale and changes nothing.
func (s *ConversationService) HandleCallback(ctx context.Context, ev Event) (CallbackReply, error) {
	session := s.sessions.Get(ev.Key())
	if !session.Active() || !s.authorized(ev) {
		return CallbackReply{Text: msgStaleAction}, nil
	}

	var (
		reply CallbackReply
		err   error
	)
	switch {
	case ev.Action == ActionAddDate && session.State == conversation.StateAwaitingDate:
		reply, err = s.onAddDate(ctx, ev, session)
	case ev.Action == ActionSelectSubject && session.State == conversation.StateAwaitingSubject:
		reply, err = s.onSelectSubject(ctx, ev, session)
	case ev.Action == ActionDeleteDate && session.State == conversation.StateAwaitingDeleteDate:
		reply, err = s.onDeleteDate(ctx, ev, session)
	case ev.Action == ActionDeleteSubject && session.State == conversation.StateAwaitingDeleteSubject:
		reply, err = s.onDeleteSubject(ctx, ev, session)
	case ev.Action == ActionScheduleDay && session.State == conversation.StateAwaitingScheduleDay:
		reply, err = s.onScheduleDay(ctx, ev, session)
	default:
		return CallbackReply{Text: msgStaleAction}, nil
	}
	if err != nil {
		return CallbackReply{}, s.abort(ev, err)
	}
	return reply, nil
}

func (s *ConversationService) onAddDate(ctx context.Context, ev Event, session *conversation.Session) (CallbackReply, error) {
	date, ok := s.menuDate(ev.Payload)
	if !ok {
		s.repromptDate(ev, session, ActionAddDate)
		return CallbackReply{Text: "Выберите дату из списка."}, nil
	}

	subjects, err := s.subjects.Menu(ctx, date)
	if err != nil {
		return CallbackReply{}, err
	}

	header := fmt.Sprintf("Дата: %s (%s)\n\n", displayDate(date), schedule.WeekdayName(date))
	if len(subjects) > 0 {
		s.edit(ev.ChatID, ev.MessageID, header+"Выберите предмет из списка или напишите его название вручную:",
			subjectsMarkup(ActionSelectSubject, subjects, true))
	} else {
		s.edit(ev.ChatID, ev.MessageID, header+"Расписания нет. Введите название предмета вручную:", nil)
	}

	session.State = conversation.StateAwaitingSubject
	session.Fields.Date = date
	session.Fields.MenuMessageID = ev.MessageID
	s.sessions.Put(ev.Key(), session)
	return CallbackReply{}, nil
}

func (s *ConversationService) onSelectSubject(ctx context.Context, ev Event, session *conversation.Session) (CallbackReply, error) {
	subjects, err := s.subjects.Menu(ctx, session.Fields.Date)
	if err != nil {
		return CallbackReply{}, err
	}
	subject, ok := schedule.FindByKey(ev.Payload, subjects)
	if !ok {
		s.promptSubject(ev.ChatID, subjects)
		return CallbackReply{Text: "Список предметов изменился, выберите снова."}, nil
	}
	s.acceptSubject(ev, session, subject)
	return CallbackReply{}, nil
}

func (s *ConversationService) onDeleteDate(ctx context.Context, ev Event, session *conversation.Session) (CallbackReply, error) {
	date, ok := s.menuDate(ev.Payload)
	if !ok {
		s.repromptDate(ev, session, ActionDeleteDate)
		return CallbackReply{Text: "Выберите дату из списка."}, nil
	}

	subjects, err := s.subjects.WithHomework(ctx, date)
	if err != nil {
		return CallbackReply{}, err
	}
	if len(subjects) == 0 {
		return CallbackReply{Text: "На эту дату нет домашних заданий.", Alert: true}, nil
	}

	s.edit(ev.ChatID, ev.MessageID, fmt.Sprintf("🗑 Удаление ДЗ на %s\nВыберите предмет:", displayDate(date)),
		subjectsMarkup(ActionDeleteSubject, subjects, true))

	session.State = conversation.StateAwaitingDeleteSubject
	session.Fields.Date = date
	session.Fields.MenuMessageID = ev.MessageID
	s.sessions.Put(ev.Key(), session)
	return CallbackReply{}, nil
}

func (s *ConversationService) onDeleteSubject(ctx context.Context, ev Event, session *conversation.Session) (CallbackReply, error) {
	subjects, err := s.subjects.WithHomework(ctx, session.Fields.Date)
	if err != nil {
		return CallbackReply{}, err
	}
	subject, ok := schedule.FindByKey(ev.Payload, subjects)
	if !ok {
		if len(subjects) == 0 {
			s.finishDelete(ev, session.Fields.Date, "", 0)
			return CallbackReply{Text: "На эту дату больше нет домашних заданий."}, nil
		}
		s.edit(ev.ChatID, ev.MessageID, fmt.Sprintf("🗑 Удаление ДЗ на %s\nВыберите предмет:", displayDate(session.Fields.Date)),
			subjectsMarkup(ActionDeleteSubject, subjects, true))
		return CallbackReply{Text: "Список предметов изменился, выберите снова."}, nil
	}
	return CallbackReply{}, s.deleteSubject(ctx, ev, session.Fields.Date, subject)
}

func (s *ConversationService) onScheduleDay(ctx context.Context, ev Event, session *conversation.Session) (CallbackReply, error) {
	day, ok := schedule.ParseDay(ev.Payload)
	if !ok {
		return CallbackReply{Text: "Ошибка выбора дня."}, nil
	}
	s.edit(ev.ChatID, ev.MessageID, "Выбран день: "+day.Name(), nil)
	if err := s.acceptDay(ctx, ev, session, day); err != nil {
		return CallbackReply{}, err
	}
	return CallbackReply{}, nil
}

// --- Free input ---

// HandleInput feeds text, an attachment or a done signal into the active
// dialog. It returns false when there is no dialog to feed.
func (s *ConversationService) HandleInput(ctx context.Context, ev Event, done bool) (bool, error) {
	session := s.sessions.Get(ev.Key())
	if !session.Active() {
		return false, nil
	}

	var err error
	switch session.State {
	case conversation.StateAwaitingDate:
		s.repromptDate(ev, session, ActionAddDate)
	case conversation.StateAwaitingDeleteDate:
		s.repromptDate(ev, session, ActionDeleteDate)
	case conversation.StateAwaitingSubject:
		err = s.inputSubject(ctx, ev, session)
	case conversation.StateAwaitingDescription:
		s.inputDescription(ev, session)
	case conversation.StateAwaitingAttachments:
		err = s.inputAttachment(ctx, ev, session, done)
	case conversation.StateAwaitingDeleteSubject:
		err = s.inputDeleteSubject(ctx, ev, session)
	case conversation.StateAwaitingScheduleDay:
		err = s.inputScheduleDay(ctx, ev, session)
	case conversation.StateAwaitingScheduleText:
		err = s.inputScheduleText(ctx, ev, session)
	case conversation.StateAwaitingBroadcastContent:
		err = s.inputBroadcast(ctx, ev)
	}
	if err != nil {
		return true, s.abort(ev, err)
	}
	return true, nil
}

func (s *ConversationService) inputSubject(ctx context.Context, ev Event, session *conversation.Session) error {
	subject := strings.TrimSpace(ev.Text)
	if ev.Kind != EventText || subject == "" {
		subjects, err := s.subjects.Menu(ctx, session.Fields.Date)
		if err != nil {
			return err
		}
		s.promptSubject(ev.ChatID, subjects)
		return nil
	}
	s.acceptSubject(ev, session, subject)
	return nil
}

func (s *ConversationService) acceptSubject(ev Event, session *conversation.Session, subject string) {
	session.State = conversation.StateAwaitingDescription
	session.Fields.Subject = subject
	s.sessions.Put(ev.Key(), session)
	s.reply(ev.ChatID, fmt.Sprintf("Предмет: %s\nВведите текст задания:", subject), cancelMarkup())
}

func (s *ConversationService) inputDescription(ev Event, session *conversation.Session) {
	description := strings.TrimSpace(ev.Text)
	if ev.Kind != EventText || description == "" {
		s.reply(ev.ChatID, "Введите текст задания:", nil)
		return
	}
	session.State = conversation.StateAwaitingAttachments
	session.Fields.Description = description
	session.Fields.Attachments = nil
	s.sessions.Put(ev.Key(), session)
	s.reply(ev.ChatID, "Прикрепите фото/документ (можно несколько). После загрузки всех файлов нажмите /done или кнопку «Готово».\n"+
		"Если файлов нет, просто нажмите /done.", attachmentsMarkup())
}

// IsDoneSignal reports whether text closes attachment collection.
func IsDoneSignal(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	return t == "готово" || t == strings.ToLower(LabelDone)
}

func (s *ConversationService) inputAttachment(ctx context.Context, ev Event, session *conversation.Session, done bool) error {
	if done || (ev.Kind == EventText && IsDoneSignal(ev.Text)) {
		return s.finishAddHomework(ctx, ev, session)
	}
	if ev.Kind != EventAttachment || ev.Attachment == nil {
		s.reply(ev.ChatID, "Пожалуйста, отправьте файл или нажмите «Готово».", attachmentsMarkup())
		return nil
	}
	session.Fields.Attachments = append(session.Fields.Attachments, *ev.Attachment)
	s.sessions.Put(ev.Key(), session)
	s.reply(ev.ChatID, fmt.Sprintf("Файл принят. Всего: %d. Отправьте еще или нажмите /done.", len(session.Fields.Attachments)), nil)
	return nil
}

func (s *ConversationService) finishAddHomework(ctx context.Context, ev Event, session *conversation.Session) error {
	entry := &homework.Entry{
		Subject:     session.Fields.Subject,
		Date:        session.Fields.Date,
		Description: session.Fields.Description,
		Attachments: session.Fields.Attachments,
	}
	logger := s.logger.WithFields(logrus.Fields{
		"sender_id": ev.UserID,
		"date":      homework.DateKey(entry.Date),
		"subject":   entry.Subject,
	})
	if err := entry.Validate(); err != nil {
		logger.WithError(err).Warn("Incomplete homework dropped")
		s.sessions.Clear(ev.Key())
		s.reply(ev.ChatID, "Не хватает даты или предмета, ДЗ не сохранено.", adminPanelMarkup())
		return nil
	}

	id, err := s.homeworkRepo.Insert(ctx, entry)
	if err != nil {
		return fmt.Errorf("failed to save homework: %w", err)
	}
	entry.ID = id
	s.sessions.Clear(ev.Key())
	logger.WithField("homework_id", entry.ID).Info("Homework saved")

	delivered, err := s.broadcaster.Broadcast(ctx, NewHomeworkMessage(entry))
	if err != nil {
		logger.WithError(err).Error("Homework saved but notification failed")
		s.reply(ev.ChatID, "ДЗ сохранено, но разослать уведомление не удалось.", adminPanelMarkup())
		return nil
	}
	s.reply(ev.ChatID, fmt.Sprintf("ДЗ добавлено и отправлено в %d чатов!", delivered), adminPanelMarkup())
	return nil
}

func (s *ConversationService) inputDeleteSubject(ctx context.Context, ev Event, session *conversation.Session) error {
	typed := strings.TrimSpace(ev.Text)
	if ev.Kind != EventText || typed == "" {
		subjects, err := s.subjects.WithHomework(ctx, session.Fields.Date)
		if err != nil {
			return err
		}
		s.reply(ev.ChatID, "Выберите предмет из списка или напишите его название:",
			subjectsMarkup(ActionDeleteSubject, subjects, true))
		return nil
	}
	subject, err := s.subjects.ResolveTyped(ctx, session.Fields.Date, typed)
	if err != nil {
		return err
	}
	return s.deleteSubject(ctx, ev, session.Fields.Date, subject)
}

func (s *ConversationService) deleteSubject(ctx context.Context, ev Event, date time.Time, subject string) error {
	removed, err := s.homeworkRepo.DeleteBySubject(ctx, date, subject)
	if err != nil {
		return fmt.Errorf("failed to delete homework: %w", err)
	}
	s.logger.WithFields(logrus.Fields{
		"sender_id": ev.UserID,
		"date":      homework.DateKey(date),
		"subject":   subject,
		"removed":   removed,
	}).Info("Homework deleted")
	s.finishDelete(ev, date, subject, removed)
	return nil
}

func (s *ConversationService) finishDelete(ev Event, date time.Time, subject string, removed int64) {
	s.sessions.Clear(ev.Key())
	var text string
	switch {
	case subject == "":
		text = fmt.Sprintf("На %s нет домашних заданий.", displayDate(date))
	case removed == 0:
		text = fmt.Sprintf("ДЗ по предмету '%s' на %s не найдено.", subject, displayDate(date))
	default:
		text = fmt.Sprintf("✅ ДЗ по предмету '%s' на %s удалено.", subject, displayDate(date))
	}
	if ev.Kind == EventCallback {
		s.edit(ev.ChatID, ev.MessageID, text, nil)
		s.reply(ev.ChatID, "Главное меню:", adminPanelMarkup())
		return
	}
	s.reply(ev.ChatID, text, adminPanelMarkup())
}

// inputScheduleDay also accepts a day typed by name.
func (s *ConversationService) inputScheduleDay(ctx context.Context, ev Event, session *conversation.Session) error {
	typed := strings.TrimSpace(ev.Text)
	for _, day := range schedule.Days() {
		if ev.Kind == EventText && strings.EqualFold(typed, day.Name()) {
			return s.acceptDay(ctx, ev, session, day)
		}
	}
	session.Fields.MenuMessageID = s.reply(ev.ChatID, "Выберите день недели:", daysMarkup(ActionScheduleDay, true))
	s.sessions.Put(ev.Key(), session)
	return nil
}

func (s *ConversationService) acceptDay(ctx context.Context, ev Event, session *conversation.Session, day schedule.Day) error {
	current, err := s.scheduleRepo.Get(ctx, day)
	if err != nil && !errors.Is(err, schedule.ErrScheduleNotFound) {
		return fmt.Errorf("failed to load schedule for %s: %w", day.Name(), err)
	}

	var prompt strings.Builder
	prompt.WriteString(fmt.Sprintf("Введите расписание на %s.\n", day.Name()))
	if current != "" {
		prompt.WriteString(fmt.Sprintf("\n📋 Текущее расписание:\n%s\n\n", current))
	} else {
		prompt.WriteString("\n(Расписания еще нет)\n")
	}
	prompt.WriteString("Пишите уроки столбиком или через пробел (я сам их пронумерую).")

	session.State = conversation.StateAwaitingScheduleText
	session.Fields.Day = day
	s.sessions.Put(ev.Key(), session)
	s.reply(ev.ChatID, prompt.String(), cancelMarkup())
	return nil
}

func (s *ConversationService) inputScheduleText(ctx context.Context, ev Event, session *conversation.Session) error {
	lessons := ""
	if ev.Kind == EventText {
		lessons = schedule.NormalizeLessons(ev.Text)
	}
	if lessons == "" {
		s.reply(ev.ChatID, fmt.Sprintf("Введите расписание на %s текстом, по одному уроку в строке.", session.Fields.Day.Name()), cancelMarkup())
		return nil
	}

	day := session.Fields.Day
	if err := s.scheduleRepo.Upsert(ctx, day, lessons); err != nil {
		return fmt.Errorf("failed to save schedule for %s: %w", day.Name(), err)
	}
	s.sessions.Clear(ev.Key())
	s.logger.WithFields(logrus.Fields{"sender_id": ev.UserID, "day": day.Name()}).Info("Schedule updated")
	s.reply(ev.ChatID, fmt.Sprintf("Расписание на %s обновлено:\n\n%s", day.Name(), lessons), adminPanelMarkup())
	return nil
}

func (s *ConversationService) inputBroadcast(ctx context.Context, ev Event) error {
	text := strings.TrimSpace(ev.Text)
	if ev.Attachment == nil && text == "" {
		s.reply(ev.ChatID, "Напишите текст объявления (можно с картинкой):", cancelMarkup())
		return nil
	}

	delivered, err := s.broadcaster.Broadcast(ctx, AnnouncementMessage(text, ev.Attachment))
	if err != nil {
		return fmt.Errorf("failed to broadcast announcement: %w", err)
	}
	s.sessions.Clear(ev.Key())
	s.logger.WithFields(logrus.Fields{"sender_id": ev.UserID, "delivered": delivered}).Info("Announcement sent")
	s.reply(ev.ChatID, fmt.Sprintf("Объявление отправлено в %d чатов/пользователей.", delivered), adminPanelMarkup())
	return nil
}

// --- helpers ---

// abort ends the dialog after a storage failure so the operator is never
// stuck in a step that cannot complete.
func (s *ConversationService) abort(ev Event, err error) error {
	s.sessions.Clear(ev.Key())
	s.logger.WithError(err).WithFields(logrus.Fields{"sender_id": ev.UserID, "chat_id": ev.ChatID}).Error("Dialog aborted")
	s.reply(ev.ChatID, msgGenericFailure, adminPanelMarkup())
	return err
}

// retireMenu strips the buttons from the menu of an abandoned dialog. skip is
// a message already being edited by the caller.
func (s *ConversationService) retireMenu(chatID int64, prev *conversation.Session, skip int) {
	id := prev.Fields.MenuMessageID
	if id == 0 || id == skip {
		return
	}
	if err := s.client.EditMessage(chatID, id, "❌ Действие отменено.", nil); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{"chat_id": chatID, "message_id": id}).Debug("Failed to retire menu")
	}
}

func (s *ConversationService) dateMenu(action string) *telebot.ReplyMarkup {
	return datesMarkup(action, schedule.NextSchoolDays(s.now(), menuDays))
}

// menuDate accepts only dates the date menu could have offered.
func (s *ConversationService) menuDate(payload string) (time.Time, bool) {
	now := s.now()
	date, err := homework.ParseDate(payload, now.Location())
	if err != nil {
		return time.Time{}, false
	}
	for _, d := range schedule.NextSchoolDays(now, menuDays) {
		if d.Equal(date) {
			return date, true
		}
	}
	return time.Time{}, false
}

func (s *ConversationService) repromptDate(ev Event, session *conversation.Session, action string) {
	session.Fields.MenuMessageID = s.reply(ev.ChatID, "📅 Выберите дату из списка:", s.dateMenu(action))
	s.sessions.Put(ev.Key(), session)
}

func (s *ConversationService) promptSubject(chatID int64, subjects []string) {
	if len(subjects) == 0 {
		s.reply(chatID, "Введите название предмета:", cancelMarkup())
		return
	}
	s.reply(chatID, "Выберите предмет из списка или напишите его название вручную:",
		subjectsMarkup(ActionSelectSubject, subjects, true))
}

// reply sends text and returns the new message id, or 0 if sending failed.
// Replies to the operator are best effort; the dialog state is already saved.
func (s *ConversationService) reply(chatID int64, text string, markup *telebot.ReplyMarkup) int {
	msg, err := s.client.SendMessage(chatID, text, withMarkup(markup))
	if err != nil {
		s.logger.WithError(err).WithField("chat_id", chatID).Warn("Failed to send reply")
		return 0
	}
	if msg == nil {
		return 0
	}
	return msg.ID
}

func (s *ConversationService) edit(chatID int64, messageID int, text string, markup *telebot.ReplyMarkup) {
	if messageID == 0 {
		s.reply(chatID, text, markup)
		return
	}
	if err := s.client.EditMessage(chatID, messageID, text, withMarkup(markup)); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{"chat_id": chatID, "message_id": messageID}).Warn("Failed to edit message, sending a new one")
		s.reply(chatID, text, markup)
	}
}
