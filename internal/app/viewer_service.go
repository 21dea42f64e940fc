package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"homework_bot/internal/domain/chat"
	"homework_bot/internal/domain/homework"
	"homework_bot/internal/domain/schedule"
	domainTelegram "homework_bot/internal/domain/telegram"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

const (
	welcomeText = "Привет! Я бот для домашнего задания и расписания.\n" +
		"Нажми «" + LabelHomeworkByDate + "», чтобы посмотреть задания на ближайшие 10 дней,\n" +
		"или «" + LabelSchedule + "», чтобы узнать уроки."

	helpText = "Доступные команды:\n" +
		"/dzd - Выбрать дату для ДЗ\n" +
		"/raspisanie - Расписание по дням недели\n" +
		"/cancel - Отменить текущее действие\n" +
		"Также используйте кнопки меню."

	groupGreetingText = "Всем привет! Я готов помогать с ДЗ и расписанием. " +
		"Убедитесь, что я админ, если хотите, чтобы я публиковал объявления."
)

// ViewerService answers read-only requests. Every reply it sends is ephemeral.
type ViewerService struct {
	chatRepo     chat.Repository
	homeworkRepo homework.Repository
	scheduleRepo schedule.Repository
	subjects     *SubjectService
	client       domainTelegram.Client
	expirer      Expirer
	logger       *logrus.Entry
	now          func() time.Time
}

func NewViewerService(
	cr chat.Repository,
	hr homework.Repository,
	sr schedule.Repository,
	subjects *SubjectService,
	tc domainTelegram.Client,
	expirer Expirer,
	logger *logrus.Entry,
) *ViewerService {
	return &ViewerService{
		chatRepo:     cr,
		homeworkRepo: hr,
		scheduleRepo: sr,
		subjects:     subjects,
		client:       tc,
		expirer:      expirer,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *ViewerService) WithLocation(loc *time.Location) *ViewerService {
	s.now = func() time.Time { return time.Now().In(loc) }
	return s
}

// Start registers the chat and greets with the main keyboard.
func (s *ViewerService) Start(ctx context.Context, ev Event) error {
	if err := s.chatRepo.Register(ctx, ev.ChatID); err != nil {
		return fmt.Errorf("failed to register chat %d: %w", ev.ChatID, err)
	}
	s.send(ev.ChatID, welcomeText, mainMenuMarkup(), ExpireWelcome)
	return nil
}

func (s *ViewerService) Help(ev Event) {
	s.send(ev.ChatID, helpText, nil, ExpireDefault)
}

// Joined registers a chat the bot was added to.
func (s *ViewerService) Joined(ctx context.Context, ev Event) error {
	if err := s.chatRepo.Register(ctx, ev.ChatID); err != nil {
		return fmt.Errorf("failed to register chat %d: %w", ev.ChatID, err)
	}
	s.logger.WithField("chat_id", ev.ChatID).Info("Chat registered")
	if ev.Greet {
		s.send(ev.ChatID, groupGreetingText, nil, ExpireDefault)
	}
	return nil
}

func (s *ViewerService) DateMenu(ev Event) {
	dates := schedule.NextSchoolDays(s.now(), menuDays)
	s.send(ev.ChatID, "📅 Выберите дату для просмотра ДЗ (кроме воскресенья):", datesMarkup(ActionViewDate, dates), ExpireDefault)
}

// ShowSubjects turns the date menu into the subject menu for the chosen date.
func (s *ViewerService) ShowSubjects(ctx context.Context, ev Event) (CallbackReply, error) {
	date, err := homework.ParseDate(ev.Payload, s.now().Location())
	if err != nil {
		return CallbackReply{Text: "Некорректная дата."}, nil
	}
	subjects, err := s.subjects.Menu(ctx, date)
	if err != nil {
		return CallbackReply{}, err
	}
	if len(subjects) == 0 {
		s.edit(ev, fmt.Sprintf("На %s расписания нет.", displayDate(date)), nil)
		return CallbackReply{}, nil
	}
	s.edit(ev, fmt.Sprintf("📚 ДЗ на %s\nВыберите предмет:", displayDate(date)),
		subjectsMarkup(ActionViewHomework, subjects, false, homework.DateKey(date)))
	return CallbackReply{}, nil
}

// ShowHomework sends every entry for the chosen subject with its attachments.
func (s *ViewerService) ShowHomework(ctx context.Context, ev Event) (CallbackReply, error) {
	parts := ev.PayloadParts()
	if len(parts) != 2 {
		return CallbackReply{Text: msgStaleAction}, nil
	}
	date, err := homework.ParseDate(parts[0], s.now().Location())
	if err != nil {
		return CallbackReply{Text: msgStaleAction}, nil
	}
	subjects, err := s.subjects.Menu(ctx, date)
	if err != nil {
		return CallbackReply{}, err
	}
	subject, ok := schedule.FindByKey(parts[1], subjects)
	if !ok {
		return CallbackReply{Text: msgStaleAction}, nil
	}

	entries, err := s.homeworkRepo.ListBySubject(ctx, date, subject)
	if err != nil {
		return CallbackReply{}, fmt.Errorf("failed to list homework: %w", err)
	}
	if len(entries) == 0 {
		s.send(ev.ChatID, fmt.Sprintf("📌 %s\nНа этот предмет пока не добавлено домашнее задание.", subject), nil, ExpireDefault)
		return CallbackReply{}, nil
	}

	for _, e := range entries {
		s.send(ev.ChatID, fmt.Sprintf("📌 %s\n📝 %s", subject, e.Description), nil, ExpireContent)
		for _, a := range e.Attachments {
			msg, err := s.client.SendMedia(ev.ChatID, a, "")
			if err != nil {
				s.logger.WithError(err).WithFields(logrus.Fields{"chat_id": ev.ChatID, "homework_id": e.ID}).Warn("Failed to send attachment")
				continue
			}
			s.expirer.Expire(msg, ExpireContent)
		}
	}
	return CallbackReply{}, nil
}

func (s *ViewerService) WeekMenu(ev Event) {
	s.send(ev.ChatID, "Выберите день недели для просмотра расписания:", daysMarkup(ActionViewSchedule, false), ExpireDefault)
}

func (s *ViewerService) ShowSchedule(ctx context.Context, ev Event) (CallbackReply, error) {
	day, ok := schedule.ParseDay(ev.Payload)
	if !ok {
		return CallbackReply{Text: "Ошибка выбора дня."}, nil
	}
	lessons, err := s.scheduleRepo.Get(ctx, day)
	switch {
	case errors.Is(err, schedule.ErrScheduleNotFound):
		s.send(ev.ChatID, fmt.Sprintf("На %s расписания нет.", day.Name()), nil, ExpireSchedule)
	case err != nil:
		return CallbackReply{}, fmt.Errorf("failed to get schedule for %s: %w", day.Name(), err)
	default:
		s.send(ev.ChatID, fmt.Sprintf("📅 Расписание на %s:\n\n%s", day.Name(), lessons), nil, ExpireSchedule)
	}
	return CallbackReply{}, nil
}

// Apologize tells the chat a request could not be served.
func (s *ViewerService) Apologize(ev Event) {
	s.send(ev.ChatID, msgGenericFailure, nil, ExpireDefault)
}

func (s *ViewerService) send(chatID int64, text string, markup *telebot.ReplyMarkup, category ExpiryCategory) {
	msg, err := s.client.SendMessage(chatID, text, withMarkup(markup))
	if err != nil {
		s.logger.WithError(err).WithField("chat_id", chatID).Warn("Failed to send message")
		return
	}
	s.expirer.Expire(msg, category)
}

// edit replaces an inline menu in place. The menu message is already
// scheduled for deletion, so only a fallback message needs expiring.
func (s *ViewerService) edit(ev Event, text string, markup *telebot.ReplyMarkup) {
	if ev.MessageID != 0 {
		err := s.client.EditMessage(ev.ChatID, ev.MessageID, text, withMarkup(markup))
		if err == nil {
			return
		}
		s.logger.WithError(err).WithFields(logrus.Fields{"chat_id": ev.ChatID, "message_id": ev.MessageID}).Warn("Failed to edit message")
	}
	s.send(ev.ChatID, text, markup, ExpireDefault)
}
