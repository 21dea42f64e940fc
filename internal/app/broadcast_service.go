package app

import (
	"context"
	"fmt"

	"homework_bot/internal/domain/chat"
	"homework_bot/internal/domain/homework"
	domainTelegram "homework_bot/internal/domain/telegram"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const announcementBanner = "📢 Объявление:"

// Message is one logical notification. Text goes first, then attachments in
// order; Caption is put on the first attachment.
type Message struct {
	Text        string
	Attachments []homework.Attachment
	Caption     string
}

func (m Message) empty() bool {
	return m.Text == "" && len(m.Attachments) == 0
}

// Broadcaster delivers a message to every registered chat.
type Broadcaster interface {
	Broadcast(ctx context.Context, msg Message) (int, error)
}

type BroadcastService struct {
	chatRepo chat.Repository
	client   domainTelegram.Client
	limiter  *rate.Limiter
	logger   *logrus.Entry
}

// NewBroadcastService paces sends with limiter; pass nil for no pacing.
func NewBroadcastService(cr chat.Repository, tc domainTelegram.Client, limiter *rate.Limiter, logger *logrus.Entry) *BroadcastService {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 0)
	}
	return &BroadcastService{
		chatRepo: cr,
		client:   tc,
		limiter:  limiter,
		logger:   logger,
	}
}

// Broadcast sends msg to each chat in registration order and returns how many
// chats received all of it. A failing chat is logged and skipped; what it
// already received stays delivered. Only a failure to list chats or a
// cancelled context is returned as an error.
func (s *BroadcastService) Broadcast(ctx context.Context, msg Message) (int, error) {
	if msg.empty() {
		return 0, nil
	}
	chatIDs, err := s.chatRepo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list chats for broadcast: %w", err)
	}

	logger := s.logger.WithFields(logrus.Fields{
		"broadcast_id": uuid.NewString(),
		"chats":        len(chatIDs),
		"attachments":  len(msg.Attachments),
	})
	logger.Info("Starting broadcast")

	delivered := 0
	for _, chatID := range chatIDs {
		if err := s.deliver(ctx, chatID, msg); err != nil {
			if ctx.Err() != nil {
				logger.WithField("delivered", delivered).Warn("Broadcast interrupted")
				return delivered, ctx.Err()
			}
			logger.WithError(err).WithField("chat_id", chatID).Warn("Delivery failed, skipping chat")
			continue
		}
		delivered++
	}

	logger.WithField("delivered", delivered).Info("Broadcast finished")
	return delivered, nil
}

func (s *BroadcastService) deliver(ctx context.Context, chatID int64, msg Message) error {
	if msg.Text != "" {
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}
		if _, err := s.client.SendMessage(chatID, msg.Text, nil); err != nil {
			return fmt.Errorf("send text: %w", err)
		}
	}
	for i, att := range msg.Attachments {
		caption := ""
		if i == 0 {
			caption = msg.Caption
		}
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}
		if _, err := s.client.SendMedia(chatID, att, caption); err != nil {
			return fmt.Errorf("send attachment %d: %w", i+1, err)
		}
	}
	return nil
}

// NewHomeworkMessage announces a freshly added entry.
func NewHomeworkMessage(e *homework.Entry) Message {
	return Message{
		Text: fmt.Sprintf("🆕 Добавлено новое ДЗ!\n📅 Дата: %s\n📌 Предмет: %s\n📝 Задание: %s",
			displayDate(e.Date), e.Subject, e.Description),
		Attachments: e.Attachments,
	}
}

// AnnouncementMessage prefixes operator content with the banner. A caption
// absorbs the banner; media without one gets the banner as its own message.
func AnnouncementMessage(text string, media *homework.Attachment) Message {
	switch {
	case media == nil:
		return Message{Text: announcementBanner + "\n\n" + text}
	case text != "":
		return Message{Attachments: []homework.Attachment{*media}, Caption: announcementBanner + "\n\n" + text}
	default:
		return Message{Text: announcementBanner, Attachments: []homework.Attachment{*media}}
	}
}
