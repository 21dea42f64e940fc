package app

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"

	"homework_bot/internal/domain/homework"
	"homework_bot/internal/domain/schedule"
	"homework_bot/internal/infra/session"
)

var errBoom = errors.New("boom")

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

// Saturday 17 Oct 2026, 10:00 UTC.
var testNow = time.Date(2026, time.October, 17, 10, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// --- telegram client ---

type sentMessage struct {
	ChatID  int64
	Text    string
	Markup  *telebot.ReplyMarkup
	Media   *homework.Attachment
	Caption string
}

type editedMessage struct {
	ChatID    int64
	MessageID int
	Text      string
}

type callbackAnswer struct {
	ID    string
	Text  string
	Alert bool
}

type fakeClient struct {
	mu        sync.Mutex
	nextID    int
	sent      []sentMessage
	edited    []editedMessage
	deleted   []int
	callbacks []callbackAnswer
	// failChats makes every send to the chat fail.
	failChats map[int64]bool
}

func newFakeClient() *fakeClient {
	return &fakeClient{failChats: map[int64]bool{}}
}

func (c *fakeClient) record(m sentMessage) (*telebot.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failChats[m.ChatID] {
		return nil, errBoom
	}
	c.nextID++
	c.sent = append(c.sent, m)
	return &telebot.Message{ID: c.nextID, Chat: &telebot.Chat{ID: m.ChatID}}, nil
}

func (c *fakeClient) SendMessage(chatID int64, text string, options *telebot.SendOptions) (*telebot.Message, error) {
	m := sentMessage{ChatID: chatID, Text: text}
	if options != nil {
		m.Markup = options.ReplyMarkup
	}
	return c.record(m)
}

func (c *fakeClient) SendMedia(chatID int64, attachment homework.Attachment, caption string) (*telebot.Message, error) {
	return c.record(sentMessage{ChatID: chatID, Media: &attachment, Caption: caption})
}

func (c *fakeClient) EditMessage(chatID int64, messageID int, text string, _ *telebot.SendOptions) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.edited = append(c.edited, editedMessage{ChatID: chatID, MessageID: messageID, Text: text})
	return nil
}

func (c *fakeClient) DeleteMessage(_ int64, messageID int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleted = append(c.deleted, messageID)
	return nil
}

func (c *fakeClient) RespondCallback(callbackID string, text string, alert bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.callbacks = append(c.callbacks, callbackAnswer{ID: callbackID, Text: text, Alert: alert})
	return nil
}

func (c *fakeClient) sentTo(chatID int64) []sentMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []sentMessage
	for _, m := range c.sent {
		if m.ChatID == chatID {
			out = append(out, m)
		}
	}
	return out
}

func (c *fakeClient) lastText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.sent) - 1; i >= 0; i-- {
		if c.sent[i].Media == nil {
			return c.sent[i].Text
		}
	}
	return ""
}

func (c *fakeClient) lastCallback() callbackAnswer {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.callbacks) == 0 {
		return callbackAnswer{}
	}
	return c.callbacks[len(c.callbacks)-1]
}

// --- repositories ---

type fakeHomeworkRepo struct {
	mu        sync.Mutex
	entries   []*homework.Entry
	nextID    int64
	mutations int
	insertErr error
	listErr   error
}

func (r *fakeHomeworkRepo) Insert(_ context.Context, e *homework.Entry) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return 0, r.insertErr
	}
	r.mutations++
	r.nextID++
	stored := *e
	stored.ID = r.nextID
	stored.Attachments = append([]homework.Attachment(nil), e.Attachments...)
	r.entries = append(r.entries, &stored)
	e.ID = r.nextID
	return r.nextID, nil
}

func (r *fakeHomeworkRepo) ListSubjectsForDate(_ context.Context, date time.Time) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []string
	seen := map[string]bool{}
	for _, e := range r.entries {
		if homework.DateKey(e.Date) == homework.DateKey(date) && !seen[e.Subject] {
			seen[e.Subject] = true
			out = append(out, e.Subject)
		}
	}
	return out, nil
}

func (r *fakeHomeworkRepo) ListBySubject(_ context.Context, date time.Time, subject string) ([]*homework.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*homework.Entry
	for _, e := range r.entries {
		if homework.DateKey(e.Date) == homework.DateKey(date) && e.Subject == subject {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeHomeworkRepo) DeleteBySubject(_ context.Context, date time.Time, subject string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mutations++
	var kept []*homework.Entry
	var removed int64
	for _, e := range r.entries {
		if homework.DateKey(e.Date) == homework.DateKey(date) && e.Subject == subject {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	r.entries = kept
	return removed, nil
}

type fakeScheduleRepo struct {
	mu        sync.Mutex
	days      map[schedule.Day]string
	mutations int
	getErr    error
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{days: map[schedule.Day]string{}}
}

func (r *fakeScheduleRepo) Upsert(_ context.Context, d schedule.Day, lessons string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mutations++
	r.days[d] = lessons
	return nil
}

func (r *fakeScheduleRepo) Get(_ context.Context, d schedule.Day) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return "", r.getErr
	}
	lessons, ok := r.days[d]
	if !ok {
		return "", schedule.ErrScheduleNotFound
	}
	return lessons, nil
}

type fakeChatRepo struct {
	mu          sync.Mutex
	ids         []int64
	listErr     error
	registerErr error
}

func (r *fakeChatRepo) Register(_ context.Context, chatID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.registerErr != nil {
		return r.registerErr
	}
	for _, id := range r.ids {
		if id == chatID {
			return nil
		}
	}
	r.ids = append(r.ids, chatID)
	return nil
}

func (r *fakeChatRepo) List(_ context.Context) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	return append([]int64(nil), r.ids...), nil
}

// --- expiry ---

type expiredMessage struct {
	ChatID    int64
	MessageID int
	Category  ExpiryCategory
}

type fakeExpirer struct {
	mu      sync.Mutex
	expired []expiredMessage
}

func (e *fakeExpirer) Expire(msg *telebot.Message, category ExpiryCategory) {
	if msg == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.expired = append(e.expired, expiredMessage{ChatID: msg.Chat.ID, MessageID: msg.ID, Category: category})
}

func (e *fakeExpirer) count(category ExpiryCategory) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, m := range e.expired {
		if m.Category == category {
			n++
		}
	}
	return n
}

// --- wiring ---

const (
	operatorID  int64 = 42
	strangerID  int64 = 7
	groupChatID int64 = -1001
)

type testBot struct {
	bot       *BotService
	conv      *ConversationService
	viewer    *ViewerService
	client    *fakeClient
	sessions  *session.MemoryStore
	homework  *fakeHomeworkRepo
	schedules *fakeScheduleRepo
	chats     *fakeChatRepo
	expirer   *fakeExpirer
}

func newTestBot() *testBot {
	tb := &testBot{
		client:    newFakeClient(),
		sessions:  session.NewMemoryStore(),
		homework:  &fakeHomeworkRepo{},
		schedules: newFakeScheduleRepo(),
		chats:     &fakeChatRepo{},
		expirer:   &fakeExpirer{},
	}
	logger := testLogger()
	subjects := NewSubjectService(tb.homework, tb.schedules)
	broadcaster := NewBroadcastService(tb.chats, tb.client, nil, logger)
	tb.conv = NewConversationService(tb.sessions, NewStaticOperators([]int64{operatorID}),
		tb.homework, tb.schedules, subjects, broadcaster, tb.client, tb.expirer, logger)
	tb.conv.now = fixedNow
	tb.viewer = NewViewerService(tb.chats, tb.homework, tb.schedules, subjects, tb.client, tb.expirer, logger)
	tb.viewer.now = fixedNow
	tb.bot = NewBotService(tb.conv, tb.viewer, tb.client, logger)
	return tb
}

func operatorText(text string) Event {
	return Event{Kind: EventText, UserID: operatorID, ChatID: operatorID, Private: true, Text: text}
}

func operatorCommand(cmd string) Event {
	return Event{Kind: EventCommand, UserID: operatorID, ChatID: operatorID, Private: true, Text: cmd}
}

func operatorCallback(action, payload string) Event {
	return Event{
		Kind: EventCallback, UserID: operatorID, ChatID: operatorID, Private: true,
		Action: action, Payload: payload, CallbackID: "cb-" + action, MessageID: 900,
	}
}

func operatorFile(kind homework.AttachmentKind, fileID, caption string) Event {
	return Event{
		Kind: EventAttachment, UserID: operatorID, ChatID: operatorID, Private: true,
		Text: caption, Attachment: &homework.Attachment{FileID: fileID, Kind: kind},
	}
}

func (tb *testBot) state() string {
	s := tb.sessions.Get(operatorText("").Key())
	if s == nil {
		return ""
	}
	return string(s.State)
}
