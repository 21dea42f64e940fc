package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"homework_bot/internal/domain/homework"
)

func TestBroadcast_PartialFailure(t *testing.T) {
	client := newFakeClient()
	client.failChats[2] = true
	chats := &fakeChatRepo{ids: []int64{1, 2, 3}}
	svc := NewBroadcastService(chats, client, nil, testLogger())

	msg := Message{
		Text: "hello",
		Attachments: []homework.Attachment{
			{FileID: "a", Kind: homework.KindPhoto},
			{FileID: "b", Kind: homework.KindDocument},
		},
	}
	delivered, err := svc.Broadcast(context.Background(), msg)
	require.NoError(t, err)
	assert.Equal(t, 2, delivered)

	for _, chatID := range []int64{1, 3} {
		got := client.sentTo(chatID)
		require.Len(t, got, 3, "chat %d", chatID)
		assert.Equal(t, "hello", got[0].Text)
		assert.Equal(t, "a", got[1].Media.FileID)
		assert.Equal(t, "b", got[2].Media.FileID)
	}
	assert.Empty(t, client.sentTo(2))
	assert.Equal(t, []int64{1, 2, 3}, chats.ids, "failing chats stay registered")
}

func TestBroadcast_CaptionOnFirstAttachmentOnly(t *testing.T) {
	client := newFakeClient()
	svc := NewBroadcastService(&fakeChatRepo{ids: []int64{1}}, client, nil, testLogger())

	_, err := svc.Broadcast(context.Background(), Message{
		Attachments: []homework.Attachment{{FileID: "a"}, {FileID: "b"}},
		Caption:     "cap",
	})
	require.NoError(t, err)

	got := client.sentTo(1)
	require.Len(t, got, 2)
	assert.Equal(t, "cap", got[0].Caption)
	assert.Empty(t, got[1].Caption)
}

func TestBroadcast_EmptyMessageSendsNothing(t *testing.T) {
	client := newFakeClient()
	svc := NewBroadcastService(&fakeChatRepo{ids: []int64{1}}, client, nil, testLogger())

	delivered, err := svc.Broadcast(context.Background(), Message{})
	require.NoError(t, err)
	assert.Zero(t, delivered)
	assert.Empty(t, client.sent)
}

func TestBroadcast_ListFailure(t *testing.T) {
	svc := NewBroadcastService(&fakeChatRepo{listErr: errBoom}, newFakeClient(), nil, testLogger())
	_, err := svc.Broadcast(context.Background(), Message{Text: "x"})
	require.ErrorIs(t, err, errBoom)
}

func TestBroadcast_CancelledContext(t *testing.T) {
	client := newFakeClient()
	limiter := rate.NewLimiter(rate.Limit(1), 1)
	svc := NewBroadcastService(&fakeChatRepo{ids: []int64{1, 2, 3}}, client, limiter, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	delivered, err := svc.Broadcast(ctx, Message{Text: "x"})
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, delivered)
	assert.Empty(t, client.sent)
}

func TestAnnouncementMessage(t *testing.T) {
	photo := &homework.Attachment{FileID: "p", Kind: homework.KindPhoto}

	assert.Equal(t, Message{Text: "📢 Объявление:\n\nhi"}, AnnouncementMessage("hi", nil))
	assert.Equal(t,
		Message{Attachments: []homework.Attachment{*photo}, Caption: "📢 Объявление:\n\nhi"},
		AnnouncementMessage("hi", photo))
	assert.Equal(t,
		Message{Text: "📢 Объявление:", Attachments: []homework.Attachment{*photo}},
		AnnouncementMessage("", photo))
}

func TestNewHomeworkMessage(t *testing.T) {
	e := &homework.Entry{
		Subject:     "Math",
		Date:        day(2026, 10, 19),
		Description: "p. 5",
		Attachments: []homework.Attachment{{FileID: "f", Kind: homework.KindDocument}},
	}
	msg := NewHomeworkMessage(e)
	assert.Equal(t, "🆕 Добавлено новое ДЗ!\n📅 Дата: 19.10.2026\n📌 Предмет: Math\n📝 Задание: p. 5", msg.Text)
	assert.Equal(t, e.Attachments, msg.Attachments)
}
