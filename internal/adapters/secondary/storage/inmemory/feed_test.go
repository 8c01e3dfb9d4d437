package inmemory

import (
	"context"
	"testing"
	"time"

	"github.com/admin/cosmic-connect/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan domain.Message) domain.Message {
	t.Helper()
	select {
	case m, ok := <-ch:
		require.True(t, ok, "channel closed")
		return m
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return domain.Message{}
	}
}

func TestMessageHubScopedToChat(t *testing.T) {
	ctx := context.Background()
	hub := NewMessageHub()
	chatA, chatB := uuid.New(), uuid.New()

	subA, err := hub.Subscribe(ctx, chatA)
	require.NoError(t, err)
	subB, err := hub.Subscribe(ctx, chatB)
	require.NoError(t, err)

	require.NoError(t, hub.Publish(ctx, domain.Message{ID: uuid.New(), ChatID: chatA, Seq: 1, Message: "hello"}))

	got := receive(t, subA.Messages())
	assert.Equal(t, "hello", got.Message)

	select {
	case m := <-subB.Messages():
		t.Fatalf("unexpected message for other chat: %+v", m)
	default:
	}
}

func TestMessageHubCloseRemovesSubscriber(t *testing.T) {
	ctx := context.Background()
	hub := NewMessageHub()
	chatID := uuid.New()

	sub, err := hub.Subscribe(ctx, chatID)
	require.NoError(t, err)
	assert.Equal(t, 1, hub.SubscriberCount(chatID))

	require.NoError(t, sub.Close())
	require.NoError(t, sub.Close())
	assert.Equal(t, 0, hub.SubscriberCount(chatID))

	_, ok := <-sub.Messages()
	assert.False(t, ok)

	assert.NoError(t, hub.Publish(ctx, domain.Message{ChatID: chatID}))
}

func TestMessageHubDropsLaggingSubscriber(t *testing.T) {
	ctx := context.Background()
	hub := NewMessageHub()
	hub.buffer = 2
	chatID := uuid.New()

	sub, err := hub.Subscribe(ctx, chatID)
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		require.NoError(t, hub.Publish(ctx, domain.Message{ChatID: chatID, Seq: int64(i)}))
	}

	assert.Equal(t, 0, hub.SubscriberCount(chatID))
	assert.Equal(t, int64(1), receive(t, sub.Messages()).Seq)
	assert.Equal(t, int64(2), receive(t, sub.Messages()).Seq)
	_, ok := <-sub.Messages()
	assert.False(t, ok)
}
