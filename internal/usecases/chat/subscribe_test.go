package chat

import (
	"context"
	"errors"
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
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
	}
	return domain.Message{}
}

func assertQuiet(t *testing.T, ch <-chan domain.Message) {
	t.Helper()
	select {
	case m, ok := <-ch:
		if ok {
			t.Fatalf("unexpected message seq=%d", m.Seq)
		}
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSubscribeBackfillsThenStreams(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c := f.chat(true)

	m1, err := f.svc.SendMessage(ctx, c.ID, f.user.ID, "one")
	require.NoError(t, err)
	m2, err := f.svc.SendMessage(ctx, c.ID, f.astro.ID, "two")
	require.NoError(t, err)

	ch, err := f.svc.Subscribe(ctx, c.ID, f.user.ID, m1.Seq)
	require.NoError(t, err)

	assert.Equal(t, m2.ID, receive(t, ch).ID)

	m3, err := f.svc.SendMessage(ctx, c.ID, f.astro.ID, "three")
	require.NoError(t, err)
	assert.Equal(t, m3.ID, receive(t, ch).ID)
	assertQuiet(t, ch)
}

func TestSubscribeDropsLiveDuplicatesOfBacklog(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c := f.chat(true)

	m1, err := f.svc.SendMessage(ctx, c.ID, f.user.ID, "one")
	require.NoError(t, err)

	ch, err := f.svc.Subscribe(ctx, c.ID, f.astro.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, m1.ID, receive(t, ch).ID)

	// повтор события, уже отданного из базы
	require.NoError(t, f.hub.Publish(ctx, *m1))
	// событие с курсором не новее запрошенного
	require.NoError(t, f.hub.Publish(ctx, domain.Message{ID: m1.ID, ChatID: c.ID, Seq: 0}))
	assertQuiet(t, ch)

	m2, err := f.svc.SendMessage(ctx, c.ID, f.user.ID, "two")
	require.NoError(t, err)
	assert.Equal(t, m2.ID, receive(t, ch).ID)
}

func TestSubscribeDeliversInSeqOrderWhenLiveEventsArriveOutOfOrder(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c := f.chat(true)

	ch, err := f.svc.Subscribe(ctx, c.ID, f.user.ID, 0)
	require.NoError(t, err)

	messages := f.store.Repos().Messages
	first := &domain.Message{ID: uuid.New(), ChatID: c.ID, SenderID: f.astro.ID, Message: "first"}
	require.NoError(t, messages.Create(ctx, first))
	second := &domain.Message{ID: uuid.New(), ChatID: c.ID, SenderID: f.astro.ID, Message: "second"}
	require.NoError(t, messages.Create(ctx, second))
	require.Equal(t, first.Seq+1, second.Seq)

	// более поздний коммит опубликован раньше
	require.NoError(t, f.hub.Publish(ctx, *second))
	assert.Equal(t, first.ID, receive(t, ch).ID)
	assert.Equal(t, second.ID, receive(t, ch).ID)

	require.NoError(t, f.hub.Publish(ctx, *first))
	assertQuiet(t, ch)

	third, err := f.svc.SendMessage(ctx, c.ID, f.user.ID, "third")
	require.NoError(t, err)
	got := receive(t, ch)
	assert.Equal(t, third.ID, got.ID)
	assert.Equal(t, second.Seq+1, got.Seq)
}

func TestSubscribeClosesWhenGapRefillFails(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c := f.chat(true)

	ch, err := f.svc.Subscribe(ctx, c.ID, f.user.ID, 0)
	require.NoError(t, err)

	messages := f.store.Repos().Messages
	first := &domain.Message{ID: uuid.New(), ChatID: c.ID, SenderID: f.astro.ID, Message: "first"}
	require.NoError(t, messages.Create(ctx, first))
	second := &domain.Message{ID: uuid.New(), ChatID: c.ID, SenderID: f.astro.ID, Message: "second"}
	require.NoError(t, messages.Create(ctx, second))

	f.store.FailNext("messages.ListAfter", errors.New("db is gone"))
	require.NoError(t, f.hub.Publish(ctx, *second))

	select {
	case m, ok := <-ch:
		assert.False(t, ok, "unexpected message seq=%d", m.Seq)
	case <-time.After(2 * time.Second):
		t.Fatal("subscription was not closed")
	}
}

func TestSubscribeRequiresParticipant(t *testing.T) {
	f := newFixture(t)
	c := f.chat(true)
	stranger := f.store.AddProfile(domain.RoleUser, "Stranger")

	_, err := f.svc.Subscribe(context.Background(), c.ID, stranger.ID, 0)
	assert.ErrorIs(t, err, domain.ErrNotParticipant)
	assert.Zero(t, f.hub.SubscriberCount(c.ID))
}

func TestSubscribeClosesOnCancel(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	c := f.chat(true)

	ch, err := f.svc.Subscribe(ctx, c.ID, f.user.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, f.hub.SubscriberCount(c.ID))

	cancel()
	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("subscription was not torn down")
	}
	assert.Eventually(t, func() bool { return f.hub.SubscriberCount(c.ID) == 0 }, time.Second, 10*time.Millisecond)
}
