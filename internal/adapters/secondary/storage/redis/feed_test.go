package redis

import (
	"context"
	"encoding/json"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/admin/cosmic-connect/internal/domain"
	"github.com/admin/cosmic-connect/internal/pkg/logger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	closed atomic.Int32
}

func (c *fakeConn) Close() error {
	c.closed.Add(1)
	return nil
}

func payload(t *testing.T, m domain.Message) *redis.Message {
	t.Helper()
	raw, err := json.Marshal(m)
	require.NoError(t, err)
	return &redis.Message{Channel: channelName(m.ChatID), Payload: string(raw)}
}

func receive(t *testing.T, ch <-chan domain.Message) domain.Message {
	t.Helper()
	select {
	case m, ok := <-ch:
		require.True(t, ok, "channel closed")
		return m
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return domain.Message{}
	}
}

func waitClosed(t *testing.T, ch <-chan domain.Message) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("subscription channel was not closed")
		}
	}
}

func TestPumpSkipsMalformedPayload(t *testing.T) {
	chatID := uuid.New()
	src := make(chan *redis.Message, 2)
	conn := &fakeConn{}
	sub := newSubscription(conn, src, 4)
	go sub.pump(logger.Discard(), chatID)
	defer sub.Close()

	src <- &redis.Message{Channel: channelName(chatID), Payload: "{not json"}
	src <- payload(t, domain.Message{ID: uuid.New(), ChatID: chatID, Seq: 3, Message: "hello"})

	got := receive(t, sub.Messages())
	assert.Equal(t, int64(3), got.Seq)
	assert.Equal(t, "hello", got.Message)
}

func TestPumpClosesLaggingSubscriber(t *testing.T) {
	chatID := uuid.New()
	src := make(chan *redis.Message, 2)
	conn := &fakeConn{}
	sub := newSubscription(conn, src, 1)

	src <- payload(t, domain.Message{ID: uuid.New(), ChatID: chatID, Seq: 1})
	src <- payload(t, domain.Message{ID: uuid.New(), ChatID: chatID, Seq: 2})
	go sub.pump(logger.Discard(), chatID)

	assert.Eventually(t, func() bool { return conn.closed.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	// буфер отдаётся, затем канал закрыт
	assert.Equal(t, int64(1), receive(t, sub.Messages()).Seq)
	waitClosed(t, sub.Messages())

	require.NoError(t, sub.Close())
	assert.Equal(t, int32(1), conn.closed.Load())
}

func TestPumpStopsWhenSourceCloses(t *testing.T) {
	src := make(chan *redis.Message)
	sub := newSubscription(&fakeConn{}, src, 1)
	go sub.pump(logger.Discard(), uuid.New())

	close(src)
	waitClosed(t, sub.Messages())
}

func TestSubscriptionCloseWhilePumping(t *testing.T) {
	chatID := uuid.New()
	src := make(chan *redis.Message)
	conn := &fakeConn{}
	sub := newSubscription(conn, src, 1)
	go sub.pump(logger.Discard(), chatID)

	msg := payload(t, domain.Message{ID: uuid.New(), ChatID: chatID, Seq: 1})
	stop := make(chan struct{})
	go func() {
		for {
			select {
			case src <- msg:
			case <-stop:
				return
			}
		}
	}()
	defer close(stop)

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, sub.Close())
	require.NoError(t, sub.Close())

	waitClosed(t, sub.Messages())
	assert.Equal(t, int32(1), conn.closed.Load())
}

// интеграционный: нужен Redis на REDIS_TEST_ADDR или localhost:6379
func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: addr, DialTimeout: 500 * time.Millisecond})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		t.Skipf("redis is not available at %s: %v", addr, err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestMessageFeedRoundTrip(t *testing.T) {
	client := newTestClient(t)
	f := NewMessageFeed(client, logger.Discard())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	chatID, otherChat := uuid.New(), uuid.New()
	sub, err := f.Subscribe(ctx, chatID)
	require.NoError(t, err)
	defer sub.Close()

	sent := domain.Message{ID: uuid.New(), ChatID: chatID, SenderID: uuid.New(), Seq: 7, Message: "hello"}
	require.NoError(t, f.Publish(ctx, domain.Message{ID: uuid.New(), ChatID: otherChat, Seq: 1}))
	require.NoError(t, f.Publish(ctx, sent))

	got := receive(t, sub.Messages())
	assert.Equal(t, sent.ID, got.ID)
	assert.Equal(t, sent.Seq, got.Seq)
	assert.Equal(t, sent.Message, got.Message)

	require.NoError(t, sub.Close())
	waitClosed(t, sub.Messages())
}
