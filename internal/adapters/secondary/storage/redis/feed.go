package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/admin/cosmic-connect/internal/domain"
	"github.com/admin/cosmic-connect/internal/ports/feed"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	channelPrefix    = "chat:"
	subscriberBuffer = 64
)

// MessageFeed лента сообщений на Redis Pub/Sub, канал chat:<id> на каждый чат
type MessageFeed struct {
	client *redis.Client
	log    *slog.Logger
}

func NewMessageFeed(client *redis.Client, log *slog.Logger) *MessageFeed {
	return &MessageFeed{client: client, log: log}
}

var _ feed.IMessageFeed = (*MessageFeed)(nil)

func channelName(chatID uuid.UUID) string {
	return channelPrefix + chatID.String()
}

// Publish рассылает сообщение всем подписчикам чата на всех инстансах
func (f *MessageFeed) Publish(ctx context.Context, message domain.Message) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	receivers, err := f.client.Publish(ctx, channelName(message.ChatID), payload).Result()
	if err != nil {
		f.log.Error("failed to publish message to feed",
			"error", err,
			"chat_id", message.ChatID,
			"message_id", message.ID,
		)
		return fmt.Errorf("redis publish failed: %w", err)
	}

	f.log.Debug("message published to feed",
		"chat_id", message.ChatID,
		"message_id", message.ID,
		"receivers", receivers,
	)
	return nil
}

// Subscribe ждёт подтверждения подписки от Redis, чтобы дозагрузка из БД не потеряла вставки
func (f *MessageFeed) Subscribe(ctx context.Context, chatID uuid.UUID) (feed.Subscription, error) {
	pubsub := f.client.Subscribe(ctx, channelName(chatID))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("redis subscribe failed [chat_id=%s]: %w", chatID, err)
	}

	sub := newSubscription(pubsub, pubsub.Channel(), subscriberBuffer)
	go sub.pump(f.log, chatID)

	f.log.Debug("feed subscription opened", "chat_id", chatID)
	return sub, nil
}

type subscription struct {
	conn      io.Closer
	src       <-chan *redis.Message
	out       chan domain.Message
	done      chan struct{}
	closeOnce sync.Once
}

func newSubscription(conn io.Closer, src <-chan *redis.Message, buffer int) *subscription {
	return &subscription{
		conn: conn,
		src:  src,
		out:  make(chan domain.Message, buffer),
		done: make(chan struct{}),
	}
}

func (s *subscription) Messages() <-chan domain.Message {
	return s.out
}

func (s *subscription) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		err = s.conn.Close()
	})
	return err
}

// pump перекладывает сообщения Redis в типизированный канал; отставший подписчик закрывается
func (s *subscription) pump(log *slog.Logger, chatID uuid.UUID) {
	defer close(s.out)

	for {
		select {
		case <-s.done:
			return
		case raw, ok := <-s.src:
			if !ok {
				return
			}

			var message domain.Message
			if err := json.Unmarshal([]byte(raw.Payload), &message); err != nil {
				log.Warn("skipping malformed feed payload", "error", err, "chat_id", chatID)
				continue
			}

			select {
			case s.out <- message:
			case <-s.done:
				return
			default:
				log.Warn("feed subscriber lagging, closing subscription", "chat_id", chatID)
				_ = s.Close()
				return
			}
		}
	}
}
