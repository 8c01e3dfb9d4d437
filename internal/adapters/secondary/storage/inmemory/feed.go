package inmemory

import (
	"context"
	"sync"

	"github.com/admin/cosmic-connect/internal/domain"
	"github.com/admin/cosmic-connect/internal/ports/feed"
	"github.com/google/uuid"
)

const defaultSubscriberBuffer = 64

// MessageHub лента сообщений внутри процесса, для одного инстанса и тестов
type MessageHub struct {
	mu     sync.RWMutex
	subs   map[uuid.UUID]map[*hubSubscription]struct{}
	buffer int
}

func NewMessageHub() *MessageHub {
	return &MessageHub{
		subs:   make(map[uuid.UUID]map[*hubSubscription]struct{}),
		buffer: defaultSubscriberBuffer,
	}
}

var _ feed.IMessageFeed = (*MessageHub)(nil)

// Publish не блокируется: подписчик с полным буфером отключается и дозагрузит пропущенное при переподключении
func (h *MessageHub) Publish(_ context.Context, message domain.Message) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subs[message.ChatID] {
		select {
		case sub.out <- message:
		default:
			h.removeLocked(message.ChatID, sub)
		}
	}
	return nil
}

func (h *MessageHub) Subscribe(_ context.Context, chatID uuid.UUID) (feed.Subscription, error) {
	sub := &hubSubscription{
		hub:    h,
		chatID: chatID,
		out:    make(chan domain.Message, h.buffer),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[chatID] == nil {
		h.subs[chatID] = make(map[*hubSubscription]struct{})
	}
	h.subs[chatID][sub] = struct{}{}

	return sub, nil
}

// SubscriberCount число активных подписок на чат
func (h *MessageHub) SubscriberCount(chatID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[chatID])
}

func (h *MessageHub) removeLocked(chatID uuid.UUID, sub *hubSubscription) {
	subs, ok := h.subs[chatID]
	if !ok {
		return
	}
	if _, ok := subs[sub]; !ok {
		return
	}
	delete(subs, sub)
	close(sub.out)
	if len(subs) == 0 {
		delete(h.subs, chatID)
	}
}

type hubSubscription struct {
	hub    *MessageHub
	chatID uuid.UUID
	out    chan domain.Message
}

func (s *hubSubscription) Messages() <-chan domain.Message {
	return s.out
}

func (s *hubSubscription) Close() error {
	s.hub.mu.Lock()
	defer s.hub.mu.Unlock()
	s.hub.removeLocked(s.chatID, s)
	return nil
}
