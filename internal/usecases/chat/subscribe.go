package chat

import (
	"context"
	"fmt"

	"github.com/admin/cosmic-connect/internal/domain"
	"github.com/admin/cosmic-connect/internal/pkg/metrics"
	"github.com/google/uuid"
)

// Subscribe живой канал одного чата. Порядок: подписка на ленту, затем дозагрузка
// сообщений с seq > afterSeq из базы, затем живые события. seq внутри чата идёт
// без пропусков, поэтому клиент получает его строго по возрастанию: событие
// с пропуском перед ним вызывает дозагрузку недостающего из базы.
// Канал закрывается при отмене ctx или когда лента отключила отставшего подписчика,
// клиент переподключается с последним полученным seq.
func (s *Service) Subscribe(ctx context.Context, chatID, viewerID uuid.UUID, afterSeq int64) (<-chan domain.Message, error) {
	if _, err := s.participantChat(ctx, chatID, viewerID); err != nil {
		return nil, err
	}
	if afterSeq < 0 {
		afterSeq = 0
	}

	sub, err := s.Feed.Subscribe(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to chat feed: %w", err)
	}

	backlog, err := s.MessageRepo.ListAfter(ctx, chatID, afterSeq)
	if err != nil {
		_ = sub.Close()
		return nil, err
	}

	out := make(chan domain.Message)
	metrics.LiveSubscribers.Inc()

	go func() {
		defer metrics.LiveSubscribers.Dec()
		defer close(out)
		defer sub.Close()

		send := func(m domain.Message) bool {
			select {
			case out <- m:
				return true
			case <-ctx.Done():
				return false
			}
		}

		lastDelivered := afterSeq
		deliver := func(m domain.Message) bool {
			if !send(m) {
				return false
			}
			lastDelivered = m.Seq
			return true
		}

		for _, m := range backlog {
			if !deliver(m) {
				return
			}
		}

		live := sub.Messages()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-live:
				if !ok {
					s.Log.Debug("live feed closed subscription", "chat_id", chatID, "viewer_id", viewerID)
					return
				}
				if m.ChatID != chatID || m.Seq <= lastDelivered {
					continue
				}
				if m.Seq == lastDelivered+1 {
					if !deliver(m) {
						return
					}
					continue
				}

				// пропуск в seq: событие обогнало более раннее, добираем из базы
				gap, err := s.MessageRepo.ListAfter(ctx, chatID, lastDelivered)
				if err != nil {
					s.Log.Warn("failed to refill chat gap", "chat_id", chatID, "after_seq", lastDelivered, "error", err)
					return
				}
				for _, g := range gap {
					if g.Seq <= lastDelivered {
						continue
					}
					if !deliver(g) {
						return
					}
				}
				if m.Seq > lastDelivered {
					if !deliver(m) {
						return
					}
				}
			}
		}
	}()

	return out, nil
}
