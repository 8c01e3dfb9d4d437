package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/IBM/sarama"
	"github.com/admin/cosmic-connect/internal/domain"
	kafkaPorts "github.com/admin/cosmic-connect/internal/ports/kafka"
)

const eventTypeHeader = "event_type"

// EventProducer публикует доменные события в Kafka, ключ - chat_id
type EventProducer struct {
	producer sarama.SyncProducer
	topic    string
	log      *slog.Logger
}

// NewProducer создаёт sync producer для топика событий
func NewProducer(cfg *Config, log *slog.Logger) (*EventProducer, error) {
	producer, err := sarama.NewSyncProducer(cfg.GetBrokers(), cfg.ProducerConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	log.Info("kafka producer created",
		"brokers", cfg.Brokers,
		"topic", cfg.Topic,
	)

	return NewEventProducer(producer, cfg.Topic, log), nil
}

// NewEventProducer оборачивает готовый sarama producer
func NewEventProducer(producer sarama.SyncProducer, topic string, log *slog.Logger) *EventProducer {
	return &EventProducer{
		producer: producer,
		topic:    topic,
		log:      log,
	}
}

var _ kafkaPorts.IEventPublisher = (*EventProducer)(nil)

// Publish отправляет событие; тип события дублируется в header для фильтрации без разбора value
func (p *EventProducer) Publish(ctx context.Context, event domain.Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	key := event.ChatID.String()
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(value),
		Headers: []sarama.RecordHeader{
			{Key: []byte(eventTypeHeader), Value: []byte(event.Type)},
			{Key: []byte("event_id"), Value: []byte(event.ID.String())},
		},
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.log.Debug("kafka send failed",
			"error", err,
			"topic", p.topic,
			"key", key,
			"event_type", event.Type,
		)
		return fmt.Errorf("kafka send failed [topic=%s, key=%s]: %w", p.topic, key, err)
	}

	p.log.Debug("event sent to kafka",
		"topic", p.topic,
		"partition", partition,
		"offset", offset,
		"key", key,
		"event_type", event.Type,
	)
	return nil
}

// Close закрывает producer
func (p *EventProducer) Close() error {
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka producer: %w", err)
	}
	p.log.Info("kafka producer closed")
	return nil
}

// LogPublisher заглушка без Kafka: событие только логируется
type LogPublisher struct {
	log *slog.Logger
}

func NewLogPublisher(log *slog.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(_ context.Context, event domain.Event) error {
	p.log.Debug("event dropped, kafka producer is not configured",
		"event_type", event.Type,
		"chat_id", event.ChatID,
	)
	return nil
}
