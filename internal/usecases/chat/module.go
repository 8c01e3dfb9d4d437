package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/admin/cosmic-connect/internal/domain"
	"github.com/admin/cosmic-connect/internal/pkg/metrics"
	"github.com/admin/cosmic-connect/internal/ports/feed"
	kafkaPorts "github.com/admin/cosmic-connect/internal/ports/kafka"
	"github.com/admin/cosmic-connect/internal/ports/repository"
	"github.com/admin/cosmic-connect/internal/ports/storage"
	"github.com/google/uuid"
)

// Service экран чата: сообщения, живой канал, загрузка пруфа оплаты
type Service struct {
	ProfileRepo repository.IProfileRepo
	ChatRepo    repository.IChatRepo
	MessageRepo repository.IMessageRepo
	PaymentRepo repository.IPaymentRepo
	Feed        feed.IMessageFeed
	Proofs      storage.IProofStorage
	Events      kafkaPorts.IEventPublisher
	Cfg         *Config
	Log         *slog.Logger
}

func New(
	profileRepo repository.IProfileRepo,
	chatRepo repository.IChatRepo,
	messageRepo repository.IMessageRepo,
	paymentRepo repository.IPaymentRepo,
	messageFeed feed.IMessageFeed,
	proofs storage.IProofStorage,
	events kafkaPorts.IEventPublisher,
	cfg *Config,
	log *slog.Logger,
) *Service {
	return &Service{
		ProfileRepo: profileRepo,
		ChatRepo:    chatRepo,
		MessageRepo: messageRepo,
		PaymentRepo: paymentRepo,
		Feed:        messageFeed,
		Proofs:      proofs,
		Events:      events,
		Cfg:         cfg,
		Log:         log,
	}
}

// participantChat чат, если профиль в нём участвует
func (s *Service) participantChat(ctx context.Context, chatID, profileID uuid.UUID) (*domain.Chat, error) {
	chat, err := s.ChatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.IsParticipant(profileID) {
		return nil, domain.ErrNotParticipant
	}
	return chat, nil
}

// GetChat чат с вычисленным состоянием и именем собеседника
func (s *Service) GetChat(ctx context.Context, chatID, viewerID uuid.UUID) (*domain.ChatDetails, error) {
	chat, err := s.participantChat(ctx, chatID, viewerID)
	if err != nil {
		return nil, err
	}

	payments, err := s.PaymentRepo.ListByChat(ctx, chatID)
	if err != nil {
		return nil, err
	}

	details := &domain.ChatDetails{
		Chat:  *chat,
		State: domain.DeriveChatState(chat, payments),
	}

	counterpart, err := s.ProfileRepo.GetByID(ctx, chat.CounterpartID(viewerID))
	switch {
	case err == nil:
		details.CounterpartName = counterpart.FullName
	case errors.Is(err, domain.ErrNotFound):
	default:
		return nil, err
	}

	return details, nil
}

// State состояние машины активации чата
func (s *Service) State(ctx context.Context, chatID uuid.UUID) (domain.ChatState, error) {
	chat, err := s.ChatRepo.GetByID(ctx, chatID)
	if err != nil {
		return "", err
	}
	payments, err := s.PaymentRepo.ListByChat(ctx, chatID)
	if err != nil {
		return "", err
	}
	return domain.DeriveChatState(chat, payments), nil
}

// SendMessage пустое сообщение отклоняется всегда, непустое - только в активном чате
func (s *Service) SendMessage(ctx context.Context, chatID, senderID uuid.UUID, text string) (*domain.Message, error) {
	chat, err := s.participantChat(ctx, chatID, senderID)
	if err != nil {
		return nil, err
	}

	body, err := domain.ValidateMessageBody(text)
	if err != nil {
		return nil, err
	}

	if !chat.IsActive {
		return nil, domain.ErrChatInactive
	}

	message := &domain.Message{
		ID:       uuid.New(),
		ChatID:   chatID,
		SenderID: senderID,
		Message:  body,
	}
	if err := s.MessageRepo.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}
	metrics.MessagesSent.Inc()

	// сообщение уже сохранено: подписчики без живого события получат его при дозагрузке
	if err := s.Feed.Publish(ctx, *message); err != nil {
		s.Log.Warn("failed to publish message to live feed",
			"error", err,
			"chat_id", chatID,
			"message_id", message.ID,
			"seq", message.Seq,
		)
	}

	ev := domain.NewEvent(domain.EventMessageCreated, chatID, senderID, message.CreatedAt)
	messageID := message.ID
	ev.MessageID = &messageID
	_ = s.Events.Publish(ctx, ev)

	s.Log.Debug("message sent", "chat_id", chatID, "message_id", message.ID, "seq", message.Seq)
	return message, nil
}

// ListMessages история чата по возрастанию seq
func (s *Service) ListMessages(ctx context.Context, chatID, viewerID uuid.UUID) ([]domain.Message, error) {
	if _, err := s.participantChat(ctx, chatID, viewerID); err != nil {
		return nil, err
	}
	return s.MessageRepo.ListByChat(ctx, chatID)
}

// MarkRead отмечает прочитанными сообщения собеседника
func (s *Service) MarkRead(ctx context.Context, chatID, readerID uuid.UUID) (int64, error) {
	if _, err := s.participantChat(ctx, chatID, readerID); err != nil {
		return 0, err
	}
	return s.MessageRepo.MarkRead(ctx, chatID, readerID)
}

// SubmitProof загружает пруф в хранилище и создаёт pending платёж по чату
func (s *Service) SubmitProof(ctx context.Context, in domain.ProofSubmission) (*domain.Payment, error) {
	chat, err := s.participantChat(ctx, in.ChatID, in.UserID)
	if err != nil {
		return nil, err
	}
	if chat.UserID != in.UserID {
		return nil, fmt.Errorf("%w: only the chat's user can pay for it", domain.ErrForbidden)
	}
	if chat.IsActive {
		return nil, fmt.Errorf("%w: chat is already active", domain.ErrConflict)
	}

	if err := s.validateProof(in); err != nil {
		return nil, err
	}

	payments, err := s.PaymentRepo.ListByChat(ctx, chat.ID)
	if err != nil {
		return nil, err
	}
	for _, p := range payments {
		switch p.Status {
		case domain.PaymentStatusPending, domain.PaymentStatusVerified:
			return nil, domain.ErrPaymentExists
		case domain.PaymentStatusRejected:
			return nil, domain.ErrChatClosed
		}
	}

	now := time.Now().UTC()
	chatID := chat.ID
	payment := &domain.Payment{
		ID:           uuid.New(),
		UserID:       chat.UserID,
		AstrologerID: chat.AstrologerID,
		ChatID:       &chatID,
		Amount:       in.Amount,
		Status:       domain.PaymentStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	key := domain.ProofObjectKey(chat.ID, payment.ID, domain.ProofExtension(in.ContentType))
	if err := s.Proofs.Upload(ctx, key, in.Body, in.Size, in.ContentType); err != nil {
		return nil, fmt.Errorf("failed to upload payment proof: %w", err)
	}
	payment.ProofURL = &key

	if err := s.PaymentRepo.Create(ctx, payment); err != nil {
		if delErr := s.Proofs.Delete(ctx, key); delErr != nil {
			s.Log.Error("failed to delete orphaned payment proof", "error", delErr, "key", key)
		}
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	metrics.PaymentsSubmitted.Inc()
	s.Log.Info("payment proof submitted",
		"payment_id", payment.ID,
		"chat_id", chat.ID,
		"user_id", chat.UserID,
		"amount", payment.Amount.String(),
	)
	_ = s.Events.Publish(ctx, domain.NewPaymentEvent(domain.EventPaymentSubmitted, payment, in.UserID, now))

	return payment, nil
}

func (s *Service) validateProof(in domain.ProofSubmission) error {
	if !in.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than zero", domain.ErrValidation)
	}
	if in.Body == nil || in.Size <= 0 {
		return fmt.Errorf("%w: proof file is empty", domain.ErrValidation)
	}
	if domain.ProofExtension(in.ContentType) == "" {
		return fmt.Errorf("%w: proof must be an image or pdf, got %q", domain.ErrValidation, in.ContentType)
	}
	if s.Cfg.ProofMaxBytes > 0 && in.Size > s.Cfg.ProofMaxBytes {
		return fmt.Errorf("%w: proof is larger than %d bytes", domain.ErrValidation, s.Cfg.ProofMaxBytes)
	}
	return nil
}
