package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/admin/cosmic-connect/internal/domain"
	kafkaPorts "github.com/admin/cosmic-connect/internal/ports/kafka"
	"github.com/admin/cosmic-connect/internal/ports/service"
)

// AdminNotificationHandler пересылает админам в Telegram события об оплатах
type AdminNotificationHandler struct {
	AlerterService service.IAlerterService
	Log            *slog.Logger
}

func NewAdminNotificationHandler(alerterService service.IAlerterService, log *slog.Logger) kafkaPorts.MessageHandler {
	return &AdminNotificationHandler{
		AlerterService: alerterService,
		Log:            log,
	}
}

// HandleMessage тип события берётся из header, тело разбирается только для нужных типов
func (h *AdminNotificationHandler) HandleMessage(ctx context.Context, key string, value []byte, headers map[string]string) error {
	eventType := domain.EventType(headers["event_type"])
	switch eventType {
	case domain.EventPaymentSubmitted, domain.EventPaymentVerified:
	case "":
		// старые сообщения без header
		var envelope struct {
			Type domain.EventType `json:"event_type"`
		}
		if err := json.Unmarshal(value, &envelope); err != nil {
			return fmt.Errorf("failed to unmarshal event %s: %w", key, err)
		}
		if envelope.Type != domain.EventPaymentSubmitted && envelope.Type != domain.EventPaymentVerified {
			return nil
		}
	default:
		return nil
	}

	var event domain.Event
	if err := json.Unmarshal(value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal event %s: %w", key, err)
	}

	if h.AlerterService == nil {
		h.Log.Debug("alerter not configured, skipping admin notification", "event_type", event.Type)
		return nil
	}

	if err := h.AlerterService.SendAlert(ctx, formatEvent(event)); err != nil {
		return fmt.Errorf("failed to notify admins about %s: %w", event.Type, err)
	}

	h.Log.Debug("admin notified", "event_type", event.Type, "event_id", event.ID, "chat_id", event.ChatID)
	return nil
}

func formatEvent(e domain.Event) string {
	amount := "?"
	if e.Amount != nil {
		amount = e.Amount.StringFixed(2)
	}
	paymentID := "?"
	if e.PaymentID != nil {
		paymentID = e.PaymentID.String()
	}

	switch e.Type {
	case domain.EventPaymentSubmitted:
		return fmt.Sprintf("💳 New payment proof waiting for review\nPayment: %s\nChat: %s\nAmount: %s",
			paymentID, e.ChatID, amount)
	case domain.EventPaymentVerified:
		return fmt.Sprintf("✅ Payment verified\nPayment: %s\nChat: %s\nAmount: %s\nBy: %s",
			paymentID, e.ChatID, amount, e.ActorID)
	default:
		return fmt.Sprintf("%s: chat %s", e.Type, e.ChatID)
	}
}
