package alerter

import (
	"context"
	"fmt"

	"github.com/admin/cosmic-connect/internal/ports/service"
)

// Sender источник доставки алертов (Telegram клиент алертера)
type Sender interface {
	SendAlert(ctx context.Context, message string) error
}

// Service реализует IAlerterService, добавляет префикс окружения к тексту
type Service struct {
	sender Sender
	prefix string
}

func New(sender Sender, environment string) service.IAlerterService {
	prefix := ""
	if environment != "" {
		prefix = fmt.Sprintf("[%s] ", environment)
	}
	return &Service{
		sender: sender,
		prefix: prefix,
	}
}

func (s *Service) SendAlert(ctx context.Context, message string) error {
	if s.sender == nil {
		return fmt.Errorf("alerter client is not initialized")
	}

	return s.sender.SendAlert(ctx, s.prefix+message)
}
