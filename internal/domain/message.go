package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const MaxMessageLength = 4000

// Message сообщение чата, append-only (кроме is_read)
// Seq - монотонный курсор для дозагрузки пропущенного после переподключения
type Message struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ChatID    uuid.UUID `json:"chat_id" db:"chat_id"`
	SenderID  uuid.UUID `json:"sender_id" db:"sender_id"`
	Seq       int64     `json:"seq" db:"seq"`
	Message   string    `json:"message" db:"message"`
	IsRead    bool      `json:"is_read" db:"is_read"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ValidateMessageBody пустое или из пробелов сообщение отклоняется всегда
func ValidateMessageBody(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", ErrEmptyMessage
	}
	if len([]rune(trimmed)) > MaxMessageLength {
		return "", fmt.Errorf("%w: message longer than %d characters", ErrValidation, MaxMessageLength)
	}
	return trimmed, nil
}
