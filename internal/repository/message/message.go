package messageRepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/admin/cosmic-connect/internal/domain"
	"github.com/admin/cosmic-connect/internal/ports/persistence"
	ports "github.com/admin/cosmic-connect/internal/ports/repository"
	"github.com/google/uuid"
)

type messageColumns struct {
	TableName string
	ID        string
	ChatID    string
	SenderID  string
	Seq       string
	Message   string
	IsRead    string
	CreatedAt string

	ChatsTable  string
	ChatPK      string
	ChatLastSeq string
}

type Repository struct {
	db      persistence.Persistence
	Log     *slog.Logger
	columns messageColumns
}

// New создаёт репозиторий сообщений
func New(db persistence.Persistence, log *slog.Logger) ports.IMessageRepo {
	return &Repository{
		db:  db,
		Log: log,
		columns: messageColumns{
			TableName: "messages",
			ID:        "id",
			ChatID:    "chat_id",
			SenderID:  "sender_id",
			Seq:       "seq",
			Message:   "message",
			IsRead:    "is_read",
			CreatedAt: "created_at",

			ChatsTable:  "chats",
			ChatPK:      "id",
			ChatLastSeq: "last_message_seq",
		},
	}
}

func (r *Repository) allColumns() string {
	return strings.Join([]string{
		r.columns.ID,
		r.columns.ChatID,
		r.columns.SenderID,
		r.columns.Seq,
		r.columns.Message,
		r.columns.IsRead,
		r.columns.CreatedAt,
	}, ", ")
}

// Create seq выдаётся счётчиком чата (chats.last_message_seq) в той же транзакции:
// строка чата заблокирована до коммита, поэтому вставки одного чата коммитятся в порядке seq
func (r *Repository) Create(ctx context.Context, message *domain.Message) error {
	nextSeq := fmt.Sprintf(`UPDATE %s SET %s = %s + 1 WHERE %s = $1 RETURNING %s`,
		r.columns.ChatsTable,
		r.columns.ChatLastSeq,
		r.columns.ChatLastSeq,
		r.columns.ChatPK,
		r.columns.ChatLastSeq,
	)
	insert := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s, %s) VALUES ($1, $2, $3, $4, $5) RETURNING %s`,
		r.columns.TableName,
		r.columns.ID,
		r.columns.ChatID,
		r.columns.SenderID,
		r.columns.Seq,
		r.columns.Message,
		r.columns.CreatedAt,
	)

	var (
		seq       int64
		createdAt time.Time
	)
	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx persistence.Transaction) error {
		if err := tx.Get(ctx, &seq, nextSeq, message.ChatID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("chat: %w", domain.ErrNotFound)
			}
			return fmt.Errorf("failed to allocate message seq: %w", err)
		}
		return tx.Get(ctx, &createdAt, insert,
			message.ID,
			message.ChatID,
			message.SenderID,
			seq,
			message.Message,
		)
	})
	if err != nil {
		r.Log.Error("failed to create message",
			"error", err,
			"chat_id", message.ChatID,
			"sender_id", message.SenderID,
		)
		return fmt.Errorf("failed to create message: %w", err)
	}

	message.Seq = seq
	message.CreatedAt = createdAt.UTC()
	message.IsRead = false

	r.Log.Debug("message created successfully",
		"message_id", message.ID,
		"chat_id", message.ChatID,
		"seq", message.Seq,
	)
	return nil
}

// ListByChat все сообщения чата по возрастанию seq
func (r *Repository) ListByChat(ctx context.Context, chatID uuid.UUID) ([]domain.Message, error) {
	return r.ListAfter(ctx, chatID, 0)
}

// ListAfter сообщения с seq > afterSeq по возрастанию seq
func (r *Repository) ListAfter(ctx context.Context, chatID uuid.UUID, afterSeq int64) ([]domain.Message, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s > $2 ORDER BY %s ASC`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.ChatID,
		r.columns.Seq,
		r.columns.Seq,
	)

	messages := make([]domain.Message, 0)
	if err := r.db.Select(ctx, &messages, query, chatID, afterSeq); err != nil {
		r.Log.Error("failed to list messages",
			"error", err,
			"chat_id", chatID,
			"after_seq", afterSeq,
		)
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	return messages, nil
}

// MarkRead помечает прочитанными сообщения собеседника
func (r *Repository) MarkRead(ctx context.Context, chatID, readerID uuid.UUID) (int64, error) {
	query := fmt.Sprintf(`UPDATE %s SET %s = TRUE WHERE %s = $1 AND %s <> $2 AND %s = FALSE`,
		r.columns.TableName,
		r.columns.IsRead,
		r.columns.ChatID,
		r.columns.SenderID,
		r.columns.IsRead,
	)

	affected, err := r.db.ExecWithResult(ctx, query, chatID, readerID)
	if err != nil {
		r.Log.Error("failed to mark messages read",
			"error", err,
			"chat_id", chatID,
			"reader_id", readerID,
		)
		return 0, fmt.Errorf("failed to mark messages read: %w", err)
	}

	r.Log.Debug("messages marked read", "chat_id", chatID, "count", affected)
	return affected, nil
}
