package chatRepo

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

type chatColumns struct {
	TableName       string
	ID              string
	UserID          string
	AstrologerID    string
	IsActive        string
	StartedAt       string
	EndedAt         string
	DurationMinutes string
	TotalCost       string
	CreatedAt       string
	UpdatedAt       string
}

type Repository struct {
	db      persistence.Persistence
	Log     *slog.Logger
	columns chatColumns
}

// New создаёт репозиторий чатов
func New(db persistence.Persistence, log *slog.Logger) ports.IChatRepo {
	return &Repository{
		db:  db,
		Log: log,
		columns: chatColumns{
			TableName:       "chats",
			ID:              "id",
			UserID:          "user_id",
			AstrologerID:    "astrologer_id",
			IsActive:        "is_active",
			StartedAt:       "started_at",
			EndedAt:         "ended_at",
			DurationMinutes: "duration_minutes",
			TotalCost:       "total_cost",
			CreatedAt:       "created_at",
			UpdatedAt:       "updated_at",
		},
	}
}

func (r *Repository) columnList() []string {
	return []string{
		r.columns.ID,
		r.columns.UserID,
		r.columns.AstrologerID,
		r.columns.IsActive,
		r.columns.StartedAt,
		r.columns.EndedAt,
		r.columns.DurationMinutes,
		r.columns.TotalCost,
		r.columns.CreatedAt,
		r.columns.UpdatedAt,
	}
}

func (r *Repository) allColumns() string {
	return strings.Join(r.columnList(), ", ")
}

func (r *Repository) prefixedColumns(alias string) string {
	cols := r.columnList()
	for i, c := range cols {
		cols[i] = alias + "." + c
	}
	return strings.Join(cols, ", ")
}

// Create новый чат всегда неактивен
func (r *Repository) Create(ctx context.Context, chat *domain.Chat) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		r.columns.TableName,
		r.allColumns(),
	)

	err := r.db.Exec(ctx, query,
		chat.ID,
		chat.UserID,
		chat.AstrologerID,
		chat.IsActive,
		chat.StartedAt,
		chat.EndedAt,
		chat.DurationMinutes,
		chat.TotalCost,
		chat.CreatedAt,
		chat.UpdatedAt,
	)
	if err != nil {
		r.Log.Error("failed to create chat",
			"error", err,
			"chat_id", chat.ID,
			"user_id", chat.UserID,
			"astrologer_id", chat.AstrologerID,
		)
		return fmt.Errorf("failed to create chat: %w", err)
	}

	r.Log.Debug("chat created successfully", "chat_id", chat.ID)
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Chat, error) {
	var chat domain.Chat

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.ID,
	)

	if err := r.db.Get(ctx, &chat, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.Log.Debug("chat not found", "chat_id", id)
			return nil, fmt.Errorf("chat: %w", domain.ErrNotFound)
		}
		r.Log.Error("failed to get chat",
			"error", err,
			"chat_id", id,
		)
		return nil, fmt.Errorf("failed to get chat: %w", err)
	}

	return &chat, nil
}

// ListByUser чаты пользователя с именем астролога, новые сначала
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.ChatSummary, error) {
	query := fmt.Sprintf(`SELECT %s, p.full_name AS counterpart_name
		FROM %s c
		JOIN profiles p ON p.id = c.%s
		WHERE c.%s = $1
		ORDER BY c.%s DESC`,
		r.prefixedColumns("c"),
		r.columns.TableName,
		r.columns.AstrologerID,
		r.columns.UserID,
		r.columns.CreatedAt,
	)

	chats := make([]domain.ChatSummary, 0)
	if err := r.db.Select(ctx, &chats, query, userID); err != nil {
		r.Log.Error("failed to list user chats",
			"error", err,
			"user_id", userID,
		)
		return nil, fmt.Errorf("failed to list user chats: %w", err)
	}

	return chats, nil
}

// ListActiveByAstrologer активные чаты астролога с именем пользователя, новые сначала
func (r *Repository) ListActiveByAstrologer(ctx context.Context, astrologerID uuid.UUID) ([]domain.ChatSummary, error) {
	query := fmt.Sprintf(`SELECT %s, p.full_name AS counterpart_name
		FROM %s c
		JOIN profiles p ON p.id = c.%s
		WHERE c.%s = $1 AND c.%s = TRUE
		ORDER BY c.%s DESC`,
		r.prefixedColumns("c"),
		r.columns.TableName,
		r.columns.UserID,
		r.columns.AstrologerID,
		r.columns.IsActive,
		r.columns.CreatedAt,
	)

	chats := make([]domain.ChatSummary, 0)
	if err := r.db.Select(ctx, &chats, query, astrologerID); err != nil {
		r.Log.Error("failed to list astrologer chats",
			"error", err,
			"astrologer_id", astrologerID,
		)
		return nil, fmt.Errorf("failed to list astrologer chats: %w", err)
	}

	return chats, nil
}

// ActivateTx ставит is_active и started_at; уже активный чат не трогается
func (r *Repository) ActivateTx(ctx context.Context, tx persistence.Transaction, id uuid.UUID) (bool, error) {
	query := fmt.Sprintf(`UPDATE %s SET %s = TRUE, %s = COALESCE(%s, $2), %s = $2 WHERE %s = $1 AND %s = FALSE`,
		r.columns.TableName,
		r.columns.IsActive,
		r.columns.StartedAt,
		r.columns.StartedAt,
		r.columns.UpdatedAt,
		r.columns.ID,
		r.columns.IsActive,
	)

	affected, err := tx.ExecWithResult(ctx, query, id, time.Now().UTC())
	if err != nil {
		r.Log.Error("failed to activate chat",
			"error", err,
			"chat_id", id,
		)
		return false, fmt.Errorf("failed to activate chat: %w", err)
	}

	r.Log.Debug("chat activation applied", "chat_id", id, "activated", affected > 0)
	return affected > 0, nil
}
