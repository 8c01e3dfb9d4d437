package astrologerRepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/admin/cosmic-connect/internal/domain"
	"github.com/admin/cosmic-connect/internal/ports/persistence"
	ports "github.com/admin/cosmic-connect/internal/ports/repository"
	"github.com/google/uuid"
)

type astrologerColumns struct {
	TableName          string
	ID                 string
	Bio                string
	Expertise          string
	Specialties        string
	ExperienceYears    string
	RatePerMinute      string
	IsOnline           string
	Rating             string
	TotalConsultations string
	Languages          string
	CreatedAt          string
	UpdatedAt          string
}

type Repository struct {
	db      persistence.Persistence
	Log     *slog.Logger
	columns astrologerColumns
}

// New создаёт репозиторий карточек астрологов
func New(db persistence.Persistence, log *slog.Logger) ports.IAstrologerRepo {
	return &Repository{
		db:  db,
		Log: log,
		columns: astrologerColumns{
			TableName:          "astrologers",
			ID:                 "id",
			Bio:                "bio",
			Expertise:          "expertise",
			Specialties:        "specialties",
			ExperienceYears:    "experience_years",
			RatePerMinute:      "rate_per_minute",
			IsOnline:           "is_online",
			Rating:             "rating",
			TotalConsultations: "total_consultations",
			Languages:          "languages",
			CreatedAt:          "created_at",
			UpdatedAt:          "updated_at",
		},
	}
}

func (r *Repository) columnList() []string {
	return []string{
		r.columns.ID,
		r.columns.Bio,
		r.columns.Expertise,
		r.columns.Specialties,
		r.columns.ExperienceYears,
		r.columns.RatePerMinute,
		r.columns.IsOnline,
		r.columns.Rating,
		r.columns.TotalConsultations,
		r.columns.Languages,
		r.columns.CreatedAt,
		r.columns.UpdatedAt,
	}
}

func (r *Repository) allColumns() string {
	return strings.Join(r.columnList(), ", ")
}

// prefixedColumns колонки с алиасом таблицы для join
func (r *Repository) prefixedColumns(alias string) string {
	cols := r.columnList()
	for i, c := range cols {
		cols[i] = alias + "." + c
	}
	return strings.Join(cols, ", ")
}

// ListCards онлайн сначала, затем рейтинг по убыванию, затем имя
func (r *Repository) ListCards(ctx context.Context) ([]domain.AstrologerCard, error) {
	query := fmt.Sprintf(`SELECT %s, p.full_name, p.avatar_url
		FROM %s a
		JOIN profiles p ON p.id = a.%s
		WHERE p.role = $1
		ORDER BY a.%s DESC, a.%s DESC, p.full_name ASC`,
		r.prefixedColumns("a"),
		r.columns.TableName,
		r.columns.ID,
		r.columns.IsOnline,
		r.columns.Rating,
	)

	cards := make([]domain.AstrologerCard, 0)
	if err := r.db.Select(ctx, &cards, query, string(domain.RoleAstrologer)); err != nil {
		r.Log.Error("failed to list astrologers", "error", err)
		return nil, fmt.Errorf("failed to list astrologers: %w", err)
	}

	r.Log.Debug("astrologers listed successfully", "count", len(cards))
	return cards, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Astrologer, error) {
	var astrologer domain.Astrologer

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.ID,
	)

	if err := r.db.Get(ctx, &astrologer, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.Log.Debug("astrologer not found", "astrologer_id", id)
			return nil, fmt.Errorf("astrologer: %w", domain.ErrNotFound)
		}
		r.Log.Error("failed to get astrologer",
			"error", err,
			"astrologer_id", id,
		)
		return nil, fmt.Errorf("failed to get astrologer: %w", err)
	}

	return &astrologer, nil
}

// Create вставка с ON CONFLICT DO NOTHING, два параллельных первых захода не падают
func (r *Repository) Create(ctx context.Context, astrologer *domain.Astrologer) (*domain.Astrologer, error) {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (%s) DO NOTHING`,
		r.columns.TableName,
		r.allColumns(),
		r.columns.ID,
	)

	err := r.db.Exec(ctx, query,
		astrologer.ID,
		astrologer.Bio,
		astrologer.Expertise,
		astrologer.Specialties,
		astrologer.ExperienceYears,
		astrologer.RatePerMinute,
		astrologer.IsOnline,
		astrologer.Rating,
		astrologer.TotalConsultations,
		astrologer.Languages,
		astrologer.CreatedAt,
		astrologer.UpdatedAt,
	)
	if err != nil {
		r.Log.Error("failed to create astrologer",
			"error", err,
			"astrologer_id", astrologer.ID,
		)
		return nil, fmt.Errorf("failed to create astrologer: %w", err)
	}

	r.Log.Debug("astrologer row ensured", "astrologer_id", astrologer.ID)
	return r.GetByID(ctx, astrologer.ID)
}

// Update сохраняет редактируемые владельцем поля
func (r *Repository) Update(ctx context.Context, astrologer *domain.Astrologer) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8 WHERE %s = $1`,
		r.columns.TableName,
		r.columns.Bio,
		r.columns.Expertise,
		r.columns.Specialties,
		r.columns.ExperienceYears,
		r.columns.RatePerMinute,
		r.columns.Languages,
		r.columns.UpdatedAt,
		r.columns.ID,
	)

	affected, err := r.db.ExecWithResult(ctx, query,
		astrologer.ID,
		astrologer.Bio,
		astrologer.Expertise,
		astrologer.Specialties,
		astrologer.ExperienceYears,
		astrologer.RatePerMinute,
		astrologer.Languages,
		astrologer.UpdatedAt,
	)
	if err != nil {
		r.Log.Error("failed to update astrologer",
			"error", err,
			"astrologer_id", astrologer.ID,
		)
		return fmt.Errorf("failed to update astrologer: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("astrologer: %w", domain.ErrNotFound)
	}

	r.Log.Debug("astrologer updated successfully", "astrologer_id", astrologer.ID)
	return nil
}

func (r *Repository) SetOnline(ctx context.Context, id uuid.UUID, online bool) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1`,
		r.columns.TableName,
		r.columns.IsOnline,
		r.columns.UpdatedAt,
		r.columns.ID,
	)

	affected, err := r.db.ExecWithResult(ctx, query, id, online)
	if err != nil {
		r.Log.Error("failed to set astrologer online flag",
			"error", err,
			"astrologer_id", id,
		)
		return fmt.Errorf("failed to set online: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("astrologer: %w", domain.ErrNotFound)
	}

	r.Log.Debug("astrologer online flag updated", "astrologer_id", id, "is_online", online)
	return nil
}
