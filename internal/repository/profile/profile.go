package profileRepo

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
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type profileColumns struct {
	TableName string
	ID        string
	Email     string
	FullName  string
	Role      string
	AvatarURL string
	CreatedAt string
	UpdatedAt string
}

type Repository struct {
	db      persistence.Persistence
	Log     *slog.Logger
	columns profileColumns
}

// New создаёт репозиторий профилей и учётных данных
func New(db persistence.Persistence, log *slog.Logger) ports.IProfileRepo {
	return &Repository{
		db:  db,
		Log: log,
		columns: profileColumns{
			TableName: "profiles",
			ID:        "id",
			Email:     "email",
			FullName:  "full_name",
			Role:      "role",
			AvatarURL: "avatar_url",
			CreatedAt: "created_at",
			UpdatedAt: "updated_at",
		},
	}
}

func (r *Repository) allColumns() string {
	return strings.Join([]string{
		r.columns.ID,
		r.columns.Email,
		r.columns.FullName,
		r.columns.Role,
		r.columns.AvatarURL,
		r.columns.CreatedAt,
		r.columns.UpdatedAt,
	}, ", ")
}

// CreateTx создаёт профиль и хэш пароля в одной транзакции
func (r *Repository) CreateTx(ctx context.Context, tx persistence.Transaction, profile *domain.Profile, creds *domain.Credentials) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		r.columns.TableName,
		r.allColumns(),
	)

	err := tx.Exec(ctx, query,
		profile.ID,
		profile.Email,
		profile.FullName,
		string(profile.Role),
		profile.AvatarURL,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			r.Log.Warn("profile email already registered", "email", profile.Email)
			return fmt.Errorf("%w: email already registered", domain.ErrConflict)
		}
		r.Log.Error("failed to create profile",
			"error", err,
			"profile_id", profile.ID,
		)
		return fmt.Errorf("failed to create profile: %w", err)
	}

	err = tx.Exec(ctx,
		`INSERT INTO credentials (profile_id, password_hash, created_at) VALUES ($1, $2, $3)`,
		creds.ProfileID,
		creds.PasswordHash,
		creds.CreatedAt,
	)
	if err != nil {
		r.Log.Error("failed to create credentials",
			"error", err,
			"profile_id", profile.ID,
		)
		return fmt.Errorf("failed to create credentials: %w", err)
	}

	r.Log.Debug("profile created successfully",
		"profile_id", profile.ID,
		"role", profile.Role,
	)
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.ID,
	)
	return r.getOne(ctx, query, "profile_id", id)
}

// GetByEmail email сравнивается без учёта регистра
func (r *Repository) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE LOWER(%s) = LOWER($1)`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.Email,
	)
	return r.getOne(ctx, query, "email", email)
}

func (r *Repository) getOne(ctx context.Context, query string, key string, arg interface{}) (*domain.Profile, error) {
	var profile domain.Profile
	if err := r.db.Get(ctx, &profile, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.Log.Debug("profile not found", key, arg)
			return nil, fmt.Errorf("profile: %w", domain.ErrNotFound)
		}
		r.Log.Error("failed to get profile",
			"error", err,
			key, arg,
		)
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	r.Log.Debug("profile retrieved successfully", "profile_id", profile.ID)
	return &profile, nil
}

func (r *Repository) GetCredentials(ctx context.Context, profileID uuid.UUID) (*domain.Credentials, error) {
	var creds domain.Credentials
	err := r.db.Get(ctx, &creds,
		`SELECT profile_id, password_hash, created_at FROM credentials WHERE profile_id = $1`,
		profileID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("credentials: %w", domain.ErrNotFound)
		}
		r.Log.Error("failed to get credentials",
			"error", err,
			"profile_id", profileID,
		)
		return nil, fmt.Errorf("failed to get credentials: %w", err)
	}
	return &creds, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
