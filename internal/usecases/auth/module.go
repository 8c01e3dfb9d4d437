package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/admin/cosmic-connect/internal/domain"
	"github.com/admin/cosmic-connect/internal/ports/cache"
	"github.com/admin/cosmic-connect/internal/ports/persistence"
	"github.com/admin/cosmic-connect/internal/ports/repository"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const sessionProfileKeyPrefix = "session:profile:"

type Service struct {
	DB          persistence.Persistence
	ProfileRepo repository.IProfileRepo
	Cache       cache.Cache // может быть nil
	Cfg         *Config
	Log         *slog.Logger

	now func() time.Time
}

func New(
	db persistence.Persistence,
	profileRepo repository.IProfileRepo,
	cacheClient cache.Cache,
	cfg *Config,
	log *slog.Logger,
) *Service {
	return &Service{
		DB:          db,
		ProfileRepo: profileRepo,
		Cache:       cacheClient,
		Cfg:         cfg,
		Log:         log,
		now:         time.Now,
	}
}

// SignUp создаёт профиль и учётные данные в одной транзакции и сразу выдаёт токен
func (s *Service) SignUp(ctx context.Context, in domain.SignUpInput) (*domain.AuthToken, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.Cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now().UTC()
	profile := &domain.Profile{
		ID:        uuid.New(),
		Email:     in.Email,
		FullName:  in.FullName,
		Role:      in.Role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	creds := &domain.Credentials{
		ProfileID:    profile.ID,
		PasswordHash: string(hash),
		CreatedAt:    now,
	}

	err = s.DB.WithTransaction(ctx, func(ctx context.Context, tx persistence.Transaction) error {
		return s.ProfileRepo.CreateTx(ctx, tx, profile, creds)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sign up: %w", err)
	}

	s.Log.Info("profile signed up",
		"profile_id", profile.ID,
		"role", profile.Role,
	)

	return s.authToken(profile, now)
}

// SignIn проверяет пароль; неизвестный email и неверный пароль неразличимы
func (s *Service) SignIn(ctx context.Context, email, password string) (*domain.AuthToken, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}

	profile, err := s.ProfileRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid email or password", domain.ErrUnauthenticated)
		}
		return nil, err
	}

	creds, err := s.ProfileRepo.GetCredentials(ctx, profile.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid email or password", domain.ErrUnauthenticated)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(password)); err != nil {
		s.Log.Info("sign in rejected", "profile_id", profile.ID)
		return nil, fmt.Errorf("%w: invalid email or password", domain.ErrUnauthenticated)
	}

	s.Log.Info("profile signed in", "profile_id", profile.ID, "role", profile.Role)
	return s.authToken(profile, s.now().UTC())
}

func (s *Service) authToken(profile *domain.Profile, now time.Time) (*domain.AuthToken, error) {
	token, expiresAt, err := s.issueToken(profile, now)
	if err != nil {
		return nil, err
	}
	return &domain.AuthToken{
		Token:     token,
		ExpiresAt: expiresAt,
		Profile:   profile,
		HomeView:  profile.Role.HomeView(),
	}, nil
}

// Session проверяет токен и загружает профиль (через кэш); любая ошибка проверки - ErrUnauthenticated
func (s *Service) Session(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}

	profileID, expiresAt, err := s.parseToken(token)
	if err != nil {
		return nil, err
	}

	profile, err := s.loadProfile(ctx, profileID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: profile no longer exists", domain.ErrUnauthenticated)
		}
		return nil, err
	}

	return &domain.Session{
		ProfileID: profileID,
		Profile:   profile,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *Service) loadProfile(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	key := sessionProfileKeyPrefix + id.String()

	if s.Cache != nil {
		raw, err := s.Cache.Get(ctx, key)
		if err == nil {
			var profile domain.Profile
			if err := json.Unmarshal([]byte(raw), &profile); err == nil {
				return &profile, nil
			}
			s.Log.Warn("dropping malformed cached profile", "profile_id", id)
		} else if !errors.Is(err, cache.ErrMiss) {
			s.Log.Warn("session cache unavailable, reading profile from db", "error", err)
		}
	}

	profile, err := s.ProfileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if raw, err := json.Marshal(profile); err == nil {
			if err := s.Cache.Set(ctx, key, string(raw), s.Cfg.SessionCacheTTL); err != nil {
				s.Log.Warn("failed to cache session profile", "error", err, "profile_id", id)
			}
		}
	}

	return profile, nil
}
