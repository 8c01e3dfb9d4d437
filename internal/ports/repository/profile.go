package repository

import (
	"context"

	"github.com/admin/cosmic-connect/internal/domain"
	"github.com/admin/cosmic-connect/internal/ports/persistence"
	"github.com/google/uuid"
)

// IProfileRepo профили и учётные данные
type IProfileRepo interface {
	CreateTx(ctx context.Context, tx persistence.Transaction, profile *domain.Profile, creds *domain.Credentials) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
	GetByEmail(ctx context.Context, email string) (*domain.Profile, error)
	GetCredentials(ctx context.Context, profileID uuid.UUID) (*domain.Credentials, error)
}
