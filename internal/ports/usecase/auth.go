package usecase

import (
	"context"

	"github.com/admin/cosmic-connect/internal/domain"
)

type IAuthService interface {
	SignUp(ctx context.Context, in domain.SignUpInput) (*domain.AuthToken, error)
	SignIn(ctx context.Context, email, password string) (*domain.AuthToken, error)
	Session(ctx context.Context, token string) (*domain.Session, error)
}
