package domain

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role роль аккаунта
type Role string

const (
	RoleUser       Role = "user"
	RoleAstrologer Role = "astrologer"
	RoleAdmin      Role = "admin"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAstrologer, RoleAdmin:
		return true
	default:
		return false
	}
}

// HomeView дашборд, на который попадает роль после входа
func (r Role) HomeView() View {
	switch r {
	case RoleAstrologer:
		return ViewAstrologerDashboard
	case RoleAdmin:
		return ViewAdminPanel
	default:
		return ViewUserDashboard
	}
}

const (
	MinPasswordLength = 6
	// предел bcrypt, длиннее хэш не строится
	MaxPasswordBytes = 72
)

// Profile один профиль на аккаунт, роль после регистрации не меняется
type Profile struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	FullName  string    `json:"full_name" db:"full_name"`
	Role      Role      `json:"role" db:"role"`
	AvatarURL *string   `json:"avatar_url,omitempty" db:"avatar_url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Credentials хэш пароля, отдельно от профиля
type Credentials struct {
	ProfileID    uuid.UUID `db:"profile_id"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

// SignUpInput данные регистрации
type SignUpInput struct {
	Email    string
	Password string
	FullName string
	Role     Role
}

// Normalize приводит email и имя к каноническому виду
func (in *SignUpInput) Normalize() {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FullName = strings.TrimSpace(in.FullName)
	if in.Role == "" {
		in.Role = RoleUser
	}
}

// Validate клиентская валидация формы регистрации; admin при регистрации не назначается
func (in SignUpInput) Validate() error {
	if in.Email == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return fmt.Errorf("%w: email is malformed", ErrValidation)
	}
	if len(in.Password) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, MinPasswordLength)
	}
	if len(in.Password) > MaxPasswordBytes {
		return fmt.Errorf("%w: password must be at most %d bytes", ErrValidation, MaxPasswordBytes)
	}
	if in.FullName == "" {
		return fmt.Errorf("%w: full name is required", ErrValidation)
	}
	if in.Role != RoleUser && in.Role != RoleAstrologer {
		return fmt.Errorf("%w: role must be user or astrologer", ErrValidation)
	}
	return nil
}

// Session аутентифицированный принципал, заполняется один раз на запрос
type Session struct {
	ProfileID uuid.UUID
	Profile   *Profile
	ExpiresAt time.Time
}

func (s *Session) Role() Role {
	if s == nil || s.Profile == nil {
		return ""
	}
	return s.Profile.Role
}

// AuthToken выданный токен сессии
type AuthToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Profile   *Profile  `json:"profile"`
	HomeView  View      `json:"home_view"`
}
