package auth

import (
	"fmt"
	"time"

	"github.com/admin/cosmic-connect/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// sessionClaims sub - id профиля, role дублируется для клиента
type sessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (s *Service) issueToken(profile *domain.Profile, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(s.Cfg.TokenTTL)
	claims := sessionClaims{
		Role: string(profile.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   profile.ID.String(),
			Issuer:    s.Cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.Cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// parseToken проверяет подпись, алгоритм, issuer и срок; возвращает id профиля
func (s *Service) parseToken(raw string) (uuid.UUID, time.Time, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.Cfg.JWTSecret), nil
	},
		jwt.WithIssuer(s.Cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return uuid.Nil, time.Time{}, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}

	profileID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, time.Time{}, fmt.Errorf("%w: malformed subject", domain.ErrUnauthenticated)
	}

	return profileID, claims.ExpiresAt.Time, nil
}
