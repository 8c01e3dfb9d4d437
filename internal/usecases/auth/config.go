package auth

import "time"

type Config struct {
	JWTSecret       string        `envconfig:"JWT_SECRET" required:"true"`
	Issuer          string        `envconfig:"ISSUER" default:"cosmic-connect"`
	TokenTTL        time.Duration `envconfig:"TOKEN_TTL" default:"24h"`
	SessionCacheTTL time.Duration `envconfig:"SESSION_CACHE_TTL" default:"5m"`
	BcryptCost      int           `envconfig:"BCRYPT_COST" default:"10"`
}
