package app

import (
	"fmt"

	server "github.com/admin/cosmic-connect/internal/adapters/primary/http"
	alerterAdapter "github.com/admin/cosmic-connect/internal/adapters/secondary/alerter"
	kafkaAdapter "github.com/admin/cosmic-connect/internal/adapters/secondary/kafka"
	"github.com/admin/cosmic-connect/internal/adapters/secondary/storage/pg"
	redisAdapter "github.com/admin/cosmic-connect/internal/adapters/secondary/storage/redis"
	s3Adapter "github.com/admin/cosmic-connect/internal/adapters/secondary/storage/s3"
	"github.com/admin/cosmic-connect/internal/pkg/logger"
	"github.com/admin/cosmic-connect/internal/usecases/auth"
	"github.com/admin/cosmic-connect/internal/usecases/chat"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Environment string                    `envconfig:"ENVIRONMENT" default:"local"`
	Postgres    *pg.Config                `envconfig:"POSTGRES"`
	Log         *logger.Config            `envconfig:"LOG"`
	Server      *server.Config            `envconfig:"APISERVER"`
	Redis       *redisAdapter.Config      `envconfig:"REDIS"`
	S3          *s3Adapter.Config         `envconfig:"S3"`
	Kafka       kafkaAdapter.KafkaConfigs `envconfig:"KAFKA"`
	Alerter     *alerterAdapter.Config    `envconfig:"ALERTER"`
	Auth        *auth.Config              `envconfig:"AUTH"`
	Chat        *chat.Config              `envconfig:"CHAT"`
}

func NewEnvConfig(envPrefix string) (*Config, error) {
	cfg := &Config{}

	_ = godotenv.Load("deployments/local/.env")

	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, err
	}

	// Kafka загружаем вручную (envconfig не умеет автоматически определять размер слайса)
	if err := cfg.Kafka.Load(envPrefix); err != nil {
		return nil, fmt.Errorf("failed to load kafka config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate проверки, которые envconfig выразить не может
func (c *Config) Validate() error {
	if c.Postgres == nil {
		return fmt.Errorf("postgres config is required")
	}
	if c.S3 == nil {
		return fmt.Errorf("s3 config is required")
	}
	if c.Auth == nil || c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth jwt secret is required")
	}
	if c.Chat == nil {
		c.Chat = &chat.Config{FeedDriver: feedDriverMemory}
	}

	switch c.Chat.FeedDriver {
	case feedDriverRedis:
		if c.Redis == nil || !c.Redis.Enabled {
			return fmt.Errorf("chat feed driver %q requires redis", feedDriverRedis)
		}
	case feedDriverMemory:
	default:
		return fmt.Errorf("unknown chat feed driver %q", c.Chat.FeedDriver)
	}

	return nil
}

const (
	feedDriverRedis  = "redis"
	feedDriverMemory = "memory"
)
