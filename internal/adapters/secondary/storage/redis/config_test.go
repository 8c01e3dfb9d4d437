package redis

import (
	"testing"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	require.NoError(t, envconfig.Process("COSMIC_TEST_REDIS", &cfg))

	opts := cfg.options()
	assert.Equal(t, "localhost:6379", opts.Addr)
	assert.Equal(t, 3, opts.MaxRetries)
	assert.Equal(t, 5*time.Second, opts.DialTimeout)
	assert.Equal(t, 30*time.Minute, opts.ConnMaxLifetime)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("COSMIC_TEST_REDIS_HOST", "cache.internal")
	t.Setenv("COSMIC_TEST_REDIS_PORT", "6380")
	t.Setenv("COSMIC_TEST_REDIS_DATABASE", "2")
	t.Setenv("COSMIC_TEST_REDIS_READ_TIMEOUT", "750ms")
	t.Setenv("COSMIC_TEST_REDIS_CONN_MAX_IDLE_TIME", "90s")

	var cfg Config
	require.NoError(t, envconfig.Process("COSMIC_TEST_REDIS", &cfg))

	opts := cfg.options()
	assert.Equal(t, "cache.internal:6380", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 750*time.Millisecond, opts.ReadTimeout)
	assert.Equal(t, 90*time.Second, opts.ConnMaxIdleTime)
}

func TestConfigRejectsBareNumberDuration(t *testing.T) {
	t.Setenv("COSMIC_TEST_REDIS_DIAL_TIMEOUT", "5")

	var cfg Config
	assert.Error(t, envconfig.Process("COSMIC_TEST_REDIS", &cfg))
}
