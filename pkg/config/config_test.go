package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/signalkit/pkg/config"
	"github.com/dmitrymomot/signalkit/pkg/quota"
)

type testConfig struct {
	Name    string        `env:"CFG_TEST_NAME" envDefault:"signals"`
	Limit   int64         `env:"CFG_TEST_LIMIT" envDefault:"3"`
	Timeout time.Duration `env:"CFG_TEST_TIMEOUT" envDefault:"5s"`
}

func TestLoad(t *testing.T) {
	t.Run("defaults apply", func(t *testing.T) {
		var cfg testConfig
		require.NoError(t, config.Load(&cfg))

		assert.Equal(t, "signals", cfg.Name)
		assert.Equal(t, int64(3), cfg.Limit)
		assert.Equal(t, 5*time.Second, cfg.Timeout)
	})

	t.Run("environment overrides defaults", func(t *testing.T) {
		t.Setenv("CFG_TEST_LIMIT", "10")

		var cfg testConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, int64(10), cfg.Limit)
	})

	t.Run("nil pointer rejected", func(t *testing.T) {
		assert.ErrorIs(t, config.Load[testConfig](nil), config.ErrNilPointer)
	})

	t.Run("malformed value reported", func(t *testing.T) {
		t.Setenv("CFG_TEST_LIMIT", "not-a-number")

		var cfg testConfig
		assert.ErrorIs(t, config.Load(&cfg), config.ErrParsingConfig)
	})

	t.Run("loads package configs", func(t *testing.T) {
		var cfg quota.Config
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, int64(3), cfg.DailyLimit)
	})
}
