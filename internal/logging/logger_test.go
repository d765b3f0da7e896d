package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/salon-scheduler/internal/config"
)

func TestNewLogger(t *testing.T) {
	t.Run("JSON", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&config.Config{LogLevel: "info", AppEnv: "test"}, &buf)
		logger.Info().Str("k", "v").Msg("hello")

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "hello", line["message"])
		assert.Equal(t, "test", line["env"])
		assert.Equal(t, "v", line["k"])
	})

	t.Run("LevelFilter", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&config.Config{LogLevel: "warn"}, &buf)
		logger.Info().Msg("dropped")
		assert.Empty(t, buf.String())
		assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())
	})

	t.Run("InvalidLevel", func(t *testing.T) {
		logger := New(&config.Config{LogLevel: "loud"}, &bytes.Buffer{})
		assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
	})

	t.Run("Console", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&config.Config{LogFormat: "console"}, &buf)
		logger.Info().Msg("pretty")
		assert.Contains(t, buf.String(), "pretty")
	})
}
