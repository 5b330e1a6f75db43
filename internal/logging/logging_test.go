package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"cloudgw/internal/config"
)

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, zapcore.InfoLevel, time.UTC)

	log.Info("service_started", zap.String("app", "CUSTOMER-SERVICE"))
	log.Debug("dropped")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "service_started", entry["msg"])
	assert.Equal(t, "CUSTOMER-SERVICE", entry["app"])

	ts, ok := entry["ts"].(string)
	require.True(t, ok)
	_, err := time.Parse(time.RFC3339Nano, ts)
	assert.NoError(t, err)
}

func TestNew(t *testing.T) {
	t.Run("invalid level", func(t *testing.T) {
		_, err := New(config.LogConfig{Level: "loud"}, time.UTC)
		assert.Error(t, err)
	})

	t.Run("rotating file sink", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cloudgw.log")
		log, err := New(config.LogConfig{Level: "info", Format: "json", File: path, MaxSizeMB: 1}, time.UTC)
		require.NoError(t, err)

		log.Info("written_to_file")
		_ = log.Sync()

		b, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(b), "written_to_file")
	})

	t.Run("console format", func(t *testing.T) {
		log, err := New(config.LogConfig{Level: "debug", Format: "console"}, nil)
		require.NoError(t, err)
		assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
	})
}
