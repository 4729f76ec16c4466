package logger_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/narwhalmedia/marquee/pkg/interfaces"
	"github.com/narwhalmedia/marquee/pkg/logger"
)

func TestConfig_BuildWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "marquee.log")

	cfg := logger.DefaultConfig()
	cfg.OutputPath = path
	cfg.InitialFields = map[string]interface{}{"service": "marquee"}

	log, err := cfg.Build()
	require.NoError(t, err)

	ctx := logger.WithRequestID(context.Background(), "req-1")
	log.WithContext(ctx).Info("snapshot fetched", interfaces.Int("movies", 20))
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	line := strings.TrimSpace(string(data))
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(line), &entry))

	assert.Equal(t, "snapshot fetched", entry["message"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "marquee", entry["service"])
	assert.EqualValues(t, 20, entry["movies"])
}

func TestConfig_BuildRespectsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "marquee.log")

	cfg := logger.DefaultConfig()
	cfg.OutputPath = path
	cfg.Level = "warn"

	log, err := cfg.Build()
	require.NoError(t, err)

	log.Info("dropped")
	log.Warn("kept")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "dropped")
	assert.Contains(t, string(data), "kept")
}

func TestFromContext_FallsBackToNoop(t *testing.T) {
	log := logger.FromContext(context.Background())
	assert.IsType(t, &logger.NoopLogger{}, log)

	noop := logger.NewNoop()
	ctx := logger.WithContext(context.Background(), noop)
	assert.Same(t, noop, logger.FromContext(ctx))
}
