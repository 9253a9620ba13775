package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupWritesJSONToFile(t *testing.T) {
	prevLogger, prevLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})

	path := filepath.Join(t.TempDir(), "labtools.log")
	require.NoError(t, Setup(LogConfig{Level: "debug", Format: "json", Output: path}))

	l := WithComponent("test")
	l.Info().Str("path", "report.pdf").Msg("hello")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(data))), &entry))
	assert.Equal(t, "test", entry["component"])
	assert.Equal(t, "report.pdf", entry["path"])
	assert.Equal(t, "hello", entry["message"])
}

func TestSetupRejectsUnknownLevel(t *testing.T) {
	assert.Error(t, Setup(LogConfig{Level: "loud"}))
}

func TestDefaultConfigUsesStderr(t *testing.T) {
	assert.Equal(t, "stderr", DefaultConfig().Output)
}

func TestWithRequestID(t *testing.T) {
	var buf strings.Builder
	base := zerolog.New(&buf)

	l := WithRequestID(base, "req-1")
	l.Info().Msg("x")

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry))
	assert.Equal(t, "req-1", entry["request_id"])
}
