package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/intraday/config"
)

func TestNewWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, "json", zerolog.InfoLevel)
	log.Debug().Msg("hidden")
	log.Info().Str("symbol", "NSE:SBIN-EQ").Msg("candidate")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "candidate", rec["message"])
	assert.Equal(t, "NSE:SBIN-EQ", rec["symbol"])
	assert.Equal(t, "info", rec["level"])
}

func TestNewFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trader.log")
	log, closer, err := New(config.LogConfig{Level: "warn", Format: "json", Output: path})
	require.NoError(t, err)
	log.Info().Msg("quiet")
	log.Warn().Msg("loud")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "quiet")
	assert.Contains(t, string(data), "loud")
}

func TestNewBadLevel(t *testing.T) {
	_, _, err := New(config.LogConfig{Level: "chatty"})
	assert.Error(t, err)
}
