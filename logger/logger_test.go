package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" warn "))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("loud"))
}

func TestInitWritesJSON(t *testing.T) {
	previous := Log
	t.Cleanup(func() { Log = previous })

	var buf bytes.Buffer
	Init(Options{Level: "warn", Format: "json", Output: &buf})

	Log.Info().Msg("dropped")
	Log.Warn().Str("booking_id", "BK1").Msg("kept")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, "BK1", entry["booking_id"])
	assert.Equal(t, "parkspace-api", entry["service"])
	assert.Equal(t, "warn", entry["level"])
}
