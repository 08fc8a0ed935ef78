package log

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "debug", Output: &buf, Service: "test-svc"})

	l.Debug().Str("url", "https://youtu.be/x").Msg("lookup")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "test-svc", entry["service"])
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "lookup", entry["message"])
	assert.Equal(t, "https://youtu.be/x", entry["url"])
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "warn", Output: &buf})

	l.Info().Msg("hidden")
	assert.Zero(t, buf.Len())

	l.Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestSetLevel(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	var buf bytes.Buffer
	l := New(Config{Level: "trace", Output: &buf})

	assert.Equal(t, zerolog.ErrorLevel, SetLevel("error"))
	l.Warn().Msg("hidden")
	assert.Zero(t, buf.Len())

	assert.Equal(t, zerolog.DebugLevel, SetLevel("debug"))
	l.Debug().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLevel(t *testing.T) {
	t.Setenv("YTWEBUI_LOG_LEVEL", "")

	tests := []struct {
		input    string
		expected zerolog.Level
	}{
		{"", zerolog.InfoLevel},
		{"debug", zerolog.DebugLevel},
		{"error", zerolog.ErrorLevel},
		{"nonsense", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, ParseLevel(tt.input), "level %q", tt.input)
	}

	t.Setenv("YTWEBUI_LOG_LEVEL", "trace")
	assert.Equal(t, zerolog.TraceLevel, ParseLevel(""))
}

func TestContextIDs(t *testing.T) {
	ctx := ContextWithRequestID(context.Background(), "req-1")
	ctx = ContextWithSessionID(ctx, "sess-1")

	assert.Equal(t, "req-1", RequestIDFromContext(ctx))
	assert.Equal(t, "sess-1", SessionIDFromContext(ctx))
	assert.Empty(t, RequestIDFromContext(context.Background()))
	assert.Empty(t, SessionIDFromContext(nil)) //nolint:staticcheck
}
