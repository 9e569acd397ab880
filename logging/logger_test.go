package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		name  string
		level string
		want  zerolog.Level
	}{
		{"debug level", "debug", zerolog.DebugLevel},
		{"warn level", " WARN ", zerolog.WarnLevel},
		{"default info", "", zerolog.InfoLevel},
		{"unknown info", "loud", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewWithWriter(tt.level, &bytes.Buffer{})
			assert.Equal(t, tt.want, logger.GetLevel())
		})
	}
}

func TestLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter("info", &buf)

	logger.Debug().Msg("hidden")
	logger.Info().Str("sheet", "Plumbing").Msg("sheet written")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "sheet written", entry["message"])
	assert.Equal(t, "Plumbing", entry["sheet"])
	assert.Equal(t, "info", entry["level"])
}
