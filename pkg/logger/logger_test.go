package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ajinkya236/course-questing-72-sub001/pkg/config"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "log output: %s", buf.String())
	return entry
}

func TestNewSetsGlobalLevel(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			l := NewWithWriter(&config.Config{Env: "development", LogLevel: tt.level, LogFormat: "json"}, &buf)
			require.NotNil(t, l)
			assert.Equal(t, tt.want, zerolog.GlobalLevel())
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"DEBUG", zerolog.DebugLevel},
		{"warning", zerolog.WarnLevel},
		{"fatal", zerolog.FatalLevel},
		{"panic", zerolog.PanicLevel},
		{"invalid", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.input))
		})
	}
}

func TestJSONOutputCarriesServiceAndEnv(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&config.Config{Env: "staging", LogLevel: "debug", LogFormat: "json"}, &buf)

	l.WithComponent("leaderboard").WithField("viewer", "u-1").Info("board computed")

	entry := decode(t, &buf)
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "board computed", entry["message"])
	assert.Equal(t, "questboard", entry["service"])
	assert.Equal(t, "staging", entry["env"])
	assert.Equal(t, "leaderboard", entry["component"])
	assert.Equal(t, "u-1", entry["viewer"])
}

func TestWithFieldsAndError(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&config.Config{Env: "development", LogLevel: "debug", LogFormat: "json"}, &buf)

	l.WithFields(map[string]interface{}{
		"table":  "user_ranks",
		"points": 1200,
	}).WithError(errors.New("connection refused")).Error("fetch failed")

	entry := decode(t, &buf)
	assert.Equal(t, "user_ranks", entry["table"])
	assert.Equal(t, float64(1200), entry["points"])
	assert.Equal(t, "connection refused", entry["error"])
	assert.Equal(t, "error", entry["level"])
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&config.Config{Env: "development", LogLevel: "info", LogFormat: "console"}, &buf)

	l.Infof("ranked %d users", 50)

	assert.Contains(t, buf.String(), "ranked 50 users")
}

func TestNopDiscards(t *testing.T) {
	l := Nop()
	assert.NotPanics(t, func() {
		l.WithField("k", "v").Warn("dropped")
	})
}
