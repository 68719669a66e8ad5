package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		value string
		want  slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			level, err := ParseLevel(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, level)
		})
	}
}

func TestParseLevel_Invalid(t *testing.T) {
	_, err := ParseLevel("loud")
	assert.ErrorContains(t, err, "invalid log level")
}

func TestNamed_AddsNameAttribute(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	var buf bytes.Buffer
	InitializeWithWriter(&buf, slog.LevelInfo)

	Named("deployments_manager").Debug("hidden")
	Named("deployments_manager").With("contract", "FundMe").Info("deploying")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "deployments_manager", entry["name"])
	assert.Equal(t, "FundMe", entry["contract"])
	assert.Equal(t, "deploying", entry["msg"])
}
