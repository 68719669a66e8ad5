package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

func Initialize(level slog.Level) {
	InitializeWithWriter(os.Stdout, level)
}

// InitializeWithWriter installs a JSON logger writing to w as the default.
func InitializeWithWriter(w io.Writer, level slog.Level) {
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))

	slog.SetDefault(logger)
}

// ParseLevel maps a config value such as "debug" or "WARN" to a slog level.
// An empty value means info.
func ParseLevel(value string) (slog.Level, error) {
	if strings.TrimSpace(value) == "" {
		return slog.LevelInfo, nil
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level '%s': %w", value, err)
	}

	return level, nil
}

func Named(name string) *slog.Logger {
	logger := slog.Default()
	if logger == nil {
		return nil
	}

	return logger.With("name", name)
}
