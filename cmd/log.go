package cmd

import (
	"io"
	"log/slog"
	"os"
)

// InitLogger configures the default slog logger for the commands and
// returns it. The stdlib log package routes through the same handler.
func InitLogger(w io.Writer, debug bool) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	}))
	slog.SetDefault(logger)
	return logger
}
