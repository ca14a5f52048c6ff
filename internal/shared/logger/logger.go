package logger

import (
	"io"
	"log/slog"
	"os"

	"village-server/internal/shared/config"
)

// Init installs the process-wide slog handler described by the logging config
func Init(cfg *config.Config) {
	slog.SetDefault(New(os.Stdout, cfg.Logging))

	logger := slog.With("component", "logger")
	logger.Debug("Logger initialized",
		"level", cfg.Logging.Level,
		"json_format", cfg.Logging.JSONFormat,
		"environment", cfg.Server.Environment,
	)
}

func New(w io.Writer, logConfig config.LoggingConfig) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLogLevel(logConfig.Level),
	}

	var handler slog.Handler
	if logConfig.JSONFormat {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// Discard returns a logger that drops every record; used by tests and the CLI.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func parseLogLevel(levelStr string) slog.Level {
	switch levelStr {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}
