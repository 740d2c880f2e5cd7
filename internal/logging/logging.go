package logging

import (
	"io"
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/efreitasn/auctionengine/internal/config"
)

// New builds the JSON logger at the configured level. When cfg.LogFile is
// set, records are also written to a size-rotated file and the returned
// closer releases it. The closer is never nil.
func New(cfg *config.Config, out io.Writer) (*slog.Logger, io.Closer) {
	var closer io.Closer = nopCloser{}

	if cfg.LogFile != "" {
		fileLogger := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		out = io.MultiWriter(out, fileLogger)
		closer = fileLogger
	}

	logger := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: ParseLevel(cfg.LogLevel),
	}))
	return logger, closer
}

// ParseLevel maps a configured level name to its slog level. Unknown names
// fall back to info.
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
