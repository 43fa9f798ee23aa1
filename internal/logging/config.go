// Package logging configures the node's structured logger and carries
// correlation identifiers through context.Context the way the rest of
// this module's ambient stack does.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Init configures the global slog logger with a JSON handler and
// attaches a fixed node_id attribute to every record so multi-node log
// aggregation can filter by origin.
func Init(logLevel string, nodeID int) {
	level := parseLogLevel(logLevel)

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				a.Key = "timestamp"
			}
			if a.Key == slog.LevelKey {
				a.Key = "level"
			}
			if a.Key == slog.MessageKey {
				a.Key = "message"
			}
			return a
		},
	})

	logger := slog.New(handler).With(slog.Int("node_id", nodeID))
	slog.SetDefault(logger)
}

// parseLogLevel converts a string log level to slog.Level, defaulting
// to INFO for unrecognized input.
func parseLogLevel(logLevel string) slog.Level {
	switch strings.ToUpper(logLevel) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
