package common

import "context"

// Log levels, most to least severe. buildingLevels and currentResources carry
// status snapshots that are forwarded to the notifier.
const (
	LevelError            = "error"
	LevelWarn             = "warn"
	LevelInfo             = "info"
	LevelHTTP             = "http"
	LevelBuildingLevels   = "buildingLevels"
	LevelCurrentResources = "currentResources"
	LevelVerbose          = "verbose"
	LevelDebug            = "debug"
)

// Logger provides structured logging for scheduler runs
type Logger interface {
	Log(level, message string, metadata map[string]interface{})
}

// Context keys for passing logger through context
type contextKey int

const (
	loggerKey contextKey = iota
)

// WithLogger adds a logger to the context
func WithLogger(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext extracts the logger from context, or returns a no-op logger if not found
func LoggerFromContext(ctx context.Context) Logger {
	if logger, ok := ctx.Value(loggerKey).(Logger); ok {
		return logger
	}
	return &noOpLogger{}
}

// noOpLogger is a logger that does nothing (fallback when no logger in context)
type noOpLogger struct{}

func (l *noOpLogger) Log(level, message string, metadata map[string]interface{}) {}
