// Package log provides the structured logging interface used by the tree
// builders and boosting learners.
//
// The interface is slog-shaped (message plus alternating key/value fields) and
// backed by zerolog. Learners obtain a named logger once and attach model
// context with With:
//
//	logger := log.GetLoggerWithName("ensemble.classification").With(
//	    log.ModelNameKey, "ClassificationBoostingLearner",
//	)
//	logger.Debug("round finished",
//	    log.RoundKey, 3,
//	    log.WeightedErrorKey, 0.21,
//	)
package log

import (
	"context"
)

// Logger defines a structured logging interface compatible with Go's log/slog.
type Logger interface {
	// Debug logs a debug-level message with optional key/value fields.
	Debug(msg string, fields ...any)

	// Info logs an info-level message with optional key/value fields.
	Info(msg string, fields ...any)

	// Warn logs a warning-level message with optional key/value fields.
	Warn(msg string, fields ...any)

	// Error logs an error-level message. An error value may be passed as a
	// bare field; it is attached with its stack trace when one is available.
	//
	//   logger.Error("weak learner failed", err, log.RoundKey, 4)
	Error(msg string, fields ...any)

	// With returns a new Logger that includes the given fields in every record.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits records at the given level.
	// Use it to skip building expensive fields.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level, compatible with slog.Level.
type Level int

// Standard logging levels, values are compatible with slog.Level.
const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LoggerProvider creates and configures loggers. Swapping the provider lets
// tests capture output from learners without changing their construction.
type LoggerProvider interface {
	// GetLogger returns the default logger instance.
	GetLogger() Logger

	// GetLoggerWithName returns a logger tagged with a component name.
	GetLoggerWithName(name string) Logger

	// SetLevel sets the minimum log level for loggers created by this provider.
	SetLevel(level Level)
}
