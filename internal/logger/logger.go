package logger

import (
	"context"

	"github.com/sirupsen/logrus"
)

type contextKey string

// RequestIDKey is the context key carrying the request id set by the
// RequestID middleware.
const RequestIDKey contextKey = "request_id"

// Logger wraps logrus for structured logging with context support
type Logger struct {
	*logrus.Entry
}

// New creates a new logger
func New() *Logger {
	return &Logger{
		Entry: logrus.NewEntry(logrus.StandardLogger()),
	}
}

// WithContext creates a logger carrying the request id when present
func WithContext(ctx context.Context) *Logger {
	logger := New()
	if id, ok := ctx.Value(RequestIDKey).(string); ok && id != "" {
		logger.Entry = logger.Entry.WithField("request_id", id)
	}
	return logger
}

// WithField adds a field to the logger
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{
		Entry: l.Entry.WithField(key, value),
	}
}

// WithFields adds multiple fields to the logger
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	return &Logger{
		Entry: l.Entry.WithFields(fields),
	}
}

// WithError adds an error field to the logger
func (l *Logger) WithError(err error) *Logger {
	return &Logger{
		Entry: l.Entry.WithError(err),
	}
}
