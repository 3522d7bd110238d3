package logging

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
)

type contextKey struct{}

var defaultLogger = newLogger()
var defaultEntry = logrus.NewEntry(defaultLogger)

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l
}

// SetLevel adjusts the verbosity of the shared logger.
func SetLevel(level logrus.Level) {
	defaultLogger.SetLevel(level)
}

// NewContextWithFields returns a context whose logger carries fields in
// addition to whatever the parent already carried.
func NewContextWithFields(parent context.Context, fields logrus.Fields) context.Context {
	return context.WithValue(parent, contextKey{}, For(parent).WithFields(fields))
}

// For returns the log entry carried by ctx, or the shared default entry.
func For(ctx context.Context) *logrus.Entry {
	if ctx == nil {
		return defaultEntry
	}
	if entry, ok := ctx.Value(contextKey{}).(*logrus.Entry); ok {
		return entry.WithContext(ctx)
	}
	return defaultEntry.WithContext(ctx)
}
