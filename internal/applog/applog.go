// Package applog wraps logrus with request-scoped context plumbing. Handlers
// and middleware attach a logger to the context once; everything below calls
// applog.Ctx(ctx) and gets the fields that were set upstream.
package applog

import (
	"context"

	"github.com/sirupsen/logrus"
)

// DefaultLogger is the process-wide logger used when no logger has been
// attached to the context.
var DefaultLogger = New()

type contextKey struct{}

func New() *logrus.Entry {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return logrus.NewEntry(logger)
}

// SetLevel sets the level on the default logger.
func SetLevel(level logrus.Level) {
	DefaultLogger.Logger.SetLevel(level)
}

// Set attaches a logger to the context.
func Set(ctx context.Context, entry *logrus.Entry) context.Context {
	return context.WithValue(ctx, contextKey{}, entry)
}

// Ctx returns the logger attached to the context, or the default logger.
func Ctx(ctx context.Context) *logrus.Entry {
	if entry, ok := ctx.Value(contextKey{}).(*logrus.Entry); ok {
		return entry
	}
	return DefaultLogger
}

func Infof(format string, args ...interface{})  { DefaultLogger.Infof(format, args...) }
func Warnf(format string, args ...interface{})  { DefaultLogger.Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { DefaultLogger.Errorf(format, args...) }
func Fatalf(format string, args ...interface{}) { DefaultLogger.Fatalf(format, args...) }
func Info(args ...interface{})                  { DefaultLogger.Info(args...) }
func Warn(args ...interface{})                  { DefaultLogger.Warn(args...) }
func Error(args ...interface{})                 { DefaultLogger.Error(args...) }
