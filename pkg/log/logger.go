// Package log is the leveled, context-aware logging facade shared by every
// package of the pipeline.
package log

import (
	"context"
	"io"
)

type Logger interface {
	Info(ctx context.Context, format string, args ...interface{})
	Alert(ctx context.Context, format string, args ...interface{})
	Error(ctx context.Context, format string, args ...interface{})
	Warn(ctx context.Context, format string, args ...interface{})
	Debug(ctx context.Context, format string, args ...interface{})
	Notice(ctx context.Context, format string, args ...interface{})
	Critical(ctx context.Context, format string, args ...interface{})
	Emergency(ctx context.Context, format string, args ...interface{})
}

func NewLogger(logger Logger) (Logger, error) {
	return logger, nil
}

// Discard returns a logger that drops everything, handy in tests.
func Discard() Logger {
	l, _ := NewCslLogger()
	return l.WithOutput(io.Discard).WithLevel("emergency")
}
