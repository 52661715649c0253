package log

import (
	"context"
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"
)

const (
	LevelDebug = iota
	LevelInfo
	LevelNotice
	LevelWarn
	LevelError
	LevelCritical
	LevelAlert
	LevelEmergency
)

var levelNames = map[string]int{
	"debug":     LevelDebug,
	"info":      LevelInfo,
	"notice":    LevelNotice,
	"warn":      LevelWarn,
	"error":     LevelError,
	"critical":  LevelCritical,
	"alert":     LevelAlert,
	"emergency": LevelEmergency,
}

// ParseLevel falls back to info for unknown names.
func ParseLevel(name string) int {
	if lvl, ok := levelNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return lvl
	}
	return LevelInfo
}

type CslLogger struct {
	level atomic.Int32
	out   *log.Logger
}

func NewCslLogger() (*CslLogger, error) {
	return newCslLogger(LevelInfo, log.New(os.Stderr, "", log.LstdFlags)), nil
}

func newCslLogger(level int, out *log.Logger) *CslLogger {
	l := &CslLogger{out: out}
	l.level.Store(int32(level))
	return l
}

func (l *CslLogger) WithLevel(name string) *CslLogger {
	return newCslLogger(ParseLevel(name), l.out)
}

func (l *CslLogger) WithOutput(w io.Writer) *CslLogger {
	return newCslLogger(l.Level(), log.New(w, "", log.LstdFlags))
}

// SetLevel changes the threshold in place; safe while other goroutines log.
func (l *CslLogger) SetLevel(name string) {
	l.level.Store(int32(ParseLevel(name)))
}

func (l *CslLogger) Level() int {
	return int(l.level.Load())
}

func (l *CslLogger) logf(level int, prefix, format string, args ...interface{}) {
	if level < l.Level() {
		return
	}
	l.out.Printf(prefix+format, args...)
}

func (l *CslLogger) Info(ctx context.Context, format string, args ...interface{}) {
	l.logf(LevelInfo, "[INFO] ", format, args...)
}

func (l *CslLogger) Alert(ctx context.Context, format string, args ...interface{}) {
	l.logf(LevelAlert, "[ALERT] ", format, args...)
}

func (l *CslLogger) Error(ctx context.Context, format string, args ...interface{}) {
	l.logf(LevelError, "[ERROR] ", format, args...)
}

func (l *CslLogger) Warn(ctx context.Context, format string, args ...interface{}) {
	l.logf(LevelWarn, "[WARN] ", format, args...)
}

func (l *CslLogger) Debug(ctx context.Context, format string, args ...interface{}) {
	l.logf(LevelDebug, "[DEBUG] ", format, args...)
}

func (l *CslLogger) Critical(ctx context.Context, format string, args ...interface{}) {
	l.logf(LevelCritical, "[CRITICAL] ", format, args...)
}

func (l *CslLogger) Emergency(ctx context.Context, format string, args ...interface{}) {
	l.logf(LevelEmergency, "[EMERGENCY] ", format, args...)
}

func (l *CslLogger) Notice(ctx context.Context, format string, args ...interface{}) {
	l.logf(LevelNotice, "[NOTICE] ", format, args...)
}
