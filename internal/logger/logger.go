package logger

import (
	"context"
	"log"
	"os"
	"strings"
)

// Logger is the leveled logger threaded through every component.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...interface{})
	Info(ctx context.Context, msg string, args ...interface{})
	Warn(ctx context.Context, msg string, args ...interface{})
	Error(ctx context.Context, msg string, args ...interface{})
}

type level int

const (
	levelDebug level = iota
	levelInfo
	levelWarn
	levelError
)

func parseLevel(s string) level {
	switch strings.ToLower(s) {
	case "debug":
		return levelDebug
	case "warn", "warning":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

type implLogger struct {
	logger *log.Logger
	min    level
}

// New creates a Logger that writes to stdout at the given minimum level.
func New(minLevel string) Logger {
	return &implLogger{
		logger: log.New(os.Stdout, "", log.LstdFlags),
		min:    parseLevel(minLevel),
	}
}

func (l *implLogger) logf(lv level, tag, msg string, args []interface{}) {
	if lv < l.min {
		return
	}
	l.logger.Printf(tag+" "+msg, args...)
}

func (l *implLogger) Debug(ctx context.Context, msg string, args ...interface{}) {
	l.logf(levelDebug, "[DEBUG]", msg, args)
}

func (l *implLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	l.logf(levelInfo, "[INFO]", msg, args)
}

func (l *implLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	l.logf(levelWarn, "[WARN]", msg, args)
}

func (l *implLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	l.logf(levelError, "[ERROR]", msg, args)
}
