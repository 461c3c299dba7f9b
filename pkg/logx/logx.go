package logx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Fields is structured context attached to a log entry
type Fields map[string]any

var (
	mu       sync.RWMutex
	levelVar = new(slog.LevelVar)
	logger   = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: levelVar}))
	exit     = os.Exit
)

func SetLevel(l Level) {
	levelVar.Set(toSlog(l))
}

// ParseLevel maps "debug", "info", "warn" and "error"; anything else is info
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Configure swaps the output and encoding
func Configure(w io.Writer, json bool) {
	opts := &slog.HandlerOptions{Level: levelVar}
	var h slog.Handler
	if json {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	mu.Lock()
	logger = slog.New(h)
	mu.Unlock()
}

func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func toSlog(l Level) slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func log(l slog.Level, msg string, attrs ...any) {
	current().Log(context.Background(), l, msg, attrs...)
}

func Debug(args ...any)                 { log(slog.LevelDebug, fmt.Sprint(args...)) }
func Debugf(format string, args ...any) { log(slog.LevelDebug, fmt.Sprintf(format, args...)) }
func Info(args ...any)                  { log(slog.LevelInfo, fmt.Sprint(args...)) }
func Infof(format string, args ...any)  { log(slog.LevelInfo, fmt.Sprintf(format, args...)) }
func Warn(args ...any)                  { log(slog.LevelWarn, fmt.Sprint(args...)) }
func Warnf(format string, args ...any)  { log(slog.LevelWarn, fmt.Sprintf(format, args...)) }
func Error(args ...any)                 { log(slog.LevelError, fmt.Sprint(args...)) }
func Errorf(format string, args ...any) { log(slog.LevelError, fmt.Sprintf(format, args...)) }

func Fatal(args ...any) {
	log(slog.LevelError, fmt.Sprint(args...))
	exit(1)
}

func Fatalf(format string, args ...any) {
	log(slog.LevelError, fmt.Sprintf(format, args...))
	exit(1)
}

// Entry is a logger bound to a set of fields
type Entry struct {
	attrs []any
}

func WithFields(fields Fields) *Entry {
	attrs := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		attrs = append(attrs, k, v)
	}
	return &Entry{attrs: attrs}
}

func (e *Entry) Debug(msg string) { log(slog.LevelDebug, msg, e.attrs...) }
func (e *Entry) Info(msg string)  { log(slog.LevelInfo, msg, e.attrs...) }
func (e *Entry) Warn(msg string)  { log(slog.LevelWarn, msg, e.attrs...) }
func (e *Entry) Error(msg string) { log(slog.LevelError, msg, e.attrs...) }

func (e *Entry) Infof(format string, args ...any) {
	log(slog.LevelInfo, fmt.Sprintf(format, args...), e.attrs...)
}

func (e *Entry) Warnf(format string, args ...any) {
	log(slog.LevelWarn, fmt.Sprintf(format, args...), e.attrs...)
}

func (e *Entry) Errorf(format string, args ...any) {
	log(slog.LevelError, fmt.Sprintf(format, args...), e.attrs...)
}
