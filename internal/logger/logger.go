// Package logger provides a leveled, component-tagged logger on top of log/slog.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger writes formatted messages tagged with the component that produced them.
type Logger struct {
	slog  *slog.Logger
	level *slog.LevelVar
}

var std = New(os.Stdout, "info", "text")

// New builds a logger writing to w. format is "json" or "text".
func New(w io.Writer, level, format string) *Logger {
	lv := new(slog.LevelVar)
	lv.Set(ParseLevel(level))

	opts := &slog.HandlerOptions{Level: lv}
	var h slog.Handler
	if strings.EqualFold(format, "json") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return &Logger{slog: slog.New(h), level: lv}
}

// ParseLevel maps a LOG_LEVEL value to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetDefault replaces the package-level logger.
func SetDefault(l *Logger) {
	std = l
}

// Default returns the package-level logger.
func Default() *Logger {
	return std
}

// SetLevel changes the minimum level at runtime.
func (l *Logger) SetLevel(level string) {
	l.level.Set(ParseLevel(level))
}

func (l *Logger) log(level slog.Level, component, message string, args ...interface{}) {
	msg := message
	if len(args) > 0 {
		msg = fmt.Sprintf(message, args...)
	}
	if component != "" {
		l.slog.Log(context.Background(), level, msg, slog.String("component", component))
		return
	}
	l.slog.Log(context.Background(), level, msg)
}

func (l *Logger) Debug(component, message string, args ...interface{}) {
	l.log(slog.LevelDebug, component, message, args...)
}

func (l *Logger) Info(component, message string, args ...interface{}) {
	l.log(slog.LevelInfo, component, message, args...)
}

func (l *Logger) Warn(component, message string, args ...interface{}) {
	l.log(slog.LevelWarn, component, message, args...)
}

func (l *Logger) Error(component, message string, args ...interface{}) {
	l.log(slog.LevelError, component, message, args...)
}

// Fatal logs an error message and exits
func (l *Logger) Fatal(component, message string, args ...interface{}) {
	l.log(slog.LevelError, component, message, args...)
	os.Exit(1)
}

func Debug(component, message string, args ...interface{}) { std.Debug(component, message, args...) }
func Info(component, message string, args ...interface{})  { std.Info(component, message, args...) }
func Warn(component, message string, args ...interface{})  { std.Warn(component, message, args...) }
func Error(component, message string, args ...interface{}) { std.Error(component, message, args...) }
func Fatal(component, message string, args ...interface{}) { std.Fatal(component, message, args...) }
