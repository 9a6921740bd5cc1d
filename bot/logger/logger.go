package logger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorPurple = "\033[35m"
	colorWhite  = "\033[37m"
)

// Log categories shown in the bracketed prefix.
type LogType string

const (
	TypeCommand LogType = "CMD"
	TypeDB      LogType = "DB"
	TypeSystem  LogType = "SYS"
)

// Handler is a colorized console slog handler. Noisy gateway internals from
// the Discord library are dropped before formatting.
type Handler struct {
	level slog.Level
	attrs []slog.Attr
}

func NewHandler(level slog.Level) *Handler {
	return &Handler{level: level}
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{
		level: h.level,
		attrs: append(append([]slog.Attr{}, h.attrs...), attrs...),
	}
}

func (h *Handler) WithGroup(string) slog.Handler {
	return h
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	if shouldSkipLog(r.Message) {
		return nil
	}

	var levelColor, levelText string
	switch r.Level {
	case slog.LevelDebug:
		levelColor, levelText = colorPurple, "DEBUG"
	case slog.LevelInfo:
		levelColor, levelText = colorGreen, "INFO"
	case slog.LevelWarn:
		levelColor, levelText = colorYellow, "WARN"
	default:
		levelColor, levelText = colorRed, "ERROR"
	}

	logType := TypeSystem
	var attrsStr strings.Builder
	writeAttr := func(a slog.Attr) bool {
		if a.Key == "type" {
			switch a.Value.String() {
			case "cmd":
				logType = TypeCommand
			case "db":
				logType = TypeDB
			}
			return true
		}
		fmt.Fprintf(&attrsStr, " %s=%v", a.Key, a.Value)
		return true
	}
	for _, a := range h.attrs {
		writeAttr(a)
	}
	r.Attrs(writeAttr)

	fmt.Printf("%s[grandline] [%s] [%s%s%s] [%s] %s%s%s\n",
		colorWhite,
		r.Time.Format(time.TimeOnly),
		levelColor, levelText, colorWhite,
		logType,
		r.Message,
		attrsStr.String(),
		colorReset,
	)
	return nil
}

var skippedMessages = []string{
	"locking buckets",
	"unlocking buckets",
	"gateway event",
	"cleaning up bucket",
	"binary message received",
	"received gateway message",
	"opening gateway connection",
	"locking gateway rate limiter",
	"unlocking gateway rate limiter",
	"sending gateway command",
	"new request",
	"new response",
	"locking rest bucket",
	"unlocking rest bucket",
	"rate limit response headers",
	"sending heartbeat",
}

func shouldSkipLog(msg string) bool {
	lower := strings.ToLower(msg)
	for _, skip := range skippedMessages {
		if strings.Contains(lower, skip) {
			return true
		}
	}
	return false
}
