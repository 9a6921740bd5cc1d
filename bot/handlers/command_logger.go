package handlers

import (
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/handler"
)

const slowThreshold = 2 * time.Second

// WrapWithLogging logs a command's start, outcome and duration around the
// wrapped handler.
func WrapWithLogging(name string, h handler.CommandHandler) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		start := time.Now()
		slog.Info("Command started",
			slog.String("type", "cmd"),
			slog.String("name", name),
			slog.String("user_id", e.User().ID.String()),
			slog.String("user_name", e.User().Username),
		)

		err := h(e)
		took := time.Since(start)

		attrs := []any{
			slog.String("type", "cmd"),
			slog.String("name", name),
			slog.String("user_id", e.User().ID.String()),
			slog.Duration("took", took),
		}
		switch {
		case err != nil:
			slog.Error("Command failed", append(attrs, slog.Any("error", err))...)
		case took > slowThreshold:
			slog.Warn("Command executed slowly", attrs...)
		default:
			slog.Info("Command completed", attrs...)
		}
		return err
	}
}

// WrapComponentWithLogging logs a component interaction the same way.
func WrapComponentWithLogging(name string, h handler.ComponentHandler) handler.ComponentHandler {
	return func(e *handler.ComponentEvent) error {
		start := time.Now()
		err := h(e)
		attrs := []any{
			slog.String("type", "cmd"),
			slog.String("name", name),
			slog.String("user_id", e.User().ID.String()),
			slog.Duration("took", time.Since(start)),
		}
		if err != nil {
			slog.Error("Component interaction failed", append(attrs, slog.Any("error", err))...)
		} else {
			slog.Debug("Component interaction completed", attrs...)
		}
		return err
	}
}
