package kcp

import (
	"context"
	"log/slog"

	"github.com/arqnet/kcp/internal"
)

// logger wraps an optional *slog.Logger so call sites never need a nil
// check; when no logger has been set every method is a no-op.
type logger struct {
	log *slog.Logger
}

func (l logger) enabled(level slog.Level) bool {
	return l.log != nil && l.log.Enabled(context.Background(), level)
}

func (l logger) debug(msg string, args ...any) {
	if l.enabled(slog.LevelDebug) {
		l.log.Debug(msg, args...)
	}
}

func (l logger) trace(msg string, args ...any) {
	if l.enabled(internal.LevelTrace) {
		l.log.Log(context.Background(), internal.LevelTrace, msg, args...)
	}
}

func (l logger) logerr(msg string, err error, args ...any) {
	if l.log == nil {
		return
	}
	l.log.Error(msg, append([]any{"err", err}, args...)...)
}
