package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes engine events to a log/slog.Logger. Useful for
// development when you want responder/querier activity visible alongside
// the rest of an application's structured logs.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter wraps logger. A nil logger falls back to slog.Default().
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAdapter{logger: logger}
}

// Log writes the event at the slog level implied by e.Level: Info events
// map to slog.LevelInfo, Fine to slog.LevelDebug, and Finest to one step
// below slog.LevelDebug so a verbose handler can still separate the two.
func (a *SlogAdapter) Log(e Event) {
	level := slogLevel(e.Level)

	attrs := []slog.Attr{slog.String("component", e.Component)}
	if e.Target != "" {
		attrs = append(attrs, slog.String("target", e.Target))
	}
	if e.Err != nil {
		attrs = append(attrs, slog.String("error", e.Err.Error()))
	}

	a.logger.LogAttrs(context.Background(), level, e.Message, attrs...)
}

func slogLevel(l Level) slog.Level {
	switch l {
	case LevelInfo:
		return slog.LevelInfo
	case LevelFine:
		return slog.LevelDebug
	case LevelFinest:
		return slog.LevelDebug - 4
	default:
		return slog.LevelDebug
	}
}

var _ Logger = (*SlogAdapter)(nil)
