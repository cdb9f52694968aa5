package logging

import (
	"io"
	"log/slog"
	"os"
	"sync/atomic"
)

// Global structured logger. Initialized with a reasonable text handler.
var logger atomic.Pointer[slog.Logger]

func init() {
	l := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	logger.Store(l)
}

// L returns the current global logger.
func L() *slog.Logger { return logger.Load() }

// Set replaces the global logger.
func Set(l *slog.Logger) {
	if l != nil {
		logger.Store(l)
	}
}

// New creates a new logger with given level, format ("text" or "json"), and optional writer (defaults stderr).
func New(format string, level slog.Leveler, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	var h slog.Handler
	switch format {
	case "json":
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	default:
		h = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	}
	return slog.New(h)
}

// WithTag scopes l to a single protocol frame tag, the way the connection
// reader annotates its per-frame debug logging.
func WithTag(l *slog.Logger, tag byte) *slog.Logger {
	return l.With("tag", tagName(tag))
}

func tagName(tag byte) string {
	switch tag {
	case 1:
		return "text"
	case 2:
		return "admin"
	case 3:
		return "introduction"
	case 10:
		return "add_to_pot"
	case 11:
		return "pot"
	case 20:
		return "start_info_or_all_players"
	case 21:
		return "specific_player"
	default:
		return "unknown"
	}
}
