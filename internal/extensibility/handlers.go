package extensibility

import (
	"context"
	"log/slog"
	"time"

	"github.com/comalice/hsmx/internal/primitives"
)

// loggedHandler wraps a Handler and adds logging around execution.
type loggedHandler struct {
	inner  primitives.Handler
	logger *slog.Logger
	label  string
}

// Logged wraps h so every call is logged at debug level with its duration, and
// failures at warn level. A nil logger means slog.Default().
func Logged(h primitives.Handler, logger *slog.Logger, label string) primitives.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &loggedHandler{inner: h, logger: logger, label: label}
}

// Handle logs before and after delegating to the inner handler.
func (h *loggedHandler) Handle(ctx context.Context, ev primitives.Event) (any, error) {
	h.logger.DebugContext(ctx, "handler start", "handler", h.label, "event", ev.Label())
	start := time.Now()
	v, err := h.inner.Handle(ctx, ev)
	if err != nil {
		h.logger.WarnContext(ctx, "handler failed",
			"handler", h.label,
			"event", ev.Label(),
			"duration", time.Since(start),
			"error", err,
		)
		return v, err
	}
	h.logger.DebugContext(ctx, "handler done", "handler", h.label, "event", ev.Label(), "duration", time.Since(start))
	return v, nil
}
