package events

import (
	"context"
	"log/slog"
	"sync"
)

// InMemoryEmitter dispatches freeze events to registered handlers in
// registration order. A failing handler does not stop delivery to the
// others; the first error is returned.
type InMemoryEmitter struct {
	mu       sync.RWMutex
	handlers []Handler
	logger   *slog.Logger
}

// NewInMemoryEmitter creates an emitter with no handlers registered.
func NewInMemoryEmitter(logger *slog.Logger) *InMemoryEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &InMemoryEmitter{
		logger: logger.With(slog.String("component", "freeze_emitter")),
	}
}

var _ Emitter = (*InMemoryEmitter)(nil)

// RegisterHandler adds a handler to receive future events.
func (e *InMemoryEmitter) RegisterHandler(h Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = append(e.handlers, h)
	e.logger.Debug("registered freeze event handler",
		slog.Int("handler_count", len(e.handlers)))
}

// Emit publishes the event to every registered handler.
func (e *InMemoryEmitter) Emit(ctx context.Context, ev FreezeStatusChanged) error {
	e.mu.RLock()
	handlers := make([]Handler, len(e.handlers))
	copy(handlers, e.handlers)
	e.mu.RUnlock()

	e.logger.Debug("emitting freeze status change",
		slog.Uint64("scholarship_id", ev.ScholarshipID),
		slog.Bool("frozen", ev.Frozen),
		slog.Bool("manual", ev.Manual))

	var firstErr error
	for _, h := range handlers {
		if err := h.HandleFreezeStatusChanged(ctx, ev); err != nil {
			e.logger.Error("freeze event handler failed",
				slog.Uint64("scholarship_id", ev.ScholarshipID),
				slog.String("error", err.Error()))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
