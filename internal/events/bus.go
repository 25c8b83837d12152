package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/SscSPs/bookkeeping_core/internal/core/domain"
	"github.com/SscSPs/bookkeeping_core/internal/middleware"
)

// EntrySubmittedHandler consumes an EntrySubmitted event, for example to
// notify reviewers.
type EntrySubmittedHandler func(ctx context.Context, evt domain.EntrySubmitted) error

// Bus delivers EntrySubmitted events to subscribers in-process, in
// subscription order. A failing or panicking handler does not stop the others.
type Bus struct {
	mu       sync.RWMutex
	handlers []namedHandler
}

type namedHandler struct {
	name string
	fn   EntrySubmittedHandler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers fn under name.
func (b *Bus) Subscribe(name string, fn EntrySubmittedHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, namedHandler{name: name, fn: fn})
}

// PublishEntrySubmitted runs every handler and joins their failures.
func (b *Bus) PublishEntrySubmitted(ctx context.Context, evt domain.EntrySubmitted) error {
	b.mu.RLock()
	handlers := make([]namedHandler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	logger := middleware.GetLoggerFromCtx(ctx)
	var errs []error
	for _, h := range handlers {
		if err := b.deliver(ctx, h, evt); err != nil {
			logger.Warn("EntrySubmitted handler failed",
				slog.String("handler", h.name),
				slog.String("group_id", evt.Group.GroupID),
				slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (b *Bus) deliver(ctx context.Context, h namedHandler, evt domain.EntrySubmitted) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler %s panicked: %v", h.name, r)
		}
	}()
	if err := h.fn(ctx, evt); err != nil {
		return fmt.Errorf("handler %s: %w", h.name, err)
	}
	return nil
}

// LogNotifier returns a handler that logs each submission. It stands in for
// an outbound notification service.
func LogNotifier(logger *slog.Logger) EntrySubmittedHandler {
	return func(ctx context.Context, evt domain.EntrySubmitted) error {
		debit, _ := domain.SumLegs(evt.Legs)
		logger.InfoContext(ctx, "Journal entry submitted for approval",
			slog.String("group_id", evt.Group.GroupID),
			slog.String("submitted_by", evt.Actor.ID),
			slog.Int("legs", len(evt.Legs)),
			slog.String("amount", debit.StringFixed(2)))
		return nil
	}
}
