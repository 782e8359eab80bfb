package event

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/dsi-erp/backend/internal/domain/shared"
	"github.com/dsi-erp/backend/internal/infrastructure/logger"
	"github.com/dsi-erp/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

var _ shared.EventPublisher = (*InMemoryEventBus)(nil)

// InMemoryEventBus delivers catalog events to in-process handlers.
// Delivery is synchronous and happens on the publishing goroutine.
type InMemoryEventBus struct {
	handlers *handlerTable
	logger   *zap.Logger
	running  atomic.Bool
}

func NewInMemoryEventBus(log *zap.Logger) *InMemoryEventBus {
	if log == nil {
		log = zap.NewNop()
	}
	return &InMemoryEventBus{
		handlers: newHandlerTable(),
		logger:   log.Named("event_bus"),
	}
}

// Subscribe registers handler for eventTypes, defaulting to the handler's own
// EventTypes. An empty list means every event.
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.handlers.add(handler, eventTypes...)
	b.logger.Debug("handler subscribed", zap.Strings("event_types", eventTypes))
}

func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.handlers.remove(handler)
}

func (b *InMemoryEventBus) Start(context.Context) error {
	b.running.Store(true)
	b.logger.Info("event bus started", zap.Int("handlers", b.handlers.count()))
	return nil
}

func (b *InMemoryEventBus) Stop(context.Context) error {
	b.running.Store(false)
	b.logger.Info("event bus stopped")
	return nil
}

// Publish hands each event to its handlers. It never fails: handler errors and
// panics are logged, and events published on a stopped bus are dropped.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if !b.running.Load() {
		b.logger.Debug("bus stopped, dropping events", zap.Int("count", len(events)))
		return nil
	}
	log := logger.For(ctx, b.logger)
	for _, ev := range events {
		for _, h := range b.handlers.lookup(ev.EventType()) {
			if err := b.deliver(ctx, h, ev); err != nil {
				log.Error("event handler failed",
					zap.String("event_type", ev.EventType()),
					zap.Stringer("event_id", ev.EventID()),
					zap.String("aggregate_key", ev.AggregateKey()),
					zap.Error(err),
				)
			}
		}
	}
	return nil
}

func (b *InMemoryEventBus) deliver(ctx context.Context, h shared.EventHandler, ev shared.DomainEvent) (err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "event", "dispatch",
		telemetry.WithAttribute("event.type", ev.EventType()),
	)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
		if err != nil {
			telemetry.RecordError(span, err)
		}
		span.End()
	}()
	return h.Handle(ctx, ev)
}
