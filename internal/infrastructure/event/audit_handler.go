package event

import (
	"context"

	"github.com/dsi-erp/backend/internal/domain/shared"
	"github.com/dsi-erp/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// AuditLogHandler writes every catalog event to the structured log
type AuditLogHandler struct {
	serializer *EventSerializer
	logger     *zap.Logger
}

// NewAuditLogHandler creates an audit handler
func NewAuditLogHandler(serializer *EventSerializer, log *zap.Logger) *AuditLogHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuditLogHandler{
		serializer: serializer,
		logger:     log.Named("audit"),
	}
}

// EventTypes returns the catalog event types
func (h *AuditLogHandler) EventTypes() []string {
	return CatalogEventTypes
}

// Handle logs the event with its JSON payload
func (h *AuditLogHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	payload, err := h.serializer.Serialize(event)
	if err != nil {
		return err
	}
	logger.For(ctx, h.logger).Info("catalog event",
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_key", event.AggregateKey()),
		zap.Time("occurred_at", event.OccurredAt()),
		zap.ByteString("payload", payload),
	)
	return nil
}

var _ shared.EventHandler = (*AuditLogHandler)(nil)
