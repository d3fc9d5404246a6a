package event

import (
	"context"

	"go.uber.org/zap"

	"github.com/bizops/backend/internal/domain/shared"
)

// LoggingHandler subscribes to all events and writes a structured audit line
// for each one
type LoggingHandler struct {
	logger *zap.Logger
}

// NewLoggingHandler creates a LoggingHandler
func NewLoggingHandler(logger *zap.Logger) *LoggingHandler {
	return &LoggingHandler{logger: logger.Named("events")}
}

// Handle logs the event
func (h *LoggingHandler) Handle(ctx context.Context, evt shared.DomainEvent) error {
	h.logger.Info("Domain event",
		zap.String("event_type", evt.EventType()),
		zap.String("event_id", evt.EventID().String()),
		zap.String("aggregate_id", evt.AggregateID().String()),
		zap.String("tenant_id", evt.TenantID().String()),
		zap.Time("occurred_at", evt.OccurredAt()),
	)
	return nil
}

// EventTypes returns an empty slice: the handler receives every event
func (h *LoggingHandler) EventTypes() []string {
	return nil
}

// Ensure LoggingHandler implements EventHandler
var _ shared.EventHandler = (*LoggingHandler)(nil)
