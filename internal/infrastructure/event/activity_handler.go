package event

import (
	"context"

	"go.uber.org/zap"

	"github.com/erp/wms-connect/internal/domain/fulfillment"
	"github.com/erp/wms-connect/internal/domain/shared"
)

// ActivityLogHandler writes an audit line for every fulfillment event.
type ActivityLogHandler struct {
	logger *zap.Logger
}

// NewActivityLogHandler creates an activity log handler
func NewActivityLogHandler(logger *zap.Logger) *ActivityLogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityLogHandler{logger: logger}
}

// Handle logs the event
func (h *ActivityLogHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.logger.Info("fulfillment activity",
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID()),
		zap.Time("occurred_at", event.OccurredAt()),
	)
	return nil
}

// EventTypes returns the fulfillment event types this handler audits
func (h *ActivityLogHandler) EventTypes() []string {
	return []string{
		fulfillment.EventOrderSubmitting,
		fulfillment.EventOrderSubmitted,
		fulfillment.EventOrderSubmitFailed,
		fulfillment.EventBatchStarted,
		fulfillment.EventBatchFinished,
	}
}

var _ shared.EventHandler = (*ActivityLogHandler)(nil)
