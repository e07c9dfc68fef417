package fulfillment

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/erp/wms-connect/internal/domain/fulfillment"
	"github.com/erp/wms-connect/internal/domain/shared"
)

// SyncService runs batch reconciliation over every accepted order: refresh
// the cached warehouse state, collect the orders that changed, and apply
// auto-completion.
type SyncService struct {
	orders    fulfillment.OrderGateway
	reconcile *ReconcileService
	events    shared.EventPublisher
	logger    *zap.Logger
}

// NewSyncService creates a new SyncService.
func NewSyncService(
	orders fulfillment.OrderGateway,
	reconcile *ReconcileService,
	events shared.EventPublisher,
	logger *zap.Logger,
) *SyncService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncService{
		orders:    orders,
		reconcile: reconcile,
		events:    events,
		logger:    logger,
	}
}

// RunBatch refreshes every accepted order. Failures are isolated per order:
// one unreachable refresh never aborts the rest of the batch.
func (s *SyncService) RunBatch(ctx context.Context) (*SyncResult, error) {
	result := &SyncResult{
		StartedAt:       time.Now(),
		UpdatedOrderIDs: make([]int64, 0),
		Failed:          make([]SyncFailure, 0),
	}

	orderIDs, err := s.orders.ListByFulfillmentStatus(ctx, fulfillment.StatusAccepted)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, fulfillment.NewBatchStartedEvent(orderIDs))
	s.logger.Info("sync batch started", zap.Int("order_count", len(orderIDs)))

	for _, orderID := range orderIDs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		changed, err := s.syncOne(ctx, orderID)
		if errors.Is(err, errOrderSkipped) {
			result.SkippedCount++
			continue
		}
		result.ProcessedCount++
		if err != nil {
			s.logger.Error("order sync failed",
				zap.Int64("order_id", orderID),
				zap.Error(err))
			result.Failed = append(result.Failed, SyncFailure{
				OrderID:      orderID,
				ErrorMessage: err.Error(),
			})
			continue
		}
		if changed {
			result.UpdatedOrderIDs = append(result.UpdatedOrderIDs, orderID)
		}
	}

	result.FinishedAt = time.Now()
	s.publish(ctx, fulfillment.NewBatchFinishedEvent(result.UpdatedOrderIDs))
	s.logger.Info("sync batch finished",
		zap.Int("processed", result.ProcessedCount),
		zap.Int("updated", len(result.UpdatedOrderIDs)),
		zap.Int("failed", len(result.Failed)))
	return result, nil
}

// errOrderSkipped marks orders the batch does not touch.
var errOrderSkipped = errors.New("order skipped")

// syncOne refreshes a single order and applies auto-completion. The local
// order's fulfillment status change (shipped orders completing the local
// order) is folded into the changed verdict.
func (s *SyncService) syncOne(ctx context.Context, orderID int64) (bool, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return false, err
	}
	if order.Trashed {
		return false, errOrderSkipped
	}

	_, changed, err := s.reconcile.RefreshAll(ctx, orderID)
	if err != nil {
		return false, err
	}

	completed, err := s.reconcile.ApplyCompletion(ctx, orderID)
	if err != nil && !errors.Is(err, fulfillment.ErrAutoUpdateDisabled) {
		return changed, err
	}
	return changed || completed, nil
}

func (s *SyncService) publish(ctx context.Context, event shared.DomainEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed",
			zap.String("event_type", event.EventType()),
			zap.Error(err))
	}
}
