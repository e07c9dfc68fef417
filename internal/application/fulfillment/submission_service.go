package fulfillment

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/erp/wms-connect/internal/domain/fulfillment"
	"github.com/erp/wms-connect/internal/domain/shared"
)

// Notes written to the order audit trail.
const (
	noteSubmitted    = "Order submitted to warehouse."
	noteSubmitFailed = "Order submit failed."
)

// SubmissionService hands eligible local orders off to the warehouse
// integration endpoint, exactly once per order.
type SubmissionService struct {
	orders     fulfillment.OrderGateway
	dispatcher fulfillment.SubmissionDispatcher
	readiness  *fulfillment.ReadinessPolicy
	events     shared.EventPublisher
	logger     *zap.Logger
}

// NewSubmissionService creates a new SubmissionService.
func NewSubmissionService(
	orders fulfillment.OrderGateway,
	dispatcher fulfillment.SubmissionDispatcher,
	readiness *fulfillment.ReadinessPolicy,
	events shared.EventPublisher,
	logger *zap.Logger,
) *SubmissionService {
	if readiness == nil {
		readiness = fulfillment.NewReadinessPolicy()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubmissionService{
		orders:     orders,
		dispatcher: dispatcher,
		readiness:  readiness,
		events:     events,
		logger:     logger,
	}
}

// SubmitIfReady consults the readiness policy and submits the order when it
// qualifies. previousStatus carries the order status before the transition
// that triggered the check, or empty for direct checks. Returns false with a
// nil error when the order is simply not ready.
func (s *SubmissionService) SubmitIfReady(ctx context.Context, orderID int64, previousStatus string) (bool, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return false, err
	}
	if !s.readiness.IsReady(order, previousStatus) {
		return false, nil
	}
	if err := s.submit(ctx, order); err != nil {
		return false, err
	}
	return true, nil
}

// Submit hands the order off unconditionally of order status, keeping only
// the exactly-once guard. Used by the manual submit operation.
func (s *SubmissionService) Submit(ctx context.Context, orderID int64) error {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	return s.submit(ctx, order)
}

func (s *SubmissionService) submit(ctx context.Context, order fulfillment.LocalOrder) error {
	if order.Fulfillment.IsSet() {
		return fmt.Errorf("%w: order %d is %s", fulfillment.ErrAlreadySubmitted, order.ID, order.Fulfillment)
	}

	s.publish(ctx, fulfillment.NewOrderSubmittingEvent(order.ID))

	payload := fulfillment.NewSubmissionPayload(order)
	if err := s.dispatcher.Dispatch(ctx, payload); err != nil {
		s.logger.Error("order submission failed",
			zap.Int64("order_id", order.ID),
			zap.Error(err))
		if noteErr := s.orders.AddNote(ctx, order.ID, noteSubmitFailed+" "+err.Error()); noteErr != nil {
			s.logger.Warn("failed to record submit failure note",
				zap.Int64("order_id", order.ID),
				zap.Error(noteErr))
		}
		s.publish(ctx, fulfillment.NewOrderSubmitFailedEvent(order.ID, err.Error()))
		return err
	}

	if err := s.orders.SetFulfillmentStatus(ctx, order.ID, fulfillment.StatusSubmitted); err != nil {
		return fmt.Errorf("order %d submitted but status write failed: %w", order.ID, err)
	}
	if err := s.orders.AddNote(ctx, order.ID, noteSubmitted); err != nil {
		s.logger.Warn("failed to record submit note",
			zap.Int64("order_id", order.ID),
			zap.Error(err))
	}

	s.logger.Info("order submitted", zap.Int64("order_id", order.ID))
	s.publish(ctx, fulfillment.NewOrderSubmittedEvent(order.ID))
	return nil
}

func (s *SubmissionService) publish(ctx context.Context, event shared.DomainEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed",
			zap.String("event_type", event.EventType()),
			zap.Error(err))
	}
}
