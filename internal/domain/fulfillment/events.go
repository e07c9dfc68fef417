package fulfillment

import (
	"strconv"

	"github.com/erp/wms-connect/internal/domain/shared"
)

// Event types published by the fulfillment context.
const (
	EventOrderSubmitting   = "fulfillment.order.submitting"
	EventOrderSubmitted    = "fulfillment.order.submitted"
	EventOrderSubmitFailed = "fulfillment.order.submit_failed"
	EventBatchStarted      = "fulfillment.batch.started"
	EventBatchFinished     = "fulfillment.batch.finished"
)

// OrderSubmittingEvent fires immediately before an order is handed off.
type OrderSubmittingEvent struct {
	shared.BaseDomainEvent
	OrderID int64 `json:"order_id"`
}

// NewOrderSubmittingEvent creates an order submitting event.
func NewOrderSubmittingEvent(orderID int64) *OrderSubmittingEvent {
	return &OrderSubmittingEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventOrderSubmitting, strconv.FormatInt(orderID, 10), "LocalOrder"),
		OrderID:         orderID,
	}
}

// OrderSubmittedEvent fires after a successful hand-off.
type OrderSubmittedEvent struct {
	shared.BaseDomainEvent
	OrderID int64 `json:"order_id"`
}

// NewOrderSubmittedEvent creates an order submitted event.
func NewOrderSubmittedEvent(orderID int64) *OrderSubmittedEvent {
	return &OrderSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventOrderSubmitted, strconv.FormatInt(orderID, 10), "LocalOrder"),
		OrderID:         orderID,
	}
}

// OrderSubmitFailedEvent fires when the hand-off endpoint rejects an order.
type OrderSubmitFailedEvent struct {
	shared.BaseDomainEvent
	OrderID int64  `json:"order_id"`
	Reason  string `json:"reason"`
}

// NewOrderSubmitFailedEvent creates an order submit failed event.
func NewOrderSubmitFailedEvent(orderID int64, reason string) *OrderSubmitFailedEvent {
	return &OrderSubmitFailedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventOrderSubmitFailed, strconv.FormatInt(orderID, 10), "LocalOrder"),
		OrderID:         orderID,
		Reason:          reason,
	}
}

// BatchStartedEvent fires before a synchronization batch runs.
type BatchStartedEvent struct {
	shared.BaseDomainEvent
	OrderIDs []int64 `json:"order_ids"`
}

// NewBatchStartedEvent creates a batch started event.
func NewBatchStartedEvent(orderIDs []int64) *BatchStartedEvent {
	return &BatchStartedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventBatchStarted, "sync", "SyncBatch"),
		OrderIDs:        orderIDs,
	}
}

// BatchFinishedEvent fires after a synchronization batch, carrying the IDs
// of the local orders whose cached state changed.
type BatchFinishedEvent struct {
	shared.BaseDomainEvent
	UpdatedOrderIDs []int64 `json:"updated_order_ids"`
}

// NewBatchFinishedEvent creates a batch finished event.
func NewBatchFinishedEvent(updatedOrderIDs []int64) *BatchFinishedEvent {
	return &BatchFinishedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventBatchFinished, "sync", "SyncBatch"),
		UpdatedOrderIDs: updatedOrderIDs,
	}
}
