package fulfillment

import "context"

// ---------------------------------------------------------------------------
// Outbound ports
// ---------------------------------------------------------------------------

// RemoteOrderStore persists the remote-order cache, one serialized order set
// per local order.
type RemoteOrderStore interface {
	// Load returns the cached remote orders for a local order. A missing
	// row loads as an empty set.
	Load(ctx context.Context, orderID int64) ([]RemoteOrder, error)

	// Save replaces the cached set for a local order. Implementations skip
	// the write when the serialized set is unchanged.
	Save(ctx context.Context, orderID int64, orders []RemoteOrder) error

	// Delete removes the cached set for a local order.
	Delete(ctx context.Context, orderID int64) error
}

// SubmissionPayload is the document posted to the hand-off endpoint.
type SubmissionPayload struct {
	OrderID   int64            `json:"order_id"`
	ItemCount int              `json:"item_count"`
	Items     []SubmissionItem `json:"line_items"`
}

// SubmissionItem is one fulfillable line of the hand-off payload.
type SubmissionItem struct {
	SKU      string `json:"sku"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// NewSubmissionPayload builds the hand-off payload from a local order,
// keeping only warehouse-fulfillable lines and recomputing the item count
// from the surviving lines.
func NewSubmissionPayload(order LocalOrder) SubmissionPayload {
	fulfillable := order.FulfillableItems()
	items := make([]SubmissionItem, 0, len(fulfillable))
	count := 0
	for _, it := range fulfillable {
		items = append(items, SubmissionItem{SKU: it.SKU, Name: it.Name, Quantity: it.Quantity})
		count += it.Quantity
	}
	return SubmissionPayload{OrderID: order.ID, ItemCount: count, Items: items}
}

// SubmissionDispatcher delivers the hand-off payload to the warehouse
// integration endpoint. Dispatch is synchronous: it returns nil only when
// the endpoint acknowledged the payload.
type SubmissionDispatcher interface {
	Dispatch(ctx context.Context, payload SubmissionPayload) error
}

// ConnectivityProbeCache stores the short-lived result of a warehouse
// connectivity probe so status pages do not hammer the WMS. Callers store
// only successful probes; a failed ping is re-attempted on the next check.
type ConnectivityProbeCache interface {
	// Get returns the cached probe result, or ok=false when none is cached.
	Get(ctx context.Context) (reachable bool, ok bool)

	// Set caches a probe result for the store's configured lifetime.
	Set(ctx context.Context, reachable bool)
}
