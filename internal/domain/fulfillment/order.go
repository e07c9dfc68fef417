package fulfillment

import "context"

// ---------------------------------------------------------------------------
// Local order model
// ---------------------------------------------------------------------------

// FulfillmentStatus is the lifecycle marker stored against a local order.
// It moves strictly forward: unset, then submitted once the hand-off
// endpoint accepted the order, then accepted once the warehouse confirmed
// it created at least one remote order.
type FulfillmentStatus string

const (
	StatusNone      FulfillmentStatus = ""
	StatusSubmitted FulfillmentStatus = "submitted"
	StatusAccepted  FulfillmentStatus = "accepted"
)

// IsSet reports whether the order has entered the fulfillment lifecycle.
func (s FulfillmentStatus) IsSet() bool { return s != StatusNone }

// LocalOrder is the read model of an order in the host order system, carrying
// only the fields the fulfillment context needs.
type LocalOrder struct {
	ID           int64
	Status       string
	Trashed      bool
	Paid         bool
	Fulfillment  FulfillmentStatus
	Items        []LocalOrderItem
	AutoComplete bool
}

// LocalOrderItem is one line of a local order.
type LocalOrderItem struct {
	SKU         string
	Name        string
	Quantity    int
	Fulfillable bool
}

// FulfillableItems returns the lines eligible for warehouse hand-off: lines
// flagged fulfillable that carry a SKU.
func (o LocalOrder) FulfillableItems() []LocalOrderItem {
	items := make([]LocalOrderItem, 0, len(o.Items))
	for _, it := range o.Items {
		if it.Fulfillable && it.SKU != "" {
			items = append(items, it)
		}
	}
	return items
}

// ---------------------------------------------------------------------------
// Host order system ports
// ---------------------------------------------------------------------------

// OrderGateway is the port to the host order system. The fulfillment context
// never owns order rows; it reads orders and writes back the fulfillment
// status, notes and completion through this interface.
type OrderGateway interface {
	// GetOrder loads a local order. Returns ErrOrderNotFound when the ID
	// does not exist; trashed orders are returned with Trashed set.
	GetOrder(ctx context.Context, orderID int64) (LocalOrder, error)

	// SetFulfillmentStatus writes the fulfillment lifecycle marker.
	SetFulfillmentStatus(ctx context.Context, orderID int64, status FulfillmentStatus) error

	// AddNote appends an audit note to the order.
	AddNote(ctx context.Context, orderID int64, note string) error

	// Complete transitions the order to its completed status.
	Complete(ctx context.Context, orderID int64, note string) error

	// ListByFulfillmentStatus returns the IDs of all orders carrying the
	// given fulfillment status, including trashed ones.
	ListByFulfillmentStatus(ctx context.Context, status FulfillmentStatus) ([]int64, error)
}

// Catalog resolves SKUs to product display names.
type Catalog interface {
	ProductName(ctx context.Context, sku string) (string, error)
}
