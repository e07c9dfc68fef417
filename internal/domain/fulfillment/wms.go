package fulfillment

import "context"

// ---------------------------------------------------------------------------
// Warehouse port
// ---------------------------------------------------------------------------

// WarehouseClient is the port interface for the remote warehouse-management
// system. Implementations live in the infrastructure layer.
//
// All methods classify failures into the context's sentinel errors:
// ErrWarehouseUnreachable for transport and server-side failures,
// ErrWarehouseRejected for application-level errors reported by the WMS,
// and ErrMalformedResponse for bodies that cannot be parsed.
type WarehouseClient interface {
	// Ping verifies connectivity and credentials with a minimal request.
	Ping(ctx context.Context) error

	// GetOrder fetches a single remote order by warehouse order number.
	GetOrder(ctx context.Context, number string) (RemoteOrder, error)

	// SearchOrdersByReference finds all remote orders whose customer
	// reference equals the given local order ID.
	SearchOrdersByReference(ctx context.Context, localOrderID int64) ([]RemoteOrder, error)

	// GetParcels fetches the parcel shipments attached to a remote order.
	GetParcels(ctx context.Context, number string) ([]RemoteParcel, error)

	// CarrierName resolves a numeric carrier ID to its display label.
	CarrierName(ctx context.Context, carrierID int64) (string, error)

	// CarrierServiceName resolves a carrier service ID to its display label.
	CarrierServiceName(ctx context.Context, serviceID string) (string, error)
}
