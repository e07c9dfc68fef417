package dto

import "time"

// AnnounceRemoteOrderRequest is the acceptance callback body sent by the
// warehouse when it accepts an order.
type AnnounceRemoteOrderRequest struct {
	OrderNo   string                 `json:"orderNo" binding:"required"`
	Status    string                 `json:"status"`
	LineItems []RemoteOrderItemInput `json:"lineItems"`
}

// RemoteOrderItemInput is a single order line in the acceptance callback
type RemoteOrderItemInput struct {
	SKU        string `json:"sku" binding:"required"`
	OrderedQty int    `json:"orderedQty" binding:"gte=0"`
}

// RemoteOrderResponse represents a tracked warehouse order in API responses
type RemoteOrderResponse struct {
	Number         string           `json:"number"`
	Status         string           `json:"status"`
	Shipped        bool             `json:"shipped"`
	ItemCount      int              `json:"item_count"`
	FormattedItems string           `json:"formatted_items"`
	OrderURL       string           `json:"order_url"`
	Parcels        []ParcelResponse `json:"parcels"`
}

// ParcelResponse represents a parcel shipment in API responses
type ParcelResponse struct {
	ID             int64  `json:"id"`
	Status         string `json:"status"`
	Carrier        string `json:"carrier"`
	Service        string `json:"service"`
	TrackingNumber string `json:"tracking_number"`
	ParcelURL      string `json:"parcel_url"`
	TrackingURL    string `json:"tracking_url,omitempty"`
}

// OrderTransitionRequest notifies the connector that a host order changed
// status. previous_status carries the status before the transition and may
// be empty for non-transition checks.
type OrderTransitionRequest struct {
	PreviousStatus string `json:"previous_status"`
}

// OrderTransitionResponse reports whether the transition triggered a hand-off
type OrderTransitionResponse struct {
	OrderID   int64 `json:"order_id"`
	Submitted bool  `json:"submitted"`
}

// SubmitOrderResponse confirms a manual hand-off
type SubmitOrderResponse struct {
	OrderID   int64  `json:"order_id"`
	Status    string `json:"status"`
	Submitted bool   `json:"submitted"`
}

// SyncRunResponse summarizes a synchronization batch
type SyncRunResponse struct {
	Message         string        `json:"message"`
	ProcessedCount  int           `json:"processed_count"`
	SkippedCount    int           `json:"skipped_count"`
	UpdatedOrderIDs []int64       `json:"updated_order_ids"`
	Failed          []SyncFailure `json:"failed,omitempty"`
	StartedAt       time.Time     `json:"started_at"`
	FinishedAt      time.Time     `json:"finished_at"`
}

// SyncFailure reports one order that could not be synchronized
type SyncFailure struct {
	OrderID      int64  `json:"order_id"`
	ErrorMessage string `json:"error_message"`
}

// SystemStatusResponse reports service health and warehouse connectivity
type SystemStatusResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Uptime    string `json:"uptime"`
	Connected bool   `json:"warehouse_connected"`
}
