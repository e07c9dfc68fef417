package wms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/erp/wms-connect/internal/domain/fulfillment"
)

// maxResponseSize is the maximum allowed response size from the WMS API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// apiKeyHeader carries the account credential on every request.
const apiKeyHeader = "API-Key"

// Client implements the WarehouseClient port against the Infoplus WMS API.
type Client struct {
	config     *Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new WMS API client with the given configuration.
func NewClient(config *Config, logger *zap.Logger) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
		logger: logger,
	}, nil
}

// ---------------------------------------------------------------------------
// Connectivity
// ---------------------------------------------------------------------------

// Ping verifies connectivity and credentials with a minimal item search.
func (c *Client) Ping(ctx context.Context) error {
	query := url.Values{}
	query.Set("limit", "1")
	_, err := c.doRequest(ctx, "/item/search", query)
	return err
}

// ---------------------------------------------------------------------------
// Order Operations
// ---------------------------------------------------------------------------

// GetOrder fetches a single remote order by warehouse order number.
func (c *Client) GetOrder(ctx context.Context, number string) (fulfillment.RemoteOrder, error) {
	number = fulfillment.CanonicalOrderNumber(number)
	if number == "" {
		return fulfillment.RemoteOrder{}, fmt.Errorf("%w: empty order number", fulfillment.ErrInvalidOrderNumber)
	}

	body, err := c.doRequest(ctx, "/order/"+url.PathEscape(number), nil)
	if err != nil {
		return fulfillment.RemoteOrder{}, err
	}

	var order wireOrder
	if err := json.Unmarshal(body, &order); err != nil {
		return fulfillment.RemoteOrder{}, fmt.Errorf("%w: failed to parse order: %v", fulfillment.ErrMalformedResponse, err)
	}
	return c.toRemoteOrder(order)
}

// SearchOrdersByReference finds all remote orders whose customer reference
// equals the given local order ID.
func (c *Client) SearchOrdersByReference(ctx context.Context, localOrderID int64) ([]fulfillment.RemoteOrder, error) {
	query := url.Values{}
	query.Set("filter", fmt.Sprintf("customerOrderNo eq %d", localOrderID))

	body, err := c.doRequest(ctx, "/order/search", query)
	if err != nil {
		return nil, err
	}

	var wireOrders []wireOrder
	if err := json.Unmarshal(body, &wireOrders); err != nil {
		return nil, fmt.Errorf("%w: failed to parse order search: %v", fulfillment.ErrMalformedResponse, err)
	}

	orders := make([]fulfillment.RemoteOrder, 0, len(wireOrders))
	for _, w := range wireOrders {
		order, err := c.toRemoteOrder(w)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// ---------------------------------------------------------------------------
// Parcel Operations
// ---------------------------------------------------------------------------

// GetParcels fetches the parcel shipments attached to a remote order.
// Carrier and service IDs are resolved to display labels; a failed lookup
// falls back to the raw ID.
func (c *Client) GetParcels(ctx context.Context, number string) ([]fulfillment.RemoteParcel, error) {
	number = fulfillment.CanonicalOrderNumber(number)
	query := url.Values{}
	query.Set("filter", fmt.Sprintf("orderNo eq %s", number))

	body, err := c.doRequest(ctx, "/parcelShipment/search", query)
	if err != nil {
		return nil, err
	}

	var wireParcels []wireParcel
	if err := json.Unmarshal(body, &wireParcels); err != nil {
		return nil, fmt.Errorf("%w: failed to parse parcel search: %v", fulfillment.ErrMalformedResponse, err)
	}

	parcels := make([]fulfillment.RemoteParcel, 0, len(wireParcels))
	for _, w := range wireParcels {
		parcelID, err := w.ID.Int64()
		if err != nil {
			return nil, fmt.Errorf("%w: parcel id %q is not an integer", fulfillment.ErrMalformedResponse, w.ID.String())
		}
		parcel := fulfillment.RemoteParcel{
			ID:             parcelID,
			Status:         w.Status,
			TrackingNumber: w.TrackingNo,
		}

		if carrierID, err := w.CarrierID.Int64(); err == nil {
			name, err := c.CarrierName(ctx, carrierID)
			if err != nil {
				c.logger.Warn("carrier lookup failed",
					zap.Int64("carrier_id", carrierID),
					zap.Error(err))
				name = w.CarrierID.String()
			}
			parcel.Carrier = name
		}

		if w.CarrierService.String() != "" {
			name, err := c.CarrierServiceName(ctx, w.CarrierService.String())
			if err != nil {
				c.logger.Warn("carrier service lookup failed",
					zap.String("service_id", w.CarrierService.String()),
					zap.Error(err))
				name = w.CarrierService.String()
			}
			parcel.Service = name
		}

		parcels = append(parcels, parcel)
	}
	return parcels, nil
}

// CarrierName resolves a numeric carrier ID to its display label.
func (c *Client) CarrierName(ctx context.Context, carrierID int64) (string, error) {
	body, err := c.doRequest(ctx, "/carrier/"+strconv.FormatInt(carrierID, 10), nil)
	if err != nil {
		return "", err
	}

	var carrier wireCarrier
	if err := json.Unmarshal(body, &carrier); err != nil {
		return "", fmt.Errorf("%w: failed to parse carrier: %v", fulfillment.ErrMalformedResponse, err)
	}
	if carrier.Label == "" {
		return "", fmt.Errorf("%w: carrier %d has no label", fulfillment.ErrMalformedResponse, carrierID)
	}
	return carrier.Label, nil
}

// CarrierServiceName resolves a carrier service ID to its display label.
func (c *Client) CarrierServiceName(ctx context.Context, serviceID string) (string, error) {
	body, err := c.doRequest(ctx, "/carrierService/"+url.PathEscape(serviceID), nil)
	if err != nil {
		return "", err
	}

	var service wireCarrier
	if err := json.Unmarshal(body, &service); err != nil {
		return "", fmt.Errorf("%w: failed to parse carrier service: %v", fulfillment.ErrMalformedResponse, err)
	}
	if service.Label == "" {
		return "", fmt.Errorf("%w: carrier service %s has no label", fulfillment.ErrMalformedResponse, serviceID)
	}
	return service.Label, nil
}

// ---------------------------------------------------------------------------
// Internal Helpers
// ---------------------------------------------------------------------------

// doRequest performs a GET request against the WMS API and classifies
// failures into the fulfillment context's sentinel errors.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	reqURL := c.config.APIBaseURL() + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("wms: failed to create request: %w", err)
	}
	req.Header.Set(apiKeyHeader, c.config.APIKey)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("wms request",
		zap.String("url", reqURL),
		zap.String("api_key", c.config.MaskedAPIKey()))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fulfillment.ErrWarehouseUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("wms: failed to read response: %w", err)
	}

	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("%w: HTTP %d", fulfillment.ErrWarehouseUnreachable, resp.StatusCode)
	}

	// The warehouse attaches an errors array to failed requests with any
	// remaining status, including 200.
	var errBody errorBody
	if json.Unmarshal(body, &errBody) == nil && len(errBody.Errors) > 0 {
		if resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", fulfillment.ErrRemoteOrderNotFound, errBody.combinedMessage())
		}
		return nil, fmt.Errorf("%w: %s", fulfillment.ErrWarehouseRejected, errBody.combinedMessage())
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: HTTP 404", fulfillment.ErrRemoteOrderNotFound)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: HTTP %d", fulfillment.ErrWarehouseRejected, resp.StatusCode)
	}

	return body, nil
}

// toRemoteOrder converts a wire order to the domain value object.
func (c *Client) toRemoteOrder(w wireOrder) (fulfillment.RemoteOrder, error) {
	number, ok := parseWireOrderNumber(w.OrderNo)
	if !ok {
		return fulfillment.RemoteOrder{}, fmt.Errorf("%w: order number %q", fulfillment.ErrMalformedResponse, w.OrderNo.String())
	}

	items := make([]fulfillment.RemoteOrderItem, 0, len(w.LineItems))
	for _, li := range w.LineItems {
		items = append(items, fulfillment.RemoteOrderItem{SKU: li.SKU, Quantity: li.OrderedQty})
	}

	return fulfillment.RemoteOrder{
		Number: fulfillment.CanonicalOrderNumber(number),
		Status: w.Status,
		Items:  items,
	}, nil
}

// Ensure Client implements the WarehouseClient port
var _ fulfillment.WarehouseClient = (*Client)(nil)
