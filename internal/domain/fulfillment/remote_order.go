package fulfillment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Remote order value objects
// ---------------------------------------------------------------------------

// ShippedStatus is the warehouse status that marks a remote order as fully
// shipped. The comparison is exact; the warehouse reports it capitalized.
const ShippedStatus = "Shipped"

// RemoteOrder is the locally cached view of one warehouse order. A single
// local order may fan out to several remote orders (split shipments), each
// identified by its warehouse order number.
type RemoteOrder struct {
	Number  string            `json:"number"`
	Status  string            `json:"status"`
	Items   []RemoteOrderItem `json:"items"`
	Parcels []RemoteParcel    `json:"parcels"`
}

// RemoteOrderItem is one line of a remote order.
type RemoteOrderItem struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

// RemoteParcel is one parcel shipment attached to a remote order.
type RemoteParcel struct {
	ID             int64  `json:"id"`
	Status         string `json:"status"`
	Carrier        string `json:"carrier"`
	Service        string `json:"service,omitempty"`
	TrackingNumber string `json:"tracking_number,omitempty"`
}

// NewRemoteOrder builds a remote order with a canonicalized order number.
func NewRemoteOrder(number, status string, items []RemoteOrderItem) (RemoteOrder, error) {
	number = CanonicalOrderNumber(number)
	if number == "" {
		return RemoteOrder{}, fmt.Errorf("%w: empty order number", ErrInvalidOrderNumber)
	}
	return RemoteOrder{Number: number, Status: status, Items: items}, nil
}

// IsShipped reports whether the warehouse considers this order fully shipped.
func (o RemoteOrder) IsShipped() bool {
	return o.Status == ShippedStatus
}

// ItemCount returns the total ordered quantity across all lines.
func (o RemoteOrder) ItemCount() int {
	total := 0
	for _, it := range o.Items {
		total += it.Quantity
	}
	return total
}

// FormattedItems renders the order lines as a human-readable summary, one
// "Name × qty" fragment per line, resolving display names through the
// catalog. Lines whose SKU the catalog cannot resolve fall back to the SKU.
func (o RemoteOrder) FormattedItems(ctx context.Context, catalog Catalog) string {
	parts := make([]string, 0, len(o.Items))
	for _, it := range o.Items {
		name := it.SKU
		if catalog != nil {
			if n, err := catalog.ProductName(ctx, it.SKU); err == nil && n != "" {
				name = n
			}
		}
		parts = append(parts, fmt.Sprintf("%s × %d", name, it.Quantity))
	}
	return strings.Join(parts, ", ")
}

// OrderURL returns the warehouse back-office URL for this order.
func (o RemoteOrder) OrderURL(host string) string {
	return fmt.Sprintf("https://%s/infoplus-wms/order/req/%s", host, url.PathEscape(o.Number))
}

// ParcelURL returns the warehouse back-office URL for a parcel shipment.
func ParcelURL(host string, parcelID int64) string {
	return fmt.Sprintf("https://%s/infoplus-wms/fulfillment/parcel-shipment/%d", host, parcelID)
}

// TrackingURL returns the public carrier tracking page for the parcel, or
// the empty string when the carrier is not recognized.
func (p RemoteParcel) TrackingURL() string {
	if p.TrackingNumber == "" {
		return ""
	}
	carrier := strings.ToLower(p.Carrier)
	switch {
	case strings.HasPrefix(carrier, "ups"):
		return "https://wwwapps.ups.com/WebTracking/track?trackNums=" + url.QueryEscape(p.TrackingNumber)
	case strings.HasPrefix(carrier, "fed"):
		return "https://www.fedex.com/apps/fedextrack/?tracknumbers=" + url.QueryEscape(p.TrackingNumber)
	case strings.HasPrefix(carrier, "mail"), strings.HasPrefix(carrier, "usps"):
		return "https://tools.usps.com/go/TrackConfirmAction?tLabels=" + url.QueryEscape(p.TrackingNumber)
	default:
		return ""
	}
}

// ---------------------------------------------------------------------------
// Order number canonicalization
// ---------------------------------------------------------------------------

// CanonicalOrderNumber normalizes a warehouse order number. The warehouse
// wire format renders numbers as decimals with three fractional digits, so a
// whole number arrives as "12345.000". A single trailing ".000" is stripped;
// genuine fractional numbers such as "12345.500" (split shipments) are kept
// as-is.
func CanonicalOrderNumber(number string) string {
	number = strings.TrimSpace(number)
	return strings.TrimSuffix(number, ".000")
}

// CompareOrderNumbers orders two canonical order numbers numerically when
// both parse as decimals, falling back to a lexicographic comparison.
func CompareOrderNumbers(a, b string) int {
	da, errA := decimal.NewFromString(a)
	db, errB := decimal.NewFromString(b)
	if errA == nil && errB == nil {
		if c := da.Cmp(db); c != 0 {
			return c
		}
	}
	return strings.Compare(a, b)
}

// SortOrders returns a copy of orders sorted ascending by order number.
func SortOrders(orders []RemoteOrder) []RemoteOrder {
	sorted := make([]RemoteOrder, len(orders))
	copy(sorted, orders)
	sort.SliceStable(sorted, func(i, j int) bool {
		return CompareOrderNumbers(sorted[i].Number, sorted[j].Number) < 0
	})
	return sorted
}

// ---------------------------------------------------------------------------
// Order set serialization
// ---------------------------------------------------------------------------

// remoteOrderDoc is the persisted shape of one remote order. The order
// number lives in the surrounding object key, not in the document.
type remoteOrderDoc struct {
	Status  string            `json:"status"`
	Items   []RemoteOrderItem `json:"items"`
	Parcels []RemoteParcel    `json:"parcels"`
}

// EncodeOrderSet serializes a set of remote orders as a JSON object keyed by
// order number, keys in ascending numeric order. The output is deterministic:
// encoding the same logical set always yields identical bytes, which lets
// callers skip writes when nothing changed.
func EncodeOrderSet(orders []RemoteOrder) ([]byte, error) {
	sorted := SortOrders(orders)
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, o := range sorted {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(o.Number)
		if err != nil {
			return nil, fmt.Errorf("encode order number %q: %w", o.Number, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		doc, err := json.Marshal(remoteOrderDoc{Status: o.Status, Items: o.Items, Parcels: o.Parcels})
		if err != nil {
			return nil, fmt.Errorf("encode order %q: %w", o.Number, err)
		}
		buf.Write(doc)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// DecodeOrderSet parses bytes produced by EncodeOrderSet back into a sorted
// slice of remote orders. Empty input decodes to an empty set.
func DecodeOrderSet(data []byte) ([]RemoteOrder, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var docs map[string]remoteOrderDoc
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("decode order set: %w", err)
	}
	orders := make([]RemoteOrder, 0, len(docs))
	for number, doc := range docs {
		orders = append(orders, RemoteOrder{
			Number:  number,
			Status:  doc.Status,
			Items:   doc.Items,
			Parcels: doc.Parcels,
		})
	}
	return SortOrders(orders), nil
}

// FindOrder returns the remote order with the given canonical number.
func FindOrder(orders []RemoteOrder, number string) (RemoteOrder, bool) {
	for _, o := range orders {
		if o.Number == number {
			return o, true
		}
	}
	return RemoteOrder{}, false
}

// AllShipped reports whether the set is non-empty and every order in it is
// shipped. An empty set is never considered shipped.
func AllShipped(orders []RemoteOrder) bool {
	if len(orders) == 0 {
		return false
	}
	for _, o := range orders {
		if !o.IsShipped() {
			return false
		}
	}
	return true
}
