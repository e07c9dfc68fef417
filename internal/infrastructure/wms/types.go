package wms

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Wire types
// ---------------------------------------------------------------------------

// errorBody is the error envelope the warehouse attaches to failed requests.
// It can appear with any HTTP status.
type errorBody struct {
	Errors []string `json:"errors"`
}

// combinedMessage joins the individual error messages into one sentence
// chain for note and log output.
func (b errorBody) combinedMessage() string {
	return strings.Join(b.Errors, ". ")
}

// wireOrder is a warehouse order as returned by /order endpoints. Order
// numbers travel as JSON numbers with three fractional digits.
type wireOrder struct {
	OrderNo         json.Number    `json:"orderNo"`
	Status          string         `json:"status"`
	CustomerOrderNo json.Number    `json:"customerOrderNo"`
	LineItems       []wireLineItem `json:"lineItems"`
}

// wireLineItem is one line of a warehouse order.
type wireLineItem struct {
	SKU        string `json:"sku"`
	OrderedQty int    `json:"orderedQty"`
}

// wireParcel is a parcel shipment as returned by /parcelShipment/search.
type wireParcel struct {
	ID             json.Number `json:"id"`
	Status         string      `json:"status"`
	CarrierID      json.Number `json:"carrier"`
	CarrierService json.Number `json:"carrierService"`
	TrackingNo     string      `json:"trackingNo"`
}

// wireCarrier is the payload of /carrier/{id} and /carrierService/{id}.
type wireCarrier struct {
	Label string `json:"label"`
}

// parseWireOrderNumber converts a wire order number to its canonical string
// form. Whole numbers come back integral; fractional numbers keep three
// decimal places before canonicalization, so 12345.5 becomes "12345.500".
func parseWireOrderNumber(n json.Number) (string, bool) {
	s := strings.TrimSpace(n.String())
	if s == "" {
		return "", false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return "", false
	}
	if d.IsInteger() {
		return d.String(), true
	}
	return d.StringFixed(3), true
}
