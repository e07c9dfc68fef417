package handler

import (
	"context"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	appfulfillment "github.com/erp/wms-connect/internal/application/fulfillment"
	"github.com/erp/wms-connect/internal/domain/fulfillment"
	"github.com/erp/wms-connect/internal/infrastructure/logger"
	"github.com/erp/wms-connect/internal/interfaces/http/dto"
	"github.com/erp/wms-connect/internal/interfaces/http/middleware"
)

// WMSOrderHandler handles the per-order warehouse tracking endpoints
type WMSOrderHandler struct {
	BaseHandler
	submission *appfulfillment.SubmissionService
	reconcile  *appfulfillment.ReconcileService
	catalog    fulfillment.Catalog
	wmsHost    string
	autoUpdate bool
	autoSubmit bool
}

// NewWMSOrderHandler creates a new WMSOrderHandler. wmsHost is the warehouse
// hostname used to build back-office deep links. autoUpdate controls whether
// warehouse-driven cache mutations are accepted; autoSubmit controls whether
// host status transitions may trigger a hand-off.
func NewWMSOrderHandler(
	submission *appfulfillment.SubmissionService,
	reconcile *appfulfillment.ReconcileService,
	catalog fulfillment.Catalog,
	wmsHost string,
	autoUpdate bool,
	autoSubmit bool,
) *WMSOrderHandler {
	return &WMSOrderHandler{
		submission: submission,
		reconcile:  reconcile,
		catalog:    catalog,
		wmsHost:    wmsHost,
		autoUpdate: autoUpdate,
		autoSubmit: autoSubmit,
	}
}

// RegisterRoutes registers the order tracking routes
func (h *WMSOrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.GET("/:order_id/wms", h.ListRemoteOrders)
		orders.POST("/:order_id/wms", h.AnnounceRemoteOrder)
		orders.PUT("/:order_id/wms/:number", h.RefreshRemoteOrders)
		orders.DELETE("/:order_id/wms/:number", h.UntrackRemoteOrder)
		orders.POST("/:order_id/submit", h.SubmitOrder)
		orders.POST("/:order_id/transitions", h.NotifyTransition)
	}
}

// parseOrderID reads the local order ID path parameter
func (h *WMSOrderHandler) parseOrderID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("order_id"), 10, 64)
	if err != nil || id <= 0 {
		h.BadRequest(c, "order_id must be a positive integer")
		return 0, false
	}
	return id, true
}

// guardAutoUpdate rejects cache mutations when warehouse-driven updates are
// disabled by configuration
func (h *WMSOrderHandler) guardAutoUpdate(c *gin.Context) bool {
	if !h.autoUpdate {
		h.ErrorWithCode(c, dto.ErrCodeAutoUpdateDisabled, "warehouse-driven order updates are disabled")
		return false
	}
	return true
}

// ListRemoteOrders returns the cached warehouse orders of a local order with
// formatted line items, deep links and parcel tracking URLs
func (h *WMSOrderHandler) ListRemoteOrders(c *gin.Context) {
	orderID, ok := h.parseOrderID(c)
	if !ok {
		return
	}

	remotes, err := h.reconcile.List(c.Request.Context(), orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	views := make([]dto.RemoteOrderResponse, 0, len(remotes))
	for _, remote := range remotes {
		views = append(views, h.toView(c.Request.Context(), remote))
	}
	h.Success(c, views)
}

// AnnounceRemoteOrder is the warehouse acceptance callback. It creates the
// cache entry from the announced state and marks the local order accepted.
func (h *WMSOrderHandler) AnnounceRemoteOrder(c *gin.Context) {
	orderID, ok := h.parseOrderID(c)
	if !ok {
		return
	}
	if !h.guardAutoUpdate(c) {
		return
	}

	var req dto.AnnounceRemoteOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			middleware.HandleValidationError(c, err)
			return
		}
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeInvalidJSON), dto.ErrCodeInvalidJSON, "request body is not valid JSON")
		return
	}

	items := make([]fulfillment.RemoteOrderItem, 0, len(req.LineItems))
	for _, item := range req.LineItems {
		items = append(items, fulfillment.RemoteOrderItem{
			SKU:      item.SKU,
			Quantity: item.OrderedQty,
		})
	}

	remote, err := h.reconcile.Register(c.Request.Context(), orderID, req.OrderNo, req.Status, items)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.applyCompletion(c, orderID)
	h.Created(c, h.toView(c.Request.Context(), remote))
}

// RefreshRemoteOrders re-fetches every tracked warehouse order of the local
// order and responds with the refreshed view of the addressed one
func (h *WMSOrderHandler) RefreshRemoteOrders(c *gin.Context) {
	orderID, ok := h.parseOrderID(c)
	if !ok {
		return
	}
	if !h.guardAutoUpdate(c) {
		return
	}

	remotes, _, err := h.reconcile.RefreshAll(c.Request.Context(), orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.applyCompletion(c, orderID)

	number := fulfillment.CanonicalOrderNumber(c.Param("number"))
	remote, found := fulfillment.FindOrder(remotes, number)
	if !found {
		h.HandleDomainError(c, fulfillment.ErrRemoteOrderNotFound)
		return
	}
	h.Success(c, h.toView(c.Request.Context(), remote))
}

// UntrackRemoteOrder removes one warehouse order from the cache
func (h *WMSOrderHandler) UntrackRemoteOrder(c *gin.Context) {
	orderID, ok := h.parseOrderID(c)
	if !ok {
		return
	}
	if !h.guardAutoUpdate(c) {
		return
	}

	if err := h.reconcile.Untrack(c.Request.Context(), orderID, c.Param("number")); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// SubmitOrder hands the local order off to the warehouse on demand
func (h *WMSOrderHandler) SubmitOrder(c *gin.Context) {
	orderID, ok := h.parseOrderID(c)
	if !ok {
		return
	}

	if err := h.submission.Submit(c.Request.Context(), orderID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, dto.SubmitOrderResponse{
		OrderID:   orderID,
		Status:    string(fulfillment.StatusSubmitted),
		Submitted: true,
	})
}

// NotifyTransition is the host-facing status change notification. When
// automatic submission is enabled it runs the readiness check and hands the
// order off on a qualifying transition. An order that is not ready, or that
// already entered the fulfillment lifecycle, reports submitted=false.
func (h *WMSOrderHandler) NotifyTransition(c *gin.Context) {
	orderID, ok := h.parseOrderID(c)
	if !ok {
		return
	}

	var req dto.OrderTransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeInvalidJSON), dto.ErrCodeInvalidJSON, "request body is not valid JSON")
		return
	}

	if !h.autoSubmit {
		h.Success(c, dto.OrderTransitionResponse{OrderID: orderID})
		return
	}

	submitted, err := h.submission.SubmitIfReady(c.Request.Context(), orderID, req.PreviousStatus)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, dto.OrderTransitionResponse{OrderID: orderID, Submitted: submitted})
}

// applyCompletion runs auto-completion after a cache mutation. A disabled
// toggle is not an error here.
func (h *WMSOrderHandler) applyCompletion(c *gin.Context, orderID int64) {
	if _, err := h.reconcile.ApplyCompletion(c.Request.Context(), orderID); err != nil &&
		!errors.Is(err, fulfillment.ErrAutoUpdateDisabled) {
		logger.GetGinLogger(c).Warn("auto-completion failed",
			zap.Int64("order_id", orderID),
			zap.Error(err),
		)
	}
}

// toView renders a cached warehouse order for API responses
func (h *WMSOrderHandler) toView(ctx context.Context, remote fulfillment.RemoteOrder) dto.RemoteOrderResponse {
	parcels := make([]dto.ParcelResponse, 0, len(remote.Parcels))
	for _, p := range remote.Parcels {
		parcels = append(parcels, dto.ParcelResponse{
			ID:             p.ID,
			Status:         p.Status,
			Carrier:        p.Carrier,
			Service:        p.Service,
			TrackingNumber: p.TrackingNumber,
			ParcelURL:      fulfillment.ParcelURL(h.wmsHost, p.ID),
			TrackingURL:    p.TrackingURL(),
		})
	}

	return dto.RemoteOrderResponse{
		Number:         remote.Number,
		Status:         remote.Status,
		Shipped:        remote.IsShipped(),
		ItemCount:      remote.ItemCount(),
		FormattedItems: remote.FormattedItems(ctx, h.catalog),
		OrderURL:       remote.OrderURL(h.wmsHost),
		Parcels:        parcels,
	}
}
