package fulfillment

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/erp/wms-connect/internal/domain/fulfillment"
)

// noteAllShipped is written when auto-completion fires.
const noteAllShipped = "All remote orders have shipped."

// ReconcileService maintains the per-order remote-order cache: registering
// warehouse orders, re-fetching their state and parcels, and applying
// auto-completion. All mutations of one local order's cache are serialized
// through a per-order lock.
type ReconcileService struct {
	orders fulfillment.OrderGateway
	store  fulfillment.RemoteOrderStore
	wms    fulfillment.WarehouseClient
	logger *zap.Logger

	locks sync.Map // orderID -> *sync.Mutex
}

// NewReconcileService creates a new ReconcileService.
func NewReconcileService(
	orders fulfillment.OrderGateway,
	store fulfillment.RemoteOrderStore,
	wms fulfillment.WarehouseClient,
	logger *zap.Logger,
) *ReconcileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReconcileService{
		orders: orders,
		store:  store,
		wms:    wms,
		logger: logger,
	}
}

// lockOrder serializes cache mutations per local order.
func (s *ReconcileService) lockOrder(orderID int64) func() {
	mu, _ := s.locks.LoadOrStore(orderID, &sync.Mutex{})
	m := mu.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}

// ---------------------------------------------------------------------------
// Read Operations
// ---------------------------------------------------------------------------

// List returns the cached remote orders for a local order, ascending by
// order number.
func (s *ReconcileService) List(ctx context.Context, orderID int64) ([]fulfillment.RemoteOrder, error) {
	if _, err := s.orders.GetOrder(ctx, orderID); err != nil {
		return nil, err
	}
	return s.store.Load(ctx, orderID)
}

// ---------------------------------------------------------------------------
// Cache Mutations
// ---------------------------------------------------------------------------

// Track registers a warehouse order against a local order by number,
// fetching its current state from the warehouse. The local order must have
// been submitted; tracking the first remote order moves it to accepted.
// Registering a number that is already tracked fails with
// ErrRemoteOrderExists.
func (s *ReconcileService) Track(ctx context.Context, orderID int64, number string) (fulfillment.RemoteOrder, error) {
	unlock := s.lockOrder(orderID)
	defer unlock()

	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return fulfillment.RemoteOrder{}, err
	}
	if !order.Fulfillment.IsSet() {
		return fulfillment.RemoteOrder{}, fmt.Errorf("%w: order %d", fulfillment.ErrNotSubmitted, orderID)
	}

	number = fulfillment.CanonicalOrderNumber(number)
	remote, err := s.wms.GetOrder(ctx, number)
	if err != nil {
		return fulfillment.RemoteOrder{}, err
	}
	return s.addRemote(ctx, orderID, remote)
}

// Register registers a warehouse order the warehouse announced itself, via
// the acceptance callback. The announced state is trusted; only parcels are
// fetched. Guards match Track.
func (s *ReconcileService) Register(ctx context.Context, orderID int64, number, status string, items []fulfillment.RemoteOrderItem) (fulfillment.RemoteOrder, error) {
	unlock := s.lockOrder(orderID)
	defer unlock()

	remote, err := fulfillment.NewRemoteOrder(number, status, items)
	if err != nil {
		return fulfillment.RemoteOrder{}, err
	}
	return s.addRemote(ctx, orderID, remote)
}

func (s *ReconcileService) addRemote(ctx context.Context, orderID int64, remote fulfillment.RemoteOrder) (fulfillment.RemoteOrder, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return fulfillment.RemoteOrder{}, err
	}
	if !order.Fulfillment.IsSet() {
		return fulfillment.RemoteOrder{}, fmt.Errorf("%w: order %d", fulfillment.ErrNotSubmitted, orderID)
	}

	cached, err := s.store.Load(ctx, orderID)
	if err != nil {
		return fulfillment.RemoteOrder{}, err
	}
	if _, exists := fulfillment.FindOrder(cached, remote.Number); exists {
		return fulfillment.RemoteOrder{}, fmt.Errorf("%w: %s", fulfillment.ErrRemoteOrderExists, remote.Number)
	}

	remote = s.refreshParcels(ctx, remote, nil)

	if err := s.store.Save(ctx, orderID, append(cached, remote)); err != nil {
		return fulfillment.RemoteOrder{}, err
	}

	if order.Fulfillment == fulfillment.StatusSubmitted {
		if err := s.orders.SetFulfillmentStatus(ctx, orderID, fulfillment.StatusAccepted); err != nil {
			return fulfillment.RemoteOrder{}, err
		}
	}

	s.logger.Info("remote order tracked",
		zap.Int64("order_id", orderID),
		zap.String("order_number", remote.Number))
	return remote, nil
}

// Refresh re-fetches one tracked remote order. Refreshing a number that is
// not tracked fails with ErrRemoteOrderNotFound.
func (s *ReconcileService) Refresh(ctx context.Context, orderID int64, number string) (fulfillment.RemoteOrder, error) {
	unlock := s.lockOrder(orderID)
	defer unlock()

	number = fulfillment.CanonicalOrderNumber(number)
	cached, err := s.store.Load(ctx, orderID)
	if err != nil {
		return fulfillment.RemoteOrder{}, err
	}
	previous, exists := fulfillment.FindOrder(cached, number)
	if !exists {
		return fulfillment.RemoteOrder{}, fmt.Errorf("%w: %s", fulfillment.ErrRemoteOrderNotFound, number)
	}

	remote, err := s.wms.GetOrder(ctx, number)
	if err != nil {
		return fulfillment.RemoteOrder{}, err
	}
	remote = s.refreshParcels(ctx, remote, previous.Parcels)

	replaced := make([]fulfillment.RemoteOrder, 0, len(cached))
	for _, o := range cached {
		if o.Number == number {
			replaced = append(replaced, remote)
		} else {
			replaced = append(replaced, o)
		}
	}
	if err := s.store.Save(ctx, orderID, replaced); err != nil {
		return fulfillment.RemoteOrder{}, err
	}
	return remote, nil
}

// Untrack removes one remote order from the cache. Removing a number that is
// not tracked fails with ErrRemoteOrderNotFound.
func (s *ReconcileService) Untrack(ctx context.Context, orderID int64, number string) error {
	unlock := s.lockOrder(orderID)
	defer unlock()

	number = fulfillment.CanonicalOrderNumber(number)
	cached, err := s.store.Load(ctx, orderID)
	if err != nil {
		return err
	}
	if _, exists := fulfillment.FindOrder(cached, number); !exists {
		return fmt.Errorf("%w: %s", fulfillment.ErrRemoteOrderNotFound, number)
	}

	remaining := make([]fulfillment.RemoteOrder, 0, len(cached)-1)
	for _, o := range cached {
		if o.Number != number {
			remaining = append(remaining, o)
		}
	}
	return s.store.Save(ctx, orderID, remaining)
}

// RefreshAll replaces the whole cached set with the warehouse's current view
// of the local order. The replace is intentional: remote orders that vanished
// from the warehouse vanish from the cache. Returns the new set and whether
// the serialized cache changed.
func (s *ReconcileService) RefreshAll(ctx context.Context, orderID int64) ([]fulfillment.RemoteOrder, bool, error) {
	unlock := s.lockOrder(orderID)
	defer unlock()
	return s.refreshAllLocked(ctx, orderID)
}

func (s *ReconcileService) refreshAllLocked(ctx context.Context, orderID int64) ([]fulfillment.RemoteOrder, bool, error) {
	cached, err := s.store.Load(ctx, orderID)
	if err != nil {
		return nil, false, err
	}
	before, err := fulfillment.EncodeOrderSet(cached)
	if err != nil {
		return nil, false, err
	}

	remotes, err := s.wms.SearchOrdersByReference(ctx, orderID)
	if err != nil {
		return nil, false, err
	}
	for i, remote := range remotes {
		var previous []fulfillment.RemoteParcel
		if prev, ok := fulfillment.FindOrder(cached, remote.Number); ok {
			previous = prev.Parcels
		}
		remotes[i] = s.refreshParcels(ctx, remote, previous)
	}

	after, err := fulfillment.EncodeOrderSet(remotes)
	if err != nil {
		return nil, false, err
	}
	changed := !bytes.Equal(before, after)
	if changed {
		if err := s.store.Save(ctx, orderID, remotes); err != nil {
			return nil, false, err
		}
	}
	return remotes, changed, nil
}

// refreshParcels attaches the order's current parcel shipments. A failed
// parcel fetch keeps the previously cached parcels so transient warehouse
// trouble never erases tracking information.
func (s *ReconcileService) refreshParcels(ctx context.Context, order fulfillment.RemoteOrder, previous []fulfillment.RemoteParcel) fulfillment.RemoteOrder {
	parcels, err := s.wms.GetParcels(ctx, order.Number)
	if err != nil {
		s.logger.Warn("parcel refresh failed, keeping cached parcels",
			zap.String("order_number", order.Number),
			zap.Error(err))
		order.Parcels = previous
		return order
	}
	order.Parcels = parcels
	return order
}

// ---------------------------------------------------------------------------
// Auto-Completion
// ---------------------------------------------------------------------------

// ApplyCompletion completes the local order when every tracked remote order
// has shipped. Orders with automatic updates switched off are left alone.
// Returns whether the order was completed.
func (s *ReconcileService) ApplyCompletion(ctx context.Context, orderID int64) (bool, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return false, err
	}
	if !order.AutoComplete {
		return false, fulfillment.ErrAutoUpdateDisabled
	}
	if order.Status == "completed" {
		return false, nil
	}

	cached, err := s.store.Load(ctx, orderID)
	if err != nil {
		return false, err
	}
	if !fulfillment.AllShipped(cached) {
		return false, nil
	}

	if err := s.orders.Complete(ctx, orderID, noteAllShipped); err != nil {
		return false, err
	}
	s.logger.Info("order auto-completed", zap.Int64("order_id", orderID))
	return true, nil
}
