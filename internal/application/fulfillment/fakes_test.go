package fulfillment

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/erp/wms-connect/internal/domain/fulfillment"
	"github.com/erp/wms-connect/internal/domain/shared"
)

// fakeGateway is an in-memory OrderGateway.
type fakeGateway struct {
	mu     sync.Mutex
	orders map[int64]*fulfillment.LocalOrder
	notes  map[int64][]string
}

func newFakeGateway(orders ...fulfillment.LocalOrder) *fakeGateway {
	g := &fakeGateway{
		orders: make(map[int64]*fulfillment.LocalOrder),
		notes:  make(map[int64][]string),
	}
	for _, o := range orders {
		order := o
		g.orders[o.ID] = &order
	}
	return g
}

func (g *fakeGateway) GetOrder(_ context.Context, orderID int64) (fulfillment.LocalOrder, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	order, ok := g.orders[orderID]
	if !ok {
		return fulfillment.LocalOrder{}, fmt.Errorf("%w: %d", fulfillment.ErrOrderNotFound, orderID)
	}
	return *order, nil
}

func (g *fakeGateway) SetFulfillmentStatus(_ context.Context, orderID int64, status fulfillment.FulfillmentStatus) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	order, ok := g.orders[orderID]
	if !ok {
		return fulfillment.ErrOrderNotFound
	}
	order.Fulfillment = status
	return nil
}

func (g *fakeGateway) AddNote(_ context.Context, orderID int64, note string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.notes[orderID] = append(g.notes[orderID], note)
	return nil
}

func (g *fakeGateway) Complete(ctx context.Context, orderID int64, note string) error {
	g.mu.Lock()
	order, ok := g.orders[orderID]
	if !ok {
		g.mu.Unlock()
		return fulfillment.ErrOrderNotFound
	}
	order.Status = "completed"
	g.mu.Unlock()
	return g.AddNote(ctx, orderID, note)
}

func (g *fakeGateway) ListByFulfillmentStatus(_ context.Context, status fulfillment.FulfillmentStatus) ([]int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	ids := make([]int64, 0)
	for id, order := range g.orders {
		if order.Fulfillment == status {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (g *fakeGateway) orderNotes(orderID int64) []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.notes[orderID]...)
}

// fakeStore is an in-memory RemoteOrderStore.
type fakeStore struct {
	mu   sync.Mutex
	sets map[int64][]fulfillment.RemoteOrder
}

func newFakeStore() *fakeStore {
	return &fakeStore{sets: make(map[int64][]fulfillment.RemoteOrder)}
}

func (s *fakeStore) Load(_ context.Context, orderID int64) ([]fulfillment.RemoteOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]fulfillment.RemoteOrder(nil), s.sets[orderID]...), nil
}

func (s *fakeStore) Save(_ context.Context, orderID int64, orders []fulfillment.RemoteOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets[orderID] = fulfillment.SortOrders(orders)
	return nil
}

func (s *fakeStore) Delete(_ context.Context, orderID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sets, orderID)
	return nil
}

// fakeWMS is an in-memory WarehouseClient.
type fakeWMS struct {
	mu         sync.Mutex
	orders     map[string]fulfillment.RemoteOrder
	byRef      map[int64][]string
	parcels    map[string][]fulfillment.RemoteParcel
	parcelsErr error
	searchErr  error
	searchErrs map[int64]error
	pingErr    error
	pingCalls  int
}

func newFakeWMS() *fakeWMS {
	return &fakeWMS{
		orders:     make(map[string]fulfillment.RemoteOrder),
		byRef:      make(map[int64][]string),
		parcels:    make(map[string][]fulfillment.RemoteParcel),
		searchErrs: make(map[int64]error),
	}
}

func (w *fakeWMS) Ping(_ context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pingCalls++
	return w.pingErr
}

func (w *fakeWMS) GetOrder(_ context.Context, number string) (fulfillment.RemoteOrder, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	order, ok := w.orders[number]
	if !ok {
		return fulfillment.RemoteOrder{}, fmt.Errorf("%w: %s", fulfillment.ErrRemoteOrderNotFound, number)
	}
	return order, nil
}

func (w *fakeWMS) SearchOrdersByReference(_ context.Context, localOrderID int64) ([]fulfillment.RemoteOrder, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.searchErr != nil {
		return nil, w.searchErr
	}
	if err := w.searchErrs[localOrderID]; err != nil {
		return nil, err
	}
	orders := make([]fulfillment.RemoteOrder, 0)
	for _, number := range w.byRef[localOrderID] {
		if order, ok := w.orders[number]; ok {
			orders = append(orders, order)
		}
	}
	return orders, nil
}

func (w *fakeWMS) GetParcels(_ context.Context, number string) ([]fulfillment.RemoteParcel, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.parcelsErr != nil {
		return nil, w.parcelsErr
	}
	return append([]fulfillment.RemoteParcel(nil), w.parcels[number]...), nil
}

func (w *fakeWMS) CarrierName(_ context.Context, _ int64) (string, error) {
	return "UPS", nil
}

func (w *fakeWMS) CarrierServiceName(_ context.Context, _ string) (string, error) {
	return "UPS Ground", nil
}

// fakeDispatcher records dispatched payloads.
type fakeDispatcher struct {
	mu       sync.Mutex
	payloads []fulfillment.SubmissionPayload
	err      error
}

func (d *fakeDispatcher) Dispatch(_ context.Context, payload fulfillment.SubmissionPayload) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.payloads = append(d.payloads, payload)
	return nil
}

// captureBus records published events.
type captureBus struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (b *captureBus) Publish(_ context.Context, events ...shared.DomainEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, events...)
	return nil
}

func (b *captureBus) eventTypes() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	types := make([]string, 0, len(b.events))
	for _, e := range b.events {
		types = append(types, e.EventType())
	}
	return types
}
