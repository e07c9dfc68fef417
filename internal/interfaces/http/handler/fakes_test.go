package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	appfulfillment "github.com/erp/wms-connect/internal/application/fulfillment"
	"github.com/erp/wms-connect/internal/domain/fulfillment"
	"github.com/erp/wms-connect/internal/infrastructure/cache"
	"github.com/erp/wms-connect/internal/interfaces/http/middleware"
	"github.com/erp/wms-connect/internal/interfaces/http/router"
)

const testWMSHost = "demo.example.com"

// fakeGateway is an in-memory OrderGateway
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

func (g *fakeGateway) fulfillmentStatus(orderID int64) fulfillment.FulfillmentStatus {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.orders[orderID].Fulfillment
}

// fakeStore is an in-memory RemoteOrderStore
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

// fakeWMS is an in-memory WarehouseClient
type fakeWMS struct {
	mu      sync.Mutex
	orders  map[string]fulfillment.RemoteOrder
	byRef   map[int64][]string
	parcels map[string][]fulfillment.RemoteParcel
	pingErr error
}

func newFakeWMS() *fakeWMS {
	return &fakeWMS{
		orders:  make(map[string]fulfillment.RemoteOrder),
		byRef:   make(map[int64][]string),
		parcels: make(map[string][]fulfillment.RemoteParcel),
	}
}

func (w *fakeWMS) Ping(_ context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
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
	return append([]fulfillment.RemoteParcel(nil), w.parcels[number]...), nil
}

func (w *fakeWMS) CarrierName(_ context.Context, _ int64) (string, error) {
	return "UPS", nil
}

func (w *fakeWMS) CarrierServiceName(_ context.Context, _ string) (string, error) {
	return "UPS Ground", nil
}

// fakeDispatcher records dispatched payloads
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

// stubCatalog resolves a fixed set of product names
type stubCatalog struct {
	names map[string]string
}

func (c stubCatalog) ProductName(_ context.Context, sku string) (string, error) {
	if name, ok := c.names[sku]; ok {
		return name, nil
	}
	return "", fmt.Errorf("unknown sku %q", sku)
}

// testEnv bundles the fakes and the fully wired HTTP engine
type testEnv struct {
	gateway    *fakeGateway
	store      *fakeStore
	wms        *fakeWMS
	dispatcher *fakeDispatcher
	engine     *gin.Engine
}

type envOption func(*envConfig)

type envConfig struct {
	autoUpdate bool
	autoSubmit bool
}

func withAutoUpdateDisabled() envOption {
	return func(c *envConfig) {
		c.autoUpdate = false
	}
}

func withAutoSubmitDisabled() envOption {
	return func(c *envConfig) {
		c.autoSubmit = false
	}
}

func newTestEnv(orders []fulfillment.LocalOrder, opts ...envOption) *testEnv {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()

	cfg := envConfig{autoUpdate: true, autoSubmit: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	env := &testEnv{
		gateway:    newFakeGateway(orders...),
		store:      newFakeStore(),
		wms:        newFakeWMS(),
		dispatcher: &fakeDispatcher{},
	}

	submission := appfulfillment.NewSubmissionService(env.gateway, env.dispatcher, nil, nil, nil)
	reconcile := appfulfillment.NewReconcileService(env.gateway, env.store, env.wms, nil)
	syncSvc := appfulfillment.NewSyncService(env.gateway, reconcile, nil, nil)
	status := appfulfillment.NewStatusService(env.wms, cache.NewInMemoryProbeCache(time.Minute), nil)
	catalog := stubCatalog{names: map[string]string{"A-1": "Blue Widget"}}

	engine := gin.New()
	engine.Use(middleware.RequestID())

	r := router.NewRouter(engine)
	r.Register(NewWMSOrderHandler(submission, reconcile, catalog, testWMSHost, cfg.autoUpdate, cfg.autoSubmit))
	r.Register(NewSyncHandler(syncSvc))
	r.Register(NewSystemHandler(status, "wms-connect"))
	r.Setup()

	env.engine = engine
	return env
}

func (e *testEnv) request(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}
