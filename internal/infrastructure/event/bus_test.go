package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/erp/wms-connect/internal/domain/fulfillment"
	"github.com/erp/wms-connect/internal/domain/shared"
)

type recordingHandler struct {
	mu     sync.Mutex
	types  []string
	events []shared.DomainEvent
	err    error
	panics bool
}

func (h *recordingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	if h.panics {
		panic("handler exploded")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	return h.err
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

func (h *recordingHandler) seen() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.events)
}

func TestInMemoryEventBus_PublishDeliversToSubscribedHandler(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{types: []string{fulfillment.EventOrderSubmitted}}
	bus.Subscribe(handler)

	err := bus.Publish(context.Background(), fulfillment.NewOrderSubmittedEvent(42))
	require.NoError(t, err)

	require.Equal(t, 1, handler.seen())
	assert.Equal(t, fulfillment.EventOrderSubmitted, handler.events[0].EventType())
	assert.Equal(t, "42", handler.events[0].AggregateID())
}

func TestInMemoryEventBus_IgnoresUnsubscribedTypes(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{types: []string{fulfillment.EventOrderSubmitted}}
	bus.Subscribe(handler)

	err := bus.Publish(context.Background(), fulfillment.NewBatchStartedEvent([]int64{1}))
	require.NoError(t, err)

	assert.Zero(t, handler.seen())
}

func TestInMemoryEventBus_WildcardHandlerReceivesAllEvents(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{}
	bus.Subscribe(handler)

	err := bus.Publish(context.Background(),
		fulfillment.NewOrderSubmittingEvent(1),
		fulfillment.NewBatchFinishedEvent(nil),
	)
	require.NoError(t, err)

	assert.Equal(t, 2, handler.seen())
}

func TestInMemoryEventBus_HandlerErrorDoesNotStopDelivery(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	failing := &recordingHandler{types: []string{fulfillment.EventOrderSubmitted}, err: errors.New("boom")}
	healthy := &recordingHandler{types: []string{fulfillment.EventOrderSubmitted}}
	bus.Subscribe(failing)
	bus.Subscribe(healthy)

	err := bus.Publish(context.Background(), fulfillment.NewOrderSubmittedEvent(7))
	require.NoError(t, err)

	assert.Equal(t, 1, healthy.seen())
}

func TestInMemoryEventBus_RecoversFromHandlerPanic(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	panicking := &recordingHandler{types: []string{fulfillment.EventOrderSubmitted}, panics: true}
	healthy := &recordingHandler{types: []string{fulfillment.EventOrderSubmitted}}
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	require.NotPanics(t, func() {
		_ = bus.Publish(context.Background(), fulfillment.NewOrderSubmittedEvent(7))
	})
	assert.Equal(t, 1, healthy.seen())
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{types: []string{fulfillment.EventOrderSubmitted}}
	bus.Subscribe(handler)
	bus.Unsubscribe(handler)

	err := bus.Publish(context.Background(), fulfillment.NewOrderSubmittedEvent(7))
	require.NoError(t, err)

	assert.Zero(t, handler.seen())
}

func TestHandlerRegistry_RemovesEmptyTypeBuckets(t *testing.T) {
	registry := NewHandlerRegistry()
	handler := &recordingHandler{}
	registry.Register(handler, fulfillment.EventOrderSubmitted)
	registry.Unregister(handler)

	assert.Empty(t, registry.GetHandlers(fulfillment.EventOrderSubmitted))
}

func TestActivityLogHandler_CoversAllFulfillmentEvents(t *testing.T) {
	handler := NewActivityLogHandler(zap.NewNop())

	assert.ElementsMatch(t, []string{
		fulfillment.EventOrderSubmitting,
		fulfillment.EventOrderSubmitted,
		fulfillment.EventOrderSubmitFailed,
		fulfillment.EventBatchStarted,
		fulfillment.EventBatchFinished,
	}, handler.EventTypes())

	err := handler.Handle(context.Background(), fulfillment.NewOrderSubmittedEvent(9))
	assert.NoError(t, err)
}
