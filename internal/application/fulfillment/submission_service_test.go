package fulfillment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erp/wms-connect/internal/domain/fulfillment"
)

func readyOrder() fulfillment.LocalOrder {
	return fulfillment.LocalOrder{
		ID:     42,
		Status: "processing",
		Paid:   true,
		Items: []fulfillment.LocalOrderItem{
			{SKU: "A-1", Name: "Blue Widget", Quantity: 2, Fulfillable: true},
			{SKU: "", Name: "Gift Card", Quantity: 1, Fulfillable: true},
		},
	}
}

func TestSubmissionServiceSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("successful hand-off", func(t *testing.T) {
		gateway := newFakeGateway(readyOrder())
		dispatcher := &fakeDispatcher{}
		bus := &captureBus{}
		svc := NewSubmissionService(gateway, dispatcher, nil, bus, nil)

		require.NoError(t, svc.Submit(ctx, 42))

		require.Len(t, dispatcher.payloads, 1)
		payload := dispatcher.payloads[0]
		assert.Equal(t, int64(42), payload.OrderID)
		require.Len(t, payload.Items, 1)
		assert.Equal(t, "A-1", payload.Items[0].SKU)
		assert.Equal(t, 2, payload.ItemCount)

		order, err := gateway.GetOrder(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, fulfillment.StatusSubmitted, order.Fulfillment)
		assert.Contains(t, gateway.orderNotes(42), "Order submitted to warehouse.")
		assert.Equal(t, []string{
			fulfillment.EventOrderSubmitting,
			fulfillment.EventOrderSubmitted,
		}, bus.eventTypes())
	})

	t.Run("failed hand-off leaves status unset", func(t *testing.T) {
		gateway := newFakeGateway(readyOrder())
		dispatcher := &fakeDispatcher{err: fulfillment.ErrSubmissionFailed}
		bus := &captureBus{}
		svc := NewSubmissionService(gateway, dispatcher, nil, bus, nil)

		err := svc.Submit(ctx, 42)
		assert.ErrorIs(t, err, fulfillment.ErrSubmissionFailed)

		order, getErr := gateway.GetOrder(ctx, 42)
		require.NoError(t, getErr)
		assert.Equal(t, fulfillment.StatusNone, order.Fulfillment)

		notes := gateway.orderNotes(42)
		require.Len(t, notes, 1)
		assert.Contains(t, notes[0], "Order submit failed.")
		assert.Equal(t, []string{
			fulfillment.EventOrderSubmitting,
			fulfillment.EventOrderSubmitFailed,
		}, bus.eventTypes())
	})

	t.Run("second submission rejected", func(t *testing.T) {
		order := readyOrder()
		order.Fulfillment = fulfillment.StatusSubmitted
		gateway := newFakeGateway(order)
		dispatcher := &fakeDispatcher{}
		svc := NewSubmissionService(gateway, dispatcher, nil, nil, nil)

		err := svc.Submit(ctx, 42)
		assert.ErrorIs(t, err, fulfillment.ErrAlreadySubmitted)
		assert.Empty(t, dispatcher.payloads)
	})

	t.Run("unknown order", func(t *testing.T) {
		svc := NewSubmissionService(newFakeGateway(), &fakeDispatcher{}, nil, nil, nil)
		err := svc.Submit(ctx, 999)
		assert.ErrorIs(t, err, fulfillment.ErrOrderNotFound)
	})
}

func TestSubmissionServiceSubmitIfReady(t *testing.T) {
	ctx := context.Background()

	t.Run("not ready is a quiet no-op", func(t *testing.T) {
		order := readyOrder()
		order.Status = "pending"
		order.Paid = false
		gateway := newFakeGateway(order)
		dispatcher := &fakeDispatcher{}
		svc := NewSubmissionService(gateway, dispatcher, nil, nil, nil)

		submitted, err := svc.SubmitIfReady(ctx, 42, "")
		require.NoError(t, err)
		assert.False(t, submitted)
		assert.Empty(t, dispatcher.payloads)
	})

	t.Run("ready order submits", func(t *testing.T) {
		gateway := newFakeGateway(readyOrder())
		dispatcher := &fakeDispatcher{}
		svc := NewSubmissionService(gateway, dispatcher, nil, nil, nil)

		submitted, err := svc.SubmitIfReady(ctx, 42, "")
		require.NoError(t, err)
		assert.True(t, submitted)
		assert.Len(t, dispatcher.payloads, 1)
	})

	t.Run("transition gate applies", func(t *testing.T) {
		gateway := newFakeGateway(readyOrder())
		dispatcher := &fakeDispatcher{}
		svc := NewSubmissionService(gateway, dispatcher, nil, nil, nil)

		submitted, err := svc.SubmitIfReady(ctx, 42, "pending")
		require.NoError(t, err)
		assert.False(t, submitted)

		submitted, err = svc.SubmitIfReady(ctx, 42, "on-hold")
		require.NoError(t, err)
		assert.True(t, submitted)
	})
}
