package fulfillment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erp/wms-connect/internal/domain/fulfillment"
)

func TestSyncServiceRunBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("collects changed orders and applies completion", func(t *testing.T) {
		changed := acceptedOrder(1)
		unchanged := acceptedOrder(2)
		notAccepted := fulfillment.LocalOrder{ID: 3, Status: "processing", Fulfillment: fulfillment.StatusSubmitted}
		gateway := newFakeGateway(changed, unchanged, notAccepted)

		store := newFakeStore()
		require.NoError(t, store.Save(ctx, 1, []fulfillment.RemoteOrder{{Number: "100", Status: "Processed"}}))
		require.NoError(t, store.Save(ctx, 2, []fulfillment.RemoteOrder{{Number: "200", Status: "Processed"}}))

		wms := newFakeWMS()
		wms.orders["100"] = fulfillment.RemoteOrder{Number: "100", Status: "Shipped"}
		wms.orders["200"] = fulfillment.RemoteOrder{Number: "200", Status: "Processed"}
		wms.byRef[1] = []string{"100"}
		wms.byRef[2] = []string{"200"}

		bus := &captureBus{}
		reconcile := NewReconcileService(gateway, store, wms, nil)
		svc := NewSyncService(gateway, reconcile, bus, nil)

		result, err := svc.RunBatch(ctx)
		require.NoError(t, err)

		assert.Equal(t, 2, result.ProcessedCount)
		assert.Equal(t, []int64{1}, result.UpdatedOrderIDs)
		assert.Empty(t, result.Failed)

		// Order 1 shipped fully, so completion fires.
		order, err := gateway.GetOrder(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "completed", order.Status)

		assert.Equal(t, []string{
			fulfillment.EventBatchStarted,
			fulfillment.EventBatchFinished,
		}, bus.eventTypes())
	})

	t.Run("skips trashed orders", func(t *testing.T) {
		trashed := acceptedOrder(1)
		trashed.Trashed = true
		gateway := newFakeGateway(trashed)
		reconcile := NewReconcileService(gateway, newFakeStore(), newFakeWMS(), nil)
		svc := NewSyncService(gateway, reconcile, nil, nil)

		result, err := svc.RunBatch(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, result.ProcessedCount)
		assert.Equal(t, 1, result.SkippedCount)
	})

	t.Run("isolates per-order failures", func(t *testing.T) {
		gateway := newFakeGateway(acceptedOrder(1), acceptedOrder(2))
		store := newFakeStore()
		wms := newFakeWMS()
		wms.searchErr = fulfillment.ErrWarehouseUnreachable
		reconcile := NewReconcileService(gateway, store, wms, nil)
		svc := NewSyncService(gateway, reconcile, nil, nil)

		result, err := svc.RunBatch(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, result.ProcessedCount)
		require.Len(t, result.Failed, 2)
		assert.Empty(t, result.UpdatedOrderIDs)
	})

	t.Run("mid-batch failure leaves other orders updated", func(t *testing.T) {
		gateway := newFakeGateway(acceptedOrder(1), acceptedOrder(2), acceptedOrder(3))

		store := newFakeStore()
		require.NoError(t, store.Save(ctx, 1, []fulfillment.RemoteOrder{{Number: "100", Status: "Processed"}}))
		require.NoError(t, store.Save(ctx, 3, []fulfillment.RemoteOrder{{Number: "300", Status: "Processed"}}))

		wms := newFakeWMS()
		wms.orders["100"] = fulfillment.RemoteOrder{Number: "100", Status: "Shipped"}
		wms.orders["300"] = fulfillment.RemoteOrder{Number: "300", Status: "Shipped"}
		wms.byRef[1] = []string{"100"}
		wms.byRef[3] = []string{"300"}
		wms.searchErrs[2] = fulfillment.ErrWarehouseUnreachable

		reconcile := NewReconcileService(gateway, store, wms, nil)
		svc := NewSyncService(gateway, reconcile, nil, nil)

		result, err := svc.RunBatch(ctx)
		require.NoError(t, err)

		assert.Equal(t, 3, result.ProcessedCount)
		assert.Equal(t, []int64{1, 3}, result.UpdatedOrderIDs)
		require.Len(t, result.Failed, 1)
		assert.Equal(t, int64(2), result.Failed[0].OrderID)

		for _, id := range []int64{1, 3} {
			order, err := gateway.GetOrder(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, "completed", order.Status)
		}
		order, err := gateway.GetOrder(ctx, 2)
		require.NoError(t, err)
		assert.NotEqual(t, "completed", order.Status)
	})

	t.Run("honors context cancellation", func(t *testing.T) {
		gateway := newFakeGateway(acceptedOrder(1))
		reconcile := NewReconcileService(gateway, newFakeStore(), newFakeWMS(), nil)
		svc := NewSyncService(gateway, reconcile, nil, nil)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := svc.RunBatch(cancelled)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
