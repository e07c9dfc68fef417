package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erp/wms-connect/internal/domain/fulfillment"
	"github.com/erp/wms-connect/internal/interfaces/http/dto"
)

func TestGetStatus_ReportsConnectivity(t *testing.T) {
	env := newTestEnv(nil)

	w := env.request(http.MethodGet, "/api/v1/system/status", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.SystemStatusResponse
	decodeData(t, w.Body.Bytes(), &resp)

	assert.Equal(t, "wms-connect", resp.Name)
	assert.Equal(t, Version, resp.Version)
	assert.NotEmpty(t, resp.Uptime)
	assert.True(t, resp.Connected)
}

func TestGetStatus_UnreachableWarehouse(t *testing.T) {
	env := newTestEnv(nil)
	env.wms.pingErr = fulfillment.ErrWarehouseUnreachable

	w := env.request(http.MethodGet, "/api/v1/system/status", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.SystemStatusResponse
	decodeData(t, w.Body.Bytes(), &resp)
	assert.False(t, resp.Connected)
}
