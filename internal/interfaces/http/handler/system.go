package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	appfulfillment "github.com/erp/wms-connect/internal/application/fulfillment"
	"github.com/erp/wms-connect/internal/interfaces/http/dto"
)

// Version is the service version reported by the status endpoint
const Version = "1.0.0"

// SystemHandler handles system-related API endpoints
type SystemHandler struct {
	BaseHandler
	status    *appfulfillment.StatusService
	appName   string
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(status *appfulfillment.StatusService, appName string) *SystemHandler {
	return &SystemHandler{
		status:    status,
		appName:   appName,
		startTime: time.Now(),
	}
}

// RegisterRoutes registers the system routes
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/system")
	{
		group.GET("/status", h.GetStatus)
	}
}

// GetStatus reports service uptime and warehouse connectivity. The
// connectivity verdict is served from the probe cache when fresh.
func (h *SystemHandler) GetStatus(c *gin.Context) {
	h.Success(c, dto.SystemStatusResponse{
		Name:      h.appName,
		Version:   Version,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Connected: h.status.Connected(c.Request.Context()),
	})
}
