package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	appfulfillment "github.com/erp/wms-connect/internal/application/fulfillment"
	"github.com/erp/wms-connect/internal/interfaces/http/dto"
)

// SyncHandler exposes the batch synchronization endpoint
type SyncHandler struct {
	BaseHandler
	sync *appfulfillment.SyncService
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(sync *appfulfillment.SyncService) *SyncHandler {
	return &SyncHandler{sync: sync}
}

// RegisterRoutes registers the sync routes
func (h *SyncHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/sync")
	{
		group.POST("/run", h.Run)
	}
}

// Run refreshes every accepted order against the warehouse
func (h *SyncHandler) Run(c *gin.Context) {
	result, err := h.sync.RunBatch(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	failed := make([]dto.SyncFailure, 0, len(result.Failed))
	for _, f := range result.Failed {
		failed = append(failed, dto.SyncFailure{
			OrderID:      f.OrderID,
			ErrorMessage: f.ErrorMessage,
		})
	}

	h.Success(c, dto.SyncRunResponse{
		Message:         fmt.Sprintf("%d orders updated", len(result.UpdatedOrderIDs)),
		ProcessedCount:  result.ProcessedCount,
		SkippedCount:    result.SkippedCount,
		UpdatedOrderIDs: result.UpdatedOrderIDs,
		Failed:          failed,
		StartedAt:       result.StartedAt,
		FinishedAt:      result.FinishedAt,
	})
}
