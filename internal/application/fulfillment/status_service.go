package fulfillment

import (
	"context"

	"go.uber.org/zap"

	"github.com/erp/wms-connect/internal/domain/fulfillment"
)

// StatusService answers warehouse connectivity questions, caching the probe
// result briefly so status pages do not hammer the WMS.
type StatusService struct {
	wms    fulfillment.WarehouseClient
	probes fulfillment.ConnectivityProbeCache
	logger *zap.Logger
}

// NewStatusService creates a new StatusService.
func NewStatusService(
	wms fulfillment.WarehouseClient,
	probes fulfillment.ConnectivityProbeCache,
	logger *zap.Logger,
) *StatusService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatusService{wms: wms, probes: probes, logger: logger}
}

// Connected reports whether the warehouse currently answers with valid
// credentials, serving from the probe cache when a recent result exists.
func (s *StatusService) Connected(ctx context.Context) bool {
	if s.probes != nil {
		if reachable, ok := s.probes.Get(ctx); ok {
			return reachable
		}
	}

	if err := s.wms.Ping(ctx); err != nil {
		s.logger.Warn("warehouse ping failed", zap.Error(err))
		return false
	}

	// Only successful probes are cached. A failed ping is retried on the
	// next check, so a recovering warehouse is noticed immediately.
	if s.probes != nil {
		s.probes.Set(ctx, true)
	}
	return true
}
