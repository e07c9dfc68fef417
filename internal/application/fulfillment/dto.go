// Package fulfillment contains the application services of the fulfillment
// context: order hand-off, remote-order reconciliation and batch sync.
package fulfillment

import "time"

// SyncFailure records one local order a batch run could not refresh.
type SyncFailure struct {
	OrderID      int64  `json:"order_id"`
	ErrorMessage string `json:"error_message"`
}

// SyncResult summarizes one batch run.
type SyncResult struct {
	// ProcessedCount is how many accepted orders the batch visited.
	ProcessedCount int `json:"processed_count"`
	// SkippedCount is how many orders were skipped (trashed).
	SkippedCount int `json:"skipped_count"`
	// UpdatedOrderIDs are the local orders whose cached state changed.
	UpdatedOrderIDs []int64 `json:"updated_order_ids"`
	// Failed lists orders whose refresh failed; failures never abort the run.
	Failed []SyncFailure `json:"failed"`
	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}
