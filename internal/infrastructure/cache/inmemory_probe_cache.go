// Package cache provides short-lived stores for warehouse connectivity
// probe results.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/erp/wms-connect/internal/domain/fulfillment"
)

// DefaultProbeTTL is how long a connectivity probe result stays valid.
const DefaultProbeTTL = 5 * time.Minute

// InMemoryProbeCache implements ConnectivityProbeCache in process memory.
// Suitable for single-instance deployments and testing; state is not shared
// across instances.
type InMemoryProbeCache struct {
	mu        sync.RWMutex
	reachable bool
	expiresAt time.Time
	ttl       time.Duration
	now       func() time.Time
}

// NewInMemoryProbeCache creates an in-memory probe cache. A non-positive ttl
// falls back to DefaultProbeTTL.
func NewInMemoryProbeCache(ttl time.Duration) *InMemoryProbeCache {
	if ttl <= 0 {
		ttl = DefaultProbeTTL
	}
	return &InMemoryProbeCache{ttl: ttl, now: time.Now}
}

// Get returns the cached probe result, or ok=false when none is cached or
// the entry expired.
func (c *InMemoryProbeCache) Get(_ context.Context) (bool, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.expiresAt.IsZero() || c.now().After(c.expiresAt) {
		return false, false
	}
	return c.reachable, true
}

// Set caches a probe result for the configured lifetime.
func (c *InMemoryProbeCache) Set(_ context.Context, reachable bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reachable = reachable
	c.expiresAt = c.now().Add(c.ttl)
}

// Ensure InMemoryProbeCache implements ConnectivityProbeCache
var _ fulfillment.ConnectivityProbeCache = (*InMemoryProbeCache)(nil)
