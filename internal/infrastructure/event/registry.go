// Package event provides the in-memory event bus carrying fulfillment
// domain events between services.
package event

import (
	"sync"

	"github.com/erp/wms-connect/internal/domain/shared"
)

// HandlerRegistry tracks which handlers receive which event types. Handlers
// registered without a type receive every event.
type HandlerRegistry struct {
	mu      sync.RWMutex
	byType  map[string][]shared.EventHandler
	allType []shared.EventHandler
}

func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{byType: make(map[string][]shared.EventHandler)}
}

// Register subscribes the handler to the given event types, or to all events
// when none are given.
func (r *HandlerRegistry) Register(handler shared.EventHandler, eventTypes ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(eventTypes) == 0 {
		r.allType = append(r.allType, handler)
		return
	}
	for _, t := range eventTypes {
		r.byType[t] = append(r.byType[t], handler)
	}
}

// Unregister drops the handler from every subscription.
func (r *HandlerRegistry) Unregister(handler shared.EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.allType = without(r.allType, handler)
	for t, hs := range r.byType {
		if kept := without(hs, handler); len(kept) == 0 {
			delete(r.byType, t)
		} else {
			r.byType[t] = kept
		}
	}
}

// GetHandlers returns the type-specific handlers for eventType followed by
// the catch-all handlers.
func (r *HandlerRegistry) GetHandlers(eventType string) []shared.EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	typed := r.byType[eventType]
	out := make([]shared.EventHandler, 0, len(typed)+len(r.allType))
	out = append(out, typed...)
	return append(out, r.allType...)
}

func without(handlers []shared.EventHandler, target shared.EventHandler) []shared.EventHandler {
	kept := handlers[:0:0]
	for _, h := range handlers {
		if h != target {
			kept = append(kept, h)
		}
	}
	return kept
}
