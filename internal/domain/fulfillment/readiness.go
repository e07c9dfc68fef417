package fulfillment

// ---------------------------------------------------------------------------
// Readiness policy
// ---------------------------------------------------------------------------

// ReadinessOverride is a strategy hook that gets the final say on a
// readiness decision. Implementations receive the order, the previous order
// status when the decision is driven by a status transition (empty
// otherwise), and the policy's verdict.
type ReadinessOverride interface {
	Override(order LocalOrder, previousStatus string, ready bool) bool
}

// ReadinessOverrideFunc adapts a function to the ReadinessOverride interface.
type ReadinessOverrideFunc func(order LocalOrder, previousStatus string, ready bool) bool

func (f ReadinessOverrideFunc) Override(order LocalOrder, previousStatus string, ready bool) bool {
	return f(order, previousStatus, ready)
}

// ReadinessPolicy decides whether a local order is eligible for warehouse
// hand-off. An order that already entered the fulfillment lifecycle is never
// ready again.
type ReadinessPolicy struct {
	// ReadyStatuses are the order statuses that make an order eligible.
	ReadyStatuses []string

	// ReadyFromStatuses restricts transition-driven decisions: when a
	// previous status is supplied, it must be one of these.
	ReadyFromStatuses []string

	// PaidCheck marks an order eligible regardless of its status. The
	// default accepts any paid order.
	PaidCheck func(order LocalOrder) bool

	// Override, when set, can veto or force the final decision.
	Override ReadinessOverride
}

// NewReadinessPolicy returns a policy with the default status sets.
func NewReadinessPolicy() *ReadinessPolicy {
	return &ReadinessPolicy{
		ReadyStatuses:     []string{"processing", "completed"},
		ReadyFromStatuses: []string{"on-hold", "failed"},
		PaidCheck:         func(order LocalOrder) bool { return order.Paid },
	}
}

// IsReady reports whether the order may be handed off. previousStatus is the
// order status before the transition that triggered the check, or empty when
// the check is not transition-driven.
func (p *ReadinessPolicy) IsReady(order LocalOrder, previousStatus string) bool {
	ready := false
	if !order.Fulfillment.IsSet() {
		ready = containsStatus(p.ReadyStatuses, order.Status)
		if !ready && p.PaidCheck != nil {
			ready = p.PaidCheck(order)
		}
		if ready && previousStatus != "" {
			ready = containsStatus(p.ReadyFromStatuses, previousStatus)
		}
	}
	if p.Override != nil {
		ready = p.Override.Override(order, previousStatus, ready)
	}
	return ready
}

func containsStatus(statuses []string, status string) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}
