package fulfillment

import "errors"

// Domain errors for the fulfillment context.
var (
	// ErrWarehouseUnreachable indicates the WMS could not be reached or
	// answered with a server-side failure.
	ErrWarehouseUnreachable = errors.New("fulfillment: warehouse unreachable")

	// ErrWarehouseRejected indicates the WMS answered with one or more
	// application-level error messages.
	ErrWarehouseRejected = errors.New("fulfillment: warehouse rejected request")

	// ErrMalformedResponse indicates the WMS answered with a body that
	// could not be parsed or was missing required fields.
	ErrMalformedResponse = errors.New("fulfillment: malformed warehouse response")

	// ErrInvalidOrderNumber indicates a warehouse order number failed
	// validation.
	ErrInvalidOrderNumber = errors.New("fulfillment: invalid order number")

	// ErrRemoteOrderExists indicates an attempt to register a remote order
	// number that is already tracked for the local order.
	ErrRemoteOrderExists = errors.New("fulfillment: remote order already tracked")

	// ErrRemoteOrderNotFound indicates the remote order number is not
	// tracked for the local order.
	ErrRemoteOrderNotFound = errors.New("fulfillment: remote order not tracked")

	// ErrOrderNotFound indicates the local order does not exist.
	ErrOrderNotFound = errors.New("fulfillment: order not found")

	// ErrNotSubmitted indicates an operation that requires a prior
	// submission was attempted on an unsubmitted order.
	ErrNotSubmitted = errors.New("fulfillment: order was not submitted")

	// ErrAlreadySubmitted indicates a second hand-off attempt on an order
	// that already carries a fulfillment status.
	ErrAlreadySubmitted = errors.New("fulfillment: order already submitted")

	// ErrNotReady indicates the order does not satisfy the readiness policy.
	ErrNotReady = errors.New("fulfillment: order not ready for submission")

	// ErrSubmissionFailed indicates the hand-off endpoint did not accept
	// the order.
	ErrSubmissionFailed = errors.New("fulfillment: order submit failed")

	// ErrAutoUpdateDisabled indicates auto-completion is switched off.
	ErrAutoUpdateDisabled = errors.New("fulfillment: automatic order updates disabled")
)
