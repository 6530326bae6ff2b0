package reservation

import "github.com/kalakriti-store/commerce-api/internal/httperr"

// ===============================
// Reservation Kind / Status
// ===============================

type Kind string

const (
	KindOrder   Kind = "order"
	KindBooking Kind = "booking"
)

func (k Kind) Valid() bool {
	return k == KindOrder || k == KindBooking
}

type Status string

const (
	StatusPending         Status = "pending"
	StatusPaid            Status = "paid"
	StatusShipped         Status = "shipped"
	StatusDelivered       Status = "delivered"
	StatusRefundRequested Status = "refund_requested"
	StatusRefunded        Status = "refunded"
	StatusCancelled       Status = "cancelled"
)

// Wire error codes shared by the engine and the HTTP boundary.
const (
	CodeInvalidArgument    = "invalid_argument"
	CodeInvalidSlot        = "invalid_slot"
	CodeSlotUnavailable    = "slot_unavailable"
	CodeInvalidTransition  = "invalid_transition"
	CodeImmutable          = "immutable"
	CodeGatewayUnavailable = "gateway_unavailable"
	CodeInvalidSignature   = "invalid_signature"
	CodeNotFound           = "not_found"
)

// transitions is the single source of truth for the lifecycle. A status that
// maps to nothing is terminal.
var transitions = map[Status][]Status{
	StatusPending:         {StatusPaid, StatusCancelled},
	StatusPaid:            {StatusShipped, StatusDelivered, StatusRefundRequested},
	StatusShipped:         {StatusDelivered},
	StatusDelivered:       {StatusRefundRequested},
	StatusRefundRequested: {StatusRefunded},
}

func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}

func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ===============================
// Validations
// ===============================

func CanConfirm(current Status) error {
	if current != StatusPending {
		return httperr.ErrBusiness(CodeInvalidTransition)
	}
	return nil
}

// CanCancel rejects paid-and-later states with immutable: a confirmed
// commitment goes through the refund workflow, never silent cancellation.
func CanCancel(current Status) error {
	if current != StatusPending {
		return httperr.ErrBusiness(CodeImmutable)
	}
	return nil
}

func CanRequestRefund(current Status) error {
	if current != StatusPaid && current != StatusDelivered {
		return httperr.ErrBusiness(CodeInvalidTransition)
	}
	return nil
}

func CanApproveRefund(current Status) error {
	if current != StatusRefundRequested {
		return httperr.ErrBusiness(CodeInvalidTransition)
	}
	return nil
}

func InitialStatus() Status {
	return StatusPending
}

// adminTargets limits manual overrides to plain fulfilment states; refund
// states are reachable only through the refund workflow.
var adminTargets = map[Kind][]Status{
	KindOrder:   {StatusPending, StatusPaid, StatusShipped, StatusDelivered, StatusCancelled},
	KindBooking: {StatusPending, StatusPaid, StatusCancelled},
}

func CanAdminSet(kind Kind, current, target Status) error {
	allowed := false
	for _, t := range adminTargets[kind] {
		if t == target {
			allowed = true
			break
		}
	}
	if !allowed {
		return httperr.ErrBusiness(CodeInvalidArgument)
	}
	if current.Terminal() {
		return httperr.ErrBusiness(CodeImmutable)
	}
	if current == target {
		return httperr.ErrBusiness(CodeInvalidTransition)
	}
	return nil
}
