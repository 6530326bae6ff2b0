package reservation

import (
	"time"

	"github.com/kalakriti-store/commerce-api/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Fields returned by each action feed the store's conditional update; the
// caller applies them with "WHERE status = <prior status>" so the transition
// stays atomic across engine instances.

func Confirm(r *models.Reservation) (map[string]any, error) {
	if err := CanConfirm(Status(r.Status)); err != nil {
		return nil, err
	}

	r.Status = string(StatusPaid)
	return map[string]any{
		"status": string(StatusPaid),
	}, nil
}

func Cancel(r *models.Reservation, reason string, now time.Time) (map[string]any, error) {
	if err := CanCancel(Status(r.Status)); err != nil {
		return nil, err
	}

	r.Status = string(StatusCancelled)
	r.PaymentIntentID = nil
	r.CancelledAt = &now
	r.Notes = AppendNote(r.Notes, "cancelled: "+reason)

	return map[string]any{
		"status":            string(StatusCancelled),
		"payment_intent_id": nil,
		"cancelled_at":      now,
		"notes":             r.Notes,
	}, nil
}

func RequestRefund(r *models.Reservation) (map[string]any, error) {
	if err := CanRequestRefund(Status(r.Status)); err != nil {
		return nil, err
	}

	r.Status = string(StatusRefundRequested)
	return map[string]any{
		"status": string(StatusRefundRequested),
	}, nil
}

func ApproveRefund(r *models.Reservation) (map[string]any, error) {
	if err := CanApproveRefund(Status(r.Status)); err != nil {
		return nil, err
	}

	r.Status = string(StatusRefunded)
	return map[string]any{
		"status": string(StatusRefunded),
	}, nil
}

func AdminSetStatus(r *models.Reservation, target Status, now time.Time) (map[string]any, error) {
	if err := CanAdminSet(Kind(r.Kind), Status(r.Status), target); err != nil {
		return nil, err
	}

	fields := map[string]any{
		"status": string(target),
	}
	if target == StatusCancelled {
		r.PaymentIntentID = nil
		r.CancelledAt = &now
		fields["payment_intent_id"] = nil
		fields["cancelled_at"] = now
	}

	r.Status = string(target)
	return fields, nil
}

// AppendNote keeps the notes column append-only.
func AppendNote(existing, note string) string {
	if existing == "" {
		return note
	}
	return existing + "\n" + note
}
