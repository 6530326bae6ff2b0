package reservation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	domain "github.com/kalakriti-store/commerce-api/internal/domain/reservation"
	"github.com/kalakriti-store/commerce-api/internal/gateway"
	"github.com/kalakriti-store/commerce-api/internal/httperr"
	"github.com/kalakriti-store/commerce-api/internal/models"
)

func seedReservation(repo *memRepo, id string, kind domain.Kind, status domain.Status) models.Reservation {
	intent := "order_" + id
	r := models.Reservation{
		ID:              id,
		Kind:            string(kind),
		Status:          string(status),
		AmountPaise:     19900,
		Currency:        "INR",
		PaymentIntentID: &intent,
		CreatedAt:       fixedNow.Add(-time.Minute),
	}
	if kind == domain.KindBooking {
		svcID := uint(1)
		r.ServiceID = &svcID
		r.SlotDate = "2030-01-10"
		r.SlotStart = "09:00"
		r.SlotEnd = "11:00"
	}
	repo.seed(r)
	return r
}

// ===============================
// Confirm
// ===============================

func TestConfirmVerifiesSignature(t *testing.T) {
	repo := newMemRepo()
	seedReservation(repo, "res-1", domain.KindBooking, domain.StatusPending)

	gw := new(mockGateway)
	gw.On("VerifyPaymentSignature", "order_res-1", "pay_1", "sig_ok").Return(true).Once()

	uc := NewConfirmReservation(repo, gw, newTestAudit())

	res, err := uc.Execute(context.Background(), ConfirmInput{
		ID:        "res-1",
		PaymentID: "pay_1",
		Signature: "sig_ok",
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusPaid), res.Status)

	stored, _ := repo.row("res-1")
	assert.Equal(t, string(domain.StatusPaid), stored.Status)

	gw.AssertExpectations(t)
}

func TestConfirmRejectsBadSignature(t *testing.T) {
	repo := newMemRepo()
	seedReservation(repo, "res-1", domain.KindBooking, domain.StatusPending)

	gw := new(mockGateway)
	gw.On("VerifyPaymentSignature", "order_res-1", "pay_1", "sig_forged").Return(false).Once()

	uc := NewConfirmReservation(repo, gw, newTestAudit())

	_, err := uc.Execute(context.Background(), ConfirmInput{
		ID:        "res-1",
		PaymentID: "pay_1",
		Signature: "sig_forged",
	})
	assert.True(t, httperr.IsBusiness(err, domain.CodeInvalidSignature), "got %v", err)

	stored, _ := repo.row("res-1")
	assert.Equal(t, string(domain.StatusPending), stored.Status, "state must not move on a forged callback")

	gw.AssertExpectations(t)
}

func TestConfirmIdempotent(t *testing.T) {
	repo := newMemRepo()
	seedReservation(repo, "res-1", domain.KindOrder, domain.StatusPaid)

	// No expectations: a duplicate confirmation must not hit the gateway.
	uc := NewConfirmReservation(repo, new(mockGateway), newTestAudit())

	res, err := uc.Execute(context.Background(), ConfirmInput{ID: "res-1"})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusPaid), res.Status)
}

func TestConfirmCancelledFails(t *testing.T) {
	repo := newMemRepo()
	seedReservation(repo, "res-1", domain.KindOrder, domain.StatusCancelled)

	uc := NewConfirmReservation(repo, nil, newTestAudit())

	_, err := uc.Execute(context.Background(), ConfirmInput{ID: "res-1"})
	assert.True(t, httperr.IsBusiness(err, domain.CodeInvalidTransition), "got %v", err)

	stored, _ := repo.row("res-1")
	assert.Equal(t, string(domain.StatusCancelled), stored.Status, "cancelled reservations stay cancelled")
}

func TestConfirmUnknownID(t *testing.T) {
	uc := NewConfirmReservation(newMemRepo(), nil, newTestAudit())

	_, err := uc.Execute(context.Background(), ConfirmInput{ID: "missing"})
	assert.True(t, httperr.IsBusiness(err, domain.CodeNotFound))
}

// ===============================
// Cancel
// ===============================

func TestCancelPendingReleasesSlot(t *testing.T) {
	repo := newMemRepo()
	repo.addService(models.Service{ID: 1, PricePaise: 19900, Active: true})
	seedReservation(repo, "res-1", domain.KindBooking, domain.StatusPending)

	cancelUC := NewCancelReservation(repo, newTestAudit())
	cancelUC.now = func() time.Time { return fixedNow }

	res, err := cancelUC.Execute(context.Background(), "res-1", "changed my mind", "customer")
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCancelled), res.Status)
	assert.Nil(t, res.PaymentIntentID)

	stored, _ := repo.row("res-1")
	assert.Equal(t, string(domain.StatusCancelled), stored.Status)
	assert.Nil(t, stored.PaymentIntentID)
	require.NotNil(t, stored.CancelledAt)
	assert.Contains(t, stored.Notes, "cancelled: changed my mind")

	// The freed slot can be taken again.
	gw := new(mockGateway)
	gw.On("CreateIntent", mock.Anything, int64(19900), "INR", mock.Anything).
		Return(&gateway.PaymentIntent{IntentID: "order_rebook"}, nil).
		Once()

	createUC := newCreateUC(repo, gw)
	rebooked, err := createUC.Execute(context.Background(), bookingInput())
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusPending), rebooked.Status)

	gw.AssertExpectations(t)
}

func TestCancelIdempotent(t *testing.T) {
	repo := newMemRepo()
	seedReservation(repo, "res-1", domain.KindOrder, domain.StatusCancelled)

	uc := NewCancelReservation(repo, newTestAudit())
	uc.now = func() time.Time { return fixedNow }

	res, err := uc.Execute(context.Background(), "res-1", "again", "customer")
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), res.Status)
}

func TestCancelPaidIsImmutable(t *testing.T) {
	repo := newMemRepo()
	seedReservation(repo, "res-1", domain.KindOrder, domain.StatusPaid)

	uc := NewCancelReservation(repo, newTestAudit())
	uc.now = func() time.Time { return fixedNow }

	_, err := uc.Execute(context.Background(), "res-1", "too late", "customer")
	assert.True(t, httperr.IsBusiness(err, domain.CodeImmutable), "got %v", err)

	stored, _ := repo.row("res-1")
	assert.Equal(t, string(domain.StatusPaid), stored.Status)
}

// ===============================
// Refund workflow
// ===============================

func TestRefundWorkflow(t *testing.T) {
	repo := newMemRepo()
	seedReservation(repo, "res-1", domain.KindOrder, domain.StatusPaid)

	requestUC := NewRequestRefund(repo, newTestAudit())
	approveUC := NewApproveRefund(repo, newTestAudit())

	res, err := requestUC.Execute(context.Background(), "res-1")
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusRefundRequested), res.Status)

	res, err = approveUC.Execute(context.Background(), "res-1", "admin@store")
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusRefunded), res.Status)

	stored, _ := repo.row("res-1")
	assert.Equal(t, string(domain.StatusRefunded), stored.Status)

	// Refunded is terminal.
	_, err = requestUC.Execute(context.Background(), "res-1")
	assert.True(t, httperr.IsBusiness(err, domain.CodeInvalidTransition))
}

func TestRequestRefundFromDelivered(t *testing.T) {
	repo := newMemRepo()
	seedReservation(repo, "res-1", domain.KindOrder, domain.StatusDelivered)

	uc := NewRequestRefund(repo, newTestAudit())

	res, err := uc.Execute(context.Background(), "res-1")
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusRefundRequested), res.Status)
}

func TestRequestRefundRejectsPending(t *testing.T) {
	repo := newMemRepo()
	seedReservation(repo, "res-1", domain.KindOrder, domain.StatusPending)

	uc := NewRequestRefund(repo, newTestAudit())

	_, err := uc.Execute(context.Background(), "res-1")
	assert.True(t, httperr.IsBusiness(err, domain.CodeInvalidTransition))
}

func TestApproveRefundRequiresRequest(t *testing.T) {
	repo := newMemRepo()
	seedReservation(repo, "res-1", domain.KindOrder, domain.StatusPaid)

	uc := NewApproveRefund(repo, newTestAudit())

	_, err := uc.Execute(context.Background(), "res-1", "admin@store")
	assert.True(t, httperr.IsBusiness(err, domain.CodeInvalidTransition), "got %v", err)

	stored, _ := repo.row("res-1")
	assert.Equal(t, string(domain.StatusPaid), stored.Status, "no refund without a request")
}

// ===============================
// Admin override
// ===============================

func TestUpdateStatusFulfilment(t *testing.T) {
	repo := newMemRepo()
	seedReservation(repo, "res-1", domain.KindOrder, domain.StatusPaid)

	uc := NewUpdateStatus(repo, newTestAudit())
	uc.now = func() time.Time { return fixedNow }

	res, err := uc.Execute(context.Background(), "res-1", domain.StatusShipped, "admin@store")
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusShipped), res.Status)

	res, err = uc.Execute(context.Background(), "res-1", domain.StatusDelivered, "admin@store")
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusDelivered), res.Status)
}

func TestUpdateStatusRejectsRefundStates(t *testing.T) {
	repo := newMemRepo()
	seedReservation(repo, "res-1", domain.KindOrder, domain.StatusPaid)

	uc := NewUpdateStatus(repo, newTestAudit())
	uc.now = func() time.Time { return fixedNow }

	for _, target := range []domain.Status{domain.StatusRefundRequested, domain.StatusRefunded} {
		_, err := uc.Execute(context.Background(), "res-1", target, "admin@store")
		assert.True(t, httperr.IsBusiness(err, domain.CodeInvalidArgument), "target %s: %v", target, err)
	}
}

func TestUpdateStatusBookingHasNoFulfilment(t *testing.T) {
	repo := newMemRepo()
	seedReservation(repo, "res-1", domain.KindBooking, domain.StatusPaid)

	uc := NewUpdateStatus(repo, newTestAudit())
	uc.now = func() time.Time { return fixedNow }

	_, err := uc.Execute(context.Background(), "res-1", domain.StatusShipped, "admin@store")
	assert.True(t, httperr.IsBusiness(err, domain.CodeInvalidArgument), "got %v", err)
}

func TestUpdateStatusTerminalIsImmutable(t *testing.T) {
	repo := newMemRepo()
	seedReservation(repo, "res-1", domain.KindOrder, domain.StatusRefunded)

	uc := NewUpdateStatus(repo, newTestAudit())
	uc.now = func() time.Time { return fixedNow }

	_, err := uc.Execute(context.Background(), "res-1", domain.StatusDelivered, "admin@store")
	assert.True(t, httperr.IsBusiness(err, domain.CodeImmutable), "got %v", err)
}

func TestUpdateStatusCancelClearsIntent(t *testing.T) {
	repo := newMemRepo()
	seedReservation(repo, "res-1", domain.KindBooking, domain.StatusPending)

	uc := NewUpdateStatus(repo, newTestAudit())
	uc.now = func() time.Time { return fixedNow }

	res, err := uc.Execute(context.Background(), "res-1", domain.StatusCancelled, "admin@store")
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), res.Status)

	stored, _ := repo.row("res-1")
	assert.Nil(t, stored.PaymentIntentID)
	require.NotNil(t, stored.CancelledAt)
}
