package reservation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	domain "github.com/kalakriti-store/commerce-api/internal/domain/reservation"
	"github.com/kalakriti-store/commerce-api/internal/gateway"
	"github.com/kalakriti-store/commerce-api/internal/httperr"
	"github.com/kalakriti-store/commerce-api/internal/models"
)

// Full customer journey: reserve a slot, lose a duplicate attempt, pay,
// request a refund, get it approved.
func TestBookingJourney(t *testing.T) {
	repo := newMemRepo()
	repo.addService(models.Service{ID: 1, Name: "Deep Clean", PricePaise: 19900, Active: true})

	gw := new(mockGateway)
	gw.On("CreateIntent", mock.Anything, int64(19900), "INR", mock.Anything).
		Return(&gateway.PaymentIntent{IntentID: "order_journey", AmountPaise: 19900, Currency: "INR"}, nil).
		Once()
	gw.On("VerifyPaymentSignature", "order_journey", "pay_journey", "sig_ok").
		Return(true).
		Once()

	ctx := context.Background()

	createUC := newCreateUC(repo, gw)
	confirmUC := NewConfirmReservation(repo, gw, newTestAudit())
	requestUC := NewRequestRefund(repo, newTestAudit())
	approveUC := NewApproveRefund(repo, newTestAudit())
	getUC := NewGetReservation(repo)

	res, err := createUC.Execute(ctx, bookingInput())
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusPending), res.Status)

	// A rival wants the same window while payment is in flight.
	rival := bookingInput()
	rival.CustomerPhone = "+919900778899"
	_, err = createUC.Execute(ctx, rival)
	assert.True(t, httperr.IsBusiness(err, domain.CodeSlotUnavailable))

	paid, err := confirmUC.Execute(ctx, ConfirmInput{
		ID:        res.ID,
		PaymentID: "pay_journey",
		Signature: "sig_ok",
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusPaid), paid.Status)

	_, err = requestUC.Execute(ctx, res.ID)
	require.NoError(t, err)

	refunded, err := approveUC.Execute(ctx, res.ID, "admin@store")
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusRefunded), refunded.Status)

	final, err := getUC.Execute(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusRefunded), final.Status)
	assert.Equal(t, int64(19900), final.AmountPaise, "amount stays as quoted through the whole lifecycle")

	gw.AssertExpectations(t)
}
