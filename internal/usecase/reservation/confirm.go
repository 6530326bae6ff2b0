package reservation

import (
	"context"

	"github.com/kalakriti-store/commerce-api/internal/audit"
	domain "github.com/kalakriti-store/commerce-api/internal/domain/reservation"
	"github.com/kalakriti-store/commerce-api/internal/gateway"
	"github.com/kalakriti-store/commerce-api/internal/httperr"
	"github.com/kalakriti-store/commerce-api/internal/models"
)

type ConfirmInput struct {
	ID        string
	PaymentID string
	Signature string
}

type ConfirmReservation struct {
	repo    domain.Repository
	gateway gateway.PaymentGateway
	audit   *audit.Dispatcher
}

func NewConfirmReservation(
	repo domain.Repository,
	gw gateway.PaymentGateway,
	audit *audit.Dispatcher,
) *ConfirmReservation {
	return &ConfirmReservation{
		repo:    repo,
		gateway: gw,
		audit:   audit,
	}
}

func (uc *ConfirmReservation) Execute(
	ctx context.Context,
	in ConfirmInput,
) (*models.Reservation, error) {

	res, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	// Duplicate confirmation reports from a flaky client must not corrupt
	// state: already paid is a success, not an error.
	if domain.Status(res.Status) == domain.StatusPaid {
		return res, nil
	}

	// The browser-side callback is untrusted; check the gateway HMAC
	// against the stored intent before moving any money state.
	if uc.gateway != nil {
		if res.PaymentIntentID == nil ||
			!uc.gateway.VerifyPaymentSignature(*res.PaymentIntentID, in.PaymentID, in.Signature) {
			return nil, httperr.ErrBusiness(domain.CodeInvalidSignature)
		}
	}

	fields, err := domain.Confirm(res)
	if err != nil {
		return nil, err
	}

	ok, err := uc.repo.ConditionalUpdate(ctx, res.ID, domain.StatusPending, fields)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost the race: someone confirmed or cancelled first.
		current, err := uc.repo.GetByID(ctx, res.ID)
		if err != nil {
			return nil, err
		}
		if domain.Status(current.Status) == domain.StatusPaid {
			return current, nil
		}
		return nil, httperr.ErrBusiness(domain.CodeInvalidTransition)
	}

	uc.audit.Dispatch(audit.Event{
		Actor:    "customer",
		Action:   "reservation_confirmed",
		Entity:   "reservation",
		EntityID: &res.ID,
	})

	return res, nil
}
