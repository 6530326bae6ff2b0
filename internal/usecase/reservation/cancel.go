package reservation

import (
	"context"
	"time"

	"github.com/kalakriti-store/commerce-api/internal/audit"
	domain "github.com/kalakriti-store/commerce-api/internal/domain/reservation"
	"github.com/kalakriti-store/commerce-api/internal/httperr"
	"github.com/kalakriti-store/commerce-api/internal/models"
	"github.com/kalakriti-store/commerce-api/internal/timezone"
)

type CancelReservation struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewCancelReservation(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CancelReservation {
	return &CancelReservation{
		repo:  repo,
		audit: audit,
		now:   timezone.Now,
	}
}

// Execute cancels a pending reservation. Cancellation is local and
// synchronous: an abandoned intent is left to expire gateway-side.
func (uc *CancelReservation) Execute(
	ctx context.Context,
	id string,
	reason string,
	actor string,
) (*models.Reservation, error) {

	res, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Idempotent: cancelling twice is not an error.
	if domain.Status(res.Status) == domain.StatusCancelled {
		return res, nil
	}

	fields, err := domain.Cancel(res, reason, uc.now())
	if err != nil {
		return nil, err
	}

	ok, err := uc.repo.ConditionalUpdate(ctx, res.ID, domain.StatusPending, fields)
	if err != nil {
		return nil, err
	}
	if !ok {
		current, err := uc.repo.GetByID(ctx, res.ID)
		if err != nil {
			return nil, err
		}
		if domain.Status(current.Status) == domain.StatusCancelled {
			return current, nil
		}
		// Confirmed microseconds earlier; a paid reservation is immutable
		// through this path.
		return nil, httperr.ErrBusiness(domain.CodeImmutable)
	}

	uc.audit.Dispatch(audit.Event{
		Actor:    actor,
		Action:   "reservation_cancelled",
		Entity:   "reservation",
		EntityID: &res.ID,
		Metadata: map[string]any{"reason": reason},
	})

	return res, nil
}
