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

type UpdateStatus struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewUpdateStatus(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *UpdateStatus {
	return &UpdateStatus{
		repo:  repo,
		audit: audit,
		now:   timezone.Now,
	}
}

// Execute applies a manual override, restricted to the plain fulfilment
// statuses for the reservation's kind. Refund states stay out of reach.
func (uc *UpdateStatus) Execute(
	ctx context.Context,
	id string,
	target domain.Status,
	actor string,
) (*models.Reservation, error) {

	res, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	prior := domain.Status(res.Status)

	fields, err := domain.AdminSetStatus(res, target, uc.now())
	if err != nil {
		return nil, err
	}

	ok, err := uc.repo.ConditionalUpdate(ctx, res.ID, prior, fields)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, httperr.ErrBusiness(domain.CodeInvalidTransition)
	}

	uc.audit.Dispatch(audit.Event{
		Actor:    actor,
		Action:   "reservation_status_overridden",
		Entity:   "reservation",
		EntityID: &res.ID,
		Metadata: map[string]any{"from": string(prior), "to": string(target)},
	})

	return res, nil
}
