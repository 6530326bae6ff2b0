package reservation

import (
	"context"

	"github.com/kalakriti-store/commerce-api/internal/audit"
	domain "github.com/kalakriti-store/commerce-api/internal/domain/reservation"
	"github.com/kalakriti-store/commerce-api/internal/httperr"
	"github.com/kalakriti-store/commerce-api/internal/models"
)

type RequestRefund struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewRequestRefund(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *RequestRefund {
	return &RequestRefund{
		repo:  repo,
		audit: audit,
	}
}

func (uc *RequestRefund) Execute(
	ctx context.Context,
	id string,
) (*models.Reservation, error) {

	res, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	prior := domain.Status(res.Status)

	fields, err := domain.RequestRefund(res)
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
		Actor:    "customer",
		Action:   "refund_requested",
		Entity:   "reservation",
		EntityID: &res.ID,
	})

	return res, nil
}
