package reservation

import (
	"context"

	"github.com/kalakriti-store/commerce-api/internal/audit"
	domain "github.com/kalakriti-store/commerce-api/internal/domain/reservation"
	"github.com/kalakriti-store/commerce-api/internal/httperr"
	"github.com/kalakriti-store/commerce-api/internal/models"
)

type ApproveRefund struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewApproveRefund(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *ApproveRefund {
	return &ApproveRefund{
		repo:  repo,
		audit: audit,
	}
}

// Execute approves a requested refund. The refund_requested precondition
// guards against double refunds and against refunding a record nobody
// flagged.
func (uc *ApproveRefund) Execute(
	ctx context.Context,
	id string,
	actor string,
) (*models.Reservation, error) {

	res, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fields, err := domain.ApproveRefund(res)
	if err != nil {
		return nil, err
	}

	ok, err := uc.repo.ConditionalUpdate(ctx, res.ID, domain.StatusRefundRequested, fields)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, httperr.ErrBusiness(domain.CodeInvalidTransition)
	}

	uc.audit.Dispatch(audit.Event{
		Actor:    actor,
		Action:   "refund_approved",
		Entity:   "reservation",
		EntityID: &res.ID,
	})

	return res, nil
}
