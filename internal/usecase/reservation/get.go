package reservation

import (
	"context"

	domain "github.com/kalakriti-store/commerce-api/internal/domain/reservation"
	"github.com/kalakriti-store/commerce-api/internal/models"
)

type GetReservation struct {
	repo domain.Repository
}

func NewGetReservation(repo domain.Repository) *GetReservation {
	return &GetReservation{repo: repo}
}

func (uc *GetReservation) Execute(
	ctx context.Context,
	id string,
) (*models.Reservation, error) {
	return uc.repo.GetByID(ctx, id)
}
