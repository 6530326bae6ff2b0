package reservation

import (
	"context"
	"fmt"
	"time"

	domain "github.com/kalakriti-store/commerce-api/internal/domain/reservation"
	"github.com/kalakriti-store/commerce-api/internal/httperr"
)

type GetAvailability struct {
	repo domain.Repository
}

func NewGetAvailability(repo domain.Repository) *GetAvailability {
	return &GetAvailability{repo: repo}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]domain.TimeSlot, error) {

	if _, err := time.Parse("2006-01-02", in.Date); err != nil {
		return nil, httperr.ErrBusiness(domain.CodeInvalidArgument)
	}

	if _, err := uc.repo.GetService(ctx, in.ServiceID); err != nil {
		return nil, err
	}

	booked, err := uc.repo.ListBookedStarts(
		ctx,
		in.ServiceID,
		in.Date,
		[]domain.Status{domain.StatusPending, domain.StatusPaid},
	)
	if err != nil {
		return nil, err
	}

	taken := make(map[string]bool, len(booked))
	for _, start := range booked {
		taken[start] = true
	}

	var slots []domain.TimeSlot
	for _, h := range domain.SlotStarts() {
		start := fmt.Sprintf("%02d:00", h)
		end := fmt.Sprintf("%02d:00", h+domain.SlotHours)

		slots = append(slots, domain.TimeSlot{
			Start:     start,
			End:       end,
			Available: !taken[start],
		})
	}

	return slots, nil
}
