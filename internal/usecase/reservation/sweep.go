package reservation

import (
	"context"
	"time"

	"github.com/kalakriti-store/commerce-api/internal/audit"
	domain "github.com/kalakriti-store/commerce-api/internal/domain/reservation"
	"github.com/kalakriti-store/commerce-api/internal/httperr"
	"github.com/kalakriti-store/commerce-api/internal/logger"
	"github.com/kalakriti-store/commerce-api/internal/timezone"
)

const DefaultSweepThreshold = 10 * time.Minute

type SweepResult struct {
	OrdersCancelled   int `json:"orders_cancelled"`
	BookingsCancelled int `json:"bookings_cancelled"`
}

type SweepStale struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewSweepStale(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *SweepStale {
	return &SweepStale{
		repo:  repo,
		audit: audit,
		now:   timezone.Now,
	}
}

// Execute cancels reservations stuck in pending past the threshold,
// releasing held slots. Each cancellation is the same conditional transition
// a user cancel takes, so running concurrently with live traffic (or another
// sweep) cannot double-cancel or kill a reservation confirmed microseconds
// earlier. The gateway is never contacted; abandoned intents expire on their
// own.
func (uc *SweepStale) Execute(
	ctx context.Context,
	threshold time.Duration,
) (SweepResult, error) {

	var result SweepResult

	if threshold <= 0 {
		return result, httperr.ErrBusiness(domain.CodeInvalidArgument)
	}

	cutoff := uc.now().Add(-threshold)

	stale, err := uc.repo.FindStale(ctx, domain.StatusPending, cutoff)
	if err != nil {
		return result, err
	}

	for i := range stale {
		res := &stale[i]

		fields, err := domain.Cancel(res, "abandoned payment session", uc.now())
		if err != nil {
			continue
		}

		ok, err := uc.repo.ConditionalUpdate(ctx, res.ID, domain.StatusPending, fields)
		if err != nil {
			// One bad row must not abort the whole sweep.
			logger.ErrorLogger.Errorf("sweep: failed to cancel reservation %s: %v", res.ID, err)
			continue
		}
		if !ok {
			continue
		}

		switch domain.Kind(res.Kind) {
		case domain.KindOrder:
			result.OrdersCancelled++
		case domain.KindBooking:
			result.BookingsCancelled++
		}

		uc.audit.Dispatch(audit.Event{
			Actor:    "sweeper",
			Action:   "reservation_cancelled",
			Entity:   "reservation",
			EntityID: &res.ID,
			Metadata: map[string]any{"reason": "abandoned payment session"},
		})
	}

	return result, nil
}
