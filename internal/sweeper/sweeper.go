package sweeper

import (
	"context"
	"time"

	"github.com/kalakriti-store/commerce-api/internal/logger"
	ucReservation "github.com/kalakriti-store/commerce-api/internal/usecase/reservation"
)

// ShutdownGrace bounds how long main waits for in-flight requests on stop.
const ShutdownGrace = 10 * time.Second

// Sweeper periodically reclaims reservations abandoned mid-payment. It is a
// scheduled task with its own shutdown hook, decoupled from HTTP handling;
// running several instances behind a load balancer is safe because every
// cancellation is a conditional update.
type Sweeper struct {
	sweep     *ucReservation.SweepStale
	interval  time.Duration
	threshold time.Duration
}

func New(
	sweep *ucReservation.SweepStale,
	interval time.Duration,
	threshold time.Duration,
) *Sweeper {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if threshold <= 0 {
		threshold = ucReservation.DefaultSweepThreshold
	}

	return &Sweeper{
		sweep:     sweep,
		interval:  interval,
		threshold: threshold,
	}
}

// Run blocks until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	logger.InfoLogger.Infof("sweeper started: interval=%s threshold=%s", s.interval, s.threshold)

	for {
		select {
		case <-ctx.Done():
			logger.InfoLogger.Info("sweeper stopped")
			return
		case <-ticker.C:
			result, err := s.sweep.Execute(ctx, s.threshold)
			if err != nil {
				logger.ErrorLogger.Errorf("sweep failed: %v", err)
				continue
			}
			if result.OrdersCancelled > 0 || result.BookingsCancelled > 0 {
				logger.InfoLogger.Infof(
					"sweep reclaimed %d orders, %d bookings",
					result.OrdersCancelled,
					result.BookingsCancelled,
				)
			}
		}
	}
}
