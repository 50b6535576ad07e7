package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Expirer expires pending bookings whose payment window has passed.
type Expirer interface {
	ExpirePending(ctx context.Context) (int, error)
}

// ExpirySweeper periodically expires unpaid bookings so their seats return
// to sale.
type ExpirySweeper struct {
	expirer  Expirer
	interval time.Duration
	log      *zap.Logger
}

func NewExpirySweeper(expirer Expirer, interval time.Duration, log *zap.Logger) *ExpirySweeper {
	return &ExpirySweeper{
		expirer:  expirer,
		interval: interval,
		log:      log.With(zap.String("worker", "expiry")),
	}
}

// Run sweeps once at start and then every interval until ctx is done.
// It always returns nil; a failed sweep is logged and retried next tick.
func (s *ExpirySweeper) Run(ctx context.Context) error {
	if s.interval <= 0 {
		s.log.Info("Expiry sweeper disabled")
		return nil
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info("Expiry sweeper started", zap.Duration("interval", s.interval))
	for {
		s.sweep(ctx)

		select {
		case <-ctx.Done():
			s.log.Info("Expiry sweeper stopped")
			return nil
		case <-ticker.C:
		}
	}
}

func (s *ExpirySweeper) sweep(ctx context.Context) {
	n, err := s.expirer.ExpirePending(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.log.Error("Expiry sweep failed", zap.Error(err))
		}
		return
	}
	if n > 0 {
		s.log.Debug("Expiry sweep done", zap.Int("expired", n))
	}
}
