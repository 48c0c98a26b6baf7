package worker

import (
	"context"
	"sync"
	"time"

	"staffing-platform-backend/internal/logger"
	"staffing-platform-backend/internal/workflow"
)

// OfferSweeper periodically expires pending offers past their TTL so locked
// shifts reopen without manual intervention
type OfferSweeper struct {
	shifts   *workflow.ShiftService
	interval time.Duration
	log      *logger.Logger
	cancel   context.CancelFunc
	done     chan struct{}
	once     sync.Once
}

// NewOfferSweeper creates an offer sweeper with the configured interval
func NewOfferSweeper(shifts *workflow.ShiftService, interval time.Duration) *OfferSweeper {
	return &OfferSweeper{
		shifts:   shifts,
		interval: interval,
		log:      logger.New(),
		done:     make(chan struct{}),
	}
}

// Name returns the worker name
func (s *OfferSweeper) Name() string {
	return "offer-sweeper"
}

// Start launches the sweep loop
func (s *OfferSweeper) Start(ctx context.Context) error {
	ctx, s.cancel = context.WithCancel(ctx)
	go s.run(ctx)
	return nil
}

// Stop cancels the loop and waits for the in-flight sweep to finish
func (s *OfferSweeper) Stop() {
	s.once.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
		<-s.done
	})
}

func (s *OfferSweeper) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			expired, err := s.shifts.ExpireOffers(ctx)
			if err != nil {
				s.log.WithError(err).Error("offer sweep failed")
				continue
			}
			if expired > 0 {
				s.log.WithField("expired", expired).Info("expired pending offers")
			}
		}
	}
}
