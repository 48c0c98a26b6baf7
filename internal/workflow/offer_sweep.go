package workflow

import (
	"context"
	"fmt"

	"staffing-platform-backend/internal/database/models"
	"staffing-platform-backend/internal/events"
	"staffing-platform-backend/internal/repository"
)

const sweepBatchSize = 100

// ExpireOffers transitions pending offers past their expiry back through the
// state machine: offer -> expired, shift -> open. The sweep is safe to run
// concurrently with manual Accept/Reject: each offer is re-read under a row
// lock and a stale transition is simply rejected and skipped.
func (s *ShiftService) ExpireOffers(ctx context.Context) (int, error) {
	candidates, err := s.store.Offers().ListExpiredPending(s.now(), sweepBatchSize)
	if err != nil {
		return 0, fmt.Errorf("list expired offers: %w", err)
	}

	expired := 0
	for _, candidate := range candidates {
		var evts []events.Event
		err := s.store.Transaction(func(tx repository.Store) error {
			offer, err := tx.Offers().GetForUpdate(candidate.ID)
			if err != nil {
				return fmt.Errorf("load offer: %w", err)
			}
			// A manual accept/reject may have won the race since listing
			if offer.Status != models.OfferStatusPending || offer.ExpiresAt.After(s.now()) {
				return nil
			}

			shift, err := tx.Shifts().GetForUpdate(offer.ShiftID)
			if err != nil {
				return fmt.Errorf("load shift: %w", err)
			}

			if _, err := models.OfferTransitions.Transition(offer.Status, models.OfferStatusExpired); err != nil {
				return err
			}
			offer.Status = models.OfferStatusExpired
			if err := tx.Offers().Update(offer); err != nil {
				return fmt.Errorf("update offer: %w", err)
			}

			if models.ShiftTransitions.CanTransition(shift.Status, models.ShiftStatusOpen) {
				shift.Status = models.ShiftStatusOpen
				if err := tx.Shifts().Update(shift); err != nil {
					return fmt.Errorf("update shift: %w", err)
				}
			}

			evts = append(evts, events.NewOfferExpired(offer))
			return nil
		})
		if err != nil {
			s.log.WithField("offer_id", candidate.ID).WithError(err).Error("offer expiry failed")
			continue
		}
		if len(evts) > 0 {
			expired++
			s.publish(ctx, evts...)
		}
	}
	return expired, nil
}
