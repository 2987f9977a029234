package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"movesmart-route-service/internal/domain"
	"time"
)

var ErrNoRecommendation = errors.New("no recommended route")

// TripCompleter records the savings of a followed recommendation in the
// ledger and reports the trip to the analytics sink.
type TripCompleter struct {
	Ledger *SavingsLedger
	Logger *TripLogger
	Now    func() time.Time
}

// CompleteTrip records rec's recommended route as taken. The trip is logged
// even when the ledger write fails; the ledger error is returned.
func (c *TripCompleter) CompleteTrip(ctx context.Context, rec *Recommendation) (domain.SavingsDelta, error) {
	best, ok := rec.Best()
	if !ok {
		return domain.SavingsDelta{}, fmt.Errorf("complete trip: %w", ErrNoRecommendation)
	}
	nominalBest, _ := rec.NominalBestMinutes()

	raw, delta := c.Ledger.ComputeSavings(nominalBest, best.PredictedDurationMinutes)

	recorded, ledgerErr := c.Ledger.RecordTrip(ctx, nominalBest, best.PredictedDurationMinutes)
	if ledgerErr == nil {
		delta = recorded
	}

	userID, err := c.Ledger.UserID(ctx)
	if err != nil {
		log.Printf("complete trip: user id unavailable: %v", err)
	}

	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	c.Logger.LogTrip(BuildTripRecord(userID, rec, best, nominalBest, raw, delta, now()))

	if ledgerErr != nil {
		return delta, fmt.Errorf("complete trip: %w", ledgerErr)
	}
	return delta, nil
}
