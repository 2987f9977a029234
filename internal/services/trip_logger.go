package services

import (
	"context"
	"log"
	"movesmart-route-service/internal/domain"
	"movesmart-route-service/internal/ports"
	"sync"
	"time"
)

// TripLogger sends one record per completed route evaluation in the
// background. Failures are logged and dropped; callers never wait on the sink.
type TripLogger struct {
	sink    ports.TripSink
	timeout time.Duration

	wg sync.WaitGroup
}

func NewTripLogger(sink ports.TripSink, timeout time.Duration) *TripLogger {
	return &TripLogger{sink: sink, timeout: timeout}
}

// LogTrip schedules trip for delivery and returns immediately.
func (l *TripLogger) LogTrip(trip domain.TripRecord) {
	if l == nil || l.sink == nil {
		return
	}

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()

		ctx := context.Background()
		if l.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, l.timeout)
			defer cancel()
		}

		if err := l.sink.LogTrip(ctx, trip); err != nil {
			log.Printf("trip log failed user=%s route=%q err=%v", trip.UserID, trip.RouteName, err)
		}
	}()
}

// Wait blocks until every scheduled record was attempted.
func (l *TripLogger) Wait() {
	l.wg.Wait()
}

// BuildTripRecord assembles the record for the recommended route. rawSaved is
// the unfloored time difference.
func BuildTripRecord(
	userID string,
	rec *Recommendation,
	best domain.RouteEvaluation,
	nominalBestMinutes float64,
	rawSaved float64,
	delta domain.SavingsDelta,
	at time.Time,
) domain.TripRecord {
	trip := domain.TripRecord{
		UserID:              userID,
		TimeSavedMinutes:    rawSaved,
		FuelSavedLiters:     delta.FuelSavedLiters,
		AIRouteTime:         best.PredictedDurationMinutes,
		StandardRouteTime:   nominalBestMinutes,
		RouteName:           best.RouteName,
		PredictedCongestion: best.MeanCongestion,
		Timestamp:           at.UTC(),
	}
	if rec.Origin != nil {
		trip.Origin = rec.Origin.String()
	}
	if rec.Destination != nil {
		trip.Destination = rec.Destination.String()
	}
	return trip
}
