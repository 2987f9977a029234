package ports

import (
	"context"
	"movesmart-route-service/internal/domain"
)

// Port: storage for logged trips on the analytics service side.
type TripRepository interface {
	InsertTrip(ctx context.Context, trip domain.TripRecord) error
	// Retrieve every logged trip.
	ListTrips(ctx context.Context) ([]domain.TripRecord, error)
}
