package ports

import (
	"context"
	"movesmart-route-service/internal/domain"
)

// Remote destination for completed trip records.
type TripSink interface {
	LogTrip(ctx context.Context, trip domain.TripRecord) error
}

// Source of city-wide analytics for reporting views.
type UrbanAnalyticsProvider interface {
	UrbanAnalytics(ctx context.Context) (domain.UrbanAnalytics, error)
}
