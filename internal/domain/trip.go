package domain

import "time"

// One completed route evaluation as reported to the analytics sink.
// TimeSavedMinutes carries the raw difference and may be negative.
type TripRecord struct {
	UserID              string
	Origin              string
	Destination         string
	TimeSavedMinutes    float64
	FuelSavedLiters     float64
	AIRouteTime         float64
	StandardRouteTime   float64
	RouteName           string
	PredictedCongestion float64
	Timestamp           time.Time
}

// City-wide aggregates served to reporting views.
type UrbanAnalytics struct {
	AggregateTimeSavedMinutes float64
	AggregateFuelSavedLiters  float64
	AverageCongestionIndex    float64
	TotalLoggedTrips          int
	TopRoutesBySaving         []RouteSaving
}

type RouteSaving struct {
	Name  string
	Value float64
}
