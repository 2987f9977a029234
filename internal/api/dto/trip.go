package dto

import (
	"movesmart-route-service/internal/domain"
	"time"
)

type LogTripRequest struct {
	UserID              string    `json:"userId"`
	Origin              string    `json:"origin"`
	Destination         string    `json:"destination"`
	TimeSavedMinutes    float64   `json:"timeSavedMinutes"`
	FuelSavedLiters     float64   `json:"fuelSavedLiters"`
	AIRouteTime         float64   `json:"aiRouteTime"`
	StandardRouteTime   float64   `json:"standardRouteTime"`
	RouteName           string    `json:"routeName"`
	PredictedCongestion float64   `json:"predictedCongestion"`
	Timestamp           time.Time `json:"timestamp"`
}

func LogTripRequestFromDomain(t domain.TripRecord) LogTripRequest {
	return LogTripRequest{
		UserID:              t.UserID,
		Origin:              t.Origin,
		Destination:         t.Destination,
		TimeSavedMinutes:    t.TimeSavedMinutes,
		FuelSavedLiters:     t.FuelSavedLiters,
		AIRouteTime:         t.AIRouteTime,
		StandardRouteTime:   t.StandardRouteTime,
		RouteName:           t.RouteName,
		PredictedCongestion: t.PredictedCongestion,
		Timestamp:           t.Timestamp,
	}
}

func (r LogTripRequest) ToDomain() domain.TripRecord {
	return domain.TripRecord{
		UserID:              r.UserID,
		Origin:              r.Origin,
		Destination:         r.Destination,
		TimeSavedMinutes:    r.TimeSavedMinutes,
		FuelSavedLiters:     r.FuelSavedLiters,
		AIRouteTime:         r.AIRouteTime,
		StandardRouteTime:   r.StandardRouteTime,
		RouteName:           r.RouteName,
		PredictedCongestion: r.PredictedCongestion,
		Timestamp:           r.Timestamp,
	}
}
