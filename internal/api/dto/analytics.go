package dto

import "movesmart-route-service/internal/domain"

type RouteSavingResponse struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type UrbanAnalyticsResponse struct {
	AggregateTimeSavedMinutes float64               `json:"aggregate_time_saved_minutes"`
	AggregateFuelSavedLiters  float64               `json:"aggregate_fuel_saved_liters"`
	AverageCongestionIndex    float64               `json:"average_congestion_index"`
	TotalLoggedTrips          int                   `json:"total_logged_trips"`
	TopRoutesBySaving         []RouteSavingResponse `json:"top_routes_by_saving"`
}

func UrbanAnalyticsFromDomain(a domain.UrbanAnalytics) UrbanAnalyticsResponse {
	res := UrbanAnalyticsResponse{
		AggregateTimeSavedMinutes: a.AggregateTimeSavedMinutes,
		AggregateFuelSavedLiters:  a.AggregateFuelSavedLiters,
		AverageCongestionIndex:    a.AverageCongestionIndex,
		TotalLoggedTrips:          a.TotalLoggedTrips,
		TopRoutesBySaving:         make([]RouteSavingResponse, 0, len(a.TopRoutesBySaving)),
	}
	for _, r := range a.TopRoutesBySaving {
		res.TopRoutesBySaving = append(res.TopRoutesBySaving, RouteSavingResponse{Name: r.Name, Value: r.Value})
	}
	return res
}

func (r UrbanAnalyticsResponse) ToDomain() domain.UrbanAnalytics {
	a := domain.UrbanAnalytics{
		AggregateTimeSavedMinutes: r.AggregateTimeSavedMinutes,
		AggregateFuelSavedLiters:  r.AggregateFuelSavedLiters,
		AverageCongestionIndex:    r.AverageCongestionIndex,
		TotalLoggedTrips:          r.TotalLoggedTrips,
		TopRoutesBySaving:         make([]domain.RouteSaving, 0, len(r.TopRoutesBySaving)),
	}
	for _, t := range r.TopRoutesBySaving {
		a.TopRoutesBySaving = append(a.TopRoutesBySaving, domain.RouteSaving{Name: t.Name, Value: t.Value})
	}
	return a
}
