package services

import (
	"movesmart-route-service/internal/domain"
	"slices"
	"strings"
)

const DefaultTopRoutes = 5

// SummarizeTrips aggregates logged trips into city-wide analytics. Negative
// raw savings do not reduce the aggregates.
func SummarizeTrips(trips []domain.TripRecord, topN int) domain.UrbanAnalytics {
	out := domain.UrbanAnalytics{
		TotalLoggedTrips:  len(trips),
		TopRoutesBySaving: []domain.RouteSaving{},
	}
	if len(trips) == 0 {
		return out
	}

	var congestionSum float64
	byRoute := make(map[string]float64)
	for _, t := range trips {
		saved := max(t.TimeSavedMinutes, 0)
		out.AggregateTimeSavedMinutes += saved
		out.AggregateFuelSavedLiters += max(t.FuelSavedLiters, 0)
		congestionSum += t.PredictedCongestion

		if saved > 0 {
			byRoute[t.RouteName] += saved
		}
	}
	out.AverageCongestionIndex = congestionSum / float64(len(trips))

	routes := make([]domain.RouteSaving, 0, len(byRoute))
	for name, v := range byRoute {
		routes = append(routes, domain.RouteSaving{Name: name, Value: v})
	}
	// Ties break by name so responses are stable.
	slices.SortFunc(routes, func(a, b domain.RouteSaving) int {
		if a.Value > b.Value {
			return -1
		}
		if a.Value < b.Value {
			return 1
		}
		return strings.Compare(a.Name, b.Name)
	})
	if topN > 0 && len(routes) > topN {
		routes = routes[:topN]
	}
	out.TopRoutesBySaving = routes

	return out
}
