package services

import "movesmart-route-service/internal/domain"

func coords(lon, lat float64) *domain.Coordinates {
	return &domain.Coordinates{Lon: lon, Lat: lat}
}

func step(loc *domain.Coordinates, name string, meters, seconds float64) domain.Step {
	return domain.Step{Location: loc, Name: name, DistanceMeters: meters, DurationSeconds: seconds}
}

// singleLegRoute builds A(1 km, 3 min) -> B(2 km, 4 min) -> C(5 km, 5 min).
func singleLegRoute(summary string) domain.CandidateRoute {
	return domain.CandidateRoute{
		Summary: summary,
		Legs: []domain.Leg{{
			Summary: summary,
			Steps: []domain.Step{
				step(coords(36.80, -1.28), "A", 1000, 180),
				step(coords(36.81, -1.29), "B", 2000, 240),
				step(coords(36.82, -1.30), "C", 5000, 300),
			},
		}},
	}
}
