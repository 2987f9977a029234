package directions

import (
	"encoding/json"
	"fmt"
	"io"
	"movesmart-route-service/internal/domain"
	"strings"
)

type mapboxResponse struct {
	Routes []struct {
		Duration float64 `json:"duration"`
		Distance float64 `json:"distance"`
		Legs     []struct {
			Summary string `json:"summary"`
			Steps   []struct {
				Maneuver *struct {
					Location []float64 `json:"location"`
				} `json:"maneuver"`
				Name     string  `json:"name"`
				Distance float64 `json:"distance"`
				Duration float64 `json:"duration"`
			} `json:"steps"`
		} `json:"legs"`
	} `json:"routes"`
	Waypoints []struct {
		Location []float64 `json:"location"`
	} `json:"waypoints"`
}

// Directions is a decoded multi-route navigation result.
type Directions struct {
	Routes      []domain.CandidateRoute
	Origin      *domain.Coordinates
	Destination *domain.Coordinates
}

// Decode reads a Mapbox Directions API style payload. Maneuver locations that
// are not [lon, lat] pairs decode as absent. Origin and destination are the
// first and last waypoints when present.
func Decode(r io.Reader) (*Directions, error) {
	var raw mapboxResponse
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode directions: %w", err)
	}

	out := &Directions{Routes: make([]domain.CandidateRoute, 0, len(raw.Routes))}
	for _, rr := range raw.Routes {
		route := domain.CandidateRoute{
			DurationSeconds: rr.Duration,
			DistanceMeters:  rr.Distance,
			Legs:            make([]domain.Leg, 0, len(rr.Legs)),
		}

		summaries := make([]string, 0, len(rr.Legs))
		for _, rl := range rr.Legs {
			leg := domain.Leg{Summary: rl.Summary, Steps: make([]domain.Step, 0, len(rl.Steps))}
			for _, rs := range rl.Steps {
				step := domain.Step{
					Name:            rs.Name,
					DistanceMeters:  rs.Distance,
					DurationSeconds: rs.Duration,
				}
				if rs.Maneuver != nil {
					step.Location = toCoordinates(rs.Maneuver.Location)
				}
				leg.Steps = append(leg.Steps, step)
			}
			route.Legs = append(route.Legs, leg)
			if rl.Summary != "" {
				summaries = append(summaries, rl.Summary)
			}
		}
		route.Summary = strings.Join(summaries, "; ")

		out.Routes = append(out.Routes, route)
	}

	if n := len(raw.Waypoints); n > 0 {
		out.Origin = toCoordinates(raw.Waypoints[0].Location)
		if n > 1 {
			out.Destination = toCoordinates(raw.Waypoints[n-1].Location)
		}
	}

	return out, nil
}

func toCoordinates(loc []float64) *domain.Coordinates {
	if len(loc) != 2 {
		return nil
	}
	c := domain.Coordinates{Lon: loc[0], Lat: loc[1]}
	if !c.Valid() {
		return nil
	}
	return &c
}
