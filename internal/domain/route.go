package domain

import (
	"fmt"
	"math"
)

// Represents a single maneuver in a turn-by-turn directions result.
// Location is nil when the navigation widget could not resolve a maneuver point;
// such steps contribute their nominal duration without producing a Segment.
type Step struct {
	Location        *Coordinates
	Name            string
	DistanceMeters  float64
	DurationSeconds float64
}

// Represents the span between two user-specified waypoints.
type Leg struct {
	Summary string
	Steps   []Step
}

// Represents one alternative route produced by the navigation widget.
// A CandidateRoute is immutable for the lifetime of one evaluation.
type CandidateRoute struct {
	Legs            []Leg
	DurationSeconds float64
	DistanceMeters  float64
	Summary         string
}

// Name returns the display label "Route N (summary)" for the route at index.
func (r CandidateRoute) Name(index int) string {
	summary := r.Summary
	if len(r.Legs) > 0 && r.Legs[0].Summary != "" {
		summary = r.Legs[0].Summary
	}
	return fmt.Sprintf("Route %d (%s)", index+1, summary)
}

// A directed point-to-point span between consecutive maneuvers.
// Segments are derived per evaluation and never persisted.
type Segment struct {
	Start      Coordinates
	End        Coordinates
	Name       string
	DistanceKm float64
}

// Model output for one segment. A non-positive speed invalidates the prediction.
type PredictionResult struct {
	PredictedSpeedKmh   float64
	PredictedCongestion float64
}

// Valid reports whether the prediction can be used in place of the nominal duration.
func (p PredictionResult) Valid() bool {
	return p.PredictedSpeedKmh > 0 && !math.IsNaN(p.PredictedSpeedKmh) && !math.IsInf(p.PredictedSpeedKmh, 0)
}

// The predicted totals for one CandidateRoute within one optimization request.
// Durations are fractional minutes; rounding happens only at presentation.
type RouteEvaluation struct {
	RouteIndex               int
	RouteName                string
	PredictedDurationMinutes float64
	NominalDurationMinutes   float64
	MeanCongestion           float64
	PredictedSegments        int
	FallbackSteps            int
}

func (e RouteEvaluation) PredictedRounded() int {
	return int(math.Round(e.PredictedDurationMinutes))
}

func (e RouteEvaluation) NominalRounded() int {
	return int(math.Round(e.NominalDurationMinutes))
}
