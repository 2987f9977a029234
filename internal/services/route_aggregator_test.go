package services

import (
	"errors"
	"testing"

	"movesmart-route-service/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestAggregateRouteUsesPredictedSpeed(t *testing.T) {
	route := domain.CandidateRoute{Legs: []domain.Leg{{Steps: []domain.Step{
		step(coords(1, 1), "A", 5000, 600),
	}}}}
	tasks := CollectSegments(route, coords(2, 2))
	outcomes := []SegmentOutcome{{Prediction: domain.PredictionResult{PredictedSpeedKmh: 30, PredictedCongestion: 0.6}}}

	eval := AggregateRoute(0, route, tasks, outcomes)

	assert.InDelta(t, 10.0, eval.PredictedDurationMinutes, 1e-9)
	assert.InDelta(t, 10.0, eval.NominalDurationMinutes, 1e-9)
	assert.InDelta(t, 0.6, eval.MeanCongestion, 1e-9)
	assert.Equal(t, 1, eval.PredictedSegments)
	assert.Equal(t, 0, eval.FallbackSteps)
}

func TestAggregateRouteAllFailuresEqualsNominal(t *testing.T) {
	route := singleLegRoute("Mombasa Rd")
	tasks := CollectSegments(route, coords(36.83, -1.31))
	outcomes := make([]SegmentOutcome, len(tasks))
	for i := range outcomes {
		outcomes[i] = SegmentOutcome{Err: errors.New("boom")}
	}

	eval := AggregateRoute(1, route, tasks, outcomes)

	assert.InDelta(t, 12.0, eval.PredictedDurationMinutes, 1e-9)
	assert.InDelta(t, 12.0, eval.NominalDurationMinutes, 1e-9)
	assert.Equal(t, 0.0, eval.MeanCongestion)
	assert.Equal(t, 3, eval.FallbackSteps)
	assert.Equal(t, "Route 2 (Mombasa Rd)", eval.RouteName)
}

func TestAggregateRouteCongestionCountsOnlyUsablePredictions(t *testing.T) {
	route := singleLegRoute("Thika Rd")
	tasks := CollectSegments(route, coords(36.83, -1.31))
	outcomes := []SegmentOutcome{
		{Prediction: domain.PredictionResult{PredictedSpeedKmh: 60, PredictedCongestion: 0.2}},
		{Prediction: domain.PredictionResult{PredictedSpeedKmh: 0, PredictedCongestion: 0.9}},
		{Prediction: domain.PredictionResult{PredictedSpeedKmh: 60, PredictedCongestion: 0.4}},
	}

	eval := AggregateRoute(0, route, tasks, outcomes)

	// 1 km at 60 + 4 min nominal + 5 km at 60.
	assert.InDelta(t, 1+4+5, eval.PredictedDurationMinutes, 1e-9)
	assert.InDelta(t, 0.3, eval.MeanCongestion, 1e-9)
	assert.Equal(t, 2, eval.PredictedSegments)
	assert.Equal(t, 1, eval.FallbackSteps)
}

func TestAggregateRouteMissingOutcomesFallBack(t *testing.T) {
	route := singleLegRoute("Waiyaki Way")
	tasks := CollectSegments(route, coords(36.83, -1.31))

	eval := AggregateRoute(0, route, tasks, nil)

	assert.InDelta(t, 12.0, eval.PredictedDurationMinutes, 1e-9)
	assert.Equal(t, 3, eval.FallbackSteps)
}

func TestAggregateRouteTwoLegExampleAllFailures(t *testing.T) {
	route := domain.CandidateRoute{Legs: []domain.Leg{
		{Summary: "Kenyatta Ave", Steps: []domain.Step{
			step(coords(36.80, -1.28), "Kenyatta Ave", 1500, 180),
			step(coords(36.81, -1.29), "Moi Ave", 2000, 240),
		}},
		{Steps: []domain.Step{
			step(coords(36.82, -1.30), "Haile Selassie Ave", 2500, 300),
		}},
	}}
	tasks := CollectSegments(route, coords(36.83, -1.31))
	outcomes := make([]SegmentOutcome, len(tasks))
	for i := range outcomes {
		outcomes[i] = SegmentOutcome{Err: errors.New("model unavailable")}
	}

	eval := AggregateRoute(0, route, tasks, outcomes)

	assert.InDelta(t, 12.0, eval.PredictedDurationMinutes, 1e-9)
	assert.InDelta(t, 12.0, eval.NominalDurationMinutes, 1e-9)
	assert.Equal(t, 3, eval.FallbackSteps)
	assert.Equal(t, "Route 1 (Kenyatta Ave)", eval.RouteName)
}

func TestAggregateRouteWithoutStepsUsesReportedDuration(t *testing.T) {
	tests := []struct {
		name  string
		route domain.CandidateRoute
		want  float64
	}{
		{name: "no legs", route: domain.CandidateRoute{Summary: "broken", DurationSeconds: 1800}, want: 30},
		{name: "empty leg", route: domain.CandidateRoute{Legs: []domain.Leg{{Summary: "x"}}, DurationSeconds: 600}, want: 10},
		{name: "negative duration", route: domain.CandidateRoute{DurationSeconds: -60}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eval := AggregateRoute(0, tt.route, CollectSegments(tt.route, coords(1, 1)), nil)
			assert.InDelta(t, tt.want, eval.NominalDurationMinutes, 1e-9)
			assert.InDelta(t, tt.want, eval.PredictedDurationMinutes, 1e-9)
			assert.Equal(t, 0.0, eval.MeanCongestion)
		})
	}
}
