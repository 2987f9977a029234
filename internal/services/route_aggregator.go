package services

import (
	"movesmart-route-service/internal/domain"
)

// SegmentOutcome is the prediction obtained for one SegmentTask.
type SegmentOutcome struct {
	Prediction domain.PredictionResult
	Err        error
}

func (o SegmentOutcome) usable() bool {
	return o.Err == nil && o.Prediction.Valid()
}

// AggregateRoute sums per-segment predictions into route totals.
//
// outcomes is aligned with tasks by index. A task without a segment, without
// an outcome, or with an unusable outcome contributes its nominal duration.
// Only usable predictions count toward the congestion mean. Accumulation stays
// in fractional minutes.
//
// A route without any steps degrades to its reported duration for both totals.
func AggregateRoute(
	routeIndex int,
	route domain.CandidateRoute,
	tasks []SegmentTask,
	outcomes []SegmentOutcome,
) domain.RouteEvaluation {
	eval := domain.RouteEvaluation{
		RouteIndex: routeIndex,
		RouteName:  route.Name(routeIndex),
	}

	if stepCount(route) == 0 {
		eval.NominalDurationMinutes = nonNegative(route.DurationSeconds) / 60
		eval.PredictedDurationMinutes = eval.NominalDurationMinutes
		return eval
	}

	var congestionSum float64
	for i, task := range tasks {
		nominal := task.NominalSeconds / 60
		eval.NominalDurationMinutes += nominal

		if task.Segment == nil || i >= len(outcomes) || !outcomes[i].usable() {
			eval.PredictedDurationMinutes += nominal
			eval.FallbackSteps++
			continue
		}

		p := outcomes[i].Prediction
		eval.PredictedDurationMinutes += (task.Segment.DistanceKm / p.PredictedSpeedKmh) * 60
		congestionSum += p.PredictedCongestion
		eval.PredictedSegments++
	}

	if eval.PredictedSegments > 0 {
		eval.MeanCongestion = congestionSum / float64(eval.PredictedSegments)
	}

	return eval
}
