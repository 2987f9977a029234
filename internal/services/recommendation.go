package services

import "movesmart-route-service/internal/domain"

// SelectRecommended returns the position in evals of the route with the
// smallest predicted duration. Ties go to the earliest entry. ok is false
// when evals is empty.
func SelectRecommended(evals []domain.RouteEvaluation) (best int, ok bool) {
	if len(evals) == 0 {
		return -1, false
	}

	best = 0
	for i := 1; i < len(evals); i++ {
		if evals[i].PredictedDurationMinutes < evals[best].PredictedDurationMinutes {
			best = i
		}
	}
	return best, true
}
