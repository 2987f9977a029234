package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"movesmart-route-service/internal/adapters/prediction"
	"movesmart-route-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mockPredictor() *prediction.MockSegmentPredictor {
	return prediction.NewMockSegmentPredictor(map[string]domain.PredictionResult{
		"A": {PredictedSpeedKmh: 60, PredictedCongestion: 0.5},
		"B": {PredictedSpeedKmh: 30, PredictedCongestion: 0.1},
	})
}

func TestEvaluateRoutesSequential(t *testing.T) {
	p := mockPredictor()
	e := NewRouteEvaluator(p, 1)

	routes := []domain.CandidateRoute{singleLegRoute("Ngong Rd"), singleLegRoute("Langata Rd")}
	evals := e.EvaluateRoutes(context.Background(), routes, coords(36.83, -1.31))

	require.Len(t, evals, 2)
	for i, eval := range evals {
		assert.Equal(t, i, eval.RouteIndex)
		// A: 1 min, B: 4 min, C has no prediction: 5 min nominal.
		assert.InDelta(t, 10.0, eval.PredictedDurationMinutes, 1e-9)
		assert.InDelta(t, 12.0, eval.NominalDurationMinutes, 1e-9)
		assert.InDelta(t, 0.3, eval.MeanCongestion, 1e-9)
	}
	assert.Equal(t, "Route 2 (Langata Rd)", evals[1].RouteName)
	assert.Equal(t, []string{"A", "B", "C", "A", "B", "C"}, p.Calls())
}

func TestEvaluateRoutesParallelMatchesSequential(t *testing.T) {
	routes := []domain.CandidateRoute{singleLegRoute("Ngong Rd"), singleLegRoute("Langata Rd")}
	dest := coords(36.83, -1.31)

	seq := NewRouteEvaluator(mockPredictor(), 1).EvaluateRoutes(context.Background(), routes, dest)

	p := mockPredictor()
	par := NewRouteEvaluator(p, 4).EvaluateRoutes(context.Background(), routes, dest)

	assert.Equal(t, seq, par)
	assert.ElementsMatch(t, []string{"A", "B", "C", "A", "B", "C"}, p.Calls())
}

func TestEvaluateRoutesNoRoutes(t *testing.T) {
	evals := NewRouteEvaluator(mockPredictor(), 1).EvaluateRoutes(context.Background(), nil, nil)
	assert.Empty(t, evals)
}

type blockingPredictor struct{}

func (blockingPredictor) Predict(ctx context.Context, _ domain.Segment) (domain.PredictionResult, error) {
	<-ctx.Done()
	return domain.PredictionResult{}, ctx.Err()
}

func TestTimeoutPredictorBoundsEachCall(t *testing.T) {
	p := TimeoutPredictor{Next: blockingPredictor{}, Timeout: 10 * time.Millisecond}

	_, err := p.Predict(context.Background(), domain.Segment{Name: "A"})
	assert.True(t, errors.Is(err, context.DeadlineExceeded))

	// A timed-out segment falls back to its nominal duration.
	evals := NewRouteEvaluator(p, 1).EvaluateRoutes(context.Background(),
		[]domain.CandidateRoute{singleLegRoute("Ngong Rd")}, coords(36.83, -1.31))
	require.Len(t, evals, 1)
	assert.InDelta(t, 12.0, evals[0].PredictedDurationMinutes, 1e-9)
	assert.Equal(t, 3, evals[0].FallbackSteps)
}

func TestEvaluateRoutesLeglessRouteIsNotRecommended(t *testing.T) {
	routes := []domain.CandidateRoute{
		singleLegRoute("Ngong Rd"),
		{Summary: "broken", DurationSeconds: 1800},
	}

	evals := NewRouteEvaluator(mockPredictor(), 1).EvaluateRoutes(context.Background(), routes, coords(36.83, -1.31))
	require.Len(t, evals, 2)
	assert.InDelta(t, 30.0, evals[1].PredictedDurationMinutes, 1e-9)
	assert.InDelta(t, 30.0, evals[1].NominalDurationMinutes, 1e-9)

	best, ok := SelectRecommended(evals)
	require.True(t, ok)
	assert.Equal(t, 0, best)
}

func TestEvaluateRoutesDegradedModelServiceYieldsNominal(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	model, err := prediction.NewHTTPSegmentPredictor(srv.URL, srv.Client(), nil)
	require.NoError(t, err)

	routes := []domain.CandidateRoute{
		singleLegRoute("Ngong Rd"),
		routeNamed("Mbagathi Way"),
		{Summary: "unrouted", DurationSeconds: 1500},
		{Legs: []domain.Leg{
			{Steps: []domain.Step{step(coords(1, 1), "A", 1000, 180), step(coords(2, 2), "B", 1000, 240)}},
			{Steps: []domain.Step{step(coords(3, 3), "C", 1000, 300)}},
		}},
	}

	for _, parallelism := range []int{1, 3} {
		evals := NewRouteEvaluator(model, parallelism).EvaluateRoutes(context.Background(), routes, coords(4, 4))
		require.Len(t, evals, len(routes))

		fastestNominal := 0
		for i, e := range evals {
			assert.InDelta(t, e.NominalDurationMinutes, e.PredictedDurationMinutes, 1e-9, "route %d", i)
			assert.Equal(t, 0, e.PredictedSegments)
			if e.NominalDurationMinutes < evals[fastestNominal].NominalDurationMinutes {
				fastestNominal = i
			}
		}
		assert.InDelta(t, 12.0, evals[3].PredictedDurationMinutes, 1e-9)

		best, ok := SelectRecommended(evals)
		require.True(t, ok)
		assert.Equal(t, fastestNominal, best)
		assert.Equal(t, 1, best)
	}
	assert.Positive(t, calls.Load())
}
