package services

import (
	"context"
	"movesmart-route-service/internal/domain"
	"sync"
	"sync/atomic"
)

type OptimizeRequest struct {
	Routes      []domain.CandidateRoute
	Origin      *domain.Coordinates
	Destination *domain.Coordinates
}

// Recommendation is the outcome of one optimization request.
type Recommendation struct {
	Generation  uint64
	Origin      *domain.Coordinates
	Destination *domain.Coordinates
	Evaluations []domain.RouteEvaluation
	BestIndex   int
	HasBest     bool
}

// Best returns the recommended evaluation, if any.
func (r *Recommendation) Best() (domain.RouteEvaluation, bool) {
	if r == nil || !r.HasBest {
		return domain.RouteEvaluation{}, false
	}
	return r.Evaluations[r.BestIndex], true
}

// NominalBestMinutes returns the fastest nominal duration across all routes.
func (r *Recommendation) NominalBestMinutes() (float64, bool) {
	if r == nil || len(r.Evaluations) == 0 {
		return 0, false
	}
	best := r.Evaluations[0].NominalDurationMinutes
	for _, e := range r.Evaluations[1:] {
		if e.NominalDurationMinutes < best {
			best = e.NominalDurationMinutes
		}
	}
	return best, true
}

// Optimizer evaluates candidate routes and keeps the most recently issued
// request's result. Each call to Optimize takes a new generation; a result is
// applied only if no later request was issued while it was being evaluated.
type Optimizer struct {
	Evaluator *RouteEvaluator

	generation atomic.Uint64

	mu     sync.Mutex
	latest *Recommendation
}

func NewOptimizer(evaluator *RouteEvaluator) *Optimizer {
	return &Optimizer{Evaluator: evaluator}
}

// Optimize evaluates req and reports whether the result was applied as Latest.
func (o *Optimizer) Optimize(ctx context.Context, req OptimizeRequest) (*Recommendation, bool) {
	gen := o.generation.Add(1)

	evals := o.Evaluator.EvaluateRoutes(ctx, req.Routes, req.Destination)
	best, ok := SelectRecommended(evals)

	rec := &Recommendation{
		Generation:  gen,
		Origin:      req.Origin,
		Destination: req.Destination,
		Evaluations: evals,
		BestIndex:   best,
		HasBest:     ok,
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if gen != o.generation.Load() {
		return rec, false
	}
	o.latest = rec
	return rec, true
}

// Latest returns the last applied recommendation, or nil.
func (o *Optimizer) Latest() *Recommendation {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.latest
}
