package services

import (
	"context"
	"errors"
	"log"
	"movesmart-route-service/internal/domain"
	"movesmart-route-service/internal/platform/obs"
	"movesmart-route-service/internal/ports"
	"time"

	"golang.org/x/sync/errgroup"
)

var errPredictionRejected = errors.New("predicted speed must be positive")

// RouteEvaluator resolves each route's segment task queue against a predictor
// and aggregates the results.
//
// Routes are evaluated one at a time in index order. Within a route, segments
// are predicted sequentially when Parallelism <= 1, otherwise in a bounded
// batch of at most Parallelism in-flight calls; results are joined in task
// order before aggregation either way.
type RouteEvaluator struct {
	Predictor   ports.SegmentPredictor
	Parallelism int
}

func NewRouteEvaluator(predictor ports.SegmentPredictor, parallelism int) *RouteEvaluator {
	return &RouteEvaluator{Predictor: predictor, Parallelism: parallelism}
}

// EvaluateRoutes returns one RouteEvaluation per route, in route order.
// Prediction failures never abort evaluation.
func (e *RouteEvaluator) EvaluateRoutes(
	ctx context.Context,
	routes []domain.CandidateRoute,
	destination *domain.Coordinates,
) []domain.RouteEvaluation {
	defer obs.Time(ctx, "evaluate.routes")(nil)

	evals := make([]domain.RouteEvaluation, 0, len(routes))
	for i, route := range routes {
		tasks := CollectSegments(route, destination)
		outcomes := e.resolve(ctx, i, tasks)
		evals = append(evals, AggregateRoute(i, route, tasks, outcomes))
	}
	return evals
}

func (e *RouteEvaluator) resolve(ctx context.Context, routeIndex int, tasks []SegmentTask) []SegmentOutcome {
	outcomes := make([]SegmentOutcome, len(tasks))

	if e.Parallelism <= 1 {
		for i, task := range tasks {
			if task.Segment != nil {
				outcomes[i] = e.predict(ctx, routeIndex, task)
			}
		}
		return outcomes
	}

	var g errgroup.Group
	g.SetLimit(e.Parallelism)
	for i, task := range tasks {
		if task.Segment == nil {
			continue
		}
		g.Go(func() error {
			outcomes[i] = e.predict(ctx, routeIndex, task)
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

func (e *RouteEvaluator) predict(ctx context.Context, routeIndex int, task SegmentTask) SegmentOutcome {
	if e.Predictor == nil {
		return SegmentOutcome{Err: errors.New("no predictor configured")}
	}
	if err := ctx.Err(); err != nil {
		return SegmentOutcome{Err: err}
	}

	res, err := e.Predictor.Predict(ctx, *task.Segment)
	if err == nil && !res.Valid() {
		err = errPredictionRejected
	}
	if err != nil {
		log.Printf(
			"req_id=%s predict fallback route=%d leg=%d step=%d reason=%v",
			obs.RequestID(ctx), routeIndex, task.LegIndex, task.StepIndex, err,
		)
		return SegmentOutcome{Prediction: res, Err: err}
	}

	return SegmentOutcome{Prediction: res}
}

// TimeoutPredictor bounds every call to Next. A zero Timeout disables the bound.
type TimeoutPredictor struct {
	Next    ports.SegmentPredictor
	Timeout time.Duration
}

func (p TimeoutPredictor) Predict(ctx context.Context, seg domain.Segment) (domain.PredictionResult, error) {
	if p.Timeout <= 0 {
		return p.Next.Predict(ctx, seg)
	}

	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	return p.Next.Predict(ctx, seg)
}
