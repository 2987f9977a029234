package ports

import (
	"context"
	"movesmart-route-service/internal/domain"
)

// Contract for obtaining a model-predicted speed/congestion for one segment.
type SegmentPredictor interface {
	// Return the prediction for seg. Any error means the caller falls back
	// to the step's nominal duration.
	Predict(ctx context.Context, seg domain.Segment) (domain.PredictionResult, error)
}
