package prediction

import (
	"context"
	"errors"
	"fmt"
	"movesmart-route-service/internal/domain"
	"movesmart-route-service/internal/platform/httpx"
	"movesmart-route-service/internal/platform/obs"
	"movesmart-route-service/internal/platform/timeutil"
	"net/http"
)

// ErrInvalidPrediction marks a response without a usable positive speed.
var ErrInvalidPrediction = errors.New("invalid prediction")

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// ContextFeatures are attached to every request. They stand in for signal
// that is not available client-side and are not measured values.
type ContextFeatures struct {
	FreeFlowSpeed  float64
	CongestionLag1 float64
	SpeedLag1      float64
}

func DefaultContextFeatures() ContextFeatures {
	return ContextFeatures{FreeFlowSpeed: 60, CongestionLag1: 0.2, SpeedLag1: 50}
}

type predictRequest struct {
	Timestamp      string  `json:"timestamp"`
	StartCoords    string  `json:"start_coords"`
	EndCoords      string  `json:"end_coords"`
	Name           string  `json:"name"`
	FreeFlowSpeed  float64 `json:"free_flow_speed"`
	CongestionLag1 float64 `json:"congestion_lag_1"`
	SpeedLag1      float64 `json:"speed_lag_1"`
}

type predictResponse struct {
	PredictedSpeed      *float64 `json:"predicted_speed"`
	PredictedCongestion *float64 `json:"predicted_congestion"`
}

// HTTPSegmentPredictor implements SegmentPredictor against the model
// service's POST /predict endpoint.
//
// One request is issued per call and never retried; the caller decides how
// to degrade. The predictor is safe for concurrent use.
type HTTPSegmentPredictor struct {
	model    *httpx.Client
	clock    timeutil.Clock
	features ContextFeatures
}

// NewHTTPSegmentPredictor builds a predictor for baseURL. A nil client uses a
// client without its own timeout.
func NewHTTPSegmentPredictor(baseURL string, client *http.Client, clock timeutil.Clock) (*HTTPSegmentPredictor, error) {
	model, err := httpx.New(baseURL, client, httpx.NoRetry)
	if err != nil {
		return nil, fmt.Errorf("prediction client: %w", err)
	}
	if clock == nil {
		clock = timeutil.RealClock{}
	}

	return &HTTPSegmentPredictor{
		model:    model,
		clock:    clock,
		features: DefaultContextFeatures(),
	}, nil
}

// WithFeatures replaces the contextual features sent with each request.
func (p *HTTPSegmentPredictor) WithFeatures(f ContextFeatures) *HTTPSegmentPredictor {
	p.features = f
	return p
}

func (p *HTTPSegmentPredictor) Predict(ctx context.Context, seg domain.Segment) (_ domain.PredictionResult, err error) {
	defer obs.Time(ctx, "model.Predict")(&err)

	if !seg.Start.Valid() || !seg.End.Valid() {
		return domain.PredictionResult{}, fmt.Errorf("predict %q: malformed coordinates", seg.Name)
	}

	in := predictRequest{
		Timestamp:      p.clock.Now().UTC().Format(timestampLayout),
		StartCoords:    seg.Start.String(),
		EndCoords:      seg.End.String(),
		Name:           seg.Name,
		FreeFlowSpeed:  p.features.FreeFlowSpeed,
		CongestionLag1: p.features.CongestionLag1,
		SpeedLag1:      p.features.SpeedLag1,
	}

	var decoded predictResponse
	if err := p.model.Do(ctx, http.MethodPost, "/predict", in, &decoded); err != nil {
		return domain.PredictionResult{}, fmt.Errorf("predict %q: %w", seg.Name, err)
	}

	if decoded.PredictedSpeed == nil {
		return domain.PredictionResult{}, fmt.Errorf("predict %q: missing predicted_speed: %w", seg.Name, ErrInvalidPrediction)
	}

	result := domain.PredictionResult{PredictedSpeedKmh: *decoded.PredictedSpeed}
	if decoded.PredictedCongestion != nil {
		result.PredictedCongestion = *decoded.PredictedCongestion
	}

	if !result.Valid() {
		return result, fmt.Errorf("predict %q: speed=%v: %w", seg.Name, result.PredictedSpeedKmh, ErrInvalidPrediction)
	}

	return result, nil
}
