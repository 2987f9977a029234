package prediction

import (
	"context"
	"fmt"
	"movesmart-route-service/internal/domain"
	"sync"
)

// MockSegmentPredictor returns canned predictions keyed by segment name and
// records the order of requested segments.
type MockSegmentPredictor struct {
	mu    sync.Mutex
	m     map[string]domain.PredictionResult
	calls []string
}

func NewMockSegmentPredictor(byName map[string]domain.PredictionResult) *MockSegmentPredictor {
	m := make(map[string]domain.PredictionResult, len(byName))
	for k, v := range byName {
		m[k] = v
	}
	return &MockSegmentPredictor{m: m}
}

func (p *MockSegmentPredictor) Predict(ctx context.Context, seg domain.Segment) (domain.PredictionResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls = append(p.calls, seg.Name)

	r, ok := p.m[seg.Name]
	if !ok {
		return domain.PredictionResult{}, fmt.Errorf("no prediction for segment %q", seg.Name)
	}
	return r, nil
}

// Calls returns the names of the segments requested so far, in call order.
func (p *MockSegmentPredictor) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]string, len(p.calls))
	copy(out, p.calls)
	return out
}
