package advisor

import (
	"testing"
	"time"

	"github.com/urbansight/urbansight/internal/intelligence/safetynet"
)

// newTestEngine builds a loaded engine around one hand-built tree splitting
// on lighting_score with an identity scaler, so predictions are easy to
// reason about: lighting ≤ 5 scores 0.3, above scores 0.8.
func newTestEngine(t *testing.T) *safetynet.Engine {
	t.Helper()

	model := &safetynet.ModelArtifact{
		Version:      "test",
		FeatureNames: safetynet.FeatureNames[:],
		Trees: []safetynet.Tree{{Nodes: []safetynet.TreeNode{
			{Feature: 2, Threshold: 5.0, Left: 1, Right: 2, Value: 0.5},
			{Feature: -1, Left: -1, Right: -1, Value: 0.3},
			{Feature: -1, Left: -1, Right: -1, Value: 0.8},
		}}},
	}
	scaler := &safetynet.ScalerArtifact{
		FeatureNames: safetynet.FeatureNames[:],
		Mean:         make([]float64, safetynet.NumFeatures),
		Std:          []float64{1, 1, 1, 1, 1, 1, 1, 1},
	}
	return safetynet.NewEngine(model, scaler, nil, nil)
}

// fixedClock pins the wall clock to a Wednesday afternoon.
func fixedClock() time.Time {
	return time.Date(2024, 3, 13, 15, 0, 0, 0, time.UTC)
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(newTestEngine(t), nil, WithClock(fixedClock))
}

func newFallbackService(t *testing.T) *Service {
	t.Helper()
	return NewService(safetynet.NewFallbackEngine(nil, nil), nil, WithClock(fixedClock))
}
