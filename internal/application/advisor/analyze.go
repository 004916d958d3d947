package advisor

import (
	"context"

	"github.com/urbansight/urbansight/internal/domain/safety"
	"github.com/urbansight/urbansight/internal/intelligence/safetynet"
)

// AnalyzeResult is the full response of a point analysis.  SafetyScore is the
// raw model output before personalization; category and color derive from the
// adjusted score.
type AnalyzeResult struct {
	SafetyScore        float64         `json:"safety_score"`
	AdjustedScore      float64         `json:"adjusted_score"`
	Category           safety.Category `json:"category"`
	ColorCode          string          `json:"color_code"`
	Explanation        string          `json:"explanation"`
	TopFeatures        []string        `json:"top_features"`
	Recommendations    []string        `json:"recommendations"`
	AdjustmentsApplied []string        `json:"adjustments_applied"`
}

// Analyze scores a single location and personalizes the result for the given
// traveler profile.  The pipeline is schema resolution → model inference →
// personalization → attribution → recommendation lookup; attribution explains
// the personalized score the caller will act on.
func (s *Service) Analyze(ctx context.Context, loc safety.Features, profile safety.Profile) AnalyzeResult {
	_ = ctx // no blocking work; kept for interface symmetry with the transport layer

	f := safetynet.Resolve(loc, s.now())
	x := safetynet.Vectorize(f)

	base := s.engine.Predict(x)
	adj := safety.Personalize(base, profile, f)
	category, color := safety.Categorize(adj.AdjustedScore)
	expl := s.engine.Explain(x, adj.AdjustedScore)

	return AnalyzeResult{
		SafetyScore:        safety.Round4(base),
		AdjustedScore:      adj.AdjustedScore,
		Category:           category,
		ColorCode:          color,
		Explanation:        expl.Explanation,
		TopFeatures:        expl.TopFeatures,
		Recommendations:    Recommendations(category),
		AdjustmentsApplied: adj.AdjustmentsApplied,
	}
}
