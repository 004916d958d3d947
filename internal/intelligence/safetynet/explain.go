package safetynet

import (
	"fmt"
	"sort"
)

// Explanation is the natural-language attribution for a single prediction.
type Explanation struct {
	Explanation string   `json:"explanation"`
	TopFeatures []string `json:"top_features"`
}

// displayNames maps internal field names to the wording used in explanations.
var displayNames = map[string]string{
	"hour":                   "time of day",
	"day_of_week":            "day of week",
	"lighting_score":         "street lighting",
	"crowd_density":          "crowd density",
	"historical_crime_index": "historical crime rate",
	"police_dist_km":         "distance from nearest police station",
	"is_isolated":            "area isolation",
	"near_transit":           "proximity to transit hub",
}

// Contributions computes a signed per-feature contribution for a single
// prediction using decision-path attribution: along each tree's decision
// path, the change in node value at a split is credited to the feature that
// split routed on, then contributions are averaged across trees.  The result
// is deterministic; its absolute values rank feature importance for this one
// prediction.
func (e *Engine) Contributions(x [NumFeatures]float64) [NumFeatures]float64 {
	var contrib [NumFeatures]float64
	if !e.ready {
		return contrib
	}

	scaled := e.scaler.Transform(x)
	for ti := range e.model.Trees {
		t := &e.model.Trees[ti]
		idx := 0
		for {
			n := t.Nodes[idx]
			if n.IsLeaf() {
				break
			}
			next := n.Right
			if scaled[n.Feature] <= n.Threshold {
				next = n.Left
			}
			contrib[n.Feature] += t.Nodes[next].Value - n.Value
			idx = next
		}
	}

	nTrees := float64(len(e.model.Trees))
	for i := range contrib {
		contrib[i] /= nTrees
	}
	return contrib
}

// topTwo returns the indices of the two largest contributions by absolute
// value: stable descending sort, ties broken by original field order.
func topTwo(contrib [NumFeatures]float64) (int, int) {
	idx := make([]int, NumFeatures)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return abs(contrib[idx[a]]) > abs(contrib[idx[b]])
	})
	return idx[0], idx[1]
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// Explain attributes the given score for the (already resolved) features and
// renders the score-band explanation template.  In fallback mode it returns
// the fixed not-loaded explanation with no top features.
func (e *Engine) Explain(x [NumFeatures]float64, score float64) Explanation {
	if !e.ready {
		return Explanation{Explanation: "Model not loaded.", TopFeatures: []string{}}
	}

	contrib := e.Contributions(x)
	first, second := topTwo(contrib)

	f1 := displayNames[FeatureNames[first]]
	f2 := displayNames[FeatureNames[second]]

	var text string
	switch {
	case score < 0.4:
		text = fmt.Sprintf("Safety concern: %s and %s are the main risk factors.", f1, f2)
	case score <= 0.7:
		text = fmt.Sprintf("Moderate safety: Caution advised due to %s.", f1)
	default:
		text = fmt.Sprintf("This area is relatively safe. %s contributes positively.", f1)
	}

	return Explanation{
		Explanation: text,
		TopFeatures: []string{f1, f2},
	}
}
