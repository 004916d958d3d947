// Package safetynet wraps the pre-trained urban-safety regressor: artifact
// parsing, standardisation, ensemble inference, and per-prediction feature
// attribution.  The package never performs I/O after construction; a loaded
// engine is immutable and safe for unlimited concurrent use.
package safetynet

import (
	"encoding/json"

	"github.com/urbansight/urbansight/pkg/errors"
)

// leafMarker is the child index stored on leaf nodes.
const leafMarker = -1

// TreeNode is one node of a binary regression tree.  Internal nodes route on
// Feature <= Threshold; Value carries the node's mean target so that
// decision-path attribution can difference parent and child values.
type TreeNode struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
}

// IsLeaf reports whether the node terminates a decision path.
func (n TreeNode) IsLeaf() bool {
	return n.Left == leafMarker && n.Right == leafMarker
}

// Tree is a single regression tree stored as a flat node array with index 0
// as the root.
type Tree struct {
	Nodes []TreeNode `json:"nodes"`
}

// Predict walks the tree for the (already standardised) vector x and returns
// the leaf value.
func (t *Tree) Predict(x [NumFeatures]float64) float64 {
	idx := 0
	for {
		n := t.Nodes[idx]
		if n.IsLeaf() {
			return n.Value
		}
		if x[n.Feature] <= n.Threshold {
			idx = n.Left
		} else {
			idx = n.Right
		}
	}
}

// ModelArtifact is the JSON-serialised random-forest regressor.  The ensemble
// output is the mean of the tree outputs: a score, not a probability, and
// not guaranteed to lie exactly in [0, 1].
type ModelArtifact struct {
	Version      string   `json:"version"`
	FeatureNames []string `json:"feature_names"`
	Trees        []Tree   `json:"trees"`
}

// ScalerArtifact is the JSON-serialised affine standardisation fit during
// training: per-field mean and standard deviation, frozen.
type ScalerArtifact struct {
	FeatureNames []string  `json:"feature_names"`
	Mean         []float64 `json:"mean"`
	Std          []float64 `json:"std"`
}

// Transform standardises the raw vector x field-wise: (x - mean) / std.
func (s *ScalerArtifact) Transform(x [NumFeatures]float64) [NumFeatures]float64 {
	var out [NumFeatures]float64
	for i := 0; i < NumFeatures; i++ {
		out[i] = (x[i] - s.Mean[i]) / s.Std[i]
	}
	return out
}

// ParseModel decodes and validates a model artifact payload.
func ParseModel(data []byte) (*ModelArtifact, error) {
	m := &ModelArtifact{}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, errors.Wrap(err, errors.CodeArtifactCorrupt, "model artifact is not valid JSON")
	}
	if err := checkFeatureNames(m.FeatureNames); err != nil {
		return nil, err
	}
	if len(m.Trees) == 0 {
		return nil, errors.New(errors.CodeArtifactCorrupt, "model artifact contains no trees")
	}
	for ti, t := range m.Trees {
		if len(t.Nodes) == 0 {
			return nil, errors.Newf(errors.CodeArtifactCorrupt, "tree %d has no nodes", ti)
		}
		for ni, n := range t.Nodes {
			if n.IsLeaf() {
				continue
			}
			if n.Feature < 0 || n.Feature >= NumFeatures {
				return nil, errors.Newf(errors.CodeArtifactCorrupt, "tree %d node %d routes on unknown feature %d", ti, ni, n.Feature)
			}
			if n.Left < 0 || n.Left >= len(t.Nodes) || n.Right < 0 || n.Right >= len(t.Nodes) {
				return nil, errors.Newf(errors.CodeArtifactCorrupt, "tree %d node %d has out-of-range children", ti, ni)
			}
		}
	}
	return m, nil
}

// ParseScaler decodes and validates a scaler artifact payload.
func ParseScaler(data []byte) (*ScalerArtifact, error) {
	s := &ScalerArtifact{}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, errors.Wrap(err, errors.CodeArtifactCorrupt, "scaler artifact is not valid JSON")
	}
	if err := checkFeatureNames(s.FeatureNames); err != nil {
		return nil, err
	}
	if len(s.Mean) != NumFeatures || len(s.Std) != NumFeatures {
		return nil, errors.Newf(errors.CodeArtifactCorrupt,
			"scaler must carry %d mean/std entries, got %d/%d", NumFeatures, len(s.Mean), len(s.Std))
	}
	for i, sd := range s.Std {
		if sd == 0 {
			return nil, errors.Newf(errors.CodeArtifactCorrupt, "scaler std for %q is zero", s.FeatureNames[i])
		}
	}
	return s, nil
}

// checkFeatureNames enforces the canonical eight-field ordering on an
// artifact's declared feature list.
func checkFeatureNames(names []string) error {
	if len(names) != NumFeatures {
		return errors.Newf(errors.CodeFeatureMismatch,
			"artifact declares %d features, expected %d", len(names), NumFeatures)
	}
	for i, name := range names {
		if name != FeatureNames[i] {
			return errors.Newf(errors.CodeFeatureMismatch,
				"artifact feature %d is %q, expected %q", i, name, FeatureNames[i])
		}
	}
	return nil
}
