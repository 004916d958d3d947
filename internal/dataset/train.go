package dataset

import (
	"math"
	"math/rand"
	"sort"

	"github.com/urbansight/urbansight/internal/intelligence/safetynet"
	"github.com/urbansight/urbansight/pkg/errors"
)

// TrainConfig controls random-forest training.
type TrainConfig struct {
	Trees        int
	MaxDepth     int
	MinLeafSize  int
	TestFraction float64
	Seed         int64
}

// DefaultTrainConfig mirrors the reference training run: 200 trees, seed 42,
// 80/20 split.
func DefaultTrainConfig() TrainConfig {
	return TrainConfig{
		Trees:        200,
		MaxDepth:     12,
		MinLeafSize:  2,
		TestFraction: 0.2,
		Seed:         42,
	}
}

// Evaluation carries held-out regression metrics.
type Evaluation struct {
	MAE  float64
	RMSE float64
	R2   float64
}

// TrainResult bundles the trained artifacts with their evaluation and
// normalised per-feature importances.
type TrainResult struct {
	Model       *safetynet.ModelArtifact
	Scaler      *safetynet.ScalerArtifact
	Eval        Evaluation
	Importances map[string]float64
}

// Train fits a standard scaler and a bootstrap random-forest regressor on
// rows, evaluates on a held-out split, and returns artifacts in the exact
// format the runtime engine loads.  Coordinates are dropped; the model sees
// only the canonical eight fields.
func Train(rows []Row, cfg TrainConfig) (*TrainResult, error) {
	if len(rows) < 20 {
		return nil, errors.Newf(errors.CodeTrainingFailed, "need at least 20 rows, got %d", len(rows))
	}
	if cfg.Trees <= 0 || cfg.MaxDepth <= 0 || cfg.MinLeafSize <= 0 {
		return nil, errors.New(errors.CodeTrainingFailed, "trees, max depth, and min leaf size must be positive")
	}
	if cfg.TestFraction <= 0 || cfg.TestFraction >= 1 {
		return nil, errors.Newf(errors.CodeTrainingFailed, "test fraction must be in (0,1), got %g", cfg.TestFraction)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	x := make([][safetynet.NumFeatures]float64, len(rows))
	y := make([]float64, len(rows))
	for i := range rows {
		r := &rows[i]
		x[i] = [safetynet.NumFeatures]float64{
			float64(r.Hour),
			float64(r.DayOfWeek),
			r.LightingScore,
			r.CrowdDensity,
			r.HistoricalCrimeIndex,
			r.PoliceDistKm,
			float64(r.IsIsolated),
			float64(r.NearTransit),
		}
		y[i] = r.SafetyScore
	}

	// Shuffled 80/20 split.
	perm := rng.Perm(len(rows))
	nTest := int(float64(len(rows)) * cfg.TestFraction)
	if nTest == 0 {
		nTest = 1
	}
	testIdx := perm[:nTest]
	trainIdx := perm[nTest:]

	// Fit the scaler on the training split only, then scale everything.
	scaler := fitScaler(x, trainIdx)
	scaled := make([][safetynet.NumFeatures]float64, len(x))
	for i := range x {
		scaled[i] = scaler.Transform(x[i])
	}

	// Grow the forest on bootstrap resamples of the training split.
	importance := make([]float64, safetynet.NumFeatures)
	trees := make([]safetynet.Tree, cfg.Trees)
	for t := 0; t < cfg.Trees; t++ {
		sample := make([]int, len(trainIdx))
		for i := range sample {
			sample[i] = trainIdx[rng.Intn(len(trainIdx))]
		}
		b := &treeBuilder{
			x:          scaled,
			y:          y,
			maxDepth:   cfg.MaxDepth,
			minLeaf:    cfg.MinLeafSize,
			importance: importance,
		}
		b.grow(sample, 0)
		trees[t] = safetynet.Tree{Nodes: b.nodes}
	}

	model := &safetynet.ModelArtifact{
		Version:      "1.0.0",
		FeatureNames: safetynet.FeatureNames[:],
		Trees:        trees,
	}

	eval := evaluate(model, scaled, y, testIdx)

	total := 0.0
	for _, v := range importance {
		total += v
	}
	importances := make(map[string]float64, safetynet.NumFeatures)
	for i, name := range safetynet.FeatureNames {
		if total > 0 {
			importances[name] = importance[i] / total
		} else {
			importances[name] = 0
		}
	}

	return &TrainResult{
		Model:       model,
		Scaler:      scaler,
		Eval:        eval,
		Importances: importances,
	}, nil
}

// fitScaler computes per-field mean and standard deviation over the training
// indices.  A constant field gets std 1 so standardisation is a no-op for it.
func fitScaler(x [][safetynet.NumFeatures]float64, idx []int) *safetynet.ScalerArtifact {
	n := float64(len(idx))
	mean := make([]float64, safetynet.NumFeatures)
	std := make([]float64, safetynet.NumFeatures)

	for _, i := range idx {
		for j := 0; j < safetynet.NumFeatures; j++ {
			mean[j] += x[i][j]
		}
	}
	for j := range mean {
		mean[j] /= n
	}
	for _, i := range idx {
		for j := 0; j < safetynet.NumFeatures; j++ {
			d := x[i][j] - mean[j]
			std[j] += d * d
		}
	}
	for j := range std {
		std[j] = math.Sqrt(std[j] / n)
		if std[j] == 0 {
			std[j] = 1
		}
	}

	return &safetynet.ScalerArtifact{
		FeatureNames: safetynet.FeatureNames[:],
		Mean:         mean,
		Std:          std,
	}
}

// treeBuilder grows one CART regression tree by recursive variance-reduction
// splitting, appending nodes in preorder so index 0 is the root.
type treeBuilder struct {
	x          [][safetynet.NumFeatures]float64
	y          []float64
	maxDepth   int
	minLeaf    int
	importance []float64
	nodes      []safetynet.TreeNode
}

// grow builds the subtree over idx and returns its node index.
func (b *treeBuilder) grow(idx []int, depth int) int {
	value := meanAt(b.y, idx)
	self := len(b.nodes)
	b.nodes = append(b.nodes, safetynet.TreeNode{
		Feature: -1, Threshold: 0, Left: -1, Right: -1, Value: value,
	})

	if depth >= b.maxDepth || len(idx) < 2*b.minLeaf {
		return self
	}

	feature, threshold, gain, ok := b.bestSplit(idx)
	if !ok {
		return self
	}
	b.importance[feature] += gain

	var left, right []int
	for _, i := range idx {
		if b.x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	b.nodes[self].Feature = feature
	b.nodes[self].Threshold = threshold
	b.nodes[self].Left = b.grow(left, depth+1)
	b.nodes[self].Right = b.grow(right, depth+1)
	return self
}

// bestSplit scans every feature for the threshold that minimises the summed
// squared error of the two children, using sorted prefix sums.  Returns
// ok=false when no admissible split improves on the parent.
func (b *treeBuilder) bestSplit(idx []int) (feature int, threshold, gain float64, ok bool) {
	n := len(idx)

	parentSSE := sseAt(b.y, idx)
	bestSSE := parentSSE

	order := make([]int, n)
	for f := 0; f < safetynet.NumFeatures; f++ {
		copy(order, idx)
		sort.Slice(order, func(a, c int) bool { return b.x[order[a]][f] < b.x[order[c]][f] })

		sumL, sumSqL := 0.0, 0.0
		sumR, sumSqR := 0.0, 0.0
		for _, i := range order {
			sumR += b.y[i]
			sumSqR += b.y[i] * b.y[i]
		}

		for i := 0; i < n-1; i++ {
			yi := b.y[order[i]]
			sumL += yi
			sumSqL += yi * yi
			sumR -= yi
			sumSqR -= yi * yi

			if i+1 < b.minLeaf || n-i-1 < b.minLeaf {
				continue
			}
			lo, hi := b.x[order[i]][f], b.x[order[i+1]][f]
			if lo == hi {
				continue
			}

			nl, nr := float64(i+1), float64(n-i-1)
			sse := (sumSqL - sumL*sumL/nl) + (sumSqR - sumR*sumR/nr)
			if sse < bestSSE-1e-12 {
				bestSSE = sse
				feature = f
				threshold = (lo + hi) / 2
				ok = true
			}
		}
	}

	gain = parentSSE - bestSSE
	return feature, threshold, gain, ok
}

func meanAt(y []float64, idx []int) float64 {
	sum := 0.0
	for _, i := range idx {
		sum += y[i]
	}
	return sum / float64(len(idx))
}

func sseAt(y []float64, idx []int) float64 {
	m := meanAt(y, idx)
	sse := 0.0
	for _, i := range idx {
		d := y[i] - m
		sse += d * d
	}
	return sse
}

// evaluate computes held-out MAE, RMSE, and R² for the model over the test
// indices of the pre-scaled matrix.
func evaluate(model *safetynet.ModelArtifact, scaled [][safetynet.NumFeatures]float64, y []float64, testIdx []int) Evaluation {
	n := float64(len(testIdx))

	yMean := 0.0
	for _, i := range testIdx {
		yMean += y[i]
	}
	yMean /= n

	absErr, sqErr, sst := 0.0, 0.0, 0.0
	for _, i := range testIdx {
		pred := 0.0
		for t := range model.Trees {
			pred += model.Trees[t].Predict(scaled[i])
		}
		pred /= float64(len(model.Trees))

		d := pred - y[i]
		absErr += math.Abs(d)
		sqErr += d * d
		dm := y[i] - yMean
		sst += dm * dm
	}

	r2 := 0.0
	if sst > 0 {
		r2 = 1 - sqErr/sst
	}
	return Evaluation{
		MAE:  absErr / n,
		RMSE: math.Sqrt(sqErr / n),
		R2:   r2,
	}
}
