package safetynet

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urbansight/urbansight/pkg/errors"
)

// testModelJSON builds a minimal valid artifact payload: one tree splitting
// on lighting_score with leaf values 0.3 and 0.8.
func testModelJSON(t *testing.T) []byte {
	t.Helper()
	m := ModelArtifact{
		Version:      "test",
		FeatureNames: FeatureNames[:],
		Trees: []Tree{{Nodes: []TreeNode{
			{Feature: 2, Threshold: 5.0, Left: 1, Right: 2, Value: 0.5},
			{Feature: -1, Left: -1, Right: -1, Value: 0.3},
			{Feature: -1, Left: -1, Right: -1, Value: 0.8},
		}}},
	}
	data, err := json.Marshal(m)
	require.NoError(t, err)
	return data
}

func testScalerJSON(t *testing.T) []byte {
	t.Helper()
	s := ScalerArtifact{
		FeatureNames: FeatureNames[:],
		Mean:         make([]float64, NumFeatures),
		Std:          []float64{1, 1, 1, 1, 1, 1, 1, 1},
	}
	data, err := json.Marshal(s)
	require.NoError(t, err)
	return data
}

func TestParseModel_Valid(t *testing.T) {
	m, err := ParseModel(testModelJSON(t))
	require.NoError(t, err)
	assert.Equal(t, "test", m.Version)
	assert.Len(t, m.Trees, 1)
}

func TestParseModel_InvalidJSON(t *testing.T) {
	_, err := ParseModel([]byte("{not json"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeArtifactCorrupt))
}

func TestParseModel_WrongFeatureNames(t *testing.T) {
	data := []byte(`{"version":"v","feature_names":["a","b","c","d","e","f","g","h"],"trees":[{"nodes":[{"feature":-1,"threshold":0,"left":-1,"right":-1,"value":0.5}]}]}`)
	_, err := ParseModel(data)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeFeatureMismatch))
}

func TestParseModel_WrongFeatureCount(t *testing.T) {
	data := []byte(`{"version":"v","feature_names":["hour"],"trees":[]}`)
	_, err := ParseModel(data)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeFeatureMismatch))
}

func TestParseModel_NoTrees(t *testing.T) {
	m := ModelArtifact{Version: "v", FeatureNames: FeatureNames[:]}
	data, err := json.Marshal(m)
	require.NoError(t, err)

	_, err = ParseModel(data)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeArtifactCorrupt))
}

func TestParseModel_OutOfRangeChildren(t *testing.T) {
	m := ModelArtifact{
		Version:      "v",
		FeatureNames: FeatureNames[:],
		Trees: []Tree{{Nodes: []TreeNode{
			{Feature: 0, Threshold: 0, Left: 5, Right: 6, Value: 0.5},
		}}},
	}
	data, err := json.Marshal(m)
	require.NoError(t, err)

	_, err = ParseModel(data)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeArtifactCorrupt))
}

func TestParseModel_UnknownFeatureIndex(t *testing.T) {
	m := ModelArtifact{
		Version:      "v",
		FeatureNames: FeatureNames[:],
		Trees: []Tree{{Nodes: []TreeNode{
			{Feature: 11, Threshold: 0, Left: 1, Right: 2, Value: 0.5},
			{Feature: -1, Left: -1, Right: -1, Value: 0.3},
			{Feature: -1, Left: -1, Right: -1, Value: 0.8},
		}}},
	}
	data, err := json.Marshal(m)
	require.NoError(t, err)

	_, err = ParseModel(data)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeArtifactCorrupt))
}

func TestParseScaler_Valid(t *testing.T) {
	s, err := ParseScaler(testScalerJSON(t))
	require.NoError(t, err)
	assert.Len(t, s.Mean, NumFeatures)
	assert.Len(t, s.Std, NumFeatures)
}

func TestParseScaler_WrongLengths(t *testing.T) {
	s := ScalerArtifact{FeatureNames: FeatureNames[:], Mean: []float64{1}, Std: []float64{1}}
	data, err := json.Marshal(s)
	require.NoError(t, err)

	_, err = ParseScaler(data)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeArtifactCorrupt))
}

func TestParseScaler_ZeroStd(t *testing.T) {
	s := ScalerArtifact{
		FeatureNames: FeatureNames[:],
		Mean:         make([]float64, NumFeatures),
		Std:          []float64{1, 1, 0, 1, 1, 1, 1, 1},
	}
	data, err := json.Marshal(s)
	require.NoError(t, err)

	_, err = ParseScaler(data)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeArtifactCorrupt))
}

func TestScalerTransform(t *testing.T) {
	s := ScalerArtifact{
		FeatureNames: FeatureNames[:],
		Mean:         []float64{12, 3, 5, 0.5, 0.5, 2.5, 0, 0},
		Std:          []float64{6, 2, 2.5, 0.25, 0.25, 1.25, 1, 1},
	}

	out := s.Transform([NumFeatures]float64{18, 5, 7.5, 0.75, 0.25, 1.25, 1, 0})

	assert.Equal(t, [NumFeatures]float64{1, 1, 1, 1, -1, -1, 1, 0}, out)
}

func TestTreePredict_WalksToLeaf(t *testing.T) {
	tree := Tree{Nodes: []TreeNode{
		{Feature: 2, Threshold: 5.0, Left: 1, Right: 2, Value: 0.5},
		{Feature: -1, Left: -1, Right: -1, Value: 0.3},
		{Feature: 3, Threshold: 0.5, Left: 3, Right: 4, Value: 0.8},
		{Feature: -1, Left: -1, Right: -1, Value: 0.7},
		{Feature: -1, Left: -1, Right: -1, Value: 0.9},
	}}

	var x [NumFeatures]float64

	x[2] = 3 // lighting below threshold
	assert.Equal(t, 0.3, tree.Predict(x))

	x[2] = 7
	x[3] = 0.4 // crowd below threshold
	assert.Equal(t, 0.7, tree.Predict(x))

	x[3] = 0.9
	assert.Equal(t, 0.9, tree.Predict(x))

	x[2] = 5 // boundary routes left
	assert.Equal(t, 0.3, tree.Predict(x))
}
