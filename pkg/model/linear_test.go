package model

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeArtifact(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestModel(t *testing.T) *LinearModel {
	t.Helper()
	vectorizer := &Vectorizer{
		Vocabulary: map[string]int{"amazing": 0, "terrible": 1, "quality": 2},
	}
	m, err := NewLinearModel(
		[]string{"negative", "positive"},
		[][]float64{
			{-1, 2, 0},
			{1.5, -2, 0.5},
		},
		[]float64{0, 0},
		vectorizer,
	)
	require.NoError(t, err)
	return m
}

func TestVectorize(t *testing.T) {
	v := &Vectorizer{Vocabulary: map[string]int{"good": 0, "bad": 1}, IDF: []float64{2, 1}}

	vec := v.Vectorize("good bad unknown")

	// tf [1,1] scaled by idf [2,1], then L2-normalized by sqrt(5).
	norm := math.Sqrt(5)
	assert.InDelta(t, 2/norm, vec.AtVec(0), 1e-9)
	assert.InDelta(t, 1/norm, vec.AtVec(1), 1e-9)
}

func TestVectorizeEmptyText(t *testing.T) {
	v := &Vectorizer{Vocabulary: map[string]int{"good": 0}}

	vec := v.Vectorize("")

	assert.Zero(t, vec.AtVec(0))
}

func TestLinearModelPredict(t *testing.T) {
	m := newTestModel(t)

	pred, err := m.Predict("amazing quality")
	require.NoError(t, err)
	assert.Equal(t, "positive", pred.Label)
	assert.Greater(t, pred.Confidence, 0.5)
	assert.LessOrEqual(t, pred.Confidence, 1.0)

	pred, err = m.Predict("terrible")
	require.NoError(t, err)
	assert.Equal(t, "negative", pred.Label)
}

func TestLinearModelPredictNoVocabularyHit(t *testing.T) {
	m := newTestModel(t)

	// A zero feature vector falls back to the intercepts; with equal
	// intercepts the first class wins with an even split.
	pred, err := m.Predict("completely unrelated words")
	require.NoError(t, err)
	assert.Equal(t, "negative", pred.Label)
	assert.InDelta(t, 0.5, pred.Confidence, 1e-9)
}

func TestNewLinearModelValidation(t *testing.T) {
	vectorizer := &Vectorizer{Vocabulary: map[string]int{"a": 0, "b": 1}}

	_, err := NewLinearModel([]string{"only"}, [][]float64{{1, 1}}, []float64{0}, vectorizer)
	assert.ErrorContains(t, err, "not enough classes")

	_, err = NewLinearModel([]string{"x", "y"}, [][]float64{{1, 1}}, []float64{0, 0}, vectorizer)
	assert.ErrorContains(t, err, "coefficient rows")

	_, err = NewLinearModel([]string{"x", "y"}, [][]float64{{1, 1}, {1, 1}}, []float64{0}, vectorizer)
	assert.ErrorContains(t, err, "intercept count")

	_, err = NewLinearModel([]string{"x", "y"}, [][]float64{{1, 1}, {1, 1}}, []float64{0, 0}, nil)
	assert.ErrorContains(t, err, "no vectorizer")

	_, err = NewLinearModel([]string{"x", "y"}, [][]float64{{1}, {1, 1}}, []float64{0, 0}, vectorizer)
	assert.ErrorContains(t, err, "coefficient row 0")
}

func TestLoadLinearModelEmbeddedVectorizer(t *testing.T) {
	path := writeArtifact(t, "model.json", `{
		"classes": ["no", "yes"],
		"coefficients": [[-1], [1]],
		"intercepts": [0, 0],
		"vectorizer": {"vocabulary": {"yes": 0}}
	}`)

	m, err := LoadLinearModel(path, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"no", "yes"}, m.Classes())

	pred, err := m.Predict("yes")
	require.NoError(t, err)
	assert.Equal(t, "yes", pred.Label)
}

func TestLoadLinearModelSharedVectorizer(t *testing.T) {
	path := writeArtifact(t, "model.json", `{
		"classes": ["no", "yes"],
		"coefficients": [[-1], [1]],
		"intercepts": [0, 0]
	}`)
	shared := &Vectorizer{Vocabulary: map[string]int{"yes": 0}}

	m, err := LoadLinearModel(path, shared)
	require.NoError(t, err)

	pred, err := m.Predict("yes")
	require.NoError(t, err)
	assert.Equal(t, "yes", pred.Label)
}

func TestLoadLinearModelWithoutAnyVectorizer(t *testing.T) {
	path := writeArtifact(t, "model.json", `{
		"classes": ["no", "yes"],
		"coefficients": [[-1], [1]],
		"intercepts": [0, 0]
	}`)

	_, err := LoadLinearModel(path, nil)
	assert.ErrorContains(t, err, "no embedded vectorizer")
}

func TestLoadLinearModelCorruptJSON(t *testing.T) {
	path := writeArtifact(t, "model.json", `{"classes": [`)

	_, err := LoadLinearModel(path, nil)
	assert.ErrorContains(t, err, "failed to parse model JSON")
}

func TestLoadLinearModelMissingFile(t *testing.T) {
	_, err := LoadLinearModel(filepath.Join(t.TempDir(), "absent.json"), nil)
	assert.ErrorContains(t, err, "failed to read model file")
}

func TestLoadVectorizer(t *testing.T) {
	path := writeArtifact(t, "vectorizer.json", `{"vocabulary": {"a": 0, "b": 1}, "idf": [1.0, 2.0]}`)

	v, err := LoadVectorizer(path)
	require.NoError(t, err)
	assert.Equal(t, 2, v.Size())
}

func TestLoadVectorizerValidation(t *testing.T) {
	_, err := LoadVectorizer(writeArtifact(t, "v.json", `{"vocabulary": {}}`))
	assert.ErrorContains(t, err, "vocabulary is empty")

	_, err = LoadVectorizer(writeArtifact(t, "v.json", `{"vocabulary": {"a": 0}, "idf": [1.0, 2.0]}`))
	assert.ErrorContains(t, err, "does not match vocabulary size")

	_, err = LoadVectorizer(writeArtifact(t, "v.json", `{"vocabulary": {"a": 5}}`))
	assert.ErrorContains(t, err, "out of range")
}
