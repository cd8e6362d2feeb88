package model

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Vectorizer converts cleaned review text into L2-normalized tf-idf
// feature vectors. A vectorizer without IDF weights produces plain
// term-frequency vectors.
type Vectorizer struct {
	Vocabulary map[string]int `json:"vocabulary"`
	IDF        []float64      `json:"idf,omitempty"`
}

// LoadVectorizer loads a vectorizer artifact from a JSON file.
func LoadVectorizer(path string) (*Vectorizer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vectorizer file: %w", err)
	}

	var v Vectorizer
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to parse vectorizer JSON: %w", err)
	}

	if err := v.validate(); err != nil {
		return nil, err
	}
	return &v, nil
}

func (v *Vectorizer) validate() error {
	if len(v.Vocabulary) == 0 {
		return fmt.Errorf("vectorizer vocabulary is empty")
	}
	if len(v.IDF) > 0 && len(v.IDF) != len(v.Vocabulary) {
		return fmt.Errorf("idf length %d does not match vocabulary size %d", len(v.IDF), len(v.Vocabulary))
	}
	for token, idx := range v.Vocabulary {
		if idx < 0 || idx >= len(v.Vocabulary) {
			return fmt.Errorf("vocabulary index %d for token %q is out of range", idx, token)
		}
	}
	return nil
}

// Size returns the dimensionality of the feature space.
func (v *Vectorizer) Size() int {
	return len(v.Vocabulary)
}

// Vectorize maps cleaned text onto the vectorizer's feature space. Tokens
// outside the vocabulary are ignored.
func (v *Vectorizer) Vectorize(text string) *mat.VecDense {
	vec := mat.NewVecDense(len(v.Vocabulary), nil)
	for _, token := range strings.Fields(text) {
		if idx, ok := v.Vocabulary[token]; ok {
			vec.SetVec(idx, vec.AtVec(idx)+1)
		}
	}

	if len(v.IDF) > 0 {
		for i := 0; i < vec.Len(); i++ {
			if tf := vec.AtVec(i); tf != 0 {
				vec.SetVec(i, tf*v.IDF[i])
			}
		}
	}

	if norm := mat.Norm(vec, 2); norm > 0 {
		vec.ScaleVec(1/norm, vec)
	}
	return vec
}

// linearModelFile is the on-disk JSON layout of a linear classifier head.
// The vectorizer may be embedded or supplied separately at load time.
type linearModelFile struct {
	Classes      []string    `json:"classes"`
	Coefficients [][]float64 `json:"coefficients"`
	Intercepts   []float64   `json:"intercepts"`
	Vectorizer   *Vectorizer `json:"vectorizer,omitempty"`
}

// LinearModel scores tf-idf vectors against one weight row per class and
// predicts the argmax class with a softmax confidence.
type LinearModel struct {
	classes    []string
	weights    *mat.Dense
	intercepts *mat.VecDense
	vectorizer *Vectorizer
}

// NewLinearModel builds a linear model from its raw parameters, validating
// that classes, weight rows, intercepts, and the vectorizer agree in shape.
func NewLinearModel(classes []string, coefficients [][]float64, intercepts []float64, vectorizer *Vectorizer) (*LinearModel, error) {
	if len(classes) < 2 {
		return nil, fmt.Errorf("not enough classes for classification: got %d, need at least 2", len(classes))
	}
	if len(coefficients) != len(classes) {
		return nil, fmt.Errorf("coefficient rows %d do not match class count %d", len(coefficients), len(classes))
	}
	if len(intercepts) != len(classes) {
		return nil, fmt.Errorf("intercept count %d does not match class count %d", len(intercepts), len(classes))
	}
	if vectorizer == nil {
		return nil, fmt.Errorf("model has no vectorizer")
	}
	if err := vectorizer.validate(); err != nil {
		return nil, err
	}

	features := vectorizer.Size()
	flat := make([]float64, 0, len(classes)*features)
	for i, row := range coefficients {
		if len(row) != features {
			return nil, fmt.Errorf("coefficient row %d has %d values, expected %d", i, len(row), features)
		}
		flat = append(flat, row...)
	}

	return &LinearModel{
		classes:    classes,
		weights:    mat.NewDense(len(classes), features, flat),
		intercepts: mat.NewVecDense(len(classes), intercepts),
		vectorizer: vectorizer,
	}, nil
}

// LoadLinearModel loads a linear classifier artifact from a JSON file.
// Artifacts without an embedded vectorizer bind to the shared one; a model
// with neither cannot predict and fails to load.
func LoadLinearModel(path string, shared *Vectorizer) (*LinearModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}

	var file linearModelFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse model JSON: %w", err)
	}

	vectorizer := file.Vectorizer
	if vectorizer == nil {
		vectorizer = shared
	}
	if vectorizer == nil {
		return nil, fmt.Errorf("model %s has no embedded vectorizer and no shared vectorizer is loaded", path)
	}

	m, err := NewLinearModel(file.Classes, file.Coefficients, file.Intercepts, vectorizer)
	if err != nil {
		return nil, fmt.Errorf("invalid model %s: %w", path, err)
	}
	return m, nil
}

// Classes returns the labels the model can predict, in artifact order.
func (m *LinearModel) Classes() []string {
	return m.classes
}

// Predict scores the text against every class and returns the best label
// with its softmax probability.
func (m *LinearModel) Predict(text string) (Prediction, error) {
	if m.vectorizer == nil {
		return Prediction{}, fmt.Errorf("model has no vectorizer")
	}

	x := m.vectorizer.Vectorize(text)
	scores := mat.NewVecDense(len(m.classes), nil)
	scores.MulVec(m.weights, x)
	scores.AddVec(scores, m.intercepts)

	best := 0
	for i := 1; i < scores.Len(); i++ {
		if scores.AtVec(i) > scores.AtVec(best) {
			best = i
		}
	}

	// Softmax relative to the best score keeps the exponentials bounded.
	var sum float64
	for i := 0; i < scores.Len(); i++ {
		sum += math.Exp(scores.AtVec(i) - scores.AtVec(best))
	}

	return Prediction{
		Label:      m.classes[best],
		Confidence: 1 / sum,
	}, nil
}
