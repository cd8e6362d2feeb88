package model

// Prediction is the outcome of a single model invocation.
type Prediction struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Model is the capability a classification axis needs: map cleaned review
// text to a label with a confidence. Implementations are loaded from
// serialized artifacts and must be safe for concurrent use after loading.
type Model interface {
	Predict(text string) (Prediction, error)
}
