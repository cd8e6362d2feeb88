package classification

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/SUDARSHANJADHAV2/Smart-Review-Classifer/pkg/model"
	"github.com/SUDARSHANJADHAV2/Smart-Review-Classifer/pkg/observability/logging"
	"github.com/SUDARSHANJADHAV2/Smart-Review-Classifer/pkg/observability/metrics"
)

// ErrEmptyReview is returned by Classify for empty or whitespace-only
// review text. No model is consulted in that case.
var ErrEmptyReview = errors.New("review text is empty")

// AxisResult is the outcome of a single classification axis. Available is
// false when the axis artifact is missing or prediction failed, and Label
// and Confidence hold zero values then.
type AxisResult struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Available  bool    `json:"available"`
}

// ReviewAnalysis bundles the three axis outcomes for one review.
type ReviewAnalysis struct {
	Sentiment       AxisResult `json:"sentiment"`
	ReviewType      AxisResult `json:"review_type"`
	ProductCategory AxisResult `json:"product_category"`
	CleanedText     string     `json:"cleaned_text"`
}

// Classifier evaluates reviews on three independent axes. Axes whose
// artifacts failed to load degrade to unavailable results instead of
// failing the whole analysis.
type Classifier struct {
	sentiment       model.Model
	reviewType      model.Model
	productCategory model.Model
	keywordTable    *KeywordTable
	topicMapping    *TopicMapping
}

type option func(*Classifier)

func withSentimentModel(m model.Model) option {
	return func(c *Classifier) { c.sentiment = m }
}

func withReviewTypeModel(m model.Model) option {
	return func(c *Classifier) { c.reviewType = m }
}

func withProductCategoryModel(m model.Model) option {
	return func(c *Classifier) { c.productCategory = m }
}

func withKeywordTable(table *KeywordTable) option {
	return func(c *Classifier) { c.keywordTable = table }
}

func withTopicMapping(mapping *TopicMapping) option {
	return func(c *Classifier) { c.topicMapping = mapping }
}

func newClassifierWithOptions(opts ...option) *Classifier {
	c := &Classifier{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewClassifier builds a classifier over whatever artifacts the snapshot
// managed to load.
func NewClassifier(snap *Snapshot) *Classifier {
	return newClassifierWithOptions(
		withSentimentModel(snap.Sentiment),
		withReviewTypeModel(snap.ReviewType),
		withProductCategoryModel(snap.ProductCategory),
		withKeywordTable(snap.KeywordTable),
		withTopicMapping(snap.TopicMapping),
	)
}

// Classify runs all three axes over one review. The axes run in parallel
// and fail independently. The only error is ErrEmptyReview for blank
// input, which short-circuits before any model call.
func (c *Classifier) Classify(review string) (ReviewAnalysis, error) {
	if strings.TrimSpace(review) == "" {
		return ReviewAnalysis{}, ErrEmptyReview
	}

	cleaned := Normalize(review)
	analysis := ReviewAnalysis{CleanedText: cleaned}

	var wg sync.WaitGroup
	var mu sync.Mutex

	wg.Add(1)
	go func() {
		defer wg.Done()
		result := c.evaluateAxis(AxisSentiment, c.sentiment, cleaned)
		mu.Lock()
		analysis.Sentiment = result
		mu.Unlock()
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		result := c.evaluateAxis(AxisReviewType, c.reviewType, cleaned)
		mu.Lock()
		analysis.ReviewType = result
		mu.Unlock()
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		result := c.evaluateAxis(AxisProductCategory, c.productCategory, cleaned)
		mu.Lock()
		analysis.ProductCategory = result
		mu.Unlock()
	}()

	wg.Wait()
	return analysis, nil
}

// evaluateAxis never fails. A missing model, a prediction error, an empty
// label, or a panicking model all degrade to an unavailable result so the
// other axes keep their answers.
func (c *Classifier) evaluateAxis(axis string, m model.Model, cleaned string) (result AxisResult) {
	defer func() {
		if r := recover(); r != nil {
			logging.Errorf("Recovered from %s prediction panic: %v", axis, r)
			metrics.RecordAxisPrediction(axis, "error")
			result = AxisResult{}
		}
	}()

	if m == nil {
		logging.Debugf("No %s model loaded, axis unavailable", axis)
		metrics.RecordAxisPrediction(axis, "unavailable")
		return AxisResult{}
	}

	start := time.Now()
	pred, err := m.Predict(cleaned)
	metrics.RecordAxisLatency(axis, time.Since(start).Seconds())
	if err != nil {
		logging.Errorf("Prediction failed on %s axis: %v", axis, err)
		metrics.RecordAxisPrediction(axis, "error")
		return AxisResult{}
	}
	if pred.Label == "" {
		logging.Errorf("Prediction on %s axis returned an empty label", axis)
		metrics.RecordAxisPrediction(axis, "error")
		return AxisResult{}
	}

	metrics.RecordAxisPrediction(axis, "ok")
	return AxisResult{Label: pred.Label, Confidence: pred.Confidence, Available: true}
}

// ExplainReviewType returns the keywords, in table order, that tie a
// review-type result back to the review. Matching runs against the
// original text rather than the cleaned text, so keywords carrying
// punctuation still surface. Returns nil when the axis is unavailable or
// no keyword table was loaded.
func (c *Classifier) ExplainReviewType(review string, result AxisResult) []string {
	if !result.Available || c.keywordTable == nil {
		return nil
	}
	return c.keywordTable.Match(review, result.Label)
}

// ResolveTopic maps a product-category result to its numeric topic id. The
// boolean is false when the axis is unavailable, no topic mapping was
// loaded, or the label has no topic.
func (c *Classifier) ResolveTopic(result AxisResult) (int, bool) {
	if !result.Available || c.topicMapping == nil {
		return 0, false
	}
	return c.topicMapping.TopicFor(result.Label)
}
