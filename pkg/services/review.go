package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/SUDARSHANJADHAV2/Smart-Review-Classifer/pkg/cache"
	"github.com/SUDARSHANJADHAV2/Smart-Review-Classifer/pkg/classification"
	"github.com/SUDARSHANJADHAV2/Smart-Review-Classifer/pkg/config"
	"github.com/SUDARSHANJADHAV2/Smart-Review-Classifer/pkg/observability/logging"
	"github.com/SUDARSHANJADHAV2/Smart-Review-Classifer/pkg/observability/metrics"
)

var globalReviewService *ReviewService

// ReviewService runs review analyses over a loaded artifact snapshot and
// caches responses keyed by the raw review text.
type ReviewService struct {
	classifier *classification.Classifier
	snapshot   *classification.Snapshot
	cache      *cache.InMemoryCache
	config     *config.ClassifierConfig
}

func NewReviewService(classifier *classification.Classifier, snapshot *classification.Snapshot, resultCache *cache.InMemoryCache, cfg *config.ClassifierConfig) *ReviewService {
	service := &ReviewService{
		classifier: classifier,
		snapshot:   snapshot,
		cache:      resultCache,
		config:     cfg,
	}
	// Set as global service for API access
	globalReviewService = service
	return service
}

// NewReviewServiceFromConfig wires the shared snapshot, the classifier, and
// the result cache from one config. Missing artifacts degrade to
// unavailable axes rather than failing construction.
func NewReviewServiceFromConfig(cfg *config.ClassifierConfig) *ReviewService {
	snapshot := classification.SharedSnapshot(cfg.Artifacts)
	classifier := classification.NewClassifier(snapshot)
	resultCache := cache.NewInMemoryCache(cache.InMemoryCacheOptions{
		Enabled:        cfg.Cache.Enabled,
		MaxEntries:     cfg.Cache.MaxEntries,
		TTLSeconds:     cfg.Cache.TTLSeconds,
		EvictionPolicy: cache.EvictionPolicyType(cfg.Cache.EvictionPolicy),
	})
	return NewReviewService(classifier, snapshot, resultCache, cfg)
}

// NewPlaceholderReviewService builds a service with no artifacts. Every
// analysis answers with all axes unavailable, which keeps the API usable
// before configuration is in place.
func NewPlaceholderReviewService() *ReviewService {
	service := &ReviewService{
		classifier: classification.NewClassifier(&classification.Snapshot{}),
	}
	globalReviewService = service
	return service
}

func GetGlobalReviewService() *ReviewService {
	return globalReviewService
}

func (s *ReviewService) HasClassifier() bool {
	return s.classifier != nil
}

// ArtifactStatus reports the snapshot's load outcomes, or nil for a
// placeholder service without a snapshot.
func (s *ReviewService) ArtifactStatus() []classification.ArtifactStatus {
	if s.snapshot == nil {
		return nil
	}
	return s.snapshot.Status()
}

func (s *ReviewService) CacheStats() cache.CacheStats {
	if s.cache == nil {
		return cache.CacheStats{}
	}
	return s.cache.GetStats()
}

type ReviewRequest struct {
	Text string `json:"text"`
}

// ReviewResponse is the full analysis of one review. MatchedKeywords and
// TopicID are omitted when their inputs are unavailable.
type ReviewResponse struct {
	Sentiment        classification.AxisResult `json:"sentiment"`
	ReviewType       classification.AxisResult `json:"review_type"`
	ProductCategory  classification.AxisResult `json:"product_category"`
	CleanedText      string                    `json:"cleaned_text"`
	MatchedKeywords  []string                  `json:"matched_keywords,omitempty"`
	TopicID          *int                      `json:"topic_id,omitempty"`
	ProcessingTimeMs int64                     `json:"processing_time_ms"`
}

// Analyze classifies one review on all three axes and enriches the result
// with keyword explanations and the resolved topic id. The only client
// error is classification.ErrEmptyReview.
func (s *ReviewService) Analyze(req ReviewRequest) (*ReviewResponse, error) {
	start := time.Now()

	if s.classifier == nil {
		return nil, fmt.Errorf("classifier not initialized")
	}

	if s.cache != nil && s.cache.IsEnabled() {
		if body, found := s.cache.Lookup(req.Text); found {
			var cached ReviewResponse
			if err := json.Unmarshal(body, &cached); err != nil {
				logging.Warnf("Dropping undecodable cache entry: %v", err)
			} else {
				cached.ProcessingTimeMs = time.Since(start).Milliseconds()
				metrics.RecordAnalysis("cached")
				return &cached, nil
			}
		}
	}

	analysis, err := s.classifier.Classify(req.Text)
	if err != nil {
		metrics.RecordAnalysis("empty")
		return nil, err
	}

	response := &ReviewResponse{
		Sentiment:       analysis.Sentiment,
		ReviewType:      analysis.ReviewType,
		ProductCategory: analysis.ProductCategory,
		CleanedText:     analysis.CleanedText,
		MatchedKeywords: s.classifier.ExplainReviewType(req.Text, analysis.ReviewType),
	}
	if topicID, ok := s.classifier.ResolveTopic(analysis.ProductCategory); ok {
		response.TopicID = &topicID
	}
	response.ProcessingTimeMs = time.Since(start).Milliseconds()

	if s.cache != nil && s.cache.IsEnabled() {
		if body, err := json.Marshal(response); err == nil {
			s.cache.AddEntry(req.Text, body)
		}
	}

	metrics.RecordAnalysis("ok")
	logging.LogEvent("review_analyzed", map[string]interface{}{
		"sentiment":        analysis.Sentiment.Label,
		"review_type":      analysis.ReviewType.Label,
		"product_category": analysis.ProductCategory.Label,
		"matched_keywords": len(response.MatchedKeywords),
		"duration_ms":      response.ProcessingTimeMs,
	})
	return response, nil
}

type BatchReviewRequest struct {
	Texts []string `json:"texts"`
}

// BatchResult pairs one input text with its analysis or its error. Index
// matches the position in the request.
type BatchResult struct {
	Index    int             `json:"index"`
	Response *ReviewResponse `json:"response,omitempty"`
	Error    string          `json:"error,omitempty"`
}

type BatchStatistics struct {
	SentimentDistribution map[string]int `json:"sentiment_distribution"`
	AvgConfidence         float64        `json:"avg_confidence"`
	UnavailableAxisCount  int            `json:"unavailable_axis_count"`
	ErrorCount            int            `json:"error_count"`
}

type BatchReviewResponse struct {
	Results          []BatchResult   `json:"results"`
	Statistics       BatchStatistics `json:"statistics"`
	TotalTexts       int             `json:"total_texts"`
	ProcessingTimeMs int64           `json:"processing_time_ms"`
}

// AnalyzeBatch runs Analyze over every text. Items fail independently: an
// empty text yields an error entry at its index while the rest of the
// batch completes.
func (s *ReviewService) AnalyzeBatch(req BatchReviewRequest) (*BatchReviewResponse, error) {
	if len(req.Texts) == 0 {
		metrics.RecordBatchError("empty")
		return nil, fmt.Errorf("texts cannot be empty")
	}
	if max := s.batchLimit(); len(req.Texts) > max {
		metrics.RecordBatchError("too_large")
		return nil, fmt.Errorf("batch size %d exceeds the limit of %d texts", len(req.Texts), max)
	}

	start := time.Now()
	results := make([]BatchResult, len(req.Texts))
	for i, text := range req.Texts {
		response, err := s.Analyze(ReviewRequest{Text: text})
		if err != nil {
			results[i] = BatchResult{Index: i, Error: err.Error()}
			continue
		}
		results[i] = BatchResult{Index: i, Response: response}
	}

	elapsed := time.Since(start)
	metrics.RecordBatchTexts(len(req.Texts))
	metrics.RecordBatchDuration(elapsed.Seconds())

	return &BatchReviewResponse{
		Results:          results,
		Statistics:       computeBatchStatistics(results),
		TotalTexts:       len(req.Texts),
		ProcessingTimeMs: elapsed.Milliseconds(),
	}, nil
}

func (s *ReviewService) batchLimit() int {
	if s.config != nil && s.config.API.BatchMaxTexts > 0 {
		return s.config.API.BatchMaxTexts
	}
	return config.DefaultBatchMaxTexts
}

func computeBatchStatistics(results []BatchResult) BatchStatistics {
	stats := BatchStatistics{SentimentDistribution: make(map[string]int)}

	var confidenceSum float64
	var confidenceCount int
	for _, result := range results {
		if result.Error != "" {
			stats.ErrorCount++
			continue
		}
		if result.Response.Sentiment.Available {
			stats.SentimentDistribution[result.Response.Sentiment.Label]++
		}
		for _, axis := range []classification.AxisResult{
			result.Response.Sentiment,
			result.Response.ReviewType,
			result.Response.ProductCategory,
		} {
			if !axis.Available {
				stats.UnavailableAxisCount++
				continue
			}
			confidenceSum += axis.Confidence
			confidenceCount++
		}
	}
	if confidenceCount > 0 {
		stats.AvgConfidence = confidenceSum / float64(confidenceCount)
	}
	return stats
}
