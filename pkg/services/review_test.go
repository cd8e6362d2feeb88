package services

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/SUDARSHANJADHAV2/Smart-Review-Classifer/pkg/cache"
	"github.com/SUDARSHANJADHAV2/Smart-Review-Classifer/pkg/classification"
	"github.com/SUDARSHANJADHAV2/Smart-Review-Classifer/pkg/config"
	"github.com/SUDARSHANJADHAV2/Smart-Review-Classifer/pkg/model"
)

type fixedModel struct {
	label      string
	confidence float64
}

func (m fixedModel) Predict(text string) (model.Prediction, error) {
	return model.Prediction{Label: m.label, Confidence: m.confidence}, nil
}

func newTestService(cacheEnabled bool) *ReviewService {
	snapshot := &classification.Snapshot{
		Sentiment:       fixedModel{"positive", 0.9},
		ReviewType:      fixedModel{"complaint", 0.8},
		ProductCategory: fixedModel{"Dresses", 0.7},
		TopicMapping: &classification.TopicMapping{TopicToLabel: map[string]string{
			"7": "Dresses",
			"3": "Tops",
		}},
		KeywordTable: &classification.KeywordTable{LabelToKeywords: map[string][]string{
			"complaint": {"broken", "refund"},
		}},
	}
	resultCache := cache.NewInMemoryCache(cache.InMemoryCacheOptions{
		Enabled:    cacheEnabled,
		MaxEntries: 16,
	})
	cfg := config.Default()
	return NewReviewService(classification.NewClassifier(snapshot), snapshot, resultCache, cfg)
}

func TestNewReviewService(t *testing.T) {
	service := newTestService(false)

	if service == nil {
		t.Fatal("Expected non-nil service")
	}
	if !service.HasClassifier() {
		t.Error("Expected service to have a classifier")
	}
	if GetGlobalReviewService() != service {
		t.Error("Expected global service to be set")
	}
	if len(service.ArtifactStatus()) == 0 {
		t.Error("Expected artifact status from the snapshot")
	}
}

func TestReviewService_Analyze(t *testing.T) {
	service := newTestService(false)

	response, err := service.Analyze(ReviewRequest{Text: "Zipper arrived BROKEN, want a refund!"})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if response.Sentiment.Label != "positive" || !response.Sentiment.Available {
		t.Errorf("Unexpected sentiment result: %+v", response.Sentiment)
	}
	if response.ReviewType.Label != "complaint" {
		t.Errorf("Unexpected review type result: %+v", response.ReviewType)
	}
	if response.CleanedText != "zipper arrived broken want a refund" {
		t.Errorf("Unexpected cleaned text: %q", response.CleanedText)
	}
	if len(response.MatchedKeywords) != 2 || response.MatchedKeywords[0] != "broken" || response.MatchedKeywords[1] != "refund" {
		t.Errorf("Unexpected matched keywords: %v", response.MatchedKeywords)
	}
	if response.TopicID == nil || *response.TopicID != 7 {
		t.Errorf("Unexpected topic id: %v", response.TopicID)
	}
}

func TestReviewService_Analyze_EmptyText(t *testing.T) {
	service := newTestService(false)

	for _, text := range []string{"", "   ", "\t\n"} {
		_, err := service.Analyze(ReviewRequest{Text: text})
		if !errors.Is(err, classification.ErrEmptyReview) {
			t.Errorf("Analyze(%q) error = %v, want ErrEmptyReview", text, err)
		}
	}
}

func TestReviewService_Analyze_CachedResponse(t *testing.T) {
	service := newTestService(true)
	text := "Zipper arrived BROKEN, want a refund!"

	first, err := service.Analyze(ReviewRequest{Text: text})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	second, err := service.Analyze(ReviewRequest{Text: text})
	if err != nil {
		t.Fatalf("Cached analyze failed: %v", err)
	}

	if stats := service.CacheStats(); stats.HitCount != 1 {
		t.Errorf("Cache hit count = %d, want 1", stats.HitCount)
	}
	if second.Sentiment != first.Sentiment || second.CleanedText != first.CleanedText {
		t.Error("Cached response differs from the original")
	}
	if second.TopicID == nil || *second.TopicID != *first.TopicID {
		t.Error("Cached response lost the topic id")
	}
}

func TestNewPlaceholderReviewService(t *testing.T) {
	service := NewPlaceholderReviewService()

	response, err := service.Analyze(ReviewRequest{Text: "lovely dress"})
	if err != nil {
		t.Fatalf("Placeholder analyze failed: %v", err)
	}
	if response.Sentiment.Available || response.ReviewType.Available || response.ProductCategory.Available {
		t.Error("Expected all axes unavailable on the placeholder service")
	}
	if response.CleanedText != "lovely dress" {
		t.Errorf("Unexpected cleaned text: %q", response.CleanedText)
	}
	if service.ArtifactStatus() != nil {
		t.Error("Expected nil artifact status without a snapshot")
	}
}

func TestReviewService_AnalyzeBatch(t *testing.T) {
	service := newTestService(false)

	response, err := service.AnalyzeBatch(BatchReviewRequest{Texts: []string{
		"Runs small, but lovely fabric",
		"   ",
		"Broken zipper on arrival",
	}})
	if err != nil {
		t.Fatalf("AnalyzeBatch failed: %v", err)
	}

	if response.TotalTexts != 3 {
		t.Errorf("TotalTexts = %d, want 3", response.TotalTexts)
	}
	if response.Results[0].Error != "" || response.Results[2].Error != "" {
		t.Error("Expected non-empty texts to classify")
	}
	if response.Results[1].Error == "" {
		t.Error("Expected an error entry for the empty text")
	}
	if response.Results[1].Response != nil {
		t.Error("Expected no response for the failed item")
	}

	stats := response.Statistics
	if stats.ErrorCount != 1 {
		t.Errorf("ErrorCount = %d, want 1", stats.ErrorCount)
	}
	if stats.SentimentDistribution["positive"] != 2 {
		t.Errorf("SentimentDistribution = %v, want positive=2", stats.SentimentDistribution)
	}
	if stats.UnavailableAxisCount != 0 {
		t.Errorf("UnavailableAxisCount = %d, want 0", stats.UnavailableAxisCount)
	}
	if want := 0.8; math.Abs(stats.AvgConfidence-want) > 1e-9 {
		t.Errorf("AvgConfidence = %f, want %f", stats.AvgConfidence, want)
	}
}

func TestReviewService_AnalyzeBatch_ErrorCases(t *testing.T) {
	t.Run("Empty_texts", func(t *testing.T) {
		service := newTestService(false)

		_, err := service.AnalyzeBatch(BatchReviewRequest{})
		if err == nil {
			t.Fatal("Expected error for empty texts")
		}
		if err.Error() != "texts cannot be empty" {
			t.Errorf("Expected 'texts cannot be empty' error, got: %v", err)
		}
	})

	t.Run("Batch_too_large", func(t *testing.T) {
		service := newTestService(false)
		service.config.API.BatchMaxTexts = 2

		_, err := service.AnalyzeBatch(BatchReviewRequest{Texts: []string{"a review", "b review", "c review"}})
		if err == nil {
			t.Fatal("Expected error for oversized batch")
		}
		if !strings.Contains(err.Error(), "limit of 2") {
			t.Errorf("Expected batch limit error, got: %v", err)
		}
	})
}

func TestReviewService_AnalyzeBatch_UnavailableAxes(t *testing.T) {
	service := NewPlaceholderReviewService()

	response, err := service.AnalyzeBatch(BatchReviewRequest{Texts: []string{"one review", "two review"}})
	if err != nil {
		t.Fatalf("AnalyzeBatch failed: %v", err)
	}

	stats := response.Statistics
	if stats.UnavailableAxisCount != 6 {
		t.Errorf("UnavailableAxisCount = %d, want 6", stats.UnavailableAxisCount)
	}
	if len(stats.SentimentDistribution) != 0 {
		t.Errorf("SentimentDistribution = %v, want empty", stats.SentimentDistribution)
	}
	if stats.AvgConfidence != 0 {
		t.Errorf("AvgConfidence = %f, want 0", stats.AvgConfidence)
	}
}
