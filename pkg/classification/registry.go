package classification

import (
	"errors"
	"os"
	"sync"

	"github.com/SUDARSHANJADHAV2/Smart-Review-Classifer/pkg/config"
	"github.com/SUDARSHANJADHAV2/Smart-Review-Classifer/pkg/model"
	"github.com/SUDARSHANJADHAV2/Smart-Review-Classifer/pkg/observability/logging"
	"github.com/SUDARSHANJADHAV2/Smart-Review-Classifer/pkg/observability/metrics"
)

// Axis names used across results, logs, and metrics.
const (
	AxisSentiment       = "sentiment"
	AxisReviewType      = "review_type"
	AxisProductCategory = "product_category"
)

// Snapshot holds every artifact the classifier may use. Slots for
// artifacts that were missing or unreadable stay nil; the classifier
// treats nil slots as unavailable axes. A snapshot is immutable once
// loaded and safe for concurrent readers.
type Snapshot struct {
	Sentiment       model.Model
	ReviewType      model.Model
	ProductCategory model.Model
	TopicMapping    *TopicMapping
	KeywordTable    *KeywordTable
	Vectorizer      *model.Vectorizer

	paths config.ArtifactPathsConfig
}

// LoadSnapshot reads every configured artifact exactly once. A slot that
// cannot be loaded is left nil with a warning; LoadSnapshot itself never
// fails, because running with partial artifacts is a supported state.
func LoadSnapshot(paths config.ArtifactPathsConfig) *Snapshot {
	paths = paths.Resolved()
	snap := &Snapshot{paths: paths}

	// The shared vectorizer loads first so classifier artifacts without an
	// embedded vectorizer can bind to it.
	if paths.VectorizerPath != "" {
		vectorizer, err := model.LoadVectorizer(paths.VectorizerPath)
		if err != nil {
			logging.Warnf("Shared vectorizer unavailable: %v", err)
			metrics.RecordArtifactLoad("vectorizer", loadFailureStatus(err))
		} else {
			snap.Vectorizer = vectorizer
			metrics.RecordArtifactLoad("vectorizer", "ok")
		}
	}

	snap.Sentiment = loadAxisModel(AxisSentiment, paths.SentimentModelPath, snap.Vectorizer)
	snap.ReviewType = loadAxisModel(AxisReviewType, paths.ReviewTypeModelPath, snap.Vectorizer)
	snap.ProductCategory = loadAxisModel(AxisProductCategory, paths.ProductCategoryModelPath, snap.Vectorizer)

	if paths.TopicMappingPath != "" {
		mapping, err := LoadTopicMapping(paths.TopicMappingPath)
		if err != nil {
			logging.Warnf("Topic mapping unavailable: %v", err)
			metrics.RecordArtifactLoad("topic_mapping", loadFailureStatus(err))
		} else {
			snap.TopicMapping = mapping
			metrics.RecordArtifactLoad("topic_mapping", "ok")
		}
	}

	if paths.ReviewKeywordsPath != "" {
		table, err := LoadKeywordTable(paths.ReviewKeywordsPath)
		if err != nil {
			logging.Warnf("Review keyword table unavailable: %v", err)
			metrics.RecordArtifactLoad("review_keywords", loadFailureStatus(err))
		} else {
			snap.KeywordTable = table
			metrics.RecordArtifactLoad("review_keywords", "ok")
		}
	}

	loaded, configured := snap.loadedCounts()
	logging.Infof("Artifact snapshot ready: %d/%d configured artifacts loaded", loaded, configured)
	return snap
}

func loadAxisModel(axis, path string, shared *model.Vectorizer) model.Model {
	if path == "" {
		return nil
	}
	m, err := model.LoadLinearModel(path, shared)
	if err != nil {
		logging.Warnf("%s model unavailable: %v", axis, err)
		metrics.RecordArtifactLoad(axis, loadFailureStatus(err))
		return nil
	}
	metrics.RecordArtifactLoad(axis, "ok")
	return m
}

func loadFailureStatus(err error) string {
	if errors.Is(err, os.ErrNotExist) {
		return "missing"
	}
	return "error"
}

var (
	sharedSnapshot *Snapshot
	snapshotOnce   sync.Once
)

// SharedSnapshot loads the artifact snapshot once per process and returns
// the cached value on every later call. The paths argument only matters on
// the first call; tests should build their own snapshots with LoadSnapshot
// and pass them around explicitly.
func SharedSnapshot(paths config.ArtifactPathsConfig) *Snapshot {
	snapshotOnce.Do(func() {
		sharedSnapshot = LoadSnapshot(paths)
	})
	return sharedSnapshot
}

// ArtifactStatus reports whether one artifact made it into the snapshot.
type ArtifactStatus struct {
	Name   string `json:"name"`
	Loaded bool   `json:"loaded"`
	Path   string `json:"path,omitempty"`
}

// Status lists the load outcome of all six artifacts in a fixed order.
func (s *Snapshot) Status() []ArtifactStatus {
	return []ArtifactStatus{
		{Name: AxisSentiment, Loaded: s.Sentiment != nil, Path: s.paths.SentimentModelPath},
		{Name: AxisReviewType, Loaded: s.ReviewType != nil, Path: s.paths.ReviewTypeModelPath},
		{Name: AxisProductCategory, Loaded: s.ProductCategory != nil, Path: s.paths.ProductCategoryModelPath},
		{Name: "topic_mapping", Loaded: s.TopicMapping != nil, Path: s.paths.TopicMappingPath},
		{Name: "review_keywords", Loaded: s.KeywordTable != nil, Path: s.paths.ReviewKeywordsPath},
		{Name: "vectorizer", Loaded: s.Vectorizer != nil, Path: s.paths.VectorizerPath},
	}
}

func (s *Snapshot) loadedCounts() (loaded, configured int) {
	for _, status := range s.Status() {
		if status.Path == "" {
			continue
		}
		configured++
		if status.Loaded {
			loaded++
		}
	}
	return loaded, configured
}
