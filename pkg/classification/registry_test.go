package classification

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/SUDARSHANJADHAV2/Smart-Review-Classifer/pkg/config"
)

const testModelJSON = `{
	"classes": ["negative", "positive"],
	"coefficients": [[-1.0, 2.0], [1.5, -2.0]],
	"intercepts": [0.0, 0.0],
	"vectorizer": {"vocabulary": {"amazing": 0, "terrible": 1}}
}`

const testBareModelJSON = `{
	"classes": ["complaint", "praise"],
	"coefficients": [[2.0, -1.0], [-2.0, 1.5]],
	"intercepts": [0.1, -0.1]
}`

// writeArtifactDir lays out a full artifact directory using the standard
// file names.
func writeArtifactDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		config.SentimentModelFile:       testModelJSON,
		config.ReviewTypeModelFile:      testBareModelJSON,
		config.ProductCategoryModelFile: testModelJSON,
		config.TopicMappingFile:         `{"topic_to_label": {"3": "Tops", "7": "Dresses"}}`,
		config.ReviewKeywordsFile:       `{"label_to_keywords": {"complaint": ["broken"]}}`,
		config.VectorizerFile:           `{"vocabulary": {"amazing": 0, "terrible": 1}}`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	return dir
}

func TestLoadSnapshotAllArtifacts(t *testing.T) {
	dir := writeArtifactDir(t)

	snap := LoadSnapshot(config.ArtifactPathsConfig{ArtifactsDir: dir})

	if snap.Sentiment == nil || snap.ReviewType == nil || snap.ProductCategory == nil {
		t.Fatal("expected all three axis models to load")
	}
	if snap.TopicMapping == nil || snap.KeywordTable == nil || snap.Vectorizer == nil {
		t.Fatal("expected mapping, keyword table, and vectorizer to load")
	}
	for _, status := range snap.Status() {
		if !status.Loaded {
			t.Errorf("artifact %s not loaded, path %s", status.Name, status.Path)
		}
	}
}

func TestLoadSnapshotMissingArtifacts(t *testing.T) {
	dir := writeArtifactDir(t)
	if err := os.Remove(filepath.Join(dir, config.SentimentModelFile)); err != nil {
		t.Fatalf("Failed to remove sentiment model: %v", err)
	}
	if err := os.Remove(filepath.Join(dir, config.TopicMappingFile)); err != nil {
		t.Fatalf("Failed to remove topic mapping: %v", err)
	}

	snap := LoadSnapshot(config.ArtifactPathsConfig{ArtifactsDir: dir})

	if snap.Sentiment != nil {
		t.Error("expected missing sentiment model to stay nil")
	}
	if snap.TopicMapping != nil {
		t.Error("expected missing topic mapping to stay nil")
	}
	if snap.ReviewType == nil || snap.ProductCategory == nil {
		t.Error("expected remaining axis models to load")
	}
}

func TestLoadSnapshotCorruptArtifact(t *testing.T) {
	dir := writeArtifactDir(t)
	if err := os.WriteFile(filepath.Join(dir, config.ReviewTypeModelFile), []byte("not json"), 0o644); err != nil {
		t.Fatalf("Failed to corrupt review type model: %v", err)
	}

	snap := LoadSnapshot(config.ArtifactPathsConfig{ArtifactsDir: dir})

	if snap.ReviewType != nil {
		t.Error("expected corrupt review type model to stay nil")
	}
	if snap.Sentiment == nil {
		t.Error("expected sentiment model to load despite corrupt sibling")
	}
}

func TestLoadSnapshotSharedVectorizerFallback(t *testing.T) {
	dir := writeArtifactDir(t)
	// The review type model carries no embedded vectorizer and must bind to
	// the shared one.
	snap := LoadSnapshot(config.ArtifactPathsConfig{ArtifactsDir: dir})
	if snap.ReviewType == nil {
		t.Fatal("expected review type model to bind the shared vectorizer")
	}

	// Without a shared vectorizer the same model cannot load.
	if err := os.Remove(filepath.Join(dir, config.VectorizerFile)); err != nil {
		t.Fatalf("Failed to remove vectorizer: %v", err)
	}
	snap = LoadSnapshot(config.ArtifactPathsConfig{ArtifactsDir: dir})
	if snap.ReviewType != nil {
		t.Error("expected review type model to stay nil without any vectorizer")
	}
	if snap.Sentiment == nil {
		t.Error("expected embedded-vectorizer model to load without the shared one")
	}
}

func TestLoadSnapshotNothingConfigured(t *testing.T) {
	snap := LoadSnapshot(config.ArtifactPathsConfig{})

	for _, status := range snap.Status() {
		if status.Loaded {
			t.Errorf("artifact %s loaded with no paths configured", status.Name)
		}
		if status.Path != "" {
			t.Errorf("artifact %s has unexpected path %s", status.Name, status.Path)
		}
	}
}

func TestLoadSnapshotExplicitPathsOverrideDir(t *testing.T) {
	dir := writeArtifactDir(t)
	altPath := filepath.Join(t.TempDir(), "custom_sentiment.json")
	if err := os.WriteFile(altPath, []byte(testModelJSON), 0o644); err != nil {
		t.Fatalf("Failed to write custom model: %v", err)
	}

	snap := LoadSnapshot(config.ArtifactPathsConfig{
		ArtifactsDir:       dir,
		SentimentModelPath: altPath,
	})

	if snap.Sentiment == nil {
		t.Fatal("expected sentiment model from explicit path")
	}
	for _, status := range snap.Status() {
		if status.Name == AxisSentiment && status.Path != altPath {
			t.Errorf("sentiment path = %s, want %s", status.Path, altPath)
		}
	}
}
