package config

import (
	"fmt"
	"path/filepath"
)

// Standard artifact file names, used when only artifacts_dir is configured.
const (
	SentimentModelFile       = "sentiment_model.json"
	ReviewTypeModelFile      = "review_type_model.json"
	ProductCategoryModelFile = "product_category_model.json"
	TopicMappingFile         = "topic_mapping.json"
	ReviewKeywordsFile       = "review_keywords.json"
	VectorizerFile           = "vectorizer.json"
)

// Defaults applied by Parse when the YAML leaves a value unset.
const (
	DefaultAPIPort           = 8080
	DefaultBatchMaxTexts     = 100
	DefaultCacheTTLSeconds   = 300
	DefaultCacheMaxEntries   = 1024
	DefaultEvictionPolicy    = "fifo"
	DefaultRateLimitRequests = 60
	DefaultRateLimitUnit     = "minute"
)

// ClassifierConfig is the top-level YAML configuration for the review
// classifier daemon and CLI.
type ClassifierConfig struct {
	// Artifacts locates the serialized model and mapping files. Every entry
	// is optional; missing artifacts degrade the matching axis at runtime.
	Artifacts ArtifactPathsConfig `yaml:"artifacts"`

	// API configures the HTTP classification API.
	API APIConfig `yaml:"api"`

	// Cache configures the in-memory result cache. Disabled by default.
	Cache CacheConfig `yaml:"cache"`
}

// ArtifactPathsConfig holds the on-disk locations of the classifier
// artifacts. ArtifactsDir supplies defaults for entries left empty, using
// the standard file names.
type ArtifactPathsConfig struct {
	ArtifactsDir string `yaml:"artifacts_dir,omitempty"`

	SentimentModelPath       string `yaml:"sentiment_model_path,omitempty"`
	ReviewTypeModelPath      string `yaml:"review_type_model_path,omitempty"`
	ProductCategoryModelPath string `yaml:"product_category_model_path,omitempty"`
	TopicMappingPath         string `yaml:"topic_mapping_path,omitempty"`
	ReviewKeywordsPath       string `yaml:"review_keywords_path,omitempty"`
	VectorizerPath           string `yaml:"vectorizer_path,omitempty"`
}

// APIConfig holds HTTP API settings.
type APIConfig struct {
	Port          int             `yaml:"port,omitempty"`
	BatchMaxTexts int             `yaml:"batch_max_texts,omitempty"`
	RateLimit     RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig throttles the classify endpoints per client. Disabled by
// default; health and info endpoints are never throttled.
type RateLimitConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Requests int    `yaml:"requests,omitempty"`
	Per      string `yaml:"per,omitempty"` // second, minute, hour, or day
}

// CacheConfig holds result cache settings.
type CacheConfig struct {
	Enabled        bool   `yaml:"enabled"`
	TTLSeconds     int    `yaml:"ttl_seconds,omitempty"`
	MaxEntries     int    `yaml:"max_entries,omitempty"`
	EvictionPolicy string `yaml:"eviction_policy,omitempty"` // fifo, lru, or lfu
}

// Resolved returns a copy of the artifact paths with empty entries filled
// from ArtifactsDir and the standard file names. Without an artifacts dir
// the paths are returned as configured.
func (a ArtifactPathsConfig) Resolved() ArtifactPathsConfig {
	if a.ArtifactsDir == "" {
		return a
	}
	fill := func(path *string, name string) {
		if *path == "" {
			*path = filepath.Join(a.ArtifactsDir, name)
		}
	}
	fill(&a.SentimentModelPath, SentimentModelFile)
	fill(&a.ReviewTypeModelPath, ReviewTypeModelFile)
	fill(&a.ProductCategoryModelPath, ProductCategoryModelFile)
	fill(&a.TopicMappingPath, TopicMappingFile)
	fill(&a.ReviewKeywordsPath, ReviewKeywordsFile)
	fill(&a.VectorizerPath, VectorizerFile)
	return a
}

// applyDefaults fills unset values so downstream code never has to guard
// against zero configuration.
func (c *ClassifierConfig) applyDefaults() {
	if c.API.Port == 0 {
		c.API.Port = DefaultAPIPort
	}
	if c.API.BatchMaxTexts == 0 {
		c.API.BatchMaxTexts = DefaultBatchMaxTexts
	}
	if c.API.RateLimit.Requests == 0 {
		c.API.RateLimit.Requests = DefaultRateLimitRequests
	}
	if c.API.RateLimit.Per == "" {
		c.API.RateLimit.Per = DefaultRateLimitUnit
	}
	if c.Cache.TTLSeconds == 0 {
		c.Cache.TTLSeconds = DefaultCacheTTLSeconds
	}
	if c.Cache.MaxEntries == 0 {
		c.Cache.MaxEntries = DefaultCacheMaxEntries
	}
	if c.Cache.EvictionPolicy == "" {
		c.Cache.EvictionPolicy = DefaultEvictionPolicy
	}
}

// validateConfigStructure rejects configurations that cannot work at all.
// Missing artifacts are deliberately NOT an error here: absent models are a
// supported runtime state, not a configuration mistake.
func validateConfigStructure(cfg *ClassifierConfig) error {
	if cfg.API.Port < 0 || cfg.API.Port > 65535 {
		return fmt.Errorf("api.port %d is out of range", cfg.API.Port)
	}
	if cfg.API.BatchMaxTexts < 1 {
		return fmt.Errorf("api.batch_max_texts must be at least 1, got %d", cfg.API.BatchMaxTexts)
	}
	if cfg.API.RateLimit.Requests < 1 {
		return fmt.Errorf("api.rate_limit.requests must be at least 1, got %d", cfg.API.RateLimit.Requests)
	}
	switch cfg.API.RateLimit.Per {
	case "second", "minute", "hour", "day":
	default:
		return fmt.Errorf("api.rate_limit.per %q is not one of second, minute, hour, day", cfg.API.RateLimit.Per)
	}
	if cfg.Cache.TTLSeconds < 0 {
		return fmt.Errorf("cache.ttl_seconds must not be negative, got %d", cfg.Cache.TTLSeconds)
	}
	if cfg.Cache.MaxEntries < 0 {
		return fmt.Errorf("cache.max_entries must not be negative, got %d", cfg.Cache.MaxEntries)
	}
	switch cfg.Cache.EvictionPolicy {
	case "fifo", "lru", "lfu":
	default:
		return fmt.Errorf("cache.eviction_policy %q is not one of fifo, lru, lfu", cfg.Cache.EvictionPolicy)
	}
	return nil
}
