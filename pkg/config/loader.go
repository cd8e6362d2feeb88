package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v2"
)

var (
	config     *ClassifierConfig
	configOnce sync.Once
	configErr  error
	configMu   sync.RWMutex
)

// Load loads the configuration from the specified YAML file once and caches it globally.
func Load(configPath string) (*ClassifierConfig, error) {
	configOnce.Do(func() {
		cfg, err := Parse(configPath)
		if err != nil {
			configErr = err
			return
		}
		configMu.Lock()
		config = cfg
		configMu.Unlock()
	})
	if configErr != nil {
		return nil, configErr
	}
	configMu.RLock()
	defer configMu.RUnlock()
	return config, nil
}

// Parse parses the YAML config file without touching the global cache.
func Parse(configPath string) (*ClassifierConfig, error) {
	// Resolve symlinks to handle Kubernetes ConfigMap mounts
	resolved, _ := filepath.EvalSymlinks(configPath)
	if resolved == "" {
		resolved = configPath
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		log.Printf("[config.Parse] ERROR reading config file: %v", err)
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &ClassifierConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		log.Printf("[config.Parse] ERROR parsing YAML: %v", err)
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()

	if err := validateConfigStructure(cfg); err != nil {
		log.Printf("[config.Parse] ERROR validation failed: %v", err)
		return nil, err
	}

	log.Printf("[config.Parse] Config loaded: path=%s, api_port=%d, cache_enabled=%v",
		resolved, cfg.API.Port, cfg.Cache.Enabled)
	return cfg, nil
}

// Default returns a configuration with every default applied, used when no
// config file is given.
func Default() *ClassifierConfig {
	cfg := &ClassifierConfig{}
	cfg.applyDefaults()
	return cfg
}

// Replace replaces the globally cached config. It is safe for concurrent readers.
func Replace(newCfg *ClassifierConfig) {
	configMu.Lock()
	config = newCfg
	configErr = nil
	configMu.Unlock()
}

// Get returns the current configuration
func Get() *ClassifierConfig {
	configMu.RLock()
	defer configMu.RUnlock()
	return config
}
