package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/SUDARSHANJADHAV2/Smart-Review-Classifer/pkg/api"
	"github.com/SUDARSHANJADHAV2/Smart-Review-Classifer/pkg/config"
	"github.com/SUDARSHANJADHAV2/Smart-Review-Classifer/pkg/observability/logging"
	"github.com/SUDARSHANJADHAV2/Smart-Review-Classifer/pkg/services"
)

func main() {
	// Parse command-line flags
	var (
		configPath  = flag.String("config", "config/config.yaml", "Path to the configuration file")
		apiPort     = flag.Int("api-port", 0, "Port for the classification API (0 uses api.port from the config)")
		metricsPort = flag.Int("metrics-port", 9190, "Port for Prometheus metrics")
	)
	flag.Parse()

	// Initialize logging (zap) from environment.
	if _, err := logging.InitLoggerFromEnv(); err != nil {
		// Fallback to stderr since logger initialization failed
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
	}

	// Check if config file exists
	if _, err := os.Stat(*configPath); os.IsNotExist(err) {
		logging.Fatalf("Config file not found: %s", *configPath)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Fatalf("Failed to load config: %v", err)
	}

	// Start metrics server
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		metricsAddr := fmt.Sprintf(":%d", *metricsPort)
		logging.Infof("Starting metrics server on %s", metricsAddr)
		if err := http.ListenAndServe(metricsAddr, nil); err != nil {
			logging.Errorf("Metrics server error: %v", err)
		}
	}()

	// Load artifacts and publish the global review service before the API
	// starts taking requests.
	services.NewReviewServiceFromConfig(cfg)

	logging.Infof("Starting review classifier with config: %s", *configPath)
	if err := api.StartReviewAPI(*configPath, *apiPort); err != nil {
		logging.Fatalf("Review API server error: %v", err)
	}
}
