package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	retry "github.com/sethvargo/go-retry"

	"github.com/SUDARSHANJADHAV2/Smart-Review-Classifer/pkg/classification"
	"github.com/SUDARSHANJADHAV2/Smart-Review-Classifer/pkg/config"
	"github.com/SUDARSHANJADHAV2/Smart-Review-Classifer/pkg/observability/logging"
	"github.com/SUDARSHANJADHAV2/Smart-Review-Classifer/pkg/observability/metrics"
	"github.com/SUDARSHANJADHAV2/Smart-Review-Classifer/pkg/ratelimit"
	"github.com/SUDARSHANJADHAV2/Smart-Review-Classifer/pkg/services"
)

// ReviewAPIServer serves the review classification HTTP API.
type ReviewAPIServer struct {
	reviewSvc *services.ReviewService
	config    *config.ClassifierConfig
	limiter   *ratelimit.Limiter
}

// StartReviewAPI starts the HTTP API on the given port. It reuses the
// global review service when one is already initialized, otherwise it
// builds a service from the config. The call blocks until the server
// stops.
func StartReviewAPI(configPath string, port int) error {
	var cfg *config.ClassifierConfig
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			logging.Warnf("Failed to load config %s for the API server: %v", configPath, err)
		} else {
			cfg = loaded
		}
	}
	if cfg == nil {
		cfg = config.Default()
	}

	reviewSvc := getReviewServiceWithRetry(context.Background(), 4, 250*time.Millisecond)
	if reviewSvc == nil {
		logging.Warnf("No global review service found, initializing one from config")
		reviewSvc = services.NewReviewServiceFromConfig(cfg)
	}

	if port <= 0 {
		port = cfg.API.Port
	}

	apiServer := &ReviewAPIServer{
		reviewSvc: reviewSvc,
		config:    cfg,
		limiter:   limiterFromConfig(cfg.API.RateLimit),
	}

	mux := apiServer.setupRoutes()
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logging.Infof("Review classification API listening on port %d", port)
	return server.ListenAndServe()
}

// getReviewServiceWithRetry waits for the daemon to publish the global
// review service. The API can start before artifacts finish loading, so a
// few short retries cover the normal startup race.
func getReviewServiceWithRetry(ctx context.Context, maxRetries uint64, retryInterval time.Duration) *services.ReviewService {
	var svc *services.ReviewService
	backoff := retry.NewConstant(retryInterval)
	err := retry.Do(ctx, retry.WithMaxRetries(maxRetries, backoff), func(context.Context) error {
		if svc = services.GetGlobalReviewService(); svc != nil {
			return nil
		}
		return retry.RetryableError(errors.New("global review service not ready"))
	})
	if err != nil {
		logging.Warnf("Global review service not found after %d attempts: %v", maxRetries+1, err)
		return nil
	}
	return svc
}

// limiterFromConfig returns nil when the throttle is disabled; a nil
// limiter allows every request.
func limiterFromConfig(cfg config.RateLimitConfig) *ratelimit.Limiter {
	if !cfg.Enabled {
		return nil
	}
	logging.Infof("Classify endpoints throttled at %d requests per %s per client", cfg.Requests, cfg.Per)
	return ratelimit.NewLimiter(cfg.Requests, ratelimit.ParseUnit(cfg.Per))
}

func (s *ReviewAPIServer) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("GET /health", s.handleHealth)

	// Classification endpoints, throttled per client
	mux.HandleFunc("POST /api/v1/classify", s.withThrottle("classify", s.handleClassifyReview))
	mux.HandleFunc("POST /api/v1/classify/batch", s.withThrottle("classify_batch", s.handleBatchClassification))

	// Information endpoints
	mux.HandleFunc("GET /info/artifacts", s.handleArtifactsInfo)
	mux.HandleFunc("GET /info/classifier", s.handleClassifierInfo)

	return mux
}

// withThrottle enforces the per-client request limit on the model-serving
// endpoints. Health and info endpoints stay unthrottled.
func (s *ReviewAPIServer) withThrottle(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		decision := s.limiter.Check(ratelimit.ClientKey(r))
		if s.limiter != nil {
			w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(decision.Limit, 10))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(decision.Remaining, 10))
		}
		if !decision.Allowed {
			w.Header().Set("Retry-After", strconv.Itoa(int(decision.RetryAfter/time.Second)+1))
			metrics.RecordRequestError(endpoint, "rate_limited")
			s.writeErrorResponse(w, http.StatusTooManyRequests, "RATE_LIMITED", "request rate limit exceeded")
			return
		}
		next(w, r)
	}
}

func (s *ReviewAPIServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "healthy", "service": "review-classifier-api"}`))
}

func (s *ReviewAPIServer) handleClassifyReview(w http.ResponseWriter, r *http.Request) {
	requestID := s.ensureRequestID(w, r)

	var req services.ReviewRequest
	if err := s.parseJSONRequest(r, &req); err != nil {
		metrics.RecordRequestError("classify", "invalid_json")
		s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	response, err := s.reviewSvc.Analyze(req)
	if err != nil {
		if errors.Is(err, classification.ErrEmptyReview) {
			metrics.RecordRequestError("classify", "empty_review")
			s.writeErrorResponse(w, http.StatusBadRequest, "EMPTY_REVIEW", err.Error())
			return
		}
		metrics.RecordRequestError("classify", "classification_failed")
		s.writeErrorResponse(w, http.StatusInternalServerError, "CLASSIFICATION_ERROR", err.Error())
		return
	}

	logging.Debugf("Request %s classified in %dms", requestID, response.ProcessingTimeMs)
	s.writeJSONResponse(w, http.StatusOK, response)
}

func (s *ReviewAPIServer) handleBatchClassification(w http.ResponseWriter, r *http.Request) {
	s.ensureRequestID(w, r)

	// Read the raw body first to tell a missing texts field apart from an
	// explicitly empty one.
	body, err := io.ReadAll(r.Body)
	if err != nil {
		metrics.RecordRequestError("classify_batch", "read_body_failed")
		s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_INPUT", "Failed to read request body")
		return
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	var rawReq map[string]interface{}
	if err := json.Unmarshal(body, &rawReq); err != nil {
		metrics.RecordRequestError("classify_batch", "invalid_json")
		s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_INPUT", "Invalid JSON format")
		return
	}
	if _, exists := rawReq["texts"]; !exists {
		metrics.RecordRequestError("classify_batch", "missing_texts_field")
		s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_INPUT", "texts field is required")
		return
	}

	var req services.BatchReviewRequest
	if err := s.parseJSONRequest(r, &req); err != nil {
		metrics.RecordRequestError("classify_batch", "parse_request_failed")
		s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}
	if len(req.Texts) == 0 {
		metrics.RecordRequestError("classify_batch", "empty_texts")
		s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_INPUT", "texts array cannot be empty")
		return
	}

	response, err := s.reviewSvc.AnalyzeBatch(req)
	if err != nil {
		metrics.RecordRequestError("classify_batch", "invalid_batch")
		s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	s.writeJSONResponse(w, http.StatusOK, response)
}

func (s *ReviewAPIServer) handleArtifactsInfo(w http.ResponseWriter, r *http.Request) {
	statuses := s.reviewSvc.ArtifactStatus()
	loaded := 0
	for _, status := range statuses {
		if status.Loaded {
			loaded++
		}
	}

	s.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"artifacts": statuses,
		"loaded":    loaded,
		"total":     len(statuses),
	})
}

func (s *ReviewAPIServer) handleClassifierInfo(w http.ResponseWriter, r *http.Request) {
	if s.config == nil {
		s.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
			"status": "no_config",
			"config": nil,
			"cache":  s.reviewSvc.CacheStats(),
		})
		return
	}

	s.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"status": "config_loaded",
		"config": s.config,
		"cache":  s.reviewSvc.CacheStats(),
	})
}

// ensureRequestID echoes the caller's X-Request-ID or mints one, so every
// response can be correlated with the logs.
func (s *ReviewAPIServer) ensureRequestID(w http.ResponseWriter, r *http.Request) string {
	requestID := r.Header.Get("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	w.Header().Set("X-Request-ID", requestID)
	return requestID
}

func (s *ReviewAPIServer) parseJSONRequest(r *http.Request, v interface{}) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return fmt.Errorf("failed to read request body: %w", err)
	}
	defer r.Body.Close()

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}

	return nil
}

func (s *ReviewAPIServer) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Errorf("Failed to encode JSON response: %v", err)
	}
}

func (s *ReviewAPIServer) writeErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) {
	errorResponse := map[string]interface{}{
		"error": map[string]interface{}{
			"code":      errorCode,
			"message":   message,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	}

	s.writeJSONResponse(w, statusCode, errorResponse)
}
