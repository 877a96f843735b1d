package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"recruitflow/internal/extract"
)

// healthHandler provides a health check endpoint including extractor status
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"status":  "healthy",
		"service": "recruitflow",
		"version": s.Version,
	}

	extractorStatus := s.checkExtractorHealth()
	response["extractor"] = extractorStatus

	overallHealthy := true
	if healthy, ok := extractorStatus["healthy"].(bool); ok && !healthy {
		overallHealthy = false
	}

	if !overallHealthy {
		response["status"] = "degraded"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		log.Printf("Failed to encode health response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// checkExtractorHealth reports which extractor is active and, for the
// AI extractor, its circuit breaker state.
func (s *Server) checkExtractorHealth() map[string]any {
	status := make(map[string]any)

	switch e := s.Extractor.(type) {
	case *extract.GeminiExtractor:
		status["mode"] = "gemini"
		breakerStats := e.GetCircuitBreakerStats()
		status["circuit_breakers"] = breakerStats
		healthy := true
		if overall, ok := breakerStats["overall_healthy"].(bool); ok {
			healthy = overall
		}
		status["healthy"] = healthy
	case *extract.VocabularyExtractor:
		status["mode"] = "vocabulary"
		status["vocabulary_size"] = len(e.Vocabulary())
		status["healthy"] = true
	default:
		status["mode"] = fmt.Sprintf("%T", s.Extractor)
		status["healthy"] = true
	}

	if s.VocabularyWatcher != nil {
		status["vocabulary_watcher_running"] = s.VocabularyWatcher.IsRunning()
	}

	return status
}

// statsHandler provides server statistics including rate limiting info
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"service": "recruitflow",
		"version": s.Version,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
		},
		"pipeline": map[string]any{
			"pass_threshold":   s.AppConfig.Pipeline.PassThreshold,
			"review_threshold": s.AppConfig.Pipeline.ReviewThreshold,
			"job_match_cutoff": s.AppConfig.Pipeline.JobMatchCutoff,
			"max_top_matches":  s.AppConfig.Pipeline.MaxTopMatches,
		},
	}

	// Add rate limiting stats if enabled
	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{
			"enabled": false,
		}
	}

	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
			"by_api_key":       s.RateLimit.ByAPIKey,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		log.Printf("Failed to encode stats response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// parseJSONRequest parses JSON request body into the provided struct
func parseJSONRequest(r *http.Request, v any) error {
	if r.Header.Get("Content-Type") != "application/json" {
		return fmt.Errorf("content-type must be application/json")
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return fmt.Errorf("request body too large (limit is %d bytes)", maxBytesErr.Limit)
		}
		return fmt.Errorf("failed to read request body: %w", err)
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			log.Printf("Failed to close request body: %v", err)
		}
	}()

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}

	return nil
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, error, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error:   error,
		Message: message,
	}

	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		log.Printf("Failed to encode error response: %v", err)
		http.Error(w, "Failed to encode error response", http.StatusInternalServerError)
	}
}
