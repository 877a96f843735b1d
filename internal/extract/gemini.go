package extract

import (
	"context"
	"crypto/rand"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"math"
	"math/big"
	"net"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"

	"recruitflow/internal/config"
	"recruitflow/internal/errors"
)

const extractionSystemPrompt = "You are a skill extraction engine for a recruitment pipeline. " +
	"Identify which of the allowed skill tags the given text demonstrates. " +
	"Only report tags from the allowed list, never invent new ones."

// GeminiExtractor extracts skill tags using the Gemini API, constrained
// to the same closed vocabulary the substring matcher uses. Responses
// outside the vocabulary are dropped, so both extractors honor the same
// output contract.
type GeminiExtractor struct {
	client         *genai.Client
	cfg            config.AIConfig
	vocabulary     []string
	circuitBreaker *CircuitBreaker
	logger         *errors.Logger
}

// Ensure GeminiExtractor implements Extractor
var _ Extractor = (*GeminiExtractor)(nil)

// NewGeminiExtractor creates a Gemini-backed extractor over the given
// vocabulary. An empty vocabulary falls back to the default.
func NewGeminiExtractor(cfg config.AIConfig, vocabulary []string, logger *errors.Logger) (*GeminiExtractor, error) {
	if cfg.APIKey == "" {
		return nil, errors.NewConfigError(errors.ErrCodeMissingAPIKey,
			"Gemini API key is required for the AI extractor", nil)
	}
	if len(vocabulary) == 0 {
		vocabulary = DefaultVocabulary()
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, errors.NewAIError(errors.ErrCodeAIServiceFailed,
			"Failed to create Gemini client", err)
	}

	return &GeminiExtractor{
		client:         client,
		cfg:            cfg,
		vocabulary:     vocabulary,
		circuitBreaker: NewCircuitBreaker(cfg.CircuitBreaker, logger),
		logger:         logger,
	}, nil
}

// Extract asks the model which vocabulary tags the text demonstrates.
// The result is filtered to the vocabulary and returned in vocabulary
// order, matching the substring extractor's output contract.
func (g *GeminiExtractor) Extract(ctx context.Context, text string) ([]string, error) {
	tracer := otel.Tracer("recruitflow.extract.gemini")
	ctx, span := tracer.Start(ctx, "gemini.extract_skills")
	defer span.End()

	span.SetAttributes(
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.model", g.cfg.Model),
		attribute.Int("input.text_length", len(text)),
	)

	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	genaiConfig := g.buildExtractionSchema()
	prompt := fmt.Sprintf("Allowed skill tags: %s\n\nText:\n%s",
		strings.Join(g.vocabulary, ", "), text)

	result, err := g.circuitBreaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return g.executeWithRetry(ctx, func() (*genai.GenerateContentResponse, error) {
			return g.client.Models.GenerateContent(ctx, g.cfg.Model, genai.Text(prompt), genaiConfig)
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return nil, errors.NewAIError(errors.ErrCodeAIServiceFailed,
			"Failed to extract skills", err)
	}

	var raw []string
	if err := json.Unmarshal([]byte(result.Text()), &raw); err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return nil, errors.NewAIError("AI_RESPONSE_PARSE_FAILED",
			"Failed to parse skill extraction response", err)
	}

	tags := g.filterToVocabulary(raw)
	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("output.tag_count", len(tags)),
	)
	return tags, nil
}

// buildExtractionSchema constrains the response to a JSON array of
// vocabulary strings.
func (g *GeminiExtractor) buildExtractionSchema() *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeString,
				Enum: g.vocabulary,
			},
		},
		SystemInstruction: genai.NewContentFromText(extractionSystemPrompt, genai.RoleUser),
	}
	if g.cfg.Temperature > 0 {
		temp := g.cfg.Temperature
		cfg.Temperature = &temp
	}
	return cfg
}

// filterToVocabulary drops tags outside the vocabulary, dedupes, and
// restores vocabulary order.
func (g *GeminiExtractor) filterToVocabulary(raw []string) []string {
	reported := make(map[string]bool, len(raw))
	for _, tag := range raw {
		reported[strings.ToLower(strings.TrimSpace(tag))] = true
	}

	var tags []string
	for _, tag := range g.vocabulary {
		if reported[strings.ToLower(tag)] {
			tags = append(tags, tag)
		}
	}
	return tags
}

// executeWithRetry runs the extraction call with exponential backoff and
// jitter. Retries stop early on non-retryable errors.
func (g *GeminiExtractor) executeWithRetry(ctx context.Context, fn func() (*genai.GenerateContentResponse, error)) (*genai.GenerateContentResponse, error) {
	var lastErr error

	for attempt := 0; attempt <= g.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			if g.logger != nil {
				g.logger.Warn("Retrying skill extraction",
					"attempt", attempt,
					"max_retries", g.cfg.MaxRetries,
					"error", lastErr.Error())
			}

			baseDelay := time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
			jitterMax := big.NewInt(int64(float64(baseDelay) * 0.1))
			jitterBig, _ := rand.Int(rand.Reader, jitterMax)
			jitter := time.Duration(jitterBig.Int64())
			backoff := min(baseDelay+jitter, 30*time.Second)

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !isRetryableError(err) {
			break
		}
	}

	return nil, fmt.Errorf("skill extraction failed after %d retries: %w", g.cfg.MaxRetries, lastErr)
}

// isRetryableError determines if an error should trigger a retry
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if stderrors.As(err, &netErr) {
		return true
	}

	var apiErr *googleapi.Error
	if stderrors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}

	return false
}

// GetCircuitBreakerStats returns circuit breaker statistics for the
// health endpoint.
func (g *GeminiExtractor) GetCircuitBreakerStats() map[string]any {
	stats := map[string]any{
		"extraction": g.circuitBreaker.GetStats(),
	}
	stats["overall_healthy"] = g.circuitBreaker.IsHealthy()
	return stats
}
