package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/mfaqihw/dev-screener/internal/config"
)

type GeminiServiceInterface interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// GeminiService wraps the GenAI client with bounded retries, exponential
// backoff with jitter, and a consecutive-failure circuit breaker. The
// failure counter is atomic because batch ranking fans out concurrent
// calls over one shared instance.
type GeminiService struct {
	client            *genai.Client
	model             string
	logger            *zap.Logger
	maxRetries        int
	baseDelay         time.Duration
	maxDelay          time.Duration
	requestTimeout    time.Duration
	consecutiveErrors atomic.Int32
	circuitBreakerMax int32
}

func NewGeminiService(ctx context.Context, cfg *config.GeminiConfig, logger *zap.Logger) (*GeminiService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiService{
		client:            client,
		model:             cfg.Model,
		logger:            logger,
		maxRetries:        3,
		baseDelay:         time.Second,
		maxDelay:          30 * time.Second,
		requestTimeout:    60 * time.Second,
		circuitBreakerMax: 5,
	}, nil
}

// GenerateText submits a prompt and returns the concatenated text of the
// first candidate's parts.
func (s *GeminiService) GenerateText(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("prompt cannot be empty")
	}
	if errs := s.consecutiveErrors.Load(); errs >= s.circuitBreakerMax {
		return "", fmt.Errorf("circuit breaker open: %d consecutive errors", errs)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.requestTimeout)
	defer cancel()

	genConfig := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0.1)),
	}

	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			delay := s.calculateBackoff(attempt)
			s.logger.Debug("retrying generate content",
				zap.Int("attempt", attempt), zap.Duration("delay", delay))
			select {
			case <-time.After(delay):
			case <-timeoutCtx.Done():
				return "", fmt.Errorf("context timeout during retry: %w", timeoutCtx.Err())
			}
		}

		result, err := s.client.Models.GenerateContent(timeoutCtx, s.model, genai.Text(prompt), genConfig)
		if err == nil {
			s.consecutiveErrors.Store(0)
			text := strings.TrimSpace(result.Text())
			if text == "" {
				return "", fmt.Errorf("empty response from model")
			}
			return text, nil
		}

		lastErr = err
		if !s.isRetryableError(err) {
			s.consecutiveErrors.Add(1)
			return "", fmt.Errorf("generate content failed: %w", err)
		}
		s.logger.Debug("retryable generate content error", zap.Error(err))
	}

	s.consecutiveErrors.Add(1)
	return "", fmt.Errorf("max retries (%d) exceeded: %w", s.maxRetries, lastErr)
}

// GenerateEmbedding embeds the given text for semantic job search.
func (s *GeminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, fmt.Errorf("text for embedding cannot be empty")
	}
	if len(trimmed) > 10000 {
		trimmed = trimmed[:10000]
	}
	if errs := s.consecutiveErrors.Load(); errs >= s.circuitBreakerMax {
		return nil, fmt.Errorf("circuit breaker open: %d consecutive errors", errs)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.requestTimeout)
	defer cancel()

	content := []*genai.Content{genai.NewContentFromText(trimmed, genai.RoleUser)}

	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(s.calculateBackoff(attempt)):
			case <-timeoutCtx.Done():
				return nil, fmt.Errorf("context timeout during retry: %w", timeoutCtx.Err())
			}
		}

		result, err := s.client.Models.EmbedContent(timeoutCtx, "gemini-embedding-001", content, nil)
		if err == nil {
			s.consecutiveErrors.Store(0)
			return validateEmbedding(result)
		}

		lastErr = err
		if !s.isRetryableError(err) {
			s.consecutiveErrors.Add(1)
			return nil, fmt.Errorf("generate embedding failed: %w", err)
		}
		s.logger.Debug("retryable embedding error", zap.Error(err))
	}

	s.consecutiveErrors.Add(1)
	return nil, fmt.Errorf("max retries (%d) exceeded: %w", s.maxRetries, lastErr)
}

func (s *GeminiService) calculateBackoff(attempt int) time.Duration {
	delay := s.baseDelay * time.Duration(math.Pow(2, float64(attempt-1)))
	if delay > s.maxDelay {
		delay = s.maxDelay
	}
	jitter := time.Duration(float64(delay) * 0.25)
	return delay - jitter/2 + time.Duration(float64(jitter)*0.5)
}

func (s *GeminiService) isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if strings.Contains(msg, "context canceled") || strings.Contains(msg, "context deadline exceeded") {
		return false
	}
	if apiErr, ok := err.(*genai.APIError); ok {
		switch apiErr.Code {
		case 429, 500, 502, 503, 504:
			return true
		case 400, 401, 403, 404:
			return false
		}
	}
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "EOF")
}

func validateEmbedding(resp *genai.EmbedContentResponse) ([]float32, error) {
	if resp == nil || len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}
	values := resp.Embeddings[0].Values
	if len(values) == 0 {
		return nil, fmt.Errorf("embedding vector is empty")
	}
	for i, v := range values {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return nil, fmt.Errorf("invalid embedding value at index %d: %v", i, v)
		}
	}
	return values, nil
}
