package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newBreakerService() *GeminiService {
	return &GeminiService{
		logger:            zap.NewNop(),
		maxRetries:        3,
		baseDelay:         time.Second,
		maxDelay:          30 * time.Second,
		requestTimeout:    time.Second,
		circuitBreakerMax: 5,
	}
}

func TestGenerateTextEmptyPrompt(t *testing.T) {
	s := newBreakerService()

	_, err := s.GenerateText(context.Background(), "   ")

	assert.ErrorContains(t, err, "prompt cannot be empty")
}

func TestCircuitBreakerOpenRejectsCalls(t *testing.T) {
	s := newBreakerService()
	s.consecutiveErrors.Store(s.circuitBreakerMax)

	_, err := s.GenerateText(context.Background(), "hello")
	assert.ErrorContains(t, err, "circuit breaker open")

	_, err = s.GenerateEmbedding(context.Background(), "hello")
	assert.ErrorContains(t, err, "circuit breaker open")
}

func TestCircuitBreakerConcurrentAccess(t *testing.T) {
	s := newBreakerService()
	s.consecutiveErrors.Store(s.circuitBreakerMax)

	// Batch ranking fans out concurrent calls over one shared instance,
	// so the breaker counter must tolerate reads racing with recorded
	// failures. Run under -race to verify.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := s.GenerateText(context.Background(), "hello")
			assert.ErrorContains(t, err, "circuit breaker open")
		}()
		go func() {
			defer wg.Done()
			s.consecutiveErrors.Add(1)
		}()
	}
	wg.Wait()

	assert.GreaterOrEqual(t, s.consecutiveErrors.Load(), s.circuitBreakerMax)
}
