package backend

import (
	"context"
	"errors"
	"time"

	"github.com/ZaguanLabs/cloudtranslate"
	"github.com/sony/gobreaker"
)

// BreakerConfig configures the circuit breaker.
type BreakerConfig struct {
	Name             string        // Breaker name (default: "cloudtranslate")
	FailureThreshold uint32        // Consecutive failures that open the circuit (default: 5)
	OpenTimeout      time.Duration // Time spent open before probing again (default: 30s)
}

// CircuitBreaker stops calling the backend after repeated failures and fails
// fast until the open timeout elapses.
func CircuitBreaker(cfg BreakerConfig) Middleware {
	if cfg.Name == "" {
		cfg.Name = "cloudtranslate"
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    cfg.Name,
		Timeout: cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		// Caller mistakes don't say anything about backend health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return func(next TranslationBackend) TranslationBackend {
		return &decorated{
			next: next,
			around: func(ctx context.Context, op string, call func() error) error {
				_, err := cb.Execute(func() (interface{}, error) {
					return nil, call()
				})
				if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
					return &cloudtranslate.BackendError{
						Op:        op,
						Message:   "circuit open",
						Cause:     err,
						Retryable: true,
					}
				}
				return err
			},
		}
	}
}
