package backend

import (
	"context"
	"errors"
	"time"

	"github.com/ZaguanLabs/cloudtranslate"
)

// RetryConfig holds configuration for retry behavior.
type RetryConfig struct {
	MaxRetries int           // Maximum number of retry attempts
	BaseDelay  time.Duration // Initial delay between retries
	MaxDelay   time.Duration // Maximum delay between retries
}

// DefaultRetryConfig returns the retry behavior used by the Google backend.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: cloudtranslate.DefaultRetries,
		BaseDelay:  500 * time.Millisecond,
		MaxDelay:   30 * time.Second,
	}
}

// RetryFunc is a function that can be retried.
type RetryFunc[T any] func() (T, error)

// WithRetry executes a function with exponential backoff retry.
func WithRetry[T any](ctx context.Context, cfg RetryConfig, fn RetryFunc[T]) (T, error) {
	var lastErr error
	var zero T

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		default:
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}

		lastErr = err

		if !IsRetryable(err) {
			return zero, err
		}

		if attempt < cfg.MaxRetries {
			delay := cfg.BaseDelay * time.Duration(1<<attempt)
			if delay > cfg.MaxDelay {
				delay = cfg.MaxDelay
			}

			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return zero, lastErr
}

// IsRetryable checks if an error is a retryable backend error.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var backendErr *cloudtranslate.BackendError
	if errors.As(err, &backendErr) {
		return backendErr.Retryable
	}

	return false
}

// Retrying retries retryable backend errors with exponential backoff.
func Retrying(cfg RetryConfig) Middleware {
	return func(next TranslationBackend) TranslationBackend {
		return &decorated{
			next: next,
			around: func(ctx context.Context, op string, call func() error) error {
				_, err := WithRetry(ctx, cfg, func() (struct{}, error) {
					return struct{}{}, call()
				})
				return err
			},
		}
	}
}
