package backend

import (
	"context"
	"time"

	"github.com/ZaguanLabs/cloudtranslate"
	"golang.org/x/time/rate"
)

// RateLimitConfig configures the rate limiter.
type RateLimitConfig struct {
	RequestsPerMinute int // Maximum requests per minute (default: 60)
	BurstSize         int // Maximum burst size (default: 1)
}

// RateLimited blocks each backend call until the limiter admits it.
func RateLimited(cfg RateLimitConfig) Middleware {
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 60
	}
	burst := cfg.BurstSize
	if burst <= 0 {
		burst = 1
	}

	limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), burst)

	return func(next TranslationBackend) TranslationBackend {
		return &decorated{
			next: next,
			around: func(ctx context.Context, op string, call func() error) error {
				if err := limiter.Wait(ctx); err != nil {
					return &cloudtranslate.BackendError{
						Op:      op,
						Message: "rate limit wait cancelled",
						Cause:   err,
					}
				}
				return call()
			},
		}
	}
}
