package backend

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ZaguanLabs/cloudtranslate"
	"github.com/sony/gobreaker"
)

func TestCircuitBreaker_OpensAfterFailures(t *testing.T) {
	mock := NewMock()
	mock.Err = &cloudtranslate.BackendError{Op: "translate", Message: "unavailable", Retryable: true}

	b := CircuitBreaker(BreakerConfig{FailureThreshold: 2, OpenTimeout: time.Minute})(mock)
	opts := cloudtranslate.TranslateOptions{Target: "es"}

	for i := 0; i < 2; i++ {
		if _, err := b.Translate(context.Background(), "Hello", opts); err == nil {
			t.Fatalf("call %d: expected backend error", i)
		}
	}

	_, err := b.Translate(context.Background(), "Hello", opts)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("Expected open circuit, got %v", err)
	}

	var backendErr *cloudtranslate.BackendError
	if !errors.As(err, &backendErr) || backendErr.Message != "circuit open" {
		t.Errorf("Expected circuit open BackendError, got %v", err)
	}
	if mock.CallCount("translate") != 2 {
		t.Errorf("open circuit should not reach the backend, got %d calls", mock.CallCount("translate"))
	}
}

func TestCircuitBreaker_SuccessPassesThrough(t *testing.T) {
	mock := NewMock()
	b := CircuitBreaker(BreakerConfig{})(mock)

	result, err := b.Translate(context.Background(), "Hello", cloudtranslate.TranslateOptions{Target: "es"})
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if result.Text != "Hola" {
		t.Errorf("Expected 'Hola', got %q", result.Text)
	}
}

func TestCircuitBreaker_CancellationDoesNotTrip(t *testing.T) {
	mock := NewMock()
	mock.Err = context.Canceled

	b := CircuitBreaker(BreakerConfig{FailureThreshold: 1})(mock)

	for i := 0; i < 3; i++ {
		_, err := b.Languages(context.Background())
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("call %d: expected context.Canceled, got %v", i, err)
		}
	}
	if mock.CallCount("languages") != 3 {
		t.Errorf("Expected 3 calls, got %d", mock.CallCount("languages"))
	}
}
