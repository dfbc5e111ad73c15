package cloudtranslate

import "fmt"

// ConfigError indicates missing or invalid configuration at construction time.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: %s", e.Message)
}

// ValidationError indicates an invalid argument to a setter or lookup.
type ValidationError struct {
	Field string
	Value string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %q", e.Field, e.Value)
}

// CheapskateError indicates the input text exceeds the configured byte budget.
type CheapskateError struct {
	Limit  int
	Length int
}

func (e *CheapskateError) Error() string {
	return fmt.Sprintf("text too long (%d bytes), cheapskate mode on with max count %d", e.Length, e.Limit)
}

// SameLanguageError indicates a translation was requested to and from the same language.
type SameLanguageError struct {
	Language string
}

func (e *SameLanguageError) Error() string {
	return fmt.Sprintf("cannot translate to and from the same language (%s)", e.Language)
}

// UnknownLanguageError indicates a language code the backend does not offer.
type UnknownLanguageError struct {
	Kind   string // "target" or "source"
	Code   string
	Target string // Target the source set was looked up for (sources only)
}

func (e *UnknownLanguageError) Error() string {
	if e.Kind == "source" && e.Target != "" {
		return fmt.Sprintf("unknown source language %q for target %q", e.Code, e.Target)
	}
	return fmt.Sprintf("unknown %s language %q", e.Kind, e.Code)
}

// BackendError indicates a translation backend failure (network, auth, quota).
// Backends produce it; the Translator passes it through unchanged.
type BackendError struct {
	Op        string
	Message   string
	Cause     error
	Retryable bool // Whether the call can be retried
}

func (e *BackendError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("backend error: %s: %s: %v", e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("backend error: %s: %s", e.Op, e.Message)
}

func (e *BackendError) Unwrap() error {
	return e.Cause
}
