package cloudtranslate

import "context"

// TranslationBackend is the interface for machine-translation services.
type TranslationBackend interface {
	Languages(ctx context.Context) ([]Language, error)
	LocalizedLanguages(ctx context.Context, target string) ([]Language, error)
	DetectLanguage(ctx context.Context, text string, opts DetectOptions) (Detection, error)
	DetectLanguageBatch(ctx context.Context, texts []string, opts DetectOptions) ([]Detection, error)
	Translate(ctx context.Context, text string, opts TranslateOptions) (Translation, error)
	TranslateBatch(ctx context.Context, texts []string, opts TranslateOptions) ([]Translation, error)
}

// BackendFactory constructs a backend from the exported backend configuration.
type BackendFactory func(ctx context.Context, cfg BackendConfig) (TranslationBackend, error)
