package cloudtranslate

import (
	"context"
	"io"

	"github.com/ZaguanLabs/cloudtranslate/cache"
	"github.com/rs/zerolog"
)

// Translator is the validated, cached façade over a TranslationBackend.
//
// A Translator is meant for one caller at a time. Setters are not
// synchronized with in-flight calls.
type Translator struct {
	settings *Settings
	backend  TranslationBackend
	cache    cache.Store
	log      zerolog.Logger

	targets []string                     // Allowed target codes
	sources map[string]map[string]string // target -> source code -> display name
}

// Option is a functional option for configuring the Translator.
type Option func(*Translator)

// WithCache sets the response cache. Defaults to an in-memory cache.
func WithCache(store cache.Store) Option {
	return func(t *Translator) {
		t.cache = store
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(log zerolog.Logger) Option {
	return func(t *Translator) {
		t.log = log
	}
}

// New configures a Translator from options, builds its backend once from the
// exported backend configuration and loads the list of possible targets.
func New(ctx context.Context, options Options, factory BackendFactory, opts ...Option) (*Translator, error) {
	settings, err := Configure(options)
	if err != nil {
		return nil, err
	}

	t := &Translator{
		settings: settings,
		log:      zerolog.Nop(),
		sources:  make(map[string]map[string]string),
	}

	for _, opt := range opts {
		opt(t)
	}

	if t.cache == nil {
		t.cache = cache.NewInMemoryCache()
	}

	backend, err := factory(ctx, settings.ExportBackendConfig())
	if err != nil {
		return nil, err
	}
	t.backend = backend

	if err := t.loadTargets(ctx); err != nil {
		return nil, err
	}

	return t, nil
}

// Languages returns the languages supported by the backend.
func (t *Translator) Languages(ctx context.Context) ([]Language, error) {
	return cachedCall(t.cache, t.log, languagesKey(), t.settings.CacheEnabled, func() ([]Language, error) {
		return t.backend.Languages(ctx)
	})
}

// LocalizedLanguages returns the supported languages with names in target.
func (t *Translator) LocalizedLanguages(ctx context.Context, target string) ([]Language, error) {
	if !IsValidLanguageCode(target) {
		return nil, &ValidationError{Field: "target language", Value: target}
	}

	return cachedCall(t.cache, t.log, localizedLanguagesKey(target), t.settings.CacheEnabled, func() ([]Language, error) {
		return t.backend.LocalizedLanguages(ctx, target)
	})
}

// DetectLanguage detects the language of sample.
//
// Detection is not subject to the cheapskate limit.
func (t *Translator) DetectLanguage(ctx context.Context, sample string) (Detection, error) {
	opts := DetectOptions{Format: t.settings.Format}

	return cachedCall(t.cache, t.log, detectKey(sample, opts.Format), t.settings.CacheEnabled, func() (Detection, error) {
		return t.backend.DetectLanguage(ctx, sample, opts)
	})
}

// DetectLanguageBatch detects the language of each sample.
func (t *Translator) DetectLanguageBatch(ctx context.Context, samples []string) ([]Detection, error) {
	opts := DetectOptions{Format: t.settings.Format}

	return cachedCall(t.cache, t.log, detectBatchKey(samples, opts.Format), t.settings.CacheEnabled, func() ([]Detection, error) {
		return t.backend.DetectLanguageBatch(ctx, samples, opts)
	})
}

// Translate translates text from the configured source to the configured target.
func (t *Translator) Translate(ctx context.Context, text string) (Translation, error) {
	if err := t.checkCheapskate(text); err != nil {
		return Translation{}, err
	}

	if t.settings.Source == t.settings.Target {
		return Translation{}, &SameLanguageError{Language: t.settings.Source}
	}

	// Single translations always send the model, even when empty.
	model := t.settings.Model
	opts := TranslateOptions{
		Source: t.settings.Source,
		Target: t.settings.Target,
		Format: t.settings.Format,
		Model:  &model,
	}

	return cachedCall(t.cache, t.log, translateKey(text, opts), t.settings.CacheEnabled, func() (Translation, error) {
		return t.backend.Translate(ctx, text, opts)
	})
}

// TranslateBatch translates each text. The cheapskate limit applies to every
// text; the first violation fails the whole batch.
func (t *Translator) TranslateBatch(ctx context.Context, texts []string) ([]Translation, error) {
	for _, text := range texts {
		if err := t.checkCheapskate(text); err != nil {
			return nil, err
		}
	}

	opts := TranslateOptions{
		Source: t.settings.Source,
		Target: t.settings.Target,
		Format: t.settings.Format,
	}
	// Batch requests leave the model out entirely when none is configured.
	if t.settings.Model != ModelDefault {
		model := t.settings.Model
		opts.Model = &model
	}

	return cachedCall(t.cache, t.log, translateBatchKey(texts, opts), t.settings.CacheEnabled, func() ([]Translation, error) {
		return t.backend.TranslateBatch(ctx, texts, opts)
	})
}

// PossibleTargets returns the target codes loaded at construction.
func (t *Translator) PossibleTargets() []string {
	targets := make([]string, len(t.targets))
	copy(targets, t.targets)
	return targets
}

// IsValidPossibleTarget reports whether target is offered by the backend.
func (t *Translator) IsValidPossibleTarget(target string) (bool, error) {
	for _, code := range t.targets {
		if code == target {
			return true, nil
		}
	}
	return false, &UnknownLanguageError{Kind: "target", Code: target}
}

// IsValidPossibleSourceForTarget reports whether source can be translated into
// the configured target. The source set for the target is loaded on first use.
func (t *Translator) IsValidPossibleSourceForTarget(ctx context.Context, source string) (bool, error) {
	target := t.settings.Target

	sources, ok := t.sources[target]
	if !ok {
		var err error
		if sources, err = t.PossibleSourceLanguagesForTarget(ctx, target); err != nil {
			return false, err
		}
	}

	if _, ok := sources[source]; !ok {
		return false, &UnknownLanguageError{Kind: "source", Code: source, Target: target}
	}
	return true, nil
}

// PossibleSourceLanguagesForTarget reloads the source languages for target,
// keyed by code with display names in the target language.
func (t *Translator) PossibleSourceLanguagesForTarget(ctx context.Context, target string) (map[string]string, error) {
	languages, err := t.LocalizedLanguages(ctx, target)
	if err != nil {
		return nil, err
	}

	sources := make(map[string]string, len(languages))
	for _, lang := range languages {
		sources[lang.Code] = lang.Name
	}
	t.sources[target] = sources

	result := make(map[string]string, len(sources))
	for code, name := range sources {
		result[code] = name
	}
	return result, nil
}

// SetFormat sets the text format ("text" or "html").
func (t *Translator) SetFormat(format string) error {
	if !IsValidFormat(format) {
		return &ValidationError{Field: "format", Value: format}
	}
	t.settings.Format = format
	return nil
}

// SetModel sets the translation model ("", "nmt" or "base").
func (t *Translator) SetModel(model string) error {
	if !IsValidModel(model) {
		return &ValidationError{Field: "model", Value: model}
	}
	t.settings.Model = model
	return nil
}

// SetSourceLanguage sets the source language. Either "en" (ISO) or "en-ZA" (BCP-47).
func (t *Translator) SetSourceLanguage(source string) error {
	if !IsValidLanguageCode(source) {
		return &ValidationError{Field: "source language", Value: source}
	}
	t.settings.Source = source
	return nil
}

// SetTargetLanguage sets the target language. Either "en" (ISO) or "en-ZA" (BCP-47).
func (t *Translator) SetTargetLanguage(target string) error {
	if !IsValidLanguageCode(target) {
		return &ValidationError{Field: "target language", Value: target}
	}
	t.settings.Target = target
	return nil
}

// SetCheapskate enables or disables the cheapskate length limit.
func (t *Translator) SetCheapskate(enabled bool) {
	t.settings.CheapskateEnabled = enabled
}

// SetCheapskateCount sets the cheapskate byte limit. Like the
// cheapskateCount option, the value is taken as given.
func (t *Translator) SetCheapskateCount(count int) {
	t.settings.CheapskateMaxChars = count
}

// SetCache enables or disables reading from the response cache.
func (t *Translator) SetCache(enabled bool) {
	t.settings.CacheEnabled = enabled
}

// Settings returns a copy of the current settings.
func (t *Translator) Settings() Settings {
	s := *t.settings
	if t.settings.Scopes != nil {
		s.Scopes = append([]string(nil), t.settings.Scopes...)
	}
	return s
}

// Close releases the backend if it holds resources.
func (t *Translator) Close() error {
	if c, ok := t.backend.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// checkCheapskate rejects text longer than the configured budget. The length
// is measured in bytes, so multibyte text reaches the limit sooner.
func (t *Translator) checkCheapskate(text string) error {
	if !t.settings.CheapskateEnabled {
		return nil
	}

	if n := len(text); n > t.settings.CheapskateMaxChars {
		return &CheapskateError{Limit: t.settings.CheapskateMaxChars, Length: n}
	}
	return nil
}

func (t *Translator) loadTargets(ctx context.Context) error {
	languages, err := t.Languages(ctx)
	if err != nil {
		return err
	}

	t.targets = make([]string, 0, len(languages))
	for _, lang := range languages {
		t.targets = append(t.targets, lang.Code)
	}

	t.log.Debug().Int("targets", len(t.targets)).Msg("loaded possible targets")
	return nil
}
