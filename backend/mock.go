package backend

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/ZaguanLabs/cloudtranslate"
)

// Mock is an in-process backend for tests and dry runs.
type Mock struct {
	Translations map[string]string // Map of source text to translation
	Detections   map[string]string // Map of text to detected language
	Names        map[string]string // Map of language code to display name

	Err       error // Returned by every call when set
	FailTimes int   // Fail only the first FailTimes calls with Err (0 = always)

	LastTranslateOptions *cloudtranslate.TranslateOptions
	LastDetectOptions    *cloudtranslate.DetectOptions

	mu       sync.Mutex
	calls    map[string]int
	failures int
}

// NewMock creates a mock backend with default translations.
func NewMock() *Mock {
	return &Mock{
		Translations: map[string]string{
			"Hello":       "Hola",
			"World":       "Mundo",
			"Hello World": "Hola Mundo",
		},
		Detections: map[string]string{
			"Hallo Welt": "de",
			"Hola Mundo": "es",
		},
		Names: map[string]string{
			"en": "English",
			"de": "German",
			"es": "Spanish",
			"fr": "French",
			"af": "Afrikaans",
		},
		calls: make(map[string]int),
	}
}

// MockFactory returns a factory that always yields m.
func MockFactory(m *Mock) cloudtranslate.BackendFactory {
	return func(ctx context.Context, cfg cloudtranslate.BackendConfig) (cloudtranslate.TranslationBackend, error) {
		return m, nil
	}
}

// CallCount returns how many times op was called.
func (m *Mock) CallCount(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

// Reset resets call counts and recorded options.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = make(map[string]int)
	m.failures = 0
	m.LastTranslateOptions = nil
	m.LastDetectOptions = nil
}

// record counts a call to op and applies remember under the lock.
func (m *Mock) record(op string, remember ...func()) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[op]++
	for _, fn := range remember {
		fn()
	}

	if m.Err != nil && (m.FailTimes == 0 || m.failures < m.FailTimes) {
		m.failures++
		return m.Err
	}
	return nil
}

// Languages returns the configured language names.
func (m *Mock) Languages(ctx context.Context) ([]cloudtranslate.Language, error) {
	if err := m.record("languages"); err != nil {
		return nil, err
	}
	return m.languages(""), nil
}

// LocalizedLanguages returns the configured names tagged with target.
func (m *Mock) LocalizedLanguages(ctx context.Context, target string) ([]cloudtranslate.Language, error) {
	if err := m.record("localizedLanguages"); err != nil {
		return nil, err
	}
	return m.languages(target), nil
}

func (m *Mock) languages(target string) []cloudtranslate.Language {
	codes := make([]string, 0, len(m.Names))
	for code := range m.Names {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	langs := make([]cloudtranslate.Language, len(codes))
	for i, code := range codes {
		name := m.Names[code]
		if target != "" && target != "en" {
			name = fmt.Sprintf("%s (%s)", name, target)
		}
		langs[i] = cloudtranslate.Language{Code: code, Name: name}
	}
	return langs
}

// DetectLanguage returns the configured detection, defaulting to English.
func (m *Mock) DetectLanguage(ctx context.Context, text string, opts cloudtranslate.DetectOptions) (cloudtranslate.Detection, error) {
	if err := m.record("detectLanguage", func() { m.LastDetectOptions = &opts }); err != nil {
		return cloudtranslate.Detection{}, err
	}
	return m.detect(text), nil
}

// DetectLanguageBatch detects each text.
func (m *Mock) DetectLanguageBatch(ctx context.Context, texts []string, opts cloudtranslate.DetectOptions) ([]cloudtranslate.Detection, error) {
	if err := m.record("detectLanguageBatch", func() { m.LastDetectOptions = &opts }); err != nil {
		return nil, err
	}

	results := make([]cloudtranslate.Detection, len(texts))
	for i, text := range texts {
		results[i] = m.detect(text)
	}
	return results, nil
}

func (m *Mock) detect(text string) cloudtranslate.Detection {
	lang, ok := m.Detections[text]
	if !ok {
		lang = "en"
	}
	return cloudtranslate.Detection{Input: text, Language: lang, Confidence: 1, IsReliable: true}
}

// Translate returns the configured translation, or the text in brackets.
func (m *Mock) Translate(ctx context.Context, text string, opts cloudtranslate.TranslateOptions) (cloudtranslate.Translation, error) {
	if err := m.record("translate", func() { m.LastTranslateOptions = &opts }); err != nil {
		return cloudtranslate.Translation{}, err
	}
	return m.translate(text, opts), nil
}

// TranslateBatch translates each text.
func (m *Mock) TranslateBatch(ctx context.Context, texts []string, opts cloudtranslate.TranslateOptions) ([]cloudtranslate.Translation, error) {
	if err := m.record("translateBatch", func() { m.LastTranslateOptions = &opts }); err != nil {
		return nil, err
	}

	results := make([]cloudtranslate.Translation, len(texts))
	for i, text := range texts {
		results[i] = m.translate(text, opts)
	}
	return results, nil
}

func (m *Mock) translate(text string, opts cloudtranslate.TranslateOptions) cloudtranslate.Translation {
	translated, ok := m.Translations[text]
	if !ok {
		// Return bracketed text for unknown translations
		translated = fmt.Sprintf("[%s]", text)
	}
	return cloudtranslate.Translation{
		Input:  text,
		Text:   translated,
		Source: opts.Source,
		Model:  opts.ModelName(),
	}
}

var _ TranslationBackend = (*Mock)(nil)
