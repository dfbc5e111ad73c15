package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/ZaguanLabs/cloudtranslate"
	lingua "github.com/pemistahl/lingua-go"
	"github.com/sashabaranov/go-openai"
	"github.com/spf13/cast"
)

// reliableConfidence is the detection confidence at or above which a result
// is reported as reliable.
const reliableConfidence = 0.5

// OpenAIConfig holds configuration for the OpenAI backend.
type OpenAIConfig struct {
	APIKey      string  // OpenAI API key (falls back to the backend "key" option)
	Model       string  // Model to use (default: "gpt-4o-mini")
	Temperature float32 // Temperature for generation (default: 0.3)
	BaseURL     string  // Custom base URL (optional)

	// DetectionLanguages restricts local language detection. Empty means all
	// languages known to the detector.
	DetectionLanguages []lingua.Language
}

// OpenAI translates with a chat completion model and detects languages
// locally.
type OpenAI struct {
	client      *openai.Client
	model       string
	temperature float32

	detectLanguages []lingua.Language
	detectOnce      sync.Once
	detector        lingua.LanguageDetector
}

// NewOpenAI creates a new OpenAI backend.
func NewOpenAI(cfg OpenAIConfig) *OpenAI {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.3
	}

	return &OpenAI{
		client:          openai.NewClientWithConfig(config),
		model:           model,
		temperature:     temperature,
		detectLanguages: cfg.DetectionLanguages,
	}
}

// OpenAIFactory returns a factory building an OpenAI backend. The API key
// defaults to the "key" option and a positive "retries" option adds retries.
func OpenAIFactory(cfg OpenAIConfig) cloudtranslate.BackendFactory {
	return func(ctx context.Context, bc cloudtranslate.BackendConfig) (cloudtranslate.TranslationBackend, error) {
		c := cfg
		if c.APIKey == "" {
			c.APIKey = cast.ToString(bc[cloudtranslate.OptKey])
		}
		if c.APIKey == "" {
			return nil, &cloudtranslate.BackendError{Op: "connect", Message: "missing OpenAI API key"}
		}

		return wrapRetries(NewOpenAI(c), cast.ToInt(bc[cloudtranslate.OptRetries])), nil
	}
}

// Languages returns the built-in language catalog.
func (p *OpenAI) Languages(ctx context.Context) ([]cloudtranslate.Language, error) {
	return catalog(), nil
}

// LocalizedLanguages returns the catalog with names written in target.
// English names are served from the catalog, other targets ask the model.
func (p *OpenAI) LocalizedLanguages(ctx context.Context, target string) ([]cloudtranslate.Language, error) {
	langs := catalog()
	if target == "en" || strings.HasPrefix(target, "en-") {
		return langs, nil
	}

	codes := make([]string, len(langs))
	for i, lang := range langs {
		codes[i] = lang.Code
	}
	user, _ := json.Marshal(codes)

	content, err := p.complete(ctx, "localizedLanguages", buildNamesPrompt(target), string(user))
	if err != nil {
		return nil, err
	}

	names, err := parseNames(content)
	if err != nil {
		return nil, &cloudtranslate.BackendError{Op: "localizedLanguages", Message: "invalid response format from OpenAI", Cause: err}
	}

	for i, lang := range langs {
		if name := strings.TrimSpace(names[lang.Code]); name != "" {
			langs[i].Name = name
		}
	}
	return langs, nil
}

// DetectLanguage detects the language of text locally.
func (p *OpenAI) DetectLanguage(ctx context.Context, text string, opts cloudtranslate.DetectOptions) (cloudtranslate.Detection, error) {
	sample, err := detectionSample(text, opts.Format)
	if err != nil {
		return cloudtranslate.Detection{}, &cloudtranslate.BackendError{Op: "detectLanguage", Message: "failed to parse HTML", Cause: err}
	}

	d := p.detect(sample)
	d.Input = text
	return d, nil
}

// DetectLanguageBatch detects the language of each text locally.
func (p *OpenAI) DetectLanguageBatch(ctx context.Context, texts []string, opts cloudtranslate.DetectOptions) ([]cloudtranslate.Detection, error) {
	results := make([]cloudtranslate.Detection, len(texts))
	for i, text := range texts {
		sample, err := detectionSample(text, opts.Format)
		if err != nil {
			return nil, &cloudtranslate.BackendError{Op: "detectLanguageBatch", Message: "failed to parse HTML", Cause: err}
		}
		results[i] = p.detect(sample)
		results[i].Input = text
	}
	return results, nil
}

func detectionSample(text, format string) (string, error) {
	if format != cloudtranslate.FormatHTML {
		return text, nil
	}
	h, err := parseHTMLText(text)
	if err != nil {
		return "", err
	}
	return h.PlainText(), nil
}

func (p *OpenAI) detect(sample string) cloudtranslate.Detection {
	d := cloudtranslate.Detection{Language: "und"}
	if strings.TrimSpace(sample) == "" {
		return d
	}

	values := p.getDetector().ComputeLanguageConfidenceValues(sample)
	if len(values) == 0 || values[0].Value() == 0 {
		return d
	}

	code := strings.ToLower(values[0].Language().IsoCode639_1().String())
	if len(code) != 2 {
		return d
	}

	d.Language = code
	d.Confidence = values[0].Value()
	d.IsReliable = d.Confidence >= reliableConfidence
	return d
}

func (p *OpenAI) getDetector() lingua.LanguageDetector {
	p.detectOnce.Do(func() {
		builder := lingua.NewLanguageDetectorBuilder()
		if len(p.detectLanguages) >= 2 {
			p.detector = builder.FromLanguages(p.detectLanguages...).Build()
		} else {
			p.detector = builder.FromAllLanguages().Build()
		}
	})
	return p.detector
}

// Translate translates a single text.
func (p *OpenAI) Translate(ctx context.Context, text string, opts cloudtranslate.TranslateOptions) (cloudtranslate.Translation, error) {
	results, err := p.translateAll(ctx, "translate", []string{text}, opts)
	if err != nil {
		return cloudtranslate.Translation{}, err
	}
	return results[0], nil
}

// TranslateBatch translates all texts in one completion.
func (p *OpenAI) TranslateBatch(ctx context.Context, texts []string, opts cloudtranslate.TranslateOptions) ([]cloudtranslate.Translation, error) {
	if len(texts) == 0 {
		return []cloudtranslate.Translation{}, nil
	}
	return p.translateAll(ctx, "translateBatch", texts, opts)
}

func (p *OpenAI) translateAll(ctx context.Context, op string, texts []string, opts cloudtranslate.TranslateOptions) ([]cloudtranslate.Translation, error) {
	var outputs []string
	var err error
	if opts.Format == cloudtranslate.FormatHTML {
		outputs, err = p.translateHTML(ctx, op, texts, opts)
	} else {
		outputs, err = p.translateStrings(ctx, op, texts, opts)
	}
	if err != nil {
		return nil, err
	}

	results := make([]cloudtranslate.Translation, len(texts))
	for i, text := range texts {
		results[i] = cloudtranslate.Translation{
			Input:  text,
			Text:   outputs[i],
			Source: opts.Source,
			Model:  p.model,
		}
	}
	return results, nil
}

// translateHTML translates the unique text nodes of all documents in one
// completion and writes them back into each document.
func (p *OpenAI) translateHTML(ctx context.Context, op string, texts []string, opts cloudtranslate.TranslateOptions) ([]string, error) {
	docs := make([]*htmlText, len(texts))
	var segments []string
	seen := make(map[string]bool)

	for i, text := range texts {
		h, err := parseHTMLText(text)
		if err != nil {
			return nil, &cloudtranslate.BackendError{Op: op, Message: "failed to parse HTML", Cause: err}
		}
		docs[i] = h
		for _, s := range h.Texts() {
			if !seen[s] {
				seen[s] = true
				segments = append(segments, s)
			}
		}
	}

	translated, err := p.translateStrings(ctx, op, segments, opts)
	if err != nil {
		return nil, err
	}

	translations := make(map[string]string, len(segments))
	for i, s := range segments {
		translations[s] = translated[i]
	}

	outputs := make([]string, len(docs))
	for i, h := range docs {
		if outputs[i], err = h.Apply(translations); err != nil {
			return nil, &cloudtranslate.BackendError{Op: op, Message: "failed to serialize HTML", Cause: err}
		}
	}
	return outputs, nil
}

func (p *OpenAI) translateStrings(ctx context.Context, op string, texts []string, opts cloudtranslate.TranslateOptions) ([]string, error) {
	if len(texts) == 0 {
		return []string{}, nil
	}

	user, _ := json.Marshal(texts)
	content, err := p.complete(ctx, op, buildTranslatePrompt(opts), string(user))
	if err != nil {
		return nil, err
	}

	translations, err := parseTranslations(content, len(texts))
	if err != nil {
		return nil, &cloudtranslate.BackendError{
			Op:        op,
			Message:   "invalid response format from OpenAI",
			Cause:     err,
			Retryable: errors.Is(err, errCountMismatch),
		}
	}
	return translations, nil
}

// complete runs one JSON-mode chat completion and returns the message content.
func (p *OpenAI) complete(ctx context.Context, op, system, user string) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: p.temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		return "", &cloudtranslate.BackendError{
			Op:        op,
			Message:   "OpenAI API call failed",
			Cause:     err,
			Retryable: isRetryableOpenAIError(err),
		}
	}

	if len(resp.Choices) == 0 {
		return "", &cloudtranslate.BackendError{
			Op:        op,
			Message:   "no response from OpenAI",
			Retryable: true,
		}
	}

	return resp.Choices[0].Message.Content, nil
}

func buildTranslatePrompt(opts cloudtranslate.TranslateOptions) string {
	source := opts.Source
	if source == "" {
		source = cloudtranslate.DefaultLanguage
	}
	sourceName := LanguageName(source)
	targetName := LanguageName(opts.Target)

	return fmt.Sprintf(`# Role
You are an expert native translator. You translate %s content to %s with the fluency and nuance of a highly educated native speaker.

# Task
Translate the provided texts into idiomatic %s.

# Style Guide
- **Natural Flow**: Avoid literal translations. Rephrase sentences to sound completely natural to a native speaker.
- **Idioms**: Never translate idioms literally. Replace them with natural %s equivalents.
- **Code Safety**: Do NOT translate URLs, email addresses, or content inside backticks.
- **Interpolation**: Do NOT translate variables or placeholders (e.g., {{name}}, {count}, %%s, $1).
- **Formatting**: Preserve meaningful whitespace and use idiomatic punctuation for the target language.

# Format
Return a valid JSON object with a single key "translations" containing an array of strings in the exact same order as the input.
Example: { "translations": ["translated string 1", "translated string 2"] }
- Do NOT wrap in Markdown code blocks.`, sourceName, targetName, targetName, targetName)
}

func buildNamesPrompt(target string) string {
	targetName := LanguageName(target)

	return fmt.Sprintf(`# Task
You receive a JSON array of language codes. Give the name of each language as a native %s speaker would write it.

# Format
Return a valid JSON object with a single key "names" mapping every input code to its name in %s.
Example: { "names": {"de": "...", "fr": "..."} }
- Do NOT wrap in Markdown code blocks.`, targetName, targetName)
}

var errCountMismatch = errors.New("translation count mismatch")

func parseTranslations(content string, expectedCount int) ([]string, error) {
	// Try parsing as object first
	var objResult map[string]interface{}
	if err := json.Unmarshal([]byte(content), &objResult); err == nil {
		if translations, ok := objResult["translations"]; ok {
			if arr, ok := translations.([]interface{}); ok {
				return toStringSlice(arr, expectedCount)
			}
		}

		// Fallback: find first array value
		for _, v := range objResult {
			if arr, ok := v.([]interface{}); ok {
				return toStringSlice(arr, expectedCount)
			}
		}
	}

	// Try parsing as direct array
	var arrResult []interface{}
	if err := json.Unmarshal([]byte(content), &arrResult); err == nil {
		return toStringSlice(arrResult, expectedCount)
	}

	return nil, fmt.Errorf("no translations array in %q", truncate(content, 80))
}

func toStringSlice(arr []interface{}, expectedCount int) ([]string, error) {
	result := make([]string, len(arr))
	for i, v := range arr {
		if s, ok := v.(string); ok {
			result[i] = s
		} else {
			result[i] = fmt.Sprintf("%v", v)
		}
	}

	if len(result) != expectedCount {
		return nil, fmt.Errorf("%w: expected %d, got %d", errCountMismatch, expectedCount, len(result))
	}

	return result, nil
}

func parseNames(content string) (map[string]string, error) {
	var wrapped struct {
		Names map[string]string `json:"names"`
	}
	if err := json.Unmarshal([]byte(content), &wrapped); err == nil && len(wrapped.Names) > 0 {
		return wrapped.Names, nil
	}

	var flat map[string]string
	if err := json.Unmarshal([]byte(content), &flat); err != nil {
		return nil, err
	}
	return flat, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func isRetryableOpenAIError(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= http.StatusInternalServerError
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusTooManyRequests || reqErr.HTTPStatusCode >= http.StatusInternalServerError
	}

	// Check for common retryable conditions
	errStr := strings.ToLower(err.Error())
	retryablePatterns := []string{
		"rate limit",
		"timeout",
		"connection refused",
		"temporary",
	}

	for _, pattern := range retryablePatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}

var _ TranslationBackend = (*OpenAI)(nil)
