package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"cloud.google.com/go/translate"
	"github.com/ZaguanLabs/cloudtranslate"
	"github.com/spf13/cast"
	"golang.org/x/text/language"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// googleClient is the part of *translate.Client used by Google.
type googleClient interface {
	Translate(ctx context.Context, inputs []string, target language.Tag, opts *translate.Options) ([]translate.Translation, error)
	DetectLanguage(ctx context.Context, inputs []string) ([][]translate.Detection, error)
	SupportedLanguages(ctx context.Context, target language.Tag) ([]translate.Language, error)
	Close() error
}

// GoogleConfig is the typed view of the exported backend configuration.
type GoogleConfig struct {
	ProjectID   string
	APIKey      string
	KeyFile     string // Service account JSON
	KeyFilePath string // Path to a service account JSON file
	Scopes      []string
	Retries     int
}

// ParseGoogleConfig reads a backend configuration mapping.
func ParseGoogleConfig(cfg cloudtranslate.BackendConfig) (GoogleConfig, error) {
	gc := GoogleConfig{
		ProjectID:   cast.ToString(cfg[cloudtranslate.OptProjectID]),
		APIKey:      cast.ToString(cfg[cloudtranslate.OptKey]),
		KeyFile:     cast.ToString(cfg[cloudtranslate.OptKeyFile]),
		KeyFilePath: cast.ToString(cfg[cloudtranslate.OptKeyFilePath]),
	}

	if v, ok := cfg[cloudtranslate.OptRetries]; ok {
		n, err := cast.ToIntE(v)
		if err != nil {
			return GoogleConfig{}, fmt.Errorf("invalid retries: %w", err)
		}
		gc.Retries = n
	}

	if v, ok := cfg[cloudtranslate.OptScopes]; ok {
		scopes, err := cast.ToStringSliceE(v)
		if err != nil {
			return GoogleConfig{}, fmt.Errorf("invalid scopes: %w", err)
		}
		gc.Scopes = scopes
	}

	return gc, nil
}

// ClientOptions returns the client options for the configured credentials.
// The project is billed as quota project unless an API key is used.
func (c GoogleConfig) ClientOptions() []option.ClientOption {
	opts := []option.ClientOption{option.WithUserAgent(cloudtranslate.UserAgent())}

	if c.APIKey != "" {
		opts = append(opts, option.WithAPIKey(c.APIKey))
	} else if c.ProjectID != "" {
		opts = append(opts, option.WithQuotaProject(c.ProjectID))
	}
	if c.KeyFile != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(c.KeyFile)))
	}
	if c.KeyFilePath != "" {
		opts = append(opts, option.WithCredentialsFile(c.KeyFilePath))
	}
	if len(c.Scopes) > 0 {
		opts = append(opts, option.WithScopes(c.Scopes...))
	}

	return opts
}

// Google translates with the Cloud Translation v2 API.
type Google struct {
	client googleClient
}

// NewGoogle is a cloudtranslate.BackendFactory for the Cloud Translation API.
// A positive retries setting wraps the backend in Retrying.
func NewGoogle(ctx context.Context, cfg cloudtranslate.BackendConfig) (cloudtranslate.TranslationBackend, error) {
	gc, err := ParseGoogleConfig(cfg)
	if err != nil {
		return nil, &cloudtranslate.BackendError{Op: "connect", Message: "invalid configuration", Cause: err}
	}

	client, err := translate.NewClient(ctx, gc.ClientOptions()...)
	if err != nil {
		return nil, &cloudtranslate.BackendError{Op: "connect", Message: "failed to create client", Cause: err}
	}

	return wrapRetries(&Google{client: client}, gc.Retries), nil
}

func wrapRetries(b TranslationBackend, retries int) TranslationBackend {
	if retries <= 0 {
		return b
	}
	cfg := DefaultRetryConfig()
	cfg.MaxRetries = retries
	return Retrying(cfg)(b)
}

// Languages lists the supported languages with English names.
func (g *Google) Languages(ctx context.Context) ([]cloudtranslate.Language, error) {
	return g.supported(ctx, "languages", language.English)
}

// LocalizedLanguages lists the supported languages with names in target.
func (g *Google) LocalizedLanguages(ctx context.Context, target string) ([]cloudtranslate.Language, error) {
	tag, err := parseTag("localizedLanguages", target)
	if err != nil {
		return nil, err
	}
	return g.supported(ctx, "localizedLanguages", tag)
}

func (g *Google) supported(ctx context.Context, op string, tag language.Tag) ([]cloudtranslate.Language, error) {
	langs, err := g.client.SupportedLanguages(ctx, tag)
	if err != nil {
		return nil, mapGoogleError(op, err)
	}

	out := make([]cloudtranslate.Language, len(langs))
	for i, l := range langs {
		out[i] = cloudtranslate.Language{Code: l.Tag.String(), Name: l.Name}
	}
	return out, nil
}

// DetectLanguage detects the language of text. The v2 API has no format
// parameter for detection.
func (g *Google) DetectLanguage(ctx context.Context, text string, opts cloudtranslate.DetectOptions) (cloudtranslate.Detection, error) {
	results, err := g.detect(ctx, "detectLanguage", []string{text})
	if err != nil {
		return cloudtranslate.Detection{}, err
	}
	return results[0], nil
}

// DetectLanguageBatch detects the language of each text.
func (g *Google) DetectLanguageBatch(ctx context.Context, texts []string, opts cloudtranslate.DetectOptions) ([]cloudtranslate.Detection, error) {
	if len(texts) == 0 {
		return []cloudtranslate.Detection{}, nil
	}
	return g.detect(ctx, "detectLanguageBatch", texts)
}

func (g *Google) detect(ctx context.Context, op string, texts []string) ([]cloudtranslate.Detection, error) {
	results, err := g.client.DetectLanguage(ctx, texts)
	if err != nil {
		return nil, mapGoogleError(op, err)
	}
	if len(results) != len(texts) {
		return nil, &cloudtranslate.BackendError{
			Op:      op,
			Message: fmt.Sprintf("expected %d detections, got %d", len(texts), len(results)),
		}
	}

	out := make([]cloudtranslate.Detection, len(texts))
	for i, candidates := range results {
		out[i] = bestDetection(texts[i], candidates)
	}
	return out, nil
}

// bestDetection picks the most confident candidate, "und" when there is none.
func bestDetection(input string, candidates []translate.Detection) cloudtranslate.Detection {
	d := cloudtranslate.Detection{Input: input, Language: language.Und.String()}
	best := -1.0
	for _, c := range candidates {
		if c.Confidence > best {
			best = c.Confidence
			d.Language = c.Language.String()
			d.Confidence = c.Confidence
			d.IsReliable = c.IsReliable
		}
	}
	return d
}

// Translate translates a single text.
func (g *Google) Translate(ctx context.Context, text string, opts cloudtranslate.TranslateOptions) (cloudtranslate.Translation, error) {
	results, err := g.translate(ctx, "translate", []string{text}, opts)
	if err != nil {
		return cloudtranslate.Translation{}, err
	}
	return results[0], nil
}

// TranslateBatch translates each text in one request.
func (g *Google) TranslateBatch(ctx context.Context, texts []string, opts cloudtranslate.TranslateOptions) ([]cloudtranslate.Translation, error) {
	if len(texts) == 0 {
		return []cloudtranslate.Translation{}, nil
	}
	return g.translate(ctx, "translateBatch", texts, opts)
}

func (g *Google) translate(ctx context.Context, op string, texts []string, opts cloudtranslate.TranslateOptions) ([]cloudtranslate.Translation, error) {
	target, err := parseTag(op, opts.Target)
	if err != nil {
		return nil, err
	}

	req := &translate.Options{
		Format: translate.Text,
		Model:  opts.ModelName(),
	}
	if opts.Format == cloudtranslate.FormatHTML {
		req.Format = translate.HTML
	}
	if opts.Source != "" {
		if req.Source, err = parseTag(op, opts.Source); err != nil {
			return nil, err
		}
	}

	results, err := g.client.Translate(ctx, texts, target, req)
	if err != nil {
		return nil, mapGoogleError(op, err)
	}
	if len(results) != len(texts) {
		return nil, &cloudtranslate.BackendError{
			Op:      op,
			Message: fmt.Sprintf("expected %d translations, got %d", len(texts), len(results)),
		}
	}

	out := make([]cloudtranslate.Translation, len(texts))
	for i, r := range results {
		source := opts.Source
		if r.Source != language.Und {
			source = r.Source.String()
		}
		out[i] = cloudtranslate.Translation{
			Input:  texts[i],
			Text:   r.Text,
			Source: source,
			Model:  r.Model,
		}
	}
	return out, nil
}

// Close closes the underlying client.
func (g *Google) Close() error {
	return g.client.Close()
}

func parseTag(op, code string) (language.Tag, error) {
	tag, err := language.Parse(code)
	if err != nil {
		return language.Und, &cloudtranslate.BackendError{
			Op:      op,
			Message: fmt.Sprintf("invalid language %q", code),
			Cause:   err,
		}
	}
	return tag, nil
}

// mapGoogleError converts client errors into BackendErrors. Quota and server
// errors are retryable; context errors are returned unchanged.
func mapGoogleError(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = http.StatusText(apiErr.Code)
		}
		return &cloudtranslate.BackendError{
			Op:        op,
			Message:   msg,
			Cause:     err,
			Retryable: apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError,
		}
	}

	return &cloudtranslate.BackendError{Op: op, Message: "request failed", Cause: err}
}

var _ TranslationBackend = (*Google)(nil)
