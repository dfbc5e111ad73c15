// Package backend provides TranslationBackend implementations and middleware.
package backend

import (
	"context"

	"github.com/ZaguanLabs/cloudtranslate"
)

// TranslationBackend is an alias to the main package interface for convenience.
type TranslationBackend = cloudtranslate.TranslationBackend

// Middleware wraps a backend with additional behavior.
type Middleware func(TranslationBackend) TranslationBackend

// WithMiddleware returns a factory that wraps every backend built by factory.
// The first middleware is the outermost.
func WithMiddleware(factory cloudtranslate.BackendFactory, mws ...Middleware) cloudtranslate.BackendFactory {
	return func(ctx context.Context, cfg cloudtranslate.BackendConfig) (cloudtranslate.TranslationBackend, error) {
		b, err := factory(ctx, cfg)
		if err != nil {
			return nil, err
		}
		for i := len(mws) - 1; i >= 0; i-- {
			b = mws[i](b)
		}
		return b, nil
	}
}

// aroundFunc runs call, possibly several times or not at all.
type aroundFunc func(ctx context.Context, op string, call func() error) error

// decorated applies an aroundFunc to every backend operation.
type decorated struct {
	next   TranslationBackend
	around aroundFunc
}

func (d *decorated) Languages(ctx context.Context) ([]cloudtranslate.Language, error) {
	var out []cloudtranslate.Language
	err := d.around(ctx, "languages", func() (err error) {
		out, err = d.next.Languages(ctx)
		return err
	})
	return out, err
}

func (d *decorated) LocalizedLanguages(ctx context.Context, target string) ([]cloudtranslate.Language, error) {
	var out []cloudtranslate.Language
	err := d.around(ctx, "localizedLanguages", func() (err error) {
		out, err = d.next.LocalizedLanguages(ctx, target)
		return err
	})
	return out, err
}

func (d *decorated) DetectLanguage(ctx context.Context, text string, opts cloudtranslate.DetectOptions) (cloudtranslate.Detection, error) {
	var out cloudtranslate.Detection
	err := d.around(ctx, "detectLanguage", func() (err error) {
		out, err = d.next.DetectLanguage(ctx, text, opts)
		return err
	})
	return out, err
}

func (d *decorated) DetectLanguageBatch(ctx context.Context, texts []string, opts cloudtranslate.DetectOptions) ([]cloudtranslate.Detection, error) {
	var out []cloudtranslate.Detection
	err := d.around(ctx, "detectLanguageBatch", func() (err error) {
		out, err = d.next.DetectLanguageBatch(ctx, texts, opts)
		return err
	})
	return out, err
}

func (d *decorated) Translate(ctx context.Context, text string, opts cloudtranslate.TranslateOptions) (cloudtranslate.Translation, error) {
	var out cloudtranslate.Translation
	err := d.around(ctx, "translate", func() (err error) {
		out, err = d.next.Translate(ctx, text, opts)
		return err
	})
	return out, err
}

func (d *decorated) TranslateBatch(ctx context.Context, texts []string, opts cloudtranslate.TranslateOptions) ([]cloudtranslate.Translation, error) {
	var out []cloudtranslate.Translation
	err := d.around(ctx, "translateBatch", func() (err error) {
		out, err = d.next.TranslateBatch(ctx, texts, opts)
		return err
	})
	return out, err
}

// Close closes the wrapped backend if it holds resources.
func (d *decorated) Close() error {
	if c, ok := d.next.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
