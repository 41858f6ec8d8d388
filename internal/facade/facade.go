// Package facade exposes translation over a language pair as a single call:
// it derives the model identifier for the pair, obtains a cached or freshly
// loaded engine for it, and runs the engine on the text.
package facade

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/valpere/opustran/internal"
	"github.com/valpere/opustran/internal/engine"
	"github.com/valpere/opustran/internal/enginecache"
	"github.com/valpere/opustran/internal/language"
	"github.com/valpere/opustran/internal/placeholder"
	"github.com/valpere/opustran/internal/postprocess"
)

// DefaultNamespace is the publisher prefix of the Opus-MT model family.
const DefaultNamespace = "Helsinki-NLP/opus-mt"

type Detector interface {
	DetectISO(text string) (string, bool)
}

// Recorder observes engine loads and uses. Recorder failures are logged and
// never fail a translation.
type Recorder interface {
	RecordLoad(ctx context.Context, modelID string, latency time.Duration, loadErr error) error
	RecordUse(ctx context.Context, modelID string) error
}

// OutputChecker judges whether translated text is in the target language.
type OutputChecker interface {
	Check(text, targetCode string) error
}

type Option func(*Facade)

func WithNamespace(ns string) Option {
	return func(f *Facade) {
		if ns != "" {
			f.namespace = ns
		}
	}
}

func WithCache(c *enginecache.Cache) Option {
	return func(f *Facade) {
		if c != nil {
			f.cache = c
		}
	}
}

func WithDetector(d Detector) Option {
	return func(f *Facade) { f.detector = d }
}

func WithRecorder(r Recorder) Option {
	return func(f *Facade) { f.recorder = r }
}

// WithMarkupProtection masks code spans and HTML tags before inference and
// restores them in the output.
func WithMarkupProtection() Option {
	return func(f *Facade) { f.protectMarkup = true }
}

// WithOutputCheck runs c on every translation made by Do. A failed check is
// reported in the result and does not fail the request.
func WithOutputCheck(c OutputChecker) Option {
	return func(f *Facade) { f.checker = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(f *Facade) {
		if l != nil {
			f.log = l
		}
	}
}

type Facade struct {
	registry  *language.Registry
	loader    engine.Loader
	cache     *enginecache.Cache
	namespace string
	detector  Detector
	recorder  Recorder
	checker   OutputChecker
	log       *zap.Logger

	protectMarkup bool
}

func New(registry *language.Registry, loader engine.Loader, opts ...Option) *Facade {
	f := &Facade{
		registry:  registry,
		loader:    loader,
		cache:     enginecache.New(),
		namespace: DefaultNamespace,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Facade) Registry() *language.Registry {
	return f.registry
}

func (f *Facade) Cache() *enginecache.Cache {
	return f.cache
}

// ResolveModelID names the model for an ordered language pair. The result is
// not checked against any catalog; a missing model surfaces when it is loaded.
func (f *Facade) ResolveModelID(sourceCode, targetCode string) string {
	return fmt.Sprintf("%s-%s-%s", f.namespace, sourceCode, targetCode)
}

// GetEngine returns the engine for modelID, loading it on the first request.
// Load failures come back as *ModelLoadError and are not cached.
func (f *Facade) GetEngine(ctx context.Context, modelID string) (engine.Engine, error) {
	eng, _, err := f.getEngine(ctx, modelID)
	return eng, err
}

func (f *Facade) getEngine(ctx context.Context, modelID string) (engine.Engine, bool, error) {
	eng, hit, err := f.cache.GetOrLoad(ctx, modelID, func(ctx context.Context) (engine.Engine, error) {
		start := time.Now()
		e, err := f.loader.Load(ctx, modelID)
		if err == nil && e == nil {
			err = errors.New("loader returned no engine")
		}
		latency := time.Since(start)

		if err != nil {
			f.log.Warn("model load failed", zap.String("model", modelID), zap.Duration("latency", latency), zap.Error(err))
		} else {
			f.log.Info("model loaded", zap.String("model", modelID), zap.Duration("latency", latency))
		}
		f.recordLoad(ctx, modelID, latency, err)

		return e, err
	})
	if err != nil {
		return nil, false, &ModelLoadError{ModelID: modelID, Err: err}
	}

	if hit {
		f.log.Debug("engine cache hit", zap.String("model", modelID))
	}
	return eng, hit, nil
}

// Translate runs eng once on text and returns its best output. Empty or
// whitespace-only text is rejected before the engine is touched. A candidate
// that is blank after cleanup is a *TranslationError.
func (f *Facade) Translate(ctx context.Context, text string, eng engine.Engine) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyInput
	}
	if eng == nil {
		return "", &TranslationError{Message: "no engine"}
	}

	var masked *placeholder.Masked
	if f.protectMarkup {
		masked = placeholder.Mask(text)
		text = masked.Text
	}

	outputs, err := eng.Run(ctx, text)
	if err != nil {
		return "", &TranslationError{ModelID: eng.ModelID(), Message: err.Error(), Err: err}
	}
	if len(outputs) == 0 {
		return "", &TranslationError{ModelID: eng.ModelID(), Message: "engine returned no translation"}
	}

	out := postprocess.Clean(outputs[0].TranslationText)
	if out == "" {
		return "", &TranslationError{ModelID: eng.ModelID(), Message: "engine returned an empty translation"}
	}
	if masked != nil && masked.Len() > 0 {
		if missing := masked.Missing(out); len(missing) > 0 {
			f.log.Warn("model dropped masked markup", zap.String("model", eng.ModelID()), zap.Ints("missing", missing))
		}
		out = masked.Unmask(out)
	}

	if f.recorder != nil {
		if err := f.recorder.RecordUse(ctx, eng.ModelID()); err != nil {
			f.log.Warn("failed to record model use", zap.String("model", eng.ModelID()), zap.Error(err))
		}
	}

	return out, nil
}

// Do serves one request from display names to translated text. Selecting the
// same language twice stops the request before any model is resolved.
func (f *Facade) Do(ctx context.Context, req internal.TranslationRequest) (*internal.TranslationResult, error) {
	start := time.Now()

	targetCode, err := f.registry.CodeFor(req.TargetName)
	if err != nil {
		return nil, err
	}

	auto := req.SourceName == language.AutoDetect
	var sourceCode string
	if !auto {
		sourceCode, err = f.registry.CodeFor(req.SourceName)
		if err != nil {
			return nil, err
		}
		if sourceCode == targetCode {
			return nil, ErrSameLanguage
		}
	}

	if strings.TrimSpace(req.Text) == "" {
		return nil, ErrEmptyInput
	}

	if auto {
		sourceCode, err = f.detect(req.Text)
		if err != nil {
			return nil, err
		}
		if sourceCode == targetCode {
			return nil, ErrSameLanguage
		}
	}

	modelID := f.ResolveModelID(sourceCode, targetCode)

	eng, hit, err := f.getEngine(ctx, modelID)
	if err != nil {
		return nil, err
	}

	translated, err := f.Translate(ctx, req.Text, eng)
	if err != nil {
		return nil, err
	}

	res := &internal.TranslationResult{
		SourceCode:     sourceCode,
		TargetCode:     targetCode,
		ModelID:        modelID,
		TranslatedText: translated,
		Detected:       auto,
		CacheHit:       hit,
	}
	if f.checker != nil {
		if err := f.checker.Check(translated, targetCode); err != nil {
			f.log.Warn("translation failed output check", zap.String("model", modelID), zap.Error(err))
			res.OutputWarning = err.Error()
		}
	}
	res.Latency = time.Since(start)
	return res, nil
}

func (f *Facade) detect(text string) (string, error) {
	if f.detector == nil {
		return "", fmt.Errorf("%w: detection is not enabled", ErrLanguageNotDetected)
	}
	code, ok := f.detector.DetectISO(text)
	if !ok {
		return "", ErrLanguageNotDetected
	}
	if _, err := f.registry.NameFor(code); err != nil {
		return "", fmt.Errorf("%w: %s is not offered", ErrLanguageNotDetected, code)
	}
	f.log.Debug("detected source language", zap.String("code", code))
	return code, nil
}

func (f *Facade) recordLoad(ctx context.Context, modelID string, latency time.Duration, loadErr error) {
	if f.recorder == nil {
		return
	}
	if err := f.recorder.RecordLoad(ctx, modelID, latency, loadErr); err != nil {
		f.log.Warn("failed to record model load", zap.String("model", modelID), zap.Error(err))
	}
}
