// Package recognition reads game state out of screen frames. An Engine is
// built once at startup and shared by every poll loop.
package recognition

import (
	"context"
	"log/slog"

	"github.com/GriffinCanCode/gamesight/internal/classifier"
	"github.com/GriffinCanCode/gamesight/internal/config"
	"github.com/GriffinCanCode/gamesight/internal/digits"
	apperrors "github.com/GriffinCanCode/gamesight/internal/errors"
	"github.com/GriffinCanCode/gamesight/internal/fingerprint"
	"github.com/GriffinCanCode/gamesight/internal/loccache"
	"github.com/GriffinCanCode/gamesight/internal/matcher"
	"github.com/GriffinCanCode/gamesight/internal/trace"
	"github.com/GriffinCanCode/gamesight/internal/vision"
)

// TemplateSource resolves template keys to pixels.
type TemplateSource interface {
	Frame(key string) (*vision.Frame, bool)
}

// Engine owns the templates, hash tables, matcher and location cache.
// Everything but the cache is immutable after New.
type Engine struct {
	cfg       *config.Config
	templates TemplateSource
	tables    *classifier.Tables
	matcher   *matcher.Matcher
	cache     *loccache.Cache
	digits    *digits.Recognizer

	cellW, cellH int
}

// Option configures an Engine.
type Option func(*Engine)

// WithMatcher replaces the matcher built from the configured backend.
func WithMatcher(m *matcher.Matcher) Option {
	return func(e *Engine) { e.matcher = m }
}

// WithCache shares a location cache with the engine.
func WithCache(c *loccache.Cache) Option {
	return func(e *Engine) { e.cache = c }
}

// New builds the hash tables from templates and wires the components.
func New(cfg *config.Config, templates TemplateSource, opts ...Option) (*Engine, error) {
	if cfg == nil {
		return nil, apperrors.New(apperrors.CodeInvalidArgument, "config is required")
	}
	if templates == nil {
		return nil, apperrors.New(apperrors.CodeInvalidArgument, "template source is required")
	}

	e := &Engine{
		cfg:       cfg,
		templates: templates,
		cellW:     defaultDigitCellWidth,
		cellH:     defaultDigitCellHeight,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.matcher == nil {
		e.matcher = newMatcher(cfg.MatcherBackend)
	}
	if e.cache == nil {
		e.cache = loccache.New()
	}
	e.digits = digits.New(templates, e.matcher)
	e.tables = classifier.Build(templates, cfg.ValueFilter, cfg.NonValueFilter)

	if f, ok := templates.Frame(classifier.DigitTemplatePrefix + "0"); ok {
		e.cellW, e.cellH = f.Width, f.Height
	}
	return e, nil
}

func newMatcher(backend string) *matcher.Matcher {
	if backend == "" || backend == matcher.DefaultBackend {
		return matcher.New()
	}
	c, ok := matcher.Backend(backend)
	if !ok {
		slog.Warn("unknown matcher backend, using default",
			"backend", backend, "available", matcher.Backends())
		return matcher.New()
	}
	slog.Info("matcher backend selected", "backend", backend)
	return matcher.New(matcher.WithCorrelator(c))
}

// Cache exposes the location cache so callers can clear it.
func (e *Engine) Cache() *loccache.Cache { return e.cache }

// Tables exposes the hash tables built at startup.
func (e *Engine) Tables() *classifier.Tables { return e.tables }

// LocateAnchor finds the template key in frame.
//
// With useCache the last known box is returned without searching. When cache
// verification is enabled the cached box is trusted only while the pixels under
// it still hash to the value recorded when it was found; otherwise the entry is
// dropped and a full search runs. Successful searches always refresh the cache.
// Matcher errors are logged and reported as not found.
func (e *Engine) LocateAnchor(ctx context.Context, frame *vision.Frame, key string, useCache bool) (vision.BoundingBox, bool) {
	ctx, span := trace.StartSpan(ctx, "recognition.locate_anchor")
	defer span.End()
	span.SetAttr("key", key)
	log := trace.Logger(ctx)

	if useCache {
		if entry, ok := e.cache.Lookup(key); ok {
			if !e.cfg.VerifyCache || fingerprint.HashFrame(frame.Crop(entry.Box.Rect())) == entry.Fingerprint {
				span.SetAttr("cached", true)
				return entry.Box, true
			}
			log.Debug("cached location is stale", "key", key, "box", entry.Box)
			e.cache.Clear(key)
		}
	}

	needle, ok := e.templates.Frame(key)
	if !ok {
		log.Debug("anchor template missing", "key", key)
		return vision.BoundingBox{}, false
	}
	box, found, err := e.matcher.LocateBest(frame, needle, float32(e.cfg.AnchorConfidence))
	if err != nil {
		log.Warn("anchor search failed", "key", key, "error", err)
		return vision.BoundingBox{}, false
	}
	if !found {
		return vision.BoundingBox{}, false
	}
	e.cache.Store(key, loccache.Entry{
		Box:         box,
		Fingerprint: fingerprint.HashFrame(frame.Crop(box.Rect())),
	})
	return box, true
}
