// Package matcher locates templates inside a frame by normalized cross-correlation.
package matcher

import (
	"errors"
	"log/slog"
	"sort"
	"sync"

	apperrors "github.com/GriffinCanCode/gamesight/internal/errors"
	"github.com/GriffinCanCode/gamesight/internal/resilience"
	"github.com/GriffinCanCode/gamesight/internal/vision"
)

var (
	backendsMu sync.RWMutex
	backends   = map[string]func() Correlator{
		DefaultBackend: func() Correlator { return NCC{} },
	}
)

// RegisterBackend makes a correlator available by name.
func RegisterBackend(name string, factory func() Correlator) {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	backends[name] = factory
}

// Backend returns a new correlator registered under name.
func Backend(name string) (Correlator, bool) {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	factory, ok := backends[name]
	if !ok {
		return nil, false
	}
	return factory(), true
}

// Backends lists the registered correlator names, sorted.
func Backends() []string {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Matcher runs correlation searches. A non-default backend is guarded by a
// circuit breaker and falls back to NCC when it fails or the breaker is open.
// Searches run to completion once started; there is no cancellation.
type Matcher struct {
	primary  Correlator
	fallback Correlator
	breaker  *resilience.Breaker
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithCorrelator sets the primary correlator.
func WithCorrelator(c Correlator) Option {
	return func(m *Matcher) { m.primary = c }
}

// WithBreaker sets the breaker guarding a non-default primary correlator.
func WithBreaker(b *resilience.Breaker) Option {
	return func(m *Matcher) { m.breaker = b }
}

// New creates a matcher. Without options it uses NCC only.
func New(opts ...Option) *Matcher {
	m := &Matcher{primary: NCC{}}
	for _, opt := range opts {
		opt(m)
	}
	if _, isNCC := m.primary.(NCC); !isNCC {
		m.fallback = NCC{}
		if m.breaker == nil {
			cfg := resilience.FastConfig()
			cfg.Name = "correlator"
			m.breaker = resilience.New(cfg)
		}
	}
	return m
}

// Surface computes the correlation surface of needle over hay.
func (m *Matcher) Surface(hay, needle *vision.Frame) (*Surface, error) {
	if err := validate(hay, needle); err != nil {
		return nil, err
	}
	if m.fallback == nil {
		return m.primary.Surface(hay, needle)
	}

	s, err := resilience.ExecuteWithResult(m.breaker, func() (*Surface, error) {
		s, err := m.primary.Surface(hay, needle)
		if err == nil && (s == nil || s.Width != hay.Width-needle.Width+1 || s.Height != hay.Height-needle.Height+1) {
			err = apperrors.New(apperrors.CodeBackendFailed, "correlator returned a surface of the wrong size")
		}
		return s, err
	})
	if err == nil {
		return s, nil
	}
	if errors.Is(err, resilience.ErrOpen) {
		slog.Debug("correlation backend shed", "breaker", m.breaker.Name(), "rejected", m.breaker.Counts().Rejected)
	} else {
		slog.Warn("correlation backend failed, using fallback",
			"error", apperrors.Wrap(err, apperrors.CodeBackendFailed, "primary correlator"),
			"breaker", m.breaker.State())
	}
	return m.fallback.Surface(hay, needle)
}

// LocateBest returns the box of the highest-scoring placement when its score is
// at least minConfidence.
func (m *Matcher) LocateBest(hay, needle *vision.Frame, minConfidence float32) (vision.BoundingBox, bool, error) {
	s, err := m.Surface(hay, needle)
	if err != nil {
		return vision.BoundingBox{}, false, err
	}
	score, x, y := s.Max()
	if score < minConfidence {
		return vision.BoundingBox{}, false, nil
	}
	return vision.Box(x, y, needle.Width, needle.Height), true, nil
}

// LocateAll returns every placement scoring at least minConfidence after greedy
// non-maximum suppression, best first.
func (m *Matcher) LocateAll(hay, needle *vision.Frame, minConfidence, maxOverlap float32) ([]vision.BoundingBox, error) {
	s, err := m.Surface(hay, needle)
	if err != nil {
		return nil, err
	}
	return Suppress(Candidates(s, needle.Width, needle.Height, minConfidence), maxOverlap), nil
}

func validate(hay, needle *vision.Frame) error {
	if hay.Empty() || needle.Empty() {
		return apperrors.New(apperrors.CodeInvalidImage, "empty frame")
	}
	if len(hay.Pix) < hay.Width*hay.Height || len(needle.Pix) < needle.Width*needle.Height {
		return apperrors.New(apperrors.CodeInvalidImage, "pixel buffer shorter than frame size")
	}
	if needle.Width > hay.Width || needle.Height > hay.Height {
		return apperrors.Newf(apperrors.CodeNeedleTooLarge, "needle %dx%d exceeds haystack %dx%d",
			needle.Width, needle.Height, hay.Width, hay.Height)
	}
	return nil
}
