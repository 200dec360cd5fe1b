// Package digits reads multi-digit numbers by matching each digit template
// independently and ordering the hits left to right.
package digits

import (
	"log/slog"
	"sort"
	"strconv"
	"strings"

	apperrors "github.com/GriffinCanCode/gamesight/internal/errors"
	"github.com/GriffinCanCode/gamesight/internal/vision"
)

// TemplateSource resolves template keys to pixels.
type TemplateSource interface {
	Frame(key string) (*vision.Frame, bool)
}

// Locator finds every occurrence of a needle after suppression.
type Locator interface {
	LocateAll(hay, needle *vision.Frame, minConfidence, maxOverlap float32) ([]vision.BoundingBox, error)
}

// Recognizer composes a Locator over the ten digit templates.
type Recognizer struct {
	templates TemplateSource
	locator   Locator
}

// New creates a recognizer.
func New(templates TemplateSource, locator Locator) *Recognizer {
	return &Recognizer{templates: templates, locator: locator}
}

type hit struct {
	x     int32
	digit byte
}

// Recognize looks up "<prefix>0" through "<prefix>9", locates each over region
// and parses the digits sorted by x. Missing templates and failed searches skip
// that digit. Suppression runs per digit only, so two different digits can both
// report a hit at nearly the same position; both are kept.
func (r *Recognizer) Recognize(region *vision.Frame, prefix string, minConfidence, maxOverlap float32) (uint32, bool, error) {
	if region.Empty() {
		return 0, false, apperrors.New(apperrors.CodeInvalidImage, "empty digit region")
	}

	var hits []hit
	for d := byte('0'); d <= '9'; d++ {
		key := prefix + string(d)
		needle, ok := r.templates.Frame(key)
		if !ok {
			slog.Debug("digit template missing", "key", key)
			continue
		}
		boxes, err := r.locator.LocateAll(region, needle, minConfidence, maxOverlap)
		if err != nil {
			slog.Warn("digit search failed", "key", key, "error", err)
			continue
		}
		for _, b := range boxes {
			hits = append(hits, hit{x: b.X, digit: d})
		}
	}
	if len(hits) == 0 {
		return 0, false, nil
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].x < hits[j].x })

	var sb strings.Builder
	for _, h := range hits {
		sb.WriteByte(h.digit)
	}
	v, err := strconv.ParseUint(sb.String(), 10, 32)
	if err != nil {
		slog.Debug("digit sequence unparseable", "digits", sb.String(), "error", err)
		return 0, false, nil
	}
	return uint32(v), true, nil
}
