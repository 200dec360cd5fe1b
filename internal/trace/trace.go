// Package trace tags the log records of one recognition pass with shared
// identifiers and times the steps of that pass.
package trace

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SlowPass is the span duration above which End logs at warn. Correlation
// cannot be interrupted, so a slow span is the only sign of a stalled matcher.
var SlowPass = 250 * time.Millisecond

// IDs identify a span and the pass it belongs to.
type IDs struct {
	Trace  string // 32 hex chars, shared by every span of a pass
	Span   string // 16 hex chars
	Parent string // empty for the root span
}

func newIDs() IDs {
	id := hexID()
	return IDs{Trace: id, Span: hexID()[:16]}
}

func (p IDs) child() IDs {
	return IDs{Trace: p.Trace, Span: hexID()[:16], Parent: p.Span}
}

func hexID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

type idsKey struct{}

// FromContext returns the IDs stored in ctx.
func FromContext(ctx context.Context) (IDs, bool) {
	ids, ok := ctx.Value(idsKey{}).(IDs)
	return ids, ok
}

// WithIDs returns a copy of ctx carrying ids.
func WithIDs(ctx context.Context, ids IDs) context.Context {
	return context.WithValue(ctx, idsKey{}, ids)
}

// Span times one step. It is owned by the goroutine that started it.
type Span struct {
	name  string
	ids   IDs
	start time.Time
	end   time.Time
	attrs []slog.Attr
}

// StartSpan opens a span, nested under the span in ctx if there is one, and
// returns a context carrying the new span's IDs.
func StartSpan(ctx context.Context, name string) (context.Context, *Span) {
	ids := newIDs()
	if parent, ok := FromContext(ctx); ok {
		ids = parent.child()
	}
	s := &Span{name: name, ids: ids, start: time.Now()}
	return WithIDs(ctx, ids), s
}

// Name returns the span name.
func (s *Span) Name() string { return s.name }

// IDs returns the span identifiers.
func (s *Span) IDs() IDs { return s.ids }

// SetAttr attaches a key/value pair that is logged when the span ends.
func (s *Span) SetAttr(key string, val any) {
	s.attrs = append(s.attrs, slog.Any(key, val))
}

// End closes the span and logs it, at warn when it took longer than SlowPass.
// Only the first call has an effect.
func (s *Span) End() {
	if !s.end.IsZero() {
		return
	}
	s.end = time.Now()
	if s.Duration() > SlowPass {
		slog.Warn("slow span", "span", s)
		return
	}
	slog.Debug("span finished", "span", s)
}

// Duration is the span length, or 0 while the span is open.
func (s *Span) Duration() time.Duration {
	if s.end.IsZero() {
		return 0
	}
	return s.end.Sub(s.start)
}

// LogValue implements slog.LogValuer.
func (s *Span) LogValue() slog.Value {
	attrs := append([]slog.Attr{
		slog.String("name", s.name),
		slog.String("trace_id", s.ids.Trace),
		slog.String("span_id", s.ids.Span),
		slog.Duration("duration", s.Duration()),
	}, s.attrs...)
	if s.ids.Parent != "" {
		attrs = append(attrs, slog.String("parent_span_id", s.ids.Parent))
	}
	return slog.GroupValue(attrs...)
}

// Logger returns the default logger with the IDs in ctx attached.
func Logger(ctx context.Context) *slog.Logger {
	ids, ok := FromContext(ctx)
	if !ok {
		return slog.Default()
	}
	if ids.Parent == "" {
		return slog.Default().With("trace_id", ids.Trace, "span_id", ids.Span)
	}
	return slog.Default().With("trace_id", ids.Trace, "span_id", ids.Span, "parent_span_id", ids.Parent)
}
