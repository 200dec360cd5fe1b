package trace

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestRootSpanIDs(t *testing.T) {
	ctx, span := StartSpan(context.Background(), "watcher.stats")
	ids := span.IDs()

	if len(ids.Trace) != 32 || strings.Contains(ids.Trace, "-") {
		t.Errorf("trace ID = %q, want 32 plain hex chars", ids.Trace)
	}
	if len(ids.Span) != 16 {
		t.Errorf("span ID = %q, want 16 chars", ids.Span)
	}
	if ids.Parent != "" {
		t.Errorf("root span has parent %q", ids.Parent)
	}
	if got, ok := FromContext(ctx); !ok || got != ids {
		t.Errorf("FromContext = %+v, %v; want %+v", got, ok, ids)
	}
}

func TestNestedSpans(t *testing.T) {
	ctx, pass := StartSpan(context.Background(), "watcher.status")
	_, locate := StartSpan(ctx, "recognition.locate_anchor")

	if locate.IDs().Trace != pass.IDs().Trace {
		t.Error("nested span should share the trace ID")
	}
	if locate.IDs().Parent != pass.IDs().Span {
		t.Error("nested span parent should be the enclosing span")
	}
	if locate.IDs().Span == pass.IDs().Span {
		t.Error("nested span needs its own span ID")
	}
}

func TestTraceIDsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		_, s := StartSpan(context.Background(), "pass")
		if seen[s.IDs().Trace] {
			t.Fatal("duplicate trace ID")
		}
		seen[s.IDs().Trace] = true
	}
}

func TestEndLogsOnce(t *testing.T) {
	buf := captureLogs(t)

	_, span := StartSpan(context.Background(), "recognition.stat")
	if span.Duration() != 0 {
		t.Error("open span should report zero duration")
	}
	span.SetAttr("stat", "hp")
	span.End()
	span.End()

	out := buf.String()
	if n := strings.Count(out, "span finished"); n != 1 {
		t.Errorf("span logged %d times, want 1: %s", n, out)
	}
	if !strings.Contains(out, "span.stat=hp") || !strings.Contains(out, "span.name=recognition.stat") {
		t.Errorf("span record missing attributes: %s", out)
	}
}

func TestSlowSpanWarns(t *testing.T) {
	buf := captureLogs(t)
	prev := SlowPass
	SlowPass = time.Nanosecond
	t.Cleanup(func() { SlowPass = prev })

	_, span := StartSpan(context.Background(), "recognition.slot_count")
	time.Sleep(time.Millisecond)
	span.End()

	if !strings.Contains(buf.String(), "level=WARN msg=\"slow span\"") {
		t.Errorf("expected slow span warning, got: %s", buf.String())
	}
}

func TestLogger(t *testing.T) {
	buf := captureLogs(t)

	ctx, outer := StartSpan(context.Background(), "watcher.slots")
	Logger(ctx).Info("anchor located")
	line := buf.String()
	if !strings.Contains(line, "trace_id="+outer.IDs().Trace) || !strings.Contains(line, "span_id="+outer.IDs().Span) {
		t.Errorf("log line missing IDs: %s", line)
	}
	if strings.Contains(line, "parent_span_id") {
		t.Errorf("root span log should not carry a parent: %s", line)
	}

	buf.Reset()
	inner, _ := StartSpan(ctx, "recognition.slot_count")
	Logger(inner).Info("digits read")
	if !strings.Contains(buf.String(), "parent_span_id="+outer.IDs().Span) {
		t.Errorf("nested log line missing parent: %s", buf.String())
	}

	if Logger(context.Background()) != slog.Default() {
		t.Error("Logger without IDs should return the default logger")
	}
}
