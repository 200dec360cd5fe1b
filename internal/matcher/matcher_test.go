package matcher

import (
	"errors"
	"reflect"
	"testing"
	"time"

	apperrors "github.com/GriffinCanCode/gamesight/internal/errors"
	"github.com/GriffinCanCode/gamesight/internal/resilience"
	"github.com/GriffinCanCode/gamesight/internal/vision"
)

func TestLocateBestUniformBlock(t *testing.T) {
	hay := vision.Filled(10, 10, 50)
	hay.Paste(vision.Filled(3, 3, 200), 5, 5)
	needle := vision.Filled(3, 3, 200)

	box, ok, err := New().LocateBest(hay, needle, 0.9)
	if err != nil {
		t.Fatalf("LocateBest: %v", err)
	}
	if !ok {
		t.Fatal("LocateBest found nothing")
	}
	if want := vision.Box(5, 5, 3, 3); box != want {
		t.Errorf("LocateBest = %v, want %v", box, want)
	}
}

func TestLocateBestRoundTrip(t *testing.T) {
	tests := []struct {
		name         string
		w, h, pw, ph int
		px, py       int
	}{
		{"top left", 12, 8, 2, 3, 0, 0},
		{"bottom right", 12, 8, 2, 3, 10, 5},
		{"middle", 20, 15, 4, 4, 7, 6},
		{"needle equals haystack row", 6, 6, 6, 1, 0, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hay := vision.Filled(tt.w, tt.h, 30)
			hay.Paste(vision.Filled(tt.pw, tt.ph, 180), tt.px, tt.py)

			box, ok, err := New().LocateBest(hay, vision.Filled(tt.pw, tt.ph, 180), 0.99)
			if err != nil || !ok {
				t.Fatalf("LocateBest = %v, %v, %v", box, ok, err)
			}
			if want := vision.Box(tt.px, tt.py, tt.pw, tt.ph); box != want {
				t.Errorf("LocateBest = %v, want %v", box, want)
			}
		})
	}
}

func TestLocateBestBelowThreshold(t *testing.T) {
	hay := vision.Filled(8, 8, 10)
	_, ok, err := New().LocateBest(hay, vision.Filled(2, 2, 90), 0.5)
	if err != nil {
		t.Fatalf("LocateBest: %v", err)
	}
	if ok {
		t.Error("flat needle of a different value should not be found")
	}
}

func TestLocateBestTextured(t *testing.T) {
	needle := vision.FromPix([]byte{
		0, 255, 0,
		255, 255, 255,
		0, 255, 0,
	}, 3, 3)
	hay := vision.NewFrame(9, 7)
	hay.Paste(needle, 4, 2)

	box, ok, err := New().LocateBest(hay, needle, 0.95)
	if err != nil || !ok {
		t.Fatalf("LocateBest = %v, %v, %v", box, ok, err)
	}
	if want := vision.Box(4, 2, 3, 3); box != want {
		t.Errorf("LocateBest = %v, want %v", box, want)
	}
}

func TestLocateErrors(t *testing.T) {
	tests := []struct {
		name   string
		hay    *vision.Frame
		needle *vision.Frame
		code   apperrors.Code
	}{
		{"needle wider", vision.Filled(4, 4, 0), vision.Filled(5, 1, 0), apperrors.CodeNeedleTooLarge},
		{"needle taller", vision.Filled(4, 4, 0), vision.Filled(1, 5, 0), apperrors.CodeNeedleTooLarge},
		{"empty haystack", vision.NewFrame(0, 0), vision.Filled(1, 1, 0), apperrors.CodeInvalidImage},
		{"nil needle", vision.Filled(4, 4, 0), nil, apperrors.CodeInvalidImage},
	}

	m := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := m.LocateBest(tt.hay, tt.needle, 0.5); !apperrors.IsCode(err, tt.code) {
				t.Errorf("LocateBest error = %v, want %v", err, tt.code)
			}
			if _, err := m.LocateAll(tt.hay, tt.needle, 0.5, 0.3); !apperrors.IsCode(err, tt.code) {
				t.Errorf("LocateAll error = %v, want %v", err, tt.code)
			}
		})
	}
}

func TestLocateAllTwoInstances(t *testing.T) {
	needle := vision.Filled(3, 3, 50)
	needle.Set(1, 1, 200)
	hay := vision.Filled(16, 10, 50)
	hay.Paste(needle, 10, 4)
	hay.Paste(needle, 3, 3)

	got, err := New().LocateAll(hay, needle, 0.99, 0.3)
	if err != nil {
		t.Fatalf("LocateAll: %v", err)
	}
	want := []vision.BoundingBox{vision.Box(3, 3, 3, 3), vision.Box(10, 4, 3, 3)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("LocateAll = %v, want %v", got, want)
	}
}

func TestLocateAllNothingFound(t *testing.T) {
	got, err := New().LocateAll(vision.Filled(6, 6, 0), vision.Filled(2, 2, 255), 0.8, 0.3)
	if err != nil {
		t.Fatalf("LocateAll: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("LocateAll = %v, want none", got)
	}
}

func TestSurfaceMaxFirstTie(t *testing.T) {
	s := &Surface{Scores: []float32{0.2, 0.9, 0.1, 0.9}, Width: 2, Height: 2}
	score, x, y := s.Max()
	if score != 0.9 || x != 1 || y != 0 {
		t.Errorf("Max() = %v at (%d,%d), want 0.9 at (1,0)", score, x, y)
	}
}

func TestNCCScoresBounded(t *testing.T) {
	hay := vision.NewFrame(12, 9)
	for i := range hay.Pix {
		hay.Pix[i] = byte((i * 37) % 251)
	}
	needle := hay.Crop(vision.Rect{X: 4, Y: 3, Width: 4, Height: 3})

	s, err := NCC{}.Surface(hay, needle)
	if err != nil {
		t.Fatal(err)
	}
	if s.Width != 9 || s.Height != 7 {
		t.Fatalf("surface %dx%d, want 9x7", s.Width, s.Height)
	}
	for i, v := range s.Scores {
		if v < -1 || v > 1 {
			t.Fatalf("score[%d] = %v out of range", i, v)
		}
	}
	if s.At(4, 3) < 0.9999 {
		t.Errorf("self match scored %v", s.At(4, 3))
	}
}

type failingCorrelator struct{ calls int }

func (f *failingCorrelator) Surface(*vision.Frame, *vision.Frame) (*Surface, error) {
	f.calls++
	return nil, errors.New("device lost")
}

type shortCorrelator struct{}

func (shortCorrelator) Surface(*vision.Frame, *vision.Frame) (*Surface, error) {
	return &Surface{Scores: []float32{1}, Width: 1, Height: 1}, nil
}

func TestFallbackOnBackendFailure(t *testing.T) {
	primary := &failingCorrelator{}
	breaker := resilience.New(resilience.Config{Threshold: 1, ResetTimeout: time.Hour, HalfOpenSuccesses: 1})
	m := New(WithCorrelator(primary), WithBreaker(breaker))

	hay := vision.Filled(10, 10, 50)
	hay.Paste(vision.Filled(3, 3, 200), 5, 5)
	needle := vision.Filled(3, 3, 200)

	for i := 0; i < 3; i++ {
		box, ok, err := m.LocateBest(hay, needle, 0.9)
		if err != nil || !ok || box != vision.Box(5, 5, 3, 3) {
			t.Fatalf("call %d: LocateBest = %v, %v, %v", i, box, ok, err)
		}
	}
	if primary.calls != 1 {
		t.Errorf("primary called %d times, want 1 before the breaker opened", primary.calls)
	}
	if breaker.State() != resilience.Open {
		t.Errorf("breaker state = %v, want open", breaker.State())
	}
}

func TestFallbackOnWrongSurfaceSize(t *testing.T) {
	m := New(WithCorrelator(shortCorrelator{}))

	hay := vision.Filled(6, 6, 0)
	hay.Paste(vision.Filled(2, 2, 90), 3, 1)

	box, ok, err := m.LocateBest(hay, vision.Filled(2, 2, 90), 0.9)
	if err != nil || !ok || box != vision.Box(3, 1, 2, 2) {
		t.Errorf("LocateBest = %v, %v, %v", box, ok, err)
	}
}

func TestBackendRegistry(t *testing.T) {
	c, ok := Backend(DefaultBackend)
	if !ok {
		t.Fatal("default backend missing")
	}
	if _, isNCC := c.(NCC); !isNCC {
		t.Errorf("default backend is %T", c)
	}
	if _, ok := Backend("no-such-backend"); ok {
		t.Error("unknown backend should not resolve")
	}

	RegisterBackend("test-short", func() Correlator { return shortCorrelator{} })
	found := false
	for _, name := range Backends() {
		if name == "test-short" {
			found = true
		}
	}
	if !found {
		t.Errorf("Backends() = %v, missing test-short", Backends())
	}
}
