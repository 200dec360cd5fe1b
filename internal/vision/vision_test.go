package vision

import (
	"image"
	"image/color"
	"testing"
)

func TestIoU(t *testing.T) {
	tests := []struct {
		name string
		a, b BoundingBox
		want float32
	}{
		{"no overlap", Box(0, 0, 10, 10), Box(20, 20, 10, 10), 0},
		{"identical", Box(0, 0, 10, 10), Box(0, 0, 10, 10), 1},
		{"partial", Box(0, 0, 10, 10), Box(5, 5, 10, 10), 25.0 / 175.0},
		{"contains", Box(0, 0, 20, 20), Box(5, 5, 10, 10), 100.0 / 400.0},
		{"touching edges", Box(0, 0, 10, 10), Box(10, 0, 10, 10), 0},
		{"negative origin", Box(-5, -5, 10, 10), Box(0, 0, 10, 10), 25.0 / 175.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IoU(tt.a, tt.b); got != tt.want {
				t.Errorf("IoU(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestFrameCrop(t *testing.T) {
	f := FromPix([]byte{10, 20, 30, 40, 50, 60, 70, 80, 90, 100, 110, 120}, 4, 3)

	got := f.Crop(Rect{X: 1, Y: 1, Width: 2, Height: 2})
	want := []byte{60, 70, 100, 110}
	if got == nil || string(got.Pix) != string(want) {
		t.Fatalf("Crop = %v, want %v", got, want)
	}

	if f.Crop(Rect{X: 3, Y: 0, Width: 2, Height: 1}) != nil {
		t.Error("crop past right edge should be nil")
	}
	if f.Crop(Rect{X: 0, Y: 0, Width: 0, Height: 1}) != nil {
		t.Error("zero-width crop should be nil")
	}
}

func TestFromPixShortBuffer(t *testing.T) {
	if FromPix([]byte{1, 2, 3}, 2, 2) != nil {
		t.Error("short buffer should be rejected")
	}
}

func TestFromImageGray(t *testing.T) {
	img := image.NewGray(image.Rect(2, 3, 5, 5))
	img.SetGray(2, 3, color.Gray{Y: 7})
	img.SetGray(4, 4, color.Gray{Y: 9})

	f := FromImage(img)
	if f.Width != 3 || f.Height != 2 {
		t.Fatalf("size = %dx%d, want 3x2", f.Width, f.Height)
	}
	if f.At(0, 0) != 7 || f.At(2, 1) != 9 {
		t.Errorf("pixels = %v", f.Pix)
	}
}

func TestFromImageRGB(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 200, B: 200, A: 255})
		}
	}

	f := FromImage(img)
	for i, v := range f.Pix {
		if v < 195 || v > 205 {
			t.Errorf("pixel %d = %d, want ~200", i, v)
		}
	}
}

func TestPasteClips(t *testing.T) {
	dst := Filled(4, 4, 0)
	dst.Paste(Filled(3, 3, 9), 2, 2)

	if dst.At(3, 3) != 9 || dst.At(2, 2) != 9 {
		t.Error("pasted pixels missing")
	}
	if dst.At(1, 1) != 0 {
		t.Error("pixel outside paste area changed")
	}
}

func TestRectOffset(t *testing.T) {
	r := Span(-117, 1, -11, 12).Offset(Box(200, 50, 10, 10))
	want := Rect{X: 83, Y: 51, Width: 106, Height: 11}
	if r != want {
		t.Errorf("Offset = %+v, want %+v", r, want)
	}
}
