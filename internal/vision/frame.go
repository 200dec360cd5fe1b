// Package vision holds the pixel and geometry types shared by the recognition packages
package vision

import (
	"image"

	"github.com/disintegration/gift"
)

// Frame is a single-channel 8-bit buffer in row-major order with no padding.
type Frame struct {
	Pix    []byte
	Width  int
	Height int
}

// NewFrame allocates a zeroed frame.
func NewFrame(width, height int) *Frame {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Frame{Pix: make([]byte, width*height), Width: width, Height: height}
}

// FromPix wraps an existing buffer. Returns nil if the buffer is shorter than width*height.
func FromPix(pix []byte, width, height int) *Frame {
	if width < 0 || height < 0 || len(pix) < width*height {
		return nil
	}
	return &Frame{Pix: pix[:width*height], Width: width, Height: height}
}

// Filled returns a frame with every pixel set to v.
func Filled(width, height int, v byte) *Frame {
	f := NewFrame(width, height)
	for i := range f.Pix {
		f.Pix[i] = v
	}
	return f
}

// FromImage converts any image to an 8-bit grayscale frame.
func FromImage(img image.Image) *Frame {
	gray, ok := img.(*image.Gray)
	if !ok {
		g := gift.New(gift.Grayscale())
		gray = image.NewGray(g.Bounds(img.Bounds()))
		g.Draw(gray, img)
	}
	b := gray.Bounds()
	f := NewFrame(b.Dx(), b.Dy())
	for y := 0; y < f.Height; y++ {
		off := gray.PixOffset(b.Min.X, b.Min.Y+y)
		copy(f.Pix[y*f.Width:(y+1)*f.Width], gray.Pix[off:off+f.Width])
	}
	return f
}

// Image returns the frame as an *image.Gray sharing no memory with f.
func (f *Frame) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, f.Width, f.Height))
	copy(img.Pix, f.Pix)
	return img
}

// Empty reports whether the frame has no pixels.
func (f *Frame) Empty() bool {
	return f == nil || f.Width <= 0 || f.Height <= 0
}

// At returns the pixel at (x, y). Caller guarantees bounds.
func (f *Frame) At(x, y int) byte {
	return f.Pix[y*f.Width+x]
}

// Set writes the pixel at (x, y). Caller guarantees bounds.
func (f *Frame) Set(x, y int, v byte) {
	f.Pix[y*f.Width+x] = v
}

// Contains reports whether r lies fully inside the frame and has a positive size.
func (f *Frame) Contains(r Rect) bool {
	if f == nil || r.Width <= 0 || r.Height <= 0 || r.X < 0 || r.Y < 0 {
		return false
	}
	return r.X+r.Width <= f.Width && r.Y+r.Height <= f.Height
}

// Crop copies r out of the frame. Returns nil if r is not fully inside.
func (f *Frame) Crop(r Rect) *Frame {
	if !f.Contains(r) {
		return nil
	}
	out := NewFrame(r.Width, r.Height)
	for y := 0; y < r.Height; y++ {
		src := (r.Y+y)*f.Width + r.X
		copy(out.Pix[y*r.Width:(y+1)*r.Width], f.Pix[src:src+r.Width])
	}
	return out
}

// Paste draws src onto f with its top-left corner at (x, y), clipping at the edges.
func (f *Frame) Paste(src *Frame, x, y int) {
	for sy := 0; sy < src.Height; sy++ {
		dy := y + sy
		if dy < 0 || dy >= f.Height {
			continue
		}
		for sx := 0; sx < src.Width; sx++ {
			dx := x + sx
			if dx < 0 || dx >= f.Width {
				continue
			}
			f.Pix[dy*f.Width+dx] = src.Pix[sy*src.Width+sx]
		}
	}
}
