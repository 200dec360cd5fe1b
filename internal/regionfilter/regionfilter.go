// Package regionfilter crops a rectangle out of a grayscale buffer and quantizes it
// so that the result hashes identically for identical on-screen glyphs.
package regionfilter

import (
	"github.com/GriffinCanCode/gamesight/internal/vision"
)

// Params fully determine the two-stage transform.
type Params struct {
	RangeLow     uint8
	RangeHigh    uint8
	ZeroForRange uint8
	ValA         uint8
	ValB         uint8
	ValAB        uint8
	ValElse      uint8
}

// Extract copies r out of buf (row-major, width*height) and applies the filter.
// Returns false when r is empty or not fully inside the buffer; there is no clamping.
//
// Stage 1 maps every value in [RangeLow, RangeHigh] to ZeroForRange.
// Stage 2 (when enabled) maps ValA or ValB to ValAB and any other value to ValElse.
// The second branch is written as "else if v != ValB" and must stay that way: the
// hash tables are built with this exact branch order.
func Extract(buf []byte, width, height int, r vision.Rect, stage2 bool, p Params) ([]byte, bool) {
	if r.Width <= 0 || r.Height <= 0 || r.X < 0 || r.Y < 0 {
		return nil, false
	}
	if width <= 0 || height <= 0 || len(buf) < width*height {
		return nil, false
	}
	if r.X >= width || r.Y >= height || r.X+r.Width > width || r.Y+r.Height > height {
		return nil, false
	}

	out := make([]byte, 0, r.Width*r.Height)
	for y := r.Y; y < r.Y+r.Height; y++ {
		row := buf[y*width+r.X : y*width+r.X+r.Width]
		for _, v := range row {
			out = append(out, apply(v, stage2, p))
		}
	}
	return out, true
}

// ExtractFrame is Extract over a Frame.
func ExtractFrame(f *vision.Frame, r vision.Rect, stage2 bool, p Params) ([]byte, bool) {
	if f == nil {
		return nil, false
	}
	return Extract(f.Pix, f.Width, f.Height, r, stage2, p)
}

// Full returns the rectangle covering the whole frame.
func Full(f *vision.Frame) vision.Rect {
	return vision.Rect{Width: f.Width, Height: f.Height}
}

func apply(v byte, stage2 bool, p Params) byte {
	if v >= p.RangeLow && v <= p.RangeHigh {
		v = p.ZeroForRange
	}
	if stage2 {
		if v == p.ValA || v == p.ValB {
			v = p.ValAB
		} else if v != p.ValB {
			v = p.ValElse
		}
	}
	return v
}
