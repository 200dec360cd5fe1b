// Package visiontest provides synthetic digit glyphs and screens for tests.
package visiontest

import (
	"github.com/GriffinCanCode/gamesight/internal/vision"
)

// GlyphWidth and GlyphHeight are the size of every digit glyph.
const (
	GlyphWidth  = 5
	GlyphHeight = 7
)

var glyphRows = map[byte][GlyphHeight]string{
	'0': {"01110", "10001", "10011", "10101", "11001", "10001", "01110"},
	'1': {"00100", "01100", "00100", "00100", "00100", "00100", "01110"},
	'2': {"01110", "10001", "00001", "00010", "00100", "01000", "11111"},
	'3': {"11110", "00001", "00001", "01110", "00001", "00001", "11110"},
	'4': {"00010", "00110", "01010", "10010", "11111", "00010", "00010"},
	'5': {"11111", "10000", "11110", "00001", "00001", "10001", "01110"},
	'6': {"00110", "01000", "10000", "11110", "10001", "10001", "01110"},
	'7': {"11111", "00001", "00010", "00100", "01000", "01000", "01000"},
	'8': {"01110", "10001", "10001", "01110", "10001", "10001", "01110"},
	'9': {"01110", "10001", "10001", "01111", "00001", "00010", "01100"},
}

// Digit renders d ('0'-'9') with ink pixels set to on and the rest to 0.
func Digit(d byte, on byte) *vision.Frame {
	f := vision.NewFrame(GlyphWidth, GlyphHeight)
	for y, row := range glyphRows[d] {
		for x, c := range row {
			if c == '1' {
				f.Set(x, y, on)
			}
		}
	}
	return f
}

// Digits returns the ten glyphs keyed by prefix+digit.
func Digits(prefix string, on byte) Source {
	out := make(Source, 10)
	for d := byte('0'); d <= '9'; d++ {
		out[prefix+string(d)] = Digit(d, on)
	}
	return out
}

// Number lays the glyphs of s left to right with a 2px gap inside a 2px margin.
func Number(s string, on byte) *vision.Frame {
	const pad, gap = 2, 2
	f := vision.NewFrame(pad*2+len(s)*GlyphWidth+(len(s)-1)*gap, GlyphHeight+pad*2)
	x := pad
	for i := 0; i < len(s); i++ {
		f.Paste(Digit(s[i], on), x, pad)
		x += GlyphWidth + gap
	}
	return f
}

// Source is an in-memory template source.
type Source map[string]*vision.Frame

// Frame implements the template lookups used by the recognition packages.
func (s Source) Frame(key string) (*vision.Frame, bool) {
	f, ok := s[key]
	return f, ok
}
