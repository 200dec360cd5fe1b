// Package fingerprint computes the 64-bit digest used as a classification key.
// Tables are built and queried in the same process, so only in-process determinism matters.
package fingerprint

import (
	"github.com/cespare/xxhash/v2"

	"github.com/GriffinCanCode/gamesight/internal/vision"
)

// Hash returns the digest of b.
func Hash(b []byte) int64 {
	return int64(xxhash.Sum64(b))
}

// HashFrame returns the digest of the frame's pixels.
func HashFrame(f *vision.Frame) int64 {
	if f == nil {
		return Hash(nil)
	}
	return Hash(f.Pix[:f.Width*f.Height])
}
