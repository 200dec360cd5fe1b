package matcher

import (
	"sort"

	"github.com/GriffinCanCode/gamesight/internal/vision"
)

// Candidate is a surface cell that passed the confidence threshold.
type Candidate struct {
	Box   vision.BoundingBox
	Score float32
}

// Candidates collects every placement scoring at least minConfidence, in
// row-major scan order.
func Candidates(s *Surface, needleW, needleH int, minConfidence float32) []Candidate {
	var out []Candidate
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			if score := s.At(x, y); score >= minConfidence {
				out = append(out, Candidate{Box: vision.Box(x, y, needleW, needleH), Score: score})
			}
		}
	}
	return out
}

// Suppress runs greedy non-maximum suppression: take the best remaining
// candidate, emit it, drop every remaining candidate whose IoU with it exceeds
// maxOverlap. Equal scores keep their input order. The input is not modified.
func Suppress(cands []Candidate, maxOverlap float32) []vision.BoundingBox {
	sorted := make([]Candidate, len(cands))
	copy(sorted, cands)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })

	suppressed := make([]bool, len(sorted))
	var kept []vision.BoundingBox
	for i, c := range sorted {
		if suppressed[i] {
			continue
		}
		kept = append(kept, c.Box)
		for j := i + 1; j < len(sorted); j++ {
			if !suppressed[j] && vision.IoU(c.Box, sorted[j].Box) > maxOverlap {
				suppressed[j] = true
			}
		}
	}
	return kept
}
