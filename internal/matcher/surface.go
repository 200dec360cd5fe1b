package matcher

import (
	"math"

	"github.com/GriffinCanCode/gamesight/internal/vision"
)

// Surface holds one correlation score per needle placement, row-major.
// Width and Height are (W-w+1) and (H-h+1).
type Surface struct {
	Scores []float32
	Width  int
	Height int
}

// At returns the score of the placement with top-left corner (x, y).
func (s *Surface) At(x, y int) float32 {
	return s.Scores[y*s.Width+x]
}

// Max returns the highest score and its position. Ties keep the first cell in
// row-major order.
func (s *Surface) Max() (score float32, x, y int) {
	best := -1
	for i, v := range s.Scores {
		if best < 0 || v > s.Scores[best] {
			best = i
		}
	}
	if best < 0 {
		return float32(math.Inf(-1)), 0, 0
	}
	return s.Scores[best], best % s.Width, best / s.Width
}

// Correlator produces a correlation surface for a needle over a haystack.
// Implementations may assume both frames are non-empty and the needle fits.
type Correlator interface {
	Surface(hay, needle *vision.Frame) (*Surface, error)
}

// NCC is the pure-Go zero-mean normalized cross-correlation. Scores fall in
// [-1, 1]. A flat needle against a flat window scores 1 when both have the same
// value and 0 otherwise; a flat region against a textured one scores 0.
type NCC struct{}

// Surface implements Correlator.
func (NCC) Surface(hay, needle *vision.Frame) (*Surface, error) {
	w, h := needle.Width, needle.Height
	sw, sh := hay.Width-w+1, hay.Height-h+1
	n := int64(w * h)

	var tSum, tSumSq int64
	for _, v := range needle.Pix[:w*h] {
		tSum += int64(v)
		tSumSq += int64(v) * int64(v)
	}
	tMean := float64(tSum) / float64(n)
	tFlat := n*tSumSq-tSum*tSum == 0

	// zero-mean needle, so the window mean drops out of the numerator
	tz := make([]float64, w*h)
	var tVar float64
	for i, v := range needle.Pix[:w*h] {
		tz[i] = float64(v) - tMean
		tVar += tz[i] * tz[i]
	}

	sum, sumSq := integrals(hay)
	stride := hay.Width + 1

	out := &Surface{Scores: make([]float32, sw*sh), Width: sw, Height: sh}
	for y := 0; y < sh; y++ {
		for x := 0; x < sw; x++ {
			a, b := y*stride+x, y*stride+x+w
			c, d := (y+h)*stride+x, (y+h)*stride+x+w
			wSum := sum[d] - sum[b] - sum[c] + sum[a]
			wSumSq := sumSq[d] - sumSq[b] - sumSq[c] + sumSq[a]
			wDen := n*wSumSq - wSum*wSum
			wFlat := wDen == 0

			var score float64
			switch {
			case tFlat && wFlat:
				if math.Abs(float64(wSum)/float64(n)-tMean) < flatMeanTolerance {
					score = 1
				}
			case tFlat || wFlat:
				score = 0
			default:
				var num float64
				for ty := 0; ty < h; ty++ {
					row := hay.Pix[(y+ty)*hay.Width+x : (y+ty)*hay.Width+x+w]
					trow := tz[ty*w : (ty+1)*w]
					for tx, v := range row {
						num += float64(v) * trow[tx]
					}
				}
				wVar := float64(wDen) / float64(n)
				score = num / math.Sqrt(tVar*wVar)
				score = math.Max(-1, math.Min(1, score))
			}
			out.Scores[y*sw+x] = float32(score)
		}
	}
	return out, nil
}

// integrals returns summed-area tables of the pixels and their squares, each
// (W+1)*(H+1) with a zero first row and column.
func integrals(f *vision.Frame) (sum, sumSq []int64) {
	stride := f.Width + 1
	sum = make([]int64, stride*(f.Height+1))
	sumSq = make([]int64, stride*(f.Height+1))
	for y := 0; y < f.Height; y++ {
		var rowSum, rowSq int64
		for x := 0; x < f.Width; x++ {
			v := int64(f.Pix[y*f.Width+x])
			rowSum += v
			rowSq += v * v
			i := (y+1)*stride + x + 1
			sum[i] = sum[i-stride] + rowSum
			sumSq[i] = sumSq[i-stride] + rowSq
		}
	}
	return sum, sumSq
}
