//go:build gocv

package matcher

import (
	"gocv.io/x/gocv"

	apperrors "github.com/GriffinCanCode/gamesight/internal/errors"
	"github.com/GriffinCanCode/gamesight/internal/vision"
)

// GoCVBackend is the name of the OpenCV correlator.
const GoCVBackend = "gocv"

func init() {
	RegisterBackend(GoCVBackend, func() Correlator { return GoCV{} })
}

// GoCV correlates with OpenCV's TM_CCOEFF_NORMED. OpenCV scores a flat needle
// as 0 everywhere, unlike NCC.
type GoCV struct{}

// Surface implements Correlator.
func (GoCV) Surface(hay, needle *vision.Frame) (*Surface, error) {
	img, err := gocv.NewMatFromBytes(hay.Height, hay.Width, gocv.MatTypeCV8UC1, hay.Pix[:hay.Width*hay.Height])
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeBackendFailed, "haystack mat")
	}
	defer img.Close()

	tpl, err := gocv.NewMatFromBytes(needle.Height, needle.Width, gocv.MatTypeCV8UC1, needle.Pix[:needle.Width*needle.Height])
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeBackendFailed, "needle mat")
	}
	defer tpl.Close()

	result := gocv.NewMat()
	defer result.Close()
	mask := gocv.NewMat()
	defer mask.Close()

	gocv.MatchTemplate(img, tpl, &result, gocv.TmCcoeffNormed, mask)
	if result.Empty() {
		return nil, apperrors.New(apperrors.CodeBackendFailed, "matchTemplate produced no result")
	}

	s := &Surface{Width: result.Cols(), Height: result.Rows()}
	s.Scores = make([]float32, s.Width*s.Height)
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			s.Scores[y*s.Width+x] = result.GetFloatAt(y, x)
		}
	}
	return s, nil
}
