// Package screen provides platform-agnostic screen capture as grayscale frames
package screen

import (
	"bytes"
	"context"
	"image"
	_ "image/gif"  // GIF decoder
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"os"

	_ "golang.org/x/image/bmp" // BMP decoder

	apperrors "github.com/GriffinCanCode/gamesight/internal/errors"
	"github.com/GriffinCanCode/gamesight/internal/fingerprint"
	"github.com/GriffinCanCode/gamesight/internal/resilience"
	"github.com/GriffinCanCode/gamesight/internal/vision"
)

// Source produces grayscale frames.
type Source interface {
	// Grab returns the current frame.
	Grab(ctx context.Context) (*vision.Frame, error)
	// Capture returns the current frame and whether it differs from the
	// previous one returned by Capture.
	Capture(ctx context.Context) (*vision.Frame, bool, error)
	Close()
}

// backend implements platform-specific raw capture
type backend interface {
	captureRaw(ctx context.Context) ([]byte, error)
	cleanup()
}

// baseCapturer decodes backend output and adds change detection.
// Not safe for concurrent use.
type baseCapturer struct {
	backend
	retry    resilience.RetryConfig
	lastHash int64
	hasLast  bool
	tempDir  string
}

func newBase(b backend, tempDir string) *baseCapturer {
	return &baseCapturer{backend: b, retry: resilience.CaptureRetryConfig(), tempDir: tempDir}
}

func (c *baseCapturer) Grab(ctx context.Context) (*vision.Frame, error) {
	return resilience.RetryWithResult(ctx, c.retry, func() (*vision.Frame, error) {
		data, err := c.captureRaw(ctx)
		if err != nil {
			return nil, err
		}
		return decode(data)
	})
}

func (c *baseCapturer) Capture(ctx context.Context) (*vision.Frame, bool, error) {
	f, err := c.Grab(ctx)
	if err != nil {
		return nil, false, err
	}
	hash := fingerprint.HashFrame(f)
	if c.hasLast && hash == c.lastHash {
		return f, false, nil
	}
	c.lastHash, c.hasLast = hash, true
	return f, true, nil
}

func (c *baseCapturer) Close() {
	c.cleanup()
	if c.tempDir != "" {
		os.RemoveAll(c.tempDir)
	}
}

func decode(data []byte) (*vision.Frame, error) {
	if len(data) == 0 {
		return nil, apperrors.New(apperrors.CodeCaptureFailed, "empty capture")
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDecodeFailed, "decode capture")
	}
	f := vision.FromImage(img)
	if f.Empty() {
		return nil, apperrors.New(apperrors.CodeInvalidImage, "capture has no pixels")
	}
	return f, nil
}
