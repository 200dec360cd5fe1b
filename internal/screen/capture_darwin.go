//go:build darwin

package screen

import "context"

type darwinBackend struct{ tempDir string }

func (d *darwinBackend) captureRaw(ctx context.Context) ([]byte, error) {
	file := shotPath(d.tempDir)
	// -x: no sound, -m: main display only
	return runTool(ctx, file, "screencapture", "-x", "-t", "png", "-m", file)
}

func (d *darwinBackend) cleanup() {}

// New creates a platform-specific screen capturer
func New() Source {
	dir := newTempDir()
	return newBase(&darwinBackend{tempDir: dir}, dir)
}
