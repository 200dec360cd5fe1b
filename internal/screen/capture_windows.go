//go:build windows

package screen

import (
	"context"
	"fmt"
)

const psCapture = `Add-Type -AssemblyName System.Windows.Forms,System.Drawing;` +
	`$b=[System.Windows.Forms.Screen]::PrimaryScreen.Bounds;` +
	`$bmp=New-Object System.Drawing.Bitmap $b.Width,$b.Height;` +
	`$g=[System.Drawing.Graphics]::FromImage($bmp);` +
	`$g.CopyFromScreen($b.Location,[System.Drawing.Point]::Empty,$b.Size);` +
	`$bmp.Save('%s',[System.Drawing.Imaging.ImageFormat]::Png)`

type windowsBackend struct{ tempDir string }

func (w *windowsBackend) captureRaw(ctx context.Context) ([]byte, error) {
	file := shotPath(w.tempDir)
	return runTool(ctx, file, "powershell", "-NoProfile", "-NonInteractive", "-Command", fmt.Sprintf(psCapture, file))
}

func (w *windowsBackend) cleanup() {}

// New creates a platform-specific screen capturer
func New() Source {
	dir := newTempDir()
	return newBase(&windowsBackend{tempDir: dir}, dir)
}
