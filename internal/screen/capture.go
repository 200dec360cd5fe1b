package screen

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	apperrors "github.com/GriffinCanCode/gamesight/internal/errors"
)

const tempPattern = "gamesight-screen-*"

// newTempDir returns a private directory for screenshots, or "" when none
// could be created. Close removes it, so the shared temp dir is never returned.
func newTempDir() string {
	dir, err := os.MkdirTemp("", tempPattern)
	if err != nil {
		slog.Error("failed to create temp dir for screenshots", "error", err)
		return ""
	}
	return dir
}

// runTool runs a screenshot command that writes to file and returns the file
// contents.
func runTool(ctx context.Context, file, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeCaptureFailed, "screenshot tool failed").
			WithMetadata("tool", name).
			WithMetadata("stderr", stderr.String())
	}
	defer os.Remove(file)

	data, err := os.ReadFile(file)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeCaptureFailed, "read screenshot")
	}
	return data, nil
}

func shotPath(dir string) string {
	if dir == "" {
		return filepath.Join(os.TempDir(), "gamesight-screenshot.png")
	}
	return filepath.Join(dir, "screenshot.png")
}
