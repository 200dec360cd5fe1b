//go:build linux

package screen

import (
	"context"
	"log/slog"
	"os/exec"

	apperrors "github.com/GriffinCanCode/gamesight/internal/errors"
)

// linuxTools are tried in order; the first one on PATH is used for the
// lifetime of the source.
var linuxTools = []struct {
	name string
	args func(file string) []string
}{
	{"gnome-screenshot", func(f string) []string { return []string{"-f", f} }},
	{"scrot", func(f string) []string { return []string{"-o", f} }},
	{"grim", func(f string) []string { return []string{f} }},
	{"import", func(f string) []string { return []string{"-window", "root", f} }},
}

type linuxBackend struct {
	tempDir string
	tool    string
	args    func(string) []string
}

func (l *linuxBackend) captureRaw(ctx context.Context) ([]byte, error) {
	if l.tool == "" {
		return nil, apperrors.New(apperrors.CodeUnavailable, "no screenshot tool found").
			WithMetadata("tried", "gnome-screenshot, scrot, grim, import")
	}
	file := shotPath(l.tempDir)
	return runTool(ctx, file, l.tool, l.args(file)...)
}

func (l *linuxBackend) cleanup() {}

// New returns a Source backed by the first screenshot tool found on PATH.
func New() Source {
	dir := newTempDir()
	b := &linuxBackend{tempDir: dir}
	for _, t := range linuxTools {
		if _, err := exec.LookPath(t.name); err == nil {
			b.tool, b.args = t.name, t.args
			break
		}
	}
	if b.tool == "" {
		slog.Warn("no screenshot tool on PATH, live capture will fail")
	} else {
		slog.Debug("screen capture tool selected", "tool", b.tool)
	}
	return newBase(b, dir)
}
