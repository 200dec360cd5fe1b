package screen

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"

	apperrors "github.com/GriffinCanCode/gamesight/internal/errors"
	"github.com/GriffinCanCode/gamesight/internal/templates"
)

// replayBackend cycles through recorded screenshots in name order.
type replayBackend struct {
	files []string
	next  atomic.Uint64
}

// NewReplay returns a Source that plays back the image files under dir,
// looping forever.
func NewReplay(dir string) (Source, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && templates.IsImageFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInvalidArgument, "read replay directory").WithMetadata("dir", dir)
	}
	if len(files) == 0 {
		return nil, apperrors.New(apperrors.CodeInvalidArgument, "replay directory has no images").WithMetadata("dir", dir)
	}
	sort.Strings(files)
	slog.Info("replaying screenshots", "dir", dir, "frames", len(files))
	return newBase(&replayBackend{files: files}, ""), nil
}

func (r *replayBackend) captureRaw(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	i := r.next.Add(1) - 1
	path := r.files[i%uint64(len(r.files))]
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeCaptureFailed, "read replay frame").WithMetadata("path", path)
	}
	return data, nil
}

func (r *replayBackend) cleanup() {}
