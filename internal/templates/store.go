// Package templates loads the reference images used for anchors, digits and icons.
package templates

import (
	"image"
	_ "image/gif"  // GIF decoder
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/corona10/goimagehash"
	_ "golang.org/x/image/bmp" // BMP decoder

	apperrors "github.com/GriffinCanCode/gamesight/internal/errors"
	"github.com/GriffinCanCode/gamesight/internal/fingerprint"
	"github.com/GriffinCanCode/gamesight/internal/vision"
)

// Template is a named grayscale reference image.
type Template struct {
	Key   string
	Frame *vision.Frame
}

// Store maps template keys to templates. It is filled once during startup and
// read-only afterwards, so lookups take no lock.
type Store struct {
	byKey map[string]*Template
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{byKey: make(map[string]*Template)}
}

// Load walks root recursively and adds every decodable image under it.
// A file at <root>/digits/digit_0.png gets the key "digits/digit_0".
// Files that fail to decode are logged and skipped; a later file with the same
// key replaces an earlier one.
func (s *Store) Load(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeTemplateDirInvalid, "template root unavailable").
			WithMetadata("path", root)
	}
	if !info.IsDir() {
		return apperrors.New(apperrors.CodeTemplateDirInvalid, "template root is not a directory").
			WithMetadata("path", root)
	}

	loaded, skipped := 0, 0
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !IsImageFile(path) {
			return nil
		}

		key, err := keyFor(root, path)
		if err != nil {
			slog.Warn("template key derivation failed", "path", path, "error", err)
			skipped++
			return nil
		}

		frame, err := decodeFile(path)
		if err != nil {
			slog.Warn("template decode failed", "path", path, "error", err)
			skipped++
			return nil
		}

		s.Put(key, frame)
		loaded++
		return nil
	})
	if walkErr != nil {
		return apperrors.Wrap(walkErr, apperrors.CodeTemplateDirUnreadable, "template walk failed").
			WithMetadata("path", root)
	}

	slog.Info("templates loaded", "root", root, "count", loaded, "skipped", skipped)
	for _, p := range s.Similar(MaxSimilarDistance) {
		if p.Identical {
			slog.Warn("identical templates, fingerprints will collide", "first", p.First, "second", p.Second)
			continue
		}
		slog.Warn("near-duplicate templates, matches may be ambiguous",
			"first", p.First, "second", p.Second, "distance", p.Distance)
	}
	return nil
}

// Put inserts or replaces a template.
func (s *Store) Put(key string, frame *vision.Frame) {
	s.byKey[key] = &Template{Key: key, Frame: frame}
}

// Get returns the template stored under key.
func (s *Store) Get(key string) (*Template, bool) {
	t, ok := s.byKey[key]
	return t, ok
}

// Frame returns only the pixels of the template stored under key.
func (s *Store) Frame(key string) (*vision.Frame, bool) {
	t, ok := s.byKey[key]
	if !ok {
		return nil, false
	}
	return t.Frame, true
}

// Keys returns all keys in sorted order.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.byKey))
	for k := range s.byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of templates.
func (s *Store) Len() int { return len(s.byKey) }

// Similarity is a pair of same-sized templates that look alike.
type Similarity struct {
	First, Second string
	Distance      int  // Hamming distance of the difference hashes
	Identical     bool // same pixels, so the classifier cannot tell them apart
}

// Similar reports pairs of same-sized templates whose difference hashes are
// at most maxDistance apart. Such pairs score alike under correlation, so a
// search for one can lock onto the other. Pairs are ordered by key.
func (s *Store) Similar(maxDistance int) []Similarity {
	type hashed struct {
		key  string
		f    *vision.Frame
		hash *goimagehash.ImageHash
	}
	var all []hashed
	for _, key := range s.Keys() {
		f := s.byKey[key].Frame
		if f.Empty() {
			continue
		}
		h, err := goimagehash.DifferenceHash(f.Image())
		if err != nil {
			slog.Debug("difference hash failed", "key", key, "error", err)
			continue
		}
		all = append(all, hashed{key, f, h})
	}

	var pairs []Similarity
	for i := range all {
		for j := i + 1; j < len(all); j++ {
			a, b := all[i], all[j]
			if a.f.Width != b.f.Width || a.f.Height != b.f.Height {
				continue
			}
			d, err := a.hash.Distance(b.hash)
			if err != nil || d > maxDistance {
				continue
			}
			pairs = append(pairs, Similarity{
				First:     a.key,
				Second:    b.key,
				Distance:  d,
				Identical: fingerprint.HashFrame(a.f) == fingerprint.HashFrame(b.f),
			})
		}
	}
	return pairs
}

func keyFor(root, path string) (string, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", err
	}
	rel = strings.TrimSuffix(rel, filepath.Ext(rel))
	return filepath.ToSlash(rel), nil
}

func decodeFile(path string) (*vision.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDecodeFailed, "decode image").WithMetadata("path", path)
	}
	return vision.FromImage(img), nil
}
