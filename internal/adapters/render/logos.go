package render

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// LogoStore resolves team logos from a directory of <tag>.png files.
type LogoStore struct {
	dir string
}

// NewLogoStore returns a store rooted at dir.
func NewLogoStore(dir string) *LogoStore {
	return &LogoStore{dir: dir}
}

// Dir is the directory scanned for logos.
func (s *LogoStore) Dir() string { return s.dir }

// Find returns the path of <tag>.png, matching the file name
// case-insensitively because sheet tags and file names are cased
// independently.
func (s *LogoStore) Find(tag string) (string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return "", fmt.Errorf("%w: logo dir: %w", ErrAsset, err)
	}
	want := tag + ".png"
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(e.Name(), want) {
			return filepath.Join(s.dir, e.Name()), nil
		}
	}
	return "", fmt.Errorf("%w: logo %q not found in %s", ErrAsset, want, s.dir)
}

// Load decodes the logo for tag and scales it to a size x size square with
// a Lanczos filter. The result keeps its alpha channel.
func (s *LogoStore) Load(tag string, size int) (image.Image, error) {
	path, err := s.Find(tag)
	if err != nil {
		return nil, err
	}
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrAsset, path, err)
	}
	return imaging.Resize(img, size, size, imaging.Lanczos), nil
}
