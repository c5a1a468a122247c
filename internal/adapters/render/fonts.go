package render

import (
	"context"
	"fmt"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"

	"github.com/okian/scoreboard/pkg/logger"
	"github.com/okian/scoreboard/pkg/metrics"
)

// Weight selects the regular or bold font file.
type Weight int

// Font weights.
const (
	Regular Weight = iota
	Bold
)

func (w Weight) String() string {
	if w == Bold {
		return "bold"
	}
	return "regular"
}

type faceKey struct {
	weight Weight
	size   int
}

// FontSet memoizes one face per weight and pixel size.
//
// A weight whose file cannot be parsed borrows the other weight at the same
// size; with neither available the fixed basic face is used. Each distinct
// size that falls back is warned about once.
type FontSet struct {
	mu     sync.Mutex
	fonts  [2]*opentype.Font
	faces  map[faceKey]font.Face
	warned map[int]bool
	logger logger.Logger
}

// LoadFonts parses the regular and bold TrueType files. Missing or corrupt
// files are logged and served by fallbacks; LoadFonts never fails.
func LoadFonts(ctx context.Context, regularPath, boldPath string, l logger.Logger) *FontSet {
	if l == nil {
		l = logger.Get().Named("fonts")
	}
	fs := &FontSet{
		faces:  make(map[faceKey]font.Face),
		warned: make(map[int]bool),
		logger: l,
	}
	for w, path := range map[Weight]string{Regular: regularPath, Bold: boldPath} {
		f, err := parseFont(path)
		if err != nil {
			l.Warn(ctx, "could not load font; falling back",
				logger.String("weight", w.String()),
				logger.String("path", path),
				logger.Error(err),
			)
			continue
		}
		fs.fonts[w] = f
	}
	return fs
}

func parseFont(path string) (*opentype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAsset, err)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", ErrAsset, path, err)
	}
	return f, nil
}

// Face returns the face for weight at size pixels.
func (fs *FontSet) Face(ctx context.Context, w Weight, size int) font.Face {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	key := faceKey{weight: w, size: size}
	if face, ok := fs.faces[key]; ok {
		return face
	}

	face, err := fs.newFace(w, size)
	if err != nil {
		if !fs.warned[size] {
			fs.warned[size] = true
			fs.logger.Warn(ctx, "font size unavailable; using fallback face",
				logger.String("weight", w.String()),
				logger.Int("size", size),
				logger.Error(err),
			)
		}
		metrics.RecordFontFallback()
		face = fs.fallback(w, size)
	}
	fs.faces[key] = face
	return face
}

func (fs *FontSet) newFace(w Weight, size int) (font.Face, error) {
	f := fs.fonts[w]
	if f == nil {
		return nil, fmt.Errorf("%w: no %s font loaded", ErrAsset, w)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s face at %d: %w", ErrAsset, w, size, err)
	}
	return face, nil
}

func (fs *FontSet) fallback(w Weight, size int) font.Face {
	other := Regular
	if w == Regular {
		other = Bold
	}
	if face, err := fs.newFace(other, size); err == nil {
		return face
	}
	return basicfont.Face7x13
}
