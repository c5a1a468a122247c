package render

import (
	"errors"
	"fmt"
	"image"
	"io/fs"

	"github.com/disintegration/imaging"
)

// LoadBackground decodes the template at path. A missing template yields a
// transparent width x height canvas and found=false instead of an error.
func LoadBackground(path string, width, height int) (img image.Image, found bool, err error) {
	img, err = imaging.Open(path)
	switch {
	case err == nil:
		return img, true, nil
	case errors.Is(err, fs.ErrNotExist):
		return image.NewRGBA(image.Rect(0, 0, width, height)), false, nil
	default:
		return nil, false, fmt.Errorf("%w: template %s: %w", ErrAsset, path, err)
	}
}
