// Package publish makes rendered frames visible to readers.
package publish

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
)

// Publisher replaces the currently published frame with data.
type Publisher interface {
	Publish(ctx context.Context, data []byte) error
}

// Encode returns img as PNG bytes.
func Encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return buf.Bytes(), nil
}
