package render

import "errors"

// ErrAsset marks a missing or corrupt logo, font, or template. Logo and font
// problems degrade the render; only an unreadable template fails a cycle.
var ErrAsset = errors.New("asset unavailable")
