package layout

import "errors"

// Sentinel kinds for layout errors.
var (
	ErrLoadLayout    = errors.New("load layout failed")
	ErrInvalidLayout = errors.New("invalid layout")
)
