package publish

import "errors"

var (
	// ErrEncode is returned when the frame cannot be encoded as PNG.
	ErrEncode = errors.New("encode frame")
	// ErrIO wraps filesystem failures while replacing the published frame.
	ErrIO = errors.New("publish frame")
	// ErrMirror wraps failures uploading the frame to object storage.
	ErrMirror = errors.New("mirror frame")
)
