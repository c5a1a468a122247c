package publish

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"

	"github.com/okian/scoreboard/pkg/metrics"
)

// File publishes frames to a single path on local disk. Readers see either
// the previous frame or the new one in full, never a partial write, and the
// new frame is synced to disk before it replaces the old one.
type File struct {
	path string
	perm os.FileMode
}

// NewFile returns a publisher writing to path.
func NewFile(path string) *File {
	return &File{path: path, perm: 0o644}
}

// Path is the published file location.
func (f *File) Path() string { return f.path }

// Publish writes data to a temporary sibling, fsyncs it and renames it over
// the published path.
func (f *File) Publish(_ context.Context, data []byte) error {
	if err := f.replace(data); err != nil {
		metrics.RecordPublishError("file")
		return err
	}
	metrics.RecordImagePublished(len(data))
	return nil
}

func (f *File) replace(data []byte) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	// The temp file must share the target's filesystem for rename to be atomic.
	if err := renameio.WriteFile(f.path, data, f.perm, renameio.WithTempDir(dir)); err != nil {
		return fmt.Errorf("%w: replace %s: %w", ErrIO, f.path, err)
	}
	return nil
}
