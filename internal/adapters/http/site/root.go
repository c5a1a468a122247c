// Package site serves the browser-source viewer page.
package site

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

// ErrRender is returned when the viewer page cannot be executed.
var ErrRender = errors.New("viewer page render failed")

// Default viewer settings.
const (
	defaultReloadMillis = 3000
	defaultImagePath    = "/scoreboard.png"
	defaultTitle        = "Live Scoreboard"
)

type page struct {
	Title        string
	ImagePath    string
	ReloadMillis int
}

// Option applies a configuration option to the viewer page.
type Option func(*page)

// WithReloadMillis sets how often the page polls for a new frame.
func WithReloadMillis(ms int) Option {
	return func(p *page) {
		if ms > 0 {
			p.ReloadMillis = ms
		}
	}
}

// WithImagePath sets the URL path of the frame.
func WithImagePath(path string) Option {
	return func(p *page) {
		if path != "" {
			p.ImagePath = path
		}
	}
}

// WithTitle sets the page title.
func WithTitle(title string) Option {
	return func(p *page) {
		if title != "" {
			p.Title = title
		}
	}
}

// RootHandler serves the pre-rendered viewer page.
type RootHandler struct {
	body []byte
}

// NewRootHandler renders the viewer page once.
func NewRootHandler(opts ...Option) (*RootHandler, error) {
	p := page{
		Title:        defaultTitle,
		ImagePath:    defaultImagePath,
		ReloadMillis: defaultReloadMillis,
	}
	for _, opt := range opts {
		opt(&p)
	}
	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}
	return &RootHandler{body: buf.Bytes()}, nil
}

// HandleRoot handles GET / requests. The page keeps the current frame on
// screen until the next one has fully loaded.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(h.body)))
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write(h.body)
	}
}

// Register attaches the viewer page at the exact root path.
func Register(_ context.Context, mux *http.ServeMux, opts ...Option) error {
	if mux == nil {
		panic("mux is nil")
	}
	h, err := NewRootHandler(opts...)
	if err != nil {
		return err
	}
	mux.HandleFunc("GET /{$}", h.HandleRoot)
	return nil
}
