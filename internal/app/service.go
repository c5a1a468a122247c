// Package service runs the refresh loop that keeps the published scoreboard
// frame current and exposes its state to the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/scoreboard/internal/adapters/publish"
	"github.com/okian/scoreboard/internal/adapters/render"
	"github.com/okian/scoreboard/internal/adapters/sheets"
	"github.com/okian/scoreboard/internal/domain/layout"
	"github.com/okian/scoreboard/internal/domain/model"
	"github.com/okian/scoreboard/pkg/logger"
	"github.com/okian/scoreboard/pkg/metrics"
)

// Default refresh configuration.
const (
	defaultInterval       = 10 * time.Second
	defaultFallbackWidth  = 876
	defaultFallbackHeight = 492
)

// Loop states reported by Stats.
const (
	StateIdle       = "idle"
	StateGenerating = "generating"
)

// ErrNotConfigured is returned by Generate when a required collaborator is missing.
var ErrNotConfigured = errors.New("service not configured")

// Renderer composites teams onto a background.
type Renderer interface {
	Render(ctx context.Context, background image.Image, slots layout.Table, teams []model.Team) *image.RGBA
}

// Service owns the refresh loop. It is the only writer of the published
// frame and of the last error.
type Service struct {
	mu sync.Mutex

	// Collaborators
	provider  sheets.Provider
	renderer  Renderer
	slots     layout.Table
	publisher publish.Publisher
	mirrors   []publish.Publisher

	// Configuration
	interval       time.Duration
	templatePath   string
	fallbackWidth  int
	fallbackHeight int

	// Loop control
	cycleMu sync.Mutex
	started bool
	stopCh  chan struct{}
	done    chan struct{}

	// State
	lastError   atomic.Pointer[string]
	generating  atomic.Bool
	cycles      atomic.Int64
	failures    atomic.Int64
	lastSuccess atomic.Int64

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithProvider sets the ranking source.
func WithProvider(p sheets.Provider) Option {
	return func(s *Service) { s.provider = p }
}

// WithRenderer sets the compositor.
func WithRenderer(r Renderer) Option {
	return func(s *Service) { s.renderer = r }
}

// WithLayout sets the slot table.
func WithLayout(t layout.Table) Option {
	return func(s *Service) { s.slots = t }
}

// WithPublisher sets where frames are published.
func WithPublisher(p publish.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithMirror adds a best-effort secondary publisher. Mirror failures are
// logged but do not fail the cycle.
func WithMirror(p publish.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.mirrors = append(s.mirrors, p)
		}
	}
}

// WithInterval sets the time between cycle starts.
func WithInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithTemplate sets the background template and the canvas used when it is
// missing.
func WithTemplate(path string, fallbackWidth, fallbackHeight int) Option {
	return func(s *Service) {
		s.templatePath = path
		if fallbackWidth > 0 && fallbackHeight > 0 {
			s.fallbackWidth = fallbackWidth
			s.fallbackHeight = fallbackHeight
		}
	}
}

// New constructs a Service.
func New(opts ...Option) *Service {
	s := &Service{
		interval:       defaultInterval,
		fallbackWidth:  defaultFallbackWidth,
		fallbackHeight: defaultFallbackHeight,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("refresh")
	}
	return s
}

// Start runs the refresh loop in the background until Stop or ctx ends.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if err := s.validate(); err != nil {
		return err
	}

	s.stopCh = make(chan struct{})
	s.done = make(chan struct{})
	s.started = true

	go func() {
		defer close(s.done)
		loopCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			select {
			case <-s.stopCh:
				cancel()
			case <-loopCtx.Done():
			}
		}()
		s.Run(loopCtx)
	}()

	s.logger.Info(ctx, "refresh loop started", logger.Duration("interval", s.interval))
	return nil
}

// Stop halts the loop and waits for an in-flight cycle to return.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	close(s.stopCh)
	<-s.done
	s.started = false
	s.logger.Info(context.Background(), "refresh loop stopped")
}

// Run generates a frame immediately and then once per interval until ctx is
// cancelled. Cycles never overlap: a slow cycle delays the next one.
func (s *Service) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		// Failures are already logged and recorded by Generate.
		_ = s.Generate(ctx)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Generate performs one fetch, render and publish cycle. Any failure,
// including a panic, is logged, stored as the last error and returned; the
// previously published frame is left untouched.
func (s *Service) Generate(ctx context.Context) (err error) {
	s.cycleMu.Lock()
	defer s.cycleMu.Unlock()

	if err := s.validate(); err != nil {
		return err
	}

	l := s.logger.With(logger.String("cycle_id", uuid.NewString()))
	start := time.Now()
	s.generating.Store(true)
	metrics.SetGenerating(true)
	result := metrics.ResultError

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("refresh cycle panicked: %v", r)
			l.Error(ctx, "refresh cycle panicked", logger.Any("panic", r), logger.Stack())
		}
		if err == nil {
			result = metrics.ResultSuccess
			s.lastError.Store(nil)
			s.lastSuccess.Store(time.Now().Unix())
			metrics.UpdateLastSuccess(s.lastSuccess.Load())
		} else {
			msg := err.Error()
			s.lastError.Store(&msg)
			s.failures.Add(1)
		}
		s.cycles.Add(1)
		s.generating.Store(false)
		metrics.SetGenerating(false)
		metrics.RecordRefreshCycle(result, float64(time.Since(start).Milliseconds()))
	}()

	teams, err := s.provider.Fetch(ctx)
	if err != nil {
		result = metrics.ResultFetchError
		l.Error(ctx, "fetching rankings failed; keeping previous frame", logger.Error(err))
		return err
	}

	background, found, err := render.LoadBackground(s.templatePath, s.fallbackWidth, s.fallbackHeight)
	if err != nil {
		l.Error(ctx, "loading template failed", logger.Error(err))
		return err
	}
	if !found {
		l.Warn(ctx, "template not found; using blank canvas",
			logger.String("path", s.templatePath),
			logger.Int("width", s.fallbackWidth),
			logger.Int("height", s.fallbackHeight),
		)
	}

	frame := s.renderer.Render(ctx, background, s.slots, teams)
	data, err := publish.Encode(frame)
	if err != nil {
		l.Error(ctx, "encoding frame failed", logger.Error(err))
		return err
	}
	if err := s.publisher.Publish(ctx, data); err != nil {
		l.Error(ctx, "publishing frame failed", logger.Error(err))
		return err
	}
	for _, m := range s.mirrors {
		if merr := m.Publish(ctx, data); merr != nil {
			l.Warn(ctx, "mirroring frame failed", logger.Error(merr))
		}
	}

	l.Info(ctx, "scoreboard updated",
		logger.Int("teams", len(teams)),
		logger.Int("bytes", len(data)),
		logger.Duration("took", time.Since(start)),
	)
	return nil
}

func (s *Service) validate() error {
	switch {
	case s.provider == nil:
		return fmt.Errorf("%w: no provider", ErrNotConfigured)
	case s.renderer == nil:
		return fmt.Errorf("%w: no renderer", ErrNotConfigured)
	case s.publisher == nil:
		return fmt.Errorf("%w: no publisher", ErrNotConfigured)
	}
	return nil
}

// LastError returns the message of the most recent failed cycle, or nil if
// the most recent cycle succeeded or none has run.
func (s *Service) LastError() *string {
	return s.lastError.Load()
}

// State reports whether a cycle is currently running.
func (s *Service) State() string {
	if s.generating.Load() {
		return StateGenerating
	}
	return StateIdle
}

// GetStats returns loop statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()

	stats := map[string]any{
		"started":       started,
		"state":         s.State(),
		"interval":      s.interval.String(),
		"cycles":        s.cycles.Load(),
		"failures":      s.failures.Load(),
		"last_success":  nil,
		"last_error":    nil,
		"layout_slots":  len(s.slots),
		"mirror_count":  len(s.mirrors),
		"template_path": s.templatePath,
	}
	if ts := s.lastSuccess.Load(); ts > 0 {
		stats["last_success"] = time.Unix(ts, 0).UTC().Format(time.RFC3339)
	}
	if msg := s.lastError.Load(); msg != nil {
		stats["last_error"] = *msg
	}
	return stats
}
