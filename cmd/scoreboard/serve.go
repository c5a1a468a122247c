package main

import (
	"context"
	"errors"
	"net/http"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/scoreboard/internal/adapters/http/api"
	"github.com/okian/scoreboard/internal/adapters/http/site"
	"github.com/okian/scoreboard/internal/adapters/http/swagger"
	service "github.com/okian/scoreboard/internal/app"
	"github.com/okian/scoreboard/internal/config"
	"github.com/okian/scoreboard/pkg/logger"
	"github.com/okian/scoreboard/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

// newMux registers every route served by the scoreboard.
func newMux(ctx context.Context, cfg *config.Config, svc *service.Service) (*http.ServeMux, error) {
	mux := http.NewServeMux()
	if err := site.Register(ctx, mux, site.WithReloadMillis(cfg.ViewerReloadMS)); err != nil {
		return nil, err
	}
	swagger.Register(ctx, mux)
	api.NewServer(svc, pathsFor(cfg)).Register(ctx, mux)
	return mux, nil
}

// serve runs the refresh loop and the HTTP server until ctx is cancelled.
// The first cycle runs in the background, so a failing source never delays
// the listener.
func serve(ctx context.Context, cfg *config.Config) error {
	l := logger.Get()
	logStartup(ctx, cfg)

	svc, err := newService(ctx, cfg)
	if err != nil {
		return err
	}
	mux, err := newMux(ctx, cfg, svc)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	if err := svc.Start(gctx); err != nil {
		return err
	}
	defer svc.Stop()

	g.Go(func() error {
		startSystemMetricsUpdater(gctx)
		return nil
	})
	g.Go(func() error {
		l.Info(gctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		l.Info(context.Background(), "shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			l.Error(shutdownCtx, "server shutdown failed", logger.Error(err))
			return err
		}
		return nil
	})

	err = g.Wait()
	l.Info(context.Background(), "server stopped")
	return err
}

// renderOnce runs a single refresh cycle.
func renderOnce(ctx context.Context, cfg *config.Config) error {
	logStartup(ctx, cfg)
	svc, err := newService(ctx, cfg)
	if err != nil {
		return err
	}
	return svc.Generate(ctx)
}

// startSystemMetricsUpdater refreshes runtime gauges until ctx ends.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	updateSystemMetrics()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
