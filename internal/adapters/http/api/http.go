// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/scoreboard/pkg/logger"
)

// Dependencies required by HTTP handlers. Handlers only read refresh state;
// the refresh loop is its only writer.
type Dependencies interface {
	// LastError is the message of the last failed cycle, nil after a success.
	LastError() *string
	GetStats() map[string]any
}

// Paths locates the files the handlers serve or inspect.
type Paths struct {
	BaseDir      string
	TemplatePath string
	OutputPath   string
	FontPath     string
	FontBoldPath string
	LogoDir      string
}

// Server wires HTTP routes for the scoreboard.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	imageHandler  *ImageHandler
	debugHandler  *DebugHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, paths Paths) *Server {
	l := logger.Get().Named("http")
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(deps),
		imageHandler:  NewImageHandler(paths.OutputPath, l),
		debugHandler:  NewDebugHandler(deps, paths),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("GET /scoreboard.png", MetricsMiddleware(s.imageHandler.HandleImage, "image"))
	mux.HandleFunc("GET /debug", MetricsMiddleware(s.debugHandler.HandleDebug, "debug"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
