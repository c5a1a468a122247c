package main

import (
	"context"
	"os"

	"github.com/okian/scoreboard/internal/adapters/http/api"
	"github.com/okian/scoreboard/internal/adapters/publish"
	"github.com/okian/scoreboard/internal/adapters/render"
	"github.com/okian/scoreboard/internal/adapters/sheets"
	service "github.com/okian/scoreboard/internal/app"
	"github.com/okian/scoreboard/internal/config"
	"github.com/okian/scoreboard/internal/domain/layout"
	"github.com/okian/scoreboard/pkg/logger"
)

// pathsFor resolves every file location against the base directory.
func pathsFor(cfg *config.Config) api.Paths {
	return api.Paths{
		BaseDir:      cfg.BaseDir,
		TemplatePath: cfg.Resolve(cfg.TemplatePath),
		OutputPath:   cfg.Resolve(cfg.OutputPath),
		FontPath:     cfg.Resolve(cfg.FontPath),
		FontBoldPath: cfg.Resolve(cfg.FontBoldPath),
		LogoDir:      cfg.Resolve(cfg.LogoDir),
	}
}

// newService assembles the fetch, render and publish pipeline.
func newService(ctx context.Context, cfg *config.Config) (*service.Service, error) {
	l := logger.Get()
	paths := pathsFor(cfg)

	defaults := layout.Defaults{FontSize: cfg.DefaultFontSize, LogoSize: cfg.DefaultLogoSize}
	var (
		slots layout.Table
		err   error
	)
	if cfg.LayoutPath != "" {
		slots, err = layout.Load(cfg.Resolve(cfg.LayoutPath), defaults)
	} else {
		slots, err = layout.Default(defaults)
	}
	if err != nil {
		return nil, err
	}

	provider := sheets.New(cfg.SheetID,
		sheets.WithBaseURL(cfg.SheetsBaseURL),
		sheets.WithRange(cfg.SheetRange),
		sheets.WithAPIKey(cfg.APIKey),
		sheets.WithCacheTTL(cfg.SheetCacheTTL),
		sheets.WithLogger(l.Named("sheets")),
	)

	fonts := render.LoadFonts(ctx, paths.FontPath, paths.FontBoldPath, l.Named("fonts"))
	compositor := render.New(fonts, render.NewLogoStore(paths.LogoDir), render.WithLogger(l.Named("render")))

	opts := []service.Option{
		service.WithLogger(l.Named("refresh")),
		service.WithProvider(provider),
		service.WithRenderer(compositor),
		service.WithLayout(slots),
		service.WithPublisher(publish.NewFile(paths.OutputPath)),
		service.WithTemplate(paths.TemplatePath, cfg.FallbackWidth, cfg.FallbackHeight),
		service.WithInterval(cfg.RefreshInterval),
	}
	if cfg.S3Bucket != "" {
		mirror, err := publish.NewS3(ctx, cfg.S3Bucket, cfg.S3Key)
		if err != nil {
			return nil, err
		}
		opts = append(opts, service.WithMirror(mirror))
	}
	return service.New(opts...), nil
}

// logStartup reports where assets are expected and whether they exist.
func logStartup(ctx context.Context, cfg *config.Config) {
	paths := pathsFor(cfg)
	l := logger.Get()
	l.Info(ctx, "starting scoreboard",
		logger.String("base_dir", paths.BaseDir),
		logger.String("addr", cfg.Addr),
		logger.Duration("refresh_interval", cfg.RefreshInterval),
	)
	l.Info(ctx, "asset check",
		logger.String("template", paths.TemplatePath),
		logger.Bool("template_exists", fileExists(paths.TemplatePath)),
		logger.Bool("font_exists", fileExists(paths.FontPath)),
		logger.Bool("font_bold_exists", fileExists(paths.FontBoldPath)),
		logger.Bool("logo_dir_exists", fileExists(paths.LogoDir)),
	)
	if cfg.SheetID == "" {
		l.Warn(ctx, "sheet_id is not set; every refresh will fail until it is configured")
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
