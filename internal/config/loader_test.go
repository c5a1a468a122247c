package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/scoreboard/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":5000")
				convey.So(cfg.RefreshInterval, convey.ShouldEqual, 10*time.Second)
				convey.So(filepath.IsAbs(cfg.BaseDir), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When PORT is set", func() {
			_ = os.Setenv("PORT", "8081")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it listens on all interfaces at that port", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8081")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("SCOREBOARD_SHEET_ID", "sheet-123")
			_ = os.Setenv("SCOREBOARD_API_KEY", "key-abc")
			_ = os.Setenv("SCOREBOARD_REFRESH_INTERVAL", "30s")
			_ = os.Setenv("SCOREBOARD_VIEWER_RELOAD_MS", "1500")
			_ = os.Setenv("SCOREBOARD_SHEET_CACHE_TTL", "5s")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.SheetID, convey.ShouldEqual, "sheet-123")
				convey.So(cfg.APIKey, convey.ShouldEqual, "key-abc")
				convey.So(cfg.RefreshInterval, convey.ShouldEqual, 30*time.Second)
				convey.So(cfg.ViewerReloadMS, convey.ShouldEqual, 1500)
				convey.So(cfg.SheetCacheTTL, convey.ShouldEqual, 5*time.Second)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile(`
addr: ":9090"
sheet_range: "RANKING!A5:K20"
logo_dir: "team-logos"
refresh_interval: 20s
`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("SCOREBOARD_CONFIG", tmpFile)
			_ = os.Setenv("SCOREBOARD_LOGO_DIR", "env-logos")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.SheetRange, convey.ShouldEqual, "RANKING!A5:K20")
				convey.So(cfg.LogoDir, convey.ShouldEqual, "env-logos")
				convey.So(cfg.RefreshInterval, convey.ShouldEqual, 20*time.Second)
				convey.So(cfg.OutputPath, convey.ShouldEqual, "output_stream.png")
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("SCOREBOARD_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("SCOREBOARD_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.So(err, convey.ShouldNotBeNil)
			convey.So(cfg, convey.ShouldBeNil)
		})

		convey.Convey("When loading config with a non-positive refresh interval", func() {
			_ = os.Setenv("SCOREBOARD_REFRESH_INTERVAL", "0s")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "refresh_interval")
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			tmpFile := createTempConfigFile(`addr: ""`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("SCOREBOARD_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.So(cfg, convey.ShouldBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("SCOREBOARD_VIEWER_RELOAD_MS", "soon")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.So(err, convey.ShouldNotBeNil)
			convey.So(cfg, convey.ShouldBeNil)
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"PORT",
		"SCOREBOARD_CONFIG",
		"SCOREBOARD_ADDR",
		"SCOREBOARD_SHEET_ID",
		"SCOREBOARD_API_KEY",
		"SCOREBOARD_REFRESH_INTERVAL",
		"SCOREBOARD_VIEWER_RELOAD_MS",
		"SCOREBOARD_SHEET_CACHE_TTL",
		"SCOREBOARD_LOGO_DIR",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "scoreboard-config-*.yaml")
	if err != nil {
		panic(err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}
	if err := tmpFile.Close(); err != nil {
		panic(err)
	}
	return tmpFile.Name()
}
