package config

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "SCOREBOARD_"

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if SCOREBOARD_CONFIG is set
//  3. env (prefix SCOREBOARD_)
//  4. PORT, which replaces only the port of Addr
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(envPrefix + "CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// SCOREBOARD_SHEET_ID -> sheet_id (flat keys, underscores preserved).
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		cfg.Addr = net.JoinHostPort("", port)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if abs, err := filepath.Abs(cfg.BaseDir); err == nil {
		cfg.BaseDir = abs
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.RefreshInterval <= 0:
		return fmt.Errorf("%w: refresh_interval must be positive", ErrInvalidConfig)
	case c.ViewerReloadMS <= 0:
		return fmt.Errorf("%w: viewer_reload_ms must be positive", ErrInvalidConfig)
	case c.DefaultFontSize <= 0 || c.DefaultLogoSize <= 0:
		return fmt.Errorf("%w: default sizes must be positive", ErrInvalidConfig)
	case c.FallbackWidth <= 0 || c.FallbackHeight <= 0:
		return fmt.Errorf("%w: fallback canvas must be positive", ErrInvalidConfig)
	case c.OutputPath == "":
		return fmt.Errorf("%w: output_path must not be empty", ErrInvalidConfig)
	}
	return nil
}
