// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults live in New; Load layers file and environment on top of them.
// - Relative filesystem paths are resolved against BaseDir by Resolve.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"path/filepath"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the slog handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address. PORT overrides the port.
	Addr string `koanf:"addr"`

	// BaseDir anchors every relative asset path below.
	BaseDir string `koanf:"base_dir"`

	// TemplatePath is the background image composited onto.
	TemplatePath string `koanf:"template_path"`

	// OutputPath is the published PNG.
	OutputPath string `koanf:"output_path"`

	// LogoDir holds one <tag>.png per team.
	LogoDir string `koanf:"logo_dir"`

	// FontPath and FontBoldPath are the regular and bold TrueType faces.
	FontPath     string `koanf:"font_path"`
	FontBoldPath string `koanf:"font_bold_path"`

	// DefaultFontSize and DefaultLogoSize apply to slots that leave them unset.
	DefaultFontSize int `koanf:"default_font_size"`
	DefaultLogoSize int `koanf:"default_logo_size"`

	// FallbackWidth and FallbackHeight size the transparent canvas used
	// when the template is missing.
	FallbackWidth  int `koanf:"fallback_width"`
	FallbackHeight int `koanf:"fallback_height"`

	// RefreshInterval is the pause between refresh cycles.
	RefreshInterval time.Duration `koanf:"refresh_interval"`

	// ViewerReloadMS is how often the viewer page re-fetches the image.
	ViewerReloadMS int `koanf:"viewer_reload_ms"`

	// LayoutPath points at a YAML slot layout; empty uses the embedded one.
	LayoutPath string `koanf:"layout_path"`

	// Spreadsheet source.
	SheetID       string        `koanf:"sheet_id"`
	SheetRange    string        `koanf:"sheet_range"`
	APIKey        string        `koanf:"api_key"`
	SheetsBaseURL string        `koanf:"sheets_base_url"`
	SheetCacheTTL time.Duration `koanf:"sheet_cache_ttl"`

	// S3Bucket enables mirroring each published PNG to S3Key in the bucket.
	S3Bucket string `koanf:"s3_bucket"`
	S3Key    string `koanf:"s3_key"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		Addr:            ":5000",
		BaseDir:         ".",
		TemplatePath:    "template.png",
		OutputPath:      "output_stream.png",
		LogoDir:         "logos",
		FontPath:        "ChakraPetch-Medium2.ttf",
		FontBoldPath:    "ChakraPetch-Bold.ttf",
		DefaultFontSize: 18,
		DefaultLogoSize: 30,
		FallbackWidth:   876,
		FallbackHeight:  492,
		RefreshInterval: 10 * time.Second,
		ViewerReloadMS:  3000,
		SheetRange:      "RANKING!A5:K16",
		SheetsBaseURL:   "https://sheets.googleapis.com/",
		S3Key:           "scoreboard.png",
	}
}

// Resolve joins p onto BaseDir unless p is already absolute.
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.BaseDir, p)
}
