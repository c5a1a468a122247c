// Package render composites ranked teams onto the scoreboard template.
package render

import (
	"context"
	"image"
	"image/color"
	"time"

	"golang.org/x/image/draw"

	"github.com/okian/scoreboard/internal/domain/layout"
	"github.com/okian/scoreboard/internal/domain/model"
	"github.com/okian/scoreboard/pkg/logger"
	"github.com/okian/scoreboard/pkg/metrics"
)

// Compositor draws team logos and text into layout slots.
type Compositor struct {
	fonts     *FontSet
	logos     *LogoStore
	textColor color.Color
	logger    logger.Logger
}

// Option applies a configuration option to the Compositor.
type Option func(*Compositor)

// WithTextColor overrides the text colour (black by default).
func WithTextColor(c color.Color) Option {
	return func(r *Compositor) {
		if c != nil {
			r.textColor = c
		}
	}
}

// WithLogger sets a custom logger for the compositor.
func WithLogger(l logger.Logger) Option {
	return func(r *Compositor) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a Compositor using fonts and logos.
func New(fonts *FontSet, logos *LogoStore, opts ...Option) *Compositor {
	c := &Compositor{
		fonts:     fonts,
		logos:     logos,
		textColor: color.Black,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logger.Get().Named("render")
	}
	return c
}

// Render returns a copy of background with teams[i] drawn into slots[i].
// Teams beyond the last slot are dropped; slots without a team are left as
// the background. Asset problems degrade the output but never fail it.
func (c *Compositor) Render(ctx context.Context, background image.Image, slots layout.Table, teams []model.Team) *image.RGBA {
	start := time.Now()
	defer func() {
		metrics.RecordRenderLatency(float64(time.Since(start).Milliseconds()))
	}()

	b := background.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), background, b.Min, draw.Src)

	n := len(teams)
	if n > len(slots) {
		c.logger.Debug(ctx, "more teams than slots; dropping the rest",
			logger.Int("teams", len(teams)),
			logger.Int("slots", len(slots)),
		)
		metrics.RecordTeamsDropped(n - len(slots))
		n = len(slots)
	}
	for i := 0; i < n; i++ {
		c.drawTeam(ctx, dst, slots[i], i+1, teams[i])
	}
	metrics.UpdateTeamsRendered(n)
	return dst
}

func (c *Compositor) drawTeam(ctx context.Context, dst *image.RGBA, slot layout.Slot, rank int, team model.Team) {
	if team.LogoTag != "" {
		c.drawLogo(ctx, dst, slot.Logo, rank, team.LogoTag)
	}

	nameFace := c.fonts.Face(ctx, Bold, slot.Name.Size)
	drawAt(dst, nameFace, team.Name, slot.Name.At, slot.Name.Box, slot.Name.Align, c.textColor)

	for _, stat := range model.Stats {
		w := Regular
		if slot.BoldStat(stat) {
			w = Bold
		}
		a := slot.Anchor(stat)
		drawAt(dst, c.fonts.Face(ctx, w, slot.NumSize), team.Value(stat), a.At, a.Box, layout.AlignCenter, c.textColor)
	}
}

func (c *Compositor) drawLogo(ctx context.Context, dst *image.RGBA, l layout.Logo, rank int, tag string) {
	logo, err := c.logos.Load(tag, l.Size)
	if err != nil {
		c.logger.Warn(ctx, "logo unavailable; leaving it blank",
			logger.Int("rank", rank),
			logger.String("tag", tag),
			logger.Error(err),
		)
		metrics.RecordLogoMiss("unavailable")
		return
	}

	at := image.Pt(l.At.X, l.At.Y)
	if l.Box != nil {
		at = image.Pt(
			l.Box.X1+floorHalf(l.Box.Width()-l.Size),
			l.Box.Y1+floorHalf(l.Box.Height()-l.Size),
		)
	}
	r := image.Rectangle{Min: at, Max: at.Add(image.Pt(l.Size, l.Size))}
	draw.Draw(dst, r, logo, logo.Bounds().Min, draw.Over)
}

// floorHalf is n/2 rounded toward negative infinity, so an oversized logo
// overhangs its box evenly.
func floorHalf(n int) int {
	if n < 0 {
		return -((-n + 1) / 2)
	}
	return n / 2
}
