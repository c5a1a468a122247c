package render

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/okian/scoreboard/internal/domain/layout"
)

// anchor positions a string relative to a reference point.
type anchor int

const (
	// anchorTopLeft puts the point at the left end of the ascender line.
	anchorTopLeft anchor = iota
	// anchorLeftMiddle puts the point at the left end, vertically centred.
	anchorLeftMiddle
	// anchorCenter centres the string on the point in both axes.
	anchorCenter
)

// drawText renders s with face so that (x, y) sits at the given anchor.
func drawText(dst draw.Image, face font.Face, s string, x, y fixed.Int26_6, a anchor, col color.Color) {
	if s == "" {
		return
	}
	m := face.Metrics()
	dot := fixed.Point26_6{X: x, Y: y + m.Ascent}

	switch a {
	case anchorLeftMiddle:
		dot.Y = y + (m.Ascent-m.Descent)/2
	case anchorCenter:
		dot.X = x - font.MeasureString(face, s)/2
		dot.Y = y + (m.Ascent-m.Descent)/2
	}

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  dot,
	}
	d.DrawString(s)
}

// drawInBox centres s vertically in b and, depending on align, either
// horizontally centres it or starts it at the box's left edge.
func drawInBox(dst draw.Image, face font.Face, s string, b layout.Box, align layout.Align, col color.Color) {
	cy := fixed.I(b.Y1+b.Y2) / 2
	if align == layout.AlignLeft {
		drawText(dst, face, s, fixed.I(b.X1), cy, anchorLeftMiddle, col)
		return
	}
	drawText(dst, face, s, fixed.I(b.X1+b.X2)/2, cy, anchorCenter, col)
}

// drawAt draws s in box when one is configured, else at the literal point.
func drawAt(dst draw.Image, face font.Face, s string, at layout.Point, box *layout.Box, align layout.Align, col color.Color) {
	if box != nil {
		drawInBox(dst, face, s, *box, align, col)
		return
	}
	drawText(dst, face, s, fixed.I(at.X), fixed.I(at.Y), anchorTopLeft, col)
}
