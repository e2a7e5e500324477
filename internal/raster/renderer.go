package raster

import (
	"image"
	"image/color"
	"math"

	"drake-renderer/internal/mathutil"
)

// glowPasses are drawn wider and fainter under the core stroke.
var glowPasses = []struct {
	width float64
	alpha float64
}{
	{4, 0.15},
	{2.5, 0.35},
}

// DrawSegment strokes p0→p1 in the given color token. Unknown colors fall
// back to white so a bad token never drops a line.
func (c *Canvas) DrawSegment(p0, p1 mathutil.Vec2, token string, glow bool) {
	col := c.resolve(token)
	if glow {
		for _, g := range glowPasses {
			faded := col
			faded.A = uint8(float64(col.A)*g.alpha + 0.5)
			c.stroke(p0, p1, c.LineWidth*g.width, faded)
		}
	}
	c.stroke(p0, p1, c.LineWidth, col)
}

func (c *Canvas) resolve(token string) color.NRGBA {
	if col, ok := c.colors[token]; ok {
		return col
	}
	col, err := ParseColor(token)
	if err != nil {
		col = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	}
	c.colors[token] = col
	return col
}

// stroke fills the quad around the segment. A zero-length segment becomes
// a square dot so degenerate points stay visible.
func (c *Canvas) stroke(p0, p1 mathutil.Vec2, width float64, col color.NRGBA) {
	if width <= 0 || col.A == 0 {
		return
	}
	hw := width / 2

	// Skip strokes that cannot touch the canvas.
	minX := math.Min(p0[0], p1[0]) - hw
	maxX := math.Max(p0[0], p1[0]) + hw
	minY := math.Min(p0[1], p1[1]) - hw
	maxY := math.Max(p0[1], p1[1]) + hw
	if maxX < 0 || maxY < 0 || minX > float64(c.Width) || minY > float64(c.Height) {
		return
	}

	dx := p1[0] - p0[0]
	dy := p1[1] - p0[1]
	l := math.Hypot(dx, dy)

	var ux, uy float64 // along the segment, half width long
	if l < 1e-9 {
		ux, uy = hw, 0
	} else {
		ux, uy = dx/l*hw, dy/l*hw
	}
	nx, ny := -uy, ux

	// Square caps: extend both ends by half the width.
	ax, ay := p0[0]-ux, p0[1]-uy
	bx, by := p1[0]+ux, p1[1]+uy

	r := c.rast
	r.Reset(c.Width, c.Height)
	r.MoveTo(float32(ax+nx), float32(ay+ny))
	r.LineTo(float32(bx+nx), float32(by+ny))
	r.LineTo(float32(bx-nx), float32(by-ny))
	r.LineTo(float32(ax-nx), float32(ay-ny))
	r.ClosePath()
	r.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{})
}
