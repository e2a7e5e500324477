package raster

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// Canvas is an NRGBA framebuffer that strokes anti-aliased segments. It
// satisfies render.Surface. Not safe for concurrent use.
type Canvas struct {
	Width  int
	Height int

	// LineWidth is the stroke width in pixels.
	LineWidth float64
	// Background fills the canvas on Clear when no backdrop is set.
	Background color.NRGBA

	img      *image.NRGBA
	rast     *vector.Rasterizer
	backdrop *image.NRGBA
	colors   map[string]color.NRGBA
}

// NewCanvas allocates a w×h canvas with a black background.
func NewCanvas(w, h int) *Canvas {
	return &Canvas{
		Width:      w,
		Height:     h,
		LineWidth:  1.5,
		Background: color.NRGBA{A: 255},
		img:        image.NewNRGBA(image.Rect(0, 0, w, h)),
		rast:       vector.NewRasterizer(w, h),
		colors:     make(map[string]color.NRGBA),
	}
}

// SetBackdrop scales img to the canvas once; Clear then copies it instead
// of filling with Background. nil removes the backdrop.
func (c *Canvas) SetBackdrop(img image.Image) {
	if img == nil {
		c.backdrop = nil
		return
	}
	dst := image.NewNRGBA(c.img.Bounds())
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	c.backdrop = dst
}

// Clear resets every pixel to the backdrop or background.
func (c *Canvas) Clear() {
	if c.backdrop != nil {
		copy(c.img.Pix, c.backdrop.Pix)
		return
	}
	bg := c.Background
	pix := c.img.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i] = bg.R
		pix[i+1] = bg.G
		pix[i+2] = bg.B
		pix[i+3] = bg.A
	}
}

// Image returns the live framebuffer. It changes with every draw.
func (c *Canvas) Image() *image.NRGBA {
	return c.img
}

// Snapshot returns a copy of the framebuffer.
func (c *Canvas) Snapshot() *image.NRGBA {
	out := image.NewNRGBA(c.img.Bounds())
	copy(out.Pix, c.img.Pix)
	return out
}
