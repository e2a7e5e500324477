package raster

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

var hudFont tinyfont.Fonter = &proggy.TinySZ8pt7b

// hudLineHeight is the baseline-to-baseline distance for HUD text.
const hudLineHeight = 10

// DrawText writes s with its top-left corner near (x, y).
func (c *Canvas) DrawText(x, y int, s string, col color.RGBA) {
	tinyfont.WriteLine(canvasDisplay{c}, hudFont, int16(x), int16(y+hudLineHeight-2), s, col)
}

// canvasDisplay lets tinyfont draw into the framebuffer.
type canvasDisplay struct {
	c *Canvas
}

var _ drivers.Displayer = canvasDisplay{}

func (d canvasDisplay) Size() (x, y int16) {
	return int16(d.c.Width), int16(d.c.Height)
}

func (d canvasDisplay) SetPixel(x, y int16, col color.RGBA) {
	ix, iy := int(x), int(y)
	if ix < 0 || ix >= d.c.Width || iy < 0 || iy >= d.c.Height {
		return
	}
	i := d.c.img.PixOffset(ix, iy)
	d.c.img.Pix[i] = col.R
	d.c.img.Pix[i+1] = col.G
	d.c.img.Pix[i+2] = col.B
	d.c.img.Pix[i+3] = col.A
}

func (d canvasDisplay) Display() error {
	return nil
}
