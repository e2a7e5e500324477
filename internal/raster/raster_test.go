package raster

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/HugoSmits86/nativewebp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drake-renderer/internal/mathutil"
)

func TestParseColor(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want color.NRGBA
	}{
		{"#fff", color.NRGBA{255, 255, 255, 255}},
		{"#000", color.NRGBA{0, 0, 0, 255}},
		{"#12abEF", color.NRGBA{0x12, 0xab, 0xef, 255}},
		{"#ff000080", color.NRGBA{255, 0, 0, 128}},
		{"red", color.NRGBA{255, 0, 0, 255}},
		{" Lime ", color.NRGBA{0, 255, 0, 255}},
	} {
		got, err := ParseColor(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	for _, bad := range []string{"", "#12", "#gggggg", "notacolor", "#1234567"} {
		_, err := ParseColor(bad)
		assert.Error(t, err, bad)
	}
}

func lit(c *Canvas, x, y int) uint8 {
	return c.Image().NRGBAAt(x, y).R
}

func TestClear(t *testing.T) {
	c := NewCanvas(8, 4)
	c.Background = color.NRGBA{10, 20, 30, 255}
	c.Clear()
	assert.Equal(t, color.NRGBA{10, 20, 30, 255}, c.Image().NRGBAAt(7, 3))
}

func TestDrawSegment(t *testing.T) {
	c := NewCanvas(64, 48)
	c.LineWidth = 3
	c.Clear()

	c.DrawSegment(mathutil.Vec2{5, 10}, mathutil.Vec2{50, 10}, "#fff", false)
	assert.Greater(t, lit(c, 20, 10), uint8(200))
	assert.Equal(t, uint8(0), lit(c, 20, 30))
	assert.Equal(t, uint8(0), lit(c, 60, 10))
}

func TestDrawDiagonal(t *testing.T) {
	c := NewCanvas(40, 40)
	c.LineWidth = 2
	c.Clear()

	c.DrawSegment(mathutil.Vec2{0, 0}, mathutil.Vec2{39, 39}, "red", false)
	px := c.Image().NRGBAAt(20, 20)
	assert.Greater(t, px.R, uint8(100))
	assert.Equal(t, uint8(0), px.G)
	assert.Equal(t, uint8(0), lit(c, 5, 35))
}

func TestDrawDegeneratePoint(t *testing.T) {
	c := NewCanvas(64, 48)
	c.LineWidth = 3
	c.Clear()

	c.DrawSegment(mathutil.Vec2{30, 30}, mathutil.Vec2{30, 30}, "#fff", false)
	assert.Greater(t, lit(c, 30, 30), uint8(200))
}

func TestUnknownColorFallsBackToWhite(t *testing.T) {
	c := NewCanvas(64, 48)
	c.LineWidth = 3
	c.Clear()

	c.DrawSegment(mathutil.Vec2{5, 10}, mathutil.Vec2{50, 10}, "not-a-color", false)
	px := c.Image().NRGBAAt(20, 10)
	assert.Greater(t, px.R, uint8(200))
	assert.Greater(t, px.G, uint8(200))
	assert.Greater(t, px.B, uint8(200))
}

func TestGlowWidensStroke(t *testing.T) {
	plain := NewCanvas(64, 48)
	plain.LineWidth = 3
	plain.Clear()
	plain.DrawSegment(mathutil.Vec2{5, 20}, mathutil.Vec2{50, 20}, "#fff", false)

	glow := NewCanvas(64, 48)
	glow.LineWidth = 3
	glow.Clear()
	glow.DrawSegment(mathutil.Vec2{5, 20}, mathutil.Vec2{50, 20}, "#fff", true)

	assert.Equal(t, uint8(0), lit(plain, 20, 24))
	assert.Greater(t, lit(glow, 20, 24), uint8(0))
	assert.Less(t, lit(glow, 20, 24), uint8(200))
}

func TestOffscreenSegmentIsIgnored(t *testing.T) {
	c := NewCanvas(32, 32)
	c.Clear()
	before := c.Snapshot()

	c.DrawSegment(mathutil.Vec2{-5000, -100}, mathutil.Vec2{-4000, -90}, "#fff", true)
	c.DrawSegment(mathutil.Vec2{100, 100}, mathutil.Vec2{1e9, 1e9}, "#fff", false)
	assert.Equal(t, before.Pix, c.Image().Pix)
}

func TestDrawText(t *testing.T) {
	c := NewCanvas(80, 20)
	c.Clear()
	c.DrawText(2, 2, "60 FPS", color.RGBA{255, 255, 255, 255})

	n := 0
	for i := 0; i < len(c.Image().Pix); i += 4 {
		if c.Image().Pix[i] == 255 {
			n++
		}
	}
	assert.Greater(t, n, 10)
}

func writePNG(t *testing.T, path string, col color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = col.R, col.G, col.B, col.A
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestBackdropPNG(t *testing.T) {
	p := filepath.Join(t.TempDir(), "sky.png")
	writePNG(t, p, color.NRGBA{0, 0, 90, 255})

	img, err := LoadBackdrop(p)
	require.NoError(t, err)

	c := NewCanvas(16, 8)
	c.SetBackdrop(img)
	c.Clear()
	assert.Equal(t, color.NRGBA{0, 0, 90, 255}, c.Image().NRGBAAt(10, 5))

	c.SetBackdrop(nil)
	c.Clear()
	assert.Equal(t, color.NRGBA{0, 0, 0, 255}, c.Image().NRGBAAt(10, 5))
}

func TestBackdropWebP(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < len(src.Pix); i += 4 {
		copy(src.Pix[i:], []uint8{30, 60, 90, 255})
	}
	var buf bytes.Buffer
	require.NoError(t, nativewebp.Encode(&buf, src, nil))
	p := filepath.Join(t.TempDir(), "sky.webp")
	require.NoError(t, os.WriteFile(p, buf.Bytes(), 0o644))

	img, err := LoadBackdrop(p)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{30, 60, 90, 255}, img.NRGBAAt(2, 2))
}

// uncompressed 24-bit true-color TGA, every pixel the same
func writeTGA(t *testing.T, path string, w, h int, r, g, b uint8) {
	t.Helper()
	var buf bytes.Buffer
	hdr := make([]byte, 18)
	hdr[2] = 2
	binary.LittleEndian.PutUint16(hdr[12:], uint16(w))
	binary.LittleEndian.PutUint16(hdr[14:], uint16(h))
	hdr[16] = 24
	hdr[17] = 0x20
	buf.Write(hdr)
	for i := 0; i < w*h; i++ {
		buf.Write([]byte{b, g, r})
	}
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestBackdropTGA(t *testing.T) {
	p := filepath.Join(t.TempDir(), "floor.tga")
	writeTGA(t, p, 3, 2, 200, 100, 50)

	img, err := LoadBackdrop(p)
	require.NoError(t, err)
	assert.Equal(t, 3, img.Bounds().Dx())
	px := img.NRGBAAt(1, 1)
	assert.Equal(t, [3]uint8{200, 100, 50}, [3]uint8{px.R, px.G, px.B})
}

func TestBackdropErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadBackdrop(filepath.Join(dir, "missing.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	p := filepath.Join(dir, "x.bmp")
	require.NoError(t, os.WriteFile(p, []byte("BM"), 0o644))
	_, err = LoadBackdrop(p)
	assert.Error(t, err)

	p = filepath.Join(dir, "broken.png")
	require.NoError(t, os.WriteFile(p, []byte("nope"), 0o644))
	_, err = LoadBackdrop(p)
	assert.Error(t, err)
}
