package batch

import (
	"image"
	"image/color"
	"iter"

	"drake-renderer/internal/camera"
	"drake-renderer/internal/mesh"
	"drake-renderer/internal/postprocess"
	"drake-renderer/internal/raster"
	"drake-renderer/internal/render"
	"drake-renderer/internal/viewmatrix"
)

// Frame describes the output image shared by every shot of a run.
type Frame struct {
	Width       int
	Height      int
	Supersample int
	LineWidth   float64
	Background  color.NRGBA
	Backdrop    image.Image
}

// Viewport is the supersampled size the pipeline draws into.
func (f Frame) Viewport() viewmatrix.Viewport {
	ss := max(f.Supersample, 1)
	return viewmatrix.Viewport{Width: f.Width * ss, Height: f.Height * ss}
}

// Renderer owns one canvas and one pipeline. Each goroutine needs its own.
type Renderer struct {
	frame  Frame
	canvas *raster.Canvas
	pipe   *render.Pipeline
}

func NewRenderer(f Frame) *Renderer {
	vp := f.Viewport()
	c := raster.NewCanvas(vp.Width, vp.Height)
	c.Background = f.Background
	if f.LineWidth > 0 {
		c.LineWidth = f.LineWidth * float64(max(f.Supersample, 1))
	}
	c.SetBackdrop(f.Backdrop)
	return &Renderer{frame: f, canvas: c, pipe: render.NewPipeline(c)}
}

// Canvas is the supersampled drawing surface.
func (r *Renderer) Canvas() *raster.Canvas { return r.canvas }

// Pipeline draws into Canvas.
func (r *Renderer) Pipeline() *render.Pipeline { return r.pipe }

// Render draws one frame and returns a downsampled copy.
func (r *Renderer) Render(cam *camera.Camera, segments iter.Seq[mesh.Segment], hud string) (*image.NRGBA, render.FrameStats, error) {
	r.canvas.Clear()
	stats, err := r.pipe.RenderFrame(cam, r.frame.Viewport(), segments)
	if err != nil {
		return nil, stats, err
	}
	return r.Finish(hud), stats, nil
}

// Finish copies out the canvas at output size. hud, when set, is printed
// in the top-left corner first.
func (r *Renderer) Finish(hud string) *image.NRGBA {
	if hud != "" {
		r.canvas.DrawText(4, 4, hud, color.RGBA{255, 255, 255, 255})
	}
	img := r.canvas.Snapshot()
	if r.frame.Supersample > 1 {
		img = postprocess.Downsample(img, r.frame.Width, r.frame.Height)
	}
	return img
}
