// Package render runs the per-frame wireframe pipeline: world segments are
// culled, clipped against the near plane, projected, scaled to pixels,
// clipped against the screen edges and handed to a Surface.
package render

import (
	"errors"
	"fmt"
	"iter"

	"drake-renderer/internal/camera"
	"drake-renderer/internal/clip"
	"drake-renderer/internal/frustum"
	"drake-renderer/internal/mathutil"
	"drake-renderer/internal/mesh"
	"drake-renderer/internal/viewmatrix"
)

var (
	ErrNoCamera   = errors.New("render: no camera")
	ErrNoViewport = errors.New("render: viewport not initialized")
	ErrNoSurface  = errors.New("render: no surface")
)

// Surface strokes 2D segments in pixel coordinates. glow is cosmetic.
type Surface interface {
	DrawSegment(p0, p1 mathutil.Vec2, color string, glow bool)
}

// Outcome says what happened to one segment.
type Outcome int

const (
	Drawn Outcome = iota
	Culled
	NearRejected
	Dropped
)

func (o Outcome) String() string {
	switch o {
	case Drawn:
		return "drawn"
	case Culled:
		return "culled"
	case NearRejected:
		return "near-rejected"
	case Dropped:
		return "dropped"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Projected is a segment in pixel space.
type Projected struct {
	P0, P1      mathutil.Vec2
	NearClipped bool
	EdgeClips   int
}

// FrameStats counts what one RenderFrame did with its segments.
type FrameStats struct {
	Submitted    int
	Culled       int
	NearRejected int
	NearClipped  int
	EdgeClipped  int
	Drawn        int
	Dropped      int
}

// Pipeline owns the matrix cache and the surface for a render loop. It is
// not safe for concurrent use; give each goroutine its own Pipeline.
type Pipeline struct {
	surface Surface
	cache   *viewmatrix.Cache
	last    viewmatrix.Matrices
}

func NewPipeline(s Surface) *Pipeline {
	return &Pipeline{surface: s, cache: viewmatrix.NewCache()}
}

// SetSurface swaps the drawing target, e.g. when a host hands out a new
// screen image each frame.
func (p *Pipeline) SetSurface(s Surface) {
	p.surface = s
}

// Invalidate forces the next frame to rebuild its matrices.
func (p *Pipeline) Invalidate() {
	p.cache.Invalidate()
}

// Matrices returns the snapshot used by the most recent frame.
func (p *Pipeline) Matrices() viewmatrix.Matrices {
	return p.last
}

// RenderFrame draws every segment with one matrix snapshot taken from cam
// and vp at the start of the frame. A missing camera, an empty viewport or
// a missing surface fail before any segment is read.
func (p *Pipeline) RenderFrame(cam *camera.Camera, vp viewmatrix.Viewport, segments iter.Seq[mesh.Segment]) (FrameStats, error) {
	var stats FrameStats
	if cam == nil {
		return stats, ErrNoCamera
	}
	if !vp.Valid() {
		return stats, fmt.Errorf("%w: %dx%d", ErrNoViewport, vp.Width, vp.Height)
	}
	if p.surface == nil {
		return stats, ErrNoSurface
	}

	m := p.cache.Get(cam, vp)
	p.last = m
	edges := clip.ScreenEdges(vp.Width, vp.Height)

	for seg := range segments {
		stats.Submitted++
		proj, out := projectSegment(seg, m, vp, edges)
		switch out {
		case Culled:
			stats.Culled++
			continue
		case NearRejected:
			stats.NearRejected++
			continue
		case Dropped:
			stats.Dropped++
			continue
		}
		if proj.NearClipped {
			stats.NearClipped++
		}
		if proj.EdgeClips > 0 {
			stats.EdgeClipped++
		}
		stats.Drawn++
		p.surface.DrawSegment(proj.P0, proj.P1, seg.Color, seg.Glow)
	}
	return stats, nil
}

// ProjectSegment runs one segment through the pipeline without drawing it.
func (p *Pipeline) ProjectSegment(seg mesh.Segment, m viewmatrix.Matrices, vp viewmatrix.Viewport) (Projected, Outcome) {
	return projectSegment(seg, m, vp, clip.ScreenEdges(vp.Width, vp.Height))
}

func projectSegment(seg mesh.Segment, m viewmatrix.Matrices, vp viewmatrix.Viewport, edges [4]clip.Plane) (Projected, Outcome) {
	var out Projected
	if !seg.Line[0].IsFinite() || !seg.Line[1].IsFinite() {
		return out, Dropped
	}

	// World -> view.
	view := mathutil.Line3{
		m.View.MulPoint(seg.Line[0]).XYZ(),
		m.View.MulPoint(seg.Line[1]).XYZ(),
	}

	if !frustum.IsSegmentVisible(seg.Line, m.View, m.Projection) {
		return out, Culled
	}

	near := clip.NearPlane(m.Near)
	if clip.Behind(view, near) {
		return out, NearRejected
	}
	view, out.NearClipped = clip.ClipSegment(view, near)

	// View -> NDC -> pixels.
	var screen mathutil.Line3
	for i, v := range view {
		ndc, _ := m.Projection.MulPoint(v).PerspectiveDivide()
		screen[i] = mathutil.V3(
			(ndc[0]+1)*0.5*float64(vp.Width),
			(ndc[1]+1)*0.5*float64(vp.Height),
			0,
		)
	}

	screen, out.EdgeClips = clip.ClipToScreen(screen, edges)
	if !screen[0].IsFinite() || !screen[1].IsFinite() {
		return out, Dropped
	}

	out.P0 = mathutil.Vec2{screen[0][0], screen[0][1]}
	out.P1 = mathutil.Vec2{screen[1][0], screen[1][1]}
	return out, Drawn
}
