// Package mesh loads indexed line meshes and turns them into the colored
// world-space segments the render pipeline consumes.
package mesh

import (
	"errors"
	"fmt"
	"math"

	"drake-renderer/internal/mathutil"
)

// ErrIndexRange is returned for edges or line colors addressing a vertex or
// edge that does not exist.
var ErrIndexRange = errors.New("mesh: index out of range")

// Segment is one line handed to the pipeline for a frame. The pipeline never
// mutates it.
type Segment struct {
	Line  mathutil.Line3
	Color string
	Glow  bool
}

// Edge connects two vertices. An empty Color inherits the owner's color.
type Edge struct {
	A, B  int
	Color string
}

// Mesh is an indexed line mesh.
type Mesh struct {
	Name     string
	Vertices []mathutil.Vec3
	Edges    []Edge
}

// Clone returns a deep copy.
func (m *Mesh) Clone() *Mesh {
	out := &Mesh{
		Name:     m.Name,
		Vertices: make([]mathutil.Vec3, len(m.Vertices)),
		Edges:    make([]Edge, len(m.Edges)),
	}
	copy(out.Vertices, m.Vertices)
	copy(out.Edges, m.Edges)
	return out
}

// Validate checks that every edge references an existing vertex.
func (m *Mesh) Validate() error {
	for i, e := range m.Edges {
		if e.A < 0 || e.A >= len(m.Vertices) || e.B < 0 || e.B >= len(m.Vertices) {
			return fmt.Errorf("%w: edge %d (%d, %d) with %d vertices", ErrIndexRange, i, e.A, e.B, len(m.Vertices))
		}
	}
	return nil
}

// Bounds returns the axis-aligned box around all vertices. ok is false for
// an empty mesh.
func (m *Mesh) Bounds() (lo, hi mathutil.Vec3, ok bool) {
	if len(m.Vertices) == 0 {
		return lo, hi, false
	}
	lo = mathutil.V3(math.Inf(1), math.Inf(1), math.Inf(1))
	hi = mathutil.V3(math.Inf(-1), math.Inf(-1), math.Inf(-1))
	for _, v := range m.Vertices {
		lo = lo.Min(v)
		hi = hi.Max(v)
	}
	return lo, hi, true
}

// Dedup removes repeated edges, treating (a, b) and (b, a) as the same edge,
// and returns how many were dropped. The first occurrence keeps its color.
func (m *Mesh) Dedup() int {
	type key struct{ a, b int }
	seen := make(map[key]bool, len(m.Edges))
	kept := m.Edges[:0]
	for _, e := range m.Edges {
		k := key{e.A, e.B}
		if k.a > k.b {
			k.a, k.b = k.b, k.a
		}
		if seen[k] {
			continue
		}
		seen[k] = true
		kept = append(kept, e)
	}
	removed := len(m.Edges) - len(kept)
	m.Edges = kept
	return removed
}

// Segments resolves every edge to a segment. Edges without their own color
// take color.
func (m *Mesh) Segments(color string, glow bool) []Segment {
	out := make([]Segment, 0, len(m.Edges))
	for _, e := range m.Edges {
		c := e.Color
		if c == "" {
			c = color
		}
		out = append(out, Segment{
			Line:  mathutil.Line3{m.Vertices[e.A], m.Vertices[e.B]},
			Color: c,
			Glow:  glow,
		})
	}
	return out
}
