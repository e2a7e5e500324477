package mesh

import "drake-renderer/internal/mathutil"

// Builtin returns a fresh copy of a named primitive: "cube", "axes" or "grid".
func Builtin(name string) (*Mesh, bool) {
	var m *Mesh
	switch name {
	case "cube":
		m = Cube(1)
	case "axes":
		m = Axes(1)
	case "grid":
		m = Grid(10, 1)
	default:
		return nil, false
	}
	m.Name = name
	return m, true
}

// Cube is an axis-aligned cube of the given edge length centered on the origin.
func Cube(size float64) *Mesh {
	return Box(mathutil.V3(-size/2, -size/2, -size/2), mathutil.V3(size/2, size/2, size/2))
}

// Box is the 12-edge wireframe of the box spanning lo..hi.
func Box(lo, hi mathutil.Vec3) *Mesh {
	return &Mesh{
		Name: "box",
		Vertices: []mathutil.Vec3{
			{lo[0], lo[1], lo[2]},
			{hi[0], lo[1], lo[2]},
			{hi[0], hi[1], lo[2]},
			{lo[0], hi[1], lo[2]},
			{lo[0], lo[1], hi[2]},
			{hi[0], lo[1], hi[2]},
			{hi[0], hi[1], hi[2]},
			{lo[0], hi[1], hi[2]},
		},
		Edges: []Edge{
			// Back face
			{A: 0, B: 1}, {A: 1, B: 2}, {A: 2, B: 3}, {A: 3, B: 0},
			// Front face
			{A: 4, B: 5}, {A: 5, B: 6}, {A: 6, B: 7}, {A: 7, B: 4},
			// Connecting edges
			{A: 0, B: 4}, {A: 1, B: 5}, {A: 2, B: 6}, {A: 3, B: 7},
		},
	}
}

// Axes draws X, Y and Z from the origin in red, green and blue.
func Axes(length float64) *Mesh {
	return &Mesh{
		Name: "axes",
		Vertices: []mathutil.Vec3{
			{0, 0, 0},
			{length, 0, 0},
			{0, length, 0},
			{0, 0, length},
		},
		Edges: []Edge{
			{A: 0, B: 1, Color: "red"},
			{A: 0, B: 2, Color: "lime"},
			{A: 0, B: 3, Color: "blue"},
		},
	}
}

// Grid is a square grid on the XZ plane at y=0 with cells lines per side.
func Grid(cells int, step float64) *Mesh {
	m := &Mesh{Name: "grid"}
	if cells < 1 {
		return m
	}
	half := float64(cells) * step / 2
	for i := 0; i <= cells; i++ {
		o := -half + float64(i)*step
		n := len(m.Vertices)
		m.Vertices = append(m.Vertices,
			mathutil.V3(o, 0, -half), mathutil.V3(o, 0, half),
			mathutil.V3(-half, 0, o), mathutil.V3(half, 0, o),
		)
		m.Edges = append(m.Edges, Edge{A: n, B: n + 1}, Edge{A: n + 2, B: n + 3})
	}
	return m
}
