package scene

import (
	"errors"
	"fmt"

	"drake-renderer/internal/mathutil"
	"drake-renderer/internal/mesh"
)

// ErrNoCollider is returned when a collider-dependent operation is given an
// entity without one.
var ErrNoCollider = errors.New("scene: entity has no collider")

// Behavior runs once per Update for its entity.
type Behavior func(e *Entity, dt float64)

// Collider is a box given relative to the entity position.
type Collider struct {
	Min, Max mathutil.Vec3
}

// Options are the initial placement of an entity, applied when its mesh
// is attached.
type Options struct {
	Position mathutil.Vec3
	Size     mathutil.Vec3 // zero means (1, 1, 1)
	Rotation mathutil.Vec3 // Euler radians, X then Y then Z
	Color    string
	Shining  bool
}

// Entity is a line mesh placed in the world. Physics and Behavior are
// optional.
type Entity struct {
	ID       int
	MeshPath string // file path or built-in primitive name
	Color    string
	Shining  bool

	Collider     *Collider
	ShowCollider bool
	Killed       bool

	Physics  *Physics
	Behavior Behavior

	position mathutil.Vec3
	size     mathutil.Vec3
	rotation mathutil.Vec3

	// basis is the accumulated rotation and scale relative to position.
	basis  mathutil.Mat4
	local  []mathutil.Vec3
	world  []mathutil.Vec3
	edges  []mesh.Edge
	loaded bool
}

// NewEntity creates an entity whose mesh is loaded later from meshPath.
func NewEntity(meshPath string, opts Options) *Entity {
	size := opts.Size
	if size == (mathutil.Vec3{}) {
		size = mathutil.V3(1, 1, 1)
	}
	color := opts.Color
	if color == "" {
		color = "#fff"
	}
	e := &Entity{
		MeshPath: meshPath,
		Color:    color,
		Shining:  opts.Shining,
		position: opts.Position,
		size:     size,
		rotation: opts.Rotation,
	}
	e.basis = mathutil.Mat4Mul(scaleMatrix(size), eulerMatrix(opts.Rotation))
	return e
}

// SetMesh attaches m, placing its vertices with the current position,
// scale and rotation. m is owned by the entity afterwards.
func (e *Entity) SetMesh(m *mesh.Mesh) {
	e.local = m.Vertices
	e.edges = m.Edges
	e.world = make([]mathutil.Vec3, len(m.Vertices))
	e.loaded = true
	e.refresh()
}

func (e *Entity) Loaded() bool { return e.loaded }

func (e *Entity) Position() mathutil.Vec3 { return e.position }
func (e *Entity) Size() mathutil.Vec3     { return e.size }

// Rotation is the sum of Euler angles passed to Rotate and the initial
// rotation. Quaternion rotations are not reflected here.
func (e *Entity) Rotation() mathutil.Vec3 { return e.rotation }

// Vertices returns the world-space vertices. The slice must not be modified.
func (e *Entity) Vertices() []mathutil.Vec3 { return e.world }

// Move translates by (x, y, z).
func (e *Entity) Move(x, y, z float64) {
	e.SetPosition(e.position[0]+x, e.position[1]+y, e.position[2]+z)
}

// SetPosition places the entity at (x, y, z).
func (e *Entity) SetPosition(x, y, z float64) {
	e.position = mathutil.V3(x, y, z)
	e.refresh()
}

// Scale multiplies the current size per axis around the entity position.
// Size accumulates the product of every Scale call rather than holding the
// last factor, so SetScale stays exact after repeated scaling.
func (e *Entity) Scale(x, y, z float64) {
	f := mathutil.V3(x, y, z)
	e.size = e.size.Mul(f)
	e.apply(scaleMatrix(f))
}

// SetScale sets the absolute size. A current size of zero on any axis
// cannot be rescaled and returns ErrDivideByZero.
func (e *Entity) SetScale(x, y, z float64) error {
	var f mathutil.Vec3
	for i, want := range [3]float64{x, y, z} {
		if e.size[i] == 0 {
			return fmt.Errorf("scene: set scale axis %d: %w", i, mathutil.ErrDivideByZero)
		}
		f[i] = want / e.size[i]
	}
	e.size = mathutil.V3(x, y, z)
	e.apply(scaleMatrix(f))
	return nil
}

// Rotate turns the entity around its position by Euler angles in radians,
// X first, then Y, then Z.
func (e *Entity) Rotate(rx, ry, rz float64) {
	e.rotation = e.rotation.Add(mathutil.V3(rx, ry, rz))
	e.apply(eulerMatrix(mathutil.V3(rx, ry, rz)))
}

// ApplyQuaternion rotates the entity around its position by q.
func (e *Entity) ApplyQuaternion(q mathutil.Quat) {
	var r mathutil.Mat4
	for i := 0; i < 3; i++ {
		row := q.RotateVector(mathutil.V3(e.basis[i*4], e.basis[i*4+1], e.basis[i*4+2]))
		r[i*4], r[i*4+1], r[i*4+2] = row[0], row[1], row[2]
	}
	r[15] = 1
	e.basis = r
	e.refresh()
}

// SetLineColor overrides the color of edge i. An empty color restores
// inheritance from the entity color.
func (e *Entity) SetLineColor(i int, color string) error {
	if i < 0 || i >= len(e.edges) {
		return fmt.Errorf("%w: line %d of %d", mesh.ErrIndexRange, i, len(e.edges))
	}
	e.edges[i].Color = color
	return nil
}

func (e *Entity) Kill() { e.Killed = true }

// WorldBox returns the collider box moved to the entity position.
func (e *Entity) WorldBox() (lo, hi mathutil.Vec3, err error) {
	if e.Collider == nil {
		return lo, hi, ErrNoCollider
	}
	return e.Collider.Min.Add(e.position), e.Collider.Max.Add(e.position), nil
}

// Segments returns the entity lines in world space.
func (e *Entity) Segments() []mesh.Segment {
	out := make([]mesh.Segment, 0, len(e.edges))
	for _, ed := range e.edges {
		c := ed.Color
		if c == "" {
			c = e.Color
		}
		out = append(out, mesh.Segment{
			Line:  mathutil.Line3{e.world[ed.A], e.world[ed.B]},
			Color: c,
			Glow:  e.Shining,
		})
	}
	return out
}

// ColliderSegments returns the 12 edges of the world collider box, or nil
// without a collider.
func (e *Entity) ColliderSegments() []mesh.Segment {
	lo, hi, err := e.WorldBox()
	if err != nil {
		return nil
	}
	return mesh.Box(lo, hi).Segments(e.Color, false)
}

func (e *Entity) apply(m mathutil.Mat4) {
	e.basis = mathutil.Mat4Mul(e.basis, m)
	e.refresh()
}

func (e *Entity) refresh() {
	for i, v := range e.local {
		e.world[i] = e.basis.MulPoint(v).XYZ().Add(e.position)
	}
}

func scaleMatrix(s mathutil.Vec3) mathutil.Mat4 {
	m := mathutil.Mat4Identity()
	m[0], m[5], m[10] = s[0], s[1], s[2]
	return m
}

func eulerMatrix(r mathutil.Vec3) mathutil.Mat4 {
	return mathutil.Mat4Mul(mathutil.Mat4Mul(mathutil.RotX(r[0]), mathutil.RotY(r[1])), mathutil.RotZ(r[2]))
}
