// Package camera holds the viewer state read by the projection builder once per frame.
package camera

import "drake-renderer/internal/mathutil"

// Camera is owned by a scene and mutated in place by Move/Rotate.
type Camera struct {
	Position mathutil.Vec3
	LookDir  mathutil.Vec3
	FOV      float64 // degrees
	Near     float64 // closest distance that is drawn
	Far      float64 // furthest distance that is drawn

	// Orientation accumulates every Rotate call. LookDir is derived from it.
	Orientation mathutil.Quat

	forward mathutil.Vec3
}

// New creates a camera. lookDir is also kept as the forward vector that
// Rotate re-derives LookDir from.
func New(fov, near, far float64, position, lookDir mathutil.Vec3) *Camera {
	return &Camera{
		Position:    position,
		LookDir:     lookDir,
		FOV:         fov,
		Near:        near,
		Far:         far,
		Orientation: mathutil.QuatIdentity(),
		forward:     lookDir,
	}
}

// Default returns a 90° camera at (0, 0, -10) looking down +Z.
func Default() *Camera {
	return New(90, 0.1, 1000, mathutil.V3(0, 0, -10), mathutil.Forward)
}

// Move translates the camera in world space. The delta is not rotated.
func (c *Camera) Move(dx, dy, dz float64) {
	c.Position = c.Position.Add(mathutil.V3(dx, dy, dz))
}

// MoveRelative rotates the delta by the camera orientation before moving,
// so (0, 0, 1) always walks along the current look direction.
func (c *Camera) MoveRelative(dx, dy, dz float64) {
	d := c.Orientation.RotateVector(mathutil.V3(dx, dy, dz))
	c.Position = c.Position.Add(d)
}

// Rotate composes a rotation of angle radians about axis on top of the
// accumulated orientation (delta ⊗ orientation) and re-derives LookDir.
func (c *Camera) Rotate(axis mathutil.Vec3, angle float64) {
	delta := mathutil.QuatFromAxisAngle(axis, angle).Normalize()
	c.Orientation = mathutil.QuatMul(delta, c.Orientation).Normalize()
	c.LookDir = c.Orientation.RotateVector(c.forwardDir())
}

// ResetOrientation drops accumulated rotation and restores the forward look direction.
func (c *Camera) ResetOrientation() {
	c.Orientation = mathutil.QuatIdentity()
	c.LookDir = c.forwardDir()
}

// Target is the point one unit along the look direction.
func (c *Camera) Target() mathutil.Vec3 {
	return c.Position.Add(c.LookDir)
}

// SetFOV changes the field of view in degrees.
func (c *Camera) SetFOV(deg float64) {
	c.FOV = deg
}

func (c *Camera) forwardDir() mathutil.Vec3 {
	if c.forward == (mathutil.Vec3{}) {
		return mathutil.Forward
	}
	return c.forward
}
