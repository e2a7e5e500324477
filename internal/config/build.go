package config

import (
	"errors"
	"fmt"

	"drake-renderer/internal/camera"
	"drake-renderer/internal/mathutil"
	"drake-renderer/internal/raster"
	"drake-renderer/internal/scene"
	"drake-renderer/internal/viewmatrix"
)

// Validate reports every problem found in a resolved config, each wrapping
// ErrInvalid.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if c.Width <= 0 || c.Height <= 0 {
		bad("viewport %dx%d", c.Width, c.Height)
	}
	if c.Supersample < 1 || c.Supersample > 8 {
		bad("supersample %d not in 1..8", c.Supersample)
	}
	if _, err := raster.ParseColor(c.Background); err != nil {
		bad("background: %v", err)
	}

	cam := c.Camera
	if cam.FOV <= 0 || cam.FOV >= 180 {
		bad("camera fov %g not in (0, 180)", cam.FOV)
	}
	if cam.Near <= 0 {
		bad("camera near %g must be positive", cam.Near)
	}
	if cam.Far <= cam.Near {
		bad("camera far %g must exceed near %g", cam.Far, cam.Near)
	}
	checkVec(bad, "camera position", cam.Position, 3)
	checkVec(bad, "camera look_dir", cam.LookDir, 3)
	if len(cam.LookDir) == 3 && vec(cam.LookDir, 0) == (mathutil.Vec3{}) {
		bad("camera look_dir is zero")
	}

	for i, o := range c.Objects {
		name := fmt.Sprintf("object %d", i)
		if o.Mesh == "" {
			bad("%s: no mesh", name)
		}
		checkVec(bad, name+" position", o.Position, 3)
		checkVec(bad, name+" size", o.Size, 3)
		checkVec(bad, name+" rotation", o.Rotation, 3)
		checkVec(bad, name+" collider", o.Collider, 6)
		checkVec(bad, name+" velocity", o.Velocity, 3)
		checkVec(bad, name+" acceleration", o.Acceleration, 3)
		checkVec(bad, name+" spin", o.Spin, 3)
		if o.Mass < 0 {
			bad("%s: negative mass %g", name, o.Mass)
		}
		if o.Color != "" {
			if _, err := raster.ParseColor(o.Color); err != nil {
				bad("%s color: %v", name, err)
			}
		}
	}
	return errors.Join(errs...)
}

// checkVec accepts an unset vector or one with exactly n components.
func checkVec(bad func(string, ...any), name string, v []float64, n int) {
	if v != nil && len(v) != n {
		bad("%s has %d components, want %d", name, len(v), n)
	}
}

// vec reads three components starting at off; unset vectors are zero.
func vec(v []float64, off int) mathutil.Vec3 {
	if len(v) < off+3 {
		return mathutil.Vec3{}
	}
	return mathutil.V3(v[off], v[off+1], v[off+2])
}

// RenderViewport is the supersampled drawing size.
func (c *Config) RenderViewport() viewmatrix.Viewport {
	return viewmatrix.Viewport{Width: c.Width * c.Supersample, Height: c.Height * c.Supersample}
}

// NewCamera builds the configured camera.
func (c *Config) NewCamera() *camera.Camera {
	return camera.New(c.Camera.FOV, c.Camera.Near, c.Camera.Far, vec(c.Camera.Position, 0), vec(c.Camera.LookDir, 0))
}

// BuildScene creates the camera and entities. Meshes are not loaded yet;
// call Scene.LoadMeshes before the first frame.
func (c *Config) BuildScene() *scene.Scene {
	s := scene.New(c.NewCamera(), c.RenderViewport())
	for _, o := range c.Objects {
		e := scene.NewEntity(o.Mesh, scene.Options{
			Position: vec(o.Position, 0),
			Size:     vec(o.Size, 0),
			Rotation: vec(o.Rotation, 0),
			Color:    o.Color,
			Shining:  o.Shining || c.Glow,
		})
		if len(o.Collider) == 6 {
			e.Collider = &scene.Collider{Min: vec(o.Collider, 0), Max: vec(o.Collider, 3)}
			e.ShowCollider = o.ShowCollider
		}
		if o.Velocity != nil || o.Acceleration != nil || o.Mass > 0 {
			mass := o.Mass
			if mass == 0 {
				mass = 1
			}
			e.Physics = scene.NewPhysics(vec(o.Velocity, 0), vec(o.Acceleration, 0), mass)
		}
		if spin := vec(o.Spin, 0); spin != (mathutil.Vec3{}) {
			e.Behavior = func(e *scene.Entity, dt float64) {
				e.Rotate(spin[0]*dt, spin[1]*dt, spin[2]*dt)
			}
		}
		s.Add(e)
	}
	return s
}
