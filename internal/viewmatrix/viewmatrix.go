package viewmatrix

import (
	"math"

	"drake-renderer/internal/camera"
	"drake-renderer/internal/mathutil"
)

// Viewport is the drawing surface size in pixels.
type Viewport struct {
	Width  int
	Height int
}

// Valid reports whether both dimensions are positive.
func (v Viewport) Valid() bool {
	return v.Width > 0 && v.Height > 0
}

// AspectRatio is height / width, the factor applied to projected X.
func (v Viewport) AspectRatio() float64 {
	if v.Width == 0 {
		return 0
	}
	return float64(v.Height) / float64(v.Width)
}

// LookAt builds the camera-to-world matrix for a camera at pos facing target.
// Rows are the camera axes followed by the position:
//
//	zAxis = normalize(pos - target)
//	xAxis = normalize(up × zAxis)
//	yAxis = normalize(zAxis × xAxis)
//
// The camera therefore looks down its own -Z axis.
func LookAt(pos, target, up mathutil.Vec3) mathutil.Mat4 {
	zAxis := pos.Sub(target).Normalize()
	xAxis := up.Cross(zAxis).Normalize()
	yAxis := zAxis.Cross(xAxis).Normalize()

	return mathutil.Mat4{
		xAxis[0], xAxis[1], xAxis[2], 0,
		yAxis[0], yAxis[1], yAxis[2], 0,
		zAxis[0], zAxis[1], zAxis[2], 0,
		pos[0], pos[1], pos[2], 1,
	}
}

// ViewMatrix returns the world-to-view matrix for c: the QuickInverse of its
// look-at matrix, which is rigid by construction.
func ViewMatrix(c *camera.Camera) mathutil.Mat4 {
	return LookAt(c.Position, c.Target(), mathutil.WorldUp).QuickInverse()
}

// Projection builds the perspective matrix for row vectors:
//
//	f = 1 / tan(fov/2)
//	M[0][0] = aspect·f   M[1][1] = f
//	M[2][2] = far/(far-near)   M[3][2] = -far·near/(far-near)   M[2][3] = 1
//
// Projected w equals the input z, so the perspective divide is by view depth.
func Projection(fovDeg, aspectRatio, near, far float64) mathutil.Mat4 {
	fovRad := 1 / math.Tan(mathutil.Deg2Rad(fovDeg*0.5))

	var m mathutil.Mat4
	m[0] = aspectRatio * fovRad
	m[5] = fovRad
	m[10] = far / (far - near)
	m[14] = (-far * near) / (far - near)
	m[11] = 1
	return m
}

// Matrices is the view/projection snapshot shared by every segment of one frame.
type Matrices struct {
	View       mathutil.Mat4
	Projection mathutil.Mat4
	Near       float64
}

// Build computes fresh matrices for the camera and viewport.
func Build(c *camera.Camera, vp Viewport) Matrices {
	return Matrices{
		View:       ViewMatrix(c),
		Projection: Projection(c.FOV, vp.AspectRatio(), c.Near, c.Far),
		Near:       c.Near,
	}
}

// Unproject maps a clip-space vector back to world space through the
// inverse projection and inverse view. ok is false if either is singular.
func Unproject(clip mathutil.Vec4, m Matrices) (mathutil.Vec3, bool) {
	invProj, ok := m.Projection.Inverse()
	if !ok {
		return mathutil.Vec3{}, false
	}
	view := invProj.MulVec4(clip)
	invView, ok := m.View.Inverse()
	if !ok {
		return mathutil.Vec3{}, false
	}
	world := invView.MulVec4(view)
	return world.PerspectiveDivide()
}
