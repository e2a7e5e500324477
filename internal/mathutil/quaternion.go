package mathutil

import "math"

// Quat represents a quaternion (x, y, z, w).
//
// Orientations are expected to stay unit length. Nothing renormalizes
// implicitly: callers composing rotations call Normalize themselves.
type Quat [4]float64

// QuatIdentity is the no-rotation quaternion (0, 0, 0, 1).
func QuatIdentity() Quat {
	return Quat{0, 0, 0, 1}
}

// QuatFromAxisAngle returns (axis·sin(angle/2), cos(angle/2)) for the
// normalized axis. A zero axis yields the identity.
func QuatFromAxisAngle(axis Vec3, angle float64) Quat {
	n := axis.Normalize()
	if n == (Vec3{}) {
		return QuatIdentity()
	}
	s, c := math.Sincos(angle / 2)
	return Quat{n[0] * s, n[1] * s, n[2] * s, c}
}

// EulerToQuat converts Euler XYZ (radians) to a quaternion.
// Rotation order is X, then Y, then Z.
func EulerToQuat(rx, ry, rz float64) Quat {
	cx, sx := math.Cos(rx*0.5), math.Sin(rx*0.5)
	cy, sy := math.Cos(ry*0.5), math.Sin(ry*0.5)
	cz, sz := math.Cos(rz*0.5), math.Sin(rz*0.5)

	return Quat{
		sx*cy*cz - cx*sy*sz, // x
		cx*sy*cz + sx*cy*sz, // y
		cx*cy*sz - sx*sy*cz, // z
		cx*cy*cz + sx*sy*sz, // w
	}
}

func (q Quat) Len() float64 {
	return math.Sqrt(q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3])
}

// Normalize divides by the Euclidean norm. A norm below machine epsilon
// resets to the identity instead of producing NaN.
func (q Quat) Normalize() Quat {
	l := q.Len()
	if l < Epsilon {
		return QuatIdentity()
	}
	return Quat{q[0] / l, q[1] / l, q[2] / l, q[3] / l}
}

func (q Quat) Conjugate() Quat {
	return Quat{-q[0], -q[1], -q[2], q[3]}
}

// QuatMul returns the Hamilton product a ⊗ b.
//
// Composition order: QuatMul(delta, orientation) applies delta on top of an
// accumulated orientation. Camera and entity rotation both use this order.
func QuatMul(a, b Quat) Quat {
	return Quat{
		a[3]*b[0] + a[0]*b[3] + a[1]*b[2] - a[2]*b[1],
		a[3]*b[1] - a[0]*b[2] + a[1]*b[3] + a[2]*b[0],
		a[3]*b[2] + a[0]*b[1] - a[1]*b[0] + a[2]*b[3],
		a[3]*b[3] - a[0]*b[0] - a[1]*b[1] - a[2]*b[2],
	}
}

// RotateVector rotates v by the unit quaternion q using the frame sandwich
// q⁻¹·v·q, expanded without building a matrix. With q from
// QuatFromAxisAngle({0,0,1}, π/2), +Y maps to +X.
func (q Quat) RotateVector(v Vec3) Vec3 {
	x, y, z, w := -q[0], -q[1], -q[2], q[3]

	ix := w*v[0] + y*v[2] - z*v[1]
	iy := w*v[1] + z*v[0] - x*v[2]
	iz := w*v[2] + x*v[1] - y*v[0]
	iw := -x*v[0] - y*v[1] - z*v[2]

	return Vec3{
		ix*w + iw*-x + iy*-z - iz*-y,
		iy*w + iw*-y + iz*-x - ix*-z,
		iz*w + iw*-z + ix*-y - iy*-x,
	}
}

// ToEuler converts to Euler XYZ radians (roll, pitch, yaw), the inverse of
// EulerToQuat. Pitch is clamped to ±π/2 at the poles.
func (q Quat) ToEuler() Vec3 {
	x, y, z, w := q[0], q[1], q[2], q[3]

	roll := math.Atan2(2*(w*x+y*z), 1-2*(x*x+y*y))

	sinp := 2 * (w*y - z*x)
	var pitch float64
	if math.Abs(sinp) >= 1 {
		pitch = math.Copysign(math.Pi/2, sinp)
	} else {
		pitch = math.Asin(sinp)
	}

	yaw := math.Atan2(2*(w*z+x*y), 1-2*(y*y+z*z))
	return Vec3{roll, pitch, yaw}
}

func (a Quat) Dot(b Quat) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] + a[3]*b[3]
}

// AngleBetween returns the rotation angle in radians taking a to b,
// in [0, π]. Both must be unit length.
func AngleBetween(a, b Quat) float64 {
	d := math.Abs(a.Dot(b))
	if d > 1 {
		d = 1
	}
	return 2 * math.Acos(d)
}

// Slerp interpolates between unit quaternions a and b along the shorter arc.
func Slerp(a, b Quat, t float64) Quat {
	d := a.Dot(b)
	if d < 0 {
		b = Quat{-b[0], -b[1], -b[2], -b[3]}
		d = -d
	}

	// Nearly parallel: lerp avoids dividing by sin(θ) ≈ 0.
	if d > 0.9995 {
		return Quat{
			a[0] + t*(b[0]-a[0]),
			a[1] + t*(b[1]-a[1]),
			a[2] + t*(b[2]-a[2]),
			a[3] + t*(b[3]-a[3]),
		}.Normalize()
	}

	theta := math.Acos(d)
	sinTheta := math.Sin(theta)
	wa := math.Sin((1-t)*theta) / sinTheta
	wb := math.Sin(t*theta) / sinTheta
	return Quat{
		wa*a[0] + wb*b[0],
		wa*a[1] + wb*b[1],
		wa*a[2] + wb*b[2],
		wa*a[3] + wb*b[3],
	}
}
