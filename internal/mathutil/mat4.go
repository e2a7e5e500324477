package mathutil

import "math"

// Mat4 is a 4×4 matrix stored row-major: element (r, c) is m[r*4+c].
//
// Vectors are rows and multiply on the left: v' = v·M. Translation lives in
// the last row (m[12], m[13], m[14]). Every builder in this module assumes
// that convention; mixing in column-vector matrices silently transposes
// rotations.
type Mat4 [16]float64

func Mat4Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// At returns element (r, c).
func (m Mat4) At(r, c int) float64 {
	return m[r*4+c]
}

// Mat4Mul returns a × b. Under the row-vector convention v·(a×b) applies a first.
func Mat4Mul(a, b Mat4) Mat4 {
	var m Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			m[r*4+c] = a[r*4+0]*b[0*4+c] + a[r*4+1]*b[1*4+c] +
				a[r*4+2]*b[2*4+c] + a[r*4+3]*b[3*4+c]
		}
	}
	return m
}

// MulVec4 returns v·M: out[c] = Σ_i v[i]·M[i][c].
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		v[0]*m[0] + v[1]*m[4] + v[2]*m[8] + v[3]*m[12],
		v[0]*m[1] + v[1]*m[5] + v[2]*m[9] + v[3]*m[13],
		v[0]*m[2] + v[1]*m[6] + v[2]*m[10] + v[3]*m[14],
		v[0]*m[3] + v[1]*m[7] + v[2]*m[11] + v[3]*m[15],
	}
}

// MulPoint transforms a 3D point (w=1) by the matrix.
func (m Mat4) MulPoint(v Vec3) Vec4 {
	return m.MulVec4(v.Point())
}

func (m Mat4) Transpose() Mat4 {
	return Mat4{
		m[0], m[4], m[8], m[12],
		m[1], m[5], m[9], m[13],
		m[2], m[6], m[10], m[14],
		m[3], m[7], m[11], m[15],
	}
}

// Translation returns the matrix that moves points by (x, y, z).
func Translation(x, y, z float64) Mat4 {
	m := Mat4Identity()
	m[12] = x
	m[13] = y
	m[14] = z
	return m
}

// QuickInverse inverts a rigid (rotation + translation) matrix in O(1):
// the 3×3 block is transposed and the translation row becomes the negated
// dot products of the old translation with the transposed columns.
//
// m must be rigid. Scale or shear produce a wrong result, not an error.
func (m Mat4) QuickInverse() Mat4 {
	var q Mat4
	q[0], q[1], q[2] = m[0], m[4], m[8]
	q[4], q[5], q[6] = m[1], m[5], m[9]
	q[8], q[9], q[10] = m[2], m[6], m[10]
	q[12] = -(m[12]*q[0] + m[13]*q[4] + m[14]*q[8])
	q[13] = -(m[12]*q[1] + m[13]*q[5] + m[14]*q[9])
	q[14] = -(m[12]*q[2] + m[13]*q[6] + m[14]*q[10])
	q[15] = 1
	return q
}

// Inverse computes a general inverse by Gauss-Jordan elimination with
// partial pivoting. ok is false for singular matrices.
func (m Mat4) Inverse() (Mat4, bool) {
	a := m
	inv := Mat4Identity()
	for col := 0; col < 4; col++ {
		pivot := col
		for r := col + 1; r < 4; r++ {
			if math.Abs(a[r*4+col]) > math.Abs(a[pivot*4+col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot*4+col]) < 1e-12 {
			return Mat4{}, false
		}
		if pivot != col {
			for c := 0; c < 4; c++ {
				a[col*4+c], a[pivot*4+c] = a[pivot*4+c], a[col*4+c]
				inv[col*4+c], inv[pivot*4+c] = inv[pivot*4+c], inv[col*4+c]
			}
		}
		p := a[col*4+col]
		for c := 0; c < 4; c++ {
			a[col*4+c] /= p
			inv[col*4+c] /= p
		}
		for r := 0; r < 4; r++ {
			if r == col {
				continue
			}
			f := a[r*4+col]
			if f == 0 {
				continue
			}
			for c := 0; c < 4; c++ {
				a[r*4+c] -= f * a[col*4+c]
				inv[r*4+c] -= f * inv[col*4+c]
			}
		}
	}
	return inv, true
}

// IsIdentity checks if the matrix is identity within tol.
func (m Mat4) IsIdentity(tol float64) bool {
	id := Mat4Identity()
	for i := 0; i < 16; i++ {
		if math.Abs(m[i]-id[i]) > tol {
			return false
		}
	}
	return true
}
