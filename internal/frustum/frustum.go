// Package frustum decides whether world-space points and segments can
// reach the screen under a given view and projection.
package frustum

import "drake-renderer/internal/mathutil"

// IsPointInFrustum transforms p through view and projection and reports
// whether the normalized device coordinates fall inside [-1, 1] on every axis.
//
// The view matrix looks down -Z, so view depth is mirrored before the
// projection: a point ahead of the camera gets a positive w and a depth in
// [0, 1] between the near and far planes. Points behind the camera end up
// with depth above 1 and fail. w == 0 is rejected rather than divided.
func IsPointInFrustum(p mathutil.Vec3, view, proj mathutil.Mat4) bool {
	v := view.MulPoint(p)
	v[2] = -v[2]

	clip := proj.MulVec4(v)
	if clip[3] == 0 {
		return false
	}
	ndc, ok := clip.PerspectiveDivide()
	if !ok {
		return false
	}
	for _, c := range ndc {
		if c < -1 || c > 1 {
			return false
		}
	}
	return true
}

// IsSegmentVisible is a broad-phase test: false only if both endpoints are
// outside the frustum. A segment crossing the frustum with both endpoints
// outside is reported invisible; callers accept that for the cost.
func IsSegmentVisible(seg mathutil.Line3, view, proj mathutil.Mat4) bool {
	return IsPointInFrustum(seg[0], view, proj) || IsPointInFrustum(seg[1], view, proj)
}
