// Package clip cuts line segments against planes given by a point and a
// unit normal. The same routine serves the view-space near plane and the
// four screen edges.
package clip

import "drake-renderer/internal/mathutil"

// Plane is a point on the plane plus its unit normal.
type Plane struct {
	Point  mathutil.Vec3
	Normal mathutil.Vec3
}

// NewPlane normalizes normal before storing it.
func NewPlane(point, normal mathutil.Vec3) Plane {
	return Plane{Point: point, Normal: normal.Normalize()}
}

// Distance is the signed distance of p from the plane, positive on the
// side the normal points to.
func (pl Plane) Distance(p mathutil.Vec3) float64 {
	return pl.Normal.Dot(p) - pl.Normal.Dot(pl.Point)
}

// IntersectPlane returns the point where the infinite line through seg
// meets the plane. A segment parallel to the plane yields non-finite
// coordinates; ClipSegment never calls it for that case.
func IntersectPlane(seg mathutil.Line3, pl Plane) mathutil.Vec3 {
	d := -pl.Normal.Dot(pl.Point)
	ad := pl.Normal.Dot(seg[0])
	bd := pl.Normal.Dot(seg[1])
	t := (-d - ad) / (bd - ad)
	return seg[0].Add(seg[1].Sub(seg[0]).Scale(t))
}

// ClipSegment replaces the endpoint with negative distance by the
// intersection point when the segment crosses the plane. A segment wholly
// on one side, negative or non-negative, comes back unchanged; clipped is
// true only when an endpoint was replaced.
func ClipSegment(seg mathutil.Line3, pl Plane) (out mathutil.Line3, clipped bool) {
	d0 := pl.Distance(seg[0])
	d1 := pl.Distance(seg[1])

	if (d0 < 0) == (d1 < 0) {
		return seg, false
	}

	hit := IntersectPlane(seg, pl)
	if d0 < 0 {
		return mathutil.Line3{hit, seg[1]}, true
	}
	return mathutil.Line3{seg[0], hit}, true
}

// Behind reports whether both endpoints lie on the negative side.
func Behind(seg mathutil.Line3, pl Plane) bool {
	return pl.Distance(seg[0]) < 0 && pl.Distance(seg[1]) < 0
}

// NearPlane is the view-space near plane for a camera looking down -Z:
// it sits at z = -near with its normal pointing away from the camera.
func NearPlane(near float64) Plane {
	return Plane{
		Point:  mathutil.V3(0, 0, -near),
		Normal: mathutil.V3(0, 0, -1),
	}
}

// ScreenEdges returns the top, bottom, left and right planes of a
// width×height pixel area in screen space, normals pointing inward. The
// area spans [0, width]×[0, height], the full range of the NDC mapping.
func ScreenEdges(width, height int) [4]Plane {
	w := float64(width)
	h := float64(height)
	return [4]Plane{
		{Point: mathutil.V3(0, 0, 0), Normal: mathutil.V3(0, 1, 0)},
		{Point: mathutil.V3(0, h, 0), Normal: mathutil.V3(0, -1, 0)},
		{Point: mathutil.V3(0, 0, 0), Normal: mathutil.V3(1, 0, 0)},
		{Point: mathutil.V3(w, 0, 0), Normal: mathutil.V3(-1, 0, 0)},
	}
}

// ClipToScreen runs seg through every screen edge in order and reports how
// many edges cut it.
func ClipToScreen(seg mathutil.Line3, edges [4]Plane) (mathutil.Line3, int) {
	n := 0
	for _, e := range edges {
		var clipped bool
		seg, clipped = ClipSegment(seg, e)
		if clipped {
			n++
		}
	}
	return seg, n
}
