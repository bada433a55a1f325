package scene

import "campus3d/math"

// Plane represents a half-space: ax + by + cz + d = 0
// Normal (a, b, c) points into the "inside" of the frustum.
type Plane struct {
	Normal math.Vec3
	D      float32
}

// DistanceTo returns the signed distance from a point to the plane.
// Positive means on the "inside" (same side as Normal).
func (p Plane) DistanceTo(pt math.Vec3) float32 {
	return p.Normal.Dot(pt) + p.D
}

// Frustum holds the six clip planes of a view frustum.
type Frustum struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far
}

// FrustumFromViewProjection extracts the six frustum planes from a
// view-projection matrix (Gribb/Hartmann). Points are row vectors, so clip
// coordinate i is column i of vp.
func FrustumFromViewProjection(vp math.Mat4) Frustum {
	col := func(i int) math.Vec4 {
		return math.Vec4{X: vp[0][i], Y: vp[1][i], Z: vp[2][i], W: vp[3][i]}
	}
	c0, c1, c2, c3 := col(0), col(1), col(2), col(3)

	var f Frustum
	f.Planes[0] = planeFrom(c3.Add(c0))
	f.Planes[1] = planeFrom(c3.Sub(c0))
	f.Planes[2] = planeFrom(c3.Add(c1))
	f.Planes[3] = planeFrom(c3.Sub(c1))
	f.Planes[4] = planeFrom(c3.Add(c2))
	f.Planes[5] = planeFrom(c3.Sub(c2))
	return f
}

// planeFrom normalises (a, b, c, d) so DistanceTo returns world units.
func planeFrom(v math.Vec4) Plane {
	n := math.Vec3{X: v.X, Y: v.Y, Z: v.Z}
	l := n.Length()
	if l == 0 {
		return Plane{}
	}
	return Plane{Normal: n.Mul(1 / l), D: v.W / l}
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max math.Vec3
}

// IntersectsFrustum returns false if the box is completely outside f. For
// each plane only the corner furthest along the normal is tested.
func (box AABB) IntersectsFrustum(f *Frustum) bool {
	for _, p := range f.Planes {
		corner := box.Max
		if p.Normal.X < 0 {
			corner.X = box.Min.X
		}
		if p.Normal.Y < 0 {
			corner.Y = box.Min.Y
		}
		if p.Normal.Z < 0 {
			corner.Z = box.Min.Z
		}
		if p.DistanceTo(corner) < 0 {
			return false
		}
	}
	return true
}

// WorldBounds transforms the local bounds of mesh by world and returns the
// box around the eight transformed corners.
func WorldBounds(mesh *Mesh, world math.Mat4) AABB {
	mn, mx := mesh.Bounds()
	corners := [8]math.Vec3{
		{X: mn.X, Y: mn.Y, Z: mn.Z},
		{X: mx.X, Y: mn.Y, Z: mn.Z},
		{X: mn.X, Y: mx.Y, Z: mn.Z},
		{X: mx.X, Y: mx.Y, Z: mn.Z},
		{X: mn.X, Y: mn.Y, Z: mx.Z},
		{X: mx.X, Y: mn.Y, Z: mx.Z},
		{X: mn.X, Y: mx.Y, Z: mx.Z},
		{X: mx.X, Y: mx.Y, Z: mx.Z},
	}
	first := world.TransformPoint(corners[0])
	out := AABB{Min: first, Max: first}
	for _, c := range corners[1:] {
		wp := world.TransformPoint(c)
		out.Min = out.Min.Min(wp)
		out.Max = out.Max.Max(wp)
	}
	return out
}
