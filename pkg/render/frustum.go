package render

import "showroom/pkg/math3d"

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// NewAABB creates an AABB from min and max corners.
func NewAABB(min, max math3d.Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// Center returns the center point of the box.
func (b AABB) Center() math3d.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the dimensions of the box.
func (b AABB) Size() math3d.Vec3 {
	return b.Max.Sub(b.Min)
}

// Transform returns an AABB enclosing all 8 transformed corners of b.
func (b AABB) Transform(m math3d.Mat4) AABB {
	corners := [8]math3d.Vec3{
		{X: b.Min.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Max.Z},
	}

	first := m.MulVec3(corners[0])
	newMin, newMax := first, first
	for _, corner := range corners[1:] {
		p := m.MulVec3(corner)
		newMin = newMin.Min(p)
		newMax = newMax.Max(p)
	}
	return AABB{Min: newMin, Max: newMax}
}

// Plane is a plane in the form Ax + By + Cz + D = 0, where (A, B, C) is the
// normal.
type Plane struct {
	Normal math3d.Vec3
	D      float64
}

// Normalize scales the plane equation so the normal has unit length.
func (p *Plane) Normalize() {
	l := p.Normal.Len()
	if l == 0 {
		return
	}
	p.Normal = p.Normal.Scale(1.0 / l)
	p.D /= l
}

// DistanceToPoint returns the signed distance from the plane to a point.
// Positive means the point is on the normal side.
func (p Plane) DistanceToPoint(point math3d.Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

// Frustum holds the six planes of a view frustum, normals pointing inward.
type Frustum struct {
	Planes [6]Plane
}

// Frustum plane indices.
const (
	FrustumLeft = iota
	FrustumRight
	FrustumBottom
	FrustumTop
	FrustumNear
	FrustumFar
)

// ExtractFrustum extracts frustum planes from a view-projection matrix using
// the Gribb/Hartmann method. For a column-major matrix, row i element j is
// at m[i + j*4].
func ExtractFrustum(m math3d.Mat4) Frustum {
	var f Frustum

	f.Planes[FrustumLeft] = Plane{
		Normal: math3d.V3(m[3]+m[0], m[7]+m[4], m[11]+m[8]),
		D:      m[15] + m[12],
	}
	f.Planes[FrustumRight] = Plane{
		Normal: math3d.V3(m[3]-m[0], m[7]-m[4], m[11]-m[8]),
		D:      m[15] - m[12],
	}
	f.Planes[FrustumBottom] = Plane{
		Normal: math3d.V3(m[3]+m[1], m[7]+m[5], m[11]+m[9]),
		D:      m[15] + m[13],
	}
	f.Planes[FrustumTop] = Plane{
		Normal: math3d.V3(m[3]-m[1], m[7]-m[5], m[11]-m[9]),
		D:      m[15] - m[13],
	}
	f.Planes[FrustumNear] = Plane{
		Normal: math3d.V3(m[3]+m[2], m[7]+m[6], m[11]+m[10]),
		D:      m[15] + m[14],
	}
	f.Planes[FrustumFar] = Plane{
		Normal: math3d.V3(m[3]-m[2], m[7]-m[6], m[11]-m[10]),
		D:      m[15] - m[14],
	}

	for i := range f.Planes {
		f.Planes[i].Normalize()
	}
	return f
}

// IntersectsAABB reports whether any part of the box is inside the frustum.
// Uses the positive-vertex test: if the corner furthest along a plane's
// normal is behind that plane, the whole box is outside.
func (f Frustum) IntersectsAABB(box AABB) bool {
	for i := range f.Planes {
		plane := f.Planes[i]

		pVertex := math3d.V3(
			pick(plane.Normal.X >= 0, box.Max.X, box.Min.X),
			pick(plane.Normal.Y >= 0, box.Max.Y, box.Min.Y),
			pick(plane.Normal.Z >= 0, box.Max.Z, box.Min.Z),
		)

		if plane.DistanceToPoint(pVertex) < 0 {
			return false
		}
	}
	return true
}

func pick(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}
