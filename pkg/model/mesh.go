// Package model provides mesh representation and asynchronous loading of
// binary glTF assets for showroom.
package model

import (
	"showroom/pkg/math3d"
)

// Vertex holds the attributes of one mesh vertex.
type Vertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	UV       math3d.Vec2
}

// Triangle references three vertices by index.
type Triangle struct {
	V [3]int
}

// Mesh is a triangle mesh with a cached axis-aligned bounding box. The
// bounds are only valid after RecalculateBounds; the Apply* mutators keep
// them in sync.
type Mesh struct {
	Name      string
	Vertices  []Vertex
	Triangles []Triangle

	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// RecalculateBounds recomputes the axis-aligned bounding box from the
// current vertex positions.
func (m *Mesh) RecalculateBounds() {
	if len(m.Vertices) == 0 {
		m.BoundsMin = math3d.Zero3()
		m.BoundsMax = math3d.Zero3()
		return
	}

	m.BoundsMin = m.Vertices[0].Position
	m.BoundsMax = m.Vertices[0].Position
	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles)
}

// ApplyUniformScale scales all vertex positions by s about the origin and
// commits the change by recomputing the bounds. Callers that need the
// post-scale box must read it after this returns, not before.
func (m *Mesh) ApplyUniformScale(s float64) {
	for i := range m.Vertices {
		m.Vertices[i].Position = m.Vertices[i].Position.Scale(s)
	}
	m.RecalculateBounds()
}

// ApplyTranslation offsets all vertex positions by t and recomputes the
// bounds.
func (m *Mesh) ApplyTranslation(t math3d.Vec3) {
	for i := range m.Vertices {
		m.Vertices[i].Position = m.Vertices[i].Position.Add(t)
	}
	m.RecalculateBounds()
}

// CalculateSmoothNormals computes per-vertex normals averaged over the
// adjacent faces, weighted by face area via the unnormalized cross product.
func (m *Mesh) CalculateSmoothNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = math3d.Zero3()
	}

	for _, tri := range m.Triangles {
		v0 := m.Vertices[tri.V[0]].Position
		v1 := m.Vertices[tri.V[1]].Position
		v2 := m.Vertices[tri.V[2]].Position

		normal := v1.Sub(v0).Cross(v2.Sub(v0))

		m.Vertices[tri.V[0]].Normal = m.Vertices[tri.V[0]].Normal.Add(normal)
		m.Vertices[tri.V[1]].Normal = m.Vertices[tri.V[1]].Normal.Add(normal)
		m.Vertices[tri.V[2]].Normal = m.Vertices[tri.V[2]].Normal.Add(normal)
	}

	for i := range m.Vertices {
		m.Vertices[i].Normal = m.Vertices[i].Normal.Normalize()
	}
}

// hasNormals reports whether any vertex carries a meaningful normal.
func (m *Mesh) hasNormals() bool {
	for _, v := range m.Vertices {
		if v.Normal.Len() > 0.001 {
			return true
		}
	}
	return false
}

// Vertex returns the attributes of vertex i.
// Implements render.MeshSource.
func (m *Mesh) Vertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2) {
	v := m.Vertices[i]
	return v.Position, v.Normal, v.UV
}

// Face returns the vertex indices of triangle i.
// Implements render.MeshSource.
func (m *Mesh) Face(i int) [3]int {
	return m.Triangles[i].V
}

// Bounds returns the cached axis-aligned bounding box.
// Implements render.MeshSource.
func (m *Mesh) Bounds() (min, max math3d.Vec3) {
	return m.BoundsMin, m.BoundsMax
}
