package render

import (
	"math"

	"showroom/pkg/math3d"
)

// Lighting describes the light rig the rasterizer shades with: a constant
// ambient term plus one directional light. Direction points from the scene
// toward the light.
type Lighting struct {
	Ambient   float64
	Diffuse   float64
	Direction math3d.Vec3
}

// DefaultLighting returns the standard showroom light rig.
func DefaultLighting() Lighting {
	return Lighting{
		Ambient:   0.3,
		Diffuse:   0.7,
		Direction: math3d.V3(0.5, 1, 0.3).Normalize(),
	}
}

// intensity returns the scalar lighting term for a surface normal.
func (l Lighting) intensity(normal math3d.Vec3) float64 {
	return l.Ambient + l.Diffuse*math.Max(0, normal.Dot(l.Direction))
}

// MeshSource is the geometry interface the rasterizer consumes, implemented
// by model.Mesh. Bounds are local-space and used for frustum culling.
type MeshSource interface {
	TriangleCount() int
	Vertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2)
	Face(i int) [3]int
	Bounds() (min, max math3d.Vec3)
}

// Rasterizer draws meshes into a framebuffer through a camera, with a
// Z-buffer for hidden surface removal and tone-mapped output.
type Rasterizer struct {
	cam   *Camera
	fb    *Framebuffer
	depth []float64

	Lighting Lighting
	ToneMap  ToneMapping
	Exposure float64

	frustum      Frustum
	frustumDirty bool
}

// NewRasterizer creates a rasterizer targeting the given framebuffer.
func NewRasterizer(cam *Camera, fb *Framebuffer) *Rasterizer {
	r := &Rasterizer{
		cam:          cam,
		fb:           fb,
		Lighting:     DefaultLighting(),
		ToneMap:      ToneMapNone,
		Exposure:     1.0,
		frustumDirty: true,
	}
	r.SetTarget(fb)
	return r
}

// SetTarget repoints the rasterizer at a framebuffer, reallocating the
// Z-buffer to match. Called on viewport resize.
func (r *Rasterizer) SetTarget(fb *Framebuffer) {
	r.fb = fb
	if fb == nil {
		r.depth = nil
		return
	}
	r.depth = make([]float64, fb.Width*fb.Height)
}

// ClearDepth resets the Z-buffer; call once per frame before drawing.
func (r *Rasterizer) ClearDepth() {
	n := len(r.depth)
	if n == 0 {
		return
	}
	r.depth[0] = math.MaxFloat64
	for i := 1; i < n; i *= 2 {
		copy(r.depth[i:], r.depth[:i])
	}
}

// InvalidateFrustum marks the cached frustum stale. Call when the camera
// moves or the projection changes.
func (r *Rasterizer) InvalidateFrustum() {
	r.frustumDirty = true
}

func (r *Rasterizer) width() int  { return r.fb.Width }
func (r *Rasterizer) height() int { return r.fb.Height }

// visible tests a mesh's transformed bounds against the view frustum.
func (r *Rasterizer) visible(mesh MeshSource, transform math3d.Mat4) bool {
	if r.frustumDirty {
		r.frustum = ExtractFrustum(r.cam.ViewProjectionMatrix())
		r.frustumDirty = false
	}
	min, max := mesh.Bounds()
	world := NewAABB(min, max).Transform(transform)
	return r.frustum.IntersectsAABB(world)
}

// screenVertex is a vertex transformed to screen space.
type screenVertex struct {
	X, Y float64
	Z    float64 // NDC depth for the Z-buffer
	W    float64 // clip-space w for perspective-correct interpolation
	UV   math3d.Vec2
	Lit  float64 // per-vertex lighting intensity
}

// project transforms a world-space triangle to screen space. Returns false
// when the whole triangle is behind the camera or back-facing.
func (r *Rasterizer) project(pos [3]math3d.Vec3, normals [3]math3d.Vec3, uvs [3]math3d.Vec2) ([3]screenVertex, bool) {
	var sv [3]screenVertex
	allBehind := true

	viewProj := r.cam.ViewProjectionMatrix()
	w := float64(r.width())
	h := float64(r.height())

	for i := range 3 {
		clip := viewProj.MulVec4(math3d.V4FromV3(pos[i], 1))
		if clip.W > 0 {
			allBehind = false
		}
		if clip.W != 0 {
			sv[i].X = clip.X / clip.W
			sv[i].Y = clip.Y / clip.W
			sv[i].Z = clip.Z / clip.W
		}
		sv[i].W = clip.W

		// NDC to screen; Y is flipped.
		sv[i].X = (sv[i].X + 1) * 0.5 * w
		sv[i].Y = (1 - sv[i].Y) * 0.5 * h

		sv[i].UV = uvs[i]
		sv[i].Lit = r.Lighting.intensity(normals[i])
	}

	if allBehind {
		return sv, false
	}

	// Backface culling via screen-space winding.
	edge1 := math3d.V2(sv[1].X-sv[0].X, sv[1].Y-sv[0].Y)
	edge2 := math3d.V2(sv[2].X-sv[0].X, sv[2].Y-sv[0].Y)
	if edge1.Cross(edge2) < 0 {
		return sv, false
	}

	return sv, true
}

// DrawMeshShaded renders a mesh with Gouraud shading: lighting evaluated at
// each vertex and interpolated across triangles.
func (r *Rasterizer) DrawMeshShaded(mesh MeshSource, transform math3d.Mat4, base Color) {
	if !r.visible(mesh, transform) {
		return
	}
	r.eachWorldTriangle(mesh, transform, func(sv [3]screenVertex) {
		r.fillTriangle(sv, func(bc math3d.Vec3, _, _, _ float64) (Color, bool) {
			lit := bc.X*sv[0].Lit + bc.Y*sv[1].Lit + bc.Z*sv[2].Lit
			return r.ToneMap.Shade(base, lit, r.Exposure), true
		})
	})
}

// DrawMeshTextured renders a mesh with perspective-correct texture mapping
// and Gouraud-interpolated lighting.
func (r *Rasterizer) DrawMeshTextured(mesh MeshSource, transform math3d.Mat4, tex *Texture) {
	if !r.visible(mesh, transform) {
		return
	}
	r.eachWorldTriangle(mesh, transform, func(sv [3]screenVertex) {
		var invW [3]float64
		for i := range 3 {
			if sv[i].W != 0 {
				invW[i] = 1.0 / sv[i].W
			}
		}
		r.fillTriangle(sv, func(bc math3d.Vec3, _, _, _ float64) (Color, bool) {
			w0, w1, w2 := bc.X*invW[0], bc.Y*invW[1], bc.Z*invW[2]
			oneOverW := w0 + w1 + w2
			if oneOverW == 0 {
				return Color{}, false
			}
			u := (w0*sv[0].UV.X + w1*sv[1].UV.X + w2*sv[2].UV.X) / oneOverW
			v := (w0*sv[0].UV.Y + w1*sv[1].UV.Y + w2*sv[2].UV.Y) / oneOverW
			lit := (w0*sv[0].Lit + w1*sv[1].Lit + w2*sv[2].Lit) / oneOverW
			return r.ToneMap.Shade(tex.Sample(u, v), lit, r.Exposure), true
		})
	})
}

// DrawMeshWireframe renders a mesh's triangle edges only.
func (r *Rasterizer) DrawMeshWireframe(mesh MeshSource, transform math3d.Mat4, c Color) {
	if !r.visible(mesh, transform) {
		return
	}
	for i := 0; i < mesh.TriangleCount(); i++ {
		face := mesh.Face(i)
		p0, _, _ := mesh.Vertex(face[0])
		p1, _, _ := mesh.Vertex(face[1])
		p2, _, _ := mesh.Vertex(face[2])

		v0 := transform.MulVec3(p0)
		v1 := transform.MulVec3(p1)
		v2 := transform.MulVec3(p2)

		r.drawLine3D(v0, v1, c)
		r.drawLine3D(v1, v2, c)
		r.drawLine3D(v2, v0, c)
	}
}

// eachWorldTriangle transforms each face to world then screen space and
// hands the visible ones to draw.
func (r *Rasterizer) eachWorldTriangle(mesh MeshSource, transform math3d.Mat4, draw func([3]screenVertex)) {
	for i := 0; i < mesh.TriangleCount(); i++ {
		face := mesh.Face(i)

		p0, n0, uv0 := mesh.Vertex(face[0])
		p1, n1, uv1 := mesh.Vertex(face[1])
		p2, n2, uv2 := mesh.Vertex(face[2])

		pos := [3]math3d.Vec3{
			transform.MulVec3(p0),
			transform.MulVec3(p1),
			transform.MulVec3(p2),
		}
		normals := [3]math3d.Vec3{
			transform.MulVec3Dir(n0).Normalize(),
			transform.MulVec3Dir(n1).Normalize(),
			transform.MulVec3Dir(n2).Normalize(),
		}
		uvs := [3]math3d.Vec2{uv0, uv1, uv2}

		if sv, ok := r.project(pos, normals, uvs); ok {
			draw(sv)
		}
	}
}

// fillTriangle rasterizes a screen-space triangle, calling shade for each
// covered, depth-passing pixel.
func (r *Rasterizer) fillTriangle(sv [3]screenVertex, shade func(bc math3d.Vec3, z, px, py float64) (Color, bool)) {
	minX := int(math.Max(0, math.Floor(min3(sv[0].X, sv[1].X, sv[2].X))))
	maxX := int(math.Min(float64(r.width()-1), math.Ceil(max3(sv[0].X, sv[1].X, sv[2].X))))
	minY := int(math.Max(0, math.Floor(min3(sv[0].Y, sv[1].Y, sv[2].Y))))
	maxY := int(math.Min(float64(r.height()-1), math.Ceil(max3(sv[0].Y, sv[1].Y, sv[2].Y))))

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5

			bc := barycentric(
				sv[0].X, sv[0].Y,
				sv[1].X, sv[1].Y,
				sv[2].X, sv[2].Y,
				px, py,
			)
			if bc.X < 0 || bc.Y < 0 || bc.Z < 0 {
				continue
			}

			z := bc.X*sv[0].Z + bc.Y*sv[1].Z + bc.Z*sv[2].Z
			idx := y*r.width() + x
			if z >= r.depth[idx] {
				continue
			}

			c, ok := shade(bc, z, px, py)
			if !ok {
				continue
			}

			r.depth[idx] = z
			r.fb.SetPixel(x, y, c)
		}
	}
}

// drawLine3D projects a 3D segment and draws it as a 2D line.
func (r *Rasterizer) drawLine3D(a, b math3d.Vec3, c Color) {
	viewProj := r.cam.ViewProjectionMatrix()

	clipA := viewProj.MulVec4(math3d.V4FromV3(a, 1))
	clipB := viewProj.MulVec4(math3d.V4FromV3(b, 1))
	if clipA.W <= 0 && clipB.W <= 0 {
		return
	}

	if clipA.W > 0 {
		clipA.X /= clipA.W
		clipA.Y /= clipA.W
	}
	if clipB.W > 0 {
		clipB.X /= clipB.W
		clipB.Y /= clipB.W
	}

	w := float64(r.width())
	h := float64(r.height())
	x0 := int((clipA.X + 1) * 0.5 * w)
	y0 := int((1 - clipA.Y) * 0.5 * h)
	x1 := int((clipB.X + 1) * 0.5 * w)
	y1 := int((1 - clipB.Y) * 0.5 * h)

	r.fb.DrawLine(x0, y0, x1, y1, c)
}

// barycentric computes barycentric coordinates of (px, py) in the triangle
// (x0,y0) (x1,y1) (x2,y2).
func barycentric(x0, y0, x1, y1, x2, y2, px, py float64) math3d.Vec3 {
	v0x, v0y := x2-x0, y2-y0
	v1x, v1y := x1-x0, y1-y0
	v2x, v2y := px-x0, py-y0

	dot00 := v0x*v0x + v0y*v0y
	dot01 := v0x*v1x + v0y*v1y
	dot02 := v0x*v2x + v0y*v2y
	dot11 := v1x*v1x + v1y*v1y
	dot12 := v1x*v2x + v1y*v2y

	denom := dot00*dot11 - dot01*dot01
	if math.Abs(denom) < 1e-12 {
		// Zero-area triangle: no pixel is inside it. Without this check
		// the division yields NaN coordinates, which slip past the
		// inside test and corrupt the Z-buffer.
		return math3d.V3(-1, -1, -1)
	}
	invDenom := 1.0 / denom
	u := (dot11*dot02 - dot01*dot12) * invDenom
	v := (dot00*dot12 - dot01*dot02) * invDenom

	return math3d.V3(1-u-v, v, u)
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}
