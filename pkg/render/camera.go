package render

import (
	"math"

	"showroom/pkg/math3d"
)

// Default projection parameters for the showroom camera.
const (
	DefaultFOV  = 75 * math.Pi / 180 // vertical field of view
	DefaultNear = 0.1
	DefaultFar  = 1000.0
)

// Camera is a perspective camera described by an eye position and a
// look-at point. The view matrix is recomputed lazily when either changes.
type Camera struct {
	Position math3d.Vec3
	Look     math3d.Vec3 // point the camera looks at
	Up       math3d.Vec3

	FOV    float64 // vertical field of view in radians
	Aspect float64 // width / height
	Near   float64
	Far    float64

	viewMatrix math3d.Mat4
	projMatrix math3d.Mat4
	viewProj   math3d.Mat4
	viewDirty  bool
	projDirty  bool
}

// NewCamera creates a camera with the showroom defaults, positioned on the
// +Z axis looking at the origin.
func NewCamera() *Camera {
	return &Camera{
		Position:  math3d.V3(0, 0, 5),
		Look:      math3d.Zero3(),
		Up:        math3d.Up(),
		FOV:       DefaultFOV,
		Aspect:    16.0 / 9.0,
		Near:      DefaultNear,
		Far:       DefaultFar,
		viewDirty: true,
		projDirty: true,
	}
}

// SetPosition moves the camera eye point.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.Position = pos
	c.viewDirty = true
}

// LookAt points the camera at a target.
func (c *Camera) LookAt(target math3d.Vec3) {
	c.Look = target
	c.viewDirty = true
}

// SetAspect sets the aspect ratio (width / height).
func (c *Camera) SetAspect(aspect float64) {
	c.Aspect = aspect
	c.projDirty = true
}

// SetFOV sets the vertical field of view in radians.
func (c *Camera) SetFOV(fov float64) {
	c.FOV = fov
	c.projDirty = true
}

// SetClipPlanes sets the near and far clipping planes.
func (c *Camera) SetClipPlanes(near, far float64) {
	c.Near = near
	c.Far = far
	c.projDirty = true
}

// ViewMatrix returns the view matrix.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	if c.viewDirty {
		c.viewMatrix = math3d.LookAt(c.Position, c.Look, c.Up)
		c.viewDirty = false
	}
	return c.viewMatrix
}

// ProjectionMatrix returns the perspective projection matrix.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	if c.projDirty {
		c.projMatrix = math3d.Perspective(c.FOV, c.Aspect, c.Near, c.Far)
		c.projDirty = false
	}
	return c.projMatrix
}

// ViewProjectionMatrix returns the combined projection * view matrix.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	if c.viewDirty || c.projDirty {
		view := c.ViewMatrix()
		proj := c.ProjectionMatrix()
		c.viewProj = proj.Mul(view)
	}
	return c.viewProj
}
