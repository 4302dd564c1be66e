// Package scene holds the mutable scene graph: lights, the camera, and the
// at-most-one loaded model, plus the normalization that fits a freshly
// loaded model into the view.
package scene

import (
	"showroom/pkg/math3d"
	"showroom/pkg/model"
	"showroom/pkg/render"
)

// DirectionalLight is a light infinitely far away. Direction points from
// the scene toward the light.
type DirectionalLight struct {
	Direction math3d.Vec3
	Intensity float64
}

// AmbientLight is a constant fill term.
type AmbientLight struct {
	Intensity float64
}

// Entity is a model placed in the scene, together with the normalization
// transform that was applied to it.
type Entity struct {
	Mesh    *model.Mesh
	Texture *render.Texture
	Scale   float64
	Offset  math3d.Vec3
}

// Scene is the ownership root for everything drawn each frame. It is
// created once at startup and lives for the process lifetime.
//
// The scene is not synchronized: all mutation must happen on the render
// loop goroutine. In particular a model entity is only inserted after its
// normalization is fully committed, so a render tick never observes a
// half-transformed mesh.
type Scene struct {
	Camera  *render.Camera
	Ambient AmbientLight
	Sun     DirectionalLight

	entity *Entity
}

// New creates a scene with the default light rig and camera.
func New() *Scene {
	return &Scene{
		Camera:  render.NewCamera(),
		Ambient: AmbientLight{Intensity: 0.3},
		Sun: DirectionalLight{
			Direction: math3d.V3(0.5, 1, 0.3).Normalize(),
			Intensity: 0.7,
		},
	}
}

// SetModel installs the (single) model entity, replacing any previous one.
func (s *Scene) SetModel(e *Entity) {
	s.entity = e
}

// Model returns the current model entity, or nil while nothing is loaded.
func (s *Scene) Model() *Entity {
	return s.entity
}

// Lighting flattens the scene lights into the rasterizer's light rig.
func (s *Scene) Lighting() render.Lighting {
	return render.Lighting{
		Ambient:   s.Ambient.Intensity,
		Diffuse:   s.Sun.Intensity,
		Direction: s.Sun.Direction,
	}
}
