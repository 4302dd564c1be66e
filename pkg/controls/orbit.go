// Package controls implements the orbit camera controls: the camera moves
// on a sphere around a target point with inertial damping on rotation and a
// spring-smoothed zoom distance.
package controls

import (
	"math"

	"github.com/charmbracelet/harmonica"

	"showroom/pkg/math3d"
	"showroom/pkg/render"
)

// Control defaults.
const (
	DefaultDampingFactor = 0.05
	DefaultMinDistance   = 2.0
	DefaultMaxDistance   = 10.0
	DefaultDistance      = 5.0

	defaultPitch = 0.3 // slight elevation for the initial view

	// Pitch is clamped short of the poles to avoid gimbal flip.
	maxPitch = math.Pi/2 - 0.01
)

// Orbit owns the camera position. Input handlers add rotational velocity or
// move the zoom target; Update advances one damping step per frame and
// repositions the camera.
type Orbit struct {
	Target math3d.Vec3

	DampingEnabled bool
	// DampingFactor is the fraction of rotational velocity shed per
	// frame while damping is enabled.
	DampingFactor float64

	MinDistance float64
	MaxDistance float64

	AutoRotate      bool
	AutoRotateSpeed float64 // radians per second

	cam *render.Camera
	fps int

	yaw      float64
	pitch    float64
	yawVel   float64
	pitchVel float64

	distance       float64
	targetDistance float64
	distVel        float64
	zoomSpring     harmonica.Spring
}

// New creates orbit controls driving cam at the given frame rate.
func New(cam *render.Camera, fps int) *Orbit {
	o := &Orbit{
		cam:             cam,
		fps:             fps,
		DampingEnabled:  true,
		DampingFactor:   DefaultDampingFactor,
		MinDistance:     DefaultMinDistance,
		MaxDistance:     DefaultMaxDistance,
		AutoRotateSpeed: 0.5,
		pitch:           defaultPitch,
		distance:        DefaultDistance,
		targetDistance:  DefaultDistance,
		// Critically damped so the zoom settles without overshoot.
		zoomSpring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
	}
	o.apply()
	return o
}

// Rotate adds rotational velocity, e.g. from a mouse drag delta.
func (o *Orbit) Rotate(dYaw, dPitch float64) {
	o.yawVel += dYaw
	o.pitchVel += dPitch
}

// Zoom moves the zoom target by delta, clamped to the distance bounds. The
// actual distance follows through the spring over the next frames.
func (o *Orbit) Zoom(delta float64) {
	o.targetDistance = clamp(o.targetDistance+delta, o.MinDistance, o.MaxDistance)
}

// Distance returns the current camera distance from the target.
func (o *Orbit) Distance() float64 {
	return o.distance
}

// SetDistance snaps the camera distance, bypassing the spring. Used at
// startup; interactive zooming should go through Zoom.
func (o *Orbit) SetDistance(d float64) {
	d = clamp(d, o.MinDistance, o.MaxDistance)
	o.distance = d
	o.targetDistance = d
	o.distVel = 0
	o.apply()
}

// SetTarget re-points the controls (and the camera) at a new look-at point.
func (o *Orbit) SetTarget(t math3d.Vec3) {
	o.Target = t
	o.apply()
}

// Reset restores the initial view: default angles and distance, velocities
// cleared, target back at the origin.
func (o *Orbit) Reset() {
	o.Target = math3d.Zero3()
	o.yaw = 0
	o.pitch = defaultPitch
	o.yawVel = 0
	o.pitchVel = 0
	o.distance = DefaultDistance
	o.targetDistance = DefaultDistance
	o.distVel = 0
	o.apply()
}

// Update advances one damping step and repositions the camera. Called once
// per frame by the render loop.
func (o *Orbit) Update() {
	if o.AutoRotate {
		o.yaw += o.AutoRotateSpeed / float64(o.fps)
	}

	o.yaw += o.yawVel
	o.pitch = clamp(o.pitch+o.pitchVel, -maxPitch, maxPitch)

	if o.DampingEnabled {
		decay := 1 - o.DampingFactor
		o.yawVel *= decay
		o.pitchVel *= decay
	} else {
		o.yawVel = 0
		o.pitchVel = 0
	}

	o.distance, o.distVel = o.zoomSpring.Update(o.distance, o.distVel, o.targetDistance)
	o.distance = clamp(o.distance, o.MinDistance, o.MaxDistance)

	o.apply()
}

// apply converts the spherical state to a camera position and aims the
// camera at the target.
func (o *Orbit) apply() {
	cp := math.Cos(o.pitch)
	pos := math3d.V3(
		o.Target.X+o.distance*cp*math.Sin(o.yaw),
		o.Target.Y+o.distance*math.Sin(o.pitch),
		o.Target.Z+o.distance*cp*math.Cos(o.yaw),
	)
	o.cam.SetPosition(pos)
	o.cam.LookAt(o.Target)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
