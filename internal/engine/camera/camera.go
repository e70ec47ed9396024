// Package camera provides camera implementations for 3D rendering.
package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/axion/internal/engine/mesh"
)

// Camera is a perspective camera looking at a target.
type Camera struct {
	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3

	FovY   float32 // Vertical field of view in degrees
	Aspect float32
	Near   float32
	Far    float32
}

// New creates a camera at (0, 2, 5) looking at the origin.
func New() *Camera {
	return &Camera{
		Position: mgl32.Vec3{0, 2, 5},
		Up:       mgl32.Vec3{0, 1, 0},
		FovY:     45,
		Aspect:   16.0 / 9.0,
		Near:     0.1,
		Far:      500,
	}
}

// SetViewport updates the aspect ratio from a pixel size.
func (c *Camera) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

// View returns the view matrix for this camera.
func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, c.Up)
}

// Projection returns the perspective projection matrix.
func (c *Camera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FovY), c.Aspect, c.Near, c.Far)
}

// ViewProjection returns Projection * View.
func (c *Camera) ViewProjection() mgl32.Mat4 {
	return c.Projection().Mul4(c.View())
}

// Orbit orbits a camera around a center point.
type Orbit struct {
	// Center point to orbit around
	Center mgl32.Vec3

	// Spherical coordinates
	Distance float32 // Distance from center
	Pitch    float32 // Vertical angle, radians
	Yaw      float32 // Horizontal angle, radians

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbit creates a new orbit controller with default settings.
func NewOrbit() *Orbit {
	return &Orbit{
		Distance:        6,
		Pitch:           0.5,
		MinDistance:     0.5,
		MaxDistance:     200,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the camera position in world space.
func (o *Orbit) Position() mgl32.Vec3 {
	sp, cp := math32.Sincos(o.Pitch)
	sy, cy := math32.Sincos(o.Yaw)
	return o.Center.Add(mgl32.Vec3{cp * sy, sp, cp * cy}.Mul(o.Distance))
}

// Apply points cam at the orbit center from the orbit position.
func (o *Orbit) Apply(cam *Camera) {
	cam.Position = o.Position()
	cam.Target = o.Center
	cam.Up = mgl32.Vec3{0, 1, 0}
}

// HandleDrag updates rotation based on mouse drag delta.
func (o *Orbit) HandleDrag(deltaX, deltaY float32) {
	o.Yaw -= deltaX * o.DragSensitivity
	o.Pitch = mgl32.Clamp(o.Pitch+deltaY*o.DragSensitivity, o.MinPitch, o.MaxPitch)
}

// HandleZoom updates distance based on scroll wheel delta.
func (o *Orbit) HandleZoom(delta float32) {
	o.Distance -= delta * o.Distance * o.ZoomSensitivity
	o.Distance = mgl32.Clamp(o.Distance, o.MinDistance, o.MaxDistance)
}

// HandleMovement pans the center point relative to the current yaw.
func (o *Orbit) HandleMovement(forward, right, up float32) {
	// Speed scales with distance for consistent feel
	speed := o.Distance * 0.01
	sy, cy := math32.Sincos(o.Yaw)

	// Negate forward so W moves "into" the scene
	o.Center[0] += (-sy*forward + cy*right) * speed
	o.Center[2] += (-cy*forward - sy*right) * speed
	o.Center[1] += up * speed
}

// FitToBounds centers the orbit on b and backs off far enough to see it.
func (o *Orbit) FitToBounds(b mesh.Box) {
	o.Center = b.Center()
	o.Distance = mgl32.Clamp(b.Radius()*2.5, o.MinDistance, o.MaxDistance)
	o.Pitch = 0.6 // Look down at ~35 degrees
	o.Yaw = 0
}
