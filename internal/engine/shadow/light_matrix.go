package shadow

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/axion/internal/engine/mesh"
)

// DirectionalMatrix computes the light view-projection for a directional
// shadow map. direction is the way the light travels; bounds is the box of
// everything that casts or receives shadows.
func DirectionalMatrix(direction mgl32.Vec3, bounds mesh.Box) mgl32.Mat4 {
	center := bounds.Center()
	radius := max(bounds.Radius(), 0.01)

	// Position light far enough to encompass entire scene
	lightDistance := radius * 2.0
	toLight := towardsLight(direction)
	lightPos := center.Add(toLight.Mul(lightDistance))

	view := mgl32.LookAtV(lightPos, center, upFor(toLight))

	// Add padding to avoid edge artifacts
	padding := radius * 0.1
	halfSize := radius + padding
	near := float32(0.1)
	far := lightDistance + radius + padding

	proj := mgl32.Ortho(-halfSize, halfSize, -halfSize, halfSize, near, far)
	return proj.Mul4(view)
}

// FocusedMatrix computes a tighter light matrix that follows the camera
// focus point instead of covering the whole scene. The shadow radius grows
// with the camera distance, clamped to [minRadius, scene radius].
func FocusedMatrix(direction mgl32.Vec3, bounds mesh.Box, focus mgl32.Vec3, cameraDistance, minRadius float32) mgl32.Mat4 {
	center := bounds.Center()
	focus[1] = center[1]

	shadowRadius := max(cameraDistance*1.5, minRadius)
	shadowRadius = min(shadowRadius, bounds.Radius())

	sceneHeight := bounds.Max[1] - bounds.Min[1]
	lightDistance := shadowRadius + sceneHeight
	toLight := towardsLight(direction)
	lightPos := focus.Add(toLight.Mul(lightDistance))

	view := mgl32.LookAtV(lightPos, focus, upFor(toLight))

	padding := shadowRadius * 0.1
	halfSize := shadowRadius + padding
	far := lightDistance + sceneHeight + padding

	proj := mgl32.Ortho(-halfSize, halfSize, -halfSize, halfSize, 0.1, far)
	return proj.Mul4(view)
}

// cubeFaces lists look directions and up vectors in cube face order
// (+X, -X, +Y, -Y, +Z, -Z).
var cubeFaces = [6]struct{ dir, up mgl32.Vec3 }{
	{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, -1, 0}},
	{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, -1, 0}},
	{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 1}},
	{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{0, 0, -1}},
	{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, -1, 0}},
	{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, -1, 0}},
}

// PointMatrices returns the six view-projections of a point light cube map.
func PointMatrices(pos mgl32.Vec3, near, far float32) [6]mgl32.Mat4 {
	proj := mgl32.Perspective(mgl32.DegToRad(90), 1, near, far)
	var out [6]mgl32.Mat4
	for i, f := range cubeFaces {
		out[i] = proj.Mul4(mgl32.LookAtV(pos, pos.Add(f.dir), f.up))
	}
	return out
}

func towardsLight(direction mgl32.Vec3) mgl32.Vec3 {
	if direction.Len() == 0 {
		return mgl32.Vec3{0, 1, 0}
	}
	return direction.Normalize().Mul(-1)
}

// upFor avoids an up vector parallel with the light direction.
func upFor(toLight mgl32.Vec3) mgl32.Vec3 {
	if math32.Abs(toLight[1]) > 0.99 {
		return mgl32.Vec3{0, 0, 1}
	}
	return mgl32.Vec3{0, 1, 0}
}
