// Package picking provides ray casting and object picking utilities.
package picking

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/axion/internal/engine/mesh"
	"github.com/Faultbox/axion/internal/engine/render"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3 // Normalized direction
}

// ScreenToRay converts pixel coordinates, measured from the top-left
// corner, to a world-space ray. invViewProj is the inverse of the
// view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj mgl32.Mat4) Ray {
	ndcX := 2*screenX/viewportW - 1
	ndcY := 1 - 2*screenY/viewportH // Flip Y

	near := invViewProj.Mul4x1(mgl32.Vec4{ndcX, ndcY, -1, 1})
	far := invViewProj.Mul4x1(mgl32.Vec4{ndcX, ndcY, 1, 1})
	if near[3] != 0 {
		near = near.Mul(1 / near[3])
	}
	if far[3] != 0 {
		far = far.Mul(1 / far[3])
	}

	origin := near.Vec3()
	dir := far.Vec3().Sub(origin)
	if dir.Len() > 0 {
		dir = dir.Normalize()
	}
	return Ray{Origin: origin, Direction: dir}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// IntersectPlaneY intersects a ray with a horizontal plane at the given Y level.
// Returns the intersection point (X, Z) and whether the intersection is valid.
func (r Ray) IntersectPlaneY(planeY float32) (x, z float32, ok bool) {
	if math32.Abs(r.Direction[1]) < 0.001 {
		return 0, 0, false // Ray parallel to plane
	}
	t := (planeY - r.Origin[1]) / r.Direction[1]
	if t < 0 {
		return 0, 0, false // Intersection behind ray origin
	}
	p := r.At(t)
	return p[0], p[2], true
}

// IntersectBox tests ray intersection with an axis-aligned box using the
// slab method. If the ray starts inside the box, the exit distance is
// returned.
func (r Ray) IntersectBox(box mesh.Box) (t float32, hit bool) {
	tmin := float32(-math32.MaxFloat32)
	tmax := float32(math32.MaxFloat32)

	for axis := 0; axis < 3; axis++ {
		if r.Direction[axis] == 0 {
			if r.Origin[axis] < box.Min[axis] || r.Origin[axis] > box.Max[axis] {
				return 0, false
			}
			continue
		}
		t1 := (box.Min[axis] - r.Origin[axis]) / r.Direction[axis]
		t2 := (box.Max[axis] - r.Origin[axis]) / r.Direction[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// Hit is a picked object and the distance along the ray.
type Hit struct {
	Object   *render.Object
	Distance float32
}

// Pick returns the nearest solid object whose world bounds the pixel's
// ray crosses.
func Pick(ctx *render.Context, x, y int) (Hit, bool) {
	w, h := ctx.ScreenPixelSize()
	ray := ScreenToRay(float32(x)+0.5, float32(y)+0.5, float32(w), float32(h), ctx.Camera.ViewProjection().Inv())
	return Nearest(ray, ctx.Objects())
}

// Nearest returns the closest solid object hit by ray.
func Nearest(ray Ray, objects []*render.Object) (Hit, bool) {
	var best Hit
	found := false
	for _, o := range objects {
		if !o.Solid() {
			continue
		}
		b, ok := o.Bounds()
		if !ok {
			continue
		}
		if t, hit := ray.IntersectBox(b); hit && (!found || t < best.Distance) {
			best = Hit{Object: o, Distance: t}
			found = true
		}
	}
	return best, found
}
