// Package debug provides debug visualization and capture utilities.
package debug

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/axion/internal/engine/mesh"
	"github.com/Faultbox/axion/internal/engine/render"
)

// BoundsColor is the default wireframe color for bounding boxes.
var BoundsColor = mgl32.Vec4{1, 1, 0, 1}

// BoundsObject returns a line object outlining the world-space bounds of
// o, grown by padding on every side. Returns false for objects without
// geometry.
func BoundsObject(o *render.Object, color mgl32.Vec4, padding float32) (*render.Object, bool) {
	box, ok := o.Bounds()
	if !ok {
		return nil, false
	}
	pad := mgl32.Vec3{padding, padding, padding}
	box = mesh.Box{Min: box.Min.Sub(pad), Max: box.Max.Add(pad)}

	b := render.NewMeshObject(o.Name+".bounds", mesh.BoxLines(box, color))
	b.CastShadow = false
	return b, true
}

// ShowBounds adds a bounds object for every solid mesh in ctx and returns
// the added objects. The outlines are static; call again after objects
// move.
func ShowBounds(ctx *render.Context, color mgl32.Vec4) []*render.Object {
	var added []*render.Object
	for _, o := range ctx.Objects() {
		if !o.Solid() {
			continue
		}
		if b, ok := BoundsObject(o, color, 0.01); ok {
			added = append(added, b)
		}
	}
	for _, b := range added {
		ctx.AddObject(b)
	}
	return added
}
