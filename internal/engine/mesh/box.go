package mesh

import "github.com/go-gl/mathgl/mgl32"

// Box is an axis-aligned bounding box.
type Box struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Extend returns the box grown to contain p.
func (b Box) Extend(p mgl32.Vec3) Box {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
	return b
}

// Union returns the smallest box containing both boxes.
func (b Box) Union(o Box) Box {
	return b.Extend(o.Min).Extend(o.Max)
}

// Center returns the box midpoint.
func (b Box) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the box extent on each axis.
func (b Box) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// Radius returns the radius of the bounding sphere.
func (b Box) Radius() float32 {
	return b.Size().Len() * 0.5
}

// Corners returns the eight box corners, bottom face first.
func (b Box) Corners() [8]mgl32.Vec3 {
	return [8]mgl32.Vec3{
		{b.Min[0], b.Min[1], b.Min[2]},
		{b.Max[0], b.Min[1], b.Min[2]},
		{b.Max[0], b.Min[1], b.Max[2]},
		{b.Min[0], b.Min[1], b.Max[2]},
		{b.Min[0], b.Max[1], b.Min[2]},
		{b.Max[0], b.Max[1], b.Min[2]},
		{b.Max[0], b.Max[1], b.Max[2]},
		{b.Min[0], b.Max[1], b.Max[2]},
	}
}

// Transform returns the axis-aligned box enclosing b transformed by m.
func (b Box) Transform(m mgl32.Mat4) Box {
	corners := b.Corners()
	var out Box
	for i, c := range corners {
		p := mgl32.TransformCoordinate(c, m)
		if i == 0 {
			out = Box{Min: p, Max: p}
			continue
		}
		out = out.Extend(p)
	}
	return out
}
