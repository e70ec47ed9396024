package mesh

import (
	"slices"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// quadCorners returns a unit quad centered at c on the plane spanned by u
// and v, counter-clockwise when seen from u×v.
func quadCorners(c, u, v mgl32.Vec3) [4]mgl32.Vec3 {
	hu, hv := u.Mul(0.5), v.Mul(0.5)
	return [4]mgl32.Vec3{
		c.Sub(hu).Sub(hv),
		c.Add(hu).Sub(hv),
		c.Add(hu).Add(hv),
		c.Sub(hu).Add(hv),
	}
}

var quadUVs = [4]mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

// Cube returns a unit cube centered at the origin: 24 vertices, one quad
// per side with its own normals. Faces are not generated yet.
func Cube() *Mesh {
	sides := []struct{ n, u, v mgl32.Vec3 }{
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}},
		{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
		{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}},
	}
	vertices := make([]VertexPosNormalUV, 0, 24)
	for _, s := range sides {
		for i, p := range quadCorners(s.n.Mul(0.5), s.u, s.v) {
			vertices = append(vertices, VertexPosNormalUV{Position: p, Normal: s.n, UV: quadUVs[i]})
		}
	}
	m := FromPosNormalUV(vertices, nil, Quad)
	m.Name = "cube"
	return m
}

// WallQuad returns a unit quad on the XY plane facing +Z.
func WallQuad() *Mesh {
	corners := quadCorners(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0})
	vertices := make([]VertexPosNormalUV, 4)
	for i, p := range corners {
		vertices[i] = VertexPosNormalUV{Position: p, Normal: mgl32.Vec3{0, 0, 1}, UV: quadUVs[i]}
	}
	m := FromPosNormalUV(vertices, nil, Quad)
	m.Name = "wall"
	return m
}

// ScreenQuad returns a quad covering normalized device coordinates.
func ScreenQuad() *Mesh {
	m := FromPos2UV([]VertexPos2UV{
		{Position: mgl32.Vec2{-1, -1}, UV: quadUVs[0]},
		{Position: mgl32.Vec2{1, -1}, UV: quadUVs[1]},
		{Position: mgl32.Vec2{1, 1}, UV: quadUVs[2]},
		{Position: mgl32.Vec2{-1, 1}, UV: quadUVs[3]},
	}, nil, Quad)
	m.Name = "screen"
	return m
}

// Grid returns a line grid on the XZ plane with 2*half+1 lines per axis.
func Grid(half int, spacing float32, color mgl32.Vec4) *Mesh {
	m := New(PosColor.Kinds()...)
	m.Name = "grid"
	m.PrimitiveType = Line
	p, c := m.Positions(), m.Colors()
	extent := float32(half) * spacing
	for i := -half; i <= half; i++ {
		o := float32(i) * spacing
		p.Append(mgl32.Vec3{o, 0, -extent}, mgl32.Vec3{o, 0, extent})
		c.Append(color, color)
		m.AddFaceFromVerticesTail(Line)
		p.Append(mgl32.Vec3{-extent, 0, o}, mgl32.Vec3{extent, 0, o})
		c.Append(color, color)
		m.AddFaceFromVerticesTail(Line)
	}
	return m
}

// Surface returns a triangle fan from center over the closed path.
func Surface(path []mgl32.Vec3, center mgl32.Vec3) *Mesh {
	vertices := make([]VertexPosNormalUV, 0, len(path)*3)
	uv := func(p mgl32.Vec3) mgl32.Vec2 {
		d := p.Sub(center)
		return mgl32.Vec2{0.5 + d[0], 0.5 + d[2]}
	}
	for i, a := range path {
		b := path[(i+1)%len(path)]
		n := normalizeOr(a.Sub(center).Cross(b.Sub(center)), mgl32.Vec3{0, 1, 0})
		vertices = append(vertices,
			VertexPosNormalUV{Position: center, Normal: n, UV: uv(center)},
			VertexPosNormalUV{Position: a, Normal: n, UV: uv(a)},
			VertexPosNormalUV{Position: b, Normal: n, UV: uv(b)},
		)
	}
	m := FromPosNormalUV(vertices, nil, Triangle)
	m.CreateFacesAndIndices(Triangle)
	m.Name = "surface"
	return m
}

// Circle returns n points of a circle of the given radius on the XZ plane
// at height y, going from +X towards +Z.
func Circle(radius, y float32, n int) []mgl32.Vec3 {
	out := make([]mgl32.Vec3, n)
	for i := range out {
		a := 2 * math32.Pi * float32(i) / float32(n)
		out[i] = mgl32.Vec3{math32.Cos(a) * radius, y, math32.Sin(a) * radius}
	}
	return out
}

// Cylinder returns a capped cylinder (or cone frustum) along Y, centered
// at the origin. Sides are quads, caps triangles.
func Cylinder(bottomDiameter, topDiameter, height float32, segments int) *Mesh {
	bottom := Circle(bottomDiameter/2, -height/2, segments)
	top := Circle(topDiameter/2, height/2, segments)

	vertices := make([]VertexPosNormalUV, 0, segments*4)
	for i := 0; i < segments; i++ {
		j := (i + 1) % segments
		u0, u1 := float32(i)/float32(segments), float32(i+1)/float32(segments)
		n0 := normalizeOr(mgl32.Vec3{bottom[i][0], 0, bottom[i][2]}, mgl32.Vec3{1, 0, 0})
		n1 := normalizeOr(mgl32.Vec3{bottom[j][0], 0, bottom[j][2]}, mgl32.Vec3{1, 0, 0})
		vertices = append(vertices,
			VertexPosNormalUV{Position: bottom[j], Normal: n1, UV: mgl32.Vec2{u1, 0}},
			VertexPosNormalUV{Position: bottom[i], Normal: n0, UV: mgl32.Vec2{u0, 0}},
			VertexPosNormalUV{Position: top[i], Normal: n0, UV: mgl32.Vec2{u0, 1}},
			VertexPosNormalUV{Position: top[j], Normal: n1, UV: mgl32.Vec2{u1, 1}},
		)
	}
	m := FromPosNormalUV(vertices, nil, Quad)
	m.Name = "cylinder"

	topPath := slices.Clone(top)
	slices.Reverse(topPath)
	m.AddMesh(Surface(topPath, mgl32.Vec3{0, height / 2, 0}), -1, -1)
	m.AddMesh(Surface(bottom, mgl32.Vec3{0, -height / 2, 0}), -1, -1)
	return m
}

// Sphere returns an indexed UV sphere of unit diameter.
func Sphere(segments, rings int) *Mesh {
	vertices := make([]VertexPosNormalUV, 0, (rings+1)*(segments+1))
	for r := 0; r <= rings; r++ {
		theta := math32.Pi * float32(r) / float32(rings)
		st, ct := math32.Sincos(theta)
		for s := 0; s <= segments; s++ {
			phi := 2 * math32.Pi * float32(s) / float32(segments)
			sp, cp := math32.Sincos(phi)
			n := mgl32.Vec3{st * cp, ct, st * sp}
			vertices = append(vertices, VertexPosNormalUV{
				Position: n.Mul(0.5),
				Normal:   n,
				UV:       mgl32.Vec2{float32(s) / float32(segments), 1 - float32(r)/float32(rings)},
			})
		}
	}

	var indices []int
	for r := 0; r < rings; r++ {
		for s := 0; s < segments; s++ {
			a := r*(segments+1) + s
			b := a + segments + 1
			if r != 0 {
				indices = append(indices, a, a+1, b)
			}
			if r != rings-1 {
				indices = append(indices, a+1, b+1, b)
			}
		}
	}
	m := FromPosNormalUV(vertices, indices, Triangle)
	m.Name = "sphere"
	return m
}

// BoxLines returns the twelve edges of b as line faces.
func BoxLines(b Box, color mgl32.Vec4) *Mesh {
	corners := b.Corners()
	vertices := make([]VertexPosColor, len(corners))
	for i, p := range corners {
		vertices[i] = VertexPosColor{Position: p, Color: color}
	}
	m := FromPosColor(vertices, []int{
		0, 1, 1, 2, 2, 3, 3, 0,
		4, 5, 5, 6, 6, 7, 7, 4,
		0, 4, 1, 5, 2, 6, 3, 7,
	}, Line)
	m.Name = "bounds"
	return m
}
