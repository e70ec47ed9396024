package mesh

import "github.com/go-gl/mathgl/mgl32"

// Translate moves every 3D position by d.
func (m *Mesh) Translate(d mgl32.Vec3) {
	s := m.Positions()
	if s == nil {
		return
	}
	for i, p := range s.data {
		s.data[i] = p.Add(d)
	}
	s.CalculateBounds()
}

// Translate2D moves every 2D position by d.
func (m *Mesh) Translate2D(d mgl32.Vec2) {
	s := m.Positions2D()
	if s == nil {
		return
	}
	for i, p := range s.data {
		s.data[i] = p.Add(d)
	}
	s.CalculateBounds()
}

// Scale multiplies every 3D position component-wise by f.
func (m *Mesh) Scale(f mgl32.Vec3) {
	s := m.Positions()
	if s == nil {
		return
	}
	for i, p := range s.data {
		s.data[i] = mgl32.Vec3{p[0] * f[0], p[1] * f[1], p[2] * f[2]}
	}
	s.CalculateBounds()
}

// Scale2D scales 2D positions, or the x and y of 3D positions when the
// mesh has no 2D positions.
func (m *Mesh) Scale2D(f mgl32.Vec2) {
	if s := m.Positions2D(); s != nil {
		for i, p := range s.data {
			s.data[i] = mgl32.Vec2{p[0] * f[0], p[1] * f[1]}
		}
		s.CalculateBounds()
		return
	}
	m.Scale(mgl32.Vec3{f[0], f[1], 1})
}

// ScaleUniform scales all positions by f.
func (m *Mesh) ScaleUniform(f float32) {
	if m.HasComponent(Position3) {
		m.Scale(mgl32.Vec3{f, f, f})
		return
	}
	m.Scale2D(mgl32.Vec2{f, f})
}

// Rotate rotates every 3D position by q about the origin.
func (m *Mesh) Rotate(q mgl32.Quat) {
	s := m.Positions()
	if s == nil {
		return
	}
	for i, p := range s.data {
		s.data[i] = q.Rotate(p)
	}
	s.CalculateBounds()
}

// Bounds returns the cached bounds of the 3D positions, or of the 2D
// positions promoted to z=0. A mesh without positions has a zero box.
func (m *Mesh) Bounds() Box {
	if s := m.Positions(); s != nil {
		return s.Bounds()
	}
	if s := m.Positions2D(); s != nil {
		return s.Bounds()
	}
	return Box{}
}

// CalculateBounds recomputes and returns the position bounds.
func (m *Mesh) CalculateBounds() Box {
	if s := m.Positions(); s != nil {
		return s.CalculateBounds()
	}
	if s := m.Positions2D(); s != nil {
		return s.CalculateBounds()
	}
	return Box{}
}
