package mesh

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// VertexFormat names an interleaved vertex layout.
type VertexFormat uint8

const (
	PosNormalUV VertexFormat = iota
	PosNormalColor
	PosColor
	Pos2UV
	PosUV
	formatCount
)

var formats = [formatCount]struct {
	name  string
	kinds []Kind
}{
	PosNormalUV:    {"PosNormalUV", []Kind{Position3, Normal, UV}},
	PosNormalColor: {"PosNormalColor", []Kind{Position3, Normal, Color}},
	PosColor:       {"PosColor", []Kind{Position3, Color}},
	Pos2UV:         {"Pos2UV", []Kind{Position2, UV}},
	PosUV:          {"PosUV", []Kind{Position3, UV}},
}

func (f VertexFormat) String() string {
	if f >= formatCount {
		return fmt.Sprintf("VertexFormat(%d)", f)
	}
	return formats[f].name
}

// Kinds returns the component kinds of the format in interleave order.
func (f VertexFormat) Kinds() []Kind {
	return formats[f].kinds
}

// FloatsPerVertex returns the interleaved vertex size in floats.
func (f VertexFormat) FloatsPerVertex() int {
	n := 0
	for _, k := range f.Kinds() {
		n += k.Floats()
	}
	return n
}

// FormatOf returns the format whose kinds exactly match the mesh components.
func FormatOf(m *Mesh) (VertexFormat, bool) {
	for f := VertexFormat(0); f < formatCount; f++ {
		if m.IsCompatible(f) {
			return f, true
		}
	}
	return 0, false
}

// IsCompatible reports whether the mesh has exactly the components of f.
func (m *Mesh) IsCompatible(f VertexFormat) bool {
	kinds := f.Kinds()
	if len(kinds) != len(m.components) {
		return false
	}
	for _, k := range kinds {
		if !m.HasComponent(k) {
			return false
		}
	}
	return true
}

// Interleave flattens the components f names into one float slice, vertex
// by vertex, in format order. Extra mesh components are ignored.
func (m *Mesh) Interleave(f VertexFormat) ([]float32, error) {
	kinds := f.Kinds()
	comps := make([]Component, len(kinds))
	for i, k := range kinds {
		comps[i] = m.Component(k)
		if comps[i] == nil {
			return nil, fmt.Errorf("%w: %s needs %s", ErrMissingComponent, f, k)
		}
	}
	if err := m.CheckComponents(); err != nil {
		return nil, err
	}
	n := m.VertexCount()
	out := make([]float32, 0, n*f.FloatsPerVertex())
	for v := 0; v < n; v++ {
		for _, c := range comps {
			out = c.AppendFloats(out, v)
		}
	}
	return out, nil
}

// Typed vertices used to build meshes.
type (
	VertexPosNormalUV struct {
		Position mgl32.Vec3
		Normal   mgl32.Vec3
		UV       mgl32.Vec2
	}
	VertexPosNormalColor struct {
		Position mgl32.Vec3
		Normal   mgl32.Vec3
		Color    mgl32.Vec4
	}
	VertexPosColor struct {
		Position mgl32.Vec3
		Color    mgl32.Vec4
	}
	VertexPos2UV struct {
		Position mgl32.Vec2
		UV       mgl32.Vec2
	}
	VertexPosUV struct {
		Position mgl32.Vec3
		UV       mgl32.Vec2
	}
)

// FromPosNormalUV builds a mesh from vertices. When indices is non-nil it
// is split into faces of faceType; otherwise the mesh has no faces yet.
func FromPosNormalUV(vertices []VertexPosNormalUV, indices []int, faceType FaceType) *Mesh {
	m := New(PosNormalUV.Kinds()...)
	p, n, uv := m.Positions(), m.Normals(), m.UVs()
	for _, v := range vertices {
		p.Append(v.Position)
		n.Append(v.Normal)
		uv.Append(v.UV)
	}
	return m.withFaces(indices, faceType)
}

// FromPosNormalColor builds a mesh from vertices; see FromPosNormalUV.
func FromPosNormalColor(vertices []VertexPosNormalColor, indices []int, faceType FaceType) *Mesh {
	m := New(PosNormalColor.Kinds()...)
	p, n, c := m.Positions(), m.Normals(), m.Colors()
	for _, v := range vertices {
		p.Append(v.Position)
		n.Append(v.Normal)
		c.Append(v.Color)
	}
	return m.withFaces(indices, faceType)
}

// FromPosColor builds a mesh from vertices; see FromPosNormalUV.
func FromPosColor(vertices []VertexPosColor, indices []int, faceType FaceType) *Mesh {
	m := New(PosColor.Kinds()...)
	p, c := m.Positions(), m.Colors()
	for _, v := range vertices {
		p.Append(v.Position)
		c.Append(v.Color)
	}
	return m.withFaces(indices, faceType)
}

// FromPos2UV builds a mesh from vertices; see FromPosNormalUV.
func FromPos2UV(vertices []VertexPos2UV, indices []int, faceType FaceType) *Mesh {
	m := New(Pos2UV.Kinds()...)
	p, uv := m.Positions2D(), m.UVs()
	for _, v := range vertices {
		p.Append(v.Position)
		uv.Append(v.UV)
	}
	return m.withFaces(indices, faceType)
}

// FromPosUV builds a mesh from vertices; see FromPosNormalUV.
func FromPosUV(vertices []VertexPosUV, indices []int, faceType FaceType) *Mesh {
	m := New(PosUV.Kinds()...)
	p, uv := m.Positions(), m.UVs()
	for _, v := range vertices {
		p.Append(v.Position)
		uv.Append(v.UV)
	}
	return m.withFaces(indices, faceType)
}

func (m *Mesh) withFaces(indices []int, faceType FaceType) *Mesh {
	m.PrimitiveType = faceType
	if indices == nil {
		return m
	}
	n := int(faceType)
	for i := 0; i+n <= len(indices); i += n {
		m.AddFace(indices[i : i+n]...)
	}
	return m
}
