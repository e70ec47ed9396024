package mesh

import (
	"errors"
	"fmt"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/axion/internal/logger"
)

// ErrUnsupportedConversion is returned when a face cannot be converted to
// the requested face type.
var ErrUnsupportedConversion = errors.New("unsupported face conversion")

// ErrMissingComponent is returned when a mesh lacks a component a vertex format needs.
var ErrMissingComponent = errors.New("missing mesh component")

// Mesh is a set of attribute components sharing one vertex count, plus
// faces indexing into a flat index array.
type Mesh struct {
	Name string
	// PrimitiveType is the face type used when faces are generated from vertices.
	PrimitiveType FaceType

	components  []Component
	faces       []Face
	indices     []int
	materialIDs map[int]struct{}
}

// New creates an empty mesh with one store per kind, in the given order.
func New(kinds ...Kind) *Mesh {
	m := &Mesh{
		PrimitiveType: Triangle,
		materialIDs:   map[int]struct{}{0: {}},
	}
	for _, k := range kinds {
		m.AddComponent(k)
	}
	return m
}

// AddComponent adds an empty store for kind and returns it.
// Adding a kind the mesh already has panics.
func (m *Mesh) AddComponent(kind Kind) Component {
	if m.HasComponent(kind) {
		panic(fmt.Sprintf("mesh: duplicate %s component", kind))
	}
	c := NewComponent(kind)
	m.components = append(m.components, c)
	return c
}

// Component returns the store for kind, or nil.
func (m *Mesh) Component(kind Kind) Component {
	for _, c := range m.components {
		if c.Kind() == kind {
			return c
		}
	}
	return nil
}

// Components returns the stores in mesh order.
func (m *Mesh) Components() []Component {
	return m.components
}

// HasComponent reports whether the mesh has a store for kind.
func (m *Mesh) HasComponent(kind Kind) bool {
	return m.Component(kind) != nil
}

// Kinds returns the component kinds in mesh order.
func (m *Mesh) Kinds() []Kind {
	out := make([]Kind, len(m.components))
	for i, c := range m.components {
		out[i] = c.Kind()
	}
	return out
}

func typed[T Vector](m *Mesh, kind Kind) *Store[T] {
	c := m.Component(kind)
	if c == nil {
		return nil
	}
	return c.(*Store[T])
}

// Positions returns the 3D position store, or nil.
func (m *Mesh) Positions() *Store[mgl32.Vec3] { return typed[mgl32.Vec3](m, Position3) }

// Positions2D returns the 2D position store, or nil.
func (m *Mesh) Positions2D() *Store[mgl32.Vec2] { return typed[mgl32.Vec2](m, Position2) }

// Normals returns the normal store, or nil.
func (m *Mesh) Normals() *Store[mgl32.Vec3] { return typed[mgl32.Vec3](m, Normal) }

// UVs returns the texture coordinate store, or nil.
func (m *Mesh) UVs() *Store[mgl32.Vec2] { return typed[mgl32.Vec2](m, UV) }

// Colors returns the color store, or nil.
func (m *Mesh) Colors() *Store[mgl32.Vec4] { return typed[mgl32.Vec4](m, Color) }

// VertexCount is the element count of the first component.
func (m *Mesh) VertexCount() int {
	if len(m.components) == 0 {
		return 0
	}
	return m.components[0].Len()
}

// CheckComponents reports components whose element count differs from the
// vertex count, as left behind when AddMesh merges a source lacking them.
func (m *Mesh) CheckComponents() error {
	n := m.VertexCount()
	for _, c := range m.components {
		if c.Len() != n {
			return fmt.Errorf("%w: %s has %d of %d vertices", ErrMissingComponent, c.Kind(), c.Len(), n)
		}
	}
	return nil
}

// FaceCount returns the number of faces.
func (m *Mesh) FaceCount() int { return len(m.faces) }

// Faces returns the face table. Callers must not modify it.
func (m *Mesh) Faces() []Face { return m.faces }

// Face returns face i.
func (m *Mesh) Face(i int) Face { return m.faces[i] }

// IndexCount returns the length of the index array.
func (m *Mesh) IndexCount() int { return len(m.indices) }

// Indices returns a copy of the index array.
func (m *Mesh) Indices() []int {
	return slices.Clone(m.indices)
}

// IndicesForMaterial returns the indices of every face with materialID, in
// face order, keeping each face's corner order.
func (m *Mesh) IndicesForMaterial(materialID int) []int {
	var out []int
	for _, f := range m.faces {
		if f.MaterialID != materialID {
			continue
		}
		out = append(out, m.indices[f.Start:f.Start+f.Count]...)
	}
	return out
}

// MaterialRange is a contiguous run of a partitioned index array.
type MaterialRange struct {
	MaterialID int
	Start      int
	Count      int
}

// Partition returns the indices grouped by material, in ascending material
// id order, and the range each material occupies.
func (m *Mesh) Partition() ([]uint32, []MaterialRange) {
	out := make([]uint32, 0, len(m.indices))
	var ranges []MaterialRange
	for _, id := range m.MaterialIDs() {
		idx := m.IndicesForMaterial(id)
		if len(idx) == 0 {
			continue
		}
		ranges = append(ranges, MaterialRange{MaterialID: id, Start: len(out), Count: len(idx)})
		for _, v := range idx {
			out = append(out, uint32(v))
		}
	}
	return out, ranges
}

// MaterialIDs returns the material ids in ascending order. It always contains 0.
func (m *Mesh) MaterialIDs() []int {
	out := make([]int, 0, len(m.materialIDs))
	for id := range m.materialIDs {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// MaterialCount returns the number of material ids.
func (m *Mesh) MaterialCount() int { return len(m.materialIDs) }

// AddFace appends a face with material 0.
func (m *Mesh) AddFace(indices ...int) {
	m.AddFaceWithMaterial(0, indices...)
}

// AddFaceWithMaterial appends a face with the given material.
// It panics if the arity is not 1..4 or an index is out of range.
func (m *Mesh) AddFaceWithMaterial(materialID int, indices ...int) {
	if !FaceType(len(indices)).valid() {
		panic(fmt.Sprintf("mesh: face arity %d", len(indices)))
	}
	n := m.VertexCount()
	for _, idx := range indices {
		if idx < 0 || idx >= n {
			panic(fmt.Sprintf("mesh: index %d out of range [0,%d)", idx, n))
		}
	}
	m.faces = append(m.faces, Face{Start: len(m.indices), Count: len(indices), MaterialID: materialID})
	m.indices = append(m.indices, indices...)
	m.materialIDs[materialID] = struct{}{}
}

// AddFaceFromVertices adds a face over consecutive vertices starting at start.
func (m *Mesh) AddFaceFromVertices(start int, faceType FaceType) {
	if !faceType.valid() {
		panic(fmt.Sprintf("mesh: invalid face type %d", faceType))
	}
	idx := make([]int, int(faceType))
	for i := range idx {
		idx[i] = start + i
	}
	m.AddFace(idx...)
}

// AddFaceFromVerticesTail adds a face over the last vertices of the mesh.
func (m *Mesh) AddFaceFromVerticesTail(faceType FaceType) {
	m.AddFaceFromVertices(m.VertexCount()-int(faceType), faceType)
}

// CreateFacesFromIndices rebuilds the face table by splitting the existing
// index array into faces of faceType. Every face gets material 0.
func (m *Mesh) CreateFacesFromIndices(faceType FaceType) {
	n := int(faceType)
	m.faces = m.faces[:0]
	for i := 0; i+n <= len(m.indices); i += n {
		m.faces = append(m.faces, Face{Start: i, Count: n})
	}
	m.materialIDs[0] = struct{}{}
}

// CreateFacesAndIndices replaces faces and indices with one face per run of
// consecutive vertices.
func (m *Mesh) CreateFacesAndIndices(faceType FaceType) {
	m.faces = m.faces[:0]
	m.indices = m.indices[:0]
	n := int(faceType)
	for i := 0; i+n <= m.VertexCount(); i += n {
		m.AddFaceFromVertices(i, faceType)
	}
}

// SetMaterial assigns a material to face i.
func (m *Mesh) SetMaterial(face, materialID int) {
	m.faces[face].MaterialID = materialID
	m.materialIDs[materialID] = struct{}{}
}

// ReplaceMaterial moves every face using oldID to newID.
func (m *Mesh) ReplaceMaterial(oldID, newID int) {
	for i := range m.faces {
		if m.faces[i].MaterialID == oldID {
			m.faces[i].MaterialID = newID
		}
	}
	if oldID != 0 {
		delete(m.materialIDs, oldID)
	}
	m.materialIDs[newID] = struct{}{}
}

// ReverseWindingOrder reverses the corner order of every face.
func (m *Mesh) ReverseWindingOrder() {
	for i := range m.faces {
		m.ReverseFaceWinding(i)
	}
}

// ReverseFaceWinding reverses the corner order of face i.
func (m *Mesh) ReverseFaceWinding(i int) {
	f := m.faces[i]
	slices.Reverse(m.indices[f.Start : f.Start+f.Count])
}

// AddVertex copies vertex index of src and returns its index in m.
func (m *Mesh) AddVertex(src *Mesh, index int) int {
	m.AddVertices(src, index, 1)
	return m.VertexCount() - 1
}

// AddVertices copies count vertices of src starting at start. Components
// src does not have are left untouched.
func (m *Mesh) AddVertices(src *Mesh, start, count int) {
	for _, c := range m.components {
		sc := src.Component(c.Kind())
		if sc == nil {
			logger.Debug("mesh: source lacks component, skipped",
				zap.Stringer("kind", c.Kind()),
				zap.String("source", src.Name),
				zap.String("target", m.Name),
			)
			continue
		}
		c.AddRange(sc, start, count)
	}
}

// SetNormals replaces the normal component, creating it if needed.
func (m *Mesh) SetNormals(normals []mgl32.Vec3) {
	s := m.Normals()
	if s == nil {
		s = m.AddComponent(Normal).(*Store[mgl32.Vec3])
	}
	s.Clear()
	s.Append(normals...)
}

// CloneEmpty returns a mesh with the same component kinds, name and
// primitive type but no vertices or faces.
func (m *Mesh) CloneEmpty() *Mesh {
	out := &Mesh{
		Name:          m.Name,
		PrimitiveType: m.PrimitiveType,
		components:    make([]Component, 0, len(m.components)),
		materialIDs:   map[int]struct{}{0: {}},
	}
	for _, c := range m.components {
		out.components = append(out.components, c.CloneEmpty())
	}
	return out
}

// Clone returns a deep copy.
func (m *Mesh) Clone() *Mesh {
	out := m.CloneEmpty()
	for i, c := range m.components {
		out.components[i].AddRange(c, 0, c.Len())
	}
	out.faces = slices.Clone(m.faces)
	out.indices = slices.Clone(m.indices)
	for id := range m.materialIDs {
		out.materialIDs[id] = struct{}{}
	}
	return out
}

func (m *Mesh) replace(src *Mesh) {
	m.components = src.components
	m.faces = src.faces
	m.indices = src.indices
	m.materialIDs = src.materialIDs
	m.PrimitiveType = src.PrimitiveType
}

func (m *Mesh) String() string {
	return fmt.Sprintf("Vertices=%d Indices=%d Faces=%d Type=%s Materials=%d",
		m.VertexCount(), len(m.indices), len(m.faces), m.PrimitiveType, len(m.materialIDs))
}
