package mesh

import "fmt"

// Expand rewrites the mesh so no vertex is shared between faces.
func (m *Mesh) Expand() {
	m.replace(m.Expanded())
}

// Expanded returns a copy in which every face corner has its own vertex.
// Face order, corner order and material ids are kept. A mesh without
// indices is returned as a plain clone.
func (m *Mesh) Expanded() *Mesh {
	if len(m.indices) == 0 {
		return m.Clone()
	}
	out := m.CloneEmpty()
	corners := make([]int, 0, int(Quad))
	for _, f := range m.faces {
		corners = corners[:0]
		for i := 0; i < f.Count; i++ {
			corners = append(corners, out.AddVertex(m, m.indices[f.Index(i)]))
		}
		out.AddFaceWithMaterial(f.MaterialID, corners...)
	}
	for id := range m.materialIDs {
		out.materialIDs[id] = struct{}{}
	}
	return out
}

// ToPrimitive returns a copy made only of target faces, with unshared
// vertices. Quads split into (0,1,3) and (2,3,1). A materialFilter of -1
// keeps every face; otherwise only faces with that material are converted.
// A mesh without faces first gets faces generated from its vertices.
func (m *Mesh) ToPrimitive(target FaceType, materialFilter int) (*Mesh, error) {
	out := m.CloneEmpty()
	out.PrimitiveType = target

	if m.FaceCount() == 0 {
		m.CreateFacesAndIndices(m.PrimitiveType)
	}

	for _, f := range m.faces {
		if materialFilter != -1 && f.MaterialID != materialFilter {
			continue
		}
		switch {
		case f.Type() == target && target != Quad:
			out.copyFace(m, f, f.MaterialID, 0, 1, 2, 3)
		case f.Type() == Quad && target == Triangle:
			out.copyFace(m, f, f.MaterialID, 0, 1, 3)
			out.copyFace(m, f, f.MaterialID, 2, 3, 1)
		default:
			return nil, fmt.Errorf("%w: %s face to %s", ErrUnsupportedConversion, f.Type(), target)
		}
	}
	return out, nil
}

// copyFace appends the listed corners of src face f as a new face.
// Corners past the face arity are ignored.
func (m *Mesh) copyFace(src *Mesh, f Face, materialID int, corners ...int) {
	idx := make([]int, 0, len(corners))
	for _, c := range corners {
		if c >= f.Count {
			break
		}
		idx = append(idx, m.AddVertex(src, src.indices[f.Index(c)]))
	}
	m.AddFaceWithMaterial(materialID, idx...)
}

// AddMesh appends the faces of other, copying their vertices.
//
// filterMaterialID of -1 copies every face, otherwise only faces with that
// material. newMaterialID of -1 keeps each face's material, otherwise every
// copied face gets newMaterialID. Either mesh without faces first gets
// faces generated from its vertices. A mesh with no components adopts the
// component kinds of other.
func (m *Mesh) AddMesh(other *Mesh, newMaterialID, filterMaterialID int) {
	if len(m.components) == 0 {
		for _, c := range other.components {
			m.components = append(m.components, c.CloneEmpty())
		}
	}
	if m.FaceCount() == 0 {
		m.CreateFacesAndIndices(m.PrimitiveType)
	}
	if other.FaceCount() == 0 {
		other.CreateFacesAndIndices(other.PrimitiveType)
	}
	if other.PrimitiveType > m.PrimitiveType {
		m.PrimitiveType = other.PrimitiveType
	}

	corners := make([]int, 0, int(Quad))
	for _, f := range other.faces {
		if filterMaterialID > -1 && f.MaterialID != filterMaterialID {
			continue
		}
		corners = corners[:0]
		for i := 0; i < f.Count; i++ {
			corners = append(corners, m.AddVertex(other, other.indices[f.Index(i)]))
		}
		id := f.MaterialID
		if newMaterialID != -1 {
			id = newMaterialID
		}
		m.AddFaceWithMaterial(id, corners...)
	}
}
