package mesh

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// positionKey buckets positions so that corners at the same spot compare equal.
type positionKey [3]int32

const keyScale = 1e5

func keyOf(p mgl32.Vec3) positionKey {
	return positionKey{
		int32(math32.Round(p[0] * keyScale)),
		int32(math32.Round(p[1] * keyScale)),
		int32(math32.Round(p[2] * keyScale)),
	}
}

// RecalculateNormals rebuilds vertex normals from face geometry.
//
// The mesh is expanded first so every face corner owns its vertex. Each
// corner then gets the area-weighted average of the normals of all faces
// that touch its position and whose normal lies within angle degrees of
// its own face normal. Faces further apart than angle meet at a hard edge.
// Corners whose sum is zero (points, lines, degenerate faces) get +Y.
func (m *Mesh) RecalculateNormals(angle float32) {
	positions := m.Positions()
	if positions == nil {
		return
	}
	if m.FaceCount() == 0 {
		m.CreateFacesAndIndices(m.PrimitiveType)
	}
	m.Expand()
	positions = m.Positions()

	cosThreshold := math32.Cos(mgl32.DegToRad(angle))

	// Area-weighted (unnormalized) and unit normal per face.
	weighted := make([]mgl32.Vec3, len(m.faces))
	unit := make([]mgl32.Vec3, len(m.faces))
	byPosition := make(map[positionKey][]int)
	for fi, f := range m.faces {
		n := newellNormal(positions, m.indices[f.Start:f.Start+f.Count])
		weighted[fi] = n
		if l := n.Len(); l > 1e-12 {
			unit[fi] = n.Mul(1 / l)
		}
		for i := 0; i < f.Count; i++ {
			k := keyOf(positions.At(m.indices[f.Index(i)]))
			byPosition[k] = append(byPosition[k], fi)
		}
	}

	normals := make([]mgl32.Vec3, m.VertexCount())
	for fi, f := range m.faces {
		for i := 0; i < f.Count; i++ {
			v := m.indices[f.Index(i)]
			var sum mgl32.Vec3
			for _, other := range byPosition[keyOf(positions.At(v))] {
				if other == fi || unit[fi].Dot(unit[other]) >= cosThreshold {
					sum = sum.Add(weighted[other])
				}
			}
			normals[v] = normalizeOr(sum, mgl32.Vec3{0, 1, 0})
		}
	}
	m.SetNormals(normals)
}

// newellNormal returns the polygon normal scaled by twice its area.
func newellNormal(positions *Store[mgl32.Vec3], corners []int) mgl32.Vec3 {
	if len(corners) < 3 {
		return mgl32.Vec3{}
	}
	var n mgl32.Vec3
	for i := range corners {
		a := positions.At(corners[i])
		b := positions.At(corners[(i+1)%len(corners)])
		n[0] += (a[1] - b[1]) * (a[2] + b[2])
		n[1] += (a[2] - b[2]) * (a[0] + b[0])
		n[2] += (a[0] - b[0]) * (a[1] + b[1])
	}
	return n
}

func normalizeOr(v, fallback mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l < 1e-12 || math32.IsNaN(l) {
		return fallback
	}
	return v.Mul(1 / l)
}
