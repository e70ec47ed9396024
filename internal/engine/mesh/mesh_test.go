package mesh

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quadMesh(t *testing.T) *Mesh {
	t.Helper()
	m := WallQuad()
	m.CreateFacesAndIndices(Quad)
	require.Equal(t, 1, m.FaceCount())
	return m
}

func TestStoreAddRangeKindMismatchPanics(t *testing.T) {
	normals := NewStore[mgl32.Vec3](Normal)
	positions := NewStore[mgl32.Vec3](Position3)
	positions.Append(mgl32.Vec3{1, 2, 3})

	assert.Panics(t, func() { normals.AddRange(positions, 0, 1) })
	assert.Panics(t, func() { normals.AddRange(NewStore[mgl32.Vec2](UV), 0, 0) })
}

func TestNewStoreRejectsWrongWidth(t *testing.T) {
	assert.Panics(t, func() { NewStore[mgl32.Vec2](Position3) })
	assert.Panics(t, func() { NewStore[mgl32.Vec3](Color) })
}

func TestStoreBounds(t *testing.T) {
	s := NewStore[mgl32.Vec3](Position3)
	s.Append(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{-1, 5, 0})
	assert.Equal(t, Box{Min: mgl32.Vec3{-1, 2, 0}, Max: mgl32.Vec3{1, 5, 3}}, s.Bounds())

	s.Set(0, mgl32.Vec3{10, 10, 10})
	assert.Equal(t, mgl32.Vec3{1, 5, 3}, s.Bounds().Max, "Set leaves cached bounds alone")
	assert.Equal(t, mgl32.Vec3{10, 10, 10}, s.CalculateBounds().Max)

	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, Box{}, s.Bounds())
}

func TestStoreBoundsOnNonPositionPanics(t *testing.T) {
	uv := NewStore[mgl32.Vec2](UV)
	assert.Panics(t, func() { uv.Bounds() })
	assert.Panics(t, func() { uv.CalculateBounds() })
}

func TestPosition2BoundsPromoted(t *testing.T) {
	m := ScreenQuad()
	assert.Equal(t, Box{Min: mgl32.Vec3{-1, -1, 0}, Max: mgl32.Vec3{1, 1, 0}}, m.Bounds())
}

func TestCloneEmptyKeepsKinds(t *testing.T) {
	m := Cube()
	c := m.CloneEmpty()
	assert.Equal(t, m.Kinds(), c.Kinds())
	assert.Equal(t, 0, c.VertexCount())
	assert.Equal(t, Quad, c.PrimitiveType)
	assert.Equal(t, "cube", c.Name)
}

func TestAddFaceValidates(t *testing.T) {
	m := WallQuad()
	assert.Panics(t, func() { m.AddFace(0, 1, 4) }, "index past vertex count")
	assert.Panics(t, func() { m.AddFace(0, 1, 2, 3, 0) }, "arity 5")
	assert.Panics(t, func() { m.AddFace() }, "arity 0")

	m.AddFaceWithMaterial(7, 0, 1, 2)
	assert.Equal(t, []int{0, 7}, m.MaterialIDs())
}

func TestExpandPreservesFaceCount(t *testing.T) {
	m := Cube()
	m.CreateFacesAndIndices(Quad)
	m.SetMaterial(2, 5)
	faces := m.FaceCount()

	m.Expand()

	assert.Equal(t, faces, m.FaceCount())
	assert.Equal(t, m.IndexCount(), m.VertexCount())
	assert.Equal(t, 5, m.Face(2).MaterialID)
	assert.Equal(t, []int{0, 5}, m.MaterialIDs())
}

func TestExpandUnsharesVertices(t *testing.T) {
	m := New(Position3)
	m.Positions().Append(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 1, 0})
	m.AddFace(0, 1, 2)
	m.AddFace(2, 1, 3)
	require.Equal(t, 4, m.VertexCount())

	e := m.Expanded()

	assert.Equal(t, 4, m.VertexCount(), "Expanded does not touch the source")
	assert.Equal(t, 6, e.VertexCount())
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, e.Indices())
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, e.Positions().At(3))
}

func TestExpandedWithoutIndicesIsClone(t *testing.T) {
	m := Cube()
	e := m.Expanded()
	assert.Equal(t, 24, e.VertexCount())
	assert.Equal(t, 0, e.FaceCount())

	e.Translate(mgl32.Vec3{1, 0, 0})
	assert.NotEqual(t, m.Positions().At(0), e.Positions().At(0), "clone must not alias")
}

func TestToPrimitiveQuadSplit(t *testing.T) {
	m := quadMesh(t)
	corners := m.Positions().Values()

	tri, err := m.ToPrimitive(Triangle, -1)
	require.NoError(t, err)

	require.Equal(t, 2, tri.FaceCount())
	assert.Equal(t, Triangle, tri.PrimitiveType)
	p := tri.Positions()
	idx := tri.Indices()
	got := [][3]mgl32.Vec3{
		{p.At(idx[0]), p.At(idx[1]), p.At(idx[2])},
		{p.At(idx[3]), p.At(idx[4]), p.At(idx[5])},
	}
	want := [][3]mgl32.Vec3{
		{corners[0], corners[1], corners[3]},
		{corners[2], corners[3], corners[1]},
	}
	assert.Equal(t, want, got)
}

func TestToPrimitiveMaterialFilterAndIDs(t *testing.T) {
	m := Cube()
	m.CreateFacesAndIndices(Quad)
	m.SetMaterial(0, 3)
	m.SetMaterial(1, 3)

	tri, err := m.ToPrimitive(Triangle, 3)
	require.NoError(t, err)
	assert.Equal(t, 4, tri.FaceCount())
	for _, f := range tri.Faces() {
		assert.Equal(t, 3, f.MaterialID)
	}

	all, err := m.ToPrimitive(Triangle, -1)
	require.NoError(t, err)
	assert.Equal(t, 12, all.FaceCount())
	assert.Len(t, all.IndicesForMaterial(3), 12)
	assert.Len(t, all.IndicesForMaterial(0), 24)
}

func TestToPrimitiveUnsupported(t *testing.T) {
	grid := Grid(1, 1, mgl32.Vec4{1, 1, 1, 1})

	_, err := grid.ToPrimitive(Triangle, -1)
	assert.ErrorIs(t, err, ErrUnsupportedConversion)

	_, err = quadMesh(t).ToPrimitive(Quad, -1)
	assert.ErrorIs(t, err, ErrUnsupportedConversion)

	lines, err := grid.ToPrimitive(Line, -1)
	require.NoError(t, err)
	assert.Equal(t, grid.FaceCount(), lines.FaceCount())
}

func TestCubeToTriangles(t *testing.T) {
	m := Cube()
	require.Equal(t, 24, m.VertexCount())

	m.CreateFacesAndIndices(Quad)
	require.Equal(t, 6, m.FaceCount())

	tri, err := m.ToPrimitive(Triangle, -1)
	require.NoError(t, err)
	assert.Equal(t, 12, tri.FaceCount())
	assert.Equal(t, 36, tri.IndexCount())
	idx, ranges := tri.Partition()
	assert.Len(t, idx, 36)
	assert.Len(t, ranges, 1)
}

func TestToPrimitiveGeneratesFaces(t *testing.T) {
	m := Cube()
	tri, err := m.ToPrimitive(Triangle, -1)
	require.NoError(t, err)
	assert.Equal(t, 6, m.FaceCount(), "source gets faces from its primitive type")
	assert.Equal(t, 12, tri.FaceCount())
}

func TestAddMeshMaterialFilter(t *testing.T) {
	a := quadMesh(t)

	b := Cube()
	b.CreateFacesAndIndices(Quad)
	b.SetMaterial(1, 4)
	b.SetMaterial(3, 4)

	a.AddMesh(b, -1, 4)

	assert.Equal(t, 3, a.FaceCount())
	assert.Equal(t, 0, a.Face(0).MaterialID, "existing faces untouched")
	assert.Equal(t, 4, a.Face(1).MaterialID)
	assert.Equal(t, 4, a.Face(2).MaterialID)
	assert.Equal(t, 12, a.VertexCount())
	assert.Equal(t, []int{0, 4}, a.MaterialIDs())

	// Copied faces reference copied data, not b's vertices.
	assert.Equal(t, b.Positions().At(4), a.Positions().At(4))
	b.Translate(mgl32.Vec3{0, 5, 0})
	assert.NotEqual(t, b.Positions().At(4), a.Positions().At(4))
}

func TestAddMeshAssignsNewMaterial(t *testing.T) {
	a := New(PosNormalUV.Kinds()...)
	b := Cube()

	a.AddMesh(b, 9, -1)

	assert.Equal(t, 6, a.FaceCount())
	assert.Equal(t, 6, b.FaceCount(), "faces materialized on the source")
	assert.Equal(t, Quad, a.PrimitiveType)
	assert.Equal(t, []int{0, 9}, a.MaterialIDs())
	assert.Len(t, a.IndicesForMaterial(9), 24)
	assert.Empty(t, a.IndicesForMaterial(0))
}

func TestAddMeshIntoEmptyMeshAdoptsKinds(t *testing.T) {
	a := New()
	a.AddMesh(Sphere(8, 4), -1, -1)
	assert.Equal(t, PosNormalUV.Kinds(), a.Kinds())
	assert.Equal(t, a.IndexCount(), a.VertexCount())
}

func TestAddVerticesSkipsMissingComponents(t *testing.T) {
	dst := New(Position3, Color)
	src := New(Position3)
	src.Positions().Append(mgl32.Vec3{1, 1, 1})

	assert.NotPanics(t, func() { dst.AddVertex(src, 0) })
	assert.Equal(t, 1, dst.Positions().Len())
	assert.Equal(t, 0, dst.Colors().Len())
}

func TestIndicesForMaterialKeepsOrder(t *testing.T) {
	m := New(Position3)
	for i := 0; i < 6; i++ {
		m.Positions().Append(mgl32.Vec3{float32(i), 0, 0})
	}
	m.AddFaceWithMaterial(1, 5, 4, 3)
	m.AddFaceWithMaterial(0, 0, 1, 2)
	m.AddFaceWithMaterial(1, 2, 1, 0)

	assert.Equal(t, []int{5, 4, 3, 2, 1, 0}, m.IndicesForMaterial(1))
	assert.Equal(t, []int{0, 1, 2}, m.IndicesForMaterial(0))
	assert.Empty(t, m.IndicesForMaterial(2))

	idx, ranges := m.Partition()
	assert.Equal(t, []uint32{0, 1, 2, 5, 4, 3, 2, 1, 0}, idx)
	assert.Equal(t, []MaterialRange{
		{MaterialID: 0, Start: 0, Count: 3},
		{MaterialID: 1, Start: 3, Count: 6},
	}, ranges)
}

func TestReplaceMaterial(t *testing.T) {
	m := Cube()
	m.CreateFacesAndIndices(Quad)
	m.SetMaterial(0, 2)
	m.ReplaceMaterial(2, 6)

	assert.Equal(t, 6, m.Face(0).MaterialID)
	assert.Equal(t, []int{0, 6}, m.MaterialIDs())
}

func TestCreateFacesFromIndices(t *testing.T) {
	m := Sphere(6, 3)
	n := m.IndexCount()
	m.CreateFacesFromIndices(Triangle)
	assert.Equal(t, n/3, m.FaceCount())
	for _, f := range m.Faces() {
		assert.Equal(t, 0, f.MaterialID)
	}
}

func TestReverseWindingOrder(t *testing.T) {
	m := quadMesh(t)
	m.ReverseWindingOrder()
	assert.Equal(t, []int{3, 2, 1, 0}, m.Indices())

	m.AddFace(0, 1, 2)
	m.ReverseFaceWinding(1)
	assert.Equal(t, []int{3, 2, 1, 0, 2, 1, 0}, m.Indices())
}

func TestTransformsOnlyTouchPositions(t *testing.T) {
	m := WallQuad()
	normal := m.Normals().At(0)
	uv := m.UVs().At(0)

	m.Translate(mgl32.Vec3{0, 0, 2})
	m.Scale(mgl32.Vec3{2, 2, 1})
	m.Rotate(mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0}))

	assert.Equal(t, normal, m.Normals().At(0))
	assert.Equal(t, uv, m.UVs().At(0))

	b := m.Bounds()
	assert.InDelta(t, 2, b.Center()[0], 1e-5)
	assert.InDelta(t, 2, b.Size()[1], 1e-5)
}

func TestScaleUniform2D(t *testing.T) {
	m := ScreenQuad()
	m.ScaleUniform(0.5)
	m.Translate2D(mgl32.Vec2{1, 0})
	assert.Equal(t, Box{Min: mgl32.Vec3{0.5, -0.5, 0}, Max: mgl32.Vec3{1.5, 0.5, 0}}, m.Bounds())
}

func TestStringSummary(t *testing.T) {
	m := quadMesh(t)
	assert.Equal(t, "Vertices=4 Indices=4 Faces=1 Type=quad Materials=1", m.String())
}
