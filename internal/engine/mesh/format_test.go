package mesh

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterleaveOrder(t *testing.T) {
	m := FromPosNormalUV([]VertexPosNormalUV{
		{Position: mgl32.Vec3{1, 2, 3}, Normal: mgl32.Vec3{0, 1, 0}, UV: mgl32.Vec2{0.25, 0.75}},
		{Position: mgl32.Vec3{4, 5, 6}, Normal: mgl32.Vec3{0, 0, 1}, UV: mgl32.Vec2{1, 0}},
	}, nil, Point)

	data, err := m.Interleave(PosNormalUV)
	require.NoError(t, err)
	assert.Equal(t, []float32{
		1, 2, 3, 0, 1, 0, 0.25, 0.75,
		4, 5, 6, 0, 0, 1, 1, 0,
	}, data)

	// A subset format ignores the extra normal component.
	data, err = m.Interleave(PosUV)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3, 0.25, 0.75, 4, 5, 6, 1, 0}, data)
}

func TestInterleaveMissingComponent(t *testing.T) {
	_, err := Cube().Interleave(PosColor)
	assert.ErrorIs(t, err, ErrMissingComponent)
}

func TestInterleaveAfterPartialMerge(t *testing.T) {
	lit := FromPosNormalColor([]VertexPosNormalColor{
		{Position: mgl32.Vec3{0, 0, 0}, Normal: mgl32.Vec3{0, 0, 1}, Color: mgl32.Vec4{1, 0, 0, 1}},
		{Position: mgl32.Vec3{1, 0, 0}, Normal: mgl32.Vec3{0, 0, 1}, Color: mgl32.Vec4{1, 0, 0, 1}},
		{Position: mgl32.Vec3{0, 1, 0}, Normal: mgl32.Vec3{0, 0, 1}, Color: mgl32.Vec4{1, 0, 0, 1}},
	}, []int{0, 1, 2}, Triangle)
	require.NoError(t, lit.CheckComponents())

	unlit := FromPosColor([]VertexPosColor{
		{Position: mgl32.Vec3{0, 0, 1}, Color: mgl32.Vec4{0, 1, 0, 1}},
		{Position: mgl32.Vec3{1, 0, 1}, Color: mgl32.Vec4{0, 1, 0, 1}},
		{Position: mgl32.Vec3{0, 1, 1}, Color: mgl32.Vec4{0, 1, 0, 1}},
	}, []int{0, 1, 2}, Triangle)
	lit.AddMesh(unlit, -1, -1)

	assert.Equal(t, 6, lit.VertexCount())
	assert.Equal(t, 3, lit.Normals().Len(), "merge leaves the missing kind untouched")

	err := lit.CheckComponents()
	require.ErrorIs(t, err, ErrMissingComponent)
	assert.Contains(t, err.Error(), "normal")

	assert.NotPanics(t, func() {
		_, err = lit.Interleave(PosNormalColor)
	})
	assert.ErrorIs(t, err, ErrMissingComponent)
}

func TestFormatTable(t *testing.T) {
	tests := []struct {
		format VertexFormat
		floats int
		mesh   *Mesh
	}{
		{PosNormalUV, 8, Cube()},
		{PosNormalColor, 10, FromPosNormalColor(nil, nil, Triangle)},
		{PosColor, 7, Grid(1, 1, mgl32.Vec4{})},
		{Pos2UV, 4, ScreenQuad()},
		{PosUV, 5, FromPosUV(nil, nil, Triangle)},
	}
	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			assert.Equal(t, tt.floats, tt.format.FloatsPerVertex())
			assert.True(t, tt.mesh.IsCompatible(tt.format))
			f, ok := FormatOf(tt.mesh)
			require.True(t, ok)
			assert.Equal(t, tt.format, f)
		})
	}

	assert.False(t, Cube().IsCompatible(PosUV), "extra normals make it incompatible")
	_, ok := FormatOf(New(Normal))
	assert.False(t, ok)
}

func TestFromVerticesWithIndices(t *testing.T) {
	m := FromPosColor([]VertexPosColor{
		{Position: mgl32.Vec3{0, 0, 0}},
		{Position: mgl32.Vec3{1, 0, 0}},
		{Position: mgl32.Vec3{1, 1, 0}},
		{Position: mgl32.Vec3{0, 1, 0}},
	}, []int{0, 1, 2, 0, 2, 3}, Triangle)

	assert.Equal(t, 2, m.FaceCount())
	assert.Equal(t, []int{0, 2, 3}, m.IndicesForMaterial(0)[3:])
	assert.Equal(t, []int{0, 1, 2, 0, 2, 3}, m.Indices())
}

func TestRecalculateNormalsHardEdges(t *testing.T) {
	m := Cube()
	m.SetNormals(make([]mgl32.Vec3, 24))

	m.RecalculateNormals(60)

	require.Equal(t, 24, m.Normals().Len())
	for _, f := range m.Faces() {
		first := m.Normals().At(m.Indices()[f.Start])
		for i := 0; i < f.Count; i++ {
			n := m.Normals().At(m.Indices()[f.Index(i)])
			assert.InDelta(t, 1, n.Len(), 1e-5)
			assert.Equal(t, first, n, "flat shading within a face")
		}
		// Axis aligned: exactly one non-zero component.
		nonZero := 0
		for _, c := range first {
			if math32.Abs(c) > 1e-5 {
				nonZero++
			}
		}
		assert.Equal(t, 1, nonZero)
	}
}

func TestRecalculateNormalsSmooth(t *testing.T) {
	m := Cube()
	m.RecalculateNormals(100)

	inv := 1 / math32.Sqrt(3)
	for i := 0; i < m.VertexCount(); i++ {
		p := m.Positions().At(i)
		n := m.Normals().At(i)
		for axis := 0; axis < 3; axis++ {
			want := inv
			if p[axis] < 0 {
				want = -inv
			}
			assert.InDelta(t, want, n[axis], 1e-5)
		}
	}
}

func TestRecalculateNormalsAddsComponent(t *testing.T) {
	m := New(Position3)
	m.Positions().Append(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0})
	m.AddFace(0, 1, 2)

	m.RecalculateNormals(30)

	require.NotNil(t, m.Normals())
	for i := 0; i < 3; i++ {
		assert.InDelta(t, 1, m.Normals().At(i)[2], 1e-6)
	}
}

func TestBuilders(t *testing.T) {
	t.Run("sphere", func(t *testing.T) {
		m := Sphere(12, 6)
		assert.Equal(t, 13*7, m.VertexCount())
		assert.Equal(t, 12*(2*6-2), m.FaceCount())
		for _, idx := range m.Indices() {
			assert.Less(t, idx, m.VertexCount())
		}
		assert.InDelta(t, 0.5, m.Bounds().Max[1], 1e-6)
	})

	t.Run("cylinder", func(t *testing.T) {
		m := Cylinder(1, 1, 2, 8)
		assert.Equal(t, Quad, m.PrimitiveType)
		assert.Equal(t, 8+8+8, m.FaceCount())
		tri, err := m.ToPrimitive(Triangle, -1)
		require.NoError(t, err)
		assert.Equal(t, 8*2+16, tri.FaceCount())
		assert.InDelta(t, 1, m.Bounds().Max[1], 1e-6)
	})

	t.Run("grid", func(t *testing.T) {
		m := Grid(2, 0.5, mgl32.Vec4{1, 1, 1, 1})
		assert.Equal(t, 10, m.FaceCount())
		assert.Equal(t, Line, m.PrimitiveType)
		assert.Equal(t, mgl32.Vec3{1, 0, 1}, m.Bounds().Max)
	})

	t.Run("box lines", func(t *testing.T) {
		b := Box{Min: mgl32.Vec3{-1, 0, -1}, Max: mgl32.Vec3{1, 2, 1}}
		m := BoxLines(b, mgl32.Vec4{0, 1, 0, 1})
		assert.Equal(t, 12, m.FaceCount())
		assert.Equal(t, 8, m.VertexCount())
		assert.Equal(t, b, m.Bounds())
	})

	t.Run("surface", func(t *testing.T) {
		path := Circle(1, 0, 6)
		m := Surface(path, mgl32.Vec3{})
		assert.Equal(t, 6, m.FaceCount())
		assert.InDelta(t, -1, m.Normals().At(0)[1], 1e-5, "increasing angle faces down")
	})
}

func TestBoxTransform(t *testing.T) {
	b := Box{Min: mgl32.Vec3{-1, -1, -1}, Max: mgl32.Vec3{1, 1, 1}}
	moved := b.Transform(mgl32.Translate3D(2, 0, 0).Mul4(mgl32.Scale3D(2, 1, 1)))
	assert.InDelta(t, 0, moved.Min[0], 1e-6)
	assert.InDelta(t, 4, moved.Max[0], 1e-6)
	assert.InDelta(t, math32.Sqrt(3), b.Radius(), 1e-6)
}
