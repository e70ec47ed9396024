package render

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/axion/internal/engine/gpu"
	"github.com/Faultbox/axion/internal/engine/gpu/gputest"
	"github.com/Faultbox/axion/internal/engine/mesh"
	"github.com/Faultbox/axion/internal/engine/texture"
)

type recordedUniforms map[string]any

func (r recordedUniforms) SetBool(name string, v bool)       { r[name] = v }
func (r recordedUniforms) SetInt(name string, v int)         { r[name] = v }
func (r recordedUniforms) SetFloat(name string, v float32)   { r[name] = v }
func (r recordedUniforms) SetVec3(name string, v mgl32.Vec3) { r[name] = v }
func (r recordedUniforms) SetVec4(name string, v mgl32.Vec4) { r[name] = v }
func (r recordedUniforms) SetTexture(name string, unit int)  { r[name] = unit }

func TestDefaultMaterialWriteTo(t *testing.T) {
	u := recordedUniforms{}
	DefaultMaterial().WriteTo(u, "material")

	assert.Equal(t, mgl32.Vec4{0.5, 0.5, 0.5, 1}, u["material.diffuseColor"])
	assert.Equal(t, float32(0.3), u["material.ambient"])
	assert.Equal(t, float32(32), u["material.shininess"])
	assert.Equal(t, float32(0.5), u["material.specularStrength"])
	assert.Equal(t, DiffuseMapUnit, u["material.diffuseMap"])
	assert.Equal(t, SpecularMapUnit, u["material.specularMap"])
	assert.Equal(t, false, u["material.hasDiffuseMap"])
	assert.Equal(t, false, u["material.hasSpecularMap"])
}

func TestMaterialBindsMaps(t *testing.T) {
	dev := gputest.New()
	diffuse := texture.New2D(dev, gpu.RGBA8, 4, 4, texture.Linear, nil)
	m := DefaultMaterial()
	m.DiffuseMap = diffuse

	u := recordedUniforms{}
	m.WriteTo(u, "mat")
	assert.Equal(t, true, u["mat.hasDiffuseMap"])
	assert.Equal(t, false, u["mat.hasSpecularMap"])

	p, err := dev.CreateProgram(gpu.ProgramSource{Name: "position-only", Vertex: "in vec3 aPos;", Fragment: "void main() {}"})
	require.NoError(t, err)
	dev.UseProgram(p)
	va := dev.CreateVertexArray()
	dev.BindVertexArray(va)
	dev.DrawArrays(gpu.Triangles, 0, 3)
	assert.Equal(t, diffuse.Handle(), dev.Draws[0].Textures[DiffuseMapUnit])
}

func TestMeshPayloadMaterialFallback(t *testing.T) {
	red := &Material{DiffuseColor: mgl32.Vec4{1, 0, 0, 1}}
	blue := &Material{DiffuseColor: mgl32.Vec4{0, 0, 1, 1}}
	p := &MeshPayload{Materials: []*Material{red, blue}}

	assert.Same(t, blue, p.Material(1))
	assert.Same(t, red, p.Material(7))
	assert.Same(t, red, p.Material(-1))

	empty := &MeshPayload{}
	assert.Equal(t, DefaultMaterial(), empty.Material(0))
}

func TestNewObjects(t *testing.T) {
	cube := NewMeshObject("cube", mesh.Cube())
	assert.Equal(t, MeshObject, cube.Kind)
	assert.True(t, cube.Visible)
	assert.True(t, cube.CastShadow)
	assert.True(t, cube.Solid())
	require.Len(t, cube.Mesh.Materials, 1)

	grid := NewMeshObject("grid", mesh.Grid(1, 1, mgl32.Vec4{1, 1, 1, 1}))
	assert.False(t, grid.CastShadow)
	assert.False(t, grid.Solid())
	assert.True(t, grid.Renderable())

	light := NewLightObject("sun", LightPayload{Type: DirectionalLight})
	assert.False(t, light.Renderable())
	assert.NotEqual(t, cube.ID, light.ID)

	quad := NewScreenQuadObject("hud", nil, mgl32.Vec4{})
	assert.False(t, quad.Renderable(), "no texture")

	audio := NewAudioObject("wind", "wind.ogg", 0.5)
	assert.Equal(t, float32(0.5), audio.Audio.Gain)
	assert.False(t, audio.Renderable())
	assert.Contains(t, audio.String(), `audio "wind"`)
}

func TestObjectBounds(t *testing.T) {
	cube := NewMeshObject("cube", mesh.Cube())
	cube.Transform.Position = mgl32.Vec3{0, 1, 0}
	cube.Transform.Scale = mgl32.Vec3{2, 2, 2}

	box, ok := cube.Bounds()
	require.True(t, ok)
	assert.True(t, box.Min.ApproxEqual(mgl32.Vec3{-1, 0, -1}), "%v", box.Min)
	assert.True(t, box.Max.ApproxEqual(mgl32.Vec3{1, 2, 1}), "%v", box.Max)

	_, ok = NewLightObject("sun", LightPayload{}).Bounds()
	assert.False(t, ok)
}

func TestDrawableTriangulatesQuads(t *testing.T) {
	m, err := drawable(mesh.Cube())
	require.NoError(t, err)
	assert.Equal(t, 12, m.FaceCount())
	assert.Equal(t, 36, m.IndexCount())
	assert.Equal(t, gpu.Triangles, primitiveOf(m))

	grid := mesh.Grid(1, 1, mgl32.Vec4{1, 1, 1, 1})
	same, err := drawable(grid)
	require.NoError(t, err)
	assert.Same(t, grid, same)
	assert.Equal(t, gpu.Lines, primitiveOf(grid))
}
