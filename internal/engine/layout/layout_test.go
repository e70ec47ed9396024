package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/axion/internal/engine/gpu"
	"github.com/Faultbox/axion/internal/engine/gpu/gputest"
	"github.com/Faultbox/axion/internal/engine/mesh"
)

type locator map[string]int32

func (l locator) AttribLocation(name string) int32 {
	if loc, ok := l[name]; ok {
		return loc
	}
	return gpu.UnusedLocation
}

func TestStrideUpdatedOnEveryAdd(t *testing.T) {
	var d Definition
	pos := d.AddAttribute("aPos", 3, gpu.Float, false)
	assert.Equal(t, 12, pos.Stride)

	color := d.AddAttribute("aColor", 4, gpu.UnsignedByte, true)
	uv := d.AddAttribute("aTexCoords", 2, gpu.Float, false)

	assert.Equal(t, 12+4+8, d.Stride())
	for _, a := range []*Attribute{pos, color, uv} {
		assert.Equal(t, 24, a.Stride, a.Name)
	}
	assert.Equal(t, 0, pos.Offset)
	assert.Equal(t, 12, color.Offset)
	assert.Equal(t, 16, uv.Offset)
}

func TestForFormat(t *testing.T) {
	d := ForFormat(mesh.PosNormalUV)
	require.Len(t, d.Attributes(), 3)
	assert.Equal(t, 32, d.Stride())

	names := []string{}
	offsets := []int{}
	for _, a := range d.Attributes() {
		names = append(names, a.Name)
		offsets = append(offsets, a.Offset)
	}
	assert.Equal(t, []string{"aPos", "aNormal", "aTexCoords"}, names)
	assert.Equal(t, []int{0, 12, 24}, offsets)

	assert.Equal(t, 16, ForFormat(mesh.Pos2UV).Stride())
}

func TestBindMissingAttributeIsUnused(t *testing.T) {
	d := ForFormat(mesh.PosNormalUV)
	b := d.BindToShader(locator{"aPos": 0})

	require.Len(t, b.Attributes, 3)
	assert.Equal(t, int32(0), b.Attributes[0].Location)
	assert.Equal(t, gpu.UnusedLocation, b.Attributes[1].Location)
	assert.Equal(t, gpu.UnusedLocation, b.Attributes[2].Location)
	assert.Equal(t, 32, b.Stride)
}

func TestConfigureSkipsUnused(t *testing.T) {
	dev := gputest.New()
	vao := dev.CreateVertexArray()
	vbo := dev.CreateBuffer()
	dev.BindVertexArray(vao)
	dev.BindBuffer(gpu.ArrayBuffer, vbo)

	d := ForFormat(mesh.PosNormalUV)
	b := d.BindToShader(locator{"aPos": 0, "aTexCoords": 2})

	assert.NotPanics(t, func() { b.Configure(dev) })

	attribs := dev.VertexArrays[vao].Attribs
	require.Len(t, attribs, 2)
	assert.Equal(t, gputest.AttribPointer{
		Buffer: vbo, Count: 3, Type: gpu.Float, Stride: 32, Offset: 0, Enabled: true,
	}, *attribs[0])
	assert.Equal(t, gputest.AttribPointer{
		Buffer: vbo, Count: 2, Type: gpu.Float, Stride: 32, Offset: 24, Enabled: true,
	}, *attribs[2])
}

func TestBindToProgramSource(t *testing.T) {
	dev := gputest.New()
	p, err := dev.CreateProgram(gpu.ProgramSource{
		Name: "depth",
		Vertex: `#version 410 core
layout (location = 0) in vec3 aPos;
uniform mat4 model;
void main() { gl_Position = model * vec4(aPos, 1.0); }`,
		Fragment: "#version 410 core\nvoid main() {}",
	})
	require.NoError(t, err)

	b := ForFormat(mesh.PosNormalUV).BindToShader(programLocator{dev, p})
	assert.Equal(t, int32(0), b.Attributes[0].Location)
	assert.Equal(t, gpu.UnusedLocation, b.Attributes[1].Location)
	assert.Contains(t, b.String(), "aNormal      location=-1")
}

type programLocator struct {
	dev gpu.Device
	p   gpu.Program
}

func (l programLocator) AttribLocation(name string) int32 {
	return l.dev.AttribLocation(l.p, name)
}

func TestDefinitionString(t *testing.T) {
	d := ForFormat(mesh.PosColor)
	s := d.String()
	assert.Contains(t, s, "layout stride=28")
	assert.Contains(t, s, "aColor")
}
