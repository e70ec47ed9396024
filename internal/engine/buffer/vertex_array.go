package buffer

import (
	"github.com/Faultbox/axion/internal/engine/gpu"
	"github.com/Faultbox/axion/internal/engine/layout"
)

// VertexArray ties a vertex buffer, an optional element buffer and a
// layout binding together.
type VertexArray struct {
	dev       gpu.Device
	handle    gpu.VertexArray
	binding   *layout.Binding
	vertices  *Object
	elements  *Object
	primitive gpu.Primitive
	usage     gpu.Usage

	indexType  gpu.DataType
	indexCount int
}

// NewVertexArray creates the vertex array and configures its attributes
// from binding.
func NewVertexArray(dev gpu.Device, binding *layout.Binding, primitive gpu.Primitive, usage gpu.Usage) *VertexArray {
	va := &VertexArray{
		dev:       dev,
		handle:    dev.CreateVertexArray(),
		binding:   binding,
		primitive: primitive,
		usage:     usage,
	}
	va.vertices = New(dev, gpu.ArrayBuffer, usage)

	dev.BindVertexArray(va.handle)
	va.vertices.Bind()
	binding.Configure(dev)
	dev.BindVertexArray(0)
	return va
}

// Handle returns the device handle.
func (va *VertexArray) Handle() gpu.VertexArray { return va.handle }

// Binding returns the layout binding the array was configured with.
func (va *VertexArray) Binding() *layout.Binding { return va.binding }

// Primitive returns the draw mode.
func (va *VertexArray) Primitive() gpu.Primitive { return va.primitive }

// SetData uploads interleaved vertices and, when given, indices. Indices
// use 16 bits when every vertex is addressable with them.
func (va *VertexArray) SetData(vertices []float32, indices []uint32) {
	va.dev.BindVertexArray(va.handle)
	defer va.dev.BindVertexArray(0)

	SetData(va.vertices, vertices)

	if len(indices) == 0 {
		va.indexCount = 0
		return
	}
	if va.elements == nil {
		va.elements = New(va.dev, gpu.ElementArrayBuffer, va.usage)
	}
	if idx, ok := ShortIndices(indices, va.VertexCount()); ok {
		SetData(va.elements, idx)
		va.indexType = gpu.UnsignedShort
	} else {
		SetData(va.elements, indices)
		va.indexType = gpu.UnsignedInt
	}
	va.indexCount = len(indices)
}

// MaxShortIndexVertices is the largest vertex count 16-bit indices can
// address.
const MaxShortIndexVertices = 0x10000

// ShortIndices narrows indices to 16 bits. It reports false, and converts
// nothing, when vertexCount exceeds MaxShortIndexVertices.
func ShortIndices(indices []uint32, vertexCount int) ([]uint16, bool) {
	if vertexCount > MaxShortIndexVertices {
		return nil, false
	}
	out := make([]uint16, len(indices))
	for i, v := range indices {
		out[i] = uint16(v)
	}
	return out, true
}

// VertexCount is the uploaded byte size divided by the stride.
func (va *VertexArray) VertexCount() int {
	if va.binding.Stride == 0 {
		return 0
	}
	return va.vertices.Size() / va.binding.Stride
}

// IndexCount returns the number of uploaded indices.
func (va *VertexArray) IndexCount() int { return va.indexCount }

// IndexType returns the element type of the index buffer.
func (va *VertexArray) IndexType() gpu.DataType { return va.indexType }

// Draw draws every vertex, or every index when indices were uploaded.
func (va *VertexArray) Draw() {
	if va.indexCount > 0 {
		va.DrawRange(0, va.indexCount)
		return
	}
	va.dev.BindVertexArray(va.handle)
	va.dev.DrawArrays(va.primitive, 0, va.VertexCount())
	va.dev.BindVertexArray(0)
}

// DrawRange draws count indices starting at index first.
func (va *VertexArray) DrawRange(first, count int) {
	if count == 0 {
		return
	}
	va.dev.BindVertexArray(va.handle)
	va.dev.DrawElements(va.primitive, count, va.indexType, first*va.indexType.Size())
	va.dev.BindVertexArray(0)
}

// Free deletes the array and its buffers.
func (va *VertexArray) Free() {
	if va.handle == 0 {
		return
	}
	va.dev.DeleteVertexArray(va.handle)
	va.handle = 0
	va.vertices.Free()
	if va.elements != nil {
		va.elements.Free()
	}
}
