// Package buffer wraps GPU buffer objects and vertex arrays.
package buffer

import (
	"unsafe"

	"github.com/Faultbox/axion/internal/engine/gpu"
)

// Object is a GPU buffer bound to a single target.
type Object struct {
	dev    gpu.Device
	handle gpu.Buffer
	target gpu.BufferTarget
	usage  gpu.Usage
	size   int
}

// New allocates an empty buffer object.
func New(dev gpu.Device, target gpu.BufferTarget, usage gpu.Usage) *Object {
	return &Object{
		dev:    dev,
		handle: dev.CreateBuffer(),
		target: target,
		usage:  usage,
	}
}

// Handle returns the device handle.
func (b *Object) Handle() gpu.Buffer { return b.handle }

// Target returns the bind target.
func (b *Object) Target() gpu.BufferTarget { return b.target }

// Size returns the byte size of the last upload.
func (b *Object) Size() int { return b.size }

// Bind binds the buffer to its target.
func (b *Object) Bind() {
	b.dev.BindBuffer(b.target, b.handle)
}

// SetData replaces the whole buffer with data. The slice is viewed as bytes
// in place; it must not be modified until the call returns.
func SetData[T any](b *Object, data []T) {
	b.Bind()
	bytes := Bytes(data)
	b.dev.BufferData(b.target, bytes, b.usage)
	b.size = len(bytes)
}

// Bytes reinterprets a slice of plain values as its backing bytes.
func Bytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	n := len(data) * int(unsafe.Sizeof(zero))
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(data))), n)
}

// Free deletes the buffer. Safe to call twice.
func (b *Object) Free() {
	if b.handle == 0 {
		return
	}
	b.dev.DeleteBuffer(b.handle)
	b.handle = 0
	b.size = 0
}
