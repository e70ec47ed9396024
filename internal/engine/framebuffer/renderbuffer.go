package framebuffer

import "github.com/Faultbox/axion/internal/engine/gpu"

// Renderbuffer is a non-sampled attachment, used as the depth buffer shared
// by the forward and deferred pipelines.
type Renderbuffer struct {
	dev    gpu.Device
	handle gpu.Renderbuffer
	format gpu.Format
	width  int
	height int
}

// NewRenderbuffer allocates a renderbuffer of the given format and size.
func NewRenderbuffer(dev gpu.Device, format gpu.Format, width, height int) *Renderbuffer {
	rb := &Renderbuffer{
		dev:    dev,
		handle: dev.CreateRenderbuffer(),
		format: format,
	}
	rb.Resize(width, height)
	return rb
}

// Resize reallocates storage in place; the handle does not change.
func (rb *Renderbuffer) Resize(width, height int) {
	rb.width, rb.height = max(width, 1), max(height, 1)
	rb.dev.RenderbufferStorage(rb.handle, rb.format, rb.width, rb.height)
}

// Handle returns the device handle.
func (rb *Renderbuffer) Handle() gpu.Renderbuffer { return rb.handle }

// Size returns the storage dimensions.
func (rb *Renderbuffer) Size() (width, height int) { return rb.width, rb.height }

// Free deletes the renderbuffer. Safe to call twice.
func (rb *Renderbuffer) Free() {
	if rb.handle == 0 {
		return
	}
	rb.dev.DeleteRenderbuffer(rb.handle)
	rb.handle = 0
}
