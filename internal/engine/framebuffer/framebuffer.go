// Package framebuffer provides offscreen render targets and the
// renderbuffers that pipelines share.
package framebuffer

import (
	"fmt"

	"github.com/Faultbox/axion/internal/engine/gpu"
	"github.com/Faultbox/axion/internal/engine/texture"
)

// ErrIncomplete is returned when a framebuffer fails its completeness check.
var ErrIncomplete = gpu.ErrFramebufferIncomplete

// Framebuffer manages an offscreen render target with any number of color
// attachments and an optional depth attachment.
type Framebuffer struct {
	dev    gpu.Device
	handle gpu.Framebuffer
	width  int
	height int

	colors       []*texture.Texture
	depthTexture *texture.Texture
	depth        *Renderbuffer
	ownsDepth    bool
}

// New creates an empty framebuffer with the specified dimensions.
func New(dev gpu.Device, width, height int) *Framebuffer {
	return &Framebuffer{
		dev:    dev,
		handle: dev.CreateFramebuffer(),
		width:  max(width, 1),
		height: max(height, 1),
	}
}

// NewColorDepth creates a framebuffer with an RGBA color texture and an
// owned depth renderbuffer, checked for completeness.
func NewColorDepth(dev gpu.Device, width, height int) (*Framebuffer, error) {
	fb := New(dev, width, height)
	fb.AddColor(gpu.RGBA8, texture.Linear)
	fb.AttachRenderbuffer(NewRenderbuffer(dev, gpu.Depth24, fb.width, fb.height), true)
	if err := fb.Check(); err != nil {
		fb.Free()
		return nil, fmt.Errorf("creating framebuffer: %w", err)
	}
	return fb, nil
}

// AddColor creates a color texture at the framebuffer size, attaches it to
// the next color attachment and enables every color attachment for drawing.
func (fb *Framebuffer) AddColor(format gpu.Format, params gpu.TextureParams) *texture.Texture {
	tex := texture.New2D(fb.dev, format, fb.width, fb.height, params, nil)
	fb.dev.BindFramebuffer(fb.handle)
	fb.dev.FramebufferTexture(gpu.ColorAttachment(len(fb.colors)), gpu.Texture2D, tex.Handle())
	fb.colors = append(fb.colors, tex)

	atts := make([]gpu.Attachment, len(fb.colors))
	for i := range atts {
		atts[i] = gpu.ColorAttachment(i)
	}
	fb.dev.DrawBuffers(atts...)
	return tex
}

// AttachDepthTexture attaches a depth texture (2D or cube) and disables
// color output. The framebuffer takes ownership of tex.
func (fb *Framebuffer) AttachDepthTexture(tex *texture.Texture) {
	fb.dev.BindFramebuffer(fb.handle)
	fb.dev.FramebufferTexture(gpu.DepthAttachment, tex.Target(), tex.Handle())
	if len(fb.colors) == 0 {
		fb.dev.DrawBuffers()
	}
	fb.depthTexture = tex
}

// AttachRenderbuffer attaches rb as the depth buffer. When owned is false
// the renderbuffer belongs to someone else and is neither resized nor freed
// here.
func (fb *Framebuffer) AttachRenderbuffer(rb *Renderbuffer, owned bool) {
	fb.dev.BindFramebuffer(fb.handle)
	fb.dev.FramebufferRenderbuffer(gpu.DepthAttachment, rb.Handle())
	fb.depth = rb
	fb.ownsDepth = owned
}

// Check binds the framebuffer and verifies it is complete.
func (fb *Framebuffer) Check() error {
	fb.dev.BindFramebuffer(fb.handle)
	err := fb.dev.CheckFramebufferStatus()
	fb.dev.BindFramebuffer(0)
	return err
}

// Bind makes this framebuffer the current render target.
func (fb *Framebuffer) Bind() {
	fb.dev.BindFramebuffer(fb.handle)
	fb.dev.Viewport(0, 0, fb.width, fb.height)
}

// Unbind restores the default framebuffer.
func (fb *Framebuffer) Unbind() {
	fb.dev.BindFramebuffer(0)
}

// Clear clears the given buffers of the bound target with color.
func (fb *Framebuffer) Clear(mask gpu.ClearMask, color [4]float32) {
	fb.dev.ClearColor(color[0], color[1], color[2], color[3])
	fb.dev.Clear(mask)
}

// Color returns the i-th color texture.
func (fb *Framebuffer) Color(i int) *texture.Texture { return fb.colors[i] }

// Colors returns every color texture in attachment order.
func (fb *Framebuffer) Colors() []*texture.Texture { return fb.colors }

// DepthTexture returns the depth texture, if any.
func (fb *Framebuffer) DepthTexture() *texture.Texture { return fb.depthTexture }

// Depth returns the attached depth renderbuffer, if any.
func (fb *Framebuffer) Depth() *Renderbuffer { return fb.depth }

// Handle returns the device handle.
func (fb *Framebuffer) Handle() gpu.Framebuffer { return fb.handle }

// Size returns the framebuffer dimensions.
func (fb *Framebuffer) Size() (width, height int) {
	return fb.width, fb.height
}

// Resize updates the framebuffer dimensions if they have changed. Owned
// attachments keep their handles and get new storage.
func (fb *Framebuffer) Resize(width, height int) {
	width, height = max(width, 1), max(height, 1)
	if width == fb.width && height == fb.height {
		return
	}
	fb.width = width
	fb.height = height

	for _, c := range fb.colors {
		c.Resize(width, height)
	}
	if fb.depthTexture != nil {
		fb.depthTexture.Resize(width, height)
	}
	if fb.depth != nil && fb.ownsDepth {
		fb.depth.Resize(width, height)
	}
}

// ReadPixels reads color attachment 0 as RGBA8, bottom row first.
func (fb *Framebuffer) ReadPixels() []byte {
	pixels := make([]byte, fb.width*fb.height*4)
	fb.dev.BindFramebuffer(fb.handle)
	fb.dev.ReadPixels(0, 0, fb.width, fb.height, pixels)
	fb.dev.BindFramebuffer(0)
	return pixels
}

// Free releases the framebuffer and everything it owns.
func (fb *Framebuffer) Free() {
	if fb.handle == 0 {
		return
	}
	fb.dev.DeleteFramebuffer(fb.handle)
	fb.handle = 0
	for _, c := range fb.colors {
		c.Free()
	}
	fb.colors = nil
	if fb.depthTexture != nil {
		fb.depthTexture.Free()
		fb.depthTexture = nil
	}
	if fb.depth != nil && fb.ownsDepth {
		fb.depth.Free()
	}
	fb.depth = nil
}
