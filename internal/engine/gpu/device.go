// Package gpu defines the graphics device the engine renders through.
//
// Every GPU resource is an opaque handle owned by the Device that created it.
// Handle value 0 always means "none" (for framebuffers: the default one).
// A Device is not safe for concurrent use; it belongs to the render thread.
package gpu

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
)

// UnusedLocation is returned for attributes and uniforms a program does not expose.
const UnusedLocation int32 = -1

// ErrFramebufferIncomplete is returned by CheckFramebufferStatus.
var ErrFramebufferIncomplete = errors.New("framebuffer incomplete")

// Resource handles.
type (
	Buffer       uint32
	VertexArray  uint32
	Texture      uint32
	Framebuffer  uint32
	Renderbuffer uint32
	Program      uint32
)

// Device is the set of GPU operations the engine uses.
type Device interface {
	// Buffers
	CreateBuffer() Buffer
	BindBuffer(target BufferTarget, b Buffer)
	BufferData(target BufferTarget, data []byte, usage Usage)
	DeleteBuffer(b Buffer)

	// Vertex arrays
	CreateVertexArray() VertexArray
	BindVertexArray(v VertexArray)
	DeleteVertexArray(v VertexArray)
	EnableVertexAttrib(location uint32)
	VertexAttribPointer(location uint32, count int, typ DataType, normalized bool, stride, offset int)

	// Draws
	DrawArrays(mode Primitive, first, count int)
	DrawElements(mode Primitive, count int, typ DataType, offset int)

	// Textures
	CreateTexture() Texture
	ActiveTexture(unit int)
	BindTexture(target TextureTarget, t Texture)
	TexImage2D(target TextureTarget, format Format, width, height int, pixels []byte)
	TexParameters(target TextureTarget, params TextureParams)
	GenerateMipmap(target TextureTarget)
	DeleteTexture(t Texture)

	// Framebuffers
	CreateFramebuffer() Framebuffer
	BindFramebuffer(fb Framebuffer)
	FramebufferTexture(attachment Attachment, target TextureTarget, t Texture)
	FramebufferRenderbuffer(attachment Attachment, rb Renderbuffer)
	// DrawBuffers selects color outputs; no arguments selects none (depth-only targets).
	DrawBuffers(attachments ...Attachment)
	CheckFramebufferStatus() error
	DeleteFramebuffer(fb Framebuffer)

	// Renderbuffers
	CreateRenderbuffer() Renderbuffer
	RenderbufferStorage(rb Renderbuffer, format Format, width, height int)
	DeleteRenderbuffer(rb Renderbuffer)

	// Fixed-function state
	Viewport(x, y, width, height int)
	ClearColor(r, g, b, a float32)
	Clear(mask ClearMask)
	Enable(c Capability)
	Disable(c Capability)
	DepthFunc(f DepthFunc)
	CullFace(face Face)

	// Programs
	CreateProgram(src ProgramSource) (Program, error)
	UseProgram(p Program)
	DeleteProgram(p Program)
	AttribLocation(p Program, name string) int32
	UniformLocation(p Program, name string) int32
	Uniform1i(location int32, v int32)
	Uniform1f(location int32, v float32)
	Uniform2f(location int32, v mgl32.Vec2)
	Uniform3f(location int32, v mgl32.Vec3)
	Uniform4f(location int32, v mgl32.Vec4)
	Uniform3fv(location int32, v []mgl32.Vec3)
	UniformMatrix4f(location int32, m mgl32.Mat4)

	// ReadPixels reads RGBA8 pixels of the bound framebuffer into dst.
	ReadPixels(x, y, width, height int, dst []byte)
}

// ProgramSource holds the GLSL stages of a program. Geometry is optional.
type ProgramSource struct {
	Name     string
	Vertex   string
	Geometry string
	Fragment string
}
