// Package opengl implements gpu.Device on top of OpenGL 4.1 core.
package opengl

import (
	"fmt"
	"runtime"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/axion/internal/engine/gpu"
	"github.com/Faultbox/axion/internal/logger"
)

// Device issues GL calls. It must only be used on the thread that owns the context.
type Device struct {
	Version  string
	Renderer string
}

var _ gpu.Device = (*Device)(nil)

// New loads GL entry points and applies the engine's default state.
// IMPORTANT: Must be called AFTER the OpenGL context is created and made current!
func New() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	d := &Device{
		Version:  gl.GoStr(gl.GetString(gl.VERSION)),
		Renderer: gl.GoStr(gl.GetString(gl.RENDERER)),
	}
	logger.Info("OpenGL initialized",
		zap.String("version", d.Version),
		zap.String("renderer", d.Renderer),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.TEXTURE_CUBE_MAP_SEAMLESS)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	return d, nil
}

// Buffers

func (d *Device) CreateBuffer() gpu.Buffer {
	var b uint32
	gl.GenBuffers(1, &b)
	return gpu.Buffer(b)
}

func (d *Device) BindBuffer(target gpu.BufferTarget, b gpu.Buffer) {
	gl.BindBuffer(bufferTarget(target), uint32(b))
}

// BufferData uploads data; the slice is pinned for the duration of the call.
func (d *Device) BufferData(target gpu.BufferTarget, data []byte, usage gpu.Usage) {
	if len(data) == 0 {
		gl.BufferData(bufferTarget(target), 0, nil, bufferUsage(usage))
		return
	}
	var pin runtime.Pinner
	pin.Pin(&data[0])
	defer pin.Unpin()
	gl.BufferData(bufferTarget(target), len(data), unsafe.Pointer(&data[0]), bufferUsage(usage))
}

func (d *Device) DeleteBuffer(b gpu.Buffer) {
	h := uint32(b)
	gl.DeleteBuffers(1, &h)
}

// Vertex arrays

func (d *Device) CreateVertexArray() gpu.VertexArray {
	var v uint32
	gl.GenVertexArrays(1, &v)
	return gpu.VertexArray(v)
}

func (d *Device) BindVertexArray(v gpu.VertexArray) {
	gl.BindVertexArray(uint32(v))
}

func (d *Device) DeleteVertexArray(v gpu.VertexArray) {
	h := uint32(v)
	gl.DeleteVertexArrays(1, &h)
}

func (d *Device) EnableVertexAttrib(location uint32) {
	gl.EnableVertexAttribArray(location)
}

func (d *Device) VertexAttribPointer(location uint32, count int, typ gpu.DataType, normalized bool, stride, offset int) {
	gl.VertexAttribPointerWithOffset(location, int32(count), dataType(typ), normalized, int32(stride), uintptr(offset))
}

// Draws

func (d *Device) DrawArrays(mode gpu.Primitive, first, count int) {
	gl.DrawArrays(primitive(mode), int32(first), int32(count))
}

func (d *Device) DrawElements(mode gpu.Primitive, count int, typ gpu.DataType, offset int) {
	gl.DrawElementsWithOffset(primitive(mode), int32(count), dataType(typ), uintptr(offset))
}

// Textures

func (d *Device) CreateTexture() gpu.Texture {
	var t uint32
	gl.GenTextures(1, &t)
	return gpu.Texture(t)
}

func (d *Device) ActiveTexture(unit int) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
}

func (d *Device) BindTexture(target gpu.TextureTarget, t gpu.Texture) {
	gl.BindTexture(textureTarget(target), uint32(t))
}

func (d *Device) TexImage2D(target gpu.TextureTarget, format gpu.Format, width, height int, pixels []byte) {
	internal, pixelFormat, pixelType := textureFormat(format)
	var ptr unsafe.Pointer
	if len(pixels) > 0 {
		var pin runtime.Pinner
		pin.Pin(&pixels[0])
		defer pin.Unpin()
		ptr = unsafe.Pointer(&pixels[0])
	}
	gl.TexImage2D(textureTarget(target), 0, internal, int32(width), int32(height), 0, pixelFormat, pixelType, ptr)
}

func (d *Device) TexParameters(target gpu.TextureTarget, params gpu.TextureParams) {
	t := textureTarget(target)
	gl.TexParameteri(t, gl.TEXTURE_MIN_FILTER, filter(params.MinFilter))
	gl.TexParameteri(t, gl.TEXTURE_MAG_FILTER, filter(params.MagFilter))
	w := wrap(params.Wrap)
	gl.TexParameteri(t, gl.TEXTURE_WRAP_S, w)
	gl.TexParameteri(t, gl.TEXTURE_WRAP_T, w)
	if target == gpu.TextureCube {
		gl.TexParameteri(t, gl.TEXTURE_WRAP_R, w)
	}
	if params.Wrap == gpu.ClampToBorder {
		gl.TexParameterfv(t, gl.TEXTURE_BORDER_COLOR, &params.Border[0])
	}
}

func (d *Device) GenerateMipmap(target gpu.TextureTarget) {
	gl.GenerateMipmap(textureTarget(target))
}

func (d *Device) DeleteTexture(t gpu.Texture) {
	h := uint32(t)
	gl.DeleteTextures(1, &h)
}

// Framebuffers

func (d *Device) CreateFramebuffer() gpu.Framebuffer {
	var fb uint32
	gl.GenFramebuffers(1, &fb)
	return gpu.Framebuffer(fb)
}

func (d *Device) BindFramebuffer(fb gpu.Framebuffer) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(fb))
}

func (d *Device) FramebufferTexture(attachment gpu.Attachment, target gpu.TextureTarget, t gpu.Texture) {
	if target == gpu.TextureCube {
		// Layered attachment; the geometry shader selects the face.
		gl.FramebufferTexture(gl.FRAMEBUFFER, attachmentPoint(attachment), uint32(t), 0)
		return
	}
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, attachmentPoint(attachment), textureTarget(target), uint32(t), 0)
}

func (d *Device) FramebufferRenderbuffer(attachment gpu.Attachment, rb gpu.Renderbuffer) {
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, attachmentPoint(attachment), gl.RENDERBUFFER, uint32(rb))
}

func (d *Device) DrawBuffers(attachments ...gpu.Attachment) {
	if len(attachments) == 0 {
		gl.DrawBuffer(gl.NONE)
		gl.ReadBuffer(gl.NONE)
		return
	}
	bufs := make([]uint32, len(attachments))
	for i, a := range attachments {
		bufs[i] = attachmentPoint(a)
	}
	gl.DrawBuffers(int32(len(bufs)), &bufs[0])
}

func (d *Device) CheckFramebufferStatus() error {
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	if status != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("%w: 0x%x", gpu.ErrFramebufferIncomplete, status)
	}
	return nil
}

func (d *Device) DeleteFramebuffer(fb gpu.Framebuffer) {
	h := uint32(fb)
	gl.DeleteFramebuffers(1, &h)
}

// Renderbuffers

func (d *Device) CreateRenderbuffer() gpu.Renderbuffer {
	var rb uint32
	gl.GenRenderbuffers(1, &rb)
	return gpu.Renderbuffer(rb)
}

func (d *Device) RenderbufferStorage(rb gpu.Renderbuffer, format gpu.Format, width, height int) {
	internal, _, _ := textureFormat(format)
	gl.BindRenderbuffer(gl.RENDERBUFFER, uint32(rb))
	gl.RenderbufferStorage(gl.RENDERBUFFER, uint32(internal), int32(width), int32(height))
}

func (d *Device) DeleteRenderbuffer(rb gpu.Renderbuffer) {
	h := uint32(rb)
	gl.DeleteRenderbuffers(1, &h)
}

// Fixed-function state

func (d *Device) Viewport(x, y, width, height int) {
	gl.Viewport(int32(x), int32(y), int32(width), int32(height))
}

func (d *Device) ClearColor(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}

func (d *Device) Clear(mask gpu.ClearMask) {
	var bits uint32
	if mask&gpu.ColorBit != 0 {
		bits |= gl.COLOR_BUFFER_BIT
	}
	if mask&gpu.DepthBit != 0 {
		bits |= gl.DEPTH_BUFFER_BIT
	}
	gl.Clear(bits)
}

func (d *Device) Enable(c gpu.Capability) {
	gl.Enable(capability(c))
	if c == gpu.Blend {
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	}
}

func (d *Device) Disable(c gpu.Capability) {
	gl.Disable(capability(c))
}

func (d *Device) DepthFunc(f gpu.DepthFunc) {
	if f == gpu.LessEqual {
		gl.DepthFunc(gl.LEQUAL)
		return
	}
	gl.DepthFunc(gl.LESS)
}

func (d *Device) CullFace(face gpu.Face) {
	if face == gpu.Front {
		gl.CullFace(gl.FRONT)
		return
	}
	gl.CullFace(gl.BACK)
}

// Programs

// CreateProgram compiles every present stage and links them.
func (d *Device) CreateProgram(src gpu.ProgramSource) (gpu.Program, error) {
	stages := []struct {
		source string
		kind   uint32
		name   string
	}{
		{src.Vertex, gl.VERTEX_SHADER, "vertex"},
		{src.Geometry, gl.GEOMETRY_SHADER, "geometry"},
		{src.Fragment, gl.FRAGMENT_SHADER, "fragment"},
	}

	program := gl.CreateProgram()
	for _, st := range stages {
		if st.source == "" {
			continue
		}
		sh, err := compileShader(st.source, st.kind, st.name)
		if err != nil {
			gl.DeleteProgram(program)
			return 0, fmt.Errorf("program %q: %w", src.Name, err)
		}
		gl.AttachShader(program, sh)
		defer gl.DeleteShader(sh)
	}
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(program, logLen, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("program %q: link: %s", src.Name, strings.TrimRight(log, "\x00"))
	}

	logger.Debug("shader program created", zap.String("name", src.Name), zap.Uint32("program", program))
	return gpu.Program(program), nil
}

func compileShader(source string, shaderType uint32, name string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s shader: %s", name, strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}

func (d *Device) UseProgram(p gpu.Program) {
	gl.UseProgram(uint32(p))
}

func (d *Device) DeleteProgram(p gpu.Program) {
	gl.DeleteProgram(uint32(p))
}

func (d *Device) AttribLocation(p gpu.Program, name string) int32 {
	return gl.GetAttribLocation(uint32(p), gl.Str(name+"\x00"))
}

func (d *Device) UniformLocation(p gpu.Program, name string) int32 {
	return gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00"))
}

func (d *Device) Uniform1i(location int32, v int32) {
	gl.Uniform1i(location, v)
}

func (d *Device) Uniform1f(location int32, v float32) {
	gl.Uniform1f(location, v)
}

func (d *Device) Uniform2f(location int32, v mgl32.Vec2) {
	gl.Uniform2f(location, v[0], v[1])
}

func (d *Device) Uniform3f(location int32, v mgl32.Vec3) {
	gl.Uniform3f(location, v[0], v[1], v[2])
}

func (d *Device) Uniform4f(location int32, v mgl32.Vec4) {
	gl.Uniform4f(location, v[0], v[1], v[2], v[3])
}

func (d *Device) Uniform3fv(location int32, v []mgl32.Vec3) {
	if len(v) == 0 {
		return
	}
	gl.Uniform3fv(location, int32(len(v)), &v[0][0])
}

func (d *Device) UniformMatrix4f(location int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

// ReadPixels reads RGBA8 pixels from the bound framebuffer.
func (d *Device) ReadPixels(x, y, width, height int, dst []byte) {
	gl.ReadPixels(int32(x), int32(y), int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(dst))
}
