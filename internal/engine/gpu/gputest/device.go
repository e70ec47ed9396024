// Package gputest provides an in-memory gpu.Device that records the state
// and draw calls a renderer produces, so pipelines can be tested without a
// GL context.
package gputest

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/axion/internal/engine/gpu"
)

// BufferState is a recorded buffer object.
type BufferState struct {
	Data    []byte
	Usage   gpu.Usage
	Uploads int
	Deleted bool
}

// AttribPointer is a recorded vertex attribute configuration.
type AttribPointer struct {
	Buffer     gpu.Buffer
	Count      int
	Type       gpu.DataType
	Normalized bool
	Stride     int
	Offset     int
	Enabled    bool
}

// VertexArrayState is a recorded vertex array object.
type VertexArrayState struct {
	Attribs       map[uint32]*AttribPointer
	ElementBuffer gpu.Buffer
	Deleted       bool
}

// TextureState is a recorded texture.
type TextureState struct {
	Target  gpu.TextureTarget
	Format  gpu.Format
	Width   int
	Height  int
	Faces   int // cube faces allocated
	Params  gpu.TextureParams
	Mipmaps bool
	Deleted bool
}

// RenderbufferState is a recorded renderbuffer.
type RenderbufferState struct {
	Format  gpu.Format
	Width   int
	Height  int
	Deleted bool
}

// FramebufferState is a recorded framebuffer.
type FramebufferState struct {
	Colors            map[gpu.Attachment]gpu.Texture
	DepthTexture      gpu.Texture
	DepthRenderbuffer gpu.Renderbuffer
	DrawBuffers       []gpu.Attachment
	Deleted           bool
}

// ProgramState is a recorded shader program.
type ProgramState struct {
	Source   gpu.ProgramSource
	Attribs  map[string]int32
	Uniforms map[string]any
	names    map[int32]string
	Deleted  bool
}

// Draw is one recorded draw call with the state it ran under.
type Draw struct {
	Program     gpu.Program
	VertexArray gpu.VertexArray
	Framebuffer gpu.Framebuffer
	Mode        gpu.Primitive
	Count       int
	Indexed     bool
	IndexType   gpu.DataType
	DepthTest   bool
	Textures    map[int]gpu.Texture
}

// Clear is one recorded clear.
type Clear struct {
	Framebuffer gpu.Framebuffer
	Mask        gpu.ClearMask
	Color       [4]float32
}

// Device is a recording gpu.Device.
type Device struct {
	Buffers       map[gpu.Buffer]*BufferState
	VertexArrays  map[gpu.VertexArray]*VertexArrayState
	Textures      map[gpu.Texture]*TextureState
	Renderbuffers map[gpu.Renderbuffer]*RenderbufferState
	Framebuffers  map[gpu.Framebuffer]*FramebufferState
	Programs      map[gpu.Program]*ProgramState

	Draws        []Draw
	Clears       []Clear
	LastViewport [4]int

	// CompileError, when set, is returned by every CreateProgram call.
	CompileError error
	// Incomplete forces CheckFramebufferStatus to fail.
	Incomplete bool

	next        uint32
	buffers     map[gpu.BufferTarget]gpu.Buffer
	vertexArray gpu.VertexArray
	framebuffer gpu.Framebuffer
	program     gpu.Program
	unit        int
	units       map[int]gpu.Texture
	textures    map[gpu.TextureTarget]gpu.Texture
	caps        map[gpu.Capability]bool
	clearColor  [4]float32
	depthFunc   gpu.DepthFunc
	cullFace    gpu.Face
}

var _ gpu.Device = (*Device)(nil)

// New returns an empty recording device.
func New() *Device {
	return &Device{
		Buffers:       make(map[gpu.Buffer]*BufferState),
		VertexArrays:  make(map[gpu.VertexArray]*VertexArrayState),
		Textures:      make(map[gpu.Texture]*TextureState),
		Renderbuffers: make(map[gpu.Renderbuffer]*RenderbufferState),
		Framebuffers:  make(map[gpu.Framebuffer]*FramebufferState),
		Programs:      make(map[gpu.Program]*ProgramState),
		buffers:       make(map[gpu.BufferTarget]gpu.Buffer),
		units:         make(map[int]gpu.Texture),
		textures:      make(map[gpu.TextureTarget]gpu.Texture),
		caps:          make(map[gpu.Capability]bool),
	}
}

func (d *Device) handle() uint32 {
	d.next++
	return d.next
}

// BoundFramebuffer returns the current draw framebuffer.
func (d *Device) BoundFramebuffer() gpu.Framebuffer { return d.framebuffer }

// BoundProgram returns the current program.
func (d *Device) BoundProgram() gpu.Program { return d.program }

// Enabled reports whether capability c is on.
func (d *Device) Enabled(c gpu.Capability) bool { return d.caps[c] }

// LiveTextures counts textures not yet deleted.
func (d *Device) LiveTextures() int {
	n := 0
	for _, t := range d.Textures {
		if !t.Deleted {
			n++
		}
	}
	return n
}

// DrawsTo returns the draws issued while fb was bound.
func (d *Device) DrawsTo(fb gpu.Framebuffer) []Draw {
	var out []Draw
	for _, dr := range d.Draws {
		if dr.Framebuffer == fb {
			out = append(out, dr)
		}
	}
	return out
}

// Uniform returns the last value set for a uniform of program p.
func (d *Device) Uniform(p gpu.Program, name string) (any, bool) {
	ps, ok := d.Programs[p]
	if !ok {
		return nil, false
	}
	v, ok := ps.Uniforms[name]
	return v, ok
}

// ResetFrame forgets recorded draws and clears.
func (d *Device) ResetFrame() {
	d.Draws = nil
	d.Clears = nil
}

// Buffers

func (d *Device) CreateBuffer() gpu.Buffer {
	b := gpu.Buffer(d.handle())
	d.Buffers[b] = &BufferState{}
	return b
}

func (d *Device) BindBuffer(target gpu.BufferTarget, b gpu.Buffer) {
	d.buffers[target] = b
	if target == gpu.ElementArrayBuffer && d.vertexArray != 0 {
		d.VertexArrays[d.vertexArray].ElementBuffer = b
	}
}

func (d *Device) BufferData(target gpu.BufferTarget, data []byte, usage gpu.Usage) {
	bs := d.mustBuffer(d.buffers[target])
	bs.Data = append([]byte(nil), data...)
	bs.Usage = usage
	bs.Uploads++
}

func (d *Device) DeleteBuffer(b gpu.Buffer) {
	d.mustBuffer(b).Deleted = true
}

func (d *Device) mustBuffer(b gpu.Buffer) *BufferState {
	bs, ok := d.Buffers[b]
	if !ok || bs.Deleted {
		panic(fmt.Sprintf("gputest: buffer %d not live", b))
	}
	return bs
}

// Vertex arrays

func (d *Device) CreateVertexArray() gpu.VertexArray {
	v := gpu.VertexArray(d.handle())
	d.VertexArrays[v] = &VertexArrayState{Attribs: make(map[uint32]*AttribPointer)}
	return v
}

func (d *Device) BindVertexArray(v gpu.VertexArray) {
	if v != 0 {
		if vs, ok := d.VertexArrays[v]; !ok || vs.Deleted {
			panic(fmt.Sprintf("gputest: vertex array %d not live", v))
		}
	}
	d.vertexArray = v
}

func (d *Device) DeleteVertexArray(v gpu.VertexArray) {
	d.VertexArrays[v].Deleted = true
}

func (d *Device) attrib(location uint32) *AttribPointer {
	if d.vertexArray == 0 {
		panic("gputest: no vertex array bound")
	}
	vs := d.VertexArrays[d.vertexArray]
	ap, ok := vs.Attribs[location]
	if !ok {
		ap = &AttribPointer{}
		vs.Attribs[location] = ap
	}
	return ap
}

func (d *Device) EnableVertexAttrib(location uint32) {
	d.attrib(location).Enabled = true
}

func (d *Device) VertexAttribPointer(location uint32, count int, typ gpu.DataType, normalized bool, stride, offset int) {
	ap := d.attrib(location)
	ap.Buffer = d.buffers[gpu.ArrayBuffer]
	ap.Count = count
	ap.Type = typ
	ap.Normalized = normalized
	ap.Stride = stride
	ap.Offset = offset
}

// Draws

func (d *Device) DrawArrays(mode gpu.Primitive, first, count int) {
	d.record(mode, count, false, 0)
}

func (d *Device) DrawElements(mode gpu.Primitive, count int, typ gpu.DataType, offset int) {
	d.record(mode, count, true, typ)
}

func (d *Device) record(mode gpu.Primitive, count int, indexed bool, typ gpu.DataType) {
	if d.program == 0 {
		panic("gputest: draw without program")
	}
	if d.vertexArray == 0 {
		panic("gputest: draw without vertex array")
	}
	units := make(map[int]gpu.Texture, len(d.units))
	for u, t := range d.units {
		units[u] = t
	}
	d.Draws = append(d.Draws, Draw{
		Program:     d.program,
		VertexArray: d.vertexArray,
		Framebuffer: d.framebuffer,
		Mode:        mode,
		Count:       count,
		Indexed:     indexed,
		IndexType:   typ,
		DepthTest:   d.caps[gpu.DepthTest],
		Textures:    units,
	})
}

// Textures

func (d *Device) CreateTexture() gpu.Texture {
	t := gpu.Texture(d.handle())
	d.Textures[t] = &TextureState{}
	return t
}

func (d *Device) ActiveTexture(unit int) {
	d.unit = unit
}

func (d *Device) BindTexture(target gpu.TextureTarget, t gpu.Texture) {
	if t != 0 {
		ts, ok := d.Textures[t]
		if !ok || ts.Deleted {
			panic(fmt.Sprintf("gputest: texture %d not live", t))
		}
		ts.Target = target
	}
	d.textures[target] = t
	d.units[d.unit] = t
}

func (d *Device) TexImage2D(target gpu.TextureTarget, format gpu.Format, width, height int, pixels []byte) {
	bindTarget := target
	if target.IsCubeFace() {
		bindTarget = gpu.TextureCube
	}
	t := d.textures[bindTarget]
	ts, ok := d.Textures[t]
	if !ok {
		panic(fmt.Sprintf("gputest: no texture bound to target %d", bindTarget))
	}
	ts.Format = format
	ts.Width = width
	ts.Height = height
	if target.IsCubeFace() {
		ts.Faces++
	}
}

func (d *Device) TexParameters(target gpu.TextureTarget, params gpu.TextureParams) {
	d.Textures[d.textures[target]].Params = params
}

func (d *Device) GenerateMipmap(target gpu.TextureTarget) {
	d.Textures[d.textures[target]].Mipmaps = true
}

func (d *Device) DeleteTexture(t gpu.Texture) {
	d.Textures[t].Deleted = true
	for u, bound := range d.units {
		if bound == t {
			delete(d.units, u)
		}
	}
}

// Framebuffers

func (d *Device) CreateFramebuffer() gpu.Framebuffer {
	fb := gpu.Framebuffer(d.handle())
	d.Framebuffers[fb] = &FramebufferState{Colors: make(map[gpu.Attachment]gpu.Texture)}
	return fb
}

func (d *Device) BindFramebuffer(fb gpu.Framebuffer) {
	if fb != 0 {
		if fs, ok := d.Framebuffers[fb]; !ok || fs.Deleted {
			panic(fmt.Sprintf("gputest: framebuffer %d not live", fb))
		}
	}
	d.framebuffer = fb
}

func (d *Device) boundFramebuffer() *FramebufferState {
	if d.framebuffer == 0 {
		panic("gputest: default framebuffer has no attachments")
	}
	return d.Framebuffers[d.framebuffer]
}

func (d *Device) FramebufferTexture(attachment gpu.Attachment, target gpu.TextureTarget, t gpu.Texture) {
	fs := d.boundFramebuffer()
	if attachment == gpu.DepthAttachment {
		fs.DepthTexture = t
		fs.DepthRenderbuffer = 0
		return
	}
	fs.Colors[attachment] = t
}

func (d *Device) FramebufferRenderbuffer(attachment gpu.Attachment, rb gpu.Renderbuffer) {
	fs := d.boundFramebuffer()
	if attachment != gpu.DepthAttachment {
		panic("gputest: only depth renderbuffers are supported")
	}
	fs.DepthRenderbuffer = rb
	fs.DepthTexture = 0
}

func (d *Device) DrawBuffers(attachments ...gpu.Attachment) {
	d.boundFramebuffer().DrawBuffers = append([]gpu.Attachment(nil), attachments...)
}

// CheckFramebufferStatus fails when forced, when nothing is attached, or when
// an attachment refers to a deleted or unallocated object.
func (d *Device) CheckFramebufferStatus() error {
	if d.framebuffer == 0 {
		return nil
	}
	if d.Incomplete {
		return gpu.ErrFramebufferIncomplete
	}
	fs := d.Framebuffers[d.framebuffer]
	if len(fs.Colors) == 0 && fs.DepthTexture == 0 && fs.DepthRenderbuffer == 0 {
		return fmt.Errorf("%w: no attachments", gpu.ErrFramebufferIncomplete)
	}
	for att, t := range fs.Colors {
		if ts := d.Textures[t]; ts == nil || ts.Deleted || ts.Width == 0 {
			return fmt.Errorf("%w: %s attachment", gpu.ErrFramebufferIncomplete, att)
		}
	}
	if fs.DepthTexture != 0 {
		if ts := d.Textures[fs.DepthTexture]; ts == nil || ts.Deleted || !ts.Format.IsDepth() {
			return fmt.Errorf("%w: depth texture", gpu.ErrFramebufferIncomplete)
		}
	}
	if fs.DepthRenderbuffer != 0 {
		if rs := d.Renderbuffers[fs.DepthRenderbuffer]; rs == nil || rs.Deleted || rs.Width == 0 {
			return fmt.Errorf("%w: depth renderbuffer", gpu.ErrFramebufferIncomplete)
		}
	}
	return nil
}

func (d *Device) DeleteFramebuffer(fb gpu.Framebuffer) {
	d.Framebuffers[fb].Deleted = true
	if d.framebuffer == fb {
		d.framebuffer = 0
	}
}

// Renderbuffers

func (d *Device) CreateRenderbuffer() gpu.Renderbuffer {
	rb := gpu.Renderbuffer(d.handle())
	d.Renderbuffers[rb] = &RenderbufferState{}
	return rb
}

func (d *Device) RenderbufferStorage(rb gpu.Renderbuffer, format gpu.Format, width, height int) {
	rs := d.Renderbuffers[rb]
	rs.Format = format
	rs.Width = width
	rs.Height = height
}

func (d *Device) DeleteRenderbuffer(rb gpu.Renderbuffer) {
	d.Renderbuffers[rb].Deleted = true
}

// Fixed-function state

func (d *Device) Viewport(x, y, width, height int) {
	d.LastViewport = [4]int{x, y, width, height}
}

func (d *Device) ClearColor(r, g, b, a float32) {
	d.clearColor = [4]float32{r, g, b, a}
}

func (d *Device) Clear(mask gpu.ClearMask) {
	d.Clears = append(d.Clears, Clear{Framebuffer: d.framebuffer, Mask: mask, Color: d.clearColor})
}

func (d *Device) Enable(c gpu.Capability)   { d.caps[c] = true }
func (d *Device) Disable(c gpu.Capability)  { d.caps[c] = false }
func (d *Device) DepthFunc(f gpu.DepthFunc) { d.depthFunc = f }
func (d *Device) CullFace(face gpu.Face)    { d.cullFace = face }

// CurrentCullFace returns the last face passed to CullFace.
func (d *Device) CurrentCullFace() gpu.Face { return d.cullFace }

// Programs

var inputDecl = regexp.MustCompile(`(?m)^\s*(?:layout\s*\(\s*location\s*=\s*(\d+)\s*\)\s*)?in\s+\w+\s+(\w+)\s*;`)

// CreateProgram registers the vertex stage inputs as attributes, in
// declaration order unless a layout location is given.
func (d *Device) CreateProgram(src gpu.ProgramSource) (gpu.Program, error) {
	if d.CompileError != nil {
		return 0, d.CompileError
	}
	if src.Vertex == "" || src.Fragment == "" {
		return 0, fmt.Errorf("program %q: missing stage", src.Name)
	}
	p := gpu.Program(d.handle())
	ps := &ProgramState{
		Source:   src,
		Attribs:  make(map[string]int32),
		Uniforms: make(map[string]any),
		names:    make(map[int32]string),
	}
	var next int32
	for _, m := range inputDecl.FindAllStringSubmatch(src.Vertex, -1) {
		loc := next
		if m[1] != "" {
			n, _ := strconv.Atoi(m[1])
			loc = int32(n)
		}
		ps.Attribs[m[2]] = loc
		next = loc + 1
	}
	d.Programs[p] = ps
	return p, nil
}

func (d *Device) UseProgram(p gpu.Program) {
	if p != 0 {
		if ps, ok := d.Programs[p]; !ok || ps.Deleted {
			panic(fmt.Sprintf("gputest: program %d not live", p))
		}
	}
	d.program = p
}

func (d *Device) DeleteProgram(p gpu.Program) {
	d.Programs[p].Deleted = true
}

func (d *Device) AttribLocation(p gpu.Program, name string) int32 {
	if loc, ok := d.Programs[p].Attribs[name]; ok {
		return loc
	}
	return gpu.UnusedLocation
}

// UniformLocation resolves any name whose base identifier appears in the
// program source, e.g. "material.shininess" or "lights[3].color".
func (d *Device) UniformLocation(p gpu.Program, name string) int32 {
	ps := d.Programs[p]
	base := name
	if i := strings.IndexAny(base, ".["); i >= 0 {
		base = base[:i]
	}
	src := ps.Source.Vertex + ps.Source.Geometry + ps.Source.Fragment
	if !strings.Contains(src, base) {
		return gpu.UnusedLocation
	}
	for loc, n := range ps.names {
		if n == name {
			return loc
		}
	}
	loc := int32(len(ps.names))
	ps.names[loc] = name
	return loc
}

func (d *Device) setUniform(location int32, v any) {
	if location < 0 {
		return
	}
	if d.program == 0 {
		panic("gputest: uniform set without program")
	}
	ps := d.Programs[d.program]
	name, ok := ps.names[location]
	if !ok {
		panic(fmt.Sprintf("gputest: unknown uniform location %d", location))
	}
	ps.Uniforms[name] = v
}

func (d *Device) Uniform1i(location int32, v int32)            { d.setUniform(location, v) }
func (d *Device) Uniform1f(location int32, v float32)          { d.setUniform(location, v) }
func (d *Device) Uniform2f(location int32, v mgl32.Vec2)       { d.setUniform(location, v) }
func (d *Device) Uniform3f(location int32, v mgl32.Vec3)       { d.setUniform(location, v) }
func (d *Device) Uniform4f(location int32, v mgl32.Vec4)       { d.setUniform(location, v) }
func (d *Device) UniformMatrix4f(location int32, m mgl32.Mat4) { d.setUniform(location, m) }

func (d *Device) Uniform3fv(location int32, v []mgl32.Vec3) {
	d.setUniform(location, append([]mgl32.Vec3(nil), v...))
}

// ReadPixels fills dst with the last clear color of the bound framebuffer.
func (d *Device) ReadPixels(x, y, width, height int, dst []byte) {
	var c [4]float32
	for i := len(d.Clears) - 1; i >= 0; i-- {
		if d.Clears[i].Framebuffer == d.framebuffer {
			c = d.Clears[i].Color
			break
		}
	}
	px := [4]byte{byte(c[0] * 255), byte(c[1] * 255), byte(c[2] * 255), byte(c[3] * 255)}
	for i := 0; i+3 < len(dst) && i < width*height*4; i += 4 {
		copy(dst[i:i+4], px[:])
	}
}
