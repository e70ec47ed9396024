// Package shader compiles GPU programs and sets their uniforms by name.
package shader

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/axion/internal/engine/gpu"
)

// Built-in program names.
const (
	Forward           = "forward"
	GBuffer           = "gbuffer"
	DeferredLighting  = "deferred"
	ShadowDirectional = "shadow_dir"
	ShadowPoint       = "shadow_point"
	Screen            = "screen"
	Line              = "line"
	Skybox            = "skybox"
)

//go:embed shaders
var sources embed.FS

// Source returns the embedded stages of a built-in program. The geometry
// stage is optional.
func Source(name string) (gpu.ProgramSource, error) {
	read := func(ext string, required bool) (string, error) {
		data, err := fs.ReadFile(sources, "shaders/"+name+ext)
		if err != nil {
			if !required && errors.Is(err, fs.ErrNotExist) {
				return "", nil
			}
			return "", fmt.Errorf("reading %s%s: %w", name, ext, err)
		}
		return string(data), nil
	}

	src := gpu.ProgramSource{Name: name}
	var err error
	if src.Vertex, err = read(".vert", true); err != nil {
		return src, err
	}
	if src.Geometry, err = read(".geom", false); err != nil {
		return src, err
	}
	if src.Fragment, err = read(".frag", true); err != nil {
		return src, err
	}
	return src, nil
}

// Program is a linked shader program.
type Program struct {
	dev      gpu.Device
	handle   gpu.Program
	name     string
	uniforms map[string]int32
}

// Load compiles a built-in program.
func Load(dev gpu.Device, name string) (*Program, error) {
	src, err := Source(name)
	if err != nil {
		return nil, err
	}
	return Compile(dev, src)
}

// Compile compiles and links src.
func Compile(dev gpu.Device, src gpu.ProgramSource) (*Program, error) {
	handle, err := dev.CreateProgram(src)
	if err != nil {
		return nil, fmt.Errorf("compiling program %q: %w", src.Name, err)
	}
	return &Program{
		dev:      dev,
		handle:   handle,
		name:     src.Name,
		uniforms: make(map[string]int32),
	}, nil
}

// Name returns the program name.
func (p *Program) Name() string { return p.name }

// Handle returns the device handle.
func (p *Program) Handle() gpu.Program { return p.handle }

// Use makes the program current.
func (p *Program) Use() {
	p.dev.UseProgram(p.handle)
}

// AttribLocation returns the location of a vertex input, or
// gpu.UnusedLocation when the program has no such input.
func (p *Program) AttribLocation(name string) int32 {
	return p.dev.AttribLocation(p.handle, name)
}

// UniformLocation returns the cached location for the given name.
// Returns -1 if the uniform is not found or inactive.
func (p *Program) UniformLocation(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	loc := p.dev.UniformLocation(p.handle, name)
	p.uniforms[name] = loc
	return loc
}

// HasUniform reports whether the program uses the uniform.
func (p *Program) HasUniform(name string) bool {
	return p.UniformLocation(name) >= 0
}

// The setters below require the program to be current. Unknown names are
// ignored.

func (p *Program) SetInt(name string, v int) {
	p.dev.Uniform1i(p.UniformLocation(name), int32(v))
}

func (p *Program) SetBool(name string, v bool) {
	var i int32
	if v {
		i = 1
	}
	p.dev.Uniform1i(p.UniformLocation(name), i)
}

func (p *Program) SetFloat(name string, v float32) {
	p.dev.Uniform1f(p.UniformLocation(name), v)
}

func (p *Program) SetVec2(name string, v mgl32.Vec2) {
	p.dev.Uniform2f(p.UniformLocation(name), v)
}

func (p *Program) SetVec3(name string, v mgl32.Vec3) {
	p.dev.Uniform3f(p.UniformLocation(name), v)
}

func (p *Program) SetVec4(name string, v mgl32.Vec4) {
	p.dev.Uniform4f(p.UniformLocation(name), v)
}

func (p *Program) SetVec3Array(name string, v []mgl32.Vec3) {
	p.dev.Uniform3fv(p.UniformLocation(name), v)
}

func (p *Program) SetMat4(name string, m mgl32.Mat4) {
	p.dev.UniformMatrix4f(p.UniformLocation(name), m)
}

// SetTexture points a sampler uniform at a texture unit.
func (p *Program) SetTexture(name string, unit int) {
	p.SetInt(name, unit)
}

// Free deletes the program. Safe to call twice.
func (p *Program) Free() {
	if p.handle == 0 {
		return
	}
	p.dev.DeleteProgram(p.handle)
	p.handle = 0
}
