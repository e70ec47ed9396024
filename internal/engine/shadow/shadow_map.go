// Package shadow provides real-time shadow mapping for directional and
// point lights.
package shadow

import (
	"fmt"

	"github.com/Faultbox/axion/internal/engine/framebuffer"
	"github.com/Faultbox/axion/internal/engine/gpu"
	"github.com/Faultbox/axion/internal/engine/texture"
)

// DefaultResolution is the default shadow map resolution.
const DefaultResolution = 2048

// Map is a depth-only render target, either a 2D map for a directional
// light or a cube map for a point light.
type Map struct {
	dev        gpu.Device
	fb         *framebuffer.Framebuffer
	depth      *texture.Texture
	resolution int
}

// NewMap creates a 2D shadow map. Samples outside the map read as lit.
// Resolution should be a power of 2 (e.g., 1024, 2048, 4096).
func NewMap(dev gpu.Device, resolution int) (*Map, error) {
	if resolution <= 0 {
		resolution = DefaultResolution
	}
	params := gpu.TextureParams{
		MinFilter: gpu.Linear,
		MagFilter: gpu.Linear,
		Wrap:      gpu.ClampToBorder,
		Border:    [4]float32{1, 1, 1, 1},
	}
	depth := texture.New2D(dev, gpu.Depth24, resolution, resolution, params, nil)
	return newMap(dev, depth, resolution)
}

// NewCubeMap creates a cube shadow map storing linear light distance.
func NewCubeMap(dev gpu.Device, resolution int) (*Map, error) {
	if resolution <= 0 {
		resolution = DefaultResolution / 2
	}
	depth := texture.NewCube(dev, gpu.Depth32F, resolution, texture.Linear)
	return newMap(dev, depth, resolution)
}

func newMap(dev gpu.Device, depth *texture.Texture, resolution int) (*Map, error) {
	fb := framebuffer.New(dev, resolution, resolution)
	fb.AttachDepthTexture(depth)
	if err := fb.Check(); err != nil {
		fb.Free()
		return nil, fmt.Errorf("creating shadow map: %w", err)
	}
	return &Map{dev: dev, fb: fb, depth: depth, resolution: resolution}, nil
}

// Bind binds the map for the depth pass, clears it and culls front faces
// to reduce shadow acne.
func (m *Map) Bind() {
	m.fb.Bind()
	m.dev.Clear(gpu.DepthBit)
	m.dev.Enable(gpu.DepthTest)
	m.dev.DepthFunc(gpu.Less)
	m.dev.Enable(gpu.CullFaceTest)
	m.dev.CullFace(gpu.Front)
}

// Unbind restores the default framebuffer and back-face culling.
func (m *Map) Unbind() {
	m.fb.Unbind()
	m.dev.CullFace(gpu.Back)
}

// BindTexture binds the depth texture for sampling in a later pass.
func (m *Map) BindTexture(unit int) {
	m.depth.Bind(unit)
}

// Texture returns the depth texture.
func (m *Map) Texture() *texture.Texture { return m.depth }

// Resolution returns the side length in texels.
func (m *Map) Resolution() int { return m.resolution }

// Free releases the framebuffer and depth texture.
func (m *Map) Free() {
	if m == nil {
		return
	}
	m.fb.Free()
}
