// Package render draws scene objects through an ordered set of pipelines.
package render

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/axion/internal/engine/camera"
	"github.com/Faultbox/axion/internal/engine/gpu"
	"github.com/Faultbox/axion/internal/engine/lighting"
	"github.com/Faultbox/axion/internal/engine/mesh"
	"github.com/Faultbox/axion/internal/engine/scene"
	"github.com/Faultbox/axion/internal/engine/shader"
	"github.com/Faultbox/axion/internal/logger"
)

// ErrNotInitialized is returned when rendering before InitRender.
var ErrNotInitialized = errors.New("render context not initialized")

// Context owns the scene objects, the pipelines and the shared programs.
// It must only be used on the render thread.
type Context struct {
	Camera     *camera.Camera
	Background mgl32.Vec4
	// DefaultPipeline renders materials without an explicit pipeline.
	DefaultPipeline PipelineKind

	dev       gpu.Device
	log       *zap.Logger
	objects   []*Object
	byID      map[uuid.UUID]*Object
	pipelines []Pipeline
	programs  map[string]*shader.Program
	lights    lighting.Set

	width, height int
	initialized   bool
}

// NewContext creates a context for a screen of the given pixel size.
func NewContext(dev gpu.Device, width, height int) *Context {
	c := &Context{
		Camera:          camera.New(),
		Background:      mgl32.Vec4{0.2, 0.3, 0.3, 1},
		DefaultPipeline: ForwardPipeline,
		dev:             dev,
		log:             logger.Named("render"),
		byID:            make(map[uuid.UUID]*Object),
		programs:        make(map[string]*shader.Program),
		width:           max(width, 1),
		height:          max(height, 1),
	}
	c.Camera.SetViewport(c.width, c.height)
	return c
}

// Device returns the GPU device.
func (c *Context) Device() gpu.Device { return c.dev }

// Program returns a built-in program, compiling it on first use.
func (c *Context) Program(name string) (*shader.Program, error) {
	if p, ok := c.programs[name]; ok {
		return p, nil
	}
	p, err := shader.Load(c.dev, name)
	if err != nil {
		return nil, err
	}
	c.programs[name] = p
	return p, nil
}

// Objects

// AddObject registers an object. Adding the same object twice is a no-op.
func (c *Context) AddObject(o *Object) {
	if _, ok := c.byID[o.ID]; ok {
		return
	}
	c.log.Debug("add object", zap.Stringer("object", o))
	c.objects = append(c.objects, o)
	c.byID[o.ID] = o
}

// RemoveObject unregisters an object and frees its GPU resources.
// Returns false if the object was not registered.
func (c *Context) RemoveObject(o *Object) bool {
	if _, ok := c.byID[o.ID]; !ok {
		return false
	}
	delete(c.byID, o.ID)
	c.objects = slices.DeleteFunc(c.objects, func(x *Object) bool { return x == o })
	o.freeResources()
	return true
}

// ObjectByName returns the first object with the given name, or nil.
func (c *Context) ObjectByName(name string) *Object {
	for _, o := range c.objects {
		if o.Name == name {
			return o
		}
	}
	return nil
}

// ObjectByID returns the object with the given id, or nil.
func (c *Context) ObjectByID(id uuid.UUID) *Object {
	return c.byID[id]
}

// Objects returns all objects in insertion order.
func (c *Context) Objects() []*Object { return c.objects }

func (c *Context) filter(keep func(*Object) bool) []*Object {
	var out []*Object
	for _, o := range c.objects {
		if keep(o) {
			out = append(out, o)
		}
	}
	return out
}

// RenderableObjects returns visible objects some pipeline draws.
func (c *Context) RenderableObjects() []*Object {
	return c.filter((*Object).Renderable)
}

// ShadowObjects returns solid meshes that cast shadows.
func (c *Context) ShadowObjects() []*Object {
	return c.filter(func(o *Object) bool { return o.CastShadow && o.Solid() })
}

// LightObjects returns visible lights.
func (c *Context) LightObjects() []*Object {
	return c.filter(func(o *Object) bool { return o.Kind == LightObject && o.Visible && o.Light != nil })
}

// UpdateObjects runs the OnUpdate hooks.
func (c *Context) UpdateObjects(dt time.Duration) {
	for _, o := range c.objects {
		if o.OnUpdate != nil {
			o.OnUpdate(o, dt)
		}
	}
}

// ApplySnapshot copies transforms, visibility, light state and the camera
// from an update-thread snapshot. Unknown ids are ignored.
func (c *Context) ApplySnapshot(s scene.Snapshot) {
	for id, st := range s.Objects {
		if o := c.byID[id]; o != nil {
			o.Transform = st.Transform
			o.Visible = st.Visible
		}
	}
	for id, st := range s.Lights {
		if o := c.byID[id]; o != nil && o.Light != nil {
			o.Light.Color = st.Color
			o.Light.Direction = st.Direction
		}
	}
	if s.Camera != (scene.CameraState{}) {
		c.Camera.Position = s.Camera.Position
		c.Camera.Target = s.Camera.Target
	}
}

// Lights

// Lights returns the lights collected for the current frame.
func (c *Context) Lights() *lighting.Set { return &c.lights }

// DirectionalLight returns the first visible directional light, or nil.
func (c *Context) DirectionalLight() *Object {
	for _, o := range c.LightObjects() {
		if o.Light.Type == DirectionalLight {
			return o
		}
	}
	return nil
}

// PointLight returns the first visible point light, or nil.
func (c *Context) PointLight() *Object {
	for _, o := range c.LightObjects() {
		if o.Light.Type == PointLight {
			return o
		}
	}
	return nil
}

func (c *Context) collectLights() {
	c.lights.Clear()
	for _, o := range c.LightObjects() {
		switch o.Light.Type {
		case DirectionalLight:
			if c.lights.Directional == nil {
				c.lights.Directional = &lighting.Directional{Direction: o.Light.Direction, Color: o.Light.Color}
			}
		case PointLight:
			if !c.lights.AddPoint(lighting.Point{
				Position:  o.Transform.Position,
				Color:     o.Light.Color,
				Linear:    o.Light.Linear,
				Quadratic: o.Light.Quadratic,
			}) {
				c.log.Debug("point light dropped", zap.String("light", o.Name))
			}
		}
	}
}

// ShadowBounds returns the world box of all shadow casters.
func (c *Context) ShadowBounds() (mesh.Box, bool) {
	var box mesh.Box
	found := false
	for _, o := range c.ShadowObjects() {
		b, ok := o.Bounds()
		if !ok {
			continue
		}
		if !found {
			box, found = b, true
			continue
		}
		box = box.Union(b)
	}
	return box, found
}

// pipelineFor decides which of forward or deferred draws a material of o.
// Meshes without normals are always forward.
func (c *Context) pipelineFor(o *Object, m *Material) PipelineKind {
	if !o.Mesh.Mesh.HasComponent(mesh.Normal) {
		return ForwardPipeline
	}
	kind := m.Pipeline
	if kind == 0 {
		kind = c.DefaultPipeline
	}
	if kind == DeferredPipeline && c.Pipeline(DeferredPipeline) == nil {
		return ForwardPipeline
	}
	return kind
}

// Pipelines

// AddPipeline registers a pipeline. Registration order is the init and
// resize order; a pipeline another depends on must come first.
func (c *Context) AddPipeline(p Pipeline) {
	c.pipelines = append(c.pipelines, p)
}

// Pipeline returns the registered pipeline of the given kind, or nil.
func (c *Context) Pipeline(kind PipelineKind) Pipeline {
	for _, p := range c.pipelines {
		if p.Kind() == kind {
			return p
		}
	}
	return nil
}

// Pipelines returns the pipelines in registration order.
func (c *Context) Pipelines() []Pipeline { return c.pipelines }

// InitRender initializes every pipeline in registration order.
func (c *Context) InitRender() error {
	for _, p := range c.pipelines {
		if err := p.Init(c); err != nil {
			return fmt.Errorf("init %s pipeline: %w", p.Kind(), err)
		}
		c.log.Debug("pipeline initialized", zap.Stringer("pipeline", p.Kind()))
	}
	c.initialized = true
	return nil
}

// Render draws one frame. A failing pipeline abandons the frame; the
// error is logged and returned.
func (c *Context) Render() error {
	if !c.initialized {
		return ErrNotInitialized
	}
	c.collectLights()

	ordered := slices.Clone(c.pipelines)
	slices.SortStableFunc(ordered, func(a, b Pipeline) int { return int(a.Kind()) - int(b.Kind()) })
	for _, p := range ordered {
		if err := p.Render(c, c.Camera); err != nil {
			c.log.Error("frame dropped", zap.Stringer("pipeline", p.Kind()), zap.Error(err))
			return fmt.Errorf("render %s pipeline: %w", p.Kind(), err)
		}
	}
	return nil
}

// SetScreenPixelSize resizes the viewport, the camera aspect, every
// pipeline (in registration order) and then every object.
func (c *Context) SetScreenPixelSize(width, height int) error {
	c.width, c.height = max(width, 1), max(height, 1)
	c.dev.Viewport(0, 0, c.width, c.height)
	c.Camera.SetViewport(c.width, c.height)

	var errs []error
	if c.initialized {
		for _, p := range c.pipelines {
			if err := p.OnScreenResize(c); err != nil {
				errs = append(errs, fmt.Errorf("resize %s pipeline: %w", p.Kind(), err))
			}
		}
	}
	for _, o := range c.objects {
		if o.OnResize != nil {
			o.OnResize(o, c.width, c.height)
		}
	}
	c.log.Debug("screen resized", zap.Int("width", c.width), zap.Int("height", c.height))
	return errors.Join(errs...)
}

// ScreenPixelSize returns the screen size in pixels.
func (c *Context) ScreenPixelSize() (width, height int) { return c.width, c.height }

// PixelToNDC returns the factor converting a pixel distance to normalized
// device coordinates.
func (c *Context) PixelToNDC() mgl32.Vec2 {
	return mgl32.Vec2{2 / float32(c.width), 2 / float32(c.height)}
}

// Free releases objects, pipelines and programs, newest first.
func (c *Context) Free() {
	for i := len(c.objects) - 1; i >= 0; i-- {
		c.objects[i].freeResources()
	}
	for i := len(c.pipelines) - 1; i >= 0; i-- {
		c.pipelines[i].Free()
	}
	for _, p := range c.programs {
		p.Free()
	}
	clear(c.programs)
	c.initialized = false
}
