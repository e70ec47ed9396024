package render

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/axion/internal/engine/camera"
	"github.com/Faultbox/axion/internal/engine/shader"
	"github.com/Faultbox/axion/internal/engine/shadow"
	"github.com/Faultbox/axion/internal/logger"
)

// DirectionalShadow renders shadow casters into a depth map from the first
// visible directional light.
type DirectionalShadow struct {
	Resolution int

	log        *zap.Logger
	m          *shadow.Map
	prog       *shader.Program
	lightSpace mgl32.Mat4
	active     bool
}

// NewDirectionalShadow creates a directional shadow pipeline; resolution
// 0 selects shadow.DefaultResolution.
func NewDirectionalShadow(resolution int) *DirectionalShadow {
	return &DirectionalShadow{
		Resolution: resolution,
		log:        logger.Named("render.shadow"),
		lightSpace: mgl32.Ident4(),
	}
}

func (s *DirectionalShadow) Kind() PipelineKind { return DirectionalShadowPipeline }

// Active reports whether the map was rendered this frame.
func (s *DirectionalShadow) Active() bool { return s.active }

// LightSpace returns the world to light clip space matrix of the last frame.
func (s *DirectionalShadow) LightSpace() mgl32.Mat4 { return s.lightSpace }

// Map returns the depth map.
func (s *DirectionalShadow) Map() *shadow.Map { return s.m }

func (s *DirectionalShadow) Init(ctx *Context) error {
	var err error
	if s.prog, err = ctx.Program(shader.ShadowDirectional); err != nil {
		return err
	}
	if s.m, err = shadow.NewMap(ctx.Device(), s.Resolution); err != nil {
		return err
	}
	s.log.Debug("directional shadow map created", zap.Int("resolution", s.m.Resolution()))
	return nil
}

func (s *DirectionalShadow) Render(ctx *Context, _ *camera.Camera) error {
	s.active = false
	light := ctx.DirectionalLight()
	if light == nil {
		return nil
	}
	bounds, ok := ctx.ShadowBounds()
	if !ok {
		return nil
	}
	s.lightSpace = shadow.DirectionalMatrix(light.Light.Direction, bounds)

	s.m.Bind()
	defer s.m.Unbind()
	s.prog.Use()
	s.prog.SetMat4("lightSpaceMatrix", s.lightSpace)
	for _, o := range ctx.ShadowObjects() {
		s.prog.SetMat4("model", o.Model())
		if err := o.draw(ctx.Device(), s.prog, nil); err != nil {
			return err
		}
	}
	s.active = true
	return nil
}

// OnScreenResize is a no-op: the map resolution is independent of the
// screen.
func (s *DirectionalShadow) OnScreenResize(*Context) error { return nil }

func (s *DirectionalShadow) Free() {
	s.m.Free()
	s.m = nil
	s.active = false
}

// PointShadow renders shadow casters into a cube depth map around the
// first visible point light.
type PointShadow struct {
	Resolution int
	Near, Far  float32

	log    *zap.Logger
	m      *shadow.Map
	prog   *shader.Program
	active bool
}

// NewPointShadow creates a point shadow pipeline; resolution 0 selects
// half of shadow.DefaultResolution.
func NewPointShadow(resolution int) *PointShadow {
	return &PointShadow{
		Resolution: resolution,
		Near:       0.1,
		Far:        25,
		log:        logger.Named("render.shadow"),
	}
}

func (s *PointShadow) Kind() PipelineKind { return PointShadowPipeline }

// Active reports whether the map was rendered this frame.
func (s *PointShadow) Active() bool { return s.active }

// Map returns the cube depth map.
func (s *PointShadow) Map() *shadow.Map { return s.m }

func (s *PointShadow) Init(ctx *Context) error {
	var err error
	if s.prog, err = ctx.Program(shader.ShadowPoint); err != nil {
		return err
	}
	if s.m, err = shadow.NewCubeMap(ctx.Device(), s.Resolution); err != nil {
		return err
	}
	s.log.Debug("point shadow map created", zap.Int("resolution", s.m.Resolution()))
	return nil
}

func (s *PointShadow) Render(ctx *Context, _ *camera.Camera) error {
	s.active = false
	light := ctx.PointLight()
	if light == nil {
		return nil
	}
	pos := light.Transform.Position
	mats := shadow.PointMatrices(pos, s.Near, s.Far)

	s.m.Bind()
	defer s.m.Unbind()
	s.prog.Use()
	for i, m := range mats {
		s.prog.SetMat4(fmt.Sprintf("shadowMatrices[%d]", i), m)
	}
	s.prog.SetVec3("lightPos", pos)
	s.prog.SetFloat("farPlane", s.Far)
	for _, o := range ctx.ShadowObjects() {
		s.prog.SetMat4("model", o.Model())
		if err := o.draw(ctx.Device(), s.prog, nil); err != nil {
			return err
		}
	}
	s.active = true
	return nil
}

func (s *PointShadow) OnScreenResize(*Context) error { return nil }

func (s *PointShadow) Free() {
	s.m.Free()
	s.m = nil
	s.active = false
}
