package render

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/axion/internal/engine/camera"
	"github.com/Faultbox/axion/internal/engine/framebuffer"
	"github.com/Faultbox/axion/internal/engine/gpu"
	"github.com/Faultbox/axion/internal/engine/mesh"
	"github.com/Faultbox/axion/internal/engine/shader"
	"github.com/Faultbox/axion/internal/engine/texture"
	"github.com/Faultbox/axion/internal/logger"
)

// ErrForwardRequired is returned when the deferred pipeline is initialized
// without a forward pipeline registered before it.
var ErrForwardRequired = errors.New("deferred pipeline requires an initialized forward pipeline")

// DeferredPass is the stage the deferred pipeline is in.
type DeferredPass int

const (
	PassUninitialized DeferredPass = iota
	// Pass1 renders geometry into the G-buffer.
	Pass1
	// Pass2 lights the G-buffer into the forward color target.
	Pass2
)

func (p DeferredPass) String() string {
	switch p {
	case PassUninitialized:
		return "uninitialized"
	case Pass1:
		return "pass1"
	case Pass2:
		return "pass2"
	default:
		return fmt.Sprintf("DeferredPass(%d)", int(p))
	}
}

// Deferred renders materials assigned to it in two passes. The G-buffer
// shares the forward depth renderbuffer so forward objects drawn later
// are depth tested against deferred geometry.
type Deferred struct {
	log      *zap.Logger
	pass     DeferredPass
	forward  *Forward
	depth    *framebuffer.Renderbuffer
	gbuffer  *framebuffer.Framebuffer
	geometry *shader.Program
	lighting *shader.Program
	quad     *meshResources
}

// NewDeferred creates an uninitialized deferred pipeline.
func NewDeferred() *Deferred {
	return &Deferred{log: logger.Named("render.deferred")}
}

func (d *Deferred) Kind() PipelineKind { return DeferredPipeline }

// Pass returns the current pass.
func (d *Deferred) Pass() DeferredPass { return d.pass }

// GBuffer returns the geometry framebuffer: position, normal and
// albedo+specular color attachments.
func (d *Deferred) GBuffer() *framebuffer.Framebuffer { return d.gbuffer }

// DepthBuffer returns the borrowed depth renderbuffer.
func (d *Deferred) DepthBuffer() *framebuffer.Renderbuffer { return d.depth }

func (d *Deferred) Init(ctx *Context) error {
	fwd, _ := ctx.Pipeline(ForwardPipeline).(*Forward)
	if fwd == nil || fwd.DepthBuffer() == nil {
		return ErrForwardRequired
	}
	d.forward = fwd
	d.depth = fwd.DepthBuffer()

	var err error
	if d.geometry, err = ctx.Program(shader.GBuffer); err != nil {
		return err
	}
	if d.lighting, err = ctx.Program(shader.DeferredLighting); err != nil {
		return err
	}
	if d.quad, err = uploadMesh(ctx.Device(), d.lighting, mesh.ScreenQuad()); err != nil {
		return err
	}
	if err := d.createGBuffer(ctx); err != nil {
		return err
	}
	d.pass = Pass1
	return nil
}

func (d *Deferred) createGBuffer(ctx *Context) error {
	w, h := ctx.ScreenPixelSize()
	fb := framebuffer.New(ctx.Device(), w, h)
	fb.AddColor(gpu.RGB16F, texture.Nearest)
	fb.AddColor(gpu.RGB16F, texture.Nearest)
	fb.AddColor(gpu.RGBA8, texture.Nearest)
	fb.AttachRenderbuffer(d.depth, false)
	if err := fb.Check(); err != nil {
		fb.Free()
		return fmt.Errorf("creating g-buffer: %w", err)
	}
	d.gbuffer = fb
	d.log.Debug("g-buffer created", zap.Int("width", w), zap.Int("height", h))
	return nil
}

func (d *Deferred) Render(ctx *Context, cam *camera.Camera) error {
	if d.pass == PassUninitialized || d.gbuffer == nil {
		return ErrNotInitialized
	}
	if err := d.renderGeometry(ctx, cam); err != nil {
		return err
	}
	d.renderLighting(ctx, cam)
	return nil
}

func (d *Deferred) renderGeometry(ctx *Context, cam *camera.Camera) error {
	d.pass = Pass1
	dev := ctx.Device()

	d.gbuffer.Bind()
	d.gbuffer.Clear(gpu.ColorBit|gpu.DepthBit, [4]float32{})
	dev.Disable(gpu.Blend)
	dev.Enable(gpu.DepthTest)
	dev.DepthFunc(gpu.Less)
	dev.Enable(gpu.CullFaceTest)
	dev.CullFace(gpu.Back)

	d.geometry.Use()
	d.geometry.SetMat4("view", cam.View())
	d.geometry.SetMat4("projection", cam.Projection())

	for _, o := range ctx.RenderableObjects() {
		if o.Kind != MeshObject || !o.Mesh.Mesh.HasComponent(mesh.Normal) {
			continue
		}
		d.geometry.SetMat4("model", o.Model())
		err := o.draw(dev, d.geometry, func(mat *Material) bool {
			if ctx.pipelineFor(o, mat) != DeferredPipeline {
				return false
			}
			mat.WriteTo(d.geometry, "material")
			return true
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (d *Deferred) renderLighting(ctx *Context, cam *camera.Camera) {
	d.pass = Pass2
	dev := ctx.Device()

	d.forward.Framebuffer().Bind()
	d.lighting.Use()
	for i, tex := range d.gbuffer.Colors() {
		tex.Bind(GPositionUnit + i)
	}
	d.lighting.SetTexture("gPosition", GPositionUnit)
	d.lighting.SetTexture("gNormal", GNormalUnit)
	d.lighting.SetTexture("gAlbedoSpec", GAlbedoSpecUnit)

	DefaultMaterial().WriteTo(d.lighting, "material")
	d.lighting.SetVec3("viewPos", cam.Position)
	d.lighting.SetMat4("invView", cam.View().Inv())
	d.lighting.SetVec4("background", ctx.Background)
	ctx.Lights().Apply(d.lighting)
	bindShadows(ctx, d.lighting)

	dev.Disable(gpu.DepthTest)
	d.quad.va.Draw()
	dev.Enable(gpu.DepthTest)
	dev.Enable(gpu.Blend)
}

// OnScreenResize recreates the G-buffer at the new size and re-attaches
// the shared depth renderbuffer, which the forward pipeline has already
// resized.
func (d *Deferred) OnScreenResize(ctx *Context) error {
	if d.pass == PassUninitialized {
		return nil
	}
	if d.gbuffer != nil {
		d.gbuffer.Free()
		d.gbuffer = nil
	}
	return d.createGBuffer(ctx)
}

func (d *Deferred) Free() {
	if d.gbuffer != nil {
		d.gbuffer.Free()
		d.gbuffer = nil
	}
	if d.quad != nil {
		d.quad.va.Free()
		d.quad = nil
	}
	d.depth = nil
	d.pass = PassUninitialized
}
