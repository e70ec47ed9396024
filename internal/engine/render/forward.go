package render

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/axion/internal/engine/camera"
	"github.com/Faultbox/axion/internal/engine/framebuffer"
	"github.com/Faultbox/axion/internal/engine/gpu"
	"github.com/Faultbox/axion/internal/engine/mesh"
	"github.com/Faultbox/axion/internal/engine/shader"
	"github.com/Faultbox/axion/internal/engine/texture"
	"github.com/Faultbox/axion/internal/logger"
)

// Forward draws lit meshes, unlit line meshes and the skybox into its own
// color target. It owns the depth renderbuffer the deferred pipeline
// shares.
type Forward struct {
	log     *zap.Logger
	fb      *framebuffer.Framebuffer
	lit     *shader.Program
	line    *shader.Program
	sky     *shader.Program
	skyCube *meshResources
}

// NewForward creates an uninitialized forward pipeline.
func NewForward() *Forward {
	return &Forward{log: logger.Named("render.forward")}
}

func (f *Forward) Kind() PipelineKind { return ForwardPipeline }

// DepthBuffer returns the depth renderbuffer, nil before Init.
func (f *Forward) DepthBuffer() *framebuffer.Renderbuffer {
	if f.fb == nil {
		return nil
	}
	return f.fb.Depth()
}

// Framebuffer returns the color target.
func (f *Forward) Framebuffer() *framebuffer.Framebuffer { return f.fb }

// ColorTexture returns the color attachment the screen pipeline presents.
func (f *Forward) ColorTexture() *texture.Texture {
	if f.fb == nil {
		return nil
	}
	return f.fb.Color(0)
}

func (f *Forward) Init(ctx *Context) error {
	var err error
	if f.lit, err = ctx.Program(shader.Forward); err != nil {
		return err
	}
	if f.line, err = ctx.Program(shader.Line); err != nil {
		return err
	}
	if f.sky, err = ctx.Program(shader.Skybox); err != nil {
		return err
	}
	if f.skyCube, err = uploadMesh(ctx.Device(), f.sky, mesh.Cube()); err != nil {
		return err
	}
	w, h := ctx.ScreenPixelSize()
	if f.fb, err = framebuffer.NewColorDepth(ctx.Device(), w, h); err != nil {
		return err
	}
	f.log.Debug("framebuffer created", zap.Int("width", w), zap.Int("height", h))
	return nil
}

func (f *Forward) Render(ctx *Context, cam *camera.Camera) error {
	dev := ctx.Device()
	f.fb.Bind()
	if ctx.Pipeline(DeferredPipeline) == nil {
		f.fb.Clear(gpu.ColorBit|gpu.DepthBit, ctx.Background)
	}
	dev.Enable(gpu.DepthTest)
	dev.DepthFunc(gpu.Less)
	dev.Enable(gpu.CullFaceTest)
	dev.CullFace(gpu.Back)
	dev.Enable(gpu.Blend)

	view, proj := cam.View(), cam.Projection()

	f.lit.Use()
	f.lit.SetMat4("view", view)
	f.lit.SetMat4("projection", proj)
	f.lit.SetVec3("viewPos", cam.Position)
	ctx.Lights().Apply(f.lit)
	bindShadows(ctx, f.lit)

	var lines, skies []*Object
	for _, o := range ctx.RenderableObjects() {
		switch o.Kind {
		case SkyboxObject:
			skies = append(skies, o)
			continue
		case MeshObject:
		default:
			continue
		}
		m := o.Mesh.Mesh
		if !m.HasComponent(mesh.Normal) && m.HasComponent(mesh.Color) {
			lines = append(lines, o)
			continue
		}
		f.lit.SetMat4("model", o.Model())
		err := o.draw(dev, f.lit, func(mat *Material) bool {
			if ctx.pipelineFor(o, mat) != ForwardPipeline {
				return false
			}
			mat.WriteTo(f.lit, "material")
			return true
		})
		if err != nil {
			return err
		}
	}

	if len(lines) > 0 {
		f.line.Use()
		f.line.SetMat4("view", view)
		f.line.SetMat4("projection", proj)
		for _, o := range lines {
			f.line.SetMat4("model", o.Model())
			if err := o.draw(dev, f.line, nil); err != nil {
				return err
			}
		}
	}

	if len(skies) > 0 {
		f.drawSkybox(dev, skies[0], view, proj)
	}

	f.fb.Unbind()
	return nil
}

func (f *Forward) drawSkybox(dev gpu.Device, o *Object, view, proj mgl32.Mat4) {
	dev.DepthFunc(gpu.LessEqual)
	dev.Disable(gpu.CullFaceTest)
	f.sky.Use()
	f.sky.SetMat4("view", view)
	f.sky.SetMat4("projection", proj)
	f.sky.SetTexture("skybox", 0)
	o.Skybox.Cube.Bind(0)
	f.skyCube.va.Draw()
	dev.DepthFunc(gpu.Less)
	dev.Enable(gpu.CullFaceTest)
}

// OnScreenResize resizes the color texture and the depth renderbuffer in
// place, so borrowers keep a valid reference.
func (f *Forward) OnScreenResize(ctx *Context) error {
	if f.fb == nil {
		return nil
	}
	f.fb.Resize(ctx.ScreenPixelSize())
	return nil
}

func (f *Forward) Free() {
	if f.fb != nil {
		f.fb.Free()
		f.fb = nil
	}
	if f.skyCube != nil {
		f.skyCube.va.Free()
		f.skyCube = nil
	}
}

// bindShadows binds the shadow maps of the shadow pipelines that rendered
// this frame. Sampler units are always assigned so unused samplers never
// alias a unit of another type.
func bindShadows(ctx *Context, p *shader.Program) {
	p.SetTexture("dirShadowMap", DirShadowUnit)
	p.SetTexture("pointShadowMap", PointShadowUnit)

	ds, _ := ctx.Pipeline(DirectionalShadowPipeline).(*DirectionalShadow)
	if ds != nil && ds.Active() {
		ds.Map().BindTexture(DirShadowUnit)
		p.SetMat4("lightSpaceMatrix", ds.LightSpace())
		p.SetBool("hasDirShadow", true)
	} else {
		p.SetMat4("lightSpaceMatrix", mgl32.Ident4())
		p.SetBool("hasDirShadow", false)
	}

	ps, _ := ctx.Pipeline(PointShadowPipeline).(*PointShadow)
	if ps != nil && ps.Active() {
		ps.Map().BindTexture(PointShadowUnit)
		p.SetFloat("pointShadowFar", ps.Far)
		p.SetBool("hasPointShadow", true)
	} else {
		p.SetBool("hasPointShadow", false)
	}
}
