package render

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/axion/internal/engine/camera"
	"github.com/Faultbox/axion/internal/engine/gpu"
	"github.com/Faultbox/axion/internal/engine/mesh"
	"github.com/Faultbox/axion/internal/engine/shader"
)

// fullScreen is the whole viewport in normalized device coordinates.
var fullScreen = mgl32.Vec4{-1, -1, 2, 2}

// Screen presents the forward color target on the default framebuffer
// and draws screen-quad overlays on top.
type Screen struct {
	prog *shader.Program
	quad *meshResources
}

// NewScreen creates an uninitialized screen pipeline.
func NewScreen() *Screen { return &Screen{} }

func (s *Screen) Kind() PipelineKind { return ScreenPipeline }

func (s *Screen) Init(ctx *Context) error {
	var err error
	if s.prog, err = ctx.Program(shader.Screen); err != nil {
		return err
	}
	s.quad, err = uploadMesh(ctx.Device(), s.prog, mesh.ScreenQuad())
	return err
}

func (s *Screen) Render(ctx *Context, _ *camera.Camera) error {
	dev := ctx.Device()
	w, h := ctx.ScreenPixelSize()
	dev.BindFramebuffer(0)
	dev.Viewport(0, 0, w, h)
	bg := ctx.Background
	dev.ClearColor(bg[0], bg[1], bg[2], bg[3])
	dev.Clear(gpu.ColorBit | gpu.DepthBit)
	dev.Disable(gpu.DepthTest)

	s.prog.Use()
	s.prog.SetTexture("screenTexture", 0)
	if fwd, _ := ctx.Pipeline(ForwardPipeline).(*Forward); fwd != nil && fwd.ColorTexture() != nil {
		fwd.ColorTexture().Bind(0)
		s.prog.SetVec4("rect", fullScreen)
		s.quad.va.Draw()
	}

	dev.Enable(gpu.Blend)
	for _, o := range ctx.RenderableObjects() {
		if o.Kind != ScreenQuadObject {
			continue
		}
		o.Screen.Texture.Bind(0)
		s.prog.SetVec4("rect", PixelRectToNDC(o.Screen.Rect, w, h))
		s.quad.va.Draw()
	}
	dev.Enable(gpu.DepthTest)
	return nil
}

// PixelRectToNDC converts a top-left based pixel rectangle (x, y, width,
// height) to a bottom-left based rectangle in normalized device
// coordinates.
func PixelRectToNDC(rect mgl32.Vec4, screenW, screenH int) mgl32.Vec4 {
	sw, sh := float32(screenW), float32(screenH)
	return mgl32.Vec4{
		rect[0]/sw*2 - 1,
		1 - (rect[1]+rect[3])/sh*2,
		rect[2] / sw * 2,
		rect[3] / sh * 2,
	}
}

func (s *Screen) OnScreenResize(*Context) error { return nil }

func (s *Screen) Free() {
	if s.quad != nil {
		s.quad.va.Free()
		s.quad = nil
	}
}
