package render

import (
	"fmt"

	"github.com/Faultbox/axion/internal/engine/camera"
)

// PipelineKind identifies a pipeline. Pipelines render in ascending kind
// order regardless of registration order.
type PipelineKind int

const (
	DirectionalShadowPipeline PipelineKind = iota + 1
	PointShadowPipeline
	DeferredPipeline
	ForwardPipeline
	ScreenPipeline
)

func (k PipelineKind) String() string {
	switch k {
	case DirectionalShadowPipeline:
		return "directional-shadow"
	case PointShadowPipeline:
		return "point-shadow"
	case DeferredPipeline:
		return "deferred"
	case ForwardPipeline:
		return "forward"
	case ScreenPipeline:
		return "screen"
	default:
		return fmt.Sprintf("PipelineKind(%d)", int(k))
	}
}

// Pipeline is one render stage with its own render targets.
type Pipeline interface {
	Kind() PipelineKind
	// Init creates GPU resources at the context's screen size.
	Init(ctx *Context) error
	Render(ctx *Context, cam *camera.Camera) error
	// OnScreenResize adapts render targets to the new screen size.
	OnScreenResize(ctx *Context) error
	Free()
}

// Texture units shared by the built-in shaders.
const (
	DiffuseMapUnit  = 0
	SpecularMapUnit = 1

	GPositionUnit   = 0
	GNormalUnit     = 1
	GAlbedoSpecUnit = 2

	DirShadowUnit   = 3
	PointShadowUnit = 4
)
