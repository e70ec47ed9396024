package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/axion/internal/engine/gpu"
)

func bufferTarget(t gpu.BufferTarget) uint32 {
	if t == gpu.ElementArrayBuffer {
		return gl.ELEMENT_ARRAY_BUFFER
	}
	return gl.ARRAY_BUFFER
}

func bufferUsage(u gpu.Usage) uint32 {
	switch u {
	case gpu.DynamicDraw:
		return gl.DYNAMIC_DRAW
	case gpu.StreamDraw:
		return gl.STREAM_DRAW
	default:
		return gl.STATIC_DRAW
	}
}

func dataType(t gpu.DataType) uint32 {
	switch t {
	case gpu.Float:
		return gl.FLOAT
	case gpu.Int:
		return gl.INT
	case gpu.UnsignedInt:
		return gl.UNSIGNED_INT
	case gpu.Short:
		return gl.SHORT
	case gpu.UnsignedShort:
		return gl.UNSIGNED_SHORT
	case gpu.Byte:
		return gl.BYTE
	case gpu.UnsignedByte:
		return gl.UNSIGNED_BYTE
	default:
		panic(fmt.Sprintf("opengl: unknown data type %d", t))
	}
}

func primitive(p gpu.Primitive) uint32 {
	switch p {
	case gpu.Points:
		return gl.POINTS
	case gpu.Lines:
		return gl.LINES
	case gpu.LineStrip:
		return gl.LINE_STRIP
	case gpu.TriangleFan:
		return gl.TRIANGLE_FAN
	default:
		return gl.TRIANGLES
	}
}

func textureTarget(t gpu.TextureTarget) uint32 {
	switch {
	case t == gpu.TextureCube:
		return gl.TEXTURE_CUBE_MAP
	case t.IsCubeFace():
		return gl.TEXTURE_CUBE_MAP_POSITIVE_X + uint32(t-gpu.CubePositiveX)
	default:
		return gl.TEXTURE_2D
	}
}

// textureFormat returns internal format, pixel format and pixel type.
func textureFormat(f gpu.Format) (int32, uint32, uint32) {
	switch f {
	case gpu.RGB16F:
		return gl.RGB16F, gl.RGB, gl.FLOAT
	case gpu.RGBA16F:
		return gl.RGBA16F, gl.RGBA, gl.FLOAT
	case gpu.Depth24:
		return gl.DEPTH_COMPONENT24, gl.DEPTH_COMPONENT, gl.FLOAT
	case gpu.Depth32F:
		return gl.DEPTH_COMPONENT32F, gl.DEPTH_COMPONENT, gl.FLOAT
	default:
		return gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE
	}
}

func filter(f gpu.Filter) int32 {
	switch f {
	case gpu.Nearest:
		return gl.NEAREST
	case gpu.LinearMipmapLinear:
		return gl.LINEAR_MIPMAP_LINEAR
	default:
		return gl.LINEAR
	}
}

func wrap(w gpu.Wrap) int32 {
	switch w {
	case gpu.ClampToEdge:
		return gl.CLAMP_TO_EDGE
	case gpu.ClampToBorder:
		return gl.CLAMP_TO_BORDER
	default:
		return gl.REPEAT
	}
}

func attachmentPoint(a gpu.Attachment) uint32 {
	if a == gpu.DepthAttachment {
		return gl.DEPTH_ATTACHMENT
	}
	return gl.COLOR_ATTACHMENT0 + uint32(a)
}

func capability(c gpu.Capability) uint32 {
	switch c {
	case gpu.CullFaceTest:
		return gl.CULL_FACE
	case gpu.Blend:
		return gl.BLEND
	default:
		return gl.DEPTH_TEST
	}
}
