package gpu

import "fmt"

// BufferTarget selects the buffer binding point.
type BufferTarget uint8

const (
	ArrayBuffer BufferTarget = iota
	ElementArrayBuffer
)

// Usage is the buffer usage hint.
type Usage uint8

const (
	StaticDraw Usage = iota
	DynamicDraw
	StreamDraw
)

// DataType is a numeric component type.
type DataType uint8

const (
	Float DataType = iota
	Int
	UnsignedInt
	Short
	UnsignedShort
	Byte
	UnsignedByte
)

// Size returns the size of one element in bytes.
func (t DataType) Size() int {
	switch t {
	case Float, Int, UnsignedInt:
		return 4
	case Short, UnsignedShort:
		return 2
	case Byte, UnsignedByte:
		return 1
	default:
		panic(fmt.Sprintf("gpu: unknown data type %d", t))
	}
}

func (t DataType) String() string {
	switch t {
	case Float:
		return "float"
	case Int:
		return "int"
	case UnsignedInt:
		return "uint"
	case Short:
		return "short"
	case UnsignedShort:
		return "ushort"
	case Byte:
		return "byte"
	case UnsignedByte:
		return "ubyte"
	default:
		return fmt.Sprintf("DataType(%d)", t)
	}
}

// Primitive is the draw topology.
type Primitive uint8

const (
	Points Primitive = iota
	Lines
	LineStrip
	Triangles
	TriangleFan
)

func (p Primitive) String() string {
	switch p {
	case Points:
		return "points"
	case Lines:
		return "lines"
	case LineStrip:
		return "line_strip"
	case Triangles:
		return "triangles"
	case TriangleFan:
		return "triangle_fan"
	default:
		return fmt.Sprintf("Primitive(%d)", p)
	}
}

// TextureTarget selects a texture binding point or a cube map face.
type TextureTarget uint8

const (
	Texture2D TextureTarget = iota
	TextureCube
	CubePositiveX
	CubeNegativeX
	CubePositiveY
	CubeNegativeY
	CubePositiveZ
	CubeNegativeZ
)

// CubeFace returns the target of cube face i (0..5).
func CubeFace(i int) TextureTarget {
	return CubePositiveX + TextureTarget(i)
}

// IsCubeFace reports whether t names a single cube face.
func (t TextureTarget) IsCubeFace() bool {
	return t >= CubePositiveX && t <= CubeNegativeZ
}

// Format is a texture or renderbuffer storage format.
type Format uint8

const (
	RGBA8 Format = iota
	RGB16F
	RGBA16F
	Depth24
	Depth32F
)

// IsDepth reports whether f stores depth.
func (f Format) IsDepth() bool {
	return f == Depth24 || f == Depth32F
}

func (f Format) String() string {
	switch f {
	case RGBA8:
		return "RGBA8"
	case RGB16F:
		return "RGB16F"
	case RGBA16F:
		return "RGBA16F"
	case Depth24:
		return "DEPTH24"
	case Depth32F:
		return "DEPTH32F"
	default:
		return fmt.Sprintf("Format(%d)", f)
	}
}

// Filter is a texture sampling filter.
type Filter uint8

const (
	Nearest Filter = iota
	Linear
	LinearMipmapLinear
)

// Wrap is a texture coordinate wrap mode.
type Wrap uint8

const (
	Repeat Wrap = iota
	ClampToEdge
	ClampToBorder
)

// TextureParams groups the sampler state set on a texture.
type TextureParams struct {
	MinFilter Filter
	MagFilter Filter
	Wrap      Wrap
	Border    [4]float32 // used with ClampToBorder
}

// Attachment is a framebuffer attachment point.
type Attachment uint8

const (
	DepthAttachment Attachment = 0xff
)

// ColorAttachment returns color attachment point i.
func ColorAttachment(i int) Attachment {
	return Attachment(i)
}

func (a Attachment) String() string {
	if a == DepthAttachment {
		return "depth"
	}
	return fmt.Sprintf("color%d", a)
}

// ClearMask selects the buffers Clear resets.
type ClearMask uint8

const (
	ColorBit ClearMask = 1 << iota
	DepthBit
)

// Capability is a toggleable pipeline state.
type Capability uint8

const (
	DepthTest Capability = iota
	CullFaceTest
	Blend
)

// DepthFunc is the depth comparison function.
type DepthFunc uint8

const (
	Less DepthFunc = iota
	LessEqual
)

// Face selects polygon faces for culling.
type Face uint8

const (
	Back Face = iota
	Front
)
