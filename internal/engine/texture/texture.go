// Package texture manages 2D and cube textures on a gpu.Device.
package texture

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/Faultbox/axion/internal/engine/gpu"
)

// Texture is a 2D or cube map texture with fixed format.
type Texture struct {
	dev    gpu.Device
	handle gpu.Texture
	target gpu.TextureTarget
	format gpu.Format
	params gpu.TextureParams
	width  int
	height int
}

// Linear is the default sampling for render targets.
var Linear = gpu.TextureParams{
	MinFilter: gpu.Linear,
	MagFilter: gpu.Linear,
	Wrap:      gpu.ClampToEdge,
}

// Nearest samples without filtering, used for G-buffer lookups.
var Nearest = gpu.TextureParams{
	MinFilter: gpu.Nearest,
	MagFilter: gpu.Nearest,
	Wrap:      gpu.ClampToEdge,
}

// New2D allocates a 2D texture. pixels may be nil to allocate storage only.
func New2D(dev gpu.Device, format gpu.Format, width, height int, params gpu.TextureParams, pixels []byte) *Texture {
	t := &Texture{
		dev:    dev,
		handle: dev.CreateTexture(),
		target: gpu.Texture2D,
		format: format,
		params: params,
	}
	t.allocate(width, height, pixels)
	return t
}

// NewCube allocates a cube map with six size×size faces.
func NewCube(dev gpu.Device, format gpu.Format, size int, params gpu.TextureParams) *Texture {
	t := &Texture{
		dev:    dev,
		handle: dev.CreateTexture(),
		target: gpu.TextureCube,
		format: format,
		params: params,
	}
	t.allocate(size, size, nil)
	return t
}

// FromImage uploads img as RGBA8 with mipmaps. Images larger than maxSize
// on either side are scaled down first; maxSize <= 0 disables scaling.
func FromImage(dev gpu.Device, img image.Image, maxSize int) (*Texture, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("texture: empty image")
	}
	w, h := b.Dx(), b.Dy()
	if maxSize > 0 && (w > maxSize || h > maxSize) {
		if w >= h {
			h = max(1, h*maxSize/w)
			w = maxSize
		} else {
			w = max(1, w*maxSize/h)
			h = maxSize
		}
	}

	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(rgba, rgba.Bounds(), img, b, draw.Src, nil)
	}
	flipRows(rgba)

	params := gpu.TextureParams{
		MinFilter: gpu.LinearMipmapLinear,
		MagFilter: gpu.Linear,
		Wrap:      gpu.Repeat,
	}
	t := New2D(dev, gpu.RGBA8, w, h, params, rgba.Pix)
	dev.GenerateMipmap(gpu.Texture2D)
	return t, nil
}

// flipRows turns a top-down image into GL's bottom-up row order.
func flipRows(img *image.RGBA) {
	h := img.Bounds().Dy()
	row := make([]byte, img.Stride)
	for y := 0; y < h/2; y++ {
		top := img.Pix[y*img.Stride : (y+1)*img.Stride]
		bottom := img.Pix[(h-1-y)*img.Stride : (h-y)*img.Stride]
		copy(row, top)
		copy(top, bottom)
		copy(bottom, row)
	}
}

func (t *Texture) allocate(width, height int, pixels []byte) {
	t.width, t.height = max(width, 1), max(height, 1)
	t.dev.BindTexture(t.target, t.handle)
	if t.target == gpu.TextureCube {
		for face := 0; face < 6; face++ {
			t.dev.TexImage2D(gpu.CubeFace(face), t.format, t.width, t.height, nil)
		}
	} else {
		t.dev.TexImage2D(t.target, t.format, t.width, t.height, pixels)
	}
	t.dev.TexParameters(t.target, t.params)
}

// Resize reallocates storage at the new size. Contents are undefined.
func (t *Texture) Resize(width, height int) {
	if width == t.width && height == t.height {
		return
	}
	t.allocate(width, height, nil)
}

// Bind binds the texture to a texture unit.
func (t *Texture) Bind(unit int) {
	t.dev.ActiveTexture(unit)
	t.dev.BindTexture(t.target, t.handle)
}

// Handle returns the device handle.
func (t *Texture) Handle() gpu.Texture { return t.handle }

// Target returns Texture2D or TextureCube.
func (t *Texture) Target() gpu.TextureTarget { return t.target }

// Format returns the storage format.
func (t *Texture) Format() gpu.Format { return t.format }

// Size returns the dimensions of one face.
func (t *Texture) Size() (width, height int) { return t.width, t.height }

// Free deletes the texture. Safe to call twice.
func (t *Texture) Free() {
	if t.handle == 0 {
		return
	}
	t.dev.DeleteTexture(t.handle)
	t.handle = 0
}
