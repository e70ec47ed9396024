package render

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"github.com/Faultbox/axion/internal/engine/gpu"
	"github.com/Faultbox/axion/internal/engine/mesh"
	"github.com/Faultbox/axion/internal/engine/scene"
	"github.com/Faultbox/axion/internal/engine/texture"
)

// ObjectKind selects which payload of an Object is set.
type ObjectKind int

const (
	MeshObject ObjectKind = iota
	LightObject
	ScreenQuadObject
	SkyboxObject
	AudioObject
)

func (k ObjectKind) String() string {
	switch k {
	case MeshObject:
		return "mesh"
	case LightObject:
		return "light"
	case ScreenQuadObject:
		return "screen-quad"
	case SkyboxObject:
		return "skybox"
	case AudioObject:
		return "audio"
	default:
		return fmt.Sprintf("ObjectKind(%d)", int(k))
	}
}

// LightType distinguishes light payloads.
type LightType int

const (
	DirectionalLight LightType = iota
	PointLight
)

// MeshPayload is drawable geometry. Materials are indexed by face
// material id; missing ids fall back to the first material.
type MeshPayload struct {
	Mesh      *mesh.Mesh
	Materials []*Material
}

// Material returns the material for a face material id.
func (p *MeshPayload) Material(id int) *Material {
	if id >= 0 && id < len(p.Materials) && p.Materials[id] != nil {
		return p.Materials[id]
	}
	if len(p.Materials) > 0 && p.Materials[0] != nil {
		return p.Materials[0]
	}
	return DefaultMaterial()
}

// LightPayload describes a light. Point lights take their position from
// the object transform.
type LightPayload struct {
	Type      LightType
	Color     mgl32.Vec3
	Linear    float32
	Quadratic float32
	Direction mgl32.Vec3
}

// ScreenQuadPayload draws a texture in screen space. Rect is x, y, width,
// height in pixels from the top-left corner.
type ScreenQuadPayload struct {
	Texture *texture.Texture
	Rect    mgl32.Vec4
}

// SkyboxPayload draws a cube map behind everything else.
type SkyboxPayload struct {
	Cube *texture.Texture
}

// AudioPayload positions a sound source. It carries data only.
type AudioPayload struct {
	Source string
	Gain   float32
	Loop   bool
}

// Object is a scene entity. Exactly one payload matching Kind is set.
type Object struct {
	ID         uuid.UUID
	Name       string
	Kind       ObjectKind
	Transform  scene.Transform
	Visible    bool
	CastShadow bool

	Mesh   *MeshPayload
	Light  *LightPayload
	Screen *ScreenQuadPayload
	Skybox *SkyboxPayload
	Audio  *AudioPayload

	// OnUpdate runs on the render thread once per frame before drawing.
	OnUpdate func(o *Object, dt time.Duration)
	// OnResize runs after the pipelines have handled a screen resize.
	OnResize func(o *Object, width, height int)

	resources map[gpu.Program]*meshResources
	dirty     bool
}

func newObject(kind ObjectKind, name string) *Object {
	return &Object{
		ID:        uuid.New(),
		Name:      name,
		Kind:      kind,
		Transform: scene.Identity(),
		Visible:   true,
	}
}

// NewMeshObject wraps a mesh. Solid meshes cast shadows.
func NewMeshObject(name string, m *mesh.Mesh, materials ...*Material) *Object {
	o := newObject(MeshObject, name)
	if len(materials) == 0 {
		materials = []*Material{DefaultMaterial()}
	}
	o.Mesh = &MeshPayload{Mesh: m, Materials: materials}
	o.CastShadow = m.PrimitiveType >= mesh.Triangle
	return o
}

// NewLightObject creates a light.
func NewLightObject(name string, light LightPayload) *Object {
	o := newObject(LightObject, name)
	o.Light = &light
	return o
}

// NewScreenQuadObject draws tex in the given pixel rectangle.
func NewScreenQuadObject(name string, tex *texture.Texture, rect mgl32.Vec4) *Object {
	o := newObject(ScreenQuadObject, name)
	o.Screen = &ScreenQuadPayload{Texture: tex, Rect: rect}
	return o
}

// NewSkyboxObject draws a cube map as the background.
func NewSkyboxObject(name string, cube *texture.Texture) *Object {
	o := newObject(SkyboxObject, name)
	o.Skybox = &SkyboxPayload{Cube: cube}
	return o
}

// NewAudioObject places a sound source.
func NewAudioObject(name, source string, gain float32) *Object {
	o := newObject(AudioObject, name)
	o.Audio = &AudioPayload{Source: source, Gain: gain}
	return o
}

// Model returns the model matrix.
func (o *Object) Model() mgl32.Mat4 {
	return o.Transform.Matrix()
}

// Renderable reports whether a pipeline draws the object this frame.
func (o *Object) Renderable() bool {
	if !o.Visible {
		return false
	}
	switch o.Kind {
	case MeshObject:
		return o.Mesh != nil && o.Mesh.Mesh != nil
	case ScreenQuadObject:
		return o.Screen != nil && o.Screen.Texture != nil
	case SkyboxObject:
		return o.Skybox != nil && o.Skybox.Cube != nil
	}
	return false
}

// Solid reports whether the object is a visible triangle or quad mesh.
func (o *Object) Solid() bool {
	return o.Kind == MeshObject && o.Renderable() && o.Mesh.Mesh.PrimitiveType >= mesh.Triangle
}

// Bounds returns the world-space box of a mesh object.
func (o *Object) Bounds() (mesh.Box, bool) {
	if o.Kind != MeshObject || o.Mesh == nil || o.Mesh.Mesh == nil || o.Mesh.Mesh.VertexCount() == 0 {
		return mesh.Box{}, false
	}
	return o.Mesh.Mesh.Bounds().Transform(o.Model()), true
}

// MarkDirty schedules a full re-upload of the mesh before the next draw.
func (o *Object) MarkDirty() {
	o.dirty = true
}

func (o *Object) String() string {
	return fmt.Sprintf("%s %s %q", o.ID, o.Kind, o.Name)
}
