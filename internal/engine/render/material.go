package render

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/axion/internal/engine/texture"
)

// Uniforms is the part of a shader program materials are written to.
type Uniforms interface {
	SetBool(name string, v bool)
	SetInt(name string, v int)
	SetFloat(name string, v float32)
	SetVec3(name string, v mgl32.Vec3)
	SetVec4(name string, v mgl32.Vec4)
	SetTexture(name string, unit int)
}

// Material describes surface shading.
type Material struct {
	DiffuseColor     mgl32.Vec4
	Ambient          float32
	Shininess        float32
	SpecularStrength float32

	DiffuseMap  *texture.Texture
	SpecularMap *texture.Texture

	// Pipeline is ForwardPipeline or DeferredPipeline. Zero uses the
	// context default.
	Pipeline PipelineKind
}

// DefaultMaterial returns a grey, mildly specular material.
func DefaultMaterial() *Material {
	return &Material{
		DiffuseColor:     mgl32.Vec4{0.5, 0.5, 0.5, 1},
		Ambient:          0.3,
		Shininess:        32,
		SpecularStrength: 0.5,
	}
}

// WriteTo sets the material struct uniform called name and binds its maps
// to DiffuseMapUnit and SpecularMapUnit.
func (m *Material) WriteTo(u Uniforms, name string) {
	prefix := name + "."
	u.SetVec4(prefix+"diffuseColor", m.DiffuseColor)
	u.SetFloat(prefix+"ambient", m.Ambient)
	u.SetFloat(prefix+"shininess", m.Shininess)
	u.SetFloat(prefix+"specularStrength", m.SpecularStrength)

	u.SetTexture(prefix+"diffuseMap", DiffuseMapUnit)
	u.SetTexture(prefix+"specularMap", SpecularMapUnit)
	u.SetBool(prefix+"hasDiffuseMap", m.DiffuseMap != nil)
	u.SetBool(prefix+"hasSpecularMap", m.SpecularMap != nil)
	if m.DiffuseMap != nil {
		m.DiffuseMap.Bind(DiffuseMapUnit)
	}
	if m.SpecularMap != nil {
		m.SpecularMap.Bind(SpecularMapUnit)
	}
}
