// Package lighting packs scene lights into shader uniforms.
package lighting

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// MaxPointLights is the maximum number of point lights supported in shaders.
const MaxPointLights = 8

// Directional is a light infinitely far away, e.g. the sun.
type Directional struct {
	Direction mgl32.Vec3 // direction the light travels
	Color     mgl32.Vec3
}

// Point is an omnidirectional light with distance attenuation.
type Point struct {
	Position  mgl32.Vec3
	Color     mgl32.Vec3
	Linear    float32
	Quadratic float32
}

// Uniforms is the part of a shader program lights are written to.
type Uniforms interface {
	SetBool(name string, v bool)
	SetInt(name string, v int)
	SetFloat(name string, v float32)
	SetVec3(name string, v mgl32.Vec3)
}

// Set holds the lights of one frame.
type Set struct {
	Directional *Directional
	Points      []Point
}

// Clear removes all lights.
func (s *Set) Clear() {
	s.Directional = nil
	s.Points = s.Points[:0]
}

// AddPoint adds a point light.
// Returns false if the set is full.
func (s *Set) AddPoint(p Point) bool {
	if len(s.Points) >= MaxPointLights {
		return false
	}
	s.Points = append(s.Points, p)
	return true
}

// Apply writes the lights to the program:
//
//	hasDirLight, dirLight.direction, dirLight.color
//	pointLightCount, pointLights[i].{position,color,linear,quadratic}
func (s *Set) Apply(u Uniforms) {
	u.SetBool("hasDirLight", s.Directional != nil)
	if d := s.Directional; d != nil {
		u.SetVec3("dirLight.direction", normalize(d.Direction))
		u.SetVec3("dirLight.color", d.Color)
	}

	n := min(len(s.Points), MaxPointLights)
	u.SetInt("pointLightCount", n)
	for i, p := range s.Points[:n] {
		prefix := fmt.Sprintf("pointLights[%d].", i)
		u.SetVec3(prefix+"position", p.Position)
		u.SetVec3(prefix+"color", p.Color)
		u.SetFloat(prefix+"linear", p.Linear)
		u.SetFloat(prefix+"quadratic", p.Quadratic)
	}
}

// Attenuation returns linear and quadratic factors that fade a point light
// to a few percent at the given range.
func Attenuation(lightRange float32) (linear, quadratic float32) {
	if lightRange <= 0 {
		lightRange = 100 // Default range
	}
	return 4.5 / lightRange, 75 / (lightRange * lightRange)
}

// SunDirection converts an azimuth around Y and an elevation above the
// horizon, both in degrees, to the direction sunlight travels.
func SunDirection(azimuth, elevation float32) mgl32.Vec3 {
	az := mgl32.DegToRad(azimuth)
	el := mgl32.DegToRad(elevation)
	toSun := mgl32.Vec3{
		math32.Cos(el) * math32.Sin(az),
		math32.Sin(el),
		math32.Cos(el) * math32.Cos(az),
	}
	return toSun.Mul(-1)
}

func normalize(v mgl32.Vec3) mgl32.Vec3 {
	if v.Len() == 0 {
		return mgl32.Vec3{0, -1, 0}
	}
	return v.Normalize()
}
