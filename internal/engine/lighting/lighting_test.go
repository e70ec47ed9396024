package lighting

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder map[string]any

func (r recorder) SetBool(name string, v bool)       { r[name] = v }
func (r recorder) SetInt(name string, v int)         { r[name] = v }
func (r recorder) SetFloat(name string, v float32)   { r[name] = v }
func (r recorder) SetVec3(name string, v mgl32.Vec3) { r[name] = v }

func TestApply(t *testing.T) {
	var s Set
	s.Directional = &Directional{Direction: mgl32.Vec3{0, -2, 0}, Color: mgl32.Vec3{1, 1, 1}}
	lin, quad := Attenuation(50)
	require.True(t, s.AddPoint(Point{Position: mgl32.Vec3{1, 2, 3}, Color: mgl32.Vec3{1, 0, 0}, Linear: lin, Quadratic: quad}))

	r := recorder{}
	s.Apply(r)

	assert.Equal(t, true, r["hasDirLight"])
	assert.Equal(t, mgl32.Vec3{0, -1, 0}, r["dirLight.direction"])
	assert.Equal(t, 1, r["pointLightCount"])
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, r["pointLights[0].position"])
	assert.InDelta(t, 0.09, r["pointLights[0].linear"], 1e-6)
	assert.InDelta(t, 0.03, r["pointLights[0].quadratic"], 1e-6)
}

func TestAddPointFull(t *testing.T) {
	var s Set
	for i := 0; i < MaxPointLights; i++ {
		require.True(t, s.AddPoint(Point{}))
	}
	assert.False(t, s.AddPoint(Point{}))

	// Sets built by hand are clamped when applied.
	s.Points = append(s.Points, Point{}, Point{})
	r := recorder{}
	s.Apply(r)
	assert.Equal(t, MaxPointLights, r["pointLightCount"])
	_, ok := r["pointLights[8].position"]
	assert.False(t, ok)
}

func TestClear(t *testing.T) {
	s := Set{Directional: &Directional{}, Points: []Point{{}}}
	s.Clear()
	r := recorder{}
	s.Apply(r)
	assert.Equal(t, false, r["hasDirLight"])
	assert.Equal(t, 0, r["pointLightCount"])
}

func TestSunDirection(t *testing.T) {
	d := SunDirection(0, 90)
	assert.InDelta(t, -1, d[1], 1e-6, "noon sun shines straight down")

	d = SunDirection(90, 0)
	assert.InDelta(t, -1, d[0], 1e-6)
	assert.InDelta(t, 0, d[1], 1e-6)
}
