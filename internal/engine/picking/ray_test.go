package picking

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/axion/internal/engine/gpu/gputest"
	"github.com/Faultbox/axion/internal/engine/mesh"
	"github.com/Faultbox/axion/internal/engine/render"
)

func TestIntersectBox(t *testing.T) {
	box := mesh.Box{Min: mgl32.Vec3{-1, -1, -1}, Max: mgl32.Vec3{1, 1, 1}}
	tests := []struct {
		name string
		ray  Ray
		hit  bool
		dist float32
	}{
		{"front", Ray{Origin: mgl32.Vec3{0, 0, 5}, Direction: mgl32.Vec3{0, 0, -1}}, true, 4},
		{"inside", Ray{Origin: mgl32.Vec3{0, 0, 0}, Direction: mgl32.Vec3{1, 0, 0}}, true, 1},
		{"behind", Ray{Origin: mgl32.Vec3{0, 0, 5}, Direction: mgl32.Vec3{0, 0, 1}}, false, 0},
		{"parallel outside", Ray{Origin: mgl32.Vec3{0, 2, 5}, Direction: mgl32.Vec3{0, 0, -1}}, false, 0},
		{"miss", Ray{Origin: mgl32.Vec3{3, 0, 5}, Direction: mgl32.Vec3{0, 0, -1}}, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, hit := tt.ray.IntersectBox(box)
			assert.Equal(t, tt.hit, hit)
			if tt.hit {
				assert.InDelta(t, tt.dist, d, 1e-5)
			}
		})
	}
}

func TestIntersectPlaneY(t *testing.T) {
	r := Ray{Origin: mgl32.Vec3{0, 4, 0}, Direction: mgl32.Vec3{1, -1, 0}.Normalize()}
	x, z, ok := r.IntersectPlaneY(1)
	require.True(t, ok)
	assert.InDelta(t, 3, x, 1e-5)
	assert.InDelta(t, 0, z, 1e-5)

	_, _, ok = r.IntersectPlaneY(5)
	assert.False(t, ok, "plane behind the origin")

	flat := Ray{Direction: mgl32.Vec3{1, 0, 0}}
	_, _, ok = flat.IntersectPlaneY(0)
	assert.False(t, ok)
}

func TestScreenToRayCenter(t *testing.T) {
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	proj := mgl32.Perspective(mgl32.DegToRad(45), 1, 0.1, 100)
	r := ScreenToRay(50, 50, 100, 100, proj.Mul4(view).Inv())

	assert.True(t, r.Direction.ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, 1e-4))
	assert.InDelta(t, 4.9, r.Origin[2], 1e-3)
}

func TestPickNearest(t *testing.T) {
	ctx := render.NewContext(gputest.New(), 800, 600)
	ctx.Camera.Position = mgl32.Vec3{0, 0, 5}

	front := render.NewMeshObject("front", mesh.Cube())
	back := render.NewMeshObject("back", mesh.Cube())
	back.Transform.Position = mgl32.Vec3{0, 0, -3}
	grid := render.NewMeshObject("grid", mesh.Grid(4, 1, mgl32.Vec4{1, 1, 1, 1}))
	ctx.AddObject(back)
	ctx.AddObject(front)
	ctx.AddObject(grid)

	hit, ok := Pick(ctx, 400, 300)
	require.True(t, ok)
	assert.Same(t, front, hit.Object)
	assert.InDelta(t, 4.4, hit.Distance, 0.05)

	front.Visible = false
	hit, ok = Pick(ctx, 400, 300)
	require.True(t, ok)
	assert.Same(t, back, hit.Object)

	_, ok = Pick(ctx, 0, 0)
	assert.False(t, ok)
}
