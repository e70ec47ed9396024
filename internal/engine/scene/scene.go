// Package scene holds the update-side state of a scene and the immutable
// snapshots handed to the render thread.
package scene

import (
	"maps"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// Transform is a position, rotation and scale.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

// Identity returns a transform that leaves geometry unchanged.
func Identity() Transform {
	return Transform{Rotation: mgl32.QuatIdent(), Scale: mgl32.Vec3{1, 1, 1}}
}

// Matrix returns Translate * Rotate * Scale.
func (t Transform) Matrix() mgl32.Mat4 {
	return mgl32.Translate3D(t.Position[0], t.Position[1], t.Position[2]).
		Mul4(t.Rotation.Mat4()).
		Mul4(mgl32.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2]))
}

// ObjectState is the per-frame state of one object.
type ObjectState struct {
	Transform Transform
	Visible   bool
}

// LightState is the per-frame state of one light.
type LightState struct {
	Color     mgl32.Vec3
	Direction mgl32.Vec3
}

// CameraState places the camera.
type CameraState struct {
	Position mgl32.Vec3
	Target   mgl32.Vec3
}

// Snapshot is an immutable copy of the scene at the end of an update.
type Snapshot struct {
	Frame   uint64
	Elapsed time.Duration
	Camera  CameraState
	Objects map[uuid.UUID]ObjectState
	Lights  map[uuid.UUID]LightState
}

// Animator advances scene state by dt.
type Animator func(s *Scene, dt time.Duration)

// Scene is the mutable state owned by the update thread.
type Scene struct {
	Camera CameraState

	frame     uint64
	elapsed   time.Duration
	objects   map[uuid.UUID]*ObjectState
	lights    map[uuid.UUID]*LightState
	animators []Animator
}

// New returns an empty scene.
func New() *Scene {
	return &Scene{
		objects: make(map[uuid.UUID]*ObjectState),
		lights:  make(map[uuid.UUID]*LightState),
	}
}

// Track starts tracking an object and returns its mutable state.
func (s *Scene) Track(id uuid.UUID, st ObjectState) *ObjectState {
	p := &st
	s.objects[id] = p
	return p
}

// Untrack stops tracking an object or light.
func (s *Scene) Untrack(id uuid.UUID) {
	delete(s.objects, id)
	delete(s.lights, id)
}

// Object returns the state of a tracked object, or nil.
func (s *Scene) Object(id uuid.UUID) *ObjectState { return s.objects[id] }

// TrackLight starts tracking a light and returns its mutable state.
func (s *Scene) TrackLight(id uuid.UUID, st LightState) *LightState {
	p := &st
	s.lights[id] = p
	return p
}

// Light returns the state of a tracked light, or nil.
func (s *Scene) Light(id uuid.UUID) *LightState { return s.lights[id] }

// Animate registers fn to run on every Update.
func (s *Scene) Animate(fn Animator) {
	s.animators = append(s.animators, fn)
}

// Frame returns the number of updates so far.
func (s *Scene) Frame() uint64 { return s.frame }

// Elapsed returns the total simulated time.
func (s *Scene) Elapsed() time.Duration { return s.elapsed }

// Update advances the scene by dt and runs the animators in registration
// order.
func (s *Scene) Update(dt time.Duration) {
	s.frame++
	s.elapsed += dt
	for _, fn := range s.animators {
		fn(s, dt)
	}
}

// Snapshot copies the current state. Later updates do not affect it.
func (s *Scene) Snapshot() Snapshot {
	snap := Snapshot{
		Frame:   s.frame,
		Elapsed: s.elapsed,
		Camera:  s.Camera,
		Objects: make(map[uuid.UUID]ObjectState, len(s.objects)),
		Lights:  make(map[uuid.UUID]LightState, len(s.lights)),
	}
	for id, st := range s.objects {
		snap.Objects[id] = *st
	}
	for id, st := range s.lights {
		snap.Lights[id] = *st
	}
	return snap
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	s.Objects = maps.Clone(s.Objects)
	s.Lights = maps.Clone(s.Lights)
	return s
}
