package mesh

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Vector is the element type of a component store.
type Vector interface {
	mgl32.Vec2 | mgl32.Vec3 | mgl32.Vec4
}

// Component is a type-erased attribute store, one per Kind in a Mesh.
type Component interface {
	Kind() Kind
	Len() int
	// AddRange appends count elements of src starting at start.
	// src must be of the same kind.
	AddRange(src Component, start, count int)
	Clear()
	CloneEmpty() Component
	// AppendFloats appends the float values of element i to dst.
	AppendFloats(dst []float32, i int) []float32
}

// Store is a typed, growable attribute array.
type Store[T Vector] struct {
	kind   Kind
	data   []T
	bounds Box
}

var (
	_ Component = (*Store[mgl32.Vec2])(nil)
	_ Component = (*Store[mgl32.Vec3])(nil)
	_ Component = (*Store[mgl32.Vec4])(nil)
)

// NewStore creates an empty store for kind. The element width must match the kind.
func NewStore[T Vector](kind Kind) *Store[T] {
	var zero T
	if n := len(floats(zero)); n != kind.Floats() {
		panic(fmt.Sprintf("mesh: %s needs %d floats per element, got %d", kind, kind.Floats(), n))
	}
	return &Store[T]{kind: kind}
}

// NewComponent creates an empty store for kind with its natural element type.
func NewComponent(kind Kind) Component {
	switch kind {
	case Position2, UV:
		return NewStore[mgl32.Vec2](kind)
	case Position3, Normal:
		return NewStore[mgl32.Vec3](kind)
	case Color:
		return NewStore[mgl32.Vec4](kind)
	default:
		panic(fmt.Sprintf("mesh: unknown component kind %d", kind))
	}
}

func floats[T Vector](v T) []float32 {
	switch v := any(v).(type) {
	case mgl32.Vec2:
		return v[:]
	case mgl32.Vec3:
		return v[:]
	case mgl32.Vec4:
		return v[:]
	}
	return nil
}

func (s *Store[T]) Kind() Kind { return s.kind }

func (s *Store[T]) Len() int { return len(s.data) }

// At returns element i.
func (s *Store[T]) At(i int) T { return s.data[i] }

// Set replaces element i. Cached bounds are not updated; call CalculateBounds.
func (s *Store[T]) Set(i int, v T) { s.data[i] = v }

// Values returns the backing slice. Callers must not append to it.
func (s *Store[T]) Values() []T { return s.data }

// Append adds elements to the end of the store.
func (s *Store[T]) Append(values ...T) {
	n := len(s.data)
	s.data = append(s.data, values...)
	if s.kind.IsPosition() {
		for i := n; i < len(s.data); i++ {
			s.include(i)
		}
	}
}

func (s *Store[T]) AddRange(src Component, start, count int) {
	other, ok := src.(*Store[T])
	if !ok || other.kind != s.kind {
		panic(fmt.Sprintf("mesh: cannot add %s elements to %s store", src.Kind(), s.kind))
	}
	s.Append(other.data[start : start+count]...)
}

func (s *Store[T]) Clear() {
	s.data = s.data[:0]
	s.bounds = Box{}
}

func (s *Store[T]) CloneEmpty() Component {
	return &Store[T]{kind: s.kind}
}

func (s *Store[T]) AppendFloats(dst []float32, i int) []float32 {
	return append(dst, floats(s.data[i])...)
}

// Bounds returns the cached bounding box. Only position stores have one.
func (s *Store[T]) Bounds() Box {
	s.mustBePosition()
	return s.bounds
}

// CalculateBounds recomputes the bounding box from every element.
func (s *Store[T]) CalculateBounds() Box {
	s.mustBePosition()
	s.bounds = Box{}
	for i := range s.data {
		s.include(i)
	}
	return s.bounds
}

func (s *Store[T]) include(i int) {
	p := toVec3(floats(s.data[i]))
	if i == 0 {
		s.bounds = Box{Min: p, Max: p}
		return
	}
	s.bounds = s.bounds.Extend(p)
}

func (s *Store[T]) mustBePosition() {
	if !s.kind.IsPosition() {
		panic(fmt.Sprintf("mesh: %s store has no bounds", s.kind))
	}
}

func toVec3(f []float32) mgl32.Vec3 {
	var p mgl32.Vec3
	copy(p[:], f)
	return p
}
