// Package mesh provides polygon meshes built from per-attribute component
// stores, with mixed-arity faces, per-face materials and conversion to GPU
// ready vertex and index data.
package mesh

import "fmt"

// Kind identifies the vertex attribute a component store holds.
type Kind uint8

const (
	Position2 Kind = iota
	Position3
	Normal
	UV
	Color
	kindCount
)

type kindInfo struct {
	name       string
	floats     int
	attribute  string // shader input name
	positional bool
}

var kinds = [kindCount]kindInfo{
	Position2: {name: "position2", floats: 2, attribute: "aPos", positional: true},
	Position3: {name: "position3", floats: 3, attribute: "aPos", positional: true},
	Normal:    {name: "normal", floats: 3, attribute: "aNormal"},
	UV:        {name: "uv", floats: 2, attribute: "aTexCoords"},
	Color:     {name: "color", floats: 4, attribute: "aColor"},
}

func (k Kind) info() kindInfo {
	if k >= kindCount {
		panic(fmt.Sprintf("mesh: unknown component kind %d", k))
	}
	return kinds[k]
}

func (k Kind) String() string {
	if k >= kindCount {
		return fmt.Sprintf("Kind(%d)", k)
	}
	return kinds[k].name
}

// Floats returns the number of float32 values per element.
func (k Kind) Floats() int { return k.info().floats }

// Attribute returns the shader input name the kind binds to.
func (k Kind) Attribute() string { return k.info().attribute }

// IsPosition reports whether the kind carries vertex positions.
func (k Kind) IsPosition() bool { return k.info().positional }
