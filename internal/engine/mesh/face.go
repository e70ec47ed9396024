package mesh

import "fmt"

// FaceType is a face arity. The value equals the number of indices.
type FaceType int

const (
	Point    FaceType = 1
	Line     FaceType = 2
	Triangle FaceType = 3
	Quad     FaceType = 4
)

func (t FaceType) String() string {
	switch t {
	case Point:
		return "point"
	case Line:
		return "line"
	case Triangle:
		return "triangle"
	case Quad:
		return "quad"
	default:
		return fmt.Sprintf("FaceType(%d)", int(t))
	}
}

func (t FaceType) valid() bool {
	return t >= Point && t <= Quad
}

// Face is a run of Count entries of the mesh index array starting at Start.
type Face struct {
	Start      int
	Count      int
	MaterialID int
}

// Type returns the face arity.
func (f Face) Type() FaceType { return FaceType(f.Count) }

// Index returns the position in the mesh index array of corner i.
func (f Face) Index(i int) int { return f.Start + i }
