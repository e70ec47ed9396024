// Package input defines platform-neutral input events translated by the
// window layer.
package input

import "fmt"

// EventType identifies a platform event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
)

func (t EventType) String() string {
	switch t {
	case EventNone:
		return "none"
	case EventQuit:
		return "quit"
	case EventResize:
		return "resize"
	case EventKeyDown:
		return "key-down"
	case EventKeyUp:
		return "key-up"
	case EventMouseMove:
		return "mouse-move"
	case EventMouseDown:
		return "mouse-down"
	case EventMouseUp:
		return "mouse-up"
	case EventMouseWheel:
		return "mouse-wheel"
	default:
		return fmt.Sprintf("EventType(%d)", int(t))
	}
}

// Key is a physical key.
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeyW
	KeyA
	KeyS
	KeyD
	KeyQ
	KeyE
	KeyF
	KeyF12
	KeySpace
)

// Mouse buttons.
const (
	ButtonLeft   = 1
	ButtonMiddle = 2
	ButtonRight  = 3
)

// Event is a platform event. Fields not relevant to Type are zero.
type Event struct {
	Type EventType
	Key  Key

	// Resize
	Width, Height int

	// Mouse position, relative motion and wheel delta.
	X, Y   int
	DX, DY int
	Wheel  float32
	Button uint8
	// Held reports the buttons held during a mouse move as a bit mask
	// (1 << (button-1)).
	Held uint32
}

// Holds reports whether button was held during a mouse move.
func (e Event) Holds(button uint8) bool {
	return e.Held&(1<<(button-1)) != 0
}
