package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/axion/internal/engine/input"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		in   sdl.Event
		want input.Event
		ok   bool
	}{
		{"quit", &sdl.QuitEvent{Type: sdl.QUIT}, input.Event{Type: input.EventQuit}, true},
		{
			"resize",
			&sdl.WindowEvent{Type: sdl.WINDOWEVENT, Event: sdl.WINDOWEVENT_SIZE_CHANGED, Data1: 1920, Data2: 1080},
			input.Event{Type: input.EventResize, Width: 1920, Height: 1080},
			true,
		},
		{"focus ignored", &sdl.WindowEvent{Type: sdl.WINDOWEVENT, Event: sdl.WINDOWEVENT_FOCUS_GAINED}, input.Event{}, false},
		{
			"escape down",
			&sdl.KeyboardEvent{Type: sdl.KEYDOWN, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_ESCAPE}},
			input.Event{Type: input.EventKeyDown, Key: input.KeyEscape},
			true,
		},
		{
			"w up",
			&sdl.KeyboardEvent{Type: sdl.KEYUP, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_W}},
			input.Event{Type: input.EventKeyUp, Key: input.KeyW},
			true,
		},
		{
			"repeat ignored",
			&sdl.KeyboardEvent{Type: sdl.KEYDOWN, Repeat: 1, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_W}},
			input.Event{},
			false,
		},
		{
			"drag",
			&sdl.MouseMotionEvent{Type: sdl.MOUSEMOTION, X: 10, Y: 20, XRel: 3, YRel: -2, State: 1},
			input.Event{Type: input.EventMouseMove, X: 10, Y: 20, DX: 3, DY: -2, Held: 1},
			true,
		},
		{
			"right click",
			&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONDOWN, Button: input.ButtonRight, X: 5, Y: 6},
			input.Event{Type: input.EventMouseDown, Button: input.ButtonRight, X: 5, Y: 6},
			true,
		},
		{"wheel", &sdl.MouseWheelEvent{Type: sdl.MOUSEWHEEL, Y: -1}, input.Event{Type: input.EventMouseWheel, Wheel: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := translate(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
