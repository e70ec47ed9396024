// Package window handles SDL2 window, OpenGL context creation and event
// polling.
package window

import (
	"fmt"
	"runtime"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/axion/internal/engine/input"
	"github.com/Faultbox/axion/internal/logger"
)

func init() {
	// OpenGL calls must be made from the main thread
	runtime.LockOSThread()
}

// Config holds window configuration.
type Config struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	VSync      bool
}

// Window wraps SDL2 window and OpenGL context.
type Window struct {
	config    Config
	log       *zap.Logger
	sdlWindow *sdl.Window
	glContext sdl.GLContext
	events    []input.Event
}

// New creates a new window with OpenGL context.
func New(cfg Config) (*Window, error) {
	w := &Window{
		config: cfg,
		log:    logger.Named("window"),
		events: make([]input.Event, 0, 16),
	}

	w.log.Info("initializing SDL2")
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}

	// Set OpenGL attributes BEFORE creating window
	// We want OpenGL 4.1 Core Profile (max supported on macOS)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 4)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 1)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
	sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)
	sdl.GLSetAttribute(sdl.GL_DEPTH_SIZE, 24)

	flags := uint32(sdl.WINDOW_OPENGL | sdl.WINDOW_RESIZABLE)
	if cfg.Fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN
	}

	var err error
	w.sdlWindow, err = sdl.CreateWindow(
		cfg.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width),
		int32(cfg.Height),
		flags,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}

	w.glContext, err = w.sdlWindow.GLCreateContext()
	if err != nil {
		w.sdlWindow.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("SDL_GL_CreateContext failed: %w", err)
	}

	interval := 0
	if cfg.VSync {
		interval = 1
	}
	if err := sdl.GLSetSwapInterval(interval); err != nil {
		w.log.Warn("failed to set swap interval", zap.Int("interval", interval), zap.Error(err))
	}

	w.log.Info("window created",
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Bool("fullscreen", cfg.Fullscreen),
		zap.Bool("vsync", cfg.VSync),
	)
	return w, nil
}

// Close destroys the window and cleans up SDL2.
func (w *Window) Close() {
	w.log.Info("closing window")
	if w.glContext != nil {
		sdl.GLDeleteContext(w.glContext)
	}
	if w.sdlWindow != nil {
		w.sdlWindow.Destroy()
	}
	sdl.Quit()
}

// PollEvents drains the SDL queue. The returned slice is reused by the
// next call.
func (w *Window) PollEvents() []input.Event {
	w.events = w.events[:0]
	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		if e, ok := translate(ev); ok {
			w.events = append(w.events, e)
		}
	}
	return w.events
}

// SwapBuffers swaps the OpenGL buffers.
func (w *Window) SwapBuffers() {
	w.sdlWindow.GLSwap()
}

// Size returns the drawable size in pixels.
func (w *Window) Size() (int, int) {
	width, height := w.sdlWindow.GLGetDrawableSize()
	return int(width), int(height)
}

// SetTitle sets the window title.
func (w *Window) SetTitle(title string) {
	w.sdlWindow.SetTitle(title)
}

func translate(ev sdl.Event) (input.Event, bool) {
	switch e := ev.(type) {
	case *sdl.QuitEvent:
		return input.Event{Type: input.EventQuit}, true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			return input.Event{Type: input.EventResize, Width: int(e.Data1), Height: int(e.Data2)}, true
		}

	case *sdl.KeyboardEvent:
		if e.Repeat != 0 {
			return input.Event{}, false
		}
		t := input.EventKeyUp
		if e.Type == sdl.KEYDOWN {
			t = input.EventKeyDown
		}
		return input.Event{Type: t, Key: keyOf(e.Keysym.Scancode)}, true

	case *sdl.MouseMotionEvent:
		return input.Event{
			Type: input.EventMouseMove,
			X:    int(e.X),
			Y:    int(e.Y),
			DX:   int(e.XRel),
			DY:   int(e.YRel),
			Held: e.State,
		}, true

	case *sdl.MouseButtonEvent:
		t := input.EventMouseUp
		if e.Type == sdl.MOUSEBUTTONDOWN {
			t = input.EventMouseDown
		}
		return input.Event{Type: t, X: int(e.X), Y: int(e.Y), Button: e.Button}, true

	case *sdl.MouseWheelEvent:
		return input.Event{Type: input.EventMouseWheel, Wheel: float32(e.Y)}, true
	}
	return input.Event{}, false
}

func keyOf(sc sdl.Scancode) input.Key {
	switch sc {
	case sdl.SCANCODE_ESCAPE:
		return input.KeyEscape
	case sdl.SCANCODE_W:
		return input.KeyW
	case sdl.SCANCODE_A:
		return input.KeyA
	case sdl.SCANCODE_S:
		return input.KeyS
	case sdl.SCANCODE_D:
		return input.KeyD
	case sdl.SCANCODE_Q:
		return input.KeyQ
	case sdl.SCANCODE_E:
		return input.KeyE
	case sdl.SCANCODE_F:
		return input.KeyF
	case sdl.SCANCODE_F12:
		return input.KeyF12
	case sdl.SCANCODE_SPACE:
		return input.KeySpace
	default:
		return input.KeyUnknown
	}
}
