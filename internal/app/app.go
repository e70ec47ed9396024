// Package app runs the update and render loops, on one thread or two.
package app

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/axion/internal/engine/input"
	"github.com/Faultbox/axion/internal/engine/render"
	"github.com/Faultbox/axion/internal/engine/scene"
	"github.com/Faultbox/axion/internal/logger"
)

// Platform is the window system the application presents to.
type Platform interface {
	PollEvents() []input.Event
	SwapBuffers()
	Size() (width, height int)
}

// Options configures the loops.
type Options struct {
	// MultiThreaded runs the scene update on its own goroutine.
	MultiThreaded bool
	// UpdateRate is the number of update ticks per second in
	// multi-threaded mode.
	UpdateRate int
	// MaxFrames stops the application after that many presented frames;
	// 0 runs until quit.
	MaxFrames uint64
}

// App owns the render context on the calling goroutine and the scene on
// the update goroutine.
type App struct {
	// OnEvent handles platform events on the update thread.
	OnEvent func(s *scene.Scene, e input.Event)
	// AfterRender runs on the render thread after each presented frame.
	// Returning true stops the application.
	AfterRender func(rc *render.Context, frame uint64) (stop bool, err error)

	// RenderTasks and UpdateTasks are drained at the start of each frame
	// of their thread.
	RenderTasks TaskQueue
	UpdateTasks TaskQueue

	opts     Options
	platform Platform
	rc       *render.Context
	scene    *scene.Scene
	handoff  *Handoff
	log      *zap.Logger
	frames   uint64
}

// New creates an application. rc must be initialized before Run.
func New(platform Platform, rc *render.Context, sc *scene.Scene, opts Options) *App {
	if opts.UpdateRate <= 0 {
		opts.UpdateRate = 60
	}
	return &App{
		opts:     opts,
		platform: platform,
		rc:       rc,
		scene:    sc,
		handoff:  NewHandoff(),
		log:      logger.Named("app"),
	}
}

// Frames returns the number of presented frames.
func (a *App) Frames() uint64 { return a.frames }

// Run runs until the platform quits, MaxFrames is reached, AfterRender
// stops it or ctx is cancelled. It must be called on the thread that owns
// the GPU context.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.handoff.Publish(a.scene.Snapshot())
	if !a.opts.MultiThreaded {
		a.log.Info("running single-threaded")
		return a.loop(ctx, true)
	}

	a.log.Info("running multi-threaded", zap.Int("update_rate", a.opts.UpdateRate))
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.updateLoop(gctx) })
	err := a.loop(gctx, false)
	cancel()
	if werr := g.Wait(); err == nil {
		err = werr
	}
	return err
}

// loop is the render thread. With inline set the scene is also updated
// here, before rendering.
func (a *App) loop(ctx context.Context, inline bool) error {
	last := time.Now()
	for ctx.Err() == nil {
		now := time.Now()
		dt := now.Sub(last)
		last = now

		if a.pollEvents() {
			a.log.Info("quit requested")
			return nil
		}
		if inline {
			a.update(dt)
		}
		stop, err := a.renderFrame(ctx, dt, inline)
		if err != nil || stop {
			return err
		}
	}
	return nil
}

// pollEvents routes platform events and reports whether to quit.
func (a *App) pollEvents() bool {
	for _, e := range a.platform.PollEvents() {
		switch {
		case e.Type == input.EventQuit:
			return true
		case e.Type == input.EventKeyDown && e.Key == input.KeyEscape:
			return true
		case e.Type == input.EventResize:
			w, h := e.Width, e.Height
			a.RenderTasks.Dispatch(func() {
				if err := a.rc.SetScreenPixelSize(w, h); err != nil {
					a.log.Error("resize failed", zap.Int("width", w), zap.Int("height", h), zap.Error(err))
				}
			})
		}
		if a.OnEvent != nil {
			a.UpdateTasks.Dispatch(func() { a.OnEvent(a.scene, e) })
		}
	}
	return false
}

func (a *App) update(dt time.Duration) {
	a.UpdateTasks.Process()
	a.scene.Update(dt)
	a.handoff.Publish(a.scene.Snapshot())
}

func (a *App) updateLoop(ctx context.Context) error {
	step := time.Second / time.Duration(a.opts.UpdateRate)
	ticker := time.NewTicker(step)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			a.update(step)
		}
	}
}

// renderFrame draws and presents one frame. In single-threaded mode it
// waits for the snapshot of this frame; otherwise it reuses the last one
// when the update thread has not published since. A frame the context
// fails to render is dropped without presenting.
func (a *App) renderFrame(ctx context.Context, dt time.Duration, wait bool) (bool, error) {
	a.RenderTasks.Process()
	if wait {
		snap, err := a.handoff.Wait(ctx)
		if err != nil {
			return true, nil
		}
		a.rc.ApplySnapshot(snap)
	} else if snap, ok := a.handoff.Latest(); ok {
		a.rc.ApplySnapshot(snap)
	}
	a.rc.UpdateObjects(dt)
	if err := a.rc.Render(); err != nil {
		return false, nil
	}
	a.platform.SwapBuffers()
	a.frames++

	if a.AfterRender != nil {
		stop, err := a.AfterRender(a.rc, a.frames)
		if err != nil || stop {
			return true, err
		}
	}
	return a.opts.MaxFrames > 0 && a.frames >= a.opts.MaxFrames, nil
}
