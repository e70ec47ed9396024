// Package main is the entry point for the axion demo viewer.
package main

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/axion/internal/app"
	"github.com/Faultbox/axion/internal/config"
	"github.com/Faultbox/axion/internal/engine/audio"
	"github.com/Faultbox/axion/internal/engine/camera"
	"github.com/Faultbox/axion/internal/engine/debug"
	"github.com/Faultbox/axion/internal/engine/framebuffer"
	"github.com/Faultbox/axion/internal/engine/input"
	"github.com/Faultbox/axion/internal/engine/mesh"
	"github.com/Faultbox/axion/internal/engine/opengl"
	"github.com/Faultbox/axion/internal/engine/picking"
	"github.com/Faultbox/axion/internal/engine/render"
	"github.com/Faultbox/axion/internal/engine/scene"
	"github.com/Faultbox/axion/internal/engine/texture"
	"github.com/Faultbox/axion/internal/engine/window"
	"github.com/Faultbox/axion/internal/logger"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if config.SaveRequested() {
		path, err := cfg.Save()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Config saved to %s\n", path)
		return
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== axion viewer ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg); err != nil {
		logger.Error("viewer error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("viewer closed normally")
}

func run(cfg *config.Config) error {
	win, err := window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return fmt.Errorf("creating window: %w", err)
	}
	defer win.Close()

	dev, err := opengl.New()
	if err != nil {
		return fmt.Errorf("initializing OpenGL: %w", err)
	}

	width, height := win.Size()
	rc := render.NewContext(dev, width, height)
	defer rc.Free()
	rc.Background = mgl32.Vec4(cfg.Render.Background)
	if cfg.Render.Shadows {
		rc.AddPipeline(render.NewDirectionalShadow(cfg.Render.ShadowResolution))
		rc.AddPipeline(render.NewPointShadow(cfg.Render.ShadowResolution / 2))
	}
	rc.AddPipeline(render.NewForward())
	if cfg.Render.Pipeline == config.PipelineDeferred {
		rc.AddPipeline(render.NewDeferred())
		rc.DefaultPipeline = render.DeferredPipeline
	}
	rc.AddPipeline(render.NewScreen())
	if err := rc.InitRender(); err != nil {
		return err
	}

	checker, err := texture.FromImage(dev, checkerImage(64, 32), 256)
	if err != nil {
		return fmt.Errorf("creating floor texture: %w", err)
	}
	defer checker.Free()

	sc := scene.New()
	bounds := buildScene(rc, sc, checker)

	orbit := camera.NewOrbit()
	orbit.FitToBounds(bounds)
	applyOrbit(orbit, sc)

	capture := debug.NewScreenshotCapture("screenshots", "axion")
	a := app.New(win, rc, sc, app.Options{
		MultiThreaded: cfg.Render.MultiThreaded,
		UpdateRate:    cfg.Render.UpdateRate,
	})
	a.OnEvent = func(s *scene.Scene, e input.Event) {
		if handleCameraEvent(orbit, e) {
			applyOrbit(orbit, s)
		}
		if e.Type == input.EventMouseDown && e.Button == input.ButtonMiddle {
			x, y := e.X, e.Y
			a.RenderTasks.Dispatch(func() { logPick(rc, x, y) })
		}
		if e.Type == input.EventKeyDown && e.Key == input.KeyF12 {
			a.RenderTasks.Dispatch(func() { captureScreenshot(rc, capture) })
		}
	}

	var hooks []func(*render.Context, uint64) (bool, error)
	if player := startAudio(cfg, rc); player != nil {
		defer player.Close()
		hooks = append(hooks, audioHook(player))
	}
	if cfg.Render.Screenshot != "" {
		hooks = append(hooks, screenshotHook(cfg.Render.Screenshot))
	}
	a.AfterRender = chainHooks(hooks)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.Run(ctx)
}

// buildScene adds the demo objects to rc, tracks the animated ones in sc
// and returns the bounds of the solid geometry.
func buildScene(rc *render.Context, sc *scene.Scene, floorTex *texture.Texture) mesh.Box {
	floorPath := mesh.Circle(6, 0, 48)
	slices.Reverse(floorPath)
	floorMat := render.DefaultMaterial()
	floorMat.DiffuseColor = mgl32.Vec4{0.35, 0.36, 0.4, 1}
	floorMat.DiffuseMap = floorTex
	floor := render.NewMeshObject("floor", mesh.Surface(floorPath, mgl32.Vec3{}), floorMat)
	rc.AddObject(floor)

	cubeMat := render.DefaultMaterial()
	cubeMat.DiffuseColor = mgl32.Vec4{0.8, 0.3, 0.2, 1}
	cube := render.NewMeshObject("cube", mesh.Cube(), cubeMat)
	cube.Transform.Position = mgl32.Vec3{0, 0.75, 0}
	rc.AddObject(cube)

	glass := render.DefaultMaterial()
	glass.DiffuseColor = mgl32.Vec4{0.3, 0.6, 0.9, 0.5}
	glass.Pipeline = render.ForwardPipeline
	pillar := render.NewMeshObject("pillar", mesh.Cylinder(0.6, 0.4, 2, 24), glass)
	pillar.Transform.Position = mgl32.Vec3{2, 1, -1.5}
	rc.AddObject(pillar)

	wall := render.NewMeshObject("wall", mesh.WallQuad())
	wall.Transform.Position = mgl32.Vec3{0, 1.5, -4}
	wall.Transform.Scale = mgl32.Vec3{6, 3, 1}
	rc.AddObject(wall)

	grid := render.NewMeshObject("grid", mesh.Grid(10, 1, mgl32.Vec4{0.5, 0.5, 0.5, 1}))
	grid.CastShadow = false
	grid.Transform.Position = mgl32.Vec3{0, 0.01, 0}
	rc.AddObject(grid)

	rc.AddObject(render.NewLightObject("sun", render.LightPayload{
		Type:      render.DirectionalLight,
		Color:     mgl32.Vec3{1, 0.95, 0.85},
		Direction: mgl32.Vec3{-0.4, -1, -0.3}.Normalize(),
	}))
	lamp := render.NewLightObject("lamp", render.LightPayload{
		Type:      render.PointLight,
		Color:     mgl32.Vec3{0.9, 0.6, 0.3},
		Linear:    0.09,
		Quadratic: 0.032,
	})
	lamp.Transform.Position = mgl32.Vec3{-2, 2, 1}
	rc.AddObject(lamp)

	bounds, _ := rc.ShadowBounds()
	debug.ShowBounds(rc, debug.BoundsColor)

	sc.Track(cube.ID, scene.ObjectState{Transform: cube.Transform, Visible: true})
	sc.Track(lamp.ID, scene.ObjectState{Transform: lamp.Transform, Visible: true})
	sc.Animate(func(s *scene.Scene, _ time.Duration) {
		t := float32(s.Elapsed().Seconds())
		s.Object(cube.ID).Transform.Rotation = mgl32.QuatRotate(t*0.8, mgl32.Vec3{0, 1, 0})
		s.Object(lamp.ID).Transform.Position = mgl32.Vec3{
			3 * math32.Cos(t*0.5), 2, 3 * math32.Sin(t*0.5),
		}
	})
	return bounds
}

func applyOrbit(o *camera.Orbit, s *scene.Scene) {
	s.Camera = scene.CameraState{Position: o.Position(), Target: o.Center}
}

// handleCameraEvent feeds mouse and keyboard input to the orbit and
// reports whether it moved.
func handleCameraEvent(o *camera.Orbit, e input.Event) bool {
	switch e.Type {
	case input.EventMouseMove:
		if e.Holds(input.ButtonLeft) || e.Holds(input.ButtonRight) {
			o.HandleDrag(float32(e.DX), float32(e.DY))
			return true
		}
	case input.EventMouseWheel:
		o.HandleZoom(e.Wheel)
		return true
	case input.EventKeyDown:
		switch e.Key {
		case input.KeyW:
			o.HandleMovement(1, 0, 0)
		case input.KeyS:
			o.HandleMovement(-1, 0, 0)
		case input.KeyA:
			o.HandleMovement(0, -1, 0)
		case input.KeyD:
			o.HandleMovement(0, 1, 0)
		case input.KeyE:
			o.HandleMovement(0, 0, 1)
		case input.KeyQ:
			o.HandleMovement(0, 0, -1)
		default:
			return false
		}
		return true
	}
	return false
}

func logPick(rc *render.Context, x, y int) {
	hit, ok := picking.Pick(rc, x, y)
	if !ok {
		logger.Info("nothing picked", zap.Int("x", x), zap.Int("y", y))
		return
	}
	logger.Info("picked object",
		zap.String("name", hit.Object.Name),
		zap.Stringer("id", hit.Object.ID),
		zap.Float32("distance", hit.Distance))
}

// startAudio opens the speaker and places the ambient source. It returns
// nil when audio is disabled or unavailable.
func startAudio(cfg *config.Config, rc *render.Context) *audio.Player {
	if !cfg.Audio.Enabled {
		return nil
	}
	player := audio.New(audio.DefaultSampleRate)
	if err := player.Init(); err != nil {
		logger.Warn("audio disabled", zap.Error(err))
		return nil
	}
	player.SetMasterVolume(cfg.Audio.Volume)
	if cfg.Audio.Ambient != "" {
		ambient := render.NewAudioObject("ambient", cfg.Audio.Ambient, 1)
		ambient.Audio.Loop = true
		rc.AddObject(ambient)
	}
	return player
}

// audioHook syncs voices with the scene a few times per second.
func audioHook(player *audio.Player) func(*render.Context, uint64) (bool, error) {
	return func(rc *render.Context, frame uint64) (bool, error) {
		if frame%15 != 1 {
			return false, nil
		}
		if err := player.Sync(rc.Objects()); err != nil {
			logger.Warn("audio sync", zap.Error(err))
		}
		return false, nil
	}
}

func chainHooks(hooks []func(*render.Context, uint64) (bool, error)) func(*render.Context, uint64) (bool, error) {
	if len(hooks) == 0 {
		return nil
	}
	return func(rc *render.Context, frame uint64) (bool, error) {
		for _, h := range hooks {
			if stop, err := h(rc, frame); err != nil || stop {
				return stop, err
			}
		}
		return false, nil
	}
}

// checkerImage returns a two-tone checkerboard of size pixels with
// squares of cell pixels.
func checkerImage(size, cell int) *image.RGBA {
	light := color.RGBA{R: 200, G: 200, B: 205, A: 255}
	dark := color.RGBA{R: 90, G: 92, B: 100, A: 255}
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if (x/cell+y/cell)%2 == 0 {
				img.SetRGBA(x, y, light)
			} else {
				img.SetRGBA(x, y, dark)
			}
		}
	}
	return img
}

func forwardFramebuffer(rc *render.Context) *framebuffer.Framebuffer {
	fwd, ok := rc.Pipeline(render.ForwardPipeline).(*render.Forward)
	if !ok {
		return nil
	}
	return fwd.Framebuffer()
}

// captureScreenshot saves the last presented frame under a timestamped name.
func captureScreenshot(rc *render.Context, capture *debug.ScreenshotCapture) {
	path, err := capture.CaptureFramebuffer(forwardFramebuffer(rc))
	if err != nil {
		logger.Warn("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot captured", zap.String("path", path))
}

// screenshotHook saves the first presented frame to path and stops.
func screenshotHook(path string) func(*render.Context, uint64) (bool, error) {
	return func(rc *render.Context, _ uint64) (bool, error) {
		if err := debug.SaveFramebuffer(path, forwardFramebuffer(rc)); err != nil {
			return true, fmt.Errorf("screenshot: %w", err)
		}
		return true, nil
	}
}
