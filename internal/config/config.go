// Package config handles engine configuration loading and management.
package config

import "fmt"

// Pipeline names accepted by RenderConfig.Pipeline.
const (
	PipelineForward  = "forward"
	PipelineDeferred = "deferred"
)

// Config holds all engine settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Render  RenderConfig  `yaml:"render"`
	Audio   AudioConfig   `yaml:"audio"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// RenderConfig holds renderer settings.
type RenderConfig struct {
	Pipeline         string     `yaml:"pipeline"` // forward | deferred
	Shadows          bool       `yaml:"shadows"`
	ShadowResolution int        `yaml:"shadow_resolution"`
	MultiThreaded    bool       `yaml:"multi_threaded"` // update on its own goroutine
	UpdateRate       int        `yaml:"update_rate"`    // update ticks per second in dual-thread mode
	Background       [4]float32 `yaml:"background,flow"`

	// Screenshot is a one-shot path set from the command line; never persisted.
	Screenshot string `yaml:"-"`
}

// AudioConfig holds sound settings.
type AudioConfig struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float64 `yaml:"volume"`  // master volume, 0 to 1
	Ambient string  `yaml:"ambient"` // optional looping WAV placed in the demo scene
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "axion",
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Render: RenderConfig{
			Pipeline:         PipelineDeferred,
			Shadows:          true,
			ShadowResolution: 2048,
			MultiThreaded:    true,
			UpdateRate:       60,
			Background:       [4]float32{0.08, 0.09, 0.11, 1},
		},
		Audio: AudioConfig{
			Enabled: false,
			Volume:  0.8,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports settings the engine cannot start with.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", c.Window.Width, c.Window.Height)
	}
	switch c.Render.Pipeline {
	case PipelineForward, PipelineDeferred:
	default:
		return fmt.Errorf("unknown render pipeline %q", c.Render.Pipeline)
	}
	if c.Render.Shadows && c.Render.ShadowResolution <= 0 {
		return fmt.Errorf("invalid shadow resolution %d", c.Render.ShadowResolution)
	}
	if c.Render.MultiThreaded && c.Render.UpdateRate <= 0 {
		return fmt.Errorf("invalid update rate %d", c.Render.UpdateRate)
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return fmt.Errorf("invalid audio volume %g", c.Audio.Volume)
	}
	return nil
}
