package config

import "flag"

var (
	flagConfig       = flag.String("config", "", "Path to config file")
	flagDebug        = flag.Bool("debug", false, "Enable debug logging")
	flagDeferred     = flag.Bool("deferred", false, "Use the deferred pipeline")
	flagForward      = flag.Bool("forward", false, "Use the forward pipeline")
	flagWidth        = flag.Int("width", 0, "Window width")
	flagHeight       = flag.Int("height", 0, "Window height")
	flagSingleThread = flag.Bool("single-thread", false, "Run update and render on one thread")
	flagScreenshot   = flag.String("screenshot", "", "Save the first rendered frame to this PNG and exit")
	flagMute         = flag.Bool("mute", false, "Disable audio")
	flagSaveConfig   = flag.Bool("save-config", false, "Write the merged config to the config file and exit")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// SaveRequested reports whether --save-config was given.
func SaveRequested() bool {
	return *flagSaveConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagDeferred {
		cfg.Render.Pipeline = PipelineDeferred
	}
	// -forward wins when both are given.
	if *flagForward {
		cfg.Render.Pipeline = PipelineForward
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
	if *flagSingleThread {
		cfg.Render.MultiThreaded = false
	}
	if *flagScreenshot != "" {
		cfg.Render.Screenshot = *flagScreenshot
	}
	if *flagMute {
		cfg.Audio.Enabled = false
	}
}
