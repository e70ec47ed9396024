package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test window defaults
	if cfg.Window.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Window.Height)
	}
	if cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if !cfg.Window.VSync {
		t.Error("expected vsync to be true by default")
	}

	// Test render defaults
	if cfg.Render.Pipeline != PipelineDeferred {
		t.Errorf("expected deferred pipeline, got %s", cfg.Render.Pipeline)
	}
	if !cfg.Render.Shadows {
		t.Error("expected shadows to be enabled by default")
	}
	if cfg.Render.ShadowResolution != 2048 {
		t.Errorf("expected shadow resolution 2048, got %d", cfg.Render.ShadowResolution)
	}
	if !cfg.Render.MultiThreaded {
		t.Error("expected multi-threaded rendering by default")
	}
	if cfg.Render.UpdateRate != 60 {
		t.Errorf("expected update rate 60, got %d", cfg.Render.UpdateRate)
	}

	if cfg.Audio.Enabled {
		t.Error("expected audio to be disabled by default")
	}
	if cfg.Audio.Volume != 0.8 {
		t.Errorf("expected audio volume 0.8, got %g", cfg.Audio.Volume)
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "axion.yaml")

	yamlContent := `
window:
  title: "demo"
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false

render:
  pipeline: forward
  shadows: false
  shadow_resolution: 1024
  multi_threaded: false
  update_rate: 30
  background: [0.1, 0.2, 0.3, 1]

logging:
  level: "debug"
  log_file: "axion.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Title != "demo" {
		t.Errorf("expected title demo, got %s", cfg.Window.Title)
	}
	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 1080 {
		t.Errorf("expected height 1080, got %d", cfg.Window.Height)
	}
	if !cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Window.VSync {
		t.Error("expected vsync to be false")
	}

	if cfg.Render.Pipeline != PipelineForward {
		t.Errorf("expected forward pipeline, got %s", cfg.Render.Pipeline)
	}
	if cfg.Render.Shadows {
		t.Error("expected shadows to be disabled")
	}
	if cfg.Render.ShadowResolution != 1024 {
		t.Errorf("expected shadow resolution 1024, got %d", cfg.Render.ShadowResolution)
	}
	if cfg.Render.MultiThreaded {
		t.Error("expected multi_threaded to be false")
	}
	if cfg.Render.Background != [4]float32{0.1, 0.2, 0.3, 1} {
		t.Errorf("unexpected background %v", cfg.Render.Background)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "axion.log" {
		t.Errorf("expected log file 'axion.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFilePartialKeepsDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "axion.yaml")
	if err := os.WriteFile(configPath, []byte("render:\n  shadows: false\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Render.Shadows {
		t.Error("expected shadows to be disabled by file")
	}
	if cfg.Render.Pipeline != PipelineDeferred {
		t.Errorf("expected default pipeline to survive, got %s", cfg.Render.Pipeline)
	}
	if cfg.Window.Width != 1280 {
		t.Errorf("expected default width to survive, got %d", cfg.Window.Width)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
window:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/axion.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "zero width", mutate: func(c *Config) { c.Window.Width = 0 }, wantErr: true},
		{name: "unknown pipeline", mutate: func(c *Config) { c.Render.Pipeline = "raytraced" }, wantErr: true},
		{name: "shadows without resolution", mutate: func(c *Config) { c.Render.ShadowResolution = 0 }, wantErr: true},
		{name: "no shadows no resolution", mutate: func(c *Config) {
			c.Render.Shadows = false
			c.Render.ShadowResolution = 0
		}},
		{name: "dual thread without rate", mutate: func(c *Config) { c.Render.UpdateRate = 0 }, wantErr: true},
		{name: "single thread without rate", mutate: func(c *Config) {
			c.Render.MultiThreaded = false
			c.Render.UpdateRate = 0
		}},
		{name: "loud audio", mutate: func(c *Config) { c.Audio.Volume = 1.5 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}

	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)

	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "axion.yaml")
	if err := os.WriteFile(configPath, []byte("window:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	path = findConfigFile()
	if path == "" {
		t.Error("expected to find axion.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "forward flag",
			setup: func() { *flagForward = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Render.Pipeline != PipelineForward {
					t.Errorf("expected forward pipeline, got %s", cfg.Render.Pipeline)
				}
			},
			teardown: func() { *flagForward = false },
		},
		{
			name: "forward beats deferred",
			setup: func() {
				*flagForward = true
				*flagDeferred = true
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Render.Pipeline != PipelineForward {
					t.Errorf("expected forward pipeline, got %s", cfg.Render.Pipeline)
				}
			},
			teardown: func() {
				*flagForward = false
				*flagDeferred = false
			},
		},
		{
			name:  "single thread flag",
			setup: func() { *flagSingleThread = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Render.MultiThreaded {
					t.Error("expected multi_threaded to be false with single-thread flag")
				}
			},
			teardown: func() { *flagSingleThread = false },
		},
		{
			name:  "screenshot flag",
			setup: func() { *flagScreenshot = "frame.png" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Render.Screenshot != "frame.png" {
					t.Errorf("expected screenshot path frame.png, got %s", cfg.Render.Screenshot)
				}
			},
			teardown: func() { *flagScreenshot = "" },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Width != 2560 {
					t.Errorf("expected width 2560, got %d", cfg.Window.Width)
				}
				if cfg.Window.Height != 1440 {
					t.Errorf("expected height 1440, got %d", cfg.Window.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)

			tt.verify(t, cfg)
		})
	}
}

func TestMuteFlagOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "axion.yaml")
	if err := os.WriteFile(path, []byte("audio:\n  enabled: true\n  ambient: hum.wav\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := Default()
	if err := loadFromFile(cfg, path); err != nil {
		t.Fatalf("loadFromFile failed: %v", err)
	}
	if !cfg.Audio.Enabled || cfg.Audio.Ambient != "hum.wav" {
		t.Fatalf("audio section not loaded: %+v", cfg.Audio)
	}

	*flagMute = true
	defer func() { *flagMute = false }()
	applyFlags(cfg)
	if cfg.Audio.Enabled {
		t.Error("expected -mute to disable audio")
	}
	if cfg.Audio.Volume != 0.8 {
		t.Errorf("expected default volume kept, got %g", cfg.Audio.Volume)
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "axion.yaml")

	yamlContent := `
window:
  width: 1600
  height: 900
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width should be from flag (1920), not file (1600)
	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Window.Width)
	}

	// Height should be from file (900) since no flag override
	if cfg.Window.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Window.Height)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "axion.yaml")
	if err := os.WriteFile(configPath, []byte("render:\n  pipeline: raytraced\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); err == nil {
		t.Error("expected Load to reject an unknown pipeline")
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "axion.yaml")

	cfg := Default()
	cfg.Render.Pipeline = PipelineForward
	cfg.Render.Screenshot = "never-saved.png"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload saved config: %v", err)
	}
	if loaded.Render.Pipeline != PipelineForward {
		t.Errorf("expected forward pipeline after reload, got %s", loaded.Render.Pipeline)
	}
	if loaded.Render.Screenshot != "" {
		t.Errorf("screenshot path must not be persisted, got %s", loaded.Render.Screenshot)
	}
}

func TestSaveUsesConfigFlagPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom", "viewer.yaml")
	*flagConfig = path
	*flagMute = true
	defer func() {
		*flagConfig = ""
		*flagMute = false
	}()

	if SavePath() != path {
		t.Errorf("expected save path %s, got %s", path, SavePath())
	}

	// The explicit file does not exist yet, so Load cannot be used here.
	cfg := Default()
	applyFlags(cfg)

	written, err := cfg.Save()
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if written != path {
		t.Errorf("expected Save to write %s, got %s", path, written)
	}

	*flagMute = false
	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load after Save failed: %v", err)
	}
	if loaded.Audio.Enabled {
		t.Error("expected saved config to keep audio disabled")
	}
}

func TestSavePathDefault(t *testing.T) {
	want := filepath.Join(ConfigDir(), "axion.yaml")
	if got := SavePath(); got != want {
		t.Errorf("expected default save path %s, got %s", want, got)
	}
}

func TestSaveRequested(t *testing.T) {
	if SaveRequested() {
		t.Error("expected no save request by default")
	}
	*flagSaveConfig = true
	defer func() { *flagSaveConfig = false }()
	if !SaveRequested() {
		t.Error("expected --save-config to request a save")
	}
}
