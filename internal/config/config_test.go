package config

import (
	"errors"
	gomath "math"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Window.Width != 1024 || cfg.Window.Height != 768 {
		t.Errorf("expected 1024x768, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}

	// Camera defaults mirror the controller's own defaults.
	if cfg.Camera.Position != [3]float32{0, 0, 5} {
		t.Errorf("expected position (0,0,5), got %v", cfg.Camera.Position)
	}
	if cfg.Camera.HorizontalAngle != float32(gomath.Pi) {
		t.Errorf("expected horizontal angle pi, got %f", cfg.Camera.HorizontalAngle)
	}
	if cfg.Camera.FOV != 45 {
		t.Errorf("expected fov 45, got %f", cfg.Camera.FOV)
	}
	if cfg.Camera.Center != [2]float32{512, 384} {
		t.Errorf("expected center (512,384), got %v", cfg.Camera.Center)
	}
	if cfg.Camera.FollowViewport {
		t.Error("expected follow_viewport to be false by default")
	}

	if cfg.Scene.InvertV {
		t.Error("expected invert_v to be false by default")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestToCameraRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Camera.Position = [3]float32{1, 2, 3}
	cfg.Camera.Center = [2]float32{640, 360}

	cam := cfg.Camera.ToCamera()
	if cam.Position.X != 1 || cam.Position.Y != 2 || cam.Position.Z != 3 {
		t.Errorf("position not carried over: %+v", cam.Position)
	}
	if cam.Center.X != 640 || cam.Center.Y != 360 {
		t.Errorf("center not carried over: %+v", cam.Center)
	}
	if cam.Near != cfg.Camera.Near || cam.Far != cfg.Camera.Far {
		t.Errorf("clip planes not carried over: %f %f", cam.Near, cam.Far)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
window:
  width: 1920
  height: 1080
  fullscreen: true

camera:
  position: [1, 2, 10]
  fov: 60
  mouse_speed: 0.001
  center: [960, 540]
  follow_viewport: true

scene:
  model: "cube.obj"
  texture: "uvtemplate.bmp"
  invert_v: true

debug:
  frame_report: false

logging:
  level: "debug"
  log_file: "meshview.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Width != 1920 || cfg.Window.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if !cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Camera.Position != [3]float32{1, 2, 10} {
		t.Errorf("expected position (1,2,10), got %v", cfg.Camera.Position)
	}
	if cfg.Camera.FOV != 60 {
		t.Errorf("expected fov 60, got %f", cfg.Camera.FOV)
	}
	if cfg.Camera.MouseSpeed != 0.001 {
		t.Errorf("expected mouse speed 0.001, got %f", cfg.Camera.MouseSpeed)
	}
	if cfg.Camera.Center != [2]float32{960, 540} {
		t.Errorf("expected center (960,540), got %v", cfg.Camera.Center)
	}
	if !cfg.Camera.FollowViewport {
		t.Error("expected follow_viewport to be true")
	}
	// Unset keys keep their defaults.
	if cfg.Camera.Speed != 3 {
		t.Errorf("expected default speed 3, got %f", cfg.Camera.Speed)
	}
	if cfg.Scene.Model != "cube.obj" || cfg.Scene.Texture != "uvtemplate.bmp" {
		t.Errorf("unexpected scene %+v", cfg.Scene)
	}
	if !cfg.Scene.InvertV {
		t.Error("expected invert_v to be true")
	}
	if cfg.Debug.FrameReport {
		t.Error("expected frame_report to be false")
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.LogFile != "meshview.log" {
		t.Errorf("unexpected logging %+v", cfg.Logging)
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
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }},
		{"negative height", func(c *Config) { c.Window.Height = -1 }},
		{"no model", func(c *Config) { c.Scene.Model = "" }},
		{"zero aspect", func(c *Config) { c.Camera.Aspect = 0 }},
		{"near equals far", func(c *Config) { c.Camera.Near, c.Camera.Far = 1, 1 }},
		{"fov limits inverted", func(c *Config) { c.Camera.MinFOV, c.Camera.MaxFOV = 90, 10 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
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

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("window:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find config.yaml in current directory")
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
				if !cfg.Debug.FrameReport {
					t.Error("expected frame report with debug flag")
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "model and texture flags",
			setup: func() { *flagModel, *flagTexture = "room.obj", "room.tga" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Scene.Model != "room.obj" {
					t.Errorf("expected model room.obj, got %s", cfg.Scene.Model)
				}
				if cfg.Scene.Texture != "room.tga" {
					t.Errorf("expected texture room.tga, got %s", cfg.Scene.Texture)
				}
			},
			teardown: func() { *flagModel, *flagTexture = "", "" },
		},
		{
			name:  "invert-v flag",
			setup: func() { *flagInvertV = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Scene.InvertV {
					t.Error("expected invert_v with flag")
				}
			},
			teardown: func() { *flagInvertV = false },
		},
		{
			name:  "windowed flag",
			setup: func() { *flagWindowed = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
			},
			teardown: func() { *flagWindowed = false },
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Window.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name:  "width and height flags",
			setup: func() { *flagWidth, *flagHeight = 2560, 1440 },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Width != 2560 || cfg.Window.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Window.Width, cfg.Window.Height)
				}
			},
			teardown: func() { *flagWidth, *flagHeight = 0, 0 },
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

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

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

	// Width from flag, height from file.
	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Window.Height)
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("scene:\n  model: \"\"\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Scene.Model = "monkey.obj"
	cfg.Camera.FollowViewport = true
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, cfg)
	}
}
