// Package config handles viewer configuration loading and management.
package config

import (
	"github.com/Faultbox/meshview/internal/engine/camera"
	"github.com/Faultbox/meshview/pkg/math"
)

// Config holds all viewer settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Camera  CameraConfig  `yaml:"camera"`
	Scene   SceneConfig   `yaml:"scene"`
	Debug   DebugConfig   `yaml:"debug"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
	Samples    int    `yaml:"samples"` // MSAA, 0 disables
}

// CameraConfig holds the first-person controller settings.
// Angles are radians, FOV is degrees.
type CameraConfig struct {
	Position        [3]float32 `yaml:"position"`
	HorizontalAngle float32    `yaml:"horizontal_angle"`
	VerticalAngle   float32    `yaml:"vertical_angle"`
	FOV             float32    `yaml:"fov"`
	Speed           float32    `yaml:"speed"`
	MouseSpeed      float32    `yaml:"mouse_speed"`
	Aspect          float32    `yaml:"aspect"`
	Near            float32    `yaml:"near"`
	Far             float32    `yaml:"far"`
	Center          [2]float32 `yaml:"center"`
	// FollowViewport recenters the cursor reference and aspect on resize.
	FollowViewport bool    `yaml:"follow_viewport"`
	ZoomStep       float32 `yaml:"zoom_step"`
	MinFOV         float32 `yaml:"min_fov"`
	MaxFOV         float32 `yaml:"max_fov"`
}

// SceneConfig holds what is drawn.
type SceneConfig struct {
	Model         string     `yaml:"model"`
	InvertV       bool       `yaml:"invert_v"`
	Texture       string     `yaml:"texture"` // empty draws untextured
	LightPosition [3]float32 `yaml:"light_position"`
	LightColor    [3]float32 `yaml:"light_color"`
	LightPower    float32    `yaml:"light_power"`
	ClearColor    [3]float32 `yaml:"clear_color"`
}

// DebugConfig holds developer aids.
type DebugConfig struct {
	ScreenshotDir string `yaml:"screenshot_dir"`
	FrameReport   bool   `yaml:"frame_report"` // log ms/frame once per second
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	cam := camera.DefaultConfig()
	return &Config{
		Window: WindowConfig{
			Title:      "meshview",
			Width:      1024,
			Height:     768,
			Fullscreen: false,
			VSync:      true,
			Samples:    4,
		},
		Camera: CameraConfig{
			Position:        cam.Position.Array(),
			HorizontalAngle: cam.HorizontalAngle,
			VerticalAngle:   cam.VerticalAngle,
			FOV:             cam.FOV,
			Speed:           cam.Speed,
			MouseSpeed:      cam.MouseSpeed,
			Aspect:          cam.Aspect,
			Near:            cam.Near,
			Far:             cam.Far,
			Center:          [2]float32{cam.Center.X, cam.Center.Y},
			FollowViewport:  false,
			ZoomStep:        cam.ZoomStep,
			MinFOV:          cam.MinFOV,
			MaxFOV:          cam.MaxFOV,
		},
		Scene: SceneConfig{
			Model:         "suzanne.obj",
			InvertV:       false,
			Texture:       "",
			LightPosition: [3]float32{4, 4, 4},
			LightColor:    [3]float32{1, 1, 1},
			LightPower:    50,
			ClearColor:    [3]float32{0, 0, 0.4},
		},
		Debug: DebugConfig{
			ScreenshotDir: "screenshots",
			FrameReport:   true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// ToCamera converts the camera section into controller settings.
func (c CameraConfig) ToCamera() camera.Config {
	return camera.Config{
		Position:        math.Vec3From(c.Position),
		HorizontalAngle: c.HorizontalAngle,
		VerticalAngle:   c.VerticalAngle,
		FOV:             c.FOV,
		Speed:           c.Speed,
		MouseSpeed:      c.MouseSpeed,
		Aspect:          c.Aspect,
		Near:            c.Near,
		Far:             c.Far,
		Center:          math.Vec2{X: c.Center[0], Y: c.Center[1]},
		ZoomStep:        c.ZoomStep,
		MinFOV:          c.MinFOV,
		MaxFOV:          c.MaxFOV,
	}
}
