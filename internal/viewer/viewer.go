// Package viewer implements the interactive mesh viewer loop.
package viewer

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/config"
	"github.com/Faultbox/meshview/internal/engine/camera"
	"github.com/Faultbox/meshview/internal/engine/debug"
	"github.com/Faultbox/meshview/internal/engine/input"
	"github.com/Faultbox/meshview/internal/engine/renderer"
	"github.com/Faultbox/meshview/internal/engine/shader"
	"github.com/Faultbox/meshview/internal/engine/texture"
	"github.com/Faultbox/meshview/internal/engine/window"
	"github.com/Faultbox/meshview/internal/logger"
	"github.com/Faultbox/meshview/pkg/formats"
	"github.com/Faultbox/meshview/pkg/math"
	"github.com/Faultbox/meshview/pkg/mesh"
)

// Viewer is the main viewer instance.
type Viewer struct {
	cfg     *config.Config
	log     *zap.Logger
	running bool

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	program  *shader.Program

	mesh    renderer.MeshHandle
	texture renderer.TextureHandle
	light   renderer.Light

	camera      *camera.FirstPerson
	screenshots    *debug.ScreenshotCapture
	wantScreenshot bool
	frames         *FrameTimer
}

// New opens the window, uploads the configured model and texture and
// builds the camera controller.
func New(cfg *config.Config) (*Viewer, error) {
	v := &Viewer{
		cfg:    cfg,
		log:    logger.Named("viewer"),
		frames: NewFrameTimer(1),
	}

	v.log.Info("initializing viewer",
		zap.String("model", cfg.Scene.Model),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
	)

	// Load and index on the CPU first so a bad model fails before any
	// window appears.
	indexed, err := loadModel(cfg.Scene, v.log)
	if err != nil {
		return nil, err
	}

	v.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
		Samples:    cfg.Window.Samples,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Renderer needs the GL context the window just created.
	width, height := v.window.GetSize()
	v.renderer, err = renderer.New(renderer.Config{
		Width:      width,
		Height:     height,
		ClearColor: cfg.Scene.ClearColor,
	})
	if err != nil {
		v.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	v.program, err = v.renderer.NewStandardProgram()
	if err != nil {
		v.Close()
		return nil, err
	}

	v.mesh, err = v.renderer.UploadMesh(indexed)
	if err != nil {
		v.Close()
		return nil, err
	}

	if cfg.Scene.Texture != "" {
		img, err := texture.Load(cfg.Scene.Texture)
		if err != nil {
			v.Close()
			return nil, err
		}
		v.texture = v.renderer.UploadTexture(texture.FlipVertical(img))
	} else {
		v.texture = v.renderer.WhiteTexture()
	}

	v.light = renderer.Light{
		Position: math.Vec3From(cfg.Scene.LightPosition),
		Color:    math.Vec3From(cfg.Scene.LightColor),
		Power:    cfg.Scene.LightPower,
	}

	v.input = input.New(input.DefaultBindings())

	camCfg := cfg.Camera.ToCamera()
	if cfg.Camera.FollowViewport {
		camCfg.Center = math.Vec2{X: float32(width) / 2, Y: float32(height) / 2}
		camCfg.Aspect = float32(width) / float32(height)
	}
	v.camera, err = camera.NewFirstPerson(camCfg, v.window, v.window, v.input)
	if err != nil {
		v.Close()
		return nil, err
	}

	v.window.HideCursor()
	v.window.SetCursorPos(float64(camCfg.Center.X), float64(camCfg.Center.Y))

	v.screenshots = debug.NewScreenshotCapture(cfg.Debug.ScreenshotDir, "meshview")

	v.log.Info("viewer initialized")
	return v, nil
}

// loadModel parses the OBJ file and builds the 16-bit indexed mesh.
func loadModel(scene config.SceneConfig, log *zap.Logger) (*mesh.Indexed, error) {
	flat, err := formats.LoadOBJ(scene.Model, formats.OBJOptions{
		InvertV: scene.InvertV,
		Logger:  log,
	})
	if err != nil {
		return nil, fmt.Errorf("loading model: %w", err)
	}

	indexed, err := mesh.Index(flat)
	if err != nil {
		return nil, fmt.Errorf("indexing %s: %w", scene.Model, err)
	}

	stats := indexed.Stats()
	log.Info("model indexed",
		zap.Int("corners", stats.Corners),
		zap.Int("vertices", stats.Vertices),
		zap.Float64("reuse", stats.Reuse),
	)
	return indexed, nil
}

// Run starts the frame loop and returns when the window is closed or ESC
// is pressed.
func (v *Viewer) Run() error {
	v.running = true
	v.log.Info("starting frame loop")

	for v.running {
		if v.input.Update() {
			v.running = false
			break
		}

		for _, event := range v.input.Events() {
			v.handleEvent(event)
		}
		if !v.running {
			break
		}

		if err := v.camera.Update(); err != nil {
			return fmt.Errorf("camera update: %w", err)
		}

		v.render()

		if v.wantScreenshot {
			v.wantScreenshot = false
			v.captureScreenshot()
		}

		v.window.SwapBuffers()

		if ms, ok := v.frames.Tick(v.window.Now()); ok && v.cfg.Debug.FrameReport {
			v.log.Info("frame time", zap.String("ms/frame", fmt.Sprintf("%.3f", ms)))
		}
	}

	return nil
}

func (v *Viewer) handleEvent(event input.Event) {
	switch event.Type {
	case input.EventWindowResize:
		v.renderer.Resize(event.Width, event.Height)
		if v.cfg.Camera.FollowViewport && event.Height > 0 {
			v.camera.SetCenter(float32(event.Width)/2, float32(event.Height)/2)
			if err := v.camera.SetAspect(float32(event.Width) / float32(event.Height)); err != nil {
				v.log.Warn("ignoring resize", zap.Error(err))
			}
		}
	case input.EventMouseWheel:
		v.camera.Zoom(event.WheelY)
	case input.EventKeyDown:
		switch event.Key {
		case sdl.SCANCODE_ESCAPE:
			v.running = false
		case sdl.SCANCODE_F12:
			v.wantScreenshot = true
		}
	}
}

// render draws the current frame into the back buffer.
func (v *Viewer) render() {
	v.renderer.Begin()
	v.renderer.Draw(renderer.DrawCall{
		Program: v.program,
		Mesh:    v.mesh,
		Texture: v.texture,
		MVP:     v.camera.MVP(),
		Model:   v.camera.Model(),
		View:    v.camera.View(),
		Light:   v.light,
	})
}

func (v *Viewer) captureScreenshot() {
	pixels, w, h := v.renderer.ReadPixels()
	path, err := v.screenshots.CaptureFromPixels(pixels, w, h)
	if err != nil {
		v.log.Error("screenshot failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("path", path))
}

// Close releases GPU resources and the window.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")

	if v.renderer != nil {
		if v.mesh.VAO != 0 {
			v.renderer.DeleteMesh(v.mesh)
		}
		if v.texture.ID != 0 {
			v.renderer.DeleteTexture(v.texture)
		}
		if v.program != nil {
			v.program.Delete()
		}
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
