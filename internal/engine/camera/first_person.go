// Package camera provides camera implementations for 3D rendering.
package camera

import (
	"fmt"
	gomath "math"

	"github.com/Faultbox/meshview/pkg/math"
)

// Direction is one of the four movement inputs.
type Direction int

const (
	Forward Direction = iota
	Backward
	StrafeRight
	StrafeLeft
)

// Clock is a monotonic time source in seconds.
type Clock interface {
	Now() float64
}

// Pointer queries and warps the cursor in screen coordinates.
type Pointer interface {
	CursorPos() (x, y float64)
	SetCursorPos(x, y float64)
}

// Keys reports whether a movement input is held.
type Keys interface {
	Pressed(d Direction) bool
}

// Config holds the initial pose and projection settings.
type Config struct {
	Position        math.Vec3
	HorizontalAngle float32 // radians, pi faces -Z
	VerticalAngle   float32 // radians
	FOV             float32 // degrees
	Speed           float32 // units per second
	MouseSpeed      float32 // radians per pixel
	Aspect          float32
	Near, Far       float32

	// Center is where the cursor is reset after each sample.
	Center math.Vec2

	ZoomStep       float32 // degrees per wheel step
	MinFOV, MaxFOV float32
}

// DefaultConfig returns a camera at +5 Z looking down -Z,
// 45 degree FOV, 4:3 aspect, cursor centered in a 1024x768 viewport.
func DefaultConfig() Config {
	return Config{
		Position:        math.Vec3{X: 0, Y: 0, Z: 5},
		HorizontalAngle: gomath.Pi,
		VerticalAngle:   0,
		FOV:             45,
		Speed:           3,
		MouseSpeed:      0.0005,
		Aspect:          4.0 / 3.0,
		Near:            0.1,
		Far:             100,
		Center:          math.Vec2{X: 1024 / 2, Y: 768 / 2},
		ZoomStep:        5,
		MinFOV:          5,
		MaxFOV:          120,
	}
}

// FirstPerson is a mouse-look, arrow-key camera. It is the only writer of its
// pose; callers read matrices after Update returns.
type FirstPerson struct {
	cfg Config

	clock   Clock
	pointer Pointer
	keys    Keys

	position   math.Vec3
	horizontal float32 // accumulates without wrapping
	vertical   float32
	fov        float32

	lastTime float64
	running  bool

	direction, right, up math.Vec3

	model      math.Mat4
	view       math.Mat4
	projection math.Mat4
	mvp        math.Mat4
}

// NewFirstPerson creates a controller. Projection parameters are validated
// here so a bad config fails before the first frame.
func NewFirstPerson(cfg Config, clock Clock, pointer Pointer, keys Keys) (*FirstPerson, error) {
	if _, err := math.Perspective(math.Radians(cfg.FOV), cfg.Aspect, cfg.Near, cfg.Far); err != nil {
		return nil, fmt.Errorf("camera config: %w", err)
	}

	return &FirstPerson{
		cfg:        cfg,
		clock:      clock,
		pointer:    pointer,
		keys:       keys,
		position:   cfg.Position,
		horizontal: cfg.HorizontalAngle,
		vertical:   cfg.VerticalAngle,
		fov:        cfg.FOV,
		model:      math.Identity(),
		view:       math.Identity(),
		projection: math.Identity(),
		mvp:        math.Identity(),
	}, nil
}

// Update samples time and input, moves the camera and recomputes the view,
// projection and MVP matrices. Call once per frame.
func (c *FirstPerson) Update() error {
	now := c.clock.Now()
	if !c.running {
		c.lastTime = now
		c.running = true
	}
	dt := float32(now - c.lastTime)

	// Mouse look, relative to the reset point.
	x, y := c.pointer.CursorPos()
	c.pointer.SetCursorPos(float64(c.cfg.Center.X), float64(c.cfg.Center.Y))
	c.horizontal += c.cfg.MouseSpeed * (c.cfg.Center.X - float32(x))
	c.vertical += c.cfg.MouseSpeed * (c.cfg.Center.Y - float32(y))

	// Spherical to Cartesian.
	h, v := float64(c.horizontal), float64(c.vertical)
	c.direction = math.Vec3{
		X: float32(gomath.Cos(v) * gomath.Sin(h)),
		Y: float32(gomath.Sin(v)),
		Z: float32(gomath.Cos(v) * gomath.Cos(h)),
	}
	c.right = math.Vec3{
		X: float32(gomath.Sin(h - gomath.Pi/2)),
		Y: 0,
		Z: float32(gomath.Cos(h - gomath.Pi/2)),
	}
	c.up = c.right.Cross(c.direction)

	step := dt * c.cfg.Speed
	if c.keys.Pressed(Forward) {
		c.position = c.position.Add(c.direction.Scale(step))
	}
	if c.keys.Pressed(Backward) {
		c.position = c.position.Sub(c.direction.Scale(step))
	}
	if c.keys.Pressed(StrafeRight) {
		c.position = c.position.Add(c.right.Scale(step))
	}
	if c.keys.Pressed(StrafeLeft) {
		c.position = c.position.Sub(c.right.Scale(step))
	}

	projection, err := math.Perspective(math.Radians(c.fov), c.cfg.Aspect, c.cfg.Near, c.cfg.Far)
	if err != nil {
		return fmt.Errorf("camera projection: %w", err)
	}
	c.projection = projection
	c.view = math.LookAt(c.position, c.position.Add(c.direction), c.up)
	c.mvp = c.projection.Mul(c.view).Mul(c.model)

	c.lastTime = now
	return nil
}

// Zoom narrows (positive steps) or widens the field of view. The new FOV
// takes effect on the next Update.
func (c *FirstPerson) Zoom(steps float32) {
	c.fov -= c.cfg.ZoomStep * steps
	if c.fov < c.cfg.MinFOV {
		c.fov = c.cfg.MinFOV
	}
	if c.fov > c.cfg.MaxFOV {
		c.fov = c.cfg.MaxFOV
	}
}

// SetCenter moves the cursor reset point, e.g. to the middle of a resized
// viewport.
func (c *FirstPerson) SetCenter(x, y float32) {
	c.cfg.Center = math.Vec2{X: x, Y: y}
}

// SetAspect changes the projection aspect ratio.
func (c *FirstPerson) SetAspect(aspect float32) error {
	if aspect == 0 {
		return fmt.Errorf("camera aspect: %w", math.ErrInvalidArgument)
	}
	c.cfg.Aspect = aspect
	return nil
}

// SetModel sets the model matrix folded into MVP.
func (c *FirstPerson) SetModel(m math.Mat4) {
	c.model = m
}

// Position returns the camera position.
func (c *FirstPerson) Position() math.Vec3 { return c.position }

// Angles returns the accumulated horizontal and vertical angles in radians.
func (c *FirstPerson) Angles() (horizontal, vertical float32) {
	return c.horizontal, c.vertical
}

// Direction returns the view direction computed by the last Update.
func (c *FirstPerson) Direction() math.Vec3 { return c.direction }

// Right returns the ground-plane right vector computed by the last Update.
func (c *FirstPerson) Right() math.Vec3 { return c.right }

// Up returns the up vector computed by the last Update.
func (c *FirstPerson) Up() math.Vec3 { return c.up }

// FOV returns the current vertical field of view in degrees.
func (c *FirstPerson) FOV() float32 { return c.fov }

// Model returns the model matrix.
func (c *FirstPerson) Model() math.Mat4 { return c.model }

// View returns the view matrix.
func (c *FirstPerson) View() math.Mat4 { return c.view }

// Projection returns the projection matrix.
func (c *FirstPerson) Projection() math.Mat4 { return c.projection }

// MVP returns projection * view * model.
func (c *FirstPerson) MVP() math.Mat4 { return c.mvp }
