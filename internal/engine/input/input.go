// Package input handles SDL2 input events and held-key state.
package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/meshview/internal/engine/camera"
)

// Event types for viewer use
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseWheel
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int
	Height int
	WheelY float32
}

// Bindings maps each movement direction to the scancodes that drive it.
type Bindings map[camera.Direction][]sdl.Scancode

// DefaultBindings binds the arrow keys and WASD.
func DefaultBindings() Bindings {
	return Bindings{
		camera.Forward:     {sdl.SCANCODE_UP, sdl.SCANCODE_W},
		camera.Backward:    {sdl.SCANCODE_DOWN, sdl.SCANCODE_S},
		camera.StrafeRight: {sdl.SCANCODE_RIGHT, sdl.SCANCODE_D},
		camera.StrafeLeft:  {sdl.SCANCODE_LEFT, sdl.SCANCODE_A},
	}
}

// Input handles all input processing.
type Input struct {
	events   []Event
	bindings Bindings
	keyboard []uint8
}

// New creates a new input handler.
func New(bindings Bindings) *Input {
	return &Input{
		events:   make([]Event, 0, 16),
		bindings: bindings,
	}
}

// Update polls SDL events and converts them to viewer events.
// Returns true if the viewer should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0] // Clear previous events

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			return true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED {
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			if e.Repeat != 0 {
				continue
			}
			if e.Type == sdl.KEYDOWN {
				i.events = append(i.events, Event{Type: EventKeyDown, Key: e.Keysym.Scancode})
			} else if e.Type == sdl.KEYUP {
				i.events = append(i.events, Event{Type: EventKeyUp, Key: e.Keysym.Scancode})
			}

		case *sdl.MouseWheelEvent:
			i.events = append(i.events, Event{
				Type:   EventMouseWheel,
				WheelY: float32(e.Y),
			})
		}
	}

	// The slice aliases SDL's internal array and stays current after PumpEvents.
	i.keyboard = sdl.GetKeyboardState()
	return false
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed checks if a specific key went down this frame.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode {
			return true
		}
	}
	return false
}

// Pressed reports whether any key bound to d is held.
func (i *Input) Pressed(d camera.Direction) bool {
	return i.bindings.held(i.keyboard, d)
}

func (b Bindings) held(state []uint8, d camera.Direction) bool {
	for _, sc := range b[d] {
		if int(sc) < len(state) && state[sc] != 0 {
			return true
		}
	}
	return false
}
