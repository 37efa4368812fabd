// Package pointer normalizes platform mouse and touch input into a single
// pointer-event stream and routes it, per gesture, to exactly one
// consumer keyed by the button that started the gesture.
package pointer

import "github.com/park285/boardcore/internal/geom"

// Kind is the phase of a pointer event.
type Kind uint8

const (
	Down Kind = iota
	Move
	Up
)

func (k Kind) String() string {
	switch k {
	case Down:
		return "down"
	case Move:
		return "move"
	case Up:
		return "up"
	}
	return "unknown"
}

// Button identifies which logical button drives the gesture. Move input
// is owned by Primary, annotation drawing by Secondary.
type Button uint8

const (
	Primary Button = iota
	Secondary
)

func (b Button) String() string {
	if b == Secondary {
		return "secondary"
	}
	return "primary"
}

// Modifiers is the keyboard modifier state captured with an event.
type Modifiers struct {
	Ctrl  bool
	Shift bool
	Alt   bool
}

// Event is the canonical pointer event shared by mouse and touch input.
type Event struct {
	Kind   Kind
	At     geom.Point
	Button Button
	Mods   Modifiers
}

// FromMouse builds an event from a platform mouse event.
func FromMouse(kind Kind, at geom.Point, button Button, mods Modifiers) Event {
	return Event{Kind: kind, At: at, Button: button, Mods: mods}
}

// FromTouch builds an event from a platform touch event. Touch input is
// always mapped to the primary button: touch cannot start an annotation
// gesture.
func FromTouch(kind Kind, at geom.Point) Event {
	return Event{Kind: kind, At: at, Button: Primary}
}
