package annotate

import (
	"github.com/park285/boardcore/internal/geom"
	"github.com/park285/boardcore/internal/pointer"
)

// Color is one of the four fixed annotation colors. The color of a
// gesture is resolved once, from the modifiers held when the gesture
// starts; modifiers at release time are ignored.
type Color uint8

const (
	Green  Color = iota // no modifier
	Red                 // ctrl
	Yellow              // shift
	Blue                // alt
)

func (c Color) String() string {
	switch c {
	case Red:
		return "red"
	case Yellow:
		return "yellow"
	case Blue:
		return "blue"
	}
	return "green"
}

// ColorFromModifiers resolves the gesture color. Priority is fixed:
// ctrl beats shift beats alt; no modifier yields the default.
func ColorFromModifiers(m pointer.Modifiers) Color {
	switch {
	case m.Ctrl:
		return Red
	case m.Shift:
		return Yellow
	case m.Alt:
		return Blue
	}
	return Green
}

// Arrow is a directed annotation between two squares. (From, To) is the
// identity; a->b and b->a are distinct arrows.
type Arrow struct {
	From  geom.Square
	To    geom.Square
	Color Color
}

// Circle marks a single square. The square is the identity.
type Circle struct {
	Square geom.Square
	Color  Color
}
