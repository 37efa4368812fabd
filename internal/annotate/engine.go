// Package annotate owns the arrow and circle annotation sets and the
// secondary-button drawing gesture. It is purely local state: nothing in
// here touches the network or the move-input machinery.
package annotate

import (
	"go.uber.org/zap"

	"github.com/park285/boardcore/internal/geom"
	"github.com/park285/boardcore/internal/obslog"
	"github.com/park285/boardcore/internal/pointer"
)

type gesture struct {
	start   geom.Square
	current geom.Square
	color   Color
}

// Engine applies toggle semantics to the annotation sets. Slices keep
// insertion order; order only affects draw order, never semantics.
type Engine struct {
	arrows  []Arrow
	circles []Circle
	gesture *gesture
}

func NewEngine() *Engine {
	return &Engine{}
}

// StartGesture begins a drawing gesture at sq. The modifier state is
// snapshotted here, once; this is the only point at which the gesture
// color can be influenced.
func (e *Engine) StartGesture(sq geom.Square, mods pointer.Modifiers) {
	e.gesture = &gesture{start: sq, current: sq, color: ColorFromModifiers(mods)}
}

// MoveGesture updates the gesture's current square, used for the live
// arrow preview. Ignored when no gesture is active.
func (e *Engine) MoveGesture(sq geom.Square) {
	if e.gesture == nil {
		return
	}
	e.gesture.current = sq
}

// EndGesture completes the gesture at sq and applies toggle semantics:
// same square toggles a circle, different squares toggle an arrow. An
// existing annotation with the same identity and the same color is
// removed; with a different color it is recolored in place.
func (e *Engine) EndGesture(sq geom.Square) {
	g := e.gesture
	e.gesture = nil
	if g == nil {
		return
	}
	if sq == g.start {
		e.toggleCircle(Circle{Square: sq, Color: g.color})
		return
	}
	e.toggleArrow(Arrow{From: g.start, To: sq, Color: g.color})
}

// CancelGesture discards the in-progress gesture without committing.
func (e *Engine) CancelGesture() {
	e.gesture = nil
}

// Preview returns the in-progress annotation for lower-opacity rendering.
// At most one of the results is non-nil.
func (e *Engine) Preview() (*Arrow, *Circle) {
	g := e.gesture
	if g == nil {
		return nil, nil
	}
	if g.current == g.start {
		return nil, &Circle{Square: g.start, Color: g.color}
	}
	return &Arrow{From: g.start, To: g.current, Color: g.color}, nil
}

// Clear drops every arrow and circle. Driven by any primary-button board
// click: left-click clears, right-click draws.
func (e *Engine) Clear() {
	if len(e.arrows) == 0 && len(e.circles) == 0 {
		return
	}
	obslog.L().Debug("annotations_cleared",
		zap.Int("arrows", len(e.arrows)),
		zap.Int("circles", len(e.circles)),
	)
	e.arrows = nil
	e.circles = nil
}

// Arrows returns the committed arrows in draw order.
func (e *Engine) Arrows() []Arrow { return e.arrows }

// Circles returns the committed circles in draw order.
func (e *Engine) Circles() []Circle { return e.circles }

func (e *Engine) toggleCircle(c Circle) {
	for i, have := range e.circles {
		if have.Square != c.Square {
			continue
		}
		if have.Color == c.Color {
			e.circles = append(e.circles[:i], e.circles[i+1:]...)
		} else {
			e.circles[i].Color = c.Color
		}
		return
	}
	e.circles = append(e.circles, c)
}

func (e *Engine) toggleArrow(a Arrow) {
	for i, have := range e.arrows {
		if have.From != a.From || have.To != a.To {
			continue
		}
		if have.Color == a.Color {
			e.arrows = append(e.arrows[:i], e.arrows[i+1:]...)
		} else {
			e.arrows[i].Color = a.Color
		}
		return
	}
	e.arrows = append(e.arrows, a)
}
