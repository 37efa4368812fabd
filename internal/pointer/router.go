package pointer

import (
	"go.uber.org/zap"

	"github.com/park285/boardcore/internal/obslog"
)

// Handler consumes routed pointer events.
type Handler interface {
	HandlePointer(ev Event)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ev Event)

func (f HandlerFunc) HandlePointer(ev Event) { f(ev) }

// Router demultiplexes the unified pointer stream to the move-input
// handler (primary button) or the annotation handler (secondary button).
// The button whose Down arrives first owns the gesture until its Up; the
// other button's events are dropped for the duration, so a selection or
// drag can never overlap an annotation gesture. Construct one router at
// startup and feed it every normalized event.
type Router struct {
	primary   Handler
	secondary Handler

	engaged bool
	active  Button
}

func NewRouter(primary, secondary Handler) *Router {
	return &Router{primary: primary, secondary: secondary}
}

// Dispatch routes one event. It reports whether the event was consumed
// by an active gesture; callers use this to suppress the platform's
// default behavior (page scrolling, context menus) while a board gesture
// is in flight.
func (r *Router) Dispatch(ev Event) bool {
	switch ev.Kind {
	case Down:
		if r.engaged {
			// A second button pressed mid-gesture is swallowed.
			obslog.L().Debug("pointer_down_dropped",
				zap.String("button", ev.Button.String()),
				zap.String("owner", r.active.String()),
			)
			return true
		}
		r.engaged = true
		r.active = ev.Button
		r.handlerFor(ev.Button).HandlePointer(ev)
		return true
	case Move:
		if !r.engaged {
			return false
		}
		r.handlerFor(r.active).HandlePointer(ev)
		return true
	case Up:
		if !r.engaged || ev.Button != r.active {
			return false
		}
		r.engaged = false
		r.handlerFor(ev.Button).HandlePointer(ev)
		return true
	}
	return false
}

// Engaged reports whether a gesture is currently in flight.
func (r *Router) Engaged() bool { return r.engaged }

func (r *Router) handlerFor(b Button) Handler {
	if b == Secondary {
		return r.secondary
	}
	return r.primary
}
