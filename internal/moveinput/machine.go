// Package moveinput owns selection, dragging, and candidate-move
// resolution for primary-button input. The machine performs no I/O: it
// consults a PositionView for piece ownership and a LegalSource backed by
// the legal-move cache, and reports what the caller should do as Action
// values. Committing the emitted candidate (and any state change that
// follows a server verdict) is the composed engine's job.
package moveinput

import (
	"go.uber.org/zap"

	"github.com/park285/boardcore/internal/geom"
	"github.com/park285/boardcore/internal/obslog"
)

// PositionView answers piece queries against the current authoritative
// position.
type PositionView interface {
	// OwnPieceAt reports whether sq holds a piece of the side to move.
	OwnPieceAt(sq geom.Square) bool
	// PawnAt reports whether sq holds a pawn (of either side).
	PawnAt(sq geom.Square) bool
	// WhiteToMove reports whose turn it is.
	WhiteToMove() bool
}

// LegalSource is the prefix-match view of the legal-move cache.
type LegalSource interface {
	// CanMove reports whether any cached legal move starts with from+to,
	// ignoring a promotion suffix.
	CanMove(from, to geom.Square) bool
}

// State is the selection state.
type State uint8

const (
	Idle State = iota
	Selected
	Dragging
)

func (s State) String() string {
	switch s {
	case Selected:
		return "selected"
	case Dragging:
		return "dragging"
	}
	return "idle"
}

// Candidate is a fully resolved move ready for submission.
type Candidate struct {
	From      geom.Square
	To        geom.Square
	Promotion string // "q" when auto-resolved, otherwise empty
}

// UCI serializes the candidate in from+to[+promotion] form.
func (c Candidate) UCI() string {
	return c.From.String() + c.To.String() + c.Promotion
}

// ActionKind tags what the machine decided in response to an event.
type ActionKind uint8

const (
	ActionNone ActionKind = iota
	ActionSelect
	ActionDeselect
	ActionSubmit
)

// Action is the machine's reaction to one pointer event.
type Action struct {
	Kind      ActionKind
	Square    geom.Square // selected square for ActionSelect
	Candidate Candidate   // populated for ActionSubmit
}

// Machine is the selection/drag state machine. A press on an own-side
// piece immediately enters Dragging (and Selected, so legal destinations
// highlight during the drag); releasing on the origin square turns the
// gesture into a click.
type Machine struct {
	view  PositionView
	legal LegalSource

	state       State
	sel         geom.Square
	wasSelected bool // drag started on the already-selected square
}

func NewMachine(view PositionView, legal LegalSource) *Machine {
	return &Machine{view: view, legal: legal}
}

// State returns the current selection state.
func (m *Machine) State() State { return m.state }

// Selection returns the selected (or dragged) square.
func (m *Machine) Selection() (geom.Square, bool) {
	if m.state == Idle {
		return geom.Square{}, false
	}
	return m.sel, true
}

// Reset forces the machine back to Idle, dropping any selection.
func (m *Machine) Reset() {
	m.state = Idle
	m.wasSelected = false
}

// Press handles a primary-button press. onBoard is false when the point
// did not map to a square.
func (m *Machine) Press(sq geom.Square, onBoard bool) Action {
	if !onBoard {
		return m.deselect()
	}

	if m.view.OwnPieceAt(sq) {
		// Start a drag; remember whether this piece was already selected
		// so releasing in place can toggle the selection off.
		m.wasSelected = m.state == Selected && m.sel == sq
		m.state = Dragging
		m.sel = sq
		return Action{Kind: ActionSelect, Square: sq}
	}

	if m.state == Selected {
		if m.legal.CanMove(m.sel, sq) {
			return m.submit(m.sel, sq)
		}
		return m.deselect()
	}

	// Pressing an empty or opponent square with nothing selected.
	return Action{Kind: ActionNone}
}

// Release handles a primary-button release. onBoard is false when the
// release point did not map to a square; a drag released off the board
// is a no-op revert.
func (m *Machine) Release(sq geom.Square, onBoard bool) Action {
	if m.state != Dragging {
		return Action{Kind: ActionNone}
	}
	from := m.sel

	if !onBoard {
		return m.deselect()
	}
	if sq == from {
		// The gesture was a click on the piece, not a drag.
		if m.wasSelected {
			return m.deselect()
		}
		m.state = Selected
		m.wasSelected = false
		return Action{Kind: ActionNone}
	}
	if m.legal.CanMove(from, sq) {
		return m.submit(from, sq)
	}
	return m.deselect()
}

func (m *Machine) deselect() Action {
	had := m.state != Idle
	m.Reset()
	if !had {
		return Action{Kind: ActionNone}
	}
	return Action{Kind: ActionDeselect}
}

func (m *Machine) submit(from, to geom.Square) Action {
	cand := Candidate{From: from, To: to}
	if m.view.PawnAt(from) && onFarthestRank(to, m.view.WhiteToMove()) {
		// No promotion-choice UI exists: auto-resolve to queen.
		cand.Promotion = "q"
	}
	m.Reset()
	obslog.L().Debug("move_candidate", zap.String("uci", cand.UCI()))
	return Action{Kind: ActionSubmit, Candidate: cand}
}

func onFarthestRank(sq geom.Square, whiteToMove bool) bool {
	if whiteToMove {
		return sq.Rank == 7
	}
	return sq.Rank == 0
}
