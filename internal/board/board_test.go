package board

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/park285/boardcore/internal/boardsvc"
	"github.com/park285/boardcore/internal/geom"
	"github.com/park285/boardcore/internal/pointer"
	"github.com/park285/boardcore/internal/rules"
	"github.com/park285/boardcore/internal/syncclient"
)

type localRules struct{}

func (localRules) LegalMovesFEN(fen string) ([]string, error) { return rules.LegalMovesFEN(fen) }
func (localRules) StartFEN() string                           { return rules.StartFEN }

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	boardsvc.NewAPI().Register(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	e := NewEngine(syncclient.NewClient(srv.URL, localRules{}, syncclient.WithTimeout(5*time.Second)))
	e.SetRect(geom.BoardRect{X: 0, Y: 0, Size: 8})
	return e
}

func newOfflineEngine(t *testing.T) *Engine {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	e := NewEngine(syncclient.NewClient(url, localRules{},
		syncclient.WithTimeout(500*time.Millisecond), syncclient.WithRetry(1)))
	e.SetRect(geom.BoardRect{X: 0, Y: 0, Size: 8})
	return e
}

func at(sq geom.Square) geom.Point {
	return geom.SquareCenter(sq, 1, false)
}

func sq(t *testing.T, name string) geom.Square {
	t.Helper()
	s, err := geom.ParseSquare(name)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func click(e *Engine, p geom.Point, b pointer.Button, mods pointer.Modifiers) {
	e.Dispatch(pointer.Event{Kind: pointer.Down, At: p, Button: b, Mods: mods})
	e.Dispatch(pointer.Event{Kind: pointer.Up, At: p, Button: b, Mods: mods})
}

func awaitResult(t *testing.T, e *Engine) AsyncResult {
	t.Helper()
	select {
	case res := <-e.Results():
		return res
	case <-time.After(5 * time.Second):
		t.Fatal("no async result arrived")
		return AsyncResult{}
	}
}

func TestClickMoveConfirmed(t *testing.T) {
	e := newTestEngine(t)

	click(e, at(sq(t, "e2")), pointer.Primary, pointer.Modifiers{})
	if sel, ok := e.Selection(); !ok || sel != sq(t, "e2") {
		t.Fatalf("selection = %v %v, want e2", sel, ok)
	}
	if len(e.LegalTargets()) == 0 {
		t.Fatal("no highlighted targets for e2")
	}

	click(e, at(sq(t, "e4")), pointer.Primary, pointer.Modifiers{})
	if _, ok := e.Selection(); ok {
		t.Fatal("selection survived submission")
	}

	e.Apply(awaitResult(t, e))

	if e.FEN() == rules.StartFEN {
		t.Fatal("position not advanced after confirmed move")
	}
	if !e.Verified() {
		t.Fatal("confirmed position not marked verified")
	}
	last, ok := e.LastMove()
	if !ok || last.From != sq(t, "e2") || last.To != sq(t, "e4") {
		t.Fatalf("last move = %+v %v", last, ok)
	}
	if e.WhiteToMove() {
		t.Fatal("turn did not pass to black")
	}
}

func TestDragMoveConfirmed(t *testing.T) {
	e := newTestEngine(t)

	e.Dispatch(pointer.Event{Kind: pointer.Down, At: at(sq(t, "g1")), Button: pointer.Primary})
	e.Dispatch(pointer.Event{Kind: pointer.Move, At: at(sq(t, "f3")), Button: pointer.Primary})
	e.Dispatch(pointer.Event{Kind: pointer.Up, At: at(sq(t, "f3")), Button: pointer.Primary})

	e.Apply(awaitResult(t, e))

	last, ok := e.LastMove()
	if !ok || last.From != sq(t, "g1") || last.To != sq(t, "f3") {
		t.Fatalf("last move = %+v %v, want g1f3", last, ok)
	}
}

func TestTransportErrorLeavesStateUntouched(t *testing.T) {
	e := newOfflineEngine(t)

	click(e, at(sq(t, "e2")), pointer.Primary, pointer.Modifiers{})
	click(e, at(sq(t, "e4")), pointer.Primary, pointer.Modifiers{})

	e.Apply(awaitResult(t, e))

	if e.FEN() != rules.StartFEN {
		t.Fatalf("position changed without confirmation: %q", e.FEN())
	}
	if _, ok := e.LastMove(); ok {
		t.Fatal("unconfirmed move recorded as last move")
	}
}

func TestStaleEpochDiscarded(t *testing.T) {
	e := newTestEngine(t)

	e.Apply(AsyncResult{
		Kind:  AsyncMove,
		Epoch: 99,
		Move:  syncclient.MoveReply{Status: syncclient.StatusOK, FEN: "8/8/8/8/8/8/8/K6k w - - 0 1"},
	})
	if e.FEN() != rules.StartFEN {
		t.Fatal("stale-epoch result mutated the position")
	}
}

func TestSupersededSeqDiscarded(t *testing.T) {
	e := newTestEngine(t)

	e.Apply(AsyncResult{
		Kind:  AsyncMove,
		Epoch: 0,
		Move: syncclient.MoveReply{
			Status: syncclient.StatusOK,
			Seq:    41,
			FEN:    "8/8/8/8/8/8/8/K6k w - - 0 1",
		},
	})
	if e.FEN() != rules.StartFEN {
		t.Fatal("superseded move reply mutated the position")
	}
}

func TestInvalidReplyLeavesStateUntouched(t *testing.T) {
	e := newTestEngine(t)
	before := e.FEN()

	e.Apply(AsyncResult{
		Kind: AsyncMove,
		Move: syncclient.MoveReply{Status: syncclient.StatusInvalid},
	})
	if e.FEN() != before {
		t.Fatal("invalid reply mutated the position")
	}
}

func TestPrimaryClickClearsAnnotations(t *testing.T) {
	e := newTestEngine(t)

	e.Dispatch(pointer.Event{Kind: pointer.Down, At: at(sq(t, "e4")), Button: pointer.Secondary})
	e.Dispatch(pointer.Event{Kind: pointer.Move, At: at(sq(t, "e6")), Button: pointer.Secondary})
	e.Dispatch(pointer.Event{Kind: pointer.Up, At: at(sq(t, "e6")), Button: pointer.Secondary})
	if len(e.Arrows()) != 1 {
		t.Fatalf("arrows = %d, want 1", len(e.Arrows()))
	}

	click(e, at(sq(t, "h8")), pointer.Primary, pointer.Modifiers{})
	if len(e.Arrows()) != 0 {
		t.Fatal("primary click did not clear annotations")
	}
}

func TestResetClearsLocalState(t *testing.T) {
	e := newTestEngine(t)

	click(e, at(sq(t, "e2")), pointer.Primary, pointer.Modifiers{})
	click(e, at(sq(t, "e4")), pointer.Primary, pointer.Modifiers{})
	e.Apply(awaitResult(t, e))

	e.Dispatch(pointer.Event{Kind: pointer.Down, At: at(sq(t, "d5")), Button: pointer.Secondary})
	e.Dispatch(pointer.Event{Kind: pointer.Up, At: at(sq(t, "d5")), Button: pointer.Secondary})
	if len(e.Circles()) != 1 {
		t.Fatal("circle not committed")
	}

	e.Reset()
	if len(e.Circles()) != 0 || len(e.Arrows()) != 0 {
		t.Fatal("reset kept annotations")
	}
	if _, ok := e.LastMove(); ok {
		t.Fatal("reset kept last-move highlight")
	}

	e.Apply(awaitResult(t, e))
	if e.FEN() != rules.StartFEN {
		t.Fatalf("fen after reset = %q", e.FEN())
	}
}

func TestResetDiscardsInFlightMove(t *testing.T) {
	e := newTestEngine(t)

	click(e, at(sq(t, "e2")), pointer.Primary, pointer.Modifiers{})
	click(e, at(sq(t, "e4")), pointer.Primary, pointer.Modifiers{})
	// Reset races ahead of the move's reply: the epoch bump must win.
	e.Reset()

	for i := 0; i < 2; i++ {
		e.Apply(awaitResult(t, e))
	}
	if e.FEN() != rules.StartFEN {
		t.Fatalf("fen = %q, want in-flight move discarded by reset", e.FEN())
	}
}

func TestLoadFEN(t *testing.T) {
	e := newTestEngine(t)
	const fen = "rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2"

	if err := e.LoadFEN(fen); err != nil {
		t.Fatal(err)
	}
	if e.Verified() {
		t.Fatal("freshly loaded position marked verified before refresh")
	}
	e.Apply(awaitResult(t, e))
	if !e.Verified() {
		t.Fatal("refresh did not verify the loaded position")
	}

	if err := e.LoadFEN("garbage"); err == nil {
		t.Fatal("garbage fen accepted")
	}
}

func TestFlipChangesMapping(t *testing.T) {
	e := newTestEngine(t)

	e.ToggleFlip()
	if !e.Flipped() {
		t.Fatal("flip not recorded")
	}
	// The point that was e2 now maps to d7, a black pawn, so selecting
	// through it must fail while white is to move.
	click(e, at(sq(t, "e2")), pointer.Primary, pointer.Modifiers{})
	if _, ok := e.Selection(); ok {
		t.Fatal("selected an opponent piece through the flipped mapping")
	}
}

func TestMoveCachePrefixes(t *testing.T) {
	c := NewMoveCache()
	c.Replace([]string{"e2e4", "e7e8q", "e7e8n", "g1f3"})

	if !c.CanMove(geom.Square{File: 4, Rank: 6}, geom.Square{File: 4, Rank: 7}) {
		t.Fatal("promotion prefix e7e8 not matched")
	}
	if c.CanMove(geom.Square{File: 4, Rank: 1}, geom.Square{File: 4, Rank: 4}) {
		t.Fatal("e2e5 matched without being cached")
	}

	targets := c.TargetsFrom(geom.Square{File: 4, Rank: 6})
	if len(targets) != 1 {
		t.Fatalf("e7 targets = %v, want the deduplicated e8", targets)
	}
}
