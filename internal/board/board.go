// Package board composes the interaction core: pointer routing, the
// selection/drag machine, the annotation engine, the legal-move cache,
// and the synchronization client, all hung off one position. Front ends
// feed it pointer events and drain Results; everything else is internal.
package board

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/park285/boardcore/internal/annotate"
	"github.com/park285/boardcore/internal/geom"
	"github.com/park285/boardcore/internal/moveinput"
	"github.com/park285/boardcore/internal/obslog"
	"github.com/park285/boardcore/internal/pointer"
	"github.com/park285/boardcore/internal/rules"
	"github.com/park285/boardcore/internal/syncclient"
)

// AsyncKind tags which protocol call produced an AsyncResult.
type AsyncKind uint8

const (
	AsyncMove AsyncKind = iota
	AsyncRefresh
	AsyncReset
)

// AsyncResult is one completed protocol round-trip, delivered on the
// Results channel. The front end hands it back to Apply on its own
// goroutine; Apply decides whether the result is still current.
type AsyncResult struct {
	Kind    AsyncKind
	Epoch   uint64
	Move    syncclient.MoveReply
	Refresh syncclient.FenReply
	Reset   syncclient.ResetReply

	// From/To identify the candidate a move result answers.
	From geom.Square
	To   geom.Square
}

// LastMove is the most recently confirmed move, kept for highlighting.
type LastMove struct {
	From geom.Square
	To   geom.Square
}

// Engine is the composed interaction engine. All methods are safe for
// one front-end goroutine; protocol round-trips run on their own
// goroutines and re-enter only through the Results channel and Apply.
type Engine struct {
	sync *syncclient.Client

	mu       sync.Mutex
	pos      *rules.Engine
	cache    *MoveCache
	input    *moveinput.Machine
	annot    *annotate.Engine
	router   *pointer.Router
	rect     geom.BoardRect
	flipped  bool
	epoch    uint64
	lastMove *LastMove
	verified bool
	gameOver bool
	inCheck  bool

	results chan AsyncResult
}

// NewEngine returns an engine at the starting position. The legal-move
// cache is seeded locally and unverified until the first refresh or move
// confirms it against the service.
func NewEngine(client *syncclient.Client) *Engine {
	e := &Engine{
		sync:    client,
		pos:     rules.New(),
		cache:   NewMoveCache(),
		annot:   annotate.NewEngine(),
		results: make(chan AsyncResult, 8),
	}
	e.input = moveinput.NewMachine(positionView{e}, legalSource{e})
	e.router = pointer.NewRouter(
		pointer.HandlerFunc(e.handlePrimary),
		pointer.HandlerFunc(e.handleSecondary),
	)
	e.cache.Replace(e.pos.LegalMoves())
	return e
}

// Results delivers completed protocol round-trips. Drain it and pass
// each value to Apply.
func (e *Engine) Results() <-chan AsyncResult { return e.results }

// SetRect sets the screen-space board rectangle pointer events are
// mapped through.
func (e *Engine) SetRect(r geom.BoardRect) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rect = r
}

// ToggleFlip flips the board orientation. Selection survives a flip;
// only the point-to-square mapping changes.
func (e *Engine) ToggleFlip() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.flipped = !e.flipped
}

// Dispatch routes one pointer event. The return value reports whether
// the event was consumed and the platform default should be suppressed.
func (e *Engine) Dispatch(ev pointer.Event) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.router.Dispatch(ev)
}

func (e *Engine) handlePrimary(ev pointer.Event) {
	sq, onBoard := e.rect.SquareAt(ev.At, e.flipped)
	switch ev.Kind {
	case pointer.Down:
		// Any primary press clears the annotation layer before the
		// selection machinery sees the event.
		e.annot.Clear()
		e.act(e.input.Press(sq, onBoard))
	case pointer.Up:
		e.act(e.input.Release(sq, onBoard))
	}
}

func (e *Engine) handleSecondary(ev pointer.Event) {
	sq, onBoard := e.rect.SquareAt(ev.At, e.flipped)
	switch ev.Kind {
	case pointer.Down:
		if onBoard {
			e.annot.StartGesture(sq, ev.Mods)
		}
	case pointer.Move:
		if onBoard {
			e.annot.MoveGesture(sq)
		}
	case pointer.Up:
		if onBoard {
			e.annot.EndGesture(sq)
		} else {
			e.annot.CancelGesture()
		}
	}
}

func (e *Engine) act(a moveinput.Action) {
	if a.Kind != moveinput.ActionSubmit {
		return
	}
	e.submit(a.Candidate)
}

// submit launches the move round-trip. The position does not change
// until Apply confirms the service accepted it.
func (e *Engine) submit(cand moveinput.Candidate) {
	fen := e.pos.FEN()
	epoch := e.epoch
	go func() {
		reply := e.sync.RequestMove(context.Background(), fen, cand.UCI())
		e.results <- AsyncResult{
			Kind:  AsyncMove,
			Epoch: epoch,
			Move:  reply,
			From:  cand.From,
			To:    cand.To,
		}
	}()
}

// Refresh re-fetches the legal moves for the current position.
func (e *Engine) Refresh() {
	e.mu.Lock()
	fen := e.pos.FEN()
	epoch := e.epoch
	e.mu.Unlock()
	go func() {
		reply := e.sync.RefreshLegalMoves(context.Background(), fen)
		e.results <- AsyncResult{Kind: AsyncRefresh, Epoch: epoch, Refresh: reply}
	}()
}

// Reset starts a new game. Local state is cleared immediately and the
// epoch bumped, so any in-flight result from the old game is discarded
// when it lands.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.epoch++
	epoch := e.epoch
	e.input.Reset()
	e.annot.Clear()
	e.annot.CancelGesture()
	e.lastMove = nil
	e.gameOver = false
	e.inCheck = false
	e.mu.Unlock()

	go func() {
		reply := e.sync.ResetGame(context.Background())
		e.results <- AsyncResult{Kind: AsyncReset, Epoch: epoch, Reset: reply}
	}()
}

// LoadFEN replaces the position wholesale. Selection, annotations, and
// the last-move highlight are dropped; the legal-move cache is seeded
// locally and a refresh is launched to verify it.
func (e *Engine) LoadFEN(fen string) error {
	e.mu.Lock()
	if err := e.pos.LoadPosition(fen); err != nil {
		e.mu.Unlock()
		return err
	}
	e.epoch++
	e.input.Reset()
	e.annot.Clear()
	e.annot.CancelGesture()
	e.lastMove = nil
	e.verified = false
	e.gameOver = e.pos.IsGameOver()
	e.inCheck = e.pos.InCheck()
	e.cache.Replace(e.pos.LegalMoves())
	e.mu.Unlock()

	e.Refresh()
	return nil
}

// Apply folds one completed round-trip into the engine. Results from a
// previous epoch, and move results superseded by a later move request,
// are discarded without touching any state.
func (e *Engine) Apply(res AsyncResult) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if res.Epoch != e.epoch {
		obslog.L().Debug("result_discarded_stale_epoch",
			zap.Uint64("result_epoch", res.Epoch),
			zap.Uint64("epoch", e.epoch),
		)
		return
	}

	switch res.Kind {
	case AsyncMove:
		e.applyMove(res)
	case AsyncRefresh:
		e.applyRefresh(res.Refresh)
	case AsyncReset:
		e.applyReset(res.Reset)
	}
}

func (e *Engine) applyMove(res AsyncResult) {
	reply := res.Move
	if reply.Seq != e.sync.LatestMoveSeq() {
		obslog.L().Debug("move_reply_superseded",
			zap.Uint64("seq", reply.Seq),
			zap.Uint64("latest", e.sync.LatestMoveSeq()),
		)
		return
	}

	switch reply.Status {
	case syncclient.StatusOK:
		if err := e.pos.LoadPosition(reply.FEN); err != nil {
			obslog.L().Error("confirmed_fen_rejected", zap.String("fen", reply.FEN), zap.Error(err))
			return
		}
		e.cache.Replace(reply.LegalMoves)
		e.lastMove = &LastMove{From: res.From, To: res.To}
		e.verified = true
		e.gameOver = reply.IsGameOver
		e.inCheck = reply.IsCheck
		if reply.IsGameOver {
			obslog.L().Info("game_over",
				zap.String("fen", reply.FEN),
				zap.Bool("checkmate", reply.IsCheckmate),
				zap.Bool("stalemate", reply.IsStalemate),
			)
		}
	case syncclient.StatusInvalid:
		obslog.L().Debug("move_rejected", zap.String("from", res.From.String()), zap.String("to", res.To.String()))
	case syncclient.StatusTransportError:
		// The move never happened. Position and cache stay as they were;
		// moves are never confirmed locally.
		obslog.L().Warn("move_unconfirmed", zap.Error(reply.Err))
	}
}

func (e *Engine) applyRefresh(reply syncclient.FenReply) {
	if reply.Status != syncclient.StatusOK {
		obslog.L().Warn("refresh_failed", zap.Stringer("status", reply.Status), zap.Error(reply.Err))
		return
	}
	e.cache.Replace(reply.LegalMoves)
	e.verified = reply.Verified
}

func (e *Engine) applyReset(reply syncclient.ResetReply) {
	if reply.Status != syncclient.StatusOK {
		obslog.L().Warn("reset_failed", zap.Error(reply.Err))
		return
	}
	if err := e.pos.LoadPosition(reply.FEN); err != nil {
		obslog.L().Error("reset_fen_rejected", zap.String("fen", reply.FEN), zap.Error(err))
		return
	}
	e.cache.Replace(reply.LegalMoves)
	e.verified = reply.Verified
}

// FEN returns the current authoritative position.
func (e *Engine) FEN() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pos.FEN()
}

// PieceAt returns the piece on sq, if any.
func (e *Engine) PieceAt(sq geom.Square) (rules.Piece, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pos.PieceAt(sq)
}

// Selection returns the selected square, if any.
func (e *Engine) Selection() (geom.Square, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.input.Selection()
}

// LegalTargets returns the highlighted destinations for the current
// selection. Empty when nothing is selected.
func (e *Engine) LegalTargets() []geom.Square {
	e.mu.Lock()
	defer e.mu.Unlock()
	sel, ok := e.input.Selection()
	if !ok {
		return nil
	}
	return e.cache.TargetsFrom(sel)
}

// Arrows returns the committed annotation arrows.
func (e *Engine) Arrows() []annotate.Arrow {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.annot.Arrows()
}

// Circles returns the committed annotation circles.
func (e *Engine) Circles() []annotate.Circle {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.annot.Circles()
}

// Preview returns the in-progress annotation, if a drawing gesture is
// active.
func (e *Engine) Preview() (*annotate.Arrow, *annotate.Circle) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.annot.Preview()
}

// LastMove returns the most recently confirmed move, if any.
func (e *Engine) LastMove() (LastMove, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.lastMove == nil {
		return LastMove{}, false
	}
	return *e.lastMove, true
}

// Verified reports whether the legal-move cache was confirmed by the
// service, as opposed to computed by the local fallback.
func (e *Engine) Verified() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.verified
}

// Flipped reports the board orientation.
func (e *Engine) Flipped() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.flipped
}

// InCheck reports whether the side to move is in check, per the last
// confirmed reply.
func (e *Engine) InCheck() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inCheck
}

// GameOver reports whether the game has ended, per the last confirmed
// reply.
func (e *Engine) GameOver() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gameOver
}

// WhiteToMove reports whose turn it is.
func (e *Engine) WhiteToMove() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pos.CurrentTurn() == rules.White
}

// positionView exposes the engine's position to the move-input machine.
// Its methods run inside Dispatch, under the engine mutex.
type positionView struct{ e *Engine }

func (v positionView) OwnPieceAt(sq geom.Square) bool {
	p, ok := v.e.pos.PieceAt(sq)
	return ok && p.Color == v.e.pos.CurrentTurn()
}

func (v positionView) PawnAt(sq geom.Square) bool {
	p, ok := v.e.pos.PieceAt(sq)
	return ok && p.Kind == rules.Pawn
}

func (v positionView) WhiteToMove() bool {
	return v.e.pos.CurrentTurn() == rules.White
}

// legalSource exposes the move cache to the move-input machine, under
// the same locking convention as positionView.
type legalSource struct{ e *Engine }

func (s legalSource) CanMove(from, to geom.Square) bool {
	return s.e.cache.CanMove(from, to)
}
