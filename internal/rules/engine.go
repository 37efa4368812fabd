// Package rules adapts the embedded chess library to the narrow surface
// the interaction core consumes: position loading, piece lookup, turn and
// status flags, and legal-move enumeration in UCI form. Move legality is
// always the library's answer; nothing here re-implements move
// generation.
package rules

import (
	"fmt"
	"strings"

	chesslib "github.com/corentings/chess/v2"

	"github.com/park285/boardcore/internal/geom"
)

// StartFEN is the standard starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Color identifies a side.
type Color string

const (
	White Color = "white"
	Black Color = "black"
)

// Kind is a piece kind.
type Kind uint8

const (
	Pawn Kind = iota
	Knight
	Bishop
	Rook
	Queen
	King
)

// Piece is a colored piece on a square.
type Piece struct {
	Color Color
	Kind  Kind
}

// Engine wraps a single game whose position tracks the authoritative FEN
// the interaction core last confirmed.
type Engine struct {
	game *chesslib.Game
}

// New returns an engine at the standard starting position.
func New() *Engine {
	return &Engine{game: chesslib.NewGame()}
}

// NewFromFEN returns an engine loaded with the given position.
func NewFromFEN(fen string) (*Engine, error) {
	e := New()
	if err := e.LoadPosition(fen); err != nil {
		return nil, err
	}
	return e, nil
}

// LoadPosition replaces the current position wholesale. The empty string
// and "startpos" load the standard starting position.
func (e *Engine) LoadPosition(fen string) error {
	fen = strings.TrimSpace(fen)
	if fen == "" || fen == "startpos" {
		e.game = chesslib.NewGame()
		return nil
	}
	option, err := chesslib.FEN(fen)
	if err != nil {
		return fmt.Errorf("parse fen %q: %w", fen, err)
	}
	e.game = chesslib.NewGame(option)
	return nil
}

// FEN serializes the current position.
func (e *Engine) FEN() string { return e.game.FEN() }

// CurrentTurn returns the side to move.
func (e *Engine) CurrentTurn() Color {
	if e.game.Position().Turn() == chesslib.White {
		return White
	}
	return Black
}

// PieceAt returns the piece on sq, if any.
func (e *Engine) PieceAt(sq geom.Square) (Piece, bool) {
	if !sq.Valid() {
		return Piece{}, false
	}
	p := e.game.Position().Board().Piece(librarySquare(sq))
	if p == chesslib.NoPiece {
		return Piece{}, false
	}
	return Piece{Color: colorOf(p.Color()), Kind: kindOf(p.Type())}, true
}

// LegalMoves enumerates every legal move for the current position in
// from+to[+promotion] form.
func (e *Engine) LegalMoves() []string {
	valid := e.game.ValidMoves()
	moves := make([]string, 0, len(valid))
	for i := range valid {
		moves = append(moves, valid[i].String())
	}
	return moves
}

// ApplyUCI plays a move in UCI notation against the current position.
// Illegal or unparseable moves leave the position untouched.
func (e *Engine) ApplyUCI(uci string) error {
	uci = strings.ToLower(strings.TrimSpace(uci))
	if uci == "" {
		return fmt.Errorf("empty move")
	}
	if err := e.game.PushNotationMove(uci, chesslib.UCINotation{}, nil); err != nil {
		return fmt.Errorf("apply move %q: %w", uci, err)
	}
	return nil
}

// InCheck reports whether the side to move is in check.
func (e *Engine) InCheck() bool {
	return e.inCheck()
}

// IsCheckmate reports whether the side to move is checkmated.
func (e *Engine) IsCheckmate() bool {
	return e.game.Position().Status() == chesslib.Checkmate
}

// IsStalemate reports whether the side to move is stalemated.
func (e *Engine) IsStalemate() bool {
	return e.game.Position().Status() == chesslib.Stalemate
}

// IsDraw reports whether the game ended drawn (stalemate, repetition,
// insufficient material, 75-move rule).
func (e *Engine) IsDraw() bool {
	return e.game.Outcome() == chesslib.Draw
}

// IsGameOver reports whether the game has any outcome.
func (e *Engine) IsGameOver() bool {
	return e.game.Outcome() != chesslib.NoOutcome
}

// LegalMovesFEN enumerates the legal moves of an arbitrary position
// without touching any engine state. This is the local fallback the
// synchronization client uses when the validation service is
// unreachable.
func LegalMovesFEN(fen string) ([]string, error) {
	e, err := NewFromFEN(fen)
	if err != nil {
		return nil, err
	}
	return e.LegalMoves(), nil
}

func librarySquare(sq geom.Square) chesslib.Square {
	return chesslib.NewSquare(chesslib.File(sq.File), chesslib.Rank(sq.Rank))
}

func colorOf(c chesslib.Color) Color {
	if c == chesslib.White {
		return White
	}
	return Black
}

func kindOf(t chesslib.PieceType) Kind {
	switch t {
	case chesslib.Knight:
		return Knight
	case chesslib.Bishop:
		return Bishop
	case chesslib.Rook:
		return Rook
	case chesslib.Queen:
		return Queen
	case chesslib.King:
		return King
	}
	return Pawn
}
