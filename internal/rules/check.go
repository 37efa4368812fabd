package rules

import "github.com/park285/boardcore/internal/geom"

// The library computes check internally but does not export a query for
// it, so the adapter carries a small attack probe over the occupancy
// map. Legality still comes exclusively from the library; this only
// feeds the is_check status flag.

var (
	knightOffsets = [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingOffsets   = [8][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
	rookDirs      = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirs    = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
)

func (e *Engine) inCheck() bool {
	occupied := make(map[geom.Square]Piece, 32)
	var kingSq geom.Square
	kingFound := false
	mover := e.CurrentTurn()

	for libSq, libPiece := range e.game.Position().Board().SquareMap() {
		sq := geom.Square{File: int(libSq.File()), Rank: int(libSq.Rank())}
		p := Piece{Color: colorOf(libPiece.Color()), Kind: kindOf(libPiece.Type())}
		occupied[sq] = p
		if p.Kind == King && p.Color == mover {
			kingSq = sq
			kingFound = true
		}
	}
	if !kingFound {
		return false
	}
	return squareAttacked(occupied, kingSq, opposite(mover))
}

func squareAttacked(occupied map[geom.Square]Piece, target geom.Square, by Color) bool {
	// Pawn attacks run toward the attacked square.
	pawnRank := target.Rank - 1
	if by == Black {
		pawnRank = target.Rank + 1
	}
	for _, df := range [2]int{-1, 1} {
		if p, ok := occupied[geom.Square{File: target.File + df, Rank: pawnRank}]; ok && p.Color == by && p.Kind == Pawn {
			return true
		}
	}

	for _, off := range knightOffsets {
		if p, ok := occupied[geom.Square{File: target.File + off[0], Rank: target.Rank + off[1]}]; ok && p.Color == by && p.Kind == Knight {
			return true
		}
	}
	for _, off := range kingOffsets {
		if p, ok := occupied[geom.Square{File: target.File + off[0], Rank: target.Rank + off[1]}]; ok && p.Color == by && p.Kind == King {
			return true
		}
	}

	if slidingAttack(occupied, target, by, rookDirs, Rook) {
		return true
	}
	return slidingAttack(occupied, target, by, bishopDirs, Bishop)
}

func slidingAttack(occupied map[geom.Square]Piece, target geom.Square, by Color, dirs [4][2]int, kind Kind) bool {
	for _, dir := range dirs {
		sq := target
		for {
			sq = geom.Square{File: sq.File + dir[0], Rank: sq.Rank + dir[1]}
			if !sq.Valid() {
				break
			}
			p, ok := occupied[sq]
			if !ok {
				continue
			}
			if p.Color == by && (p.Kind == kind || p.Kind == Queen) {
				return true
			}
			break // first occupied square blocks the ray
		}
	}
	return false
}

func opposite(c Color) Color {
	if c == White {
		return Black
	}
	return White
}
