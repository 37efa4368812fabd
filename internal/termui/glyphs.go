package termui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/park285/boardcore/internal/annotate"
	"github.com/park285/boardcore/internal/rules"
)

// Filled glyphs for both sides; color carries the side.
var pieceRunes = map[rules.Kind]rune{
	rules.Pawn:   '♟',
	rules.Knight: '♞',
	rules.Bishop: '♝',
	rules.Rook:   '♜',
	rules.Queen:  '♛',
	rules.King:   '♚',
}

func pieceRune(p rules.Piece) rune {
	r, ok := pieceRunes[p.Kind]
	if !ok {
		return '?'
	}
	return r
}

func pieceColor(p rules.Piece) tcell.Color {
	if p.Color == rules.White {
		return tcell.ColorWhite
	}
	return tcell.ColorBlack
}

func annotColor(c annotate.Color) tcell.Color {
	switch c {
	case annotate.Red:
		return tcell.ColorRed
	case annotate.Yellow:
		return tcell.ColorYellow
	case annotate.Blue:
		return tcell.ColorBlue
	}
	return tcell.ColorGreen
}
