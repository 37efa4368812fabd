// Package geom provides the pure coordinate transforms between screen
// points, board squares, and annotation-canvas coordinates. All functions
// are deterministic and side-effect free; board orientation (flipped or
// not) is passed in explicitly.
package geom

import "fmt"

// Point is a position in screen or canvas coordinates.
type Point struct {
	X float64
	Y float64
}

// BoardRect is the screen-space bounding box of the (square) board.
type BoardRect struct {
	X    float64
	Y    float64
	Size float64
}

// Square is an algebraic board coordinate. File 0 is the a-file, rank 0
// is the first rank, regardless of board orientation.
type Square struct {
	File int
	Rank int
}

// Valid reports whether the square lies on the 8x8 board.
func (s Square) Valid() bool {
	return s.File >= 0 && s.File < 8 && s.Rank >= 0 && s.Rank < 8
}

// String serializes the square as letter+digit, e.g. "e4".
func (s Square) String() string {
	if !s.Valid() {
		return "-"
	}
	return string([]byte{byte('a' + s.File), byte('1' + s.Rank)})
}

// ParseSquare parses the letter+digit form produced by String.
func ParseSquare(in string) (Square, error) {
	if len(in) != 2 || in[0] < 'a' || in[0] > 'h' || in[1] < '1' || in[1] > '8' {
		return Square{}, fmt.Errorf("geom: invalid square %q", in)
	}
	return Square{File: int(in[0] - 'a'), Rank: int(in[1] - '1')}, nil
}

// SquareAt maps a screen point to the square under it, honoring board
// orientation. The second return value is false when the point lies
// outside the board rectangle.
func (r BoardRect) SquareAt(p Point, flipped bool) (Square, bool) {
	if r.Size <= 0 {
		return Square{}, false
	}
	if p.X < r.X || p.Y < r.Y || p.X >= r.X+r.Size || p.Y >= r.Y+r.Size {
		return Square{}, false
	}
	cell := r.Size / 8
	col := int((p.X - r.X) / cell)
	row := int((p.Y - r.Y) / cell)
	if col > 7 {
		col = 7
	}
	if row > 7 {
		row = 7
	}
	if flipped {
		return Square{File: 7 - col, Rank: row}, true
	}
	return Square{File: col, Rank: 7 - row}, true
}

// SquareCenter returns the canvas coordinates of the center of sq for the
// given square size. Flipping mirrors the file axis and inverts the rank
// axis together, so the visually bottom-left square is always the
// viewer's own back rank corner.
func SquareCenter(sq Square, size float64, flipped bool) Point {
	col := float64(sq.File)
	row := float64(7 - sq.Rank)
	if flipped {
		col = float64(7 - sq.File)
		row = float64(sq.Rank)
	}
	return Point{
		X: col*size + size/2,
		Y: row*size + size/2,
	}
}
