package termui

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/park285/boardcore/internal/geom"
	"github.com/park285/boardcore/internal/pointer"
)

func TestCellToPointRoundTrip(t *testing.T) {
	rect := geom.BoardRect{X: 0, Y: 0, Size: 8}
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			// Center cell of the square's character block.
			x := boardLeft + col*cellW + cellW/2
			y := boardTop + row*cellH + cellH/2
			sq, ok := rect.SquareAt(cellToPoint(x, y), false)
			if !ok {
				t.Fatalf("cell (%d,%d) fell off the board", x, y)
			}
			if want := squareAtCell(col, row, false); sq != want {
				t.Fatalf("cell (%d,%d) mapped to %v, rendered as %v", x, y, sq, want)
			}
		}
	}
}

func TestCellOutsideBoard(t *testing.T) {
	rect := geom.BoardRect{X: 0, Y: 0, Size: 8}
	if _, ok := rect.SquareAt(cellToPoint(boardLeft-1, boardTop), false); ok {
		t.Fatal("cell left of the board mapped to a square")
	}
	if _, ok := rect.SquareAt(cellToPoint(boardLeft, boardTop+8*cellH), false); ok {
		t.Fatal("cell below the board mapped to a square")
	}
}

func TestSquareAtCellFlip(t *testing.T) {
	if sq := squareAtCell(0, 0, false); sq.String() != "a8" {
		t.Fatalf("top-left = %v, want a8", sq)
	}
	if sq := squareAtCell(0, 0, true); sq.String() != "h1" {
		t.Fatalf("flipped top-left = %v, want h1", sq)
	}
}

func TestTranslateMousePressDragRelease(t *testing.T) {
	u := &UI{}

	down := u.translateMouse(tcell.NewEventMouse(boardLeft, boardTop, tcell.ButtonPrimary, 0))
	if len(down) == 0 || down[0].Kind != pointer.Down || down[0].Button != pointer.Primary {
		t.Fatalf("press produced %v", down)
	}

	moved := u.translateMouse(tcell.NewEventMouse(boardLeft+cellW, boardTop, tcell.ButtonPrimary, 0))
	foundMove := false
	for _, ev := range moved {
		if ev.Kind == pointer.Move {
			foundMove = true
		}
		if ev.Kind == pointer.Down {
			t.Fatal("held button re-pressed")
		}
	}
	if !foundMove {
		t.Fatalf("drag produced %v", moved)
	}

	up := u.translateMouse(tcell.NewEventMouse(boardLeft+cellW, boardTop, tcell.ButtonNone, 0))
	if len(up) == 0 || up[0].Kind != pointer.Up {
		t.Fatalf("release produced %v", up)
	}
}

func TestTranslateMouseModifiers(t *testing.T) {
	u := &UI{}

	evs := u.translateMouse(tcell.NewEventMouse(boardLeft, boardTop, tcell.ButtonSecondary, tcell.ModCtrl|tcell.ModShift))
	if len(evs) == 0 {
		t.Fatal("no events")
	}
	ev := evs[0]
	if ev.Button != pointer.Secondary {
		t.Fatalf("button = %v", ev.Button)
	}
	if !ev.Mods.Ctrl || !ev.Mods.Shift || ev.Mods.Alt {
		t.Fatalf("mods = %+v", ev.Mods)
	}
}
