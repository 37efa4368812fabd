// Package termui renders the board in a terminal with tcell and feeds
// mouse input through the pointer pipeline. Left button selects and
// drags pieces, right button draws annotations, with ctrl/shift/alt
// picking the annotation color.
package termui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/park285/boardcore/internal/annotate"
	"github.com/park285/boardcore/internal/board"
	"github.com/park285/boardcore/internal/geom"
	"github.com/park285/boardcore/internal/obslog"
	"github.com/park285/boardcore/internal/pointer"
)

const (
	boardLeft = 4
	boardTop  = 2
	cellW     = 4
	cellH     = 2
	panelLeft = boardLeft + 8*cellW + 4
)

// UI drives one screen and one engine.
type UI struct {
	screen tcell.Screen
	eng    *board.Engine

	prevButtons tcell.ButtonMask
	lastMouse   geom.Point
}

func New(screen tcell.Screen, eng *board.Engine) *UI {
	eng.SetRect(geom.BoardRect{X: 0, Y: 0, Size: 8})
	return &UI{screen: screen, eng: eng}
}

// Run owns the event loop until quit. The screen must already be
// initialized; Run finalizes it on the way out.
func (u *UI) Run() error {
	defer u.screen.Fini()
	u.screen.EnableMouse()

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := u.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	u.eng.Refresh()
	u.render()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if quit := u.handle(ev); quit {
				return nil
			}
			u.render()
		case res := <-u.eng.Results():
			u.eng.Apply(res)
			u.render()
		}
	}
}

func (u *UI) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		u.screen.Sync()
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape, ev.Rune() == 'q':
			return true
		case ev.Rune() == 'f':
			u.eng.ToggleFlip()
		case ev.Rune() == 'r':
			u.eng.Reset()
		}
	case *tcell.EventMouse:
		for _, pev := range u.translateMouse(ev) {
			u.eng.Dispatch(pev)
		}
	}
	return false
}

// translateMouse turns tcell's button-state snapshots into the
// down/move/up stream the pointer router expects.
func (u *UI) translateMouse(ev *tcell.EventMouse) []pointer.Event {
	x, y := ev.Position()
	at := cellToPoint(x, y)
	mods := modifiersOf(ev.Modifiers())
	now := ev.Buttons()
	prev := u.prevButtons
	u.prevButtons = now

	var out []pointer.Event
	for _, b := range []struct {
		mask tcell.ButtonMask
		btn  pointer.Button
	}{
		{tcell.ButtonPrimary, pointer.Primary},
		{tcell.ButtonSecondary, pointer.Secondary},
	} {
		pressed := now&b.mask != 0
		was := prev&b.mask != 0
		switch {
		case pressed && !was:
			out = append(out, pointer.FromMouse(pointer.Down, at, b.btn, mods))
		case !pressed && was:
			out = append(out, pointer.FromMouse(pointer.Up, at, b.btn, mods))
		}
	}
	if at != u.lastMouse {
		u.lastMouse = at
		out = append(out, pointer.FromMouse(pointer.Move, at, pointer.Primary, mods))
	}
	return out
}

// cellToPoint maps a terminal cell to the engine's logical board space,
// where one square is 1x1 and the board spans 8x8 from the origin.
func cellToPoint(x, y int) geom.Point {
	return geom.Point{
		X: float64(x-boardLeft) / cellW,
		Y: float64(y-boardTop) / cellH,
	}
}

func modifiersOf(m tcell.ModMask) pointer.Modifiers {
	return pointer.Modifiers{
		Ctrl:  m&tcell.ModCtrl != 0,
		Shift: m&tcell.ModShift != 0,
		Alt:   m&tcell.ModAlt != 0,
	}
}

func (u *UI) render() {
	u.screen.Clear()
	flipped := u.eng.Flipped()

	sel, hasSel := u.eng.Selection()
	targets := map[geom.Square]bool{}
	for _, t := range u.eng.LegalTargets() {
		targets[t] = true
	}
	last, hasLast := u.eng.LastMove()
	circles := map[geom.Square]tcell.Color{}
	for _, c := range u.eng.Circles() {
		circles[c.Square] = annotColor(c.Color)
	}
	if _, pc := u.eng.Preview(); pc != nil {
		circles[pc.Square] = annotColor(pc.Color)
	}

	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			sq := squareAtCell(col, row, flipped)
			bg := squareBg(sq)
			switch {
			case hasSel && sq == sel:
				bg = tcell.ColorDarkGoldenrod
			case hasLast && (sq == last.From || sq == last.To):
				bg = tcell.ColorDarkOliveGreen
			}
			u.drawSquare(col, row, sq, bg, targets[sq], circles)
		}
	}
	u.drawCoords(flipped)
	u.drawPanel()
	u.screen.Show()
}

func (u *UI) drawSquare(col, row int, sq geom.Square, bg tcell.Color, target bool, circles map[geom.Square]tcell.Color) {
	style := tcell.StyleDefault.Background(bg)
	x0 := boardLeft + col*cellW
	y0 := boardTop + row*cellH
	for dy := 0; dy < cellH; dy++ {
		for dx := 0; dx < cellW; dx++ {
			u.screen.SetContent(x0+dx, y0+dy, ' ', nil, style)
		}
	}

	if c, ok := circles[sq]; ok {
		ring := tcell.StyleDefault.Background(bg).Foreground(c)
		u.screen.SetContent(x0, y0, '(', nil, ring)
		u.screen.SetContent(x0+cellW-1, y0, ')', nil, ring)
	}
	if target {
		u.screen.SetContent(x0+cellW/2, y0+cellH-1, '·', nil, style.Foreground(tcell.ColorGray))
	}
	if p, ok := u.eng.PieceAt(sq); ok {
		u.screen.SetContent(x0+cellW/2-1, y0, pieceRune(p), nil, style.Foreground(pieceColor(p)).Bold(true))
	}
}

func (u *UI) drawCoords(flipped bool) {
	style := tcell.StyleDefault.Foreground(tcell.ColorGray)
	for i := 0; i < 8; i++ {
		file := i
		rank := 7 - i
		if flipped {
			file = 7 - i
			rank = i
		}
		u.drawText(boardLeft+i*cellW+cellW/2-1, boardTop+8*cellH, style, string(rune('a'+file)))
		u.drawText(boardLeft-2, boardTop+i*cellH, style, string(rune('1'+rank)))
	}
}

func (u *UI) drawPanel() {
	style := tcell.StyleDefault
	y := boardTop

	turn := "white to move"
	if !u.eng.WhiteToMove() {
		turn = "black to move"
	}
	if u.eng.GameOver() {
		turn = "game over"
	} else if u.eng.InCheck() {
		turn += " (check)"
	}
	u.drawText(panelLeft, y, style.Bold(true), turn)
	y++

	if !u.eng.Verified() {
		u.drawText(panelLeft, y, style.Foreground(tcell.ColorOrange), "offline: moves computed locally")
		y++
	}
	y++

	arrows := append([]annotate.Arrow(nil), u.eng.Arrows()...)
	if pa, _ := u.eng.Preview(); pa != nil {
		arrows = append(arrows, *pa)
	}
	if len(arrows) > 0 {
		u.drawText(panelLeft, y, style.Foreground(tcell.ColorGray), "arrows")
		y++
		for _, a := range arrows {
			line := fmt.Sprintf("%s-%s", a.From, a.To)
			u.drawText(panelLeft, y, style.Foreground(annotColor(a.Color)), line)
			y++
		}
		y++
	}

	u.drawText(panelLeft, y, style.Foreground(tcell.ColorGray), "q quit  f flip  r reset")
	obslog.L().Debug("frame_rendered", zap.Int("arrows", len(arrows)))
}

func (u *UI) drawText(x, y int, style tcell.Style, text string) {
	for _, r := range text {
		u.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// squareAtCell inverts the render mapping: which square occupies grid
// cell (col,row) for the given orientation.
func squareAtCell(col, row int, flipped bool) geom.Square {
	if flipped {
		return geom.Square{File: 7 - col, Rank: row}
	}
	return geom.Square{File: col, Rank: 7 - row}
}

func squareBg(sq geom.Square) tcell.Color {
	if (sq.File+sq.Rank)%2 == 0 {
		return tcell.ColorDarkSlateGray
	}
	return tcell.ColorLightSlateGray
}
