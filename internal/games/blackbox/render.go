package blackbox

import (
	"fmt"
	"strconv"

	"github.com/vovakirdan/tui-blackbox/internal/core"
	"github.com/vovakirdan/tui-blackbox/internal/games/blackbox/engine"
)

const (
	maxRowLen  = 9 // cells in the middle row
	cellDX     = 6 // columns between neighbors in a row
	cellDY     = 2 // screen rows between board rows
	labelRoom  = 3 // columns outside the widest row used by labels
	hudHeight  = 2
	panelW     = 22
	panelGap   = 2
	statusRows = 2

	boardW    = (maxRowLen-1)*cellDX + 1 + 2*labelRoom
	boardH    = (engine.Rows-1)*cellDY + 1 + 2
	minWidth  = boardW
	minHeight = hudHeight + boardH + statusRows
)

// glyph is one character drawn relative to a cell center.
type glyph struct {
	dx, dy int
	r      rune
}

// halfEdges are the glyphs linking a cell center to the middle of side d.
var halfEdges = [6][]glyph{
	engine.UpperLeft:  {{-1, -1, '\\'}},
	engine.UpperRight: {{1, -1, '/'}},
	engine.Right:      {{1, 0, '-'}, {2, 0, '-'}, {3, 0, '-'}},
	engine.LowerRight: {{1, 1, '\\'}},
	engine.LowerLeft:  {{-1, 1, '/'}},
	engine.Left:       {{-1, 0, '-'}, {-2, 0, '-'}, {-3, 0, '-'}},
}

// pairPalette colors markers whose ray left at another label.
var pairPalette = []core.Color{
	core.ColorGreen,
	core.ColorBlue,
	core.ColorMagenta,
	core.ColorCyan,
	core.ColorOrange,
	core.ColorBrightGreen,
	core.ColorBrightBlue,
	core.ColorBrightMagenta,
	core.ColorBrightCyan,
	core.ColorYellow,
}

// Render draws the game to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	w, h := dst.Width(), dst.Height()
	g.renderHUD(dst)

	if w < minWidth || h < minHeight {
		g.renderOverlay(dst, "Window too small", fmt.Sprintf("Need %dx%d", minWidth, minHeight))
		return
	}

	total := boardW
	showPanel := w >= boardW+panelGap+panelW
	if showPanel {
		total += panelGap + panelW
	}
	left := (w - total) / 2
	bx := left + labelRoom
	by := hudHeight + 1

	if g.atomsVisible() && g.cfg.Display.ShowPaths {
		g.renderPaths(dst, bx, by)
	}
	g.renderCells(dst, bx, by)
	g.renderPorts(dst, bx, by)
	if showPanel {
		g.renderPanel(dst, left+boardW+panelGap, hudHeight, h-statusRows)
	}
	g.renderStatus(dst)

	if g.paused {
		g.renderOverlay(dst, "Paused", "Press P to continue")
	}
}

// cellPos returns the screen position of a cell center.
func cellPos(bx, by int, id engine.CellID) (int, int) {
	row, col := engine.Position(id)
	x := bx + (maxRowLen-engine.RowLen(row))*cellDX/2 + col*cellDX
	return x, by + row*cellDY
}

// renderHUD draws the top status bar.
func (g *Game) renderHUD(dst *core.Screen) {
	hud := fmt.Sprintf(" %s | Round %d | Atoms %d | Rays %d | Penalty %d",
		g.Title(), g.round+1, g.atoms, len(g.board.Markers()), g.Score())
	dst.DrawText(0, 0, hud)

	phase := "PROBE"
	switch g.phase {
	case PhaseGuess:
		phase = fmt.Sprintf("GUESS %d/%d", len(g.guesses), g.atoms)
	case PhaseReveal:
		phase = "REVEAL"
	}
	if x := dst.Width() - len(phase) - 1; x > len(hud) {
		dst.DrawTextColor(x, 0, phase, core.ColorBrightYellow)
	}

	dst.DrawHLine(0, 1, dst.Width(), '─')
}

// renderPaths draws every recorded ray segment from the cells' logs.
func (g *Game) renderPaths(dst *core.Screen, bx, by int) {
	for id := range engine.CellID(engine.CellCount) {
		x, y := cellPos(bx, by, id)
		for _, s := range g.board.Cell(id).RayTraversals() {
			for _, d := range []engine.Direction{s.Entry, s.Exit} {
				if !d.Valid() {
					continue
				}
				for _, gl := range halfEdges[d] {
					dst.SetColor(x+gl.dx, y+gl.dy, gl.r, core.ColorCyan)
				}
			}
		}
	}
}

// renderCells draws the cell centers and the guess cursor.
func (g *Game) renderCells(dst *core.Screen, bx, by int) {
	visible := g.atomsVisible()
	for id := range engine.CellID(engine.CellCount) {
		x, y := cellPos(bx, by, id)
		r, c := g.cellGlyph(id, visible)
		dst.SetColor(x, y, r, c)
	}

	if g.phase == PhaseGuess {
		if id, ok := engine.ID(g.cursorRow, g.cursorCol); ok {
			x, y := cellPos(bx, by, id)
			dst.SetColor(x-1, y, '[', core.ColorBrightYellow)
			dst.SetColor(x+1, y, ']', core.ColorBrightYellow)
		}
	}
}

func (g *Game) cellGlyph(id engine.CellID, visible bool) (rune, core.Color) {
	atom := visible && g.board.Cell(id).HasAtom()
	guess := g.guesses[id]

	switch {
	case atom && guess:
		return '@', core.ColorBrightGreen
	case guess && g.phase == PhaseReveal:
		return 'x', core.ColorRed
	case atom:
		return 'O', core.ColorYellow
	case guess:
		return '*', core.ColorBrightCyan
	default:
		return '.', core.ColorGray
	}
}

// renderPorts draws the perimeter labels, colored by their markers.
func (g *Game) renderPorts(dst *core.Screen, bx, by int) {
	colors := g.labelColors()
	for i, p := range engine.Ports() {
		label := i + 1
		text := "o"
		if g.cfg.Display.ShowLabels {
			text = strconv.Itoa(label)
		}

		color, ok := colors[label]
		if !ok {
			color = core.ColorGray
		}
		if g.phase == PhaseProbe && label == g.port {
			color = core.ColorBrightYellow
			if !g.cfg.Display.ShowLabels {
				text = "#"
			}
		}

		x, y := cellPos(bx, by, p.Cell)
		tx, ty := portAnchor(x, y, p.Side, len(text))
		dst.DrawTextColor(tx, ty, text, color)
	}
}

// portAnchor returns where a label of n characters starts for the port on
// side of the cell centered at (x, y).
func portAnchor(x, y int, side engine.Direction, n int) (int, int) {
	switch side {
	case engine.UpperLeft:
		return x - n, y - 1
	case engine.UpperRight:
		return x + 1, y - 1
	case engine.Right:
		return x + 2, y
	case engine.LowerRight:
		return x + 1, y + 1
	case engine.LowerLeft:
		return x - n, y + 1
	default:
		return x - 1 - n, y
	}
}

// labelColors maps every label used by a marker to the marker's color.
// Absorbed rays are red, reflections white and each entry/exit pair gets
// its own color.
func (g *Game) labelColors() map[int]core.Color {
	colors := make(map[int]core.Color)
	pair := 0
	for _, m := range g.board.Markers() {
		c := markerColor(m, &pair)
		colors[m.Input] = c
		if !m.Absorbed() {
			colors[m.Output] = c
		}
	}
	return colors
}

func markerColor(m engine.Marker, pair *int) core.Color {
	switch {
	case m.Absorbed():
		return core.ColorRed
	case m.Reflected():
		return core.ColorBrightWhite
	default:
		c := pairPalette[*pair%len(pairPalette)]
		*pair++
		return c
	}
}

// renderPanel lists the markers in two columns between rows top and bottom.
func (g *Game) renderPanel(dst *core.Screen, x, top, bottom int) {
	dst.DrawText(x, top, "Rays")
	dst.DrawHLine(x, top+1, panelW, '─')

	perCol := bottom - top - 2
	if perCol <= 0 {
		return
	}
	colW := panelW / 2

	markers := g.board.Markers()
	pair := 0
	for i, m := range markers {
		col, row := i/perCol, i%perCol
		if col > 1 {
			more := fmt.Sprintf("+%d more", len(markers)-i)
			dst.DrawText(x+colW, bottom-1, fmt.Sprintf("%-*s", colW, more))
			break
		}

		var text string
		switch {
		case m.Absorbed():
			text = fmt.Sprintf("%2d  H", m.Input)
		case m.Reflected():
			text = fmt.Sprintf("%2d  R", m.Input)
		default:
			text = fmt.Sprintf("%2d > %d", m.Input, m.Output)
		}
		dst.DrawTextColor(x+col*colW, top+2+row, text, markerColor(m, &pair))
	}
}

// renderStatus draws the message line and the key help.
func (g *Game) renderStatus(dst *core.Screen) {
	h := dst.Height()
	dst.DrawText(1, h-2, g.message)

	var help string
	switch g.phase {
	case PhaseProbe:
		help = "←/→ port  ↑/↓ side  Space fire  Tab guess  P pause  Q quit"
	case PhaseGuess:
		help = "arrows move  Space mark  Enter end round  Tab probe  Q quit"
	case PhaseReveal:
		help = "R new round  B menu  Q quit"
	}
	dst.DrawTextColor(1, h-1, help, core.ColorGray)
}

// renderOverlay draws a centered message box.
func (g *Game) renderOverlay(dst *core.Screen, line1, line2 string) {
	boxW := max(len(line1), len(line2)) + 4
	boxH := 5
	box := core.NewRect(0, 0, dst.Width(), dst.Height()).Centered(boxW, boxH)

	dst.DrawRect(box, ' ')
	dst.DrawBox(box)
	dst.DrawTextCentered(box.Y+1, line1)
	dst.DrawTextCentered(box.Y+3, line2)
}
