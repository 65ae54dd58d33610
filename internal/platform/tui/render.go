package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-blackbox/internal/core"
)

// ansiColors holds the terminal color of each core.Color, by index.
var ansiColors = [...]string{
	core.ColorDefault:       "",
	core.ColorRed:           "1",
	core.ColorGreen:         "2",
	core.ColorYellow:        "3",
	core.ColorBlue:          "4",
	core.ColorMagenta:       "5",
	core.ColorCyan:          "6",
	core.ColorWhite:         "7",
	core.ColorBrightRed:     "9",
	core.ColorBrightGreen:   "10",
	core.ColorBrightYellow:  "11",
	core.ColorBrightBlue:    "12",
	core.ColorBrightMagenta: "13",
	core.ColorBrightCyan:    "14",
	core.ColorBrightWhite:   "15",
	core.ColorOrange:        "208",
	core.ColorGray:          "245",
}

// Palette maps screen colors to lipgloss styles for one output.
type Palette struct {
	styles [len(ansiColors)]lipgloss.Style
}

// NewPalette builds the styles with the given renderer, so that colors
// degrade to what the output supports. SSH sessions pass a renderer made
// for their own terminal.
func NewPalette(r *lipgloss.Renderer) *Palette {
	p := &Palette{}
	for c, code := range ansiColors {
		style := r.NewStyle()
		if code != "" {
			style = style.Foreground(lipgloss.Color(code))
		}
		p.styles[c] = style
	}
	return p
}

var defaultPalette = NewPalette(lipgloss.DefaultRenderer())

func (p *Palette) style(c core.Color) lipgloss.Style {
	if int(c) >= len(p.styles) {
		return p.styles[core.ColorDefault]
	}
	return p.styles[c]
}

// Render converts a Screen buffer to a styled string for display.
// Adjacent cells of the same color share one styled run.
func (p *Palette) Render(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	var run strings.Builder
	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			color := s.GetCell(x, y).Color

			run.Reset()
			for ; x < s.Width(); x++ {
				cell := s.GetCell(x, y)
				if cell.Color != color {
					break
				}
				run.WriteRune(cell.Rune)
			}

			if color == core.ColorDefault {
				sb.WriteString(run.String())
				continue
			}
			sb.WriteString(p.style(color).Render(run.String()))
		}
	}
	return sb.String()
}

// RenderScreen renders s with the default palette of the local terminal.
func RenderScreen(s *core.Screen) string {
	return defaultPalette.Render(s)
}
