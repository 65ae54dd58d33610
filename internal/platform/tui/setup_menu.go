package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-blackbox/internal/config"
	"github.com/vovakirdan/tui-blackbox/internal/core"
	"github.com/vovakirdan/tui-blackbox/internal/games/blackbox/layouts"
)

// RoundSetup holds the user's choices for a Black Box session.
type RoundSetup struct {
	Preset     config.DifficultyPreset
	LayoutPath string // Empty for random atoms
}

type setupOption struct {
	label  string
	preset config.DifficultyPreset
}

var setupOptions = []setupOption{
	{"Easy (4 atoms)", config.DifficultyEasy},
	{"Normal (6 atoms)", config.DifficultyNormal},
	{"Hard (8 atoms and more)", config.DifficultyHard},
	{"Fixed (configured atoms)", config.DifficultyFixed},
}

// RoundSetupModel lets users choose a difficulty preset or a puzzle layout.
type RoundSetupModel struct {
	cursor         int
	layoutCursor   int
	inLayoutSelect bool
	puzzles        []layouts.Layout
	loadErr        error
	width          int
	height         int
	keyMapper      *KeyMapper
	selection      RoundSetup
	choosing       bool
	quitting       bool
	back           bool
}

// NewRoundSetupModel creates a setup model. Puzzles are read from
// layoutsDir; load errors are shown under the preset list.
func NewRoundSetupModel(layoutsDir string, width, height int) RoundSetupModel {
	m := RoundSetupModel{
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
		choosing:  true,
	}
	if layoutsDir != "" {
		m.puzzles, m.loadErr = layouts.NewLoader(layoutsDir).LoadAll()
	}
	return m
}

// Init initializes the model.
func (m RoundSetupModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m RoundSetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		action := m.keyMapper.MapKeyToMenuAction(msg)
		if m.inLayoutSelect {
			return m.handleLayoutKey(action)
		}
		return m.handlePresetKey(action)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

// optionCount includes the trailing "Select Puzzle..." entry.
func (m RoundSetupModel) optionCount() int {
	return len(setupOptions) + 1
}

func (m RoundSetupModel) handlePresetKey(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < m.optionCount()-1 {
			m.cursor++
		}
	case MenuActionSelect:
		if m.cursor < len(setupOptions) {
			m.choosing = false
			m.selection = RoundSetup{Preset: setupOptions[m.cursor].preset}
			return m, tea.Quit
		}
		if len(m.puzzles) > 0 {
			m.inLayoutSelect = true
			m.layoutCursor = 0
		}
	case MenuActionBack:
		m.back = true
		return m, tea.Quit
	}

	return m, nil
}

func (m RoundSetupModel) handleLayoutKey(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.layoutCursor > 0 {
			m.layoutCursor--
		}
	case MenuActionDown:
		if m.layoutCursor < len(m.puzzles)-1 {
			m.layoutCursor++
		}
	case MenuActionSelect:
		m.choosing = false
		m.selection = RoundSetup{
			Preset:     config.DifficultyFixed,
			LayoutPath: m.puzzles[m.layoutCursor].FilePath,
		}
		return m, tea.Quit
	case MenuActionBack:
		m.inLayoutSelect = false
	}

	return m, nil
}

// View renders the preset or puzzle list.
func (m RoundSetupModel) View() string {
	if m.quitting {
		return ""
	}

	if m.inLayoutSelect {
		return m.viewLayoutSelect()
	}
	return m.viewPresetSelect()
}

func (m RoundSetupModel) viewPresetSelect() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("B L A C K   B O X", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select difficulty:", m.width))
	b.WriteString("\n\n")

	for i := range m.optionCount() {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		label := "Select Puzzle..."
		if i < len(setupOptions) {
			label = setupOptions[i].label
		} else if len(m.puzzles) == 0 {
			label = "Select Puzzle... (none found)"
		}
		b.WriteString(centerText(cursor+label, m.width))
		b.WriteString("\n")
	}

	if m.loadErr != nil {
		b.WriteString("\n")
		b.WriteString(centerText("Puzzles unavailable: "+m.loadErr.Error(), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Enter: Select  |  Esc: Back  |  Q: Quit", m.width))

	return b.String()
}

func (m RoundSetupModel) viewLayoutSelect() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("SELECT PUZZLE", m.width))
	b.WriteString("\n\n")

	for i, l := range m.puzzles {
		cursor := "  "
		if i == m.layoutCursor {
			cursor = "> "
		}

		line := fmt.Sprintf("%s%2d. %-20s %d atoms", cursor, i+1, l.Name, len(l.Atoms))
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Enter: Select  |  Esc: Back  |  Q: Quit", m.width))

	return b.String()
}

// Selected returns the selection, or nil if still choosing.
func (m RoundSetupModel) Selected() *RoundSetup {
	if m.choosing {
		return nil
	}
	return &m.selection
}

// IsQuitting returns true if user wants to quit.
func (m RoundSetupModel) IsQuitting() bool {
	return m.quitting
}

// WantsBack returns true if user pressed back.
func (m RoundSetupModel) WantsBack() bool {
	return m.back
}

// RunRoundSetup runs the setup screen. A nil selection means the user went
// back; quit reports a request to leave the program.
func RunRoundSetup(layoutsDir string, cfg core.RuntimeConfig) (setup *RoundSetup, quit bool, err error) {
	model := NewRoundSetupModel(layoutsDir, cfg.ScreenW, cfg.ScreenH)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return nil, false, err
	}

	m, ok := finalModel.(RoundSetupModel)
	if !ok || m.IsQuitting() {
		return nil, true, nil
	}
	if m.WantsBack() {
		return nil, false, nil
	}

	return m.Selected(), false, nil
}
