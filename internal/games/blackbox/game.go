// Package blackbox implements the Black Box deduction game on top of the
// ray engine: rounds, probing, guessing and scoring.
package blackbox

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"

	"github.com/vovakirdan/tui-blackbox/internal/config"
	"github.com/vovakirdan/tui-blackbox/internal/core"
	"github.com/vovakirdan/tui-blackbox/internal/games/blackbox/engine"
	"github.com/vovakirdan/tui-blackbox/internal/games/blackbox/layouts"
	"github.com/vovakirdan/tui-blackbox/internal/registry"
)

// Mode represents the game mode.
type Mode string

const (
	ModeClassic  Mode = "classic"
	ModePractice Mode = "practice" // atoms and ray paths stay visible
)

// Phase is the stage of a round.
type Phase int

const (
	PhaseProbe  Phase = iota // firing rays
	PhaseGuess               // marking suspected atoms
	PhaseReveal              // guesses submitted, round scored
)

func (p Phase) String() string {
	switch p {
	case PhaseProbe:
		return "probe"
	case PhaseGuess:
		return "guess"
	case PhaseReveal:
		return "reveal"
	default:
		return "unknown"
	}
}

var (
	// ErrAlreadyTested is returned when a label was already the input or
	// the output of an earlier ray.
	ErrAlreadyTested = errors.New("blackbox: point already tested")
	// ErrGuessLimit is returned when every atom already has a guess.
	ErrGuessLimit = errors.New("blackbox: no guesses left")
	// ErrGuessCount is returned by Submit when the number of guesses
	// differs from the number of atoms.
	ErrGuessCount = errors.New("blackbox: guess count does not match atom count")
	// ErrRoundOver is returned for moves made after the reveal.
	ErrRoundOver = errors.New("blackbox: round is over")
)

// sideLabels is the number of perimeter labels along one side of the board.
const sideLabels = engine.PerimeterSize / 6

// Game implements the Black Box game.
type Game struct {
	mode Mode
	rng  *rand.Rand
	tick uint64

	cfg        config.BlackBoxConfig
	difficulty *config.DifficultyManager
	layout     *layouts.Layout

	board   *engine.Board
	atoms   int
	round   int // rounds finished this session
	phase   Phase
	port    int // selected perimeter label
	matches int

	cursorRow int
	cursorCol int
	guesses   map[engine.CellID]bool

	lastShot *engine.Result
	message  string
	paused   bool

	opts *options // per-game settings, override the package-level ones
}

type options struct {
	preset     config.DifficultyPreset
	layoutPath string
}

// Package-level settings applied on Reset, set from CLI flags.
var (
	configPath       string
	difficultyPreset string
	layoutPath       string
)

// SetConfigPath sets the config file path.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset (easy, normal, hard, fixed).
func SetDifficultyPreset(preset string) {
	difficultyPreset = preset
}

// SetLayout sets a puzzle layout file. Rounds then use its atoms instead of
// a random placement.
func SetLayout(path string) {
	layoutPath = path
}

// Configure sets the difficulty preset and puzzle layout for this game only.
// SSH sessions use it so that concurrent players do not share settings.
// It takes effect on the next Reset.
func (g *Game) Configure(preset config.DifficultyPreset, layoutPath string) {
	g.opts = &options{preset: preset, layoutPath: layoutPath}
}

// New creates a classic Black Box game.
func New() *Game {
	return &Game{mode: ModeClassic}
}

// NewPractice creates a game with the atoms in plain view.
func NewPractice() *Game {
	return &Game{mode: ModePractice}
}

func init() {
	registry.Register("blackbox", func() registry.Game {
		return New()
	})
	registry.Register("blackbox_practice", func() registry.Game {
		return NewPractice()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string {
	if g.mode == ModePractice {
		return "blackbox_practice"
	}
	return "blackbox"
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModePractice {
		return "Black Box (Practice)"
	}
	return "Black Box"
}

// Reset starts a new session: config is reloaded and the round counter
// goes back to zero.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.rng = rand.New(rand.NewSource(cfg.Seed))
	g.tick = 0
	g.round = 0
	g.paused = false
	g.message = ""

	g.loadConfig()
	g.startRound()
}

// loadConfig loads the YAML config and the optional layout. Errors fall
// back to defaults and are shown on the status line.
func (g *Game) loadConfig() {
	cfg, err := config.LoadBlackBox(configPath)
	if err != nil {
		cfg = config.DefaultBlackBoxConfig()
		g.message = err.Error()
	}
	preset, presetErr := config.ParsePreset(difficultyPreset)
	path := layoutPath
	if g.opts != nil {
		preset, presetErr = g.opts.preset, nil
		path = g.opts.layoutPath
	}
	if presetErr == nil {
		config.ApplyBlackBoxPreset(&cfg, preset)
	}
	g.cfg = cfg
	g.difficulty = config.NewDifficultyManager(cfg.Difficulty)

	g.layout = nil
	if path == "" {
		path = cfg.Board.Layout
	}
	if path != "" {
		l, err := layouts.LoadFile(path)
		if err != nil {
			g.message = err.Error()
			return
		}
		g.layout = &l
	}
}

// startRound sets up a fresh board for the current round.
func (g *Game) startRound() {
	g.board = engine.NewBoard()
	g.phase = PhaseProbe
	g.port = 1
	g.matches = 0
	g.cursorRow = engine.Rows / 2
	g.cursorCol = engine.RowLen(g.cursorRow) / 2
	g.guesses = make(map[engine.CellID]bool)
	g.lastShot = nil

	if g.layout != nil {
		if err := g.layout.Apply(g.board); err == nil {
			g.atoms = g.board.AtomCount()
			return
		}
		g.board = engine.NewBoard()
	}

	g.atoms = g.difficulty.Atoms(g.cfg.Board.Atoms, g.round)
	g.board.PlaceAtoms(g.atoms, g.rng)
}

// NextRound starts the next round of the session. With difficulty
// progression enabled the atom count may grow.
func (g *Game) NextRound() {
	g.round++
	g.message = ""
	g.startRound()
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++

	if in.Has(core.ActionPause) && g.phase != PhaseReveal {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	switch g.phase {
	case PhaseProbe:
		g.stepProbe(in)
	case PhaseGuess:
		g.stepGuess(in)
	case PhaseReveal:
		if in.Has(core.ActionRestart) || in.Has(core.ActionConfirm) {
			g.NextRound()
		}
	}

	return core.StepResult{State: g.State()}
}

// stepProbe moves the port cursor and fires rays.
func (g *Game) stepProbe(in core.InputFrame) {
	if in.Has(core.ActionMode) {
		g.phase = PhaseGuess
		return
	}

	switch {
	case in.Has(core.ActionLeft):
		g.SelectPort(g.port - 1)
	case in.Has(core.ActionRight):
		g.SelectPort(g.port + 1)
	case in.Has(core.ActionUp):
		g.SelectPort(g.port - sideLabels)
	case in.Has(core.ActionDown):
		g.SelectPort(g.port + sideLabels)
	}

	if in.Has(core.ActionFire) || in.Has(core.ActionConfirm) {
		if _, err := g.Fire(g.port); errors.Is(err, ErrAlreadyTested) {
			g.message = fmt.Sprintf("Port %d already tested", g.port)
		}
	}
}

// stepGuess moves the cell cursor, toggles guesses and submits them.
func (g *Game) stepGuess(in core.InputFrame) {
	if in.Has(core.ActionMode) {
		g.phase = PhaseProbe
		return
	}

	switch {
	case in.Has(core.ActionUp):
		g.MoveCursor(-1, 0)
	case in.Has(core.ActionDown):
		g.MoveCursor(1, 0)
	case in.Has(core.ActionLeft):
		g.MoveCursor(0, -1)
	case in.Has(core.ActionRight):
		g.MoveCursor(0, 1)
	}

	if in.Has(core.ActionFire) {
		if err := g.ToggleGuess(g.cursorRow, g.cursorCol); errors.Is(err, ErrGuessLimit) {
			g.message = fmt.Sprintf("Only %d atoms to find", g.atoms)
		}
	}
	if in.Has(core.ActionConfirm) {
		if err := g.Submit(); errors.Is(err, ErrGuessCount) {
			g.message = fmt.Sprintf("Mark %d atoms to end the round (%d marked)", g.atoms, len(g.guesses))
		}
	}
}

// SelectPort moves the port cursor, wrapping around the rim.
func (g *Game) SelectPort(label int) {
	g.port = core.Wrap(label, 1, engine.PerimeterSize)
}

// MoveCursor moves the guess cursor by whole rows and columns. The column
// is clamped to the length of the new row.
func (g *Game) MoveCursor(dRow, dCol int) {
	g.cursorRow = core.Clamp(g.cursorRow+dRow, 0, engine.Rows-1)
	g.cursorCol = core.Clamp(g.cursorCol+dCol, 0, engine.RowLen(g.cursorRow)-1)
}

// Fire shoots a ray in at label, records its path and marker on the board
// and returns the traced result.
func (g *Game) Fire(label int) (engine.Result, error) {
	if g.phase == PhaseReveal {
		return engine.Result{}, ErrRoundOver
	}
	if g.board.Tested(label) {
		return engine.Result{}, fmt.Errorf("%w: %d", ErrAlreadyTested, label)
	}

	res, err := engine.Trace(g.board, label)
	if err != nil {
		return engine.Result{}, err
	}
	g.board.Record(res)

	g.lastShot = &res
	g.message = describeShot(res)
	return res, nil
}

func describeShot(res engine.Result) string {
	switch res.Outcome {
	case engine.OutcomeAbsorbed:
		return fmt.Sprintf("Ray %d absorbed", res.Input)
	case engine.OutcomeReflected:
		return fmt.Sprintf("Ray %d reflected", res.Input)
	default:
		return fmt.Sprintf("Ray %d exits at %d", res.Input, res.Output)
	}
}

// ToggleGuess marks or unmarks the cell at (row, col) as holding an atom.
func (g *Game) ToggleGuess(row, col int) error {
	if g.phase == PhaseReveal {
		return ErrRoundOver
	}
	id, ok := engine.ID(row, col)
	if !ok {
		return fmt.Errorf("%w: (%d, %d)", engine.ErrNoSuchCell, row, col)
	}

	if g.guesses[id] {
		delete(g.guesses, id)
		return nil
	}
	if len(g.guesses) >= g.atoms {
		return ErrGuessLimit
	}
	g.guesses[id] = true
	return nil
}

// Submit ends the round. It needs exactly one guess per atom.
func (g *Game) Submit() error {
	if g.phase == PhaseReveal {
		return ErrRoundOver
	}
	if len(g.guesses) != g.atoms {
		return fmt.Errorf("%w: %d of %d", ErrGuessCount, len(g.guesses), g.atoms)
	}

	g.matches = 0
	for id := range g.guesses {
		if g.board.Cell(id).HasAtom() {
			g.matches++
		}
	}
	g.phase = PhaseReveal
	g.message = fmt.Sprintf("Found %d of %d atoms, penalty %d", g.matches, g.atoms, g.Score())
	return nil
}

// Score returns the penalty points of the round: one RayPenalty per marker,
// plus one MissPenalty per atom not found once the guesses are in.
// Lower is better.
func (g *Game) Score() int {
	s := len(g.board.Markers()) * g.cfg.Scoring.RayPenalty
	if g.phase == PhaseReveal {
		s += (g.atoms - g.matches) * g.cfg.Scoring.MissPenalty
	}
	return s
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.Score(),
		GameOver: g.phase == PhaseReveal,
		Paused:   g.paused,
		Rays:     len(g.board.Markers()),
		Matches:  g.matches,
	}
}

// Phase returns the stage of the current round.
func (g *Game) Phase() Phase {
	return g.phase
}

// Board returns the board of the current round.
func (g *Game) Board() *engine.Board {
	return g.board
}

// Atoms returns the number of atoms hidden this round.
func (g *Game) Atoms() int {
	return g.atoms
}

// Round returns the number of rounds finished this session.
func (g *Game) Round() int {
	return g.round
}

// Port returns the selected perimeter label.
func (g *Game) Port() int {
	return g.port
}

// Guesses returns the guessed cells in arena order.
func (g *Game) Guesses() []engine.CellID {
	ids := make([]engine.CellID, 0, len(g.guesses))
	for id := range g.guesses {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Matches returns the number of correct guesses. It is zero before the reveal.
func (g *Game) Matches() int {
	return g.matches
}

// Message returns the status line text.
func (g *Game) Message() string {
	return g.message
}

// atomsVisible reports whether the board may show its atoms.
func (g *Game) atomsVisible() bool {
	return g.mode == ModePractice || g.phase == PhaseReveal
}
