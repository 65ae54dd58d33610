package blackbox

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-blackbox/internal/config"
	"github.com/vovakirdan/tui-blackbox/internal/core"
	"github.com/vovakirdan/tui-blackbox/internal/games/blackbox/engine"
	"github.com/vovakirdan/tui-blackbox/internal/registry"
)

// classicLayout holds atoms at (2,0) and (4,4).
var classicLayout = filepath.Join("layouts", "testdata", "classic.yaml")

// newTestGame writes cfgYAML to a temp config file and starts a game with
// it. The package-level settings are restored when the test ends.
func newTestGame(t *testing.T, mode Mode, cfgYAML, layout string) *Game {
	t.Helper()

	path := filepath.Join(t.TempDir(), "blackbox.yaml")
	if err := os.WriteFile(path, []byte(cfgYAML), 0o600); err != nil {
		t.Fatal(err)
	}
	SetConfigPath(path)
	SetLayout(layout)
	t.Cleanup(func() {
		SetConfigPath("")
		SetLayout("")
		SetDifficultyPreset("")
	})

	g := &Game{mode: mode}
	g.Reset(core.RuntimeConfig{Seed: 42, ScreenW: 80, ScreenH: 24})
	return g
}

func press(actions ...core.Action) core.InputFrame {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	return in
}

func TestRegistered(t *testing.T) {
	for _, id := range []string{"blackbox", "blackbox_practice"} {
		g, err := registry.Create(id)
		if err != nil {
			t.Fatalf("Create(%q) failed: %v", id, err)
		}
		if g.ID() != id {
			t.Errorf("ID() = %q, want %q", g.ID(), id)
		}
	}
}

func TestDeterminism(t *testing.T) {
	newTestGame(t, ModeClassic, "", "")

	cfg := core.RuntimeConfig{Seed: 12345, ScreenW: 80, ScreenH: 24}
	g1, g2 := New(), New()
	g1.Reset(cfg)
	g2.Reset(cfg)

	inputs := []core.InputFrame{
		press(core.ActionFire),
		press(core.ActionRight),
		press(core.ActionDown),
		press(core.ActionFire),
		press(core.ActionMode),
		press(core.ActionFire),
		press(core.ActionRight),
		press(core.ActionFire),
		{},
	}
	for _, in := range inputs {
		g1.Step(in)
		g2.Step(in)
	}

	s1, s2 := g1.Snapshot(), g2.Snapshot()
	if !reflect.DeepEqual(s1, s2) {
		t.Errorf("snapshots differ:\n%+v\n%+v", s1, s2)
	}
	if len(s1.Atoms) != 6 {
		t.Errorf("got %d atoms, want the default 6", len(s1.Atoms))
	}
	// The second shot is skipped if the first one came out at port 11
	if len(s1.Markers) == 0 || len(s1.Guesses) != 2 {
		t.Errorf("got %d markers and %d guesses", len(s1.Markers), len(s1.Guesses))
	}
}

func TestFire(t *testing.T) {
	g := newTestGame(t, ModeClassic, "", classicLayout)

	if g.Atoms() != 2 {
		t.Fatalf("Atoms() = %d, want 2 from the layout", g.Atoms())
	}

	res, err := g.Fire(15)
	if err != nil {
		t.Fatalf("Fire(15) failed: %v", err)
	}
	if res.Output != 50 {
		t.Errorf("Fire(15) output = %d, want 50", res.Output)
	}
	if g.Message() != "Ray 15 exits at 50" {
		t.Errorf("Message() = %q", g.Message())
	}

	res, err = g.Fire(11)
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome != engine.OutcomeAbsorbed {
		t.Errorf("Fire(11) outcome = %v, want absorbed", res.Outcome)
	}

	// Inputs and outputs of earlier rays are both used up
	for _, label := range []int{15, 50, 11} {
		if _, err := g.Fire(label); !errors.Is(err, ErrAlreadyTested) {
			t.Errorf("Fire(%d) error = %v, want ErrAlreadyTested", label, err)
		}
	}

	if _, err := g.Fire(55); !errors.Is(err, engine.ErrInvalidInput) {
		t.Errorf("Fire(55) error = %v, want ErrInvalidInput", err)
	}

	if got := len(g.Board().Markers()); got != 2 {
		t.Errorf("got %d markers, want 2", got)
	}
	if g.Score() != 2 {
		t.Errorf("Score() = %d, want 2 before the reveal", g.Score())
	}
}

func TestGuesses(t *testing.T) {
	g := newTestGame(t, ModeClassic, "", classicLayout)

	if err := g.ToggleGuess(2, 0); err != nil {
		t.Fatal(err)
	}
	if err := g.ToggleGuess(0, 0); err != nil {
		t.Fatal(err)
	}
	if err := g.ToggleGuess(1, 1); !errors.Is(err, ErrGuessLimit) {
		t.Errorf("third guess error = %v, want ErrGuessLimit", err)
	}

	// Toggling removes a guess
	if err := g.ToggleGuess(0, 0); err != nil {
		t.Fatal(err)
	}
	if err := g.Submit(); !errors.Is(err, ErrGuessCount) {
		t.Errorf("Submit() error = %v, want ErrGuessCount", err)
	}
	if g.Phase() != PhaseProbe {
		t.Errorf("Phase() = %v after a rejected submit", g.Phase())
	}

	if err := g.ToggleGuess(0, 5); !errors.Is(err, engine.ErrNoSuchCell) {
		t.Errorf("off-board guess error = %v, want ErrNoSuchCell", err)
	}
}

func TestScoring(t *testing.T) {
	tests := []struct {
		name    string
		cfg     string
		guesses [][2]int
		matches int
		score   int
	}{
		{"all found", "", [][2]int{{2, 0}, {4, 4}}, 2, 2},
		{"one missed", "", [][2]int{{2, 0}, {0, 0}}, 1, 7},
		{"all missed", "", [][2]int{{8, 0}, {0, 0}}, 0, 12},
		{"custom penalties", "scoring:\n  ray_penalty: 2\n  miss_penalty: 10\n", [][2]int{{2, 0}, {0, 0}}, 1, 14},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := newTestGame(t, ModeClassic, tc.cfg, classicLayout)
			for _, label := range []int{15, 11} {
				if _, err := g.Fire(label); err != nil {
					t.Fatal(err)
				}
			}
			for _, p := range tc.guesses {
				if err := g.ToggleGuess(p[0], p[1]); err != nil {
					t.Fatal(err)
				}
			}
			if err := g.Submit(); err != nil {
				t.Fatalf("Submit() failed: %v", err)
			}

			if g.Matches() != tc.matches {
				t.Errorf("Matches() = %d, want %d", g.Matches(), tc.matches)
			}
			state := g.State()
			if state.Score != tc.score {
				t.Errorf("Score = %d, want %d", state.Score, tc.score)
			}
			if !state.GameOver || state.Rays != 2 || state.Matches != tc.matches {
				t.Errorf("State() = %+v", state)
			}
		})
	}
}

func TestRoundOver(t *testing.T) {
	g := newTestGame(t, ModeClassic, "", classicLayout)
	g.ToggleGuess(2, 0) //nolint:errcheck
	g.ToggleGuess(4, 4) //nolint:errcheck
	if err := g.Submit(); err != nil {
		t.Fatal(err)
	}

	if _, err := g.Fire(1); !errors.Is(err, ErrRoundOver) {
		t.Errorf("Fire after reveal error = %v", err)
	}
	if err := g.ToggleGuess(0, 0); !errors.Is(err, ErrRoundOver) {
		t.Errorf("ToggleGuess after reveal error = %v", err)
	}
	if err := g.Submit(); !errors.Is(err, ErrRoundOver) {
		t.Errorf("Submit after reveal error = %v", err)
	}

	g.Step(press(core.ActionRestart))
	if g.Phase() != PhaseProbe || g.Round() != 1 {
		t.Errorf("after restart: phase %v, round %d", g.Phase(), g.Round())
	}
	if len(g.Board().Markers()) != 0 || len(g.Guesses()) != 0 {
		t.Error("next round should start with a clean board")
	}
	if g.State().GameOver {
		t.Error("next round should not be over")
	}
}

func TestStepProbe(t *testing.T) {
	g := newTestGame(t, ModeClassic, "", classicLayout)

	tests := []struct {
		action core.Action
		want   int
	}{
		{core.ActionLeft, 54},
		{core.ActionRight, 1},
		{core.ActionRight, 2},
		{core.ActionDown, 11},
		{core.ActionUp, 2},
		{core.ActionUp, 47},
	}
	for _, tc := range tests {
		g.Step(press(tc.action))
		if g.Port() != tc.want {
			t.Fatalf("after %v: Port() = %d, want %d", tc.action, g.Port(), tc.want)
		}
	}

	g.SelectPort(15)
	g.Step(press(core.ActionFire))
	markers := g.Board().Markers()
	if len(markers) != 1 || markers[0] != (engine.Marker{Input: 15, Output: 50}) {
		t.Fatalf("markers = %v", markers)
	}

	g.SelectPort(50)
	g.Step(press(core.ActionConfirm))
	if g.Message() != "Port 50 already tested" {
		t.Errorf("Message() = %q", g.Message())
	}
	if len(g.Board().Markers()) != 1 {
		t.Error("a tested port must not fire again")
	}
}

func TestStepGuess(t *testing.T) {
	g := newTestGame(t, ModeClassic, "", classicLayout)

	g.Step(press(core.ActionMode))
	if g.Phase() != PhaseGuess {
		t.Fatalf("Phase() = %v, want guess", g.Phase())
	}

	// The cursor starts in the middle of row 4; walk it to (4, 4) and (2, 0).
	g.Step(press(core.ActionFire))
	for range 4 {
		g.Step(press(core.ActionUp))
		g.Step(press(core.ActionLeft))
		g.Step(press(core.ActionLeft))
	}
	g.Step(press(core.ActionDown))
	g.Step(press(core.ActionDown))
	g.Step(press(core.ActionFire))

	want := []engine.CellID{}
	for _, p := range [][2]int{{2, 0}, {4, 4}} {
		id, _ := engine.ID(p[0], p[1])
		want = append(want, id)
	}
	if got := g.Guesses(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Guesses() = %v, want %v", got, want)
	}

	g.Step(press(core.ActionConfirm))
	if g.Phase() != PhaseReveal || g.Matches() != 2 {
		t.Errorf("after confirm: phase %v, matches %d", g.Phase(), g.Matches())
	}

	// Mode switches back to probing
	g.NextRound()
	g.Step(press(core.ActionMode))
	g.Step(press(core.ActionMode))
	if g.Phase() != PhaseProbe {
		t.Errorf("Phase() = %v, want probe", g.Phase())
	}
}

func TestSubmitTooFewGuesses(t *testing.T) {
	g := newTestGame(t, ModeClassic, "", classicLayout)
	g.Step(press(core.ActionMode))
	g.Step(press(core.ActionFire))
	g.Step(press(core.ActionConfirm))

	if g.Phase() != PhaseGuess {
		t.Errorf("Phase() = %v, want guess", g.Phase())
	}
	if !strings.HasPrefix(g.Message(), "Mark 2 atoms") {
		t.Errorf("Message() = %q", g.Message())
	}
}

func TestPause(t *testing.T) {
	g := newTestGame(t, ModeClassic, "", classicLayout)

	g.Step(press(core.ActionPause))
	if !g.State().Paused {
		t.Fatal("game should be paused")
	}
	g.Step(press(core.ActionRight))
	if g.Port() != 1 {
		t.Error("input should be ignored while paused")
	}
	g.Step(press(core.ActionPause))
	g.Step(press(core.ActionRight))
	if g.Port() != 2 {
		t.Error("input should work after unpausing")
	}
}

func TestDifficultyProgression(t *testing.T) {
	cfg := "board:\n  atoms: 4\ndifficulty:\n  enabled: true\n  progression:\n    type: rounds\n    every: 1\n  max_atoms: 5\n"
	g := newTestGame(t, ModeClassic, cfg, "")

	for round, want := range []int{4, 5, 5} {
		if g.Atoms() != want || g.Board().AtomCount() != want {
			t.Errorf("round %d: %d atoms (%d on board), want %d", round, g.Atoms(), g.Board().AtomCount(), want)
		}
		g.NextRound()
	}
}

func TestDifficultyPreset(t *testing.T) {
	tests := []struct {
		preset string
		want   int
	}{
		{"easy", 4},
		{"hard", 8},
		{"fixed", 6},
	}
	for _, tc := range tests {
		t.Run(tc.preset, func(t *testing.T) {
			SetDifficultyPreset(tc.preset)
			g := newTestGame(t, ModeClassic, "", "")
			if g.Atoms() != tc.want {
				t.Errorf("Atoms() = %d, want %d", g.Atoms(), tc.want)
			}
		})
	}
}

func TestConfigureOverridesPackageSettings(t *testing.T) {
	SetDifficultyPreset("hard")
	g := newTestGame(t, ModeClassic, "", "")
	if g.Atoms() != 8 {
		t.Fatalf("Atoms() = %d, want 8", g.Atoms())
	}

	g.Configure(config.DifficultyEasy, "")
	g.Reset(core.RuntimeConfig{Seed: 1})
	if g.Atoms() != 4 {
		t.Errorf("after Configure(easy): Atoms() = %d, want 4", g.Atoms())
	}

	g.Configure(config.DifficultyFixed, classicLayout)
	g.Reset(core.RuntimeConfig{Seed: 1})
	if cell, ok := g.Board().CellAt(2, 0); g.Atoms() != 2 || !ok || !cell.HasAtom() {
		t.Errorf("after Configure(layout): Atoms() = %d", g.Atoms())
	}
}

func TestBadConfigFallsBack(t *testing.T) {
	g := newTestGame(t, ModeClassic, "board:\n  atoms: 0\n", "")
	if g.Atoms() != 6 {
		t.Errorf("Atoms() = %d, want the default 6", g.Atoms())
	}
	if g.Message() == "" {
		t.Error("the config error should be shown")
	}
}

func TestRender(t *testing.T) {
	countAtoms := func(s *core.Screen) int {
		n := 0
		for y := range s.Height() {
			for x := range s.Width() {
				if c := s.GetCell(x, y); c.Rune == 'O' && c.Color == core.ColorYellow {
					n++
				}
			}
		}
		return n
	}

	t.Run("classic hides atoms", func(t *testing.T) {
		g := newTestGame(t, ModeClassic, "", classicLayout)
		g.Fire(15) //nolint:errcheck

		screen := core.NewScreen(80, 24)
		g.Render(screen)

		if !strings.Contains(screen.Row(0), "Black Box") {
			t.Errorf("HUD = %q", screen.Row(0))
		}
		if n := countAtoms(screen); n != 0 {
			t.Errorf("%d atoms visible before the reveal", n)
		}
		if !strings.Contains(screen.String(), "15 > 50") {
			t.Error("marker panel should list the ray")
		}
	})

	t.Run("practice shows atoms and paths", func(t *testing.T) {
		g := newTestGame(t, ModePractice, "", classicLayout)
		g.Fire(15) //nolint:errcheck

		screen := core.NewScreen(80, 24)
		g.Render(screen)

		if n := countAtoms(screen); n != 2 {
			t.Errorf("%d atoms visible, want 2", n)
		}
		paths := 0
		for y := range screen.Height() {
			for x := range screen.Width() {
				if screen.GetCell(x, y).Color == core.ColorCyan {
					paths++
				}
			}
		}
		if paths == 0 {
			t.Error("ray path should be drawn")
		}
	})

	t.Run("labels", func(t *testing.T) {
		g := newTestGame(t, ModeClassic, "", classicLayout)
		screen := core.NewScreen(80, 24)
		g.Render(screen)

		// Label 1 sits above cell (0,0), label 54 to the right of it
		out := screen.String()
		for _, label := range []string{" 1 ", "54", "28"} {
			if !strings.Contains(out, label) {
				t.Errorf("label %q not drawn", label)
			}
		}
	})

	t.Run("too small", func(t *testing.T) {
		g := newTestGame(t, ModeClassic, "", classicLayout)
		screen := core.NewScreen(40, 12)
		g.Render(screen)
		if !strings.Contains(screen.String(), "Window too small") {
			t.Error("expected the too-small overlay")
		}
	})
}

func TestPortAnchorsDoNotOverlap(t *testing.T) {
	used := make(map[[2]int]int)
	for i, p := range engine.Ports() {
		x, y := cellPos(labelRoom, 1, p.Cell)
		tx, ty := portAnchor(x, y, p.Side, 2)
		for dx := range 2 {
			key := [2]int{tx + dx, ty}
			if prev, ok := used[key]; ok {
				t.Errorf("labels %d and %d overlap at %v", prev, i+1, key)
			}
			used[key] = i + 1
		}
		if tx < 0 || tx+2 > boardW {
			t.Errorf("label %d at x=%d leaves the board area", i+1, tx)
		}
	}
}
