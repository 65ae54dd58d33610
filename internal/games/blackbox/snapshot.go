package blackbox

import "github.com/vovakirdan/tui-blackbox/internal/games/blackbox/engine"

// Snapshot captures the game state for determinism testing.
type Snapshot struct {
	Tick    uint64
	Mode    string
	Round   int // 1-indexed for display
	Phase   Phase
	Atoms   []engine.CellID
	Port    int
	Markers []engine.Marker
	Guesses []engine.CellID
	Matches int
	Score   int
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		Tick:    g.tick,
		Mode:    string(g.mode),
		Round:   g.round + 1,
		Phase:   g.phase,
		Atoms:   g.board.Atoms(),
		Port:    g.port,
		Markers: g.board.Markers(),
		Guesses: g.Guesses(),
		Matches: g.matches,
		Score:   g.Score(),
	}
}
