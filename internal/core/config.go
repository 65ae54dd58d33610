package core

// RuntimeConfig is passed to games on Reset.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second
	Seed     int64 // RNG seed; the platform replaces 0 with a time-based seed
}

// DefaultConfig returns an 80x24 screen at 30 ticks per second.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 30,
	}
}

// GameState is the status a game reports to the platform.
type GameState struct {
	Score    int  // Current score (penalty points; lower is better)
	GameOver bool // The round has ended and the score is final
	Paused   bool
	Rays     int // Rays fired this round
	Matches  int // Atoms found, known once the round is over
}

// StepResult is returned by Game.Step after each tick.
type StepResult struct {
	State GameState
}
