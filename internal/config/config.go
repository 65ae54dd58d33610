// Package config loads the YAML game configuration and applies difficulty
// presets.
package config

import (
	"errors"
	"fmt"
)

// MaxAtoms is the number of cells on the board; more atoms cannot be placed.
const MaxAtoms = 61

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// BlackBoxConfig contains all configuration for the Black Box game.
type BlackBoxConfig struct {
	Board      BoardConfig      `yaml:"board"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Display    DisplayConfig    `yaml:"display"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// BoardConfig defines how a round's board is set up.
type BoardConfig struct {
	Atoms  int    `yaml:"atoms"`            // Hidden atoms per round
	Layout string `yaml:"layout,omitempty"` // Optional puzzle layout file
}

// ScoringConfig defines the penalty points of a round. Lower totals are better.
type ScoringConfig struct {
	RayPenalty  int `yaml:"ray_penalty"`  // Per ray marker
	MissPenalty int `yaml:"miss_penalty"` // Per atom not found
}

// DisplayConfig toggles optional board decorations.
type DisplayConfig struct {
	ShowPaths  bool `yaml:"show_paths"`  // Draw ray paths once atoms are visible
	ShowLabels bool `yaml:"show_labels"` // Print perimeter label numbers
}

// DifficultyConfig defines how the atom count grows over consecutive rounds.
type DifficultyConfig struct {
	Enabled     bool              `yaml:"enabled"`
	Progression ProgressionConfig `yaml:"progression"`
	MaxAtoms    int               `yaml:"max_atoms"` // Upper bound for the grown atom count
}

// ProgressionConfig defines when the atom count increases.
type ProgressionConfig struct {
	Type  string `yaml:"type"`  // "rounds" or "none"
	Every int    `yaml:"every"` // Rounds played before one more atom is added
}

// Validate checks the config for values the game cannot play with.
func (c BlackBoxConfig) Validate() error {
	if c.Board.Atoms <= 0 || c.Board.Atoms > MaxAtoms {
		return fmt.Errorf("%w: board.atoms must be in 1..%d, got %d", ErrInvalidConfig, MaxAtoms, c.Board.Atoms)
	}
	if c.Scoring.RayPenalty < 0 {
		return fmt.Errorf("%w: scoring.ray_penalty is negative", ErrInvalidConfig)
	}
	if c.Scoring.MissPenalty < 0 {
		return fmt.Errorf("%w: scoring.miss_penalty is negative", ErrInvalidConfig)
	}
	if c.Difficulty.MaxAtoms > MaxAtoms {
		return fmt.Errorf("%w: difficulty.max_atoms exceeds %d", ErrInvalidConfig, MaxAtoms)
	}
	switch c.Difficulty.Progression.Type {
	case "", "none", "rounds":
	default:
		return fmt.Errorf("%w: unknown progression type %q", ErrInvalidConfig, c.Difficulty.Progression.Type)
	}
	return nil
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// AtomsForPreset returns the atom count of a preset.
// Returns 0 for fixed and unknown presets, which keep the configured count.
func AtomsForPreset(preset DifficultyPreset) int {
	switch preset {
	case DifficultyEasy:
		return 4
	case DifficultyNormal:
		return 6
	case DifficultyHard:
		return 8
	default:
		return 0
	}
}

// ParsePreset validates a preset name. The empty string means no preset.
func ParsePreset(name string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(name); p {
	case "", DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal, hard or fixed)", name)
	}
}

// IsFixedPreset reports whether the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}
