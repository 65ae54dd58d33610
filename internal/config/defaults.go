package config

import (
	_ "embed"
)

//go:embed defaults/blackbox.yaml
var defaultBlackBoxYAML []byte

// DefaultBlackBoxConfig returns the built-in configuration, used when even the
// embedded YAML cannot be parsed.
func DefaultBlackBoxConfig() BlackBoxConfig {
	return BlackBoxConfig{
		Board: BoardConfig{
			Atoms: 6,
		},
		Scoring: ScoringConfig{
			RayPenalty:  1,
			MissPenalty: 5,
		},
		Display: DisplayConfig{
			ShowPaths:  true,
			ShowLabels: true,
		},
		Difficulty: DifficultyConfig{
			Enabled: false,
			Progression: ProgressionConfig{
				Type:  "rounds",
				Every: 3,
			},
			MaxAtoms: 10,
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for a game, or nil.
func GetDefaultYAML(gameID string) []byte {
	switch gameID {
	case "blackbox", "blackbox_practice":
		return defaultBlackBoxYAML
	default:
		return nil
	}
}
