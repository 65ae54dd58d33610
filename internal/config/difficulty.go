package config

// DifficultyManager computes the atom count of a round from the number of
// rounds already played.
type DifficultyManager struct {
	cfg DifficultyConfig
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{cfg: cfg}
}

// SetEnabled enables or disables progression.
func (d *DifficultyManager) SetEnabled(enabled bool) {
	d.cfg.Enabled = enabled
}

// IsEnabled reports whether the atom count grows between rounds.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type == "rounds" && d.cfg.Progression.Every > 0
}

// Atoms returns the atom count for round (0-based), starting from base.
// The result never drops below base and never exceeds the configured maximum
// or the board size.
func (d *DifficultyManager) Atoms(base, round int) int {
	if !d.IsEnabled() || round <= 0 {
		return base
	}

	limit := d.cfg.MaxAtoms
	if limit <= 0 || limit > MaxAtoms {
		limit = MaxAtoms
	}

	n := base + round/d.cfg.Progression.Every
	return max(base, min(n, limit))
}
