package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestEmbeddedDefaultMatchesBuiltin(t *testing.T) {
	cfg := DefaultBlackBoxConfig()
	if err := yaml.Unmarshal(GetDefaultYAML("blackbox"), &cfg); err != nil {
		t.Fatalf("embedded default does not parse: %v", err)
	}
	if cfg != DefaultBlackBoxConfig() {
		t.Errorf("embedded default %+v differs from built-in %+v", cfg, DefaultBlackBoxConfig())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config is invalid: %v", err)
	}
	if GetDefaultYAML("pong") != nil {
		t.Error("unknown game should have no default YAML")
	}
}

func TestLoadBlackBoxCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := []byte("board:\n  atoms: 4\nscoring:\n  miss_penalty: 7\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadBlackBox(path)
	if err != nil {
		t.Fatalf("LoadBlackBox failed: %v", err)
	}
	if cfg.Board.Atoms != 4 {
		t.Errorf("Board.Atoms = %d, want 4", cfg.Board.Atoms)
	}
	if cfg.Scoring.MissPenalty != 7 {
		t.Errorf("MissPenalty = %d, want 7", cfg.Scoring.MissPenalty)
	}
	// Fields the file leaves out keep their defaults
	if cfg.Scoring.RayPenalty != 1 {
		t.Errorf("RayPenalty = %d, want default 1", cfg.Scoring.RayPenalty)
	}
}

func TestLoadBlackBoxCustomPathErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadBlackBox(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected an error for a missing custom file")
	}

	broken := filepath.Join(dir, "broken.yaml")
	if err := os.WriteFile(broken, []byte("board: [1, 2"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadBlackBox(broken); err == nil {
		t.Error("expected a parse error")
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("board:\n  atoms: 99\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadBlackBox(invalid); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("error = %v, want ErrInvalidConfig", err)
	}
}

func TestLoadBlackBoxSearchOrder(t *testing.T) {
	home := t.TempDir()
	work := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(work)

	// Nothing on disk: embedded default
	cfg, err := LoadBlackBox("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Board.Atoms != 6 {
		t.Errorf("default atoms = %d, want 6", cfg.Board.Atoms)
	}

	// Local configs directory
	if err := os.MkdirAll(filepath.Join(work, "configs"), 0o755); err != nil {
		t.Fatal(err)
	}
	local := filepath.Join(work, "configs", "blackbox.yaml")
	if err := os.WriteFile(local, []byte("board:\n  atoms: 5\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, _ = LoadBlackBox("")
	if cfg.Board.Atoms != 5 {
		t.Errorf("local config atoms = %d, want 5", cfg.Board.Atoms)
	}

	// User directory wins over the local one
	userDir := filepath.Join(home, ".blackbox", "configs")
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(userDir, "blackbox.yaml"), []byte("board:\n  atoms: 3\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, _ = LoadBlackBox("")
	if cfg.Board.Atoms != 3 {
		t.Errorf("user config atoms = %d, want 3", cfg.Board.Atoms)
	}

	// A broken user file is skipped
	if err := os.WriteFile(filepath.Join(userDir, "blackbox.yaml"), []byte("board:\n  atoms: 0\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, _ = LoadBlackBox("")
	if cfg.Board.Atoms != 5 {
		t.Errorf("after invalid user config atoms = %d, want local 5", cfg.Board.Atoms)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*BlackBoxConfig)
		valid  bool
	}{
		{"default", func(*BlackBoxConfig) {}, true},
		{"zero atoms", func(c *BlackBoxConfig) { c.Board.Atoms = 0 }, false},
		{"full board", func(c *BlackBoxConfig) { c.Board.Atoms = MaxAtoms }, true},
		{"too many atoms", func(c *BlackBoxConfig) { c.Board.Atoms = MaxAtoms + 1 }, false},
		{"negative ray penalty", func(c *BlackBoxConfig) { c.Scoring.RayPenalty = -1 }, false},
		{"negative miss penalty", func(c *BlackBoxConfig) { c.Scoring.MissPenalty = -5 }, false},
		{"max atoms too large", func(c *BlackBoxConfig) { c.Difficulty.MaxAtoms = 100 }, false},
		{"unknown progression", func(c *BlackBoxConfig) { c.Difficulty.Progression.Type = "score" }, false},
		{"no progression", func(c *BlackBoxConfig) { c.Difficulty.Progression.Type = "none" }, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultBlackBoxConfig()
			tc.modify(&cfg)
			err := cfg.Validate()
			if tc.valid && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tc.valid && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestApplyBlackBoxPreset(t *testing.T) {
	tests := []struct {
		preset      DifficultyPreset
		wantAtoms   int
		wantEnabled bool
	}{
		{DifficultyEasy, 4, false},
		{DifficultyNormal, 6, false},
		{DifficultyHard, 8, true},
		{DifficultyFixed, 9, false},
		{"", 9, false},
	}

	for _, tc := range tests {
		t.Run(string(tc.preset), func(t *testing.T) {
			cfg := DefaultBlackBoxConfig()
			cfg.Board.Atoms = 9
			ApplyBlackBoxPreset(&cfg, tc.preset)

			if cfg.Board.Atoms != tc.wantAtoms {
				t.Errorf("atoms = %d, want %d", cfg.Board.Atoms, tc.wantAtoms)
			}
			if cfg.Difficulty.Enabled != tc.wantEnabled {
				t.Errorf("progression enabled = %v, want %v", cfg.Difficulty.Enabled, tc.wantEnabled)
			}
		})
	}
}

func TestParsePreset(t *testing.T) {
	for _, name := range []string{"", "easy", "normal", "hard", "fixed"} {
		if _, err := ParsePreset(name); err != nil {
			t.Errorf("ParsePreset(%q) failed: %v", name, err)
		}
	}
	if _, err := ParsePreset("insane"); err == nil {
		t.Error("ParsePreset should reject unknown names")
	}
}

func TestDifficultyManagerAtoms(t *testing.T) {
	cfg := DifficultyConfig{
		Enabled:     true,
		Progression: ProgressionConfig{Type: "rounds", Every: 2},
		MaxAtoms:    8,
	}
	dm := NewDifficultyManager(cfg)

	tests := []struct {
		round int
		want  int
	}{
		{0, 6},
		{1, 6},
		{2, 7},
		{3, 7},
		{4, 8},
		{40, 8}, // capped
	}
	for _, tc := range tests {
		if got := dm.Atoms(6, tc.round); got != tc.want {
			t.Errorf("Atoms(6, %d) = %d, want %d", tc.round, got, tc.want)
		}
	}

	dm.SetEnabled(false)
	if dm.IsEnabled() {
		t.Error("SetEnabled(false) did not disable progression")
	}
	if got := dm.Atoms(6, 10); got != 6 {
		t.Errorf("disabled Atoms(6, 10) = %d, want 6", got)
	}
}

func TestDifficultyManagerLimits(t *testing.T) {
	// A max below the base never lowers the count
	dm := NewDifficultyManager(DifficultyConfig{
		Enabled:     true,
		Progression: ProgressionConfig{Type: "rounds", Every: 1},
		MaxAtoms:    4,
	})
	if got := dm.Atoms(6, 5); got != 6 {
		t.Errorf("Atoms(6, 5) = %d, want 6", got)
	}

	// No configured max falls back to the board size
	dm = NewDifficultyManager(DifficultyConfig{
		Enabled:     true,
		Progression: ProgressionConfig{Type: "rounds", Every: 1},
	})
	if got := dm.Atoms(60, 10); got != MaxAtoms {
		t.Errorf("Atoms(60, 10) = %d, want %d", got, MaxAtoms)
	}

	// Zero interval disables progression
	dm = NewDifficultyManager(DifficultyConfig{
		Enabled:     true,
		Progression: ProgressionConfig{Type: "rounds"},
	})
	if dm.IsEnabled() {
		t.Error("progression without an interval should be disabled")
	}
}
