package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const blackBoxFile = "blackbox.yaml"

// LoadBlackBox loads the Black Box configuration.
// Search order: customPath -> ~/.blackbox/configs/blackbox.yaml ->
// ./configs/blackbox.yaml -> embedded default -> built-in default.
// Only a custom path reports read and parse errors; the other locations are
// skipped when missing or broken. Fields a file leaves out keep their
// default values.
func LoadBlackBox(customPath string) (BlackBoxConfig, error) {
	if customPath != "" {
		cfg := DefaultBlackBoxConfig()
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		if err := cfg.Validate(); err != nil {
			return cfg, fmt.Errorf("config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	candidates := []string{
		userConfigPath(blackBoxFile),
		filepath.Join("configs", blackBoxFile),
	}
	for _, path := range candidates {
		if path == "" {
			continue
		}
		if cfg, ok := tryLoad(path); ok {
			return cfg, nil
		}
	}

	cfg := DefaultBlackBoxConfig()
	if err := yaml.Unmarshal(defaultBlackBoxYAML, &cfg); err != nil || cfg.Validate() != nil {
		return DefaultBlackBoxConfig(), nil
	}
	return cfg, nil
}

// tryLoad reads and validates one optional config file.
func tryLoad(path string) (BlackBoxConfig, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return BlackBoxConfig{}, false
	}
	cfg := DefaultBlackBoxConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return BlackBoxConfig{}, false
	}
	if cfg.Validate() != nil {
		return BlackBoxConfig{}, false
	}
	return cfg, true
}

// userConfigPath returns the path of a file in the user config directory,
// or "" if the home directory is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".blackbox", "configs", filename)
}

// ApplyBlackBoxPreset modifies the config for a difficulty preset.
// Fixed keeps the configured atom count and turns progression off.
func ApplyBlackBoxPreset(cfg *BlackBoxConfig, preset DifficultyPreset) {
	if IsFixedPreset(preset) {
		cfg.Difficulty.Enabled = false
		return
	}

	if n := AtomsForPreset(preset); n > 0 {
		cfg.Board.Atoms = n
	}

	// Hard rounds keep adding atoms as the session goes on.
	if preset == DifficultyHard {
		cfg.Difficulty.Enabled = true
	}
}
