package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load loads the configuration.
// Search order: customPath -> ~/.collide/config.yaml -> ./configs/collide.yaml -> embedded default.
// Keys missing from the chosen file keep their default values.
func Load(customPath string) (Config, error) {
	cfg := Default()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("config.yaml"); userCfgPath != "" {
		if c, ok := tryFile(userCfgPath); ok {
			return c, nil
		}
	}

	// Try local configs directory
	if c, ok := tryFile(filepath.Join("configs", "collide.yaml")); ok {
		return c, nil
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		return Default(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

func tryFile(path string) (Config, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, false
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, false
	}
	return cfg, true
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".collide", filename)
}

// Density represents a named body density for generated scenarios.
type Density string

const (
	DensitySparse Density = "sparse"
	DensityNormal Density = "normal"
	DensityDense  Density = "dense"
)

// ParseDensity validates a density name. The empty string means normal.
func ParseDensity(s string) (Density, error) {
	switch d := Density(s); d {
	case "":
		return DensityNormal, nil
	case DensitySparse, DensityNormal, DensityDense:
		return d, nil
	default:
		return "", fmt.Errorf("unknown density %q (want sparse, normal or dense)", s)
	}
}

// ApplyDensity scales body counts and speeds for a density preset.
func ApplyDensity(cfg *Config, d Density) {
	switch d {
	case DensitySparse:
		cfg.Sim.Bodies = max(1, cfg.Sim.Bodies/2)
		cfg.Bench.Bodies = max(1, cfg.Bench.Bodies/2)
		cfg.Sim.MaxSpeed *= 0.75
	case DensityDense:
		cfg.Sim.Bodies *= 3
		cfg.Bench.Bodies *= 3
		cfg.Sim.MaxSpeed *= 1.5
		cfg.World.Padding /= 2
	}
}
