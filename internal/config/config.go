// Package config provides YAML-based configuration loading for the collide
// tools: world padding, simulation, viewer, benchmark and SSH server settings.
package config

import "time"

// Config is the complete configuration file.
type Config struct {
	World  World  `yaml:"world"`
	Sim    Sim    `yaml:"sim"`
	Viewer Viewer `yaml:"viewer"`
	Bench  Bench  `yaml:"bench"`
	Server Server `yaml:"server"`
}

// World configures a collision world.
type World struct {
	Padding float64 `yaml:"padding"` // Fat AABB margin around each shape
}

// Sim configures the fixed-step simulator.
type Sim struct {
	TickRate    int     `yaml:"tick_rate"` // Steps per second
	ArenaWidth  float64 `yaml:"arena_width"`
	ArenaHeight float64 `yaml:"arena_height"`
	Bodies      int     `yaml:"bodies"`    // Body count for generated scenarios
	MaxSpeed    float64 `yaml:"max_speed"` // Units per second
	Seed        int64   `yaml:"seed"`
}

// Step returns the duration of one simulation step.
func (s Sim) Step() time.Duration {
	if s.TickRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(s.TickRate)
}

// Viewer configures the terminal viewer.
type Viewer struct {
	CellScale   float64 `yaml:"cell_scale"`   // World units per character cell
	ProbeRadius float64 `yaml:"probe_radius"` // Radius of the movable probe circle
	ProbeStep   float64 `yaml:"probe_step"`   // Distance moved per key press
	RayLength   float64 `yaml:"ray_length"`
}

// Bench configures the benchmark runner.
type Bench struct {
	Runs     int `yaml:"runs"`
	Steps    int `yaml:"steps"`
	Bodies   int `yaml:"bodies"`
	Parallel int `yaml:"parallel"` // 0 means GOMAXPROCS
}

// Server configures the SSH viewer server.
type Server struct {
	Host        string        `yaml:"host"`
	Port        int           `yaml:"port"`
	HostKeyPath string        `yaml:"host_key_path"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
	MaxTimeout  time.Duration `yaml:"max_timeout"`
	MetricsAddr string        `yaml:"metrics_addr"` // Empty disables the Prometheus endpoint
}
