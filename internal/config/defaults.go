package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/collide.yaml
var defaultYAML []byte

// Default returns the hard-coded configuration.
func Default() Config {
	return Config{
		World: World{
			Padding: 0.5,
		},
		Sim: Sim{
			TickRate:    30,
			ArenaWidth:  120,
			ArenaHeight: 60,
			Bodies:      40,
			MaxSpeed:    12,
			Seed:        1,
		},
		Viewer: Viewer{
			CellScale:   1,
			ProbeRadius: 3,
			ProbeStep:   1,
			RayLength:   80,
		},
		Bench: Bench{
			Runs:   8,
			Steps:  600,
			Bodies: 500,
		},
		Server: Server{
			Host:        "0.0.0.0",
			Port:        2323,
			HostKeyPath: ".ssh/collide_host_ed25519",
			IdleTimeout: 10 * time.Minute,
			MaxTimeout:  time.Hour,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
