// Package registry provides a global registry for scenario factories.
// Scenarios register themselves in init() functions, allowing the commands
// and the SSH viewer to discover and build scenes without hardcoded
// dependencies.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/collide/internal/config"
	"github.com/vovakirdan/collide/internal/scene"
)

// ErrUnknownScenario is returned by Create and Build for unregistered ids.
var ErrUnknownScenario = errors.New("registry: unknown scenario")

// Scenario generates a scene from simulation settings.
// Build must be deterministic for a given config.Sim (including its Seed).
type Scenario interface {
	// ID returns a unique identifier used on the command line and in
	// stored benchmark runs (e.g., "rain", "grid").
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Build generates a fresh scene. The arena size, body count, speed and
	// seed come from cfg.
	Build(cfg config.Sim) (*scene.Scene, error)
}

// Info contains metadata about a registered scenario.
type Info struct {
	ID    string
	Title string
}

// Factory is a function that creates a new instance of a scenario.
type Factory func() Scenario

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a scenario factory to the registry.
// Typically called from a scenario's init() function.
// Panics if a scenario with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: scenario %q already registered", id))
	}

	factories[id] = f
	titles[id] = f().Title()
}

// List returns information about all registered scenarios, sorted by ID.
func List() []Info {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Info, 0, len(factories))
	for id := range factories {
		result = append(result, Info{
			ID:    id,
			Title: titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a scenario by its ID.
func Create(id string) (Scenario, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownScenario, id)
	}

	return f(), nil
}

// Build creates the scenario and builds its scene in one call.
func Build(id string, cfg config.Sim) (*scene.Scene, error) {
	s, err := Create(id)
	if err != nil {
		return nil, err
	}
	sc, err := s.Build(cfg)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", id, err)
	}
	return sc, nil
}

// Exists checks if a scenario with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
