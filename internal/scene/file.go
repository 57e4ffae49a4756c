// Package scene loads collision scenes from YAML files, builds their shapes,
// and encodes snapshots of running scenes as msgpack blobs.
package scene

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/collide/internal/geom"
)

// ErrUnknownShape is returned for a body that names no shape, or more than one.
var ErrUnknownShape = errors.New("scene: body must name exactly one of box, circle or polygon")

// Vec2 is a point written as a two-element sequence.
type Vec2 [2]float64

// Vec converts to the geometry vector type.
func (v Vec2) Vec() geom.Vec { return geom.V(v[0], v[1]) }

// IsZero reports whether both components are zero.
func (v Vec2) IsZero() bool { return v == Vec2{} }

// FromVec converts from the geometry vector type.
func FromVec(v geom.Vec) Vec2 { return Vec2{v[0], v[1]} }

// File is the on-disk representation of a scene.
type File struct {
	Name   string     `yaml:"name" msgpack:"name"`
	Arena  ArenaSpec  `yaml:"arena" msgpack:"arena"`
	Bodies []BodySpec `yaml:"bodies" msgpack:"bodies"`
}

// ArenaSpec bounds the area bodies bounce inside.
type ArenaSpec struct {
	Min Vec2 `yaml:"min" msgpack:"min"`
	Max Vec2 `yaml:"max" msgpack:"max"`
}

// BodySpec describes one body. Exactly one of Box, Circle and Polygon is set.
type BodySpec struct {
	ID       string       `yaml:"id,omitempty" msgpack:"id,omitempty"`
	Box      *BoxSpec     `yaml:"box,omitempty" msgpack:"box,omitempty"`
	Circle   *CircleSpec  `yaml:"circle,omitempty" msgpack:"circle,omitempty"`
	Polygon  *PolygonSpec `yaml:"polygon,omitempty" msgpack:"polygon,omitempty"`
	Velocity Vec2         `yaml:"velocity,omitempty" msgpack:"velocity,omitempty"`
	Static   bool         `yaml:"static,omitempty" msgpack:"static,omitempty"`
}

// BoxSpec is an axis-aligned box anchored at its minimum corner.
type BoxSpec struct {
	Position Vec2 `yaml:"position" msgpack:"position"`
	Size     Vec2 `yaml:"size" msgpack:"size"`
}

// CircleSpec is a circle given by its center.
type CircleSpec struct {
	Center Vec2    `yaml:"center" msgpack:"center"`
	Radius float64 `yaml:"radius" msgpack:"radius"`
}

// PolygonSpec is the convex hull of Points. Position, when set, moves the
// hull centroid there; otherwise the centroid stays where the points put it.
type PolygonSpec struct {
	Points   []Vec2  `yaml:"points" msgpack:"points"`
	Position *Vec2   `yaml:"position,omitempty" msgpack:"position,omitempty"`
	Angle    float64 `yaml:"angle,omitempty" msgpack:"angle,omitempty"`
	Scale    *Vec2   `yaml:"scale,omitempty" msgpack:"scale,omitempty"`
}

// Parse decodes a YAML scene file.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("scene: yaml unmarshal: %w", err)
	}
	return &f, nil
}

// YAML encodes the file as YAML.
func (f *File) YAML() ([]byte, error) {
	data, err := yaml.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("scene: yaml marshal: %w", err)
	}
	return data, nil
}

func (b *BodySpec) shapes() int {
	n := 0
	if b.Box != nil {
		n++
	}
	if b.Circle != nil {
		n++
	}
	if b.Polygon != nil {
		n++
	}
	return n
}
