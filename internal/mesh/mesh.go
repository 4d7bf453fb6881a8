// Package mesh defines the immutable in-memory representation of loaded
// geometry: vertex positions, triangle indices, and derived bounds. The
// decomposition engine borrows a Mesh read-only for the duration of a job.
package mesh

import (
	"errors"
	"fmt"

	"github.com/Narsst/Hitbox-Generation-Machine/internal/geom"
)

// ErrEmptyMesh is returned when a mesh has no vertices.
var ErrEmptyMesh = errors.New("mesh has no vertices")

// Face references three vertices by index.
type Face [3]int32

// Mesh holds parsed geometry. Treat it as immutable once built: the
// engine assumes vertices do not move while a job is running.
type Mesh struct {
	Name     string
	Vertices []geom.Point
	Faces    []Face
}

// Validate checks the structural invariants: at least one vertex, and
// every face index within [0, len(Vertices)).
func (m *Mesh) Validate() error {
	if len(m.Vertices) == 0 {
		return ErrEmptyMesh
	}
	n := int32(len(m.Vertices))
	for fi, f := range m.Faces {
		for _, idx := range f {
			if idx < 0 || idx >= n {
				return fmt.Errorf("face %d references vertex %d, mesh has %d vertices", fi, idx, n)
			}
		}
	}
	return nil
}

// Bounds returns the axis-aligned box covering every vertex.
// Calling Bounds on an empty mesh is a programming error; Validate first.
func (m *Mesh) Bounds() geom.Box {
	b := geom.Box{Min: m.Vertices[0], Max: m.Vertices[0]}
	for _, v := range m.Vertices[1:] {
		b.Min = b.Min.Min(v)
		b.Max = b.Max.Max(v)
	}
	return b
}
