// Package meshio serializes hitbox sets to third-party 3D file formats.
// Exporters are pure functions over the set: they consume boxes and
// produce bytes, owning no engine state.
package meshio

import "github.com/Narsst/Hitbox-Generation-Machine/internal/geom"

// boxQuad is one face of a box: four corner indices into
// geom.Box.Corners() plus the outward face normal.
type boxQuad struct {
	idx    [4]int
	normal geom.Point
}

// boxQuads enumerates the six faces of a box with outward normals,
// wound counter-clockwise when viewed from outside.
var boxQuads = []boxQuad{
	{idx: [4]int{0, 3, 2, 1}, normal: geom.Point{Z: -1}},
	{idx: [4]int{4, 5, 6, 7}, normal: geom.Point{Z: 1}},
	{idx: [4]int{0, 1, 5, 4}, normal: geom.Point{Y: -1}},
	{idx: [4]int{1, 2, 6, 5}, normal: geom.Point{X: 1}},
	{idx: [4]int{2, 3, 7, 6}, normal: geom.Point{Y: 1}},
	{idx: [4]int{3, 0, 4, 7}, normal: geom.Point{X: -1}},
}
