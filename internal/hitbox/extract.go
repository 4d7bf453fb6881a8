package hitbox

import "github.com/Narsst/Hitbox-Generation-Machine/internal/geom"

// BoundingBox computes the tightest axis-aligned box covering all points:
// the componentwise minimum and maximum over the set. Callers guarantee a
// non-empty input; empty clusters are skipped upstream and yield no box.
func BoundingBox(points []geom.Point) geom.Box {
	b := geom.Box{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		b.Min = b.Min.Min(p)
		b.Max = b.Max.Max(p)
	}
	return b
}
