// Package geom provides the primitive spatial types shared by the mesh
// loader and the hitbox engine: 3D points and axis-aligned boxes.
package geom

// Point represents a position in Cartesian model coordinates.
type Point struct {
	X, Y, Z float64
}

// Add returns the componentwise sum of p and q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y, p.Z + q.Z}
}

// Scale returns p with every component multiplied by s.
func (p Point) Scale(s float64) Point {
	return Point{p.X * s, p.Y * s, p.Z * s}
}

// DistSq returns the squared Euclidean distance between p and q.
// Squared distance avoids sqrt in nearest-neighbour comparisons.
func (p Point) DistSq(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	dz := p.Z - q.Z
	return dx*dx + dy*dy + dz*dz
}

// Min returns the componentwise minimum of p and q.
func (p Point) Min(q Point) Point {
	return Point{minf(p.X, q.X), minf(p.Y, q.Y), minf(p.Z, q.Z)}
}

// Max returns the componentwise maximum of p and q.
func (p Point) Max(q Point) Point {
	return Point{maxf(p.X, q.X), maxf(p.Y, q.Y), maxf(p.Z, q.Z)}
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
