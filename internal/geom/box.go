package geom

import (
	"encoding/json"
	"fmt"
)

// Box is an axis-aligned bounding box. The invariant Min[i] <= Max[i]
// holds on every axis; zero-volume (degenerate) boxes are legal.
type Box struct {
	Min Point
	Max Point
}

// Contains reports whether p lies inside the box, boundary included.
func (b Box) Contains(p Point) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Center returns the midpoint of the box.
func (b Box) Center() Point {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Extents returns the box dimensions along each axis.
func (b Box) Extents() Point {
	return Point{b.Max.X - b.Min.X, b.Max.Y - b.Min.Y, b.Max.Z - b.Min.Z}
}

// Volume returns the enclosed volume. Degenerate boxes have volume 0.
func (b Box) Volume() float64 {
	e := b.Extents()
	return e.X * e.Y * e.Z
}

// Corners returns the eight corner points in a fixed order: the four
// corners of the min-Z face counter-clockwise, then the max-Z face.
func (b Box) Corners() [8]Point {
	return [8]Point{
		{b.Min.X, b.Min.Y, b.Min.Z},
		{b.Max.X, b.Min.Y, b.Min.Z},
		{b.Max.X, b.Max.Y, b.Min.Z},
		{b.Min.X, b.Max.Y, b.Min.Z},
		{b.Min.X, b.Min.Y, b.Max.Z},
		{b.Max.X, b.Min.Y, b.Max.Z},
		{b.Max.X, b.Max.Y, b.Max.Z},
		{b.Min.X, b.Max.Y, b.Max.Z},
	}
}

// The wire form of a box is two 3-element coordinate arrays, min then max:
// [[minx,miny,minz],[maxx,maxy,maxz]].

// MarshalJSON encodes the box in its wire form.
func (b Box) MarshalJSON() ([]byte, error) {
	return json.Marshal([2][3]float64{
		{b.Min.X, b.Min.Y, b.Min.Z},
		{b.Max.X, b.Max.Y, b.Max.Z},
	})
}

// UnmarshalJSON decodes the wire form back into a box.
func (b *Box) UnmarshalJSON(data []byte) error {
	var corners [][]float64
	if err := json.Unmarshal(data, &corners); err != nil {
		return err
	}
	if len(corners) != 2 || len(corners[0]) != 3 || len(corners[1]) != 3 {
		return fmt.Errorf("box: expected two 3-element corner arrays, got %s", data)
	}
	b.Min = Point{corners[0][0], corners[0][1], corners[0][2]}
	b.Max = Point{corners[1][0], corners[1][1], corners[1][2]}
	return nil
}
