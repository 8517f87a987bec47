package main

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/simplify"
)

// Point is a position on the floor plan canvas
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Orb converts the point to its orb representation
func (p Point) Orb() orb.Point {
	return orb.Point{p.X, p.Y}
}

// Distance calculates Euclidean distance between two points
// Used as both the edge cost and the A* heuristic
func (p Point) Distance(other Point) float64 {
	return planar.Distance(p.Orb(), other.Orb())
}

// Lerp returns the point a fraction t of the way from p to other
func (p Point) Lerp(other Point, t float64) Point {
	return Point{
		X: p.X + (other.X-p.X)*t,
		Y: p.Y + (other.Y-p.Y)*t,
	}
}

func pointFromOrb(p orb.Point) Point {
	return Point{X: p.X(), Y: p.Y()}
}

// BoundingBox is an axis-aligned canvas rectangle
type BoundingBox struct {
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

// Orb converts the box to an orb bound
func (b BoundingBox) Orb() orb.Bound {
	return orb.Bound{Min: orb.Point{b.MinX, b.MinY}, Max: orb.Point{b.MaxX, b.MaxY}}
}

func boundingBoxFromOrb(b orb.Bound) BoundingBox {
	return BoundingBox{MinX: b.Min.X(), MinY: b.Min.Y(), MaxX: b.Max.X(), MaxY: b.Max.Y()}
}

// Polyline is an ordered list of points, typically a resolved route
type Polyline []Point

// LineString converts the polyline to an orb line string
func (pl Polyline) LineString() orb.LineString {
	ls := make(orb.LineString, 0, len(pl))
	for _, p := range pl {
		ls = append(ls, p.Orb())
	}
	return ls
}

// Length is the summed length of all segments
func (pl Polyline) Length() float64 {
	if len(pl) < 2 {
		return 0
	}
	return planar.Length(pl.LineString())
}

// Bound returns the axis-aligned bounding box of the polyline
func (pl Polyline) Bound() orb.Bound {
	return pl.LineString().Bound()
}

// Corners drops pass-through points that lie on a straight stretch,
// keeping the endpoints and every turn
func (pl Polyline) Corners(tolerance float64) Polyline {
	if len(pl) <= 2 {
		out := make(Polyline, len(pl))
		copy(out, pl)
		return out
	}

	simplified := simplify.DouglasPeucker(tolerance).LineString(pl.LineString())

	out := make(Polyline, 0, len(simplified))
	for _, p := range simplified {
		out = append(out, pointFromOrb(p))
	}
	return out
}
