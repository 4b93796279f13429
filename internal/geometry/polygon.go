// Package geometry provides the point-in-polygon primitive used to classify
// teams against the fixed highlight region.
package geometry

import "math"

// boundaryEpsilon absorbs floating-point noise in the on-edge test so a point
// sitting exactly on a polygon edge cannot flip between runs.
const boundaryEpsilon = 1e-9

// Point is a location in (tempo, efficiency margin) space.
type Point struct {
	X float64
	Y float64
}

// Polygon is an ordered list of vertices describing a closed region. The
// closing edge from the last vertex back to the first is implicit. Vertex
// order may be clockwise or counter-clockwise; containment is the same.
type Polygon []Point

// Contains reports whether p lies inside the polygon. Points on an edge or
// vertex count as inside.
func (poly Polygon) Contains(p Point) bool {
	n := len(poly)
	if n < 3 {
		return false
	}

	if poly.onBoundary(p) {
		return true
	}

	// Even-odd ray casting: a ray from p toward +X crosses the boundary an odd
	// number of times iff p is interior.
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		a, b := poly[i], poly[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			crossX := (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y) + a.X
			if p.X < crossX {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// onBoundary reports whether p sits on one of the polygon's edges.
func (poly Polygon) onBoundary(p Point) bool {
	n := len(poly)
	j := n - 1
	for i := 0; i < n; i++ {
		if onSegment(poly[j], poly[i], p) {
			return true
		}
		j = i
	}
	return false
}

// onSegment reports whether p lies on the segment from a to b.
func onSegment(a, b, p Point) bool {
	cross := (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
	if math.Abs(cross) > boundaryEpsilon*math.Max(1, segmentScale(a, b)) {
		return false
	}
	dot := (p.X-a.X)*(b.X-a.X) + (p.Y-a.Y)*(b.Y-a.Y)
	if dot < -boundaryEpsilon {
		return false
	}
	lenSq := (b.X-a.X)*(b.X-a.X) + (b.Y-a.Y)*(b.Y-a.Y)
	return dot <= lenSq+boundaryEpsilon
}

// segmentScale gives a magnitude to scale the cross-product tolerance so the
// boundary test behaves the same for large and small polygons.
func segmentScale(a, b Point) float64 {
	return math.Max(math.Abs(b.X-a.X), math.Abs(b.Y-a.Y))
}

// Centroid returns the arithmetic mean of the vertices. For the convex
// quadrilateral used here that is always an interior point.
func (poly Polygon) Centroid() Point {
	var c Point
	if len(poly) == 0 {
		return c
	}
	for _, v := range poly {
		c.X += v.X
		c.Y += v.Y
	}
	c.X /= float64(len(poly))
	c.Y /= float64(len(poly))
	return c
}

// Bounds returns the axis-aligned bounding box (min, max) of the vertices.
func (poly Polygon) Bounds() (Point, Point) {
	if len(poly) == 0 {
		return Point{}, Point{}
	}
	minPt := poly[0]
	maxPt := poly[0]
	for _, v := range poly[1:] {
		minPt.X = math.Min(minPt.X, v.X)
		minPt.Y = math.Min(minPt.Y, v.Y)
		maxPt.X = math.Max(maxPt.X, v.X)
		maxPt.Y = math.Max(maxPt.Y, v.Y)
	}
	return minPt, maxPt
}

// Reversed returns a copy of the polygon with the vertex order flipped.
func (poly Polygon) Reversed() Polygon {
	out := make(Polygon, len(poly))
	for i, v := range poly {
		out[len(poly)-1-i] = v
	}
	return out
}
