// Package geo holds small, independently testable geometry helpers used
// by the shapefile codec's ring-orientation and bounding-box logic.
package geo

import "github.com/paulmach/orb"

// SignedArea returns twice the shoelace-formula signed area of the ring
// described by points (the ring need not be explicitly closed; the
// closing edge back to points[0] is always included). A clockwise ring
// in a right-handed XY plane yields a negative value; counter-clockwise
// yields positive. Shapefile outer rings are clockwise, holes
// counter-clockwise, per the polygon orientation invariant.
func SignedArea(points []orb.Point) float64 {
	if len(points) < 2 {
		return 0
	}
	var sum float64
	for i := 0; i < len(points); i++ {
		j := (i + 1) % len(points)
		sum += points[i][0]*points[j][1] - points[j][0]*points[i][1]
	}
	return sum
}

// IsClockwise reports whether the ring is clockwise (outer-ring
// orientation) in the shapefile XY convention.
func IsClockwise(points []orb.Point) bool { return SignedArea(points) < 0 }

// Bound computes the bounding box of points. The zero Bound (a
// degenerate box at the origin) is returned for an empty slice.
func Bound(points []orb.Point) orb.Bound {
	if len(points) == 0 {
		return orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{0, 0}}
	}
	b := orb.Bound{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		b = b.Extend(p)
	}
	return b
}

// EnvelopeContains reports whether outer's bounding box contains inner's,
// inclusive on all sides. Used to assign a hole ring to the nearest
// preceding outer ring whose envelope contains the hole's envelope.
func EnvelopeContains(outer, inner orb.Bound) bool {
	return outer.Min[0] <= inner.Min[0] && outer.Min[1] <= inner.Min[1] &&
		outer.Max[0] >= inner.Max[0] && outer.Max[1] >= inner.Max[1]
}
