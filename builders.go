package shapefile

import "github.com/paulmach/orb"

// flattenParts concatenates per-part point slices into one flat Points
// slice plus the Parts start-index array, per §3.
func flattenParts(parts [][]orb.Point) (points []orb.Point, starts []int32) {
	starts = make([]int32, len(parts))
	for i, p := range parts {
		starts[i] = int32(len(points))
		points = append(points, p...)
	}
	return points, starts
}

func flattenFloats(parts [][]float64) []float64 {
	var out []float64
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// NullShape returns a Null-typed shape: no points, no bbox, per §3.
func NullShape() *Shape { return &Shape{Type: NULL} }

// PointShape builds a single Point shape.
func PointShape(x, y float64) *Shape {
	return &Shape{Type: POINT, Points: []orb.Point{{x, y}}, Parts: []int32{0}}
}

// PointMShape builds a single PointM shape. Pass noDataM-or-less to mark
// the measure missing.
func PointMShape(x, y, m float64) *Shape {
	return &Shape{Type: POINTM, Points: []orb.Point{{x, y}}, Parts: []int32{0}, M: []float64{m}}
}

// PointZShape builds a single PointZ shape; m may be noDataM or less to
// mark the measure missing.
func PointZShape(x, y, z, m float64) *Shape {
	return &Shape{Type: POINTZ, Points: []orb.Point{{x, y}}, Parts: []int32{0}, Z: []float64{z}, M: []float64{m}}
}

// MultiPointShape builds a MultiPoint shape from unparted points.
func MultiPointShape(points []orb.Point) *Shape {
	return &Shape{Type: MULTIPOINT, Points: points, Parts: []int32{0}}
}

func MultiPointMShape(points []orb.Point, m []float64) *Shape {
	return &Shape{Type: MULTIPOINTM, Points: points, Parts: []int32{0}, M: m}
}

func MultiPointZShape(points []orb.Point, z, m []float64) *Shape {
	return &Shape{Type: MULTIPOINTZ, Points: points, Parts: []int32{0}, Z: z, M: m}
}

// LineShape builds a PolyLine shape from one or more parts.
func LineShape(parts [][]orb.Point) *Shape {
	points, starts := flattenParts(parts)
	return &Shape{Type: POLYLINE, Points: points, Parts: starts}
}

func LineMShape(parts [][]orb.Point, m [][]float64) *Shape {
	points, starts := flattenParts(parts)
	return &Shape{Type: POLYLINEM, Points: points, Parts: starts, M: flattenFloats(m)}
}

func LineZShape(parts [][]orb.Point, z, m [][]float64) *Shape {
	points, starts := flattenParts(parts)
	return &Shape{Type: POLYLINEZ, Points: points, Parts: starts, Z: flattenFloats(z), M: flattenFloats(m)}
}

// PolyShape builds a Polygon shape from one or more rings. Rings are
// auto-closed and the bbox is computed by Writer.Shape, per §4.7; ring
// order and orientation are written as given.
func PolyShape(rings [][]orb.Point) *Shape {
	points, starts := flattenParts(rings)
	return &Shape{Type: POLYGON, Points: points, Parts: starts}
}

func PolyMShape(rings [][]orb.Point, m [][]float64) *Shape {
	points, starts := flattenParts(rings)
	return &Shape{Type: POLYGONM, Points: points, Parts: starts, M: flattenFloats(m)}
}

func PolyZShape(rings [][]orb.Point, z, m [][]float64) *Shape {
	points, starts := flattenParts(rings)
	return &Shape{Type: POLYGONZ, Points: points, Parts: starts, Z: flattenFloats(z), M: flattenFloats(m)}
}

// MultiPatchShape builds a MultiPatch shape from parts, each tagged with
// its PartType.
func MultiPatchShape(parts [][]orb.Point, partTypes []PartType, z, m [][]float64) *Shape {
	points, starts := flattenParts(parts)
	return &Shape{
		Type: MULTIPATCH, Points: points, Parts: starts, PartTypes: partTypes,
		Z: flattenFloats(z), M: flattenFloats(m),
	}
}
