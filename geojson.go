package shapefile

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/GeospatialPython/pyshp/geo"
)

// ToGeometry converts a Shape to its orb.Geometry equivalent, per the
// GeoJSON interchange model. Null shapes yield a nil geometry.
func ToGeometry(s *Shape) (orb.Geometry, error) {
	switch {
	case s.Type == NULL:
		return nil, nil
	case s.Type.isPoint():
		return s.Points[0], nil
	case s.Type == MULTIPOINT || s.Type == MULTIPOINTM || s.Type == MULTIPOINTZ:
		mp := make(orb.MultiPoint, len(s.Points))
		copy(mp, s.Points)
		return mp, nil
	case s.Type == POLYLINE || s.Type == POLYLINEM || s.Type == POLYLINEZ:
		return polylineGeometry(s), nil
	case s.Type == POLYGON || s.Type == POLYGONM || s.Type == POLYGONZ:
		return polygonGeometry(s)
	case s.Type == MULTIPATCH:
		return multiPatchGeometry(s)
	default:
		return nil, newSchemaError("shape type %s has no geometry equivalent", s.Type)
	}
}

func polylineGeometry(s *Shape) orb.Geometry {
	if len(s.Parts) <= 1 {
		start, end := 0, len(s.Points)
		if len(s.Parts) == 1 {
			start, end = s.partSpan(0)
		}
		ls := make(orb.LineString, end-start)
		copy(ls, s.Points[start:end])
		return ls
	}
	mls := make(orb.MultiLineString, len(s.Parts))
	for i := range s.Parts {
		start, end := s.partSpan(i)
		ls := make(orb.LineString, end-start)
		copy(ls, s.Points[start:end])
		mls[i] = ls
	}
	return mls
}

// polygonGeometry groups rings into outer/hole polygons using the
// clockwise-outer/counter-clockwise-hole orientation convention: each
// hole is assigned to the nearest preceding outer ring whose envelope
// contains the hole's envelope. A hole that no preceding outer ring
// contains goes to the nearest preceding outer ring, or to the first
// outer ring when none precedes it.
func polygonGeometry(s *Shape) (orb.Geometry, error) {
	type ring struct {
		pts  orb.Ring
		bb   orb.Bound
		hole bool
	}
	rings := make([]ring, len(s.Parts))
	for i := range s.Parts {
		start, end := s.partSpan(i)
		pts := make(orb.Ring, end-start)
		copy(pts, s.Points[start:end])
		rings[i] = ring{pts: pts, bb: geo.Bound(pts), hole: !geo.IsClockwise(pts)}
	}

	var polys []orb.Polygon
	outerIdx := make([]int, 0, len(rings))
	for i, r := range rings {
		if r.hole {
			continue
		}
		polys = append(polys, orb.Polygon{r.pts})
		outerIdx = append(outerIdx, i)
	}
	if len(polys) == 0 {
		return nil, newSchemaError("polygon shape has no outer ring")
	}
	for i, r := range rings {
		if !r.hole {
			continue
		}
		target := -1
		for j := len(outerIdx) - 1; j >= 0; j-- {
			oi := outerIdx[j]
			if oi > i {
				continue
			}
			if geo.EnvelopeContains(rings[oi].bb, r.bb) {
				target = j
				break
			}
		}
		if target < 0 {
			target = 0
			for j := len(outerIdx) - 1; j >= 0; j-- {
				if outerIdx[j] < i {
					target = j
					break
				}
			}
		}
		polys[target] = append(polys[target], r.pts)
	}
	if len(polys) == 1 {
		return polys[0], nil
	}
	mp := make(orb.MultiPolygon, len(polys))
	copy(mp, polys)
	return mp, nil
}

// multiPatchGeometry approximates a MultiPatch as a MultiPolygon: each
// TRIANGLE_STRIP/TRIANGLE_FAN part is triangulated into individual
// triangle polygons, and RING/OUTER_RING/INNER_RING/FIRST_RING parts are
// treated as polygon rings, grouped the same way as Polygon.
func multiPatchGeometry(s *Shape) (orb.Geometry, error) {
	var polys []orb.Polygon
	var ringParts []int
	for i := range s.Parts {
		start, end := s.partSpan(i)
		pts := s.Points[start:end]
		pt := RING
		if i < len(s.PartTypes) {
			pt = s.PartTypes[i]
		}
		switch pt {
		case TRIANGLE_STRIP:
			for k := 0; k+2 < len(pts); k++ {
				polys = append(polys, triangle(pts[k], pts[k+1], pts[k+2]))
			}
		case TRIANGLE_FAN:
			for k := 1; k+1 < len(pts); k++ {
				polys = append(polys, triangle(pts[0], pts[k], pts[k+1]))
			}
		default:
			ringParts = append(ringParts, i)
		}
	}
	if len(ringParts) > 0 {
		sub := &Shape{Points: s.Points, Parts: make([]int32, len(ringParts))}
		for i, pi := range ringParts {
			sub.Parts[i] = s.Parts[pi]
		}
		geomFromRings, err := polygonGeometry(sub)
		if err != nil {
			return nil, err
		}
		switch g := geomFromRings.(type) {
		case orb.Polygon:
			polys = append(polys, g)
		case orb.MultiPolygon:
			polys = append(polys, g...)
		}
	}
	if len(polys) == 0 {
		return nil, newSchemaError("multipatch shape produced no polygons")
	}
	mp := make(orb.MultiPolygon, len(polys))
	copy(mp, polys)
	return mp, nil
}

func triangle(a, b, c orb.Point) orb.Polygon {
	return orb.Polygon{orb.Ring{a, b, c, a}}
}

// ToFeature converts a ShapeRecord to a GeoJSON feature, with Record
// fields (if any) as properties.
func ToFeature(sr *ShapeRecord) (*geojson.Feature, error) {
	var geom orb.Geometry
	if sr.Shape != nil {
		g, err := ToGeometry(sr.Shape)
		if err != nil {
			return nil, err
		}
		geom = g
	}
	f := geojson.NewFeature(geom)
	if sr.Record != nil {
		for k, v := range sr.Record.Map() {
			f.Properties[k] = v
		}
	}
	return f, nil
}

// ToFeatureCollection converts every (shape, record) pair a Reader holds
// into a GeoJSON feature collection.
func ToFeatureCollection(r *Reader) (*geojson.FeatureCollection, error) {
	fc := geojson.NewFeatureCollection()
	it := r.IterShapeRecords(nil, nil)
	for it.Next() {
		f, err := ToFeature(it.ShapeRecord())
		if err != nil {
			return nil, err
		}
		fc.Append(f)
	}
	if it.Err() != nil {
		return nil, it.Err()
	}
	return fc, nil
}

// FromGeometry converts an orb.Geometry into a Shape of the requested
// type, the inverse of ToGeometry. hasZ/hasM select the Z/M variant; z
// and m supply per-point values aligned with the geometry's flattened
// point order when the variant requires them.
func FromGeometry(g orb.Geometry, hasZ, hasM bool, z, m []float64) (*Shape, error) {
	switch t := g.(type) {
	case orb.Point:
		return pointShapeFromGeom(t, hasZ, hasM, z, m), nil
	case orb.MultiPoint:
		return multiPointShapeFromGeom([]orb.Point(t), hasZ, hasM, z, m), nil
	case orb.LineString:
		return lineShapeFromGeom([][]orb.Point{t}, hasZ, hasM, z, m), nil
	case orb.MultiLineString:
		parts := make([][]orb.Point, len(t))
		for i, ls := range t {
			parts[i] = ls
		}
		return lineShapeFromGeom(parts, hasZ, hasM, z, m), nil
	case orb.Polygon:
		return polyShapeFromGeom(t, hasZ, hasM, z, m), nil
	case orb.MultiPolygon:
		var rings []orb.Ring
		for _, poly := range t {
			rings = append(rings, poly...)
		}
		return polyShapeFromGeom(rings, hasZ, hasM, z, m), nil
	default:
		return nil, newSchemaError("unsupported geometry type %T", g)
	}
}

func pointType(hasZ, hasM bool) ShapeType {
	switch {
	case hasZ:
		return POINTZ
	case hasM:
		return POINTM
	default:
		return POINT
	}
}

func multiType(hasZ, hasM bool) ShapeType {
	switch {
	case hasZ:
		return MULTIPOINTZ
	case hasM:
		return MULTIPOINTM
	default:
		return MULTIPOINT
	}
}

func lineType(hasZ, hasM bool) ShapeType {
	switch {
	case hasZ:
		return POLYLINEZ
	case hasM:
		return POLYLINEM
	default:
		return POLYLINE
	}
}

func polyType(hasZ, hasM bool) ShapeType {
	switch {
	case hasZ:
		return POLYGONZ
	case hasM:
		return POLYGONM
	default:
		return POLYGON
	}
}

func pointShapeFromGeom(p orb.Point, hasZ, hasM bool, z, m []float64) *Shape {
	s := &Shape{Type: pointType(hasZ, hasM), Points: []orb.Point{p}, Parts: []int32{0}}
	if hasZ && len(z) > 0 {
		s.Z = z[:1]
	}
	if hasM && len(m) > 0 {
		s.M = m[:1]
	}
	return s
}

func multiPointShapeFromGeom(pts []orb.Point, hasZ, hasM bool, z, m []float64) *Shape {
	s := &Shape{Type: multiType(hasZ, hasM), Points: pts, Parts: []int32{0}}
	if hasZ {
		s.Z = z
	}
	if hasM {
		s.M = m
	}
	return s
}

func lineShapeFromGeom(parts [][]orb.Point, hasZ, hasM bool, z, m []float64) *Shape {
	points, starts := flattenParts(parts)
	s := &Shape{Type: lineType(hasZ, hasM), Points: points, Parts: starts}
	if hasZ {
		s.Z = z
	}
	if hasM {
		s.M = m
	}
	return s
}

func polyShapeFromGeom(rings []orb.Ring, hasZ, hasM bool, z, m []float64) *Shape {
	parts := make([][]orb.Point, len(rings))
	for i, r := range rings {
		parts[i] = r
	}
	points, starts := flattenParts(parts)
	s := &Shape{Type: polyType(hasZ, hasM), Points: points, Parts: starts}
	if hasZ {
		s.Z = z
	}
	if hasM {
		s.M = m
	}
	return s
}
