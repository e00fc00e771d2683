package shapefile

import (
	"testing"

	"github.com/paulmach/orb"
)

func TestToGeometryPoint(t *testing.T) {
	s := PointShape(1, 2)
	g, err := ToGeometry(s)
	if err != nil {
		t.Fatalf("ToGeometry: %v", err)
	}
	if g.(orb.Point) != (orb.Point{1, 2}) {
		t.Errorf("got %v, want (1,2)", g)
	}
}

func TestToGeometryPolygonWithHole(t *testing.T) {
	outer := []orb.Point{{0, 0}, {0, 10}, {10, 10}, {10, 0}, {0, 0}} // clockwise
	hole := []orb.Point{{2, 2}, {4, 2}, {4, 4}, {2, 4}, {2, 2}}      // counter-clockwise
	s := PolyShape([][]orb.Point{outer, hole})
	finalizeShapeMetrics(s)

	g, err := ToGeometry(s)
	if err != nil {
		t.Fatalf("ToGeometry: %v", err)
	}
	poly, ok := g.(orb.Polygon)
	if !ok {
		t.Fatalf("got %T, want orb.Polygon", g)
	}
	if len(poly) != 2 {
		t.Fatalf("rings = %d, want 2 (outer + hole)", len(poly))
	}
}

func TestToGeometryMultiPolygonTwoOuterRings(t *testing.T) {
	a := []orb.Point{{0, 0}, {0, 1}, {1, 1}, {1, 0}, {0, 0}}
	b := []orb.Point{{5, 5}, {5, 6}, {6, 6}, {6, 5}, {5, 5}}
	s := PolyShape([][]orb.Point{a, b})
	finalizeShapeMetrics(s)

	g, err := ToGeometry(s)
	if err != nil {
		t.Fatalf("ToGeometry: %v", err)
	}
	if _, ok := g.(orb.MultiPolygon); !ok {
		t.Fatalf("got %T, want orb.MultiPolygon", g)
	}
}

func TestFromGeometryRoundTrip(t *testing.T) {
	p := orb.Point{3, 4}
	s, err := FromGeometry(p, false, false, nil, nil)
	if err != nil {
		t.Fatalf("FromGeometry: %v", err)
	}
	if s.Type != POINT || s.Points[0] != p {
		t.Errorf("got %+v", s)
	}
}
