package shapefile

import (
	"testing"

	"github.com/paulmach/orb"
)

func TestPointShapeRoundTrip(t *testing.T) {
	s := PointShape(10, 20)
	finalizeShapeMetrics(s)
	payload, err := encodeShape(s)
	if err != nil {
		t.Fatalf("encodeShape: %v", err)
	}
	got, err := decodeShape(payload, 0)
	if err != nil {
		t.Fatalf("decodeShape: %v", err)
	}
	if got.Type != POINT || got.Points[0] != (orb.Point{10, 20}) {
		t.Errorf("round-trip mismatch: %+v", got)
	}
}

func TestPointZShapeRoundTrip(t *testing.T) {
	s := PointZShape(1, 2, 3, 4)
	finalizeShapeMetrics(s)
	payload, err := encodeShape(s)
	if err != nil {
		t.Fatalf("encodeShape: %v", err)
	}
	got, err := decodeShape(payload, 1)
	if err != nil {
		t.Fatalf("decodeShape: %v", err)
	}
	if got.Z[0] != 3 || got.M[0] != 4 {
		t.Errorf("z/m mismatch: z=%v m=%v", got.Z, got.M)
	}
}

func TestPointZShapeMissingM(t *testing.T) {
	// A truncated PointZ payload (no trailing M float) must decode with
	// M treated as the sentinel, per the optional M-block rule.
	s := PointZShape(1, 2, 3, noDataM)
	finalizeShapeMetrics(s)
	payload, err := encodeShape(s)
	if err != nil {
		t.Fatalf("encodeShape: %v", err)
	}
	truncated := payload[:len(payload)-8] // drop the M float
	got, err := decodeShape(truncated, 0)
	if err != nil {
		t.Fatalf("decodeShape: %v", err)
	}
	if !isNoDataM(got.M[0]) {
		t.Errorf("expected sentinel M, got %v", got.M[0])
	}
}

func TestMultiPointShapeRoundTrip(t *testing.T) {
	pts := []orb.Point{{0, 0}, {1, 1}, {2, 2}}
	s := MultiPointShape(pts)
	finalizeShapeMetrics(s)
	payload, err := encodeShape(s)
	if err != nil {
		t.Fatalf("encodeShape: %v", err)
	}
	got, err := decodeShape(payload, 0)
	if err != nil {
		t.Fatalf("decodeShape: %v", err)
	}
	if len(got.Points) != 3 || got.Points[2] != (orb.Point{2, 2}) {
		t.Errorf("round-trip mismatch: %+v", got.Points)
	}
}

func TestPolygonShapeRoundTrip(t *testing.T) {
	ring := []orb.Point{{0, 0}, {0, 10}, {10, 10}, {10, 0}, {0, 0}}
	s := PolyShape([][]orb.Point{ring})
	finalizeShapeMetrics(s)
	payload, err := encodeShape(s)
	if err != nil {
		t.Fatalf("encodeShape: %v", err)
	}
	got, err := decodeShape(payload, 0)
	if err != nil {
		t.Fatalf("decodeShape: %v", err)
	}
	if len(got.Points) != 5 || len(got.Parts) != 1 {
		t.Errorf("round-trip mismatch: points=%d parts=%d", len(got.Points), len(got.Parts))
	}
}

func TestMultiPatchShapeRoundTrip(t *testing.T) {
	tri := []orb.Point{{0, 0}, {1, 0}, {0, 1}}
	s := MultiPatchShape([][]orb.Point{tri}, []PartType{TRIANGLE_FAN}, [][]float64{{0, 0, 0}}, [][]float64{{1, 1, 1}})
	finalizeShapeMetrics(s)
	payload, err := encodeShape(s)
	if err != nil {
		t.Fatalf("encodeShape: %v", err)
	}
	got, err := decodeShape(payload, 0)
	if err != nil {
		t.Fatalf("decodeShape: %v", err)
	}
	if got.Type != MULTIPATCH || got.PartTypes[0] != TRIANGLE_FAN {
		t.Errorf("round-trip mismatch: %+v", got)
	}
}

func TestDecodeUnknownShapeType(t *testing.T) {
	buf := appendInt32(nil, 99)
	got, err := decodeShape(buf, 0)
	if err != nil {
		t.Fatalf("decodeShape should tolerate unknown types: %v", err)
	}
	if got.Type != ShapeType(99) || len(got.Points) != 0 {
		t.Errorf("expected minimal shape for unknown type, got %+v", got)
	}
}
