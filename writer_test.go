package shapefile

import (
	"testing"

	"github.com/paulmach/orb"
)

func TestWriterReaderPointRoundTrip(t *testing.T) {
	shp, shx, dbf := &memBuf{}, &memBuf{}, &memBuf{}
	w, err := NewWriter(WriteStreams{Shp: shp, Shx: shx, Dbf: dbf}, POINT, Options{})
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if err := w.Field("NAME", 'C', 20, 0); err != nil {
		t.Fatalf("Field: %v", err)
	}
	if err := w.Shape(PointShape(1, 1)); err != nil {
		t.Fatalf("Shape: %v", err)
	}
	if err := w.Record("first"); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if len(shp.data) != 128 {
		t.Errorf("shp length = %d, want 128", len(shp.data))
	}
	if len(shx.data) != 108 {
		t.Errorf("shx length = %d, want 108", len(shx.data))
	}

	r, err := NewReader(Streams{Shp: shp, Shx: shx, Dbf: dbf}, Options{})
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	if r.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", r.Len())
	}
	sh, err := r.Shape(0)
	if err != nil {
		t.Fatalf("Shape(0): %v", err)
	}
	if sh.Points[0] != (orb.Point{1, 1}) {
		t.Errorf("Points[0] = %v, want {1,1}", sh.Points[0])
	}
	rec, err := r.Record(0)
	if err != nil {
		t.Fatalf("Record(0): %v", err)
	}
	if v, _ := rec.Value("NAME"); v != "first" {
		t.Errorf("NAME = %v, want first", v)
	}
}

func TestWriterPolygonAutoClose(t *testing.T) {
	shp, shx, dbf := &memBuf{}, &memBuf{}, &memBuf{}
	w, err := NewWriter(WriteStreams{Shp: shp, Shx: shx, Dbf: dbf}, POLYGON, Options{})
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if err := w.Field("ID", 'N', 6, 0); err != nil {
		t.Fatalf("Field: %v", err)
	}
	open := []orb.Point{{0, 0}, {0, 10}, {10, 10}, {10, 0}} // not explicitly closed
	if err := w.Shape(PolyShape([][]orb.Point{open})); err != nil {
		t.Fatalf("Shape: %v", err)
	}
	if err := w.Record(int64(1)); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r, err := NewReader(Streams{Shp: shp, Shx: shx, Dbf: dbf}, Options{})
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	sh, err := r.Shape(0)
	if err != nil {
		t.Fatalf("Shape(0): %v", err)
	}
	if len(sh.Points) != 5 {
		t.Fatalf("points = %d, want 5 (ring auto-closed)", len(sh.Points))
	}
	if sh.Points[0] != sh.Points[4] {
		t.Errorf("ring not closed: first=%v last=%v", sh.Points[0], sh.Points[4])
	}
}

func TestWriterRejectsDegenerateRing(t *testing.T) {
	shp, dbf := &memBuf{}, &memBuf{}
	w, err := NewWriter(WriteStreams{Shp: shp, Dbf: dbf}, POLYGON, Options{})
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if err := w.Field("ID", 'N', 6, 0); err != nil {
		t.Fatalf("Field: %v", err)
	}
	degenerate := []orb.Point{{0, 0}, {1, 1}}
	if err := w.Shape(PolyShape([][]orb.Point{degenerate})); err == nil {
		t.Fatal("expected an error for a ring with fewer than 3 distinct points")
	}
}

func TestWriterAutoBalance(t *testing.T) {
	shp, shx, dbf := &memBuf{}, &memBuf{}, &memBuf{}
	w, err := NewWriter(WriteStreams{Shp: shp, Shx: shx, Dbf: dbf}, POINT, Options{AutoBalance: true})
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if err := w.Field("ID", 'N', 6, 0); err != nil {
		t.Fatalf("Field: %v", err)
	}
	if err := w.Shape(PointShape(0, 0)); err != nil {
		t.Fatalf("Shape: %v", err)
	}
	if err := w.Shape(PointShape(1, 1)); err != nil {
		t.Fatalf("Shape: %v", err)
	}
	if err := w.Record(int64(1)); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r, err := NewReader(Streams{Shp: shp, Shx: shx, Dbf: dbf}, Options{})
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	// Each shape is padded with a null record right away, and the third
	// record is then padded with a null shape.
	if r.Len() != 3 {
		t.Fatalf("Len() = %d, want 3 (auto-balanced)", r.Len())
	}
}

func TestWriterBBoxFileLevelAccumulation(t *testing.T) {
	shp, shx, dbf := &memBuf{}, &memBuf{}, &memBuf{}
	w, err := NewWriter(WriteStreams{Shp: shp, Shx: shx, Dbf: dbf}, POINT, Options{})
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if err := w.Field("ID", 'N', 6, 0); err != nil {
		t.Fatalf("Field: %v", err)
	}
	for i, p := range []orb.Point{{0, 0}, {5, -5}, {-5, 5}} {
		if err := w.Shape(PointShape(p[0], p[1])); err != nil {
			t.Fatalf("Shape: %v", err)
		}
		if err := w.Record(int64(i)); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	r, err := NewReader(Streams{Shp: shp, Shx: shx, Dbf: dbf}, Options{})
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	bb := r.BBox()
	if bb.Min != (orb.Point{-5, -5}) || bb.Max != (orb.Point{5, 5}) {
		t.Errorf("file bbox = %v, want min(-5,-5) max(5,5)", bb)
	}
}
