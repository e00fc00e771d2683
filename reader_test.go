package shapefile

import (
	"testing"

	"github.com/paulmach/orb"
)

func buildGrid(t *testing.T, withShx bool) (*memBuf, *memBuf, *memBuf) {
	shp, shx, dbf := &memBuf{}, &memBuf{}, &memBuf{}
	ws := WriteStreams{Shp: shp, Dbf: dbf}
	if withShx {
		ws.Shx = shx
	}
	w, err := NewWriter(ws, POINT, Options{})
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if err := w.Field("ID", 'N', 6, 0); err != nil {
		t.Fatalf("Field: %v", err)
	}
	for x := 0; x < 10; x++ {
		for y := 0; y < 10; y++ {
			if err := w.Shape(PointShape(float64(x), float64(y))); err != nil {
				t.Fatalf("Shape: %v", err)
			}
			if err := w.Record(int64(x*10 + y)); err != nil {
				t.Fatalf("Record: %v", err)
			}
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return shp, shx, dbf
}

func TestIterShapesBBoxPrefilter(t *testing.T) {
	shp, shx, dbf := buildGrid(t, true)
	r, err := NewReader(Streams{Shp: shp, Shx: shx, Dbf: dbf}, Options{})
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	bbox := orb.Bound{Min: orb.Point{1, 1}, Max: orb.Point{3, 3}}
	it := r.IterShapes(&bbox)
	count := 0
	for it.Next() {
		count++
	}
	if it.Err() != nil {
		t.Fatalf("iteration error: %v", it.Err())
	}
	if count != 9 {
		t.Errorf("matched %d points, want 9 (the 3x3 grid from (1,1) to (3,3))", count)
	}
}

func TestReaderMissingShxLinearScan(t *testing.T) {
	shp, _, dbf := buildGrid(t, false)
	r, err := NewReader(Streams{Shp: shp, Dbf: dbf}, Options{})
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	if r.Len() != 100 {
		t.Fatalf("Len() = %d, want 100", r.Len())
	}
	sh, err := r.Shape(55)
	if err != nil {
		t.Fatalf("Shape(55): %v", err)
	}
	if sh.Points[0] != (orb.Point{5, 5}) {
		t.Errorf("Shape(55) = %v, want (5,5)", sh.Points[0])
	}
	// A second random-access read should reuse the memoized scan table
	// rather than rescanning from the start.
	sh2, err := r.Shape(12)
	if err != nil {
		t.Fatalf("Shape(12): %v", err)
	}
	if sh2.Points[0] != (orb.Point{1, 2}) {
		t.Errorf("Shape(12) = %v, want (1,2)", sh2.Points[0])
	}
}

func TestReaderOutOfRangeShape(t *testing.T) {
	shp, shx, dbf := buildGrid(t, true)
	r, err := NewReader(Streams{Shp: shp, Shx: shx, Dbf: dbf}, Options{})
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	if _, err := r.Shape(1000); err == nil {
		t.Fatal("expected an out-of-range error")
	} else if _, ok := err.(*OutOfRangeError); !ok {
		t.Errorf("expected *OutOfRangeError, got %T", err)
	}
}

func TestIterShapeRecords(t *testing.T) {
	shp, shx, dbf := buildGrid(t, true)
	r, err := NewReader(Streams{Shp: shp, Shx: shx, Dbf: dbf}, Options{})
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	it := r.IterShapeRecords(nil, nil)
	count := 0
	for it.Next() {
		sr := it.ShapeRecord()
		if sr.OID != count {
			t.Fatalf("oid = %d, want %d", sr.OID, count)
		}
		count++
	}
	if it.Err() != nil {
		t.Fatalf("iteration error: %v", it.Err())
	}
	if count != 100 {
		t.Errorf("count = %d, want 100", count)
	}
}
