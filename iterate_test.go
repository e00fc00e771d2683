package shapefile

import "testing"

func TestIterRecordsFieldSubset(t *testing.T) {
	shp, shx, dbf := &memBuf{}, &memBuf{}, &memBuf{}
	w, err := NewWriter(WriteStreams{Shp: shp, Shx: shx, Dbf: dbf}, POINT, Options{})
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if err := w.Field("A", 'C', 5, 0); err != nil {
		t.Fatalf("Field: %v", err)
	}
	if err := w.Field("B", 'N', 6, 0); err != nil {
		t.Fatalf("Field: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := w.Shape(PointShape(float64(i), float64(i))); err != nil {
			t.Fatalf("Shape: %v", err)
		}
		if err := w.Record("x", int64(i)); err != nil {
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
	it := r.IterRecords([]string{"B"})
	var got []any
	for it.Next() {
		v, ok := it.Record().Value("B")
		if !ok {
			t.Fatal("B should be present")
		}
		got = append(got, v)
		if av, _ := it.Record().Value("A"); av != nil {
			t.Errorf("A should be excluded from the requested subset, got %v", av)
		}
	}
	if it.Err() != nil {
		t.Fatalf("iteration error: %v", it.Err())
	}
	if len(got) != 3 {
		t.Fatalf("got %d records, want 3", len(got))
	}
}

func TestIterShapesRestartable(t *testing.T) {
	shp, shx, dbf := buildGrid(t, true)
	r, err := NewReader(Streams{Shp: shp, Shx: shx, Dbf: dbf}, Options{})
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	first := 0
	for it := r.IterShapes(nil); it.Next(); {
		first++
	}
	second := 0
	for it := r.IterShapes(nil); it.Next(); {
		second++
	}
	if first != second || first != 100 {
		t.Fatalf("restarted iteration counts differ: %d vs %d, want 100 both", first, second)
	}
}
