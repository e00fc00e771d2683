package shapefile

import "testing"

func TestShxEntryRoundTrip(t *testing.T) {
	e := shxEntry{offset: 50, contentLength: 10}
	got, err := readShxEntry(newMemStream(e.bytes()))
	if err != nil {
		t.Fatalf("readShxEntry: %v", err)
	}
	if got != e {
		t.Errorf("round-trip mismatch: got %+v, want %+v", got, e)
	}
}

func TestReadAllShxEntries(t *testing.T) {
	entries := []shxEntry{{offset: 50, contentLength: 10}, {offset: 68, contentLength: 28}}
	var buf []byte
	for _, e := range entries {
		buf = append(buf, e.bytes()...)
	}
	fileLengthWords := int32((headerLength + len(buf)) / 2)
	got, err := readAllShxEntries(newMemStream(buf), fileLengthWords)
	if err != nil {
		t.Fatalf("readAllShxEntries: %v", err)
	}
	if len(got) != len(entries) {
		t.Fatalf("got %d entries, want %d", len(got), len(entries))
	}
	for i := range entries {
		if got[i] != entries[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], entries[i])
		}
	}
}
