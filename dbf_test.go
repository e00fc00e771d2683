package shapefile

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
)

func utf8Codec(t *testing.T) *textCodec {
	c, err := newTextCodec("utf-8", Strict)
	if err != nil {
		t.Fatalf("newTextCodec: %v", err)
	}
	return c
}

func TestFieldDescriptorRoundTrip(t *testing.T) {
	codec := utf8Codec(t)
	f := FieldDescriptor{Name: "NAME", Kind: 'C', Length: 50, Decimal: 0}
	buf, err := f.bytes(codec)
	if err != nil {
		t.Fatalf("bytes: %v", err)
	}
	if len(buf) != dbfFieldDescSize {
		t.Fatalf("field descriptor length = %d, want %d", len(buf), dbfFieldDescSize)
	}
	got, err := parseFieldDescriptor(buf, codec)
	if err != nil {
		t.Fatalf("parseFieldDescriptor: %v", err)
	}
	if got != f {
		t.Errorf("round-trip mismatch: got %+v, want %+v", got, f)
	}
}

func TestDbfHeaderRoundTrip(t *testing.T) {
	h := &dbfHeader{
		version:    0x03,
		lastUpdate: Date{Year: 2024, Month: 3, Day: 15},
		numRecords: 7,
		headerSize: 97,
		recordSize: 51,
	}
	got, err := readDbfHeader(newMemStream(h.bytes()))
	if err != nil {
		t.Fatalf("readDbfHeader: %v", err)
	}
	if *got != *h {
		t.Errorf("round-trip mismatch: got %+v, want %+v", got, h)
	}
}

func TestEncodeDecodeRecordRowTypeCoverage(t *testing.T) {
	codec := utf8Codec(t)
	fields := []FieldDescriptor{
		{Name: "NAME", Kind: 'C', Length: 10, Decimal: 0},
		{Name: "COUNT", Kind: 'N', Length: 6, Decimal: 0},
		{Name: "AREA", Kind: 'N', Length: 18, Decimal: 10},
		{Name: "ACTIVE", Kind: 'L', Length: 1, Decimal: 0},
		{Name: "FOUNDED", Kind: 'D', Length: 8, Decimal: 0},
	}
	values := []any{"Denver", int64(42), 1.3217328, true, Date{Year: 1858, Month: 11, Day: 22}}

	log := zerolog.Nop()
	row, err := encodeRecordRow(values, fields, codec, &log)
	if err != nil {
		t.Fatalf("encodeRecordRow: %v", err)
	}
	wantLen := 1
	for _, f := range fields {
		wantLen += f.Length
	}
	if len(row) != wantLen {
		t.Fatalf("row length = %d, want %d", len(row), wantLen)
	}
	if row[0] != ' ' {
		t.Fatalf("deletion flag byte = %q, want ' '", row[0])
	}

	got, err := decodeRecordRow(row[1:], fields, nil, codec, &log)
	if err != nil {
		t.Fatalf("decodeRecordRow: %v", err)
	}
	if got[0] != "Denver" {
		t.Errorf("NAME = %v, want Denver", got[0])
	}
	if got[1] != int64(42) {
		t.Errorf("COUNT = %v, want 42", got[1])
	}
	if got[2] != 1.3217328 {
		t.Errorf("AREA = %v, want 1.3217328", got[2])
	}
	if got[3] != true {
		t.Errorf("ACTIVE = %v, want true", got[3])
	}
	if got[4] != (Date{Year: 1858, Month: 11, Day: 22}) {
		t.Errorf("FOUNDED = %v, want 1858-11-22", got[4])
	}
}

func TestDecodeRecordRowFieldSubset(t *testing.T) {
	codec := utf8Codec(t)
	fields := []FieldDescriptor{
		{Name: "A", Kind: 'C', Length: 4, Decimal: 0},
		{Name: "B", Kind: 'C', Length: 4, Decimal: 0},
	}
	log := zerolog.Nop()
	row, err := encodeRecordRow([]any{"foo", "bar"}, fields, codec, &log)
	if err != nil {
		t.Fatalf("encodeRecordRow: %v", err)
	}
	got, err := decodeRecordRow(row[1:], fields, map[string]bool{"B": true}, codec, &log)
	if err != nil {
		t.Fatalf("decodeRecordRow: %v", err)
	}
	if got[0] != nil {
		t.Errorf("A should be skipped, got %v", got[0])
	}
	if got[1] != "bar" {
		t.Errorf("B = %v, want bar", got[1])
	}
}

func TestDecodeFloatKindWithZeroDecimalIsInt(t *testing.T) {
	codec := utf8Codec(t)
	fields := []FieldDescriptor{{Name: "X", Kind: 'F', Length: 10, Decimal: 0}}
	log := zerolog.Nop()
	row, err := encodeRecordRow([]any{int64(5)}, fields, codec, &log)
	if err != nil {
		t.Fatalf("encodeRecordRow: %v", err)
	}
	got, err := decodeRecordRow(row[1:], fields, nil, codec, &log)
	if err != nil {
		t.Fatalf("decodeRecordRow: %v", err)
	}
	if v, ok := got[0].(int64); !ok || v != 5 {
		t.Errorf("X = %v (%T), want int64(5)", got[0], got[0])
	}
}

func TestEncodeCharacterTruncationWarns(t *testing.T) {
	codec := utf8Codec(t)
	f := FieldDescriptor{Name: "NAME", Kind: 'C', Length: 4, Decimal: 0}
	var buf bytes.Buffer
	log := zerolog.New(&buf)
	chunk, err := encodeCharacter("Philadelphia", f, codec, &log)
	if err != nil {
		t.Fatalf("encodeCharacter: %v", err)
	}
	if string(chunk) != "Phil" {
		t.Errorf("truncated value = %q, want %q", chunk, "Phil")
	}
	if buf.Len() == 0 {
		t.Error("expected a warning to be logged on truncation")
	}
}

func TestValidateFieldDescriptor(t *testing.T) {
	if err := validateFieldDescriptor(FieldDescriptor{Name: "X", Kind: 'Q', Length: 5}); err == nil {
		t.Error("expected an error for unknown field kind")
	}
	if err := validateFieldDescriptor(FieldDescriptor{Name: "X", Kind: 'C', Length: 0}); err == nil {
		t.Error("expected an error for zero length")
	}
	if err := validateFieldDescriptor(FieldDescriptor{Name: "X", Kind: 'N', Length: 5, Decimal: 5}); err == nil {
		t.Error("expected an error for decimal >= length")
	}
}
