package shapefile

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

const (
	dbfHeaderSize    = 32
	dbfFieldDescSize = 32
	dbfTerminator    = 0x0D
	dbfEOF           = 0x1A
	maxDbfFields     = 2046 // (65535 header bytes - 32-byte header - 1 terminator byte) / 32, rounded down
)

// dbfHeader is the 32-byte dbf file header, per §4.4.
type dbfHeader struct {
	version    byte
	lastUpdate Date
	numRecords int32
	headerSize int16
	recordSize int16
}

func readDbfHeader(r ByteReader) (*dbfHeader, error) {
	buf := make([]byte, dbfHeaderSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, wrapIOError(err, "reading dbf header")
	}
	h := &dbfHeader{
		version: buf[0],
		lastUpdate: Date{
			Year:  1900 + int(buf[1]),
			Month: int(buf[2]),
			Day:   int(buf[3]),
		},
		numRecords: leInt32(buf[4:8]),
		headerSize: int16(buf[8]) | int16(buf[9])<<8,
		recordSize: int16(buf[10]) | int16(buf[11])<<8,
	}
	return h, nil
}

func (h *dbfHeader) bytes() []byte {
	buf := make([]byte, dbfHeaderSize)
	buf[0] = 0x03
	y := h.lastUpdate.Year - 1900
	if y < 0 {
		y = 0
	}
	buf[1] = byte(y)
	buf[2] = byte(h.lastUpdate.Month)
	buf[3] = byte(h.lastUpdate.Day)
	putLeInt32(buf[4:8], h.numRecords)
	buf[8] = byte(h.headerSize)
	buf[9] = byte(h.headerSize >> 8)
	buf[10] = byte(h.recordSize)
	buf[11] = byte(h.recordSize >> 8)
	return buf
}

func readFieldDescriptor(r ByteReader, codec *textCodec) (FieldDescriptor, error) {
	buf := make([]byte, dbfFieldDescSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return FieldDescriptor{}, wrapIOError(err, "reading field descriptor")
	}
	return parseFieldDescriptor(buf, codec)
}

func parseFieldDescriptor(buf []byte, codec *textCodec) (FieldDescriptor, error) {
	nameRaw := trimNullPadding(buf[0:11])
	name, err := codec.decode(nameRaw)
	if err != nil {
		return FieldDescriptor{}, err
	}
	return FieldDescriptor{
		Name:    name,
		Kind:    buf[11],
		Length:  int(buf[16]),
		Decimal: int(buf[17]),
	}, nil
}

func (f FieldDescriptor) bytes(codec *textCodec) ([]byte, error) {
	buf := make([]byte, dbfFieldDescSize)
	nameBytes, err := codec.encode(f.Name)
	if err != nil {
		return nil, err
	}
	if len(nameBytes) > 10 {
		nameBytes = nameBytes[:10]
	}
	copy(buf[0:11], nameBytes) // byte 11 of the slot stays \0, the terminator
	buf[11] = f.Kind
	buf[16] = byte(f.Length)
	buf[17] = byte(f.Decimal)
	return buf, nil
}

func trimNullPadding(b []byte) []byte {
	for i, c := range b {
		if c == 0 {
			return b[:i]
		}
	}
	return b
}

// defaultFieldLength gives Writer.Field its documented default width, per §4.7.
func defaultFieldLength(kind byte) int {
	switch kind {
	case 'C':
		return 50
	case 'N', 'F':
		return 10
	case 'L':
		return 1
	case 'D':
		return 8
	case 'M':
		return 10
	default:
		return 0
	}
}

func validateFieldDescriptor(f FieldDescriptor) error {
	switch f.Kind {
	case 'C', 'N', 'F', 'L', 'D', 'M':
	default:
		return newSchemaError("unknown field kind %q", string(f.Kind))
	}
	if f.Length < 1 || f.Length > 255 {
		return newSchemaError("field %q: length %d out of range [1,255]", f.Name, f.Length)
	}
	if (f.Kind == 'N' || f.Kind == 'F') && (f.Decimal < 0 || f.Decimal >= f.Length) {
		return newSchemaError("field %q: decimal %d out of range for length %d", f.Name, f.Decimal, f.Length)
	}
	return nil
}

// decodeRecordRow parses one fixed-width attribute row (excluding the
// leading deletion-flag byte) into values aligned with fields. Fields
// absent from want (when want is non-nil) are still skipped by their
// fixed width, but not parsed, per §4.6's field-subset contract.
func decodeRecordRow(raw []byte, fields []FieldDescriptor, want map[string]bool, codec *textCodec, log *zerolog.Logger) ([]any, error) {
	values := make([]any, len(fields))
	offset := 0
	for i, f := range fields {
		chunk := raw[offset : offset+f.Length]
		offset += f.Length
		if want != nil && !want[f.Name] {
			continue
		}
		v, err := decodeFieldValue(chunk, f, codec, log)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

func decodeFieldValue(chunk []byte, f FieldDescriptor, codec *textCodec, log *zerolog.Logger) (any, error) {
	switch f.Kind {
	case 'C', 'M':
		// M is an opaque 10-byte memo pointer block, not interpreted
		// semantically, per §4.4, but decoded as text like C for display.
		s, err := codec.decode(bytes.TrimRight(chunk, " \x00"))
		if err != nil {
			return nil, err
		}
		return s, nil
	case 'N', 'F':
		v, ok := parseNumeric(string(chunk))
		if !ok {
			return nil, nil
		}
		if f.Decimal == 0 {
			return int64(v), nil
		}
		return v, nil
	case 'L':
		return decodeLogical(chunk, log)
	case 'D':
		return decodeDate(chunk, log)
	default:
		return nil, nil
	}
}

func decodeLogical(chunk []byte, log *zerolog.Logger) (any, error) {
	if len(chunk) == 0 {
		return nil, nil
	}
	switch chunk[0] {
	case 'T', 't', 'Y', 'y', '1':
		return true, nil
	case 'F', 'f', 'N', 'n', '0':
		return false, nil
	case '?', ' ':
		return nil, nil
	default:
		log.Warn().Str("value", string(chunk)).Msg("dbf: unrecognized logical value, treating as missing")
		return nil, nil
	}
}

func decodeDate(chunk []byte, log *zerolog.Logger) (any, error) {
	s := strings.TrimSpace(string(chunk))
	if s == "" {
		return nil, nil
	}
	if len(s) != 8 || !isAllDigits(s) {
		log.Warn().Str("value", s).Msg("dbf: date field is not 8 digits, returning raw text")
		return s, nil
	}
	y, _ := strconv.Atoi(s[0:4])
	m, _ := strconv.Atoi(s[4:6])
	d, _ := strconv.Atoi(s[6:8])
	return Date{Year: y, Month: m, Day: d}, nil
}

func isAllDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// encodeRecordRow serializes values against fields into one fixed-width
// row, including the leading live (' ') deletion-flag byte.
func encodeRecordRow(values []any, fields []FieldDescriptor, codec *textCodec, log *zerolog.Logger) ([]byte, error) {
	if len(values) < len(fields) {
		padded := make([]any, len(fields))
		copy(padded, values)
		values = padded
	}
	row := []byte{' '}
	for i, f := range fields {
		chunk, err := encodeFieldValue(values[i], f, codec, log)
		if err != nil {
			return nil, err
		}
		row = append(row, chunk...)
	}
	return row, nil
}

func encodeFieldValue(v any, f FieldDescriptor, codec *textCodec, log *zerolog.Logger) ([]byte, error) {
	switch f.Kind {
	case 'C', 'M':
		return encodeCharacter(v, f, codec, log)
	case 'N', 'F':
		return encodeNumericField(v, f)
	case 'L':
		return encodeLogicalField(v)
	case 'D':
		return encodeDateField(v, f)
	default:
		return nil, newSchemaError("unknown field kind %q", string(f.Kind))
	}
}

func encodeCharacter(v any, f FieldDescriptor, codec *textCodec, log *zerolog.Logger) ([]byte, error) {
	s, _ := v.(string)
	raw, err := codec.encode(s)
	if err != nil {
		return nil, err
	}
	if len(raw) > f.Length {
		log.Warn().Str("field", f.Name).Int("length", f.Length).Int("encoded", len(raw)).Msg("dbf: character value truncated to declared field length")
		raw = raw[:f.Length]
	}
	out := make([]byte, f.Length)
	copy(out, raw)
	for i := len(raw); i < f.Length; i++ {
		out[i] = ' '
	}
	return out, nil
}

func encodeNumericField(v any, f FieldDescriptor) ([]byte, error) {
	if v == nil {
		return bytes.Repeat([]byte{' '}, f.Length), nil
	}
	var num float64
	switch x := v.(type) {
	case int:
		num = float64(x)
	case int64:
		num = float64(x)
	case float64:
		num = x
	default:
		return nil, newValueError("field %q: %v is not numeric", f.Name, v)
	}
	s, err := formatNumeric(num, f.Length, f.Decimal)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

func encodeLogicalField(v any) ([]byte, error) {
	if v == nil {
		return []byte{'?'}, nil
	}
	b, ok := v.(bool)
	if !ok {
		return nil, newValueError("%v is not a boolean", v)
	}
	if b {
		return []byte{'T'}, nil
	}
	return []byte{'F'}, nil
}

func encodeDateField(v any, f FieldDescriptor) ([]byte, error) {
	if v == nil {
		return bytes.Repeat([]byte{' '}, f.Length), nil
	}
	var d Date
	switch x := v.(type) {
	case Date:
		d = x
	case [3]int:
		d = Date{Year: x[0], Month: x[1], Day: x[2]}
	case string:
		if len(x) != 8 || !isAllDigits(x) {
			return nil, newValueError("%q is not an 8-digit date", x)
		}
		return []byte(x), nil
	default:
		return nil, newValueError("%v is not a date", v)
	}
	return []byte(strconv.Itoa(d.Year*10000 + d.Month*100 + d.Day)), nil
}
