package shapefile

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// noDataM is the measure "no data" sentinel: this value or anything less
// is missing, and the writer always emits exactly this value for a
// missing M.
const noDataM = -1e38

func isNoDataM(v float64) bool { return v <= noDataM }

// --- little-endian helpers (shp/shx record bodies) ---

func leUint32(b []byte) uint32  { return binary.LittleEndian.Uint32(b) }
func leInt32(b []byte) int32    { return int32(binary.LittleEndian.Uint32(b)) }
func leFloat64(b []byte) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(b))
}

func putLeInt32(b []byte, v int32)    { binary.LittleEndian.PutUint32(b, uint32(v)) }
func putLeUint32(b []byte, v uint32)  { binary.LittleEndian.PutUint32(b, v) }
func putLeFloat64(b []byte, v float64) {
	binary.LittleEndian.PutUint64(b, math.Float64bits(v))
}

// --- big-endian helpers (shp/shx file headers, record framing) ---

func beInt32(b []byte) int32 { return int32(binary.BigEndian.Uint32(b)) }

func putBeInt32(b []byte, v int32) { binary.BigEndian.PutUint32(b, uint32(v)) }

// --- dbf fixed-width ASCII numeric formatting/parsing ---

// formatNumeric right-justifies v in a field of the given width, using
// decimal fractional digits. It fails if the formatted representation
// does not fit.
func formatNumeric(v float64, width, decimal int) (string, error) {
	var s string
	if decimal == 0 && v == math.Trunc(v) {
		s = strconv.FormatInt(int64(v), 10)
	} else {
		s = strconv.FormatFloat(v, 'f', decimal, 64)
	}
	if len(s) > width {
		return "", newValueError("%v: formatted numeric %q exceeds field width %d", v, s, width)
	}
	return fmt.Sprintf("%*s", width, s), nil
}

// parseNumeric parses a right-justified ASCII numeric field. Empty,
// space-only, or otherwise unparseable content is reported as missing
// via ok=false rather than an error, per §4.4.
func parseNumeric(raw string) (value float64, ok bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
