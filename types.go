package shapefile

import (
	"github.com/paulmach/orb"
)

// ShapeType is one of the 14 standard shapefile geometry type codes.
type ShapeType int32

const (
	NULL        ShapeType = 0
	POINT       ShapeType = 1
	POLYLINE    ShapeType = 3
	POLYGON     ShapeType = 5
	MULTIPOINT  ShapeType = 8
	POINTZ      ShapeType = 11
	POLYLINEZ   ShapeType = 13
	POLYGONZ    ShapeType = 15
	MULTIPOINTZ ShapeType = 18
	POINTM      ShapeType = 21
	POLYLINEM   ShapeType = 23
	POLYGONM    ShapeType = 25
	MULTIPOINTM ShapeType = 28
	MULTIPATCH  ShapeType = 31
)

// String returns the shape type's canonical name, or "UNKNOWN" for an
// unrecognized code. It is a pure function of the code, per §3.
func (t ShapeType) String() string {
	switch t {
	case NULL:
		return "NULL"
	case POINT:
		return "POINT"
	case POLYLINE:
		return "POLYLINE"
	case POLYGON:
		return "POLYGON"
	case MULTIPOINT:
		return "MULTIPOINT"
	case POINTZ:
		return "POINTZ"
	case POLYLINEZ:
		return "POLYLINEZ"
	case POLYGONZ:
		return "POLYGONZ"
	case MULTIPOINTZ:
		return "MULTIPOINTZ"
	case POINTM:
		return "POINTM"
	case POLYLINEM:
		return "POLYLINEM"
	case POLYGONM:
		return "POLYGONM"
	case MULTIPOINTM:
		return "MULTIPOINTM"
	case MULTIPATCH:
		return "MULTIPATCH"
	default:
		return "UNKNOWN"
	}
}

func (t ShapeType) hasZ() bool {
	switch t {
	case POINTZ, POLYLINEZ, POLYGONZ, MULTIPOINTZ, MULTIPATCH:
		return true
	default:
		return false
	}
}

func (t ShapeType) hasM() bool {
	switch t {
	case POINTZ, POLYLINEZ, POLYGONZ, MULTIPOINTZ, MULTIPATCH,
		POINTM, POLYLINEM, POLYGONM, MULTIPOINTM:
		return true
	default:
		return false
	}
}

func (t ShapeType) isMulti() bool {
	switch t {
	case POLYLINE, POLYGON, MULTIPOINT, POLYLINEZ, POLYGONZ, MULTIPOINTZ,
		POLYLINEM, POLYGONM, MULTIPOINTM, MULTIPATCH:
		return true
	default:
		return false
	}
}

func (t ShapeType) isPoint() bool {
	switch t {
	case POINT, POINTZ, POINTM:
		return true
	default:
		return false
	}
}

// PartType classifies one part of a MultiPatch shape.
type PartType int32

const (
	TRIANGLE_STRIP PartType = 0
	TRIANGLE_FAN   PartType = 1
	OUTER_RING     PartType = 2
	INNER_RING     PartType = 3
	FIRST_RING     PartType = 4
	RING           PartType = 5
)

func (p PartType) String() string {
	switch p {
	case TRIANGLE_STRIP:
		return "TRIANGLE_STRIP"
	case TRIANGLE_FAN:
		return "TRIANGLE_FAN"
	case OUTER_RING:
		return "OUTER_RING"
	case INNER_RING:
		return "INNER_RING"
	case FIRST_RING:
		return "FIRST_RING"
	case RING:
		return "RING"
	default:
		return "UNKNOWN"
	}
}

// Shape is one geometry record: a tagged variant over ShapeType, per §3.
// Z, M, PartTypes and BBox are populated only on the variants that carry
// them.
type Shape struct {
	OID       int
	Type      ShapeType
	Points    []orb.Point
	Parts     []int32 // non-decreasing start indices into Points
	PartTypes []PartType
	Z         []float64
	M         []float64
	BBox      *orb.Bound
	ZRange    [2]float64
	MRange    [2]float64
}

// HasZ reports whether Z holds one entry per point.
func (s *Shape) HasZ() bool { return s.Type.hasZ() }

// HasM reports whether M holds one entry per point (entries individually
// may still be the M "no data" sentinel).
func (s *Shape) HasM() bool { return s.Type.hasM() }

// partSpan returns the [start, end) point range of part i.
func (s *Shape) partSpan(i int) (start, end int) {
	start = int(s.Parts[i])
	if i == len(s.Parts)-1 {
		end = len(s.Points)
	} else {
		end = int(s.Parts[i+1])
	}
	return
}

// FieldDescriptor describes one dbf field: (name, kind, length, decimal).
// kind is one of C, N, F, L, D, M.
type FieldDescriptor struct {
	Name    string
	Kind    byte
	Length  int
	Decimal int
}

// deletionFlag is the synthetic DeletionFlag descriptor every opened dbf
// begins with.
// It is never exposed to callers as a user field.
var deletionFlag = FieldDescriptor{Name: "DeletionFlag", Kind: 'C', Length: 1, Decimal: 0}

// Date is the (Y, M, D) triple used for dbf Date fields.
type Date struct {
	Year, Month, Day int
}

// Record is one dbf attribute row, aligned 1:1 with Fields (the
// DeletionFlag descriptor is excluded). Each Values entry is a string,
// int64, float64, bool, Date, or nil for missing.
type Record struct {
	OID    int
	Fields []FieldDescriptor
	Values []any
}

// Value returns the value of the named field and whether that field
// exists.
func (r *Record) Value(name string) (any, bool) {
	for i, f := range r.Fields {
		if f.Name == name {
			return r.Values[i], true
		}
	}
	return nil, false
}

// Map returns the record as a name -> value dictionary, the Go
// equivalent of pyshp's record.as_dict().
func (r *Record) Map() map[string]any {
	m := make(map[string]any, len(r.Fields))
	for i, f := range r.Fields {
		m[f.Name] = r.Values[i]
	}
	return m
}

// ShapeRecord pairs a Shape with its Record; both carry the same OID.
type ShapeRecord struct {
	OID    int
	Shape  *Shape
	Record *Record
}
