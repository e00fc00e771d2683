package shapefile

import (
	"github.com/paulmach/orb"
)

// payloadCursor walks a shape's payload bytes (the content already
// framed by the record's declared content length) left to right.
type payloadCursor struct {
	buf []byte
	pos int
}

func (c *payloadCursor) remaining() int { return len(c.buf) - c.pos }

func (c *payloadCursor) need(n int) error {
	if c.remaining() < n {
		return newMalformedFileError("shape record: need %d more bytes, have %d", n, c.remaining())
	}
	return nil
}

func (c *payloadCursor) int32() (int32, error) {
	if err := c.need(4); err != nil {
		return 0, err
	}
	v := leInt32(c.buf[c.pos : c.pos+4])
	c.pos += 4
	return v, nil
}

func (c *payloadCursor) float64() (float64, error) {
	if err := c.need(8); err != nil {
		return 0, err
	}
	v := leFloat64(c.buf[c.pos : c.pos+8])
	c.pos += 8
	return v, nil
}

func (c *payloadCursor) point() (orb.Point, error) {
	x, err := c.float64()
	if err != nil {
		return orb.Point{}, err
	}
	y, err := c.float64()
	if err != nil {
		return orb.Point{}, err
	}
	return orb.Point{x, y}, nil
}

func (c *payloadCursor) bound() (orb.Bound, error) {
	xmin, err := c.float64()
	if err != nil {
		return orb.Bound{}, err
	}
	ymin, err := c.float64()
	if err != nil {
		return orb.Bound{}, err
	}
	xmax, err := c.float64()
	if err != nil {
		return orb.Bound{}, err
	}
	ymax, err := c.float64()
	if err != nil {
		return orb.Bound{}, err
	}
	return orb.Bound{Min: orb.Point{xmin, ymin}, Max: orb.Point{xmax, ymax}}, nil
}

func (c *payloadCursor) points(n int32) ([]orb.Point, error) {
	if err := c.need(int(n) * 16); err != nil {
		return nil, err
	}
	pts := make([]orb.Point, n)
	for i := range pts {
		pts[i], _ = c.point()
	}
	return pts, nil
}

func (c *payloadCursor) int32s(n int32) ([]int32, error) {
	if err := c.need(int(n) * 4); err != nil {
		return nil, err
	}
	out := make([]int32, n)
	for i := range out {
		out[i], _ = c.int32()
	}
	return out, nil
}

func (c *payloadCursor) float64s(n int32) ([]float64, error) {
	if err := c.need(int(n) * 8); err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i := range out {
		out[i], _ = c.float64()
	}
	return out, nil
}

// decodeShape parses one shape record's content (the bytes immediately
// after the record's framing, exactly contentLength*2 bytes long) into a
// Shape. Unknown shape-type codes yield a minimal Null-equivalent shape
// rather than failing, per §7.
func decodeShape(buf []byte, oid int) (*Shape, error) {
	c := &payloadCursor{buf: buf}
	rawType, err := c.int32()
	if err != nil {
		return nil, err
	}
	t := ShapeType(rawType)

	switch t {
	case NULL:
		return &Shape{OID: oid, Type: NULL}, nil
	case POINT, POINTM, POINTZ:
		return decodePoint(c, oid, t)
	case MULTIPOINT, MULTIPOINTM, MULTIPOINTZ:
		return decodeMultiPoint(c, oid, t)
	case POLYLINE, POLYGON, POLYLINEM, POLYGONM, POLYLINEZ, POLYGONZ:
		return decodePolyOrLine(c, oid, t)
	case MULTIPATCH:
		return decodeMultiPatch(c, oid)
	default:
		return &Shape{OID: oid, Type: t}, nil
	}
}

func decodePoint(c *payloadCursor, oid int, t ShapeType) (*Shape, error) {
	p, err := c.point()
	if err != nil {
		return nil, err
	}
	s := &Shape{OID: oid, Type: t, Points: []orb.Point{p}, Parts: []int32{0}}
	bb := orb.Bound{Min: p, Max: p}
	s.BBox = &bb
	if t == POINTZ {
		z, err := c.float64()
		if err != nil {
			return nil, err
		}
		s.Z = []float64{z}
	}
	if t.hasM() {
		m := noDataM
		if c.remaining() >= 8 {
			m, _ = c.float64()
		}
		s.M = []float64{m}
	}
	return s, nil
}

func decodeMultiPoint(c *payloadCursor, oid int, t ShapeType) (*Shape, error) {
	bb, err := c.bound()
	if err != nil {
		return nil, err
	}
	n, err := c.int32()
	if err != nil {
		return nil, err
	}
	pts, err := c.points(n)
	if err != nil {
		return nil, err
	}
	s := &Shape{OID: oid, Type: t, Points: pts, Parts: []int32{0}, BBox: &bb}
	if t == MULTIPOINTZ {
		if err := decodeZBlock(c, s, n); err != nil {
			return nil, err
		}
	}
	if t.hasM() {
		decodeMBlock(c, s, n)
	}
	return s, nil
}

func decodePolyOrLine(c *payloadCursor, oid int, t ShapeType) (*Shape, error) {
	bb, err := c.bound()
	if err != nil {
		return nil, err
	}
	numParts, err := c.int32()
	if err != nil {
		return nil, err
	}
	numPoints, err := c.int32()
	if err != nil {
		return nil, err
	}
	parts, err := c.int32s(numParts)
	if err != nil {
		return nil, err
	}
	pts, err := c.points(numPoints)
	if err != nil {
		return nil, err
	}
	s := &Shape{OID: oid, Type: t, Points: pts, Parts: parts, BBox: &bb}
	if t == POLYLINEZ || t == POLYGONZ {
		if err := decodeZBlock(c, s, numPoints); err != nil {
			return nil, err
		}
	}
	if t.hasM() {
		decodeMBlock(c, s, numPoints)
	}
	return s, nil
}

func decodeMultiPatch(c *payloadCursor, oid int) (*Shape, error) {
	bb, err := c.bound()
	if err != nil {
		return nil, err
	}
	numParts, err := c.int32()
	if err != nil {
		return nil, err
	}
	numPoints, err := c.int32()
	if err != nil {
		return nil, err
	}
	parts, err := c.int32s(numParts)
	if err != nil {
		return nil, err
	}
	rawPartTypes, err := c.int32s(numParts)
	if err != nil {
		return nil, err
	}
	partTypes := make([]PartType, len(rawPartTypes))
	for i, v := range rawPartTypes {
		partTypes[i] = PartType(v)
	}
	pts, err := c.points(numPoints)
	if err != nil {
		return nil, err
	}
	s := &Shape{OID: oid, Type: MULTIPATCH, Points: pts, Parts: parts, PartTypes: partTypes, BBox: &bb}
	if err := decodeZBlock(c, s, numPoints); err != nil {
		return nil, err
	}
	decodeMBlock(c, s, numPoints)
	return s, nil
}

// decodeZBlock reads the mandatory z-range + z-array block.
func decodeZBlock(c *payloadCursor, s *Shape, n int32) error {
	zr, err := c.bound()
	if err != nil {
		return err
	}
	s.ZRange = [2]float64{zr.Min[0], zr.Min[1]}
	zs, err := c.float64s(n)
	if err != nil {
		return err
	}
	s.Z = zs
	return nil
}

// decodeMBlock reads the optional m-range + m-array block. The block may
// be entirely absent if the declared content length stops before it;
// this is detected via remaining(), and missing M is treated as all
// sentinel, per §4.2.
func decodeMBlock(c *payloadCursor, s *Shape, n int32) {
	if c.remaining() < 16+int(n)*8 {
		s.M = makeSentinelM(int(n))
		return
	}
	mr, _ := c.bound()
	s.MRange = [2]float64{mr.Min[0], mr.Min[1]}
	ms, _ := c.float64s(n)
	s.M = ms
}

func makeSentinelM(n int) []float64 {
	m := make([]float64, n)
	for i := range m {
		m[i] = noDataM
	}
	return m
}

// --- encode ---

func appendInt32(buf []byte, v int32) []byte {
	var b [4]byte
	putLeInt32(b[:], v)
	return append(buf, b[:]...)
}

func appendFloat64(buf []byte, v float64) []byte {
	var b [8]byte
	putLeFloat64(b[:], v)
	return append(buf, b[:]...)
}

func appendPoint(buf []byte, p orb.Point) []byte {
	buf = appendFloat64(buf, p[0])
	buf = appendFloat64(buf, p[1])
	return buf
}

func appendBound(buf []byte, b orb.Bound) []byte {
	buf = appendFloat64(buf, b.Min[0])
	buf = appendFloat64(buf, b.Min[1])
	buf = appendFloat64(buf, b.Max[0])
	buf = appendFloat64(buf, b.Max[1])
	return buf
}

// encodeShape serializes a Shape's payload: shape type followed by its
// type-specific body, per §4.2. The caller frames it with a record
// number and content length.
func encodeShape(s *Shape) ([]byte, error) {
	buf := appendInt32(nil, int32(s.Type))
	switch {
	case s.Type == NULL:
		return buf, nil
	case s.Type.isPoint():
		return encodePointPayload(buf, s)
	case s.Type == MULTIPATCH:
		return encodeMultiPatchPayload(buf, s)
	case s.Type == MULTIPOINT || s.Type == MULTIPOINTZ || s.Type == MULTIPOINTM:
		return encodeMultiPointPayload(buf, s)
	case s.Type.isMulti():
		return encodePolyPayload(buf, s)
	default:
		return nil, newSchemaError("unknown shape type %d", s.Type)
	}
}

func encodePointPayload(buf []byte, s *Shape) ([]byte, error) {
	if len(s.Points) != 1 {
		return nil, newSchemaError("%s requires exactly one point, got %d", s.Type, len(s.Points))
	}
	buf = appendPoint(buf, s.Points[0])
	if s.Type == POINTZ {
		buf = appendFloat64(buf, zAt(s, 0))
	}
	if s.Type.hasM() {
		buf = appendFloat64(buf, mAt(s, 0))
	}
	return buf, nil
}

// encodeMultiPointPayload: type, bbox4, numPoints, points, [zrange,zs], [mrange,ms].
func encodeMultiPointPayload(buf []byte, s *Shape) ([]byte, error) {
	bb := s.BBox
	if bb == nil {
		return nil, newSchemaError("%s: missing bounding box", s.Type)
	}
	buf = appendBound(buf, *bb)
	buf = appendInt32(buf, int32(len(s.Points)))
	for _, p := range s.Points {
		buf = appendPoint(buf, p)
	}
	if s.Type.hasZ() {
		buf = appendZBlock(buf, s)
	}
	if s.Type.hasM() {
		buf = appendMBlock(buf, s)
	}
	return buf, nil
}

// encodePolyPayload: type, bbox4, numParts, numPoints, partOffsets,
// points, [zrange,zs], [mrange,ms]. Used by PolyLine/Polygon variants.
func encodePolyPayload(buf []byte, s *Shape) ([]byte, error) {
	bb := s.BBox
	if bb == nil {
		return nil, newSchemaError("%s: missing bounding box", s.Type)
	}
	buf = appendBound(buf, *bb)
	buf = appendInt32(buf, int32(len(s.Parts)))
	buf = appendInt32(buf, int32(len(s.Points)))
	for _, p := range s.Parts {
		buf = appendInt32(buf, p)
	}
	for _, p := range s.Points {
		buf = appendPoint(buf, p)
	}
	if s.Type.hasZ() {
		buf = appendZBlock(buf, s)
	}
	if s.Type.hasM() {
		buf = appendMBlock(buf, s)
	}
	return buf, nil
}

func encodeMultiPatchPayload(buf []byte, s *Shape) ([]byte, error) {
	bb := s.BBox
	if bb == nil {
		return nil, newSchemaError("MULTIPATCH: missing bounding box")
	}
	buf = appendBound(buf, *bb)
	buf = appendInt32(buf, int32(len(s.Parts)))
	buf = appendInt32(buf, int32(len(s.Points)))
	for _, p := range s.Parts {
		buf = appendInt32(buf, p)
	}
	for _, pt := range s.PartTypes {
		buf = appendInt32(buf, int32(pt))
	}
	for _, p := range s.Points {
		buf = appendPoint(buf, p)
	}
	buf = appendZBlock(buf, s)
	buf = appendMBlock(buf, s)
	return buf, nil
}

func appendZBlock(buf []byte, s *Shape) []byte {
	buf = appendFloat64(buf, s.ZRange[0])
	buf = appendFloat64(buf, s.ZRange[1])
	for i := range s.Points {
		buf = appendFloat64(buf, zAt(s, i))
	}
	return buf
}

func appendMBlock(buf []byte, s *Shape) []byte {
	buf = appendFloat64(buf, s.MRange[0])
	buf = appendFloat64(buf, s.MRange[1])
	for i := range s.Points {
		buf = appendFloat64(buf, mAt(s, i))
	}
	return buf
}

func zAt(s *Shape, i int) float64 {
	if i < len(s.Z) {
		return s.Z[i]
	}
	return 0
}

func mAt(s *Shape, i int) float64 {
	if i < len(s.M) {
		v := s.M[i]
		if isNoDataM(v) {
			return noDataM
		}
		return v
	}
	return noDataM
}
