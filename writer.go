package shapefile

import (
	"io"
	"time"

	"github.com/paulmach/orb"
	"github.com/rs/zerolog"

	"github.com/GeospatialPython/pyshp/geo"
)

// WriteStreams bundles the output streams a Writer operates over. Any
// subset of Shp/Shx/Dbf may be nil. Prj/Cpg text is staged separately
// with Writer.SetPrj/SetCpg for a container adapter to write after Close.
type WriteStreams struct {
	Shp ByteWriter
	Shx ByteWriter
	Dbf ByteWriter
}

// Writer streams shape and attribute records to disk in a single pass,
// per §4.7. Headers are finalized on Close; until then the shp/shx
// headers are placeholder zero bytes.
type Writer struct {
	shp, shx, dbf ByteWriter
	opts          Options
	codec         *textCodec
	log           *zerolog.Logger

	shapeType    ShapeType
	shapeTypeSet bool

	fields       []FieldDescriptor
	fieldsLocked bool

	shpNum int // shapes appended so far
	recNum int // records appended so far

	shpOffset int64 // next write position in shp, bytes

	haveBBox           bool
	bbox               orb.Bound
	haveZRange         bool
	zRange             [2]float64
	haveMRange         bool
	mRange             [2]float64

	prj, cpg string

	closed bool
}

// NewWriter opens a Writer over the given streams, reserving the 100-byte
// shp/shx header placeholders immediately, per §4.7. shapeType fixes the
// file's shape type; pass NULL to let it default to the first non-null
// shape written.
func NewWriter(s WriteStreams, shapeType ShapeType, opts Options) (*Writer, error) {
	if s.Shp == nil && s.Dbf == nil {
		return nil, newSchemaError("a shapefile writer requires at least one of shp or dbf")
	}
	opts = opts.withDefaults()
	codec, err := newTextCodec(opts.Encoding, opts.EncodingErrors)
	if err != nil {
		return nil, err
	}
	w := &Writer{
		shp: s.Shp, shx: s.Shx, dbf: s.Dbf,
		opts: opts, codec: codec, log: opts.Logger,
		shapeType: shapeType, shapeTypeSet: shapeType != NULL,
		shpOffset: headerLength,
	}
	placeholder := make([]byte, headerLength)
	if w.shp != nil {
		if _, err := w.shp.Write(placeholder); err != nil {
			return nil, wrapIOError(err, "reserving shp header")
		}
	}
	if w.shx != nil {
		if _, err := w.shx.Write(placeholder); err != nil {
			return nil, wrapIOError(err, "reserving shx header")
		}
	}
	return w, nil
}

// SetShapeType fixes the file's shape type before any shape is written,
// overriding whatever NewWriter was given. It is a no-op once a shape
// has already set the type implicitly.
func (w *Writer) SetShapeType(t ShapeType) {
	if !w.shapeTypeSet || w.shpNum == 0 {
		w.shapeType = t
		w.shapeTypeSet = t != NULL
	}
}

// SetPrj and SetCpg stage sidecar text to be written through by the
// caller's container adapter; the core never writes .prj/.cpg itself.
func (w *Writer) SetPrj(wkt string)      { w.prj = wkt }
func (w *Writer) SetCpg(encoding string) { w.cpg = encoding }
func (w *Writer) Prj() string            { return w.prj }
func (w *Writer) Cpg() string            { return w.cpg }

// Field declares one dbf field. It fails once any record or shape has
// been written, per §4.7. length <= 0 takes the kind's documented
// default width.
func (w *Writer) Field(name string, kind byte, length, decimal int) error {
	if w.fieldsLocked {
		return newSchemaError("cannot add field %q after the first record was written", name)
	}
	if length <= 0 {
		length = defaultFieldLength(kind)
	}
	f := FieldDescriptor{Name: name, Kind: kind, Length: length, Decimal: decimal}
	if err := validateFieldDescriptor(f); err != nil {
		return err
	}
	w.fields = append(w.fields, f)
	return nil
}

// lockFields finalizes the dbf schema on first use and writes the dbf
// header + field descriptor placeholder block.
func (w *Writer) lockFields() error {
	if w.fieldsLocked {
		return nil
	}
	w.fieldsLocked = true
	if w.dbf == nil {
		return nil
	}
	if len(w.fields) == 0 {
		return newSchemaError("writer has a dbf stream but no fields were declared")
	}
	now := time.Now()
	hdr := &dbfHeader{
		version:    0x03,
		lastUpdate: Date{Year: now.Year(), Month: int(now.Month()), Day: now.Day()},
		headerSize: int16(dbfHeaderSize + len(w.fields)*dbfFieldDescSize + 1),
		recordSize: int16(w.recordSize()),
	}
	if _, err := w.dbf.Write(hdr.bytes()); err != nil {
		return wrapIOError(err, "writing dbf header")
	}
	for _, f := range w.fields {
		b, err := f.bytes(w.codec)
		if err != nil {
			return err
		}
		if _, err := w.dbf.Write(b); err != nil {
			return wrapIOError(err, "writing field descriptor %q", f.Name)
		}
	}
	if _, err := w.dbf.Write([]byte{dbfTerminator}); err != nil {
		return wrapIOError(err, "writing dbf field terminator")
	}
	return nil
}

func (w *Writer) recordSize() int {
	size := 1 // deletion flag
	for _, f := range w.fields {
		size += f.Length
	}
	return size
}

// Record appends one attribute row. Values are matched to fields
// positionally; a short slice is padded with nil (missing), per §4.7.
func (w *Writer) Record(values ...any) error {
	if err := w.lockFields(); err != nil {
		return err
	}
	return w.appendRecord(values)
}

// RecordMap appends one attribute row addressed by field name.
func (w *Writer) RecordMap(m map[string]any) error {
	if err := w.lockFields(); err != nil {
		return err
	}
	values := make([]any, len(w.fields))
	for i, f := range w.fields {
		values[i] = m[f.Name]
	}
	return w.appendRecord(values)
}

func (w *Writer) appendRecord(values []any) error {
	if w.dbf == nil {
		return newSchemaError("no dbf stream open")
	}
	row, err := encodeRecordRow(values, w.fields, w.codec, w.log)
	if err != nil {
		return err
	}
	if _, err := w.dbf.Write(row); err != nil {
		return wrapIOError(err, "writing record %d", w.recNum)
	}
	w.recNum++
	if w.opts.AutoBalance {
		return w.balance()
	}
	return nil
}

// Shape appends one geometry record, computing its bbox/Z-range/M-range
// and auto-closing polygon rings, per §4.7.
func (w *Writer) Shape(s *Shape) error {
	if err := w.lockFields(); err != nil {
		return err
	}
	return w.appendShape(s)
}

func (w *Writer) appendShape(s *Shape) error {
	if w.shp == nil {
		return newSchemaError("no shp stream open")
	}
	if s.Type == POLYGON || s.Type == POLYGONZ || s.Type == POLYGONM {
		if err := autoCloseRings(s); err != nil {
			return err
		}
	}
	finalizeShapeMetrics(s)

	payload, err := encodeShape(s)
	if err != nil {
		return err
	}
	if len(payload)%2 != 0 {
		return newSchemaError("internal error: shape %s payload is not word-aligned", s.Type)
	}
	contentWords := int32(len(payload) / 2)

	hdr := make([]byte, 8)
	putBeInt32(hdr[0:4], int32(w.shpNum+1))
	putBeInt32(hdr[4:8], contentWords)

	if _, err := w.shp.Write(hdr); err != nil {
		return wrapIOError(err, "writing shape %d header", w.shpNum)
	}
	if _, err := w.shp.Write(payload); err != nil {
		return wrapIOError(err, "writing shape %d payload", w.shpNum)
	}

	if w.shx != nil {
		entry := shxEntry{offset: int32(w.shpOffset / 2), contentLength: contentWords}
		if _, err := w.shx.Write(entry.bytes()); err != nil {
			return wrapIOError(err, "writing shx entry %d", w.shpNum)
		}
	}
	w.shpOffset += 8 + int64(len(payload))

	if !w.shapeTypeSet && s.Type != NULL {
		w.shapeType = s.Type
		w.shapeTypeSet = true
	}
	if s.Type != NULL && len(s.Points) > 0 {
		w.accumulate(s)
	}
	s.OID = w.shpNum
	w.shpNum++

	if w.opts.AutoBalance {
		return w.balance()
	}
	return nil
}

func (w *Writer) accumulate(s *Shape) {
	if s.BBox == nil {
		return
	}
	if !w.haveBBox {
		w.bbox, w.haveBBox = *s.BBox, true
	} else {
		w.bbox = w.bbox.Union(*s.BBox)
	}
	if s.HasZ() && len(s.Z) > 0 {
		lo, hi := s.ZRange[0], s.ZRange[1]
		if !w.haveZRange {
			w.zRange, w.haveZRange = [2]float64{lo, hi}, true
		} else {
			w.zRange = [2]float64{min2(w.zRange[0], lo), max2(w.zRange[1], hi)}
		}
	}
	if s.HasM() && len(s.M) > 0 {
		lo, hi := s.MRange[0], s.MRange[1]
		if !w.haveMRange {
			w.mRange, w.haveMRange = [2]float64{lo, hi}, true
		} else {
			w.mRange = [2]float64{min2(w.mRange[0], lo), max2(w.mRange[1], hi)}
		}
	}
}

func min2(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max2(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// finalizeShapeMetrics computes the per-shape bbox/Z-range/M-range from
// its points, overriding whatever the caller may have set, per §4.7.
func finalizeShapeMetrics(s *Shape) {
	if s.Type == NULL || len(s.Points) == 0 {
		s.BBox = nil
		return
	}
	bb := geo.Bound(s.Points)
	s.BBox = &bb
	if s.HasZ() && len(s.Z) > 0 {
		lo, hi := s.Z[0], s.Z[0]
		for _, z := range s.Z {
			lo, hi = min2(lo, z), max2(hi, z)
		}
		s.ZRange = [2]float64{lo, hi}
	}
	if s.HasM() && len(s.M) > 0 {
		lo, hi := noDataM, noDataM
		any := false
		for _, m := range s.M {
			if isNoDataM(m) {
				continue
			}
			if !any {
				lo, hi, any = m, m, true
				continue
			}
			lo, hi = min2(lo, m), max2(hi, m)
		}
		if any {
			s.MRange = [2]float64{lo, hi}
		}
	}
}

// autoCloseRings appends a duplicate of each ring's first point when it
// does not already equal the last, per §4.7, and rejects rings with
// fewer than 3 distinct XY points.
func autoCloseRings(s *Shape) error {
	if len(s.Parts) == 0 {
		return nil
	}
	var newPoints []orb.Point
	var newParts []int32
	var newZ, newM []float64
	hasZ, hasM := len(s.Z) == len(s.Points), len(s.M) == len(s.Points)

	for i := range s.Parts {
		start, end := s.partSpan(i)
		ring := s.Points[start:end]
		if countDistinctXY(ring) < 3 {
			return newSchemaError("polygon ring %d has fewer than 3 distinct points", i)
		}
		newParts = append(newParts, int32(len(newPoints)))
		newPoints = append(newPoints, ring...)
		if hasZ {
			newZ = append(newZ, s.Z[start:end]...)
		}
		if hasM {
			newM = append(newM, s.M[start:end]...)
		}
		if ring[0] != ring[len(ring)-1] {
			newPoints = append(newPoints, ring[0])
			if hasZ {
				newZ = append(newZ, s.Z[start])
			}
			if hasM {
				newM = append(newM, s.M[start])
			}
		}
	}
	s.Points, s.Parts = newPoints, newParts
	if hasZ {
		s.Z = newZ
	}
	if hasM {
		s.M = newM
	}
	return nil
}

func countDistinctXY(ring []orb.Point) int {
	seen := make(map[orb.Point]bool, len(ring))
	for _, p := range ring {
		seen[p] = true
	}
	return len(seen)
}

// balance pads whichever of shp/dbf trails the other until their counts
// are equal, per §4.7's auto-balance contract. Padding records are
// written directly; padding shapes go through appendShape, which with
// AutoBalance on calls balance again and finds the counts already equal.
func (w *Writer) balance() error {
	for {
		switch {
		case w.dbf != nil && w.shp != nil && w.shpNum > w.recNum:
			values := make([]any, len(w.fields))
			row, err := encodeRecordRow(values, w.fields, w.codec, w.log)
			if err != nil {
				return err
			}
			if _, err := w.dbf.Write(row); err != nil {
				return wrapIOError(err, "writing balance record %d", w.recNum)
			}
			w.recNum++
		case w.dbf != nil && w.shp != nil && w.recNum > w.shpNum:
			if err := w.appendShape(NullShape()); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

// Close finalizes the shp/shx/dbf headers and trailers. Calls after the
// first return nil without writing anything.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if err := w.lockFields(); err != nil {
		return err
	}

	if w.shp != nil {
		h := &mainHeader{
			fileLength: int32(w.shpOffset / 2),
			shapeType:  w.shapeType,
			bbox:       w.bbox,
			zRange:     w.zRange,
			mRange:     w.mRange,
		}
		if err := h.writeAt(w.shp, 0); err != nil {
			return err
		}
	}
	if w.shx != nil {
		h := &mainHeader{
			fileLength: int32((headerLength + w.shpNum*shxEntrySize) / 2),
			shapeType:  w.shapeType,
			bbox:       w.bbox,
			zRange:     w.zRange,
			mRange:     w.mRange,
		}
		if err := h.writeAt(w.shx, 0); err != nil {
			return err
		}
	}
	if w.dbf != nil {
		now := time.Now()
		hdr := &dbfHeader{
			version:    0x03,
			lastUpdate: Date{Year: now.Year(), Month: int(now.Month()), Day: now.Day()},
			numRecords: int32(w.recNum),
			headerSize: int16(dbfHeaderSize + len(w.fields)*dbfFieldDescSize + 1),
			recordSize: int16(w.recordSize()),
		}
		if _, err := w.dbf.Seek(0, io.SeekStart); err != nil {
			return wrapIOError(err, "seeking to dbf header")
		}
		if _, err := w.dbf.Write(hdr.bytes()); err != nil {
			return wrapIOError(err, "rewriting dbf header")
		}
		if _, err := w.dbf.Seek(0, io.SeekEnd); err != nil {
			return wrapIOError(err, "seeking to dbf end")
		}
		if _, err := w.dbf.Write([]byte{dbfEOF}); err != nil {
			return wrapIOError(err, "writing dbf eof marker")
		}
	}
	return nil
}
