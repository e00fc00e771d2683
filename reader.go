package shapefile

import (
	"io"

	"github.com/paulmach/orb"
	"github.com/rs/zerolog"
)

// Streams bundles the byte-stream collaborators a Reader or Writer
// operates over, per §6. Any subset of Shp/Shx/Dbf may be nil. Cpg and
// Prj, when non-empty, are read (by the caller, via a container
// adapter) from the .cpg and .prj sidecars.
type Streams struct {
	Shp ByteReader
	Shx ByteReader
	Dbf ByteReader
	Cpg string // encoding label from the .cpg sidecar, if present
	Prj string // raw WKT text from the .prj sidecar, if present
}

// Reader gives a read-only, lazily-loaded view over a shapefile triplet.
// Headers are parsed eagerly; bodies are read on demand. A Reader is not
// safe for concurrent use, per §5.
type Reader struct {
	shp, shx, dbf ByteReader
	opts          Options
	codec         *textCodec
	log           *zerolog.Logger

	shpHeader *mainHeader
	shpEnd    int64 // measured end of the shp stream, corruption-tolerant

	dbfHeader  *dbfHeader
	userFields []FieldDescriptor

	shxEntries []shxEntry // nil if no shx was supplied

	// scanOffsets[i] is the byte offset of shape i's record-number field
	// in shp, built lazily by a forward linear scan when shx is absent.
	scanOffsets  []int64
	scanPos      int64 // next unscanned byte offset in shp
	scanExhausted bool

	prj    string
	hasPrj bool
}

// NewReader opens a Reader over the given streams. At least one of
// Shp/Dbf must be present, per §3.
func NewReader(s Streams, opts Options) (*Reader, error) {
	if s.Shp == nil && s.Dbf == nil {
		return nil, newSchemaError("a shapefile requires at least one of shp or dbf")
	}
	r := &Reader{shp: s.Shp, shx: s.Shx, dbf: s.Dbf}
	if s.Prj != "" {
		r.prj, r.hasPrj = s.Prj, true
	}

	label := opts.Encoding
	if label == "" && s.Cpg != "" {
		label = s.Cpg
	}
	opts.Encoding = label
	opts = opts.withDefaults()
	r.opts = opts
	r.log = opts.Logger

	codec, err := newTextCodec(opts.Encoding, opts.EncodingErrors)
	if err != nil {
		return nil, err
	}
	r.codec = codec

	if r.shp != nil {
		if _, err := r.shp.Seek(0, io.SeekStart); err != nil {
			return nil, wrapIOError(err, "seeking to shp header")
		}
		h, err := readMainHeader(r.shp)
		if err != nil {
			return nil, err
		}
		r.shpHeader = h
		end, err := streamLen(r.shp)
		if err != nil {
			return nil, err
		}
		declared := int64(h.fileLength) * 2
		if declared != end {
			r.log.Warn().Int64("declared", declared).Int64("actual", end).
				Msg("shp: header file length disagrees with stream size, trusting stream size")
			r.shpEnd = end
		} else {
			r.shpEnd = declared
		}
		if _, err := r.shp.Seek(headerLength, io.SeekStart); err != nil {
			return nil, wrapIOError(err, "seeking past shp header")
		}
	}

	if r.shx != nil {
		if _, err := r.shx.Seek(0, io.SeekStart); err != nil {
			return nil, wrapIOError(err, "seeking to shx header")
		}
		h, err := readMainHeader(r.shx)
		if err != nil {
			return nil, err
		}
		entries, err := readAllShxEntries(r.shx, h.fileLength)
		if err != nil {
			return nil, err
		}
		r.shxEntries = entries
	}

	if r.dbf != nil {
		if _, err := r.dbf.Seek(0, io.SeekStart); err != nil {
			return nil, wrapIOError(err, "seeking to dbf header")
		}
		h, err := readDbfHeader(r.dbf)
		if err != nil {
			return nil, err
		}
		r.dbfHeader = h
		fields, err := readFieldDescriptors(r.dbf, codec)
		if err != nil {
			return nil, err
		}
		r.userFields = fields
	}

	return r, nil
}

func readFieldDescriptors(r ByteReader, codec *textCodec) ([]FieldDescriptor, error) {
	var fields []FieldDescriptor
	for {
		marker := make([]byte, 1)
		if _, err := io.ReadFull(r, marker); err != nil {
			return nil, wrapIOError(err, "reading field descriptor marker")
		}
		if marker[0] == dbfTerminator {
			return fields, nil
		}
		rest := make([]byte, dbfFieldDescSize-1)
		if _, err := io.ReadFull(r, rest); err != nil {
			return nil, wrapIOError(err, "reading field descriptor")
		}
		buf := append(marker, rest...)
		fd, err := parseFieldDescriptor(buf, codec)
		if err != nil {
			return nil, err
		}
		fields = append(fields, fd)
		if len(fields) > maxDbfFields {
			return nil, newMalformedFileError("dbf: more than %d field descriptors", maxDbfFields)
		}
	}
}

// Fields returns the dbf schema, including the synthetic leading
// DeletionFlag descriptor, per §4.6.
func (r *Reader) Fields() []FieldDescriptor {
	return append([]FieldDescriptor{deletionFlag}, r.userFields...)
}

// ShapeType returns the file-level shape type from the shp header.
func (r *Reader) ShapeType() ShapeType {
	if r.shpHeader == nil {
		return NULL
	}
	return r.shpHeader.shapeType
}

// BBox returns the file-level XY bounding box from the shp header.
func (r *Reader) BBox() orb.Bound {
	if r.shpHeader == nil {
		return orb.Bound{}
	}
	return r.shpHeader.bbox
}

// ZRange and MRange return the file-level Z/M ranges from the shp header.
func (r *Reader) ZRange() [2]float64 {
	if r.shpHeader == nil {
		return [2]float64{}
	}
	return r.shpHeader.zRange
}

func (r *Reader) MRange() [2]float64 {
	if r.shpHeader == nil {
		return [2]float64{}
	}
	return r.shpHeader.mRange
}

// Encoding returns the effective text encoding label.
func (r *Reader) Encoding() string { return r.opts.Encoding }

// Prj returns the raw .prj WKT text, if a .prj stream was supplied.
func (r *Reader) Prj() (string, bool) { return r.prj, r.hasPrj }

// numShapesKnown reports the shape count if cheaply knowable (from shx),
// and whether it is known.
func (r *Reader) numShapesKnown() (int, bool) {
	if r.shxEntries != nil {
		return len(r.shxEntries), true
	}
	return 0, false
}

// Len returns the number of records, per §4.6: from dbf if present,
// else the shape count from shx, else by linear scan of shp.
func (r *Reader) Len() int {
	if r.dbfHeader != nil {
		return int(r.dbfHeader.numRecords)
	}
	if n, ok := r.numShapesKnown(); ok {
		return n
	}
	n, _ := r.scanAll()
	return n
}

// scanAll exhausts the linear-scan offset table and returns its length.
func (r *Reader) scanAll() (int, error) {
	for {
		_, ok, err := r.extendScan()
		if err != nil {
			return len(r.scanOffsets), err
		}
		if !ok {
			return len(r.scanOffsets), nil
		}
	}
}

// effectiveCount returns min(num_records, num_shapes) when both are
// known, tolerating a mismatch at open, per §7.
func (r *Reader) effectiveCount() int {
	recN, recKnown := -1, false
	if r.dbfHeader != nil {
		recN, recKnown = int(r.dbfHeader.numRecords), true
	}
	shpN, shpKnown := r.numShapesKnown()
	if !shpKnown && r.shp != nil {
		shpN, _ = r.scanAll()
		shpKnown = true
	}
	switch {
	case recKnown && shpKnown:
		if recN < shpN {
			return recN
		}
		return shpN
	case recKnown:
		return recN
	case shpKnown:
		return shpN
	default:
		return 0
	}
}

// extendScan reads one more record header from the shp stream's
// unscanned tail, appending its offset to scanOffsets. ok is false once
// the stream is exhausted.
func (r *Reader) extendScan() (int64, bool, error) {
	if r.scanExhausted {
		return 0, false, nil
	}
	if r.shp == nil {
		r.scanExhausted = true
		return 0, false, nil
	}
	if len(r.scanOffsets) == 0 {
		r.scanPos = headerLength
	}
	if r.scanPos >= r.shpEnd {
		r.scanExhausted = true
		return 0, false, nil
	}
	if _, err := r.shp.Seek(r.scanPos, io.SeekStart); err != nil {
		return 0, false, wrapIOError(err, "seeking during shp scan")
	}
	hdr := make([]byte, 8)
	if _, err := io.ReadFull(r.shp, hdr); err != nil {
		return 0, false, wrapIOError(err, "reading shp record header during scan")
	}
	contentLen := beInt32(hdr[4:8])
	offset := r.scanPos
	r.scanOffsets = append(r.scanOffsets, offset)
	r.scanPos += 8 + int64(contentLen)*2
	return offset, true, nil
}

// shapeOffset returns the byte offset of shape oid's record-number field
// in shp, using shx if available, else the lazily-built scan table.
func (r *Reader) shapeOffset(oid int) (int64, error) {
	if oid < 0 {
		return 0, newOutOfRangeError("negative oid %d", oid)
	}
	if r.shxEntries != nil {
		if oid >= len(r.shxEntries) {
			return 0, newOutOfRangeError("oid %d out of range [0,%d)", oid, len(r.shxEntries))
		}
		return int64(r.shxEntries[oid].offset) * 2, nil
	}
	for len(r.scanOffsets) <= oid {
		_, ok, err := r.extendScan()
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, newOutOfRangeError("oid %d out of range [0,%d)", oid, len(r.scanOffsets))
		}
	}
	return r.scanOffsets[oid], nil
}

// readShapeAt decodes the shape record whose record-number field begins
// at byte offset.
func (r *Reader) readShapeAt(offset int64, oid int) (*Shape, error) {
	if _, err := r.shp.Seek(offset, io.SeekStart); err != nil {
		return nil, wrapIOError(err, "seeking to shape %d", oid)
	}
	hdr := make([]byte, 8)
	if _, err := io.ReadFull(r.shp, hdr); err != nil {
		return nil, wrapIOError(err, "reading shape %d header", oid)
	}
	contentLen := beInt32(hdr[4:8])
	if contentLen < 2 {
		return nil, newMalformedFileError("shape %d: content length %d words is too short", oid, contentLen)
	}
	buf := make([]byte, int(contentLen)*2)
	if _, err := io.ReadFull(r.shp, buf); err != nil {
		return nil, wrapIOError(err, "reading shape %d payload", oid)
	}
	return decodeShape(buf, oid)
}

// Shape returns the shape at oid, per §4.6's random-access contract.
func (r *Reader) Shape(oid int) (*Shape, error) {
	if r.shp == nil {
		return nil, newSchemaError("no shp stream open")
	}
	offset, err := r.shapeOffset(oid)
	if err != nil {
		return nil, err
	}
	return r.readShapeAt(offset, oid)
}

// Record returns the attribute record at oid, per §4.6's random-access
// contract: seek to header_size + oid*record_size, read record_size
// bytes, parse.
func (r *Reader) Record(oid int) (*Record, error) {
	if r.dbf == nil {
		return nil, newSchemaError("no dbf stream open")
	}
	if oid < 0 || oid >= int(r.dbfHeader.numRecords) {
		return nil, newOutOfRangeError("oid %d out of range [0,%d)", oid, r.dbfHeader.numRecords)
	}
	return r.readRecordAt(oid, nil)
}

func (r *Reader) readRecordAt(oid int, want map[string]bool) (*Record, error) {
	off := int64(r.dbfHeader.headerSize) + int64(oid)*int64(r.dbfHeader.recordSize)
	if _, err := r.dbf.Seek(off, io.SeekStart); err != nil {
		return nil, wrapIOError(err, "seeking to record %d", oid)
	}
	row := make([]byte, r.dbfHeader.recordSize)
	if _, err := io.ReadFull(r.dbf, row); err != nil {
		return nil, wrapIOError(err, "reading record %d", oid)
	}
	values, err := decodeRecordRow(row[1:], r.userFields, want, r.codec, r.log)
	if err != nil {
		return nil, err
	}
	return &Record{OID: oid, Fields: r.userFields, Values: values}, nil
}

// ShapeRecord returns the (shape, record) pair at oid.
func (r *Reader) ShapeRecord(oid int) (*ShapeRecord, error) {
	var sh *Shape
	var rec *Record
	var err error
	if r.shp != nil {
		if sh, err = r.Shape(oid); err != nil {
			return nil, err
		}
	}
	if r.dbf != nil {
		if rec, err = r.Record(oid); err != nil {
			return nil, err
		}
	}
	return &ShapeRecord{OID: oid, Shape: sh, Record: rec}, nil
}
