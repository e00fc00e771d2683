package shapefile

import (
	"github.com/paulmach/orb"
)

// ShapeIterator walks shapes in ascending oid order, optionally
// prefiltered by bounding box. It is restartable by constructing a new
// one over the same Reader; it holds no coroutine state, per §9.
type ShapeIterator struct {
	r     *Reader
	oid   int
	stop  int // exclusive upper bound, or -1 for "until exhausted"
	bbox  *orb.Bound
	cur   *Shape
	err   error
	done  bool
}

// IterShapes returns an iterator over all shapes. bbox, when non-nil,
// restricts results to shapes whose stored bounding box intersects it
// (inclusive on all sides); Null shapes are always skipped when a bbox
// filter is active, per §4.6.
func (r *Reader) IterShapes(bbox *orb.Bound) *ShapeIterator {
	return &ShapeIterator{r: r, stop: -1, bbox: bbox}
}

// IterShapesRange restricts iteration to the half-open oid range
// [start, stop).
func (r *Reader) IterShapesRange(start, stop int, bbox *orb.Bound) *ShapeIterator {
	return &ShapeIterator{r: r, oid: start, stop: stop, bbox: bbox}
}

// Next advances to the next matching shape, returning false at the end
// of iteration or on error (check Err).
func (it *ShapeIterator) Next() bool {
	if it.done || it.err != nil {
		return false
	}
	for {
		if it.stop >= 0 && it.oid >= it.stop {
			it.done = true
			return false
		}
		s, err := it.r.Shape(it.oid)
		if err != nil {
			if _, ok := err.(*OutOfRangeError); ok {
				it.done = true
				return false
			}
			it.err = err
			return false
		}
		it.oid++
		if it.bbox != nil {
			if s.Type == NULL || s.BBox == nil || !s.BBox.Intersects(*it.bbox) {
				continue
			}
		}
		it.cur = s
		return true
	}
}

func (it *ShapeIterator) Shape() *Shape { return it.cur }
func (it *ShapeIterator) Err() error    { return it.err }

// RecordIterator walks dbf records in ascending oid order, optionally
// limited to a field subset.
type RecordIterator struct {
	r    *Reader
	oid  int
	stop int
	want map[string]bool
	cur  *Record
	err  error
	done bool
}

// IterRecords returns an iterator over all records. fields, when
// non-nil, restricts the populated values to that subset, preserving
// the dbf schema's field order, per §4.6.
func (r *Reader) IterRecords(fields []string) *RecordIterator {
	return &RecordIterator{r: r, stop: r.Len(), want: fieldSet(fields)}
}

// IterRecordsRange restricts iteration to the half-open oid range
// [start, stop).
func (r *Reader) IterRecordsRange(start, stop int, fields []string) *RecordIterator {
	return &RecordIterator{r: r, oid: start, stop: stop, want: fieldSet(fields)}
}

func fieldSet(fields []string) map[string]bool {
	if fields == nil {
		return nil
	}
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return set
}

func (it *RecordIterator) Next() bool {
	if it.done || it.err != nil || it.oid >= it.stop {
		return false
	}
	rec, err := it.r.readRecordAt(it.oid, it.want)
	if err != nil {
		it.err = err
		return false
	}
	it.cur = rec
	it.oid++
	return true
}

func (it *RecordIterator) Record() *Record { return it.cur }
func (it *RecordIterator) Err() error      { return it.err }

// ShapeRecordIterator walks (shape, record) pairs in ascending oid
// order, with the same bbox and field-subset filtering as ShapeIterator
// and RecordIterator.
type ShapeRecordIterator struct {
	r    *Reader
	oid  int
	stop int
	bbox *orb.Bound
	want map[string]bool
	cur  *ShapeRecord
	err  error
	done bool
}

// IterShapeRecords returns an iterator over all (shape, record) pairs.
func (r *Reader) IterShapeRecords(bbox *orb.Bound, fields []string) *ShapeRecordIterator {
	return &ShapeRecordIterator{r: r, stop: r.effectiveCount(), bbox: bbox, want: fieldSet(fields)}
}

func (it *ShapeRecordIterator) Next() bool {
	if it.done || it.err != nil {
		return false
	}
	for {
		if it.oid >= it.stop {
			it.done = true
			return false
		}
		oid := it.oid
		it.oid++

		var sh *Shape
		if it.r.shp != nil {
			s, err := it.r.Shape(oid)
			if err != nil {
				it.err = err
				return false
			}
			sh = s
		}
		if it.bbox != nil {
			if sh == nil || sh.Type == NULL || sh.BBox == nil || !sh.BBox.Intersects(*it.bbox) {
				continue
			}
		}
		var rec *Record
		if it.r.dbf != nil {
			rc, err := it.r.readRecordAt(oid, it.want)
			if err != nil {
				it.err = err
				return false
			}
			rec = rc
		}
		it.cur = &ShapeRecord{OID: oid, Shape: sh, Record: rec}
		return true
	}
}

func (it *ShapeRecordIterator) ShapeRecord() *ShapeRecord { return it.cur }
func (it *ShapeRecordIterator) Err() error                { return it.err }
