package shapefile

import (
	"io"

	"github.com/paulmach/orb"
)

const (
	shpMagic     = 0x0000270A
	fileVersion  = 1000
	headerLength = 100 // bytes, shared by shp and shx
)

// mainHeader is the 100-byte header shared by the shp and shx files,
// per §4.2/§4.3. fileLength is in 16-bit words, including the header
// itself, and refers to whichever of shp/shx owns the header instance.
type mainHeader struct {
	fileLength int32 // 16-bit words
	shapeType  ShapeType
	bbox       orb.Bound // XY
	zRange     [2]float64
	mRange     [2]float64
}

func readMainHeader(r ByteReader) (*mainHeader, error) {
	buf := make([]byte, headerLength)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, wrapIOError(err, "reading header")
	}
	if magic := beInt32(buf[0:4]); magic != shpMagic {
		return nil, newMalformedFileError("bad file signature: %#x", uint32(magic))
	}
	h := &mainHeader{
		fileLength: beInt32(buf[24:28]),
		shapeType:  ShapeType(leInt32(buf[32:36])),
	}
	h.bbox = orb.Bound{
		Min: orb.Point{leFloat64(buf[36:44]), leFloat64(buf[44:52])},
		Max: orb.Point{leFloat64(buf[52:60]), leFloat64(buf[60:68])},
	}
	h.zRange = [2]float64{leFloat64(buf[68:76]), leFloat64(buf[76:84])}
	h.mRange = [2]float64{leFloat64(buf[84:92]), leFloat64(buf[92:100])}
	return h, nil
}

func (h *mainHeader) bytes() []byte {
	buf := make([]byte, headerLength)
	putBeInt32(buf[0:4], shpMagic)
	putBeInt32(buf[24:28], h.fileLength)
	putLeInt32(buf[28:32], fileVersion)
	putLeInt32(buf[32:36], int32(h.shapeType))
	putLeFloat64(buf[36:44], h.bbox.Min[0])
	putLeFloat64(buf[44:52], h.bbox.Min[1])
	putLeFloat64(buf[52:60], h.bbox.Max[0])
	putLeFloat64(buf[60:68], h.bbox.Max[1])
	putLeFloat64(buf[68:76], h.zRange[0])
	putLeFloat64(buf[76:84], h.zRange[1])
	putLeFloat64(buf[84:92], h.mRange[0])
	putLeFloat64(buf[92:100], h.mRange[1])
	return buf
}

func (h *mainHeader) writeAt(w ByteWriter, offset int64) error {
	if _, err := w.Seek(offset, io.SeekStart); err != nil {
		return wrapIOError(err, "seeking to header")
	}
	_, err := w.Write(h.bytes())
	return wrapIOError(err, "writing header")
}
