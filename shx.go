package shapefile

import (
	"io"
)

const shxEntrySize = 8 // bytes: two big-endian int32 words

// shxEntry is one fixed 8-byte record in the shx index: the shp record's
// offset and content length, both in 16-bit words, per §4.3.
type shxEntry struct {
	offset        int32 // words, from the start of the shp file
	contentLength int32 // words
}

func readShxEntry(r ByteReader) (shxEntry, error) {
	buf := make([]byte, shxEntrySize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return shxEntry{}, wrapIOError(err, "reading shx entry")
	}
	return shxEntry{offset: beInt32(buf[0:4]), contentLength: beInt32(buf[4:8])}, nil
}

// readAllShxEntries reads every entry following the shx header. The shx
// body is exactly (fileLength*2 - headerLength) bytes long.
func readAllShxEntries(r ByteReader, fileLengthWords int32) ([]shxEntry, error) {
	n := (int(fileLengthWords)*2 - headerLength) / shxEntrySize
	if n < 0 {
		return nil, newMalformedFileError("shx file length %d words is shorter than the header", fileLengthWords)
	}
	entries := make([]shxEntry, n)
	for i := range entries {
		e, err := readShxEntry(r)
		if err != nil {
			return nil, err
		}
		entries[i] = e
	}
	return entries, nil
}

func (e shxEntry) bytes() []byte {
	buf := make([]byte, shxEntrySize)
	putBeInt32(buf[0:4], e.offset)
	putBeInt32(buf[4:8], e.contentLength)
	return buf
}
