package container

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"

	"github.com/GeospatialPython/pyshp"
)

// Zip opens a shapefile triplet from inside a zip archive, read-only.
// No third-party zip library appears anywhere in the retrieved example
// pack, so this adapter is stdlib archive/zip by necessity.
type Zip struct {
	Reader *zip.Reader
	Base   string
}

// zipSeeker adapts a zip.File's uncompressed bytes (read fully into
// memory, since zip.File itself is not seekable) to shapefile.ByteReader.
type zipSeeker struct {
	*bytes.Reader
}

func (z zipSeeker) Close() error { return nil }

func (z Zip) find(ext string) (*zip.File, bool) {
	want := strings.ToLower(z.Base + "." + ext)
	for _, f := range z.Reader.File {
		name := f.Name
		if i := strings.LastIndexByte(name, '/'); i >= 0 {
			name = name[i+1:]
		}
		if strings.ToLower(name) == want {
			return f, true
		}
	}
	return nil, false
}

func (z Zip) slurp(f *zip.File) (shapefile.ByteReader, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	return zipSeeker{bytes.NewReader(b)}, nil
}

// Open reads whichever of shp/shx/dbf/cpg/prj exist inside the archive.
func (z Zip) Open() (shapefile.Streams, error) {
	var s shapefile.Streams
	if f, ok := z.find("shp"); ok {
		r, err := z.slurp(f)
		if err != nil {
			return s, err
		}
		s.Shp = r
	}
	if f, ok := z.find("shx"); ok {
		r, err := z.slurp(f)
		if err != nil {
			return s, err
		}
		s.Shx = r
	}
	if f, ok := z.find("dbf"); ok {
		r, err := z.slurp(f)
		if err != nil {
			return s, err
		}
		s.Dbf = r
	}
	if f, ok := z.find("cpg"); ok {
		rc, err := f.Open()
		if err == nil {
			b, _ := io.ReadAll(rc)
			rc.Close()
			s.Cpg = strings.TrimSpace(string(b))
		}
	}
	if f, ok := z.find("prj"); ok {
		rc, err := f.Open()
		if err == nil {
			b, _ := io.ReadAll(rc)
			rc.Close()
			s.Prj = string(b)
		}
	}
	return s, nil
}
