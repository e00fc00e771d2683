package main

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"

	"github.com/GeospatialPython/pyshp"
	"github.com/GeospatialPython/pyshp/container"
)

func newZipReaderAt(f *os.File, size int64) (*zip.Reader, error) {
	return zip.NewReader(f, size)
}

// openSource resolves path plus the --from-zip/--from-url selectors into
// an open Reader, and returns a cleanup function the caller must defer.
func openSource(path string) (*shapefile.Reader, func() error, error) {
	opts, err := optsFromFlags()
	if err != nil {
		return nil, nil, err
	}

	switch {
	case flagFromZip != "":
		zf, err := os.Open(flagFromZip)
		if err != nil {
			return nil, nil, err
		}
		defer zf.Close()
		info, err := zf.Stat()
		if err != nil {
			return nil, nil, err
		}
		zr, err := newZipReaderAt(zf, info.Size())
		if err != nil {
			return nil, nil, err
		}
		streams, err := container.Zip{Reader: zr, Base: path}.Open()
		if err != nil {
			return nil, nil, err
		}
		r, err := shapefile.NewReader(streams, opts)
		return r, func() error { return nil }, err

	case flagFromURL != "":
		streams, err := container.NewFetch(flagFromURL).Open()
		if err != nil {
			return nil, nil, err
		}
		r, err := shapefile.NewReader(streams, opts)
		return r, func() error { return nil }, err

	default:
		dir, base := filepath.Split(path)
		base = strings.TrimSuffix(base, filepath.Ext(base))
		if dir == "" {
			dir = "."
		}
		streams, closeAll, err := container.Local{Dir: dir, Base: base}.OpenRead()
		if err != nil {
			return nil, nil, err
		}
		r, err := shapefile.NewReader(streams, opts)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		return r, closeAll, nil
	}
}

// destLocal reports the container.Local a plain directory destination
// path resolves to, for writing through the .prj/.cpg sidecars after
// Close. It only applies to the default (non-zip, non-URL) destination.
func destLocal(path string) (container.Local, bool) {
	if flagFromZip != "" || flagFromURL != "" {
		return container.Local{}, false
	}
	dir, base := filepath.Split(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if dir == "" {
		dir = "."
	}
	return container.Local{Dir: dir, Base: base}, true
}

func optsFromFlags() (shapefile.Options, error) {
	pol, err := encodingErrorPolicy(flagEncodingErrors)
	if err != nil {
		return shapefile.Options{}, err
	}
	return shapefile.Options{Encoding: flagEncoding, EncodingErrors: pol}, nil
}

func openDest(path string, autoBalance bool) (*shapefile.Writer, func() error, error) {
	opts, err := optsFromFlags()
	if err != nil {
		return nil, nil, err
	}
	opts.AutoBalance = autoBalance
	dir, base := filepath.Split(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if dir == "" {
		dir = "."
	}
	streams, closeAll, err := container.Local{Dir: dir, Base: base}.OpenWrite(true, true, true)
	if err != nil {
		return nil, nil, err
	}
	w, err := shapefile.NewWriter(streams, shapefile.NULL, opts)
	if err != nil {
		closeAll()
		return nil, nil, err
	}
	return w, closeAll, nil
}

