// Package container supplies optional byte-stream providers for the
// shapefile triplet: a local directory, a zip archive, and an
// HTTP(S) source. The core shapefile package never imports this
// package; callers wire one of these in explicitly.
package container

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/GeospatialPython/pyshp"
)

// Local opens a shapefile triplet from <base>.{shp,shx,dbf,cpg,prj} in a
// directory, matching the extension case-insensitively.
type Local struct {
	Dir  string
	Base string
}

func (l Local) path(ext string) (string, bool) {
	entries, err := os.ReadDir(l.Dir)
	if err != nil {
		return filepath.Join(l.Dir, l.Base+"."+ext), false
	}
	want := strings.ToLower(l.Base + "." + ext)
	for _, e := range entries {
		if strings.ToLower(e.Name()) == want {
			return filepath.Join(l.Dir, e.Name()), true
		}
	}
	return filepath.Join(l.Dir, l.Base+"."+ext), false
}

// OpenRead opens whichever of shp/shx/dbf/cpg/prj exist for reading.
func (l Local) OpenRead() (shapefile.Streams, func() error, error) {
	var s shapefile.Streams
	var closers []io.Closer

	openIfExists := func(ext string) (*os.File, error) {
		p, ok := l.path(ext)
		if !ok {
			return nil, nil
		}
		f, err := os.Open(p)
		if err != nil {
			return nil, err
		}
		return f, nil
	}

	shp, err := openIfExists("shp")
	if err != nil {
		return s, nil, err
	}
	if shp != nil {
		s.Shp = shp
		closers = append(closers, shp)
	}
	shx, err := openIfExists("shx")
	if err != nil {
		return s, nil, err
	}
	if shx != nil {
		s.Shx = shx
		closers = append(closers, shx)
	}
	dbf, err := openIfExists("dbf")
	if err != nil {
		return s, nil, err
	}
	if dbf != nil {
		s.Dbf = dbf
		closers = append(closers, dbf)
	}
	if p, ok := l.path("cpg"); ok {
		b, err := os.ReadFile(p)
		if err == nil {
			s.Cpg = strings.TrimSpace(string(b))
		}
	}
	if p, ok := l.path("prj"); ok {
		b, err := os.ReadFile(p)
		if err == nil {
			s.Prj = string(b)
		}
	}
	closeAll := func() error {
		var first error
		for _, c := range closers {
			if err := c.Close(); err != nil && first == nil {
				first = err
			}
		}
		return first
	}
	return s, closeAll, nil
}

// OpenWrite creates <base>.{shp,shx,dbf} for writing, truncating any
// existing files.
func (l Local) OpenWrite(withShp, withShx, withDbf bool) (shapefile.WriteStreams, func() error, error) {
	var s shapefile.WriteStreams
	var closers []io.Closer

	create := func(ext string) (*os.File, error) {
		return os.Create(filepath.Join(l.Dir, l.Base+"."+ext))
	}
	if withShp {
		f, err := create("shp")
		if err != nil {
			return s, nil, err
		}
		s.Shp = f
		closers = append(closers, f)
	}
	if withShx {
		f, err := create("shx")
		if err != nil {
			return s, nil, err
		}
		s.Shx = f
		closers = append(closers, f)
	}
	if withDbf {
		f, err := create("dbf")
		if err != nil {
			return s, nil, err
		}
		s.Dbf = f
		closers = append(closers, f)
	}
	closeAll := func() error {
		var first error
		for _, c := range closers {
			if err := c.Close(); err != nil && first == nil {
				first = err
			}
		}
		return first
	}
	return s, closeAll, nil
}

// WriteSidecar writes the .prj / .cpg sidecars the core never touches.
func (l Local) WriteSidecar(prj, cpg string) error {
	if prj != "" {
		if err := os.WriteFile(filepath.Join(l.Dir, l.Base+".prj"), []byte(prj), 0o644); err != nil {
			return err
		}
	}
	if cpg != "" {
		if err := os.WriteFile(filepath.Join(l.Dir, l.Base+".cpg"), []byte(cpg), 0o644); err != nil {
			return err
		}
	}
	return nil
}
