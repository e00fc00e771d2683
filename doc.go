// Package shapefile reads and writes the ESRI Shapefile triplet: the
// variable-length geometry stream (.shp), its fixed-width offset index
// (.shx), and the xBase attribute table (.dbf), plus the optional .cpg
// encoding hint and .prj projection text.
//
// Reader gives lazy, random-access reads backed by the index. Writer
// streams shape/record pairs to disk and finalizes headers on Close.
// Package geo and the geojson.go conversions handle the GeoJSON-shaped
// interchange model; package container supplies optional byte-stream
// providers (local directory, zip archive, HTTP) that the core never
// imports directly.
package shapefile
