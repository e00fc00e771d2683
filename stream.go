package shapefile

import (
	"io"

	"github.com/rs/zerolog"
)

// ByteReader is the minimal collaborator interface the core requires of
// an input stream, per §6.
type ByteReader interface {
	io.Reader
	io.Seeker
}

// ByteWriter is the minimal collaborator interface the core requires of
// an output stream, per §6.
type ByteWriter interface {
	io.Writer
	io.Seeker
}

// streamLen seeks to the end of r to measure its length, then restores
// the original position.
func streamLen(r ByteReader) (int64, error) {
	cur, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, err
	}
	end, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	if _, err := r.Seek(cur, io.SeekStart); err != nil {
		return 0, err
	}
	return end, nil
}

// EncodingErrorPolicy controls how text decode/encode errors are
// handled, per §4.5.
type EncodingErrorPolicy int

const (
	Strict EncodingErrorPolicy = iota
	Replace
	Ignore
)

func (p EncodingErrorPolicy) String() string {
	switch p {
	case Strict:
		return "strict"
	case Replace:
		return "replace"
	case Ignore:
		return "ignore"
	default:
		return "unknown"
	}
}

// Options configures the text encoding, error policy, auto-balance
// behavior, and logging destination shared by Reader and Writer.
type Options struct {
	// Encoding is a text label understood by golang.org/x/text/encoding/htmlindex,
	// e.g. "utf-8", "iso-8859-1", "windows-1252". Defaults to "utf-8".
	Encoding string
	// EncodingErrors controls decode/encode failure handling. Defaults to Strict.
	EncodingErrors EncodingErrorPolicy
	// AutoBalance, when true, pads whichever of shp/dbf lags behind the
	// other after every record/shape append. Defaults to false.
	AutoBalance bool
	// Logger receives non-fatal warnings. A nil Logger is replaced with a
	// no-op logger.
	Logger *zerolog.Logger
}

func (o Options) withDefaults() Options {
	if o.Encoding == "" {
		o.Encoding = "utf-8"
	}
	if o.Logger == nil {
		nop := zerolog.Nop()
		o.Logger = &nop
	}
	return o
}
