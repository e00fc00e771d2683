package shapefile

import (
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// textCodec resolves a configured encoding label and error policy into
// a pair of string<->[]byte converters, per §4.5. A single label governs
// C, D-memo, and field-name decode/encode.
type textCodec struct {
	label string
	enc   encoding.Encoding
	onErr EncodingErrorPolicy
}

func newTextCodec(label string, onErr EncodingErrorPolicy) (*textCodec, error) {
	if label == "" {
		label = "utf-8"
	}
	enc, err := resolveEncoding(label)
	if err != nil {
		return nil, newEncodingError("unknown encoding %q: %v", label, err)
	}
	return &textCodec{label: label, enc: enc, onErr: onErr}, nil
}

// resolveEncoding maps a text label to a golang.org/x/text encoding.
// htmlindex covers the IANA-registered names (utf-8, iso-8859-1,
// windows-1252, ...); charmap's legacy DOS code pages, which shapefiles
// from the DOS/GIS era commonly carry in their .cpg sidecar, are checked
// first since htmlindex does not index them under their "cpXXX" aliases.
func resolveEncoding(label string) (encoding.Encoding, error) {
	norm := strings.ToLower(strings.TrimSpace(label))
	if enc, ok := dosCodePages[norm]; ok {
		return enc, nil
	}
	return htmlindex.Get(label)
}

var dosCodePages = map[string]encoding.Encoding{
	"cp437":  charmap.CodePage437,
	"cp850":  charmap.CodePage850,
	"cp852":  charmap.CodePage852,
	"cp865":  charmap.CodePage865,
	"cp866":  charmap.CodePage866,
	"latin1": charmap.ISO8859_1,
}

// decode converts raw bytes (already trimmed of padding) to text,
// honoring the configured error policy.
func (c *textCodec) decode(raw []byte) (string, error) {
	t := c.enc.NewDecoder()
	s, _, err := transform.String(t, string(raw))
	if err != nil {
		if c.onErr == Ignore {
			return s, nil
		}
		return "", newEncodingError("decoding %q under %s: %v", c.label, c.onErr, err)
	}
	return s, nil
}

// encode converts text to raw bytes for writing, honoring the
// configured error policy.
func (c *textCodec) encode(s string) ([]byte, error) {
	var t transform.Transformer = c.enc.NewEncoder()
	if c.onErr == Replace {
		t = encoding.ReplaceUnsupported(c.enc.NewEncoder())
	}
	b, _, err := transform.Bytes(t, []byte(s))
	if err != nil {
		if c.onErr == Ignore {
			return b, nil
		}
		return nil, newEncodingError("encoding %q under %s: %v", c.label, c.onErr, err)
	}
	return b, nil
}
