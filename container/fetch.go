package container

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/GeospatialPython/pyshp"
)

// Fetch opens a shapefile triplet from HTTP(S) URLs sharing a base URL,
// read-only. No third-party HTTP client library appears anywhere in the
// retrieved example pack, so this adapter is stdlib net/http by
// necessity, with client timeouts and pooling configured the way
// pack services configure their outbound clients.
type Fetch struct {
	BaseURL string
	Client  *http.Client
}

// NewFetch returns a Fetch with a client tuned for small-to-medium file
// downloads: bounded dial/TLS/idle timeouts and a modest connection pool.
func NewFetch(baseURL string) Fetch {
	transport := &http.Transport{
		MaxIdleConns:        16,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     30 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return Fetch{
		BaseURL: baseURL,
		Client:  &http.Client{Transport: transport, Timeout: 60 * time.Second},
	}
}

func (f Fetch) get(ext string) ([]byte, bool, error) {
	url := strings.TrimRight(f.BaseURL, "/") + "." + ext
	resp, err := f.Client.Get(url)
	if err != nil {
		return nil, false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("fetching %s: unexpected status %s", url, resp.Status)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

// Open fetches whichever of shp/shx/dbf/cpg/prj exist at BaseURL.
func (f Fetch) Open() (shapefile.Streams, error) {
	var s shapefile.Streams
	if b, ok, err := f.get("shp"); err != nil {
		return s, err
	} else if ok {
		s.Shp = bytes.NewReader(b)
	}
	if b, ok, err := f.get("shx"); err != nil {
		return s, err
	} else if ok {
		s.Shx = bytes.NewReader(b)
	}
	if b, ok, err := f.get("dbf"); err != nil {
		return s, err
	} else if ok {
		s.Dbf = bytes.NewReader(b)
	}
	if b, ok, _ := f.get("cpg"); ok {
		s.Cpg = strings.TrimSpace(string(b))
	}
	if b, ok, _ := f.get("prj"); ok {
		s.Prj = string(b)
	}
	return s, nil
}
