// Package localfs implements reader.Opener against the local filesystem.
// Since decoding a real columnar on-disk format is out of scope for this
// package, a file's footer is read from a JSON sidecar next to
// it (path + ".footer.json") rather than parsed from the data file's own
// trailer; see colscan/format for the sidecar's shape and codec.
package localfs

import (
	"context"
	"os"

	"github.com/parquetsource/colscan/format"
	"github.com/parquetsource/colscan/reader"
)

// Opener opens local, path-addressed files. It never reads the data file
// itself (decode is out of scope); only the sidecar footer matters here.
type Opener struct{}

func New() *Opener { return &Opener{} }

func (o *Opener) Open(path string) (reader.RawReader, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	return &rawReader{path: path}, nil
}

type rawReader struct {
	path string
}

func (r *rawReader) Footer(ctx context.Context) (*format.Footer, error) {
	raw, err := os.ReadFile(r.path + ".footer.json")
	if err != nil {
		return nil, err
	}
	return format.DecodeJSON(raw)
}

func (r *rawReader) Close() error { return nil }
