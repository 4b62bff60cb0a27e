// Package reader implements the file reader factory: it binds a
// ScanDescriptor's capability set (projection, predicate, hive columns,
// row-index offset, per-file slice) to one source file and produces a
// batched decoder. Sync (local) and async (remote) binding share the same
// pipeline; only how the raw file handle is opened differs.
package reader

import (
	"context"
	"io"

	"github.com/parquetsource/colscan/common"
	"github.com/parquetsource/colscan/decoder"
	"github.com/parquetsource/colscan/format"
)

// CloudOptions is the per-request remote-backend configuration an
// AsyncOpener receives on every OpenAsync call: a user agent, plus an
// opaque Extra map. This package does not itself hold credentials; callers
// construct an authenticated cloud SDK client and pass it to the backend's
// New, not through CloudOptions.
type CloudOptions struct {
	UserAgent string
	Extra     map[string]any
}

// RawReader is the handle an Opener/AsyncOpener hands back before binding:
// enough to read a footer, nothing more.
type RawReader interface {
	// Footer returns the file's schema, row count, and row-group
	// statistics. Called at most once per bind.
	Footer(ctx context.Context) (*format.Footer, error)
	Close() error
}

// Opener opens a local, path-addressed file synchronously.
type Opener interface {
	Open(path string) (RawReader, error)
}

// maxFooterSize bounds the pooled buffers a remote opener rents for a
// footer download; footers are a small JSON sidecar, never the data file
// itself, so a pool sized in MiB is already generous.
const maxFooterSize = 4 << 20

// NewFooterBufferPool builds the pooled byte-slice allocator a remote
// opener's Footer call rents from, so repeated footer downloads across a
// scan's many files reuse the same handful of buffers instead of
// allocating a fresh one per file.
func NewFooterBufferPool() common.ByteSlicePooler {
	return common.NewMultiSizeSlicePool(maxFooterSize)
}

// ReadFooterBytes drains r into a buffer rented from pool, using
// io.ReadFull when sizeHint (the backend's reported content length) is
// known and positive, since the pool is only safe to rent from when the
// exact number of bytes to fill is known up front. It falls back to an
// unpooled io.ReadAll when sizeHint is <= 0 or exceeds what the pool was
// built to hold. The returned release func must be called once the
// caller is done with the bytes (format.DecodeJSON copies what it needs,
// so callers release immediately after decoding).
func ReadFooterBytes(pool common.ByteSlicePooler, r io.Reader, sizeHint int64) (data []byte, release func(), err error) {
	if pool == nil || sizeHint <= 0 || sizeHint > maxFooterSize {
		data, err = io.ReadAll(r)
		return data, func() {}, err
	}

	buf := pool.RentSlice(uint32(sizeHint))
	if _, err := io.ReadFull(r, buf); err != nil {
		pool.ReturnSlice(buf)
		return nil, func() {}, err
	}
	return buf, func() { pool.ReturnSlice(buf) }, nil
}

// AsyncOpener opens a remote, URI-addressed file. Binding against an
// AsyncOpener conceptually runs on the I/O path so the compute thread
// pool isn't blocked on network waits; this package models that as
// ordinary context-aware blocking calls, since Go's goroutines already
// make that cheap.
type AsyncOpener interface {
	OpenAsync(ctx context.Context, uri string, opts CloudOptions) (RawReader, error)
}

// BoundReader is a RawReader that has had a ScanDescriptor's capability
// set applied: projection, predicate, hive/file-path/row-index columns,
// and a per-file slice. Batched requests a decoder that chunks the bound
// file's surviving rows into chunkSize-row batches.
type BoundReader interface {
	// NumRows is this file's total row count, from its footer. Not the
	// post-slice count.
	NumRows() int64

	// Batched returns this file's batched decoder, built with the chunk
	// size the factory computed at bind time. Idempotent: the same
	// decoder instance is returned on every call, since a decoder
	// carries its own read position across polls.
	Batched() decoder.BatchedDecoder

	Close() error
}
