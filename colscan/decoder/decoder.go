// Package decoder defines the batched decoder contract: once a file
// reader is bound, it exposes NextBatches(n) producing a lazy finite
// sequence of decoded column batches of roughly chunk-size rows each. The
// actual decode of a columnar on-disk format is out of scope for this
// package; package decoder instead defines the contract and ships a
// reference implementation (reference.go) that synthesizes deterministic
// values, sufficient to drive and test the reader pipeline without a
// real column codec.
package decoder

import (
	"context"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/parquetsource/colscan/descriptor"
	"github.com/parquetsource/colscan/format"
)

// Batch is one decoded record, before a chunk index has been assigned to
// it (that happens in the Source facade, from the process-wide
// source-index service).
type Batch struct {
	Data arrow.Record
}

// BatchedDecoder is the contract a bound file reader exposes once it has
// been told to produce a batched view:
//
//   - NextBatches returns done == true exactly once, to signal exhaustion.
//   - It may return 1..n batches per call; an empty, non-done result means
//     exhaustion could not yet be determined and the caller should call
//     again.
//   - Each returned batch has at most the decoder's configured chunk size
//     rows, in file order, with predicate, slice and projection already
//     applied.
//   - Safe for repeated calls from a single consumer; not required to be
//     safe across concurrent callers.
type BatchedDecoder interface {
	NextBatches(ctx context.Context, n int) (batches []Batch, done bool, err error)
}

// BindParams is everything a Factory needs to construct a BatchedDecoder
// for one file: the resolved footer, which columns are missing from it
// (to be nulled), the row-index offset and hive columns to materialize,
// the file-local slice window, and the target chunk size. reader.Factory
// (BindSync/BindAsync) assembles this from a ScanDescriptor and a file's
// footer.
type BindParams struct {
	Descriptor     *descriptor.ScanDescriptor
	Footer         *format.Footer
	FileIndex      int
	FilePath       string
	MissingColumns []string
	RowIndexOffset *int64
	HiveParts      []descriptor.HivePartition
	Slice          *descriptor.Slice // file-local; nil means the whole file
	ChunkSize      int
}

// Factory constructs a BatchedDecoder bound to one file's BindParams. The
// reference implementation lives in reference.go; a production build
// would instead wire in a real column-chunk decoder here.
type Factory interface {
	NewDecoder(params BindParams) (BatchedDecoder, error)
}
