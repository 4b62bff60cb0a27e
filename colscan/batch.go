package colscan

import "github.com/apache/arrow-go/v18/arrow"

// Batch is the scan's output unit: one decoded, column-projected, sliced
// and predicate-applied record, tagged with a globally monotonic chunk
// index for downstream pipeline ordering.
type Batch struct {
	// ChunkIndex is assigned from the process-wide source-index service
	// when the batch is handed back to the caller of GetBatches, not
	// when it is produced by the decoder.
	ChunkIndex int64

	// Data is the decoded record. Its schema is exactly
	// ScanDescriptor.OutputSchema(fileIdx) for the file it came from.
	Data arrow.Record
}

// NumRows returns the row count of the batch's underlying record, or 0 if
// Data is nil.
func (b Batch) NumRows() int64 {
	if b.Data == nil {
		return 0
	}
	return b.Data.NumRows()
}
