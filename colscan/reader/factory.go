package reader

import (
	"context"
	"fmt"

	"github.com/parquetsource/colscan/common"
	"github.com/parquetsource/colscan/decoder"
	"github.com/parquetsource/colscan/descriptor"
	"github.com/parquetsource/colscan/format"
	"github.com/parquetsource/colscan/rowtrack"
)

// Factory is the file reader factory, one per scan. BindSync
// and BindAsync share bindOne for every step except how the raw file
// handle is obtained.
type Factory struct {
	Descriptor     *descriptor.ScanDescriptor
	Sync           Opener
	Async          AsyncOpener
	CloudOpts      CloudOptions
	DecoderFactory decoder.Factory
	Counter        *rowtrack.Counter
	Logger         common.ILogger
}

// BindSync opens and binds source file fileIdx through the synchronous
// (local) Opener.
func (f *Factory) BindSync(fileIdx int) (BoundReader, error) {
	path := f.Descriptor.Sources[fileIdx]
	if f.Sync == nil {
		return nil, common.NewScanError(common.EErrorKind.UnsupportedSource(), path, errUnsupportedSync)
	}
	raw, err := f.Sync.Open(path)
	if err != nil {
		return nil, common.NewScanError(common.EErrorKind.IO(), path, err)
	}
	return f.bindOne(context.Background(), raw, fileIdx, path)
}

// BindAsync opens and binds source file fileIdx through the asynchronous
// (remote) AsyncOpener, dispatched on the I/O runtime the caller's ctx
// belongs to.
func (f *Factory) BindAsync(ctx context.Context, fileIdx int) (BoundReader, error) {
	path := f.Descriptor.Sources[fileIdx]
	if f.Async == nil {
		return nil, common.NewScanError(common.EErrorKind.UnsupportedSource(), path, errUnsupportedAsync)
	}
	raw, err := f.Async.OpenAsync(ctx, path, f.CloudOpts)
	if err != nil {
		return nil, common.NewScanError(common.EErrorKind.IO(), path, err)
	}
	return f.bindOne(ctx, raw, fileIdx, path)
}

func (f *Factory) bindOne(ctx context.Context, raw RawReader, fileIdx int, path string) (BoundReader, error) {
	desc := f.Descriptor

	var footer *format.Footer
	if fileIdx == 0 && desc.FirstMetadata != nil {
		footer = desc.FirstMetadata
	} else {
		ft, err := raw.Footer(ctx)
		if err != nil {
			_ = raw.Close()
			return nil, common.NewScanError(common.EErrorKind.IO(), path, err)
		}
		footer = ft
	}

	projected := desc.ProjectionOrFull().Fields()
	wanted := make([]string, len(projected))
	for i, fld := range projected {
		wanted[i] = fld.Name
	}
	missing := footer.MissingColumns(wanted)
	if len(missing) > 0 && !desc.AllowMissingColumns {
		_ = raw.Close()
		return nil, common.NewScanError(common.EErrorKind.SchemaMismatch(), path,
			errMissingColumn(missing[0]))
	}

	var rowIndexOffset *int64
	if desc.RowIndex != nil {
		offset := desc.RowIndex.StartingOffset + f.Counter.Load()
		rowIndexOffset = &offset
	}

	nRows := footer.NumRows
	rowOffsetBeforeFile := f.Counter.AddRows(nRows)

	var fileSlice *descriptor.Slice
	if desc.PreSlice != nil {
		local, ok := desc.PreSlice.Intersect(rowOffsetBeforeFile, nRows)
		if !ok {
			local = descriptor.Slice{Offset: 0, Length: 0}
		}
		fileSlice = &local
	}

	chunkSize := DetermineChunkSize(len(projected), desc.NThreads)

	if f.Logger != nil && f.Logger.ShouldLog(common.LogDebug) {
		f.Logger.Log(common.LogDebug, fmt.Sprintf(
			"reader: bound file %d (%s): rows=%d chunk_size=%d missing=%v", fileIdx, path, nRows, chunkSize, missing))
	}

	params := decoder.BindParams{
		Descriptor:     desc,
		Footer:         footer,
		FileIndex:      fileIdx,
		FilePath:       path,
		MissingColumns: missing,
		RowIndexOffset: rowIndexOffset,
		HiveParts:      desc.HivePartsFor(fileIdx),
		Slice:          fileSlice,
		ChunkSize:      chunkSize,
	}

	return &boundReader{
		raw:     raw,
		numRows: nRows,
		params:  params,
		factory: f.DecoderFactory,
	}, nil
}

type boundReader struct {
	raw     RawReader
	numRows int64
	params  decoder.BindParams
	factory decoder.Factory
	dec     decoder.BatchedDecoder
}

func (b *boundReader) NumRows() int64 { return b.numRows }

func (b *boundReader) Batched() decoder.BatchedDecoder {
	if b.dec != nil {
		return b.dec
	}
	dec, err := b.factory.NewDecoder(b.params)
	if err != nil {
		dec = errDecoder{err: err}
	}
	b.dec = dec
	return b.dec
}

func (b *boundReader) Close() error {
	return b.raw.Close()
}

type errDecoder struct{ err error }

func (e errDecoder) NextBatches(ctx context.Context, n int) ([]decoder.Batch, bool, error) {
	return nil, false, e.err
}
