package decoder

import (
	"context"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/parquetsource/colscan/common"
)

// ReferenceFactory builds reference decoders: a deterministic stand-in for
// a real columnar decode, used to exercise the reader pipeline's
// observable behavior without depending on an actual column-chunk codec
// (out of scope for this package). Every reference decoder built by the same factory
// shares its RAM budget and decode concurrency limit, mirroring how a real
// decode pool would be shared across a scan's open files.
type ReferenceFactory struct {
	ram   common.CacheLimiter
	slots common.SendLimiter
	mem   memory.Allocator
}

// NewReferenceFactory builds a ReferenceFactory. ramBudgetBytes bounds the
// aggregate in-flight decode buffer size across every decoder it
// produces; maxConcurrentDecodes bounds how many NextBatches calls may
// materialize a batch at once.
func NewReferenceFactory(ramBudgetBytes int64, maxConcurrentDecodes int64) *ReferenceFactory {
	return &ReferenceFactory{
		ram:   common.NewCacheLimiter(ramBudgetBytes),
		slots: common.NewSendLimiter(maxConcurrentDecodes),
		mem:   memory.NewGoAllocator(),
	}
}

func (f *ReferenceFactory) NewDecoder(params BindParams) (BatchedDecoder, error) {
	rows, err := planRows(params)
	if err != nil {
		return nil, err
	}
	schema := params.Descriptor.OutputSchema(params.FileIndex)
	return &referenceDecoder{
		params: params,
		schema: schema,
		rows:   rows,
		ram:    f.ram,
		slots:  f.slots,
		mem:    f.mem,
	}, nil
}

// planRows decides, up front, the file-local row positions that survive
// slicing and predicate evaluation, honoring statistics-based row-group
// pruning per params.Descriptor.UseStatistics. The reference decoder is
// small enough that planning eagerly (rather than lazily per NextBatches
// call) keeps NextBatches itself simple, at the cost of holding a []int64
// of surviving row positions in memory for the life of the decoder.
func planRows(params BindParams) ([]int64, error) {
	total := params.Footer.NumRows

	sliceStart, sliceEnd := int64(0), total
	if params.Slice != nil {
		sliceStart = params.Slice.Offset
		sliceEnd = params.Slice.Offset + params.Slice.Length
	}
	if sliceStart >= sliceEnd {
		return nil, nil
	}

	missing := map[string]bool{}
	for _, c := range params.MissingColumns {
		missing[c] = true
	}

	var rows []int64
	groupStart := int64(0)
	pred := params.Descriptor.Predicate
	useStats := params.Descriptor.UseStatistics

	emitGroup := func(start, numRows int64) {
		end := start + numRows
		lo, hi := max64(start, sliceStart), min64(end, sliceEnd)
		for pos := lo; pos < hi; pos++ {
			if pred != nil {
				row := syntheticRow(params, pos, missing)
				if !pred.Eval(row) {
					continue
				}
			}
			rows = append(rows, pos)
		}
	}

	if len(params.Footer.RowGroups) == 0 {
		emitGroup(0, total)
		return rows, nil
	}

	for _, g := range params.Footer.RowGroups {
		start := groupStart
		groupStart += g.NumRows
		if start >= sliceEnd || start+g.NumRows <= sliceStart {
			continue // wholly outside the slice window
		}
		if useStats && pred != nil && !pred.MayMatch(g.Columns) {
			continue // pruned by statistics without reading a single row
		}
		emitGroup(start, g.NumRows)
	}
	return rows, nil
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

// syntheticRow materializes one row's worth of deterministic values keyed
// by column name, for predicate evaluation during planning. Batch
// construction writes its values through appendSynthetic instead, which
// mirrors syntheticValue for int64/int32, float64/float32, bool and string
// columns; for any other column type syntheticValue yields a "name-pos"
// string while appendSynthetic appends null.
func syntheticRow(params BindParams, pos int64, missing map[string]bool) map[string]any {
	row := make(map[string]any)
	for _, f := range params.Descriptor.ProjectionOrFull().Fields() {
		if missing[f.Name] {
			row[f.Name] = nil
			continue
		}
		row[f.Name] = syntheticValue(f.Type, f.Name, pos)
	}
	return row
}

func syntheticValue(typ arrow.DataType, name string, pos int64) any {
	switch typ.ID() {
	case arrow.INT64, arrow.INT32:
		return pos
	case arrow.FLOAT64, arrow.FLOAT32:
		return float64(pos) * 1.5
	case arrow.BOOL:
		return pos%2 == 0
	default:
		return fmt.Sprintf("%s-%d", name, pos)
	}
}

// referenceDecoder is the BatchedDecoder bound to one file. It holds the
// full row plan for that file (already sliced and predicate-filtered) and
// slices it into chunkSize-row batches on demand.
type referenceDecoder struct {
	params BindParams
	schema *arrow.Schema
	rows   []int64
	pos    int

	ram   common.CacheLimiter
	slots common.SendLimiter
	mem   memory.Allocator
}

func (d *referenceDecoder) NextBatches(ctx context.Context, n int) ([]Batch, bool, error) {
	if n <= 0 {
		n = 1
	}
	if d.pos >= len(d.rows) {
		return nil, true, nil
	}

	var batches []Batch
	for len(batches) < n && d.pos < len(d.rows) {
		end := d.pos + d.params.ChunkSize
		if end > len(d.rows) {
			end = len(d.rows)
		}
		rec, err := d.materialize(ctx, d.rows[d.pos:end])
		if err != nil {
			return nil, false, err
		}
		batches = append(batches, Batch{Data: rec})
		d.pos = end
	}
	return batches, false, nil
}

func (d *referenceDecoder) materialize(ctx context.Context, positions []int64) (arrow.Record, error) {
	estimatedBytes := int64(len(positions)) * int64(len(d.schema.Fields())) * 8
	if d.slots != nil {
		if err := d.slots.AcquireSendSlot(ctx); err != nil {
			return nil, err
		}
		defer d.slots.ReleaseSendSlot()
	}
	if d.ram != nil {
		if err := d.ram.WaitUntilAdd(ctx, estimatedBytes, func() bool { return false }); err != nil {
			return nil, err
		}
		defer d.ram.Remove(estimatedBytes)
	}

	rb := array.NewRecordBuilder(d.mem, d.schema)
	defer rb.Release()

	missing := map[string]bool{}
	for _, c := range d.params.MissingColumns {
		missing[c] = true
	}

	projFields := d.params.Descriptor.ProjectionOrFull().Fields()
	nProj := len(projFields)
	hiveParts := d.params.HiveParts

	for _, pos := range positions {
		for i, f := range projFields {
			appendSynthetic(rb.Field(i), f, missing[f.Name], pos)
		}
		col := nProj
		for _, hp := range hiveParts {
			rb.Field(col).(*array.StringBuilder).Append(hp.Value)
			col++
		}
		if d.params.RowIndexOffset != nil {
			rb.Field(col).(*array.Int64Builder).Append(*d.params.RowIndexOffset + pos)
			col++
		}
		if d.params.Descriptor.IncludeFilePaths != "" {
			rb.Field(col).(*array.StringBuilder).Append(d.params.FilePath)
			col++
		}
	}

	return rb.NewRecord(), nil
}

func appendSynthetic(b array.Builder, f arrow.Field, isMissing bool, pos int64) {
	if isMissing {
		b.AppendNull()
		return
	}
	switch bb := b.(type) {
	case *array.Int64Builder:
		bb.Append(pos)
	case *array.Int32Builder:
		bb.Append(int32(pos))
	case *array.Float64Builder:
		bb.Append(float64(pos) * 1.5)
	case *array.Float32Builder:
		bb.Append(float32(pos) * 1.5)
	case *array.BooleanBuilder:
		bb.Append(pos%2 == 0)
	case *array.StringBuilder:
		bb.Append(fmt.Sprintf("%s-%d", f.Name, pos))
	default:
		b.AppendNull()
	}
}
