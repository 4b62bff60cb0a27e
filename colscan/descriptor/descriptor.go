// Package descriptor holds the scan descriptor: the immutable set of
// parameters that select what a Source reads (sources, schema, projection,
// predicate, slice, row-index, hive columns) and how it reads it
// (prefetch size, thread count, sync vs async). It is the value vocabulary
// shared by colscan (the Source facade), colscan/prefetch and
// colscan/reader, kept in its own leaf package so none of those three need
// to import each other.
package descriptor

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/parquetsource/colscan/format"
)

// Slice is a (offset, length) window over the concatenated row stream of
// every source file, in source order.
type Slice struct {
	Offset int64
	Length int64
}

// End returns the exclusive upper bound of the slice.
func (s Slice) End() int64 { return s.Offset + s.Length }

// Intersect splits the slice against a file's global row range
// [fileStart, fileStart+fileRows), returning the portion of the slice that
// falls inside that file in file-local coordinates. ok is false when the
// file is wholly outside the requested window.
func (s Slice) Intersect(fileStart, fileRows int64) (local Slice, ok bool) {
	fileEnd := fileStart + fileRows
	lo := max64(s.Offset, fileStart)
	hi := min64(s.End(), fileEnd)
	if hi <= lo {
		return Slice{}, false
	}
	return Slice{Offset: lo - fileStart, Length: hi - lo}, true
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

// RowIndexSpec requests a synthesized monotonic integer column, continuing
// across file boundaries starting at StartingOffset.
type RowIndexSpec struct {
	Name           string
	StartingOffset int64
}

// HivePartition is one constant column materialized from a file's path,
// e.g. {Column: "year", Value: "2024"} for a path segment "year=2024".
type HivePartition struct {
	Column string
	Value  string
}

// Predicate is the opaque, pushed-down row selection contract: the
// decoder may evaluate it over row-group statistics (to prune whole
// groups) or over materialized rows (to filter individual rows).
// The absence of a predicate (a nil Predicate) is equivalent to "true".
type Predicate interface {
	// MayMatch reports whether a row group could possibly contain a
	// matching row, given its per-column statistics. Must return true
	// when it cannot decide (e.g. a column it needs has no statistics).
	MayMatch(stats map[string]format.ColumnStats) bool

	// Eval reports whether a single materialized row matches. row is
	// keyed by column name.
	Eval(row map[string]any) bool

	// String returns a short diagnostic representation, used in
	// fmt-style plan output.
	String() string
}

// ScanDescriptor is the immutable parameter set for one scan, shared by
// every file read during it. It is built once and never mutated; the
// Source and its collaborators only ever read from it.
type ScanDescriptor struct {
	// Sources is the ordered, path-addressed list of files to read.
	// Index order is also row order: file i's rows precede file i+1's.
	Sources []string

	// FirstSchema is the logical schema inferred from Sources[0]'s
	// footer. Authoritative for the whole scan.
	FirstSchema *arrow.Schema

	// ProjectedSchema is the subset of FirstSchema to materialize. Nil
	// means project every column.
	ProjectedSchema *arrow.Schema

	// AllowMissingColumns: when true, a file missing a projected column
	// yields null for that column instead of failing the scan.
	AllowMissingColumns bool

	// Predicate is the optional row-level pushdown predicate. Nil means
	// no filtering.
	Predicate Predicate

	// PreSlice is the optional (offset, length) window over the
	// concatenated row stream. Nil means no slicing.
	PreSlice *Slice

	// RowIndex requests a synthesized monotonic row-index column. Nil
	// means none is added.
	RowIndex *RowIndexSpec

	// IncludeFilePaths, when non-empty, is the column name under which
	// each batch carries a constant string column of its originating
	// file path.
	IncludeFilePaths string

	// HiveParts holds, per source file (same indexing as Sources), the
	// constant hive-partition columns to materialize. May be nil or
	// shorter than Sources; missing entries mean no hive columns for
	// that file.
	HiveParts [][]HivePartition

	// UseStatistics: when true, the decoder may skip row groups whose
	// column statistics prove the predicate false.
	UseStatistics bool

	// PrefetchSize is the target number of readers to keep initialized
	// ahead of consumption.
	PrefetchSize int

	// NThreads is the parallelism target for batch decoding.
	NThreads int

	// RunAsync is true when Sources[0] addresses a remote backend, or
	// async mode is otherwise forced. It is a routing decision, not two
	// parallel code paths: every component exposes one capability set
	// and branches on this flag only where bind ordering matters.
	RunAsync bool

	// FirstMetadata, when non-nil, is the already-known footer of
	// Sources[0] (e.g. obtained during query planning). It is consumed
	// on the first file's bind only, to avoid re-parsing the footer.
	FirstMetadata *format.Footer
}

// HivePartsFor returns the hive-partition constants for source file i, or
// nil if none were supplied.
func (d *ScanDescriptor) HivePartsFor(i int) []HivePartition {
	if i < 0 || i >= len(d.HiveParts) {
		return nil
	}
	return d.HiveParts[i]
}

// Validate checks the descriptor's internal consistency. It does not touch
// any file; structural checks only.
func (d *ScanDescriptor) Validate() error {
	if len(d.Sources) == 0 {
		return fmt.Errorf("descriptor: no source files")
	}
	if d.FirstSchema == nil {
		return fmt.Errorf("descriptor: first schema is required")
	}
	if d.PreSlice != nil && (d.PreSlice.Offset < 0 || d.PreSlice.Length < 0) {
		return fmt.Errorf("descriptor: pre-slice offset and length must be >= 0, got %+v", *d.PreSlice)
	}
	if d.HiveParts != nil && len(d.HiveParts) > len(d.Sources) {
		return fmt.Errorf("descriptor: hive_parts has more entries (%d) than sources (%d)", len(d.HiveParts), len(d.Sources))
	}
	if d.PrefetchSize <= 0 {
		return fmt.Errorf("descriptor: prefetch_size must be > 0, got %d", d.PrefetchSize)
	}
	if d.NThreads <= 0 {
		return fmt.Errorf("descriptor: n_threads must be > 0, got %d", d.NThreads)
	}
	return nil
}

// ProjectionOrFull returns ProjectedSchema, or FirstSchema when no
// projection was requested.
func (d *ScanDescriptor) ProjectionOrFull() *arrow.Schema {
	if d.ProjectedSchema != nil {
		return d.ProjectedSchema
	}
	return d.FirstSchema
}

// OutputSchema returns the schema every emitted batch must match exactly:
// the projection, followed by this file's hive-partition columns (if any),
// the row-index column (if requested), and the file-path column (if
// requested). fileIdx selects which file's hive columns to append, since
// hive partitioning can vary from file to file.
func (d *ScanDescriptor) OutputSchema(fileIdx int) *arrow.Schema {
	base := d.ProjectionOrFull()
	fields := append([]arrow.Field(nil), base.Fields()...)

	for _, hp := range d.HivePartsFor(fileIdx) {
		fields = append(fields, arrow.Field{Name: hp.Column, Type: arrow.BinaryTypes.String})
	}
	if d.RowIndex != nil {
		fields = append(fields, arrow.Field{Name: d.RowIndex.Name, Type: arrow.PrimitiveTypes.Int64})
	}
	if d.IncludeFilePaths != "" {
		fields = append(fields, arrow.Field{Name: d.IncludeFilePaths, Type: arrow.BinaryTypes.String})
	}
	return arrow.NewSchema(fields, nil)
}
