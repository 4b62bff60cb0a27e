// Package format defines the minimal self-describing footer a source file
// exposes to the scan: its schema, row count, and per-row-group column
// statistics. It stands in for a real parquet footer decoder, which is out
// of scope for this module (see colscan/decoder).
package format

import "github.com/apache/arrow-go/v18/arrow"

// ColumnStats is the statistics a row group may carry for one column. A
// zero-value ColumnStats (HasMin == false) means no statistics were
// written for that column, and pruning must treat the group as a possible
// match.
type ColumnStats struct {
	HasMin   bool
	HasMax   bool
	Min      any
	Max      any
	HasNull  bool // at least one null value is present in the group
	AllNull  bool // every value in the group is null
}

// RowGroupStats is the metadata for one contiguous run of rows within a
// file: how many rows it has, and per-column statistics keyed by column
// name.
type RowGroupStats struct {
	NumRows int64
	Columns map[string]ColumnStats
}

// Footer is everything a scan needs to know about a file before reading any
// of its row data: its schema, total row count, and the boundaries/stats of
// its row groups. A real columnar format reads this from a trailer at the
// end of the file; this module's openers decode it from a JSON sidecar
// instead (see json.go).
type Footer struct {
	Schema    *arrow.Schema
	NumRows   int64
	RowGroups []RowGroupStats
}

// HasColumn reports whether name is present in the footer's schema.
func (f Footer) HasColumn(name string) bool {
	for _, fld := range f.Schema.Fields() {
		if fld.Name == name {
			return true
		}
	}
	return false
}

// MissingColumns returns the subset of want not present in the footer's
// schema, preserving want's order.
func (f Footer) MissingColumns(want []string) []string {
	var missing []string
	for _, name := range want {
		if !f.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	return missing
}
