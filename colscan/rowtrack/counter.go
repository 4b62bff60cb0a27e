// Package rowtrack implements the row-offset tracker: a single
// process-wide-per-scan monotonic counter of rows observed so far across
// files, used to position the global slice and to offset the row-index
// column.
package rowtrack

import "sync/atomic"

// Counter is a relaxed atomic row counter. The only write is AddRows, which
// a File Reader Factory calls once per file, at bind time, with that
// file's row count. Correctness of the per-file row-index offset and of
// slice intersection comes from the Prefetch Controller serializing binds
// whenever a slice or row-index is active — not from memory fencing here.
type Counter struct {
	v atomic.Int64
}

// Load returns the current total row count across every file bound so far.
func (c *Counter) Load() int64 {
	return c.v.Load()
}

// AddRows atomically adds n (one file's row count) to the counter and
// returns the value the counter held immediately before the add — i.e.
// the global row offset at which that file's rows begin.
func (c *Counter) AddRows(n int64) (before int64) {
	return c.v.Add(n) - n
}
