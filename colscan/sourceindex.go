package colscan

import "sync/atomic"

// sourceIndexCounter is a single process-wide, monotonic counter reserved
// by fetch-and-add, never reset for the life of the process. It is shared
// by every Source in the process, not just one scan, which is what lets
// chunk index values serve as a total order across concurrently running
// scans.
var sourceIndexCounter atomic.Int64

// reserveChunkIndices reserves a contiguous block of n chunk indices and
// returns the first one in the block; chunk index i+1..i+n-1 follow it.
// Reserving zero or a negative count is a no-op that returns the current
// value without advancing it.
func reserveChunkIndices(n int) int64 {
	if n <= 0 {
		return sourceIndexCounter.Load()
	}
	return sourceIndexCounter.Add(int64(n)) - int64(n)
}
