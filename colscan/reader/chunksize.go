package reader

// DetermineChunkSize computes the per-batch row chunk size: a
// deterministic pure function of the number of projected columns and the
// decode thread-pool size, balancing how many cells (rows × columns) one
// batch holds against how many threads can work on separate batches at
// once. This is the one piece of sizing math this module invents outright
// (nothing in the corpus exposes an equivalent knob); it has no third-party
// counterpart to wire in because it is pure arithmetic over two integers,
// not an I/O or data-structure concern.
const (
	minChunkRows   = 1024
	maxChunkRows   = 128 * 1024
	cellBudget     = 1 << 20 // rows * columns shared by nThreads batches; one batch gets cellBudget / nThreads
)

func DetermineChunkSize(nProjectedColumns, nThreads int) int {
	if nProjectedColumns <= 0 {
		nProjectedColumns = 1
	}
	if nThreads <= 0 {
		nThreads = 1
	}

	rowsPerThread := cellBudget / nProjectedColumns
	size := rowsPerThread / nThreads

	switch {
	case size < minChunkRows:
		return minChunkRows
	case size > maxChunkRows:
		return maxChunkRows
	default:
		return size
	}
}
