// Package colscan implements a streaming columnar file source: a
// multi-file reader that overlaps fetch with compute, via a prefetch
// controller that binds file readers ahead of consumption and a source
// facade that drains them in order.
package colscan

import (
	"context"

	"github.com/parquetsource/colscan/common"
	"github.com/parquetsource/colscan/descriptor"
	"github.com/parquetsource/colscan/prefetch"
	"github.com/parquetsource/colscan/reader"
	"github.com/parquetsource/colscan/rowtrack"
)

// Source is the pipeline's source contract: GetBatches plus a short
// diagnostic name. It is owned by one consumer and GetBatches is not
// re-entrant.
type Source struct {
	desc    *descriptor.ScanDescriptor
	ctl     *prefetch.Controller
	counter *rowtrack.Counter
	logger  common.ILogger

	finished bool
}

// New constructs a Source for desc, binding file readers through factory.
// If desc.RunAsync is true, construction eagerly binds ahead so the first
// file's reader is already initialized.
func New(ctx context.Context, desc *descriptor.ScanDescriptor, factory *reader.Factory, logger common.ILogger) (*Source, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}

	counter := &rowtrack.Counter{}
	factory.Counter = counter

	ctl, err := prefetch.NewController(ctx, desc, factory, counter)
	if err != nil {
		return nil, err
	}

	return &Source{desc: desc, ctl: ctl, counter: counter, logger: logger}, nil
}

// Fmt returns the short name tag a diagnostic plan prints for this source.
func (s *Source) Fmt() string {
	return "colscan"
}

// GetBatches implements the pipeline's source contract. It is written as
// an explicit loop rather than recursion: each iteration either emits
// batches and returns, or advances past a depleted reader and loops
// again; both reduce the number of undepleted readers or reach
// exhaustion, so the loop always terminates.
//
// Returns batches == nil, done == true once every file is exhausted; all
// further calls continue to return done == true.
func (s *Source) GetBatches(ctx context.Context) (batches []Batch, done bool, err error) {
	if s.finished {
		return nil, true, nil
	}

	for {
		if err := s.ctl.Refill(ctx); err != nil {
			return nil, false, err
		}

		head, ok := s.ctl.PopHead()
		if !ok {
			s.finished = true
			return nil, true, nil
		}

		decBatches, doneReader, err := head.Batched().NextBatches(ctx, s.desc.NThreads)
		if err != nil {
			return nil, false, err
		}

		if doneReader {
			if err := head.Close(); err != nil && s.logger != nil {
				s.logger.Log(common.LogWarning, "colscan: closing exhausted reader: "+err.Error())
			}
			continue
		}

		out := make([]Batch, len(decBatches))
		first := reserveChunkIndices(len(decBatches))
		for i, b := range decBatches {
			out[i] = Batch{ChunkIndex: first + int64(i), Data: b.Data}
		}

		s.ctl.PushFront(head)
		return out, false, nil
	}
}
