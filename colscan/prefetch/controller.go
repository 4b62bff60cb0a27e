// Package prefetch keeps a bounded queue of ready/in-flight file readers,
// decides whether binding may run in parallel or must run serially, and
// triggers a refill when the queue runs low.
package prefetch

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/parquetsource/colscan/descriptor"
	"github.com/parquetsource/colscan/reader"
	"github.com/parquetsource/colscan/rowtrack"
)

// asyncRefillThreshold is the queue depth at or below which the async path
// triggers a refill.
const asyncRefillThreshold = 2

// Controller holds the unbound file-index backlog and the FIFO queue of
// already-bound readers for one scan. It is owned by a single Source and
// is not safe for concurrent use, matching GetBatches's non-reentrancy.
type Controller struct {
	desc    *descriptor.ScanDescriptor
	factory *reader.Factory
	counter *rowtrack.Counter

	remaining []int // file indices not yet bound, in ascending order
	queue     []reader.BoundReader

	// serial is true when a slice or row-index is active, forcing binds
	// to happen in strict file-index order so the row counter advances
	// in the same order rows are later emitted.
	serial bool
}

// NewController builds a Controller over every file in desc.Sources. When
// desc.RunAsync is true, it eagerly performs one refill so network
// round-trips overlap with downstream graph construction.
func NewController(ctx context.Context, desc *descriptor.ScanDescriptor, factory *reader.Factory, counter *rowtrack.Counter) (*Controller, error) {
	remaining := make([]int, len(desc.Sources))
	for i := range remaining {
		remaining[i] = i
	}

	c := &Controller{
		desc:      desc,
		factory:   factory,
		counter:   counter,
		remaining: remaining,
		serial:    desc.PreSlice != nil || desc.RowIndex != nil,
	}

	if desc.RunAsync {
		if err := c.Refill(ctx); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// sliceExhausted reports whether the files bound so far already cover the
// end of the requested pre-slice, letting the sync path short-circuit
// further binds.
func (c *Controller) sliceExhausted() bool {
	s := c.desc.PreSlice
	return s != nil && c.counter.Load() >= s.Offset+s.Length
}

// Refill applies the prefetch policy once; called at the start of every
// GetBatches.
func (c *Controller) Refill(ctx context.Context) error {
	if len(c.remaining) == 0 {
		return nil
	}

	if !c.desc.RunAsync {
		return c.refillSync()
	}
	return c.refillAsync(ctx)
}

func (c *Controller) refillSync() error {
	for len(c.queue) < c.desc.PrefetchSize && len(c.remaining) > 0 {
		if c.sliceExhausted() {
			break
		}
		idx := c.remaining[0]
		c.remaining = c.remaining[1:]

		br, err := c.factory.BindSync(idx)
		if err != nil {
			return err
		}
		c.queue = append(c.queue, br)
	}
	return nil
}

func (c *Controller) refillAsync(ctx context.Context) error {
	if len(c.queue) > asyncRefillThreshold {
		return nil
	}

	// PrefetchSize - len(queue) is clamped to zero rather than allowed to
	// underflow.
	k := c.desc.PrefetchSize - len(c.queue)
	if k < 0 {
		k = 0
	}
	if k > len(c.remaining) {
		k = len(c.remaining)
	}
	if k == 0 {
		return nil
	}

	idxs := c.remaining[:k]
	c.remaining = c.remaining[k:]
	bound := make([]reader.BoundReader, k)

	if c.serial {
		// A pre-slice or row-index is active: binds must happen in
		// file-index order so the row counter increments correctly.
		for i, idx := range idxs {
			br, err := c.factory.BindAsync(ctx, idx)
			if err != nil {
				return err
			}
			bound[i] = br
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		for i, idx := range idxs {
			i, idx := i, idx
			g.Go(func() error {
				br, err := c.factory.BindAsync(gctx, idx)
				if err != nil {
					return err
				}
				bound[i] = br
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}

	c.queue = append(c.queue, bound...)
	return nil
}

// PopHead removes and returns the lowest-file-index bound reader, or
// ok == false if the queue is empty.
func (c *Controller) PopHead() (br reader.BoundReader, ok bool) {
	if len(c.queue) == 0 {
		return nil, false
	}
	head := c.queue[0]
	c.queue = c.queue[1:]
	return head, true
}

// PushFront returns a not-yet-exhausted reader to the front of the queue
// so it is the next one popped.
func (c *Controller) PushFront(br reader.BoundReader) {
	c.queue = append([]reader.BoundReader{br}, c.queue...)
}

// Done reports whether every file has been bound and consumed.
func (c *Controller) Done() bool {
	return len(c.remaining) == 0 && len(c.queue) == 0
}
