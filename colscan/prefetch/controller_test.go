package prefetch

import (
	"context"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parquetsource/colscan/decoder"
	"github.com/parquetsource/colscan/decoder/fake"
	"github.com/parquetsource/colscan/descriptor"
	"github.com/parquetsource/colscan/reader"
	"github.com/parquetsource/colscan/rowtrack"
)

func testSchema() *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{{Name: "x", Type: arrow.PrimitiveTypes.Int64}}, nil)
}

func newFactory(desc *descriptor.ScanDescriptor, op *fake.Opener, counter *rowtrack.Counter) *reader.Factory {
	return &reader.Factory{
		Descriptor:     desc,
		Sync:           op,
		Async:          op,
		DecoderFactory: decoder.NewReferenceFactory(1<<30, 8),
		Counter:        counter,
	}
}

func fiveFileDescriptor(runAsync bool) (*descriptor.ScanDescriptor, *fake.Opener) {
	op := fake.New()
	sources := make([]string, 5)
	for i := 0; i < 5; i++ {
		name := string(rune('a' + i))
		sources[i] = name
		op.Footers[name] = fake.FileFooter(10, "x")
	}
	desc := &descriptor.ScanDescriptor{
		Sources:         sources,
		FirstSchema:     testSchema(),
		ProjectedSchema: testSchema(),
		PrefetchSize:    3,
		NThreads:        2,
		RunAsync:        runAsync,
	}
	return desc, op
}

func TestRefillSyncBindsUpToPrefetchSizeInOrder(t *testing.T) {
	desc, op := fiveFileDescriptor(false)
	counter := &rowtrack.Counter{}
	ctl, err := NewController(context.Background(), desc, newFactory(desc, op, counter), counter)
	require.NoError(t, err)

	require.NoError(t, ctl.Refill(context.Background()))
	assert.Len(t, ctl.queue, 3)
	assert.Equal(t, []string{"a", "b", "c"}, op.OpenOrder)

	head, ok := ctl.PopHead()
	require.True(t, ok)
	assert.EqualValues(t, 10, head.NumRows())
}

func TestPopHeadFIFOAndPushFrontReinserts(t *testing.T) {
	desc, op := fiveFileDescriptor(false)
	counter := &rowtrack.Counter{}
	ctl, err := NewController(context.Background(), desc, newFactory(desc, op, counter), counter)
	require.NoError(t, err)
	require.NoError(t, ctl.Refill(context.Background()))

	first, ok := ctl.PopHead()
	require.True(t, ok)
	assert.Equal(t, "a", op.OpenOrder[0])

	ctl.PushFront(first)
	second, ok := ctl.PopHead()
	require.True(t, ok)
	assert.Same(t, first, second)
}

func TestStartupOptimizationEagerlyRefillsWhenAsync(t *testing.T) {
	desc, op := fiveFileDescriptor(true)
	counter := &rowtrack.Counter{}
	ctl, err := NewController(context.Background(), desc, newFactory(desc, op, counter), counter)
	require.NoError(t, err)

	assert.Len(t, ctl.queue, 3)
	assert.Len(t, op.OpenOrder, 3)
}

func TestAsyncRefillThresholdSkipsWhenQueueDeepEnough(t *testing.T) {
	desc, op := fiveFileDescriptor(true)
	counter := &rowtrack.Counter{}
	ctl, err := NewController(context.Background(), desc, newFactory(desc, op, counter), counter)
	require.NoError(t, err)
	before := len(op.OpenOrder)

	// Queue already holds 3 > asyncRefillThreshold (2): a second Refill
	// call must not bind anything further.
	require.NoError(t, ctl.Refill(context.Background()))
	assert.Len(t, op.OpenOrder, before)
}

func TestAsyncRefillClampsNegativeK(t *testing.T) {
	desc, op := fiveFileDescriptor(true)
	desc.PrefetchSize = 1 // the eager startup refill binds exactly one reader
	counter := &rowtrack.Counter{}
	ctl, err := NewController(context.Background(), desc, newFactory(desc, op, counter), counter)
	require.NoError(t, err)
	require.Len(t, op.OpenOrder, 1)

	// Push the bound reader back twice so the queue depth (2) is at the
	// threshold but deeper than prefetch_size (1): prefetch_size minus the
	// queue depth is negative, and Refill must clamp it to zero binds rather
	// than panic or underflow a slice bound.
	head, ok := ctl.PopHead()
	require.True(t, ok)
	ctl.PushFront(head)
	ctl.PushFront(head)
	require.NoError(t, ctl.Refill(context.Background()))
	assert.Len(t, op.OpenOrder, 1)
}

func TestSerialBindOrderWhenSliceActive(t *testing.T) {
	desc, op := fiveFileDescriptor(true)
	desc.PreSlice = &descriptor.Slice{Offset: 0, Length: 50}
	counter := &rowtrack.Counter{}
	ctl, err := NewController(context.Background(), desc, newFactory(desc, op, counter), counter)
	require.NoError(t, err)

	assert.True(t, ctl.serial)
	assert.Equal(t, []string{"a", "b", "c"}, op.OpenOrder)
}

func TestDoneOnlyAfterQueueAndRemainingEmpty(t *testing.T) {
	desc, op := fiveFileDescriptor(false)
	desc.PrefetchSize = 10
	counter := &rowtrack.Counter{}
	ctl, err := NewController(context.Background(), desc, newFactory(desc, op, counter), counter)
	require.NoError(t, err)
	assert.False(t, ctl.Done())

	require.NoError(t, ctl.Refill(context.Background()))
	assert.Empty(t, ctl.remaining)
	assert.False(t, ctl.Done())

	for {
		_, ok := ctl.PopHead()
		if !ok {
			break
		}
	}
	assert.True(t, ctl.Done())
}
