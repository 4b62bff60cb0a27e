package rowtrack

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCounterAddRowsReturnsOffsetBeforeAdd(t *testing.T) {
	var c Counter

	before := c.AddRows(100)
	assert.EqualValues(t, 0, before)
	assert.EqualValues(t, 100, c.Load())

	before = c.AddRows(50)
	assert.EqualValues(t, 100, before)
	assert.EqualValues(t, 150, c.Load())
}

func TestCounterConcurrentAddRowsConservesTotal(t *testing.T) {
	var c Counter
	var wg sync.WaitGroup
	const goroutines, perGoroutine = 20, 100

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				c.AddRows(1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, goroutines*perGoroutine, c.Load())
}
