package id_test

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapty/internal/platform/id"
)

func TestSequenceStartsAtZeroAndIncreases(t *testing.T) {
	t.Parallel()
	seq := id.NewSequence()
	prev := int64(-1)
	for i := 0; i < 50; i++ {
		next := seq.Next()
		require.Greater(t, next, prev)
		prev = next
	}
	assert.Equal(t, int64(49), prev)
}

func TestSequenceReserveSkipsTakenIDs(t *testing.T) {
	t.Parallel()
	seq := id.NewSequence()
	seq.Reserve(4)
	assert.Equal(t, int64(5), seq.Next())

	// reserving below the cursor is a no-op
	seq.Reserve(2)
	assert.Equal(t, int64(6), seq.Next())

	seq.Reset()
	assert.Equal(t, int64(0), seq.Next())
}

func TestSequenceReserveStaysInRange(t *testing.T) {
	t.Parallel()
	seq := id.NewSequence()
	seq.Reserve(-7)
	assert.Equal(t, int64(0), seq.Next())

	seq.Reserve(math.MaxInt64)
	assert.Equal(t, int64(math.MaxInt64), seq.Next())
}

func TestSequenceIsUniqueAcrossGoroutines(t *testing.T) {
	t.Parallel()
	seq := id.NewSequence()
	const workers, perWorker = 8, 100

	var mu sync.Mutex
	seen := make(map[int64]struct{}, workers*perWorker)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				v := seq.Next()
				mu.Lock()
				seen[v] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Len(t, seen, workers*perWorker)
}
