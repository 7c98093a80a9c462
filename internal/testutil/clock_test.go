package testutil

import (
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeterministicClock_Sequence(t *testing.T) {
	clock := NewDeterministicClock()
	assert.Equal(t, int64(0), clock.Current())

	got := []int64{clock.Next(), clock.Next(), clock.Next()}
	assert.Equal(t, []int64{1, 2, 3}, got)
	assert.Equal(t, int64(3), clock.Current())

	clock.Reset()
	assert.Equal(t, int64(0), clock.Current())
	assert.Equal(t, int64(1), clock.Next())
}

func TestDeterministicClock_RepeatedRunsMatch(t *testing.T) {
	run := func(c *DeterministicClock) []int64 {
		var seqs []int64
		for range 12 {
			seqs = append(seqs, c.Next())
		}
		return seqs
	}

	clock := NewDeterministicClock()
	first := run(clock)
	clock.Reset()
	assert.Equal(t, first, run(clock))
	assert.Equal(t, first, run(NewDeterministicClock()))
}

func TestDeterministicClock_Concurrent(t *testing.T) {
	clock := NewDeterministicClock()
	const workers, calls = 16, 50

	var mu sync.Mutex
	var all []int64
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]int64, 0, calls)
			for range calls {
				local = append(local, clock.Next())
			}
			mu.Lock()
			all = append(all, local...)
			mu.Unlock()
		}()
	}
	wg.Wait()

	slices.Sort(all)
	want := make([]int64, workers*calls)
	for i := range want {
		want[i] = int64(i + 1)
	}
	assert.Equal(t, want, all)
}
