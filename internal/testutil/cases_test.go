package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/enskit/internal/ident"
)

func TestCaseSequence_StartsAtZero(t *testing.T) {
	seq := NewCaseSequence()
	assert.Equal(t, int64(0), seq.Current())
}

func TestCaseSequence_Next(t *testing.T) {
	seq := NewCaseSequence()

	assert.Equal(t, "00000000-0000-4000-8000-000000000001", seq.Next())
	assert.Equal(t, "00000000-0000-4000-8000-000000000002", seq.Next())
	assert.Equal(t, int64(2), seq.Current())
}

func TestCaseSequence_Reset(t *testing.T) {
	seq := NewCaseSequence()
	seq.Next()
	seq.Next()

	seq.Reset()
	assert.Equal(t, int64(0), seq.Current())
	assert.Equal(t, CaseUUID(1), seq.Next())
}

func TestCaseUUID_IsValidCaseUUID(t *testing.T) {
	for _, n := range []int64{1, 15, 255, 1 << 40} {
		assert.True(t, ident.IsValidCaseUUID(CaseUUID(n)), CaseUUID(n))
	}
}

func TestCaseSequence_ThreadSafe(t *testing.T) {
	seq := NewCaseSequence()
	const numGoroutines = 50
	const callsPerGoroutine = 40

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	results := make([][]string, numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		results[i] = make([]string, callsPerGoroutine)
		go func(idx int) {
			defer wg.Done()
			for j := 0; j < callsPerGoroutine; j++ {
				results[idx][j] = seq.Next()
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for _, row := range results {
		for _, id := range row {
			require.False(t, seen[id], "duplicate uuid %s", id)
			seen[id] = true
		}
	}
	assert.Len(t, seen, numGoroutines*callsPerGoroutine)
}
