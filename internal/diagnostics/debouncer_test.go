package diagnostics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncerCoalescesBurstIntoSingleRunWithLatestPayload(t *testing.T) {
	var mu sync.Mutex
	var runs []interface{}

	d := NewDebouncer(30*time.Millisecond, func(key string, payload interface{}) {
		mu.Lock()
		defer mu.Unlock()
		runs = append(runs, payload)
	})

	d.Schedule("a.tex", 1)
	d.Schedule("a.tex", 2)
	d.Schedule("a.tex", 3)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(runs) == 1
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 3, runs[0])
}

func TestDebouncerIndependentKeysRunIndependently(t *testing.T) {
	var mu sync.Mutex
	seen := make(map[string]interface{})

	d := NewDebouncer(20*time.Millisecond, func(key string, payload interface{}) {
		mu.Lock()
		defer mu.Unlock()
		seen[key] = payload
	})

	d.Schedule("a.tex", "A")
	d.Schedule("b.tex", "B")

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 2
	}, time.Second, 5*time.Millisecond)
}

func TestDebouncerShutdownDrainsPending(t *testing.T) {
	var mu sync.Mutex
	var runs int

	d := NewDebouncer(time.Hour, func(key string, payload interface{}) {
		mu.Lock()
		defer mu.Unlock()
		runs++
	})

	d.Schedule("a.tex", 1)
	d.Shutdown()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, runs)
}

func TestDebouncerRejectsScheduleAfterShutdown(t *testing.T) {
	var mu sync.Mutex
	var runs int

	d := NewDebouncer(5*time.Millisecond, func(key string, payload interface{}) {
		mu.Lock()
		defer mu.Unlock()
		runs++
	})
	d.Shutdown()
	d.Schedule("a.tex", 1)

	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 0, runs)
}
