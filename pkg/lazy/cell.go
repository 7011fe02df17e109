package lazy

import (
	"sync"
	"sync/atomic"
)

// Cell is a value computed at most once and shared by every caller.
type Cell[T any] struct {
	done  atomic.Bool
	mu    sync.Mutex
	value T
}

// GetOrInit returns a pointer to the stored value, running init to produce it
// if the cell is still empty. Callers arriving while init runs block until it
// returns and then observe its result.
//
// If init panics the cell stays empty and the next caller runs its own init.
// Calling GetOrInit on the same cell from inside init deadlocks.
func (c *Cell[T]) GetOrInit(init func() T) *T {
	if c.done.Load() {
		return &c.value
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.done.Load() {
		c.value = init()
		c.done.Store(true)
	}
	return &c.value
}

// Get returns the stored value without initializing the cell.
func (c *Cell[T]) Get() (*T, bool) {
	if !c.done.Load() {
		return nil, false
	}
	return &c.value, true
}
