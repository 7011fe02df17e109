package lazy

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// AsyncCell is the context-aware counterpart of Cell, used for functions that
// take a context.Context.
type AsyncCell[T any] struct {
	group singleflight.Group
	value atomic.Pointer[T]
}

// PanicError carries a panic raised by an AsyncCell initializer to the
// goroutines waiting on it.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("lazy: initializer panicked: %v", e.Value)
}

// GetOrInit returns a pointer to the stored value, running init to produce it
// if the cell is still empty.
//
// init runs at most once across all callers, on a context that keeps the
// first caller's values but not its cancellation. Each caller waits on its own
// ctx and gets ctx.Err() back if it gives up before the value is committed;
// the initialization itself keeps going for everyone else.
//
// A panic in init is re-raised in every caller waiting on that attempt and
// leaves the cell empty.
func (c *AsyncCell[T]) GetOrInit(ctx context.Context, init func(context.Context) T) (*T, error) {
	if v := c.value.Load(); v != nil {
		return v, nil
	}

	detached := context.WithoutCancel(ctx)
	ch := c.group.DoChan("", func() (res any, err error) {
		// a previous flight may have committed between Load and DoChan
		if v := c.value.Load(); v != nil {
			return v, nil
		}

		defer func() {
			if r := recover(); r != nil {
				err = &PanicError{Value: r}
			}
		}()

		v := init(detached)
		c.value.Store(&v)
		return &v, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			if pe, ok := res.Err.(*PanicError); ok {
				panic(pe.Value)
			}
			return nil, res.Err
		}
		return res.Val.(*T), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Get returns the stored value without initializing the cell.
func (c *AsyncCell[T]) Get() (*T, bool) {
	v := c.value.Load()
	return v, v != nil
}
