package services

import (
	"context"
	"sync"
)

// Refresher runs loads and keeps the result of the newest one. Each Refresh
// takes a generation number; a load that finishes after a newer Refresh has
// started is discarded, so slow stale loads never overwrite fresh state.
type Refresher[T any] struct {
	load func(ctx context.Context) (T, error)

	mu        sync.Mutex
	issued    uint64
	published uint64
	value     T
	err       error
	onPublish func(T)
}

func NewRefresher[T any](load func(ctx context.Context) (T, error)) *Refresher[T] {
	return &Refresher[T]{load: load}
}

// OnPublish registers fn to be called with every accepted result.
func (r *Refresher[T]) OnPublish(fn func(T)) {
	r.mu.Lock()
	r.onPublish = fn
	r.mu.Unlock()
}

// Refresh runs a load. It reports whether its result was published; a stale
// result is dropped and the returned bool is false.
func (r *Refresher[T]) Refresh(ctx context.Context) (T, bool, error) {
	r.mu.Lock()
	r.issued++
	gen := r.issued
	r.mu.Unlock()

	v, err := r.load(ctx)

	r.mu.Lock()
	if gen < r.issued || gen <= r.published {
		r.mu.Unlock()
		var zero T
		return zero, false, err
	}
	r.published = gen
	r.err = err
	if err == nil {
		r.value = v
	}
	fn := r.onPublish
	r.mu.Unlock()

	if err == nil && fn != nil {
		fn(v)
	}
	return v, true, err
}

// Latest returns the last published value and the error of the last
// published load.
func (r *Refresher[T]) Latest() (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.value, r.err
}

// Generation returns the number of the newest issued refresh.
func (r *Refresher[T]) Generation() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.issued
}
