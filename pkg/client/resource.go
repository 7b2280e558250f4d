package client

import (
	"context"
	"sync"
)

// Fetcher loads a resource value.
type Fetcher[T any] func(ctx context.Context) (T, error)

// ResourceOption configures a Resource.
type ResourceOption func(*resourceConfig)

type resourceConfig struct {
	retainPrevious bool
}

// WithRetainPreviousData keeps the last loaded value visible while a reload
// is in flight.
func WithRetainPreviousData() ResourceOption {
	return func(c *resourceConfig) {
		c.retainPrevious = true
	}
}

// Resource tracks the data, error and loading flag of a fetched value. It
// starts out loading; a failed load clears the data. Only the most recent
// Load may publish its result.
type Resource[T any] struct {
	fetch Fetcher[T]
	cfg   resourceConfig

	mu      sync.RWMutex
	data    T
	err     error
	loading bool
	seq     uint64
}

// NewResource wraps fetch.
func NewResource[T any](fetch Fetcher[T], opts ...ResourceOption) *Resource[T] {
	r := &Resource[T]{fetch: fetch, loading: true}
	for _, opt := range opts {
		if opt != nil {
			opt(&r.cfg)
		}
	}
	return r
}

// Load fetches the value and publishes the outcome. It returns the fetch
// error, if any.
func (r *Resource[T]) Load(ctx context.Context) error {
	r.mu.Lock()
	r.seq++
	seq := r.seq
	r.loading = true
	r.err = nil
	if !r.cfg.retainPrevious {
		var zero T
		r.data = zero
	}
	r.mu.Unlock()

	data, err := r.fetch(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	if seq != r.seq {
		return err
	}
	if err != nil {
		var zero T
		r.data = zero
		r.err = err
	} else {
		r.data = data
		r.err = nil
	}
	r.loading = false
	return err
}

// State returns the current data, error and loading flag.
func (r *Resource[T]) State() (T, error, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.data, r.err, r.loading
}

// Set replaces the data locally, e.g. after a successful mutation.
func (r *Resource[T]) Set(data T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = data
}
