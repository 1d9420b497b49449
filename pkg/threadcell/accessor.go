package threadcell

// Accessor bundles pre-bound operations for a single key. It is the explicit
// replacement for dynamic accessor generation: a host type builds one
// accessor per declared name and exposes its funcs as methods, so callers
// read and write what looks like an ordinary field while values stay
// isolated per goroutine.
//
//	timeout := registry.Accessor("timeout")
//	timeout.Set(5 * time.Second)
//	d, ok := timeout.Get()
type Accessor[V any] struct {
	// Get returns the calling goroutine's value.
	Get func() (V, bool)
	// Set writes the calling goroutine's value.
	Set func(V)
	// Update applies a function to the calling goroutine's effective value.
	Update func(fn func(cur V, ok bool) V)
	// SetOnce writes the calling goroutine's value unless one is present.
	SetOnce func(V) V
}

// Accessor returns pre-bound operations for key. The key is captured once;
// cell binding still happens on demand at call time, so an accessor built
// before the first write behaves identically to direct registry calls.
func (r *Registry[K, V]) Accessor(key K) Accessor[V] {
	return Accessor[V]{
		Get:     func() (V, bool) { return r.Get(key) },
		Set:     func(v V) { r.Set(key, v) },
		Update:  func(fn func(cur V, ok bool) V) { r.Update(key, fn) },
		SetOnce: func(v V) V { return r.SetOnce(key, v) },
	}
}
