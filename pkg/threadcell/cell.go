package threadcell

import (
	"sync"

	"github.com/loomworks/threadcell/internal/goid"
)

// Cell pairs one shared default with per-goroutine overrides. Reading a cell
// returns the calling goroutine's own value if it has written one, and the
// shared default otherwise. Writes from one goroutine are never visible to
// another.
//
// The default is either a concrete value or a zero-argument factory, never
// both. A factory runs on every default read that finds no override; results
// are not cached, so each goroutine (and each call) sees a fresh evaluation.
//
// All methods are safe for concurrent use. Override entries persist for the
// cell's lifetime: a goroutine's value stays visible to that goroutine for as
// long as the cell lives, at the cost of not reclaiming entries for exited
// goroutines. Clear offers opt-in cleanup for pooled workers.
type Cell[T any] struct {
	mu        sync.RWMutex
	overrides map[int64]T
	def       defaultState[T]
}

// New constructs a cell. Supply at most one of WithDefault and WithFactory;
// supplying both returns a ConfigurationError.
func New[T any](opts ...Option[T]) (*Cell[T], error) {
	def, err := buildDefault("new", opts)
	if err != nil {
		return nil, err
	}
	return &Cell[T]{
		overrides: make(map[int64]T),
		def:       def,
	}, nil
}

// newCell is New for call sites that pass a pre-validated default.
func newCell[T any](def defaultState[T]) *Cell[T] {
	return &Cell[T]{
		overrides: make(map[int64]T),
		def:       def,
	}
}

// Get returns the calling goroutine's value: its override if present,
// otherwise the default. The second return is false only when the goroutine
// has no override and no default is configured. Get never creates an
// override entry.
func (c *Cell[T]) Get() (T, bool) {
	id := goid.Current()

	c.mu.RLock()
	if v, ok := c.overrides[id]; ok {
		c.mu.RUnlock()
		return v, true
	}
	// Snapshot the default so the value/factory pair is read atomically;
	// the factory itself runs outside the lock.
	def := c.def
	c.mu.RUnlock()

	return def.resolve()
}

// Set writes the calling goroutine's override, creating the entry if absent.
func (c *Cell[T]) Set(v T) {
	id := goid.Current()

	c.mu.Lock()
	c.overrides[id] = v
	c.mu.Unlock()
}

// Update reads the calling goroutine's effective value (override or default),
// applies fn, and stores the result as the goroutine's override. ok is false
// when no effective value existed, letting fn distinguish a genuine zero
// value from absence.
//
// Only the calling goroutine writes its own slot, so the read-apply-store
// sequence needs no cross-goroutine atomicity.
func (c *Cell[T]) Update(fn func(cur T, ok bool) T) {
	cur, ok := c.Get()
	c.Set(fn(cur, ok))
}

// SetOnce returns the calling goroutine's effective value if one is present,
// without writing. Otherwise it stores v as the goroutine's override and
// returns it. After the first successful assignment the call is idempotent
// for that goroutine.
func (c *Cell[T]) SetOnce(v T) T {
	if cur, ok := c.Get(); ok {
		return cur
	}
	c.Set(v)
	return v
}

// SetOnceFunc is SetOnce with a lazily evaluated value: fn runs only when
// no effective value is present.
func (c *Cell[T]) SetOnceFunc(fn func() T) T {
	if cur, ok := c.Get(); ok {
		return cur
	}
	v := fn()
	c.Set(v)
	return v
}

// Default returns the shared default without consulting any goroutine's
// override. A factory is evaluated on each call, never cached. The second
// return is false when no default is configured.
func (c *Cell[T]) Default() (T, bool) {
	c.mu.RLock()
	def := c.def
	c.mu.RUnlock()

	return def.resolve()
}

// SetDefault replaces the shared default. Supply WithDefault or WithFactory
// (both is a ConfigurationError); supplying neither clears the default.
// The replacement is a single atomic swap, and existing per-goroutine
// overrides are untouched.
func (c *Cell[T]) SetDefault(opts ...Option[T]) error {
	def, err := buildDefault("set default", opts)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.def = def
	c.mu.Unlock()
	return nil
}

// storeDefault swaps in a pre-validated default.
func (c *Cell[T]) storeDefault(def defaultState[T]) {
	c.mu.Lock()
	c.def = def
	c.mu.Unlock()
}

// Clear removes the calling goroutine's override, if any. Subsequent reads
// from this goroutine fall back to the default. Intended for pooled workers
// that hand a goroutine back for reuse; the core contract never requires it.
func (c *Cell[T]) Clear() {
	id := goid.Current()

	c.mu.Lock()
	delete(c.overrides, id)
	c.mu.Unlock()
}

// OverrideCount returns the number of goroutines currently holding an
// override. Useful for tests and leak diagnostics.
func (c *Cell[T]) OverrideCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.overrides)
}
