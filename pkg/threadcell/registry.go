package threadcell

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/loomworks/threadcell/pkg/threadcell/observability"
)

// Registry maps opaque keys to cells, giving a host object named access to a
// family of per-goroutine slots. Keys are bound on demand: writing through an
// unbound key creates a cell with no default, and Init rebinds a key to a
// fresh cell. Keys are never unbound.
//
// A host object owns exactly one registry. All methods are safe for
// concurrent use; reads take a shared lock, so read-heavy workloads scale.
type Registry[K comparable, V any] struct {
	mu    sync.RWMutex
	cells map[K]*Cell[V]

	id      string
	logger  *slog.Logger
	metrics observability.MetricsRecorder
}

// NewRegistry creates an empty registry. Each registry gets a unique ID,
// attached to its log records and available via ID.
func NewRegistry[K comparable, V any](opts ...RegistryOption) *Registry[K, V] {
	cfg := defaultRegistryConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	id := uuid.New().String()
	return &Registry[K, V]{
		cells:   make(map[K]*Cell[V]),
		id:      id,
		logger:  observability.EnrichLogger(cfg.logger, id),
		metrics: cfg.metrics,
	}
}

// ID returns the registry's unique identifier.
func (r *Registry[K, V]) ID() string {
	return r.id
}

// Get returns the calling goroutine's value for key. An unbound key yields
// (zero, false) and does not create a cell; a bound key delegates to
// Cell.Get, so the second return is false when the goroutine has no override
// and the cell has no default.
func (r *Registry[K, V]) Get(key K) (V, bool) {
	cell, ok := r.lookup(key)
	if !ok {
		r.metrics.RecordRead(context.Background(), keyString(key), false)
		var zero V
		return zero, false
	}
	v, ok := cell.Get()
	r.metrics.RecordRead(context.Background(), keyString(key), ok)
	return v, ok
}

// Cell returns the cell bound at key, or (nil, false) when the key is
// unbound. Callers use it for default management without going through the
// named operations.
func (r *Registry[K, V]) Cell(key K) (*Cell[V], bool) {
	return r.lookup(key)
}

// Set writes the calling goroutine's value for key, binding a cell with no
// default if the key is unbound.
func (r *Registry[K, V]) Set(key K, v V) {
	r.getOrCreate(key).Set(v)
	r.metrics.RecordWrite(context.Background(), keyString(key))
}

// Update reads the calling goroutine's effective value for key, applies fn,
// and stores the result. Binds a cell with no default if the key is unbound;
// in that case fn receives (zero, false).
func (r *Registry[K, V]) Update(key K, fn func(cur V, ok bool) V) {
	r.getOrCreate(key).Update(fn)
	r.metrics.RecordWrite(context.Background(), keyString(key))
}

// SetOnce stores v as the calling goroutine's value for key unless an
// effective value is already present, and returns the effective value either
// way. Binds a cell on demand.
func (r *Registry[K, V]) SetOnce(key K, v V) V {
	out := r.getOrCreate(key).SetOnce(v)
	r.metrics.RecordWrite(context.Background(), keyString(key))
	return out
}

// SetOnceFunc is SetOnce with a lazily evaluated value: fn runs only when no
// effective value is present.
func (r *Registry[K, V]) SetOnceFunc(key K, fn func() V) V {
	out := r.getOrCreate(key).SetOnceFunc(fn)
	r.metrics.RecordWrite(context.Background(), keyString(key))
	return out
}

// Init binds key to a fresh cell carrying the given default, replacing any
// existing cell. Overrides held by the previous cell are discarded with it.
// Supplying both WithDefault and WithFactory returns a ConfigurationError.
func (r *Registry[K, V]) Init(key K, opts ...Option[V]) (*Cell[V], error) {
	def, err := buildDefault("init", opts)
	if err != nil {
		return nil, err
	}

	cell := newCell(def)

	r.mu.Lock()
	r.cells[key] = cell
	r.mu.Unlock()

	observability.LogRebind(r.logger, keyString(key))
	r.metrics.RecordRebind(context.Background(), keyString(key))
	return cell, nil
}

// Default returns the shared default for key, evaluating a factory if one is
// set. An unbound key yields (zero, false).
func (r *Registry[K, V]) Default(key K) (V, bool) {
	cell, ok := r.lookup(key)
	if !ok {
		var zero V
		return zero, false
	}
	return cell.Default()
}

// SetDefault replaces the shared default for key and returns the new
// effective default. A bound key keeps its cell, so existing per-goroutine
// overrides survive; an unbound key is bound to a fresh cell carrying the
// default. Supplying both WithDefault and WithFactory returns a
// ConfigurationError; supplying neither clears the default, in which case
// the returned value is the zero value.
func (r *Registry[K, V]) SetDefault(key K, opts ...Option[V]) (V, error) {
	def, err := buildDefault("set default", opts)
	if err != nil {
		var zero V
		return zero, err
	}

	cell := r.getOrCreate(key)
	cell.storeDefault(def)

	observability.LogDefaultSwap(r.logger, keyString(key))
	r.metrics.RecordDefaultSwap(context.Background(), keyString(key))

	v, _ := cell.Default()
	return v, nil
}

// Clear removes the calling goroutine's override for key, if the key is
// bound. See Cell.Clear.
func (r *Registry[K, V]) Clear(key K) {
	if cell, ok := r.lookup(key); ok {
		cell.Clear()
	}
}

// Has reports whether key is bound to a cell.
func (r *Registry[K, V]) Has(key K) bool {
	_, ok := r.lookup(key)
	return ok
}

// Keys returns all bound keys. The order is not guaranteed.
func (r *Registry[K, V]) Keys() []K {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]K, 0, len(r.cells))
	for k := range r.cells {
		keys = append(keys, k)
	}
	return keys
}

// Len returns the number of bound keys.
func (r *Registry[K, V]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cells)
}

// Range iterates over a snapshot of the registry, so binding or rebinding
// keys from fn does not affect the current iteration. If fn returns false,
// iteration stops.
func (r *Registry[K, V]) Range(fn func(K, *Cell[V]) bool) {
	r.mu.RLock()
	snapshot := make(map[K]*Cell[V], len(r.cells))
	for k, c := range r.cells {
		snapshot[k] = c
	}
	r.mu.RUnlock()

	for k, c := range snapshot {
		if !fn(k, c) {
			return
		}
	}
}

// lookup returns the cell bound at key under a read lock.
func (r *Registry[K, V]) lookup(key K) (*Cell[V], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.cells[key]
	return c, ok
}

// getOrCreate returns the cell bound at key, binding a fresh cell with no
// default if the key is unbound. Binding is atomic: concurrent first-writes
// to the same key settle on one cell.
func (r *Registry[K, V]) getOrCreate(key K) *Cell[V] {
	// Fast path: already bound.
	r.mu.RLock()
	c, ok := r.cells[key]
	r.mu.RUnlock()
	if ok {
		return c
	}

	// Slow path: bind with write lock.
	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring write lock.
	if c, ok := r.cells[key]; ok {
		return c
	}

	c = newCell(defaultState[V]{})
	r.cells[key] = c
	return c
}

// keyString renders a key for log records and metric attributes.
func keyString(key any) string {
	if s, ok := key.(string); ok {
		return s
	}
	return fmt.Sprint(key)
}
