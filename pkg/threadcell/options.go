package threadcell

import (
	"log/slog"

	"github.com/loomworks/threadcell/pkg/threadcell/observability"
)

// defaultState holds a cell's default as a single unit: either a concrete
// value, a factory, or nothing. Replacing a cell's default swaps the whole
// struct, so readers never observe a half-updated value/factory pair.
type defaultState[T any] struct {
	value    T
	hasValue bool
	factory  func() T
}

// resolve evaluates the default: factory result if a factory is set,
// the concrete value if one is set, otherwise (zero, false).
func (d defaultState[T]) resolve() (T, bool) {
	if d.factory != nil {
		return d.factory(), true
	}
	if d.hasValue {
		return d.value, true
	}
	var zero T
	return zero, false
}

// Option configures a cell's default at construction or rebind time.
type Option[T any] func(*defaultState[T])

// WithDefault sets a concrete default value, visible to every goroutine
// that has not written its own value.
func WithDefault[T any](v T) Option[T] {
	return func(d *defaultState[T]) {
		d.value = v
		d.hasValue = true
	}
}

// WithFactory sets a default factory. The factory runs on every default
// read that finds no override; its results are never cached.
func WithFactory[T any](fn func() T) Option[T] {
	return func(d *defaultState[T]) {
		d.factory = fn
	}
}

// buildDefault applies options and enforces value/factory mutual exclusion.
// Zero options yield an empty default.
func buildDefault[T any](op string, opts []Option[T]) (defaultState[T], error) {
	var d defaultState[T]
	for _, opt := range opts {
		opt(&d)
	}
	if d.hasValue && d.factory != nil {
		return defaultState[T]{}, newConflictError(op)
	}
	return d, nil
}

// registryConfig holds construction-time registry settings.
type registryConfig struct {
	logger  *slog.Logger
	metrics observability.MetricsRecorder
}

// defaultRegistryConfig returns the default registry configuration.
func defaultRegistryConfig() registryConfig {
	return registryConfig{
		logger:  slog.Default(),
		metrics: observability.NoopMetrics{},
	}
}

// RegistryOption configures a Registry at construction time.
type RegistryOption func(*registryConfig)

// WithLogger sets the registry's logger. The logger is enriched with the
// registry ID. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) RegistryOption {
	return func(c *registryConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics sets the registry's metrics recorder.
// Defaults to observability.NoopMetrics.
func WithMetrics(m observability.MetricsRecorder) RegistryOption {
	return func(c *registryConfig) {
		if m != nil {
			c.metrics = m
		}
	}
}
