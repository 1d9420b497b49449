package observability

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records cell operations.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordRead records a read through the registry. hit reports whether
	// the read resolved to a value (override or default).
	RecordRead(ctx context.Context, key string, hit bool)

	// RecordWrite records a per-goroutine write (set, update, set-once).
	RecordWrite(ctx context.Context, key string)

	// RecordRebind records a key being bound to a fresh cell.
	RecordRebind(ctx context.Context, key string)

	// RecordDefaultSwap records a cell default replacement.
	RecordDefaultSwap(ctx context.Context, key string)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	reads        metric.Int64Counter
	writes       metric.Int64Counter
	rebinds      metric.Int64Counter
	defaultSwaps metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("threadcell")

	reads, err := meter.Int64Counter("threadcell.cell.reads",
		metric.WithDescription("Number of cell reads"),
	)
	if err != nil {
		return nil, err
	}

	writes, err := meter.Int64Counter("threadcell.cell.writes",
		metric.WithDescription("Number of per-goroutine cell writes"),
	)
	if err != nil {
		return nil, err
	}

	rebinds, err := meter.Int64Counter("threadcell.cell.rebinds",
		metric.WithDescription("Number of keys bound to fresh cells"),
	)
	if err != nil {
		return nil, err
	}

	defaultSwaps, err := meter.Int64Counter("threadcell.cell.default_swaps",
		metric.WithDescription("Number of cell default replacements"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		reads:        reads,
		writes:       writes,
		rebinds:      rebinds,
		defaultSwaps: defaultSwaps,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordRead records a cell read.
func (m *otelMetrics) RecordRead(ctx context.Context, key string, hit bool) {
	m.reads.Add(ctx, 1, metric.WithAttributes(
		attribute.String("key", key),
		attribute.Bool("hit", hit),
	))
}

// RecordWrite records a per-goroutine cell write.
func (m *otelMetrics) RecordWrite(ctx context.Context, key string) {
	m.writes.Add(ctx, 1, metric.WithAttributes(
		attribute.String("key", key),
	))
}

// RecordRebind records a key rebind.
func (m *otelMetrics) RecordRebind(ctx context.Context, key string) {
	m.rebinds.Add(ctx, 1, metric.WithAttributes(
		attribute.String("key", key),
	))
}

// RecordDefaultSwap records a default replacement.
func (m *otelMetrics) RecordDefaultSwap(ctx context.Context, key string) {
	m.defaultSwaps.Add(ctx, 1, metric.WithAttributes(
		attribute.String("key", key),
	))
}
