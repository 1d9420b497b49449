// Package observability provides opt-in observability for threadcell:
// structured logging via slog, metrics and tracing via OpenTelemetry.
//
// Everything here has a no-op implementation for when the feature is
// disabled; the core never requires a configured provider.
package observability

import "log/slog"

// EnrichLogger attaches the registry identity to a logger.
// Returns nil for a nil logger.
func EnrichLogger(logger *slog.Logger, registryID string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(slog.String("registry_id", registryID))
}

// LogRebind logs a key being bound to a fresh cell.
func LogRebind(logger *slog.Logger, key string) {
	if logger == nil {
		return
	}
	logger.Debug("cell initialized",
		slog.String("key", key),
	)
}

// LogDefaultSwap logs a cell default replacement.
func LogDefaultSwap(logger *slog.Logger, key string) {
	if logger == nil {
		return
	}
	logger.Debug("cell default replaced",
		slog.String("key", key),
	)
}

// LogSeed logs registry defaults being loaded from configuration.
func LogSeed(logger *slog.Logger, count int, source string) {
	if logger == nil {
		return
	}
	logger.Info("registry defaults seeded",
		slog.Int("cells", count),
		slog.String("source", source),
	)
}
