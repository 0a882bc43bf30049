// Package logging assembles structured slog loggers and formatting helpers used
// across gifbake.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so conversion code can tag log
// lines with the conversion ID and pipeline step. The package also provides a
// no-op logger for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits data with the same shape and routing.
package logging
