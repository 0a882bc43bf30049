package engine

import (
	"context"
	"io"
)

// ProgressFunc receives a completion ratio in [0, 1].
type ProgressFunc func(ratio float64)

// LoadOptions configures an engine handle.
type LoadOptions struct {
	// Log forwards the engine's own diagnostics to the logger at debug level.
	Log bool
	// Progress is invoked while loading and during every Run.
	Progress ProgressFunc
}

// Engine is the in-process contract of the external media engine.
type Engine interface {
	Load(ctx context.Context, opts LoadOptions) error
	Loaded() bool
	WriteFile(ctx context.Context, name string, r io.Reader) (int64, error)
	ReadFile(name string) ([]byte, error)
	Remove(name string) error
	Run(ctx context.Context, args ...string) error
	Close() error
}
