package testsupport

import (
	"path/filepath"
	"testing"

	"gifbake/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StagingDir = filepath.Join(base, "staging")
	cfgVal.Paths.ArtifactDir = filepath.Join(base, "artifacts")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.OutputDir = filepath.Join(base, "out")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return builder.cfg
}

// WithStubbedEngine points the engine at a stub ffmpeg that reports progress
// and writes a small animated GIF to its output argument. A matching ffprobe
// stub is placed next to it.
func WithStubbedEngine() ConfigOption {
	return func(b *configBuilder) {
		binDir := filepath.Join(b.baseDir, "bin")
		fixture := filepath.Join(b.baseDir, "fixture.gif")
		WriteGIF(b.t, fixture, 3, 32, 18)
		b.cfg.Engine.FFmpegBinary = WriteStubFFmpeg(b.t, binDir, fixture)
		b.cfg.Engine.FFprobeBinary = WriteStubFFprobe(b.t, binDir)
	}
}

// WithFailingEngine points the engine at a stub ffmpeg that loads but fails
// every conversion with message on stderr.
func WithFailingEngine(message string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Engine.FFmpegBinary = WriteFailingFFmpeg(b.t, filepath.Join(b.baseDir, "bin"), message)
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StagingDir)
}
