package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/sethvargo/go-envconfig"
)

// environment lists the variables consulted for fields the config file
// leaves empty. Values found here never override the file.
type environment struct {
	StagingDir    string `env:"GIFBAKE_STAGING_DIR"`
	ArtifactDir   string `env:"GIFBAKE_ARTIFACT_DIR"`
	LogDir        string `env:"GIFBAKE_LOG_DIR"`
	OutputDir     string `env:"GIFBAKE_OUTPUT_DIR"`
	FFmpegBinary  string `env:"GIFBAKE_FFMPEG"`
	FFprobeBinary string `env:"GIFBAKE_FFPROBE"`
	LogLevel      string `env:"GIFBAKE_LOG_LEVEL"`
	LogFormat     string `env:"GIFBAKE_LOG_FORMAT"`
}

func (c *Config) applyEnvironment(ctx context.Context) error {
	var env environment
	if err := envconfig.Process(ctx, &env); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}
	fillEmpty(&c.Paths.StagingDir, env.StagingDir)
	fillEmpty(&c.Paths.ArtifactDir, env.ArtifactDir)
	fillEmpty(&c.Paths.LogDir, env.LogDir)
	fillEmpty(&c.Paths.OutputDir, env.OutputDir)
	fillEmpty(&c.Engine.FFmpegBinary, env.FFmpegBinary)
	fillEmpty(&c.Engine.FFprobeBinary, env.FFprobeBinary)
	fillEmpty(&c.Logging.Level, env.LogLevel)
	fillEmpty(&c.Logging.Format, env.LogFormat)
	return nil
}

func fillEmpty(target *string, value string) {
	if strings.TrimSpace(*target) != "" {
		return
	}
	*target = strings.TrimSpace(value)
}

func (c *Config) normalize() error {
	c.Engine.FFmpegBinary = strings.TrimSpace(c.Engine.FFmpegBinary)
	c.Engine.FFprobeBinary = strings.TrimSpace(c.Engine.FFprobeBinary)
	c.normalizeLogging()
	c.applyDefaults()
	return c.normalizePaths()
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.StagingDir, err = expandPath(strings.TrimSpace(c.Paths.StagingDir)); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if c.Paths.ArtifactDir, err = expandPath(strings.TrimSpace(c.Paths.ArtifactDir)); err != nil {
		return fmt.Errorf("paths.artifact_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(strings.TrimSpace(c.Paths.OutputDir)); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "warning" {
		c.Logging.Level = "warn"
	}
}
