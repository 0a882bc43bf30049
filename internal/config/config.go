package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	StagingDir  string `toml:"staging_dir" validate:"required"`
	ArtifactDir string `toml:"artifact_dir" validate:"required"`
	LogDir      string `toml:"log_dir" validate:"required"`
	OutputDir   string `toml:"output_dir"`
}

// Engine contains configuration for the external media engine.
type Engine struct {
	FFmpegBinary       string `toml:"ffmpeg_binary" validate:"required"`
	FFprobeBinary      string `toml:"ffprobe_binary"`
	Log                bool   `toml:"log"`
	LoadTimeoutSeconds int    `toml:"load_timeout_seconds" validate:"gte=0"`
}

// Convert contains the default conversion parameters used when a form field
// is empty or unparsable.
type Convert struct {
	FrameRate    int  `toml:"frame_rate" validate:"gt=0,lte=120"`
	Width        int  `toml:"width" validate:"gt=0,lte=7680"`
	Compress     bool `toml:"compress"`
	PreviewWidth int  `toml:"preview_width" validate:"gt=0,lte=1920"`
}

// Staging contains configuration for engine workspaces.
type Staging struct {
	StaleAfterHours int `toml:"stale_after_hours" validate:"gte=0"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format  string `toml:"format" validate:"oneof=console json"`
	Level   string `toml:"level" validate:"oneof=debug info warn error"`
	Console bool   `toml:"console"`
}

// Config encapsulates all configuration values for gifbake.
//
// Configuration sections by subsystem:
//   - Paths: staging, artifact, log, and download directories
//   - Engine: ffmpeg/ffprobe binaries and engine diagnostics
//   - Convert: default frame rate, width, compression, preview size
//   - Staging: stale workspace cleanup threshold
//   - Logging: log format, level, and console mirroring
type Config struct {
	Paths   Paths   `toml:"paths"`
	Engine  Engine  `toml:"engine"`
	Convert Convert `toml:"convert"`
	Staging Staging `toml:"staging"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. Fields the file
// leaves empty are filled from the environment first and repository defaults
// second. The returned config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	var cfg Config

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnvironment(context.Background()); err != nil {
		return nil, "", false, err
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("gifbake.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the CLI writes into. OutputDir is
// left alone; downloads create it on demand.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StagingDir, c.Paths.ArtifactDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// FFmpegBinary returns the engine executable name or path.
func (c *Config) FFmpegBinary() string {
	return strings.TrimSpace(c.Engine.FFmpegBinary)
}

// FFprobeBinary returns the ffprobe executable used for media inspection.
func (c *Config) FFprobeBinary() string {
	if binary := strings.TrimSpace(c.Engine.FFprobeBinary); binary != "" {
		return binary
	}
	return defaultFFprobeBinary
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
