package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"gifbake/internal/config"
)

func clearGifbakeEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GIFBAKE_STAGING_DIR", "GIFBAKE_ARTIFACT_DIR", "GIFBAKE_LOG_DIR", "GIFBAKE_OUTPUT_DIR",
		"GIFBAKE_FFMPEG", "GIFBAKE_FFPROBE", "GIFBAKE_LOG_LEVEL", "GIFBAKE_LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadWithoutFileUsesDefaultsAndExpandsPaths(t *testing.T) {
	clearGifbakeEnv(t)
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantStaging := filepath.Join(tempHome, ".cache", "gifbake", "staging")
	if cfg.Paths.StagingDir != wantStaging {
		t.Fatalf("unexpected staging dir: got %q want %q", cfg.Paths.StagingDir, wantStaging)
	}
	if cfg.Paths.OutputDir != "" {
		t.Fatalf("expected empty output dir, got %q", cfg.Paths.OutputDir)
	}
	if cfg.Convert.FrameRate != 10 || cfg.Convert.Width != 320 {
		t.Fatalf("unexpected convert defaults: %+v", cfg.Convert)
	}
	if cfg.Convert.Compress {
		t.Fatal("expected compression disabled by default")
	}
	if cfg.FFmpegBinary() != "ffmpeg" || cfg.FFprobeBinary() != "ffprobe" {
		t.Fatalf("unexpected engine binaries: %q %q", cfg.FFmpegBinary(), cfg.FFprobeBinary())
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadEnvironmentFillsOnlyEmptyFields(t *testing.T) {
	clearGifbakeEnv(t)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GIFBAKE_FFMPEG", "/opt/ffmpeg/bin/ffmpeg")
	t.Setenv("GIFBAKE_LOG_LEVEL", "debug")

	dir := t.TempDir()
	path := filepath.Join(dir, "gifbake.toml")
	content := "[logging]\nlevel = \"warn\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if cfg.FFmpegBinary() != "/opt/ffmpeg/bin/ffmpeg" {
		t.Fatalf("expected ffmpeg from env, got %q", cfg.FFmpegBinary())
	}
	if cfg.Logging.Level != "warn" {
		t.Fatalf("expected file level to win over env, got %q", cfg.Logging.Level)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	clearGifbakeEnv(t)
	t.Setenv("HOME", t.TempDir())

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "negative frame rate", content: "[convert]\nframe_rate = -1\n", want: "convert.frame_rate"},
		{name: "huge width", content: "[convert]\nwidth = 100000\n", want: "convert.width"},
		{name: "bad level", content: "[logging]\nlevel = \"trace\"\n", want: "logging.level"},
		{name: "unknown key", content: "[engine]\nbinary = \"ffmpeg\"\n", want: "parse config"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "gifbake.toml")
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestSampleConfigParsesAndValidates(t *testing.T) {
	clearGifbakeEnv(t)
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var decoded config.Config
	if err := toml.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("sample config is not valid TOML: %v", err)
	}
	if decoded.Convert.FrameRate != 10 || decoded.Convert.Width != 320 {
		t.Fatalf("sample config drifted from defaults: %+v", decoded.Convert)
	}
	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config failed to load: %v", err)
	}
}

func TestEnsureDirectoriesCreatesWorkingDirs(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StagingDir = filepath.Join(base, "staging")
	cfg.Paths.ArtifactDir = filepath.Join(base, "artifacts")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.OutputDir = filepath.Join(base, "out")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories returned error: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StagingDir, cfg.Paths.ArtifactDir, cfg.Paths.LogDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s: %v", dir, err)
		}
	}
	if _, err := os.Stat(cfg.Paths.OutputDir); !os.IsNotExist(err) {
		t.Fatalf("expected output dir to be created lazily, got err=%v", err)
	}
}
