package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gifbake/internal/testsupport"
)

func TestCLIConvertWritesGIF(t *testing.T) {
	env := setupCLITestEnv(t)
	video := filepath.Join(env.baseDir, "sunset.mov")
	testsupport.WriteFile(t, video, 1024)

	out, _, err := runCLI(t, []string{"convert", video, "--fps", "15", "--width", "abc", "--compress"}, env.configPath)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	saved := filepath.Join(env.cfg.Paths.OutputDir, "sunset_compressed_animated.gif")
	requireContains(t, out, "Saved "+saved)
	requireContains(t, out, "GIF generated successfully!")
	if _, err := os.Stat(saved); err != nil {
		t.Fatalf("expected gif at %s: %v", saved, err)
	}

	entries, err := os.ReadDir(env.cfg.Paths.ArtifactDir)
	if err != nil {
		t.Fatalf("read artifact dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected published artifact released on exit, found %d entries", len(entries))
	}
	workspaces, err := os.ReadDir(env.cfg.Paths.StagingDir)
	if err != nil {
		t.Fatalf("read staging dir: %v", err)
	}
	if len(workspaces) != 0 {
		t.Fatalf("expected engine workspace removed on exit, found %d", len(workspaces))
	}
}

func TestCLIConvertOutputFlag(t *testing.T) {
	env := setupCLITestEnv(t)
	video := filepath.Join(env.baseDir, "clip.mp4")
	testsupport.WriteFile(t, video, 256)
	target := filepath.Join(env.baseDir, "elsewhere")

	out, _, err := runCLI(t, []string{"convert", video, "-o", target}, env.configPath)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	requireContains(t, out, filepath.Join(target, "clip_animated.gif"))
}

func TestCLIConvertReportsEngineFailure(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithFailingEngine("moov atom not found"))
	video := filepath.Join(env.baseDir, "truncated.mp4")
	testsupport.WriteFile(t, video, 64)

	_, stderr, err := runCLI(t, []string{"convert", video}, env.configPath)
	if err == nil {
		t.Fatal("expected convert to fail")
	}
	requireContains(t, err.Error(), "moov atom not found")
	requireContains(t, stderr, "An error occurred: ")
}

func TestCLIConvertMissingInput(t *testing.T) {
	env := setupCLITestEnv(t)
	_, stderr, err := runCLI(t, []string{"convert", filepath.Join(env.baseDir, "missing.mp4")}, env.configPath)
	if err == nil {
		t.Fatal("expected error for missing input")
	}
	requireContains(t, stderr, "Could not open")
}

func TestCLIInspectJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	video := filepath.Join(env.baseDir, "clip.mp4")
	testsupport.WriteFile(t, video, 128)

	out, _, err := runCLI(t, []string{"inspect", video, "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	var payload struct {
		Filter   string         `json:"filter"`
		Output   string         `json:"output"`
		Estimate map[string]int `json:"estimate"`
		Probe    struct {
			Streams []struct {
				Width int `json:"width"`
			} `json:"streams"`
		} `json:"probe"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode inspect output: %v\n%s", err, out)
	}
	if payload.Filter != "fps=10,scale=320:-1:flags=lanczos,split[s0][s1];[s0]palettegen[p];[s1][p]paletteuse" {
		t.Fatalf("unexpected filter %q", payload.Filter)
	}
	if payload.Output != "clip_animated.gif" {
		t.Fatalf("unexpected output name %q", payload.Output)
	}
	if payload.Estimate["frames"] != 20 || payload.Estimate["width"] != 320 || payload.Estimate["height"] != 180 {
		t.Fatalf("unexpected estimate %v", payload.Estimate)
	}
	if len(payload.Probe.Streams) != 1 || payload.Probe.Streams[0].Width != 640 {
		t.Fatalf("unexpected probe payload %+v", payload.Probe)
	}
}

func TestCLIInspectTableHonoursTrim(t *testing.T) {
	env := setupCLITestEnv(t)
	video := filepath.Join(env.baseDir, "clip.mp4")
	testsupport.WriteFile(t, video, 128)

	out, _, err := runCLI(t, []string{"inspect", video, "--fps", "20", "--start", "1.5"}, env.configPath)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	requireContains(t, out, "640x360")
	requireContains(t, out, "10 at 20 fps")
}

func TestCLIDoctorWithStubbedEngine(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"doctor"}, env.configPath)
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, out)
	}
	requireContains(t, out, "ffmpeg version 0.0-gifbake-stub")
	requireContains(t, out, "FFprobe:")
	if strings.Contains(out, "[ERROR]") {
		t.Fatalf("expected no errors, got:\n%s", out)
	}
}

func TestCLIDoctorFailsWithoutEngine(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.Engine.FFmpegBinary = filepath.Join(env.baseDir, "no-such-ffmpeg")
	writeTestConfig(t, env.configPath, env.cfg)

	out, _, err := runCLI(t, []string{"doctor"}, env.configPath)
	if err == nil {
		t.Fatal("expected doctor to fail")
	}
	requireContains(t, out, "[ERROR]")
	requireContains(t, out, "Missing dependencies")
}

func TestCLIStagingListAndClean(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"staging", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("staging list: %v", err)
	}
	requireContains(t, out, "No workspaces found")

	stale := filepath.Join(env.cfg.Paths.StagingDir, "ws-stale")
	fresh := filepath.Join(env.cfg.Paths.StagingDir, "ws-fresh")
	testsupport.WriteFile(t, filepath.Join(stale, "input.mp4"), 2048)
	testsupport.WriteFile(t, filepath.Join(fresh, "input.mp4"), 16)
	old := time.Now().Add(-72 * time.Hour)
	if err := os.Chtimes(stale, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	out, _, err = runCLI(t, []string{"staging", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("staging list: %v", err)
	}
	requireContains(t, out, "ws-stale")
	requireContains(t, out, "Total: 2 workspaces")

	out, _, err = runCLI(t, []string{"staging", "clean"}, env.configPath)
	if err != nil {
		t.Fatalf("staging clean: %v", err)
	}
	requireContains(t, out, "Removed 1 stale workspaces")
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatalf("expected stale workspace removed, err=%v", err)
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Fatalf("expected fresh workspace kept: %v", err)
	}

	out, _, err = runCLI(t, []string{"staging", "clean", "--all"}, env.configPath)
	if err != nil {
		t.Fatalf("staging clean --all: %v", err)
	}
	requireContains(t, out, "Removed 1 unused workspaces")
}
