package ui_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"gifbake/internal/convert"
	"gifbake/internal/testsupport"
	"gifbake/internal/transcode"
	"gifbake/internal/ui"
)

func TestSessionConvertsAndSaves(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedEngine())
	view := &recordingView{}
	h := newHarness(t, cfg, view)

	video := filepath.Join(testsupport.BaseDir(cfg), "beach.webm")
	testsupport.WriteFile(t, video, 4096)

	prompts := &scriptedPrompts{
		t:        t,
		inputs:   []string{video, "12", "", "", "1.5"},
		confirms: []bool{false, true, false},
	}
	session := ui.NewSession(h.binding, view, prompts, h.publisher, ui.SessionOptions{
		Defaults:  transcode.Defaults{FrameRate: 10, Width: 320},
		OutputDir: cfg.Paths.OutputDir,
	})
	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []string{
		"Video file:",
		"Frame rate (fps):",
		"Output width (px):",
		"Compress palette?",
		"Start at (seconds):",
		"Duration (seconds):",
		"Save beach_animated.gif to " + cfg.Paths.OutputDir + "?",
		"Convert another video?",
	}
	if diff := cmp.Diff(want, prompts.asked); diff != "" {
		t.Fatalf("prompt sequence mismatch (-want +got):\n%s", diff)
	}
	saved := filepath.Join(cfg.Paths.OutputDir, "beach_animated.gif")
	if _, err := os.Stat(saved); err != nil {
		t.Fatalf("expected saved gif: %v", err)
	}
	if got := view.lastStatus(); got.State != convert.StateDone || got.Text != "Saved "+saved {
		t.Fatalf("unexpected final status %+v", got)
	}
}

func TestSessionSkipsSaveWhenDeclined(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedEngine())
	view := &recordingView{}
	h := newHarness(t, cfg, view)

	video := filepath.Join(testsupport.BaseDir(cfg), "clip.mp4")
	testsupport.WriteFile(t, video, 512)

	prompts := &scriptedPrompts{
		t:        t,
		inputs:   []string{video, "", "", "", ""},
		confirms: []bool{true, false, false},
	}
	session := ui.NewSession(h.binding, view, prompts, h.publisher, ui.SessionOptions{
		Defaults:  transcode.Defaults{FrameRate: 10, Width: 320},
		OutputDir: cfg.Paths.OutputDir,
	})
	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.OutputDir, "clip_compressed_animated.gif")); !os.IsNotExist(err) {
		t.Fatalf("expected nothing saved, got err=%v", err)
	}
	if _, ok := h.publisher.Current(); !ok {
		t.Fatal("expected artifact to stay published")
	}
}

func TestSessionPropagatesAbort(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedEngine())
	view := &recordingView{}
	h := newHarness(t, cfg, view)

	session := ui.NewSession(h.binding, view, abortingPrompts{}, h.publisher, ui.SessionOptions{})
	if err := session.Run(context.Background()); !errors.Is(err, ui.ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

type abortingPrompts struct{}

func (abortingPrompts) Input(context.Context, ui.InputConfig) (string, error) {
	return "", ui.ErrAborted
}

func (abortingPrompts) Confirm(context.Context, ui.ConfirmConfig) (bool, error) {
	return false, ui.ErrAborted
}
