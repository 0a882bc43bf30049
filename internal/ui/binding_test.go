package ui_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gifbake/internal/convert"
	"gifbake/internal/testsupport"
	"gifbake/internal/transcode"
)

func TestBindingConvertPublishesArtifact(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedEngine())
	view := &recordingView{}
	h := newHarness(t, cfg, view)

	video := filepath.Join(testsupport.BaseDir(cfg), "holiday.mp4")
	testsupport.WriteFile(t, video, 2048)

	if err := h.binding.OnFileSelected(context.Background(), video); err != nil {
		t.Fatalf("OnFileSelected: %v", err)
	}
	h.orch.Wait()
	if !h.binding.CanConvert() {
		t.Fatal("expected convert enabled after selecting a file")
	}

	art, err := h.binding.OnConvert(context.Background(), transcode.Form{FrameRate: "abc", Width: "", Compress: true})
	if err != nil {
		t.Fatalf("OnConvert: %v", err)
	}
	if art.DownloadName != "holiday_compressed_animated.gif" {
		t.Fatalf("unexpected download name %q", art.DownloadName)
	}
	if art.Frames != 3 || art.Width != 32 || art.Height != 18 {
		t.Fatalf("unexpected artifact metadata %+v", art)
	}
	if _, err := os.Stat(art.Path); err != nil {
		t.Fatalf("expected published artifact on disk: %v", err)
	}
	if len(view.shown) != 1 {
		t.Fatalf("expected one artifact shown, got %d", len(view.shown))
	}
	if got := view.lastStatus(); got.State != convert.StateDone || got.Text != "GIF generated successfully!" {
		t.Fatalf("unexpected final status %+v", got)
	}
	if !h.binding.CanConvert() {
		t.Fatal("expected convert re-enabled after conversion")
	}

	texts := view.statusTexts()
	for _, want := range []string{
		"Selected: holiday.mp4 (2.0 kB). Click convert!",
		"Starting conversion...",
		"Running engine... This may take a while. (Compression enabled)",
	} {
		if !containsString(texts, want) {
			t.Fatalf("expected status %q in %v", want, texts)
		}
	}
}

func TestBindingMissingFileRaisesAlert(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedEngine())
	view := &recordingView{}
	h := newHarness(t, cfg, view)

	missing := filepath.Join(testsupport.BaseDir(cfg), "nope.mp4")
	if err := h.binding.OnFileSelected(context.Background(), missing); err == nil {
		t.Fatal("expected error for missing file")
	}
	alerts := view.alertList()
	if len(alerts) != 1 || !strings.HasPrefix(alerts[0], "Could not open ") {
		t.Fatalf("unexpected alerts %v", alerts)
	}
	if _, ok := h.orch.Selected(); ok {
		t.Fatal("expected no selection after failed open")
	}
}

func TestBindingConvertWithoutSelectionAlerts(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedEngine())
	view := &recordingView{}
	h := newHarness(t, cfg, view)

	_, err := h.binding.OnConvert(context.Background(), transcode.Form{})
	if !errors.Is(err, convert.ErrNoInput) {
		t.Fatalf("expected ErrNoInput, got %v", err)
	}
	if alerts := view.alertList(); len(alerts) != 1 || alerts[0] != "Please select a video file first." {
		t.Fatalf("unexpected alerts %v", alerts)
	}
	if len(view.shown) != 0 || view.hidden != 0 {
		t.Fatalf("expected artifact state untouched, shown=%d hidden=%d", len(view.shown), view.hidden)
	}
}

func TestBindingEmptyPathClearsSelection(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedEngine())
	view := &recordingView{}
	h := newHarness(t, cfg, view)

	if err := h.binding.OnFileSelected(context.Background(), "   "); err != nil {
		t.Fatalf("OnFileSelected: %v", err)
	}
	if got := view.lastStatus(); got.State != convert.StateIdle || got.Text != "Select a video to begin." {
		t.Fatalf("unexpected status %+v", got)
	}
	if h.binding.CanConvert() {
		t.Fatal("expected convert disabled without a selection")
	}
}

func TestBindingEngineFailureSurfacesStderr(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithFailingEngine("Invalid data found when processing input"))
	view := &recordingView{}
	h := newHarness(t, cfg, view)

	video := filepath.Join(testsupport.BaseDir(cfg), "broken.mov")
	testsupport.WriteFile(t, video, 128)
	if err := h.binding.OnFileSelected(context.Background(), video); err != nil {
		t.Fatalf("OnFileSelected: %v", err)
	}
	h.orch.Wait()

	if _, err := h.binding.OnConvert(context.Background(), transcode.Form{}); err == nil {
		t.Fatal("expected conversion failure")
	}
	got := view.lastStatus()
	if got.State != convert.StateError || !strings.Contains(got.Text, "Invalid data found when processing input") {
		t.Fatalf("unexpected status %+v", got)
	}
	if len(view.shown) != 0 {
		t.Fatal("expected no artifact after failure")
	}
	if !h.binding.CanConvert() {
		t.Fatal("expected convert re-enabled after failure")
	}
}

func containsString(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
