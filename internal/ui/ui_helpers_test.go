package ui_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"gifbake/internal/artifact"
	"gifbake/internal/config"
	"gifbake/internal/convert"
	"gifbake/internal/engine"
	"gifbake/internal/logging"
	"gifbake/internal/transcode"
	"gifbake/internal/ui"
)

type statusLine struct {
	State convert.State
	Text  string
}

type recordingView struct {
	mu       sync.Mutex
	statuses []statusLine
	progress []float64
	enabled  []bool
	shown    []artifact.Artifact
	hidden   int
	alerts   []string
}

func (v *recordingView) ShowStatus(state convert.State, text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.statuses = append(v.statuses, statusLine{State: state, Text: text})
}

func (v *recordingView) ShowProgress(visible bool, percent float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if visible {
		v.progress = append(v.progress, percent)
	}
}

func (v *recordingView) SetConvertEnabled(enabled bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.enabled = append(v.enabled, enabled)
}

func (v *recordingView) ShowArtifact(art artifact.Artifact) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.shown = append(v.shown, art)
}

func (v *recordingView) HideArtifact() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.hidden++
}

func (v *recordingView) Alert(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.alerts = append(v.alerts, message)
}

func (v *recordingView) lastStatus() statusLine {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.statuses) == 0 {
		return statusLine{}
	}
	return v.statuses[len(v.statuses)-1]
}

func (v *recordingView) statusTexts() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]string, 0, len(v.statuses))
	for _, s := range v.statuses {
		out = append(out, s.Text)
	}
	return out
}

func (v *recordingView) alertList() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.alerts...)
}

type harness struct {
	binding   *ui.Binding
	orch      *convert.Orchestrator
	publisher *artifact.Publisher
}

// newHarness wires a binding, orchestrator, publisher and ffmpeg engine the
// way the CLI does, rendering into view.
func newHarness(t *testing.T, cfg *config.Config, view ui.View) *harness {
	t.Helper()
	logger := logging.NewNop()
	eng, err := engine.NewFFmpeg(cfg.FFmpegBinary(), cfg.Paths.StagingDir, logger)
	if err != nil {
		t.Fatalf("NewFFmpeg: %v", err)
	}
	pub := artifact.NewPublisher(cfg.Paths.ArtifactDir, cfg.Convert.PreviewWidth, logger)
	binding := ui.NewBinding(view, transcode.Defaults{FrameRate: cfg.Convert.FrameRate, Width: cfg.Convert.Width})
	orch := convert.New(eng, pub, logger, convert.WithObserver(binding))
	binding.Attach(orch)
	t.Cleanup(func() {
		orch.Wait()
		_ = orch.Close()
	})
	return &harness{binding: binding, orch: orch, publisher: pub}
}

type scriptedPrompts struct {
	t        *testing.T
	inputs   []string
	confirms []bool
	asked    []string
}

func (p *scriptedPrompts) Input(_ context.Context, cfg ui.InputConfig) (string, error) {
	p.asked = append(p.asked, cfg.Message)
	if len(p.inputs) == 0 {
		return "", fmt.Errorf("unexpected input prompt %q", cfg.Message)
	}
	value := p.inputs[0]
	p.inputs = p.inputs[1:]
	if value == "" {
		value = cfg.Default
	}
	if cfg.Validator != nil {
		if err := cfg.Validator(value); err != nil {
			return "", err
		}
	}
	return value, nil
}

func (p *scriptedPrompts) Confirm(_ context.Context, cfg ui.ConfirmConfig) (bool, error) {
	p.asked = append(p.asked, cfg.Message)
	if len(p.confirms) == 0 {
		return false, fmt.Errorf("unexpected confirm prompt %q", cfg.Message)
	}
	value := p.confirms[0]
	p.confirms = p.confirms[1:]
	return value, nil
}
