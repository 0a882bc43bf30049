package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"gifbake/internal/artifact"
	"gifbake/internal/config"
	"gifbake/internal/convert"
	"gifbake/internal/transcode"
)

// Binding connects a View to an Orchestrator.
type Binding struct {
	view     View
	defaults transcode.Defaults

	mu      sync.Mutex
	orch    *convert.Orchestrator
	enabled bool
}

var _ convert.Observer = (*Binding)(nil)

// NewBinding constructs a binding rendering into view. Form fields that do
// not parse fall back to defaults.
func NewBinding(view View, defaults transcode.Defaults) *Binding {
	return &Binding{view: view, defaults: defaults}
}

// Attach wires the orchestrator the gestures are forwarded to. The
// orchestrator must have been built with this binding as its observer.
func (b *Binding) Attach(o *convert.Orchestrator) {
	b.mu.Lock()
	b.orch = o
	b.mu.Unlock()
}

func (b *Binding) orchestrator() (*convert.Orchestrator, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.orch == nil {
		return nil, errors.New("binding not attached")
	}
	return b.orch, nil
}

// OnFileSelected handles the file-selection gesture. An empty path clears
// the selection; a path that cannot be opened raises an alert.
func (b *Binding) OnFileSelected(ctx context.Context, path string) error {
	o, err := b.orchestrator()
	if err != nil {
		return err
	}
	path = strings.TrimSpace(path)
	if path == "" {
		o.SelectFile(ctx, nil)
		return nil
	}
	expanded, err := config.ExpandPath(path)
	if err != nil {
		b.view.Alert(fmt.Sprintf("Could not open %s: %v", path, err))
		return err
	}
	input, err := convert.FromFile(expanded)
	if err != nil {
		b.view.Alert(fmt.Sprintf("Could not open %s: %v", path, err))
		return err
	}
	o.SelectFile(ctx, input)
	return nil
}

// OnConvert handles the convert gesture with the raw form values.
func (b *Binding) OnConvert(ctx context.Context, form transcode.Form) (artifact.Artifact, error) {
	o, err := b.orchestrator()
	if err != nil {
		return artifact.Artifact{}, err
	}
	return o.Convert(ctx, transcode.Parse(form, b.defaults))
}

// CanConvert reports the convert control's last known state.
func (b *Binding) CanConvert() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.enabled
}

func (b *Binding) StatusChanged(state convert.State, message string) {
	b.view.ShowStatus(state, message)
}

func (b *Binding) ProgressChanged(visible bool, percent float64) {
	b.view.ShowProgress(visible, percent)
}

func (b *Binding) ConvertEnabled(enabled bool) {
	b.mu.Lock()
	b.enabled = enabled
	b.mu.Unlock()
	b.view.SetConvertEnabled(enabled)
}

func (b *Binding) ArtifactChanged(art *artifact.Artifact) {
	if art == nil {
		b.view.HideArtifact()
		return
	}
	b.view.ShowArtifact(*art)
}

func (b *Binding) Alert(message string) {
	b.view.Alert(message)
}
