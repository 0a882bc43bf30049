package convert

import "gifbake/internal/artifact"

// State names the orchestrator's externally visible phase.
type State string

const (
	StateIdle          State = "idle"
	StateSelected      State = "selected"
	StateLoadingEngine State = "loading-engine"
	StateReady         State = "ready"
	StateEngineFailed  State = "engine-failed"
	StateConverting    State = "converting"
	StateDone          State = "done"
	StateError         State = "error"
)

// Observer receives every user-visible change. Implementations must be safe
// for concurrent use.
type Observer interface {
	StatusChanged(state State, message string)
	// ProgressChanged reports the indicator's visibility and value in [0, 100].
	ProgressChanged(visible bool, percent float64)
	ConvertEnabled(enabled bool)
	// ArtifactChanged shows art, or hides the current artifact when art is nil.
	ArtifactChanged(art *artifact.Artifact)
	Alert(message string)
}

type nopObserver struct{}

func (nopObserver) StatusChanged(State, string) {}
func (nopObserver) ProgressChanged(bool, float64) {}
func (nopObserver) ConvertEnabled(bool) {}
func (nopObserver) ArtifactChanged(*artifact.Artifact) {}
func (nopObserver) Alert(string) {}
