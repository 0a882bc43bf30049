package ui

import (
	"gifbake/internal/artifact"
	"gifbake/internal/convert"
)

// View renders orchestrator state.
type View interface {
	ShowStatus(state convert.State, text string)
	ShowProgress(visible bool, percent float64)
	SetConvertEnabled(enabled bool)
	ShowArtifact(art artifact.Artifact)
	HideArtifact()
	Alert(message string)
}
