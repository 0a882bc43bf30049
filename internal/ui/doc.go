// Package ui binds user gestures to the conversion orchestrator and renders
// its state changes.
//
// Binding is the glue: OnFileSelected and OnConvert map the two gestures to
// orchestrator calls, and as the orchestrator's Observer it forwards every
// change to a View one to one. TerminalView renders status lines, a
// progress bar and the artifact summary. Session drives the interactive
// flow through a PromptDriver, which the survey-backed driver implements
// for real terminals.
package ui
