// Package convert sequences a single video-to-GIF conversion.
//
// The Orchestrator owns the engine handle and loads it lazily: selecting a
// file starts a background load so it overlaps parameter entry, and Convert
// loads on demand when nothing has yet. Concurrent loads share one attempt.
// A conversion runs strictly in order:
//
//	stage input -> build arguments -> run engine -> read output -> publish
//
// inside a uniquely named staging slot that is removed whatever the outcome.
// Every state change is reported to an Observer, which the UI layer maps 1:1
// onto its view. Observer methods may be called from engine goroutines.
package convert
