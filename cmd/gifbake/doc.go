// Package main hosts the gifbake CLI entrypoint and command graph.
//
// The Cobra-based command tree exposes one-shot conversion, the interactive
// select/convert/save session, media inspection, environment diagnostics,
// staging workspace maintenance and configuration scaffolding. The command
// context resolves configuration once and wires the engine, publisher,
// orchestrator and UI binding so subcommands only deal with presentation.
//
// Keep this package lean: add behaviour to the internal packages first and
// surface it here through dedicated commands or flags.
package main
