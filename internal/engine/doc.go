// Package engine wraps the external media engine gifbake delegates all
// decoding, scaling, palette work and GIF encoding to.
//
// The contract mirrors an in-process engine handle: Load once with
// LoadOptions, stage inputs with WriteFile, execute a command-line-shaped
// argument list with Run, collect outputs with ReadFile, and drop them with
// Remove. The FFmpeg implementation backs the virtual filesystem with a
// lock-protected staging workspace and runs the ffmpeg binary inside it, so
// every name passed to the filesystem calls is a flat identifier and every
// name in an argument list resolves relative to that workspace.
//
// Progress is reported through the single LoadOptions.Progress callback as a
// fractional ratio, first while loading and then for every Run.
package engine
