// Package ffprobe inspects a source video before conversion.
//
// Inspect runs ffprobe in JSON mode and decodes the container and stream
// metadata. Result helpers pick the primary video stream, parse its frame
// rate and estimate how large a GIF rendered from it would be, which the
// inspect command shows next to the configured recipe.
package ffprobe
