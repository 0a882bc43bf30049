// Package artifact publishes converted GIFs as locally addressable
// resources.
//
// A Publisher owns at most one published artifact at a time: the GIF file
// under the artifact directory, its file:// URL, and a PNG preview of the
// first frame. Publishing a new artifact releases the previous one's files.
// SaveAs copies the current artifact to a destination directory under its
// download filename.
package artifact
