package testsupport

import (
	"bytes"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, bytes.Repeat([]byte{0x42}, int(size)), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// GIFBytes encodes a looping animated GIF with the given frame count and size.
func GIFBytes(t testing.TB, frames, width, height int) []byte {
	t.Helper()

	if frames <= 0 {
		frames = 1
	}
	anim := &gif.GIF{LoopCount: 0}
	for i := 0; i < frames; i++ {
		frame := image.NewPaletted(image.Rect(0, 0, width, height), palette.Plan9)
		fill := color.RGBA{R: uint8(80 * i), G: 120, B: 200, A: 255}
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				frame.Set(x, y, fill)
			}
		}
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 10)
	}
	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, anim); err != nil {
		t.Fatalf("encode gif: %v", err)
	}
	return buf.Bytes()
}

// WriteGIF writes GIFBytes to path.
func WriteGIF(t testing.TB, path string, frames, width, height int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, GIFBytes(t, frames, width, height), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
