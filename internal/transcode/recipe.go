package transcode

import (
	"path/filepath"
	"strconv"
	"strings"
)

const (
	compressedPaletteGen = "=max_colors=128:stats_mode=diff"
	compressedPaletteUse = "=dither=bayer:bayer_scale=3"
)

// FilterExpr builds the engine filter graph: frame-rate sampling, lanczos
// scaling that preserves the aspect ratio, then palette generation and
// application.
func FilterExpr(p Params) string {
	var gen, use string
	if p.Compress {
		gen, use = compressedPaletteGen, compressedPaletteUse
	}
	var b strings.Builder
	b.WriteString("fps=")
	b.WriteString(strconv.Itoa(p.FrameRate))
	b.WriteString(",scale=")
	b.WriteString(strconv.Itoa(p.Width))
	b.WriteString(":-1:flags=lanczos,split[s0][s1];[s0]palettegen")
	b.WriteString(gen)
	b.WriteString("[p];[s1][p]paletteuse")
	b.WriteString(use)
	return b.String()
}

// Args assembles the engine argument list for one conversion. The seek goes
// before the input so the engine skips decoding; the duration limits output.
func Args(input, output string, p Params) []string {
	args := make([]string, 0, 12)
	if p.Start > 0 {
		args = append(args, "-ss", formatSeconds(p.Start))
	}
	args = append(args, "-i", input)
	if p.Duration > 0 {
		args = append(args, "-t", formatSeconds(p.Duration))
	}
	return append(args, "-vf", FilterExpr(p), "-loop", "0", output)
}

// DownloadName derives the filename offered for download from the input name.
func DownloadName(inputName string, compressed bool) string {
	base := filepath.Base(strings.ReplaceAll(inputName, "\\", "/"))
	if base == "." || base == "/" {
		base = ""
	}
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if strings.TrimSpace(stem) == "" {
		stem = "animation"
	}
	if compressed {
		stem += "_compressed"
	}
	return stem + "_animated.gif"
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
