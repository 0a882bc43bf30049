package deps

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// CheckEngine reports the FFmpeg binary used as the conversion engine and
// the ffprobe binary used for inspection.
//
// Static FFmpeg builds usually ship ffprobe in the same directory, so when
// ffprobeCommand is the bare default the sibling of the resolved ffmpeg wins
// over whatever PATH would return.
func CheckEngine(ffmpegCommand, ffprobeCommand string) []Status {
	engine := CheckBinaries([]Requirement{{
		Name:        "FFmpeg",
		Command:     ffmpegCommand,
		Description: "Conversion engine",
	}})[0]

	probe := Status{
		Name:        "FFprobe",
		Command:     strings.TrimSpace(ffprobeCommand),
		Description: "Media inspection",
		Optional:    true,
	}
	if probe.Command == "" {
		probe.Command = "ffprobe"
	}
	if engine.Available && probe.Command == "ffprobe" {
		if candidate, ok := siblingBinary(engine.Path, "ffprobe"); ok {
			probe.Command = candidate
			probe.Path = candidate
			probe.Available = true
			return []Status{engine, probe}
		}
	}
	if resolved, err := exec.LookPath(probe.Command); err == nil {
		probe.Path = resolved
		probe.Available = true
	} else {
		probe.Detail = fmt.Sprintf("binary %q not found", probe.Command)
	}
	return []Status{engine, probe}
}

func siblingBinary(resolved, name string) (string, bool) {
	if resolved == "" {
		return "", false
	}
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	candidate := filepath.Join(filepath.Dir(resolved), name)
	info, err := os.Stat(candidate)
	if err != nil || !isExecutable(info) {
		return "", false
	}
	return candidate, true
}

func isExecutable(info os.FileInfo) bool {
	if info == nil {
		return false
	}
	if info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
