package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const stubVersion = "ffmpeg version 0.0-gifbake-stub"

// stubArgs finds the -i argument and the trailing output argument.
const stubArgs = `input=""
output=""
prev=""
for arg in "$@"; do
  if [ "$prev" = "-i" ]; then input="$arg"; fi
  prev="$arg"
  output="$arg"
done
`

// WriteStubFFmpeg writes an ffmpeg stand-in into dir and returns its path.
// It answers -version, prints an input duration banner and -progress lines,
// and copies fixture to the output argument.
func WriteStubFFmpeg(t testing.TB, dir, fixture string) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("#!/bin/sh\n")
	fmt.Fprintf(&b, "if [ \"$1\" = \"-version\" ]; then echo %q; exit 0; fi\n", stubVersion)
	b.WriteString(stubArgs)
	b.WriteString("if [ ! -f \"$input\" ]; then echo \"$input: No such file or directory\" >&2; exit 1; fi\n")
	b.WriteString("echo '  Duration: 00:00:02.00, start: 0.000000, bitrate: 100 kb/s' >&2\n")
	b.WriteString("echo out_time_us=1000000\necho progress=continue\necho out_time_us=2000000\necho progress=end\n")
	fmt.Fprintf(&b, "cp %q \"$output\"\n", fixture)
	return writeScript(t, dir, "ffmpeg", b.String())
}

// WriteFailingFFmpeg writes an ffmpeg stand-in that loads fine and fails
// every conversion, printing message as its last diagnostic line.
func WriteFailingFFmpeg(t testing.TB, dir, message string) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("#!/bin/sh\n")
	fmt.Fprintf(&b, "if [ \"$1\" = \"-version\" ]; then echo %q; exit 0; fi\n", stubVersion)
	fmt.Fprintf(&b, "echo %q >&2\nexit 1\n", message)
	return writeScript(t, dir, "ffmpeg", b.String())
}

// WriteStubFFprobe writes an ffprobe stand-in describing a two second
// 640x360 clip at 25 fps.
func WriteStubFFprobe(t testing.TB, dir string) string {
	t.Helper()
	payload := `{"streams":[{"index":0,"codec_name":"h264","codec_type":"video","width":640,"height":360,` +
		`"pix_fmt":"yuv420p","avg_frame_rate":"25/1","r_frame_rate":"25/1","duration":"2.000000"}],` +
		`"format":{"filename":"clip.mp4","nb_streams":1,"duration":"2.000000","size":"250000","bit_rate":"1000000","format_name":"mov,mp4,m4a,3gp,3g2,mj2"}}`
	return writeScript(t, dir, "ffprobe", "#!/bin/sh\ncat <<'JSON'\n"+payload+"\nJSON\n")
}

func writeScript(t testing.TB, dir, name, body string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir bin dir: %v", err)
	}
	target := filepath.Join(dir, name)
	if err := os.WriteFile(target, []byte(body), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
	return target
}
