package transcode

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseFallsBackToDefaults(t *testing.T) {
	tests := []struct {
		name string
		form Form
		want Params
	}{
		{name: "empty", form: Form{}, want: Params{FrameRate: 10, Width: 320}},
		{name: "non numeric", form: Form{FrameRate: "fast", Width: "wide"}, want: Params{FrameRate: 10, Width: 320}},
		{name: "zero and negative", form: Form{FrameRate: "0", Width: "-20"}, want: Params{FrameRate: 10, Width: 320}},
		{name: "leading integer", form: Form{FrameRate: "12fps", Width: "480.9"}, want: Params{FrameRate: 12, Width: 480}},
		{name: "whitespace", form: Form{FrameRate: " 15 ", Width: "\t640\n"}, want: Params{FrameRate: 15, Width: 640}},
		{name: "compress passes through", form: Form{Compress: true}, want: Params{FrameRate: 10, Width: 320, Compress: true}},
		{name: "trim window", form: Form{Start: "1.5", Duration: "3"}, want: Params{FrameRate: 10, Width: 320, Start: 1.5, Duration: 3}},
		{name: "invalid trim", form: Form{Start: "-2", Duration: "soon"}, want: Params{FrameRate: 10, Width: 320}},
		{name: "nan trim", form: Form{Start: "NaN"}, want: Params{FrameRate: 10, Width: 320}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Parse(tc.form, Defaults{})
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("Parse mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseUsesConfiguredDefaults(t *testing.T) {
	got := Parse(Form{FrameRate: "", Width: "x"}, Defaults{FrameRate: 24, Width: 800})
	if got.FrameRate != 24 || got.Width != 800 {
		t.Fatalf("expected configured defaults, got %+v", got)
	}
}

func TestFilterExprDefault(t *testing.T) {
	want := "fps=10,scale=320:-1:flags=lanczos,split[s0][s1];[s0]palettegen[p];[s1][p]paletteuse"
	if got := FilterExpr(DefaultParams()); got != want {
		t.Fatalf("FilterExpr = %q, want %q", got, want)
	}
}

func TestFilterExprCompressed(t *testing.T) {
	p := Params{FrameRate: 15, Width: 480, Compress: true}
	want := "fps=15,scale=480:-1:flags=lanczos,split[s0][s1];[s0]palettegen=max_colors=128:stats_mode=diff[p];[s1][p]paletteuse=dither=bayer:bayer_scale=3"
	if got := FilterExpr(p); got != want {
		t.Fatalf("FilterExpr = %q, want %q", got, want)
	}
}

func TestArgs(t *testing.T) {
	filter := FilterExpr(DefaultParams())
	tests := []struct {
		name   string
		params Params
		want   []string
	}{
		{
			name:   "whole input",
			params: DefaultParams(),
			want:   []string{"-i", "in.mp4", "-vf", filter, "-loop", "0", "out.gif"},
		},
		{
			name:   "trimmed",
			params: Params{FrameRate: 10, Width: 320, Start: 2.5, Duration: 4},
			want:   []string{"-ss", "2.5", "-i", "in.mp4", "-t", "4", "-vf", filter, "-loop", "0", "out.gif"},
		},
		{
			name:   "start only",
			params: Params{FrameRate: 10, Width: 320, Start: 1},
			want:   []string{"-ss", "1", "-i", "in.mp4", "-vf", filter, "-loop", "0", "out.gif"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, Args("in.mp4", "out.gif", tc.params)); diff != "" {
				t.Fatalf("Args mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDownloadName(t *testing.T) {
	tests := []struct {
		input      string
		compressed bool
		want       string
	}{
		{"holiday.mp4", false, "holiday_animated.gif"},
		{"holiday.mp4", true, "holiday_compressed_animated.gif"},
		{"/videos/cat.clip.webm", false, "cat.clip_animated.gif"},
		{"noext", false, "noext_animated.gif"},
		{"", true, "animation_compressed_animated.gif"},
		{".mov", false, "animation_animated.gif"},
	}
	for _, tc := range tests {
		if got := DownloadName(tc.input, tc.compressed); got != tc.want {
			t.Errorf("DownloadName(%q, %v) = %q, want %q", tc.input, tc.compressed, got, tc.want)
		}
	}
}
